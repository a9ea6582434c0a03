/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package openai

import (
    "context"
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/charleseiq/eiq-manager-tools/internal/config"
    "github.com/openai/openai-go/v2/option"
    "github.com/rs/zerolog"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestAnalyze_MissingKey(t *testing.T) {
    c := NewClient(config.Config{}, zerolog.Nop())
    assert.False(t, c.Enabled())
    _, err := c.Analyze(context.Background(), "sys", "user")
    assert.ErrorIs(t, err, ErrMissingKey)
}

func TestAnalyze_SendsBothMessages(t *testing.T) {
    var got struct {
        Model       string  `json:"model"`
        Temperature float64 `json:"temperature"`
        Messages    []struct {
            Role    string `json:"role"`
            Content string `json:"content"`
        } `json:"messages"`
    }
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        assert.Equal(t, "/chat/completions", r.URL.Path)
        assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
        assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
        w.Header().Set("Content-Type", "application/json")
        _, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"gpt-4.1",
            "choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"## Executive Summary\nSolid half."}}]}`))
    }))
    defer srv.Close()

    c := NewClient(config.Config{OpenAIKey: "sk-test", OpenAIModel: "gpt-4.1"}, zerolog.Nop(), option.WithBaseURL(srv.URL), option.WithMaxRetries(0))
    out, err := c.Analyze(context.Background(), "be precise", "metrics here")
    require.NoError(t, err)
    assert.Equal(t, "## Executive Summary\nSolid half.", out)
    assert.Equal(t, "gpt-4.1", got.Model)
    assert.InDelta(t, 0.3, got.Temperature, 1e-9)
    require.Len(t, got.Messages, 2)
    assert.Equal(t, "system", got.Messages[0].Role)
    assert.Equal(t, "be precise", got.Messages[0].Content)
    assert.Equal(t, "user", got.Messages[1].Role)
}

func TestAnalyze_NoChoices(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        w.Header().Set("Content-Type", "application/json")
        _, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"gpt-4.1","choices":[]}`))
    }))
    defer srv.Close()
    c := NewClient(config.Config{OpenAIKey: "sk-test"}, zerolog.Nop(), option.WithBaseURL(srv.URL), option.WithMaxRetries(0))
    _, err := c.Analyze(context.Background(), "s", "u")
    assert.Error(t, err)
}
