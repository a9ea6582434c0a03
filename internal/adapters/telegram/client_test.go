/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package telegram

import (
    "context"
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/charleseiq/eiq-manager-tools/internal/config"
    "github.com/rs/zerolog"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestSendMessagePlain(t *testing.T) {
    var body map[string]any
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        assert.Equal(t, "/botT0K/sendMessage", r.URL.Path)
        assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
        _, _ = w.Write([]byte(`{"ok":true}`))
    }))
    defer srv.Close()

    c := NewClient(config.Config{TelegramToken: "T0K"}, zerolog.Nop())
    c.api = srv.URL
    require.NoError(t, c.SendMessagePlain(context.Background(), 42, "report ready"))
    assert.Equal(t, float64(42), body["chat_id"])
    assert.Equal(t, "report ready", body["text"])
    _, hasMode := body["parse_mode"]
    assert.False(t, hasMode)
}

func TestSendMessagePlain_ErrorStatus(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        w.WriteHeader(http.StatusBadRequest)
        _, _ = w.Write([]byte(`{"ok":false,"description":"can't parse entities"}`))
    }))
    defer srv.Close()
    c := NewClient(config.Config{TelegramToken: "T0K"}, zerolog.Nop())
    c.api = srv.URL
    err := c.SendMessagePlain(context.Background(), 1, "*bad")
    require.Error(t, err)
    assert.Contains(t, err.Error(), "status=400")
}

func TestMissingTokenOrChat(t *testing.T) {
    c := NewClient(config.Config{}, zerolog.Nop())
    assert.False(t, c.Enabled())
    assert.Error(t, c.SendMessagePlain(context.Background(), 1, "x"))
    assert.Error(t, c.SetWebhook(context.Background(), "https://x", "s"))
}
