/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package jira

import (
    "context"
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "sync/atomic"
    "testing"
    "time"

    "github.com/charleseiq/eiq-manager-tools/internal/config"
    "github.com/rs/zerolog"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.Handler) *Client {
    t.Helper()
    srv := httptest.NewServer(h)
    t.Cleanup(srv.Close)
    c := NewClient(config.Config{JiraBaseURL: srv.URL, JiraEmail: "bot@example.com", JiraToken: "tok", HTTPTimeout: 5 * time.Second}, zerolog.Nop())
    c.backoff = time.Millisecond
    return c
}

func TestSearchKeys_FollowsNextPageToken(t *testing.T) {
    var calls int32
    c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        require.Equal(t, "/rest/api/3/search/jql", r.URL.Path)
        require.Equal(t, http.MethodPost, r.Method)
        user, pass, ok := r.BasicAuth()
        require.True(t, ok)
        assert.Equal(t, "bot@example.com", user)
        assert.Equal(t, "tok", pass)

        var body map[string]any
        require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
        n := atomic.AddInt32(&calls, 1)
        if n == 1 {
            assert.Nil(t, body["nextPageToken"])
            _, _ = w.Write([]byte(`{"issues":[{"key":"WC-1"},{"key":"WC-2"}],"isLast":false,"nextPageToken":"p2"}`))
            return
        }
        assert.Equal(t, "p2", body["nextPageToken"])
        _, _ = w.Write([]byte(`{"issues":[{"key":"WC-3"}],"isLast":true}`))
    }))
    keys, err := c.SearchKeys(context.Background(), "project = WC", 100)
    require.NoError(t, err)
    assert.Equal(t, []string{"WC-1", "WC-2", "WC-3"}, keys)
    assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestSearchKeys_TruncatesToMax(t *testing.T) {
    c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        _, _ = w.Write([]byte(`{"issues":[{"key":"WC-1"},{"key":"WC-2"},{"key":"WC-3"}],"isLast":false,"nextPageToken":"more"}`))
    }))
    keys, err := c.SearchKeys(context.Background(), "project = WC", 2)
    require.NoError(t, err)
    assert.Equal(t, []string{"WC-1", "WC-2"}, keys)
}

func TestDoJSON_RetriesServerErrors(t *testing.T) {
    var calls int32
    c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if atomic.AddInt32(&calls, 1) < 3 {
            w.WriteHeader(http.StatusServiceUnavailable)
            return
        }
        _, _ = w.Write([]byte(`{"key":"WC-9","fields":{"summary":"ok"}}`))
    }))
    raw, err := c.Issue(context.Background(), "WC-9")
    require.NoError(t, err)
    assert.Equal(t, "ok", Summary(raw))
    assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestDoJSON_DoesNotRetryClientErrors(t *testing.T) {
    var calls int32
    c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        atomic.AddInt32(&calls, 1)
        w.WriteHeader(http.StatusNotFound)
        _, _ = w.Write([]byte(`{"errorMessages":["Issue does not exist"]}`))
    }))
    _, err := c.Issue(context.Background(), "WC-404")
    var apiErr *APIError
    require.ErrorAs(t, err, &apiErr)
    assert.Equal(t, http.StatusNotFound, apiErr.Status)
    assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestWorklogs_Paginates(t *testing.T) {
    c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        assert.Equal(t, "/rest/api/3/issue/WC-1/worklog", r.URL.Path)
        if r.URL.Query().Get("startAt") == "0" {
            _, _ = w.Write([]byte(`{"startAt":0,"maxResults":1,"total":2,"worklogs":[{"id":"1","timeSpentSeconds":60,"started":"2025-08-01T09:00:00.000+0000","author":{"displayName":"Ann"}}]}`))
            return
        }
        _, _ = w.Write([]byte(`{"startAt":1,"maxResults":1,"total":2,"worklogs":[{"id":"2","timeSpentSeconds":120}]}`))
    }))
    wls, err := c.Worklogs(context.Background(), "WC-1")
    require.NoError(t, err)
    require.Len(t, wls, 2)
    d := DecodeWorklog("WC-1", wls[0])
    assert.Equal(t, "Ann", d.Author)
    assert.Equal(t, int64(60), d.Seconds)
    assert.Equal(t, 2025, d.Started.Year())
}

func TestEmptyInputsFailFast(t *testing.T) {
    c := NewClient(config.Config{}, zerolog.Nop())
    _, err := c.SearchKeys(context.Background(), " ", 10)
    assert.Error(t, err)
    _, err = c.Issue(context.Background(), "")
    assert.Error(t, err)
    _, err = c.Fields(context.Background())
    assert.Error(t, err)
}
