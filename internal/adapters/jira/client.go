/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package jira

import (
    "bytes"
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "io"
    "net/http"
    "net/url"
    "strings"
    "time"

    "github.com/charleseiq/eiq-manager-tools/internal/config"
    "github.com/rs/zerolog"
    "golang.org/x/time/rate"
)

const (
    searchPageSize  = 5000
    worklogPageSize = 100
    maxAttempts     = 3
)

// APIError is a non-2xx response from Jira.
type APIError struct {
    Status int
    Body   string
}

func (e *APIError) Error() string {
    return fmt.Sprintf("jira api status=%d body=%s", e.Status, e.Body)
}

func (e *APIError) retryable() bool {
    return e.Status == http.StatusTooManyRequests || e.Status >= 500
}

type Client struct {
    baseURL string
    email   string
    token   string
    pat     string
    http    *http.Client
    log     zerolog.Logger
    limiter *rate.Limiter
    backoff time.Duration
}

func NewClient(cfg config.Config, log zerolog.Logger) *Client {
    limit := rate.Inf
    if cfg.JiraRateLimit > 0 {
        limit = rate.Limit(cfg.JiraRateLimit)
    }
    return &Client{
        baseURL: cfg.JiraBaseURL,
        email:   cfg.JiraEmail,
        token:   cfg.JiraToken,
        pat:     cfg.JiraPAT,
        http:    &http.Client{Timeout: cfg.HTTPTimeout},
        log:     log,
        limiter: rate.NewLimiter(limit, 1),
        backoff: 300 * time.Millisecond,
    }
}

func (c *Client) apiURL(path string, q url.Values) string {
    base := strings.TrimRight(c.baseURL, "/")
    if !strings.HasPrefix(path, "/") {
        path = "/" + path
    }
    u := base + "/rest/api/3" + path
    if len(q) > 0 {
        u = u + "?" + q.Encode()
    }
    return u
}

func (c *Client) authorize(req *http.Request) {
    switch {
    case c.email != "" && c.token != "":
        req.SetBasicAuth(c.email, c.token)
    case c.pat != "":
        req.Header.Set("Authorization", "Bearer "+c.pat)
    }
}

// doJSON sends one request, retrying 429 and 5xx with exponential backoff,
// and decodes the response body into out.
func (c *Client) doJSON(ctx context.Context, method, u string, body any, out any) error {
    if c.baseURL == "" {
        return errors.New("jira: empty baseURL")
    }
    var payload []byte
    if body != nil {
        b, err := json.Marshal(body)
        if err != nil {
            return err
        }
        payload = b
    }
    var lastErr error
    for attempt := 0; attempt < maxAttempts; attempt++ {
        if attempt > 0 {
            select {
            case <-ctx.Done():
                return ctx.Err()
            case <-time.After(c.backoff * time.Duration(1<<(attempt-1))):
            }
        }
        if err := c.limiter.Wait(ctx); err != nil {
            return err
        }
        var r io.Reader
        if payload != nil {
            r = bytes.NewReader(payload)
        }
        req, err := http.NewRequestWithContext(ctx, method, u, r)
        if err != nil {
            return err
        }
        req.Header.Set("Accept", "application/json")
        if payload != nil {
            req.Header.Set("Content-Type", "application/json")
        }
        c.authorize(req)

        lastErr = c.roundTrip(req, out)
        if lastErr == nil {
            return nil
        }
        var apiErr *APIError
        if errors.As(lastErr, &apiErr) && !apiErr.retryable() {
            return lastErr
        }
        if ctx.Err() != nil {
            return ctx.Err()
        }
        c.log.Warn().Err(lastErr).Int("attempt", attempt+1).Str("url", u).Msg("jira request failed")
    }
    return lastErr
}

func (c *Client) roundTrip(req *http.Request, out any) error {
    resp, err := c.http.Do(req)
    if err != nil {
        return err
    }
    defer resp.Body.Close()
    if resp.StatusCode >= 300 {
        b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
        return &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(b))}
    }
    if out == nil {
        return nil
    }
    return json.NewDecoder(resp.Body).Decode(out)
}

// SearchKeys runs a JQL search and returns up to max issue keys, following
// nextPageToken until Jira reports the last page.
func (c *Client) SearchKeys(ctx context.Context, jql string, max int) ([]string, error) {
    if strings.TrimSpace(jql) == "" {
        return nil, errors.New("jira: empty jql")
    }
    if max < 1 {
        max = 1
    }
    body := map[string]any{
        "jql":        jql,
        "fields":     []string{"id", "key"},
        "maxResults": min(searchPageSize, max),
    }
    var keys []string
    for {
        var page searchPage
        if err := c.doJSON(ctx, http.MethodPost, c.apiURL("/search/jql", nil), body, &page); err != nil {
            return nil, err
        }
        if len(page.ErrorMessages) > 0 {
            return nil, fmt.Errorf("jira search: %s", strings.Join(page.ErrorMessages, "; "))
        }
        for _, is := range page.Issues {
            keys = append(keys, is.Key)
        }
        last := page.IsLast == nil || *page.IsLast
        if last || page.NextPageToken == "" || len(keys) >= max {
            break
        }
        body["nextPageToken"] = page.NextPageToken
    }
    if len(keys) > max {
        keys = keys[:max]
    }
    return keys, nil
}

// Issue fetches a single issue with all fields.
func (c *Client) Issue(ctx context.Context, key string) (RawIssue, error) {
    if key == "" {
        return RawIssue{}, errors.New("jira: empty issue key")
    }
    var out RawIssue
    err := c.doJSON(ctx, http.MethodGet, c.apiURL("/issue/"+url.PathEscape(key), nil), nil, &out)
    return out, err
}

// Worklogs pages through every worklog of an issue.
func (c *Client) Worklogs(ctx context.Context, key string) ([]RawWorklog, error) {
    if key == "" {
        return nil, errors.New("jira: empty issue key")
    }
    var out []RawWorklog
    start := 0
    for {
        q := url.Values{}
        q.Set("startAt", fmt.Sprint(start))
        q.Set("maxResults", fmt.Sprint(worklogPageSize))
        var page worklogPage
        if err := c.doJSON(ctx, http.MethodGet, c.apiURL("/issue/"+url.PathEscape(key)+"/worklog", q), nil, &page); err != nil {
            return nil, err
        }
        out = append(out, page.Worklogs...)
        next := page.StartAt + len(page.Worklogs)
        if len(page.Worklogs) == 0 || next >= page.Total {
            break
        }
        start = next
    }
    return out, nil
}

// Fields lists all fields; used to discover custom field ids by name.
func (c *Client) Fields(ctx context.Context) ([]Field, error) {
    var out []Field
    err := c.doJSON(ctx, http.MethodGet, c.apiURL("/field", nil), nil, &out)
    return out, err
}
