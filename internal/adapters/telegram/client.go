/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package telegram

import (
    "bytes"
    "context"
    "encoding/json"
    "fmt"
    "io"
    "net/http"
    "strings"
    "time"

    "github.com/charleseiq/eiq-manager-tools/internal/config"
    "github.com/rs/zerolog"
)

const defaultAPI = "https://api.telegram.org"

type Client struct {
    token string
    api   string
    http  *http.Client
    log   zerolog.Logger
}

func NewClient(cfg config.Config, log zerolog.Logger) *Client {
    return &Client{ token: cfg.TelegramToken, api: defaultAPI, http: &http.Client{ Timeout: 10 * time.Second }, log: log }
}

// Enabled reports whether a bot token is configured.
func (c *Client) Enabled() bool { return c.token != "" }

func (c *Client) call(ctx context.Context, method string, body map[string]any) error {
    url := fmt.Sprintf("%s/bot%s/%s", strings.TrimRight(c.api, "/"), c.token, method)
    b, err := json.Marshal(body)
    if err != nil { return err }
    req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
    if err != nil { return err }
    req.Header.Set("Content-Type", "application/json")
    resp, err := c.http.Do(req)
    if err != nil { return err }
    defer resp.Body.Close()
    if resp.StatusCode >= 300 {
        bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
        return fmt.Errorf("telegram %s status=%d body=%s", method, resp.StatusCode, string(bodyBytes))
    }
    return nil
}

// SendMessagePlain sends without parse_mode to avoid markdown parsing errors
func (c *Client) SendMessagePlain(ctx context.Context, chatID int64, text string) error {
    if c.token == "" || chatID == 0 { return fmt.Errorf("telegram: missing token or chat id") }
    return c.call(ctx, "sendMessage", map[string]any{"chat_id": chatID, "text": text, "disable_web_page_preview": true})
}

// SetWebhook registers the webhook URL and secret with Telegram
func (c *Client) SetWebhook(ctx context.Context, webhookURL string, secretToken string) error {
    if c.token == "" || webhookURL == "" || secretToken == "" { return fmt.Errorf("telegram: missing token, url or secret") }
    return c.call(ctx, "setWebhook", map[string]any{
        "url": webhookURL,
        "secret_token": secretToken,
        "drop_pending_updates": true,
        "allowed_updates": []string{"message"},
    })
}
