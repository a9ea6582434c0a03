/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package openai

import (
    "context"
    "errors"
    "strings"

    "github.com/charleseiq/eiq-manager-tools/internal/config"
    openai "github.com/openai/openai-go/v2"
    "github.com/openai/openai-go/v2/option"
    "github.com/openai/openai-go/v2/shared"
    "github.com/rs/zerolog"
)

const temperature = 0.3

var ErrMissingKey = errors.New("openai: missing key")

type Client struct {
    key   string
    model string
    cli   openai.Client
    log   zerolog.Logger
}

// NewClient builds the chat client. Extra options are appended after the
// key and timeout, so tests can point it at a local server.
func NewClient(cfg config.Config, log zerolog.Logger, opts ...option.RequestOption) *Client {
    model := cfg.OpenAIModel
    if strings.TrimSpace(model) == "" { model = "gpt-4.1" }
    base := []option.RequestOption{option.WithAPIKey(cfg.OpenAIKey)}
    if cfg.OpenAITimeout > 0 { base = append(base, option.WithRequestTimeout(cfg.OpenAITimeout)) }
    cli := openai.NewClient(append(base, opts...)...)
    return &Client{key: cfg.OpenAIKey, model: model, cli: cli, log: log}
}

// Enabled reports whether a key is configured.
func (c *Client) Enabled() bool { return strings.TrimSpace(c.key) != "" }

// Analyze sends one system + user exchange and returns the markdown answer.
func (c *Client) Analyze(ctx context.Context, system, user string) (string, error) {
    if !c.Enabled() { return "", ErrMissingKey }
    c.log.Info().Str("model", c.model).Int("prompt_chars", len(user)).Msg("openai analyze call")
    params := openai.ChatCompletionNewParams{
        Model: shared.ChatModel(c.model),
        Messages: []openai.ChatCompletionMessageParamUnion{
            openai.SystemMessage(system),
            openai.UserMessage(user),
        },
        Temperature: openai.Float(temperature),
    }
    resp, err := c.cli.Chat.Completions.New(ctx, params)
    if err != nil { return "", err }
    if len(resp.Choices) == 0 { return "", errors.New("openai: no choices") }
    return resp.Choices[0].Message.Content, nil
}
