/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package http

import (
    "context"
    "errors"
    "net/http"
    "time"

    "github.com/charleseiq/eiq-manager-tools/internal/config"
    "github.com/charleseiq/eiq-manager-tools/internal/domain"
    "github.com/charleseiq/eiq-manager-tools/internal/period"
    "github.com/charleseiq/eiq-manager-tools/internal/services"
    "github.com/gin-gonic/gin"
    "github.com/rs/zerolog"
)

type service interface {
    GenerateReport(ctx context.Context, req services.Request) (*services.Outcome, error)
    LastRun(ctx context.Context) (*domain.ReportRun, error)
    SendHelp(ctx context.Context, chatID int64) error
    ParseCommand(text string) (services.Command, error)
}

type Handlers struct {
    cfg config.Config
    log zerolog.Logger
    svc service
    // async runs detached work; tests swap it for a synchronous call
    async func(func())
}

func NewHandlers(cfg config.Config, log zerolog.Logger, svc service) *Handlers {
    return &Handlers{cfg: cfg, log: log, svc: svc, async: func(f func()) { go f() }}
}

// detached runs fn outside the request lifetime so HTTP cancellation does not abort it.
func (h *Handlers) detached(timeout time.Duration, fn func(ctx context.Context)) {
    h.async(func(){
        ctx, cancel := context.WithTimeout(context.Background(), timeout); defer cancel()
        fn(ctx)
    })
}

func (h *Handlers) Healthz(c *gin.Context) {
    c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handlers) LastRun(c *gin.Context) {
    lr, err := h.svc.LastRun(c.Request.Context())
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }
    if lr == nil {
        c.JSON(http.StatusNotFound, gin.H{"error": "no runs recorded"})
        return
    }
    c.JSON(http.StatusOK, lr)
}

type reportRequest struct {
    Name     string `json:"name"`
    Username string `json:"username"`
    Period   string `json:"period"`
    Start    string `json:"start"`
    End      string `json:"end"`
}

// QueueReport validates the window up front and generates in the background.
func (h *Handlers) QueueReport(c *gin.Context) {
    var body reportRequest
    if err := c.ShouldBindJSON(&body); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }
    if body.Name == "" && body.Username == "" {
        c.JSON(http.StatusBadRequest, gin.H{"error": "name or username required"})
        return
    }
    key, _, err := period.Resolve(body.Period, body.Start, body.End)
    if err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }
    req := services.Request{Name: body.Name, Username: body.Username, Period: body.Period, Start: body.Start, End: body.End}
    h.detached(30*time.Minute, func(ctx context.Context){
        if _, err := h.svc.GenerateReport(ctx, req); err != nil {
            h.log.Error().Err(err).Str("period", key).Msg("queued report failed")
        }
    })
    c.JSON(http.StatusAccepted, gin.H{"status": "queued", "period_key": key})
}

func (h *Handlers) Period(c *gin.Context) {
    p, err := period.Parse(c.Param("token"))
    if err != nil {
        status := http.StatusInternalServerError
        if errors.Is(err, period.ErrInvalidPeriodFormat) { status = http.StatusBadRequest }
        c.JSON(status, gin.H{"error": err.Error()})
        return
    }
    c.JSON(http.StatusOK, gin.H{
        "key":   period.Key(p),
        "label": period.Label(p),
        "start": p.Start.Format("2006-01-02"),
        "end":   p.End.Format("2006-01-02"),
    })
}

func (h *Handlers) TelegramWebhook(c *gin.Context) {
    headerSecret := c.GetHeader("X-Telegram-Bot-Api-Secret-Token")
    pathSecret := c.Param("secret")
    // Accept either header secret (preferred) or path secret
    if h.cfg.TelegramWebhookSecret == "" || (headerSecret != h.cfg.TelegramWebhookSecret && pathSecret != h.cfg.TelegramWebhookSecret) {
        c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
        return
    }

    var upd struct {
        Message *struct {
            Chat struct { ID int64 `json:"id"` } `json:"chat"`
            Text string `json:"text"`
        } `json:"message"`
    }
    if err := c.ShouldBindJSON(&upd); err != nil || upd.Message == nil {
        c.JSON(http.StatusOK, gin.H{"ok": true})
        return
    }
    chatID := upd.Message.Chat.ID
    // With no allow-list configured only /help is served; reports stay private.
    noAllowList := len(h.cfg.TelegramChatIDs) == 0
    allowed := false
    for _, id := range h.cfg.TelegramChatIDs { if id == chatID { allowed = true; break } }
    if !allowed && !noAllowList {
        h.log.Warn().Int64("chat", chatID).Msg("telegram command from unknown chat ignored")
        c.JSON(http.StatusOK, gin.H{"ok": true})
        return
    }

    cmd, err := h.svc.ParseCommand(upd.Message.Text)
    switch {
    case err != nil:
        h.log.Info().Err(err).Int64("chat", chatID).Msg("telegram command rejected")
    case cmd.Name == "report" && !allowed:
        h.log.Warn().Int64("chat", chatID).Msg("telegram report refused: TELEGRAM_CHAT_IDS is empty")
    case cmd.Name == "help":
        h.detached(10*time.Second, func(ctx context.Context){ _ = h.svc.SendHelp(ctx, chatID) })
    case cmd.Name == "report":
        req := cmd.Request
        req.ChatID = chatID
        h.detached(30*time.Minute, func(ctx context.Context){
            if _, err := h.svc.GenerateReport(ctx, req); err != nil {
                h.log.Error().Err(err).Int64("chat", chatID).Msg("telegram report failed")
            }
        })
    }
    c.JSON(http.StatusOK, gin.H{"ok": true})
}
