/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package http

import (
    "net/http"

    "github.com/charleseiq/eiq-manager-tools/internal/config"
    "github.com/gin-gonic/gin"
    "github.com/rs/zerolog"
)

// NewRouter mounts the handlers. metrics may be nil.
func NewRouter(cfg config.Config, log zerolog.Logger, h *Handlers, metrics http.Handler) *gin.Engine {
    if cfg.AppEnv != "dev" { gin.SetMode(gin.ReleaseMode) }
    r := gin.New()
    r.Use(gin.Recovery())
    r.Use(func(c *gin.Context){
        c.Next()
        log.Info().Str("m", c.Request.Method).Str("p", c.FullPath()).Int("s", c.Writer.Status()).Msg("http")
    })

    r.GET("/healthz", h.Healthz)
    if metrics != nil { r.GET("/metrics", gin.WrapH(metrics)) }
    r.GET("/admin/last-run", h.LastRun)
    r.POST("/admin/reports", h.QueueReport)
    r.GET("/api/periods/:token", h.Period)
    // Support both header-authenticated and path-secret webhook endpoints
    r.POST("/telegram/webhook", h.TelegramWebhook)
    r.POST("/telegram/webhook/:secret", h.TelegramWebhook)

    return r
}
