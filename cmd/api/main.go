/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package main

import (
    "context"
    "errors"
    "net/http"
    "os"
    "os/signal"
    "strings"
    "syscall"
    "time"

    "github.com/charleseiq/eiq-manager-tools/internal/adapters/jira"
    "github.com/charleseiq/eiq-manager-tools/internal/adapters/openai"
    "github.com/charleseiq/eiq-manager-tools/internal/adapters/telegram"
    "github.com/charleseiq/eiq-manager-tools/internal/config"
    apphttp "github.com/charleseiq/eiq-manager-tools/internal/http"
    "github.com/charleseiq/eiq-manager-tools/internal/jobs"
    "github.com/charleseiq/eiq-manager-tools/internal/logger"
    "github.com/charleseiq/eiq-manager-tools/internal/metrics"
    "github.com/charleseiq/eiq-manager-tools/internal/repo"
    "github.com/charleseiq/eiq-manager-tools/internal/services"
)

func main() {
    cfg := config.Load()
    log := logger.New(cfg)
    if err := cfg.CheckJira(); err != nil { log.Warn().Err(err).Msg("jira credentials incomplete; reports will fail") }
    ctx, cancel := context.WithCancel(context.Background())
    defer cancel()

    users, err := config.LoadUsers(cfg.UsersFile)
    if err != nil { log.Warn().Err(err).Str("file", cfg.UsersFile).Msg("users file not loaded; scheduled reports disabled") }

    // DB is optional and only keeps the run log
    var runs services.RunStore
    var locker jobs.Locker
    if cfg.DBDSN != "" {
        db := repo.MustOpen(ctx, cfg.DBDSN, log)
        defer db.Close()
        if err := db.Migrate(ctx); err != nil { log.Fatal().Err(err).Msg("db migrate failed") }
        repository := repo.NewRepository(db, log)
        runs, locker = repository, repository
    }

    // Adapters
    jc := jira.NewClient(cfg, log)
    llm := openai.NewClient(cfg, log)
    tg := telegram.NewClient(cfg, log)
    m := metrics.New()

    svc := services.New(cfg, log, users, jc, llm, tg, runs, m)

    // HTTP server (Gin)
    router := apphttp.NewRouter(cfg, log, apphttp.NewHandlers(cfg, log, svc), m.Handler())
    srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router, ReadHeaderTimeout: 10 * time.Second}

    // Register Telegram webhook only if PUBLIC_BASE_URL is HTTPS
    if cfg.TelegramWebhookSecret != "" && strings.HasPrefix(strings.ToLower(cfg.PublicBaseURL), "https://") {
        if len(cfg.TelegramChatIDs) == 0 {
            log.Warn().Msg("telegram webhook registered without TELEGRAM_CHAT_IDS; only /help will be answered")
        }
        go func(){
            ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second); defer cancel()
            webhookURL := strings.TrimRight(cfg.PublicBaseURL, "/") + "/telegram/webhook/" + cfg.TelegramWebhookSecret
            if err := tg.SetWebhook(ctx, webhookURL, cfg.TelegramWebhookSecret); err != nil {
                log.Error().Err(err).Msg("telegram setWebhook failed")
            } else {
                log.Info().Msg("telegram setWebhook ok")
            }
        }()
    }

    // Cron
    if len(users) > 0 {
        cr, err := jobs.NewCron(cfg, log, svc, locker)
        if err != nil { log.Fatal().Err(err).Str("spec", cfg.ReportCron).Msg("cron spec invalid") }
        cr.Start()
        defer cr.Stop()
        log.Info().Str("spec", cfg.ReportCron).Str("period", cr.PeriodToken()).Int("users", len(users)).Msg("scheduled reports enabled")
    }

    // graceful shutdown
    errCh := make(chan error, 1)
    go func() { errCh <- srv.ListenAndServe() }()
    log.Info().Str("addr", cfg.HTTPAddr).Msg("http listening")

    sigCh := make(chan os.Signal, 1)
    signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

    select {
    case <-sigCh:
        log.Info().Msg("shutting down...")
    case err := <-errCh:
        if err != nil && !errors.Is(err, http.ErrServerClosed) { log.Error().Err(err).Msg("http server error") }
    }

    shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
    defer cancelShutdown()
    if err := srv.Shutdown(shutdownCtx); err != nil { log.Error().Err(err).Msg("http shutdown failed") }
}
