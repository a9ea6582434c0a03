/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package main

import (
    "errors"
    "fmt"
    "os"

    "github.com/charleseiq/eiq-manager-tools/internal/adapters/jira"
    "github.com/charleseiq/eiq-manager-tools/internal/adapters/openai"
    "github.com/charleseiq/eiq-manager-tools/internal/config"
    "github.com/charleseiq/eiq-manager-tools/internal/domain"
    "github.com/charleseiq/eiq-manager-tools/internal/logger"
    "github.com/charleseiq/eiq-manager-tools/internal/report"
    "github.com/charleseiq/eiq-manager-tools/internal/services"
    "github.com/spf13/cobra"
)

type options struct {
    name, username string
    period         string
    start, end     string
    output         string
    config         string
    print          bool
}

func (o *options) request() (services.Request, error) {
    if o.name == "" && o.username == "" {
        return services.Request{}, errors.New("provide --name or --username")
    }
    if o.period == "" && (o.start == "" || o.end == "") {
        return services.Request{}, errors.New("provide --period or both --start and --end")
    }
    return services.Request{Name: o.name, Username: o.username, Period: o.period, Start: o.start, End: o.end, OutputDir: o.output}, nil
}

func runAnalyze(cmd *cobra.Command, o *options) error {
    req, err := o.request()
    if err != nil {
        return err
    }
    cfg := config.Load()
    if o.config != "" {
        cfg.UsersFile = o.config
    }
    // keep stdout for the report preview
    log := logger.NewWithWriter(cfg, os.Stderr)

    if err := cfg.CheckJira(); err != nil {
        return err
    }

    users, err := config.LoadUsers(cfg.UsersFile)
    if err != nil {
        if o.name != "" {
            return fmt.Errorf("load users: %w", err)
        }
        log.Debug().Err(err).Msg("users file not loaded")
        users = []domain.User{}
    }

    llm := openai.NewClient(cfg, log)
    if !llm.Enabled() {
        fmt.Fprintln(cmd.ErrOrStderr(), warnStyle.Render("OPENAI_API_KEY not set: writing a metrics-only report"))
    }
    svc := services.New(cfg, log, users, jira.NewClient(cfg, log), llm, nil, nil, nil)

    out, err := svc.GenerateReport(cmd.Context(), req)
    if err != nil {
        return err
    }
    fmt.Fprintln(cmd.ErrOrStderr(), summary(out))

    if o.print {
        rendered, err := report.Preview(out.Markdown, 100)
        if err != nil {
            return err
        }
        fmt.Fprint(cmd.OutOrStdout(), rendered)
    }
    return nil
}
