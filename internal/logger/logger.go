/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package logger

import (
    "io"
    "os"
    "time"

    "github.com/charleseiq/eiq-manager-tools/internal/config"
    "github.com/rs/zerolog"
    "github.com/rs/zerolog/log"
)

// New logs to stdout. Use NewWithWriter when stdout carries the report.
func New(cfg config.Config) zerolog.Logger {
    return NewWithWriter(cfg, os.Stdout)
}

func NewWithWriter(cfg config.Config, w io.Writer) zerolog.Logger {
    zerolog.TimeFieldFormat = time.RFC3339
    if cfg.AppEnv == "dev" {
        w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
    }
    logger := zerolog.New(w).Level(level(cfg.LogLevel)).With().Timestamp().Str("env", cfg.AppEnv).Logger()
    log.Logger = logger
    return logger
}

// level falls back to info on anything zerolog cannot parse.
func level(s string) zerolog.Level {
    if s == "" { return zerolog.InfoLevel }
    l, err := zerolog.ParseLevel(s)
    if err != nil || l == zerolog.NoLevel { return zerolog.InfoLevel }
    return l
}
