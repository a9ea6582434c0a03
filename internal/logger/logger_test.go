/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package logger

import (
    "bytes"
    "encoding/json"
    "strings"
    "testing"

    "github.com/charleseiq/eiq-manager-tools/internal/config"
    "github.com/rs/zerolog"
)

func TestNewWithWriterJSON(t *testing.T) {
    var buf bytes.Buffer
    l := NewWithWriter(config.Config{AppEnv: "prod", LogLevel: "warn"}, &buf)
    l.Info().Msg("dropped")
    l.Warn().Str("key", "WC-1").Msg("kept")

    lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
    if len(lines) != 1 { t.Fatalf("want 1 line, got %d: %q", len(lines), buf.String()) }
    var m map[string]any
    if err := json.Unmarshal([]byte(lines[0]), &m); err != nil { t.Fatalf("not json: %v", err) }
    if m["message"] != "kept" || m["key"] != "WC-1" || m["env"] != "prod" {
        t.Fatalf("unexpected fields: %v", m)
    }
    if _, ok := m["time"]; !ok { t.Fatalf("missing timestamp: %v", m) }
}

func TestNewWithWriterConsole(t *testing.T) {
    var buf bytes.Buffer
    l := NewWithWriter(config.Config{AppEnv: "dev"}, &buf)
    l.Info().Msg("hello")
    if strings.HasPrefix(buf.String(), "{") { t.Fatalf("dev should use console output: %q", buf.String()) }
    if !strings.Contains(buf.String(), "hello") { t.Fatalf("missing message: %q", buf.String()) }
}

func TestLevel(t *testing.T) {
    cases := map[string]zerolog.Level{
        "":      zerolog.InfoLevel,
        "debug": zerolog.DebugLevel,
        "bogus": zerolog.InfoLevel,
        "error": zerolog.ErrorLevel,
    }
    for in, want := range cases {
        if got := level(in); got != want { t.Fatalf("level(%q) = %v, want %v", in, got, want) }
    }
}
