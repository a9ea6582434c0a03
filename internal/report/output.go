/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package report

import (
    "errors"
    "os"
    "path/filepath"

    "github.com/charleseiq/eiq-manager-tools/internal/config"
)

const FileName = "jira-analysis.md"

// OutputDir returns the explicit directory when given, otherwise
// <base>/<slug of name or username>/<periodKey>.
func OutputDir(explicit, base, name, username, periodKey string) string {
    if explicit != "" {
        return explicit
    }
    if base == "" {
        base = "reports"
    }
    who := name
    if who == "" {
        who = username
    }
    slug := config.Slugify(who)
    if slug == "" {
        slug = "unknown"
    }
    if periodKey == "" {
        periodKey = "unknown"
    }
    return filepath.Join(base, slug, periodKey)
}

// Save writes the report into dir, creating it, and returns the file path.
func Save(dir, markdown string) (string, error) {
    if dir == "" {
        return "", errors.New("report: empty output dir")
    }
    if err := os.MkdirAll(dir, 0o755); err != nil {
        return "", err
    }
    path := filepath.Join(dir, FileName)
    if err := os.WriteFile(path, []byte(markdown), 0o644); err != nil {
        return "", err
    }
    return path, nil
}
