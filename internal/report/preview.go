/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package report

import "github.com/charmbracelet/glamour"

// Preview renders markdown for a terminal.
func Preview(markdown string, width int) (string, error) {
    if width <= 0 {
        width = 100
    }
    r, err := glamour.NewTermRenderer(
        glamour.WithAutoStyle(),
        glamour.WithWordWrap(width),
    )
    if err != nil {
        return "", err
    }
    return r.Render(markdown)
}
