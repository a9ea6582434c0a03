/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package main

import (
    "fmt"
    "strings"

    "github.com/charleseiq/eiq-manager-tools/internal/services"
    "github.com/charmbracelet/lipgloss"
)

var (
    okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
    warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
    errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
    labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(10)
    boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63")).Padding(0, 1)
)

func summary(out *services.Outcome) string {
    who := out.Name
    if who == "" {
        who = out.Username
    }
    row := func(label, value string) string {
        return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), value)
    }
    rows := []string{
        okStyle.Render("✓ Report saved"),
        row("Person", who),
        row("Period", out.PeriodLabel),
        row("Counts", fmt.Sprintf("%d sprints, %d issues, %d epics, %d worklogs", len(out.Result.InScope), out.Issues, len(out.Result.Epics), out.Worklogs)),
        row("File", out.ReportPath),
    }
    if len(out.Failed) > 0 {
        rows = append(rows, warnStyle.Render(fmt.Sprintf("skipped %d issues: %s", len(out.Failed), strings.Join(out.Failed, ", "))))
    }
    return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
