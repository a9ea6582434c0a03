/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package report

import (
    "fmt"
    "math"
    "sort"
    "strings"

    "github.com/charleseiq/eiq-manager-tools/internal/analysis"
    "github.com/charleseiq/eiq-manager-tools/internal/domain"
)

const allocationNote = "**Note:** Percentages are calculated based on story points. If an issue has no story points, it's counted by issue count. Issues without an epic are marked as 'Uncategorized'."

// Render builds the final markdown: deterministic sprint metrics first, then
// the model's narrative (if any), then the epic allocation table.
func Render(in Input, llmMarkdown string) string {
    sprints := sortedSprints(in.Result.Sprints)

    lines := []string{
        "# JIRA Analysis: " + in.Username,
        "",
        "**Analysis Period**: " + in.PeriodLabel,
        "",
        "---",
        "",
        "## Summary",
        "",
        fmt.Sprintf("- **Sprints**: %d", len(in.Result.InScope)),
        fmt.Sprintf("- **Issues**: %d", len(in.Issues)),
        fmt.Sprintf("- **Epics**: %d", len(in.Result.Epics)),
        "",
        "## Sprint Metrics",
        "",
    }
    for _, sm := range sprints {
        lines = append(lines,
            "### "+sm.Name,
            fmt.Sprintf("- Completion Rate: %.1f%%", sm.CompletionRate),
            fmt.Sprintf("- Velocity: %d points", sm.Velocity),
            "",
            "**Accomplishments:**",
        )
        if len(sm.Accomplishments) == 0 {
            lines = append(lines, "- No completed issues")
        }
        for _, a := range sm.Accomplishments {
            lines = append(lines, fmt.Sprintf("- %s: %s", a.Key, a.Summary))
        }
        lines = append(lines, "")
    }

    out := strings.Join(lines, "\n")
    if narrative := CleanLLM(llmMarkdown); strings.TrimSpace(narrative) != "" {
        out += "\n\n" + narrative
    }
    if len(sprints) == 0 {
        return out
    }
    if !strings.HasSuffix(out, "\n") {
        out += "\n"
    }
    return out + allocationTable(sprints, epicColumnNames(in))
}

// CleanLLM drops the title and period lines a model tends to repeat and any
// allocation table it produced on its own.
func CleanLLM(md string) string {
    lines := strings.Split(strings.ReplaceAll(md, "\r\n", "\n"), "\n")
    start := 0
    for start < len(lines) {
        ln := strings.TrimSpace(lines[start])
        dupHeader := strings.HasPrefix(ln, "#") && (strings.Contains(ln, "JIRA Analysis") || strings.Contains(ln, "Analysis Period"))
        if ln == "" || ln == "---" || dupHeader || strings.HasPrefix(ln, "**Analysis Period**") {
            start++
            continue
        }
        break
    }
    var kept []string
    skipping := false
    for _, ln := range lines[start:] {
        if strings.HasPrefix(ln, "#") && strings.Contains(ln, "Half-Year Summary") {
            skipping = true
            continue
        }
        if skipping && strings.HasPrefix(ln, "## ") {
            skipping = false
        }
        if !skipping {
            kept = append(kept, ln)
        }
    }
    return strings.TrimRight(strings.Join(kept, "\n"), "\n ")
}

// sortedSprints orders by start date, most recent first; undated sprints last.
func sortedSprints(m map[string]domain.SprintMetrics) []domain.SprintMetrics {
    out := make([]domain.SprintMetrics, 0, len(m))
    for _, sm := range m {
        out = append(out, sm)
    }
    sort.SliceStable(out, func(i, j int) bool {
        a, b := out[i].StartDate, out[j].StartDate
        switch {
        case a == nil && b == nil:
            return out[i].Name < out[j].Name
        case a == nil:
            return false
        case b == nil:
            return true
        case !a.Equal(*b):
            return a.After(*b)
        }
        return out[i].Name < out[j].Name
    })
    return out
}

func epicColumnNames(in Input) map[string]string {
    names := map[string]string{analysis.Uncategorized: analysis.Uncategorized}
    for k, e := range in.Result.Epics {
        if k != analysis.Uncategorized && e.Name != "" {
            names[k] = e.Name
        }
    }
    for k, n := range in.EpicNames {
        if n != "" {
            names[k] = n
        }
    }
    return names
}

func allocationTable(sprints []domain.SprintMetrics, names map[string]string) string {
    seen := map[string]bool{}
    var keys []string
    hasUncategorized := false
    for _, sm := range sprints {
        for k := range sm.EpicAllocation {
            if k == analysis.Uncategorized {
                hasUncategorized = true
                continue
            }
            if !seen[k] {
                seen[k] = true
                keys = append(keys, k)
            }
        }
    }
    label := func(k string) string {
        if n, ok := names[k]; ok {
            return n
        }
        return k
    }
    sort.SliceStable(keys, func(i, j int) bool {
        li, lj := label(keys[i]), label(keys[j])
        if li != lj {
            return li < lj
        }
        return keys[i] < keys[j]
    })
    if hasUncategorized {
        keys = append(keys, analysis.Uncategorized)
    }

    header := []string{"Sprint"}
    for _, k := range keys {
        header = append(header, label(k))
    }
    lines := []string{
        "",
        "---",
        "",
        "## Half-Year Summary: Epic Allocation by Sprint",
        "",
        "This section shows the percentage of work (by story points) allocated to each epic per sprint. Percentages add up to 100% per sprint.",
        "",
        "| " + strings.Join(header, " | ") + " |",
        "|" + strings.Repeat("---|", len(header)),
    }
    for _, sm := range sprints {
        row := []string{sm.Name}
        total := 0.0
        for _, k := range keys {
            pct := sm.EpicAllocation[k]
            total += pct
            if pct < 0.1 {
                row = append(row, "—")
            } else {
                row = append(row, fmt.Sprintf("%.1f%%", pct))
            }
        }
        if math.Abs(total-100) > 1.0 {
            row = append(row, fmt.Sprintf("⚠️ (%.1f%%)", total))
        }
        lines = append(lines, "| "+strings.Join(row, " | ")+" |")
    }
    lines = append(lines, "", allocationNote, "")
    return strings.Join(lines, "\n")
}
