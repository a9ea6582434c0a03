/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package analysis

import "github.com/charleseiq/eiq-manager-tools/internal/domain"

// RollupEpics accumulates counts and time totals per epic over every issue,
// regardless of sprint or period. names carries resolved epic titles; a
// missing entry falls back to the key.
func RollupEpics(issues []domain.IssueRecord, names map[string]string) map[string]domain.EpicRollup {
    out := map[string]domain.EpicRollup{}
    for _, is := range issues {
        ek := EpicKeyOf(is)
        r, ok := out[ek]
        if !ok {
            r = domain.EpicRollup{Key: ek, Name: epicName(ek, names)}
        }
        r.IssueCount++
        r.TotalTimeSpent += is.TimeSpent
        r.TotalTimeEstimate += is.TimeEstimate
        out[ek] = r
    }
    return out
}

func epicName(key string, names map[string]string) string {
    if key == Uncategorized {
        return Uncategorized
    }
    if n, ok := names[key]; ok && n != "" {
        return n
    }
    return key
}

// EpicKeys lists the distinct non-sentinel epic keys referenced by issues,
// in first-seen order. Callers resolve their names before RollupEpics.
func EpicKeys(issues []domain.IssueRecord) []string {
    seen := map[string]bool{}
    var out []string
    for _, is := range issues {
        ek := EpicKeyOf(is)
        if ek == Uncategorized || seen[ek] {
            continue
        }
        seen[ek] = true
        out = append(out, ek)
    }
    return out
}
