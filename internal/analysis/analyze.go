/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package analysis

import (
    "strconv"

    "github.com/charleseiq/eiq-manager-tools/internal/domain"
)

type Result struct {
    Sprints map[string]domain.SprintMetrics
    Epics   map[string]domain.EpicRollup
    InScope []domain.SprintRecord
}

// Analyze chains membership, sprint selection, aggregation and the epic
// rollup. Sprint metrics are keyed by sprint name; a later sprint with the
// same name replaces an earlier one.
func Analyze(p domain.Period, issues []domain.IssueRecord, epicNames map[string]string) Result {
    m := BuildMembership(issues)
    res := Result{
        Sprints: map[string]domain.SprintMetrics{},
        Epics:   RollupEpics(issues, epicNames),
        InScope: m.Select(p),
    }
    for _, sp := range res.InScope {
        sm := AggregateSprint(sp, m.Members[sp.ID])
        res.Sprints[sm.Name] = sm
    }
    return res
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }
