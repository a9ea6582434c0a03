/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package analysis

import "github.com/charleseiq/eiq-manager-tools/internal/domain"

// Membership maps sprints to the person's issues placed in them.
type Membership struct {
    Members map[int64][]domain.IssueRecord
    Sprints map[int64]domain.SprintRecord
    order   []int64
}

// BuildMembership indexes every sprint reference of every issue. Sprint
// metadata seen later overwrites earlier values for the same id. An issue
// listed twice for one sprint is kept once.
func BuildMembership(issues []domain.IssueRecord) Membership {
    m := Membership{Members: map[int64][]domain.IssueRecord{}, Sprints: map[int64]domain.SprintRecord{}}
    for _, is := range issues {
        seen := map[int64]bool{}
        for _, sp := range is.Sprints {
            if _, known := m.Sprints[sp.ID]; !known {
                m.order = append(m.order, sp.ID)
            }
            m.Sprints[sp.ID] = sp
            if seen[sp.ID] {
                continue
            }
            seen[sp.ID] = true
            m.Members[sp.ID] = append(m.Members[sp.ID], is)
        }
    }
    return m
}

// Overlaps reports whether the sprint has both dates and its calendar range
// intersects the period.
func Overlaps(sp domain.SprintRecord, p domain.Period) bool {
    if sp.StartDate == nil || sp.EndDate == nil {
        return false
    }
    start, end := domain.DateOf(*sp.StartDate), domain.DateOf(*sp.EndDate)
    return !start.After(p.End) && !end.Before(p.Start)
}

// Select returns the in-scope sprints in first-seen order.
func (m Membership) Select(p domain.Period) []domain.SprintRecord {
    var out []domain.SprintRecord
    for _, id := range m.order {
        if len(m.Members[id]) == 0 {
            continue
        }
        sp := m.Sprints[id]
        if !Overlaps(sp, p) {
            continue
        }
        out = append(out, sp)
    }
    return out
}
