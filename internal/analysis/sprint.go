/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package analysis

import "github.com/charleseiq/eiq-manager-tools/internal/domain"

// AggregateSprint computes the metrics of one sprint from its member issues.
// Members are trusted to be the analyzed person's issues.
func AggregateSprint(sp domain.SprintRecord, members []domain.IssueRecord) domain.SprintMetrics {
    out := domain.SprintMetrics{
        SprintID:        sp.ID,
        Name:            sprintName(sp),
        StartDate:       sp.StartDate,
        EndDate:         sp.EndDate,
        TotalIssues:     len(members),
        Accomplishments: []domain.Accomplishment{},
        EpicAllocation:  map[string]float64{},
        AllIssues:       make([]domain.IssueBrief, 0, len(members)),
    }

    points := map[string]int{}
    counts := map[string]int{}
    var epicOrder []string
    totalPoints := 0
    for _, is := range members {
        out.TotalEstimate += is.TimeEstimate
        out.TotalSpent += is.TimeSpent

        ek := EpicKeyOf(is)
        if _, ok := counts[ek]; !ok {
            epicOrder = append(epicOrder, ek)
        }
        counts[ek]++
        points[ek] += is.StoryPoints
        totalPoints += is.StoryPoints

        if IsCompleted(is.Status) {
            out.CompletedIssues++
            out.CompletedPoints += is.StoryPoints
            out.Accomplishments = append(out.Accomplishments, domain.Accomplishment{Key: is.Key, Summary: is.Summary, Type: is.IssueType})
        }
        out.AllIssues = append(out.AllIssues, domain.IssueBrief{Key: is.Key, Summary: is.Summary, Status: is.Status})
    }
    out.Velocity = out.CompletedPoints
    if out.TotalIssues > 0 {
        out.CompletionRate = float64(out.CompletedIssues) / float64(out.TotalIssues) * 100
    }

    switch {
    case totalPoints > 0:
        for _, ek := range epicOrder {
            if points[ek] == 0 {
                continue
            }
            out.EpicAllocation[ek] = float64(points[ek]) / float64(totalPoints) * 100
        }
    case out.TotalIssues > 0:
        // no story points anywhere in the sprint: weight by issue count
        for _, ek := range epicOrder {
            out.EpicAllocation[ek] = float64(counts[ek]) / float64(out.TotalIssues) * 100
        }
    }
    return out
}

func sprintName(sp domain.SprintRecord) string {
    if sp.Name != "" {
        return sp.Name
    }
    return "Sprint " + itoa(sp.ID)
}
