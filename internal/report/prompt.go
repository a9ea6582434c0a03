/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package report

import (
    "bytes"
    "embed"
    "encoding/json"
    "sort"
    "strings"
    "text/template"
    "time"

    "github.com/charleseiq/eiq-manager-tools/internal/analysis"
    "github.com/charleseiq/eiq-manager-tools/internal/domain"
)

const (
    issueLimit        = 30
    issueSummaryLimit = 200
    issueDescLimit    = 300
    worklogLimit      = 50
    epicLimit         = 20
)

// SystemPrompt frames the model as a sprint analyst.
const SystemPrompt = `You are an expert at analyzing JIRA sprint and epic data for engineering performance evaluation.

Your task is to analyze sprint metrics, velocity, epic allocation, and worklog data to generate a comprehensive markdown report.

Be specific, provide examples, and focus on actionable insights for sprint planning, velocity tracking, and time allocation.`

//go:embed templates/*.tmpl
var templates embed.FS

var promptTmpl = template.Must(template.ParseFS(templates, "templates/prompt.tmpl"))

// Input is everything one report is rendered from.
type Input struct {
    Username    string
    AccountID   string
    JiraURL     string
    PeriodLabel string
    Issues      []domain.IssueRecord
    Worklogs    []domain.Worklog
    EpicNames   map[string]string
    Result      analysis.Result
}

type issueDigest struct {
    Key         string   `json:"key"`
    Summary     string   `json:"summary"`
    Description string   `json:"description,omitempty"`
    Status      string   `json:"status,omitempty"`
    Type        string   `json:"type,omitempty"`
    Priority    string   `json:"priority,omitempty"`
    Labels      []string `json:"labels,omitempty"`
    Created     string   `json:"created,omitempty"`
    Updated     string   `json:"updated,omitempty"`
    StoryPoints int      `json:"story_points"`
}

type epicDigest struct {
    Key               string `json:"key"`
    Name              string `json:"name"`
    IssueCount        int    `json:"issue_count"`
    TotalTimeSpent    int64  `json:"total_time_spent"`
    TotalTimeEstimate int64  `json:"total_time_estimate"`
}

type promptData struct {
    Username, AccountID, JiraURL, PeriodLabel              string
    SprintsCount, IssuesCount, WorklogsCount, EpicsCount   int
    IssueLimit, WorklogLimit, EpicLimit                    int
    SprintMetricsJSON, IssuesJSON, WorklogsJSON, EpicsJSON string
}

// BuildPrompt renders the user prompt. Issues, worklogs and epics are capped
// so the prompt stays within model limits.
func BuildPrompt(in Input) (string, error) {
    issues := make([]issueDigest, 0, min(len(in.Issues), issueLimit))
    for _, is := range in.Issues {
        if len(issues) == issueLimit {
            break
        }
        issues = append(issues, issueDigest{
            Key:         is.Key,
            Summary:     truncate(is.Summary, issueSummaryLimit),
            Description: truncate(is.Description, issueDescLimit),
            Status:      is.Status,
            Type:        is.IssueType,
            Priority:    is.Priority,
            Labels:      is.Labels,
            Created:     day(is.Created),
            Updated:     day(is.Updated),
            StoryPoints: is.StoryPoints,
        })
    }
    wls := in.Worklogs
    if len(wls) > worklogLimit {
        wls = wls[:worklogLimit]
    }
    epicKeys := make([]string, 0, len(in.Result.Epics))
    for k := range in.Result.Epics {
        epicKeys = append(epicKeys, k)
    }
    sort.Strings(epicKeys)
    if len(epicKeys) > epicLimit {
        epicKeys = epicKeys[:epicLimit]
    }
    epics := make([]epicDigest, 0, len(epicKeys))
    for _, k := range epicKeys {
        e := in.Result.Epics[k]
        epics = append(epics, epicDigest(e))
    }

    d := promptData{
        Username:      in.Username,
        AccountID:     in.AccountID,
        JiraURL:       in.JiraURL,
        PeriodLabel:   in.PeriodLabel,
        SprintsCount:  len(in.Result.InScope),
        IssuesCount:   len(in.Issues),
        WorklogsCount: len(in.Worklogs),
        EpicsCount:    len(in.Result.Epics),
        IssueLimit:    issueLimit,
        WorklogLimit:  worklogLimit,
        EpicLimit:     epicLimit,
    }
    var err error
    if d.SprintMetricsJSON, err = indentJSON(in.Result.Sprints); err != nil {
        return "", err
    }
    if d.IssuesJSON, err = indentJSON(issues); err != nil {
        return "", err
    }
    if d.WorklogsJSON, err = indentJSON(wls); err != nil {
        return "", err
    }
    if d.EpicsJSON, err = indentJSON(epics); err != nil {
        return "", err
    }
    var buf bytes.Buffer
    if err := promptTmpl.Execute(&buf, d); err != nil {
        return "", err
    }
    return buf.String(), nil
}

// indentJSON keeps <email>-style placeholders readable for the model.
func indentJSON(v any) (string, error) {
    var buf bytes.Buffer
    enc := json.NewEncoder(&buf)
    enc.SetEscapeHTML(false)
    enc.SetIndent("", "  ")
    if err := enc.Encode(v); err != nil {
        return "", err
    }
    return strings.TrimSuffix(buf.String(), "\n"), nil
}

func truncate(s string, n int) string {
    r := []rune(s)
    if len(r) <= n {
        return s
    }
    return string(r[:n])
}

func day(t *time.Time) string {
    if t == nil {
        return ""
    }
    return t.UTC().Format("2006-01-02")
}
