/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package jira

import (
    "encoding/json"
    "errors"
    "fmt"
    "strings"
    "time"

    "github.com/charleseiq/eiq-manager-tools/internal/domain"
)

const (
    defaultStoryPointsField = "customfield_10033"
    defaultSprintField      = "customfield_10020"
)

// FieldMap names the site-specific custom fields the decoder needs.
type FieldMap struct {
    StoryPoints string
    Sprint      string
}

func DefaultFieldMap() FieldMap {
    return FieldMap{StoryPoints: defaultStoryPointsField, Sprint: defaultSprintField}
}

// ResolveFieldMap starts from the defaults, applies fields discovered by name
// and finally the explicit name -> id overrides from configuration.
func ResolveFieldMap(fields []Field, overrides map[string]string) FieldMap {
    fm := DefaultFieldMap()
    for _, f := range fields {
        id := f.ID
        if id == "" {
            id = f.Key
        }
        switch strings.ToLower(strings.TrimSpace(f.Name)) {
        case "story points", "story point estimate":
            if f.Custom || strings.HasPrefix(id, "customfield_") {
                fm.StoryPoints = id
            }
        case "sprint":
            fm.Sprint = id
        }
    }
    if id := overrides["Story Points"]; id != "" {
        fm.StoryPoints = id
    }
    if id := overrides["Sprint"]; id != "" {
        fm.Sprint = id
    }
    return fm
}

// Decode maps a vendor issue onto the typed record. Absent or null fields
// become zero values here so the analysis never sees partial data.
func Decode(raw RawIssue, fm FieldMap) (domain.IssueRecord, error) {
    if raw.Key == "" {
        return domain.IssueRecord{}, errors.New("jira: issue without key")
    }
    f := raw.Fields
    rec := domain.IssueRecord{
        Key:          raw.Key,
        Summary:      str(f["summary"]),
        Description:  ADFText(f["description"]),
        Status:       nameOf(f["status"]),
        IssueType:    nameOf(f["issuetype"]),
        Priority:     nameOf(f["priority"]),
        TimeSpent:    seconds(f["timespent"]),
        TimeEstimate: seconds(f["timeoriginalestimate"]),
        ParentKey:    parentKey(f["parent"]),
        Created:      parseTime(str(f["created"])),
        Updated:      parseTime(str(f["updated"])),
    }
    rec.IsEpic = strings.EqualFold(rec.IssueType, "epic")
    if raw := f["labels"]; len(raw) > 0 {
        _ = json.Unmarshal(raw, &rec.Labels)
    }
    if raw := f[fm.StoryPoints]; len(raw) > 0 {
        var pts *float64
        if err := json.Unmarshal(raw, &pts); err == nil && pts != nil && *pts > 0 {
            rec.StoryPoints = int(*pts)
        }
    }
    if raw := f[fm.Sprint]; len(raw) > 0 {
        var sprints []rawSprint
        if err := json.Unmarshal(raw, &sprints); err == nil {
            for _, s := range sprints {
                if s.ID == 0 {
                    continue
                }
                rec.Sprints = append(rec.Sprints, toSprint(s))
            }
        }
    }
    return rec, nil
}

func toSprint(s rawSprint) domain.SprintRecord {
    name := s.Name
    if name == "" {
        name = fmt.Sprintf("Sprint %d", s.ID)
    }
    return domain.SprintRecord{
        ID:           s.ID,
        Name:         name,
        State:        s.State,
        StartDate:    parseTime(s.StartDate),
        EndDate:      parseTime(s.EndDate),
        CompleteDate: parseTime(s.CompleteDate),
    }
}

// DecodeWorklog flattens one worklog entry.
func DecodeWorklog(issueKey string, w RawWorklog) domain.Worklog {
    out := domain.Worklog{IssueKey: issueKey, Seconds: w.TimeSpentSeconds, Comment: ADFText(w.Comment)}
    if w.Author != nil {
        out.Author = w.Author.DisplayName
    }
    if t := parseTime(w.Started); t != nil {
        out.Started = *t
    }
    return out
}

// Summary returns just the summary field, used for epic names.
func Summary(raw RawIssue) string {
    return str(raw.Fields["summary"])
}

func str(raw json.RawMessage) string {
    if len(raw) == 0 {
        return ""
    }
    var s string
    if err := json.Unmarshal(raw, &s); err != nil {
        return ""
    }
    return s
}

func nameOf(raw json.RawMessage) string {
    if len(raw) == 0 {
        return ""
    }
    var n named
    if err := json.Unmarshal(raw, &n); err != nil {
        return ""
    }
    return n.Name
}

// parentKey accepts both {"key": "X-1"} and a bare string.
func parentKey(raw json.RawMessage) string {
    if len(raw) == 0 {
        return ""
    }
    var k keyed
    if err := json.Unmarshal(raw, &k); err == nil {
        return k.Key
    }
    return str(raw)
}

func seconds(raw json.RawMessage) int64 {
    if len(raw) == 0 {
        return 0
    }
    var v *float64
    if err := json.Unmarshal(raw, &v); err != nil || v == nil || *v < 0 {
        return 0
    }
    return int64(*v)
}

var timeLayouts = []string{
    time.RFC3339Nano,
    time.RFC3339,
    "2006-01-02T15:04:05.000-0700",
    "2006-01-02T15:04:05-0700",
    "2006-01-02",
}

func parseTime(s string) *time.Time {
    if s == "" {
        return nil
    }
    for _, l := range timeLayouts {
        if t, err := time.Parse(l, s); err == nil {
            tt := t.UTC()
            return &tt
        }
    }
    return nil
}

type adfNode struct {
    Type    string    `json:"type"`
    Text    string    `json:"text"`
    Content []adfNode `json:"content"`
}

// ADFText flattens an Atlassian document (or a plain string) into text.
func ADFText(raw json.RawMessage) string {
    if len(raw) == 0 || string(raw) == "null" {
        return ""
    }
    if s := str(raw); s != "" {
        return s
    }
    var doc adfNode
    if err := json.Unmarshal(raw, &doc); err != nil {
        return ""
    }
    var parts []string
    var walk func(n adfNode)
    walk = func(n adfNode) {
        if n.Type == "text" && n.Text != "" {
            parts = append(parts, n.Text)
        }
        for _, c := range n.Content {
            walk(c)
        }
    }
    walk(doc)
    return strings.TrimSpace(strings.Join(parts, " "))
}
