/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package jira

import (
    "errors"
    "fmt"
    "strings"

    "github.com/charleseiq/eiq-manager-tools/internal/domain"
)

// Assignee identifies the analyzed person. Email is the most reliable
// assignee value, then username, then account id.
type Assignee struct {
    Email     string
    Username  string
    AccountID string
}

func (a Assignee) clause() (string, error) {
    for _, v := range []string{a.Email, a.Username, a.AccountID} {
        if v = strings.TrimSpace(v); v != "" {
            return fmt.Sprintf(`assignee = "%s"`, strings.ReplaceAll(v, `"`, `\"`)), nil
        }
    }
    return "", errors.New("either email, username, or account_id required")
}

// BuildJQL returns the dated query (issues created or updated inside the
// period) and the undated fallback. Without a project Jira may reject the
// query as unbounded.
func BuildJQL(a Assignee, project string, p domain.Period) (dated, undated string, err error) {
    who, err := a.clause()
    if err != nil {
        return "", "", err
    }
    start, end := p.Start.Format("2006-01-02"), p.End.Format("2006-01-02")
    window := fmt.Sprintf(`((updated >= "%s" AND updated <= "%s") OR (created >= "%s" AND created <= "%s"))`, start, end, start, end)
    prefix := who
    if project = strings.TrimSpace(project); project != "" {
        prefix = "project = " + project + " AND " + who
    }
    dated = prefix + " AND " + window + " ORDER BY updated DESC"
    undated = prefix + " ORDER BY updated DESC"
    return dated, undated, nil
}
