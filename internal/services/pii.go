/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package services

import (
    "fmt"
    "regexp"
    "strings"

    "github.com/charleseiq/eiq-manager-tools/internal/domain"
)

var (
    emailRe    = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+`)
    phoneRe    = regexp.MustCompile(`\b\+?\d[\d\-\s]{7,}\b`)
    urlRe      = regexp.MustCompile(`https?://[^\s]+`)
    tokenRe    = regexp.MustCompile(`(?i)\b(?:token|secret|password|apikey|api_key|bearer)[:=\s]+[A-Za-z0-9\-\._~+/]{8,}\b`)
    jiraUserRe = regexp.MustCompile(`\bJIRAUSER\d+\b`)
)

func scrub(s string) string {
    s = strings.ReplaceAll(s, "\r\n", "\n")
    s = emailRe.ReplaceAllString(s, "<email>")
    s = phoneRe.ReplaceAllString(s, "<phone>")
    s = urlRe.ReplaceAllString(s, "<url>")
    s = tokenRe.ReplaceAllString(s, "<secret>")
    s = jiraUserRe.ReplaceAllString(s, "<user>")
    return s
}

// redactWorklogs returns a copy with authors aliased (user01, user02, ... in
// first-seen order) and comments scrubbed of contact details, secrets and
// author names. The input is left untouched.
func redactWorklogs(in []domain.Worklog) []domain.Worklog {
    if len(in) == 0 { return nil }
    alias := map[string]string{}
    var names []string
    for _, w := range in {
        a := strings.TrimSpace(w.Author)
        if a == "" { continue }
        if _, ok := alias[a]; !ok {
            alias[a] = fmt.Sprintf("user%02d", len(alias)+1)
            names = append(names, a)
        }
    }
    nameRes := make([]*regexp.Regexp, len(names))
    for i, n := range names { nameRes[i] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(n) + `\b`) }

    out := make([]domain.Worklog, len(in))
    for i, w := range in {
        if v, ok := alias[strings.TrimSpace(w.Author)]; ok { w.Author = v }
        body := scrub(w.Comment)
        for idx, re := range nameRes { body = re.ReplaceAllString(body, alias[names[idx]]) }
        w.Comment = body
        out[i] = w
    }
    return out
}

// redactIssues returns a copy with descriptions scrubbed the same way as
// worklog comments.
func redactIssues(in []domain.IssueRecord) []domain.IssueRecord {
    out := make([]domain.IssueRecord, len(in))
    for i, is := range in {
        if is.Description != "" { is.Description = scrub(is.Description) }
        out[i] = is
    }
    return out
}
