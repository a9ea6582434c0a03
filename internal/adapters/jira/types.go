/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package jira

import "encoding/json"

// RawIssue keeps fields undecoded because custom field ids vary per site.
type RawIssue struct {
    ID     string                     `json:"id"`
    Key    string                     `json:"key"`
    Fields map[string]json.RawMessage `json:"fields"`
}

type searchPage struct {
    Issues []struct {
        Key string `json:"key"`
    } `json:"issues"`
    IsLast        *bool    `json:"isLast"`
    NextPageToken string   `json:"nextPageToken"`
    ErrorMessages []string `json:"errorMessages"`
}

type worklogPage struct {
    StartAt    int          `json:"startAt"`
    MaxResults int          `json:"maxResults"`
    Total      int          `json:"total"`
    Worklogs   []RawWorklog `json:"worklogs"`
}

type RawWorklog struct {
    ID               string          `json:"id"`
    Author           *user           `json:"author"`
    Started          string          `json:"started"`
    TimeSpentSeconds int64           `json:"timeSpentSeconds"`
    Comment          json.RawMessage `json:"comment"`
}

type Field struct {
    ID     string `json:"id"`
    Key    string `json:"key"`
    Name   string `json:"name"`
    Custom bool   `json:"custom"`
}

type user struct {
    AccountID   string `json:"accountId"`
    Name        string `json:"name"`
    DisplayName string `json:"displayName"`
}

type named struct {
    Name string `json:"name"`
}

type keyed struct {
    Key string `json:"key"`
}

type rawSprint struct {
    ID           int64  `json:"id"`
    Name         string `json:"name"`
    State        string `json:"state"`
    StartDate    string `json:"startDate"`
    EndDate      string `json:"endDate"`
    CompleteDate string `json:"completeDate"`
}
