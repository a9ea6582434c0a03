/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package domain

import "time"

// Period is the calendar window one analysis run covers. Both ends are
// inclusive dates at UTC midnight.
type Period struct {
    Start time.Time
    End   time.Time
}

// DateOf truncates t to its calendar date in UTC.
func DateOf(t time.Time) time.Time {
    u := t.UTC()
    return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

type SprintRecord struct {
    ID           int64      `json:"id"`
    Name         string     `json:"name"`
    State        string     `json:"state"`
    StartDate    *time.Time `json:"start_date,omitempty"`
    EndDate      *time.Time `json:"end_date,omitempty"`
    CompleteDate *time.Time `json:"complete_date,omitempty"`
}

// IssueRecord is one tracked work item of the analyzed person. Absent
// numeric fields are zero and absent text fields are empty.
type IssueRecord struct {
    Key          string
    Summary      string
    Description  string
    Status       string
    IssueType    string
    Priority     string
    StoryPoints  int
    TimeSpent    int64
    TimeEstimate int64
    ParentKey    string
    IsEpic       bool
    Labels       []string
    Sprints      []SprintRecord
    Created      *time.Time
    Updated      *time.Time
}

type Worklog struct {
    IssueKey string    `json:"issue_key"`
    Author   string    `json:"author"`
    Started  time.Time `json:"started"`
    Seconds  int64     `json:"time_spent_seconds"`
    Comment  string    `json:"comment,omitempty"`
}

type Accomplishment struct {
    Key     string `json:"key"`
    Summary string `json:"summary"`
    Type    string `json:"type"`
}

type IssueBrief struct {
    Key     string `json:"key"`
    Summary string `json:"summary"`
    Status  string `json:"status"`
}

type SprintMetrics struct {
    SprintID        int64              `json:"sprint_id"`
    Name            string             `json:"name"`
    StartDate       *time.Time         `json:"start_date"`
    EndDate         *time.Time         `json:"end_date"`
    TotalIssues     int                `json:"total_issues"`
    CompletedIssues int                `json:"completed_issues"`
    CompletionRate  float64            `json:"completion_rate"`
    TotalEstimate   int64              `json:"total_estimate"`
    TotalSpent      int64              `json:"total_spent"`
    Velocity        int                `json:"velocity"`
    CompletedPoints int                `json:"completed_points"`
    Accomplishments []Accomplishment   `json:"accomplishments"`
    EpicAllocation  map[string]float64 `json:"epic_allocation"`
    AllIssues       []IssueBrief       `json:"all_issues"`
}

type EpicRollup struct {
    Key               string `json:"key"`
    Name              string `json:"name"`
    IssueCount        int    `json:"issue_count"`
    TotalTimeSpent    int64  `json:"total_time_spent"`
    TotalTimeEstimate int64  `json:"total_time_estimate"`
}

// User is one entry of the users directory (config.json).
type User struct {
    Name        string `json:"name" yaml:"name"`
    Username    string `json:"username" yaml:"username"`
    Email       string `json:"email" yaml:"email"`
    AccountID   string `json:"account_id" yaml:"account_id"`
    JiraProject string `json:"jira_project" yaml:"jira_project"`
}

// ReportRun is the bookkeeping row kept for each generation attempt.
type ReportRun struct {
    ID         string     `json:"id"`
    Username   string     `json:"username"`
    PeriodKey  string     `json:"period_key"`
    StartedAt  time.Time  `json:"started_at"`
    FinishedAt *time.Time `json:"finished_at,omitempty"`
    OK         bool       `json:"ok"`
    Error      string     `json:"error,omitempty"`
    Issues     int        `json:"issues"`
    Sprints    int        `json:"sprints"`
    Epics      int        `json:"epics"`
    ReportPath string     `json:"report_path,omitempty"`
}
