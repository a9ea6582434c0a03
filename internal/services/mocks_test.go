/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package services

import (
    "context"
    "time"

    "github.com/charleseiq/eiq-manager-tools/internal/adapters/jira"
    "github.com/charleseiq/eiq-manager-tools/internal/domain"
    "github.com/stretchr/testify/mock"
)

type MockJira struct{ mock.Mock }

func (m *MockJira) SearchKeys(ctx context.Context, jql string, max int) ([]string, error) {
    args := m.Called(ctx, jql, max)
    if args.Get(0) == nil { return nil, args.Error(1) }
    return args.Get(0).([]string), args.Error(1)
}

func (m *MockJira) Issue(ctx context.Context, key string) (jira.RawIssue, error) {
    args := m.Called(ctx, key)
    return args.Get(0).(jira.RawIssue), args.Error(1)
}

func (m *MockJira) Worklogs(ctx context.Context, key string) ([]jira.RawWorklog, error) {
    args := m.Called(ctx, key)
    if args.Get(0) == nil { return nil, args.Error(1) }
    return args.Get(0).([]jira.RawWorklog), args.Error(1)
}

func (m *MockJira) Fields(ctx context.Context) ([]jira.Field, error) {
    args := m.Called(ctx)
    if args.Get(0) == nil { return nil, args.Error(1) }
    return args.Get(0).([]jira.Field), args.Error(1)
}

type MockLLM struct{ mock.Mock }

func (m *MockLLM) Enabled() bool { return m.Called().Bool(0) }

func (m *MockLLM) Analyze(ctx context.Context, system, user string) (string, error) {
    args := m.Called(ctx, system, user)
    return args.String(0), args.Error(1)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) Enabled() bool { return m.Called().Bool(0) }

func (m *MockNotifier) SendMessagePlain(ctx context.Context, chatID int64, text string) error {
    return m.Called(ctx, chatID, text).Error(0)
}

type MockRuns struct{ mock.Mock }

func (m *MockRuns) StartReportRun(ctx context.Context, username, periodKey string) (string, error) {
    args := m.Called(ctx, username, periodKey)
    return args.String(0), args.Error(1)
}

func (m *MockRuns) FinishReportRun(ctx context.Context, run domain.ReportRun) error {
    return m.Called(ctx, run).Error(0)
}

func (m *MockRuns) LastRun(ctx context.Context) (*domain.ReportRun, error) {
    args := m.Called(ctx)
    if args.Get(0) == nil { return nil, args.Error(1) }
    return args.Get(0).(*domain.ReportRun), args.Error(1)
}

type MockRecorder struct{ mock.Mock }

func (m *MockRecorder) ReportDone(ok bool, took time.Duration) { m.Called(ok, took) }

func (m *MockRecorder) FetchFailed() { m.Called() }
