/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package main

import (
    "bytes"
    "testing"

    "github.com/charleseiq/eiq-manager-tools/internal/config"
    "github.com/charleseiq/eiq-manager-tools/internal/services"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestOptionsRequest(t *testing.T) {
    _, err := (&options{period: "2025H2"}).request()
    assert.Error(t, err)
    _, err = (&options{username: "ann", start: "2025-07-01"}).request()
    assert.Error(t, err)

    req, err := (&options{name: "ann-lee", period: "2025H2", output: "out"}).request()
    require.NoError(t, err)
    assert.Equal(t, services.Request{Name: "ann-lee", Period: "2025H2", OutputDir: "out"}, req)
}

func TestRootFlags(t *testing.T) {
    cmd := newRootCmd()
    for _, name := range []string{"name", "username", "period", "start", "end", "output", "config", "print"} {
        assert.NotNil(t, cmd.Flags().Lookup(name), name)
    }
    assert.Equal(t, "n", cmd.Flags().Lookup("name").Shorthand)
    assert.Equal(t, "c", cmd.Flags().Lookup("config").Shorthand)
}

func TestPeriodCommand(t *testing.T) {
    cmd := newRootCmd()
    var out bytes.Buffer
    cmd.SetOut(&out)
    cmd.SetArgs([]string{"period", "2025h2"})
    require.NoError(t, cmd.Execute())
    assert.Equal(t, "2025H2\t2025-07-01\t2025H2 (July 1 - December 31, 2025)\n", out.String())

    cmd = newRootCmd()
    cmd.SetArgs([]string{"period", "2025H9"})
    assert.Error(t, cmd.Execute())
}

func TestSummary(t *testing.T) {
    s := summary(&services.Outcome{Username: "ann", PeriodLabel: "2025H2", ReportPath: "reports/ann/2025H2/jira-analysis.md", Failed: []string{"WC-9"}})
    assert.Contains(t, s, "Report saved")
    assert.Contains(t, s, "reports/ann/2025H2/jira-analysis.md")
    assert.Contains(t, s, "WC-9")
}

func TestAnalyzeRequiresEmailWithToken(t *testing.T) {
    t.Setenv("JIRA_URL", "https://acme.atlassian.net")
    t.Setenv("JIRA_EMAIL", "")
    t.Setenv("JIRA_TOKEN", "tok")
    t.Setenv("JIRA_PAT", "")
    cmd := newRootCmd()
    cmd.SetOut(new(bytes.Buffer))
    cmd.SetErr(new(bytes.Buffer))
    cmd.SetArgs([]string{"-u", "ann", "-p", "2025H2"})
    assert.ErrorIs(t, cmd.Execute(), config.ErrJiraAuth)
}
