/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package main

import (
    "context"
    "fmt"
    "os"
    "os/signal"
    "syscall"

    "github.com/spf13/cobra"
)

func main() {
    ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
    defer stop()
    if err := newRootCmd().ExecuteContext(ctx); err != nil {
        fmt.Fprintln(os.Stderr, errorStyle.Render("error: "+err.Error()))
        os.Exit(1)
    }
}

func newRootCmd() *cobra.Command {
    opts := &options{}
    root := &cobra.Command{
        Use:   "jira-analyze",
        Short: "Generate a JIRA sprint and epic analysis for one person",
        Long: `Fetch a person's JIRA issues for a review period, compute per-sprint
completion, velocity and epic allocation, optionally add an LLM narrative,
and write reports/<name>/<period>/jira-analysis.md.

Periods: YYYYH1, YYYYH2, YYYYQ1-Q4 or YYYY, or --start/--end dates.`,
        SilenceUsage:  true,
        SilenceErrors: true,
        RunE: func(cmd *cobra.Command, args []string) error {
            return runAnalyze(cmd, opts)
        },
    }
    f := root.Flags()
    f.StringVarP(&opts.name, "name", "n", "", "person's name or slug from the users file (e.g. varun-sundar)")
    f.StringVarP(&opts.username, "username", "u", "", "JIRA username or email")
    f.StringVarP(&opts.period, "period", "p", "", "review period (2025H2, 2026Q1, 2025)")
    f.StringVar(&opts.start, "start", "", "start date YYYY-MM-DD (with --end, overrides --period)")
    f.StringVar(&opts.end, "end", "", "end date YYYY-MM-DD")
    f.StringVarP(&opts.output, "output", "o", "", "output directory (default reports/<name>/<period>)")
    f.StringVarP(&opts.config, "config", "c", "", "users file, JSON or YAML (default $USERS_FILE or config.json)")
    f.BoolVar(&opts.print, "print", false, "render the finished report in the terminal")

    root.AddCommand(newPeriodCmd())
    return root
}
