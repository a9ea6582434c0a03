/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package main

import (
    "fmt"

    "github.com/charleseiq/eiq-manager-tools/internal/period"
    "github.com/spf13/cobra"
)

func newPeriodCmd() *cobra.Command {
    return &cobra.Command{
        Use:   "period <token>",
        Short: "Show the date range and label a period token resolves to",
        Args:  cobra.ExactArgs(1),
        RunE: func(cmd *cobra.Command, args []string) error {
            p, err := period.Parse(args[0])
            if err != nil {
                return err
            }
            fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", period.Key(p), p.Start.Format("2006-01-02"), period.Label(p))
            return nil
        },
    }
}
