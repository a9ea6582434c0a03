/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */

// Package analysis aggregates a person's issue records into per-sprint
// completion, velocity and epic allocation metrics plus per-epic rollups.
// Everything here is pure: no I/O, no logging, no shared state.
package analysis

import (
    "strings"

    "github.com/charleseiq/eiq-manager-tools/internal/domain"
)

// Uncategorized is the epic key of issues with no parent that are not epics.
const Uncategorized = "Uncategorized"

var doneStatuses = map[string]struct{}{"done": {}, "closed": {}, "resolved": {}}

// EpicKeyOf returns the parent key, the issue's own key when it is an epic,
// or Uncategorized.
func EpicKeyOf(is domain.IssueRecord) string {
    if is.ParentKey != "" {
        return is.ParentKey
    }
    if is.IsEpic {
        return is.Key
    }
    return Uncategorized
}

// IsCompleted matches done, closed and resolved exactly, ignoring case.
func IsCompleted(status string) bool {
    _, ok := doneStatuses[strings.ToLower(status)]
    return ok
}
