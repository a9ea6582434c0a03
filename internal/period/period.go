/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */

// Package period turns review-period tokens (2025, 2025H2, 2026Q1) into
// calendar date ranges and back into human readable labels.
package period

import (
    "errors"
    "fmt"
    "regexp"
    "strconv"
    "strings"
    "time"

    "github.com/charleseiq/eiq-manager-tools/internal/domain"
)

const dateLayout = "2006-01-02"

var ErrInvalidPeriodFormat = errors.New("invalid period format")

var (
    halfRe    = regexp.MustCompile(`^(\d{4})H([12])$`)
    quarterRe = regexp.MustCompile(`^(\d{4})Q([1-4])$`)
    yearRe    = regexp.MustCompile(`^(\d{4})$`)
)

// shape is one canonical range inside a year.
type shape struct {
    suffix     string
    startMonth time.Month
    endMonth   time.Month
    endDay     int
}

var shapes = []shape{
    {"", time.January, time.December, 31},
    {"H1", time.January, time.June, 30},
    {"H2", time.July, time.December, 31},
    {"Q1", time.January, time.March, 31},
    {"Q2", time.April, time.June, 30},
    {"Q3", time.July, time.September, 30},
    {"Q4", time.October, time.December, 31},
}

func date(y int, m time.Month, d int) time.Time {
    return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s shape) period(year int) domain.Period {
    return domain.Period{Start: date(year, s.startMonth, 1), End: date(year, s.endMonth, s.endDay)}
}

// Parse resolves a period token. Case and surrounding whitespace are ignored.
func Parse(token string) (domain.Period, error) {
    t := strings.ToUpper(strings.TrimSpace(token))
    var suffix string
    var year string
    if m := halfRe.FindStringSubmatch(t); m != nil {
        year, suffix = m[1], "H"+m[2]
    } else if m := quarterRe.FindStringSubmatch(t); m != nil {
        year, suffix = m[1], "Q"+m[2]
    } else if m := yearRe.FindStringSubmatch(t); m != nil {
        year = m[1]
    } else {
        return domain.Period{}, fmt.Errorf("%w: %s. Use format: YYYYH1, YYYYH2, YYYYQ1-Q4, or YYYY (e.g., '2025H2', '2026Q1', '2025')", ErrInvalidPeriodFormat, t)
    }
    y, _ := strconv.Atoi(year)
    for _, s := range shapes {
        if s.suffix == suffix {
            return s.period(y), nil
        }
    }
    return domain.Period{}, fmt.Errorf("%w: %s", ErrInvalidPeriodFormat, t)
}

func match(p domain.Period) (shape, bool) {
    if p.Start.Year() != p.End.Year() {
        return shape{}, false
    }
    for _, s := range shapes {
        c := s.period(p.Start.Year())
        if c.Start.Equal(domain.DateOf(p.Start)) && c.End.Equal(domain.DateOf(p.End)) {
            return s, true
        }
    }
    return shape{}, false
}

// Label renders "2025H2 (July 1 - December 31, 2025)" for canonical ranges
// and "2025-07-01 to 2025-12-15" for everything else.
func Label(p domain.Period) string {
    s, ok := match(p)
    if !ok {
        return p.Start.Format(dateLayout) + " to " + p.End.Format(dateLayout)
    }
    y := p.Start.Year()
    return fmt.Sprintf("%d%s (%s %d - %s %d, %d)", y, s.suffix, s.startMonth, 1, s.endMonth, s.endDay, y)
}

// Key is the short token used in output paths: "2025H2", or
// "2025-07-01_to_2025-12-15" for non-canonical ranges.
func Key(p domain.Period) string {
    s, ok := match(p)
    if !ok {
        return p.Start.Format(dateLayout) + "_to_" + p.End.Format(dateLayout)
    }
    return strconv.Itoa(p.Start.Year()) + s.suffix
}

// Resolve picks the analysis window from either a token or an explicit
// YYYY-MM-DD pair. Explicit dates win when both are given.
func Resolve(token, start, end string) (string, domain.Period, error) {
    start, end = strings.TrimSpace(start), strings.TrimSpace(end)
    if start != "" && end != "" {
        s, err := time.Parse(dateLayout, start)
        if err != nil {
            return "", domain.Period{}, fmt.Errorf("period: bad start date %q: %w", start, err)
        }
        e, err := time.Parse(dateLayout, end)
        if err != nil {
            return "", domain.Period{}, fmt.Errorf("period: bad end date %q: %w", end, err)
        }
        if e.Before(s) {
            return "", domain.Period{}, fmt.Errorf("period: start %s is after end %s", start, end)
        }
        p := domain.Period{Start: s, End: e}
        return Key(p), p, nil
    }
    if strings.TrimSpace(token) == "" {
        return "", domain.Period{}, errors.New("could not resolve date range; provide a period or both start and end")
    }
    p, err := Parse(token)
    if err != nil {
        return "", domain.Period{}, err
    }
    return Key(p), p, nil
}

// PreviousHalf returns the token of the last half-year that ended before now.
func PreviousHalf(now time.Time) string {
    if now.Month() <= time.June {
        return fmt.Sprintf("%dH2", now.Year()-1)
    }
    return fmt.Sprintf("%dH1", now.Year())
}
