/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package metrics

import (
    "net/http"
    "net/http/httptest"
    "testing"
    "time"

    "github.com/prometheus/client_golang/prometheus/testutil"
    "github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
    m := New()
    m.ReportDone(true, 2*time.Second)
    m.ReportDone(false, time.Second)
    m.ReportDone(true, time.Second)
    m.FetchFailed()

    assert.Equal(t, 2.0, testutil.ToFloat64(m.reports.WithLabelValues("ok")))
    assert.Equal(t, 1.0, testutil.ToFloat64(m.reports.WithLabelValues("error")))
    assert.Equal(t, 1.0, testutil.ToFloat64(m.fetchFailures))

    rec := httptest.NewRecorder()
    m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Contains(t, rec.Body.String(), `reports_total{status="ok"} 2`)
    assert.Contains(t, rec.Body.String(), "report_duration_seconds_count 3")
}
