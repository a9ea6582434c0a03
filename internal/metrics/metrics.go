/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package metrics

import (
    "net/http"
    "time"

    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/collectors"
    "github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the report pipeline collectors on a private registry.
type Metrics struct {
    reg           *prometheus.Registry
    reports       *prometheus.CounterVec
    duration      prometheus.Histogram
    fetchFailures prometheus.Counter
}

func New() *Metrics {
    m := &Metrics{
        reg: prometheus.NewRegistry(),
        reports: prometheus.NewCounterVec(prometheus.CounterOpts{
            Name: "reports_total",
            Help: "Report generation attempts by outcome.",
        }, []string{"status"}),
        duration: prometheus.NewHistogram(prometheus.HistogramOpts{
            Name:    "report_duration_seconds",
            Help:    "Wall time of one report generation.",
            Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
        }),
        fetchFailures: prometheus.NewCounter(prometheus.CounterOpts{
            Name: "jira_fetch_failures_total",
            Help: "Issues or worklogs that could not be fetched from Jira.",
        }),
    }
    m.reg.MustRegister(m.reports, m.duration, m.fetchFailures,
        collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
    return m
}

func (m *Metrics) ReportDone(ok bool, took time.Duration) {
    status := "ok"
    if !ok { status = "error" }
    m.reports.WithLabelValues(status).Inc()
    m.duration.Observe(took.Seconds())
}

func (m *Metrics) FetchFailed() { m.fetchFailures.Inc() }

func (m *Metrics) Handler() http.Handler {
    return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}
