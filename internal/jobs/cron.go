/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package jobs

import (
    "context"
    "time"

    "github.com/charleseiq/eiq-manager-tools/internal/config"
    "github.com/charleseiq/eiq-manager-tools/internal/period"
    "github.com/robfig/cron/v3"
    "github.com/rs/zerolog"
)

type service interface { GenerateAll(ctx context.Context, periodToken string) error }

// Locker guards the scheduled run across replicas. Nil disables locking.
type Locker interface {
    TryAdvisoryLock(ctx context.Context, key int64) (bool, error)
    AdvisoryUnlock(ctx context.Context, key int64) error
}

const lockKey int64 = 424242

type Cron struct {
    cfg  config.Config
    log  zerolog.Logger
    svc  service
    lock Locker
    c    *cron.Cron
    now  func() time.Time
}

func NewCron(cfg config.Config, log zerolog.Logger, svc service, lock Locker) (*Cron, error) {
    loc, err := time.LoadLocation(cfg.TZ)
    if err != nil { loc = time.UTC }
    c := cron.New(cron.WithLocation(loc), cron.WithParser(cron.NewParser(cron.Minute|cron.Hour|cron.Dom|cron.Month|cron.Dow)))
    cr := &Cron{cfg: cfg, log: log, svc: svc, lock: lock, c: c, now: time.Now}
    if _, err := c.AddFunc(cfg.ReportCron, cr.scheduled); err != nil { return nil, err }
    return cr, nil
}

func (cr *Cron) Start(){ cr.c.Start() }

// Stop waits for a running job to finish.
func (cr *Cron) Stop(){ <-cr.c.Stop().Done() }

// PeriodToken is REPORT_PERIOD when set, otherwise the half-year that just ended.
func (cr *Cron) PeriodToken() string {
    if cr.cfg.ReportPeriod != "" { return cr.cfg.ReportPeriod }
    return period.PreviousHalf(cr.now())
}

func (cr *Cron) scheduled(){
    ctx, cancel := context.WithTimeout(context.Background(), 2*time.Hour); defer cancel()
    cr.Run(ctx)
}

// Run generates every configured user's report once, under the advisory
// lock when one is configured.
func (cr *Cron) Run(ctx context.Context) {
    if cr.lock != nil {
        ok, err := cr.lock.TryAdvisoryLock(ctx, lockKey)
        if err != nil { cr.log.Error().Err(err).Msg("cron: lock error"); return }
        if !ok { cr.log.Info().Msg("cron: already running elsewhere"); return }
        defer func(){ _ = cr.lock.AdvisoryUnlock(context.Background(), lockKey) }()
    }
    token := cr.PeriodToken()
    cr.log.Info().Str("period", token).Msg("cron: scheduled reports")
    if err := cr.svc.GenerateAll(ctx, token); err != nil { cr.log.Error().Err(err).Msg("cron: reports failed") }
}
