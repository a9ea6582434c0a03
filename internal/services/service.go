/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package services

import (
    "context"
    "errors"
    "fmt"
    "strings"
    "sync"
    "time"

    "github.com/charleseiq/eiq-manager-tools/internal/adapters/jira"
    "github.com/charleseiq/eiq-manager-tools/internal/analysis"
    "github.com/charleseiq/eiq-manager-tools/internal/config"
    "github.com/charleseiq/eiq-manager-tools/internal/domain"
    "github.com/charleseiq/eiq-manager-tools/internal/period"
    "github.com/charleseiq/eiq-manager-tools/internal/report"
    "github.com/rs/zerolog"
)

type JiraClient interface {
    SearchKeys(ctx context.Context, jql string, max int) ([]string, error)
    Issue(ctx context.Context, key string) (jira.RawIssue, error)
    Worklogs(ctx context.Context, key string) ([]jira.RawWorklog, error)
    Fields(ctx context.Context) ([]jira.Field, error)
}

type LLM interface {
    Enabled() bool
    Analyze(ctx context.Context, system, user string) (string, error)
}

type Notifier interface {
    Enabled() bool
    SendMessagePlain(ctx context.Context, chatID int64, text string) error
}

type RunStore interface {
    StartReportRun(ctx context.Context, username, periodKey string) (string, error)
    FinishReportRun(ctx context.Context, run domain.ReportRun) error
    LastRun(ctx context.Context) (*domain.ReportRun, error)
}

type Recorder interface {
    ReportDone(ok bool, took time.Duration)
    FetchFailed()
}

type Service struct {
    cfg     config.Config
    log     zerolog.Logger
    jira    JiraClient
    llm     LLM
    tg      Notifier
    runs    RunStore
    metrics Recorder
    users   []domain.User

    fmMu       sync.Mutex
    fmResolved bool
    fieldMap   jira.FieldMap
}

// New wires the service. runs and metrics may be nil.
func New(cfg config.Config, log zerolog.Logger, users []domain.User, jc JiraClient, llm LLM, tg Notifier, runs RunStore, m Recorder) *Service {
    return &Service{cfg: cfg, log: log, users: users, jira: jc, llm: llm, tg: tg, runs: runs, metrics: m}
}

func (s *Service) Users() []domain.User { return s.users }

// Request names who and which window to analyze. Start and End, when both
// set, take precedence over Period.
type Request struct {
    Name      string
    Username  string
    Period    string
    Start     string
    End       string
    OutputDir string
    ChatID    int64
}

type Outcome struct {
    RunID       string
    Name        string
    Username    string
    PeriodKey   string
    Period      domain.Period
    PeriodLabel string
    ReportPath  string
    Markdown    string
    Result      analysis.Result
    Issues      int
    Worklogs    int
    Failed      []string
}

// FetchResult is the per-key outcome of the concurrent issue fetch.
type FetchResult struct {
    Key      string
    Issue    domain.IssueRecord
    Worklogs []domain.Worklog
    Err      error
}

// GenerateReport runs one full analysis: resolve, fetch, aggregate,
// narrate, render, save and notify.
func (s *Service) GenerateReport(ctx context.Context, req Request) (out *Outcome, err error) {
    began := time.Now()
    key, p, err := period.Resolve(req.Period, req.Start, req.End)
    if err != nil { return nil, err }
    name, username, user, err := config.ResolveIdentity(req.Name, req.Username, s.users, true)
    if err != nil { return nil, err }

    out = &Outcome{Name: name, Username: username, PeriodKey: key, Period: p, PeriodLabel: period.Label(p)}
    log := s.log.With().Str("user", username).Str("period", key).Logger()
    log.Info().Msg("report: start")

    if s.runs != nil {
        id, rerr := s.runs.StartReportRun(ctx, username, key)
        if rerr != nil { log.Error().Err(rerr).Msg("start report run failed") }
        out.RunID = id
    }
    defer func(){
        ok := err == nil
        if s.metrics != nil { s.metrics.ReportDone(ok, time.Since(began)) }
        if s.runs != nil && out.RunID != "" {
            run := domain.ReportRun{ID: out.RunID, OK: ok, Issues: out.Issues, Sprints: len(out.Result.InScope), Epics: len(out.Result.Epics), ReportPath: out.ReportPath}
            if err != nil { run.Error = err.Error() }
            fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second); defer cancel()
            if ferr := s.runs.FinishReportRun(fctx, run); ferr != nil { log.Error().Err(ferr).Msg("finish report run failed") }
        }
        if err != nil { log.Error().Err(err).Dur("took", time.Since(began)).Msg("report: failed") }
    }()

    keys, err := s.searchKeys(ctx, assigneeOf(username, user), projectOf(user, s.cfg.JiraProject), p, log)
    if err != nil { return out, fmt.Errorf("jira search: %w", err) }

    fm := s.resolveFieldMap(ctx)
    results := s.fetchAll(ctx, keys, fm)
    if err = ctx.Err(); err != nil { return out, err }

    var issues []domain.IssueRecord
    var worklogs []domain.Worklog
    for _, r := range results {
        if r.Err != nil {
            out.Failed = append(out.Failed, r.Key)
            if s.metrics != nil { s.metrics.FetchFailed() }
            log.Warn().Err(r.Err).Str("key", r.Key).Msg("issue fetch failed; skipped")
            continue
        }
        issues = append(issues, r.Issue)
        worklogs = append(worklogs, r.Worklogs...)
    }
    out.Issues, out.Worklogs = len(issues), len(worklogs)

    epicNames := s.resolveEpicNames(ctx, issues)
    out.Result = analysis.Analyze(p, issues, epicNames)
    log.Info().Int("issues", len(issues)).Int("sprints", len(out.Result.InScope)).Int("epics", len(out.Result.Epics)).Msg("report: aggregated")

    in := report.Input{
        Username:    username,
        AccountID:   accountOf(user),
        JiraURL:     s.cfg.JiraBaseURL,
        PeriodLabel: out.PeriodLabel,
        Issues:      redactIssues(issues),
        Worklogs:    redactWorklogs(worklogs),
        EpicNames:   epicNames,
        Result:      out.Result,
    }
    narrative := ""
    if s.llm != nil && s.llm.Enabled() {
        prompt, perr := report.BuildPrompt(in)
        if perr != nil { err = fmt.Errorf("build prompt: %w", perr); return out, err }
        narrative, err = s.llm.Analyze(ctx, report.SystemPrompt, prompt)
        if err != nil { err = fmt.Errorf("llm analysis failed: %w", err); return out, err }
    } else {
        log.Warn().Msg("llm not configured; writing metrics-only report")
    }

    out.Markdown = report.Render(in, narrative)
    dir := report.OutputDir(req.OutputDir, s.cfg.ReportsDir, name, username, key)
    if out.ReportPath, err = report.Save(dir, out.Markdown); err != nil { return out, fmt.Errorf("save report: %w", err) }
    log.Info().Str("path", out.ReportPath).Dur("took", time.Since(began)).Msg("report: saved")

    s.notify(ctx, out, req.ChatID)
    return out, nil
}

// searchKeys runs the dated query, retrying once without the date filter
// when nothing matched and a project bounds the query.
func (s *Service) searchKeys(ctx context.Context, who jira.Assignee, project string, p domain.Period, log zerolog.Logger) ([]string, error) {
    dated, undated, err := jira.BuildJQL(who, project, p)
    if err != nil { return nil, err }
    limit := s.cfg.JiraMaxIssues
    if limit <= 0 { limit = 10000 }
    log.Debug().Str("jql", dated).Msg("jira search")
    keys, err := s.jira.SearchKeys(ctx, dated, limit)
    if err != nil { return nil, err }
    if len(keys) == 0 && project != "" {
        log.Warn().Str("jql", undated).Msg("no issues in date range; retrying without date filter")
        return s.jira.SearchKeys(ctx, undated, limit)
    }
    return keys, nil
}

// resolveFieldMap caches the discovered ids only after a successful
// Fields call. A failed discovery falls back to defaults for this report
// and is retried on the next one.
func (s *Service) resolveFieldMap(ctx context.Context) jira.FieldMap {
    s.fmMu.Lock()
    defer s.fmMu.Unlock()
    if s.fmResolved { return s.fieldMap }
    fields, err := s.jira.Fields(ctx)
    if err != nil {
        s.log.Warn().Err(err).Msg("jira field discovery failed; using defaults for this report")
        return jira.ResolveFieldMap(nil, s.cfg.JiraFieldMap)
    }
    s.fieldMap = jira.ResolveFieldMap(fields, s.cfg.JiraFieldMap)
    s.fmResolved = true
    s.log.Info().Str("story_points", s.fieldMap.StoryPoints).Str("sprint", s.fieldMap.Sprint).Msg("jira field map")
    return s.fieldMap
}

func (s *Service) workers() int {
    if s.cfg.WorkersJira <= 0 { return 6 }
    return s.cfg.WorkersJira
}

// fetchAll fetches every issue and its worklogs on a bounded worker pool.
// Results keep the order of keys. A worklog failure is logged and leaves
// the issue in place.
func (s *Service) fetchAll(ctx context.Context, keys []string, fm jira.FieldMap) []FetchResult {
    results := make([]FetchResult, len(keys))
    forEach(ctx, len(keys), s.workers(), func(ctx context.Context, i int) {
        key := keys[i]
        results[i].Key = key
        raw, err := s.jira.Issue(ctx, key)
        if err != nil { results[i].Err = err; return }
        rec, err := jira.Decode(raw, fm)
        if err != nil { results[i].Err = err; return }
        results[i].Issue = rec
        wls, err := s.jira.Worklogs(ctx, key)
        if err != nil {
            s.log.Warn().Err(err).Str("key", key).Msg("worklog fetch failed")
            if s.metrics != nil { s.metrics.FetchFailed() }
            return
        }
        for _, w := range wls { results[i].Worklogs = append(results[i].Worklogs, jira.DecodeWorklog(key, w)) }
    })
    for i := range results {
        if results[i].Key == "" { results[i] = FetchResult{Key: keys[i], Err: context.Canceled} }
    }
    return results
}

// resolveEpicNames names every referenced epic: from the fetched epic issue
// itself when present, otherwise by fetching its summary. Failures fall back
// to the key.
func (s *Service) resolveEpicNames(ctx context.Context, issues []domain.IssueRecord) map[string]string {
    names := map[string]string{}
    for _, is := range issues {
        if is.IsEpic && is.Summary != "" { names[is.Key] = is.Summary }
    }
    var missing []string
    for _, k := range analysis.EpicKeys(issues) {
        if _, ok := names[k]; !ok { missing = append(missing, k) }
    }
    fetched := make([]string, len(missing))
    forEach(ctx, len(missing), s.workers(), func(ctx context.Context, i int) {
        raw, err := s.jira.Issue(ctx, missing[i])
        if err != nil {
            s.log.Warn().Err(err).Str("epic", missing[i]).Msg("epic name lookup failed")
            return
        }
        fetched[i] = jira.Summary(raw)
    })
    for i, k := range missing {
        if fetched[i] != "" { names[k] = fetched[i] } else { names[k] = k }
    }
    return names
}

// forEach calls fn for indices [0,n) on at most workers goroutines and
// stops handing out work once ctx is done.
func forEach(ctx context.Context, n, workers int, fn func(ctx context.Context, i int)) {
    if n == 0 { return }
    if workers > n { workers = n }
    jobs := make(chan int)
    var wg sync.WaitGroup
    for w := 0; w < workers; w++ {
        wg.Add(1)
        go func(){
            defer wg.Done()
            for i := range jobs { fn(ctx, i) }
        }()
    }
feed:
    for i := 0; i < n; i++ {
        select {
        case jobs <- i:
        case <-ctx.Done():
            break feed
        }
    }
    close(jobs)
    wg.Wait()
}

func assigneeOf(username string, u *domain.User) jira.Assignee {
    a := jira.Assignee{}
    if u != nil { a = jira.Assignee{Email: u.Email, Username: u.Username, AccountID: u.AccountID} }
    if strings.Contains(username, "@") {
        if a.Email == "" { a.Email = username }
    } else if a.Username == "" {
        a.Username = username
    }
    return a
}

func projectOf(u *domain.User, def string) string {
    if u != nil && u.JiraProject != "" { return u.JiraProject }
    return def
}

func accountOf(u *domain.User) string {
    if u == nil { return "" }
    return u.AccountID
}

// GenerateAll produces the report of every configured user for one period.
func (s *Service) GenerateAll(ctx context.Context, periodToken string) error {
    if len(s.users) == 0 { return errors.New("no users configured") }
    var errs []error
    for _, u := range s.users {
        if ctx.Err() != nil { errs = append(errs, ctx.Err()); break }
        _, err := s.GenerateReport(ctx, Request{Name: u.Name, Username: firstNonEmpty(u.Email, u.Username), Period: periodToken})
        if err != nil { errs = append(errs, fmt.Errorf("%s: %w", firstNonEmpty(u.Name, u.Username, u.Email), err)) }
    }
    return errors.Join(errs...)
}

func (s *Service) LastRun(ctx context.Context) (*domain.ReportRun, error) {
    if s.runs == nil { return nil, nil }
    return s.runs.LastRun(ctx)
}

func firstNonEmpty(vals ...string) string {
    for _, v := range vals { if strings.TrimSpace(v) != "" { return v } }
    return ""
}
