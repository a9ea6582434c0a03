/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package services

import (
    "context"
    "fmt"
    "sort"
    "strings"

    "github.com/charleseiq/eiq-manager-tools/internal/config"
    "github.com/charleseiq/eiq-manager-tools/internal/period"
)

const telegramChunk = 3800

// notify sends a plain-text notice plus a per-sprint digest to the
// configured chats and the requesting chat. Delivery errors are logged only.
func (s *Service) notify(ctx context.Context, out *Outcome, requester int64) {
    if s.tg == nil || !s.tg.Enabled() { return }
    chats := append([]int64(nil), s.cfg.TelegramChatIDs...)
    if requester != 0 && !contains(chats, requester) { chats = append(chats, requester) }
    if len(chats) == 0 { return }
    parts := chunkText(digest(out), telegramChunk)
    for _, chat := range chats {
        for _, p := range parts {
            if err := s.tg.SendMessagePlain(ctx, chat, p); err != nil {
                s.log.Error().Err(err).Int64("chat", chat).Msg("telegram send failed")
                break
            }
        }
    }
}

func digest(out *Outcome) string {
    who := out.Name
    if who == "" { who = out.Username }
    b := &strings.Builder{}
    fmt.Fprintf(b, "JIRA analysis ready: %s\n", who)
    fmt.Fprintf(b, "Period: %s\n", out.PeriodLabel)
    fmt.Fprintf(b, "Sprints: %d, Issues: %d, Epics: %d\n", len(out.Result.InScope), out.Issues, len(out.Result.Epics))
    if out.ReportPath != "" { fmt.Fprintf(b, "Saved to %s\n", out.ReportPath) }
    if len(out.Failed) > 0 { fmt.Fprintf(b, "Skipped %d issues that could not be fetched\n", len(out.Failed)) }
    names := make([]string, 0, len(out.Result.Sprints))
    for n := range out.Result.Sprints { names = append(names, n) }
    sort.Strings(names)
    if len(names) > 0 { b.WriteString("\n") }
    for _, n := range names {
        sm := out.Result.Sprints[n]
        fmt.Fprintf(b, "%s: %.1f%% complete, velocity %d\n", n, sm.CompletionRate, sm.Velocity)
    }
    return strings.TrimRight(b.String(), "\n")
}

func contains(ids []int64, id int64) bool {
    for _, x := range ids { if x == id { return true } }
    return false
}

// chunkText splits text into chunks of up to max runes, attempting to break on line boundaries.
func chunkText(s string, max int) []string {
    if max <= 0 { return []string{s} }
    var chunks []string
    cur := ""
    curlen := 0
    for _, ln := range strings.Split(s, "\n") {
        rl := len([]rune(ln))
        // a single line longer than max is hard-split
        if rl > max {
            if curlen > 0 { chunks = append(chunks, cur); cur = ""; curlen = 0 }
            r := []rune(ln)
            for i := 0; i < rl; i += max {
                chunks = append(chunks, string(r[i:min(i+max, rl)]))
            }
            continue
        }
        extra := rl
        if curlen > 0 { extra++ }
        switch {
        case curlen+extra > max:
            chunks = append(chunks, cur)
            cur, curlen = ln, rl
        case curlen == 0:
            cur, curlen = ln, rl
        default:
            cur += "\n" + ln
            curlen += extra
        }
    }
    if curlen > 0 { chunks = append(chunks, cur) }
    if len(chunks) == 0 { chunks = []string{""} }
    return chunks
}

const helpText = `EIQ report bot

Commands:
/report <user> <period>  generate a JIRA analysis, e.g. /report varun-sundar 2025H2
/help  show this message

Periods: YYYYH1, YYYYH2, YYYYQ1-Q4 or YYYY.`

// SendHelp replies with bot capabilities and commands.
func (s *Service) SendHelp(ctx context.Context, chatID int64) error {
    if chatID == 0 || s.tg == nil { return nil }
    return s.tg.SendMessagePlain(ctx, chatID, helpText)
}

// Command is a parsed chat command.
type Command struct {
    Name    string
    Request Request
}

// ParseCommand understands "/help", "/start" and "/report <user> <period>".
// The user is a username or email, or a name slug from the users directory.
func (s *Service) ParseCommand(text string) (Command, error) {
    f := strings.Fields(strings.TrimSpace(text))
    if len(f) == 0 { return Command{}, fmt.Errorf("empty command") }
    cmd := strings.ToLower(f[0])
    if i := strings.Index(cmd, "@"); i > 0 { cmd = cmd[:i] }
    switch cmd {
    case "/help", "/start":
        return Command{Name: "help"}, nil
    case "/report":
        if len(f) != 3 { return Command{}, fmt.Errorf("usage: /report <user> <period>") }
        if _, err := period.Parse(f[2]); err != nil { return Command{}, err }
        req := Request{Period: f[2]}
        if s.isUserName(f[1]) { req.Name = f[1] } else { req.Username = f[1] }
        return Command{Name: "report", Request: req}, nil
    }
    return Command{}, fmt.Errorf("unknown command %q", f[0])
}

func (s *Service) isUserName(arg string) bool {
    if strings.Contains(arg, "@") { return false }
    slug := config.Slugify(arg)
    for _, u := range s.users {
        if config.Slugify(u.Name) == slug { return true }
    }
    return false
}
