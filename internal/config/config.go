/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package config

import (
    "encoding/json"
    "errors"
    "os"
    "strconv"
    "strings"
    "time"

    "github.com/joho/godotenv"
)

type Config struct {
    AppEnv   string
    LogLevel string
    TZ       string
    HTTPAddr string
    PublicBaseURL string

    DBDSN string

    JiraBaseURL    string
    JiraEmail      string
    JiraToken      string
    JiraPAT        string
    JiraProject    string
    JiraFieldsFile string
    JiraFieldMap   map[string]string // name -> id
    JiraRateLimit  float64
    JiraMaxIssues  int

    OpenAIKey     string
    OpenAIModel   string
    OpenAITimeout time.Duration

    TelegramToken         string
    TelegramWebhookSecret string
    TelegramChatIDs       []int64

    ReportCron   string
    ReportPeriod string
    ReportsDir   string
    UsersFile    string

    HTTPTimeout time.Duration
    WorkersJira int
}

func getenv(key, def string) string {
    v := os.Getenv(key)
    if v == "" { return def }
    return v
}

func atoi(key string, def int) int {
    v := os.Getenv(key)
    if v == "" { return def }
    i, err := strconv.Atoi(v)
    if err != nil { return def }
    return i
}

func atof(key string, def float64) float64 {
    v := os.Getenv(key)
    if v == "" { return def }
    f, err := strconv.ParseFloat(v, 64)
    if err != nil { return def }
    return f
}

func dur(key string, def time.Duration) time.Duration {
    v := os.Getenv(key)
    if v == "" { return def }
    d, err := time.ParseDuration(v)
    if err != nil { return def }
    return d
}

func parseInt64s(csv string) []int64 {
    if csv == "" { return nil }
    parts := strings.Split(csv, ",")
    out := make([]int64, 0, len(parts))
    for _, p := range parts {
        p = strings.TrimSpace(p)
        if p == "" { continue }
        n, err := strconv.ParseInt(p, 10, 64)
        if err == nil { out = append(out, n) }
    }
    return out
}

// Load reads an optional .env file and then the process environment.
// It never fails; missing values fall back to defaults.
func Load() Config {
    _ = godotenv.Load()

    cfg := Config{
        AppEnv:   getenv("APP_ENV", "dev"),
        LogLevel: getenv("LOG_LEVEL", "info"),
        TZ:       getenv("APP_TZ", "UTC"),
        HTTPAddr: getenv("HTTP_ADDR", ":8080"),
        PublicBaseURL: getenv("PUBLIC_BASE_URL", ""),

        DBDSN: getenv("DB_DSN", ""),

        JiraBaseURL:    strings.TrimRight(getenv("JIRA_URL", ""), "/"),
        JiraEmail:      getenv("JIRA_EMAIL", ""),
        JiraToken:      getenv("JIRA_TOKEN", ""),
        JiraPAT:        getenv("JIRA_PAT", ""),
        JiraProject:    getenv("JIRA_PROJECT", ""),
        JiraFieldsFile: getenv("JIRA_FIELDS_FILE", "config/jira_fields.json"),
        JiraRateLimit:  atof("JIRA_RATE_LIMIT", 10),
        JiraMaxIssues:  atoi("JIRA_MAX_ISSUES", 10000),

        OpenAIKey:     getenv("OPENAI_API_KEY", ""),
        OpenAIModel:   getenv("OPENAI_MODEL", "gpt-4.1"),
        OpenAITimeout: dur("OPENAI_TIMEOUT", 3*time.Minute),

        TelegramToken:         getenv("TELEGRAM_BOT_TOKEN", ""),
        TelegramWebhookSecret: getenv("TELEGRAM_WEBHOOK_SECRET", ""),
        TelegramChatIDs:       parseInt64s(getenv("TELEGRAM_CHAT_IDS", "")),

        ReportCron:   getenv("CRON_SPEC", "0 9 1 1,7 *"),
        ReportPeriod: getenv("REPORT_PERIOD", ""),
        ReportsDir:   getenv("REPORTS_DIR", "reports"),
        UsersFile:    getenv("USERS_FILE", "config.json"),

        HTTPTimeout: dur("HTTP_TIMEOUT", 30*time.Second),
        WorkersJira: atoi("WORKERS_JIRA", 6),
    }

    if loc, err := time.LoadLocation(cfg.TZ); err == nil {
        time.Local = loc
    }

    // Optional: Jira custom field ids by name, e.g. {"id":"customfield_10033","name":"Story Points"}
    if m, err := loadFieldMap(cfg.JiraFieldsFile); err == nil && len(m) > 0 {
        cfg.JiraFieldMap = m
    }
    return cfg
}

var ErrJiraAuth = errors.New("JIRA_URL plus JIRA_EMAIL and JIRA_TOKEN (or JIRA_PAT) must be set")

// CheckJira reports whether the Jira client will be able to authenticate.
// An API token needs the account email; a PAT stands alone.
func (c Config) CheckJira() error {
    if c.JiraBaseURL == "" { return ErrJiraAuth }
    if (c.JiraEmail != "" && c.JiraToken != "") || c.JiraPAT != "" { return nil }
    return ErrJiraAuth
}

func loadFieldMap(path string) (map[string]string, error) {
    data, err := os.ReadFile(path)
    if err != nil { return nil, err }
    type fieldDef struct { ID string `json:"id"`; Name string `json:"name"` }
    var arr []fieldDef
    if err := json.Unmarshal(data, &arr); err != nil { return nil, err }
    m := map[string]string{}
    for _, f := range arr {
        n := strings.TrimSpace(f.Name)
        if n != "" && f.ID != "" { m[n] = f.ID }
    }
    return m, nil
}
