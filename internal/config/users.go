/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package config

import (
    "encoding/json"
    "errors"
    "fmt"
    "os"
    "path/filepath"
    "regexp"
    "strings"

    "github.com/charleseiq/eiq-manager-tools/internal/domain"
    "gopkg.in/yaml.v3"
)

type usersFile struct {
    Users []domain.User `json:"users" yaml:"users"`
}

// LoadUsers reads the users directory. JSON and YAML are both accepted,
// chosen by file extension.
func LoadUsers(path string) ([]domain.User, error) {
    data, err := os.ReadFile(path)
    if err != nil {
        return nil, err
    }
    var f usersFile
    switch strings.ToLower(filepath.Ext(path)) {
    case ".yaml", ".yml":
        err = yaml.Unmarshal(data, &f)
    default:
        err = json.Unmarshal(data, &f)
    }
    if err != nil {
        return nil, fmt.Errorf("users file %s: %w", path, err)
    }
    return f.Users, nil
}

var (
    slugSpaceRe = regexp.MustCompile(`[\s_]+`)
    slugDropRe  = regexp.MustCompile(`[^a-z0-9-]`)
    slugDashRe  = regexp.MustCompile(`-+`)
)

// Slugify lowercases text and keeps only [a-z0-9-], collapsing separators.
func Slugify(text string) string {
    s := strings.ToLower(text)
    s = slugSpaceRe.ReplaceAllString(s, "-")
    s = slugDropRe.ReplaceAllString(s, "")
    s = slugDashRe.ReplaceAllString(s, "-")
    return strings.Trim(s, "-")
}

// Unslugify turns "varun-sundar" into "Varun Sundar".
func Unslugify(slug string) string {
    var words []string
    for _, w := range strings.Split(slug, "-") {
        if w == "" {
            continue
        }
        r := []rune(strings.ToLower(w))
        words = append(words, strings.ToUpper(string(r[0]))+string(r[1:]))
    }
    return strings.Join(words, " ")
}

var ErrUserNotFound = errors.New("user not found")

// ResolveIdentity fills in whichever of name / username is missing from the
// users directory. preferEmail selects the email over the username, which is
// what Jira assignee queries want.
func ResolveIdentity(name, username string, users []domain.User, preferEmail bool) (string, string, *domain.User, error) {
    if name != "" && strings.Contains(name, "-") && !strings.Contains(name, " ") {
        name = Unslugify(name)
    }

    if name != "" && username == "" {
        if len(users) == 0 {
            return "", "", nil, errors.New("name provided but users config is empty; pass a username instead")
        }
        u := findByName(name, users)
        if u == nil {
            return "", "", nil, fmt.Errorf("%w: %q", ErrUserNotFound, name)
        }
        name = u.Name
        if preferEmail {
            username = firstNonEmpty(u.Email, u.Username)
        } else {
            username = firstNonEmpty(u.Username, u.Email)
        }
        if username == "" {
            return "", "", nil, fmt.Errorf("user %q has no username or email in config", name)
        }
        return name, username, u, nil
    }

    if username == "" {
        return "", "", nil, errors.New("could not resolve username; provide a username or a name present in the users config")
    }

    for i := range users {
        u := &users[i]
        if u.Username != username && u.Email != username {
            continue
        }
        if name == "" {
            name = u.Name
        }
        if preferEmail && u.Email != "" && u.Username == username {
            username = u.Email
        }
        return name, username, u, nil
    }
    return name, username, nil, nil
}

func findByName(name string, users []domain.User) *domain.User {
    for i := range users {
        if strings.EqualFold(users[i].Name, name) {
            return &users[i]
        }
    }
    slug := Slugify(name)
    for i := range users {
        if Slugify(users[i].Name) == slug {
            return &users[i]
        }
    }
    return nil
}

func firstNonEmpty(vals ...string) string {
    for _, v := range vals {
        if v != "" {
            return v
        }
    }
    return ""
}
