/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package jira

import (
    "encoding/json"
    "testing"
    "time"

    "github.com/charleseiq/eiq-manager-tools/internal/domain"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

const fullIssue = `{
  "id": "10001",
  "key": "WC-12",
  "fields": {
    "summary": "Add retry to ingestion",
    "status": {"name": "Done"},
    "issuetype": {"name": "Story"},
    "priority": {"name": "High"},
    "parent": {"key": "WC-1"},
    "timespent": 7200,
    "timeoriginalestimate": null,
    "labels": ["backend"],
    "created": "2025-07-02T10:00:00.000+0000",
    "description": {"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"Retry"},{"type":"text","text":"failed batches."}]}]},
    "customfield_10033": 5.0,
    "customfield_10020": [
      {"id": 41, "name": "WC Sprint 41", "state": "closed", "startDate": "2025-07-07T08:00:00.000Z", "endDate": "2025-07-21T08:00:00.000Z"},
      {"id": 42, "state": "active"}
    ]
  }
}`

func decodeRaw(t *testing.T, s string) RawIssue {
    t.Helper()
    var raw RawIssue
    require.NoError(t, json.Unmarshal([]byte(s), &raw))
    return raw
}

func TestDecode_FullIssue(t *testing.T) {
    rec, err := Decode(decodeRaw(t, fullIssue), DefaultFieldMap())
    require.NoError(t, err)
    assert.Equal(t, "WC-12", rec.Key)
    assert.Equal(t, "Done", rec.Status)
    assert.Equal(t, "Story", rec.IssueType)
    assert.Equal(t, "WC-1", rec.ParentKey)
    assert.False(t, rec.IsEpic)
    assert.Equal(t, 5, rec.StoryPoints)
    assert.Equal(t, int64(7200), rec.TimeSpent)
    assert.Equal(t, int64(0), rec.TimeEstimate)
    assert.Equal(t, []string{"backend"}, rec.Labels)
    assert.Equal(t, "Retry failed batches.", rec.Description)
    require.Len(t, rec.Sprints, 2)
    assert.Equal(t, int64(41), rec.Sprints[0].ID)
    require.NotNil(t, rec.Sprints[0].StartDate)
    assert.Equal(t, time.Date(2025, time.July, 7, 8, 0, 0, 0, time.UTC), *rec.Sprints[0].StartDate)
    assert.Equal(t, "Sprint 42", rec.Sprints[1].Name)
    assert.Nil(t, rec.Sprints[1].StartDate)
    require.NotNil(t, rec.Created)
}

func TestDecode_SparseIssueDefaultsToZero(t *testing.T) {
    rec, err := Decode(decodeRaw(t, `{"key":"WC-2","fields":{"issuetype":{"name":"Epic"},"status":null,"customfield_10033":null,"customfield_10020":null}}`), DefaultFieldMap())
    require.NoError(t, err)
    assert.Equal(t, domain.IssueRecord{Key: "WC-2", IssueType: "Epic", IsEpic: true}, rec)
}

func TestDecode_ParentAsStringAndCustomFieldMap(t *testing.T) {
    raw := decodeRaw(t, `{"key":"WC-3","fields":{"parent":"WC-100","customfield_10016":3.7}}`)
    fm := ResolveFieldMap([]Field{{ID: "customfield_10016", Name: "Story point estimate", Custom: true}}, nil)
    rec, err := Decode(raw, fm)
    require.NoError(t, err)
    assert.Equal(t, "WC-100", rec.ParentKey)
    assert.Equal(t, 3, rec.StoryPoints)
}

func TestDecode_RequiresKey(t *testing.T) {
    _, err := Decode(RawIssue{}, DefaultFieldMap())
    assert.Error(t, err)
}

func TestResolveFieldMap_OverridesWin(t *testing.T) {
    fm := ResolveFieldMap([]Field{{ID: "customfield_1", Name: "Sprint"}}, map[string]string{"Story Points": "customfield_9", "Sprint": "customfield_2"})
    assert.Equal(t, FieldMap{StoryPoints: "customfield_9", Sprint: "customfield_2"}, fm)
    assert.Equal(t, DefaultFieldMap(), ResolveFieldMap(nil, nil))
}

func TestBuildJQL(t *testing.T) {
    p := domain.Period{Start: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), End: time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)}
    dated, undated, err := BuildJQL(Assignee{Email: "a@x.io", Username: "ax"}, "WC", p)
    require.NoError(t, err)
    assert.Equal(t, `project = WC AND assignee = "a@x.io" AND ((updated >= "2025-07-01" AND updated <= "2025-12-31") OR (created >= "2025-07-01" AND created <= "2025-12-31")) ORDER BY updated DESC`, dated)
    assert.Equal(t, `project = WC AND assignee = "a@x.io" ORDER BY updated DESC`, undated)

    dated, _, err = BuildJQL(Assignee{AccountID: "5f00"}, "", p)
    require.NoError(t, err)
    assert.Contains(t, dated, `assignee = "5f00" AND ((`)

    _, _, err = BuildJQL(Assignee{}, "WC", p)
    assert.Error(t, err)
}
