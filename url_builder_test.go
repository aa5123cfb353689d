package slacknet

import (
	"testing"
	"time"
)

func TestURLBuilder_URL(t *testing.T) {
	t.Parallel()

	changeType := ChangeTypeRemoved
	var nilTime *time.Time

	tests := []struct {
		name     string
		method   string
		args     Args
		expected string
	}{
		{
			name:     "no args",
			method:   "team.info",
			args:     nil,
			expected: "https://slack.com/api/team.info",
		},
		{
			name:     "only absent args",
			method:   "team.info",
			args:     Args{"team": nil, "before": nilTime},
			expected: "https://slack.com/api/team.info",
		},
		{
			name:     "absent args are omitted",
			method:   "team.accessLogs",
			args:     Args{"before": nil, "count": 100, "page": 2},
			expected: "https://slack.com/api/team.accessLogs?count=100&page=2",
		},
		{
			name:     "enum by name",
			method:   "team.integrationLogs",
			args:     Args{"change_type": &changeType},
			expected: "https://slack.com/api/team.integrationLogs?change_type=removed",
		},
		{
			name:     "list joined with commas",
			method:   "files.list",
			args:     Args{"types": []FileType{FileTypeImages, FileTypePdfs}},
			expected: "https://slack.com/api/files.list?types=images%2Cpdfs",
		},
		{
			name:     "empty list is absent",
			method:   "files.list",
			args:     Args{"types": []FileType{}, "channel": "C1"},
			expected: "https://slack.com/api/files.list?channel=C1",
		},
		{
			name:     "empty map is absent",
			method:   "example.method",
			args:     Args{"labels": map[string]string{}},
			expected: "https://slack.com/api/example.method",
		},
		{
			name:     "date and bool",
			method:   "example.method",
			args:     Args{"date": time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC), "inclusive": true},
			expected: "https://slack.com/api/example.method?date=2024-03-05&inclusive=true",
		},
		{
			name:     "keys follow the naming strategy",
			method:   "team.info",
			args:     Args{"teamID": "T1"},
			expected: "https://slack.com/api/team.info?team_id=T1",
		},
		{
			name:     "strings are escaped",
			method:   "chat.postMessage",
			args:     Args{"text": "a&b c"},
			expected: "https://slack.com/api/chat.postMessage?text=a%26b+c",
		},
	}

	b := NewURLBuilder(DefaultBaseURL, NewJSONSettings())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := b.URL(tt.method, tt.args)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestURLBuilder_BaseURLWithoutSlash(t *testing.T) {
	t.Parallel()

	b := NewURLBuilder("http://localhost:8080/api", nil)

	got, err := b.URL("auth.test", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got != "http://localhost:8080/api/auth.test" {
		t.Errorf("unexpected URL %s", got)
	}
}

func TestURLBuilder_StructArgIsJSON(t *testing.T) {
	t.Parallel()

	type block struct {
		Type     string
		BlockID  string
		Elements []string `json:",omitempty"`
	}

	b := NewURLBuilder(DefaultBaseURL, NewJSONSettings())

	values, err := b.Values(Args{"blocks": []any{block{Type: "divider", BlockID: "b1"}}, "meta": block{Type: "section"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := values.Get("blocks"); got != `{"type":"divider","block_id":"b1"}` {
		t.Errorf("unexpected blocks value %s", got)
	}

	if got := values.Get("meta"); got != `{"type":"section","block_id":""}` {
		t.Errorf("unexpected meta value %s", got)
	}
}

func TestArgs_Present(t *testing.T) {
	t.Parallel()

	var nilMap map[string]string
	var nilSlice []string

	keys, values := Args{
		"zeta":      "z",
		"alpha":     0,
		"empty":     "",
		"nil":       nil,
		"nil_map":   nilMap,
		"nil_slice": nilSlice,
		"no_items":  []string{},
		"userID":    "U1",
	}.present(NewJSONSettings())

	expected := []string{"alpha", "empty", "user_id", "zeta"}
	if len(keys) != len(expected) {
		t.Fatalf("expected keys %v, got %v", expected, keys)
	}

	for i := range expected {
		if keys[i] != expected[i] {
			t.Errorf("expected keys %v, got %v", expected, keys)
			break
		}
	}

	if values["alpha"] != 0 || values["empty"] != "" || values["user_id"] != "U1" {
		t.Errorf("unexpected values %v", values)
	}
}
