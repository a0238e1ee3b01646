package handlers

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseTimestamp(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"2026-03-01T12:30:00Z", time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC), true},
		{"2026-03-01", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), true},
		{"03/01/2026", time.Time{}, false},
		{"", time.Time{}, false},
	}

	for _, tc := range cases {
		got, err := parseTimestamp(tc.in)
		if tc.ok {
			if err != nil {
				t.Fatalf("parseTimestamp(%q): %v", tc.in, err)
			}
			if !got.Equal(tc.want) {
				t.Fatalf("parseTimestamp(%q) = %v; want %v", tc.in, got, tc.want)
			}
			continue
		}
		if err == nil {
			t.Fatalf("parseTimestamp(%q) = %v; want error", tc.in, got)
		}
	}
}

// The milestone field must keep three states apart: absent leaves the
// link alone, null clears it, a string moves the task.
func TestUpdateTaskRequestMilestoneTriState(t *testing.T) {
	var absent UpdateTaskRequest
	if err := json.Unmarshal([]byte(`{"title":"x"}`), &absent); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(absent.MilestoneID) != 0 {
		t.Fatalf("absent milestone_id = %q; want empty", absent.MilestoneID)
	}

	var cleared UpdateTaskRequest
	if err := json.Unmarshal([]byte(`{"milestone_id":null}`), &cleared); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if string(cleared.MilestoneID) != "null" {
		t.Fatalf("cleared milestone_id = %q; want the null literal", cleared.MilestoneID)
	}

	var set UpdateTaskRequest
	if err := json.Unmarshal([]byte(`{"milestone_id":"m1"}`), &set); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	var id string
	if err := json.Unmarshal(set.MilestoneID, &id); err != nil || id != "m1" {
		t.Fatalf("set milestone_id = %q (%v); want m1", set.MilestoneID, err)
	}
}
