package store

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestExportCommentsJSON(t *testing.T) {
	comments := []CommentRecord{
		{
			CommentID:  "cm1",
			PostID:     "p1",
			PostTitle:  "selank trial",
			Container:  "Nootropics",
			Text:       "it helped a lot",
			Score:      4,
			CreatedAt:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
			Label:      "mental fatigue",
			Confidence: 0.91,
		},
	}

	var buf bytes.Buffer
	if err := ExportCommentsJSON(&buf, comments); err != nil {
		t.Fatalf("ExportCommentsJSON: %v", err)
	}

	var decoded []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not a JSON array: %v", err)
	}
	if len(decoded) != 1 {
		t.Fatalf("records = %d, want 1", len(decoded))
	}
	rec := decoded[0]
	if rec["comment_id"] != "cm1" || rec["fatigue_classification"] != "mental fatigue" {
		t.Errorf("record = %v", rec)
	}
	if _, ok := rec["classification_unavailable"]; ok {
		t.Error("unavailable flag should be omitted when false")
	}
	if !strings.Contains(buf.String(), "\n  ") {
		t.Error("export should be indented")
	}
}

func TestExportCommentsJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportCommentsJSON(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(buf.String()); got != "[]" {
		t.Errorf("empty export = %q, want []", got)
	}
}
