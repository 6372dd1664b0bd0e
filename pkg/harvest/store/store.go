package store

import (
	"context"
	"encoding/json"
	"io"
	"time"
)

// Store persists finalized datasets. A run is written all-or-nothing: on any
// failure mid-run nothing may remain visible.
type Store interface {
	Close() error

	SaveRun(ctx context.Context, r Run) error
	Posts(ctx context.Context) ([]PostRecord, error)
	Comments(ctx context.Context) ([]CommentRecord, error)
}

// Run is one finalized collection run.
type Run struct {
	ID        string
	StartedAt time.Time
	Posts     []PostRecord
	Comments  []CommentRecord
}

// PostRecord is a finalized, classified post row.
type PostRecord struct {
	PostID       string    `json:"post_id"`
	Container    string    `json:"subreddit"`
	Title        string    `json:"post_title"`
	Body         string    `json:"post_text"`
	Score        int       `json:"score"`
	CommentCount int       `json:"num_comments"`
	URL          string    `json:"url"`
	CreatedAt    time.Time `json:"created_utc"`
	SearchTerm   string    `json:"search_term_used"`

	Label       string  `json:"fatigue_classification"`
	Confidence  float64 `json:"classification_confidence"`
	Unavailable bool    `json:"classification_unavailable,omitempty"`

	RunID string `json:"run_id,omitempty"`
}

// CommentRecord is a finalized, classified comment row, flattened with
// denormalized parent-post fields for standalone consumption.
type CommentRecord struct {
	CommentID string    `json:"comment_id"`
	PostID    string    `json:"post_id"`
	PostTitle string    `json:"post_title"`
	Container string    `json:"subreddit"`
	Text      string    `json:"comment_text"`
	Score     int       `json:"comment_score"`
	CreatedAt time.Time `json:"comment_created_utc"`

	Label       string  `json:"fatigue_classification"`
	Confidence  float64 `json:"classification_confidence"`
	Unavailable bool    `json:"classification_unavailable,omitempty"`

	RunID string `json:"run_id,omitempty"`
}

// ExportCommentsJSON writes the comment set as a records-oriented JSON array
// for downstream static serving.
func ExportCommentsJSON(w io.Writer, comments []CommentRecord) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if comments == nil {
		comments = []CommentRecord{}
	}
	return enc.Encode(comments)
}
