package source

import (
	"context"
	"time"
)

// Submission is a top-level content item returned by a container search.
// Text fields arrive raw; normalization happens in the collector.
type Submission struct {
	ID           string
	Container    string
	Title        string
	Body         string
	Score        int
	CommentCount int
	URL          string
	CreatedAt    time.Time
}

// Comment is a reply under a submission, in the connector's natural order.
type Comment struct {
	ID        string
	Body      string
	Score     int
	CreatedAt time.Time
}

// Connector abstracts the paginated, rate-limited external content API.
// Implementations must filter out pinned/announcement submissions before
// yielding, and must fail with internalerr.ErrNotInitialized when required
// credentials are absent, before touching the network.
type Connector interface {
	// Search returns up to limit non-pinned submissions from the container
	// matching the search term, in the API's relevance order.
	Search(ctx context.Context, container, term string, limit int) ([]Submission, error)

	// Comments returns up to cap comments of the submission in the API's
	// natural order. No re-sorting.
	Comments(ctx context.Context, sub Submission, cap int) ([]Comment, error)
}
