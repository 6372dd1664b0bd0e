// Package harvest implements the fetch-filter-classify pipeline: rate-limited
// collection of posts and comment trees from a content API, layered keyword
// relevance filtering, confidence-thresholded classification, and
// de-duplicated persistence of the resulting research datasets.
package harvest

import (
	"context"
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/neurocorpus/harvest/pkg/harvest/classify"
	"github.com/neurocorpus/harvest/pkg/harvest/finalize"
	"github.com/neurocorpus/harvest/pkg/harvest/internalerr"
	"github.com/neurocorpus/harvest/pkg/harvest/keywords"
	"github.com/neurocorpus/harvest/pkg/harvest/source"
	"github.com/neurocorpus/harvest/pkg/harvest/store"
	"github.com/neurocorpus/harvest/pkg/harvest/textnorm"
)

// DefaultCommentCap bounds how many comments are kept per post.
const DefaultCommentCap = 5

// Comment is a normalized reply collected under a Post.
type Comment struct {
	ID        string    `json:"comment_id"`
	Text      string    `json:"comment_text"`
	Score     int       `json:"comment_score"`
	CreatedAt time.Time `json:"comment_created_utc"`
}

// Post is a normalized submission with its capped, ordered comment list.
type Post struct {
	ID           string    `json:"post_id"`
	Container    string    `json:"subreddit"`
	Title        string    `json:"post_title"`
	Body         string    `json:"post_text"`
	Score        int       `json:"score"`
	CommentCount int       `json:"num_comments"`
	URL          string    `json:"url"`
	CreatedAt    time.Time `json:"created_utc"`
	SearchTerm   string    `json:"search_term_used"`
	Comments     []Comment `json:"comments"`
}

// Params bounds one collection run.
type Params struct {
	Containers   []string
	Terms        []string
	LimitPerTerm int
	TotalLimit   int
}

// PresetParams maps a run mode to its collection limits. Only two presets
// exist: "test" for interactive previews and "full" for study runs.
func PresetParams(mode string) (limitPerTerm, totalLimit int, err error) {
	switch mode {
	case "test":
		return 1, 5, nil
	case "full":
		return 10, 50, nil
	default:
		return 0, 0, internalerr.ErrValidation
	}
}

// Pacing holds the polite delays applied after each unit of external work.
// These bound the request rate against the content API and are a courtesy
// requirement, not an optimization; zero values disable a delay (tests).
type Pacing struct {
	PerSubmission time.Duration
	TermMin       time.Duration
	TermMax       time.Duration
	ContainerMin  time.Duration
	ContainerMax  time.Duration
}

// DefaultPacing returns the study defaults: 0.5s per submission, 1-2s
// between search terms, 2-5s between containers.
func DefaultPacing() Pacing {
	return Pacing{
		PerSubmission: 500 * time.Millisecond,
		TermMin:       1 * time.Second,
		TermMax:       2 * time.Second,
		ContainerMin:  2 * time.Second,
		ContainerMax:  5 * time.Second,
	}
}

// Options configures a Harvester instance.
type Options struct {
	Connector  source.Connector
	Classifier classify.Classifier
	Filter     *keywords.Filter
	Store      store.Store
	Logger     *zap.SugaredLogger

	Labels     []string
	Threshold  float64
	CommentCap int
	Pacing     Pacing
}

// Harvester is the pipeline facade. One instance serves one study
// configuration; individual runs share no mutable state beyond the stateless
// connector client.
type Harvester struct {
	connector  source.Connector
	classifier classify.Classifier
	filter     *keywords.Filter
	store      store.Store
	log        *zap.SugaredLogger

	labels     []string
	threshold  float64
	commentCap int
	pacing     Pacing
}

// New creates a Harvester with the given dependencies. Filter, labels,
// threshold and comment cap fall back to study defaults when unset.
func New(opts Options) *Harvester {
	h := &Harvester{
		connector:  opts.Connector,
		classifier: opts.Classifier,
		filter:     opts.Filter,
		store:      opts.Store,
		log:        opts.Logger,
		labels:     opts.Labels,
		threshold:  opts.Threshold,
		commentCap: opts.CommentCap,
		pacing:     opts.Pacing,
	}
	if h.filter == nil {
		h.filter = keywords.NewDefaultFilter()
	}
	if h.log == nil {
		h.log = zap.NewNop().Sugar()
	}
	if len(h.labels) == 0 {
		h.labels = classify.DefaultLabels
	}
	if h.threshold == 0 {
		h.threshold = finalize.DefaultThreshold
	}
	if h.commentCap == 0 {
		h.commentCap = DefaultCommentCap
	}
	return h
}

// Collect retrieves up to TotalLimit posts across containers × terms in
// order, normalizing text and attaching up to the comment cap per post.
// The total cap is checked before each unit of work, never after, so the run
// cannot overshoot. Collection is all-or-nothing: the first connector
// failure aborts the run and surfaces with container context; no partial
// result is returned. Cancellation is cooperative, checked at every loop
// boundary.
func (h *Harvester) Collect(ctx context.Context, p Params) ([]Post, error) {
	if len(p.Containers) == 0 || len(p.Terms) == 0 || p.LimitPerTerm <= 0 || p.TotalLimit <= 0 {
		return nil, internalerr.ErrValidation
	}

	var posts []Post

	for ci, container := range p.Containers {
		for ti, term := range p.Terms {
			if len(posts) >= p.TotalLimit {
				return posts, nil
			}
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			h.log.Infow("searching container", "container", container, "term", term, "limit", p.LimitPerTerm)
			subs, err := h.connector.Search(ctx, container, term, p.LimitPerTerm)
			if err != nil {
				return nil, &internalerr.TransportError{Container: container, Err: err}
			}

			for _, sub := range subs {
				if len(posts) >= p.TotalLimit {
					return posts, nil
				}
				if err := ctx.Err(); err != nil {
					return nil, err
				}

				comments, err := h.connector.Comments(ctx, sub, h.commentCap)
				if err != nil {
					return nil, &internalerr.TransportError{Container: container, Err: err}
				}

				post := Post{
					ID:           sub.ID,
					Container:    sub.Container,
					Title:        textnorm.Normalize(sub.Title),
					Body:         textnorm.Normalize(sub.Body),
					Score:        sub.Score,
					CommentCount: sub.CommentCount,
					URL:          sub.URL,
					CreatedAt:    sub.CreatedAt,
					SearchTerm:   term,
					Comments:     make([]Comment, 0, len(comments)),
				}
				for _, cm := range comments {
					post.Comments = append(post.Comments, Comment{
						ID:        cm.ID,
						Text:      textnorm.Normalize(cm.Body),
						Score:     cm.Score,
						CreatedAt: cm.CreatedAt,
					})
				}
				posts = append(posts, post)

				if err := sleep(ctx, h.pacing.PerSubmission); err != nil {
					return nil, err
				}
			}

			h.log.Infow("term finished", "container", container, "term", term, "collected", len(posts))
			if ti < len(p.Terms)-1 {
				if err := sleep(ctx, jitter(h.pacing.TermMin, h.pacing.TermMax)); err != nil {
					return nil, err
				}
			}
		}

		if ci < len(p.Containers)-1 {
			if err := sleep(ctx, jitter(h.pacing.ContainerMin, h.pacing.ContainerMax)); err != nil {
				return nil, err
			}
		}
	}

	return posts, nil
}

// Summary reports what one full pipeline run produced.
type Summary struct {
	RunID             string
	StartedAt         time.Time
	Collected         int
	PostsKept         int
	CommentsKept      int
	DuplicatePosts    int
	DuplicateComments int
}

// Run executes the full pipeline: collect, filter by keyword relevance,
// classify, finalize (dedup then threshold then sort), persist. On any fatal
// failure nothing is written.
func (h *Harvester) Run(ctx context.Context, p Params) (Summary, error) {
	started := time.Now().UTC()

	posts, err := h.Collect(ctx, p)
	if err != nil {
		return Summary{}, err
	}

	var postRecords []store.PostRecord
	var commentRecords []store.CommentRecord

	for _, post := range posts {
		fullText := joinText(post.Title, post.Body)

		if h.filter.RelevantPost(fullText) {
			out := h.classifyText(ctx, fullText)
			postRecords = append(postRecords, store.PostRecord{
				PostID:       post.ID,
				Container:    post.Container,
				Title:        post.Title,
				Body:         post.Body,
				Score:        post.Score,
				CommentCount: post.CommentCount,
				URL:          post.URL,
				CreatedAt:    post.CreatedAt,
				SearchTerm:   post.SearchTerm,
				Label:        out.Label,
				Confidence:   out.Confidence,
				Unavailable:  out.Unavailable,
			})
		}

		for _, cm := range post.Comments {
			if !h.filter.RelevantComment(cm.Text, fullText) {
				continue
			}
			// Classification sees only the comment's own text; the parent
			// context is for relevance filtering, not scoring.
			out := h.classifyText(ctx, cm.Text)
			commentRecords = append(commentRecords, store.CommentRecord{
				CommentID:   cm.ID,
				PostID:      post.ID,
				PostTitle:   post.Title,
				Container:   post.Container,
				Text:        cm.Text,
				Score:       cm.Score,
				CreatedAt:   cm.CreatedAt,
				Label:       out.Label,
				Confidence:  out.Confidence,
				Unavailable: out.Unavailable,
			})
		}
	}

	keptPosts, dupPosts := finalize.Finalize(postRecords,
		func(r store.PostRecord) string { return r.PostID },
		func(r store.PostRecord) float64 { return r.Confidence },
		h.threshold)
	keptComments, dupComments := finalize.Finalize(commentRecords,
		func(r store.CommentRecord) string { return r.CommentID },
		func(r store.CommentRecord) float64 { return r.Confidence },
		h.threshold)

	runID := ulid.Make().String()
	if h.store != nil {
		run := store.Run{
			ID:        runID,
			StartedAt: started,
			Posts:     keptPosts,
			Comments:  keptComments,
		}
		for i := range run.Posts {
			run.Posts[i].RunID = runID
		}
		for i := range run.Comments {
			run.Comments[i].RunID = runID
		}
		if err := h.store.SaveRun(ctx, run); err != nil {
			return Summary{}, err
		}
	}

	h.log.Infow("run complete",
		"run_id", runID,
		"collected", len(posts),
		"posts_kept", len(keptPosts),
		"comments_kept", len(keptComments))

	return Summary{
		RunID:             runID,
		StartedAt:         started,
		Collected:         len(posts),
		PostsKept:         len(keptPosts),
		CommentsKept:      len(keptComments),
		DuplicatePosts:    dupPosts,
		DuplicateComments: dupComments,
	}, nil
}

// classifyText classifies one item, absorbing classifier failures into an
// Unavailable outcome so upstream filtering work is never discarded.
func (h *Harvester) classifyText(ctx context.Context, text string) classify.Outcome {
	if h.classifier == nil {
		return classify.Unavailable()
	}
	out, err := h.classifier.Classify(ctx, text, h.labels)
	if err != nil {
		h.log.Warnw("classifier unavailable", "error", err)
		return classify.Unavailable()
	}
	return out
}

func joinText(title, body string) string {
	if title == "" {
		return body
	}
	if body == "" {
		return title
	}
	return title + " " + body
}

func jitter(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(rand.Int63n(int64(max-min)))
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
