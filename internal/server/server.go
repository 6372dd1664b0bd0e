package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/neurocorpus/harvest/pkg/harvest"
)

// Collector is the slice of the pipeline the web facade invokes: collection
// only, no classification. Each request runs independently so concurrent
// requests never share rate-limit bookkeeping.
type Collector interface {
	Collect(ctx context.Context, p harvest.Params) ([]harvest.Post, error)
}

// Server wraps the collector in a small JSON API for interactive previews.
type Server struct {
	collector Collector
	log       *zap.SugaredLogger
}

// New creates a Server.
func New(collector Collector, log *zap.SugaredLogger) *Server {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Server{collector: collector, log: log}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
	router.POST("/scrape", s.handleScrape)

	return router
}

type scrapeRequest struct {
	Subreddits string `json:"subreddits"`
	Keywords   string `json:"keywords"`
	TestRun    bool   `json:"test_run"`
}

// flatComment is a comment reshaped for the frontend, carrying its parent
// post's identity instead of being nested under it.
type flatComment struct {
	CommentID string    `json:"comment_id"`
	PostID    string    `json:"post_id"`
	PostTitle string    `json:"post_title"`
	Subreddit string    `json:"subreddit"`
	Text      string    `json:"comment_text"`
	Score     int       `json:"comment_score"`
	CreatedAt time.Time `json:"comment_created_utc"`
}

func (s *Server) handleScrape(c *gin.Context) {
	var req scrapeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid JSON body"})
		return
	}

	containers := splitList(req.Subreddits)
	terms := splitList(req.Keywords)
	if len(containers) == 0 || len(terms) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "missing 'subreddits' or 'keywords' in request",
		})
		return
	}

	mode := "full"
	if req.TestRun {
		mode = "test"
	}
	limitPerTerm, totalLimit, err := harvest.PresetParams(mode)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "unknown run mode"})
		return
	}

	s.log.Infow("scrape requested", "containers", containers, "terms", terms, "mode", mode)

	posts, err := s.collector.Collect(c.Request.Context(), harvest.Params{
		Containers:   containers,
		Terms:        terms,
		LimitPerTerm: limitPerTerm,
		TotalLimit:   totalLimit,
	})
	if err != nil {
		s.log.Errorw("collection failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}

	postViews := make([]harvest.Post, 0, len(posts))
	comments := make([]flatComment, 0)
	for _, post := range posts {
		for _, cm := range post.Comments {
			comments = append(comments, flatComment{
				CommentID: cm.ID,
				PostID:    post.ID,
				PostTitle: post.Title,
				Subreddit: post.Container,
				Text:      cm.Text,
				Score:     cm.Score,
				CreatedAt: cm.CreatedAt,
			})
		}
		post.Comments = nil
		postViews = append(postViews, post)
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "success",
		"posts":    postViews,
		"comments": comments,
	})
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
