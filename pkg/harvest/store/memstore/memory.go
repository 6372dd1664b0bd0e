package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/neurocorpus/harvest/pkg/harvest/store"
)

// Store is an in-memory implementation of store.Store for tests.
type Store struct {
	mu       sync.RWMutex
	runs     []store.Run
	posts    []store.PostRecord
	comments []store.CommentRecord
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// SaveRun appends the run's records atomically.
func (s *Store) SaveRun(ctx context.Context, r store.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs = append(s.runs, r)
	for _, p := range r.Posts {
		p.RunID = r.ID
		s.posts = append(s.posts, p)
	}
	for _, c := range r.Comments {
		c.RunID = r.ID
		s.comments = append(s.comments, c)
	}
	return nil
}

// Posts returns all stored post records, highest confidence first.
func (s *Store) Posts(ctx context.Context) ([]store.PostRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.PostRecord, len(s.posts))
	copy(out, s.posts)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Confidence > out[j].Confidence })
	return out, nil
}

// Comments returns all stored comment records, highest confidence first.
func (s *Store) Comments(ctx context.Context) ([]store.CommentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.CommentRecord, len(s.comments))
	copy(out, s.comments)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Confidence > out[j].Confidence })
	return out, nil
}

// Runs returns the saved runs, for test assertions.
func (s *Store) Runs() []store.Run {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.Run, len(s.runs))
	copy(out, s.runs)
	return out
}
