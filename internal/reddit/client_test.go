package reddit

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/neurocorpus/harvest/pkg/harvest/internalerr"
	"github.com/neurocorpus/harvest/pkg/harvest/source"
)

func testCreds() Credentials {
	return Credentials{
		ClientID:     "id",
		ClientSecret: "secret",
		Username:     "researcher",
		Password:     "pw",
		UserAgent:    "test-agent/1.0",
	}
}

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := New(testCreds(), WithBaseURLs(srv.URL+"/auth", srv.URL), WithHTTPClient(srv.Client()))
	return srv, client
}

func TestSearchNotInitialized(t *testing.T) {
	client := New(Credentials{})
	_, err := client.Search(context.Background(), "Nootropics", "peptides", 5)
	if !errors.Is(err, internalerr.ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}

	_, err = client.Comments(context.Background(), source.Submission{ID: "x"}, 5)
	if !errors.Is(err, internalerr.ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
}

func TestSearchSkipsStickied(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/auth"):
			fmt.Fprint(w, `{"access_token":"tok","expires_in":3600}`)
		case strings.HasPrefix(r.URL.Path, "/r/Nootropics/search"):
			if got := r.URL.Query().Get("restrict_sr"); got != "1" {
				t.Errorf("restrict_sr = %q, want 1", got)
			}
			fmt.Fprint(w, `{"data":{"children":[
				{"kind":"t3","data":{"id":"aaa","subreddit":"Nootropics","title":"Rules","stickied":true}},
				{"kind":"t3","data":{"id":"bbb","subreddit":"Nootropics","title":"peptide log","selftext":"day one","score":12,"num_comments":3,"created_utc":1700000000}}
			]}}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})

	subs, err := client.Search(context.Background(), "Nootropics", "peptides", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(subs) != 1 {
		t.Fatalf("expected 1 submission after sticky filter, got %d", len(subs))
	}
	if subs[0].ID != "bbb" || subs[0].Title != "peptide log" || subs[0].Score != 12 {
		t.Errorf("unexpected submission %+v", subs[0])
	}
}

func TestCommentsCapAndKinds(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/auth"):
			fmt.Fprint(w, `{"access_token":"tok","expires_in":3600}`)
		case strings.HasPrefix(r.URL.Path, "/comments/bbb"):
			fmt.Fprint(w, `[
				{"data":{"children":[{"kind":"t3","data":{"id":"bbb"}}]}},
				{"data":{"children":[
					{"kind":"t1","data":{"id":"c1","body":"helped me","score":4,"created_utc":1700000100}},
					{"kind":"t1","data":{"id":"c2","body":"same here","score":1,"created_utc":1700000200}},
					{"kind":"more","data":{}},
					{"kind":"t1","data":{"id":"c3","body":"third","score":0,"created_utc":1700000300}}
				]}}
			]`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})

	comments, err := client.Comments(context.Background(), source.Submission{ID: "bbb"}, 2)
	if err != nil {
		t.Fatalf("Comments: %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("expected cap of 2 comments, got %d", len(comments))
	}
	if comments[0].ID != "c1" || comments[1].ID != "c2" {
		t.Errorf("comments out of natural order: %+v", comments)
	}
}

func TestTokenReused(t *testing.T) {
	authCalls := 0
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/auth"):
			authCalls++
			if user, pass, ok := r.BasicAuth(); !ok || user != "id" || pass != "secret" {
				t.Errorf("bad basic auth %q/%q", user, pass)
			}
			fmt.Fprint(w, `{"access_token":"tok","expires_in":3600}`)
		default:
			if got := r.Header.Get("Authorization"); got != "Bearer tok" {
				t.Errorf("Authorization = %q", got)
			}
			fmt.Fprint(w, `{"data":{"children":[]}}`)
		}
	})

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := client.Search(ctx, "Nootropics", "selank", 5); err != nil {
			t.Fatalf("Search: %v", err)
		}
	}
	if authCalls != 1 {
		t.Errorf("expected one token fetch, got %d", authCalls)
	}
}

func TestSearchTransportError(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/auth") {
			fmt.Fprint(w, `{"access_token":"tok","expires_in":3600}`)
			return
		}
		w.WriteHeader(http.StatusTooManyRequests)
	})

	if _, err := client.Search(context.Background(), "Nootropics", "dihexa", 5); err == nil {
		t.Fatal("expected transport error on HTTP 429")
	}
}
