package tmdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func testClient(handler http.Handler) (*Client, *httptest.Server) {
	ts := httptest.NewServer(handler)
	c := NewClient("test-key")
	c.SetBaseURL(ts.URL)
	return c, ts
}

func TestSearchMulti(t *testing.T) {
	c, ts := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/multi" {
			t.Errorf("got path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("api_key") != "test-key" {
			t.Errorf("got api_key %q", q.Get("api_key"))
		}
		if q.Get("query") != "heat" {
			t.Errorf("got query %q", q.Get("query"))
		}
		w.Write([]byte(`{"page":1,"results":[
			{"id":949,"media_type":"movie","title":"Heat","release_date":"1995-12-15"},
			{"id":1396,"media_type":"tv","name":"Breaking Bad","first_air_date":"2008-01-20"}
		]}`))
	}))
	defer ts.Close()

	result, err := c.SearchMulti(context.Background(), "heat", 0)
	if err != nil {
		t.Fatalf("SearchMulti: %v", err)
	}
	if len(result.Results) != 2 {
		t.Fatalf("got %d results, want 2", len(result.Results))
	}

	movie := result.Results[0]
	if movie.DisplayTitle() != "Heat" || movie.Year() != "1995" {
		t.Errorf("got %q (%s)", movie.DisplayTitle(), movie.Year())
	}
	show := result.Results[1]
	if show.DisplayTitle() != "Breaking Bad" || show.Year() != "2008" {
		t.Errorf("got %q (%s)", show.DisplayTitle(), show.Year())
	}
}

func TestMovieDetails(t *testing.T) {
	c, ts := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/949" {
			t.Errorf("got path %s", r.URL.Path)
		}
		if r.URL.Query().Get("append_to_response") != "credits" {
			t.Error("missing append_to_response=credits")
		}
		w.Write([]byte(`{"id":949,"title":"Heat","release_date":"1995-12-15","runtime":170,
			"vote_average":8.3,
			"credits":{"crew":[{"name":"Michael Mann","job":"Director"}]}}`))
	}))
	defer ts.Close()

	movie, err := c.MovieDetails(context.Background(), 949)
	if err != nil {
		t.Fatalf("MovieDetails: %v", err)
	}
	if movie.Title != "Heat" || movie.Runtime != 170 {
		t.Errorf("got %+v", movie)
	}
	if len(movie.Credits.Crew) != 1 || movie.Credits.Crew[0].Job != "Director" {
		t.Errorf("got crew %+v", movie.Credits.Crew)
	}
}

func TestMissingAPIKey(t *testing.T) {
	c := NewClient("")
	if _, err := c.SearchMulti(context.Background(), "heat", 1); err != ErrNoAPIKey {
		t.Errorf("got %v, want ErrNoAPIKey", err)
	}
}

func TestUnauthorizedNotRetried(t *testing.T) {
	var calls int32
	c, ts := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	_, err := c.SearchMulti(context.Background(), "heat", 1)
	if err == nil || !strings.Contains(err.Error(), "invalid tmdb api key") {
		t.Errorf("got %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("got %d calls, want 1", n)
	}
}

func TestNotFound(t *testing.T) {
	c, ts := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	if _, err := c.MovieDetails(context.Background(), 1); err == nil {
		t.Error("expected not found error")
	}
}

func TestServerErrorRetried(t *testing.T) {
	if testing.Short() {
		t.Skip("retry backoff sleeps")
	}
	var calls int32
	c, ts := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"page":1,"results":[]}`))
	}))
	defer ts.Close()

	if _, err := c.SearchMulti(context.Background(), "heat", 1); err != nil {
		t.Fatalf("SearchMulti: %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Errorf("got %d calls, want 2", n)
	}
}
