// Package tmdb looks up movie and TV metadata from The Movie Database API.
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api.themoviedb.org/3"

// ErrNoAPIKey is returned when the client has no API key configured
var ErrNoAPIKey = errors.New("tmdb api key is missing")

// Client is a rate-limited TMDB API client
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	// TMDB allows roughly 40 requests per 10 seconds
	limiter *rate.Limiter
}

// NewClient creates a client with the given API key
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(4), 8),
	}
}

// SetBaseURL overrides the API endpoint, used by tests
func (c *Client) SetBaseURL(u string) { c.baseURL = u }

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	if c.apiKey == "" {
		return ErrNoAPIKey
	}
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)

	u := c.baseURL + endpoint + "?" + params.Encode()

	var lastErr error
	backoff := 2 * time.Second
	for attempt := 0; attempt < 3; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return err
		}

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			return err
		case resp.StatusCode == http.StatusUnauthorized:
			resp.Body.Close()
			return fmt.Errorf("invalid tmdb api key")
		case resp.StatusCode == http.StatusNotFound:
			resp.Body.Close()
			return fmt.Errorf("tmdb resource not found: %s", endpoint)
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			resp.Body.Close()
			lastErr = fmt.Errorf("tmdb returned %d", resp.StatusCode)
			continue
		default:
			resp.Body.Close()
			return fmt.Errorf("tmdb returned %d", resp.StatusCode)
		}
	}
	return fmt.Errorf("tmdb request failed after retries: %w", lastErr)
}

// SearchMulti searches movies and TV shows by title
func (c *Client) SearchMulti(ctx context.Context, query string, page int) (*SearchResult, error) {
	if page <= 0 {
		page = 1
	}
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))
	params.Set("include_adult", "false")

	var result SearchResult
	if err := c.get(ctx, "/search/multi", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// MovieDetails fetches full movie metadata including credits
func (c *Client) MovieDetails(ctx context.Context, id int) (*Movie, error) {
	params := url.Values{}
	params.Set("append_to_response", "credits")

	var movie Movie
	if err := c.get(ctx, fmt.Sprintf("/movie/%d", id), params, &movie); err != nil {
		return nil, err
	}
	return &movie, nil
}

// TVDetails fetches full TV show metadata including credits
func (c *Client) TVDetails(ctx context.Context, id int) (*TV, error) {
	params := url.Values{}
	params.Set("append_to_response", "credits")

	var tv TV
	if err := c.get(ctx, fmt.Sprintf("/tv/%d", id), params, &tv); err != nil {
		return nil, err
	}
	return &tv, nil
}
