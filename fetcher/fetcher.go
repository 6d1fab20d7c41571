// Package fetcher resolves a request's path tail against the configured
// upstream base URL and retrieves the raw playlist body. It deliberately
// does not parse the body — that's left to the router so non-HLS
// responses (404 pages and any other body not starting with #EXTM3U) can
// be passed through unchanged.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// Kind enumerates the ways fetch can fail.
type Kind int

const (
	// UpstreamJoinError means base+tail wouldn't form a valid URL.
	UpstreamJoinError Kind = iota
	// UpstreamFetchError means the transport request or body read failed.
	UpstreamFetchError
)

// FetchError is returned by Fetch on any failure.
type FetchError struct {
	Kind Kind
	Err  error
}

func (e *FetchError) Error() string { return e.Err.Error() }
func (e *FetchError) Unwrap() error { return e.Err }

// PlaylistFetcher retrieves playlist bodies from a single upstream base.
type PlaylistFetcher struct {
	baseURL *url.URL
	client  *http.Client
}

// New builds a PlaylistFetcher. client may be http.DefaultClient; a
// caller-supplied client lets the router apply its own timeouts.
func New(baseURL *url.URL, client *http.Client) PlaylistFetcher {
	return PlaylistFetcher{baseURL: baseURL, client: client}
}

// Fetch resolves tail against the upstream base URL and GETs it,
// returning the response body as a string. The request honors ctx
// cancellation so a disconnected client aborts the in-flight fetch.
func (f PlaylistFetcher) Fetch(ctx context.Context, tail string) (string, error) {
	upstreamURL, err := f.baseURL.Parse(tail)
	if err != nil {
		return "", &FetchError{Kind: UpstreamJoinError, Err: fmt.Errorf("joining upstream base with tail %q: %w", tail, err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, upstreamURL.String(), nil)
	if err != nil {
		return "", &FetchError{Kind: UpstreamJoinError, Err: err}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &FetchError{Kind: UpstreamFetchError, Err: fmt.Errorf("fetching %s: %w", upstreamURL, err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &FetchError{Kind: UpstreamFetchError, Err: fmt.Errorf("reading body from %s: %w", upstreamURL, err)}
	}

	return string(body), nil
}
