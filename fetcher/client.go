package fetcher

import (
	"net/http"
	"os"
)

// userAgentTransport sets a fixed User-Agent on every outgoing request,
// following redirects with it intact — the same header-stamping idiom
// the reference proxy uses for its own upstream client, generalized here
// from a hardcoded device string to an environment-configurable one.
type userAgentTransport struct {
	userAgent string
	base      http.RoundTripper
}

func (t userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.userAgent)
	return t.base.RoundTrip(req)
}

// NewHTTPClient builds the *http.Client used to fetch upstream
// playlists, stamping every request (including redirected ones, since
// http.Client replays the same RoundTripper) with a configurable
// User-Agent. Defaults to "edgerelay/1.0" unless EDGERELAY_USER_AGENT is
// set.
func NewHTTPClient() *http.Client {
	userAgent := os.Getenv("EDGERELAY_USER_AGENT")
	if userAgent == "" {
		userAgent = "edgerelay/1.0"
	}

	return &http.Client{
		Transport: userAgentTransport{userAgent: userAgent, base: http.DefaultTransport},
	}
}
