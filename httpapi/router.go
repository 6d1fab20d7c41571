// Package httpapi wires the proxy's two HTTP endpoints: the health check
// and the playlist route that ties JWT gating, upstream fetch, and
// playlist rewriting together into one response.
package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"edgerelay/auth"
	"edgerelay/fetcher"
	"edgerelay/logger"
	"edgerelay/metrics"
	"edgerelay/playlist"
)

// mediaPlaylistContentType is always set on /playlist responses, even
// when the upstream body couldn't be parsed as HLS and is passed through
// verbatim. Preserved from the source this proxy is modeled on; flagged
// as worth revisiting since it can mislabel error pages.
const mediaPlaylistContentType = "application/vnd.apple.mpegurl"

// Rewriter is the playlist-rewriting capability the router depends on.
// playlist.CombinedRewriter is the only production implementation.
type Rewriter interface {
	Rewrite(p playlist.MediaPlaylist, nodeGroup string) playlist.MediaPlaylist
}

// NewRouter builds the chi.Router serving /healthz and /playlist/*. m may
// be nil, in which case request outcomes simply aren't counted.
func NewRouter(gate auth.Gate, fetch fetcher.PlaylistFetcher, rewrite Rewriter, log logger.Logger, m *metrics.Counters) chi.Router {
	if m == nil {
		m = metrics.New()
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", handleHealthz)
	r.Get("/playlist/*", handlePlaylist(gate, fetch, rewrite, log, m))

	return r
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("🧩"))
}

func handlePlaylist(gate auth.Gate, fetch fetcher.PlaylistFetcher, rewrite Rewriter, log logger.Logger, m *metrics.Counters) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tail := chi.URLParam(r, "*")
		path := r.URL.Path

		claims, err := gate.Validate(r.URL.Query().Get("jwt"), path)
		if err != nil {
			writeRejection(w, log, m, err)
			return
		}

		body, err := fetch.Fetch(r.Context(), tail)
		if err != nil {
			writeRejection(w, log, m, err)
			return
		}

		responseBody := body
		if p, parseErr := playlist.Parse(body); parseErr == nil {
			responseBody = rewrite.Rewrite(p, claims.Ng).String()
		} else {
			log.Debugf("playlist parse failed for %s, passing upstream body through unchanged: %v", tail, parseErr)
			m.Inc(metrics.PlaylistPassthrough)
		}

		m.Inc(metrics.RequestAccepted)
		w.Header().Set("Content-Type", mediaPlaylistContentType)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(responseBody))
	}
}

func writeRejection(w http.ResponseWriter, log logger.Logger, m *metrics.Counters, err error) {
	var rej *auth.RejectError
	var fe *fetcher.FetchError

	switch {
	case errors.As(err, &rej):
		log.Warnf("request rejected: %v", rej)
	case errors.As(err, &fe):
		log.Warnf("request rejected: %v", fe)
	default:
		log.Errorf("unexpected rejection: %v", err)
	}

	m.Inc(metrics.RequestRejected)
	http.Error(w, err.Error(), http.StatusBadRequest)
}
