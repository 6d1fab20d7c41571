// Package distributor implements the segment load distributor: for each
// segment in a playlist it picks one edge node at random from the
// caller's node group and rewrites the segment's scheme/host/port to
// point at it.
package distributor

import (
	"fmt"
	"math/rand/v2"
	"net/url"

	"edgerelay/edgeregistry"
	"edgerelay/logger"
	"edgerelay/metrics"
	"edgerelay/playlist"
)

// SnapshotSource is the read-only capability the distributor needs from
// the edge node registry — just enough to keep this package decoupled
// from how the registry is refreshed.
type SnapshotSource interface {
	Snapshot() edgeregistry.Snapshot
}

// RandFactory produces a fresh random source per Rewrite call, so
// production wiring can use a crypto-seeded PRNG while tests substitute
// a deterministic stepped one.
type RandFactory func() *rand.Rand

// DefaultRandFactory seeds a new PCG-backed rand.Rand per call from the
// runtime's own entropy source (rand/v2's top-level functions, which are
// themselves seeded securely), matching the spec's "uniformity is the
// contract, not any particular algorithm" requirement.
func DefaultRandFactory() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// Distributor is the playlist.Rewriter stage that spreads segments
// across the edge fleet. Independent per-segment draws (rather than
// round robin) spread load without coordination and tolerate short
// snapshots gracefully.
type Distributor struct {
	source  SnapshotSource
	randFn  RandFactory
	log     logger.Logger
	metrics *metrics.Counters
}

// Option customizes a Distributor at construction time.
type Option func(*Distributor)

// WithMetrics attaches counters incremented on each per-segment rewrite
// warning. Defaults to a private, unexported table if omitted.
func WithMetrics(m *metrics.Counters) Option {
	return func(d *Distributor) { d.metrics = m }
}

// New builds a Distributor reading edge nodes from source.
func New(source SnapshotSource, randFn RandFactory, log logger.Logger, opts ...Option) Distributor {
	d := Distributor{source: source, randFn: randFn, log: log, metrics: metrics.New()}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func (d Distributor) Rewrite(p playlist.MediaPlaylist, nodeGroup string) playlist.MediaPlaylist {
	urls := d.source.Snapshot().For(nodeGroup)
	if len(urls) == 0 {
		return p
	}

	rng := d.randFn()

	for i := range p.Segments {
		edge := urls[rng.IntN(len(urls))]

		newURI, err := resolveAgainstEdge(edge, p.Segments[i].URI)
		if err != nil {
			d.log.Warnf("segment load distribution: leaving segment unchanged: %v", err)
			d.metrics.Inc(metrics.SegmentRewriteWarn)
			continue
		}

		p.Segments[i].URI = newURI
	}

	return p
}

// resolveAgainstEdge resolves segURI relative to edge (so a path-only
// segment like "/25.ts" lands on the edge host) and then overrides
// scheme and host (which carries the port) from edge, preserving path,
// query, and fragment from the resolution result.
func resolveAgainstEdge(edge *url.URL, segURI string) (string, error) {
	resolved, err := edge.Parse(segURI)
	if err != nil {
		return "", fmt.Errorf("resolving %q against edge %q: %w", segURI, edge, err)
	}

	resolved.Scheme = edge.Scheme
	resolved.Host = edge.Host

	return resolved.String(), nil
}
