// Package metrics tracks lightweight in-process counters for the proxy:
// registry refresh outcomes, per-segment rewrite warnings, and request
// totals by response kind. It isn't a full metrics exporter (no such
// library appears anywhere in the reference pack — see DESIGN.md); it's
// the same thread-safe-map idiom the teacher uses for other per-key
// counters, repurposed here for counter labels instead of stream keys.
package metrics

import "edgerelay/safemap"

// Counters is a label -> count table, safe for concurrent use from the
// refresh task and request handlers at the same time.
type Counters struct {
	values *safemap.Map[string, int64]
}

// New builds an empty Counters table.
func New() *Counters {
	return &Counters{values: safemap.New[string, int64]()}
}

// Inc adds 1 to the counter named label.
func (c *Counters) Inc(label string) {
	c.values.Compute(label, func(old int64, loaded bool) (int64, bool) {
		if !loaded {
			return 1, false
		}
		return old + 1, false
	})
}

// Snapshot returns a point-in-time copy of every counter's value.
func (c *Counters) Snapshot() map[string]int64 {
	out := make(map[string]int64)
	c.values.ForEach(func(label string, v int64) bool {
		out[label] = v
		return true
	})
	return out
}

// Well-known counter labels shared by the registry and router.
const (
	RefreshSuccess      = "edge_registry_refresh_success"
	RefreshFailure      = "edge_registry_refresh_failure"
	SegmentRewriteWarn  = "segment_rewrite_warning"
	RequestAccepted     = "playlist_request_accepted"
	RequestRejected     = "playlist_request_rejected"
	PlaylistPassthrough = "playlist_passthrough"
)
