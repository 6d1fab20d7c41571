package signer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edgerelay/logger"
	"edgerelay/playlist"
)

func TestSegmentRewriterSignsEverySegmentWithSameExpiry(t *testing.T) {
	r := NewSegmentRewriter([]byte("foobar"), 60*time.Second, logger.NoopLogger{})
	fixedNow := time.Unix(1000, 0)
	r.now = func() time.Time { return fixedNow }

	p := playlist.MediaPlaylist{
		Segments: []playlist.MediaSegment{
			{URI: "https://alpha.com/23.ts"},
			{URI: "https://alpha.com/24.ts"},
		},
	}

	out := r.Rewrite(p, "g1")

	require.Len(t, out.Segments, 2)
	assert.Contains(t, out.Segments[0].URI, "e=1060")
	assert.Contains(t, out.Segments[1].URI, "e=1060")
	assert.NotEqual(t, out.Segments[0].URI, p.Segments[0].URI)
}

func TestSegmentRewriterLeavesUnparseableUriUnchanged(t *testing.T) {
	r := NewSegmentRewriter([]byte("k"), time.Minute, logger.NoopLogger{})

	p := playlist.MediaPlaylist{
		Segments: []playlist.MediaSegment{
			{URI: "http://[::1/bad"},
		},
	}

	out := r.Rewrite(p, "g1")

	assert.Equal(t, "http://[::1/bad", out.Segments[0].URI)
}
