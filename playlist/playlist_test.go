package playlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `#EXTM3U
#EXT-X-VERSION:3
#EXT-X-TARGETDURATION:3
#EXTINF:3.000,
http://example.com/23.ts
#EXTINF:3.000,
http://example.com/24.ts
#EXTINF:3.000,
/25.ts
#EXT-X-ENDLIST
`

func TestParseExtractsSegmentsInOrder(t *testing.T) {
	p, err := Parse(sample)
	require.NoError(t, err)

	require.Len(t, p.Segments, 3)
	assert.Equal(t, "http://example.com/23.ts", p.Segments[0].URI)
	assert.Equal(t, "http://example.com/24.ts", p.Segments[1].URI)
	assert.Equal(t, "/25.ts", p.Segments[2].URI)
	assert.Contains(t, p.Header, "#EXT-X-VERSION:3")
	assert.Contains(t, p.Header, "#EXT-X-TARGETDURATION:3")
	assert.Contains(t, p.Trailer, "#EXT-X-ENDLIST")
}

func TestParseRejectsNonPlaylist(t *testing.T) {
	_, err := Parse("<html><body>not found</body></html>")
	assert.Error(t, err)
}

func TestRewritingOnlyTouchesURIsRestRoundTrips(t *testing.T) {
	p, err := Parse(sample)
	require.NoError(t, err)

	p.Segments[1].URI = "https://alpha.com/24.ts"

	out := p.String()
	assert.Contains(t, out, "#EXTINF:3.000,\nhttps://alpha.com/24.ts")
	assert.Contains(t, out, "#EXT-X-TARGETDURATION:3")
	assert.Contains(t, out, "#EXT-X-ENDLIST")
}
