package edgeregistry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEdgeNodeValid(t *testing.T) {
	n, err := newEdgeNode("https://alpha.com:2323", "g1")
	require.NoError(t, err)
	assert.Equal(t, "https", n.URL.Scheme)
	assert.Equal(t, "alpha.com:2323", n.URL.Host)
	assert.Equal(t, "g1", n.Group)
}

func TestNewEdgeNodeRejectsEmptyGroup(t *testing.T) {
	_, err := newEdgeNode("https://alpha.com", "")
	assert.Error(t, err)
}

func TestNewEdgeNodeRejectsUnsupportedScheme(t *testing.T) {
	_, err := newEdgeNode("ftp://alpha.com", "g1")
	assert.Error(t, err)
}

func TestNewEdgeNodeRejectsMissingHost(t *testing.T) {
	_, err := newEdgeNode("https:///path-only", "g1")
	assert.Error(t, err)
}

func TestSnapshotForFiltersByGroup(t *testing.T) {
	a, err := newEdgeNode("https://alpha.com", "g1")
	require.NoError(t, err)
	b, err := newEdgeNode("https://beta.com", "g2")
	require.NoError(t, err)

	snap := Snapshot{nodes: []EdgeNode{a, b}}

	urls := snap.For("g1")
	require.Len(t, urls, 1)
	assert.Equal(t, "https://alpha.com", urls[0].String())

	assert.Empty(t, snap.For("g3"))
}
