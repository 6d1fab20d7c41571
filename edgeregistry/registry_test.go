package edgeregistry

import (
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edgerelay/logger"
)

// fakeCatalog lets tests script a sequence of refresh outcomes.
type fakeCatalog struct {
	mu    sync.Mutex
	calls []func() ([]EdgeNode, []error, error)
	idx   int
}

func (f *fakeCatalog) HealthyEdgeNodes() ([]EdgeNode, []error, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.idx >= len(f.calls) {
		return nil, nil, nil
	}
	fn := f.calls[f.idx]
	f.idx++
	return fn()
}

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestRegistrySnapshotEmptyBeforeFirstRefresh(t *testing.T) {
	reg, err := New(&fakeCatalog{}, time.Hour, logger.NoopLogger{})
	require.NoError(t, err)
	defer reg.Close()

	assert.Empty(t, reg.Snapshot().Nodes())
}

func TestRegistryPublishesRefreshedNodes(t *testing.T) {
	e1 := EdgeNode{URL: mustURL(t, "https://alpha.com"), Group: "g1"}
	e2 := EdgeNode{URL: mustURL(t, "https://beta.com"), Group: "g2"}

	cat := &fakeCatalog{calls: []func() ([]EdgeNode, []error, error){
		func() ([]EdgeNode, []error, error) { return []EdgeNode{e1, e2}, nil, nil },
	}}

	reg, err := New(cat, time.Hour, logger.NoopLogger{})
	require.NoError(t, err)
	defer reg.Close()

	reg.RefreshNow()

	snap := reg.Snapshot()
	assert.ElementsMatch(t, []EdgeNode{e1, e2}, snap.Nodes())
	assert.Equal(t, []string{"https://alpha.com"}, reg.SnapshotFor("g1"))
	assert.Equal(t, []string{"https://beta.com"}, reg.SnapshotFor("g2"))
	assert.Empty(t, reg.SnapshotFor("g3"))
}

func TestRegistryKeepsStaleSnapshotOnRefreshFailure(t *testing.T) {
	e1 := EdgeNode{URL: mustURL(t, "https://alpha.com"), Group: "g1"}

	cat := &fakeCatalog{calls: []func() ([]EdgeNode, []error, error){
		func() ([]EdgeNode, []error, error) { return []EdgeNode{e1}, nil, nil },
		func() ([]EdgeNode, []error, error) { return nil, nil, errors.New("consul unreachable") },
	}}

	reg, err := New(cat, time.Hour, logger.NoopLogger{})
	require.NoError(t, err)
	defer reg.Close()

	reg.RefreshNow()
	before := reg.Snapshot()

	reg.RefreshNow()
	after := reg.Snapshot()

	assert.Equal(t, before.Nodes(), after.Nodes())
	assert.ElementsMatch(t, []EdgeNode{e1}, after.Nodes())
}

func TestRegistryDropsMalformedEntriesButKeepsRest(t *testing.T) {
	good := EdgeNode{URL: mustURL(t, "https://alpha.com"), Group: "g1"}

	cat := &fakeCatalog{calls: []func() ([]EdgeNode, []error, error){
		func() ([]EdgeNode, []error, error) {
			return []EdgeNode{good}, []error{errors.New("bad entry dropped")}, nil
		},
	}}

	reg, err := New(cat, time.Hour, logger.NoopLogger{})
	require.NoError(t, err)
	defer reg.Close()

	reg.RefreshNow()

	assert.ElementsMatch(t, []EdgeNode{good}, reg.Snapshot().Nodes())
}
