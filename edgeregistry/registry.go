package edgeregistry

import (
	"fmt"
	"sync"
	"time"
	"weak"

	"github.com/hashicorp/go-memdb"

	"edgerelay/logger"
	"edgerelay/metrics"
)

const nodesTable = "edge_nodes"

// row is the memdb record shape. id is synthetic (insertion order) since
// edge nodes carry no catalog-stable identifier we can rely on across
// refreshes; group is the only index callers actually query by.
type row struct {
	ID    int
	Group string
	Node  EdgeNode
}

func schema() *memdb.DBSchema {
	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			nodesTable: {
				Name: nodesTable,
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:    "id",
						Unique:  true,
						Indexer: &memdb.IntFieldIndex{Field: "ID"},
					},
					"group": {
						Name:    "group",
						Unique:  false,
						Indexer: &memdb.StringFieldIndex{Field: "Group"},
					},
				},
			},
		},
	}
}

// registryCore is the strong-owned state: the memdb handle, whose
// immutable-radix-tree root is swapped wholesale on every successful
// write transaction. Registry embeds a strong pointer to it; the refresh
// loop only ever holds a weak.Pointer to it, so the loop exits on its
// own once the last Registry is garbage collected without anyone calling
// Close.
type registryCore struct {
	db      *memdb.MemDB
	catalog Catalog
	log     logger.Logger
	metrics *metrics.Counters
}

// Registry is the process-wide edge node pool: a snapshot readers consult
// wait-free, kept current by a background refresh task. Publication is
// copy-on-write: the refresh task commits a fresh write transaction that
// replaces every row, and memdb atomically swaps in the new tree root;
// readers already holding a read transaction keep seeing the prior,
// untouched tree for the life of that transaction.
type Registry struct {
	core     *registryCore
	stop     chan struct{}
	stopOnce sync.Once
}

// Option customizes a Registry at construction time.
type Option func(*registryCore)

// WithMetrics attaches counters the refresh loop increments on each
// success/failure. Defaults to a private, unexported table if omitted.
func WithMetrics(m *metrics.Counters) Option {
	return func(c *registryCore) { c.metrics = m }
}

// New constructs a Registry whose refresh task polls catalog at interval,
// starting from an empty snapshot until the first successful refresh.
func New(catalog Catalog, interval time.Duration, log logger.Logger, opts ...Option) (*Registry, error) {
	db, err := memdb.NewMemDB(schema())
	if err != nil {
		return nil, fmt.Errorf("building edge node table: %w", err)
	}

	core := &registryCore{db: db, catalog: catalog, log: log, metrics: metrics.New()}
	for _, opt := range opts {
		opt(core)
	}

	reg := &Registry{core: core, stop: make(chan struct{})}
	weakCore := weak.Make(core)
	go refreshLoop(weakCore, interval, reg.stop)

	return reg, nil
}

// refreshLoop polls catalog on interval until either stop is closed (an
// explicit Close) or the registry core is no longer strongly referenced
// by anyone, mirroring the original discovery loop's
// `match edge_nodes.upgrade() { None => break, ... }`: a dropped Registry
// with no Close call still lets this goroutine exit on its next tick
// instead of running forever.
func refreshLoop(weakCore weak.Pointer[registryCore], interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			core := weakCore.Value()
			if core == nil {
				return
			}
			core.refreshOnce()
		}
	}
}

// refreshOnce runs a single query-then-publish cycle. Split out from
// refreshLoop so tests can drive a refresh synchronously instead of
// waiting on the ticker.
func (c *registryCore) refreshOnce() {
	nodes, warnings, err := c.catalog.HealthyEdgeNodes()
	if err != nil {
		c.log.Errorf("edge node refresh failed, keeping stale snapshot: %v", err)
		c.metrics.Inc(metrics.RefreshFailure)
		return
	}

	for _, w := range warnings {
		c.log.Warnf("edge node refresh: dropping entry: %v", w)
	}

	if err := c.publish(nodes); err != nil {
		c.log.Errorf("edge node refresh failed to publish, keeping stale snapshot: %v", err)
		c.metrics.Inc(metrics.RefreshFailure)
		return
	}

	c.log.Debugf("edge node refresh published %d node(s)", len(nodes))
	c.metrics.Inc(metrics.RefreshSuccess)
}

// publish replaces the entire edge_nodes table in one write transaction:
// every existing row is deleted and every new node inserted, then
// committed as a single atomic swap of the underlying tree.
func (c *registryCore) publish(nodes []EdgeNode) error {
	txn := c.db.Txn(true)
	defer txn.Abort()

	if _, err := txn.DeleteAll(nodesTable, "id"); err != nil {
		return fmt.Errorf("clearing edge node table: %w", err)
	}

	for i, n := range nodes {
		r := &row{ID: i, Group: n.Group, Node: n}
		if err := txn.Insert(nodesTable, r); err != nil {
			return fmt.Errorf("inserting edge node %d: %w", i, err)
		}
	}

	txn.Commit()
	return nil
}

// Snapshot returns the currently published snapshot. Non-blocking for
// all practical purposes (a read transaction against an in-memory radix
// tree) and never fails; callers never observe a torn or partially
// written state since reads run against an immutable tree root.
func (r *Registry) Snapshot() Snapshot {
	txn := r.core.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(nodesTable, "id")
	if err != nil {
		return Snapshot{}
	}

	var nodes []EdgeNode
	for obj := it.Next(); obj != nil; obj = it.Next() {
		nodes = append(nodes, obj.(*row).Node)
	}

	return Snapshot{nodes: nodes}
}

// SnapshotFor is a convenience filtering the snapshot to group, using the
// table's secondary group index directly, and returning just the URLs
// in catalog order.
func (r *Registry) SnapshotFor(group string) []string {
	txn := r.core.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(nodesTable, "group", group)
	if err != nil {
		return nil
	}

	var urls []string
	for obj := it.Next(); obj != nil; obj = it.Next() {
		urls = append(urls, obj.(*row).Node.URL.String())
	}

	return urls
}

// RefreshNow runs one refresh cycle synchronously, outside the normal
// interval schedule. Exposed for operators who want to force a refresh
// after a known catalog change, and for tests that don't want to wait on
// a ticker tick.
func (r *Registry) RefreshNow() {
	r.core.refreshOnce()
}

// Close stops the refresh task. Safe to call multiple times.
func (r *Registry) Close() {
	r.stopOnce.Do(func() { close(r.stop) })
}
