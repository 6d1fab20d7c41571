package edgeregistry

import (
	"fmt"

	consulapi "github.com/hashicorp/consul/api"
)

// edgeMetaURLKey and edgeMetaGroupKey are the catalog service-metadata
// keys the registry reads off each healthy "edge" instance.
const (
	edgeMetaURLKey   = "edge_url"
	edgeMetaGroupKey = "node_group"
)

// Catalog is the minimal service-discovery surface the registry needs.
// ConsulCatalog is the only production implementation; the interface
// exists so refresh can be unit tested against a fake.
type Catalog interface {
	// HealthyEdgeNodes returns one EdgeNode per healthy "edge" service
	// instance whose metadata parses cleanly. Instances missing or
	// failing to parse edge_url/node_group are dropped; the caller is
	// responsible for logging those drops.
	HealthyEdgeNodes() ([]EdgeNode, []error, error)
}

// ConsulCatalog queries a consul agent/cluster for healthy instances of
// the literal service name "edge" (see EdgeServiceName in config).
type ConsulCatalog struct {
	client      *consulapi.Client
	serviceName string
}

// NewConsulCatalog builds a ConsulCatalog talking to the consul HTTP API
// at address (host:port, matching consulapi.Config.Address).
func NewConsulCatalog(address, serviceName string) (*ConsulCatalog, error) {
	cfg := consulapi.DefaultConfig()
	cfg.Address = address

	client, err := consulapi.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("building consul client: %w", err)
	}

	return &ConsulCatalog{client: client, serviceName: serviceName}, nil
}

// HealthyEdgeNodes implements Catalog using client.Health().Service with
// the "passing" filter, mirroring v1/health/service/edge?passing.
func (c *ConsulCatalog) HealthyEdgeNodes() ([]EdgeNode, []error, error) {
	entries, _, err := c.client.Health().Service(c.serviceName, "", true, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("querying consul for service %q: %w", c.serviceName, err)
	}

	return nodesFromHealthEntries(entries)
}

// nodesFromHealthEntries does the actual metadata extraction, pulled out
// of HealthyEdgeNodes so it can be exercised directly with hand-built
// consulapi.ServiceEntry values instead of a live consul agent.
func nodesFromHealthEntries(entries []*consulapi.ServiceEntry) ([]EdgeNode, []error, error) {
	var nodes []EdgeNode
	var warnings []error

	for _, entry := range entries {
		if entry.Service == nil {
			continue
		}

		rawURL, ok := entry.Service.Meta[edgeMetaURLKey]
		if !ok {
			warnings = append(warnings, fmt.Errorf("service %s: missing %s", entry.Service.ID, edgeMetaURLKey))
			continue
		}

		group, ok := entry.Service.Meta[edgeMetaGroupKey]
		if !ok || group == "" {
			warnings = append(warnings, fmt.Errorf("service %s: missing %s", entry.Service.ID, edgeMetaGroupKey))
			continue
		}

		node, err := newEdgeNode(rawURL, group)
		if err != nil {
			warnings = append(warnings, fmt.Errorf("service %s: %w", entry.Service.ID, err))
			continue
		}

		nodes = append(nodes, node)
	}

	return nodes, warnings, nil
}
