// Package sources defines the collectors that report facts into a catalog
// update run.
//
// A collector discovers facts (the workshop scraper, the manual override
// importer) and reports them through the reconciliation API of the engine it
// is handed. Collectors never touch the catalog directly.
//
// Example usage:
//
//	registry := sources.NewRegistry()
//	registry.Set(overrides.New(dir))
//
//	for _, c := range registry.Ordered() {
//	    if err := c.Collect(ctx, engine); err != nil {
//	        log.Println(err)
//	    }
//	}
package sources

import (
	"context"
	"slices"
	"sync"

	"github.com/agentstation/modcatalog/pkg/reconcile"
)

// ID represents the identifier of a collector.
type ID string

// String returns the string representation of a collector ID.
func (id ID) String() string {
	return string(id)
}

// Known collector IDs.
const (
	ScraperID  ID = "scraper"
	ImporterID ID = "importer"
)

// IDs returns the known collector IDs in run order.
func IDs() []ID {
	return []ID{ScraperID, ImporterID}
}

// IsValid returns true if the ID is one of the defined constants.
func (id ID) IsValid() bool {
	return slices.Contains(IDs(), id)
}

// Collector reports facts into a run through the engine.
type Collector interface {
	// ID returns the identifier of this collector
	ID() ID

	// Collect reports every fact this collector knows about. A returned
	// error is logged by the caller and does not abort the run.
	Collect(ctx context.Context, engine *reconcile.Engine) error
}

// Snapshotter is implemented by collectors whose input is worth archiving
// next to the catalog version it produced.
type Snapshotter interface {
	// Snapshot returns the combined input of the last Collect call.
	Snapshot() (string, error)
}

// CollectorFunc adapts a function into a Collector.
type CollectorFunc struct {
	CollectorID ID
	Fn          func(ctx context.Context, engine *reconcile.Engine) error
}

// ID implements Collector.
func (f CollectorFunc) ID() ID { return f.CollectorID }

// Collect implements Collector.
func (f CollectorFunc) Collect(ctx context.Context, engine *reconcile.Engine) error {
	if f.Fn == nil {
		return nil
	}
	return f.Fn(ctx, engine)
}

// Registry is a thread-safe container of collectors keyed by ID.
type Registry struct {
	mu         sync.RWMutex
	collectors map[ID]Collector
}

// NewRegistry creates an empty registry.
func NewRegistry(collectors ...Collector) *Registry {
	r := &Registry{collectors: make(map[ID]Collector)}
	for _, c := range collectors {
		r.Set(c)
	}
	return r
}

// Get returns a collector by ID.
func (r *Registry) Get(id ID) (Collector, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, found := r.collectors[id]
	return c, found
}

// Set registers a collector under its ID, replacing any previous one.
func (r *Registry) Set(c Collector) {
	if c == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.collectors[c.ID()] = c
}

// Delete removes a collector.
func (r *Registry) Delete(id ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.collectors, id)
}

// Len returns the number of collectors.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.collectors)
}

// Ordered returns the collectors with known IDs first, in run order,
// followed by any others sorted by ID.
func (r *Registry) Ordered() []Collector {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ordered := make([]Collector, 0, len(r.collectors))
	for _, id := range IDs() {
		if c, ok := r.collectors[id]; ok {
			ordered = append(ordered, c)
		}
	}

	var extra []ID
	for id := range r.collectors {
		if !id.IsValid() {
			extra = append(extra, id)
		}
	}
	slices.Sort(extra)
	for _, id := range extra {
		ordered = append(ordered, r.collectors[id])
	}
	return ordered
}
