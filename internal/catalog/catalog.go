package catalog

import (
	"fmt"
	"sort"
	"time"
)

// ErrUnknownCollection is returned when a lookup names a collection the
// catalog has no schema entry for.
type ErrUnknownCollection struct {
	Collection string
}

func (e *ErrUnknownCollection) Error() string {
	return fmt.Sprintf("catalog: unknown collection %q", e.Collection)
}

// ErrUnknownField is returned when a lookup names a field that does not
// exist in the given collection's schema.
type ErrUnknownField struct {
	Collection, Field string
}

func (e *ErrUnknownField) Error() string {
	return fmt.Sprintf("catalog: unknown field %q on collection %q", e.Field, e.Collection)
}

// Catalog is the immutable snapshot of collections and their sample
// workload that the cost model and search engine consume. Construct one
// with New and never mutate the slices/maps passed in afterwards.
type Catalog struct {
	collections map[string]Collection
	names       []string // sorted, cached for deterministic iteration
	workload    Workload
}

// New builds a Catalog from a collection set and a workload trace. The
// workload is expected to already be sorted by session start time, as
// produced by internal/ingest.
func New(collections []Collection, workload Workload) *Catalog {
	c := &Catalog{
		collections: make(map[string]Collection, len(collections)),
		workload:    workload,
	}
	for _, col := range collections {
		c.collections[col.Name] = col
		c.names = append(c.names, col.Name)
	}
	sort.Strings(c.names)
	return c
}

// CollectionNames returns the names of every collection in the catalog, in
// stable sorted order.
func (c *Catalog) CollectionNames() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Collections returns every collection in the catalog, in stable sorted
// order by name.
func (c *Catalog) Collections() []Collection {
	out := make([]Collection, 0, len(c.names))
	for _, name := range c.names {
		out = append(out, c.collections[name])
	}
	return out
}

// Collection returns the schema/statistics for a single collection.
func (c *Catalog) Collection(name string) (Collection, error) {
	col, ok := c.collections[name]
	if !ok {
		return Collection{}, &ErrUnknownCollection{Collection: name}
	}
	return col, nil
}

// FieldStats returns the statistics for a single field of a collection.
func (c *Catalog) FieldStats(collection, field string) (FieldStats, error) {
	col, ok := c.collections[collection]
	if !ok {
		return FieldStats{}, &ErrUnknownCollection{Collection: collection}
	}
	fs, ok := col.Fields[field]
	if !ok {
		return FieldStats{}, &ErrUnknownField{Collection: collection, Field: field}
	}
	return fs, nil
}

// Workload returns the full sample workload trace.
func (c *Catalog) Workload() *Workload {
	return &c.workload
}

// SessionsIn returns the ordered sub-view of sessions whose end time is at
// or before end and whose start time is at or after start.
func (c *Catalog) SessionsIn(start, end time.Time) []Session {
	var out []Session
	for _, s := range c.workload.Sessions {
		if !s.StartTime.Before(start) && !s.EndTime.After(end) {
			out = append(out, s)
		}
	}
	return out
}

// WorkloadView is the Workload-shaped result of SubWorkload: the selected
// sessions, plus each collection's workload share recomputed over just
// that selection.
type WorkloadView struct {
	Workload
	Shares map[string]float64
}

// SubWorkload builds a view over the given sessions, recomputing each
// collection's workload-share ratio from that view alone rather than from
// the full catalog.
func (c *Catalog) SubWorkload(sessions []Session) *WorkloadView {
	counts := make(map[string]int)
	var total int
	for _, s := range sessions {
		for _, q := range s.Queries {
			counts[q.Collection]++
			total++
		}
	}
	shares := make(map[string]float64, len(counts))
	for col, n := range counts {
		if total == 0 {
			shares[col] = 0
			continue
		}
		shares[col] = float64(n) / float64(total)
	}
	return &WorkloadView{
		Workload: Workload{Sessions: sessions},
		Shares:   shares,
	}
}
