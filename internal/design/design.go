package design

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/dreamware/shardadvisor/internal/candidate"
	"github.com/dreamware/shardadvisor/internal/catalog"
)

// ErrInvalidDesign is returned when a mutation would violate one of the
// design invariants: an unknown field, a candidate not in scope, or a
// cyclic/multi-parent embedding relationship.
type ErrInvalidDesign struct {
	Reason string
}

func (e *ErrInvalidDesign) Error() string {
	return fmt.Sprintf("invalid design: %s", e.Reason)
}

type entry struct {
	shardKey []string
	indexes  [][]string
	parent   string // "" means no embedding parent (root)
}

func (e entry) clone() entry {
	shardKey := append([]string(nil), e.shardKey...)
	indexes := make([][]string, len(e.indexes))
	for i, idx := range e.indexes {
		indexes[i] = append([]string(nil), idx...)
	}
	return entry{shardKey: shardKey, indexes: indexes, parent: e.parent}
}

// Design is a mutable, mutex-protected map of per-collection decisions. It
// is always bound to the catalog and candidate space it was built from, so
// mutations can be validated in place.
type Design struct {
	cat   *catalog.Catalog
	space *candidate.Space

	mu      sync.RWMutex
	entries map[string]entry
}

// New builds a Design covering every collection in cat, each initialized
// to the unsharded / no-index / no-parent default (always a valid member
// of the candidate space).
func New(cat *catalog.Catalog, space *candidate.Space) *Design {
	return NewScoped(cat, space, cat.CollectionNames())
}

// NewScoped builds a Design covering only the named collections.
func NewScoped(cat *catalog.Catalog, space *candidate.Space, collections []string) *Design {
	d := &Design{
		cat:     cat,
		space:   space,
		entries: make(map[string]entry, len(collections)),
	}
	for _, name := range collections {
		d.entries[name] = entry{parent: candidate.NoParent}
	}
	return d
}

// Clone returns a deep copy that can be mutated independently.
func (d *Design) Clone() *Design {
	d.mu.RLock()
	defer d.mu.RUnlock()
	entries := make(map[string]entry, len(d.entries))
	for name, e := range d.entries {
		entries[name] = e.clone()
	}
	return &Design{cat: d.cat, space: d.space, entries: entries}
}

// Collections returns the collection names this design is scoped to, in
// sorted order.
func (d *Design) Collections() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]string, 0, len(d.entries))
	for name := range d.entries {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// HasCollection reports whether c is in scope for this design.
func (d *Design) HasCollection(c string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.entries[c]
	return ok
}

// ShardKey returns the current shard-key tuple for a collection (nil/empty
// means unsharded).
func (d *Design) ShardKey(c string) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]string(nil), d.entries[c].shardKey...)
}

// InShardKey reports whether field is part of c's current shard key.
func (d *Design) InShardKey(c, field string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, f := range d.entries[c].shardKey {
		if f == field {
			return true
		}
	}
	return false
}

// Indexes returns the current set of index-key tuples for a collection.
func (d *Design) Indexes(c string) [][]string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([][]string, len(d.entries[c].indexes))
	for i, idx := range d.entries[c].indexes {
		out[i] = append([]string(nil), idx...)
	}
	return out
}

// HasIndex reports whether c has an index whose field set exactly matches
// fields (order independent).
func (d *Design) HasIndex(c string, fields []string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	want := sortedCopy(fields)
	for _, idx := range d.entries[c].indexes {
		if equalSets(sortedCopy(idx), want) {
			return true
		}
	}
	return false
}

// ParentCollection returns c's embedding parent, or candidate.NoParent
// ("") if c is a root.
func (d *Design) ParentCollection(c string) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.entries[c].parent
}

// SetShardKey assigns c's shard key, validating it against the candidate
// space and catalog schema.
func (d *Design) SetShardKey(c string, key []string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	e, ok := d.entries[c]
	if !ok {
		return &ErrInvalidDesign{Reason: fmt.Sprintf("collection %q not in design scope", c)}
	}
	if err := d.validateFields(c, key); err != nil {
		return err
	}
	if !tupleInCandidates(key, d.space.ShardKeys(c)) {
		return &ErrInvalidDesign{Reason: fmt.Sprintf("shard key %v not a candidate for %q", key, c)}
	}
	e.shardKey = append([]string(nil), key...)
	d.entries[c] = e
	return nil
}

// AddIndex adds an index-key tuple to c's index set, validating it against
// the candidate space and catalog schema.
func (d *Design) AddIndex(c string, key []string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	e, ok := d.entries[c]
	if !ok {
		return &ErrInvalidDesign{Reason: fmt.Sprintf("collection %q not in design scope", c)}
	}
	if err := d.validateFields(c, key); err != nil {
		return err
	}
	if !tupleInCandidates(key, d.space.IndexKeys(c)) {
		return &ErrInvalidDesign{Reason: fmt.Sprintf("index %v not a candidate for %q", key, c)}
	}
	want := sortedCopy(key)
	for _, idx := range e.indexes {
		if equalSets(sortedCopy(idx), want) {
			return nil // already present
		}
	}
	e.indexes = append(e.indexes, append([]string(nil), key...))
	d.entries[c] = e
	return nil
}

// ClearIndexes removes every index currently set on c, leaving its shard
// key and parent untouched. Used by the search engine to replace a
// collection's full index set rather than accumulate onto it.
func (d *Design) ClearIndexes(c string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	e, ok := d.entries[c]
	if !ok {
		return &ErrInvalidDesign{Reason: fmt.Sprintf("collection %q not in design scope", c)}
	}
	e.indexes = nil
	d.entries[c] = e
	return nil
}

// SetParent assigns c's embedding parent (candidate.NoParent for "none"),
// validating candidate membership and the acyclic single-parent forest
// invariant.
func (d *Design) SetParent(c string, parent string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	e, ok := d.entries[c]
	if !ok {
		return &ErrInvalidDesign{Reason: fmt.Sprintf("collection %q not in design scope", c)}
	}
	if parent != candidate.NoParent {
		if _, err := d.cat.Collection(parent); err != nil {
			return &ErrInvalidDesign{Reason: err.Error()}
		}
	}
	if !stringInSlice(parent, d.space.Parents(c)) {
		return &ErrInvalidDesign{Reason: fmt.Sprintf("parent %q not a candidate for %q", parent, c)}
	}
	if parent != candidate.NoParent {
		// Walking up from the proposed parent must never reach c: that
		// would create a cycle in the embedding forest.
		seen := map[string]bool{c: true}
		cur := parent
		for cur != candidate.NoParent {
			if seen[cur] {
				return &ErrInvalidDesign{Reason: fmt.Sprintf("setting parent(%q)=%q would create an embedding cycle", c, parent)}
			}
			seen[cur] = true
			next, ok := d.entries[cur]
			if !ok {
				break
			}
			cur = next.parent
		}
	}
	e.parent = parent
	d.entries[c] = e
	return nil
}

func (d *Design) validateFields(c string, fields []string) error {
	for _, f := range fields {
		if strings.HasPrefix(f, string(candidate.ReservedFieldMarker)) {
			return &ErrInvalidDesign{Reason: fmt.Sprintf("field %q begins with reserved marker %q", f, string(candidate.ReservedFieldMarker))}
		}
		if _, err := d.cat.FieldStats(c, f); err != nil {
			return &ErrInvalidDesign{Reason: err.Error()}
		}
	}
	return nil
}

// String renders a stable textual form of the design, suitable for logging
// and test snapshots: one line per collection in sorted order.
func (d *Design) String() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	names := make([]string, 0, len(d.entries))
	for name := range d.entries {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		e := d.entries[name]
		idxStrs := make([]string, len(e.indexes))
		for i, idx := range e.indexes {
			idxStrs[i] = "(" + strings.Join(idx, ",") + ")"
		}
		sort.Strings(idxStrs)
		parent := e.parent
		if parent == candidate.NoParent {
			parent = "none"
		}
		fmt.Fprintf(&b, "%s: shard_key=(%s) indexes=[%s] parent=%s\n",
			name, strings.Join(e.shardKey, ","), strings.Join(idxStrs, ","), parent)
	}
	return b.String()
}

func tupleInCandidates(tuple []string, candidates [][]string) bool {
	want := sortedCopy(tuple)
	for _, c := range candidates {
		if equalSets(sortedCopy(c), want) && len(c) == len(tuple) {
			return true
		}
	}
	return false
}

func sortedCopy(s []string) []string {
	out := append([]string(nil), s...)
	sort.Strings(out)
	return out
}

func equalSets(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func stringInSlice(s string, list []string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
