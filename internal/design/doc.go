// Package design implements the mutable per-collection physical-design
// decisions the search engine explores: shard key, secondary indexes, and
// embedding parent.
//
// A Design is always scoped to a fixed set of collections, fixed at
// construction time from a catalog.Catalog and validated against a
// candidate.Space. Every mutation is checked against that space and
// against the invariants in SPEC_FULL.md §3 (acyclic single-parent
// embedding forest, no reserved field names, candidate membership);
// violations return ErrInvalidDesign rather than leaving the Design
// partially updated.
//
// Designs are cloned, never shared, across search branches: internal/seed
// produces one, internal/search/bb clones and mutates copies while
// exploring, and internal/search/lns replaces its incumbent atomically on
// every accepted improvement.
package design
