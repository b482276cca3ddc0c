// Package costmodel evaluates the "goodness" of a design against a
// workload: network cost (routing/broadcast overhead), disk cost (working
// set residency under a memory budget), and skew cost (load imbalance
// across time), combined into a single overall_cost in [0,1].
//
// A Model is built once from a Config and a *catalog.Catalog and is safe
// for concurrent read-only use: internal/search/bb evaluates sibling
// candidates concurrently. Skew cost evaluates its time segments one
// after another within a single call. The disk-cost working-set simulation draws from a
// PRNG that is re-seeded from a fixed constant on every call, so repeated
// evaluations of the same design are bit-for-bit reproducible.
//
// Three behaviors are carried over unchanged from the original
// implementation even though they read as bugs: disk cost computes a
// per-operation multiplier that it never applies, disk cost breaks out of
// a session's query loop (rather than skipping just that query) the
// moment it sees a query against a collection outside the design, and
// address_size is divided by four before being used to size index memory.
// None of the three are corrected here; see DESIGN.md.
package costmodel
