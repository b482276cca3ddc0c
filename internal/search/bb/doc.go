// Package bb implements the branch-and-bound inner solver: given a
// design with decisions already committed outside a relaxed set of
// collections, it searches the candidate space restricted to that set
// and returns the best design it finds under a cost ceiling.
//
// Pruning uses the partial cost of an in-progress assignment (treating
// unassigned collections as still carrying whatever the incoming design
// already had) as a lower-bound proxy. This bound is not provably
// admissible — the cost function is not guaranteed non-decreasing under
// partial assignment — so bb is a best-effort improver, not an exact
// solver; see SPEC_FULL.md §9.
//
// The per-collection candidate enumeration in assignmentsFor combines
// shard-key, index-subset, and parent choices. Index subsets are
// restricted to none / each single candidate index / the full candidate
// set, rather than the complete index powerset, to keep the branching
// factor tractable at realistic collection counts; this is a deliberate
// simplification, not a spec requirement.
package bb
