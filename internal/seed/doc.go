// Package seed produces the initial design the search engine starts
// from: a greedy heuristic, not a search, so it always returns instantly
// and always satisfies every invariant in internal/design.
package seed
