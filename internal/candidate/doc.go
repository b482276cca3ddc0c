// Package candidate enumerates, per collection, the finite sets of
// admissible shard keys, index key-tuples, and embedding parents that the
// search engine is allowed to choose from.
//
// The enumeration is derived once from a catalog.Catalog: shard keys and
// index keys are drawn from fields with non-zero query use, up to a
// bounded arity, and embedding parents are inferred from session adjacency
// (which collections tend to be queried immediately after which). Fields
// beginning with the reserved marker "$" are rejected during enumeration,
// since they are escape-encoded internal names from the source catalog
// layer and are never valid design choices.
package candidate
