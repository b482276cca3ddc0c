// Package catalog provides the immutable, read-only snapshot of a sharded
// document database's schema and sample workload that the cost model and
// search engine reason over.
//
// A Catalog is built once by a collaborator (see internal/ingest) from a
// live deployment or a recorded fixture, and never mutated afterwards: the
// cost model and search engine only ever read from it, which is what lets
// Catalog values be shared freely across the worker goroutines that
// evaluate candidate designs concurrently (see internal/search/bb).
//
// # Overview
//
// Catalog tracks two things side by side:
//
//   - A Collection set: one entry per document collection, carrying tuple
//     counts, average document size, workload share, max-scan-pages, and
//     per-field statistics (FieldStats).
//   - A Workload: the ordered session/query trace a representative sample
//     of client activity produced, used to estimate routing and residency
//     behavior under a candidate Design.
//
// # Thread Safety
//
// All exported methods are safe for concurrent use: the snapshot is built
// once and never mutated, so no locking is required internally.
package catalog
