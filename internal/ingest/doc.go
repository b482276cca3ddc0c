// Package ingest turns a live MongoDB deployment, or a recorded fixture,
// into the immutable catalog.Catalog / catalog.Workload pair the cost
// model and search engine consume. It is a thin collaborator: nothing in
// internal/costmodel or internal/search imports this package, and
// nothing here leaks untyped bson.M maps past its own boundary — every
// exported function returns strongly-typed internal/catalog records.
package ingest
