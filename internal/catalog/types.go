package catalog

import "time"

// PredicateSupport tags whether a field was observed being queried with
// equality predicates, range predicates, or both. Corresponds to the
// source catalog's small field-level enumeration.
type PredicateSupport int

const (
	// SupportNone indicates the field has never appeared in a query predicate.
	SupportNone PredicateSupport = iota
	// SupportEquality indicates the field has been observed in equality predicates.
	SupportEquality
	// SupportRange indicates the field has been observed in range predicates.
	SupportRange
	// SupportBoth indicates the field has been observed under both predicate kinds.
	SupportBoth
)

// FieldStats carries the per-field statistics the cost model and candidate
// enumerator need: how often the field is queried, how selective it is,
// and which predicate kinds it has been observed to support.
type FieldStats struct {
	QueryUseCount int
	Cardinality   int64
	Selectivity   float64
	Support       PredicateSupport
}

// Collection describes one document collection: its size, its share of the
// sampled workload, the page cost of a full scan, and its field statistics.
type Collection struct {
	Name          string
	TupleCount    int64
	AvgDocSize    float64 // bytes
	WorkloadShare float64 // fraction of workload queries targeting this collection
	MaxPages      int64
	Fields        map[string]FieldStats
}

// OpType enumerates the query operation kinds the cost model distinguishes.
type OpType int

const (
	OpInsert OpType = iota
	OpUpdate
	OpDelete
	OpSelect
)

// PredicateKind enumerates how a single predicate field is compared.
type PredicateKind int

const (
	PredicateEquality PredicateKind = iota
	PredicateRange
	PredicateOther
)

// Predicate is one field/comparison-kind pair in a query's filter. Queries
// keep predicates in a slice rather than a map because the cost model's
// tie-break rule (the last matching shard-key field wins) depends on
// iterating them in their original insertion order.
type Predicate struct {
	Field string
	Kind  PredicateKind
}

// Query is an immutable record of a single operation issued against a
// collection during a session. Inserts carry no predicates.
type Query struct {
	Collection string
	Type       OpType
	Predicates []Predicate
}

// Session is an ordered sequence of queries issued during one client
// conversation, bounded by StartTime and EndTime. Consecutive queries in a
// session are candidates for embedding absorption (see the cost model's
// network-cost rules).
type Session struct {
	StartTime time.Time
	EndTime   time.Time
	Queries   []Query
}

// Workload is an ordered sequence of sessions, sorted by StartTime.
type Workload struct {
	Sessions []Session
}

// Factory returns a new, empty Workload of the same shape as w. Used by the
// cost model to build the time-sliced sub-workloads skew analysis needs.
func (w *Workload) Factory() *Workload {
	return &Workload{}
}

// Length returns the number of sessions in the workload.
func (w *Workload) Length() int {
	return len(w.Sessions)
}
