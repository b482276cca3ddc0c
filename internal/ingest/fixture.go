package ingest

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dreamware/shardadvisor/internal/catalog"
)

// fixtureDoc is the on-disk shape FromBSONFile reads, a single JSON
// document: despite
// the name (matching the source's recorded-workload terminology), the
// on-disk format is JSON rather than raw BSON, since a fixture is meant
// to be hand-editable for tests.
type fixtureDoc struct {
	Collections []fixtureCollection `json:"collections"`
	Sessions    []fixtureSession    `json:"sessions"`
}

type fixtureCollection struct {
	Name          string                      `json:"name"`
	TupleCount    int64                       `json:"tuple_count"`
	AvgDocSize    float64                     `json:"avg_doc_size"`
	WorkloadShare float64                     `json:"workload_share"`
	MaxPages      int64                       `json:"max_pages"`
	Fields        map[string]fixtureFieldStat `json:"fields"`
}

type fixtureFieldStat struct {
	QueryUseCount int     `json:"query_use_count"`
	Cardinality   int64   `json:"cardinality"`
	Selectivity   float64 `json:"selectivity"`
	Support       string  `json:"support"` // "none" | "equality" | "range" | "both"
}

type fixtureSession struct {
	StartTime time.Time       `json:"start_time"`
	EndTime   time.Time       `json:"end_time"`
	Queries   []fixtureQuery  `json:"queries"`
}

type fixtureQuery struct {
	Collection string            `json:"collection"`
	Type       string            `json:"type"` // "insert" | "update" | "delete" | "select"
	Predicates []fixturePredicate `json:"predicates"`
}

type fixturePredicate struct {
	Field string `json:"field"`
	Kind  string `json:"kind"` // "equality" | "range" | "other"
}

// FromBSONFile loads a recorded catalog/workload pair from a JSON
// fixture, for offline runs and for the test suite when no live MongoDB
// deployment is available.
func FromBSONFile(path string) (*catalog.Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc fixtureDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}

	cols := make([]catalog.Collection, len(doc.Collections))
	for i, fc := range doc.Collections {
		fields := make(map[string]catalog.FieldStats, len(fc.Fields))
		for name, fs := range fc.Fields {
			fields[name] = catalog.FieldStats{
				QueryUseCount: fs.QueryUseCount,
				Cardinality:   fs.Cardinality,
				Selectivity:   fs.Selectivity,
				Support:       parseSupport(fs.Support),
			}
		}
		cols[i] = catalog.Collection{
			Name:          fc.Name,
			TupleCount:    fc.TupleCount,
			AvgDocSize:    fc.AvgDocSize,
			WorkloadShare: fc.WorkloadShare,
			MaxPages:      fc.MaxPages,
			Fields:        fields,
		}
	}

	sessions := make([]catalog.Session, len(doc.Sessions))
	for i, fs := range doc.Sessions {
		queries := make([]catalog.Query, len(fs.Queries))
		for j, fq := range fs.Queries {
			preds := make([]catalog.Predicate, len(fq.Predicates))
			for k, fp := range fq.Predicates {
				preds[k] = catalog.Predicate{Field: fp.Field, Kind: parsePredicateKind(fp.Kind)}
			}
			queries[j] = catalog.Query{
				Collection: fq.Collection,
				Type:       parseOpType(fq.Type),
				Predicates: preds,
			}
		}
		sessions[i] = catalog.Session{StartTime: fs.StartTime, EndTime: fs.EndTime, Queries: queries}
	}

	return catalog.New(cols, catalog.Workload{Sessions: sessions}), nil
}

func parseSupport(s string) catalog.PredicateSupport {
	switch s {
	case "equality":
		return catalog.SupportEquality
	case "range":
		return catalog.SupportRange
	case "both":
		return catalog.SupportBoth
	default:
		return catalog.SupportNone
	}
}

func parseOpType(s string) catalog.OpType {
	switch s {
	case "insert":
		return catalog.OpInsert
	case "update":
		return catalog.OpUpdate
	case "delete":
		return catalog.OpDelete
	default:
		return catalog.OpSelect
	}
}

func parsePredicateKind(s string) catalog.PredicateKind {
	switch s {
	case "equality":
		return catalog.PredicateEquality
	case "range":
		return catalog.PredicateRange
	default:
		return catalog.PredicateOther
	}
}
