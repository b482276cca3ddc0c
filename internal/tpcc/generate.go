package tpcc

import (
	"math/rand"
	"time"

	"github.com/dreamware/shardadvisor/internal/catalog"
)

// Transaction mix matches the TPC-C specification's weighting: NewOrder
// dominates, Payment is nearly as common, OrderStatus is rare.
const (
	newOrderWeight    = 45
	paymentWeight     = 43
	orderStatusWeight = 4
)

// Generate builds a catalog.Catalog with a Warehouse/District/Customer/
// Order/OrderLine/Stock schema scaled by warehouseCount (the TPC-C
// "scale factor") and a workload of sessionCount sessions drawn from the
// NewOrder/Payment/OrderStatus transaction mix. seed makes the generated
// trace reproducible across test runs.
func Generate(warehouseCount, sessionCount int, seed int64) *catalog.Catalog {
	rng := rand.New(rand.NewSource(seed))

	collections := schema(warehouseCount)
	sessions := make([]catalog.Session, 0, sessionCount)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < sessionCount; i++ {
		var queries []catalog.Query
		switch pick(rng, newOrderWeight, paymentWeight, orderStatusWeight) {
		case 0:
			queries = newOrderQueries(rng)
		case 1:
			queries = paymentQueries()
		default:
			queries = orderStatusQueries()
		}

		sessionStart := start.Add(time.Duration(i) * time.Second)
		sessions = append(sessions, catalog.Session{
			StartTime: sessionStart,
			EndTime:   sessionStart.Add(time.Duration(200+rng.Intn(800)) * time.Millisecond),
			Queries:   queries,
		})
	}

	return catalog.New(collections, catalog.Workload{Sessions: sessions})
}

func pick(rng *rand.Rand, weights ...int) int {
	total := 0
	for _, w := range weights {
		total += w
	}
	r := rng.Intn(total)
	cum := 0
	for i, w := range weights {
		cum += w
		if r < cum {
			return i
		}
	}
	return len(weights) - 1
}

func newOrderQueries(rng *rand.Rand) []catalog.Query {
	lineCount := 5 + rng.Intn(11) // 5-15 order lines, per spec
	queries := []catalog.Query{
		{Collection: "Customer", Type: catalog.OpSelect, Predicates: []catalog.Predicate{
			{Field: "w_id", Kind: catalog.PredicateEquality},
			{Field: "d_id", Kind: catalog.PredicateEquality},
			{Field: "c_id", Kind: catalog.PredicateEquality},
		}},
		{Collection: "District", Type: catalog.OpUpdate, Predicates: []catalog.Predicate{
			{Field: "w_id", Kind: catalog.PredicateEquality},
			{Field: "d_id", Kind: catalog.PredicateEquality},
		}},
		{Collection: "Order", Type: catalog.OpInsert},
	}
	for i := 0; i < lineCount; i++ {
		queries = append(queries,
			catalog.Query{Collection: "Stock", Type: catalog.OpUpdate, Predicates: []catalog.Predicate{
				{Field: "w_id", Kind: catalog.PredicateEquality},
				{Field: "i_id", Kind: catalog.PredicateEquality},
			}},
			catalog.Query{Collection: "OrderLine", Type: catalog.OpInsert},
		)
	}
	return queries
}

func paymentQueries() []catalog.Query {
	return []catalog.Query{
		{Collection: "Warehouse", Type: catalog.OpUpdate, Predicates: []catalog.Predicate{
			{Field: "w_id", Kind: catalog.PredicateEquality},
		}},
		{Collection: "District", Type: catalog.OpUpdate, Predicates: []catalog.Predicate{
			{Field: "w_id", Kind: catalog.PredicateEquality},
			{Field: "d_id", Kind: catalog.PredicateEquality},
		}},
		{Collection: "Customer", Type: catalog.OpUpdate, Predicates: []catalog.Predicate{
			{Field: "w_id", Kind: catalog.PredicateEquality},
			{Field: "d_id", Kind: catalog.PredicateEquality},
			{Field: "c_id", Kind: catalog.PredicateEquality},
		}},
	}
}

func orderStatusQueries() []catalog.Query {
	return []catalog.Query{
		{Collection: "Customer", Type: catalog.OpSelect, Predicates: []catalog.Predicate{
			{Field: "c_id", Kind: catalog.PredicateEquality},
		}},
		{Collection: "Order", Type: catalog.OpSelect, Predicates: []catalog.Predicate{
			{Field: "c_id", Kind: catalog.PredicateRange},
		}},
		{Collection: "OrderLine", Type: catalog.OpSelect, Predicates: []catalog.Predicate{
			{Field: "o_id", Kind: catalog.PredicateEquality},
		}},
	}
}

func schema(warehouseCount int) []catalog.Collection {
	w := int64(warehouseCount)
	return []catalog.Collection{
		{
			Name: "Warehouse", TupleCount: w, AvgDocSize: 200, WorkloadShare: 0.05, MaxPages: maxPages(w, 200),
			Fields: map[string]catalog.FieldStats{
				"w_id": {QueryUseCount: 1000, Cardinality: w, Selectivity: 1.0 / float64(w), Support: catalog.SupportEquality},
			},
		},
		{
			Name: "District", TupleCount: w * 10, AvgDocSize: 250, WorkloadShare: 0.10, MaxPages: maxPages(w*10, 250),
			Fields: map[string]catalog.FieldStats{
				"w_id": {QueryUseCount: 1000, Cardinality: w, Selectivity: 1.0 / float64(w), Support: catalog.SupportEquality},
				"d_id": {QueryUseCount: 1000, Cardinality: 10, Selectivity: 0.1, Support: catalog.SupportEquality},
			},
		},
		{
			Name: "Customer", TupleCount: w * 30000, AvgDocSize: 650, WorkloadShare: 0.25, MaxPages: maxPages(w*30000, 650),
			Fields: map[string]catalog.FieldStats{
				"w_id": {QueryUseCount: 1500, Cardinality: w, Selectivity: 1.0 / float64(w), Support: catalog.SupportEquality},
				"d_id": {QueryUseCount: 1500, Cardinality: 10, Selectivity: 0.1, Support: catalog.SupportEquality},
				"c_id": {QueryUseCount: 1500, Cardinality: w * 30000, Selectivity: 1.0 / float64(w*30000), Support: catalog.SupportEquality},
			},
		},
		{
			Name: "Order", TupleCount: w * 30000, AvgDocSize: 120, WorkloadShare: 0.20, MaxPages: maxPages(w*30000, 120),
			Fields: map[string]catalog.FieldStats{
				"c_id": {QueryUseCount: 800, Cardinality: w * 30000, Selectivity: 1.0 / float64(w*30000), Support: catalog.SupportRange},
			},
		},
		{
			Name: "OrderLine", TupleCount: w * 300000, AvgDocSize: 100, WorkloadShare: 0.30, MaxPages: maxPages(w*300000, 100),
			Fields: map[string]catalog.FieldStats{
				"o_id": {QueryUseCount: 800, Cardinality: w * 300000, Selectivity: 1.0 / float64(w*300000), Support: catalog.SupportEquality},
			},
		},
		{
			Name: "Stock", TupleCount: w * 100000, AvgDocSize: 300, WorkloadShare: 0.10, MaxPages: maxPages(w*100000, 300),
			Fields: map[string]catalog.FieldStats{
				"w_id": {QueryUseCount: 2000, Cardinality: w, Selectivity: 1.0 / float64(w), Support: catalog.SupportEquality},
				"i_id": {QueryUseCount: 2000, Cardinality: 100000, Selectivity: 1.0 / 100000, Support: catalog.SupportEquality},
			},
		},
	}
}

const tpccPageSize = 4096.0

func maxPages(tupleCount int64, avgDocSize float64) int64 {
	pages := (float64(tupleCount) * avgDocSize) / tpccPageSize
	if pages < 1 {
		return 1
	}
	return int64(pages)
}

