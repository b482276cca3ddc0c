package candidate

import (
	"reflect"
	"testing"

	"github.com/dreamware/shardadvisor/internal/catalog"
)

func testCatalog() *catalog.Catalog {
	return catalog.New([]catalog.Collection{
		{
			Name: "A",
			Fields: map[string]catalog.FieldStats{
				"x":        {QueryUseCount: 5, Support: catalog.SupportEquality},
				"y":        {QueryUseCount: 3, Support: catalog.SupportRange},
				"unused":   {QueryUseCount: 0},
				"$reserved": {QueryUseCount: 9},
			},
		},
	}, catalog.Workload{})
}

func TestNewSpaceExcludesReservedAndUnusedFields(t *testing.T) {
	sp := NewSpace(testCatalog())
	for _, tuple := range sp.ShardKeys("A") {
		for _, f := range tuple {
			if f == "unused" || f == "$reserved" {
				t.Fatalf("unexpected field %q in shard key candidates", f)
			}
		}
	}
}

func TestNewSpaceIncludesEmptyShardKey(t *testing.T) {
	sp := NewSpace(testCatalog())
	keys := sp.ShardKeys("A")
	if len(keys) == 0 || len(keys[0]) != 0 {
		t.Fatalf("expected first shard key candidate to be the empty (unsharded) tuple, got %v", keys)
	}
}

func TestNewSpaceArityBound(t *testing.T) {
	sp := NewSpaceWithArity(testCatalog(), 1)
	for _, tuple := range sp.IndexKeys("A") {
		if len(tuple) > 1 {
			t.Fatalf("expected arity <= 1, got tuple %v", tuple)
		}
	}
}

func TestParentsAlwaysIncludesNone(t *testing.T) {
	sp := NewSpace(testCatalog())
	parents := sp.Parents("A")
	if len(parents) == 0 || parents[0] != NoParent {
		t.Fatalf("expected NoParent as first parent candidate, got %v", parents)
	}
}

func TestRestrictScopesToSubset(t *testing.T) {
	cat := catalog.New([]catalog.Collection{
		{Name: "A", Fields: map[string]catalog.FieldStats{"x": {QueryUseCount: 1}}},
		{Name: "B", Fields: map[string]catalog.FieldStats{"y": {QueryUseCount: 1}}},
	}, catalog.Workload{})
	sp := NewSpace(cat)
	restricted := sp.Restrict([]string{"A"})
	if got, want := restricted.Collections(), []string{"A"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected restricted collections %v, got %v", want, got)
	}
}

func TestParentInferredFromSessionAdjacency(t *testing.T) {
	cat := catalog.New([]catalog.Collection{
		{Name: "Orders", Fields: map[string]catalog.FieldStats{"id": {QueryUseCount: 1}}},
		{Name: "OrderLines", Fields: map[string]catalog.FieldStats{"oid": {QueryUseCount: 1}}},
	}, catalog.Workload{Sessions: []catalog.Session{
		{Queries: []catalog.Query{
			{Collection: "Orders", Type: catalog.OpSelect},
			{Collection: "OrderLines", Type: catalog.OpSelect},
		}},
	}})
	sp := NewSpace(cat)
	parents := sp.Parents("OrderLines")
	found := false
	for _, p := range parents {
		if p == "Orders" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected Orders to be an inferred parent candidate for OrderLines, got %v", parents)
	}
}
