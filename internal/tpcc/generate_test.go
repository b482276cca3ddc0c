package tpcc

import "testing"

func TestGenerateIsDeterministic(t *testing.T) {
	a := Generate(4, 200, 42)
	b := Generate(4, 200, 42)

	if len(a.Workload().Sessions) != len(b.Workload().Sessions) {
		t.Fatalf("session counts differ: %d vs %d", len(a.Workload().Sessions), len(b.Workload().Sessions))
	}
	for i := range a.Workload().Sessions {
		sa, sb := a.Workload().Sessions[i], b.Workload().Sessions[i]
		if len(sa.Queries) != len(sb.Queries) {
			t.Fatalf("session %d: query counts differ: %d vs %d", i, len(sa.Queries), len(sb.Queries))
		}
		for j := range sa.Queries {
			if sa.Queries[j].Collection != sb.Queries[j].Collection || sa.Queries[j].Type != sb.Queries[j].Type {
				t.Fatalf("session %d query %d differs between runs", i, j)
			}
		}
	}
}

func TestGenerateProducesAllSixCollections(t *testing.T) {
	cat := Generate(2, 50, 7)
	want := []string{"Customer", "District", "Order", "OrderLine", "Stock", "Warehouse"}
	got := cat.CollectionNames()
	if len(got) != len(want) {
		t.Fatalf("expected %d collections, got %d (%v)", len(want), len(got), got)
	}
	for i, name := range want {
		if got[i] != name {
			t.Fatalf("expected collection %q at index %d, got %q", name, i, got[i])
		}
	}
}

func TestGenerateExercisesAllThreeTransactionTypes(t *testing.T) {
	cat := Generate(3, 500, 99)
	sawInsertOrder, sawUpdateWarehouse, sawRangeOrderSelect := false, false, false
	for _, s := range cat.Workload().Sessions {
		for _, q := range s.Queries {
			if q.Collection == "Order" && q.Type == 0 {
				sawInsertOrder = true
			}
			if q.Collection == "Warehouse" && q.Type == 1 {
				sawUpdateWarehouse = true
			}
			if q.Collection == "Order" && len(q.Predicates) == 1 && q.Predicates[0].Kind == 1 {
				sawRangeOrderSelect = true
			}
		}
	}
	if !sawInsertOrder {
		t.Fatal("expected at least one NewOrder-style Order insert across 500 sessions")
	}
	if !sawUpdateWarehouse {
		t.Fatal("expected at least one Payment-style Warehouse update across 500 sessions")
	}
	if !sawRangeOrderSelect {
		t.Fatal("expected at least one OrderStatus-style ranged Order select across 500 sessions")
	}
}

func TestGenerateRespectsWarehouseScaling(t *testing.T) {
	small := Generate(1, 10, 1)
	large := Generate(10, 10, 1)

	smallWarehouse, err := small.Collection("Warehouse")
	if err != nil {
		t.Fatal(err)
	}
	largeWarehouse, err := large.Collection("Warehouse")
	if err != nil {
		t.Fatal(err)
	}
	if largeWarehouse.TupleCount <= smallWarehouse.TupleCount {
		t.Fatalf("expected larger warehouse count to grow TupleCount: %d vs %d", smallWarehouse.TupleCount, largeWarehouse.TupleCount)
	}
}
