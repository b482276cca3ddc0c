package bb

import (
	"context"
	"testing"
	"time"

	"github.com/dreamware/shardadvisor/internal/candidate"
	"github.com/dreamware/shardadvisor/internal/catalog"
	"github.com/dreamware/shardadvisor/internal/costmodel"
	"github.com/dreamware/shardadvisor/internal/design"
)

func fixture() (*catalog.Catalog, *candidate.Space, *costmodel.Model) {
	cat := catalog.New([]catalog.Collection{
		{Name: "A", TupleCount: 100, AvgDocSize: 1, WorkloadShare: 1, MaxPages: 10,
			Fields: map[string]catalog.FieldStats{
				"x": {QueryUseCount: 5, Selectivity: 0.1, Support: catalog.SupportEquality},
			}},
	}, catalog.Workload{Sessions: []catalog.Session{
		{
			StartTime: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			EndTime:   time.Date(2024, 1, 1, 0, 1, 0, 0, time.UTC),
			Queries: []catalog.Query{
				{Collection: "A", Type: catalog.OpSelect, Predicates: []catalog.Predicate{
					{Field: "x", Kind: catalog.PredicateEquality},
				}},
			},
		},
	}})
	sp := candidate.NewSpace(cat)
	model := costmodel.New(costmodel.Config{
		WeightNetwork: 1, WeightDisk: 1, WeightSkew: 1,
		Nodes: 4, MaxMemoryMB: 1024, AddressSize: 64, SkewIntervals: 3,
	}, cat, nil)
	return cat, sp, model
}

func TestSolveFindsShardKeyThatEliminatesBroadcast(t *testing.T) {
	cat, sp, model := fixture()
	seedDesign := design.New(cat, sp) // unsharded: every query broadcasts
	upperBound := model.Overall(seedDesign)

	result, cost := Solve(context.Background(), cat, seedDesign, []string{"A"}, sp, model, upperBound)
	if cost >= upperBound {
		t.Fatalf("expected an improvement over the seed's cost %v, got %v", upperBound, cost)
	}
	if got := result.ShardKey("A"); len(got) != 1 || got[0] != "x" {
		t.Fatalf("expected shard key (x) to be discovered, got %v", got)
	}
}

func TestSolveNeverWorsensWhenNoImprovementExists(t *testing.T) {
	cat, sp, model := fixture()
	d := design.New(cat, sp)
	if err := d.SetShardKey("A", []string{"x"}); err != nil {
		t.Fatal(err)
	}
	upperBound := model.Overall(d) // already optimal for this tiny fixture

	result, cost := Solve(context.Background(), cat, d, []string{"A"}, sp, model, upperBound)
	if cost > upperBound {
		t.Fatalf("expected cost to never exceed the incumbent's upper bound, got %v > %v", cost, upperBound)
	}
	_ = result
}

func TestSolveRespectsCancellation(t *testing.T) {
	cat, sp, model := fixture()
	d := design.New(cat, sp)
	upperBound := model.Overall(d)

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // already cancelled before Solve starts

	result, cost := Solve(ctx, cat, d, []string{"A"}, sp, model, upperBound)
	if cost != upperBound {
		t.Fatalf("expected cancelled solve to return the unchanged upper bound, got %v", cost)
	}
	if result.String() != d.String() {
		t.Fatalf("expected cancelled solve to return the incumbent unchanged")
	}
}
