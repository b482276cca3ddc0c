package lns

import (
	"context"
	"testing"
	"time"

	"github.com/dreamware/shardadvisor/internal/candidate"
	"github.com/dreamware/shardadvisor/internal/catalog"
	"github.com/dreamware/shardadvisor/internal/costmodel"
	"github.com/dreamware/shardadvisor/internal/design"
)

func equalityWorkloadFixture() (*catalog.Catalog, *candidate.Space, *costmodel.Model) {
	sessions := make([]catalog.Session, 0, 20)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 20; i++ {
		t := base.Add(time.Duration(i) * time.Minute)
		sessions = append(sessions, catalog.Session{
			StartTime: t,
			EndTime:   t.Add(30 * time.Second),
			Queries: []catalog.Query{
				{Collection: "A", Type: catalog.OpSelect, Predicates: []catalog.Predicate{
					{Field: "x", Kind: catalog.PredicateEquality},
				}},
			},
		})
	}
	cat := catalog.New([]catalog.Collection{
		{Name: "A", TupleCount: 1000, AvgDocSize: 1, WorkloadShare: 1, MaxPages: 20,
			Fields: map[string]catalog.FieldStats{
				"x": {QueryUseCount: 20, Selectivity: 0.05, Support: catalog.SupportEquality},
			}},
	}, catalog.Workload{Sessions: sessions})
	sp := candidate.NewSpace(cat)
	model := costmodel.New(costmodel.Config{
		WeightNetwork: 1, WeightDisk: 1, WeightSkew: 1,
		Nodes: 4, MaxMemoryMB: 1024, AddressSize: 64, SkewIntervals: 3,
	}, cat, nil)
	return cat, sp, model
}

// S6: seed with an empty shard key, workload of all equality predicates
// on field x; LNS must discover shard_key=(x) within the time budget,
// driving Net to 0.
func TestScenarioS6LNSFindsShardKey(t *testing.T) {
	cat, sp, model := equalityWorkloadFixture()
	seedDesign := design.New(cat, sp) // unsharded

	opt := New(cat, sp, model, nil, 1)
	result, cost := opt.Solve(context.Background(), seedDesign, time.Now().Add(2*time.Second))

	if got := result.ShardKey("A"); len(got) != 1 || got[0] != "x" {
		t.Fatalf("expected LNS to discover shard_key=(x), got %v", got)
	}
	if cost >= model.Overall(seedDesign) {
		t.Fatalf("expected improved cost, got %v (seed cost %v)", cost, model.Overall(seedDesign))
	}
}

// Invariant 3: monotonic improvement. solve never returns a design with
// cost greater than the seed's cost.
func TestInvariantMonotonicImprovement(t *testing.T) {
	cat, sp, model := equalityWorkloadFixture()
	seedDesign := design.New(cat, sp)
	seedCost := model.Overall(seedDesign)

	opt := New(cat, sp, model, nil, 42)
	_, cost := opt.Solve(context.Background(), seedDesign, time.Now().Add(2*time.Second))

	if cost > seedCost {
		t.Fatalf("expected solve cost %v to never exceed seed cost %v", cost, seedCost)
	}
}

func TestSolveRespectsDeadline(t *testing.T) {
	cat, sp, model := equalityWorkloadFixture()
	seedDesign := design.New(cat, sp)

	opt := New(cat, sp, model, nil, 7)
	start := time.Now()
	_, _ = opt.Solve(context.Background(), seedDesign, time.Now().Add(200*time.Millisecond))
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("expected solve to return near the deadline, took %v", elapsed)
	}
}

func TestSolveRespectsCancellation(t *testing.T) {
	cat, sp, model := equalityWorkloadFixture()
	seedDesign := design.New(cat, sp)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opt := New(cat, sp, model, nil, 3)
	result, cost := opt.Solve(ctx, seedDesign, time.Now().Add(time.Second))
	if result.String() != seedDesign.String() {
		t.Fatalf("expected cancelled solve to return the seed unchanged")
	}
	if cost != model.Overall(seedDesign) {
		t.Fatalf("expected cancelled solve's cost to match the seed's cost")
	}
}
