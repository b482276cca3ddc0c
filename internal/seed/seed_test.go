package seed

import (
	"testing"

	"github.com/dreamware/shardadvisor/internal/candidate"
	"github.com/dreamware/shardadvisor/internal/catalog"
)

func TestSeedPicksHighestUseField(t *testing.T) {
	cat := catalog.New([]catalog.Collection{
		{Name: "A", Fields: map[string]catalog.FieldStats{
			"x":         {QueryUseCount: 5},
			"y":         {QueryUseCount: 9},
			"$reserved": {QueryUseCount: 100},
		}},
	}, catalog.Workload{})
	sp := candidate.NewSpace(cat)

	d := Seed(cat, sp)
	if got := d.ShardKey("A"); len(got) != 1 || got[0] != "y" {
		t.Fatalf("expected shard key (y), got %v", got)
	}
	if len(d.Indexes("A")) != 0 {
		t.Fatalf("expected no indexes in the seed design")
	}
	if d.ParentCollection("A") != candidate.NoParent {
		t.Fatalf("expected no parent in the seed design")
	}
}

func TestSeedTieBreaksAlphabetically(t *testing.T) {
	cat := catalog.New([]catalog.Collection{
		{Name: "A", Fields: map[string]catalog.FieldStats{
			"zeta":  {QueryUseCount: 5},
			"alpha": {QueryUseCount: 5},
		}},
	}, catalog.Workload{})
	sp := candidate.NewSpace(cat)

	d := Seed(cat, sp)
	if got := d.ShardKey("A"); len(got) != 1 || got[0] != "alpha" {
		t.Fatalf("expected tie-break to prefer alpha, got %v", got)
	}
}

func TestSeedLeavesUnqueriedCollectionUnsharded(t *testing.T) {
	cat := catalog.New([]catalog.Collection{
		{Name: "A", Fields: map[string]catalog.FieldStats{
			"x": {QueryUseCount: 0},
		}},
	}, catalog.Workload{})
	sp := candidate.NewSpace(cat)

	d := Seed(cat, sp)
	if got := d.ShardKey("A"); len(got) != 0 {
		t.Fatalf("expected unsharded default when no field is queried, got %v", got)
	}
}
