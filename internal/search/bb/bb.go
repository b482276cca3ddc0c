package bb

import (
	"context"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/dreamware/shardadvisor/internal/candidate"
	"github.com/dreamware/shardadvisor/internal/catalog"
	"github.com/dreamware/shardadvisor/internal/costmodel"
	"github.com/dreamware/shardadvisor/internal/design"
)

// Assignment is one complete per-collection candidate: a shard key, an
// index set, and an embedding parent, all drawn from the same
// candidate.Space used to validate the mutation.
type Assignment struct {
	ShardKey []string
	Indexes  [][]string
	Parent   string
}

// Solve searches the candidate space restricted to relaxed, starting
// from incumbent (whose decisions for collections outside relaxed are
// left untouched), and returns the best design found together with its
// cost. If nothing strictly cheaper than upperBound is found — including
// when ctx is cancelled before any leaf is reached — it returns
// incumbent unchanged and upperBound.
func Solve(ctx context.Context, cat *catalog.Catalog, incumbent *design.Design, relaxed []string, space *candidate.Space, model *costmodel.Model, upperBound float64) (*design.Design, float64) {
	order := orderByWorkloadShare(cat, relaxed)
	best, bestCost := solveNode(ctx, incumbent.Clone(), order, 0, space, model, upperBound)
	if best == nil {
		return incumbent, upperBound
	}
	return best, bestCost
}

// orderByWorkloadShare returns relaxed sorted by descending
// workload_share, tie-broken alphabetically so branching order is
// deterministic across runs.
func orderByWorkloadShare(cat *catalog.Catalog, relaxed []string) []string {
	order := append([]string(nil), relaxed...)
	sort.Slice(order, func(i, j int) bool {
		ci, erri := cat.Collection(order[i])
		cj, errj := cat.Collection(order[j])
		if erri != nil || errj != nil {
			return order[i] < order[j]
		}
		if ci.WorkloadShare != cj.WorkloadShare {
			return ci.WorkloadShare > cj.WorkloadShare
		}
		return order[i] < order[j]
	})
	return order
}

// solveNode recursively assigns order[idx:], pruning any branch whose
// partial cost already meets or exceeds bound.
func solveNode(ctx context.Context, current *design.Design, order []string, idx int, space *candidate.Space, model *costmodel.Model, bound float64) (*design.Design, float64) {
	if ctx.Err() != nil {
		return nil, bound
	}
	if idx == len(order) {
		cost := model.Overall(current)
		if cost < bound {
			return current.Clone(), cost
		}
		return nil, bound
	}

	col := order[idx]
	assignments := assignmentsFor(col, space)
	candidates := make([]*design.Design, len(assignments))
	costs := make([]float64, len(assignments))

	// Candidate evaluation within this node fans out across a bounded
	// worker pool: each candidate clone is independent, and the cost
	// function is pure, so results can be computed concurrently before
	// the sequential, bound-aware recursion below.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, a := range assignments {
		i, a := i, a
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			cand := current.Clone()
			if err := applyAssignment(cand, col, a); err != nil {
				costs[i] = -1 // invalid combination, never a candidate
				return nil
			}
			candidates[i] = cand
			costs[i] = model.Overall(cand)
			return nil
		})
	}
	_ = g.Wait() // errors are impossible: the goroutines above never return one

	var best *design.Design
	bestCost := bound
	for i := range assignments {
		if ctx.Err() != nil {
			break
		}
		if candidates[i] == nil || costs[i] < 0 {
			continue
		}
		if costs[i] >= bestCost {
			continue // pruned
		}
		result, resultCost := solveNode(ctx, candidates[i], order, idx+1, space, model, bestCost)
		if result != nil && resultCost < bestCost {
			best = result
			bestCost = resultCost
		}
	}
	return best, bestCost
}

func applyAssignment(d *design.Design, col string, a Assignment) error {
	if err := d.SetShardKey(col, a.ShardKey); err != nil {
		return err
	}
	if err := d.ClearIndexes(col); err != nil {
		return err
	}
	for _, idx := range a.Indexes {
		if err := d.AddIndex(col, idx); err != nil {
			return err
		}
	}
	return d.SetParent(col, a.Parent)
}

// assignmentsFor enumerates the bounded candidate product for col: every
// shard key crossed with every index-subset option crossed with every
// parent, in fixed enumeration order.
func assignmentsFor(col string, space *candidate.Space) []Assignment {
	shardKeys := space.ShardKeys(col)
	indexSets := indexSubsets(space.IndexKeys(col))
	parents := space.Parents(col)

	out := make([]Assignment, 0, len(shardKeys)*len(indexSets)*len(parents))
	for _, sk := range shardKeys {
		for _, idxSet := range indexSets {
			for _, p := range parents {
				out = append(out, Assignment{ShardKey: sk, Indexes: idxSet, Parent: p})
			}
		}
	}
	return out
}

// indexSubsets returns none, each single candidate index, and (when
// there is more than one) the full candidate set — a bounded
// approximation of the complete index powerset.
func indexSubsets(indexKeys [][]string) [][][]string {
	out := [][][]string{nil}
	for _, idx := range indexKeys {
		out = append(out, [][]string{idx})
	}
	if len(indexKeys) > 1 {
		out = append(out, append([][]string(nil), indexKeys...))
	}
	return out
}
