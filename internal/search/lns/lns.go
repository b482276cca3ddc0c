package lns

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/dreamware/shardadvisor/internal/candidate"
	"github.com/dreamware/shardadvisor/internal/catalog"
	"github.com/dreamware/shardadvisor/internal/costmodel"
	"github.com/dreamware/shardadvisor/internal/design"
	"github.com/dreamware/shardadvisor/internal/search/bb"
)

// plateauThreshold is how many consecutive non-improving rounds are
// tolerated before the relaxation size grows.
const plateauThreshold = 3

// Optimizer runs the outer LNS loop over a fixed catalog and candidate
// space. It owns the incumbent design for the duration of a Solve call;
// Solve is synchronous and not safe to call concurrently on the same
// Optimizer.
type Optimizer struct {
	cat   *catalog.Catalog
	space *candidate.Space
	model *costmodel.Model
	log   *zap.Logger
	rng   *rand.Rand
}

// New builds an Optimizer. A nil logger disables per-round logging. seed
// initializes the relaxation sampler's RNG; LNS's own sampling need not
// be reproducible the way the cost model's internal PRNG must be, so
// callers may pass a time-derived seed in production and a fixed one in
// tests.
func New(cat *catalog.Catalog, space *candidate.Space, model *costmodel.Model, log *zap.Logger, seed int64) *Optimizer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Optimizer{cat: cat, space: space, model: model, log: log, rng: rand.New(rand.NewSource(seed))}
}

// Solve runs the main LNS loop from seed until deadline, returning the
// best design found and its cost. It never returns a design costing more
// than seed's cost. Cancelling ctx stops the loop early and returns the
// current incumbent.
func (o *Optimizer) Solve(ctx context.Context, seed *design.Design, deadline time.Time) (*design.Design, float64) {
	incumbent := seed.Clone()
	bestCost := o.model.Overall(incumbent)

	collections := o.cat.CollectionNames()
	relaxSize := 1
	if len(collections) == 0 {
		return incumbent, bestCost
	}
	plateau := 0

	for {
		if ctx.Err() != nil || !time.Now().Before(deadline) {
			return incumbent, bestCost
		}

		sampled := o.sampleBiased(collections, relaxSize)

		roundCtx, cancel := context.WithDeadline(ctx, deadline)
		result, cost := bb.Solve(roundCtx, o.cat, incumbent, sampled, o.space, o.model, bestCost)
		cancel()

		if cost < bestCost {
			incumbent = result
			bestCost = cost
			plateau = 0
			o.log.Info("lns: accepted incumbent improvement",
				zap.Float64("cost", cost),
				zap.Int("relax_size", relaxSize),
			)
			continue
		}

		plateau++
		if plateau > plateauThreshold {
			if relaxSize < len(collections) {
				relaxSize++
			}
			plateau = 0
			o.rng = rand.New(rand.NewSource(o.rng.Int63()))
		}
	}
}

// sampleBiased draws up to n collections from pool without replacement,
// biased toward the incumbent's highest workload-share collections: the
// per-collection network-cost contribution the original source biases
// toward isn't decomposed anywhere in the cost model's public surface,
// so workload share is used as a practical proxy for "contributes most
// to overall cost".
func (o *Optimizer) sampleBiased(pool []string, n int) []string {
	if n >= len(pool) {
		out := append([]string(nil), pool...)
		return out
	}

	type weighted struct {
		name   string
		weight float64
	}
	candidates := make([]weighted, 0, len(pool))
	for _, name := range pool {
		col, err := o.cat.Collection(name)
		w := 0.0001 // every collection keeps a nonzero chance of selection
		if err == nil {
			w += col.WorkloadShare
		}
		candidates = append(candidates, weighted{name: name, weight: w})
	}

	out := make([]string, 0, n)
	for len(out) < n && len(candidates) > 0 {
		total := 0.0
		for _, c := range candidates {
			total += c.weight
		}
		pick := o.rng.Float64() * total
		idx := 0
		cum := 0.0
		for i, c := range candidates {
			cum += c.weight
			if pick <= cum {
				idx = i
				break
			}
		}
		out = append(out, candidates[idx].name)
		candidates = append(candidates[:idx], candidates[idx+1:]...)
	}
	return out
}
