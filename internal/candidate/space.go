package candidate

import (
	"sort"
	"strings"

	"github.com/dreamware/shardadvisor/internal/catalog"
)

// ReservedFieldMarker is the character that can never begin a valid field
// name in a shard key or index key: such names are escape-encoded internal
// fields from the source catalog layer.
const ReservedFieldMarker = '$'

// NoParent is the sentinel embedding-parent value meaning "this collection
// is a root, not embedded under anything".
const NoParent = ""

// DefaultMaxArity bounds how many fields a generated shard key or index key
// tuple may combine.
const DefaultMaxArity = 2

// Space is the enumerated candidate space for a set of collections: for
// each collection, the admissible shard keys, index keys, and embedding
// parents a Design may choose from.
type Space struct {
	maxArity  int
	shardKeys map[string][][]string
	indexKeys map[string][][]string
	parents   map[string][]string
}

// NewSpace enumerates the candidate space for every collection in cat,
// using DefaultMaxArity as the bound on compound key arity.
func NewSpace(cat *catalog.Catalog) *Space {
	return NewSpaceWithArity(cat, DefaultMaxArity)
}

// NewSpaceWithArity is NewSpace with an explicit arity bound.
func NewSpaceWithArity(cat *catalog.Catalog, maxArity int) *Space {
	s := &Space{
		maxArity:  maxArity,
		shardKeys: make(map[string][][]string),
		indexKeys: make(map[string][][]string),
		parents:   make(map[string][]string),
	}
	adjacency := coOccurrenceCounts(cat)
	for _, col := range cat.Collections() {
		fields := queryableFields(col)
		tuples := enumerateTuples(fields, maxArity)

		shardKeyTuples := make([][]string, 0, len(tuples)+1)
		shardKeyTuples = append(shardKeyTuples, []string{}) // unsharded is always a candidate
		shardKeyTuples = append(shardKeyTuples, tuples...)
		s.shardKeys[col.Name] = shardKeyTuples

		s.indexKeys[col.Name] = tuples

		s.parents[col.Name] = parentCandidates(col.Name, adjacency)
	}
	return s
}

// ShardKeys returns the admissible shard-key tuples for a collection.
func (s *Space) ShardKeys(collection string) [][]string {
	return s.shardKeys[collection]
}

// IndexKeys returns the admissible index-key tuples for a collection.
func (s *Space) IndexKeys(collection string) [][]string {
	return s.indexKeys[collection]
}

// Parents returns the admissible embedding parents for a collection,
// always including NoParent.
func (s *Space) Parents(collection string) []string {
	return s.parents[collection]
}

// Collections returns the set of collections this space was built over.
func (s *Space) Collections() []string {
	out := make([]string, 0, len(s.shardKeys))
	for name := range s.shardKeys {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Restrict returns the product space over just the named collections,
// preserving the same per-collection candidate lists. This is the
// get_candidates operation the BB solver uses to scope its search to a
// relaxed subset.
func (s *Space) Restrict(collections []string) *Space {
	r := &Space{
		maxArity:  s.maxArity,
		shardKeys: make(map[string][][]string, len(collections)),
		indexKeys: make(map[string][][]string, len(collections)),
		parents:   make(map[string][]string, len(collections)),
	}
	for _, c := range collections {
		r.shardKeys[c] = s.shardKeys[c]
		r.indexKeys[c] = s.indexKeys[c]
		r.parents[c] = s.parents[c]
	}
	return r
}

func queryableFields(col catalog.Collection) []string {
	names := make([]string, 0, len(col.Fields))
	for name, fs := range col.Fields {
		if strings.HasPrefix(name, string(ReservedFieldMarker)) {
			continue
		}
		if fs.QueryUseCount <= 0 {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// enumerateTuples generates every combination (not permutation) of the
// given sorted field names up to length maxArity, each tuple itself kept
// in sorted field order, and the overall list ordered by (arity, then
// lexicographically) for deterministic enumeration order.
func enumerateTuples(fields []string, maxArity int) [][]string {
	var out [][]string
	var combos func(start int, cur []string, depth int)
	combos = func(start int, cur []string, depth int) {
		if depth > 0 {
			tuple := make([]string, len(cur))
			copy(tuple, cur)
			out = append(out, tuple)
		}
		if depth == maxArity {
			return
		}
		for i := start; i < len(fields); i++ {
			next := make([]string, len(cur), len(cur)+1)
			copy(next, cur)
			next = append(next, fields[i])
			combos(i+1, next, depth+1)
		}
	}
	combos(0, nil, 0)
	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) < len(out[j])
		}
		return strings.Join(out[i], ",") < strings.Join(out[j], ",")
	})
	return out
}

// coOccurrenceCounts scans the workload for consecutive-in-session query
// pairs targeting different collections, used to infer embedding-parent
// candidates from equi-join-like adjacency patterns.
func coOccurrenceCounts(cat *catalog.Catalog) map[string]map[string]int {
	counts := make(map[string]map[string]int)
	for _, s := range cat.Workload().Sessions {
		for i := 1; i < len(s.Queries); i++ {
			prev, cur := s.Queries[i-1], s.Queries[i]
			if prev.Collection == cur.Collection {
				continue
			}
			if counts[cur.Collection] == nil {
				counts[cur.Collection] = make(map[string]int)
			}
			counts[cur.Collection][prev.Collection]++
		}
	}
	return counts
}

func parentCandidates(collection string, adjacency map[string]map[string]int) []string {
	type pair struct {
		parent string
		count  int
	}
	var pairs []pair
	for parent, count := range adjacency[collection] {
		pairs = append(pairs, pair{parent, count})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].count != pairs[j].count {
			return pairs[i].count > pairs[j].count
		}
		return pairs[i].parent < pairs[j].parent
	})
	out := make([]string, 0, len(pairs)+1)
	out = append(out, NoParent)
	for _, p := range pairs {
		out = append(out, p.parent)
	}
	return out
}
