package seed

import (
	"sort"
	"strings"

	"github.com/dreamware/shardadvisor/internal/candidate"
	"github.com/dreamware/shardadvisor/internal/catalog"
	"github.com/dreamware/shardadvisor/internal/design"
)

// Seed builds a valid starting design for every collection in cat:
//   - shard key: the single field with the highest query_use_count, tied
//     broken alphabetically (empty if the collection has no queryable
//     field at all).
//   - indexes: none.
//   - embedding parent: none.
//
// The result always satisfies every design invariant, since each choice
// is drawn directly from space's candidate lists.
func Seed(cat *catalog.Catalog, space *candidate.Space) *design.Design {
	d := design.New(cat, space)
	for _, col := range cat.Collections() {
		key := topField(col)
		if key == nil {
			continue
		}
		// SetShardKey only fails if the tuple isn't a candidate; a
		// single highest-use field always is, so the error is
		// structurally impossible here.
		_ = d.SetShardKey(col.Name, key)
	}
	return d
}

func topField(col catalog.Collection) []string {
	type candidateField struct {
		name string
		use  int
	}
	var fields []candidateField
	for name, fs := range col.Fields {
		if fs.QueryUseCount <= 0 {
			continue
		}
		if strings.HasPrefix(name, string(candidate.ReservedFieldMarker)) {
			continue
		}
		fields = append(fields, candidateField{name: name, use: fs.QueryUseCount})
	}
	if len(fields) == 0 {
		return nil
	}
	sort.Slice(fields, func(i, j int) bool {
		if fields[i].use != fields[j].use {
			return fields[i].use > fields[j].use
		}
		return fields[i].name < fields[j].name
	})
	return []string{fields[0].name}
}
