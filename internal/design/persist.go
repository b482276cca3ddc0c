package design

import (
	"encoding/json"
	"os"

	"github.com/dreamware/shardadvisor/internal/candidate"
	"github.com/dreamware/shardadvisor/internal/catalog"
)

// record is the on-disk JSON shape for one collection's decisions, mirroring
// internal/ingest's fixture structs: a plain, hand-editable projection of
// the unexported entry type.
type record struct {
	ShardKey []string   `json:"shard_key"`
	Indexes  [][]string `json:"indexes"`
	Parent   string     `json:"parent,omitempty"`
}

// Save writes d's current decisions to path as JSON, one record per
// collection, keyed by collection name.
func (d *Design) Save(path string) error {
	d.mu.RLock()
	out := make(map[string]record, len(d.entries))
	for name, e := range d.entries {
		out[name] = record{
			ShardKey: append([]string(nil), e.shardKey...),
			Indexes:  e.indexes,
			Parent:   e.parent,
		}
	}
	d.mu.RUnlock()

	raw, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}

// Load reads a Design previously written by Save, validating every
// decision against cat and space exactly as the mutation methods would.
func Load(cat *catalog.Catalog, space *candidate.Space, path string) (*Design, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var in map[string]record
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, err
	}

	collections := make([]string, 0, len(in))
	for name := range in {
		collections = append(collections, name)
	}
	d := NewScoped(cat, space, collections)

	for name, rec := range in {
		if len(rec.ShardKey) > 0 {
			if err := d.SetShardKey(name, rec.ShardKey); err != nil {
				return nil, err
			}
		}
		for _, idx := range rec.Indexes {
			if err := d.AddIndex(name, idx); err != nil {
				return nil, err
			}
		}
		if rec.Parent != "" {
			if err := d.SetParent(name, rec.Parent); err != nil {
				return nil, err
			}
		}
	}
	return d, nil
}
