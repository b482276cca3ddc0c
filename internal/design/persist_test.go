package design

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveLoadRoundTrips(t *testing.T) {
	cat, sp := testFixture()
	d := New(cat, sp)
	if err := d.SetShardKey("Orders", []string{"id"}); err != nil {
		t.Fatalf("SetShardKey: %v", err)
	}
	if err := d.AddIndex("OrderLines", []string{"sku"}); err != nil {
		t.Fatalf("AddIndex: %v", err)
	}
	if err := d.SetParent("OrderLines", "Orders"); err != nil {
		t.Fatalf("SetParent: %v", err)
	}

	path := filepath.Join(t.TempDir(), "design.json")
	if err := d.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(cat, sp, path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.String() != d.String() {
		t.Fatalf("round trip mismatch:\nwant:\n%s\ngot:\n%s", d.String(), loaded.String())
	}
}

func TestLoadRejectsInvalidDecision(t *testing.T) {
	cat, sp := testFixture()
	path := filepath.Join(t.TempDir(), "design.json")
	content := `{"Orders": {"shard_key": ["$reserved"], "indexes": null, "parent": ""}}`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(cat, sp, path); err == nil {
		t.Fatal("expected reserved-field shard key to be rejected on load")
	}
}
