package design

import (
	"strings"
	"testing"

	"github.com/dreamware/shardadvisor/internal/candidate"
	"github.com/dreamware/shardadvisor/internal/catalog"
)

func testFixture() (*catalog.Catalog, *candidate.Space) {
	cat := catalog.New([]catalog.Collection{
		{
			Name: "Orders",
			Fields: map[string]catalog.FieldStats{
				"id":       {QueryUseCount: 5, Support: catalog.SupportEquality},
				"customer": {QueryUseCount: 4, Support: catalog.SupportEquality},
			},
		},
		{
			Name: "OrderLines",
			Fields: map[string]catalog.FieldStats{
				"oid": {QueryUseCount: 5, Support: catalog.SupportEquality},
				"sku": {QueryUseCount: 2, Support: catalog.SupportEquality},
			},
		},
	}, catalog.Workload{Sessions: []catalog.Session{
		{Queries: []catalog.Query{
			{Collection: "Orders", Type: catalog.OpSelect},
			{Collection: "OrderLines", Type: catalog.OpSelect},
		}},
		{Queries: []catalog.Query{
			{Collection: "OrderLines", Type: catalog.OpSelect},
			{Collection: "Orders", Type: catalog.OpSelect},
		}},
	}})
	return cat, candidate.NewSpace(cat)
}

func TestNewScopesDefaultsToRootUnsharded(t *testing.T) {
	cat, sp := testFixture()
	d := New(cat, sp)
	for _, c := range []string{"Orders", "OrderLines"} {
		if !d.HasCollection(c) {
			t.Fatalf("expected %q in design scope", c)
		}
		if len(d.ShardKey(c)) != 0 {
			t.Fatalf("expected %q to default to unsharded, got %v", c, d.ShardKey(c))
		}
		if d.ParentCollection(c) != candidate.NoParent {
			t.Fatalf("expected %q to default to no parent, got %q", c, d.ParentCollection(c))
		}
	}
}

func TestSetShardKeyValidAndInvalid(t *testing.T) {
	cat, sp := testFixture()
	d := New(cat, sp)

	if err := d.SetShardKey("Orders", []string{"id"}); err != nil {
		t.Fatalf("expected valid shard key to be accepted, got %v", err)
	}
	if !d.InShardKey("Orders", "id") {
		t.Fatalf("expected id to be in Orders shard key")
	}

	if err := d.SetShardKey("Orders", []string{"nonexistent"}); err == nil {
		t.Fatalf("expected error for unknown field shard key")
	}
	if err := d.SetShardKey("Nope", []string{"id"}); err == nil {
		t.Fatalf("expected error for out-of-scope collection")
	}
}

func TestAddIndexDedupesAndValidates(t *testing.T) {
	cat, sp := testFixture()
	d := New(cat, sp)

	if err := d.AddIndex("OrderLines", []string{"sku"}); err != nil {
		t.Fatalf("expected valid index to be accepted, got %v", err)
	}
	if err := d.AddIndex("OrderLines", []string{"sku"}); err != nil {
		t.Fatalf("expected duplicate index add to be a no-op, got %v", err)
	}
	if got := len(d.Indexes("OrderLines")); got != 1 {
		t.Fatalf("expected exactly one index after duplicate add, got %d", got)
	}
	if !d.HasIndex("OrderLines", []string{"sku"}) {
		t.Fatalf("expected HasIndex to find the added index")
	}

	if err := d.AddIndex("OrderLines", []string{"$reserved"}); err == nil {
		t.Fatalf("expected reserved-field index to be rejected")
	}
}

func TestClearIndexesRemovesAllButKeepsShardKeyAndParent(t *testing.T) {
	cat, sp := testFixture()
	d := New(cat, sp)
	if err := d.AddIndex("OrderLines", []string{"sku"}); err != nil {
		t.Fatal(err)
	}
	if err := d.SetShardKey("OrderLines", []string{"oid"}); err != nil {
		t.Fatal(err)
	}
	if err := d.ClearIndexes("OrderLines"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := len(d.Indexes("OrderLines")); got != 0 {
		t.Fatalf("expected no indexes after clear, got %d", got)
	}
	if got := d.ShardKey("OrderLines"); len(got) != 1 || got[0] != "oid" {
		t.Fatalf("expected shard key to survive ClearIndexes, got %v", got)
	}
}

func TestSetParentValidAndCycle(t *testing.T) {
	cat, sp := testFixture()
	d := New(cat, sp)

	if err := d.SetParent("OrderLines", "Orders"); err != nil {
		t.Fatalf("expected Orders to be a valid parent candidate for OrderLines, got %v", err)
	}
	if d.ParentCollection("OrderLines") != "Orders" {
		t.Fatalf("expected OrderLines parent to be Orders, got %q", d.ParentCollection("OrderLines"))
	}

	// Orders -> OrderLines would close a cycle since OrderLines already
	// points at Orders.
	if err := d.SetParent("Orders", "OrderLines"); err == nil {
		t.Fatalf("expected cycle to be rejected")
	}
}

func TestSetParentRejectsUnknownCollection(t *testing.T) {
	cat, sp := testFixture()
	d := New(cat, sp)
	if err := d.SetParent("OrderLines", "Nonexistent"); err == nil {
		t.Fatalf("expected unknown parent collection to be rejected")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	cat, sp := testFixture()
	d := New(cat, sp)
	if err := d.SetShardKey("Orders", []string{"id"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	clone := d.Clone()
	if err := clone.SetShardKey("Orders", []string{"customer"}); err != nil {
		t.Fatalf("unexpected error mutating clone: %v", err)
	}

	if got := d.ShardKey("Orders"); len(got) != 1 || got[0] != "id" {
		t.Fatalf("expected original shard key unaffected by clone mutation, got %v", got)
	}
	if got := clone.ShardKey("Orders"); len(got) != 1 || got[0] != "customer" {
		t.Fatalf("expected clone shard key to differ, got %v", got)
	}
}

func TestStringIsStableAcrossEquivalentMutationOrder(t *testing.T) {
	cat, sp := testFixture()

	a := New(cat, sp)
	if err := a.AddIndex("OrderLines", []string{"sku"}); err != nil {
		t.Fatal(err)
	}
	if err := a.SetShardKey("Orders", []string{"id"}); err != nil {
		t.Fatal(err)
	}

	b := New(cat, sp)
	if err := b.SetShardKey("Orders", []string{"id"}); err != nil {
		t.Fatal(err)
	}
	if err := b.AddIndex("OrderLines", []string{"sku"}); err != nil {
		t.Fatal(err)
	}

	if a.String() != b.String() {
		t.Fatalf("expected rendering independent of mutation order:\na=%q\nb=%q", a.String(), b.String())
	}
	if !strings.Contains(a.String(), "shard_key=(id)") {
		t.Fatalf("expected rendering to include shard key, got %q", a.String())
	}
}

func TestNewScopedLimitsCollections(t *testing.T) {
	cat, sp := testFixture()
	d := NewScoped(cat, sp, []string{"Orders"})
	if d.HasCollection("OrderLines") {
		t.Fatalf("expected OrderLines to be out of scope")
	}
	if got, want := d.Collections(), []string{"Orders"}; len(got) != 1 || got[0] != want[0] {
		t.Fatalf("expected scoped collections %v, got %v", want, got)
	}
}
