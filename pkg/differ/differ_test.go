package differ

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiendapocket/nubesync/pkg/catalogs"
	"github.com/tiendapocket/nubesync/pkg/errors"
	"github.com/tiendapocket/nubesync/pkg/logging"
)

func variant(sku string, price float64, stock int, values ...string) catalogs.Variant {
	v := catalogs.Variant{SKU: sku, Price: catalogs.Float(price), Stock: stock}
	for _, value := range values {
		v.Values = append(v.Values, catalogs.NewLocalized(value))
	}
	return v
}

func product(name, sku string, variants ...catalogs.Variant) catalogs.Product {
	return catalogs.Product{
		Name:             catalogs.NewLocalized(name),
		SKU:              sku,
		Published:        true,
		RequiresShipping: true,
		StockManagement:  true,
		Variants:         variants,
	}
}

func remoteOf(id int64, p catalogs.Product) catalogs.RemoteProduct {
	r := catalogs.RemoteProduct{
		ID:               id,
		Name:             p.Name,
		Published:        p.Published,
		Attributes:       p.Attributes,
		VariantsResolved: true,
	}
	for i, v := range p.Variants {
		r.Variants = append(r.Variants, catalogs.RemoteVariant{ID: id*100 + int64(i), ProductID: id, Variant: v})
	}
	return r
}

func TestProductsEqualIgnoresVariantOrder(t *testing.T) {
	local := product("Remera", "X1",
		variant("X1", 1500, 3, "S"),
		variant("X1", 1500, 5, "M"),
	)
	remote := remoteOf(7, product("Remera", "X1",
		variant("X1", 1500, 5, "M"),
		variant("X1", 1500, 3, "S"),
	))

	assert.True(t, ProductsEqual(remote, local))
}

func TestProductsEqual(t *testing.T) {
	base := product("Remera  Azul", "X1", variant("X1", 10, 1, "S"))

	tests := []struct {
		name   string
		mutate func(r *catalogs.RemoteProduct)
		equal  bool
	}{
		{name: "identical", mutate: func(*catalogs.RemoteProduct) {}, equal: true},
		{name: "name case and spacing", mutate: func(r *catalogs.RemoteProduct) {
			r.Name = catalogs.NewLocalized(" remera azul ")
		}, equal: true},
		{name: "name differs", mutate: func(r *catalogs.RemoteProduct) {
			r.Name = catalogs.NewLocalized("Remera Roja")
		}},
		{name: "published differs", mutate: func(r *catalogs.RemoteProduct) { r.Published = false }},
		{name: "variant count differs", mutate: func(r *catalogs.RemoteProduct) {
			r.Variants = append(r.Variants, catalogs.RemoteVariant{ID: 2, Variant: variant("X1", 10, 1, "M")})
		}},
		{name: "price differs", mutate: func(r *catalogs.RemoteProduct) { r.Variants[0].Price = catalogs.Float(11) }},
		{name: "sku case ignored", mutate: func(r *catalogs.RemoteProduct) { r.Variants[0].SKU = " x1 " }, equal: true},
		{name: "values ignored", mutate: func(r *catalogs.RemoteProduct) {
			r.Variants[0].Values = []catalogs.Localized{catalogs.NewLocalized("XL")}
		}, equal: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			remote := remoteOf(1, base)
			remote.Variants = append([]catalogs.RemoteVariant(nil), remote.Variants...)
			tc.mutate(&remote)
			assert.Equal(t, tc.equal, ProductsEqual(remote, base))
		})
	}
}

func TestVariantsEqualMissingNumbersAreZero(t *testing.T) {
	remote := catalogs.Variant{SKU: "A", Price: nil, Cost: catalogs.Float(0), Stock: 0}
	local := catalogs.Variant{SKU: "a", Price: catalogs.Float(0), Cost: nil, Stock: 0}
	assert.True(t, VariantsEqual(remote, local))

	local.Stock = 1
	changes := New().Variant(remote, local)
	require.Len(t, changes, 1)
	assert.Equal(t, FieldStock, changes[0].Path)
	assert.Equal(t, "stock: 0 -> 1", changes[0].String())
}

func TestManagedFieldsIgnoreUnmanaged(t *testing.T) {
	remote := variant("A", 10, 1)
	local := variant("A", 12, 4)

	assert.Len(t, New().Variant(remote, local), 2)
	assert.Empty(t, New(WithManagedFields(catalogs.Fields{})).Variant(remote, local))
	assert.Len(t, New(WithManagedFields(catalogs.Fields{Stock: true})).Variant(remote, local), 1)
}

func TestProductsClassification(t *testing.T) {
	same := product("Mate", "M1", variant("M1", 100, 2))
	changed := product("Bombilla", "B1", variant("B1", 50, 9))
	fresh := product("Yerba", "Y9", variant("Y9", 30, 1))
	noSKU := product("Sin codigo", "", variant("", 1, 1))

	remote := []catalogs.RemoteProduct{
		remoteOf(1, same),
		remoteOf(2, product("Bombilla", "b1", variant("b1", 45, 9))),
		remoteOf(3, product("Termo", "T1", variant("T1", 900, 1))),
	}

	logger := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), logger.Logger)

	cs := New().Products(ctx, []catalogs.Product{same, changed, fresh, noSKU}, remote)

	require.Len(t, cs.Decisions, 4)
	assert.Equal(t, ActionVerify, cs.Decisions[0].Action)
	assert.Equal(t, int64(1), cs.Decisions[0].Remote.ID)
	assert.Equal(t, ActionUpdate, cs.Decisions[1].Action)
	assert.NotEmpty(t, cs.Decisions[1].Changes)
	assert.Equal(t, ActionCreate, cs.Decisions[2].Action)
	assert.Nil(t, cs.Decisions[2].Remote)
	assert.Equal(t, ActionSkip, cs.Decisions[3].Action)
	assert.ErrorIs(t, cs.Decisions[3].Err, errors.ErrInvalidInput)

	require.Len(t, cs.Orphaned, 1)
	assert.Equal(t, int64(3), cs.Orphaned[0].ID)

	assert.Equal(t, ChangesetSummary{Create: 1, Verify: 1, Update: 1, Skip: 1, Orphaned: 1, TotalChanges: 3}, cs.Summary)
	assert.Equal(t, "Products: 1 to create, 1 to update, 1 unchanged, 1 skipped; Orphaned: 1", cs.String())
	assert.Len(t, cs.Create(), 1)
	assert.Len(t, cs.Update(), 1)
	assert.Len(t, cs.Verify(), 1)
	assert.Len(t, cs.Skipped(), 1)

	logger.AssertContains(t, "Matched catalogs")
}

func TestOrphansNeedEveryVariantMissing(t *testing.T) {
	local := []catalogs.Product{product("Campera", "C1", variant("C1", 1, 1))}

	mixed := catalogs.RemoteProduct{
		ID:               5,
		VariantsResolved: true,
		Variants: []catalogs.RemoteVariant{
			{ID: 1, Variant: variant("GONE", 1, 1)},
			{ID: 2, Variant: variant("c1", 1, 1)},
		},
	}
	unresolved := catalogs.RemoteProduct{ID: 6, Variants: []catalogs.RemoteVariant{}}
	skuless := catalogs.RemoteProduct{ID: 7, VariantsResolved: true, Variants: []catalogs.RemoteVariant{{ID: 3, Variant: variant("", 1, 1)}}}
	gone := remoteOf(8, product("Viejo", "OLD", variant("OLD", 1, 1)))

	cs := New().Products(context.Background(), local, []catalogs.RemoteProduct{mixed, unresolved, skuless, gone})

	require.Len(t, cs.Orphaned, 1)
	assert.Equal(t, int64(8), cs.Orphaned[0].ID)
	assert.Equal(t, ActionUpdate, cs.Decisions[0].Action, "matched through the second variant, counts differ")
}

func TestSKUCollisionKeepsFirst(t *testing.T) {
	first := product("Primero", "dup", variant("dup", 1, 1))
	second := product("Segundo", " DUP ", variant("DUP", 2, 2))

	cs := New().Products(context.Background(), []catalogs.Product{first, second}, nil)

	require.Len(t, cs.Collisions, 1)
	assert.Equal(t, "DUP", cs.Collisions[0].SKU)
	assert.Equal(t, "Primero", cs.Collisions[0].Kept)
	assert.Equal(t, "Segundo", cs.Collisions[0].Rejected)

	assert.Equal(t, ActionCreate, cs.Decisions[0].Action)
	assert.Equal(t, ActionSkip, cs.Decisions[1].Action)
	assert.ErrorIs(t, cs.Decisions[1].Err, errors.ErrSKUCollision)
}

func TestIndexRemoteFirstWins(t *testing.T) {
	a := remoteOf(1, product("A", "S1", variant("S1", 1, 1)))
	b := remoteOf(2, product("B", "s1", variant("s1", 1, 1)))

	logger := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), logger.Logger)

	index := IndexRemote(ctx, []catalogs.RemoteProduct{a, b})
	require.Contains(t, index, "S1")
	assert.Equal(t, int64(1), index["S1"].ID)
	logger.AssertContains(t, "SKU shared by several remote products")
}

func TestEmptyChangesetString(t *testing.T) {
	cs := New().Products(context.Background(), nil, nil)
	assert.True(t, cs.IsEmpty())
	assert.False(t, cs.HasChanges())
	assert.Equal(t, "No changes detected", cs.String())
}
