package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiendapocket/nubesync/internal/appcontext"
	"github.com/tiendapocket/nubesync/pkg/catalogs"
	"github.com/tiendapocket/nubesync/pkg/errors"
	"github.com/tiendapocket/nubesync/pkg/reconciler"
)

// catalogRemote serves a fixed catalog and fails every mutation.
type catalogRemote struct {
	reconciler.Remote
	products []catalogs.RemoteProduct
	err      error
}

func (r *catalogRemote) Products(context.Context) ([]catalogs.RemoteProduct, error) {
	return r.products, r.err
}

func remoteProduct(id int64, skus ...string) catalogs.RemoteProduct {
	p := catalogs.RemoteProduct{ID: id, Name: catalogs.NewLocalized("P"), VariantsResolved: true}
	for _, sku := range skus {
		p.Variants = append(p.Variants, catalogs.RemoteVariant{ProductID: id, Variant: catalogs.Variant{SKU: sku}})
	}
	return p
}

func TestFilter(t *testing.T) {
	products := []catalogs.RemoteProduct{
		remoteProduct(1, "A"),
		remoteProduct(2, "B", "b-2"),
		remoteProduct(3, "C"),
	}

	got := filter(products, &Flags{SKU: " B-2 "})
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ID)

	assert.Len(t, filter(products, &Flags{Limit: 2}), 2)
	assert.Empty(t, filter(products, &Flags{SKU: "Z"}))
}

func TestExecute(t *testing.T) {
	remote := &catalogRemote{products: []catalogs.RemoteProduct{remoteProduct(7, "A")}}
	app := &appcontext.Mock{RemoteFunc: func() (reconciler.Remote, error) { return remote, nil }}

	var out bytes.Buffer
	require.NoError(t, Execute(context.Background(), app, &out, &Flags{}))

	var printed []catalogs.RemoteProduct
	require.NoError(t, json.Unmarshal(out.Bytes(), &printed))
	require.Len(t, printed, 1)
	assert.Equal(t, int64(7), printed[0].ID)
}

func TestExecuteReadFailure(t *testing.T) {
	remote := &catalogRemote{err: errors.ErrProviderUnavailable}
	app := &appcontext.Mock{RemoteFunc: func() (reconciler.Remote, error) { return remote, nil }}

	err := Execute(context.Background(), app, &bytes.Buffer{}, &Flags{})
	assert.True(t, errors.IsProviderUnavailable(err))
}
