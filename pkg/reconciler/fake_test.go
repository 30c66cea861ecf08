package reconciler_test

import (
	"context"
	"net/http"

	"github.com/tiendapocket/nubesync/pkg/catalogs"
	"github.com/tiendapocket/nubesync/pkg/errors"
)

// fakeRemote is an in-memory remote store recording every call.
type fakeRemote struct {
	products map[int64]*catalogs.RemoteProduct
	order    []int64
	nextID   int64

	calls []string

	productsErr  error
	createErr    map[string]error
	variantErr   error
	deleteErr    map[int64]error
	variantMasks []catalogs.Fields

	onCreate func(n int)
	created  int
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		products:  make(map[int64]*catalogs.RemoteProduct),
		nextID:    1000,
		createErr: make(map[string]error),
		deleteErr: make(map[int64]error),
	}
}

func (f *fakeRemote) seed(p catalogs.Product) int64 {
	f.nextID++
	id := f.nextID
	rp := &catalogs.RemoteProduct{
		ID:               id,
		Name:             p.Name,
		Published:        p.Published,
		Attributes:       p.Attributes,
		VariantsResolved: true,
	}
	for _, v := range p.Variants {
		f.nextID++
		rp.Variants = append(rp.Variants, catalogs.RemoteVariant{ID: f.nextID, ProductID: id, Variant: v})
	}
	f.products[id] = rp
	f.order = append(f.order, id)
	return id
}

func (f *fakeRemote) mutations() []string {
	var out []string
	for _, c := range f.calls {
		switch c {
		case "Products", "Variants":
		default:
			out = append(out, c)
		}
	}
	return out
}

func notFound(op string) error {
	return &errors.APIError{Operation: op, StatusCode: http.StatusNotFound, Message: "Not Found"}
}

func (f *fakeRemote) Products(_ context.Context) ([]catalogs.RemoteProduct, error) {
	f.calls = append(f.calls, "Products")
	if f.productsErr != nil {
		return nil, f.productsErr
	}
	out := make([]catalogs.RemoteProduct, 0, len(f.order))
	for _, id := range f.order {
		if p, ok := f.products[id]; ok {
			cp := *p
			cp.Variants = append([]catalogs.RemoteVariant(nil), p.Variants...)
			out = append(out, cp)
		}
	}
	return out, nil
}

func (f *fakeRemote) Variants(_ context.Context, productID int64) ([]catalogs.RemoteVariant, error) {
	f.calls = append(f.calls, "Variants")
	p, ok := f.products[productID]
	if !ok {
		return nil, notFound("list variants")
	}
	return append([]catalogs.RemoteVariant(nil), p.Variants...), nil
}

func (f *fakeRemote) CreateProduct(_ context.Context, p catalogs.Product) (catalogs.RemoteProduct, error) {
	f.calls = append(f.calls, "CreateProduct")
	if err := f.createErr[catalogs.NormalizeSKU(p.SKU)]; err != nil {
		return catalogs.RemoteProduct{}, err
	}
	id := f.seed(p)
	f.created++
	if f.onCreate != nil {
		f.onCreate(f.created)
	}
	return *f.products[id], nil
}

func (f *fakeRemote) UpdateProduct(_ context.Context, id int64, p catalogs.Product) error {
	f.calls = append(f.calls, "UpdateProduct")
	rp, ok := f.products[id]
	if !ok {
		return notFound("update product")
	}
	rp.Name = p.Name
	rp.Published = p.Published
	rp.Attributes = p.Attributes
	return nil
}

func (f *fakeRemote) SetPublished(_ context.Context, id int64, published bool) error {
	f.calls = append(f.calls, "SetPublished")
	rp, ok := f.products[id]
	if !ok {
		return notFound("publish product")
	}
	rp.Published = published
	return nil
}

func (f *fakeRemote) DeleteProduct(_ context.Context, id int64) error {
	f.calls = append(f.calls, "DeleteProduct")
	if err := f.deleteErr[id]; err != nil {
		return err
	}
	if _, ok := f.products[id]; !ok {
		return notFound("delete product")
	}
	delete(f.products, id)
	return nil
}

func (f *fakeRemote) CreateVariant(_ context.Context, productID int64, v catalogs.Variant, _ catalogs.Fields) (catalogs.RemoteVariant, error) {
	f.calls = append(f.calls, "CreateVariant")
	if f.variantErr != nil {
		return catalogs.RemoteVariant{}, f.variantErr
	}
	rp, ok := f.products[productID]
	if !ok {
		return catalogs.RemoteVariant{}, notFound("create variant")
	}
	f.nextID++
	rv := catalogs.RemoteVariant{ID: f.nextID, ProductID: productID, Variant: v}
	rp.Variants = append(rp.Variants, rv)
	return rv, nil
}

func (f *fakeRemote) UpdateVariant(_ context.Context, productID, variantID int64, v catalogs.Variant, fields catalogs.Fields) error {
	f.calls = append(f.calls, "UpdateVariant")
	f.variantMasks = append(f.variantMasks, fields)
	rp, ok := f.products[productID]
	if !ok {
		return notFound("update variant")
	}
	for i := range rp.Variants {
		if rp.Variants[i].ID != variantID {
			continue
		}
		existing := &rp.Variants[i].Variant
		existing.SKU = v.SKU
		existing.Cost = v.Cost
		existing.Barcode = v.Barcode
		existing.Values = v.Values
		if fields.Price {
			existing.Price = v.Price
		}
		if fields.Stock {
			existing.Stock = v.Stock
		}
		return nil
	}
	return notFound("update variant")
}
