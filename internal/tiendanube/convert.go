package tiendanube

import (
	"math"

	"github.com/tiendapocket/nubesync/pkg/catalogs"
)

func attributesToWire(names []string) []catalogs.Localized {
	if len(names) == 0 {
		return nil
	}
	out := make([]catalogs.Localized, 0, len(names))
	for _, name := range names {
		out = append(out, catalogs.NewLocalized(name))
	}
	return out
}

func attributesFromWire(attrs []catalogs.Localized) []string {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]string, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, a.Es())
	}
	return out
}

func toProductUpdate(p catalogs.Product) productUpdateRequest {
	return productUpdateRequest{
		Name:             p.Name,
		Published:        p.Published,
		RequiresShipping: p.RequiresShipping,
		StockManagement:  p.StockManagement,
		Attributes:       attributesToWire(p.Attributes),
	}
}

// toProductRequest maps a new product. Every field is sent.
func toProductRequest(p catalogs.Product) productRequest {
	req := productRequest{
		productUpdateRequest: toProductUpdate(p),
		Variants:             make([]variantRequest, 0, len(p.Variants)),
	}
	for _, v := range p.Variants {
		req.Variants = append(req.Variants, toVariantRequest(v, catalogs.AllFields))
	}
	return req
}

// toVariantRequest maps a variant, leaving out fields that are not managed.
func toVariantRequest(v catalogs.Variant, fields catalogs.Fields) variantRequest {
	req := variantRequest{
		SKU:     v.SKU,
		Cost:    v.Cost,
		Barcode: v.Barcode,
		Values:  v.Values,
	}
	if fields.Price {
		req.Price = v.Price
	}
	if fields.Stock {
		stock := catalogs.ClampStock(v.Stock)
		req.Stock = &stock
	}
	return req
}

func fromVariantResponse(r variantResponse) catalogs.RemoteVariant {
	stock := 0
	if r.Stock.Value != nil {
		stock = catalogs.ClampStock(int(math.Trunc(*r.Stock.Value)))
	}
	return catalogs.RemoteVariant{
		ID:        r.ID,
		ProductID: r.ProductID,
		Variant: catalogs.Variant{
			SKU:     string(r.SKU),
			Price:   r.Price.Value,
			Cost:    r.Cost.Value,
			Stock:   stock,
			Barcode: string(r.Barcode),
			Values:  r.Values,
		},
	}
}

func fromVariantResponses(rs []variantResponse) []catalogs.RemoteVariant {
	out := make([]catalogs.RemoteVariant, 0, len(rs))
	for _, r := range rs {
		out = append(out, fromVariantResponse(r))
	}
	return out
}

// fromProductResponse maps a listed product. Its variants are resolved
// separately.
func fromProductResponse(r productResponse) catalogs.RemoteProduct {
	return catalogs.RemoteProduct{
		ID:         r.ID,
		Name:       r.Name,
		Published:  r.Published,
		Attributes: attributesFromWire(r.Attributes),
	}
}
