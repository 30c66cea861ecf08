// Package normalizer turns the row tables exported from the local database
// into the canonical product list consumed by the reconciler.
//
// Normalization is lenient: malformed numbers become 0 and dangling
// combination rows are dropped, each with a warning in the Report, so a
// single bad row never aborts a pass.
package normalizer

import (
	"context"

	"github.com/tiendapocket/nubesync/pkg/catalogs"
	"github.com/tiendapocket/nubesync/pkg/constants"
	"github.com/tiendapocket/nubesync/pkg/logging"
)

// Options controls how rows are mapped to products.
type Options struct {
	FirstAxis   string // attribute name of the first combination column
	SecondAxis  string // attribute name of the second combination column
	PublishFlag string // value of the publish column that keeps an article
}

// Defaults returns the default normalizer options.
func Defaults() *Options {
	return &Options{
		FirstAxis:   "Talle",
		SecondAxis:  "Color",
		PublishFlag: constants.PublishMarker,
	}
}

// Apply applies the given options.
func (o *Options) Apply(opts ...Option) *Options {
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Option configures normalizer Options.
type Option func(*Options)

// WithAxisNames overrides the attribute names of the two combination axes.
func WithAxisNames(first, second string) Option {
	return func(o *Options) {
		o.FirstAxis = first
		o.SecondAxis = second
	}
}

// WithPublishFlag overrides the value that marks an article for publication.
func WithPublishFlag(flag string) Option {
	return func(o *Options) {
		o.PublishFlag = flag
	}
}

// normalizer carries the indexed tables for one run.
type normalizer struct {
	opts   *Options
	report *Report

	combinations rowIndex
	simplePrices rowIndex
	combPrices   rowIndex
	simpleStock  rowIndex
	combStock    rowIndex
}

// Normalize maps the tables to products in article order. Tables absent
// from the input are treated as empty.
func Normalize(ctx context.Context, tables Tables, opts ...Option) ([]catalogs.Product, *Report) {
	logger := logging.FromContext(ctx)

	n := &normalizer{
		opts:         Defaults().Apply(opts...),
		report:       &Report{},
		combinations: indexBy(tables[TableARC], ColCombArticle),
		simplePrices: indexBy(tables[TableLTA], ColPriceArticle),
		combPrices:   indexBy(tables[TableLTC], ColCombPriceArticle),
		simpleStock:  indexBy(tables[TableSTO], ColStockArticle),
		combStock:    indexBy(tables[TableSTC], ColCombStockArticle),
	}

	products := make([]catalogs.Product, 0, len(tables[TableART]))
	for _, row := range tables[TableART] {
		n.report.Articles++
		if row.Get(ColArticlePublish) != n.opts.PublishFlag {
			n.report.Unpublished++
			continue
		}
		p := n.product(row)
		n.report.Products++
		n.report.Variants += len(p.Variants)
		products = append(products, p)
	}

	for _, w := range n.report.Warnings {
		logger.Warn().
			Str("table", string(w.Table)).
			Str("article", w.Article).
			Msg(w.Message)
	}
	logger.Info().
		Int("articles", n.report.Articles).
		Int("products", n.report.Products).
		Int("variants", n.report.Variants).
		Int("warnings", len(n.report.Warnings)).
		Msg("Normalized local catalog")

	return products, n.report
}

func (n *normalizer) product(row Row) catalogs.Product {
	code := row.Get(ColArticleCode)
	p := catalogs.Product{
		Name:             catalogs.NewLocalized(row.Get(ColArticleName)),
		SKU:              code,
		Published:        true,
		RequiresShipping: true,
		StockManagement:  true,
	}
	if code == "" {
		n.report.warn(TableART, code, "article without code")
	}

	base := catalogs.Variant{
		SKU:     code,
		Barcode: row.Get(ColArticleBarcode),
		Cost:    n.decimal(TableART, code, row.Get(ColArticleCost)),
	}

	if combos := n.combinations[code]; len(combos) > 0 {
		p.Variants, p.Attributes = n.variable(code, base, combos)
	}
	if len(p.Variants) == 0 {
		p.Variants = []catalogs.Variant{n.simple(code, base)}
		p.Attributes = nil
	}
	return p
}

// variable builds one variant per distinct combination. Combinations
// without any attribute value are dropped; repeated value sets keep the
// first occurrence.
func (n *normalizer) variable(code string, base catalogs.Variant, combos []Row) ([]catalogs.Variant, []string) {
	var variants []catalogs.Variant
	var hasFirst, hasSecond bool
	seen := make(map[string]struct{}, len(combos))

	for _, combo := range combos {
		first, second := combo.Get(ColCombFirst), combo.Get(ColCombSecond)
		if first == "" && second == "" {
			n.report.DroppedCombinations++
			n.report.warn(TableARC, code, "combination without attribute values dropped")
			continue
		}

		v := base
		v.Values = nil
		if first != "" {
			hasFirst = true
			v.Values = append(v.Values, catalogs.NewLocalized(first))
		}
		if second != "" {
			hasSecond = true
			v.Values = append(v.Values, catalogs.NewLocalized(second))
		}

		key := catalogs.ValuesKey(v.Values)
		if _, dup := seen[key]; dup {
			n.report.DuplicateCombinations++
			continue
		}
		seen[key] = struct{}{}

		if price, ok := n.lookup(n.combPrices[code], ColCombPriceFirst, ColCombPriceSecond, first, second, false); ok {
			v.Price = n.decimal(TableLTC, code, price.Get(ColCombPriceValue))
		}
		v.Stock = 0
		if stock, ok := n.lookup(n.combStock[code], ColCombStockFirst, ColCombStockSecond, first, second, true); ok {
			v.Stock = n.stock(TableSTC, code, stock.Get(ColCombStockValue))
		}
		variants = append(variants, v)
	}

	var attributes []string
	if hasFirst {
		attributes = append(attributes, n.opts.FirstAxis)
	}
	if hasSecond {
		attributes = append(attributes, n.opts.SecondAxis)
	}
	return variants, attributes
}

func (n *normalizer) simple(code string, base catalogs.Variant) catalogs.Variant {
	v := base
	if rows := n.simplePrices[code]; len(rows) > 0 {
		v.Price = n.decimal(TableLTA, code, rows[0].Get(ColPriceValue))
	}
	if rows := n.simpleStock[code]; len(rows) > 0 {
		v.Stock = n.stock(TableSTO, code, rows[0].Get(ColStockValue))
	}
	return v
}

// lookup returns the first row whose first-axis code equals first and whose
// second-axis code, when present, equals second.
func (n *normalizer) lookup(rows []Row, firstCol, secondCol, first, second string, requireFirst bool) (Row, bool) {
	for _, r := range rows {
		rowFirst := r.Get(firstCol)
		if requireFirst && rowFirst == "" {
			continue
		}
		if rowFirst != first {
			continue
		}
		if rowSecond := r.Get(secondCol); rowSecond != "" && rowSecond != second {
			continue
		}
		return r, true
	}
	return nil, false
}

// decimal parses a price or cost; empty is nil, malformed is 0.
func (n *normalizer) decimal(table Table, code, raw string) *float64 {
	if raw == "" {
		return nil
	}
	f, err := catalogs.ParseNumber(raw)
	if err != nil {
		n.report.MalformedNumbers++
		n.report.warn(table, code, "malformed number %q treated as 0", raw)
		return catalogs.Float(0)
	}
	return catalogs.Float(f)
}

// stock parses a quantity; empty or malformed is 0, negative is clamped.
func (n *normalizer) stock(table Table, code, raw string) int {
	if raw == "" {
		return 0
	}
	s, err := catalogs.ParseStock(raw)
	if err != nil {
		n.report.MalformedNumbers++
		n.report.warn(table, code, "malformed stock %q treated as 0", raw)
		return 0
	}
	return s
}
