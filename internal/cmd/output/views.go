package output

import (
	"strconv"
	"strings"
	"time"

	"github.com/tiendapocket/nubesync/pkg/catalogs"
	"github.com/tiendapocket/nubesync/pkg/differ"
	"github.com/tiendapocket/nubesync/pkg/normalizer"
	"github.com/tiendapocket/nubesync/pkg/reconciler"
)

const none = "-"

// Products renders normalized local products.
type Products []catalogs.Product

// Table implements Tabular.
func (p Products) Table(wide bool) Data {
	headers := []string{"SKU", "Name", "Published", "Variants", "Stock", "Price"}
	align := []Align{AlignLeft, AlignLeft, AlignCenter, AlignRight, AlignRight, AlignRight}
	if wide {
		headers = append(headers, "Attributes", "Cost", "Barcode")
		align = append(align, AlignLeft, AlignRight, AlignLeft)
	}

	rows := make([][]string, 0, len(p))
	for _, product := range p {
		var first catalogs.Variant
		if len(product.Variants) > 0 {
			first = product.Variants[0]
		}
		row := []string{
			product.SKU,
			product.Name.Es(),
			yesNo(product.Published),
			strconv.Itoa(len(product.Variants)),
			strconv.Itoa(totalStock(product.Variants)),
			price(first.Price),
		}
		if wide {
			row = append(row, join(product.Attributes), price(first.Cost), orNone(first.Barcode))
		}
		rows = append(rows, row)
	}
	return Data{Headers: headers, Rows: rows, ColumnAlignment: align}
}

// Export is the result of normalizing the local tables.
type Export struct {
	Products Products           `json:"products" yaml:"products"`
	Report   *normalizer.Report `json:"report" yaml:"report"`
}

// Table implements Tabular. The report warnings are appended in wide mode.
func (e Export) Table(wide bool) Data {
	data := e.Products.Table(wide)
	if !wide || e.Report == nil {
		return data
	}
	for _, w := range e.Report.Warnings {
		row := make([]string, len(data.Headers))
		row[0] = w.Article
		row[1] = "warning: " + string(w.Table) + ": " + w.Message
		for i := 2; i < len(row); i++ {
			row[i] = none
		}
		data.Rows = append(data.Rows, row)
	}
	return data
}

// RemoteProducts renders the remote catalog.
type RemoteProducts []catalogs.RemoteProduct

// Table implements Tabular.
func (p RemoteProducts) Table(wide bool) Data {
	headers := []string{"ID", "SKU", "Name", "Published", "Variants"}
	align := []Align{AlignRight, AlignLeft, AlignLeft, AlignCenter, AlignRight}
	if wide {
		headers = append(headers, "Stock", "Variants Read")
		align = append(align, AlignRight, AlignCenter)
	}

	rows := make([][]string, 0, len(p))
	for _, product := range p {
		skus := product.SKUs()
		sku := none
		if len(skus) > 0 {
			sku = skus[0]
		}
		row := []string{
			strconv.FormatInt(product.ID, 10),
			sku,
			product.Name.Es(),
			yesNo(product.Published),
			strconv.Itoa(len(product.Variants)),
		}
		if wide {
			stock := 0
			for _, v := range product.Variants {
				stock += v.Stock
			}
			row = append(row, strconv.Itoa(stock), yesNo(product.VariantsResolved))
		}
		rows = append(rows, row)
	}
	return Data{Headers: headers, Rows: rows, ColumnAlignment: align}
}

// Outcome is the printable form of a reconciliation pass.
type Outcome struct {
	PassID    string                      `json:"pass_id" yaml:"pass_id"`
	DryRun    bool                        `json:"dry_run" yaml:"dry_run"`
	Cancelled bool                        `json:"cancelled" yaml:"cancelled"`
	Success   bool                        `json:"success" yaml:"success"`
	Duration  string                      `json:"duration" yaml:"duration"`
	Summary   string                      `json:"summary" yaml:"summary"`
	Stats     reconciler.ResultStatistics `json:"stats" yaml:"stats"`
	Plan      []Decision                  `json:"plan,omitempty" yaml:"plan,omitempty"`
	Orphaned  []int64                     `json:"orphaned,omitempty" yaml:"orphaned,omitempty"`
	Errors    []Failure                   `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// Decision is one classified product of the pass.
type Decision struct {
	SKU     string   `json:"sku" yaml:"sku"`
	Action  string   `json:"action" yaml:"action"`
	Changes []string `json:"changes,omitempty" yaml:"changes,omitempty"`
	Reason  string   `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// Failure is one error recorded against a SKU.
type Failure struct {
	SKU       string `json:"sku" yaml:"sku"`
	Operation string `json:"operation" yaml:"operation"`
	Message   string `json:"message" yaml:"message"`
}

// NewOutcome builds the printable outcome of a pass.
func NewOutcome(r *reconciler.Result) Outcome {
	o := Outcome{
		PassID:    r.PassID,
		DryRun:    r.DryRun,
		Cancelled: r.Cancelled,
		Success:   r.IsSuccess(),
		Duration:  r.Duration.Round(time.Millisecond).String(),
		Summary:   r.Summary(),
		Stats:     r.Stats,
	}
	if cs := r.Changeset; cs != nil {
		for _, d := range cs.Decisions {
			o.Plan = append(o.Plan, newDecision(d))
		}
		for _, p := range cs.Orphaned {
			o.Orphaned = append(o.Orphaned, p.ID)
		}
	}
	for _, e := range r.Errors {
		f := Failure{SKU: e.SKU, Operation: e.Operation}
		if e.Err != nil {
			f.Message = e.Err.Error()
		}
		o.Errors = append(o.Errors, f)
	}
	return o
}

func newDecision(d differ.Decision) Decision {
	out := Decision{SKU: d.SKU, Action: string(d.Action)}
	if out.SKU == "" {
		out.SKU = d.Local.SKU
	}
	for _, c := range d.Changes {
		out.Changes = append(out.Changes, c.String())
	}
	if d.Err != nil {
		out.Reason = d.Err.Error()
	}
	return out
}

// Table implements Tabular. Wide mode lists the plan and every error.
func (o Outcome) Table(wide bool) Data {
	s := o.Stats
	rows := [][]string{
		{"Pass", o.PassID},
		{"Result", o.Summary},
		{"Duration", o.Duration},
		{"Processed", strconv.Itoa(s.Processed)},
		{"Created", strconv.Itoa(s.Created)},
		{"Updated", strconv.Itoa(s.Updated)},
		{"Unchanged", strconv.Itoa(s.Verified)},
		{"Hidden", strconv.Itoa(s.Hidden)},
		{"Deleted", strconv.Itoa(s.Deleted)},
		{"Skipped", strconv.Itoa(s.Skipped)},
		{"Failed", strconv.Itoa(s.Failed)},
		{"Variants", variantCounts(s)},
	}
	if wide {
		for _, d := range o.Plan {
			if d.Action == string(differ.ActionVerify) {
				continue
			}
			detail := d.Action
			if len(d.Changes) > 0 {
				detail += ": " + strings.Join(d.Changes, "; ")
			}
			if d.Reason != "" {
				detail += ": " + d.Reason
			}
			rows = append(rows, []string{"Plan " + d.SKU, detail})
		}
		for _, id := range o.Orphaned {
			rows = append(rows, []string{"Orphan", strconv.FormatInt(id, 10)})
		}
	}
	for _, e := range o.Errors {
		rows = append(rows, []string{"Error " + e.SKU, e.Operation + ": " + e.Message})
	}
	return Data{
		Headers:         []string{"Property", "Value"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignLeft},
	}
}

func variantCounts(s reconciler.ResultStatistics) string {
	return strconv.Itoa(s.VariantsCreated) + " created, " +
		strconv.Itoa(s.VariantsUpdated) + " updated, " +
		strconv.Itoa(s.VariantsUnchanged) + " unchanged, " +
		strconv.Itoa(s.VariantsDuplicate) + " duplicate, " +
		strconv.Itoa(s.VariantsFailed) + " failed"
}

func totalStock(variants []catalogs.Variant) int {
	total := 0
	for _, v := range variants {
		total += v.Stock
	}
	return total
}

func price(p *float64) string {
	if p == nil {
		return none
	}
	return strconv.FormatFloat(*p, 'f', 2, 64)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func orNone(s string) string {
	if s == "" {
		return none
	}
	return s
}

func join(items []string) string {
	if len(items) == 0 {
		return none
	}
	return strings.Join(items, ", ")
}
