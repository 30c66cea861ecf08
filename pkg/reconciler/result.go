package reconciler

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tiendapocket/nubesync/pkg/differ"
	"github.com/tiendapocket/nubesync/pkg/errors"
)

// Result represents the outcome of one reconciliation pass.
type Result struct {
	// PassID identifies the pass in logs
	PassID string

	// Changeset is the classification the pass acted on
	Changeset *differ.Changeset

	// Stats holds the pass-scoped counters
	Stats ResultStatistics

	// Errors recorded against individual SKUs
	Errors []*errors.SyncError

	// Cancelled is set when the pass stopped before finishing
	Cancelled bool

	// DryRun indicates no mutation was sent
	DryRun bool

	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

// ResultStatistics contains the counters of a pass.
type ResultStatistics struct {
	Processed int `json:"processed" yaml:"processed"`
	Created   int `json:"created" yaml:"created"`
	Updated   int `json:"updated" yaml:"updated"`
	Verified  int `json:"verified" yaml:"verified"`
	Deleted   int `json:"deleted" yaml:"deleted"`
	Hidden    int `json:"hidden" yaml:"hidden"`
	Skipped   int `json:"skipped" yaml:"skipped"`
	Failed    int `json:"failed" yaml:"failed"`

	VariantsCreated   int `json:"variants_created" yaml:"variants_created"`
	VariantsUpdated   int `json:"variants_updated" yaml:"variants_updated"`
	VariantsUnchanged int `json:"variants_unchanged" yaml:"variants_unchanged"`
	VariantsDuplicate int `json:"variants_duplicate" yaml:"variants_duplicate"`
	VariantsFailed    int `json:"variants_failed" yaml:"variants_failed"`
}

// NewResult creates a new result for a pass.
func NewResult(passID string) *Result {
	return &Result{
		PassID:    passID,
		Errors:    []*errors.SyncError{},
		StartTime: time.Now(),
	}
}

// Finalize calculates duration and marks completion.
func (r *Result) Finalize() {
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)
}

// IsSuccess returns true if the pass finished without errors.
func (r *Result) IsSuccess() bool {
	return len(r.Errors) == 0 && !r.Cancelled
}

// Mutations returns the number of product-level writes.
func (r *Result) Mutations() int {
	return r.Stats.Created + r.Stats.Updated + r.Stats.Deleted + r.Stats.Hidden
}

// record stores an error against a SKU.
func (r *Result) record(sku, operation string, err error) {
	r.Errors = append(r.Errors, errors.NewSyncError(sku, operation, err))
}

// Summary returns a human-readable summary of the result.
func (r *Result) Summary() string {
	var b strings.Builder

	switch {
	case r.Cancelled:
		b.WriteString("Reconciliation cancelled. ")
	case r.DryRun:
		b.WriteString("Dry run completed. ")
	case !r.IsSuccess():
		fmt.Fprintf(&b, "Reconciliation completed with %d errors. ", len(r.Errors))
	default:
		b.WriteString("Reconciliation successful. ")
	}

	s := r.Stats
	fmt.Fprintf(&b, "Processed %d: %d created, %d updated, %d unchanged, %d deleted, %d hidden, %d skipped, %d failed",
		s.Processed, s.Created, s.Updated, s.Verified, s.Deleted, s.Hidden, s.Skipped, s.Failed)

	if v := s.VariantsCreated + s.VariantsUpdated + s.VariantsDuplicate + s.VariantsFailed; v > 0 {
		fmt.Fprintf(&b, "; variants: %d created, %d updated, %d already present, %d failed",
			s.VariantsCreated, s.VariantsUpdated, s.VariantsDuplicate, s.VariantsFailed)
	}

	return b.String()
}

// Log emits the end-of-pass summary as one structured event.
func (r *Result) Log(logger *zerolog.Logger) {
	event := logger.Info()
	if !r.IsSuccess() {
		event = logger.Warn()
	}
	s := r.Stats
	event.
		Str("pass_id", r.PassID).
		Bool("dry_run", r.DryRun).
		Bool("cancelled", r.Cancelled).
		Int("processed", s.Processed).
		Int("created", s.Created).
		Int("updated", s.Updated).
		Int("verified", s.Verified).
		Int("deleted", s.Deleted).
		Int("hidden", s.Hidden).
		Int("skipped", s.Skipped).
		Int("failed", s.Failed).
		Int("variants_created", s.VariantsCreated).
		Int("variants_updated", s.VariantsUpdated).
		Int("variants_duplicate", s.VariantsDuplicate).
		Int("variants_failed", s.VariantsFailed).
		Int("errors", len(r.Errors)).
		Dur("duration", r.Duration).
		Msg(r.Summary())
}
