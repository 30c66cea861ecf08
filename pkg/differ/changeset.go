// Package differ matches local products against the remote catalog and
// classifies each one as new, unchanged or changed, and each unmatched remote
// product as orphaned.
package differ

import (
	"fmt"
	"strings"

	"github.com/tiendapocket/nubesync/pkg/catalogs"
	"github.com/tiendapocket/nubesync/pkg/errors"
)

// ChangeType represents the type of change.
type ChangeType string

const (
	// ChangeTypeAdd indicates a value missing remotely.
	ChangeTypeAdd ChangeType = "add"
	// ChangeTypeUpdate indicates a value that differs.
	ChangeTypeUpdate ChangeType = "update"
	// ChangeTypeRemove indicates a remote value with no local counterpart.
	ChangeTypeRemove ChangeType = "remove"
)

// FieldChange represents a change to a specific field.
type FieldChange struct {
	Path     string     // Field path (e.g., "variants[X1 [M]].price")
	OldValue string     // Remote value (string representation)
	NewValue string     // Local value (string representation)
	Type     ChangeType // Type of change
}

// String renders the change for logs.
func (c FieldChange) String() string {
	switch c.Type {
	case ChangeTypeAdd:
		return fmt.Sprintf("%s: missing remotely", c.Path)
	case ChangeTypeRemove:
		return fmt.Sprintf("%s: not present locally", c.Path)
	default:
		return fmt.Sprintf("%s: %s -> %s", c.Path, c.OldValue, c.NewValue)
	}
}

// Action is the classification of one local product.
type Action string

const (
	// ActionCreate marks a product absent remotely.
	ActionCreate Action = "create"
	// ActionVerify marks a product equal at product level. Its variants are
	// still walked for field-level drift.
	ActionVerify Action = "verify"
	// ActionUpdate marks a product that differs remotely.
	ActionUpdate Action = "update"
	// ActionSkip marks a product that cannot be reconciled.
	ActionSkip Action = "skip"
)

// Decision is the classification of one local product.
type Decision struct {
	SKU     string                  // Normalized SKU
	Action  Action                  // What to do with it
	Local   catalogs.Product        // Local product
	Remote  *catalogs.RemoteProduct // Matched remote product, nil for create and skip
	Changes []FieldChange           // Why an update is needed
	Err     error                   // Why a product is skipped
}

// Changeset is the result of matching a local catalog against the remote one.
type Changeset struct {
	Decisions  []Decision               // One per local product, in input order
	Orphaned   []catalogs.RemoteProduct // Remote products with no local SKU
	Collisions []*errors.CollisionError // Local products rejected by SKU collision
	Summary    ChangesetSummary         // Summary statistics
}

// ChangesetSummary provides summary statistics for a changeset.
type ChangesetSummary struct {
	Create       int
	Verify       int
	Update       int
	Skip         int
	Orphaned     int
	Collisions   int
	TotalChanges int
}

// Create returns the products absent remotely.
func (c *Changeset) Create() []Decision { return c.byAction(ActionCreate) }

// Verify returns the products equal at product level.
func (c *Changeset) Verify() []Decision { return c.byAction(ActionVerify) }

// Update returns the products that differ remotely.
func (c *Changeset) Update() []Decision { return c.byAction(ActionUpdate) }

// Skipped returns the products that cannot be reconciled.
func (c *Changeset) Skipped() []Decision { return c.byAction(ActionSkip) }

func (c *Changeset) byAction(action Action) []Decision {
	var out []Decision
	for _, d := range c.Decisions {
		if d.Action == action {
			out = append(out, d)
		}
	}
	return out
}

// HasChanges returns true if the changeset contains any changes.
func (c *Changeset) HasChanges() bool {
	return c.Summary.TotalChanges > 0
}

// IsEmpty returns true if the changeset contains no changes.
func (c *Changeset) IsEmpty() bool {
	return c.Summary.TotalChanges == 0
}

// calculateSummary computes the summary for a changeset.
func calculateSummary(c *Changeset) ChangesetSummary {
	s := ChangesetSummary{
		Orphaned:   len(c.Orphaned),
		Collisions: len(c.Collisions),
	}
	for _, d := range c.Decisions {
		switch d.Action {
		case ActionCreate:
			s.Create++
		case ActionVerify:
			s.Verify++
		case ActionUpdate:
			s.Update++
		case ActionSkip:
			s.Skip++
		}
	}
	s.TotalChanges = s.Create + s.Update + s.Orphaned
	return s
}

// String returns a human-readable summary of the changeset.
func (c *Changeset) String() string {
	if c.IsEmpty() && c.Summary.Skip == 0 {
		return "No changes detected"
	}

	var parts []string

	productParts := []string{}
	if c.Summary.Create > 0 {
		productParts = append(productParts, fmt.Sprintf("%d to create", c.Summary.Create))
	}
	if c.Summary.Update > 0 {
		productParts = append(productParts, fmt.Sprintf("%d to update", c.Summary.Update))
	}
	if c.Summary.Verify > 0 {
		productParts = append(productParts, fmt.Sprintf("%d unchanged", c.Summary.Verify))
	}
	if c.Summary.Skip > 0 {
		productParts = append(productParts, fmt.Sprintf("%d skipped", c.Summary.Skip))
	}
	if len(productParts) > 0 {
		parts = append(parts, fmt.Sprintf("Products: %s", strings.Join(productParts, ", ")))
	}

	if c.Summary.Orphaned > 0 {
		parts = append(parts, fmt.Sprintf("Orphaned: %d", c.Summary.Orphaned))
	}
	if c.Summary.Collisions > 0 {
		parts = append(parts, fmt.Sprintf("Collisions: %d", c.Summary.Collisions))
	}

	return strings.Join(parts, "; ")
}
