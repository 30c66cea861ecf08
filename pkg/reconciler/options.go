package reconciler

import (
	"strings"

	"github.com/tiendapocket/nubesync/pkg/catalogs"
	"github.com/tiendapocket/nubesync/pkg/errors"
)

// OrphanPolicy says what happens to remote products with no local SKU.
type OrphanPolicy string

const (
	// OrphanHide unpublishes orphaned products.
	OrphanHide OrphanPolicy = "hide"
	// OrphanDelete deletes orphaned products.
	OrphanDelete OrphanPolicy = "delete"
	// OrphanKeep leaves orphaned products untouched.
	OrphanKeep OrphanPolicy = "keep"
)

// ParseOrphanPolicy parses a policy name.
func ParseOrphanPolicy(s string) (OrphanPolicy, error) {
	switch p := OrphanPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case OrphanHide, OrphanDelete, OrphanKeep:
		return p, nil
	default:
		return "", errors.NewValidationError("orphans", s, "must be one of hide, delete, keep")
	}
}

// options configures a reconciler.
type options struct {
	fields        catalogs.Fields
	createMissing bool
	orphans       OrphanPolicy
	dryRun        bool
}

func defaultOptions() *options {
	return &options{
		fields:        catalogs.AllFields,
		createMissing: true,
		orphans:       OrphanHide,
	}
}

// Option is a function that configures a Reconciler.
type Option func(*options) error

func (options *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}
	return options, nil
}

// newOptions returns reconciler options with default values.
func newOptions(opts ...Option) (*options, error) {
	return defaultOptions().apply(opts...)
}

// WithManagePrice controls whether prices of existing variants are written.
func WithManagePrice(enabled bool) Option {
	return func(o *options) error {
		o.fields.Price = enabled
		return nil
	}
}

// WithManageStock controls whether stock of existing variants is written.
func WithManageStock(enabled bool) Option {
	return func(o *options) error {
		o.fields.Stock = enabled
		return nil
	}
}

// WithCreateMissing controls whether products absent remotely are created.
func WithCreateMissing(enabled bool) Option {
	return func(o *options) error {
		o.createMissing = enabled
		return nil
	}
}

// WithOrphanPolicy sets what happens to orphaned remote products.
func WithOrphanPolicy(policy OrphanPolicy) Option {
	return func(o *options) error {
		p, err := ParseOrphanPolicy(string(policy))
		if err != nil {
			return err
		}
		o.orphans = p
		return nil
	}
}

// WithDryRun classifies and reports without mutating the remote store.
func WithDryRun(enabled bool) Option {
	return func(o *options) error {
		o.dryRun = enabled
		return nil
	}
}
