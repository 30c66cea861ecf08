package errors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/tiendapocket/nubesync/pkg/errors"
)

func TestIsNotFound(t *testing.T) {
	err := &pkgerrors.APIError{Operation: "get", StatusCode: http.StatusNotFound, Message: "Not Found"}
	assert.True(t, pkgerrors.IsNotFound(err))

	wrapped := errors.Join(errors.New("failed"), pkgerrors.WrapResource("get", "variant", "9", err))
	assert.True(t, pkgerrors.IsNotFound(wrapped))
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := pkgerrors.NewValidationError("access_token", "", "cannot be empty")
		assert.Equal(t, "validation failed for field access_token: cannot be empty", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{Message: "product has no variants"}
		assert.Equal(t, "validation failed: product has no variants", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrInvalidInput))
	})
}

func TestAPIError(t *testing.T) {
	tests := []struct {
		name   string
		status int
		target error
	}{
		{name: "not found", status: http.StatusNotFound, target: pkgerrors.ErrNotFound},
		{name: "forbidden", status: http.StatusForbidden, target: pkgerrors.ErrPermission},
		{name: "rate limited", status: http.StatusTooManyRequests, target: pkgerrors.ErrRateLimited},
		{name: "server error", status: http.StatusBadGateway, target: pkgerrors.ErrProviderUnavailable},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := &pkgerrors.APIError{Operation: "delete", StatusCode: tc.status, Message: "boom"}
			assert.ErrorIs(t, err, tc.target)
			assert.Contains(t, err.Error(), fmt.Sprintf("status %d", tc.status))
		})
	}

	t.Run("kind takes precedence", func(t *testing.T) {
		err := &pkgerrors.APIError{
			Operation:  "create variant",
			StatusCode: http.StatusUnprocessableEntity,
			Message:    "Variants cannot be repeated",
			Kind:       pkgerrors.ErrDuplicateVariant,
		}
		assert.True(t, pkgerrors.IsDuplicateVariant(err))
		assert.False(t, pkgerrors.IsInvalidStock(err))
		assert.False(t, pkgerrors.IsNotFound(err))
	})

	t.Run("unwraps transport error", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := &pkgerrors.APIError{Operation: "list", Message: cause.Error(), Err: cause}
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, "remote list failed: connection reset", err.Error())
	})
}

func TestCollisionError(t *testing.T) {
	err := &pkgerrors.CollisionError{SKU: "X1", Kept: "Remera", Rejected: "Pantalon"}
	assert.True(t, errors.Is(err, pkgerrors.ErrSKUCollision))
	assert.Contains(t, err.Error(), "X1")
	assert.Contains(t, err.Error(), "keeping the first")
}

func TestSyncError(t *testing.T) {
	cause := &pkgerrors.APIError{Operation: "update", StatusCode: http.StatusForbidden, Message: "forbidden"}
	err := pkgerrors.NewSyncError("ABC", "update", cause)

	assert.Equal(t, "sync error for sku ABC during update: remote update failed (status 403): forbidden", err.Error())
	assert.True(t, pkgerrors.IsPermission(err))

	var apiErr *pkgerrors.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
}

func TestWrapHelpers(t *testing.T) {
	assert.NoError(t, pkgerrors.WrapIO("read", "F_ART.csv", nil))
	assert.NoError(t, pkgerrors.WrapParse("csv", "F_ART.csv", nil))
	assert.NoError(t, pkgerrors.WrapResource("create", "product", "", nil))

	cause := errors.New("permission denied")
	err := pkgerrors.WrapIO("open", "F_ART.csv", cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "IO error during open of F_ART.csv: permission denied", err.Error())

	err = pkgerrors.WrapParse("csv", "F_STO.csv", cause)
	var parseErr *pkgerrors.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "csv", parseErr.Format)

	err = pkgerrors.WrapResource("delete", "product", "7", cause)
	assert.Equal(t, "failed to delete product 7: permission denied", err.Error())
}

func TestConfigError(t *testing.T) {
	cause := errors.New("missing")
	err := pkgerrors.NewConfigError("remote", "access token not set", cause)
	assert.Equal(t, "configuration error in remote: access token not set", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", pkgerrors.Truncate("  short \n", 10))
	assert.Equal(t, "abc...", pkgerrors.Truncate("abcdef", 3))
	assert.Equal(t, "abcdef", pkgerrors.Truncate("abcdef", 0))

	// "ñ" is two bytes; a cut inside it backs off to the rune start.
	got := pkgerrors.Truncate("añb", 2)
	assert.Equal(t, "a...", got)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "añ...", pkgerrors.Truncate("añb", 3))
}
