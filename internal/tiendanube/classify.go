package tiendanube

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/tiendapocket/nubesync/pkg/constants"
	"github.com/tiendapocket/nubesync/pkg/errors"
)

// duplicateVariantText is the message the API returns when a variant with
// the same values already exists. The API has no dedicated code for it, so
// matching the text is a compatibility fallback.
const duplicateVariantText = "cannot be repeated"

// errorCodes maps structured error identifiers to sentinels.
var errorCodes = map[string]error{
	"variants_cannot_be_repeated": errors.ErrDuplicateVariant,
	"duplicate_variant":           errors.ErrDuplicateVariant,
	"invalid_stock":               errors.ErrInvalidStock,
}

// classify sets Kind and a readable Message on an API error from its status
// code and body. It is the only place response text is inspected.
func classify(apiErr *errors.APIError) {
	var envelope errorResponse
	parsed := json.Unmarshal([]byte(apiErr.Body), &envelope) == nil
	if parsed {
		if msg := envelope.text(); msg != "" {
			apiErr.Message = errors.Truncate(msg, constants.MaxErrorBodyLength)
		}
	}

	switch {
	case parsed && envelope.kind() != nil:
		apiErr.Kind = envelope.kind()
	case apiErr.StatusCode == http.StatusUnprocessableEntity && strings.Contains(apiErr.Body, duplicateVariantText):
		apiErr.Kind = errors.ErrDuplicateVariant
	case apiErr.StatusCode == http.StatusUnprocessableEntity && strings.Contains(strings.ToLower(apiErr.Body), "stock"):
		apiErr.Kind = errors.ErrInvalidStock
	case apiErr.StatusCode == http.StatusNotFound:
		apiErr.Kind = errors.ErrNotFound
	case apiErr.StatusCode == http.StatusForbidden, apiErr.StatusCode == http.StatusUnauthorized:
		apiErr.Kind = errors.ErrPermission
	case apiErr.StatusCode == http.StatusTooManyRequests:
		apiErr.Kind = errors.ErrRateLimited
	case apiErr.StatusCode >= http.StatusInternalServerError:
		apiErr.Kind = errors.ErrProviderUnavailable
	case apiErr.StatusCode == http.StatusUnprocessableEntity, apiErr.StatusCode == http.StatusBadRequest:
		apiErr.Kind = errors.ErrInvalidInput
	}
}

// kind returns the sentinel for a structured error identifier, if any.
func (e errorResponse) kind() error {
	for _, id := range []string{e.Message, e.Description} {
		if err, ok := errorCodes[strings.ToLower(strings.TrimSpace(id))]; ok {
			return err
		}
	}
	for field := range e.Fields {
		if field == "stock" || strings.HasSuffix(field, ".stock") {
			return errors.ErrInvalidStock
		}
	}
	return nil
}

// text renders the envelope as a single line.
func (e errorResponse) text() string {
	var parts []string
	switch {
	case e.Description != "" && e.Message != "":
		parts = append(parts, e.Message+": "+e.Description)
	case e.Description != "":
		parts = append(parts, e.Description)
	case e.Message != "":
		parts = append(parts, e.Message)
	}

	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(e.Fields[field], ", ")))
	}
	return strings.Join(parts, "; ")
}
