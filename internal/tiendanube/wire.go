package tiendanube

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/tiendapocket/nubesync/pkg/catalogs"
)

// flexNumber decodes a number sent as a JSON number, a numeric string or
// null. Prices arrive as strings ("1500.00").
type flexNumber struct {
	Value *float64
}

// UnmarshalJSON implements json.Unmarshaler. Unparsable values decode as nil.
func (n *flexNumber) UnmarshalJSON(data []byte) error {
	n.Value = nil
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	text := string(data)
	if data[0] == '"' {
		if err := json.Unmarshal(data, &text); err != nil {
			return nil
		}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		n.Value = &f
	}
	return nil
}

// flexString decodes a string field that may arrive as null, a number or
// an object. Anything but a string or number decodes as "".
type flexString string

// UnmarshalJSON implements json.Unmarshaler.
func (s *flexString) UnmarshalJSON(data []byte) error {
	*s = ""
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	switch data[0] {
	case '"':
		var text string
		if err := json.Unmarshal(data, &text); err == nil {
			*s = flexString(text)
		}
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		*s = flexString(data)
	}
	return nil
}

// variantResponse is a variant as returned by the API.
type variantResponse struct {
	ID        int64                `json:"id"`
	ProductID int64                `json:"product_id"`
	SKU       flexString           `json:"sku"`
	Price     flexNumber           `json:"price"`
	Cost      flexNumber           `json:"cost"`
	Stock     flexNumber           `json:"stock"`
	Barcode   flexString           `json:"barcode"`
	Values    []catalogs.Localized `json:"values"`
}

// productResponse is a product as returned by the API.
type productResponse struct {
	ID         int64                `json:"id"`
	Name       catalogs.Localized   `json:"name"`
	Published  bool                 `json:"published"`
	Attributes []catalogs.Localized `json:"attributes"`
	Variants   []variantResponse    `json:"variants"`
}

// variantRequest is the body of a variant create or update. Price and
// stock are omitted when the field is not managed.
type variantRequest struct {
	SKU     string               `json:"sku"`
	Price   *float64             `json:"price,omitempty"`
	Stock   *int                 `json:"stock,omitempty"`
	Cost    *float64             `json:"cost,omitempty"`
	Barcode string               `json:"barcode,omitempty"`
	Values  []catalogs.Localized `json:"values,omitempty"`
}

// productRequest is the body of a product create, variants included.
type productRequest struct {
	productUpdateRequest
	Variants []variantRequest `json:"variants"`
}

// productUpdateRequest is the body of a product update. It has no variants
// field: variants are a separate resource.
type productUpdateRequest struct {
	Name             catalogs.Localized   `json:"name"`
	Published        bool                 `json:"published"`
	RequiresShipping bool                 `json:"requires_shipping"`
	StockManagement  bool                 `json:"stock_management"`
	Attributes       []catalogs.Localized `json:"attributes,omitempty"`
}

// publishRequest toggles product visibility.
type publishRequest struct {
	Published bool `json:"published"`
}

// errorResponse is the error envelope of the API. Validation failures
// add one key per offending field, each holding a list of messages.
type errorResponse struct {
	Code        int
	Message     string
	Description string
	Fields      map[string][]string
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *errorResponse) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for key, value := range raw {
		switch key {
		case "code":
			var code flexNumber
			_ = code.UnmarshalJSON(value)
			if code.Value != nil {
				e.Code = int(*code.Value)
			}
		case "message":
			_ = json.Unmarshal(value, &e.Message)
		case "description":
			var desc string
			if json.Unmarshal(value, &desc) == nil {
				e.Description = desc
			}
		default:
			var msgs []string
			if json.Unmarshal(value, &msgs) != nil {
				var msg string
				if json.Unmarshal(value, &msg) != nil {
					continue
				}
				msgs = []string{msg}
			}
			if e.Fields == nil {
				e.Fields = make(map[string][]string)
			}
			e.Fields[key] = msgs
		}
	}
	return nil
}
