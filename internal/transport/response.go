package transport

import (
	"encoding/json"
	"io"
	"net/http"
	"slices"

	"github.com/tiendapocket/nubesync/pkg/constants"
	"github.com/tiendapocket/nubesync/pkg/errors"
)

// ReadBody reads and closes the response body.
func ReadBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close() //nolint:errcheck
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WrapIO("read", "response body", err)
	}
	return body, nil
}

// DecodeResponse reads the response and decodes it into target when the
// status is one of ok (200 when empty). Any other status yields an
// *errors.APIError carrying the full raw body; only Message is truncated. A nil target discards the body.
func DecodeResponse(resp *http.Response, target any, ok ...int) error {
	body, err := ReadBody(resp)
	if err != nil {
		return err
	}

	if len(ok) == 0 {
		ok = []int{http.StatusOK}
	}
	if !slices.Contains(ok, resp.StatusCode) {
		return &errors.APIError{
			StatusCode: resp.StatusCode,
			Endpoint:   endpoint(resp),
			Message:    errors.Truncate(string(body), constants.MaxErrorBodyLength),
			Body:       string(body),
		}
	}

	if target == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, target); err != nil {
		return errors.WrapParse("json", endpoint(resp), err)
	}
	return nil
}

func endpoint(resp *http.Response) string {
	if resp.Request == nil || resp.Request.URL == nil {
		return ""
	}
	return resp.Request.URL.Path
}
