package transport

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoAuth(t *testing.T) {
	req := &http.Request{Header: make(http.Header)}
	(&NoAuth{}).Apply(req, "token")
	assert.Empty(t, req.Header)
}

func TestBearerAuth(t *testing.T) {
	t.Run("default header", func(t *testing.T) {
		req := &http.Request{Header: make(http.Header)}
		(&BearerAuth{}).Apply(req, "abc")
		assert.Equal(t, "bearer abc", req.Header.Get("Authentication"))
		assert.Empty(t, req.Header.Get("Authorization"))
	})

	t.Run("custom header", func(t *testing.T) {
		req := &http.Request{Header: make(http.Header)}
		(&BearerAuth{Header: "Authorization"}).Apply(req, "abc")
		assert.Equal(t, "bearer abc", req.Header.Get("Authorization"))
	})

	t.Run("empty token", func(t *testing.T) {
		req := &http.Request{Header: make(http.Header)}
		(&BearerAuth{}).Apply(req, "")
		assert.Empty(t, req.Header)
	})
}
