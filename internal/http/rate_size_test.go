package handlers_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIRateLimit(t *testing.T) {
	ta := newTestApp(t)
	for i := 0; i < 60; i++ {
		resp := ta.get(t, "/api/v1/subcategories?category=cat-arabes", "")
		require.NotEqual(t, http.StatusTooManyRequests, resp.StatusCode, "limited too early at %d", i)
	}
	resp := ta.get(t, "/api/v1/catalog", "")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "rate limit exceeded")
}

func TestBodySizeLimit(t *testing.T) {
	ta := newTestApp(t)
	tok := ta.csrf(t)

	oversize := bytes.Repeat([]byte("A"), (1<<20)+10)
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(oversize))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "csrf_", Value: tok})
	resp, err := ta.app.Test(req, -1)
	// fasthttp may refuse the body before a response exists
	if err != nil {
		msg := err.Error()
		assert.True(t, strings.Contains(msg, "body size exceeds") || strings.Contains(msg, "too large"), msg)
		return
	}
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}
