//go:build unit || e2e

package httptest

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"parkpass/internal/handler/httperr"

	"github.com/stretchr/testify/assert"
)

// AssertSuccessResponse checks the status and, for 2xx with a target,
// decodes the body into it.
func AssertSuccessResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target any) {
	t.Helper()

	if !assert.Equal(t, expectedStatus, w.Code, "unexpected status; body: %s", w.Body.String()) {
		return
	}
	if expectedStatus < 200 || expectedStatus >= 300 || target == nil {
		return
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), target), "decode body: %s", w.Body.String())
}

// AssertErrorResponse checks the status and the httperr envelope. An empty
// msg only checks that the envelope decodes.
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, msg string) {
	t.Helper()

	assert.Equal(t, expectedStatus, w.Code, "unexpected status; body: %s", w.Body.String())

	var resp httperr.Response
	if !assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "decode error body: %s", w.Body.String()) {
		return
	}
	assert.NotEmpty(t, resp.Error.Message, "error envelope without message")
	if msg != "" {
		assert.Contains(t, resp.Error.Message, msg)
	}
}

func AssertHeaders(t *testing.T, w *httptest.ResponseRecorder, expected map[string]string) {
	t.Helper()
	for k, v := range expected {
		assert.Equal(t, v, w.Header().Get(k), "header %s mismatch", k)
	}
}
