//go:build unit

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"parkpass/internal/handler/httperr"
	"parkpass/internal/pkg/errs"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func serve(t *testing.T, h gin.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CustomRecovery(), ErrorHandler())
	r.GET("/", h)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	return rec
}

func TestErrorHandler(t *testing.T) {
	t.Run("private error is mapped by sentinel", func(t *testing.T) {
		rec := serve(t, func(c *gin.Context) {
			_ = c.Error(errs.Wrap(errs.ErrSlotUnavailable, "reserve"))
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.JSONEq(t, `{"error":{"message":"Slot unavailable"}}`, rec.Body.String())
	})

	t.Run("aborted response is left alone", func(t *testing.T) {
		rec := serve(t, func(c *gin.Context) {
			httperr.AbortWithError(c, http.StatusForbidden, errs.ErrBookingAccess, "Forbidden", nil)
		})
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.JSONEq(t, `{"error":{"message":"Forbidden"}}`, rec.Body.String())
	})

	t.Run("status without body is flushed", func(t *testing.T) {
		rec := serve(t, func(c *gin.Context) { c.Status(http.StatusNoContent) })
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("panic becomes 500", func(t *testing.T) {
		rec := serve(t, func(*gin.Context) { panic("boom") })
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "Internal server error")
	})
}
