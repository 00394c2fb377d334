//go:build unit

package httperr_test

import (
	"errors"
	"net/http"
	"testing"

	"parkpass/internal/handler/httperr"
	"parkpass/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"unauthenticated", errs.ErrUnauthenticated, http.StatusUnauthorized},
		{"slot not found", errs.Wrap(errs.ErrSlotNotFound, "reserve"), http.StatusNotFound},
		{"booking not found", errs.ErrBookingNotFound, http.StatusNotFound},
		{"unavailable", errs.Mark(errors.New("version mismatch"), errs.ErrSlotUnavailable), http.StatusConflict},
		{"price changed", errs.ErrPriceChanged, http.StatusConflict},
		{"settled payment", errs.Mark(errors.New("status confirmed"), errs.ErrPaymentNotPending), http.StatusConflict},
		{"reused idempotency key", errs.ErrIdempotencyKeyReused, http.StatusConflict},
		{"bad cursor", errs.ErrInvalidCursor, http.StatusBadRequest},
		{"bad window", errs.ErrInvalidTimeWindow, http.StatusBadRequest},
		{"foreign booking", errs.ErrBookingAccess, http.StatusForbidden},
		{"gateway", errs.Mark(errors.New("timeout"), errs.ErrPaymentInitiationFailed), http.StatusBadGateway},
		{"store", errs.Mark(errors.New("conn refused"), errs.ErrStoreUnavailable), http.StatusServiceUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := httperr.Status(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.NotEmpty(t, msg)
		})
	}
}
