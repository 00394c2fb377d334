package httperr

import (
	"net/http"

	"parkpass/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := Response{Status: status}
	resp.Error.Message = msg
	resp.Detail = detail

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}

type mapping struct {
	sentinel error
	status   int
	message  string
}

// Order matters: the first sentinel the error carries decides the status.
var mappings = []mapping{
	{errs.ErrUnauthenticated, http.StatusUnauthorized, "Unauthorized"},
	{errs.ErrBookingAccess, http.StatusForbidden, "Forbidden"},
	{errs.ErrSlotNotFound, http.StatusNotFound, "Slot not found"},
	{errs.ErrBookingNotFound, http.StatusNotFound, "Booking not found"},
	{errs.ErrSlotUnavailable, http.StatusConflict, "Slot unavailable"},
	{errs.ErrPriceChanged, http.StatusConflict, "Price changed"},
	{errs.ErrPaymentNotPending, http.StatusConflict, "Booking payment already settled"},
	{errs.ErrIdempotencyKeyReused, http.StatusConflict, "Idempotency key reused with a different request"},
	{errs.ErrInvalidCursor, http.StatusBadRequest, "Invalid cursor"},
	{errs.ErrInvalidTimeWindow, http.StatusBadRequest, "Invalid time window"},
	{errs.ErrDomainValidation, http.StatusBadRequest, "Invalid request"},
	{errs.ErrPaymentInitiationFailed, http.StatusBadGateway, "Payment initiation failed"},
	{errs.ErrStoreUnavailable, http.StatusServiceUnavailable, "Service unavailable"},
}

// Status returns the HTTP status and public message for a usecase error.
func Status(err error) (int, string) {
	for _, m := range mappings {
		if errs.Is(err, m.sentinel) {
			return m.status, m.message
		}
	}
	return http.StatusInternalServerError, "Internal error"
}

func AbortWithUsecaseError(c *gin.Context, err error) {
	status, msg := Status(err)
	AbortWithError(c, status, err, msg, nil)
}
