package api

import (
	"net/http"
	"strconv"

	reqdto "parkpass/internal/handler/dto/request"
	resdto "parkpass/internal/handler/dto/response"
	"parkpass/internal/handler/httperr"
	"parkpass/internal/handler/middleware"
	"parkpass/internal/pkg/errs"
	"parkpass/internal/usecase/commands"
	"parkpass/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	cmds commands.ReservationCommands
	q    queries.BookingQueries
}

func NewBookingHandler(cmds commands.ReservationCommands, q queries.BookingQueries) *BookingHandler {
	return &BookingHandler{cmds: cmds, q: q}
}

// @Summary Reserve a slot
// @Description Atomically creates a pending booking and marks the slot reserved
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "UUID; a retry with the same key returns the first booking"
// @Param request body reqdto.CreateBookingRequest true "Booking request"
// @Success 201 {object} resdto.ReserveResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /api/bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errs.ErrUnauthenticated, "Unauthorized", nil)
		return
	}
	idempotencyKey, err := getIdempotencyKey(c)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid Idempotency-Key", nil)
		return
	}
	var req reqdto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	cmd := req.ToCommand()
	cmd.IdempotencyKey = idempotencyKey
	bookingID, err := h.cmds.Reserve(c.Request.Context(), identity, cmd)
	if err != nil {
		httperr.AbortWithUsecaseError(c, err)
		return
	}
	c.Header("Location", "/api/bookings/"+bookingID.String())
	c.JSON(http.StatusCreated, resdto.ReserveResponse{BookingID: bookingID})
}

// @Summary My bookings
// @Description Bookings of the caller, newest first
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max items (default 20, max 200)"
// @Param after query string false "Cursor for keyset pagination"
// @Success 200 {object} resdto.BookingListResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Router /api/bookings [get]
func (h *BookingHandler) ListMine(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errs.ErrUnauthenticated, "Unauthorized", nil)
		return
	}
	cursor, limit := pageParams(c)
	views, next, err := h.q.ListByUser(c.Request.Context(), identity.Subject(), cursor, limit)
	if err != nil {
		httperr.AbortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingPage(views, next))
}

// @Summary Get booking
// @Description Owner or operator access
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/bookings/{id} [get]
func (h *BookingHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errs.ErrUnauthenticated, "Unauthorized", nil)
		return
	}
	view, err := h.q.Get(c.Request.Context(), identity, id)
	if err != nil {
		httperr.AbortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// @Summary Start payment
// @Description Creates a gateway charge for the caller's booking
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.PaymentResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 502 {object} httperr.Response
// @Router /api/bookings/{id}/payment [post]
func (h *BookingHandler) InitiatePayment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errs.ErrUnauthenticated, "Unauthorized", nil)
		return
	}
	handle, err := h.cmds.InitiatePayment(c.Request.Context(), identity, id)
	if err != nil {
		httperr.AbortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromPaymentHandle(id, handle))
}

// @Summary All bookings
// @Description Admin view of every booking, newest first
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max items (default 20, max 200)"
// @Param after query string false "Cursor for keyset pagination"
// @Success 200 {object} resdto.BookingListResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /api/admin/bookings [get]
func (h *BookingHandler) ListAll(c *gin.Context) {
	cursor, limit := pageParams(c)
	views, next, err := h.q.ListAll(c.Request.Context(), cursor, limit)
	if err != nil {
		httperr.AbortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingPage(views, next))
}

// getIdempotencyKey returns uuid.Nil when the header is absent.
func getIdempotencyKey(c *gin.Context) (uuid.UUID, error) {
	keyStr := c.GetHeader("Idempotency-Key")
	if keyStr == "" {
		return uuid.Nil, nil
	}
	key, err := uuid.Parse(keyStr)
	if err != nil {
		return uuid.Nil, err
	}
	return key, nil
}

// pageParams ignores a malformed limit and falls back to the default.
func pageParams(c *gin.Context) (*queries.Cursor, int) {
	limit := queries.DefaultListLimit
	if v := c.Query("limit"); v != "" {
		if iv, e := strconv.Atoi(v); e == nil {
			limit = queries.ValidateLimit(iv)
		}
	}
	var cursor *queries.Cursor
	if after := c.Query("after"); after != "" {
		cursor = &queries.Cursor{After: after}
	}
	return cursor, limit
}
