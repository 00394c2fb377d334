package api

import (
	"net/http"

	reqdto "parkpass/internal/handler/dto/request"
	resdto "parkpass/internal/handler/dto/response"
	"parkpass/internal/handler/httperr"
	"parkpass/internal/usecase/commands"
	"parkpass/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SlotHandler struct {
	cmds commands.ReservationCommands
	q    queries.SlotQueries
}

func NewSlotHandler(cmds commands.ReservationCommands, q queries.SlotQueries) *SlotHandler {
	return &SlotHandler{cmds: cmds, q: q}
}

// @Summary List slots
// @Description All parking slots ordered by name
// @Tags slots
// @Produce json
// @Success 200 {array} resdto.SlotResponse
// @Failure 503 {object} httperr.Response
// @Router /api/slots [get]
func (h *SlotHandler) List(c *gin.Context) {
	views, err := h.q.List(c.Request.Context())
	if err != nil {
		httperr.AbortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromSlotViews(views))
}

// @Summary Slot statistics
// @Description Availability counters for the dashboard
// @Tags slots
// @Produce json
// @Success 200 {object} resdto.SlotStatsResponse
// @Failure 503 {object} httperr.Response
// @Router /api/slots/stats [get]
func (h *SlotHandler) Stats(c *gin.Context) {
	stats, err := h.q.Stats(c.Request.Context())
	if err != nil {
		httperr.AbortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromSlotStats(stats))
}

// @Summary Get slot
// @Tags slots
// @Produce json
// @Param id path string true "Slot ID"
// @Success 200 {object} resdto.SlotResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/slots/{id} [get]
func (h *SlotHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}
	view, err := h.q.Get(c.Request.Context(), id)
	if err != nil {
		httperr.AbortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromSlotView(view))
}

// @Summary Quote a booking
// @Description Amount a reservation of the slot would cost for the window
// @Tags slots
// @Produce json
// @Param id path string true "Slot ID"
// @Param start query string true "Start (RFC 3339)"
// @Param end query string true "End (RFC 3339)"
// @Success 200 {object} resdto.QuoteResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/slots/{id}/quote [get]
func (h *SlotHandler) Quote(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}
	var query reqdto.QuoteQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	quote, err := h.q.Quote(c.Request.Context(), id, query.Start, query.End)
	if err != nil {
		httperr.AbortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromQuote(quote))
}

// @Summary Release slot
// @Description Make a slot available again. Releasing an available slot succeeds.
// @Tags slots
// @Security BearerAuth
// @Param id path string true "Slot ID"
// @Success 204 "No Content"
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/slots/{id}/release [post]
func (h *SlotHandler) Release(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}
	if err := h.cmds.Release(c.Request.Context(), id); err != nil {
		httperr.AbortWithUsecaseError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
