package api

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	resdto "parkpass/internal/handler/dto/response"
	"parkpass/internal/handler/httperr"
	"parkpass/internal/handler/middleware"
	"parkpass/internal/pkg/config"
	"parkpass/internal/pkg/errs"
	"parkpass/internal/usecase/liveview"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const liveReadLimit = 512

// LiveHandler streams live views over WebSocket. Each connection owns one
// subscription; every snapshot is sent as a full frame.
type LiveHandler struct {
	projections liveview.Projections
	cfg         config.LiveConfig
	upgrader    websocket.Upgrader
}

func NewLiveHandler(projections liveview.Projections, cfg config.Config) *LiveHandler {
	live := cfg.Live
	if live.WriteTimeout <= 0 {
		live.WriteTimeout = 10 * time.Second
	}
	if live.PingInterval <= 0 {
		live.PingInterval = 30 * time.Second
	}
	origins := cfg.CORS.AllowOrigins
	return &LiveHandler{
		projections: projections,
		cfg:         live,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || slices.Contains(origins, "*") || slices.Contains(origins, origin)
			},
		},
	}
}

// @Summary Live slots
// @Description WebSocket stream of slot snapshots
// @Tags live
// @Router /api/live/slots [get]
func (h *LiveHandler) Slots(c *gin.Context) {
	conn, ok := h.upgrade(c)
	if !ok {
		return
	}
	sub := h.projections.WatchSlots(c.Request.Context())
	stream(conn, sub, resdto.FromSlotViews, h.cfg)
}

// @Summary Live bookings of the caller
// @Description WebSocket stream of the caller's bookings, newest first
// @Tags live
// @Security BearerAuth
// @Router /api/live/bookings [get]
func (h *LiveHandler) MyBookings(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errs.ErrUnauthenticated, "Unauthorized", nil)
		return
	}
	conn, ok := h.upgrade(c)
	if !ok {
		return
	}
	sub := h.projections.WatchUserBookings(c.Request.Context(), identity.Subject())
	stream(conn, sub, resdto.FromBookingViews, h.cfg)
}

// @Summary Live bookings (admin)
// @Description WebSocket stream of all bookings, newest first
// @Tags live
// @Security BearerAuth
// @Router /api/live/admin/bookings [get]
func (h *LiveHandler) AllBookings(c *gin.Context) {
	conn, ok := h.upgrade(c)
	if !ok {
		return
	}
	sub := h.projections.WatchAllBookings(c.Request.Context())
	stream(conn, sub, resdto.FromBookingViews, h.cfg)
}

func (h *LiveHandler) upgrade(c *gin.Context) (*websocket.Conn, bool) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		slog.Warn("websocket upgrade failed", "path", c.Request.URL.Path, "error", err.Error())
		c.Abort()
		return nil, false
	}
	return conn, true
}

func stream[V any, R any](
	conn *websocket.Conn,
	sub *liveview.Subscription[V],
	toResponse func([]V) []*R,
	cfg config.LiveConfig,
) {
	defer sub.Unsubscribe()
	defer conn.Close()

	pongWait := 2 * cfg.PingInterval
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(liveReadLimit)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					slog.Debug("websocket read failed", "error", err.Error())
				}
				return
			}
		}
	}()

	ping := time.NewTicker(cfg.PingInterval)
	defer ping.Stop()

	for {
		select {
		case <-closed:
			return
		case snap, ok := <-sub.C:
			if !ok {
				return
			}
			var frame resdto.LiveFrame[R]
			if snap.Err != nil {
				_, msg := httperr.Status(snap.Err)
				frame = resdto.ErrorFrame[R](msg)
			} else {
				frame = resdto.SnapshotFrame(toResponse(snap.Items))
			}
			_ = conn.SetWriteDeadline(time.Now().Add(cfg.WriteTimeout))
			if err := conn.WriteJSON(frame); err != nil {
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(cfg.WriteTimeout)); err != nil {
				return
			}
		}
	}
}
