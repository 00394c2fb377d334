package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"parkpass/internal/domain/user"
	"parkpass/internal/handler/api"
	"parkpass/internal/handler/middleware"
	"parkpass/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Slots    *api.SlotHandler
	Bookings *api.BookingHandler
	Live     *api.LiveHandler
}

func NewRouter(engine *gin.Engine, cfg config.Config, logger *middleware.Logger, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	setupMiddleware(engine, cfg, logger)
	setupRoutes(engine, h, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *middleware.Logger) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(logger.LoggingMiddleware())
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	operator := authMiddleware.RequireRoleAtLeast(user.RoleOperator)
	admin := authMiddleware.RequireRoleAtLeast(user.RoleAdmin)

	apiGroup := engine.Group("/api")
	{
		slots := apiGroup.Group("/slots")
		{
			addRoutes(slots, []route{
				{Method: http.MethodGet, Path: "", Handler: h.Slots.List},
				{Method: http.MethodGet, Path: "/stats", Handler: h.Slots.Stats},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Slots.Get},
				{Method: http.MethodGet, Path: "/:id/quote", Handler: h.Slots.Quote},
				{Method: http.MethodPost, Path: "/:id/release", Handler: h.Slots.Release, Mw: []gin.HandlerFunc{authMiddleware.RequireAuth(), operator}},
			})
		}

		bookings := apiGroup.Group("/bookings")
		bookings.Use(authMiddleware.RequireAuth())
		{
			addRoutes(bookings, []route{
				{Method: http.MethodPost, Path: "", Handler: h.Bookings.Create},
				{Method: http.MethodGet, Path: "", Handler: h.Bookings.ListMine},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Bookings.Get},
				{Method: http.MethodPost, Path: "/:id/payment", Handler: h.Bookings.InitiatePayment},
			})
		}

		adminGroup := apiGroup.Group("/admin")
		adminGroup.Use(authMiddleware.RequireAuth(), admin)
		{
			addRoutes(adminGroup, []route{
				{Method: http.MethodGet, Path: "/bookings", Handler: h.Bookings.ListAll},
			})
		}

		live := apiGroup.Group("/live")
		{
			addRoutes(live, []route{
				{Method: http.MethodGet, Path: "/slots", Handler: h.Live.Slots},
				{Method: http.MethodGet, Path: "/bookings", Handler: h.Live.MyBookings, Mw: []gin.HandlerFunc{authMiddleware.RequireAuth()}},
				{Method: http.MethodGet, Path: "/admin/bookings", Handler: h.Live.AllBookings, Mw: []gin.HandlerFunc{authMiddleware.RequireAuth(), admin}},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
