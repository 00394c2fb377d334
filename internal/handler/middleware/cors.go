package middleware

import (
	"log/slog"
	"slices"

	"parkpass/internal/pkg/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Location is always exposed so clients can follow a created booking.
const headerLocation = "Location"

func NewCORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	return cors.New(corsConfig(cfg))
}

func corsConfig(cfg config.CORSConfig) cors.Config {
	expose := slices.Clone(cfg.ExposeHeaders)
	if !slices.Contains(expose, headerLocation) {
		expose = append(expose, headerLocation)
	}

	corsCfg := cors.Config{
		AllowMethods:     cfg.AllowMethods,
		AllowHeaders:     cfg.AllowHeaders,
		ExposeHeaders:    expose,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}
	if slices.Contains(cfg.AllowOrigins, "*") {
		// Browsers reject credentialed responses for a wildcard origin.
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.AllowOrigins
	}

	slog.Info("CORS middleware initialized", "allow_origins", cfg.AllowOrigins, "allow_all", corsCfg.AllowAllOrigins)
	return corsCfg
}
