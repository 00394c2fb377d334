package middleware

import (
	"log/slog"
	"os"
	"time"

	"parkpass/internal/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	HeaderRequestID = "X-Request-ID"
	ctxRequestIDKey = "request_id"
	maxRequestIDLen = 128
)

type Logger struct {
	logger *slog.Logger
}

// LoggingMiddleware tags every request with an id (the caller's
// X-Request-ID when present) and logs one line on completion. Live streams
// log when the connection closes.
func (l *Logger) LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		requestID := requestIDFrom(c)
		c.Set(ctxRequestIDKey, requestID)
		c.Header(HeaderRequestID, requestID)

		attrs := []slog.Attr{
			slog.String("request_id", requestID),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.String("client_ip", c.ClientIP()),
		}
		stream := websocket.IsWebSocketUpgrade(c.Request)
		if stream {
			attrs = append(attrs, slog.Bool("websocket", true))
		}
		if idempotencyKey := c.GetHeader("Idempotency-Key"); idempotencyKey != "" {
			attrs = append(attrs, slog.String("idempotency_key", idempotencyKey))
		}

		ctx := c.Request.Context()
		l.logger.LogAttrs(ctx, slog.LevelDebug, "Request started", attrs...)

		c.Next()

		// Auth runs inside the route groups, so the caller is only known now.
		if identity, ok := GetIdentity(c); ok {
			attrs = append(attrs,
				slog.String("user_id", identity.Subject()),
				slog.String("role", identity.Role().String()))
		}

		status := c.Writer.Status()
		attrs = append(attrs,
			slog.Int("status_code", status),
			slog.Duration("duration", time.Since(startTime)),
		)
		if size := c.Writer.Size(); size > 0 && !stream {
			attrs = append(attrs, slog.Int("response_size", size))
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, slog.String("errors", c.Errors.String()))
		}

		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}

		msg := "Request completed"
		if stream && status < 400 {
			msg = "Live stream closed"
		}
		l.logger.LogAttrs(ctx, level, msg, attrs...)
	}
}

// NewLogger installs the logger as the slog default. Unknown levels fall
// back to info.
func NewLogger(cfg config.LogConfig) *Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}

	timezone := time.FixedZone(cfg.TimeZone, cfg.TimeZoneOffset)

	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.In(timezone).Format(cfg.TimeFormat))
				}
			}
			return a
		},
	}

	var handler slog.Handler
	if gin.Mode() == gin.ReleaseMode {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return &Logger{logger: logger}
}

func (l *Logger) GetSlogLogger() *slog.Logger {
	return l.logger
}

func GetRequestID(c *gin.Context) string {
	return c.GetString(ctxRequestIDKey)
}

func requestIDFrom(c *gin.Context) string {
	if id := c.GetHeader(HeaderRequestID); id != "" && len(id) <= maxRequestIDLen {
		return id
	}
	return uuid.NewString()
}
