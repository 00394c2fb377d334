package middleware

import (
	"log/slog"
	"net/http"

	"parkpass/internal/handler/httperr"

	"github.com/gin-gonic/gin"
)

// ErrorHandler renders errors handlers recorded with c.Error but did not
// answer themselves. Public errors carry their response; private ones are
// mapped by sentinel.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Written also covers hijacked WebSocket connections.
		if c.Writer.Written() {
			return
		}

		for i := len(c.Errors) - 1; i >= 0; i-- {
			err := c.Errors[i]
			if resp, ok := err.Meta.(httperr.Response); ok && err.IsType(gin.ErrorTypePublic) {
				c.JSON(resp.Status, resp)
				return
			}
		}
		if last := c.Errors.Last(); last != nil {
			status, msg := httperr.Status(last.Err)
			resp := httperr.Response{Status: status}
			resp.Error.Message = msg
			c.JSON(status, resp)
			return
		}

		if status := c.Writer.Status(); status != http.StatusOK {
			c.Status(status)
			c.Writer.WriteHeaderNow()
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Internal server error"}})
	}
}

func CustomRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				slog.Error("recovered from panic",
					"error", err,
					"path", c.Request.URL.Path,
					"request_id", GetRequestID(c))

				resp := httperr.Response{Status: http.StatusInternalServerError}
				resp.Error.Message = "Internal server error"

				c.AbortWithStatusJSON(http.StatusInternalServerError, resp)
			}
		}()
		c.Next()
	}
}
