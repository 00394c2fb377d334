package request

import "time"

// QuoteQuery binds RFC 3339 timestamps from the query string.
type QuoteQuery struct {
	Start time.Time `form:"start" binding:"required"`
	End   time.Time `form:"end" binding:"required"`
}
