package queries

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"parkpass/internal/pkg/errs"

	"github.com/google/uuid"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 200
	CursorVersionV1  = "v1"
)

// Keyset is the (created_at, id) position a page continues after.
type Keyset struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

type Cursor struct {
	After string `json:"after,omitempty"`
}

// Uses microsecond precision to align with PostgreSQL timestamp precision
func EncodeAfterCursor(t time.Time, id uuid.UUID) string {
	cursorData := fmt.Sprintf("%s:%d-%s", CursorVersionV1, t.UnixMicro(), id.String())
	return base64.URLEncoding.EncodeToString([]byte(cursorData))
}

func DecodeAfterCursor(cursor string) (time.Time, uuid.UUID, error) {
	if cursor == "" {
		return time.Time{}, uuid.Nil, errs.Mark(errs.New("cursor cannot be empty"), errs.ErrInvalidCursor)
	}

	decoded, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return time.Time{}, uuid.Nil, errs.Mark(errs.Wrap(err, "cursor is not base64url"), errs.ErrInvalidCursor)
	}

	payload, ok := strings.CutPrefix(string(decoded), CursorVersionV1+":")
	if !ok {
		return time.Time{}, uuid.Nil, errs.Mark(errs.New("unsupported cursor version"), errs.ErrInvalidCursor)
	}

	parts := strings.SplitN(payload, "-", 2)
	if len(parts) != 2 {
		return time.Time{}, uuid.Nil, errs.Mark(errs.New("invalid cursor format: expected '<micros>-<uuid>'"), errs.ErrInvalidCursor)
	}

	micros, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return time.Time{}, uuid.Nil, errs.Mark(errs.Wrap(err, "invalid timestamp"), errs.ErrInvalidCursor)
	}

	id, err := uuid.Parse(parts[1])
	if err != nil {
		return time.Time{}, uuid.Nil, errs.Mark(errs.Wrap(err, "invalid UUID"), errs.ErrInvalidCursor)
	}

	return time.UnixMicro(micros).UTC(), id, nil
}

// keysetFrom returns nil for the first page.
func keysetFrom(cursor *Cursor) (*Keyset, error) {
	if cursor == nil || cursor.After == "" {
		return nil, nil
	}
	t, id, err := DecodeAfterCursor(cursor.After)
	if err != nil {
		return nil, err
	}
	return &Keyset{CreatedAt: t, ID: id}, nil
}

func ValidateLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
