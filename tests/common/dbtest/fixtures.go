//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"parkpass/internal/infra/pgstore"
	"parkpass/tests/common/builder"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// InsertSlot stores an available slot built by b and returns its id.
func InsertSlot(t *testing.T, db pgstore.DBTX, b *builder.SlotBuilder) uuid.UUID {
	t.Helper()

	err := pgstore.New("").CreateSlot(context.Background(), db, b.BuildCreateParams())
	require.NoError(t, err)
	return b.ID
}

// CountBookings returns the number of bookings for a slot.
func CountBookings(t *testing.T, db pgstore.DBTX, slotID uuid.UUID) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(), "SELECT count(*) FROM bookings WHERE slot_id = $1", slotID).Scan(&n)
	require.NoError(t, err)
	return n
}

// CountOutboxEvents returns outbox rows with the routing key, sent or not.
func CountOutboxEvents(t *testing.T, db pgstore.DBTX, routingKey string) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(), "SELECT count(*) FROM event_outbox WHERE routing_key = $1", routingKey).Scan(&n)
	require.NoError(t, err)
	return n
}

// SettlePayment stands in for the payment webhook.
func SettlePayment(t *testing.T, db pgstore.DBTX, bookingID uuid.UUID, status, ref string) {
	t.Helper()

	_, err := db.Exec(context.Background(),
		"UPDATE bookings SET payment_status = $2, payment_ref = $3 WHERE id = $1", bookingID, status, ref)
	require.NoError(t, err)
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('atlas_schema_revisions')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	_, err := pool.Exec(ctx, sqlAny.(string))
	return err
}
