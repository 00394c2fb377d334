package changefeed

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"parkpass/internal/infra/pgstore"
	"parkpass/internal/pkg/config"
	"parkpass/internal/pkg/errs"
	"parkpass/internal/usecase/liveview"

	"github.com/lib/pq"
)

const (
	minReconnectInterval = 100 * time.Millisecond
	maxReconnectInterval = 30 * time.Second
	pingInterval         = 60 * time.Second
)

// PostgresFeed turns NOTIFY messages written by pgstore into live view
// change signals. pgx pools do not hold a dedicated LISTEN connection, so
// the feed keeps its own through pq.Listener.
type PostgresFeed struct {
	dsn     string
	channel string
}

func NewPostgresFeed(cfg config.DBConfig) *PostgresFeed {
	return &PostgresFeed{
		dsn:     cfg.BuildDSN(),
		channel: cfg.NotifyChannel,
	}
}

func (f *PostgresFeed) Run(ctx context.Context, emit func(liveview.Change)) error {
	listener := pq.NewListener(f.dsn, minReconnectInterval, maxReconnectInterval,
		func(ev pq.ListenerEventType, err error) {
			if c, ok := eventChange(ev, err); ok {
				emit(c)
			}
		})
	defer func() {
		if err := listener.Close(); err != nil {
			slog.Warn("change feed listener close failed", "error", err.Error())
		}
	}()

	if err := listener.Listen(f.channel); err != nil {
		return errs.Wrapf(err, "listen on %s", f.channel)
	}
	slog.Info("change feed listening", "channel", f.channel)

	emit(liveview.Resync())

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case n := <-listener.Notify:
			emit(decodeNotification(n))
		case <-ticker.C:
			go func() {
				if err := listener.Ping(); err != nil {
					slog.Debug("change feed ping failed", "error", err.Error())
				}
			}()
		}
	}
}

// eventChange maps listener connection events onto change signals.
// Notifications sent while disconnected are lost, so a reconnect forces a
// resync; the nil notification pq sends afterwards is handled the same way.
func eventChange(ev pq.ListenerEventType, err error) (liveview.Change, bool) {
	switch ev {
	case pq.ListenerEventDisconnected, pq.ListenerEventConnectionAttemptFailed:
		if err == nil {
			err = errs.New("change feed disconnected")
		}
		return liveview.Change{Err: errs.Mark(errs.Wrap(err, "change feed"), errs.ErrStoreUnavailable)}, true
	case pq.ListenerEventReconnected:
		slog.Info("change feed reconnected")
		return liveview.Resync(), true
	default:
		return liveview.Change{}, false
	}
}

// decodeNotification never fails: an unreadable payload still means
// something changed, so it degrades to a resync.
func decodeNotification(n *pq.Notification) liveview.Change {
	if n == nil {
		return liveview.Resync()
	}
	var p pgstore.ChangePayload
	if err := json.Unmarshal([]byte(n.Extra), &p); err != nil {
		slog.Warn("undecodable change notification", "payload", n.Extra, "error", err.Error())
		return liveview.Resync()
	}
	switch p.Collection {
	case pgstore.CollectionSlots:
		return liveview.Change{Collection: liveview.CollectionSlots, ID: p.ID}
	case pgstore.CollectionBookings:
		return liveview.Change{Collection: liveview.CollectionBookings, ID: p.ID, UserID: p.UserID}
	default:
		return liveview.Resync()
	}
}
