package components

import (
	"parkpass/internal/infra/boltstore"
	"parkpass/internal/infra/changefeed"
	"parkpass/internal/infra/events"
	"parkpass/internal/infra/pgstore"
	"parkpass/internal/infra/readstore"
	"parkpass/internal/infra/repository"
	"parkpass/internal/infra/uow"
	"parkpass/internal/pkg/config"
	"parkpass/internal/usecase/liveview"
	"parkpass/internal/usecase/queries"
	"parkpass/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

// Persistence is everything the use cases need from a store driver.
type Persistence struct {
	UoW      shared.UnitOfWork
	Slots    queries.SlotReadStore
	Bookings queries.BookingReadStore
	Feed     liveview.ChangeFeed
	Outbox   events.OutboxSource
}

type persistenceOut struct {
	fx.Out

	UoW      shared.UnitOfWork
	Slots    queries.SlotReadStore
	Bookings queries.BookingReadStore
	Feed     liveview.ChangeFeed
	Outbox   events.OutboxSource
}

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		func(p Persistence) persistenceOut {
			return persistenceOut{
				UoW:      p.UoW,
				Slots:    p.Slots,
				Bookings: p.Bookings,
				Feed:     p.Feed,
				Outbox:   p.Outbox,
			}
		},
	),
)

func NewPostgresPersistence(pool *pgxpool.Pool, cfg config.Config) Persistence {
	q := pgstore.New(cfg.DB.NotifyChannel)
	policy := uow.RetryPolicy{
		MaxRetries: cfg.Store.MaxTxRetries,
		Base:       cfg.Store.RetryBaseWait,
	}
	return Persistence{
		UoW:      uow.NewPostgresUoW(pool, q, policy),
		Slots:    readstore.NewSlotReadStore(q, pool),
		Bookings: readstore.NewBookingReadStore(q, pool),
		Feed:     changefeed.NewPostgresFeed(cfg.DB),
		Outbox:   repository.NewOutboxStore(q, pool),
	}
}

func NewBoltPersistence(store *boltstore.Store) Persistence {
	return Persistence{
		UoW:      boltstore.NewBoltUoW(store),
		Slots:    boltstore.NewSlotReadStore(store),
		Bookings: boltstore.NewBookingReadStore(store),
		Feed:     store.Feed(),
		Outbox:   boltstore.NewOutboxStore(store),
	}
}
