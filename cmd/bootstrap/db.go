package bootstrap

import (
	"context"

	"parkpass/cmd/bootstrap/components"
	"parkpass/internal/infra/boltstore"
	"parkpass/internal/infra/db"
	"parkpass/internal/pkg/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

// NewDB opens the PostgreSQL pool; the pool is closed on stop.
func NewDB(lc fx.Lifecycle, cfg config.Config) (*pgxpool.Pool, error) {
	pool, cleanup, err := db.Connect(cfg.DB)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			if cleanup != nil {
				cleanup()
			}
			return nil
		},
	})

	return pool, nil
}

// NewBoltStore opens the embedded store file; it is closed on stop.
func NewBoltStore(lc fx.Lifecycle, cfg config.Config) (*boltstore.Store, error) {
	store, err := boltstore.Open(cfg.Bolt.Path)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return store.Close()
		},
	})

	return store, nil
}

var DBModule = fx.Module("db",
	fx.Provide(
		NewStore,
	),
)

// NewStore opens the backend selected by STORE_DRIVER.
func NewStore(lc fx.Lifecycle, cfg config.Config) (components.Persistence, error) {
	if cfg.Store.UsesPostgres() {
		pool, err := NewDB(lc, cfg)
		if err != nil {
			return components.Persistence{}, err
		}
		return components.NewPostgresPersistence(pool, cfg), nil
	}

	store, err := NewBoltStore(lc, cfg)
	if err != nil {
		return components.Persistence{}, err
	}
	return components.NewBoltPersistence(store), nil
}
