package dependencies

import (
	"context"

	"go.uber.org/fx"

	"github.com/arenax/arenax/internal/log"
	"github.com/arenax/arenax/internal/server/db"
)

func NewStore(lc fx.Lifecycle, cfg db.Config) (*db.Store, error) {
	store, err := db.Open(context.Background(), cfg)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if err := store.Close(); err != nil {
				log.Error(ctx, "database close error", log.Cause(err))
				return err
			}

			return nil
		},
	})

	return store, nil
}
