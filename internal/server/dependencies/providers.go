package dependencies

import (
	"context"

	"go.uber.org/fx"

	"github.com/arenax/arenax/internal/media"
	"github.com/arenax/arenax/internal/payment"
	"github.com/arenax/arenax/internal/pkg/querycache"
)

func NewQueryClient(lc fx.Lifecycle, opts querycache.Options) *querycache.Client {
	client := querycache.New(opts)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			client.Stop()
			return nil
		},
	})

	return client
}

// NewPaymentProvider uses the proxy and timeout of the payment config.
func NewPaymentProvider(cfg payment.Config) payment.Provider {
	return payment.NewClient(cfg, nil)
}

func NewMediaStorage(cfg media.StorageConfig) (*media.Storage, error) {
	return media.NewStorage(context.Background(), cfg)
}
