package dependencies

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/arenax/arenax/internal/eventbus"
	"github.com/arenax/arenax/internal/log"
	"github.com/arenax/arenax/internal/pkg/xredis"
)

// NewBus creates the process-wide bus. In redis mode it is bridged to the
// other instances through pub/sub.
func NewBus(lc fx.Lifecycle, cfg eventbus.Config) (*eventbus.Bus, error) {
	bus := eventbus.New("arenax")

	switch cfg.Mode {
	case "", eventbus.ModeMemory:
		return bus, nil
	case eventbus.ModeRedis:
	default:
		return nil, fmt.Errorf("unsupported eventbus mode: %q", cfg.Mode)
	}

	client, err := xredis.NewClient(context.Background(), cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("eventbus redis: %w", err)
	}

	bridge, err := eventbus.NewBridge(bus, client, eventbus.BridgeOptions{Channel: cfg.Channel})
	if err != nil {
		_ = client.Close()
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return bridge.Start(ctx)
		},
		OnStop: func(ctx context.Context) error {
			return stopBridge(ctx, bridge, client)
		},
	})

	return bus, nil
}

func stopBridge(ctx context.Context, bridge *eventbus.Bridge, client *redis.Client) error {
	var result error

	if err := bridge.Stop(ctx); err != nil {
		result = multierror.Append(result, fmt.Errorf("stop bridge: %w", err))
	}

	if err := client.Close(); err != nil {
		result = multierror.Append(result, fmt.Errorf("close redis: %w", err))
	}

	if result != nil {
		log.Error(ctx, "eventbus shutdown error", log.Cause(result))
	}

	return result
}
