package dependencies

import (
	"go.uber.org/fx"

	"github.com/arenax/arenax/internal/log"
)

var Module = fx.Module("dependencies",
	fx.Provide(log.New),
	fx.Provide(NewStore),
	fx.Provide(NewBus),
	fx.Provide(NewQueryClient),
	fx.Provide(NewPaymentProvider),
	fx.Provide(NewMediaStorage),
	fx.Provide(NewExecutors),
)
