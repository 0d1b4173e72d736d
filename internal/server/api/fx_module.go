package api

import "go.uber.org/fx"

var Module = fx.Module("api",
	fx.Provide(NewSystemHandlers),
	fx.Provide(NewAuthHandlers),
	fx.Provide(NewTournamentHandlers),
	fx.Provide(NewPaymentHandlers),
	fx.Provide(NewMediaHandlers),
	fx.Provide(NewEventsHandlers),
)
