package biz

import (
	"context"

	"go.uber.org/fx"
)

var Module = fx.Module("biz",
	fx.Provide(NewTournamentService),
	fx.Provide(NewPaymentService),
	fx.Provide(NewMediaService),
	fx.Provide(NewSessionService),
	fx.Provide(NewAuthService),
	fx.Invoke(func(lc fx.Lifecycle, svc *TournamentService) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				return svc.Start(ctx)
			},
			OnStop: func(ctx context.Context) error {
				return svc.Stop(ctx)
			},
		})
	}),
	fx.Invoke(func(lc fx.Lifecycle, svc *PaymentService) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				return svc.Start(ctx)
			},
		})
	}),
	fx.Invoke(func(lc fx.Lifecycle, svc *SessionService) {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				svc.Stop()
				return nil
			},
		})
	}),
)
