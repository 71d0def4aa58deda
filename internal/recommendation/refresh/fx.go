package refresh

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	bundledomain "github.com/ShreyamKeshri/subsavvyai-sub000/internal/bundle/domain"
	"github.com/ShreyamKeshri/subsavvyai-sub000/internal/config"
	recdomain "github.com/ShreyamKeshri/subsavvyai-sub000/internal/recommendation/domain"
)

var Module = fx.Module("recommendation.refresh",
	fx.Provide(func(recSvc recdomain.Service, bundleSvc bundledomain.Service) Runner {
		return NewRunner(recSvc, bundleSvc)
	}),
	fx.Provide(func(lc fx.Lifecycle, cfg config.Config, log *zap.Logger, runner Runner) *Debouncer {
		debouncer := NewDebouncer(Config{
			Window: time.Duration(cfg.RefreshDebounceMS) * time.Millisecond,
		}, log, runner)

		lc.Append(fx.Hook{
			OnStop: func(context.Context) error {
				debouncer.Stop()
				return nil
			},
		})
		return debouncer
	}),
)
