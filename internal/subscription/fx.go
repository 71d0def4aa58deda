package subscription

import (
	"github.com/ShreyamKeshri/subsavvyai-sub000/internal/subscription/service"
	"go.uber.org/fx"
)

var Module = fx.Module("subscription.service",
	fx.Provide(service.NewService),
)
