package usage

import (
	"github.com/ShreyamKeshri/subsavvyai-sub000/internal/usage/service"
	"go.uber.org/fx"
)

var Module = fx.Module("usage.service",
	fx.Provide(service.NewService),
)
