package bundle

import (
	"github.com/ShreyamKeshri/subsavvyai-sub000/internal/bundle/service"
	"go.uber.org/fx"
)

var Module = fx.Module("bundle.service",
	fx.Provide(service.NewService),
)
