package recommendation

import (
	"go.uber.org/fx"

	"github.com/ShreyamKeshri/subsavvyai-sub000/internal/recommendation/domain"
	"github.com/ShreyamKeshri/subsavvyai-sub000/internal/recommendation/service"
	"github.com/ShreyamKeshri/subsavvyai-sub000/internal/servicematch"
)

var Module = fx.Module("recommendation.service",
	fx.Provide(func(m *servicematch.Matcher) *service.Generator {
		return service.NewGenerator(m, domain.DefaultDowngradeRules())
	}),
	fx.Provide(service.NewService),
)
