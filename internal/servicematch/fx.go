package servicematch

import (
	"go.uber.org/fx"

	"github.com/ShreyamKeshri/subsavvyai-sub000/internal/config"
)

var Module = fx.Module("servicematch",
	fx.Provide(func(cfg config.Config) (*Matcher, error) {
		table, err := LoadAliasTable(cfg.AliasTablePath)
		if err != nil {
			return nil, err
		}
		return NewMatcher(table), nil
	}),
)
