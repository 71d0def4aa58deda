package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/ShreyamKeshri/subsavvyai-sub000/internal/bundle"
	"github.com/ShreyamKeshri/subsavvyai-sub000/internal/cache"
	"github.com/ShreyamKeshri/subsavvyai-sub000/internal/config"
	"github.com/ShreyamKeshri/subsavvyai-sub000/internal/expiry"
	"github.com/ShreyamKeshri/subsavvyai-sub000/internal/migration"
	"github.com/ShreyamKeshri/subsavvyai-sub000/internal/observability/logger"
	"github.com/ShreyamKeshri/subsavvyai-sub000/internal/observability/metrics"
	"github.com/ShreyamKeshri/subsavvyai-sub000/internal/observability/tracing"
	"github.com/ShreyamKeshri/subsavvyai-sub000/internal/recommendation"
	"github.com/ShreyamKeshri/subsavvyai-sub000/internal/recommendation/refresh"
	"github.com/ShreyamKeshri/subsavvyai-sub000/internal/seed"
	"github.com/ShreyamKeshri/subsavvyai-sub000/internal/server"
	"github.com/ShreyamKeshri/subsavvyai-sub000/internal/servicematch"
	"github.com/ShreyamKeshri/subsavvyai-sub000/internal/subscription"
	"github.com/ShreyamKeshri/subsavvyai-sub000/internal/usage"
	"github.com/ShreyamKeshri/subsavvyai-sub000/pkg/db"
)

var version = "dev"

func main() {
	// Local development loads .env; deployed environments set vars directly.
	_ = godotenv.Load()

	app := fx.New(
		config.Module,
		logger.Module,
		tracing.Module,
		metrics.Module,
		fx.Provide(func() *snowflake.Node {
			node, err := snowflake.NewNode(1)
			if err != nil {
				panic(err)
			}
			return node
		}),
		db.Module,
		cache.Module,
		servicematch.Module,
		subscription.Module,
		usage.Module,
		recommendation.Module,
		bundle.Module,
		refresh.Module,
		expiry.Module,
		fx.Invoke(func(conn *gorm.DB) error {
			if err := migration.AutoMigrate(conn); err != nil {
				return err
			}
			return seed.EnsureBundleCatalog(conn)
		}),
		server.Module,
	)
	app.Run()
}
