// Package server exposes the engine over HTTP. Authentication lives in the
// gateway in front of this service; requests arrive with a resolved user ID
// header.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	bundledomain "github.com/ShreyamKeshri/subsavvyai-sub000/internal/bundle/domain"
	"github.com/ShreyamKeshri/subsavvyai-sub000/internal/config"
	"github.com/ShreyamKeshri/subsavvyai-sub000/internal/observability/logger"
	"github.com/ShreyamKeshri/subsavvyai-sub000/internal/observability/metrics"
	"github.com/ShreyamKeshri/subsavvyai-sub000/internal/observability/tracing"
	recdomain "github.com/ShreyamKeshri/subsavvyai-sub000/internal/recommendation/domain"
	"github.com/ShreyamKeshri/subsavvyai-sub000/internal/recommendation/refresh"
	subscriptiondomain "github.com/ShreyamKeshri/subsavvyai-sub000/internal/subscription/domain"
	usagedomain "github.com/ShreyamKeshri/subsavvyai-sub000/internal/usage/domain"
)

var Module = fx.Module("server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(func(s *Server) { s.RegisterAPIRoutes() }),
	fx.Invoke(RunHTTP),
)

type ServerParam struct {
	fx.In

	Config    config.Config
	DB        *gorm.DB
	Log       *zap.Logger
	Engine    *gin.Engine
	RecSvc    recdomain.Service
	BundleSvc bundledomain.Service
	SubSvc    subscriptiondomain.Service
	UsageSvc  usagedomain.Service
	Debouncer *refresh.Debouncer
}

type Server struct {
	cfg    config.Config
	db     *gorm.DB
	log    *zap.Logger
	engine *gin.Engine

	recSvc    recdomain.Service
	bundleSvc bundledomain.Service
	subSvc    subscriptiondomain.Service
	usageSvc  usagedomain.Service
	debouncer *refresh.Debouncer
}

func NewEngine(cfg config.Config, httpMetrics *metrics.HTTPMetrics) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(tracing.GinMiddleware())
	engine.Use(metrics.GinMiddleware(httpMetrics))
	engine.Use(logger.GinMiddleware(logger.MiddlewareConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	return engine
}

func NewServer(p ServerParam) *Server {
	return &Server{
		cfg:    p.Config,
		db:     p.DB,
		log:    p.Log.Named("server"),
		engine: p.Engine,

		recSvc:    p.RecSvc,
		bundleSvc: p.BundleSvc,
		subSvc:    p.SubSvc,
		usageSvc:  p.UsageSvc,
		debouncer: p.Debouncer,
	}
}

func (s *Server) RegisterAPIRoutes() {
	s.engine.GET("/healthz", s.Healthz)
	if s.cfg.MetricsEnabled {
		s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	api := s.engine.Group("/api", s.RequireUser())
	{
		api.GET("/recommendations", s.ListRecommendations)
		api.POST("/recommendations/refresh", s.TriggerRefresh)
		api.POST("/recommendations/:id/status", s.UpdateRecommendationStatus)

		api.GET("/bundles/matches", s.FindBundleMatches)
		api.GET("/bundles/recommendations", s.ListBundleRecommendations)
		api.POST("/bundles/recommendations/:id/click", s.ClickBundleRecommendation)
		api.POST("/bundles/recommendations/:id/status", s.UpdateBundleRecommendationStatus)

		api.GET("/savings/summary", s.SavingsSummary)

		api.POST("/usage", s.RecordUsage)
		api.POST("/subscriptions/:id/optimize", s.MarkSubscriptionOptimized)
		api.POST("/subscriptions/:id/cancel", s.InitiateCancellation)
	}
}

func (s *Server) Healthz(c *gin.Context) {
	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// RunHTTP starts the HTTP listener under the fx lifecycle.
func RunHTTP(lc fx.Lifecycle, cfg config.Config, log *zap.Logger, engine *gin.Engine) {
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", srv.Addr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
