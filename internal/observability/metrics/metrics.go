// Package metrics exposes HTTP and background-worker metrics. The otel
// instruments flow into the process Prometheus registry and are scraped
// from /metrics.
package metrics

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.uber.org/fx"

	"github.com/ShreyamKeshri/subsavvyai-sub000/internal/config"
)

const serviceName = "subsavvy"

var Module = fx.Module("metrics",
	fx.Provide(NewMeterProvider),
	fx.Provide(NewHTTPMetrics),
)

// NewMeterProvider bridges the otel metric SDK into the default Prometheus
// registerer. When metrics are disabled the global provider stays a no-op
// and instruments cost nothing.
func NewMeterProvider(lc fx.Lifecycle, cfg config.Config) (metric.MeterProvider, error) {
	if !cfg.MetricsEnabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := otelprom.New()
	if err != nil {
		return nil, err
	}

	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			attribute.String("service.name", serviceName),
			attribute.String("deployment.environment", cfg.Environment),
		),
	)
	if err != nil {
		return nil, err
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(provider)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return provider.Shutdown(ctx)
		},
	})
	return provider, nil
}
