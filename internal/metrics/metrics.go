package metrics

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	sdk "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"

	"github.com/arenax/arenax/internal/build"
	"github.com/arenax/arenax/internal/log"
)

const defaultInterval = 30 * time.Second

// NewProvider builds a meter provider for the configured exporter. It returns
// nil when metrics are disabled.
func NewProvider(cfg Config) (*sdk.MeterProvider, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	exporter, err := newExporter(context.Background(), cfg.Exporter)
	if err != nil {
		return nil, err
	}

	interval := cfg.Interval
	if interval <= 0 {
		interval = defaultInterval
	}

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "arenax"
	}

	return sdk.NewMeterProvider(
		sdk.WithResource(Resource(serviceName)),
		sdk.WithReader(sdk.NewPeriodicReader(exporter, sdk.WithInterval(interval))),
	), nil
}

func newExporter(ctx context.Context, cfg Exporter) (sdk.Exporter, error) {
	switch cfg.Type {
	case "", ExporterStdout:
		return stdoutmetric.New(stdoutmetric.WithWriter(os.Stdout))
	case ExporterOTLPHTTP:
		opts := []otlpmetrichttp.Option{}
		if cfg.Endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(cfg.Endpoint))
		}

		if cfg.Insecure {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		}

		return otlpmetrichttp.New(ctx, opts...)
	case ExporterOTLPGRPC:
		opts := []otlpmetricgrpc.Option{}
		if cfg.Endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(cfg.Endpoint))
		}

		if cfg.Insecure {
			opts = append(opts, otlpmetricgrpc.WithInsecure())
		}

		return otlpmetricgrpc.New(ctx, opts...)
	default:
		return nil, fmt.Errorf("unsupported metrics exporter: %q", cfg.Type)
	}
}

// Resource describes this process to metric backends.
func Resource(serviceName string) *resource.Resource {
	return resource.NewSchemaless(
		attribute.String("service.name", serviceName),
		attribute.String("service.version", build.Version),
	)
}

// SetupMetrics installs provider as the global meter provider.
func SetupMetrics(provider *sdk.MeterProvider, serviceName string) error {
	if provider == nil {
		return nil
	}

	otel.SetMeterProvider(provider)

	log.Info(context.Background(), "metrics enabled",
		log.String("service", serviceName),
		log.String("version", build.Version),
	)

	return nil
}
