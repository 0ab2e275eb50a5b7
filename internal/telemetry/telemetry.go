// Package telemetry wires OpenTelemetry tracing for the interview pipeline.
package telemetry

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"gopkg.in/yaml.v3"

	"github.com/dverbeek/mockmate/internal/core"
)

func init() {
	core.RegisterModule(&Tracing{})
}

// Tracing is the telemetry module. When enabled it installs a global tracer
// provider exporting spans over OTLP/HTTP; when disabled the default no-op
// provider stays in place and spans cost nothing.
type Tracing struct {
	config   Config
	logger   *slog.Logger
	provider *sdktrace.TracerProvider
}

// Config holds tracing configuration.
type Config struct {
	Enabled     bool    `yaml:"enabled"`
	Endpoint    string  `yaml:"endpoint"`
	Insecure    bool    `yaml:"insecure"`
	ServiceName string  `yaml:"service_name"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

func (c *Config) defaults() {
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4318"
	}
	if c.ServiceName == "" {
		c.ServiceName = "mockmate"
	}
	if c.SampleRatio <= 0 || c.SampleRatio > 1 {
		c.SampleRatio = 1
	}
}

// ModuleInfo implements core.Module.
func (t *Tracing) ModuleInfo() core.ModuleInfo {
	return core.ModuleInfo{
		ID:  "telemetry.tracing",
		New: func() core.Module { return &Tracing{} },
	}
}

// Configure implements core.Configurable.
func (t *Tracing) Configure(node *yaml.Node) error {
	if err := node.Decode(&t.config); err != nil {
		return err
	}
	t.config.defaults()
	return nil
}

// Provision implements core.Provisioner.
func (t *Tracing) Provision(ctx *core.AppContext) error {
	t.logger = ctx.Logger
	return nil
}

// Start implements core.Starter.
func (t *Tracing) Start() error {
	if !t.config.Enabled {
		t.logger.Debug("tracing disabled")
		return nil
	}

	ctx := context.Background()

	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(t.config.Endpoint)}
	if t.config.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return fmt.Errorf("telemetry: creating trace exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(t.config.ServiceName),
		),
	)
	if err != nil {
		return fmt.Errorf("telemetry: creating resource: %w", err)
	}

	t.provider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(t.config.SampleRatio))),
	)
	otel.SetTracerProvider(t.provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	t.logger.Info("tracing enabled",
		"endpoint", t.config.Endpoint,
		"service", t.config.ServiceName,
		"sample_ratio", t.config.SampleRatio,
	)
	return nil
}

// Stop implements core.Stopper. It flushes pending spans.
func (t *Tracing) Stop(ctx context.Context) error {
	if t.provider == nil {
		return nil
	}
	return t.provider.Shutdown(ctx)
}

// Interface guards.
var (
	_ core.Module       = (*Tracing)(nil)
	_ core.Configurable = (*Tracing)(nil)
	_ core.Provisioner  = (*Tracing)(nil)
	_ core.Starter      = (*Tracing)(nil)
	_ core.Stopper      = (*Tracing)(nil)
)
