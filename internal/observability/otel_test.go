package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/tbourn/go-dog-catalog/internal/config"
)

func restoreGlobals(t *testing.T) {
	t.Helper()
	prevTP, prevProp := otel.GetTracerProvider(), otel.GetTextMapPropagator()
	t.Cleanup(func() {
		otel.SetTracerProvider(prevTP)
		otel.SetTextMapPropagator(prevProp)
	})
}

func catalogOTEL(name string, insecure bool) config.OTELConfig {
	return config.OTELConfig{
		Enabled:     true,
		Insecure:    insecure,
		Endpoint:    "localhost:4317",
		ServiceName: name,
		SampleRatio: 1.0,
	}
}

func TestSetupOTel_EnabledInstallsSDKProvider(t *testing.T) {
	for _, tc := range []struct {
		name     string
		insecure bool
	}{
		{"dog-catalog", true},
		{"dog-catalog-bot", false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			restoreGlobals(t)

			shutdown, err := SetupOTel(context.Background(), catalogOTEL(tc.name, tc.insecure), "dev")
			if err != nil {
				t.Fatalf("SetupOTel: %v", err)
			}
			if _, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider); !ok {
				t.Fatalf("provider = %T; want *sdktrace.TracerProvider", otel.GetTracerProvider())
			}
			_, span := otel.Tracer("cache").Start(context.Background(), "cache.get")
			if !span.SpanContext().IsSampled() {
				t.Fatal("ratio 1.0 should sample every root span")
			}
			span.End()

			ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
			defer cancel()
			if err := shutdown(ctx); err != nil {
				t.Fatalf("shutdown: %v", err)
			}
		})
	}
}

func TestSetupOTel_DisabledKeepsNoopProvider(t *testing.T) {
	restoreGlobals(t)

	shutdown, err := SetupOTel(context.Background(), config.OTELConfig{ServiceName: "dog-catalog"}, "dev")
	if err != nil {
		t.Fatalf("SetupOTel: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("noop shutdown: %v", err)
	}
	if _, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider); ok {
		t.Fatal("disabled tracing must not install an SDK provider")
	}
}

func TestSetupOTel_FailuresLeaveGlobalsAlone(t *testing.T) {
	exporterErr := errors.New("exporter unavailable")
	resourceErr := errors.New("resource detection failed")

	for _, tc := range []struct {
		name string
		swap func(t *testing.T)
		want error
	}{
		{"exporter", func(t *testing.T) {
			orig := newTraceExporter
			t.Cleanup(func() { newTraceExporter = orig })
			newTraceExporter = func(context.Context, otlptrace.Client) (*otlptrace.Exporter, error) {
				return nil, exporterErr
			}
		}, exporterErr},
		{"resource", func(t *testing.T) {
			orig := newServiceResource
			t.Cleanup(func() { newServiceResource = orig })
			newServiceResource = func(context.Context, string, string) (*resource.Resource, error) {
				return nil, resourceErr
			}
		}, resourceErr},
	} {
		t.Run(tc.name, func(t *testing.T) {
			restoreGlobals(t)
			tc.swap(t)
			prevTP := otel.GetTracerProvider()

			if _, err := SetupOTel(context.Background(), catalogOTEL("dog-catalog", true), "dev"); !errors.Is(err, tc.want) {
				t.Fatalf("err = %v; want %v", err, tc.want)
			}
			if otel.GetTracerProvider() != prevTP {
				t.Fatal("tracer provider replaced on failure")
			}
		})
	}
}
