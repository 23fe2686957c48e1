package tracing

import (
	"context"
	"testing"
	"time"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestNewProvider_Disabled(t *testing.T) {
	provider, err := NewProvider(Config{ServiceName: "places-api", Enabled: false})
	if err != nil {
		t.Fatalf("expected no error for disabled tracing, got %v", err)
	}
	if provider.IsEnabled() {
		t.Error("expected tracing to be disabled")
	}
	if err := provider.Shutdown(context.Background()); err != nil {
		t.Errorf("unexpected error shutting down disabled provider: %v", err)
	}
}

func TestNewProvider_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"missing service name", Config{Enabled: true, SamplingRate: 0.1}},
		{"negative sampling rate", Config{ServiceName: "places-api", Enabled: true, SamplingRate: -0.1}},
		{"sampling rate above 1", Config{ServiceName: "places-api", Enabled: true, SamplingRate: 1.5}},
		{"unsupported exporter", Config{ServiceName: "places-api", Enabled: true, ExporterType: "zipkin", SamplingRate: 0.1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewProvider(tt.cfg); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestNewProvider_ValidConfig(t *testing.T) {
	for _, exporter := range []string{ExporterOTLPHTTP, ExporterOTLPGRPC, ""} {
		t.Run("exporter "+exporter, func(t *testing.T) {
			provider, err := NewProvider(Config{
				ServiceName:  "places-api",
				Enabled:      true,
				Environment:  "test",
				ExporterType: exporter,
				OTLPEndpoint: "localhost:4318",
				SamplingRate: 0.0,
				InsecureMode: true,
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !provider.IsEnabled() {
				t.Error("expected tracing to be enabled")
			}

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := provider.Shutdown(ctx); err != nil {
				t.Errorf("unexpected shutdown error: %v", err)
			}
		})
	}
}

func TestSamplerFor(t *testing.T) {
	if got := samplerFor(1.0).Description(); got != sdktrace.AlwaysSample().Description() {
		t.Errorf("rate 1.0: got sampler %q", got)
	}
	if got := samplerFor(0.0).Description(); got != sdktrace.NeverSample().Description() {
		t.Errorf("rate 0.0: got sampler %q", got)
	}
	want := sdktrace.ParentBased(sdktrace.TraceIDRatioBased(0.25)).Description()
	if got := samplerFor(0.25).Description(); got != want {
		t.Errorf("rate 0.25: got sampler %q, want %q", got, want)
	}
}
