package otel_test

import (
	"context"
	"testing"
	"time"

	adapter "github.com/neomorfeo/busops/internal/adapter/otel"
)

func TestSetup_Exporters(t *testing.T) {
	for _, exporter := range []string{adapter.ExporterStdout, adapter.ExporterNone} {
		t.Run(exporter, func(t *testing.T) {
			providers, err := adapter.Setup(context.Background(), adapter.Config{
				ServiceName:    "test",
				ServiceVersion: "0.0.1",
				Environment:    "test",
				Exporter:       exporter,
			})
			if err != nil {
				t.Fatalf("Setup failed: %v", err)
			}

			if err := providers.Shutdown(context.Background()); err != nil {
				t.Fatalf("Shutdown failed: %v", err)
			}
		})
	}
}

func TestSetup_InvalidExporter(t *testing.T) {
	_, err := adapter.Setup(context.Background(), adapter.Config{
		ServiceName:    "test",
		ServiceVersion: "0.0.1",
		Environment:    "test",
		Exporter:       "invalid",
	})
	if err == nil {
		t.Fatal("expected error for invalid exporter")
	}
}

func TestConfigFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{
		"OTEL_SERVICE_NAME", "OTEL_SERVICE_VERSION", "OTEL_ENVIRONMENT",
		"OTEL_EXPORTER", "OTEL_METRIC_INTERVAL",
	} {
		t.Setenv(key, "")
	}

	cfg := adapter.ConfigFromEnv()

	if cfg.ServiceName != "busops" {
		t.Errorf("ServiceName = %q, want %q", cfg.ServiceName, "busops")
	}
	if cfg.ServiceVersion != "0.1.0" {
		t.Errorf("ServiceVersion = %q, want %q", cfg.ServiceVersion, "0.1.0")
	}
	if cfg.Environment != "development" {
		t.Errorf("Environment = %q, want %q", cfg.Environment, "development")
	}
	if cfg.Exporter != adapter.ExporterStdout {
		t.Errorf("Exporter = %q, want %q", cfg.Exporter, adapter.ExporterStdout)
	}
	if !cfg.Insecure {
		t.Error("Insecure should default to true in development")
	}
	if cfg.MetricInterval != time.Minute {
		t.Errorf("MetricInterval = %s, want 1m", cfg.MetricInterval)
	}
}

func TestConfigFromEnv_CustomValues(t *testing.T) {
	t.Setenv("OTEL_SERVICE_NAME", "custom-service")
	t.Setenv("OTEL_SERVICE_VERSION", "1.0.0")
	t.Setenv("OTEL_ENVIRONMENT", "production")
	t.Setenv("OTEL_EXPORTER", "otlp")
	t.Setenv("OTEL_METRIC_INTERVAL", "15s")

	cfg := adapter.ConfigFromEnv()

	if cfg.ServiceName != "custom-service" {
		t.Errorf("ServiceName = %q, want %q", cfg.ServiceName, "custom-service")
	}
	if cfg.ServiceVersion != "1.0.0" {
		t.Errorf("ServiceVersion = %q, want %q", cfg.ServiceVersion, "1.0.0")
	}
	if cfg.Environment != "production" {
		t.Errorf("Environment = %q, want %q", cfg.Environment, "production")
	}
	if cfg.Exporter != adapter.ExporterOTLP {
		t.Errorf("Exporter = %q, want %q", cfg.Exporter, adapter.ExporterOTLP)
	}
	if cfg.Insecure {
		t.Error("Insecure should be false outside development")
	}
	if cfg.MetricInterval != 15*time.Second {
		t.Errorf("MetricInterval = %s, want 15s", cfg.MetricInterval)
	}
}
