package telemetry

import (
	"context"
	"testing"
)

func TestSetupNoopWhenDisabled(t *testing.T) {
	shutdown, err := Setup(context.Background(), Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := shutdown(ctx); err != nil {
		t.Fatalf("noop shutdown should not error: %v", err)
	}
}

func TestConfigEnabled(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want bool
	}{
		{"empty", Config{}, false},
		{"endpoint", Config{Endpoint: "http://localhost:4318"}, true},
		{"honeycomb key", Config{HoneycombKey: "abc"}, true},
		{"dataset only", Config{HoneycombDataset: "fights"}, false},
	}

	for _, tt := range tests {
		if got := tt.cfg.Enabled(); got != tt.want {
			t.Errorf("%s: Enabled() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestHoneycombHeaders(t *testing.T) {
	if h := (Config{Endpoint: "http://x"}).headers(); h != nil {
		t.Errorf("Expected no headers without a key, got %v", h)
	}

	h := Config{HoneycombKey: "abc"}.headers()
	if h["x-honeycomb-team"] != "abc" {
		t.Errorf("team header = %q, want %q", h["x-honeycomb-team"], "abc")
	}
	if h["x-honeycomb-dataset"] != "duelsim" {
		t.Errorf("dataset header = %q, want default %q", h["x-honeycomb-dataset"], "duelsim")
	}
}

func TestTracerWithoutSetupIsNoop(t *testing.T) {
	_, span := Tracer("test").Start(context.Background(), "test.span")
	if span.SpanContext().IsValid() {
		t.Error("Expected a no-op span before Setup registers a provider")
	}
	span.End()
}
