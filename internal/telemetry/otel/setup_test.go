package otel

import (
	"context"
	"testing"
)

func TestNewProvidersEmptyEndpoint(t *testing.T) {
	p, err := NewProviders(context.Background(), "", "jorvik", false)
	if err != nil {
		t.Fatalf("NewProviders: %v", err)
	}
	if p.TracerProvider == nil || p.MeterProvider == nil {
		t.Error("empty endpoint should still return usable no-op providers")
	}
	if err := p.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown: %v", err)
	}
}

func TestNewProvidersInvalidEndpoint(t *testing.T) {
	for _, endpoint := range []string{"http://", "://bad"} {
		if _, err := NewProviders(context.Background(), endpoint, "jorvik", false); err == nil {
			t.Errorf("NewProviders(%q) should fail", endpoint)
		}
	}
}
