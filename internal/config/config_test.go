package config

import (
	"os"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg == nil {
		t.Fatal("Load returned nil config")
	}
	if cfg.DatabaseURL != "" {
		t.Errorf("DatabaseURL = %q, want empty default", cfg.DatabaseURL)
	}
	if cfg.OTLPEndpoint != "" {
		t.Errorf("OTLPEndpoint = %q, want empty default", cfg.OTLPEndpoint)
	}
	if cfg.OTLPInsecure {
		t.Error("OTLPInsecure should default to false")
	}
	if cfg.AuthzMaxExpandDepth != 0 {
		t.Errorf("AuthzMaxExpandDepth = %d, want 0", cfg.AuthzMaxExpandDepth)
	}
	if cfg.HierarchyMaxDepth != 0 {
		t.Errorf("HierarchyMaxDepth = %d, want 0", cfg.HierarchyMaxDepth)
	}
}

func TestLoad_EnvVarOverride(t *testing.T) {
	os.Clearenv()
	os.Setenv("DATABASE_URL", "postgres://localhost:5432/jorvik")
	os.Setenv("APP_ENV", "production")
	os.Setenv("OTLP_ENDPOINT", "http://collector:4317")
	os.Setenv("AUTHZ_MAX_EXPAND_DEPTH", "16")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DatabaseURL != "postgres://localhost:5432/jorvik" {
		t.Errorf("DatabaseURL = %q", cfg.DatabaseURL)
	}
	if cfg.Env != "production" {
		t.Errorf("Env = %q, want %q", cfg.Env, "production")
	}
	if cfg.OTLPEndpoint != "http://collector:4317" {
		t.Errorf("OTLPEndpoint = %q", cfg.OTLPEndpoint)
	}
	if cfg.AuthzMaxExpandDepth != 16 {
		t.Errorf("AuthzMaxExpandDepth = %d, want 16", cfg.AuthzMaxExpandDepth)
	}
}

func TestLoad_NegativeDepthRejected(t *testing.T) {
	cases := []string{"AUTHZ_MAX_EXPAND_DEPTH", "HIERARCHY_MAX_DEPTH"}
	for _, key := range cases {
		t.Run(key, func(t *testing.T) {
			os.Clearenv()
			os.Setenv(key, "-1")

			cfg, err := Load()
			if err == nil {
				t.Fatalf("Load should reject negative %s", key)
			}
			if cfg != nil {
				t.Error("Load should return nil config on error")
			}
		})
	}
}
