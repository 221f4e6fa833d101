package config

import (
	"encoding/json"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.API.PageSize != 10 {
		t.Errorf("expected default page size 10, got %d", cfg.API.PageSize)
	}
	if cfg.API.DefaultCollection != "news" {
		t.Errorf("expected default collection news, got %q", cfg.API.DefaultCollection)
	}
	if !cfg.Cache.Enabled {
		t.Error("expected cache enabled by default")
	}
}

func TestFillZeroes(t *testing.T) {
	var cfg Config
	if err := json.Unmarshal([]byte(`{"api": {"base_url": "https://school.example"}}`), &cfg); err != nil {
		t.Fatal(err)
	}
	cfg.fillZeroes()

	if cfg.API.BaseURL != "https://school.example" {
		t.Errorf("explicit value overwritten: %q", cfg.API.BaseURL)
	}
	if cfg.API.PageSize != 10 || cfg.API.TimeoutSeconds != 15 {
		t.Errorf("missing fields not defaulted: %+v", cfg.API)
	}
	if cfg.UI.TagColors == nil {
		t.Error("expected tag color map initialized")
	}
}
