package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/citylink/pkg/record"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeFile(t, "citylink.toml", `
[dashboard]
page_size = 25
top_n = 30
rank_field = "growthPct"

[dashboard.scales]
palette = "dark2"

[render]
title = "Fastest Growing Cities"
formats = ["svg", "html"]

[server]
addr = ":9090"
session_ttl = "1h"

[cache]
redis = "redis://localhost:6379/0"
`)

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.Dashboard.PageSize != 25 || cfg.Dashboard.TopN != 30 {
		t.Errorf("dashboard = %+v", cfg.Dashboard)
	}
	if cfg.Dashboard.RankField != record.GrowthPercent {
		t.Errorf("RankField = %v, want growthPct", cfg.Dashboard.RankField)
	}
	if cfg.Dashboard.Scales.Palette != "dark2" {
		t.Errorf("Palette = %q, want dark2", cfg.Dashboard.Scales.Palette)
	}
	if cfg.Render.Title != "Fastest Growing Cities" || len(cfg.Render.Formats) != 2 {
		t.Errorf("render = %+v", cfg.Render)
	}
	if cfg.Server.Addr != ":9090" || cfg.Server.SessionTTL != time.Hour {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Cache.Redis != "redis://localhost:6379/0" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown key", "[dashboard]\npage_sise = 10\n"},
		{"bad rank field", "[dashboard]\nrank_field = \"area\"\n"},
		{"syntax", "[dashboard\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := loadConfig(writeFile(t, "bad.toml", tt.content)); err == nil {
				t.Error("loadConfig() should fail")
			}
		})
	}

	if _, err := loadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("explicit missing config should fail")
	}
}

func TestLoadConfigDefaultMissing(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig(\"\") error: %v", err)
	}
	if cfg.Dashboard.PageSize != 0 || cfg.Cache.Redis != "" {
		t.Errorf("missing default config should yield zero Config, got %+v", cfg)
	}
}
