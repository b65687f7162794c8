package infra

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfig(t, `
app:
  name: "Test"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}

	if cfg.Feed.URL != DefaultFeedURL {
		t.Errorf("Feed.URL = %s", cfg.Feed.URL)
	}
	if len(cfg.Feed.Assets) != 3 || cfg.Feed.Assets[0] != "bitcoin" {
		t.Errorf("Feed.Assets = %v", cfg.Feed.Assets)
	}
	if cfg.Refresh.IntervalSec != 60 {
		t.Errorf("IntervalSec = %d, want default 60", cfg.Refresh.IntervalSec)
	}
	if cfg.Debug.MetricsAddr != "localhost:6061" {
		t.Errorf("MetricsAddr = %s", cfg.Debug.MetricsAddr)
	}
}

func TestLoadConfig_EnvOverridesKey(t *testing.T) {
	path := writeConfig(t, `
api:
  coingecko:
    key: "file-key"
`)

	t.Setenv("NEXUS_COINGECKO_KEY", "env-key")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.API.CoinGecko.Key != "env-key" {
		t.Errorf("Key = %s, env must win over the file", cfg.API.CoinGecko.Key)
	}
}

func TestLoadConfig_RejectsBadFeedURL(t *testing.T) {
	path := writeConfig(t, `
feed:
  url: "https://not-a-websocket"
`)

	if _, err := LoadConfig(path); err == nil {
		t.Error("expected validation error for non-ws feed URL")
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
