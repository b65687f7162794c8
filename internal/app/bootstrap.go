package app

import (
	"context"
	"fmt"
	"path/filepath"

	"log/slog"

	"github.com/joho/godotenv"

	"github.com/Gem2005/crypto-weather-nexus/internal/domain"
	"github.com/Gem2005/crypto-weather-nexus/internal/infra"
	"github.com/Gem2005/crypto-weather-nexus/internal/infra/coingecko"
	"github.com/Gem2005/crypto-weather-nexus/internal/infra/newsdata"
	"github.com/Gem2005/crypto-weather-nexus/internal/infra/openweather"
	"github.com/Gem2005/crypto-weather-nexus/internal/storage"
	"github.com/Gem2005/crypto-weather-nexus/internal/store"
)

// Bootstrap orchestrates the application startup sequence
type Bootstrap struct {
	Config  *infra.Config
	Prefs   *storage.PrefStore
	Store   *store.Store
	Weather *openweather.Client
	Crypto  *coingecko.Client
	News    *newsdata.Client

	unlock func()
}

// NewBootstrap creates a new Bootstrap instance
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize performs core system initialization (config, DB, store, clients)
func (b *Bootstrap) Initialize(ctx context.Context) error {
	slog.Info("🚀 Bootstrapping Crypto Weather Nexus...")

	// 0. Load .env if present (API keys for local dev)
	if err := godotenv.Load(); err == nil {
		slog.Info("🔑 Loaded environment overrides from .env")
	}

	// 1. Load Config (Dynamic Path Resolution)
	cfg, err := infra.LoadConfig(infra.ResolveConfigPath())
	if err != nil {
		return err // Let main handle the error
	}
	b.Config = cfg

	// 2. Setup Logger
	logger := infra.NewLogger(cfg)
	slog.SetDefault(logger)

	// 3. Workspace layout + singleton lock
	workDir := infra.GetWorkspaceDir()
	dataDir := filepath.Join(workDir, "data")
	if err := infra.EnsureDir(dataDir); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}

	unlock, err := infra.CreateLockFile(workDir)
	if err != nil {
		return err
	}
	b.unlock = unlock

	// 4. Preference store (WAL-mode SQLite key-value)
	prefs, err := storage.NewPrefStore(filepath.Join(dataDir, "prefs.db"))
	if err != nil {
		return err
	}
	b.Prefs = prefs
	slog.Info("✅ Preference store initialized (WAL-mode)",
		slog.String("path", filepath.Join(dataDir, "prefs.db")))

	// 5. State store, seeded with persisted favorites
	b.Store = store.New(prefs)
	cities, cryptos, err := prefs.LoadFavorites(ctx)
	if err != nil {
		slog.Warn("Failed to load persisted favorites, starting empty", slog.Any("error", err))
	} else {
		b.Store.SeedFavorites(cities, cryptos)
		slog.Info("⭐ Favorites restored",
			slog.Int("cities", len(cities)), slog.Int("cryptos", len(cryptos)))
	}

	// 6. Snapshot fetch clients
	b.Weather = openweather.NewClient(cfg.API.OpenWeather.BaseURL, cfg.API.OpenWeather.Key)
	b.Crypto = coingecko.NewClient(cfg.API.CoinGecko.BaseURL, cfg.API.CoinGecko.Key)
	b.News = newsdata.NewClient(cfg.API.NewsData.BaseURL, cfg.API.NewsData.Key)
	slog.Info("✅ Snapshot clients ready")

	return nil
}

// CityIDs returns the supported dashboard cities in display order.
func (b *Bootstrap) CityIDs() []domain.CityID {
	return []domain.CityID{
		openweather.CityNewYork,
		openweather.CityLondon,
		openweather.CityTokyo,
	}
}

// Shutdown releases resources acquired during Initialize.
func (b *Bootstrap) Shutdown() {
	if b.Prefs != nil {
		if err := b.Prefs.Close(); err != nil {
			slog.Warn("Preference store close failed", slog.Any("error", err))
		}
	}
	if b.unlock != nil {
		b.unlock()
	}
}
