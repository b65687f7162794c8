package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Gem2005/crypto-weather-nexus/internal/domain"
	"github.com/Gem2005/crypto-weather-nexus/internal/event"
	"github.com/Gem2005/crypto-weather-nexus/internal/infra"
)

// WeatherFetcher provides weather snapshots for supported station ids.
type WeatherFetcher interface {
	CurrentWeather(ctx context.Context, id domain.CityID) (domain.City, error)
	History(ctx context.Context, id domain.CityID) ([]domain.WeatherPoint, error)
}

// CryptoFetcher provides crypto market snapshots.
type CryptoFetcher interface {
	Markets(ctx context.Context) ([]domain.Crypto, error)
	Detail(ctx context.Context, assetID string) (domain.Crypto, error)
	History(ctx context.Context, assetID string) ([]domain.PricePoint, error)
}

// NewsFetcher provides news snapshots.
type NewsFetcher interface {
	Headlines(ctx context.Context) ([]domain.NewsItem, error)
}

// Dispatcher receives the typed actions produced by fetch cycles.
type Dispatcher interface {
	Dispatch(event.Action)
}

// Refresher periodically re-invokes the three snapshot fetchers,
// independent of the streaming client's lifecycle. All three fire once
// immediately at startup, then on a fixed interval. There is no
// backoff, no jitter, and no de-duplication with in-flight requests:
// overlapping fetches for the same domain race and the last response
// to resolve wins.
type Refresher struct {
	dispatcher Dispatcher
	weather    WeatherFetcher
	crypto     CryptoFetcher
	news       NewsFetcher
	cityIDs    []domain.CityID

	interval time.Duration
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// New creates a refresher over the three fetchers.
func New(dispatcher Dispatcher, weather WeatherFetcher, crypto CryptoFetcher, news NewsFetcher, cityIDs []domain.CityID, interval time.Duration) *Refresher {
	if interval <= 0 {
		interval = 60 * time.Second
	}
	return &Refresher{
		dispatcher: dispatcher,
		weather:    weather,
		crypto:     crypto,
		news:       news,
		cityIDs:    cityIDs,
		interval:   interval,
	}
}

// Start fires the initial refresh and begins the periodic loop.
func (r *Refresher) Start(ctx context.Context) {
	ctx, r.cancel = context.WithCancel(ctx)

	r.RefreshAll(ctx)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				slog.Info("Refresh scheduler stopped")
				return
			case <-ticker.C:
				r.RefreshAll(ctx)
			}
		}
	}()
}

// Stop cancels the loop and waits for in-flight cycles to finish.
func (r *Refresher) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
	r.wg.Wait()
}

// RefreshAll runs the three domain refreshes concurrently. Each domain
// tracks its own loading/error state; a failure in one never blocks
// the others.
func (r *Refresher) RefreshAll(ctx context.Context) {
	r.wg.Add(3)
	go func() {
		defer r.wg.Done()
		r.RefreshWeather(ctx)
	}()
	go func() {
		defer r.wg.Done()
		r.RefreshCrypto(ctx)
	}()
	go func() {
		defer r.wg.Done()
		r.RefreshNews(ctx)
	}()
}

// RefreshWeather fetches every supported city. Cities that fail are
// logged and skipped; the cycle fails only when nothing was fetched.
func (r *Refresher) RefreshWeather(ctx context.Context) {
	r.dispatcher.Dispatch(event.WeatherLoading{})

	cities := make([]domain.City, 0, len(r.cityIDs))
	var lastErr error
	for _, id := range r.cityIDs {
		city, err := r.weather.CurrentWeather(ctx, id)
		if err != nil {
			lastErr = err
			slog.Warn("Weather fetch failed for city",
				slog.Int("city_id", int(id)), slog.Any("error", err))
			continue
		}
		cities = append(cities, city)
	}

	if len(cities) == 0 && lastErr != nil {
		infra.FetchErrors.WithLabelValues("weather").Inc()
		r.dispatcher.Dispatch(event.WeatherFailed{
			Message: "Failed to fetch weather data. Please try again later.",
		})
		return
	}

	r.dispatcher.Dispatch(event.WeatherLoaded{Cities: cities})
}

// RefreshCrypto fetches the markets snapshot for the fixed asset list.
func (r *Refresher) RefreshCrypto(ctx context.Context) {
	r.dispatcher.Dispatch(event.CryptoLoading{})

	cryptos, err := r.crypto.Markets(ctx)
	if err != nil {
		infra.FetchErrors.WithLabelValues("crypto").Inc()
		slog.Warn("Crypto snapshot fetch failed", slog.Any("error", err))
		r.dispatcher.Dispatch(event.CryptoFailed{
			Message: "Failed to fetch cryptocurrency data. Please try again later.",
		})
		return
	}

	r.dispatcher.Dispatch(event.CryptoLoaded{Cryptos: cryptos})
}

// RefreshNews fetches the headline snapshot.
func (r *Refresher) RefreshNews(ctx context.Context) {
	r.dispatcher.Dispatch(event.NewsLoading{})

	items, err := r.news.Headlines(ctx)
	if err != nil {
		infra.FetchErrors.WithLabelValues("news").Inc()
		slog.Warn("News snapshot fetch failed", slog.Any("error", err))
		r.dispatcher.Dispatch(event.NewsFailed{
			Message: "Failed to fetch news data. Please try again later.",
		})
		return
	}

	r.dispatcher.Dispatch(event.NewsLoaded{Items: items})
}

// LoadCryptoDetail feeds the crypto detail view.
func (r *Refresher) LoadCryptoDetail(ctx context.Context, assetID string) {
	r.dispatcher.Dispatch(event.CryptoLoading{})

	crypto, err := r.crypto.Detail(ctx, assetID)
	if err != nil {
		slog.Warn("Crypto detail fetch failed",
			slog.String("asset", assetID), slog.Any("error", err))
		r.dispatcher.Dispatch(event.CryptoFailed{
			Message: "Failed to fetch cryptocurrency details. Please try again later.",
		})
		return
	}

	r.dispatcher.Dispatch(event.CryptoDetailLoaded{Crypto: crypto})
}

// LoadCryptoHistory feeds the crypto detail chart.
func (r *Refresher) LoadCryptoHistory(ctx context.Context, assetID string) {
	r.dispatcher.Dispatch(event.CryptoLoading{})

	points, err := r.crypto.History(ctx, assetID)
	if err != nil {
		r.dispatcher.Dispatch(event.CryptoFailed{
			Message: "Failed to fetch cryptocurrency history. Please try again later.",
		})
		return
	}

	r.dispatcher.Dispatch(event.CryptoHistoryLoaded{Points: points})
}

// LoadCityWeather feeds the city detail view. The city is also
// upserted into the dashboard collection.
func (r *Refresher) LoadCityWeather(ctx context.Context, id domain.CityID) {
	r.dispatcher.Dispatch(event.WeatherLoading{})

	city, err := r.weather.CurrentWeather(ctx, id)
	if err != nil {
		r.dispatcher.Dispatch(event.WeatherFailed{
			Message: "Failed to fetch city weather. Please try again later.",
		})
		return
	}

	r.dispatcher.Dispatch(event.CityWeatherLoaded{City: city})
}

// LoadCityHistory feeds the city detail chart.
func (r *Refresher) LoadCityHistory(ctx context.Context, id domain.CityID) {
	r.dispatcher.Dispatch(event.WeatherLoading{})

	points, err := r.weather.History(ctx, id)
	if err != nil {
		r.dispatcher.Dispatch(event.WeatherFailed{
			Message: "Failed to fetch weather history. Please try again later.",
		})
		return
	}

	r.dispatcher.Dispatch(event.CityHistoryLoaded{Points: points})
}
