package scheduler

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Gem2005/crypto-weather-nexus/internal/domain"
	"github.com/Gem2005/crypto-weather-nexus/internal/event"
)

type recordingDispatcher struct {
	mu      sync.Mutex
	actions []event.Action
}

func (r *recordingDispatcher) Dispatch(a event.Action) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = append(r.actions, a)
}

func (r *recordingDispatcher) snapshot() []event.Action {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]event.Action(nil), r.actions...)
}

type fakeWeather struct {
	mu    sync.Mutex
	calls int
	fail  map[domain.CityID]bool
}

func (f *fakeWeather) CurrentWeather(_ context.Context, id domain.CityID) (domain.City, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.fail[id] {
		return domain.City{}, fmt.Errorf("city %d unavailable", id)
	}
	return domain.City{ID: id, Temperature: 10}, nil
}

func (f *fakeWeather) History(_ context.Context, id domain.CityID) ([]domain.WeatherPoint, error) {
	return []domain.WeatherPoint{{Temperature: 9}}, nil
}

type fakeCrypto struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeCrypto) Markets(_ context.Context) ([]domain.Crypto, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return []domain.Crypto{{ID: "bitcoin"}}, nil
}

func (f *fakeCrypto) Detail(_ context.Context, id string) (domain.Crypto, error) {
	return domain.Crypto{ID: id, Name: "Detail"}, nil
}

func (f *fakeCrypto) History(_ context.Context, id string) ([]domain.PricePoint, error) {
	return []domain.PricePoint{{Price: 45000}}, nil
}

type fakeNews struct{ err error }

func (f *fakeNews) Headlines(_ context.Context) ([]domain.NewsItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []domain.NewsItem{{ID: "0", Title: "t"}}, nil
}

var allCities = []domain.CityID{5128581, 2643743, 1850147}

func countType[T event.Action](actions []event.Action) int {
	n := 0
	for _, a := range actions {
		if _, ok := a.(T); ok {
			n++
		}
	}
	return n
}

func TestRefreshAll_Success(t *testing.T) {
	d := &recordingDispatcher{}
	r := New(d, &fakeWeather{}, &fakeCrypto{}, &fakeNews{}, allCities, time.Minute)

	r.RefreshAll(context.Background())
	r.wg.Wait()

	actions := d.snapshot()
	if countType[event.WeatherLoaded](actions) != 1 {
		t.Error("missing WeatherLoaded")
	}
	if countType[event.CryptoLoaded](actions) != 1 {
		t.Error("missing CryptoLoaded")
	}
	if countType[event.NewsLoaded](actions) != 1 {
		t.Error("missing NewsLoaded")
	}

	for _, a := range actions {
		if loaded, ok := a.(event.WeatherLoaded); ok {
			if len(loaded.Cities) != 3 {
				t.Errorf("cities fetched = %d, want 3", len(loaded.Cities))
			}
		}
	}
}

func TestRefreshWeather_PartialFailure(t *testing.T) {
	d := &recordingDispatcher{}
	weather := &fakeWeather{fail: map[domain.CityID]bool{2643743: true}}
	r := New(d, weather, &fakeCrypto{}, &fakeNews{}, allCities, time.Minute)

	r.RefreshWeather(context.Background())

	actions := d.snapshot()
	if countType[event.WeatherFailed](actions) != 0 {
		t.Error("partial failure must not fail the cycle")
	}
	for _, a := range actions {
		if loaded, ok := a.(event.WeatherLoaded); ok {
			if len(loaded.Cities) != 2 {
				t.Errorf("cities = %d, want 2 survivors", len(loaded.Cities))
			}
		}
	}
}

func TestRefreshWeather_TotalFailure(t *testing.T) {
	d := &recordingDispatcher{}
	weather := &fakeWeather{fail: map[domain.CityID]bool{5128581: true, 2643743: true, 1850147: true}}
	r := New(d, weather, &fakeCrypto{}, &fakeNews{}, allCities, time.Minute)

	r.RefreshWeather(context.Background())

	if countType[event.WeatherFailed](d.snapshot()) != 1 {
		t.Error("total failure should dispatch WeatherFailed")
	}
	if countType[event.WeatherLoaded](d.snapshot()) != 0 {
		t.Error("nothing loaded on total failure")
	}
}

func TestRefreshCrypto_Failure(t *testing.T) {
	d := &recordingDispatcher{}
	r := New(d, &fakeWeather{}, &fakeCrypto{err: fmt.Errorf("rate limited")}, &fakeNews{}, allCities, time.Minute)

	r.RefreshCrypto(context.Background())

	actions := d.snapshot()
	if countType[event.CryptoLoading](actions) != 1 || countType[event.CryptoFailed](actions) != 1 {
		t.Errorf("actions = %+v", actions)
	}
}

func TestStart_FiresImmediatelyThenPeriodically(t *testing.T) {
	d := &recordingDispatcher{}
	crypto := &fakeCrypto{}
	r := New(d, &fakeWeather{}, crypto, &fakeNews{}, allCities, 30*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r.Start(ctx)

	time.Sleep(100 * time.Millisecond)
	r.Stop()

	crypto.mu.Lock()
	calls := crypto.calls
	crypto.mu.Unlock()

	// One immediate cycle plus at least two ticks.
	if calls < 3 {
		t.Errorf("crypto fetches = %d, want >= 3", calls)
	}
}

func TestDetailLoads(t *testing.T) {
	d := &recordingDispatcher{}
	r := New(d, &fakeWeather{}, &fakeCrypto{}, &fakeNews{}, allCities, time.Minute)
	ctx := context.Background()

	r.LoadCryptoDetail(ctx, "solana")
	r.LoadCryptoHistory(ctx, "solana")
	r.LoadCityWeather(ctx, 1850147)
	r.LoadCityHistory(ctx, 1850147)

	actions := d.snapshot()
	if countType[event.CryptoDetailLoaded](actions) != 1 {
		t.Error("missing CryptoDetailLoaded")
	}
	if countType[event.CryptoHistoryLoaded](actions) != 1 {
		t.Error("missing CryptoHistoryLoaded")
	}
	if countType[event.CityWeatherLoaded](actions) != 1 {
		t.Error("missing CityWeatherLoaded")
	}
	if countType[event.CityHistoryLoaded](actions) != 1 {
		t.Error("missing CityHistoryLoaded")
	}
}
