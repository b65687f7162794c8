package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Gem2005/crypto-weather-nexus/internal/domain"
	"github.com/Gem2005/crypto-weather-nexus/internal/infra"
)

// TrackedAssets is the fixed asset list for the markets snapshot.
var TrackedAssets = []string{"bitcoin", "ethereum", "solana"}

// marketResponse mirrors one entry of the CoinGecko /coins/markets
// payload, reduced to the fields we normalize.
type marketResponse struct {
	ID                       string   `json:"id"`
	Symbol                   string   `json:"symbol"`
	Name                     string   `json:"name"`
	Image                    string   `json:"image"`
	CurrentPrice             float64  `json:"current_price"`
	MarketCap                float64  `json:"market_cap"`
	TotalVolume              float64  `json:"total_volume"`
	High24h                  float64  `json:"high_24h"`
	Low24h                   float64  `json:"low_24h"`
	PriceChangePercentage24h float64  `json:"price_change_percentage_24h"`
	PriceChangePercentage7d  *float64 `json:"price_change_percentage_7d_in_currency"`
	PriceChangePercentage30d *float64 `json:"price_change_percentage_30d_in_currency"`
}

// detailResponse mirrors the /coins/{id} payload.
type detailResponse struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Image  struct {
		Large string `json:"large"`
	} `json:"image"`
	MarketData struct {
		CurrentPrice             map[string]float64 `json:"current_price"`
		MarketCap                map[string]float64 `json:"market_cap"`
		TotalVolume              map[string]float64 `json:"total_volume"`
		High24h                  map[string]float64 `json:"high_24h"`
		Low24h                   map[string]float64 `json:"low_24h"`
		PriceChangePercentage24h float64            `json:"price_change_percentage_24h"`
		PriceChangePercentage7d  *float64           `json:"price_change_percentage_7d"`
		PriceChangePercentage30d *float64           `json:"price_change_percentage_30d"`
	} `json:"market_data"`
}

// historyResponse mirrors the /coins/{id}/market_chart payload.
// Each price entry is [timestamp_ms, price].
type historyResponse struct {
	Prices [][2]float64 `json:"prices"`
}

// Client fetches market snapshots from CoinGecko. Calls share a token
// bucket limiter sized to the free tier.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *infra.RateLimiter
}

// NewClient creates a CoinGecko client.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		limiter: infra.GetCoinGeckoLimiter(),
	}
}

// Markets fetches the snapshot for the fixed asset list and normalizes
// each entry. The result replaces the crypto collection wholesale.
func (c *Client) Markets(ctx context.Context) ([]domain.Crypto, error) {
	q := url.Values{}
	q.Set("vs_currency", "usd")
	q.Set("ids", strings.Join(TrackedAssets, ","))
	q.Set("order", "market_cap_desc")
	q.Set("sparkline", "false")
	q.Set("price_change_percentage", "24h,7d,30d")

	var resp []marketResponse
	if err := c.get(ctx, "/coins/markets", q, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch crypto markets: %w", err)
	}

	cryptos := make([]domain.Crypto, 0, len(resp))
	for _, m := range resp {
		cryptos = append(cryptos, domain.Crypto{
			ID:                       m.ID,
			Name:                     m.Name,
			Symbol:                   m.Symbol,
			Image:                    m.Image,
			CurrentPrice:             m.CurrentPrice,
			MarketCap:                m.MarketCap,
			TotalVolume:              m.TotalVolume,
			High24h:                  m.High24h,
			Low24h:                   m.Low24h,
			PriceChangePercentage24h: m.PriceChangePercentage24h,
			PriceChangePercentage7d:  m.PriceChangePercentage7d,
			PriceChangePercentage30d: m.PriceChangePercentage30d,
		})
	}
	return cryptos, nil
}

// Detail fetches a single asset with full precision fields.
func (c *Client) Detail(ctx context.Context, assetID string) (domain.Crypto, error) {
	q := url.Values{}
	q.Set("localization", "false")
	q.Set("tickers", "false")
	q.Set("market_data", "true")
	q.Set("community_data", "false")
	q.Set("developer_data", "false")
	q.Set("sparkline", "false")

	var resp detailResponse
	if err := c.get(ctx, "/coins/"+url.PathEscape(assetID), q, &resp); err != nil {
		return domain.Crypto{}, fmt.Errorf("failed to fetch crypto details for %s: %w", assetID, err)
	}

	return domain.Crypto{
		ID:                       resp.ID,
		Name:                     resp.Name,
		Symbol:                   resp.Symbol,
		Image:                    resp.Image.Large,
		CurrentPrice:             resp.MarketData.CurrentPrice["usd"],
		MarketCap:                resp.MarketData.MarketCap["usd"],
		TotalVolume:              resp.MarketData.TotalVolume["usd"],
		High24h:                  resp.MarketData.High24h["usd"],
		Low24h:                   resp.MarketData.Low24h["usd"],
		PriceChangePercentage24h: resp.MarketData.PriceChangePercentage24h,
		PriceChangePercentage7d:  resp.MarketData.PriceChangePercentage7d,
		PriceChangePercentage30d: resp.MarketData.PriceChangePercentage30d,
	}, nil
}

// History fetches the 7-day price series subsampled to roughly one
// point per day (every 6th entry). On failure it falls back to a
// synthetic series so the detail chart is never empty.
func (c *Client) History(ctx context.Context, assetID string) ([]domain.PricePoint, error) {
	q := url.Values{}
	q.Set("vs_currency", "usd")
	q.Set("days", "7")

	var resp historyResponse
	if err := c.get(ctx, "/coins/"+url.PathEscape(assetID)+"/market_chart", q, &resp); err != nil {
		slog.Warn("Crypto history fetch failed, using mock series",
			slog.String("asset", assetID), slog.Any("error", err))
		return mockHistory(assetID), nil
	}

	points := make([]domain.PricePoint, 0, len(resp.Prices)/6+1)
	for i, p := range resp.Prices {
		if i%6 != 0 {
			continue
		}
		points = append(points, domain.PricePoint{
			Date:  time.UnixMilli(int64(p[0])).UTC(),
			Price: p[1],
		})
	}
	return points, nil
}

// mockHistory generates a 7-day placeholder series seeded from a
// per-asset base price. Demo fallback for when the upstream API is
// unavailable or rate limited.
func mockHistory(assetID string) []domain.PricePoint {
	basePrice := 100.0
	switch assetID {
	case "bitcoin":
		basePrice = 45000
	case "ethereum":
		basePrice = 2500
	case "solana":
		basePrice = 150
	}

	now := time.Now().UTC()
	points := make([]domain.PricePoint, 0, 7)
	for i := 6; i >= 0; i-- {
		change := rand.Float64()*0.1 - 0.05 // -5% to +5%
		points = append(points, domain.PricePoint{
			Date:  now.Add(-time.Duration(i) * 24 * time.Hour),
			Price: basePrice * (1 + change),
		})
	}
	return points
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	c.limiter.Wait()

	if c.apiKey != "" {
		q.Set("x_cg_api_key", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	return json.Unmarshal(body, out)
}
