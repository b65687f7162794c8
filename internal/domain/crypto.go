package domain

import "time"

// Crypto represents a single cryptocurrency market entity.
// Entities are created by snapshot fetches only; streaming ticks
// update existing entities and never create new ones.
type Crypto struct {
	ID                       string   `json:"id"` // CoinGecko asset id, e.g. "bitcoin"
	Name                     string   `json:"name"`
	Symbol                   string   `json:"symbol"`
	Image                    string   `json:"image,omitempty"`
	CurrentPrice             float64  `json:"current_price"`
	MarketCap                float64  `json:"market_cap"`
	TotalVolume              float64  `json:"total_volume"`
	High24h                  float64  `json:"high_24h"`
	Low24h                   float64  `json:"low_24h"`
	PriceChangePercentage24h float64  `json:"price_change_percentage_24h"`
	PriceChangePercentage7d  *float64 `json:"price_change_percentage_7d,omitempty"`
	PriceChangePercentage30d *float64 `json:"price_change_percentage_30d,omitempty"`
}

// PricePoint is a single sample in an asset's price history series.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Price float64   `json:"price"`
}

// ChangeDirection returns "positive", "negative", or "neutral" for the
// 24h change, mirroring how the UI colours price movements.
func (c *Crypto) ChangeDirection() string {
	if c.PriceChangePercentage24h > 0 {
		return "positive"
	}
	if c.PriceChangePercentage24h < 0 {
		return "negative"
	}
	return "neutral"
}
