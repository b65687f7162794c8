package store

import (
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/Gem2005/crypto-weather-nexus/internal/domain"
	"github.com/Gem2005/crypto-weather-nexus/internal/event"
)

func (s *Store) applyCryptoLoaded(act event.CryptoLoaded) {
	// Wholesale replace. Concurrent fetches are not fenced:
	// last-to-resolve wins.
	s.cryptos = append([]domain.Crypto(nil), act.Cryptos...)
	s.cryptoStatus = domainState{}
}

func (s *Store) applyCryptoDetailLoaded(act event.CryptoDetailLoaded) {
	c := act.Crypto
	s.selected = &c
	s.cryptoStatus = domainState{}
}

func (s *Store) applyCryptoHistoryLoaded(act event.CryptoHistoryLoaded) {
	s.cryptoHistory = append([]domain.PricePoint(nil), act.Points...)
	s.cryptoStatus = domainState{}
}

// applyPriceTick merges a streaming tick into an existing entity.
// Ticks for unknown ids are dropped: entities only originate from
// snapshot fetches. The 24h change is adjusted by the delta between
// old and new price rather than recomputed from a 24h-ago baseline,
// so the figure drifts from the true 24h value over many ticks until
// the next snapshot replaces it.
func (s *Store) applyPriceTick(act event.PriceTick) {
	for i := range s.cryptos {
		c := &s.cryptos[i]
		if c.ID != act.ID {
			continue
		}

		oldPrice := decimal.NewFromFloat(c.CurrentPrice)
		newPrice := act.Price

		c.CurrentPrice = newPrice.InexactFloat64()

		if !oldPrice.IsZero() {
			delta := newPrice.Sub(oldPrice).Div(oldPrice).Mul(decimal.NewFromInt(100))
			pct := decimal.NewFromFloat(c.PriceChangePercentage24h).Add(delta)
			c.PriceChangePercentage24h = pct.InexactFloat64()
		}

		s.checkAlertRulesLocked(act.ID, newPrice)
		return
	}

	slog.Debug("Dropped tick for unknown asset", slog.String("asset", act.ID))
}

// checkAlertRulesLocked fires threshold rules crossed by the new
// price. A crossed rule fires once and deactivates.
func (s *Store) checkAlertRulesLocked(assetID string, price decimal.Decimal) {
	for _, rule := range s.alertRules {
		if rule.AssetID != assetID || !rule.CheckCondition(price) {
			continue
		}
		rule.SetActive(false)

		verb := "risen above"
		if rule.Direction == "DOWN" {
			verb = "fallen below"
		}
		name := assetID
		if c, ok := s.lookupCryptoLocked(assetID); ok {
			name = c.Name
		}
		s.addNotificationLocked(
			domain.NotificationPriceAlert,
			fmt.Sprintf("%s reached target", name),
			fmt.Sprintf("%s has %s your target of $%s (now $%s).",
				name, verb, rule.TargetPrice.String(), price.String()),
		)
	}
}

func (s *Store) lookupCryptoLocked(id string) (*domain.Crypto, bool) {
	for i := range s.cryptos {
		if s.cryptos[i].ID == id {
			return &s.cryptos[i], true
		}
	}
	return nil, false
}
