package domain

import "github.com/shopspring/decimal"

// AlertRule represents a price threshold alert configuration
type AlertRule struct {
	AssetID     string          `json:"asset_id"`
	TargetPrice decimal.Decimal `json:"target"`
	Direction   string          `json:"direction"` // "UP" or "DOWN"
	active      bool
}

// NewAlertRule creates a new alert rule. The direction is derived from
// where the target sits relative to the current price.
func NewAlertRule(assetID string, targetPrice, currentPrice decimal.Decimal) *AlertRule {
	direction := "UP"
	if targetPrice.LessThan(currentPrice) {
		direction = "DOWN"
	}
	return &AlertRule{
		AssetID:     assetID,
		TargetPrice: targetPrice,
		Direction:   direction,
		active:      true,
	}
}

// IsActive returns whether the rule is active
func (a *AlertRule) IsActive() bool {
	return a.active
}

// SetActive sets the rule's active state
func (a *AlertRule) SetActive(active bool) {
	a.active = active
}

// CheckCondition checks if the alert condition is met.
func (a *AlertRule) CheckCondition(currentPrice decimal.Decimal) bool {
	if !a.active {
		return false
	}
	switch a.Direction {
	case "UP":
		return currentPrice.GreaterThanOrEqual(a.TargetPrice)
	case "DOWN":
		return currentPrice.LessThanOrEqual(a.TargetPrice)
	default:
		return false
	}
}
