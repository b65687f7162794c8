package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func TestNewAlertRule_Direction(t *testing.T) {
	t.Run("UP direction when target > current", func(t *testing.T) {
		rule := NewAlertRule("bitcoin", d(50000), d(45000))
		if rule.Direction != "UP" {
			t.Errorf("Expected UP, got %s", rule.Direction)
		}
	})

	t.Run("DOWN direction when target < current", func(t *testing.T) {
		rule := NewAlertRule("bitcoin", d(40000), d(45000))
		if rule.Direction != "DOWN" {
			t.Errorf("Expected DOWN, got %s", rule.Direction)
		}
	})

	t.Run("UP direction when target = current", func(t *testing.T) {
		rule := NewAlertRule("bitcoin", d(45000), d(45000))
		if rule.Direction != "UP" {
			t.Errorf("Expected UP for equal prices, got %s", rule.Direction)
		}
	})
}

func TestAlertRule_CheckCondition(t *testing.T) {
	t.Run("UP alert triggers at target", func(t *testing.T) {
		rule := NewAlertRule("bitcoin", d(50000), d(45000))
		if !rule.CheckCondition(d(50000)) {
			t.Error("Should trigger at target price")
		}
	})

	t.Run("UP alert triggers above target", func(t *testing.T) {
		rule := NewAlertRule("bitcoin", d(50000), d(45000))
		if !rule.CheckCondition(d(51000)) {
			t.Error("Should trigger above target price")
		}
	})

	t.Run("UP alert does not trigger below target", func(t *testing.T) {
		rule := NewAlertRule("bitcoin", d(50000), d(45000))
		if rule.CheckCondition(d(49000)) {
			t.Error("Should not trigger below target price")
		}
	})

	t.Run("DOWN alert triggers at target", func(t *testing.T) {
		rule := NewAlertRule("bitcoin", d(40000), d(45000))
		if !rule.CheckCondition(d(40000)) {
			t.Error("Should trigger at target price")
		}
	})

	t.Run("DOWN alert triggers below target", func(t *testing.T) {
		rule := NewAlertRule("bitcoin", d(40000), d(45000))
		if !rule.CheckCondition(d(39000)) {
			t.Error("Should trigger below target price")
		}
	})

	t.Run("inactive rule never triggers", func(t *testing.T) {
		rule := NewAlertRule("bitcoin", d(50000), d(45000))
		rule.SetActive(false)
		if rule.CheckCondition(d(60000)) {
			t.Error("Inactive rule should not trigger")
		}
	})
}
