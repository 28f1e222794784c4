package views

import (
	"ricepro-web/internal/config"
	"ricepro-web/internal/validation"
)

// Settings are the business constants shown read-only on the settings
// page. Pricing itself is decided by the backend.
type Settings struct {
	RestaurantPrice float64
	IndividualPrice float64
	BagCost         float64
	BagWeightKg     float64
	MinOrderKg      float64
	OrderStepKg     float64
}

var DefaultSettings = Settings{
	RestaurantPrice: 180,
	IndividualPrice: 200,
	BagCost:         9000,
	BagWeightKg:     60,
	MinOrderKg:      5,
	OrderStepKg:     5,
}

// NewSettings reads the business section of cfg
func NewSettings(cfg *config.Config) Settings {
	b := cfg.Business
	return Settings{
		RestaurantPrice: b.RestaurantPrice,
		IndividualPrice: b.IndividualPrice,
		BagCost:         b.BagCost,
		BagWeightKg:     b.BagWeightKg,
		MinOrderKg:      b.MinOrderKg,
		OrderStepKg:     b.OrderStepKg,
	}
}

// OrderRules derives the order quantity guard from the settings.
func (s Settings) OrderRules() validation.OrderRules {
	rules := validation.OrderRules{MinKg: s.MinOrderKg, StepKg: s.OrderStepKg}
	if rules.MinKg <= 0 {
		rules.MinKg = validation.DefaultOrderRules.MinKg
	}
	if rules.StepKg <= 0 {
		rules.StepKg = validation.DefaultOrderRules.StepKg
	}
	return rules
}

// CostPerKg is the bag cost spread over the bag weight.
func (s Settings) CostPerKg() float64 {
	if s.BagWeightKg <= 0 {
		return 0
	}
	return s.BagCost / s.BagWeightKg
}
