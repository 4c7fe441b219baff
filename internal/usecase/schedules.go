package usecase

import (
	"github.com/pawan0320/ecovoyage-backend/internal/config"
	"github.com/pawan0320/ecovoyage-backend/internal/domain/checkout"
	"github.com/pawan0320/ecovoyage-backend/internal/domain/pricing"
)

// ScheduleSet maps each flow to its fee schedule. The food flow keeps its
// own (historically fee-free) schedule; everything else shares the trip one.
type ScheduleSet map[checkout.FlowID]pricing.Schedule

func SchedulesFromConfig(cfg *config.Config) ScheduleSet {
	trip := pricing.Schedule{
		Currency:          cfg.Pricing.Currency,
		TaxRate:           cfg.Pricing.TaxRate,
		EcoFee:            cfg.Pricing.EcoFee,
		DiscountThreshold: cfg.Pricing.DiscountThreshold,
		DiscountAmount:    cfg.Pricing.DiscountAmount,
	}
	food := pricing.Schedule{
		Currency:          cfg.FoodPricing.Currency,
		TaxRate:           cfg.FoodPricing.TaxRate,
		EcoFee:            cfg.FoodPricing.EcoFee,
		DiscountThreshold: cfg.FoodPricing.DiscountThreshold,
		DiscountAmount:    cfg.FoodPricing.DiscountAmount,
	}
	return ScheduleSet{
		checkout.FlowTrip:  trip,
		checkout.FlowSmart: trip,
		checkout.FlowFood:  food,
	}
}

func (s ScheduleSet) For(flow checkout.FlowID) pricing.Schedule {
	if sched, ok := s[flow]; ok {
		return sched
	}
	return s[checkout.FlowTrip]
}
