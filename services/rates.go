// services/rates.go
package services

import (
	"github.com/shopspring/decimal"

	"github.com/wealthloop/wealthloop_backend/config"
	"github.com/wealthloop/wealthloop_backend/models"
)

// RateTable answers percentage lookups against the loaded plan catalog.
// It is pure: no store access, no side effects.
type RateTable struct {
	catalog *config.PlanCatalog
}

func NewRateTable(catalog *config.PlanCatalog) *RateTable {
	return &RateTable{catalog: catalog}
}

// RateFor returns the commission percentage for planType at the given
// ancestry level. Levels past the plan's own table, or past the global
// maximum depth, earn zero. Unknown plan types are a caller contract
// violation and also yield zero; the orchestrator rejects them first.
func (rt *RateTable) RateFor(planType models.PlanType, level int) decimal.Decimal {
	if level < 1 || level > rt.catalog.MaxDepth {
		return decimal.Zero
	}
	plan, ok := rt.catalog.Plan(planType)
	if !ok || level > len(plan.Rates) {
		return decimal.Zero
	}
	return plan.Rates[level-1]
}

// CommissionAmount computes priceMinor * percent / 100 in minor units,
// truncating toward zero. Shift(-2) moves the decimal point exactly, so no
// floating-point drift can enter the calculation.
func CommissionAmount(priceMinor int64, percent decimal.Decimal) int64 {
	return decimal.NewFromInt(priceMinor).Mul(percent).Shift(-2).IntPart()
}
