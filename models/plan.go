// models/plan.go
package models

import "github.com/shopspring/decimal"

// PlanType identifies one of the closed set of purchasable plans.
type PlanType string

const (
	PlanBasic   PlanType = "basic"
	PlanPremium PlanType = "premium"
)

// SubscriptionPlan describes one purchasable plan: a fixed price and an
// ordered rate table. Rates[0] is the level-1 percentage, Rates[1] level 2,
// and so on; levels past the end of the table earn nothing.
type SubscriptionPlan struct {
	Type       PlanType
	Title      string
	PriceMinor int64 // price in minor units (cents)
	Currency   string
	Rates      []decimal.Decimal
}
