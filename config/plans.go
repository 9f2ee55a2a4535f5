// config/plans.go
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/wealthloop/wealthloop_backend/models"
)

// DefaultMaxDepth bounds how far up the ancestry chain commissions are paid.
const DefaultMaxDepth = 10

// PlanCatalog is the engine's read-only configuration: the recognized plans,
// their rate tables and the global maximum ancestry depth. It is loaded once
// at process start; changing it never affects already-committed records.
type PlanCatalog struct {
	MaxDepth int
	Plans    map[models.PlanType]models.SubscriptionPlan
}

// catalogFile is the JSON shape accepted via PLAN_CATALOG_FILE. Prices and
// rates are decimal strings so values like "0.5" stay exact.
type catalogFile struct {
	MaxDepth int `json:"maxDepth"`
	Plans    []struct {
		Type     string   `json:"type"`
		Title    string   `json:"title"`
		Price    string   `json:"price"`
		Currency string   `json:"currency"`
		Rates    []string `json:"rates"`
	} `json:"plans"`
}

func mustRates(values ...string) []decimal.Decimal {
	rates := make([]decimal.Decimal, 0, len(values))
	for _, v := range values {
		rates = append(rates, decimal.RequireFromString(v))
	}
	return rates
}

// DefaultCatalog returns the built-in plan set used when no catalog file is
// configured.
func DefaultCatalog() *PlanCatalog {
	return &PlanCatalog{
		MaxDepth: DefaultMaxDepth,
		Plans: map[models.PlanType]models.SubscriptionPlan{
			models.PlanBasic: {
				Type:       models.PlanBasic,
				Title:      "Basic",
				PriceMinor: 80000, // $800.00
				Currency:   "USD",
				Rates:      mustRates("10", "5", "2", "1", "1", "0.5", "0.5", "0.25", "0.25", "0.1"),
			},
			models.PlanPremium: {
				Type:       models.PlanPremium,
				Title:      "Premium",
				PriceMinor: 150000, // $1500.00
				Currency:   "USD",
				Rates:      mustRates("12", "6", "3", "2", "1", "1", "0.5", "0.5", "0.5", "0.5"),
			},
		},
	}
}

// LoadCatalog builds the plan catalog from PLAN_CATALOG_FILE if set,
// otherwise from the defaults, applying the MAX_REFERRAL_DEPTH override.
// The returned catalog is already validated; a validation failure here is a
// startup failure, not a per-purchase error.
func LoadCatalog() (*PlanCatalog, error) {
	catalog := DefaultCatalog()

	if path := os.Getenv("PLAN_CATALOG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read plan catalog file: %w", err)
		}
		var file catalogFile
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse plan catalog file: %w", err)
		}
		parsed, err := catalogFromFile(&file)
		if err != nil {
			return nil, err
		}
		catalog = parsed
	}

	if depthStr := os.Getenv("MAX_REFERRAL_DEPTH"); depthStr != "" {
		depth, err := strconv.Atoi(depthStr)
		if err != nil {
			return nil, fmt.Errorf("invalid MAX_REFERRAL_DEPTH %q: %w", depthStr, err)
		}
		catalog.MaxDepth = depth
	}

	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	return catalog, nil
}

func catalogFromFile(file *catalogFile) (*PlanCatalog, error) {
	catalog := &PlanCatalog{
		MaxDepth: file.MaxDepth,
		Plans:    make(map[models.PlanType]models.SubscriptionPlan, len(file.Plans)),
	}
	if catalog.MaxDepth == 0 {
		catalog.MaxDepth = DefaultMaxDepth
	}

	for _, p := range file.Plans {
		price, err := decimal.NewFromString(p.Price)
		if err != nil {
			return nil, fmt.Errorf("plan %s: invalid price %q: %w", p.Type, p.Price, err)
		}
		// Prices are stored in minor units; a fraction of a cent cannot be
		// distributed, so it is refused rather than truncated.
		if !price.Shift(2).IsInteger() {
			return nil, fmt.Errorf("plan %s: price %q is not a whole number of minor units", p.Type, p.Price)
		}
		plan := models.SubscriptionPlan{
			Type:       models.PlanType(p.Type),
			Title:      p.Title,
			PriceMinor: price.Shift(2).IntPart(),
			Currency:   p.Currency,
		}
		if plan.Currency == "" {
			plan.Currency = "USD"
		}
		for _, r := range p.Rates {
			rate, err := decimal.NewFromString(r)
			if err != nil {
				return nil, fmt.Errorf("plan %s: invalid rate %q: %w", p.Type, r, err)
			}
			plan.Rates = append(plan.Rates, rate)
		}
		catalog.Plans[plan.Type] = plan
	}
	return catalog, nil
}

// Validate rejects catalogs that cannot distribute money correctly. A rate
// table summing past 100% would pay out more than the plan price, so it is
// refused at startup instead of silently clamped per purchase.
func (c *PlanCatalog) Validate() error {
	if c.MaxDepth < 1 {
		return fmt.Errorf("max referral depth must be at least 1, got %d", c.MaxDepth)
	}
	if len(c.Plans) == 0 {
		return fmt.Errorf("plan catalog is empty")
	}

	hundred := decimal.NewFromInt(100)
	for planType, plan := range c.Plans {
		if plan.PriceMinor <= 0 {
			return fmt.Errorf("plan %s: price must be positive, got %d", planType, plan.PriceMinor)
		}
		total := decimal.Zero
		for i, rate := range plan.Rates {
			if rate.IsNegative() {
				return fmt.Errorf("plan %s: rate for level %d is negative", planType, i+1)
			}
			total = total.Add(rate)
		}
		if total.GreaterThan(hundred) {
			return fmt.Errorf("plan %s: rate table sums to %s%%, exceeding 100%%", planType, total.String())
		}
	}
	return nil
}

// Plan returns the configured plan for the given type.
func (c *PlanCatalog) Plan(planType models.PlanType) (models.SubscriptionPlan, bool) {
	plan, ok := c.Plans[planType]
	return plan, ok
}
