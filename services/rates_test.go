package services_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/wealthloop/wealthloop_backend/config"
	"github.com/wealthloop/wealthloop_backend/models"
	"github.com/wealthloop/wealthloop_backend/services"
)

func TestRateForBounds(t *testing.T) {
	catalog := catalogWith(3, 80000, "10", "5", "2", "1", "1")
	table := services.NewRateTable(catalog)

	assert.True(t, table.RateFor(models.PlanBasic, 1).Equal(decimal.RequireFromString("10")))
	assert.True(t, table.RateFor(models.PlanBasic, 3).Equal(decimal.RequireFromString("2")))

	// Levels past the global max depth earn nothing even though the
	// plan's own table keeps going.
	assert.True(t, table.RateFor(models.PlanBasic, 4).IsZero())

	assert.True(t, table.RateFor(models.PlanBasic, 0).IsZero())
	assert.True(t, table.RateFor(models.PlanBasic, -1).IsZero())
	assert.True(t, table.RateFor(models.PlanType("gold"), 1).IsZero())
}

func TestRateForBeyondTableLength(t *testing.T) {
	catalog := catalogWith(10, 80000, "10", "5")
	table := services.NewRateTable(catalog)

	assert.True(t, table.RateFor(models.PlanBasic, 2).Equal(decimal.RequireFromString("5")))
	assert.True(t, table.RateFor(models.PlanBasic, 3).IsZero())
	assert.True(t, table.RateFor(models.PlanBasic, 10).IsZero())
}

func TestCommissionAmount(t *testing.T) {
	tests := []struct {
		name       string
		priceMinor int64
		percent    string
		want       int64
	}{
		{"ten percent of 800.00", 80000, "10", 8000},
		{"five percent of 800.00", 80000, "5", 4000},
		{"two percent of 800.00", 80000, "2", 1600},
		{"half percent of 800.00", 80000, "0.5", 400},
		{"quarter percent of 1500.00", 150000, "0.25", 375},
		{"tenth percent truncates", 12345, "0.1", 12},
		{"zero percent", 80000, "0", 0},
		{"full price", 80000, "100", 80000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			percent := decimal.RequireFromString(tt.percent)
			assert.Equal(t, tt.want, services.CommissionAmount(tt.priceMinor, percent))
		})
	}
}

func TestDefaultCatalogRatesAreExact(t *testing.T) {
	// Every default rate must survive a round trip through its string
	// form; this is what keeps stored Percent fields auditable.
	for _, plan := range config.DefaultCatalog().Plans {
		for _, rate := range plan.Rates {
			parsed := decimal.RequireFromString(rate.String())
			assert.True(t, rate.Equal(parsed))
		}
	}
}
