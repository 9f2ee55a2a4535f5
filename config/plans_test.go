package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wealthloop/wealthloop_backend/config"
	"github.com/wealthloop/wealthloop_backend/models"
)

func TestDefaultCatalogIsValid(t *testing.T) {
	catalog := config.DefaultCatalog()
	require.NoError(t, catalog.Validate())

	basic, ok := catalog.Plan(models.PlanBasic)
	require.True(t, ok)
	assert.Equal(t, int64(80000), basic.PriceMinor)
	assert.True(t, basic.Rates[0].Equal(decimal.RequireFromString("10")))

	_, ok = catalog.Plan(models.PlanType("gold"))
	assert.False(t, ok)
}

func TestValidateRejectsOverpayingRateTable(t *testing.T) {
	catalog := config.DefaultCatalog()
	plan := catalog.Plans[models.PlanBasic]
	plan.Rates = []decimal.Decimal{
		decimal.RequireFromString("60"),
		decimal.RequireFromString("50"),
	}
	catalog.Plans[models.PlanBasic] = plan

	err := catalog.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeding 100%")
}

func TestValidateRejectsBadShapes(t *testing.T) {
	catalog := config.DefaultCatalog()
	catalog.MaxDepth = 0
	assert.Error(t, catalog.Validate())

	catalog = config.DefaultCatalog()
	catalog.Plans = nil
	assert.Error(t, catalog.Validate())

	catalog = config.DefaultCatalog()
	plan := catalog.Plans[models.PlanBasic]
	plan.PriceMinor = 0
	catalog.Plans[models.PlanBasic] = plan
	assert.Error(t, catalog.Validate())

	catalog = config.DefaultCatalog()
	plan = catalog.Plans[models.PlanBasic]
	plan.Rates = []decimal.Decimal{decimal.RequireFromString("-1")}
	catalog.Plans[models.PlanBasic] = plan
	assert.Error(t, catalog.Validate())
}

func TestLoadCatalogFromFile(t *testing.T) {
	payload := `{
		"maxDepth": 4,
		"plans": [
			{
				"type": "basic",
				"title": "Starter",
				"price": "99.99",
				"rates": ["8", "4", "0.5"]
			}
		]
	}`
	path := filepath.Join(t.TempDir(), "plans.json")
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))
	t.Setenv("PLAN_CATALOG_FILE", path)

	catalog, err := config.LoadCatalog()
	require.NoError(t, err)

	assert.Equal(t, 4, catalog.MaxDepth)
	plan, ok := catalog.Plan(models.PlanBasic)
	require.True(t, ok)
	assert.Equal(t, "Starter", plan.Title)
	assert.Equal(t, int64(9999), plan.PriceMinor)
	assert.Equal(t, "USD", plan.Currency)
	require.Len(t, plan.Rates, 3)
	assert.True(t, plan.Rates[2].Equal(decimal.RequireFromString("0.5")))
}

func TestLoadCatalogDepthOverride(t *testing.T) {
	t.Setenv("MAX_REFERRAL_DEPTH", "3")
	catalog, err := config.LoadCatalog()
	require.NoError(t, err)
	assert.Equal(t, 3, catalog.MaxDepth)

	t.Setenv("MAX_REFERRAL_DEPTH", "zero")
	_, err = config.LoadCatalog()
	assert.Error(t, err)
}

func TestLoadCatalogRejectsSubCentPrice(t *testing.T) {
	payload := `{
		"plans": [
			{
				"type": "basic",
				"title": "Starter",
				"price": "99.999",
				"rates": ["8"]
			}
		]
	}`
	path := filepath.Join(t.TempDir(), "plans.json")
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))
	t.Setenv("PLAN_CATALOG_FILE", path)

	_, err := config.LoadCatalog()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "minor units")
}

func TestLoadCatalogRejectsBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plans.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	t.Setenv("PLAN_CATALOG_FILE", path)

	_, err := config.LoadCatalog()
	assert.Error(t, err)
}
