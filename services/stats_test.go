package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/wealthloop/wealthloop_backend/services"
)

type fakeStatsStore struct {
	direct int64
	team   int64
	rows   []services.LevelEarnings
	err    error
}

func (f *fakeStatsStore) CountDirectReferrals(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return f.direct, f.err
}

func (f *fakeStatsStore) CountTeam(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return f.team, f.err
}

func (f *fakeStatsStore) EarningsByLevel(ctx context.Context, userID primitive.ObjectID) ([]services.LevelEarnings, error) {
	return f.rows, f.err
}

func TestGetCommissionStats(t *testing.T) {
	store := &fakeStatsStore{
		direct: 4,
		team:   19,
		rows: []services.LevelEarnings{
			{Level: 1, Amount: 32000, Transactions: 4},
			{Level: 2, Amount: 12000, Transactions: 3},
			{Level: 5, Amount: 800, Transactions: 1},
		},
	}

	svc := services.NewStatsService(store, nil)
	stats, err := svc.GetCommissionStats(context.Background(), primitive.NewObjectID())
	require.NoError(t, err)

	assert.Equal(t, int64(4), stats.DirectReferrals)
	assert.Equal(t, int64(19), stats.TeamSize)
	// Total earnings is exactly the sum of the per-level rows.
	assert.Equal(t, int64(44800), stats.TotalEarnings)
	assert.Len(t, stats.EarningsByLevel, 3)
	assert.Equal(t, 5, stats.EarningsByLevel[2].Level)
}

func TestGetCommissionStatsEmpty(t *testing.T) {
	svc := services.NewStatsService(&fakeStatsStore{}, nil)
	stats, err := svc.GetCommissionStats(context.Background(), primitive.NewObjectID())
	require.NoError(t, err)

	// A user with no referrals is a valid, empty result, not an error.
	assert.Equal(t, int64(0), stats.DirectReferrals)
	assert.Equal(t, int64(0), stats.TeamSize)
	assert.Equal(t, int64(0), stats.TotalEarnings)
	assert.NotNil(t, stats.EarningsByLevel)
	assert.Empty(t, stats.EarningsByLevel)
}

func TestGetCommissionStatsStoreError(t *testing.T) {
	svc := services.NewStatsService(&fakeStatsStore{err: errors.New("store down")}, nil)
	_, err := svc.GetCommissionStats(context.Background(), primitive.NewObjectID())
	assert.Error(t, err)
}
