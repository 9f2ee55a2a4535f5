// services/stats.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/wealthloop/wealthloop_backend/models"
)

// LevelEarnings is one row of the per-level breakdown.
type LevelEarnings struct {
	Level        int   `json:"level" bson:"_id"`
	Amount       int64 `json:"amount" bson:"amount"`
	Transactions int   `json:"transactions" bson:"transactions"`
}

// CommissionStats is the read model served to the dashboard.
type CommissionStats struct {
	DirectReferrals int64           `json:"directReferrals"`
	TeamSize        int64           `json:"teamSize"`
	TotalEarnings   int64           `json:"totalEarnings"`
	EarningsByLevel []LevelEarnings `json:"earningsByLevel"`
}

// StatsStore exposes the read-only aggregations the stats service shapes.
type StatsStore interface {
	CountDirectReferrals(ctx context.Context, userID primitive.ObjectID) (int64, error)
	CountTeam(ctx context.Context, userID primitive.ObjectID) (int64, error)
	EarningsByLevel(ctx context.Context, userID primitive.ObjectID) ([]LevelEarnings, error)
}

// MongoStats implements StatsStore over the committed collections. It has
// no write authority.
type MongoStats struct {
	db *mongo.Database
}

func NewMongoStats(db *mongo.Database) *MongoStats {
	return &MongoStats{db: db}
}

func (s *MongoStats) CountDirectReferrals(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	count, err := s.db.Collection("users").CountDocuments(ctx, bson.M{
		"ancestry": bson.M{"$elemMatch": bson.M{"userId": userID, "level": 1}},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count direct referrals: %w", err)
	}
	return count, nil
}

func (s *MongoStats) CountTeam(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	count, err := s.db.Collection("users").CountDocuments(ctx, bson.M{
		"ancestry.userId": userID,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count team size: %w", err)
	}
	return count, nil
}

func (s *MongoStats) EarningsByLevel(ctx context.Context, userID primitive.ObjectID) ([]LevelEarnings, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"userId": userID,
			"source": models.EarningSourceCommission,
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":          "$level",
			"amount":       bson.M{"$sum": "$amount"},
			"transactions": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}

	cursor, err := s.db.Collection("earnings").Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate earnings: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []LevelEarnings
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode earnings breakdown: %w", err)
	}
	return rows, nil
}

// StatsService assembles CommissionStats from the store, caching responses
// in Redis for a short window. A nil cache disables caching.
type StatsService struct {
	store StatsStore
	cache *redis.Client
	ttl   time.Duration
}

func NewStatsService(store StatsStore, cache *redis.Client) *StatsService {
	return &StatsService{
		store: store,
		cache: cache,
		ttl:   60 * time.Second,
	}
}

func statsCacheKey(userID primitive.ObjectID) string {
	return "commission_stats:" + userID.Hex()
}

// GetCommissionStats aggregates referral counts and commission earnings for
// one user. A user with no referrals gets zeros and an empty breakdown, not
// an error.
func (s *StatsService) GetCommissionStats(ctx context.Context, userID primitive.ObjectID) (*CommissionStats, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, statsCacheKey(userID)).Result(); err == nil {
			var stats CommissionStats
			if err := json.Unmarshal([]byte(cached), &stats); err == nil {
				return &stats, nil
			}
		}
	}

	directReferrals, err := s.store.CountDirectReferrals(ctx, userID)
	if err != nil {
		return nil, err
	}

	teamSize, err := s.store.CountTeam(ctx, userID)
	if err != nil {
		return nil, err
	}

	rows, err := s.store.EarningsByLevel(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &CommissionStats{
		DirectReferrals: directReferrals,
		TeamSize:        teamSize,
		EarningsByLevel: []LevelEarnings{},
	}
	for _, row := range rows {
		stats.TotalEarnings += row.Amount
		stats.EarningsByLevel = append(stats.EarningsByLevel, row)
	}

	if s.cache != nil {
		if payload, err := json.Marshal(stats); err == nil {
			if err := s.cache.Set(ctx, statsCacheKey(userID), payload, s.ttl).Err(); err != nil {
				log.Printf("Failed to cache commission stats for %s: %v", userID.Hex(), err)
			}
		}
	}

	return stats, nil
}
