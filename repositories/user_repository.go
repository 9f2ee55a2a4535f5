package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/wealthloop/wealthloop_backend/models"
	"github.com/wealthloop/wealthloop_backend/utils"
)

type UserRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		collection: db.Collection("users"),
	}
}

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user %s: %w", id.Hex(), err)
	}
	return &user, nil
}

// EnsureReferralCode returns the user's referral code, generating and
// persisting one on first use.
func (r *UserRepository) EnsureReferralCode(ctx context.Context, user *models.User) (string, error) {
	if user.ReferralCode != "" {
		return user.ReferralCode, nil
	}

	code, err := utils.GenerateUserReferralCode()
	if err != nil {
		return "", fmt.Errorf("failed to generate referral code: %w", err)
	}

	_, err = r.collection.UpdateByID(ctx, user.ID, bson.M{
		"$set": bson.M{
			"referralCode": code,
			"updatedAt":    time.Now(),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to save referral code for %s: %w", user.ID.Hex(), err)
	}

	user.ReferralCode = code
	return code, nil
}
