// services/ledger.go
package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wealthloop/wealthloop_backend/models"
)

// LedgerStore is the unit-of-work boundary the distribution engine writes
// through. Every write issued inside the function passed to WithTransaction
// becomes visible atomically, or not at all. The Mongo implementation backs
// production; tests run the engine against an in-memory fake.
type LedgerStore interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// FindUser returns (nil, nil) when no such user exists; missing
	// ancestors are a per-ancestor skip, not an error.
	FindUser(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	AncestryOf(ctx context.Context, id primitive.ObjectID) ([]models.AncestorRef, error)

	InsertCommission(ctx context.Context, commission *models.Commission) error
	InsertEarning(ctx context.Context, earning *models.Earning) error
	InsertWalletTransaction(ctx context.Context, tx *models.WalletTransaction) error

	// CreditWallet atomically increments the user's denormalized wallet
	// balance and lifetime earnings.
	CreditWallet(ctx context.Context, userID primitive.ObjectID, amount int64) error
	// CreditPlatformWallet atomically increments the platform-owned wallet.
	CreditPlatformWallet(ctx context.Context, amount int64) error
}

// MongoLedger implements LedgerStore on MongoDB. The transactional scope is
// a driver session; concurrent purchases crediting the same wallet serialize
// on the server through $inc inside the transaction.
type MongoLedger struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewMongoLedger(client *mongo.Client, dbName string) *MongoLedger {
	return &MongoLedger{
		client: client,
		db:     client.Database(dbName),
	}
}

func (l *MongoLedger) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := l.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	txOptions := options.Transaction()
	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	}, txOptions)
	if err != nil {
		return fmt.Errorf("transaction aborted: %w", err)
	}
	return nil
}

func (l *MongoLedger) FindUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := l.db.Collection("users").FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user %s: %w", id.Hex(), err)
	}
	return &user, nil
}

// AncestryOf reads the purchaser's precomputed chain. The chain is written
// at signup by the registration flow and is immutable input here.
func (l *MongoLedger) AncestryOf(ctx context.Context, id primitive.ObjectID) ([]models.AncestorRef, error) {
	var user struct {
		Ancestry []models.AncestorRef `bson:"ancestry"`
	}
	err := l.db.Collection("users").FindOne(
		ctx,
		bson.M{"_id": id},
		options.FindOne().SetProjection(bson.M{"ancestry": 1}),
	).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load ancestry for %s: %w", id.Hex(), err)
	}
	return user.Ancestry, nil
}

func (l *MongoLedger) InsertCommission(ctx context.Context, commission *models.Commission) error {
	if _, err := l.db.Collection("commissions").InsertOne(ctx, commission); err != nil {
		return fmt.Errorf("failed to insert commission record: %w", err)
	}
	return nil
}

func (l *MongoLedger) InsertEarning(ctx context.Context, earning *models.Earning) error {
	if _, err := l.db.Collection("earnings").InsertOne(ctx, earning); err != nil {
		return fmt.Errorf("failed to insert earning record: %w", err)
	}
	return nil
}

func (l *MongoLedger) InsertWalletTransaction(ctx context.Context, tx *models.WalletTransaction) error {
	if _, err := l.db.Collection("wallet_transactions").InsertOne(ctx, tx); err != nil {
		return fmt.Errorf("failed to insert wallet transaction: %w", err)
	}
	return nil
}

func (l *MongoLedger) CreditWallet(ctx context.Context, userID primitive.ObjectID, amount int64) error {
	result, err := l.db.Collection("users").UpdateOne(
		ctx,
		bson.M{"_id": userID},
		bson.M{
			"$inc": bson.M{
				"wallet.balance":   amount,
				"lifetimeEarnings": amount,
			},
			"$set": bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to credit wallet of %s: %w", userID.Hex(), err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("failed to credit wallet: user %s not found", userID.Hex())
	}
	return nil
}

func (l *MongoLedger) CreditPlatformWallet(ctx context.Context, amount int64) error {
	_, err := l.db.Collection("platform_wallet").UpdateOne(
		ctx,
		bson.M{"ownerId": models.PlatformOwnerID},
		bson.M{
			"$inc": bson.M{"balance": amount},
			"$set": bson.M{"updatedAt": time.Now()},
			"$setOnInsert": bson.M{
				"ownerId":  models.PlatformOwnerID,
				"currency": "USD",
			},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to credit platform wallet: %w", err)
	}
	return nil
}
