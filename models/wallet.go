// models/wallet.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	TransactionTypeCommission = "commission"
	TransactionTypeDeposit    = "deposit"
	TransactionTypeWithdrawal = "withdrawal"
	TransactionTypePurchase   = "purchase"

	TransactionStatusCompleted = "completed"
)

// PlatformOwnerID is the well-known owner key of the platform's own wallet.
// The platform wallet is an ordinary aggregate mutated through the same
// $inc discipline as any user wallet, just keyed by this constant.
const PlatformOwnerID = "platform"

// WalletTransaction is an append-only ledger entry. OwnerID is the hex user
// id, or PlatformOwnerID for platform revenue. Amount is signed, in minor
// units. ReferenceID links back to the Commission record, or carries a
// synthetic reference for platform deposits.
type WalletTransaction struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventID     string             `bson:"eventId" json:"eventId"`
	OwnerID     string             `bson:"ownerId" json:"ownerId"`
	Amount      int64              `bson:"amount" json:"amount"`
	Type        string             `bson:"type" json:"type"`
	ReferenceID string             `bson:"referenceId" json:"referenceId"`
	Status      string             `bson:"status" json:"status"`
	Description string             `bson:"description" json:"description"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

// PlatformWallet is the single platform-owned balance aggregate.
type PlatformWallet struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID   string             `bson:"ownerId" json:"ownerId"`
	Balance   int64              `bson:"balance" json:"balance"`
	Currency  string             `bson:"currency" json:"currency"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
