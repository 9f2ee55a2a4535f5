// models/earning.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	EarningSourceCommission = "commission"
	EarningStatusCompleted  = "completed"
)

// Earning is the beneficiary-facing view of money received. Commission is
// one possible source; statistics and reporting read this collection.
type Earning struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	EventID     string             `json:"eventId" bson:"eventId"`
	UserID      primitive.ObjectID `json:"userId" bson:"userId"`
	Amount      int64              `json:"amount" bson:"amount"`
	Currency    string             `json:"currency" bson:"currency"`
	Source      string             `json:"source" bson:"source"`
	FromUserID  primitive.ObjectID `json:"fromUserId" bson:"fromUserId"`
	Level       int                `json:"level" bson:"level"`
	Description string             `json:"description" bson:"description"`
	Status      string             `json:"status" bson:"status"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
}
