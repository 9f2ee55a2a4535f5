// models/activity.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const ActivityTypeCommissionReceived = "commission_received"

// ActivityLog is a fire-and-forget feed entry written after a financial
// transaction commits. It is never part of the transaction itself.
type ActivityLog struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID     primitive.ObjectID `json:"userId" bson:"userId"`
	EventID    string             `json:"eventId" bson:"eventId"`
	Type       string             `json:"type" bson:"type"`
	Message    string             `json:"message" bson:"message"`
	Amount     int64              `json:"amount" bson:"amount"`
	Level      int                `json:"level" bson:"level"`
	FromUserID primitive.ObjectID `json:"fromUserId" bson:"fromUserId"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
}
