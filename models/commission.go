// models/commission.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const CommissionStatusCompleted = "completed"

// Commission is the immutable audit record of one ancestor's share of one
// plan purchase. Percent is kept as the exact decimal string that was
// applied so the record stays auditable against the rate table.
type Commission struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventID       string             `bson:"eventId" json:"eventId"`
	BeneficiaryID primitive.ObjectID `bson:"beneficiaryId" json:"beneficiaryId"`
	PurchaserID   primitive.ObjectID `bson:"purchaserId" json:"purchaserId"`
	Amount        int64              `bson:"amount" json:"amount"`
	Level         int                `bson:"level" json:"level"`
	Percent       string             `bson:"percent" json:"percent"`
	PlanType      PlanType           `bson:"planType" json:"planType"`
	PlanPrice     int64              `bson:"planPrice" json:"planPrice"`
	Status        string             `bson:"status" json:"status"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}
