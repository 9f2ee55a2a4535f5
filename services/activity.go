// services/activity.go
package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/wealthloop/wealthloop_backend/models"
	"github.com/wealthloop/wealthloop_backend/websocket"
)

// ActivityLogger records beneficiary-facing activity entries and pushes
// them to connected clients. It runs strictly after the financial
// transaction has committed; any failure here is logged and dropped.
type ActivityLogger struct {
	db  *mongo.Database
	hub *websocket.Hub
}

func NewActivityLogger(db *mongo.Database, hub *websocket.Hub) *ActivityLogger {
	return &ActivityLogger{db: db, hub: hub}
}

// CommissionCredited implements ActivitySink.
func (a *ActivityLogger) CommissionCredited(beneficiary, purchaser primitive.ObjectID, amount int64, level int, eventID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	entry := models.ActivityLog{
		ID:         primitive.NewObjectID(),
		UserID:     beneficiary,
		EventID:    eventID,
		Type:       models.ActivityTypeCommissionReceived,
		Message:    fmt.Sprintf("You received a level %d referral commission", level),
		Amount:     amount,
		Level:      level,
		FromUserID: purchaser,
		CreatedAt:  time.Now(),
	}

	if _, err := a.db.Collection("activity_logs").InsertOne(ctx, entry); err != nil {
		log.Printf("Failed to record commission activity for %s: %v", beneficiary.Hex(), err)
	}

	if a.hub != nil {
		notification := websocket.Notification{
			Type:    models.ActivityTypeCommissionReceived,
			Message: entry.Message,
			Data: map[string]interface{}{
				"amount":  amount,
				"level":   level,
				"eventId": eventID,
			},
		}
		if err := a.hub.SendToUser(beneficiary, notification); err != nil {
			// Beneficiary is simply not connected most of the time.
			log.Printf("Commission notification not delivered to %s: %v", beneficiary.Hex(), err)
		}
	}
}
