// models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AncestorRef is one entry of a user's referral ancestry chain.
// Level 1 is the direct referrer; higher levels are further upline.
// The chain is written once at signup and never mutated afterwards.
type AncestorRef struct {
	UserID primitive.ObjectID `json:"userId" bson:"userId"`
	Level  int                `json:"level" bson:"level"`
}

// Wallet holds the denormalized running balance for a user. Amounts are
// integer minor units (cents). The wallet_transactions collection is the
// source of truth the balance reconciles against.
type Wallet struct {
	Balance  int64  `json:"balance" bson:"balance"`
	Currency string `json:"currency" bson:"currency"`
}

// User model
type User struct {
	ID               primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Email            string               `json:"email" bson:"email"`
	FullName         string               `json:"fullName" bson:"fullName"`
	UserType         string               `json:"userType,omitempty" bson:"userType,omitempty"`
	IsActive         bool                 `json:"isActive" bson:"isActive"`
	Status           string               `json:"status,omitempty" bson:"status,omitempty"` // "active", "suspended"
	ReferralCode     string               `json:"referralCode,omitempty" bson:"referralCode,omitempty"`
	Referrals        []primitive.ObjectID `json:"referrals,omitempty" bson:"referrals,omitempty"`
	Ancestry         []AncestorRef        `json:"ancestry,omitempty" bson:"ancestry,omitempty"`
	Wallet           Wallet               `json:"wallet" bson:"wallet"`
	LifetimeEarnings int64                `json:"lifetimeEarnings" bson:"lifetimeEarnings"`
	CreatedAt        time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// Response model
type Response struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
