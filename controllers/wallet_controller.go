package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wealthloop/wealthloop_backend/middleware"
	"github.com/wealthloop/wealthloop_backend/models"
)

type WalletController struct {
	db *mongo.Database
}

func NewWalletController(db *mongo.Database) *WalletController {
	return &WalletController{db: db}
}

func (wc *WalletController) authenticatedUser(c echo.Context) (primitive.ObjectID, error) {
	userID, ok := middleware.GetUserIDFromToken(c)
	if !ok {
		return primitive.NilObjectID, echo.NewHTTPError(http.StatusUnauthorized, "User ID not found in context")
	}
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return primitive.NilObjectID, echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID format")
	}
	return objID, nil
}

// GetWallet returns the authenticated user's balance together with the
// ledger-derived sum, so the denormalized balance can be checked against
// the append-only transaction log.
func (wc *WalletController) GetWallet(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	objID, err := wc.authenticatedUser(c)
	if err != nil {
		return err
	}

	var user models.User
	err = wc.db.Collection("users").FindOne(ctx, bson.M{"_id": objID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Database error",
			Data:    err.Error(),
		})
	}

	// Reconcile: the wallet balance must equal the sum of wallet
	// transactions for this owner.
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"ownerId": objID.Hex()}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$amount"},
		}}},
	}
	cursor, err := wc.db.Collection("wallet_transactions").Aggregate(ctx, pipeline)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to reconcile wallet",
		})
	}
	defer cursor.Close(ctx)

	var ledgerBalance int64
	var row struct {
		Total int64 `bson:"total"`
	}
	if cursor.Next(ctx) {
		if err := cursor.Decode(&row); err == nil {
			ledgerBalance = row.Total
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Wallet fetched successfully",
		Data: map[string]interface{}{
			"balance":          user.Wallet.Balance,
			"currency":         user.Wallet.Currency,
			"lifetimeEarnings": user.LifetimeEarnings,
			"ledgerBalance":    ledgerBalance,
			"reconciled":       ledgerBalance == user.Wallet.Balance,
		},
	})
}

// GetWalletTransactions lists the authenticated user's wallet transactions,
// newest first.
func (wc *WalletController) GetWalletTransactions(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	objID, err := wc.authenticatedUser(c)
	if err != nil {
		return err
	}

	limit := int64(50)
	if limitStr := c.QueryParam("limit"); limitStr != "" {
		if parsed, err := strconv.ParseInt(limitStr, 10, 64); err == nil && parsed > 0 && parsed <= 200 {
			limit = parsed
		}
	}
	skip := int64(0)
	if pageStr := c.QueryParam("page"); pageStr != "" {
		if page, err := strconv.ParseInt(pageStr, 10, 64); err == nil && page > 1 {
			skip = (page - 1) * limit
		}
	}

	findOptions := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := wc.db.Collection("wallet_transactions").Find(ctx, bson.M{"ownerId": objID.Hex()}, findOptions)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch wallet transactions",
		})
	}
	defer cursor.Close(ctx)

	transactions := []models.WalletTransaction{}
	if err := cursor.All(ctx, &transactions); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode wallet transactions",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Wallet transactions fetched successfully",
		Data:    transactions,
	})
}

// GetEarnings lists the authenticated user's earning records, newest first.
func (wc *WalletController) GetEarnings(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	objID, err := wc.authenticatedUser(c)
	if err != nil {
		return err
	}

	findOptions := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetLimit(100)

	cursor, err := wc.db.Collection("earnings").Find(ctx, bson.M{"userId": objID}, findOptions)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch earnings",
		})
	}
	defer cursor.Close(ctx)

	earnings := []models.Earning{}
	if err := cursor.All(ctx, &earnings); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode earnings",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Earnings fetched successfully",
		Data:    earnings,
	})
}
