package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/wealthloop/wealthloop_backend/middleware"
	"github.com/wealthloop/wealthloop_backend/models"
	"github.com/wealthloop/wealthloop_backend/repositories"
	"github.com/wealthloop/wealthloop_backend/services"
)

type CommissionController struct {
	distributor *services.CommissionDistributor
	stats       *services.StatsService
	userRepo    *repositories.UserRepository
}

func NewCommissionController(distributor *services.CommissionDistributor, stats *services.StatsService, userRepo *repositories.UserRepository) *CommissionController {
	return &CommissionController{
		distributor: distributor,
		stats:       stats,
		userRepo:    userRepo,
	}
}

// DistributeRequest is the payload delivered by the purchase-completed
// handler once payment has been confirmed.
type DistributeRequest struct {
	PurchaserID string `json:"purchaserId" validate:"required"`
	PlanType    string `json:"planType" validate:"required,oneof=basic premium"`
}

// DistributeCommissions runs the commission distribution for one completed
// plan purchase. Callers must deduplicate by purchase event before
// retrying; invoking this twice distributes twice.
func (cc *CommissionController) DistributeCommissions(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var req DistributeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
			Data:    err.Error(),
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request",
			Data:    err.Error(),
		})
	}

	purchaserID, err := primitive.ObjectIDFromHex(req.PurchaserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid purchaser ID format",
		})
	}

	result, err := cc.distributor.Distribute(ctx, purchaserID, models.PlanType(req.PlanType))
	if err != nil {
		if errors.Is(err, services.ErrPurchaserNotFound) {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Purchaser not found",
			})
		}
		if errors.Is(err, services.ErrUnknownPlan) {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Unknown plan type",
			})
		}

		// The transaction rolled back; nothing was written. The purchase
		// itself stands, so the caller retries or flags manual review.
		log.Printf("Commission distribution failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Reward distribution is pending verification",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Commissions distributed successfully",
		Data:    result,
	})
}

// GetCommissionStats returns read-only referral and earnings aggregates for
// one user.
func (cc *CommissionController) GetCommissionStats(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID format",
		})
	}

	stats, err := cc.stats.GetCommissionStats(ctx, userID)
	if err != nil {
		log.Printf("Failed to load commission stats for %s: %v", userID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load commission stats",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Commission stats fetched successfully",
		Data:    stats,
	})
}

// GetReferralData returns the authenticated user's referral information
func (cc *CommissionController) GetReferralData(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserIDFromToken(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "User ID not found in context",
		})
	}

	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID format",
		})
	}

	user, err := cc.userRepo.FindByID(ctx, objID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Database error",
			Data:    err.Error(),
		})
	}
	if user == nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}

	code, err := cc.userRepo.EnsureReferralCode(ctx, user)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate referral code",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Referral data fetched successfully",
		Data: map[string]interface{}{
			"referralCode":  code,
			"referralCount": len(user.Referrals),
			"referralLink":  "https://wealthloop.io/register?ref=" + code,
		},
	})
}
