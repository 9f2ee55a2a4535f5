package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/wealthloop/wealthloop_backend/controllers"
	"github.com/wealthloop/wealthloop_backend/middleware"
	"github.com/wealthloop/wealthloop_backend/websocket"
)

// RegisterCommissionRoutes wires the commission, wallet and referral
// endpoints under the authenticated /api group.
func RegisterCommissionRoutes(e *echo.Echo, cc *controllers.CommissionController, wc *controllers.WalletController, hub *websocket.Hub) {
	api := e.Group("/api")
	api.Use(middleware.JWTMiddleware())

	// Invoked by the purchase-completed handler after payment confirmation.
	api.POST("/commissions/distribute", cc.DistributeCommissions)

	api.GET("/users/:id/commission-stats", cc.GetCommissionStats)
	api.GET("/referral", cc.GetReferralData)

	api.GET("/wallet", wc.GetWallet)
	api.GET("/wallet/transactions", wc.GetWalletTransactions)
	api.GET("/earnings", wc.GetEarnings)

	api.GET("/ws", func(c echo.Context) error {
		userID, ok := middleware.GetUserIDFromToken(c)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "User ID not found in context")
		}
		objID, err := primitive.ObjectIDFromHex(userID)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID format")
		}
		return websocket.HandleWebSocket(c, hub, objID)
	})
}
