package main

import (
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/wealthloop/wealthloop_backend/config"
	"github.com/wealthloop/wealthloop_backend/controllers"
	"github.com/wealthloop/wealthloop_backend/middleware"
	"github.com/wealthloop/wealthloop_backend/repositories"
	"github.com/wealthloop/wealthloop_backend/routes"
	"github.com/wealthloop/wealthloop_backend/services"
	"github.com/wealthloop/wealthloop_backend/websocket"
)

// CustomValidator is a custom validator for Echo
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates the request body
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func main() {
	// Load .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found")
	}

	alerts := services.NewAlertMailer()

	// A misconfigured rate table is a startup failure, never a silent
	// per-purchase clamp.
	catalog, err := config.LoadCatalog()
	if err != nil {
		alerts.Alert("Plan catalog rejected at startup", err.Error())
		log.Fatalf("Invalid plan catalog: %v", err)
	}

	// Connect to Redis
	redisClient := config.ConnectRedis()

	// Connect to database
	client := config.ConnectDB()
	db := client.Database(config.DBName())

	// Create WebSocket hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Wire the commission engine
	ledger := services.NewMongoLedger(client, config.DBName())
	activity := services.NewActivityLogger(db, wsHub)
	distributor := services.NewCommissionDistributor(ledger, catalog).
		WithActivitySink(activity).
		WithAlerter(alerts)
	statsService := services.NewStatsService(services.NewMongoStats(db), redisClient)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)

	// Initialize controllers
	commissionController := controllers.NewCommissionController(distributor, statsService, userRepo)
	walletController := controllers.NewWalletController(db)

	// Create a new Echo instance
	e := echo.New()

	// Initialize custom validator
	customValidator := &CustomValidator{validator: validator.New()}
	e.Validator = customValidator

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter()

	// Middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.Secure())
	e.Use(rateLimiter.RateLimit())

	e.Match([]string{"GET", "HEAD"}, "/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":  "OK",
			"message": "Wealthloop Backend is running",
			"version": "1.0",
		})
	})

	e.Match([]string{"GET", "HEAD"}, "/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":   "healthy",
			"database": "connected",
		})
	})

	e.Use(httpsRedirect())

	// Register commission, wallet and referral routes
	routes.RegisterCommissionRoutes(e, commissionController, walletController, wsHub)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	e.Logger.Fatal(e.Start(":" + port))
}

func httpsRedirect() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Header.Get("X-Forwarded-Proto") == "http" {
				return c.Redirect(301, "https://"+c.Request().Host+c.Request().RequestURI)
			}
			return next(c)
		}
	}
}
