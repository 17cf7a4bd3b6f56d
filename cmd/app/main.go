package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"saasbase/cmd/fx/billing_fx"
	"saasbase/cmd/fx/db_fx"
	"saasbase/cmd/fx/logger_fx"
	"saasbase/cmd/fx/redis_fx"
	"saasbase/cmd/fx/tenant_fx"
	"saasbase/cmd/fx/webhook_fx"
	"saasbase/internal/api/controllers"
	"saasbase/pkg/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	app := fx.New(
		logger_fx.Module,
		db_fx.Module,
		redis_fx.Module,
		tenant_fx.Module,
		billing_fx.Module,
		webhook_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := os.Getenv("PORT")
				if port == "" {
					port = "8080"
				}
				log.Printf("Starting HTTP server on :%s", port)
				if err := engine.Run(":" + port); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("Stopping HTTP server")
			return nil
		},
	})
}

func ProvideRouter(
	redisClient *redis.Client,
	billingController *controllers.BillingController,
	webhookController *controllers.WebhookController,
	tenantController *controllers.TenantController) *gin.Engine {

	r := gin.Default()
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.CORSMiddleware())

	RegisterRoutes(r, redisClient, billingController, webhookController, tenantController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	redisClient *redis.Client,
	billingController *controllers.BillingController,
	webhookController *controllers.WebhookController,
	tenantController *controllers.TenantController) {

	// Raw body required: no body-mutating middleware ahead of the handler.
	r.POST("/stripe/webhook", webhookController.HandleWebhook)

	billingLimiter := middleware.NewRateLimiter(redisClient, nil, "ratelimit:billing")

	billingGroup := r.Group("/billing")
	billingGroup.GET("/plans", billingController.ListPlans)
	billingGroup.Use(middleware.JWTAuthMiddleware())
	billingGroup.Use(middleware.RateLimitMiddleware(billingLimiter))
	billingGroup.POST("/checkout", billingController.CreateCheckout)
	billingGroup.POST("/portal", billingController.CreatePortal)

	tenantsGroup := r.Group("/tenants")
	tenantsGroup.Use(middleware.JWTAuthMiddleware())
	tenantsGroup.POST("", tenantController.CreateTenant)
	tenantsGroup.GET("/me", tenantController.GetMyTenant)
	tenantsGroup.GET("/:id", tenantController.GetTenantByID)
	tenantsGroup.PATCH("/:id", tenantController.RenameTenant)
}
