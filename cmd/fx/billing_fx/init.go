package billing_fx

import (
	"log"
	"os"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"saasbase/internal/api/controllers"
	"saasbase/internal/providers"
	"saasbase/internal/repositories"
	"saasbase/internal/services"
)

var Module = fx.Provide(
	provideStripeConfig,
	provideStripeClient,
	provideCheckoutService,
	providePortalService,
	provideBillingController,
)

func provideStripeConfig() providers.StripeConfig {
	return providers.StripeConfig{
		SecretKey:       os.Getenv("STRIPE_SECRET_KEY"),
		WebhookSecret:   os.Getenv("STRIPE_WEBHOOK_SECRET"),
		SuccessURL:      os.Getenv("CHECKOUT_SUCCESS_URL"),
		CancelURL:       os.Getenv("CHECKOUT_CANCEL_URL"),
		PortalReturnURL: os.Getenv("PORTAL_RETURN_URL"),
		ProviderName:    "stripe",
	}
}

func provideStripeClient(cfg providers.StripeConfig, logger *zap.Logger) providers.Client {
	instance, err := providers.NewStripeClient(cfg, logger)
	if err != nil {
		log.Fatalf("Error initializing stripe client: %v", err)
	}

	return instance
}

func provideCheckoutService(tenants repositories.TenantRepository, provider providers.Client, cfg providers.StripeConfig, logger *zap.Logger) services.CheckoutService {
	return services.NewCheckoutService(tenants, provider, cfg.ProviderName, logger)
}

func providePortalService(tenants repositories.TenantRepository, provider providers.Client, logger *zap.Logger) services.PortalService {
	return services.NewPortalService(tenants, provider, logger)
}

func provideBillingController(
	checkoutService services.CheckoutService,
	portalService services.PortalService,
	tenantService services.TenantServiceInterface) *controllers.BillingController {
	return controllers.NewBillingController(checkoutService, portalService, tenantService)
}
