package webhook_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"saasbase/internal/api/controllers"
	"saasbase/internal/providers"
	"saasbase/internal/repositories"
	"saasbase/internal/services"
)

var Module = fx.Provide(
	provideReconcilerService,
	provideWebhookController,
)

func provideReconcilerService(tenants repositories.TenantRepository, cfg providers.StripeConfig, logger *zap.Logger) services.ReconcilerService {
	return services.NewReconcilerService(tenants, cfg.ProviderName, logger)
}

func provideWebhookController(reconciler services.ReconcilerService, cfg providers.StripeConfig, logger *zap.Logger) *controllers.WebhookController {
	return controllers.NewWebhookController(reconciler, cfg.WebhookSecret, logger)
}
