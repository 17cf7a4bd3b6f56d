package tenant_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"
	"saasbase/internal/api/controllers"
	"saasbase/internal/repositories"
	"saasbase/internal/services"
)

var Module = fx.Provide(
	provideTenantRepo,
	provideTenantService,
	provideTenantController,
)

func provideTenantRepo(db *gorm.DB) repositories.TenantRepository {
	return repositories.NewTenantRepository(db)
}

func provideTenantService(tenantRepo repositories.TenantRepository) services.TenantServiceInterface {
	return services.NewTenantService(tenantRepo)
}

func provideTenantController(tenantService services.TenantServiceInterface) *controllers.TenantController {
	return controllers.NewTenantController(tenantService)
}
