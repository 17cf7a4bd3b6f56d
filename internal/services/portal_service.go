package services

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"saasbase/internal/models/response_models"
	"saasbase/internal/providers"
	"saasbase/internal/repositories"
	"saasbase/pkg/utils"
)

type PortalService interface {
	CreatePortalSession(ctx context.Context, tenantID string, actingUserID string) (*response_models.PortalResponse, error)
}

type portalService struct {
	tenants  repositories.TenantRepository
	provider providers.Client
	logger   *zap.Logger
}

func NewPortalService(tenants repositories.TenantRepository, provider providers.Client, logger *zap.Logger) PortalService {
	return &portalService{
		tenants:  tenants,
		provider: provider,
		logger:   logger,
	}
}

func (s *portalService) CreatePortalSession(ctx context.Context, tenantID string, actingUserID string) (*response_models.PortalResponse, error) {
	tenant, err := s.tenants.FindByID(ctx, tenantID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if tenant == nil {
		return nil, utils.ErrTenantNotFound
	}
	if tenant.OwnerID.String() != actingUserID {
		return nil, utils.ErrForbidden
	}

	if !tenant.HasBillingAccount() {
		// User-facing condition, not a server error: nothing to manage yet.
		return nil, utils.ErrNoBillingAccount
	}
	if !strings.HasPrefix(tenant.ProviderCustomerID, "cus_") {
		s.logger.Error("stored customer id failed format check",
			zap.String("tenant_id", tenant.ID.String()),
			zap.String("customer_id", tenant.ProviderCustomerID))
		return nil, utils.ErrInvalidCustomerID
	}

	session, err := s.provider.CreatePortalSession(ctx, providers.PortalParams{
		CustomerID: tenant.ProviderCustomerID,
	})
	if err != nil {
		return nil, err
	}

	return &response_models.PortalResponse{RedirectURL: session.URL}, nil
}
