package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"saasbase/internal/models/db_models"
	"saasbase/internal/models/response_models"
	"saasbase/internal/plans"
	"saasbase/internal/providers"
	"saasbase/internal/repositories"
	"saasbase/pkg/utils"
)

type CheckoutService interface {
	CreateCheckout(ctx context.Context, tenantID string, planCode string, actingUserID string) (*response_models.CheckoutResponse, error)
}

type checkoutService struct {
	tenants  repositories.TenantRepository
	provider providers.Client
	name     string // provider name stored on the record
	logger   *zap.Logger

	// Collapses concurrent customer provisioning per tenant so a double
	// submit cannot create two provider customers.
	provisioning singleflight.Group
}

func NewCheckoutService(tenants repositories.TenantRepository, provider providers.Client, providerName string, logger *zap.Logger) CheckoutService {
	return &checkoutService{
		tenants:  tenants,
		provider: provider,
		name:     providerName,
		logger:   logger,
	}
}

func (s *checkoutService) CreateCheckout(ctx context.Context, tenantID string, planCode string, actingUserID string) (*response_models.CheckoutResponse, error) {
	plan, ok := plans.Lookup(planCode)
	if !ok {
		return nil, utils.ErrUnknownPlan
	}

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

	customerID, err := s.ensureCustomer(ctx, tenant)
	if err != nil {
		return nil, err
	}

	session, err := s.provider.CreateCheckoutSession(ctx, providers.CheckoutParams{
		TenantID:       tenant.ID.String(),
		PlanCode:       plan.Code,
		PriceLookupKey: plan.PriceLookupKey,
		CustomerID:     customerID,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("checkout session opened",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("plan_code", plan.Code),
		zap.String("session_id", session.ID))

	return &response_models.CheckoutResponse{
		RedirectURL: session.URL,
		PlanCode:    plan.Code,
	}, nil
}

// ensureCustomer provisions the provider customer at most once per tenant.
// The provider call and the persist are not atomic, so the claim is a
// conditional write: if a concurrent checkout or webhook set the id first,
// the stored id wins and the extra provider customer is only logged.
func (s *checkoutService) ensureCustomer(ctx context.Context, tenant *db_models.Tenant) (string, error) {
	if tenant.HasBillingAccount() {
		return tenant.ProviderCustomerID, nil
	}

	tenantID := tenant.ID.String()
	v, err, _ := s.provisioning.Do(tenantID, func() (interface{}, error) {
		// Re-check under the flight: an earlier request may have landed.
		current, err := s.tenants.FindByID(ctx, tenantID)
		if err != nil {
			return "", utils.ErrDatabaseError
		}
		if current == nil {
			return "", utils.ErrTenantNotFound
		}
		if current.HasBillingAccount() {
			return current.ProviderCustomerID, nil
		}

		customer, err := s.provider.CreateCustomer(ctx, providers.CreateCustomerParams{
			TenantID: tenantID,
			Name:     current.Name,
		})
		if err != nil {
			return "", err
		}

		claimed, err := s.tenants.ClaimCustomerID(ctx, tenantID, s.name, customer.ID)
		if err != nil {
			return "", fmt.Errorf("persist customer id: %w", utils.ErrDatabaseError)
		}
		if !claimed {
			// A webhook apply raced us and attached an id first.
			stored, err := s.tenants.FindByID(ctx, tenantID)
			if err != nil || stored == nil || !stored.HasBillingAccount() {
				return "", utils.ErrDatabaseError
			}
			s.logger.Warn("provider customer orphaned by lost claim",
				zap.String("tenant_id", tenantID),
				zap.String("orphaned_customer_id", customer.ID),
				zap.String("stored_customer_id", stored.ProviderCustomerID))
			return stored.ProviderCustomerID, nil
		}

		s.logger.Info("provider customer provisioned",
			zap.String("tenant_id", tenantID),
			zap.String("customer_id", customer.ID))
		return customer.ID, nil
	})
	if err != nil {
		return "", err
	}

	return v.(string), nil
}
