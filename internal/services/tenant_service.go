package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"saasbase/internal/models/db_models"
	"saasbase/internal/models/response_models"
	"saasbase/internal/repositories"
	"saasbase/pkg/utils"
)

type TenantServiceInterface interface {
	CreateTenant(ctx context.Context, name string, ownerID string) (*response_models.TenantResponse, error)
	GetTenantByID(ctx context.Context, id string, actingUserID string) (*response_models.TenantResponse, error)
	GetTenantByOwner(ctx context.Context, ownerID string) (*response_models.TenantResponse, error)
	RenameTenant(ctx context.Context, id string, name string, actingUserID string) error
}

type TenantService struct {
	tenantRepo repositories.TenantRepository
}

func NewTenantService(tenantRepo repositories.TenantRepository) TenantServiceInterface {
	return &TenantService{
		tenantRepo: tenantRepo,
	}
}

func (s *TenantService) CreateTenant(ctx context.Context, name string, ownerID string) (*response_models.TenantResponse, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, utils.ErrValidation
	}

	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return nil, utils.ErrUnauthenticated
	}

	existing, err := s.tenantRepo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if existing != nil {
		return nil, utils.ErrTenantAlreadyExists
	}

	// Billing lifecycle starts here: tier NONE, no provider customer. The
	// customer id is claimed later by checkout or the first webhook event.
	tenant := &db_models.Tenant{
		Name:             name,
		OwnerID:          owner,
		SubscriptionTier: db_models.TierNone,
	}
	if err := s.tenantRepo.Insert(ctx, tenant); err != nil {
		return nil, utils.ErrDatabaseError
	}

	return response_models.TenantFromModel(tenant), nil
}

func (s *TenantService) GetTenantByID(ctx context.Context, id string, actingUserID string) (*response_models.TenantResponse, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, id)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if tenant == nil {
		return nil, utils.ErrTenantNotFound
	}
	if tenant.OwnerID.String() != actingUserID {
		return nil, utils.ErrForbidden
	}

	return response_models.TenantFromModel(tenant), nil
}

func (s *TenantService) GetTenantByOwner(ctx context.Context, ownerID string) (*response_models.TenantResponse, error) {
	tenant, err := s.tenantRepo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if tenant == nil {
		return nil, utils.ErrTenantNotFound
	}

	return response_models.TenantFromModel(tenant), nil
}

func (s *TenantService) RenameTenant(ctx context.Context, id string, name string, actingUserID string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return utils.ErrValidation
	}

	tenant, err := s.tenantRepo.FindByID(ctx, id)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if tenant == nil {
		return utils.ErrTenantNotFound
	}
	if tenant.OwnerID.String() != actingUserID {
		return utils.ErrForbidden
	}

	if err := s.tenantRepo.UpdateName(ctx, id, name); err != nil {
		return utils.ErrDatabaseError
	}
	return nil
}
