package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"saasbase/internal/models/db_models"
)

type TenantRepository interface {
	Insert(ctx context.Context, tenant *db_models.Tenant) error
	FindByID(ctx context.Context, id string) (*db_models.Tenant, error)
	FindByOwner(ctx context.Context, ownerID string) (*db_models.Tenant, error)
	FindByCustomerID(ctx context.Context, customerID string) (*db_models.Tenant, error)
	UpdateName(ctx context.Context, id string, name string) error

	// ClaimCustomerID assigns the provider customer id only if none is set.
	// Returns false when another writer already claimed one.
	ClaimCustomerID(ctx context.Context, tenantID, provider, customerID string) (bool, error)

	// ApplyBillingUpdate writes the given billing columns only if the stored
	// event watermark still matches the one the caller read. Returns false
	// when a concurrent apply won, so the caller can reload and retry.
	ApplyBillingUpdate(ctx context.Context, tenantID string, readEventID string, readEventAt int64, changes map[string]interface{}) (bool, error)
}

type tenantRepository struct {
	db *gorm.DB
}

func NewTenantRepository(db *gorm.DB) TenantRepository {
	return &tenantRepository{
		db: db,
	}
}

func (t *tenantRepository) Insert(ctx context.Context, tenant *db_models.Tenant) error {
	return t.db.WithContext(ctx).Create(tenant).Error
}

func (t *tenantRepository) FindByID(ctx context.Context, id string) (*db_models.Tenant, error) {
	var tenant db_models.Tenant
	err := t.db.WithContext(ctx).First(&tenant, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &tenant, nil
}

func (t *tenantRepository) FindByOwner(ctx context.Context, ownerID string) (*db_models.Tenant, error) {
	var tenant db_models.Tenant
	err := t.db.WithContext(ctx).First(&tenant, "owner_id = ?", ownerID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &tenant, nil
}

func (t *tenantRepository) FindByCustomerID(ctx context.Context, customerID string) (*db_models.Tenant, error) {
	var tenant db_models.Tenant
	err := t.db.WithContext(ctx).First(&tenant, "provider_customer_id = ?", customerID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &tenant, nil
}

func (t *tenantRepository) UpdateName(ctx context.Context, id string, name string) error {
	return t.db.WithContext(ctx).
		Model(&db_models.Tenant{}).
		Where("id = ?", id).
		Update("name", name).Error
}

func (t *tenantRepository) ClaimCustomerID(ctx context.Context, tenantID, provider, customerID string) (bool, error) {
	tx := t.db.WithContext(ctx).
		Model(&db_models.Tenant{}).
		Where("id = ? AND (provider_customer_id IS NULL OR provider_customer_id = '')", tenantID).
		Updates(map[string]interface{}{
			"provider":             provider,
			"provider_customer_id": customerID,
		})

	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected > 0, nil
}

func (t *tenantRepository) ApplyBillingUpdate(ctx context.Context, tenantID string, readEventID string, readEventAt int64, changes map[string]interface{}) (bool, error) {
	tx := t.db.WithContext(ctx).
		Model(&db_models.Tenant{}).
		Where("id = ? AND last_applied_event_id = ? AND last_applied_event_at = ?",
			tenantID, readEventID, readEventAt).
		Updates(changes)

	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected > 0, nil
}
