package db_models

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type SubscriptionTier string

const (
	TierNone       SubscriptionTier = "NONE"
	TierHobby      SubscriptionTier = "HOBBY"
	TierStarter    SubscriptionTier = "STARTER"
	TierPro        SubscriptionTier = "PRO"
	TierBusiness   SubscriptionTier = "BUSINESS"
	TierEnterprise SubscriptionTier = "ENTERPRISE"
)

type SubscriptionStatus string

const (
	SubStatusTrialing   SubscriptionStatus = "trialing"
	SubStatusActive     SubscriptionStatus = "active"
	SubStatusPastDue    SubscriptionStatus = "past_due"
	SubStatusCanceled   SubscriptionStatus = "canceled"
	SubStatusIncomplete SubscriptionStatus = "incomplete"
)

// Tenant is the billing/ownership unit. Billing columns are mutated only by
// the reconciler's guarded update; ProviderCustomerID is claimed at most once.
type Tenant struct {
	BaseModel
	Name    string
	OwnerID uuid.UUID `gorm:"index"`

	Provider               string           `gorm:"index"` // "stripe"
	ProviderCustomerID     string           `gorm:"index"`
	ProviderSubscriptionID string           `gorm:"index"`
	SubscriptionTier       SubscriptionTier `gorm:"default:'NONE'"`
	SubscriptionStatus     SubscriptionStatus
	CurrentPeriodStart     int64
	CurrentPeriodEnd       int64
	CancelAtPeriodEnd      bool

	// Watermark of the last provider event folded into this record.
	LastAppliedEventID string
	LastAppliedEventAt int64

	Metadata datatypes.JSON `gorm:"type:jsonb;default:'{}'"`
}

// HasBillingAccount reports whether a provider customer has been provisioned.
func (t *Tenant) HasBillingAccount() bool {
	return strings.TrimSpace(t.ProviderCustomerID) != ""
}
