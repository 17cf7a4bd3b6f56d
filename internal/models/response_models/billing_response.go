package response_models

import (
	"github.com/google/uuid"
	"saasbase/internal/models/db_models"
)

type CheckoutResponse struct {
	RedirectURL string `json:"redirect_url"`
	PlanCode    string `json:"plan_code"`
}

type PortalResponse struct {
	RedirectURL string `json:"redirect_url"`
}

type PlanResponse struct {
	Code        string           `json:"code"`
	Nickname    string           `json:"nickname"`
	Tier        string           `json:"tier"`
	AmountMinor int64            `json:"amount_minor"`
	Currency    string           `json:"currency"`
	Interval    string           `json:"interval"`
	TrialDays   int32            `json:"trial_days"`
	Description string           `json:"description,omitempty"`
	Features    []string         `json:"features,omitempty"`
	Limits      map[string]int64 `json:"limits,omitempty"`
}

type TenantResponse struct {
	ID                 uuid.UUID `json:"id"`
	Name               string    `json:"name"`
	OwnerID            uuid.UUID `json:"owner_id"`
	SubscriptionTier   string    `json:"subscription_tier"`
	SubscriptionStatus string    `json:"subscription_status,omitempty"`
	CurrentPeriodStart int64     `json:"current_period_start,omitempty"`
	CurrentPeriodEnd   int64     `json:"current_period_end,omitempty"`
	CancelAtPeriodEnd  bool      `json:"cancel_at_period_end"`
	HasBillingAccount  bool      `json:"has_billing_account"`
}

func TenantFromModel(t *db_models.Tenant) *TenantResponse {
	return &TenantResponse{
		ID:                 t.ID,
		Name:               t.Name,
		OwnerID:            t.OwnerID,
		SubscriptionTier:   string(t.SubscriptionTier),
		SubscriptionStatus: string(t.SubscriptionStatus),
		CurrentPeriodStart: t.CurrentPeriodStart,
		CurrentPeriodEnd:   t.CurrentPeriodEnd,
		CancelAtPeriodEnd:  t.CancelAtPeriodEnd,
		HasBillingAccount:  t.HasBillingAccount(),
	}
}
