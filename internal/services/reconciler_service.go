package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"saasbase/internal/models/db_models"
	"saasbase/internal/plans"
	"saasbase/internal/providers"
	"saasbase/internal/repositories"
	"saasbase/pkg/utils"
)

// RetainTierOnDelete keeps the last paid tier on the record when the provider
// reports the subscription deleted, so the UI can show what the tenant used to
// be on. Flip to false to reset the tier to NONE instead.
const RetainTierOnDelete = true

// maxApplyAttempts bounds the reload-and-retry loop when a guarded write loses
// to a concurrent apply for the same tenant.
const maxApplyAttempts = 3

type ReconcilerService interface {
	Apply(ctx context.Context, event *providers.BillingEvent) error
}

// applyFunc computes the column changes one event implies for the current
// record, and whether applying it advances the last-applied-event watermark.
type applyFunc func(event *providers.BillingEvent, tenant *db_models.Tenant) (map[string]interface{}, bool)

type reconcilerService struct {
	tenants  repositories.TenantRepository
	provider string
	logger   *zap.Logger
	handlers map[providers.EventKind]applyFunc
}

func NewReconcilerService(tenants repositories.TenantRepository, providerName string, logger *zap.Logger) ReconcilerService {
	r := &reconcilerService{
		tenants:  tenants,
		provider: providerName,
		logger:   logger,
	}
	r.handlers = map[providers.EventKind]applyFunc{
		providers.EventCheckoutCompleted:   r.applyCheckoutCompleted,
		providers.EventSubscriptionCreated: r.applySubscriptionChange,
		providers.EventSubscriptionUpdated: r.applySubscriptionChange,
		providers.EventSubscriptionDeleted: r.applySubscriptionDeleted,
	}
	return r
}

// Apply folds one provider event into the owning tenant's billing record.
// Returning nil means the event is settled (applied or intentionally
// discarded) and the ingress may acknowledge it; returning an error means the
// provider must redeliver.
func (r *reconcilerService) Apply(ctx context.Context, event *providers.BillingEvent) error {
	handler, ok := r.handlers[event.Kind]
	if !ok {
		// Forward compatibility: acknowledge kinds we do not track.
		r.logger.Debug("ignoring unhandled provider event kind",
			zap.String("event_id", event.ID),
			zap.String("kind", string(event.Kind)))
		return nil
	}

	for attempt := 0; attempt < maxApplyAttempts; attempt++ {
		tenant, err := r.resolveTenant(ctx, event)
		if err != nil {
			return fmt.Errorf("resolve tenant: %w", err)
		}
		if tenant == nil {
			// Unattributable events are discarded, not retried, to avoid
			// poison-message loops.
			r.logger.Warn("discarding event for unknown tenant",
				zap.String("event_id", event.ID),
				zap.String("kind", string(event.Kind)),
				zap.String("customer_id", event.CustomerID))
			return nil
		}

		if tenant.LastAppliedEventID == event.ID && event.ID != "" {
			r.logger.Debug("duplicate event already applied",
				zap.String("event_id", event.ID),
				zap.String("tenant_id", tenant.ID.String()))
			return nil
		}

		changes, advance := handler(event, tenant)

		if advance && event.OccurredAt < tenant.LastAppliedEventAt {
			// Stale: a newer event already landed. Never regress.
			r.logger.Debug("discarding stale event",
				zap.String("event_id", event.ID),
				zap.String("tenant_id", tenant.ID.String()),
				zap.Int64("event_at", event.OccurredAt),
				zap.Int64("watermark", tenant.LastAppliedEventAt))
			return nil
		}

		if len(changes) == 0 {
			return nil
		}

		if advance {
			changes["last_applied_event_id"] = event.ID
			changes["last_applied_event_at"] = event.OccurredAt
		}

		applied, err := r.tenants.ApplyBillingUpdate(ctx, tenant.ID.String(),
			tenant.LastAppliedEventID, tenant.LastAppliedEventAt, changes)
		if err != nil {
			return fmt.Errorf("apply billing update: %w", err)
		}
		if applied {
			r.logger.Info("applied billing event",
				zap.String("event_id", event.ID),
				zap.String("kind", string(event.Kind)),
				zap.String("tenant_id", tenant.ID.String()))
			return nil
		}
		// Lost the guarded write to a concurrent apply; reload and retry.
	}

	return utils.ErrConcurrentUpdate
}

func (r *reconcilerService) resolveTenant(ctx context.Context, event *providers.BillingEvent) (*db_models.Tenant, error) {
	if event.TenantID != "" {
		return r.tenants.FindByID(ctx, event.TenantID)
	}
	if event.CustomerID != "" {
		return r.tenants.FindByCustomerID(ctx, event.CustomerID)
	}
	return nil, nil
}

// checkout completed only attaches the customer id; the tier is set by the
// subscription-created event that follows. The attach does not advance the
// watermark because it touches a column subscription events never regress.
func (r *reconcilerService) applyCheckoutCompleted(event *providers.BillingEvent, tenant *db_models.Tenant) (map[string]interface{}, bool) {
	if event.CustomerID == "" || tenant.HasBillingAccount() {
		return nil, false
	}
	return map[string]interface{}{
		"provider":             r.provider,
		"provider_customer_id": event.CustomerID,
	}, false
}

func (r *reconcilerService) applySubscriptionChange(event *providers.BillingEvent, tenant *db_models.Tenant) (map[string]interface{}, bool) {
	tier := plans.ResolveTier(event.PlanNickname)
	if tier == db_models.TierNone {
		r.logger.Warn("unrecognized plan nickname, tier set to NONE",
			zap.String("event_id", event.ID),
			zap.String("plan_nickname", event.PlanNickname),
			zap.String("tenant_id", tenant.ID.String()))
	}

	changes := map[string]interface{}{
		"provider_subscription_id": event.SubscriptionID,
		"subscription_tier":        tier,
		"subscription_status":      db_models.SubscriptionStatus(event.Status),
		"current_period_start":     event.PeriodStart,
		"current_period_end":       event.PeriodEnd,
		"cancel_at_period_end":     event.CancelAtPeriodEnd,
	}
	if event.CustomerID != "" && !tenant.HasBillingAccount() {
		changes["provider"] = r.provider
		changes["provider_customer_id"] = event.CustomerID
	}
	return changes, true
}

func (r *reconcilerService) applySubscriptionDeleted(event *providers.BillingEvent, tenant *db_models.Tenant) (map[string]interface{}, bool) {
	changes := map[string]interface{}{
		"subscription_status":  db_models.SubStatusCanceled,
		"cancel_at_period_end": false,
	}
	if !RetainTierOnDelete {
		changes["subscription_tier"] = db_models.TierNone
	}
	return changes, true
}
