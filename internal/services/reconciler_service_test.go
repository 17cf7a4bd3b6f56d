package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"saasbase/internal/models/db_models"
	"saasbase/internal/providers"
	"saasbase/pkg/utils"
)

func newTestReconciler(repo *fakeTenantRepo) ReconcilerService {
	return NewReconcilerService(repo, "stripe", zap.NewNop())
}

func subscriptionEvent(id string, kind providers.EventKind, tenantID string, at int64) *providers.BillingEvent {
	return &providers.BillingEvent{
		ID:                id,
		Kind:              kind,
		OccurredAt:        at,
		TenantID:          tenantID,
		CustomerID:        "cus_1",
		SubscriptionID:    "sub_1",
		PlanNickname:      "Pro Monthly",
		Status:            "active",
		PeriodStart:       at,
		PeriodEnd:         at + 2592000,
		CancelAtPeriodEnd: false,
	}
}

func TestApplySubscriptionCreated(t *testing.T) {
	tenant := newTestTenant("acme")
	repo := newFakeTenantRepo(tenant)
	rec := newTestReconciler(repo)

	ev := subscriptionEvent("evt_1", providers.EventSubscriptionCreated, tenant.ID.String(), 1000)
	require.NoError(t, rec.Apply(context.Background(), ev))

	got := repo.get(tenant.ID.String())
	assert.Equal(t, db_models.TierPro, got.SubscriptionTier)
	assert.Equal(t, db_models.SubStatusActive, got.SubscriptionStatus)
	assert.Equal(t, "sub_1", got.ProviderSubscriptionID)
	assert.Equal(t, "cus_1", got.ProviderCustomerID)
	assert.Equal(t, int64(1000), got.CurrentPeriodStart)
	assert.Equal(t, "evt_1", got.LastAppliedEventID)
	assert.Equal(t, int64(1000), got.LastAppliedEventAt)
}

func TestApplyIsIdempotent(t *testing.T) {
	tenant := newTestTenant("acme")
	repo := newFakeTenantRepo(tenant)
	rec := newTestReconciler(repo)

	ev := subscriptionEvent("evt_1", providers.EventSubscriptionUpdated, tenant.ID.String(), 1000)
	require.NoError(t, rec.Apply(context.Background(), ev))
	first := repo.get(tenant.ID.String())
	writes := repo.applyCalls

	// Redelivery of the exact same event is a no-op.
	require.NoError(t, rec.Apply(context.Background(), ev))
	second := repo.get(tenant.ID.String())

	assert.Equal(t, *first, *second)
	assert.Equal(t, writes, repo.applyCalls)
}

func TestApplyConvergesRegardlessOfDeliveryOrder(t *testing.T) {
	older := func(tenantID string) *providers.BillingEvent {
		ev := subscriptionEvent("evt_old", providers.EventSubscriptionUpdated, tenantID, 1000)
		ev.PlanNickname = "Starter Monthly"
		ev.Status = "trialing"
		return ev
	}
	newer := func(tenantID string) *providers.BillingEvent {
		ev := subscriptionEvent("evt_new", providers.EventSubscriptionUpdated, tenantID, 2000)
		ev.CancelAtPeriodEnd = true
		return ev
	}

	// In-order delivery.
	t1 := newTestTenant("acme")
	repo1 := newFakeTenantRepo(t1)
	rec1 := newTestReconciler(repo1)
	require.NoError(t, rec1.Apply(context.Background(), older(t1.ID.String())))
	require.NoError(t, rec1.Apply(context.Background(), newer(t1.ID.String())))

	// Reversed delivery.
	t2 := newTestTenant("acme")
	repo2 := newFakeTenantRepo(t2)
	rec2 := newTestReconciler(repo2)
	require.NoError(t, rec2.Apply(context.Background(), newer(t2.ID.String())))
	require.NoError(t, rec2.Apply(context.Background(), older(t2.ID.String())))

	got1 := repo1.get(t1.ID.String())
	got2 := repo2.get(t2.ID.String())

	// Both orders settle on the state implied by the newer event.
	assert.Equal(t, db_models.TierPro, got1.SubscriptionTier)
	assert.True(t, got1.CancelAtPeriodEnd)
	assert.Equal(t, "evt_new", got1.LastAppliedEventID)

	assert.Equal(t, got1.SubscriptionTier, got2.SubscriptionTier)
	assert.Equal(t, got1.SubscriptionStatus, got2.SubscriptionStatus)
	assert.Equal(t, got1.CancelAtPeriodEnd, got2.CancelAtPeriodEnd)
	assert.Equal(t, got1.LastAppliedEventID, got2.LastAppliedEventID)
	assert.Equal(t, got1.LastAppliedEventAt, got2.LastAppliedEventAt)
}

func TestCheckoutCompletedAttachesCustomerOnce(t *testing.T) {
	tenant := newTestTenant("acme")
	repo := newFakeTenantRepo(tenant)
	rec := newTestReconciler(repo)

	ev := &providers.BillingEvent{
		ID:         "evt_co",
		Kind:       providers.EventCheckoutCompleted,
		OccurredAt: 500,
		TenantID:   tenant.ID.String(),
		CustomerID: "cus_1",
	}
	require.NoError(t, rec.Apply(context.Background(), ev))

	got := repo.get(tenant.ID.String())
	assert.Equal(t, "cus_1", got.ProviderCustomerID)
	// The attach touches a column subscription events never regress, so it
	// does not advance the watermark.
	assert.Equal(t, "", got.LastAppliedEventID)
	assert.Equal(t, int64(0), got.LastAppliedEventAt)
	// Nothing to change: the tier waits for subscription.created.
	assert.Equal(t, db_models.TierNone, got.SubscriptionTier)

	// A second checkout event must not overwrite the assigned id.
	later := &providers.BillingEvent{
		ID:         "evt_co2",
		Kind:       providers.EventCheckoutCompleted,
		OccurredAt: 600,
		TenantID:   tenant.ID.String(),
		CustomerID: "cus_other",
	}
	require.NoError(t, rec.Apply(context.Background(), later))
	assert.Equal(t, "cus_1", repo.get(tenant.ID.String()).ProviderCustomerID)
}

func TestSubscriptionDeletedRetainsTier(t *testing.T) {
	tenant := newTestTenant("acme")
	repo := newFakeTenantRepo(tenant)
	rec := newTestReconciler(repo)

	created := subscriptionEvent("evt_1", providers.EventSubscriptionCreated, tenant.ID.String(), 1000)
	created.CancelAtPeriodEnd = true
	require.NoError(t, rec.Apply(context.Background(), created))

	deleted := &providers.BillingEvent{
		ID:             "evt_2",
		Kind:           providers.EventSubscriptionDeleted,
		OccurredAt:     2000,
		TenantID:       tenant.ID.String(),
		CustomerID:     "cus_1",
		SubscriptionID: "sub_1",
	}
	require.NoError(t, rec.Apply(context.Background(), deleted))

	got := repo.get(tenant.ID.String())
	assert.Equal(t, db_models.SubStatusCanceled, got.SubscriptionStatus)
	assert.False(t, got.CancelAtPeriodEnd)
	// Historical display policy: the last tier stays on the record.
	assert.Equal(t, db_models.TierPro, got.SubscriptionTier)
}

func TestStaleEventIsDiscarded(t *testing.T) {
	tenant := newTestTenant("acme")
	repo := newFakeTenantRepo(tenant)
	rec := newTestReconciler(repo)

	newer := subscriptionEvent("evt_new", providers.EventSubscriptionUpdated, tenant.ID.String(), 2000)
	require.NoError(t, rec.Apply(context.Background(), newer))

	stale := subscriptionEvent("evt_old", providers.EventSubscriptionUpdated, tenant.ID.String(), 1000)
	stale.Status = "past_due"
	require.NoError(t, rec.Apply(context.Background(), stale))

	got := repo.get(tenant.ID.String())
	assert.Equal(t, db_models.SubStatusActive, got.SubscriptionStatus)
	assert.Equal(t, "evt_new", got.LastAppliedEventID)
}

func TestUnknownTenantIsDiscardedNotRetried(t *testing.T) {
	repo := newFakeTenantRepo()
	rec := newTestReconciler(repo)

	ev := subscriptionEvent("evt_1", providers.EventSubscriptionCreated, "2b1e7a60-0000-0000-0000-000000000000", 1000)
	ev.CustomerID = "cus_unknown"

	require.NoError(t, rec.Apply(context.Background(), ev))
	assert.Zero(t, repo.applyCalls)
}

func TestUnknownEventKindIsAcknowledged(t *testing.T) {
	tenant := newTestTenant("acme")
	repo := newFakeTenantRepo(tenant)
	rec := newTestReconciler(repo)

	ev := &providers.BillingEvent{
		ID:         "evt_inv",
		Kind:       providers.EventKind("invoice.payment_succeeded"),
		OccurredAt: 1000,
		TenantID:   tenant.ID.String(),
	}
	require.NoError(t, rec.Apply(context.Background(), ev))
	assert.Zero(t, repo.applyCalls)
}

func TestUnrecognizedPlanYieldsTierNone(t *testing.T) {
	tenant := newTestTenant("acme")
	repo := newFakeTenantRepo(tenant)
	rec := newTestReconciler(repo)

	ev := subscriptionEvent("evt_1", providers.EventSubscriptionCreated, tenant.ID.String(), 1000)
	ev.PlanNickname = "Legacy Gold"
	require.NoError(t, rec.Apply(context.Background(), ev))

	got := repo.get(tenant.ID.String())
	assert.Equal(t, db_models.TierNone, got.SubscriptionTier)
	assert.Equal(t, db_models.SubStatusActive, got.SubscriptionStatus)
}

func TestApplyRetriesAfterLostRace(t *testing.T) {
	tenant := newTestTenant("acme")
	repo := newFakeTenantRepo(tenant)
	repo.forcedApplyMisses = 1
	rec := newTestReconciler(repo)

	ev := subscriptionEvent("evt_1", providers.EventSubscriptionCreated, tenant.ID.String(), 1000)
	require.NoError(t, rec.Apply(context.Background(), ev))

	assert.Equal(t, 2, repo.applyCalls)
	assert.Equal(t, db_models.TierPro, repo.get(tenant.ID.String()).SubscriptionTier)
}

func TestApplyGivesUpAfterRepeatedRaces(t *testing.T) {
	tenant := newTestTenant("acme")
	repo := newFakeTenantRepo(tenant)
	repo.forcedApplyMisses = maxApplyAttempts
	rec := newTestReconciler(repo)

	ev := subscriptionEvent("evt_1", providers.EventSubscriptionCreated, tenant.ID.String(), 1000)
	err := rec.Apply(context.Background(), ev)
	assert.ErrorIs(t, err, utils.ErrConcurrentUpdate)
}

func TestApplySurfacesStoreFailure(t *testing.T) {
	tenant := newTestTenant("acme")
	repo := newFakeTenantRepo(tenant)
	repo.applyErr = utils.ErrDatabaseError
	rec := newTestReconciler(repo)

	ev := subscriptionEvent("evt_1", providers.EventSubscriptionCreated, tenant.ID.String(), 1000)
	err := rec.Apply(context.Background(), ev)
	assert.ErrorIs(t, err, utils.ErrDatabaseError)
}

func TestAttributionFallsBackToCustomerID(t *testing.T) {
	tenant := newTestTenant("acme")
	tenant.Provider = "stripe"
	tenant.ProviderCustomerID = "cus_1"
	repo := newFakeTenantRepo(tenant)
	rec := newTestReconciler(repo)

	ev := subscriptionEvent("evt_1", providers.EventSubscriptionCreated, "", 1000)
	require.NoError(t, rec.Apply(context.Background(), ev))

	assert.Equal(t, db_models.TierPro, repo.get(tenant.ID.String()).SubscriptionTier)
}
