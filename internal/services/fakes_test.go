package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"saasbase/internal/models/db_models"
	"saasbase/internal/providers"
)

// fakeTenantRepo is an in-memory TenantRepository with the same guarded-write
// semantics as the SQL implementation.
type fakeTenantRepo struct {
	mu      sync.Mutex
	tenants map[string]*db_models.Tenant

	findErr  error
	applyErr error
	claimErr error

	// forcedApplyMisses makes the next N guarded writes report a lost race
	// without changing state.
	forcedApplyMisses int

	// onClaim, when set, runs instead of the normal claim path.
	onClaim func(tenantID, provider, customerID string) (bool, error)

	applyCalls int
	claimCalls int
}

func newFakeTenantRepo(tenants ...*db_models.Tenant) *fakeTenantRepo {
	repo := &fakeTenantRepo{tenants: make(map[string]*db_models.Tenant)}
	for _, t := range tenants {
		repo.tenants[t.ID.String()] = t
	}
	return repo
}

func newTestTenant(name string) *db_models.Tenant {
	t := &db_models.Tenant{
		Name:             name,
		OwnerID:          uuid.New(),
		SubscriptionTier: db_models.TierNone,
	}
	t.ID = uuid.New()
	return t
}

func (f *fakeTenantRepo) get(id string) *db_models.Tenant {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tenants[id]
	if !ok {
		return nil
	}
	cp := *t
	return &cp
}

func (f *fakeTenantRepo) Insert(ctx context.Context, tenant *db_models.Tenant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if tenant.ID == uuid.Nil {
		tenant.ID = uuid.New()
	}
	f.tenants[tenant.ID.String()] = tenant
	return nil
}

func (f *fakeTenantRepo) FindByID(ctx context.Context, id string) (*db_models.Tenant, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.get(id), nil
}

func (f *fakeTenantRepo) FindByOwner(ctx context.Context, ownerID string) (*db_models.Tenant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tenants {
		if t.OwnerID.String() == ownerID {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeTenantRepo) FindByCustomerID(ctx context.Context, customerID string) (*db_models.Tenant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tenants {
		if t.ProviderCustomerID == customerID {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeTenantRepo) UpdateName(ctx context.Context, id string, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.tenants[id]; ok {
		t.Name = name
	}
	return nil
}

func (f *fakeTenantRepo) ClaimCustomerID(ctx context.Context, tenantID, provider, customerID string) (bool, error) {
	f.mu.Lock()
	f.claimCalls++
	f.mu.Unlock()

	if f.claimErr != nil {
		return false, f.claimErr
	}
	if f.onClaim != nil {
		return f.onClaim(tenantID, provider, customerID)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tenants[tenantID]
	if !ok || t.ProviderCustomerID != "" {
		return false, nil
	}
	t.Provider = provider
	t.ProviderCustomerID = customerID
	return true, nil
}

func (f *fakeTenantRepo) ApplyBillingUpdate(ctx context.Context, tenantID string, readEventID string, readEventAt int64, changes map[string]interface{}) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.applyCalls++

	if f.applyErr != nil {
		return false, f.applyErr
	}
	if f.forcedApplyMisses > 0 {
		f.forcedApplyMisses--
		return false, nil
	}

	t, ok := f.tenants[tenantID]
	if !ok {
		return false, nil
	}
	if t.LastAppliedEventID != readEventID || t.LastAppliedEventAt != readEventAt {
		return false, nil
	}

	for col, v := range changes {
		switch col {
		case "provider":
			t.Provider = v.(string)
		case "provider_customer_id":
			t.ProviderCustomerID = v.(string)
		case "provider_subscription_id":
			t.ProviderSubscriptionID = v.(string)
		case "subscription_tier":
			t.SubscriptionTier = v.(db_models.SubscriptionTier)
		case "subscription_status":
			t.SubscriptionStatus = v.(db_models.SubscriptionStatus)
		case "current_period_start":
			t.CurrentPeriodStart = v.(int64)
		case "current_period_end":
			t.CurrentPeriodEnd = v.(int64)
		case "cancel_at_period_end":
			t.CancelAtPeriodEnd = v.(bool)
		case "last_applied_event_id":
			t.LastAppliedEventID = v.(string)
		case "last_applied_event_at":
			t.LastAppliedEventAt = v.(int64)
		}
	}
	return true, nil
}

// fakeProviderClient records calls and returns canned results.
type fakeProviderClient struct {
	mu sync.Mutex

	customerErr error
	checkoutErr error
	portalErr   error

	nextCustomerID string
	createDelay    time.Duration

	customerCalls int
	checkoutCalls int
	portalCalls   int

	lastCheckout providers.CheckoutParams
	lastPortal   providers.PortalParams
}

func (f *fakeProviderClient) CreateCustomer(ctx context.Context, p providers.CreateCustomerParams) (*providers.Customer, error) {
	if f.createDelay > 0 {
		time.Sleep(f.createDelay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.customerCalls++
	if f.customerErr != nil {
		return nil, f.customerErr
	}
	id := f.nextCustomerID
	if id == "" {
		id = "cus_fake"
	}
	return &providers.Customer{ID: id}, nil
}

func (f *fakeProviderClient) CreateCheckoutSession(ctx context.Context, p providers.CheckoutParams) (*providers.CheckoutSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checkoutCalls++
	f.lastCheckout = p
	if f.checkoutErr != nil {
		return nil, f.checkoutErr
	}
	return &providers.CheckoutSession{ID: "cs_fake", URL: "https://checkout.example.com/cs_fake"}, nil
}

func (f *fakeProviderClient) CreatePortalSession(ctx context.Context, p providers.PortalParams) (*providers.PortalSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.portalCalls++
	f.lastPortal = p
	if f.portalErr != nil {
		return nil, f.portalErr
	}
	return &providers.PortalSession{URL: "https://portal.example.com/ps_fake"}, nil
}
