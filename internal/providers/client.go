package providers

import "context"

type Customer struct {
	ID    string
	Email string
}

type CheckoutSession struct {
	ID  string
	URL string
}

type PortalSession struct {
	URL string
}

type CreateCustomerParams struct {
	TenantID string
	Name     string
	Email    string
}

type CheckoutParams struct {
	TenantID       string
	PlanCode       string
	PriceLookupKey string
	CustomerID     string
}

type PortalParams struct {
	CustomerID string
}

// Client is the payment provider surface the billing services depend on. It is
// constructed explicitly and injected so tests can substitute a fake; there is
// no package-level provider state.
type Client interface {
	CreateCustomer(ctx context.Context, params CreateCustomerParams) (*Customer, error)
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error)
	CreatePortalSession(ctx context.Context, params PortalParams) (*PortalSession, error)
}
