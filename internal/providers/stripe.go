package providers

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"go.uber.org/zap"
	"saasbase/pkg/utils"
)

// MetadataTenantID is the metadata key carried on customers, checkout sessions
// and subscriptions so webhook events attribute to a tenant without a lookup.
const MetadataTenantID = "tenant_id"

// MetadataPlanCode mirrors the selected catalog plan onto the checkout flow.
const MetadataPlanCode = "plan_code"

type StripeConfig struct {
	SecretKey       string // sk_test_... / sk_live_...
	WebhookSecret   string // whsec_..., consumed by the webhook controller
	SuccessURL      string // e.g. https://yourapp.com/dashboard?session_id={CHECKOUT_SESSION_ID}
	CancelURL       string // e.g. https://yourapp.com/pricing
	PortalReturnURL string // e.g. https://yourapp.com/dashboard
	ProviderName    string // "stripe" (stored on Tenant.Provider)
}

type StripeClient struct {
	api    *client.API
	cfg    StripeConfig
	logger *zap.Logger
}

func NewStripeClient(cfg StripeConfig, logger *zap.Logger) (*StripeClient, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("missing stripe secret key")
	}
	if cfg.ProviderName == "" {
		cfg.ProviderName = "stripe"
	}

	api := &client.API{}
	api.Init(cfg.SecretKey, nil)

	return &StripeClient{
		api:    api,
		cfg:    cfg,
		logger: logger,
	}, nil
}

func (s *StripeClient) Config() StripeConfig {
	return s.cfg
}

func (s *StripeClient) CreateCustomer(ctx context.Context, p CreateCustomerParams) (*Customer, error) {
	params := &stripe.CustomerParams{
		Params: stripe.Params{Context: ctx},
		Name:   stripe.String(p.Name),
	}
	if p.Email != "" {
		params.Email = stripe.String(p.Email)
	}
	params.AddMetadata(MetadataTenantID, p.TenantID)

	cust, err := s.api.Customers.New(params)
	if err != nil {
		return nil, s.classify("create customer", err)
	}

	return &Customer{ID: cust.ID, Email: cust.Email}, nil
}

func (s *StripeClient) CreateCheckoutSession(ctx context.Context, p CheckoutParams) (*CheckoutSession, error) {
	priceID, err := s.findPriceByLookupKey(ctx, p.PriceLookupKey)
	if err != nil {
		return nil, err
	}

	params := &stripe.CheckoutSessionParams{
		Params:     stripe.Params{Context: ctx},
		Mode:       stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		Customer:   stripe.String(p.CustomerID),
		SuccessURL: stripe.String(s.cfg.SuccessURL),
		CancelURL:  stripe.String(s.cfg.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(priceID), Quantity: stripe.Int64(1)},
		},
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{
				MetadataTenantID: p.TenantID,
				MetadataPlanCode: p.PlanCode,
			},
		},
	}
	params.AddMetadata(MetadataTenantID, p.TenantID)
	params.AddMetadata(MetadataPlanCode, p.PlanCode)

	sess, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, s.classify("create checkout session", err)
	}

	return &CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

func (s *StripeClient) CreatePortalSession(ctx context.Context, p PortalParams) (*PortalSession, error) {
	params := &stripe.BillingPortalSessionParams{
		Params:    stripe.Params{Context: ctx},
		Customer:  stripe.String(p.CustomerID),
		ReturnURL: stripe.String(s.cfg.PortalReturnURL),
	}

	sess, err := s.api.BillingPortalSessions.New(params)
	if err != nil {
		return nil, s.classify("create portal session", err)
	}

	return &PortalSession{URL: sess.URL}, nil
}

func (s *StripeClient) findPriceByLookupKey(ctx context.Context, lookupKey string) (string, error) {
	params := &stripe.PriceListParams{
		LookupKeys: stripe.StringSlice([]string{lookupKey}),
	}
	params.Context = ctx

	iter := s.api.Prices.List(params)
	for iter.Next() {
		return iter.Price().ID, nil
	}
	if err := iter.Err(); err != nil {
		return "", s.classify("list prices", err)
	}

	s.logger.Warn("no provider price for lookup key", zap.String("lookup_key", lookupKey))
	return "", utils.ErrUnknownPlan
}

// classify folds a stripe error into the local taxonomy: provider 5xx and
// transport failures are retryable by the caller, provider 4xx is not.
func (s *StripeClient) classify(op string, err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		s.logger.Error("stripe call failed",
			zap.String("op", op),
			zap.Int("http_status", stripeErr.HTTPStatusCode),
			zap.String("code", string(stripeErr.Code)))
		if stripeErr.HTTPStatusCode >= 500 {
			return fmt.Errorf("%s: %w", op, utils.ErrProviderTransient)
		}
		return fmt.Errorf("%s: %w", op, utils.ErrProviderRejected)
	}

	s.logger.Error("stripe call failed", zap.String("op", op), zap.Error(err))
	return fmt.Errorf("%s: %w", op, utils.ErrProviderTransient)
}
