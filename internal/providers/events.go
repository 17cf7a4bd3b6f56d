package providers

import (
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v82"
)

type EventKind string

const (
	EventCheckoutCompleted   EventKind = "checkout.session.completed"
	EventSubscriptionCreated EventKind = "customer.subscription.created"
	EventSubscriptionUpdated EventKind = "customer.subscription.updated"
	EventSubscriptionDeleted EventKind = "customer.subscription.deleted"
)

// BillingEvent is the provider-neutral shape the reconciler consumes. ID and
// OccurredAt come straight from the provider and drive dedup and ordering.
type BillingEvent struct {
	ID         string
	Kind       EventKind
	OccurredAt int64 // unix seconds, provider-assigned

	TenantID          string // from flow metadata, may be empty (unattributable)
	CustomerID        string
	SubscriptionID    string
	PlanNickname      string
	Status            string
	PeriodStart       int64
	PeriodEnd         int64
	CancelAtPeriodEnd bool
}

// ParseStripeEvent converts a verified stripe event into a BillingEvent.
// Unhandled event types still produce an event (with only ID/Kind/OccurredAt
// set) so the reconciler can acknowledge and ignore them.
func ParseStripeEvent(event *stripe.Event) (*BillingEvent, error) {
	be := &BillingEvent{
		ID:         event.ID,
		Kind:       EventKind(event.Type),
		OccurredAt: event.Created,
	}

	switch be.Kind {
	case EventCheckoutCompleted:
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return nil, fmt.Errorf("parse checkout session: %w", err)
		}
		be.TenantID = sess.Metadata[MetadataTenantID]
		if sess.Customer != nil {
			be.CustomerID = sess.Customer.ID
		}

	case EventSubscriptionCreated, EventSubscriptionUpdated, EventSubscriptionDeleted:
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return nil, fmt.Errorf("parse subscription: %w", err)
		}
		be.TenantID = sub.Metadata[MetadataTenantID]
		be.SubscriptionID = sub.ID
		be.Status = string(sub.Status)
		be.CancelAtPeriodEnd = sub.CancelAtPeriodEnd
		if sub.Customer != nil {
			be.CustomerID = sub.Customer.ID
		}
		if sub.Items != nil && len(sub.Items.Data) > 0 {
			item := sub.Items.Data[0]
			// Period bounds live on the subscription item since the 2025
			// provider API versions.
			be.PeriodStart = item.CurrentPeriodStart
			be.PeriodEnd = item.CurrentPeriodEnd
			if item.Plan != nil && item.Plan.Nickname != "" {
				be.PlanNickname = item.Plan.Nickname
			} else if item.Price != nil {
				be.PlanNickname = item.Price.LookupKey
			}
		}
	}

	return be, nil
}
