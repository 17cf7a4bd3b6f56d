package plans

import (
	"strings"

	"saasbase/internal/models/db_models"
)

// Plan is one entry of the static catalog. PriceLookupKey is the provider-side
// price lookup key used when opening a checkout session.
type Plan struct {
	Code           string
	Nickname       string
	Tier           db_models.SubscriptionTier
	PriceLookupKey string
	AmountMinor    int64
	Currency       string
	Interval       string
	TrialDays      int32
	Description    string
	Features       []string
	Limits         map[string]int64
}

var catalog = []Plan{
	{
		Code:           "hobby",
		Nickname:       "Hobby",
		Tier:           db_models.TierHobby,
		PriceLookupKey: "hobby_monthly",
		AmountMinor:    0,
		Currency:       "usd",
		Interval:       "month",
		Description:    "Perfect for side projects and learning",
		Features:       []string{"1 application", "Basic auth & billing setup", "Community support"},
		Limits:         map[string]int64{"applications": 1, "team_members": 1, "api_calls": 1000},
	},
	{
		Code:           "starter",
		Nickname:       "Starter",
		Tier:           db_models.TierStarter,
		PriceLookupKey: "starter_monthly",
		AmountMinor:    2900,
		Currency:       "usd",
		Interval:       "month",
		TrialDays:      14,
		Description:    "For indie developers and small startups",
		Features:       []string{"Up to 3 applications", "Email support", "Custom domains"},
		Limits:         map[string]int64{"applications": 3, "team_members": 3, "api_calls": 10000},
	},
	{
		Code:           "pro",
		Nickname:       "Pro",
		Tier:           db_models.TierPro,
		PriceLookupKey: "pro_monthly",
		AmountMinor:    9900,
		Currency:       "usd",
		Interval:       "month",
		TrialDays:      14,
		Description:    "For growing SaaS companies",
		Features:       []string{"Up to 10 applications", "Priority support", "Unlimited custom domains"},
		Limits:         map[string]int64{"applications": 10, "team_members": 10, "api_calls": 100000},
	},
	{
		Code:           "business",
		Nickname:       "Business",
		Tier:           db_models.TierBusiness,
		PriceLookupKey: "business_monthly",
		AmountMinor:    29900,
		Currency:       "usd",
		Interval:       "month",
		Description:    "For established teams",
		Features:       []string{"Unlimited applications", "SLA support", "SSO"},
		Limits:         map[string]int64{"applications": -1, "team_members": 50, "api_calls": 1000000},
	},
	{
		Code:           "enterprise",
		Nickname:       "Enterprise",
		Tier:           db_models.TierEnterprise,
		PriceLookupKey: "enterprise_monthly",
		AmountMinor:    99900,
		Currency:       "usd",
		Interval:       "month",
		Description:    "Custom everything",
		Features:       []string{"Everything in Business", "Dedicated support", "Custom contracts"},
		Limits:         map[string]int64{"applications": -1, "team_members": -1, "api_calls": -1},
	},
}

// ResolveTier maps a provider plan nickname (or lookup key) to an internal
// tier by case-insensitive substring match. Unknown identifiers resolve to
// TierNone; callers decide whether that is fatal.
func ResolveTier(identifier string) db_models.SubscriptionTier {
	nickname := strings.ToLower(identifier)
	switch {
	case strings.Contains(nickname, "hobby"):
		return db_models.TierHobby
	case strings.Contains(nickname, "starter"):
		return db_models.TierStarter
	case strings.Contains(nickname, "pro"):
		return db_models.TierPro
	case strings.Contains(nickname, "business"):
		return db_models.TierBusiness
	case strings.Contains(nickname, "enterprise"):
		return db_models.TierEnterprise
	}
	return db_models.TierNone
}

// Lookup returns the catalog entry for a user-selectable plan code.
func Lookup(code string) (Plan, bool) {
	want := strings.ToLower(strings.TrimSpace(code))
	for _, p := range catalog {
		if p.Code == want {
			return p, true
		}
	}
	return Plan{}, false
}

// All returns the catalog in display order.
func All() []Plan {
	out := make([]Plan, len(catalog))
	copy(out, catalog)
	return out
}
