package entity

// PlanID identifies a SaaS subscription tier.
type PlanID string

const (
	PlanFree     PlanID = "free"
	PlanPro      PlanID = "pro"
	PlanBusiness PlanID = "business"
)

// PlanLimits defines what a tier allows. A nil limit means unlimited.
type PlanLimits struct {
	MaxInvoicesPerMonth *int `json:"max_invoices_per_month,omitempty"`
	MaxClients          *int `json:"max_clients,omitempty"`
	MaxRecurring        *int `json:"max_recurring_invoices,omitempty"`
	AIAssistantIncluded bool `json:"ai_assistant_included"`
	PrioritySupport     bool `json:"priority_support"`
}

// SubscriptionPlan is a static tier definition. Plans are configuration,
// not user data, so the catalog lives in code rather than the database.
type SubscriptionPlan struct {
	ID                 PlanID     `json:"id"`
	Name               string     `json:"name"`
	PricePerMonthCents int        `json:"price_per_month_cents"`
	Currency           string     `json:"currency"`
	Description        string     `json:"description"`
	Features           []string   `json:"features"`
	Limits             PlanLimits `json:"limits"`
}

func intPtr(v int) *int { return &v }

var availablePlans = []SubscriptionPlan{
	{
		ID:                 PlanFree,
		Name:               "Free",
		PricePerMonthCents: 0,
		Currency:           "EUR",
		Description:        "For getting started",
		Features: []string{
			"Up to 3 invoices per month",
			"Up to 3 clients",
			"Unlimited quotes",
			"No recurring invoices",
		},
		Limits: PlanLimits{
			MaxInvoicesPerMonth: intPtr(3),
			MaxClients:          intPtr(3),
			MaxRecurring:        intPtr(0),
		},
	},
	{
		ID:                 PlanPro,
		Name:               "Pro",
		PricePerMonthCents: 900,
		Currency:           "EUR",
		Description:        "For active freelancers",
		Features: []string{
			"Unlimited invoices",
			"Unlimited clients",
			"Up to 5 recurring invoices",
			"AI assistant included",
			"Email support",
		},
		Limits: PlanLimits{
			MaxRecurring:        intPtr(5),
			AIAssistantIncluded: true,
		},
	},
	{
		ID:                 PlanBusiness,
		Name:               "Business",
		PricePerMonthCents: 2900,
		Currency:           "EUR",
		Description:        "For small agencies",
		Features: []string{
			"Everything unlimited",
			"Unlimited recurring invoices",
			"Advanced AI assistant",
			"Priority support",
		},
		Limits: PlanLimits{
			AIAssistantIncluded: true,
			PrioritySupport:     true,
		},
	},
}

// AvailablePlans returns the static plan catalog.
func AvailablePlans() []SubscriptionPlan {
	return availablePlans
}

// PlanByID looks up a plan by its ID. Returns nil for unknown IDs; callers
// must treat that as a deny, never as unlimited access.
func PlanByID(id PlanID) *SubscriptionPlan {
	for i := range availablePlans {
		if availablePlans[i].ID == id {
			return &availablePlans[i]
		}
	}
	return nil
}
