package academy

import (
	"time"

	"github.com/fabiopossato/F-bio/core"
)

// Plan is a subscription/payment plan tier. Values are the tokens persisted
// in snapshots.
type Plan string

const (
	PlanMonthly    Plan = "Mensal"
	PlanQuarterly  Plan = "Trimestral"
	PlanSemiannual Plan = "Semestral"
	PlanAnnual     Plan = "Anual"
)

var Plans = []Plan{PlanMonthly, PlanQuarterly, PlanSemiannual, PlanAnnual}

func (p Plan) IsValid() bool {
	switch p {
	case PlanMonthly, PlanQuarterly, PlanSemiannual, PlanAnnual:
		return true
	default:
		return false
	}
}

// renewalOffsetDays is the renewal clock per plan: fixed day counts, not
// calendar-month arithmetic.
var renewalOffsetDays = map[Plan]int{
	PlanMonthly:    30,
	PlanQuarterly:  90,
	PlanSemiannual: 180,
	PlanAnnual:     365,
}

// RenewalFrom computes the next renewal date for a plan from an anchor date.
func RenewalFrom(plan Plan, anchor time.Time) time.Time {
	return anchor.AddDate(0, 0, renewalOffsetDays[plan])
}

// TrialPeriod is how long an academy trial lasts.
const TrialPeriod = 30 * 24 * time.Hour

// Pricing is the fixed-shape price table mapping each plan tier to a price.
type Pricing struct {
	Monthly    float64 `json:"Mensal"`
	Quarterly  float64 `json:"Trimestral"`
	Semiannual float64 `json:"Semestral"`
	Annual     float64 `json:"Anual"`
}

func (p Pricing) ValueFor(plan Plan) float64 {
	switch plan {
	case PlanQuarterly:
		return p.Quarterly
	case PlanSemiannual:
		return p.Semiannual
	case PlanAnnual:
		return p.Annual
	default:
		return p.Monthly
	}
}

// DefaultPricing is the price table applied to newly founded academies.
func DefaultPricing() Pricing {
	return Pricing{Monthly: 299.90, Quarterly: 799.90, Semiannual: 1499.90, Annual: 2499.90}
}

// Status gates system access for everyone scoped to the academy.
type Status string

const (
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
)

func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusSuspended
}

type Academy struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	FoundedDate string `json:"foundedDate"` // YYYY-MM-DD
	OwnerID     string `json:"ownerId"`
	Status      Status `json:"status"`

	Pricing     Pricing `json:"pricing"`
	CurrentPlan Plan    `json:"currentPlan"`

	// SubscriptionValue always equals Pricing.ValueFor(CurrentPlan) after
	// any pricing or plan mutation.
	SubscriptionValue float64 `json:"subscriptionValue"`

	LastPaymentDate *time.Time `json:"lastPaymentDate,omitempty"`

	// NextRenewalDate is RenewalFrom(CurrentPlan, anchor) where the anchor
	// is the mutation time for non-trial states and TrialExpiration while
	// in trial.
	NextRenewalDate time.Time `json:"nextRenewalDate"`

	IsTrial         bool       `json:"isTrial"`
	TrialExpiration *time.Time `json:"trialExpiration,omitempty"` // present iff IsTrial
}

func (a *Academy) IsSuspended() bool {
	return a.Status == StatusSuspended
}

// NewAcademy contains information needed to found a new academy.
type NewAcademy struct {
	Name    string `json:"name" validate:"required"`
	OwnerID string `json:"ownerId" validate:"required"`
}

func (na *NewAcademy) Validate() error {
	na.Name = core.CleanString(na.Name)
	return core.Validate.Struct(na)
}
