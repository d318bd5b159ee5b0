// Package progression computes stripe and belt eligibility from attendance
// and mastery data. It is a pure function layer: nothing here mutates a
// student record, and applying a promotion is a separate instructor action.
package progression

import (
	"fmt"

	"github.com/fabiopossato/F-bio/core/student"
	"github.com/fabiopossato/F-bio/core/technique"
)

// Classes required per stripe tier: the n-th stripe needs n*20 recorded
// classes in total.
const ClassesPerStripe = 20

// MasteryThreshold is the mastery ratio required (with 4 stripes) for a
// belt promotion.
const MasteryThreshold = 0.80

// Evaluation is the computed progression state of one student.
type Evaluation struct {
	ClassesForNextStripe int     `json:"classesForNextStripe"`
	StripeProgress       int     `json:"stripeProgress"` // percent, capped at 100
	MasteryRatio         float64 `json:"masteryRatio"`
	TechProgress         int     `json:"techProgress"` // percent

	StripeEligible bool `json:"stripeEligible"`
	BeltEligible   bool `json:"beltEligible"`

	// NextBelt is the ladder successor of the student's current belt;
	// empty at the ladder's terminal belt.
	NextBelt student.Belt `json:"nextBelt,omitempty"`

	// Reason is the human-readable alert cause; empty when neither
	// eligibility holds. Belt eligibility takes priority over stripe
	// eligibility.
	Reason string `json:"reason,omitempty"`
}

// Eligible reports whether the student is flagged for any promotion action.
func (ev Evaluation) Eligible() bool {
	return ev.StripeEligible || ev.BeltEligible
}

// Evaluate computes the progression state of a student against the current
// technique catalog.
func Evaluate(s student.Student, catalog []technique.Technique) Evaluation {
	ev := Evaluation{
		ClassesForNextStripe: (s.CurrentStripes + 1) * ClassesPerStripe,
	}

	totalClasses := s.TotalClasses()
	ev.StripeProgress = percent(totalClasses, ev.ClassesForNextStripe)
	ev.StripeEligible = totalClasses >= ev.ClassesForNextStripe && s.CurrentStripes < student.MaxStripes

	var atBelt, mastered int
	for _, tech := range catalog {
		if tech.BeltRequired != s.CurrentBelt {
			continue
		}
		atBelt++
		if s.HasMastered(tech.ID) {
			mastered++
		}
	}
	if atBelt > 0 {
		ev.MasteryRatio = float64(mastered) / float64(atBelt)
	}
	ev.TechProgress = int(ev.MasteryRatio*100 + 0.5)
	ev.BeltEligible = s.CurrentStripes == student.MaxStripes && ev.MasteryRatio >= MasteryThreshold

	if next, ok := student.NextBelt(s.Category, s.CurrentBelt); ok {
		ev.NextBelt = next
	}

	switch {
	case ev.BeltEligible:
		ev.Reason = "Belt requirements met (4 stripes + techniques)"
	case ev.StripeEligible:
		ev.Reason = fmt.Sprintf("Attendance target of %d classes reached (stripe %d)",
			ev.ClassesForNextStripe, s.CurrentStripes+1)
	}
	return ev
}

// Alert pairs a student with their progression state for the instructor
// alert list.
type Alert struct {
	Student    student.Student `json:"student"`
	Evaluation Evaluation      `json:"evaluation"`
}

// Alerts returns every non-instructor student flagged for a stripe or belt
// promotion, each annotated with the triggering condition.
func Alerts(students []student.Student, catalog []technique.Technique) []Alert {
	alerts := make([]Alert, 0)
	for _, s := range students {
		if !s.IsStudent() {
			continue
		}
		if ev := Evaluate(s, catalog); ev.Eligible() {
			alerts = append(alerts, Alert{Student: s, Evaluation: ev})
		}
	}
	return alerts
}

func percent(have, want int) int {
	if want <= 0 {
		return 0
	}
	p := int(float64(have) / float64(want) * 100)
	if p > 100 {
		p = 100
	}
	return p
}
