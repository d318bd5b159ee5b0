// Package access derives whether a session may proceed from the academy's
// subscription status and the member's payment state. Nothing here is
// persisted: the gate is evaluated on every login/session check.
package access

import (
	"time"

	"github.com/fabiopossato/F-bio/core/academy"
	"github.com/fabiopossato/F-bio/core/student"
)

// Access is the derived session state for one member.
type Access struct {
	// Suspended blocks everything except logout, regardless of
	// delinquency. Instructors are gated the same way as their students.
	Suspended bool `json:"suspended"`

	// Delinquent is a soft flag: the current month has no payment token.
	// It never blocks access.
	Delinquent bool `json:"delinquent"`
}

func (a Access) Allowed() bool { return !a.Suspended }

// Check derives the access state for a member of `acc` at time `now`.
// Operators authenticate on a separate credential track outside academy
// scoping and are never gated here.
func Check(s student.Student, acc *academy.Academy, now time.Time) Access {
	if s.IsOperator() {
		return Access{}
	}

	var a Access
	if acc != nil && acc.IsSuspended() {
		a.Suspended = true
		return a
	}
	if s.IsStudent() && !s.HasPaid(student.MonthToken(now)) {
		a.Delinquent = true
	}
	return a
}
