package student

import (
	"fmt"
	"time"

	"github.com/fabiopossato/F-bio/core"
	"github.com/fabiopossato/F-bio/core/academy"
)

// Roles. Persisted values match the legacy snapshot wire format: instructors
// were stored as "admin" and the operator as "developer".
const (
	RoleStudent    = "student"
	RoleInstructor = "admin"
	RoleOperator   = "developer"
)

// Category is a student's age bracket, derived once at signup.
type Category string

const (
	CategoryAdult Category = "Adulto"
	CategoryYouth Category = "Infantil"
)

// Tuition defaults per category (monthly, BRL).
const (
	YouthTuition = 120
	AdultTuition = 150
)

// Stripe bounds within a belt.
const MaxStripes = 4

// CategoryForAge derives the (immutable) category at signup time.
func CategoryForAge(age int) Category {
	if age <= 15 {
		return CategoryYouth
	}
	return CategoryAdult
}

// DefaultTuition returns the default monthly tuition for a category.
func DefaultTuition(cat Category) float64 {
	if cat == CategoryYouth {
		return YouthTuition
	}
	return AdultTuition
}

type Student struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// Email is unique across the whole network; login is an exact
	// email+password match.
	Email string `json:"email"`

	// TODO: hash passwords once the legacy snapshot format can be migrated.
	Password string `json:"password,omitempty"`

	PhotoURL string  `json:"photoUrl,omitempty"`
	Age      int     `json:"age"`
	Weight   float64 `json:"weight"`

	Category       Category `json:"category"`
	CurrentBelt    Belt     `json:"currentBelt"`
	CurrentStripes int      `json:"currentStripes"` // 0..MaxStripes

	JoinedDate string `json:"joinedDate"` // YYYY-MM-DD

	// AttendanceHistory is an append-only list of YYYY-MM-DD tokens;
	// insertion order is the recorded chronological order and duplicates
	// are not prevented.
	AttendanceHistory []string `json:"attendanceHistory"`

	// MasteredTechniques is a set of technique IDs.
	MasteredTechniques []string `json:"masteredTechniques"`

	Role        string `json:"role"`
	ProfessorID string `json:"professorId,omitempty"`
	AcademyName string `json:"academyName,omitempty"`

	MonthlyTuition float64      `json:"monthlyTuition"`
	Payments       []string     `json:"payments"` // set of YYYY-MM tokens
	PlanType       academy.Plan `json:"planType"`
}

func (s *Student) IsStudent() bool    { return s.Role == RoleStudent }
func (s *Student) IsInstructor() bool { return s.Role == RoleInstructor }
func (s *Student) IsOperator() bool   { return s.Role == RoleOperator }

// CanManage reports whether `s` may act on `target`'s record (mastery
// toggles, promotions, payments): instructors manage students of their own
// academy.
func (s *Student) CanManage(target Student) bool {
	return s.IsInstructor() && s.AcademyName == target.AcademyName
}

func (s *Student) CheckPassword(pwd string) bool {
	return s.Password != "" && s.Password == pwd
}

// TotalClasses is the length of the attendance history, duplicates included.
func (s *Student) TotalClasses() int {
	return len(s.AttendanceHistory)
}

// CountInMonth counts attendance entries falling in the given year-month.
func (s *Student) CountInMonth(year int, month time.Month) int {
	prefix := fmt.Sprintf("%04d-%02d", year, month)
	var n int
	for _, d := range s.AttendanceHistory {
		if len(d) >= len(prefix) && d[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

// LastAttendance returns the most recent recorded entry, if any.
func (s *Student) LastAttendance() (string, bool) {
	if len(s.AttendanceHistory) == 0 {
		return "", false
	}
	return s.AttendanceHistory[len(s.AttendanceHistory)-1], true
}

func (s *Student) HasMastered(techniqueID string) bool {
	for _, id := range s.MasteredTechniques {
		if id == techniqueID {
			return true
		}
	}
	return false
}

// ToggleMastery flips `techniqueID` membership in the mastered set. Two
// toggles with the same state are a no-op.
func (s *Student) ToggleMastery(techniqueID string) {
	for i, id := range s.MasteredTechniques {
		if id == techniqueID {
			s.MasteredTechniques = append(s.MasteredTechniques[:i], s.MasteredTechniques[i+1:]...)
			return
		}
	}
	s.MasteredTechniques = append(s.MasteredTechniques, techniqueID)
}

func (s *Student) HasPaid(month string) bool {
	for _, m := range s.Payments {
		if m == month {
			return true
		}
	}
	return false
}

// DateToken formats a calendar date the way attendance history stores it.
func DateToken(t time.Time) string {
	return t.Format("2006-01-02")
}

// MonthToken formats a year-month the way payment records store it.
func MonthToken(t time.Time) string {
	return t.Format("2006-01")
}

// NewStudent contains information needed to sign a new student up.
type NewStudent struct {
	Name        string  `json:"name" validate:"required"`
	Email       string  `json:"email" validate:"required,email"`
	Password    string  `json:"password" validate:"required"`
	Age         int     `json:"age" validate:"required,min=4,max=100"`
	Weight      float64 `json:"weight" validate:"required,gt=0"`
	AcademyName string  `json:"academyName" validate:"required"`
	ProfessorID string  `json:"professorId" validate:"required"`
}

func (ns *NewStudent) Validate(svc *Service) error {
	ns.Name = core.CleanString(ns.Name)
	ns.Email = core.CleanString(ns.Email, true /* lower */)

	if err := core.Validate.Struct(ns); err != nil {
		return err
	}
	return svc.checkUniqueness(ns.Email)
}

// NewOwner contains information needed to create the founding instructor of
// a new academy.
type NewOwner struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required"`
	AcademyName string `json:"academyName" validate:"required"`
}

func (no *NewOwner) Validate(svc *Service) error {
	no.Name = core.CleanString(no.Name)
	no.Email = core.CleanString(no.Email, true /* lower */)
	no.AcademyName = core.CleanString(no.AcademyName)

	if err := core.Validate.Struct(no); err != nil {
		return err
	}
	return svc.checkUniqueness(no.Email)
}

// UpdateStudent defines what profile information may be modified on an
// existing Student. Category, belt and stripes are not editable here: the
// category is immutable and graduation has its own path.
type UpdateStudent struct {
	Name     string  `json:"name"`
	Email    string  `json:"email" validate:"omitempty,email"`
	Password string  `json:"password"`
	PhotoURL string  `json:"photoUrl"`
	Weight   float64 `json:"weight" validate:"omitempty,gt=0"`
}

func (us *UpdateStudent) Validate(orig Student, svc *Service) error {
	name := core.CleanString(us.Name)
	if name != "" {
		us.Name = name
	} else {
		us.Name = orig.Name
	}

	email := core.CleanString(us.Email, true /* lower */)
	if email != "" {
		us.Email = email
	} else {
		us.Email = orig.Email
	}

	if err := core.Validate.Struct(us); err != nil {
		return err
	}
	return svc.checkUniqueness(us.Email, orig)
}
