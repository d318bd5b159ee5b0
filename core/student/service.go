package student

import (
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"

	"github.com/fabiopossato/F-bio/core"
	"github.com/fabiopossato/F-bio/core/academy"
)

var (
	// errors
	ErrNotFound       = errors.New("student not found")
	ErrEmailExists    = errors.New("a member with this email already exists")
	ErrForbidden      = errors.New("not allowed to manage this student")
	ErrInvalidBelt    = errors.New("belt is not on the student's ladder")
	ErrInvalidStripes = errors.New("stripes must be between 0 and 4")

	// NowFunc is the roster clock. Mockable in tests.
	NowFunc = time.Now
)

type (
	Repository interface {
		CheckEmailUniqueness(email string, excludedStudents ...Student) error
		CreateStudent(student Student) (Student, error)
		QueryAllStudents() ([]Student, error)
		// QueryStudentsByAcademy returns every member enrolled under the
		// academy, instructors included.
		QueryStudentsByAcademy(academyName string) ([]Student, error)
		GetStudentByID(id string) (Student, error)
		GetStudentByEmail(email string) (Student, error)
		UpdateStudent(student Student) (Student, error)
		DeleteStudentsByID(ids ...string) error
	}

	Service struct {
		repo    Repository
		mailSvc core.EmailService
		conf    *core.Config
	}
)

func NewService(repo Repository, mailSvc core.EmailService, conf *core.Config) *Service {
	return &Service{repo: repo, mailSvc: mailSvc, conf: conf}
}

func (svc *Service) checkUniqueness(email string, exclStudents ...Student) error {
	if err := svc.repo.CheckEmailUniqueness(email, exclStudents...); err != nil {
		if errors.Is(err, ErrEmailExists) {
			return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return err
	}
	return nil
}

// Register signs a new student up under an academy/professor. The category
// is derived from the age once and never changes afterwards.
func (svc *Service) Register(ns NewStudent) (Student, error) {
	academyName := ns.AcademyName
	if prof, err := svc.repo.GetStudentByID(ns.ProfessorID); err == nil && prof.AcademyName != "" {
		academyName = prof.AcademyName
	}

	category := CategoryForAge(ns.Age)
	s := Student{
		ID:                 uuid.New().String(),
		Name:               ns.Name,
		Email:              ns.Email,
		Password:           ns.Password,
		PhotoURL:           fmt.Sprintf("https://picsum.photos/seed/%s/200", ns.Email),
		Age:                ns.Age,
		Weight:             ns.Weight,
		Category:           category,
		CurrentBelt:        BeltWhite,
		CurrentStripes:     0,
		JoinedDate:         DateToken(NowFunc()),
		AttendanceHistory:  []string{},
		MasteredTechniques: []string{},
		Role:               RoleStudent,
		ProfessorID:        ns.ProfessorID,
		AcademyName:        academyName,
		MonthlyTuition:     DefaultTuition(category),
		Payments:           []string{},
		PlanType:           academy.PlanMonthly,
	}
	s, err := svc.repo.CreateStudent(s)
	if err != nil {
		return Student{}, err
	}
	svc.sendWelcomeMail(s)
	return s, nil
}

// RegisterOwner creates the founding instructor of a new academy. Owners
// come in as adult black belts with the whole current catalog mastered and
// pay no tuition.
func (svc *Service) RegisterOwner(no NewOwner, catalogIDs []string) (Student, error) {
	if catalogIDs == nil {
		catalogIDs = []string{}
	}
	s := Student{
		ID:                 uuid.New().String(),
		Name:               no.Name,
		Email:              no.Email,
		Password:           no.Password,
		PhotoURL:           fmt.Sprintf("https://picsum.photos/seed/%s/200", no.Email),
		Age:                30,
		Weight:             80,
		Category:           CategoryAdult,
		CurrentBelt:        BeltBlack,
		CurrentStripes:     1,
		JoinedDate:         DateToken(NowFunc()),
		AttendanceHistory:  []string{},
		MasteredTechniques: catalogIDs,
		Role:               RoleInstructor,
		AcademyName:        no.AcademyName,
		MonthlyTuition:     0,
		Payments:           []string{},
		PlanType:           academy.PlanMonthly,
	}
	s, err := svc.repo.CreateStudent(s)
	if err != nil {
		return Student{}, err
	}
	svc.sendWelcomeMail(s)
	return s, nil
}

func (svc *Service) sendWelcomeMail(s Student) {
	if svc.mailSvc == nil {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: s.Name, Address: s.Email}},
		Subject: "Welcome to " + s.AcademyName,
		BodyStr: fmt.Sprintf(
			"Hi %s,\n\nYour enrollment at %s is confirmed. Oss!\n\nTrain hard: %s",
			s.Name, s.AcademyName, svc.conf.FrontendBaseURL,
		),
	})
}

func (svc *Service) QueryAll() ([]Student, error) {
	return svc.repo.QueryAllStudents()
}

func (svc *Service) QueryRoster(academyName string) ([]Student, error) {
	return svc.repo.QueryStudentsByAcademy(academyName)
}

func (svc *Service) GetByID(id string) (Student, error) {
	return svc.repo.GetStudentByID(id)
}

func (svc *Service) GetByEmail(email string) (Student, error) {
	return svc.repo.GetStudentByEmail(core.CleanString(email, true /* lower */))
}

func (svc *Service) Update(id string, us UpdateStudent) (Student, error) {
	s, err := svc.repo.GetStudentByID(id)
	if err != nil {
		return Student{}, err
	}
	s.Name = us.Name
	s.Email = us.Email
	if us.Password != "" {
		s.Password = us.Password
	}
	if us.PhotoURL != "" {
		s.PhotoURL = us.PhotoURL
	}
	if us.Weight > 0 {
		s.Weight = us.Weight
	}
	return svc.repo.UpdateStudent(s)
}

// RecordAttendance appends `date` to each listed student's attendance
// history. There is no per-date dedup guard: recording the same student
// twice for the same date counts twice.
func (svc *Service) RecordAttendance(studentIDs []string, date string) error {
	for _, id := range studentIDs {
		s, err := svc.repo.GetStudentByID(id)
		if err != nil {
			return err
		}
		s.AttendanceHistory = append(s.AttendanceHistory, date)
		if _, err := svc.repo.UpdateStudent(s); err != nil {
			return err
		}
	}
	return nil
}

// ToggleMastery flips a technique in a student's mastered set. Students may
// toggle for themselves; instructors for anyone in their academy.
func (svc *Service) ToggleMastery(actor Student, studentID, techniqueID string) (Student, error) {
	s, err := svc.repo.GetStudentByID(studentID)
	if err != nil {
		return Student{}, err
	}
	if actor.ID != s.ID && !actor.CanManage(s) {
		return Student{}, ErrForbidden
	}
	s.ToggleMastery(techniqueID)
	return svc.repo.UpdateStudent(s)
}

// ApplyPromotion overwrites a student's belt and stripes. Eligibility is
// not re-checked here: instructors may correct graduations manually outside
// the automated rule. A belt change always resets stripes to 0.
func (svc *Service) ApplyPromotion(actor Student, studentID string, belt Belt, stripes int) (Student, error) {
	s, err := svc.repo.GetStudentByID(studentID)
	if err != nil {
		return Student{}, err
	}
	if !actor.CanManage(s) {
		return Student{}, ErrForbidden
	}
	if !IsLadderBelt(s.Category, belt) {
		return Student{}, ErrInvalidBelt
	}
	if stripes < 0 || stripes > MaxStripes {
		return Student{}, ErrInvalidStripes
	}
	if belt != s.CurrentBelt {
		stripes = 0
	}
	s.CurrentBelt = belt
	s.CurrentStripes = stripes
	return svc.repo.UpdateStudent(s)
}

// RecordPayment marks a month as paid. Idempotent per token.
func (svc *Service) RecordPayment(actor Student, studentID, month string) (Student, error) {
	s, err := svc.repo.GetStudentByID(studentID)
	if err != nil {
		return Student{}, err
	}
	if !actor.CanManage(s) {
		return Student{}, ErrForbidden
	}
	if s.HasPaid(month) {
		return s, nil
	}
	s.Payments = append(s.Payments, month)
	return svc.repo.UpdateStudent(s)
}

func (svc *Service) RemovePayment(actor Student, studentID, month string) (Student, error) {
	s, err := svc.repo.GetStudentByID(studentID)
	if err != nil {
		return Student{}, err
	}
	if !actor.CanManage(s) {
		return Student{}, ErrForbidden
	}
	for i, m := range s.Payments {
		if m == month {
			s.Payments = append(s.Payments[:i], s.Payments[i+1:]...)
			break
		}
	}
	return svc.repo.UpdateStudent(s)
}

func (svc *Service) Delete(ids ...string) error {
	return svc.repo.DeleteStudentsByID(ids...)
}
