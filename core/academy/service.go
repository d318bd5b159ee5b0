package academy

import (
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"

	"github.com/fabiopossato/F-bio/core"
)

var (
	// errors
	ErrNotFound      = errors.New("academy not found")
	ErrInvalidPlan   = errors.New("unknown payment plan")
	ErrInvalidStatus = errors.New("unknown academy status")

	// NowFunc is the subscription clock. Mockable in tests.
	NowFunc = time.Now
)

type (
	Repository interface {
		CreateAcademy(academy Academy) (Academy, error)
		QueryAllAcademies() ([]Academy, error)
		GetAcademyByID(id string) (Academy, error)
		GetAcademyByName(name string) (Academy, error)
		UpdateAcademy(academy Academy) (Academy, error)
	}

	// OwnerContactFunc resolves an owner's name and email for lifecycle
	// notices. Kept as a func to avoid a dependency on the roster package.
	OwnerContactFunc func(ownerID string) (name, email string, err error)

	Service struct {
		repo         Repository
		mailSvc      core.EmailService
		ownerContact OwnerContactFunc
	}
)

func NewService(repo Repository, mailSvc core.EmailService, ownerContact OwnerContactFunc) *Service {
	return &Service{repo: repo, mailSvc: mailSvc, ownerContact: ownerContact}
}

// Found creates a new academy on the Monthly plan with the default price
// table and a 30-day initial renewal.
func (svc *Service) Found(na NewAcademy) (Academy, error) {
	now := NowFunc()
	acc := Academy{
		ID:                uuid.New().String(),
		Name:              na.Name,
		FoundedDate:       now.Format("2006-01-02"),
		OwnerID:           na.OwnerID,
		Status:            StatusActive,
		Pricing:           DefaultPricing(),
		CurrentPlan:       PlanMonthly,
		SubscriptionValue: DefaultPricing().ValueFor(PlanMonthly),
		NextRenewalDate:   RenewalFrom(PlanMonthly, now),
	}
	return svc.repo.CreateAcademy(acc)
}

func (svc *Service) QueryAll() ([]Academy, error) {
	return svc.repo.QueryAllAcademies()
}

func (svc *Service) GetByID(id string) (Academy, error) {
	return svc.repo.GetAcademyByID(id)
}

func (svc *Service) GetByName(name string) (Academy, error) {
	return svc.repo.GetAcademyByName(name)
}

// SetStatus switches an academy between active and suspended. No side
// effects on pricing or renewal dates.
func (svc *Service) SetStatus(id string, status Status) (Academy, error) {
	if !status.IsValid() {
		return Academy{}, ErrInvalidStatus
	}
	acc, err := svc.repo.GetAcademyByID(id)
	if err != nil {
		return Academy{}, err
	}
	changed := acc.Status != status
	acc.Status = status
	acc, err = svc.repo.UpdateAcademy(acc)
	if err == nil && changed {
		subject := "Subscription reactivated"
		body := fmt.Sprintf("The subscription of %s is active again. Welcome back!", acc.Name)
		if acc.IsSuspended() {
			subject = "Subscription suspended"
			body = fmt.Sprintf("The subscription of %s has been suspended. Member access is blocked until it is reactivated.", acc.Name)
		}
		svc.sendOwnerNotice(acc, subject, body)
	}
	return acc, err
}

func (svc *Service) sendOwnerNotice(acc Academy, subject, body string) {
	if svc.mailSvc == nil || svc.ownerContact == nil {
		return
	}
	name, email, err := svc.ownerContact(acc.OwnerID)
	if err != nil {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: name, Address: email}},
		Subject: subject,
		BodyStr: fmt.Sprintf("Hi %s,\n\n%s", name, body),
	})
}

// SetPricing replaces the price table and keeps the subscription value in
// sync with the current plan. The renewal date does not move.
func (svc *Service) SetPricing(id string, pricing Pricing) (Academy, error) {
	acc, err := svc.repo.GetAcademyByID(id)
	if err != nil {
		return Academy{}, err
	}
	acc.Pricing = pricing
	acc.SubscriptionValue = pricing.ValueFor(acc.CurrentPlan)
	return svc.repo.UpdateAcademy(acc)
}

// SetPlan switches the current plan, re-prices the subscription and restarts
// the renewal clock from now.
func (svc *Service) SetPlan(id string, plan Plan) (Academy, error) {
	if !plan.IsValid() {
		return Academy{}, ErrInvalidPlan
	}
	acc, err := svc.repo.GetAcademyByID(id)
	if err != nil {
		return Academy{}, err
	}
	acc.CurrentPlan = plan
	acc.SubscriptionValue = acc.Pricing.ValueFor(plan)
	acc.NextRenewalDate = RenewalFrom(plan, NowFunc())
	return svc.repo.UpdateAcademy(acc)
}

// ToggleTrial flips the trial state. Entering a trial defers the paid
// renewal clock to the trial expiration; leaving it restarts the clock from
// now.
func (svc *Service) ToggleTrial(id string) (Academy, error) {
	acc, err := svc.repo.GetAcademyByID(id)
	if err != nil {
		return Academy{}, err
	}
	now := NowFunc()
	if acc.IsTrial {
		acc.IsTrial = false
		acc.TrialExpiration = nil
		acc.NextRenewalDate = RenewalFrom(acc.CurrentPlan, now)
	} else {
		expiration := now.Add(TrialPeriod)
		acc.IsTrial = true
		acc.TrialExpiration = &expiration
		acc.NextRenewalDate = RenewalFrom(acc.CurrentPlan, expiration)
	}
	acc, err = svc.repo.UpdateAcademy(acc)
	if err == nil {
		if acc.IsTrial {
			svc.sendOwnerNotice(acc, "Trial period started",
				fmt.Sprintf("%s is on a trial until %s.", acc.Name, acc.TrialExpiration.Format("2006-01-02")))
		} else {
			svc.sendOwnerNotice(acc, "Trial period ended",
				fmt.Sprintf("The trial of %s has ended. The next renewal is %s.", acc.Name, acc.NextRenewalDate.Format("2006-01-02")))
		}
	}
	return acc, err
}
