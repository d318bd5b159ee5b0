package academy

import (
	"testing"
	"time"
)

type fakeRepo struct {
	academies map[string]Academy
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{academies: make(map[string]Academy)}
}

func (r *fakeRepo) CreateAcademy(acc Academy) (Academy, error) {
	r.academies[acc.ID] = acc
	return acc, nil
}

func (r *fakeRepo) QueryAllAcademies() ([]Academy, error) {
	all := make([]Academy, 0, len(r.academies))
	for _, acc := range r.academies {
		all = append(all, acc)
	}
	return all, nil
}

func (r *fakeRepo) GetAcademyByID(id string) (Academy, error) {
	if acc, ok := r.academies[id]; ok {
		return acc, nil
	}
	return Academy{}, ErrNotFound
}

func (r *fakeRepo) GetAcademyByName(name string) (Academy, error) {
	for _, acc := range r.academies {
		if acc.Name == name {
			return acc, nil
		}
	}
	return Academy{}, ErrNotFound
}

func (r *fakeRepo) UpdateAcademy(acc Academy) (Academy, error) {
	if _, ok := r.academies[acc.ID]; !ok {
		return Academy{}, ErrNotFound
	}
	r.academies[acc.ID] = acc
	return acc, nil
}

func setup(t *testing.T, now time.Time) (*Service, func()) {
	t.Helper()
	NowFunc = func() time.Time { return now }
	return NewService(newFakeRepo(), nil, nil), func() { NowFunc = time.Now }
}

func found(t *testing.T, svc *Service) Academy {
	t.Helper()
	acc, err := svc.Found(NewAcademy{Name: "Gracie Barra", OwnerID: "owner-1"})
	if err != nil {
		t.Fatalf("Found() failed: %v", err)
	}
	return acc
}

func TestRenewalFrom(t *testing.T) {
	anchor := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		plan Plan
		want time.Time
	}{
		{plan: PlanMonthly, want: time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)},
		{plan: PlanQuarterly, want: time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)},
		{plan: PlanSemiannual, want: time.Date(2024, 6, 29, 0, 0, 0, 0, time.UTC)},
		// fixed 365 days, not a calendar year: 2024 is a leap year
		{plan: PlanAnnual, want: time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		if got := RenewalFrom(tt.plan, anchor); !got.Equal(tt.want) {
			t.Errorf("RenewalFrom(%q) = %v, want %v", tt.plan, got, tt.want)
		}
	}
}

func TestService_Found(t *testing.T) {
	now := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	svc, teardown := setup(t, now)
	defer teardown()

	acc := found(t, svc)

	if acc.Status != StatusActive {
		t.Errorf("Status = %q, want active", acc.Status)
	}
	if acc.CurrentPlan != PlanMonthly {
		t.Errorf("CurrentPlan = %q, want Mensal", acc.CurrentPlan)
	}
	if acc.SubscriptionValue != DefaultPricing().Monthly {
		t.Errorf("SubscriptionValue = %v, want %v", acc.SubscriptionValue, DefaultPricing().Monthly)
	}
	if want := now.AddDate(0, 0, 30); !acc.NextRenewalDate.Equal(want) {
		t.Errorf("NextRenewalDate = %v, want %v", acc.NextRenewalDate, want)
	}
	if acc.FoundedDate != "2024-07-01" {
		t.Errorf("FoundedDate = %q", acc.FoundedDate)
	}
	if acc.IsTrial || acc.TrialExpiration != nil {
		t.Error("new academies must not start in trial")
	}
}

func TestService_SetPlan(t *testing.T) {
	now := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	svc, teardown := setup(t, now)
	defer teardown()
	acc := found(t, svc)

	updated, err := svc.SetPlan(acc.ID, PlanAnnual)
	if err != nil {
		t.Fatalf("SetPlan() failed: %v", err)
	}
	if updated.SubscriptionValue != DefaultPricing().Annual {
		t.Errorf("SubscriptionValue = %v, want %v", updated.SubscriptionValue, DefaultPricing().Annual)
	}
	if want := now.AddDate(0, 0, 365); !updated.NextRenewalDate.Equal(want) {
		t.Errorf("NextRenewalDate = %v, want %v", updated.NextRenewalDate, want)
	}

	if _, err = svc.SetPlan(acc.ID, Plan("Vitalício")); err != ErrInvalidPlan {
		t.Errorf("SetPlan(unknown) error = %v, want ErrInvalidPlan", err)
	}
}

func TestService_SetPricing(t *testing.T) {
	now := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	svc, teardown := setup(t, now)
	defer teardown()
	acc := found(t, svc)

	renewalBefore := acc.NextRenewalDate
	updated, err := svc.SetPricing(acc.ID, Pricing{Monthly: 350, Quarterly: 900, Semiannual: 1600, Annual: 2800})
	if err != nil {
		t.Fatalf("SetPricing() failed: %v", err)
	}
	if updated.SubscriptionValue != 350 {
		t.Errorf("SubscriptionValue = %v, want 350 (follows current plan)", updated.SubscriptionValue)
	}
	if !updated.NextRenewalDate.Equal(renewalBefore) {
		t.Error("SetPricing must not move the renewal date")
	}
}

func TestService_SetStatus(t *testing.T) {
	now := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	svc, teardown := setup(t, now)
	defer teardown()
	acc := found(t, svc)

	updated, err := svc.SetStatus(acc.ID, StatusSuspended)
	if err != nil {
		t.Fatalf("SetStatus() failed: %v", err)
	}
	if !updated.IsSuspended() {
		t.Error("expected suspended")
	}
	if updated.SubscriptionValue != acc.SubscriptionValue || !updated.NextRenewalDate.Equal(acc.NextRenewalDate) {
		t.Error("SetStatus must not touch pricing or renewal")
	}

	if _, err = svc.SetStatus(acc.ID, Status("paused")); err != ErrInvalidStatus {
		t.Errorf("SetStatus(unknown) error = %v, want ErrInvalidStatus", err)
	}
}

func TestService_ToggleTrial(t *testing.T) {
	now := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	svc, teardown := setup(t, now)
	defer teardown()
	acc := found(t, svc)

	// enter trial: renewal anchors at the trial expiration
	updated, err := svc.ToggleTrial(acc.ID)
	if err != nil {
		t.Fatalf("ToggleTrial() failed: %v", err)
	}
	if !updated.IsTrial || updated.TrialExpiration == nil {
		t.Fatal("expected trial state with expiration set")
	}
	wantExp := now.Add(TrialPeriod)
	if !updated.TrialExpiration.Equal(wantExp) {
		t.Errorf("TrialExpiration = %v, want %v", updated.TrialExpiration, wantExp)
	}
	if want := wantExp.AddDate(0, 0, 30); !updated.NextRenewalDate.Equal(want) {
		t.Errorf("NextRenewalDate = %v, want %v (anchored at expiration)", updated.NextRenewalDate, want)
	}

	// leave trial: invariant restored, clock restarts from now
	updated, err = svc.ToggleTrial(acc.ID)
	if err != nil {
		t.Fatalf("ToggleTrial() failed: %v", err)
	}
	if updated.IsTrial || updated.TrialExpiration != nil {
		t.Error("expected trial cleared")
	}
	if want := now.AddDate(0, 0, 30); !updated.NextRenewalDate.Equal(want) {
		t.Errorf("NextRenewalDate = %v, want %v", updated.NextRenewalDate, want)
	}
}
