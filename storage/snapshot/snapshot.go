// Package snapshotdb persists the whole dataset (students, techniques,
// academies) as a single JSON aggregate under a fixed storage key. Every
// mutation is a whole-snapshot read-modify-write; there is no versioning
// and schema evolution is explicit field backfill on load.
package snapshotdb

import (
	"time"

	"github.com/fabiopossato/F-bio/core/academy"
	"github.com/fabiopossato/F-bio/core/student"
	"github.com/fabiopossato/F-bio/core/technique"
)

// StorageKey is the fixed key the aggregate lives under.
const StorageKey = "oss_flow_cloud_db"

type Snapshot struct {
	Students   []student.Student     `json:"students"`
	Techniques []technique.Technique `json:"techniques"`
	Academies  []academy.Academy     `json:"academies"`
}

// Store is any backend that can load and save the snapshot.
//
// Callers serialize mutations: there is no optimistic-concurrency token and
// a later Save wins in full, silently discarding concurrent writes. The
// modeled usage is a single operator session per academy.
type Store interface {
	// Load returns the current snapshot, seeding a default one on first
	// use and backfilling missing fields on older snapshots.
	Load() (Snapshot, error)
	Save(snap Snapshot) error
}

// Seed builds the default first-use snapshot: one academy on a Monthly plan
// with a 30-day initial renewal, a starter technique catalog and a minimal
// roster.
func Seed(now time.Time) Snapshot {
	pricing := academy.DefaultPricing()
	acc := academy.Academy{
		ID:                "acc-1",
		Name:              "Gracie Barra Headquarters",
		FoundedDate:       "2010-01-01",
		OwnerID:           "s-2",
		Status:            academy.StatusActive,
		Pricing:           pricing,
		CurrentPlan:       academy.PlanMonthly,
		SubscriptionValue: pricing.ValueFor(academy.PlanMonthly),
		NextRenewalDate:   academy.RenewalFrom(academy.PlanMonthly, now),
	}

	techniques := []technique.Technique{
		{ID: "t-1", Name: "Fuga de Quadril", Category: technique.CategoryFundamentals, BeltRequired: student.BeltWhite, Description: "Movimentação básica de quadril a partir da posição deitada."},
		{ID: "t-2", Name: "Estrangulamento Mata-Leão", Category: technique.CategorySubmission, BeltRequired: student.BeltWhite, Description: "Finalização pelas costas com o braço ao redor do pescoço."},
		{ID: "t-3", Name: "Armlock da Montada", Category: technique.CategorySubmission, BeltRequired: student.BeltWhite, Description: "Chave de braço partindo da montada."},
		{ID: "t-4", Name: "Queda O Soto Gari", Category: technique.CategoryTakedowns, BeltRequired: student.BeltWhite, Description: "Rasteira externa com controle de gola e manga."},
		{ID: "t-5", Name: "Passagem Toreando", Category: technique.CategoryPassing, BeltRequired: student.BeltBlue, Description: "Passagem de guarda em pé controlando as calças."},
		{ID: "t-6", Name: "Guarda De La Riva", Category: technique.CategoryGuard, BeltRequired: student.BeltBlue, Description: "Guarda aberta com gancho externo na perna da base."},
	}

	allTechIDs := make([]string, 0, len(techniques))
	for _, t := range techniques {
		allTechIDs = append(allTechIDs, t.ID)
	}

	students := []student.Student{
		{
			ID: "s-1", Name: "João Aluno", Email: "joao@ossflow.com", Password: "123",
			Age: 25, Weight: 75.5, Category: student.CategoryAdult,
			CurrentBelt: student.BeltWhite, CurrentStripes: 0,
			JoinedDate:        "2024-01-10",
			AttendanceHistory: []string{}, MasteredTechniques: []string{},
			Role: student.RoleStudent, ProfessorID: "s-2",
			AcademyName:    acc.Name,
			MonthlyTuition: student.AdultTuition,
			Payments:       []string{}, PlanType: academy.PlanMonthly,
		},
		{
			ID: "s-2", Name: "Mestre Ricardo", Email: "ricardo@ossflow.com", Password: "123",
			Age: 45, Weight: 82, Category: student.CategoryAdult,
			CurrentBelt: student.BeltBlack, CurrentStripes: 2,
			JoinedDate:        "2010-01-01",
			AttendanceHistory: []string{}, MasteredTechniques: allTechIDs,
			Role:           student.RoleInstructor,
			AcademyName:    acc.Name,
			MonthlyTuition: 0,
			Payments:       []string{}, PlanType: academy.PlanMonthly,
		},
	}

	return Snapshot{
		Students:   students,
		Techniques: techniques,
		Academies:  []academy.Academy{acc},
	}
}

// Backfill fills fields missing from snapshots written by older versions.
func Backfill(snap *Snapshot, now time.Time) {
	for i := range snap.Academies {
		acc := &snap.Academies[i]
		if acc.CurrentPlan == "" {
			acc.CurrentPlan = academy.PlanMonthly
		}
		if acc.SubscriptionValue == 0 {
			if v := acc.Pricing.ValueFor(acc.CurrentPlan); v > 0 {
				acc.SubscriptionValue = v
			} else {
				acc.SubscriptionValue = academy.DefaultPricing().ValueFor(academy.PlanMonthly)
			}
		}
		if acc.NextRenewalDate.IsZero() {
			acc.NextRenewalDate = academy.RenewalFrom(academy.PlanMonthly, now)
		}
	}
	for i := range snap.Students {
		s := &snap.Students[i]
		if s.AttendanceHistory == nil {
			s.AttendanceHistory = []string{}
		}
		if s.MasteredTechniques == nil {
			s.MasteredTechniques = []string{}
		}
		if s.Payments == nil {
			s.Payments = []string{}
		}
		if s.PlanType == "" {
			s.PlanType = academy.PlanMonthly
		}
	}
}
