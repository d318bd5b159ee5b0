package student

import (
	"testing"
	"time"
)

type fakeRepo struct {
	students map[string]Student
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{students: make(map[string]Student)}
}

func (r *fakeRepo) CheckEmailUniqueness(email string, excluded ...Student) error {
	for _, s := range r.students {
		if s.Email != email {
			continue
		}
		var skip bool
		for _, ex := range excluded {
			if ex.ID == s.ID {
				skip = true
				break
			}
		}
		if !skip {
			return ErrEmailExists
		}
	}
	return nil
}

func (r *fakeRepo) CreateStudent(s Student) (Student, error) {
	r.students[s.ID] = s
	return s, nil
}

func (r *fakeRepo) QueryAllStudents() ([]Student, error) {
	all := make([]Student, 0, len(r.students))
	for _, s := range r.students {
		all = append(all, s)
	}
	return all, nil
}

func (r *fakeRepo) QueryStudentsByAcademy(academyName string) ([]Student, error) {
	var roster []Student
	for _, s := range r.students {
		if s.AcademyName == academyName {
			roster = append(roster, s)
		}
	}
	return roster, nil
}

func (r *fakeRepo) GetStudentByID(id string) (Student, error) {
	if s, ok := r.students[id]; ok {
		return s, nil
	}
	return Student{}, ErrNotFound
}

func (r *fakeRepo) GetStudentByEmail(email string) (Student, error) {
	for _, s := range r.students {
		if s.Email == email {
			return s, nil
		}
	}
	return Student{}, ErrNotFound
}

func (r *fakeRepo) UpdateStudent(s Student) (Student, error) {
	if _, ok := r.students[s.ID]; !ok {
		return Student{}, ErrNotFound
	}
	r.students[s.ID] = s
	return s, nil
}

func (r *fakeRepo) DeleteStudentsByID(ids ...string) error {
	for _, id := range ids {
		delete(r.students, id)
	}
	return nil
}

func setup(t *testing.T) (*Service, *fakeRepo) {
	t.Helper()
	repo := newFakeRepo()
	return NewService(repo, nil, nil), repo
}

func seedInstructor(t *testing.T, repo *fakeRepo, academyName string) Student {
	t.Helper()
	prof := Student{
		ID:          "prof-1",
		Name:        "Mestre Carlos",
		Email:       "carlos@test.br",
		Role:        RoleInstructor,
		AcademyName: academyName,
		Category:    CategoryAdult,
		CurrentBelt: BeltBlack,
	}
	if _, err := repo.CreateStudent(prof); err != nil {
		t.Fatalf("seedInstructor() failed: %v", err)
	}
	return prof
}

func TestService_Register(t *testing.T) {
	svc, repo := setup(t)
	prof := seedInstructor(t, repo, "Gracie Barra")

	now := time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC)
	NowFunc = func() time.Time { return now }
	defer func() { NowFunc = time.Now }()

	stu, err := svc.Register(NewStudent{
		Name:        "João Silva",
		Email:       "joao@test.br",
		Password:    "pwd",
		Age:         12,
		Weight:      45,
		AcademyName: "ignored when professor known",
		ProfessorID: prof.ID,
	})
	if err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	if stu.Category != CategoryYouth {
		t.Errorf("Category = %q, want %q", stu.Category, CategoryYouth)
	}
	if stu.CurrentBelt != BeltWhite || stu.CurrentStripes != 0 {
		t.Errorf("belt = %q/%d, want white/0", stu.CurrentBelt, stu.CurrentStripes)
	}
	if stu.AcademyName != "Gracie Barra" {
		t.Errorf("AcademyName = %q, want professor's academy", stu.AcademyName)
	}
	if stu.MonthlyTuition != YouthTuition {
		t.Errorf("MonthlyTuition = %v, want %v", stu.MonthlyTuition, YouthTuition)
	}
	if stu.JoinedDate != "2024-07-01" {
		t.Errorf("JoinedDate = %q", stu.JoinedDate)
	}
	if stu.AttendanceHistory == nil || stu.Payments == nil || stu.MasteredTechniques == nil {
		t.Error("history slices must be initialized empty, not nil")
	}
}

func TestService_RegisterOwner(t *testing.T) {
	svc, _ := setup(t)

	owner, err := svc.RegisterOwner(NewOwner{
		Name:        "Mestre Ricardo",
		Email:       "ricardo@test.br",
		Password:    "pwd",
		AcademyName: "Alliance",
	}, []string{"t-1", "t-2"})
	if err != nil {
		t.Fatalf("RegisterOwner() failed: %v", err)
	}

	if !owner.IsInstructor() {
		t.Error("owner must be an instructor")
	}
	if owner.CurrentBelt != BeltBlack || owner.CurrentStripes != 1 {
		t.Errorf("belt = %q/%d, want black/1", owner.CurrentBelt, owner.CurrentStripes)
	}
	if owner.MonthlyTuition != 0 {
		t.Errorf("MonthlyTuition = %v, want 0", owner.MonthlyTuition)
	}
	if len(owner.MasteredTechniques) != 2 {
		t.Errorf("MasteredTechniques = %v, want the whole catalog", owner.MasteredTechniques)
	}
}

func TestService_RecordAttendance(t *testing.T) {
	svc, repo := setup(t)
	prof := seedInstructor(t, repo, "Gracie Barra")
	stu, err := svc.Register(NewStudent{
		Name: "João", Email: "joao@test.br", Password: "pwd",
		Age: 20, Weight: 70, AcademyName: "Gracie Barra", ProfessorID: prof.ID,
	})
	if err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	// same member listed twice: both entries count
	if err := svc.RecordAttendance([]string{stu.ID, stu.ID}, "2024-07-01"); err != nil {
		t.Fatalf("RecordAttendance() failed: %v", err)
	}
	if err := svc.RecordAttendance([]string{stu.ID}, "2024-07-01"); err != nil {
		t.Fatalf("RecordAttendance() failed: %v", err)
	}

	refreshed, _ := repo.GetStudentByID(stu.ID)
	if refreshed.TotalClasses() != 3 {
		t.Errorf("TotalClasses() = %d, want 3 (no dedup)", refreshed.TotalClasses())
	}

	if err := svc.RecordAttendance([]string{"nope"}, "2024-07-01"); err != ErrNotFound {
		t.Errorf("RecordAttendance(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestService_ToggleMastery_permissions(t *testing.T) {
	svc, repo := setup(t)
	prof := seedInstructor(t, repo, "Gracie Barra")
	outsider := Student{ID: "out-1", Role: RoleInstructor, AcademyName: "Alliance"}
	stu, _ := svc.Register(NewStudent{
		Name: "João", Email: "joao@test.br", Password: "pwd",
		Age: 20, Weight: 70, AcademyName: "Gracie Barra", ProfessorID: prof.ID,
	})

	// self toggle
	updated, err := svc.ToggleMastery(stu, stu.ID, "t-1")
	if err != nil {
		t.Fatalf("ToggleMastery(self) failed: %v", err)
	}
	if !updated.HasMastered("t-1") {
		t.Error("expected t-1 mastered")
	}

	// own instructor
	if _, err = svc.ToggleMastery(prof, stu.ID, "t-2"); err != nil {
		t.Errorf("ToggleMastery(instructor) failed: %v", err)
	}

	// foreign instructor
	if _, err = svc.ToggleMastery(outsider, stu.ID, "t-3"); err != ErrForbidden {
		t.Errorf("ToggleMastery(outsider) error = %v, want ErrForbidden", err)
	}
}

func TestService_ApplyPromotion(t *testing.T) {
	svc, repo := setup(t)
	prof := seedInstructor(t, repo, "Gracie Barra")
	stu, _ := svc.Register(NewStudent{
		Name: "João", Email: "joao@test.br", Password: "pwd",
		Age: 20, Weight: 70, AcademyName: "Gracie Barra", ProfessorID: prof.ID,
	})

	// stripes within the same belt
	updated, err := svc.ApplyPromotion(prof, stu.ID, BeltWhite, 3)
	if err != nil {
		t.Fatalf("ApplyPromotion() failed: %v", err)
	}
	if updated.CurrentStripes != 3 {
		t.Errorf("CurrentStripes = %d, want 3", updated.CurrentStripes)
	}

	// belt change resets stripes even when stripes are passed
	updated, err = svc.ApplyPromotion(prof, stu.ID, BeltBlue, 2)
	if err != nil {
		t.Fatalf("ApplyPromotion() failed: %v", err)
	}
	if updated.CurrentBelt != BeltBlue || updated.CurrentStripes != 0 {
		t.Errorf("belt = %q/%d, want Azul/0", updated.CurrentBelt, updated.CurrentStripes)
	}

	// off-ladder belt for an adult
	if _, err = svc.ApplyPromotion(prof, stu.ID, BeltGrey, 0); err != ErrInvalidBelt {
		t.Errorf("ApplyPromotion(youth belt) error = %v, want ErrInvalidBelt", err)
	}

	// stripe bounds
	if _, err = svc.ApplyPromotion(prof, stu.ID, BeltBlue, 5); err != ErrInvalidStripes {
		t.Errorf("ApplyPromotion(5 stripes) error = %v, want ErrInvalidStripes", err)
	}
	if _, err = svc.ApplyPromotion(prof, stu.ID, BeltBlue, -1); err != ErrInvalidStripes {
		t.Errorf("ApplyPromotion(-1 stripes) error = %v, want ErrInvalidStripes", err)
	}

	// only a managing instructor may promote
	if _, err = svc.ApplyPromotion(stu, stu.ID, BeltBlue, 1); err != ErrForbidden {
		t.Errorf("ApplyPromotion(self) error = %v, want ErrForbidden", err)
	}
}

func TestService_Payments(t *testing.T) {
	svc, repo := setup(t)
	prof := seedInstructor(t, repo, "Gracie Barra")
	stu, _ := svc.Register(NewStudent{
		Name: "João", Email: "joao@test.br", Password: "pwd",
		Age: 20, Weight: 70, AcademyName: "Gracie Barra", ProfessorID: prof.ID,
	})

	// idempotent record
	updated, err := svc.RecordPayment(prof, stu.ID, "2024-07")
	if err != nil {
		t.Fatalf("RecordPayment() failed: %v", err)
	}
	updated, err = svc.RecordPayment(prof, stu.ID, "2024-07")
	if err != nil {
		t.Fatalf("RecordPayment() failed: %v", err)
	}
	if len(updated.Payments) != 1 {
		t.Errorf("Payments = %v, want exactly one 2024-07 token", updated.Payments)
	}

	// removal
	updated, err = svc.RemovePayment(prof, stu.ID, "2024-07")
	if err != nil {
		t.Fatalf("RemovePayment() failed: %v", err)
	}
	if updated.HasPaid("2024-07") {
		t.Error("expected 2024-07 removed")
	}

	// permission gate
	if _, err = svc.RecordPayment(stu, stu.ID, "2024-08"); err != ErrForbidden {
		t.Errorf("RecordPayment(self) error = %v, want ErrForbidden", err)
	}
}

func TestNewStudent_Validate(t *testing.T) {
	svc, repo := setup(t)
	seedInstructor(t, repo, "Gracie Barra")

	tests := []struct {
		name    string
		data    NewStudent
		wantErr bool
	}{
		{
			name: "ok",
			data: NewStudent{Name: "João", Email: "joao@test.br", Password: "pwd", Age: 20, Weight: 70, AcademyName: "GB", ProfessorID: "prof-1"},
		},
		{
			name:    "missing name",
			data:    NewStudent{Email: "joao@test.br", Password: "pwd", Age: 20, Weight: 70, AcademyName: "GB", ProfessorID: "prof-1"},
			wantErr: true,
		},
		{
			name:    "bad email",
			data:    NewStudent{Name: "João", Email: "nope", Password: "pwd", Age: 20, Weight: 70, AcademyName: "GB", ProfessorID: "prof-1"},
			wantErr: true,
		},
		{
			name:    "too young",
			data:    NewStudent{Name: "João", Email: "joao@test.br", Password: "pwd", Age: 3, Weight: 20, AcademyName: "GB", ProfessorID: "prof-1"},
			wantErr: true,
		},
		{
			name:    "zero weight",
			data:    NewStudent{Name: "João", Email: "joao@test.br", Password: "pwd", Age: 20, AcademyName: "GB", ProfessorID: "prof-1"},
			wantErr: true,
		},
		{
			name:    "duplicate email",
			data:    NewStudent{Name: "Outro", Email: "carlos@test.br", Password: "pwd", Age: 20, Weight: 70, AcademyName: "GB", ProfessorID: "prof-1"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.data.Validate(svc)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestUpdateStudent_Validate_keepsOriginal(t *testing.T) {
	svc, repo := setup(t)
	orig := Student{ID: "s-1", Name: "João", Email: "joao@test.br"}
	if _, err := repo.CreateStudent(orig); err != nil {
		t.Fatal(err)
	}

	us := UpdateStudent{Weight: 72}
	if err := us.Validate(orig, svc); err != nil {
		t.Fatalf("Validate() failed: %v", err)
	}
	if us.Name != "João" || us.Email != "joao@test.br" {
		t.Errorf("empty fields must default to original: %+v", us)
	}

	// own email passes uniqueness via exclusion
	us = UpdateStudent{Email: "joao@test.br"}
	if err := us.Validate(orig, svc); err != nil {
		t.Errorf("Validate(own email) failed: %v", err)
	}
}
