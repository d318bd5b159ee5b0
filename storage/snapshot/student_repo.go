package snapshotdb

import (
	"sort"

	"github.com/fabiopossato/F-bio/core/student"
)

type studentRepository struct {
	store Store
}

func NewStudentRepository(store Store) student.Repository {
	return &studentRepository{store: store}
}

func (repo *studentRepository) CheckEmailUniqueness(email string, excludedStudents ...student.Student) error {
	snap, err := repo.store.Load()
	if err != nil {
		return err
	}

	exclLen := len(excludedStudents)
	if exclLen > 1 {
		sort.Slice(excludedStudents, func(i, j int) bool { return excludedStudents[i].ID < excludedStudents[j].ID })
	}

	for _, s := range snap.Students {
		if s.Email == email && !isExcluded(s, excludedStudents, exclLen) {
			return student.ErrEmailExists
		}
	}
	return nil
}

func (repo *studentRepository) CreateStudent(s student.Student) (student.Student, error) {
	snap, err := repo.store.Load()
	if err != nil {
		return student.Student{}, err
	}
	snap.Students = append(snap.Students, s)
	if err := repo.store.Save(snap); err != nil {
		return student.Student{}, err
	}
	return s, nil
}

func (repo *studentRepository) QueryAllStudents() ([]student.Student, error) {
	snap, err := repo.store.Load()
	if err != nil {
		return nil, err
	}
	return snap.Students, nil
}

func (repo *studentRepository) QueryStudentsByAcademy(academyName string) ([]student.Student, error) {
	snap, err := repo.store.Load()
	if err != nil {
		return nil, err
	}
	students := make([]student.Student, 0)
	for _, s := range snap.Students {
		if s.AcademyName == academyName {
			students = append(students, s)
		}
	}
	return students, nil
}

func (repo *studentRepository) GetStudentByID(id string) (student.Student, error) {
	snap, err := repo.store.Load()
	if err != nil {
		return student.Student{}, err
	}
	for _, s := range snap.Students {
		if s.ID == id {
			return s, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) GetStudentByEmail(email string) (student.Student, error) {
	snap, err := repo.store.Load()
	if err != nil {
		return student.Student{}, err
	}
	for _, s := range snap.Students {
		if s.Email == email {
			return s, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) UpdateStudent(s student.Student) (student.Student, error) {
	snap, err := repo.store.Load()
	if err != nil {
		return student.Student{}, err
	}
	for i := range snap.Students {
		if snap.Students[i].ID == s.ID {
			snap.Students[i] = s
			if err := repo.store.Save(snap); err != nil {
				return student.Student{}, err
			}
			return s, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) DeleteStudentsByID(ids ...string) error {
	snap, err := repo.store.Load()
	if err != nil {
		return err
	}
	kept := snap.Students[:0]
	for _, s := range snap.Students {
		var drop bool
		for _, id := range ids {
			if s.ID == id {
				drop = true
				break
			}
		}
		if !drop {
			kept = append(kept, s)
		}
	}
	snap.Students = kept
	return repo.store.Save(snap)
}

func isExcluded(s student.Student, excluded []student.Student, n int) bool {
	if n <= 0 {
		return false
	}
	idx := sort.Search(n, func(i int) bool { return excluded[i].ID >= s.ID })
	return idx < n && excluded[idx].ID == s.ID
}
