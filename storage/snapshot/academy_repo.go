package snapshotdb

import "github.com/fabiopossato/F-bio/core/academy"

type academyRepository struct {
	store Store
}

func NewAcademyRepository(store Store) academy.Repository {
	return &academyRepository{store: store}
}

func (repo *academyRepository) CreateAcademy(acc academy.Academy) (academy.Academy, error) {
	snap, err := repo.store.Load()
	if err != nil {
		return academy.Academy{}, err
	}
	snap.Academies = append(snap.Academies, acc)
	if err := repo.store.Save(snap); err != nil {
		return academy.Academy{}, err
	}
	return acc, nil
}

func (repo *academyRepository) QueryAllAcademies() ([]academy.Academy, error) {
	snap, err := repo.store.Load()
	if err != nil {
		return nil, err
	}
	return snap.Academies, nil
}

func (repo *academyRepository) GetAcademyByID(id string) (academy.Academy, error) {
	snap, err := repo.store.Load()
	if err != nil {
		return academy.Academy{}, err
	}
	for _, acc := range snap.Academies {
		if acc.ID == id {
			return acc, nil
		}
	}
	return academy.Academy{}, academy.ErrNotFound
}

func (repo *academyRepository) GetAcademyByName(name string) (academy.Academy, error) {
	snap, err := repo.store.Load()
	if err != nil {
		return academy.Academy{}, err
	}
	for _, acc := range snap.Academies {
		if acc.Name == name {
			return acc, nil
		}
	}
	return academy.Academy{}, academy.ErrNotFound
}

func (repo *academyRepository) UpdateAcademy(acc academy.Academy) (academy.Academy, error) {
	snap, err := repo.store.Load()
	if err != nil {
		return academy.Academy{}, err
	}
	for i := range snap.Academies {
		if snap.Academies[i].ID == acc.ID {
			snap.Academies[i] = acc
			if err := repo.store.Save(snap); err != nil {
				return academy.Academy{}, err
			}
			return acc, nil
		}
	}
	return academy.Academy{}, academy.ErrNotFound
}
