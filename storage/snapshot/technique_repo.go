package snapshotdb

import "github.com/fabiopossato/F-bio/core/technique"

type techniqueRepository struct {
	store Store
}

func NewTechniqueRepository(store Store) technique.Repository {
	return &techniqueRepository{store: store}
}

func (repo *techniqueRepository) CreateTechnique(tech technique.Technique) (technique.Technique, error) {
	snap, err := repo.store.Load()
	if err != nil {
		return technique.Technique{}, err
	}
	snap.Techniques = append(snap.Techniques, tech)
	if err := repo.store.Save(snap); err != nil {
		return technique.Technique{}, err
	}
	return tech, nil
}

func (repo *techniqueRepository) QueryAllTechniques() ([]technique.Technique, error) {
	snap, err := repo.store.Load()
	if err != nil {
		return nil, err
	}
	return snap.Techniques, nil
}

func (repo *techniqueRepository) GetTechniqueByID(id string) (technique.Technique, error) {
	snap, err := repo.store.Load()
	if err != nil {
		return technique.Technique{}, err
	}
	for _, tech := range snap.Techniques {
		if tech.ID == id {
			return tech, nil
		}
	}
	return technique.Technique{}, technique.ErrNotFound
}

func (repo *techniqueRepository) UpdateTechnique(tech technique.Technique) (technique.Technique, error) {
	snap, err := repo.store.Load()
	if err != nil {
		return technique.Technique{}, err
	}
	for i := range snap.Techniques {
		if snap.Techniques[i].ID == tech.ID {
			snap.Techniques[i] = tech
			if err := repo.store.Save(snap); err != nil {
				return technique.Technique{}, err
			}
			return tech, nil
		}
	}
	return technique.Technique{}, technique.ErrNotFound
}
