package technique

import (
	"errors"

	"github.com/google/uuid"
)

var (
	// errors
	ErrNotFound    = errors.New("technique not found")
	ErrUnknownBelt = errors.New("beltRequired is not a known ladder belt")
)

type (
	Repository interface {
		CreateTechnique(tech Technique) (Technique, error)
		QueryAllTechniques() ([]Technique, error)
		GetTechniqueByID(id string) (Technique, error)
		UpdateTechnique(tech Technique) (Technique, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(nt NewTechnique) (Technique, error) {
	tech := Technique{
		ID:           uuid.New().String(),
		Name:         nt.Name,
		Category:     nt.Category,
		BeltRequired: nt.BeltRequired,
		Description:  nt.Description,
		MediaURL:     nt.MediaURL,
		MediaType:    nt.MediaType,
	}
	return svc.repo.CreateTechnique(tech)
}

func (svc *Service) QueryAll() ([]Technique, error) {
	return svc.repo.QueryAllTechniques()
}

func (svc *Service) GetByID(id string) (Technique, error) {
	return svc.repo.GetTechniqueByID(id)
}

func (svc *Service) Update(id string, ut UpdateTechnique) (Technique, error) {
	tech, err := svc.repo.GetTechniqueByID(id)
	if err != nil {
		return Technique{}, err
	}
	tech.Name = ut.Name
	tech.Category = ut.Category
	tech.BeltRequired = ut.BeltRequired
	if ut.Description != "" {
		tech.Description = ut.Description
	}
	if ut.MediaURL != "" {
		tech.MediaURL = ut.MediaURL
	}
	if ut.MediaType != "" {
		tech.MediaType = ut.MediaType
	}
	return svc.repo.UpdateTechnique(tech)
}
