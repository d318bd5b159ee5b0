package technique

import (
	"github.com/fabiopossato/F-bio/core"
	"github.com/fabiopossato/F-bio/core/student"
)

// Technique categories. Values are the tags persisted in snapshots.
const (
	CategoryFundamentals = "Fundamentos"
	CategoryPassing      = "Passagem"
	CategoryGuard        = "Guarda"
	CategorySubmission   = "Finalização"
	CategoryTakedowns    = "Quedas"
	CategorySelfDefense  = "Defesa Pessoal"
)

var Categories = []string{
	CategoryFundamentals, CategoryPassing, CategoryGuard,
	CategorySubmission, CategoryTakedowns, CategorySelfDefense,
}

type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

type Technique struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`

	// BeltRequired is the belt at which the technique is introduced; it
	// must be a ladder belt for at least one category.
	BeltRequired student.Belt `json:"beltRequired"`

	Description string    `json:"description"`
	MediaURL    string    `json:"mediaUrl,omitempty"`
	MediaType   MediaType `json:"mediaType,omitempty"`
}

// NewTechnique contains information needed to add a technique to the catalog.
type NewTechnique struct {
	Name         string       `json:"name" validate:"required"`
	Category     string       `json:"category" validate:"required,oneof=Fundamentos Passagem Guarda Finalização Quedas 'Defesa Pessoal'"`
	BeltRequired student.Belt `json:"beltRequired" validate:"required"`
	Description  string       `json:"description"`
	MediaURL     string       `json:"mediaUrl" validate:"omitempty,url"`
	MediaType    MediaType    `json:"mediaType" validate:"omitempty,oneof=image video"`
}

func (nt *NewTechnique) Validate() error {
	nt.Name = core.CleanString(nt.Name)
	nt.Description = core.CleanString(nt.Description)

	if err := core.Validate.Struct(nt); err != nil {
		return err
	}
	if !student.IsKnownBelt(nt.BeltRequired) {
		return core.NewValidationError(ErrUnknownBelt, core.FieldError{Field: "beltRequired", Error: ErrUnknownBelt.Error()})
	}
	return nil
}

// UpdateTechnique defines what may be modified on an existing Technique.
type UpdateTechnique struct {
	Name         string       `json:"name"`
	Category     string       `json:"category" validate:"omitempty,oneof=Fundamentos Passagem Guarda Finalização Quedas 'Defesa Pessoal'"`
	BeltRequired student.Belt `json:"beltRequired"`
	Description  string       `json:"description"`
	MediaURL     string       `json:"mediaUrl" validate:"omitempty,url"`
	MediaType    MediaType    `json:"mediaType" validate:"omitempty,oneof=image video"`
}

func (ut *UpdateTechnique) Validate(orig Technique) error {
	name := core.CleanString(ut.Name)
	if name != "" {
		ut.Name = name
	} else {
		ut.Name = orig.Name
	}
	if ut.Category == "" {
		ut.Category = orig.Category
	}
	if ut.BeltRequired == "" {
		ut.BeltRequired = orig.BeltRequired
	}

	if err := core.Validate.Struct(ut); err != nil {
		return err
	}
	if !student.IsKnownBelt(ut.BeltRequired) {
		return core.NewValidationError(ErrUnknownBelt, core.FieldError{Field: "beltRequired", Error: ErrUnknownBelt.Error()})
	}
	return nil
}
