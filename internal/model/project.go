package model

import (
	"time"

	"github.com/google/uuid"
)

type ProjectType string

const (
	ProjectTypeVilla      ProjectType = "villa"
	ProjectTypeCommercial ProjectType = "commercial_building"
	ProjectTypeMosque     ProjectType = "mosque"
)

type VillaCategory string

const (
	VillaCategoryResidential VillaCategory = "residential"
	VillaCategoryCommercial  VillaCategory = "commercial"
	VillaCategoryRest        VillaCategory = "rest_house"
)

type ContractType string

const (
	ContractTypeNew         ContractType = "new"
	ContractTypeSupervision ContractType = "supervision"
)

type Classification string

const (
	ClassificationHousingLoan    Classification = "housing_loan_program"
	ClassificationPrivateFunding Classification = "private_funding"
	ClassificationUnset          Classification = ""
)

type ProjectStatus string

const (
	ProjectStatusDraft     ProjectStatus = "DRAFT"
	ProjectStatusActive    ProjectStatus = "ACTIVE"
	ProjectStatusCompleted ProjectStatus = "COMPLETED"
)

// Setup holds the selections made in the first wizard step. The ordered
// step list is a pure function of these values.
type Setup struct {
	ProjectType    ProjectType    `json:"project_type"`
	VillaCategory  VillaCategory  `json:"villa_category,omitempty"`
	ContractType   ContractType   `json:"contract_type"`
	InternalCode   string         `json:"internal_code"`
	Classification Classification `json:"contract_classification,omitempty"`
}

type Project struct {
	ID             uuid.UUID      `json:"id"`
	Status         ProjectStatus  `json:"status"`
	ProjectType    ProjectType    `json:"project_type"`
	VillaCategory  VillaCategory  `json:"villa_category,omitempty"`
	ContractType   ContractType   `json:"contract_type"`
	InternalCode   string         `json:"internal_code"`
	Classification Classification `json:"contract_classification,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

func (p *Project) Setup() Setup {
	return Setup{
		ProjectType:    p.ProjectType,
		VillaCategory:  p.VillaCategory,
		ContractType:   p.ContractType,
		InternalCode:   p.InternalCode,
		Classification: p.Classification,
	}
}

type DraftPhase string

const (
	DraftUnsaved   DraftPhase = "UNSAVED"
	DraftPersisted DraftPhase = "PERSISTED"
)

// DraftRef tags whether the project behind the wizard exists server-side
// yet. Persistence decisions branch on the phase, never on a zero id.
type DraftRef struct {
	Phase     DraftPhase `json:"phase"`
	ProjectID uuid.UUID  `json:"project_id,omitempty"`
}

func UnsavedDraft() DraftRef {
	return DraftRef{Phase: DraftUnsaved}
}

func PersistedDraft(id uuid.UUID) DraftRef {
	return DraftRef{Phase: DraftPersisted, ProjectID: id}
}
