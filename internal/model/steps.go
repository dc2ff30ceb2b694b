package model

import (
	"time"

	"github.com/google/uuid"
)

type StepID string

const (
	StepSetup    StepID = "setup"
	StepSitePlan StepID = "siteplan"
	StepLicense  StepID = "license"
	StepContract StepID = "contract"
	StepAward    StepID = "award"
)

type Step struct {
	ID        StepID `json:"id"`
	Order     int    `json:"order"`
	Component string `json:"component"`
}

type SitePlan struct {
	ID           uuid.UUID `json:"id"`
	ProjectID    uuid.UUID `json:"project_id"`
	PlanNumber   string    `json:"plan_number"`
	IssueDate    string    `json:"issue_date"`
	Municipality string    `json:"municipality"`
	LandAreaM2   float64   `json:"land_area_m2"`
	PlotNumber   string    `json:"plot_number"`
	Attachment   FileRef   `json:"attachment"`
	Owners       []Owner   `json:"owners"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type License struct {
	ID            uuid.UUID `json:"id"`
	ProjectID     uuid.UUID `json:"project_id"`
	LicenseNumber string    `json:"license_number"`
	IssueDate     string    `json:"issue_date"`
	ExpiryDate    string    `json:"expiry_date"`
	IssuedBy      string    `json:"issued_by"`
	Attachment    FileRef   `json:"attachment"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// FinancialFigures are the user-entered totals plus the derived owner value.
type FinancialFigures struct {
	TotalProjectValue float64 `json:"total_project_value"`
	TotalBankValue    float64 `json:"total_bank_value"`
	TotalOwnerValue   float64 `json:"total_owner_value"`
}

type Contract struct {
	ID             uuid.UUID                  `json:"id"`
	ProjectID      uuid.UUID                  `json:"project_id"`
	Classification Classification             `json:"contract_classification"`
	SignDate       string                     `json:"sign_date"`
	DurationMonths int                        `json:"duration_months"`
	Figures        FinancialFigures           `json:"figures"`
	Owners         []Owner                    `json:"owners"`
	MainContract   FileRef                    `json:"main_contract"`
	Statics        map[AttachmentType]FileRef `json:"static_attachments"`
	Attachments    []DynamicAttachment        `json:"attachments"`
	CreatedAt      time.Time                  `json:"created_at"`
	UpdatedAt      time.Time                  `json:"updated_at"`
}

type Awarding struct {
	ID             uuid.UUID `json:"id"`
	ProjectID      uuid.UUID `json:"project_id"`
	ContractorName string    `json:"contractor_name"`
	ContractorCR   string    `json:"contractor_cr"`
	AwardDate      string    `json:"award_date"`
	AwardValue     float64   `json:"award_value"`
	Attachment     FileRef   `json:"attachment"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
