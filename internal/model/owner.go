package model

import "github.com/google/uuid"

type RightHoldType string

const (
	RightHoldOwnership   RightHoldType = "ownership"
	RightHoldUsufruct    RightHoldType = "usufruct"
	RightHoldInheritance RightHoldType = "inheritance"
)

// Owner is a site-plan owner record. The site plan is the source of truth
// for identity and document fields; the contract view may override phone
// and email only.
type Owner struct {
	ID              uuid.UUID     `json:"id,omitempty"`
	OwnerNameAr     string        `json:"owner_name_ar"`
	OwnerNameEn     string        `json:"owner_name_en"`
	Nationality     string        `json:"nationality"`
	IDNumber        string        `json:"id_number"`
	IDIssueDate     string        `json:"id_issue_date"`
	IDExpiryDate    string        `json:"id_expiry_date"`
	IDAttachment    FileRef       `json:"id_attachment"`
	RightHoldType   RightHoldType `json:"right_hold_type"`
	SharePercent    float64       `json:"share_percent"`
	SharePossession string        `json:"share_possession"`
	Phone           string        `json:"phone"`
	Email           string        `json:"email"`
	IsAuthorized    bool          `json:"is_authorized"`
}
