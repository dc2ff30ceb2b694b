package model

// FileState is the lifecycle state of a single attachment slot.
type FileState string

const (
	FileEmpty     FileState = "EMPTY"
	FileNew       FileState = "NEW"
	FilePersisted FileState = "PERSISTED"
	FileRemoved   FileState = "REMOVED"
)

// FileRef is the four-state file model shared by static and dynamic
// attachment slots. Content is set only in the NEW state; URL and FileName
// only in PERSISTED.
type FileRef struct {
	State    FileState `json:"state"`
	FileName string    `json:"file_name,omitempty"`
	URL      string    `json:"file_url,omitempty"`
	Content  []byte    `json:"-"`
}

func (f FileRef) HasFile() bool {
	return f.State == FileNew || f.State == FilePersisted
}

// AttachmentType is a closed set. AttachmentMainContract is reserved for the
// principal contract document and must never appear in the dynamic list;
// legacy records carrying it are filtered, not deleted.
type AttachmentType string

const (
	AttachmentMainContract    AttachmentType = "main_contract"
	AttachmentAppendix        AttachmentType = "appendix"
	AttachmentBankGuarantee   AttachmentType = "bank_guarantee"
	AttachmentPaymentSchedule AttachmentType = "payment_schedule"
	AttachmentSitePhotos      AttachmentType = "site_photos"
	AttachmentOther           AttachmentType = "other"

	AttachmentQuantitiesTable AttachmentType = "quantities_table"
	AttachmentMaterialsTable  AttachmentType = "materials_table"
	AttachmentPriceOffer      AttachmentType = "price_offer"
	AttachmentDrawings        AttachmentType = "drawings"
	AttachmentSpecifications  AttachmentType = "specifications"
)

// DynamicTypes are the values a user may pick for a dynamic contract
// attachment. main_contract is deliberately absent.
func DynamicTypes() []AttachmentType {
	return []AttachmentType{
		AttachmentAppendix,
		AttachmentBankGuarantee,
		AttachmentPaymentSchedule,
		AttachmentSitePhotos,
		AttachmentOther,
	}
}

func (t AttachmentType) IsValidDynamic() bool {
	switch t {
	case AttachmentAppendix, AttachmentBankGuarantee, AttachmentPaymentSchedule,
		AttachmentSitePhotos, AttachmentOther:
		return true
	case AttachmentMainContract, AttachmentQuantitiesTable, AttachmentMaterialsTable,
		AttachmentPriceOffer, AttachmentDrawings, AttachmentSpecifications:
		return false
	default:
		return false
	}
}

// DynamicAttachment is a user-addable, typed contract attachment row.
type DynamicAttachment struct {
	Type  AttachmentType `json:"type"`
	Date  string         `json:"date,omitempty"`
	Notes string         `json:"notes,omitempty"`
	Price *float64       `json:"price,omitempty"`
	File  FileRef        `json:"file"`
}

// IsBlank reports whether the row is an untouched placeholder that must be
// dropped silently before submission.
func (a DynamicAttachment) IsBlank() bool {
	return a.Type == "" && !a.File.HasFile() && a.Notes == "" && a.Price == nil
}
