package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/construction-projects/internal/model"
)

const (
	slotKindStatic  = "static"
	slotKindDynamic = "dynamic"
)

type ContractRepository struct {
	db *gorm.DB
}

func NewContractRepository(db *gorm.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

func (r *ContractRepository) GetByProject(ctx context.Context, projectID uuid.UUID) (*model.Contract, error) {
	var row struct {
		ID               uuid.UUID
		ProjectID        uuid.UUID
		Classification   string
		SignDate         string
		DurationMonths   int
		TotalProject     float64
		TotalBank        float64
		TotalOwner       float64
		MainContractURL  string
		MainContractName string
		CreatedAt        time.Time
		UpdatedAt        time.Time
	}

	err := r.db.WithContext(ctx).Raw(`
		SELECT id, project_id,
			COALESCE(contract_classification, '') AS classification,
			COALESCE(TO_CHAR(sign_date, 'YYYY-MM-DD'), '') AS sign_date,
			COALESCE(duration_months, 0) AS duration_months,
			COALESCE(total_project_value, 0) AS total_project,
			COALESCE(total_bank_value, 0) AS total_bank,
			COALESCE(total_owner_value, 0) AS total_owner,
			COALESCE(main_contract_url, '') AS main_contract_url,
			COALESCE(main_contract_name, '') AS main_contract_name,
			created_at, updated_at
		FROM contracts
		WHERE project_id = ?
		LIMIT 1
	`, projectID).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}

	owners, err := r.listOwners(ctx, row.ID)
	if err != nil {
		return nil, err
	}
	statics, dynamics, err := r.listAttachments(ctx, row.ID)
	if err != nil {
		return nil, err
	}

	return &model.Contract{
		ID:             row.ID,
		ProjectID:      row.ProjectID,
		Classification: model.Classification(row.Classification),
		SignDate:       row.SignDate,
		DurationMonths: row.DurationMonths,
		Figures: model.FinancialFigures{
			TotalProjectValue: row.TotalProject,
			TotalBankValue:    row.TotalBank,
			TotalOwnerValue:   row.TotalOwner,
		},
		Owners:       owners,
		MainContract: persistedRef(row.MainContractURL, row.MainContractName),
		Statics:      statics,
		Attachments:  dynamics,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}, nil
}

func (r *ContractRepository) Create(ctx context.Context, contract *model.Contract) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Raw(`
			INSERT INTO contracts (
				project_id, contract_classification, sign_date, duration_months,
				total_project_value, total_bank_value, total_owner_value,
				main_contract_url, main_contract_name
			)
			VALUES (?, NULLIF(?, ''), NULLIF(?, '')::date, ?, ?, ?, ?, NULLIF(?, ''), NULLIF(?, ''))
			RETURNING id
		`,
			contract.ProjectID,
			string(contract.Classification),
			contract.SignDate,
			contract.DurationMonths,
			contract.Figures.TotalProjectValue,
			contract.Figures.TotalBankValue,
			contract.Figures.TotalOwnerValue,
			contract.MainContract.URL,
			contract.MainContract.FileName,
		).Scan(&id).Error; err != nil {
			return err
		}
		if err := replaceContractOwners(tx, id, contract.Owners); err != nil {
			return err
		}
		return replaceAttachments(tx, id, contract.Statics, contract.Attachments)
	})
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func (r *ContractRepository) Update(ctx context.Context, contract *model.Contract) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Exec(`
			UPDATE contracts
			SET contract_classification = NULLIF(?, ''),
				sign_date = NULLIF(?, '')::date,
				duration_months = ?,
				total_project_value = ?,
				total_bank_value = ?,
				total_owner_value = ?,
				main_contract_url = NULLIF(?, ''),
				main_contract_name = NULLIF(?, ''),
				updated_at = NOW()
			WHERE id = ?
		`,
			string(contract.Classification),
			contract.SignDate,
			contract.DurationMonths,
			contract.Figures.TotalProjectValue,
			contract.Figures.TotalBankValue,
			contract.Figures.TotalOwnerValue,
			contract.MainContract.URL,
			contract.MainContract.FileName,
			contract.ID,
		)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := replaceContractOwners(tx, contract.ID, contract.Owners); err != nil {
			return err
		}
		return replaceAttachments(tx, contract.ID, contract.Statics, contract.Attachments)
	})
}

// SetClassification writes the classification alone, creating the contract
// row when it does not exist yet. Used by the finalize sequence before the
// contract step has ever been filled.
func (r *ContractRepository) SetClassification(ctx context.Context, projectID uuid.UUID, classification model.Classification) error {
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO contracts (project_id, contract_classification)
		VALUES (?, NULLIF(?, ''))
		ON CONFLICT (project_id)
		DO UPDATE SET contract_classification = EXCLUDED.contract_classification, updated_at = NOW()
	`, projectID, string(classification)).Error
}

func (r *ContractRepository) listOwners(ctx context.Context, contractID uuid.UUID) ([]model.Owner, error) {
	var rows []struct {
		ID           uuid.UUID
		OwnerNameAr  string
		IDNumber     string
		Phone        string
		Email        string
		IsAuthorized bool
	}

	err := r.db.WithContext(ctx).Raw(`
		SELECT id, owner_name_ar,
			COALESCE(id_number, '') AS id_number,
			COALESCE(phone, '') AS phone,
			COALESCE(email, '') AS email,
			is_authorized
		FROM contract_owners
		WHERE contract_id = ?
		ORDER BY owner_name_ar ASC
	`, contractID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	owners := make([]model.Owner, 0, len(rows))
	for _, row := range rows {
		owners = append(owners, model.Owner{
			ID:           row.ID,
			OwnerNameAr:  row.OwnerNameAr,
			IDNumber:     row.IDNumber,
			Phone:        row.Phone,
			Email:        row.Email,
			IsAuthorized: row.IsAuthorized,
		})
	}
	return owners, nil
}

func (r *ContractRepository) listAttachments(ctx context.Context, contractID uuid.UUID) (map[model.AttachmentType]model.FileRef, []model.DynamicAttachment, error) {
	var rows []struct {
		SlotKind       string
		AttachmentType string
		AttachmentDate string
		Notes          string
		Price          *float64
		FileURL        string
		FileName       string
	}

	err := r.db.WithContext(ctx).Raw(`
		SELECT slot_kind, attachment_type,
			COALESCE(TO_CHAR(attachment_date, 'YYYY-MM-DD'), '') AS attachment_date,
			COALESCE(notes, '') AS notes,
			price,
			COALESCE(file_url, '') AS file_url,
			COALESCE(file_name, '') AS file_name
		FROM contract_attachments
		WHERE contract_id = ?
		ORDER BY position ASC
	`, contractID).Scan(&rows).Error
	if err != nil {
		return nil, nil, err
	}

	statics := make(map[model.AttachmentType]model.FileRef)
	var dynamics []model.DynamicAttachment
	for _, row := range rows {
		if row.SlotKind == slotKindStatic {
			statics[model.AttachmentType(row.AttachmentType)] = persistedRef(row.FileURL, row.FileName)
			continue
		}
		dynamics = append(dynamics, model.DynamicAttachment{
			Type:  model.AttachmentType(row.AttachmentType),
			Date:  row.AttachmentDate,
			Notes: row.Notes,
			Price: row.Price,
			File:  persistedRef(row.FileURL, row.FileName),
		})
	}
	return statics, dynamics, nil
}

func replaceContractOwners(tx *gorm.DB, contractID uuid.UUID, owners []model.Owner) error {
	if err := tx.Exec(`DELETE FROM contract_owners WHERE contract_id = ?`, contractID).Error; err != nil {
		return err
	}
	for _, owner := range owners {
		err := tx.Exec(`
			INSERT INTO contract_owners (contract_id, owner_name_ar, id_number, phone, email, is_authorized)
			VALUES (?, ?, NULLIF(?, ''), NULLIF(?, ''), NULLIF(?, ''), ?)
		`,
			contractID,
			owner.OwnerNameAr,
			owner.IDNumber,
			owner.Phone,
			owner.Email,
			owner.IsAuthorized,
		).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func replaceAttachments(tx *gorm.DB, contractID uuid.UUID, statics map[model.AttachmentType]model.FileRef, dynamics []model.DynamicAttachment) error {
	if err := tx.Exec(`DELETE FROM contract_attachments WHERE contract_id = ?`, contractID).Error; err != nil {
		return err
	}

	position := 0
	insert := func(kind string, attachmentType model.AttachmentType, date, notes string, price *float64, ref model.FileRef) error {
		defer func() { position++ }()
		return tx.Exec(`
			INSERT INTO contract_attachments (contract_id, slot_kind, attachment_type, attachment_date, notes, price, file_url, file_name, position)
			VALUES (?, ?, ?, NULLIF(?, '')::date, NULLIF(?, ''), ?, NULLIF(?, ''), NULLIF(?, ''), ?)
		`, contractID, kind, string(attachmentType), date, notes, price, ref.URL, ref.FileName, position).Error
	}

	for _, t := range []model.AttachmentType{
		model.AttachmentQuantitiesTable,
		model.AttachmentMaterialsTable,
		model.AttachmentPriceOffer,
		model.AttachmentDrawings,
		model.AttachmentSpecifications,
	} {
		ref, ok := statics[t]
		if !ok || !ref.HasFile() {
			continue
		}
		if err := insert(slotKindStatic, t, "", "", nil, ref); err != nil {
			return err
		}
	}

	for _, a := range dynamics {
		if err := insert(slotKindDynamic, a.Type, a.Date, a.Notes, a.Price, a.File); err != nil {
			return err
		}
	}
	return nil
}
