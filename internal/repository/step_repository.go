package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/construction-projects/internal/model"
)

// StepRepository covers the single-record steps: license and awarding.
type StepRepository struct {
	db *gorm.DB
}

func NewStepRepository(db *gorm.DB) *StepRepository {
	return &StepRepository{db: db}
}

func (r *StepRepository) GetLicense(ctx context.Context, projectID uuid.UUID) (*model.License, error) {
	var row struct {
		ID            uuid.UUID
		ProjectID     uuid.UUID
		LicenseNumber string
		IssueDate     string
		ExpiryDate    string
		IssuedBy      string
		FileURL       string
		FileName      string
		CreatedAt     time.Time
		UpdatedAt     time.Time
	}

	err := r.db.WithContext(ctx).Raw(`
		SELECT id, project_id, license_number,
			COALESCE(TO_CHAR(issue_date, 'YYYY-MM-DD'), '') AS issue_date,
			COALESCE(TO_CHAR(expiry_date, 'YYYY-MM-DD'), '') AS expiry_date,
			COALESCE(issued_by, '') AS issued_by,
			COALESCE(file_url, '') AS file_url,
			COALESCE(file_name, '') AS file_name,
			created_at, updated_at
		FROM licenses
		WHERE project_id = ?
		LIMIT 1
	`, projectID).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}

	return &model.License{
		ID:            row.ID,
		ProjectID:     row.ProjectID,
		LicenseNumber: row.LicenseNumber,
		IssueDate:     row.IssueDate,
		ExpiryDate:    row.ExpiryDate,
		IssuedBy:      row.IssuedBy,
		Attachment:    persistedRef(row.FileURL, row.FileName),
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}, nil
}

func (r *StepRepository) CreateLicense(ctx context.Context, license *model.License) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO licenses (project_id, license_number, issue_date, expiry_date, issued_by, file_url, file_name)
		VALUES (?, ?, NULLIF(?, '')::date, NULLIF(?, '')::date, NULLIF(?, ''), NULLIF(?, ''), NULLIF(?, ''))
		RETURNING id
	`,
		license.ProjectID,
		license.LicenseNumber,
		license.IssueDate,
		license.ExpiryDate,
		license.IssuedBy,
		license.Attachment.URL,
		license.Attachment.FileName,
	).Scan(&id).Error
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func (r *StepRepository) UpdateLicense(ctx context.Context, license *model.License) error {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE licenses
		SET license_number = ?,
			issue_date = NULLIF(?, '')::date,
			expiry_date = NULLIF(?, '')::date,
			issued_by = NULLIF(?, ''),
			file_url = NULLIF(?, ''),
			file_name = NULLIF(?, ''),
			updated_at = NOW()
		WHERE id = ?
	`,
		license.LicenseNumber,
		license.IssueDate,
		license.ExpiryDate,
		license.IssuedBy,
		license.Attachment.URL,
		license.Attachment.FileName,
		license.ID,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *StepRepository) GetAwarding(ctx context.Context, projectID uuid.UUID) (*model.Awarding, error) {
	var row struct {
		ID             uuid.UUID
		ProjectID      uuid.UUID
		ContractorName string
		ContractorCR   string
		AwardDate      string
		AwardValue     float64
		FileURL        string
		FileName       string
		CreatedAt      time.Time
		UpdatedAt      time.Time
	}

	err := r.db.WithContext(ctx).Raw(`
		SELECT id, project_id, contractor_name,
			COALESCE(contractor_cr, '') AS contractor_cr,
			COALESCE(TO_CHAR(award_date, 'YYYY-MM-DD'), '') AS award_date,
			COALESCE(award_value, 0) AS award_value,
			COALESCE(file_url, '') AS file_url,
			COALESCE(file_name, '') AS file_name,
			created_at, updated_at
		FROM awardings
		WHERE project_id = ?
		LIMIT 1
	`, projectID).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}

	return &model.Awarding{
		ID:             row.ID,
		ProjectID:      row.ProjectID,
		ContractorName: row.ContractorName,
		ContractorCR:   row.ContractorCR,
		AwardDate:      row.AwardDate,
		AwardValue:     row.AwardValue,
		Attachment:     persistedRef(row.FileURL, row.FileName),
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}, nil
}

func (r *StepRepository) CreateAwarding(ctx context.Context, awarding *model.Awarding) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO awardings (project_id, contractor_name, contractor_cr, award_date, award_value, file_url, file_name)
		VALUES (?, ?, NULLIF(?, ''), NULLIF(?, '')::date, ?, NULLIF(?, ''), NULLIF(?, ''))
		RETURNING id
	`,
		awarding.ProjectID,
		awarding.ContractorName,
		awarding.ContractorCR,
		awarding.AwardDate,
		awarding.AwardValue,
		awarding.Attachment.URL,
		awarding.Attachment.FileName,
	).Scan(&id).Error
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func (r *StepRepository) UpdateAwarding(ctx context.Context, awarding *model.Awarding) error {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE awardings
		SET contractor_name = ?,
			contractor_cr = NULLIF(?, ''),
			award_date = NULLIF(?, '')::date,
			award_value = ?,
			file_url = NULLIF(?, ''),
			file_name = NULLIF(?, ''),
			updated_at = NOW()
		WHERE id = ?
	`,
		awarding.ContractorName,
		awarding.ContractorCR,
		awarding.AwardDate,
		awarding.AwardValue,
		awarding.Attachment.URL,
		awarding.Attachment.FileName,
		awarding.ID,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
