package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/construction-projects/internal/model"
)

type SitePlanRepository struct {
	db *gorm.DB
}

func NewSitePlanRepository(db *gorm.DB) *SitePlanRepository {
	return &SitePlanRepository{db: db}
}

func (r *SitePlanRepository) GetByProject(ctx context.Context, projectID uuid.UUID) (*model.SitePlan, error) {
	var row struct {
		ID           uuid.UUID
		ProjectID    uuid.UUID
		PlanNumber   string
		IssueDate    string
		Municipality string
		LandAreaM2   float64
		PlotNumber   string
		FileURL      string
		FileName     string
		CreatedAt    time.Time
		UpdatedAt    time.Time
	}

	err := r.db.WithContext(ctx).Raw(`
		SELECT id, project_id, plan_number,
			COALESCE(TO_CHAR(issue_date, 'YYYY-MM-DD'), '') AS issue_date,
			COALESCE(municipality, '') AS municipality,
			COALESCE(land_area_m2, 0) AS land_area_m2,
			COALESCE(plot_number, '') AS plot_number,
			COALESCE(file_url, '') AS file_url,
			COALESCE(file_name, '') AS file_name,
			created_at, updated_at
		FROM site_plans
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

	return &model.SitePlan{
		ID:           row.ID,
		ProjectID:    row.ProjectID,
		PlanNumber:   row.PlanNumber,
		IssueDate:    row.IssueDate,
		Municipality: row.Municipality,
		LandAreaM2:   row.LandAreaM2,
		PlotNumber:   row.PlotNumber,
		Attachment:   persistedRef(row.FileURL, row.FileName),
		Owners:       owners,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}, nil
}

func (r *SitePlanRepository) Create(ctx context.Context, plan *model.SitePlan) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Raw(`
			INSERT INTO site_plans (project_id, plan_number, issue_date, municipality, land_area_m2, plot_number, file_url, file_name)
			VALUES (?, ?, NULLIF(?, '')::date, NULLIF(?, ''), ?, NULLIF(?, ''), NULLIF(?, ''), NULLIF(?, ''))
			RETURNING id
		`,
			plan.ProjectID,
			plan.PlanNumber,
			plan.IssueDate,
			plan.Municipality,
			plan.LandAreaM2,
			plan.PlotNumber,
			plan.Attachment.URL,
			plan.Attachment.FileName,
		).Scan(&id).Error; err != nil {
			return err
		}
		return replaceOwners(tx, id, plan.Owners)
	})
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func (r *SitePlanRepository) Update(ctx context.Context, plan *model.SitePlan) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Exec(`
			UPDATE site_plans
			SET plan_number = ?,
				issue_date = NULLIF(?, '')::date,
				municipality = NULLIF(?, ''),
				land_area_m2 = ?,
				plot_number = NULLIF(?, ''),
				file_url = NULLIF(?, ''),
				file_name = NULLIF(?, ''),
				updated_at = NOW()
			WHERE id = ?
		`,
			plan.PlanNumber,
			plan.IssueDate,
			plan.Municipality,
			plan.LandAreaM2,
			plan.PlotNumber,
			plan.Attachment.URL,
			plan.Attachment.FileName,
			plan.ID,
		)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return replaceOwners(tx, plan.ID, plan.Owners)
	})
}

func (r *SitePlanRepository) listOwners(ctx context.Context, sitePlanID uuid.UUID) ([]model.Owner, error) {
	var rows []struct {
		ID              uuid.UUID
		OwnerNameAr     string
		OwnerNameEn     string
		Nationality     string
		IDNumber        string
		IDIssueDate     string
		IDExpiryDate    string
		IDFileURL       string
		IDFileName      string
		RightHoldType   string
		SharePercent    float64
		SharePossession string
		Phone           string
		Email           string
		IsAuthorized    bool
	}

	err := r.db.WithContext(ctx).Raw(`
		SELECT id, owner_name_ar,
			COALESCE(owner_name_en, '') AS owner_name_en,
			COALESCE(nationality, '') AS nationality,
			COALESCE(id_number, '') AS id_number,
			COALESCE(TO_CHAR(id_issue_date, 'YYYY-MM-DD'), '') AS id_issue_date,
			COALESCE(TO_CHAR(id_expiry_date, 'YYYY-MM-DD'), '') AS id_expiry_date,
			COALESCE(id_file_url, '') AS id_file_url,
			COALESCE(id_file_name, '') AS id_file_name,
			COALESCE(right_hold_type, '') AS right_hold_type,
			share_percent,
			COALESCE(share_possession, '') AS share_possession,
			COALESCE(phone, '') AS phone,
			COALESCE(email, '') AS email,
			is_authorized
		FROM site_plan_owners
		WHERE site_plan_id = ?
		ORDER BY position ASC
	`, sitePlanID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	owners := make([]model.Owner, 0, len(rows))
	for _, row := range rows {
		owners = append(owners, model.Owner{
			ID:              row.ID,
			OwnerNameAr:     row.OwnerNameAr,
			OwnerNameEn:     row.OwnerNameEn,
			Nationality:     row.Nationality,
			IDNumber:        row.IDNumber,
			IDIssueDate:     row.IDIssueDate,
			IDExpiryDate:    row.IDExpiryDate,
			IDAttachment:    persistedRef(row.IDFileURL, row.IDFileName),
			RightHoldType:   model.RightHoldType(row.RightHoldType),
			SharePercent:    row.SharePercent,
			SharePossession: row.SharePossession,
			Phone:           row.Phone,
			Email:           row.Email,
			IsAuthorized:    row.IsAuthorized,
		})
	}
	return owners, nil
}

func replaceOwners(tx *gorm.DB, sitePlanID uuid.UUID, owners []model.Owner) error {
	if err := tx.Exec(`DELETE FROM site_plan_owners WHERE site_plan_id = ?`, sitePlanID).Error; err != nil {
		return err
	}
	for i, owner := range owners {
		err := tx.Exec(`
			INSERT INTO site_plan_owners (
				site_plan_id, owner_name_ar, owner_name_en, nationality, id_number,
				id_issue_date, id_expiry_date, id_file_url, id_file_name,
				right_hold_type, share_percent, share_possession, phone, email,
				is_authorized, position
			)
			VALUES (?, ?, NULLIF(?, ''), NULLIF(?, ''), NULLIF(?, ''),
				NULLIF(?, '')::date, NULLIF(?, '')::date, NULLIF(?, ''), NULLIF(?, ''),
				NULLIF(?, ''), ?, NULLIF(?, ''), NULLIF(?, ''), NULLIF(?, ''), ?, ?)
		`,
			sitePlanID,
			owner.OwnerNameAr,
			owner.OwnerNameEn,
			owner.Nationality,
			owner.IDNumber,
			owner.IDIssueDate,
			owner.IDExpiryDate,
			owner.IDAttachment.URL,
			owner.IDAttachment.FileName,
			string(owner.RightHoldType),
			owner.SharePercent,
			owner.SharePossession,
			owner.Phone,
			owner.Email,
			owner.IsAuthorized,
			i,
		).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func persistedRef(url, name string) model.FileRef {
	if url == "" {
		return model.FileRef{State: model.FileEmpty}
	}
	return model.FileRef{State: model.FilePersisted, URL: url, FileName: name}
}
