package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/construction-projects/internal/model"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(ctx context.Context, project *model.Project) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO projects (status, project_type, villa_category, contract_type, internal_code, contract_classification)
		VALUES (?, ?, NULLIF(?, ''), ?, ?, NULLIF(?, ''))
		RETURNING id
	`,
		string(project.Status),
		string(project.ProjectType),
		string(project.VillaCategory),
		string(project.ContractType),
		strings.TrimSpace(project.InternalCode),
		string(project.Classification),
	).Scan(&id).Error
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func (r *ProjectRepository) Get(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	var row struct {
		ID             uuid.UUID
		Status         string
		ProjectType    string
		VillaCategory  *string
		ContractType   string
		InternalCode   string
		Classification *string
		CreatedAt      time.Time
		UpdatedAt      time.Time
	}

	err := r.db.WithContext(ctx).Raw(`
		SELECT id, status, project_type, villa_category, contract_type, internal_code,
			contract_classification AS classification, created_at, updated_at
		FROM projects
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}

	project := &model.Project{
		ID:           row.ID,
		Status:       model.ProjectStatus(row.Status),
		ProjectType:  model.ProjectType(row.ProjectType),
		ContractType: model.ContractType(row.ContractType),
		InternalCode: row.InternalCode,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
	if row.VillaCategory != nil {
		project.VillaCategory = model.VillaCategory(*row.VillaCategory)
	}
	if row.Classification != nil {
		project.Classification = model.Classification(*row.Classification)
	}
	return project, nil
}

func (r *ProjectRepository) Update(ctx context.Context, project *model.Project) error {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE projects
		SET project_type = ?,
			villa_category = NULLIF(?, ''),
			contract_type = ?,
			internal_code = ?,
			contract_classification = NULLIF(?, ''),
			status = ?,
			updated_at = NOW()
		WHERE id = ?
	`,
		string(project.ProjectType),
		string(project.VillaCategory),
		string(project.ContractType),
		strings.TrimSpace(project.InternalCode),
		string(project.Classification),
		string(project.Status),
		project.ID,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindIDByInternalCode returns uuid.Nil without error when no project
// holds the code.
func (r *ProjectRepository) FindIDByInternalCode(ctx context.Context, code string) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.db.WithContext(ctx).Raw(`
		SELECT id
		FROM projects
		WHERE LOWER(internal_code) = LOWER(?)
		LIMIT 1
	`, strings.TrimSpace(code)).Scan(&id).Error
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}
