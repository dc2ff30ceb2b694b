package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/nurpe/construction-projects/internal/attachment"
	"github.com/nurpe/construction-projects/internal/datemask"
	"github.com/nurpe/construction-projects/internal/draft"
	"github.com/nurpe/construction-projects/internal/events"
	"github.com/nurpe/construction-projects/internal/finance"
	"github.com/nurpe/construction-projects/internal/model"
	"github.com/nurpe/construction-projects/internal/owners"
	"github.com/nurpe/construction-projects/internal/wizard"
)

type ProjectStore interface {
	Create(ctx context.Context, project *model.Project) (uuid.UUID, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Project, error)
	Update(ctx context.Context, project *model.Project) error
	FindIDByInternalCode(ctx context.Context, code string) (uuid.UUID, error)
}

type SitePlanStore interface {
	GetByProject(ctx context.Context, projectID uuid.UUID) (*model.SitePlan, error)
	Create(ctx context.Context, plan *model.SitePlan) (uuid.UUID, error)
	Update(ctx context.Context, plan *model.SitePlan) error
}

type ContractStore interface {
	GetByProject(ctx context.Context, projectID uuid.UUID) (*model.Contract, error)
	Create(ctx context.Context, contract *model.Contract) (uuid.UUID, error)
	Update(ctx context.Context, contract *model.Contract) error
	SetClassification(ctx context.Context, projectID uuid.UUID, classification model.Classification) error
}

type StepStore interface {
	GetLicense(ctx context.Context, projectID uuid.UUID) (*model.License, error)
	CreateLicense(ctx context.Context, license *model.License) (uuid.UUID, error)
	UpdateLicense(ctx context.Context, license *model.License) error
	GetAwarding(ctx context.Context, projectID uuid.UUID) (*model.Awarding, error)
	CreateAwarding(ctx context.Context, awarding *model.Awarding) (uuid.UUID, error)
	UpdateAwarding(ctx context.Context, awarding *model.Awarding) error
}

type DraftStore interface {
	Save(ctx context.Context, sessionID string, d draft.Draft) error
	Load(ctx context.Context, sessionID string) (*draft.Draft, error)
	Clear(ctx context.Context, sessionID string) error
}

// ProjectService sequences all persistence for the wizard. A project that
// has not been created yet lives only in the draft store; FinalizeDraft
// turns it into a persisted record.
type ProjectService struct {
	projects  ProjectStore
	sitePlans SitePlanStore
	contracts ContractStore
	steps     StepStore
	drafts    DraftStore
	bus       *events.Bus
	log       zerolog.Logger
}

func NewProjectService(
	projects ProjectStore,
	sitePlans SitePlanStore,
	contracts ContractStore,
	steps StepStore,
	drafts DraftStore,
	bus *events.Bus,
	log zerolog.Logger,
) *ProjectService {
	s := &ProjectService{
		projects:  projects,
		sitePlans: sitePlans,
		contracts: contracts,
		steps:     steps,
		drafts:    drafts,
		bus:       bus,
		log:       log,
	}
	bus.Subscribe(events.OwnersUpdated, func(e events.Event) {
		s.syncContractOwners(context.Background(), e.ProjectID, e.Owners)
	})
	return s
}

// syncContractOwners re-runs owner reconciliation on a stored contract
// whenever the site-plan owner list changes, so the contract view never
// shows identities the site plan no longer holds.
func (s *ProjectService) syncContractOwners(ctx context.Context, projectID uuid.UUID, planOwners []model.Owner) {
	if projectID == uuid.Nil {
		return
	}
	contract, err := s.contracts.GetByProject(ctx, projectID)
	if err == gorm.ErrRecordNotFound {
		return
	}
	if err != nil {
		s.log.Error().Err(err).Str("project_id", projectID.String()).Msg("contract load for owner sync failed")
		return
	}

	contract.Owners = owners.Reconcile(owners.AuthorizedView(planOwners), contract.Owners)
	if err := s.contracts.Update(ctx, contract); err != nil {
		s.log.Error().Err(err).Str("project_id", projectID.String()).Msg("contract owner sync failed")
	}
}

// CheckInternalCode blocks advancement past setup when another project
// already holds the candidate code. The caller's own project is exempt so
// an unchanged code on edit passes.
func (s *ProjectService) CheckInternalCode(ctx context.Context, code string, current uuid.UUID) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return fieldError("internal_code", "internal code is required")
	}
	existing, err := s.projects.FindIDByInternalCode(ctx, code)
	if err != nil {
		return err
	}
	if existing != uuid.Nil && existing != current {
		return fmt.Errorf("%w: %s", ErrDuplicateCode, code)
	}
	return nil
}

func (s *ProjectService) GetProject(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	project, err := s.projects.Get(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return project, nil
}

// UpdateSetup is the existing-project regime for the setup step.
func (s *ProjectService) UpdateSetup(ctx context.Context, id uuid.UUID, setup model.Setup) (*model.Project, error) {
	if err := validateSetup(setup); err != nil {
		return nil, err
	}

	project, err := s.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}

	if !strings.EqualFold(strings.TrimSpace(setup.InternalCode), project.InternalCode) {
		if err := s.CheckInternalCode(ctx, setup.InternalCode, id); err != nil {
			return nil, err
		}
	}

	classificationChanged := project.Classification != setup.Classification

	project.ProjectType = setup.ProjectType
	project.VillaCategory = setup.VillaCategory
	project.ContractType = setup.ContractType
	project.InternalCode = strings.TrimSpace(setup.InternalCode)
	project.Classification = setup.Classification

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, err
	}

	if classificationChanged {
		if err := s.contracts.SetClassification(ctx, id, setup.Classification); err != nil {
			// the project record is authoritative; the contract copy catches up
			// on the next contract save
			s.log.Error().Err(err).Str("project_id", id.String()).Msg("classification sync failed")
		}
		s.bus.Publish(events.Event{Kind: events.ClassificationChanged, ProjectID: id, Classification: setup.Classification})
	}

	return project, nil
}

// FinalizeResult reports the outcome of the new-project creation sequence.
// ClassificationWarning is set when step (4) failed; the project still
// exists and the user completes classification later.
type FinalizeResult struct {
	Draft                 model.DraftRef
	SitePlanID            uuid.UUID
	NextStep              model.StepID
	ClassificationWarning string
}

// FinalizeDraft runs the new-project sequence strictly in order:
// (1) create the project; (2) abort on failure; (3) submit the site plan
// against the new id; (4) best-effort classification write, logged but
// never rolled back; (5) report the license step as the landing point.
func (s *ProjectService) FinalizeDraft(ctx context.Context, sessionID string) (*FinalizeResult, error) {
	d, err := s.drafts.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("%w: no draft for session", ErrNotFound)
	}
	if d.SitePlan == nil {
		return nil, fmt.Errorf("%w: site plan is not filled", ErrInvalidInput)
	}
	if err := validateSetup(d.Setup); err != nil {
		return nil, err
	}
	if !wizard.AllowSitePlanFlow(d.Setup) {
		return nil, fmt.Errorf("%w: setup selections do not allow the site plan flow", ErrInvalidInput)
	}
	if err := s.CheckInternalCode(ctx, d.Setup.InternalCode, uuid.Nil); err != nil {
		return nil, err
	}
	if err := owners.Validate(d.SitePlan.Owners); err != nil {
		return nil, fieldError("owners", err.Error())
	}

	projectID, err := s.projects.Create(ctx, &model.Project{
		Status:        model.ProjectStatusDraft,
		ProjectType:   d.Setup.ProjectType,
		VillaCategory: d.Setup.VillaCategory,
		ContractType:  d.Setup.ContractType,
		InternalCode:  d.Setup.InternalCode,
	})
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	plan := *d.SitePlan
	plan.ProjectID = projectID
	sitePlanID, err := s.sitePlans.Create(ctx, &plan)
	if err != nil {
		return nil, fmt.Errorf("submit site plan: %w", err)
	}

	result := &FinalizeResult{
		Draft:      model.PersistedDraft(projectID),
		SitePlanID: sitePlanID,
		NextStep:   model.StepLicense,
	}

	if d.Setup.Classification != model.ClassificationUnset {
		if err := s.contracts.SetClassification(ctx, projectID, d.Setup.Classification); err != nil {
			// accepted partial failure: project and site plan stay as created
			s.log.Error().Err(err).
				Str("project_id", projectID.String()).
				Str("classification", string(d.Setup.Classification)).
				Msg("classification write failed after project creation")
			result.ClassificationWarning = "contract classification could not be saved; set it again from the contract step"
		} else {
			if err := s.projects.Update(ctx, &model.Project{
				ID:             projectID,
				Status:         model.ProjectStatusDraft,
				ProjectType:    d.Setup.ProjectType,
				VillaCategory:  d.Setup.VillaCategory,
				ContractType:   d.Setup.ContractType,
				InternalCode:   d.Setup.InternalCode,
				Classification: d.Setup.Classification,
			}); err != nil {
				s.log.Error().Err(err).Str("project_id", projectID.String()).Msg("classification project sync failed")
				result.ClassificationWarning = "contract classification could not be saved; set it again from the contract step"
			}
		}
	}

	if err := s.drafts.Clear(ctx, sessionID); err != nil {
		s.log.Warn().Err(err).Str("session", sessionID).Msg("draft cleanup failed")
	}

	s.bus.Publish(events.Event{Kind: events.ProjectPersisted, Draft: result.Draft})
	return result, nil
}

func (s *ProjectService) GetSitePlan(ctx context.Context, projectID uuid.UUID) (*model.SitePlan, error) {
	plan, err := s.sitePlans.GetByProject(ctx, projectID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return plan, nil
}

// SaveSitePlan is the existing-project regime: create when the step has
// never been filled, update otherwise. Publishes OwnersUpdated so the
// contract step can re-reconcile.
func (s *ProjectService) SaveSitePlan(ctx context.Context, projectID uuid.UUID, plan *model.SitePlan) (*model.SitePlan, error) {
	if _, err := s.GetProject(ctx, projectID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(plan.PlanNumber) == "" {
		return nil, fieldError("plan_number", "plan number is required")
	}
	if !datemask.ValidISO(plan.IssueDate) {
		return nil, fieldError("issue_date", "must be a YYYY-MM-DD date")
	}
	if err := owners.Validate(plan.Owners); err != nil {
		return nil, fieldError("owners", err.Error())
	}

	plan.ProjectID = projectID
	existing, err := s.sitePlans.GetByProject(ctx, projectID)
	switch {
	case err == gorm.ErrRecordNotFound:
		id, err := s.sitePlans.Create(ctx, plan)
		if err != nil {
			return nil, err
		}
		plan.ID = id
	case err != nil:
		return nil, err
	default:
		plan.ID = existing.ID
		if err := s.sitePlans.Update(ctx, plan); err != nil {
			return nil, err
		}
	}

	s.bus.Publish(events.Event{Kind: events.OwnersUpdated, ProjectID: projectID, Owners: plan.Owners})
	return plan, nil
}

func (s *ProjectService) GetLicense(ctx context.Context, projectID uuid.UUID) (*model.License, error) {
	license, err := s.steps.GetLicense(ctx, projectID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return license, nil
}

func (s *ProjectService) SaveLicense(ctx context.Context, projectID uuid.UUID, license *model.License) (*model.License, error) {
	if _, err := s.GetProject(ctx, projectID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(license.LicenseNumber) == "" {
		return nil, fieldError("license_number", "license number is required")
	}
	if !datemask.ValidISO(license.IssueDate) {
		return nil, fieldError("issue_date", "must be a YYYY-MM-DD date")
	}
	if !datemask.ValidISO(license.ExpiryDate) {
		return nil, fieldError("expiry_date", "must be a YYYY-MM-DD date")
	}

	license.ProjectID = projectID
	existing, err := s.steps.GetLicense(ctx, projectID)
	switch {
	case err == gorm.ErrRecordNotFound:
		id, err := s.steps.CreateLicense(ctx, license)
		if err != nil {
			return nil, err
		}
		license.ID = id
	case err != nil:
		return nil, err
	default:
		license.ID = existing.ID
		if err := s.steps.UpdateLicense(ctx, license); err != nil {
			return nil, err
		}
	}
	return license, nil
}

// GetContract loads the contract step. A legacy main_contract row in the
// dynamic list is moved to its own slot and never shown in the list. The
// owner view is reconciled against the site plan on every load, so a
// contract row created before any owners were saved still opens with the
// authorized owner filled in.
func (s *ProjectService) GetContract(ctx context.Context, projectID uuid.UUID) (*model.Contract, error) {
	contract, err := s.contracts.GetByProject(ctx, projectID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	plan, err := s.sitePlans.GetByProject(ctx, projectID)
	switch {
	case err == gorm.ErrRecordNotFound:
	case err != nil:
		return nil, err
	default:
		contract.Owners = owners.Reconcile(owners.AuthorizedView(plan.Owners), contract.Owners)
	}

	if !contract.MainContract.HasFile() {
		if ref, ok := attachment.ExtractMainContract(contract.Attachments); ok {
			contract.MainContract = ref
		}
	}
	contract.Attachments = attachment.FilterDynamic(contract.Attachments)
	return contract, nil
}

// SaveContract validates the financial invariants, reconciles the embedded
// owner view against the site plan, and filters the dynamic attachment
// list once more before writing.
func (s *ProjectService) SaveContract(ctx context.Context, projectID uuid.UUID, contract *model.Contract) (*model.Contract, error) {
	project, err := s.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	classification := contract.Classification
	if classification == model.ClassificationUnset {
		classification = project.Classification
		contract.Classification = classification
	}

	if !datemask.ValidISO(contract.SignDate) {
		return nil, fieldError("sign_date", "must be a YYYY-MM-DD date")
	}

	contract.Figures = finance.Normalize(contract.Figures, classification)
	if err := finance.Validate(contract.Figures, classification); err != nil {
		return nil, fieldError("figures", err.Error())
	}

	for _, a := range contract.Attachments {
		if a.Type != "" && !a.Type.IsValidDynamic() {
			return nil, fieldError("attachments", fmt.Sprintf("attachment type %q is not allowed", a.Type))
		}
	}
	contract.Attachments = attachment.FilterDynamic(contract.Attachments)

	// the site plan owns owner identity; the contract refines contact
	// fields on the authorized owner only
	plan, err := s.sitePlans.GetByProject(ctx, projectID)
	if err == nil {
		contract.Owners = owners.Reconcile(owners.AuthorizedView(plan.Owners), contract.Owners)
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	contract.ProjectID = projectID
	existing, err := s.contracts.GetByProject(ctx, projectID)
	switch {
	case err == gorm.ErrRecordNotFound:
		id, err := s.contracts.Create(ctx, contract)
		if err != nil {
			return nil, err
		}
		contract.ID = id
	case err != nil:
		return nil, err
	default:
		contract.ID = existing.ID
		if err := s.contracts.Update(ctx, contract); err != nil {
			return nil, err
		}
	}

	if project.Classification != classification {
		project.Classification = classification
		if err := s.projects.Update(ctx, project); err != nil {
			return nil, err
		}
		s.bus.Publish(events.Event{Kind: events.ClassificationChanged, ProjectID: projectID, Classification: classification})
	}

	return contract, nil
}

func (s *ProjectService) GetAwarding(ctx context.Context, projectID uuid.UUID) (*model.Awarding, error) {
	awarding, err := s.steps.GetAwarding(ctx, projectID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return awarding, nil
}

// SaveAwarding exists only for housing-loan projects; the step is not in
// the resolved list otherwise.
func (s *ProjectService) SaveAwarding(ctx context.Context, projectID uuid.UUID, awarding *model.Awarding) (*model.Awarding, error) {
	project, err := s.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.Classification != model.ClassificationHousingLoan {
		return nil, fmt.Errorf("%w: awarding applies to housing loan projects only", ErrInvalidInput)
	}
	if strings.TrimSpace(awarding.ContractorName) == "" {
		return nil, fieldError("contractor_name", "contractor name is required")
	}
	if !datemask.ValidISO(awarding.AwardDate) {
		return nil, fieldError("award_date", "must be a YYYY-MM-DD date")
	}

	awarding.ProjectID = projectID
	existing, err := s.steps.GetAwarding(ctx, projectID)
	switch {
	case err == gorm.ErrRecordNotFound:
		id, err := s.steps.CreateAwarding(ctx, awarding)
		if err != nil {
			return nil, err
		}
		awarding.ID = id
	case err != nil:
		return nil, err
	default:
		awarding.ID = existing.ID
		if err := s.steps.UpdateAwarding(ctx, awarding); err != nil {
			return nil, err
		}
	}
	return awarding, nil
}

func validateSetup(setup model.Setup) error {
	fields := FieldErrors{}
	if setup.ProjectType == "" {
		fields["project_type"] = "project type is required"
	}
	if setup.ContractType == "" {
		fields["contract_type"] = "contract type is required"
	}
	if setup.ProjectType == model.ProjectTypeVilla && setup.VillaCategory == "" {
		fields["villa_category"] = "villa category is required for villa projects"
	}
	if strings.TrimSpace(setup.InternalCode) == "" {
		fields["internal_code"] = "internal code is required"
	}
	switch setup.Classification {
	case model.ClassificationUnset, model.ClassificationHousingLoan, model.ClassificationPrivateFunding:
	default:
		fields["contract_classification"] = "unknown classification"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
