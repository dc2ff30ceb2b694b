package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nurpe/construction-projects/internal/attachment"
	"github.com/nurpe/construction-projects/internal/draft"
	"github.com/nurpe/construction-projects/internal/excel"
	"github.com/nurpe/construction-projects/internal/files"
	"github.com/nurpe/construction-projects/internal/http/middleware"
	"github.com/nurpe/construction-projects/internal/model"
	"github.com/nurpe/construction-projects/internal/pdf"
	"github.com/nurpe/construction-projects/internal/service"
	"github.com/nurpe/construction-projects/internal/wizard"
)

type ProjectExporter interface {
	Generate(wb excel.ProjectWorkbook) ([]byte, error)
}

type ContractPrinter interface {
	Generate(doc pdf.ContractDocument) ([]byte, error)
}

type FileFetcher interface {
	Fetch(ctx context.Context, path string) (*files.Result, error)
}

type FileStore interface {
	Save(projectID uuid.UUID, name string, content []byte) (string, error)
	Open(path string) ([]byte, error)
}

type Handler struct {
	projects *service.ProjectService
	drafts   service.DraftStore
	exporter ProjectExporter
	printer  ContractPrinter
	store    FileStore
	remote   FileFetcher
	log      zerolog.Logger
}

func NewHandler(
	projects *service.ProjectService,
	drafts service.DraftStore,
	exporter ProjectExporter,
	printer ContractPrinter,
	store FileStore,
	remote FileFetcher,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		projects: projects,
		drafts:   drafts,
		exporter: exporter,
		printer:  printer,
		store:    store,
		remote:   remote,
		log:      log,
	}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	protected := router.Group("/")
	protected.Use(authMiddleware)

	protected.GET("/wizard/steps", h.resolveSteps)

	protected.GET("/projects/check-code", h.checkInternalCode)
	protected.POST("/projects", h.createProject)
	protected.GET("/projects/:id", h.getProject)
	protected.PATCH("/projects/:id", h.updateSetup)

	protected.POST("/drafts/:session", h.saveDraft)
	protected.PUT("/drafts/:session", h.saveDraft)
	protected.GET("/drafts/:session", h.getDraft)
	protected.DELETE("/drafts/:session", h.clearDraft)
	protected.POST("/drafts/:session/finalize", h.finalizeDraft)

	protected.GET("/projects/:id/siteplan", h.getSitePlan)
	protected.POST("/projects/:id/siteplan", h.saveSitePlan)
	protected.PATCH("/projects/:id/siteplan", h.saveSitePlan)

	protected.GET("/projects/:id/license", h.getLicense)
	protected.POST("/projects/:id/license", h.saveLicense)
	protected.PATCH("/projects/:id/license", h.saveLicense)

	protected.GET("/projects/:id/contract", h.getContract)
	protected.POST("/projects/:id/contract", h.saveContract)
	protected.PATCH("/projects/:id/contract", h.saveContract)

	protected.GET("/projects/:id/awarding", h.getAwarding)
	protected.POST("/projects/:id/awarding", h.saveAwarding)
	protected.PATCH("/projects/:id/awarding", h.saveAwarding)

	protected.GET("/projects/:id/export", h.exportProject)
	protected.GET("/projects/:id/contract/print", h.printContract)

	protected.GET("/files/*path", h.getFile)
}

type setupQuery struct {
	ProjectType    string `form:"project_type"`
	VillaCategory  string `form:"villa_category"`
	ContractType   string `form:"contract_type"`
	InternalCode   string `form:"internal_code"`
	Classification string `form:"contract_classification"`
	Index          int    `form:"index"`
}

func (q setupQuery) toSetup() model.Setup {
	return model.Setup{
		ProjectType:    model.ProjectType(q.ProjectType),
		VillaCategory:  model.VillaCategory(q.VillaCategory),
		ContractType:   model.ContractType(q.ContractType),
		InternalCode:   q.InternalCode,
		Classification: model.Classification(q.Classification),
	}
}

func (h *Handler) resolveSteps(c *gin.Context) {
	var q setupQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	setup := q.toSetup()
	steps := wizard.ResolveSteps(setup)

	guards := make([]bool, len(steps))
	for i := range steps {
		guards[i] = wizard.CanEnter(i, setup)
	}

	// the caller's cursor may point past the end after a setup change
	// shrank the list
	c.JSON(http.StatusOK, gin.H{
		"steps":     steps,
		"can_enter": guards,
		"index":     wizard.ClampIndex(q.Index, steps),
	})
}

func (h *Handler) checkInternalCode(c *gin.Context) {
	code := c.Query("code")
	exclude := uuid.Nil
	if raw := strings.TrimSpace(c.Query("exclude")); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid exclude id"})
			return
		}
		exclude = parsed
	}

	if err := h.projects.CheckInternalCode(c.Request.Context(), code, exclude); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": true})
}

func (h *Handler) getProject(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	project, err := h.projects.GetProject(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

type setupRequest struct {
	ProjectType    string `json:"project_type" binding:"required"`
	VillaCategory  string `json:"villa_category"`
	ContractType   string `json:"contract_type" binding:"required"`
	InternalCode   string `json:"internal_code" binding:"required"`
	Classification string `json:"contract_classification"`
}

func (h *Handler) updateSetup(c *gin.Context) {
	if !h.requireEditor(c) {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req setupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := h.projects.UpdateSetup(c.Request.Context(), id, model.Setup{
		ProjectType:    model.ProjectType(req.ProjectType),
		VillaCategory:  model.VillaCategory(req.VillaCategory),
		ContractType:   model.ContractType(req.ContractType),
		InternalCode:   req.InternalCode,
		Classification: model.Classification(req.Classification),
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

type createProjectRequest struct {
	Session string `json:"session" binding:"required"`
}

// createProject turns the caller's draft into a persisted project. The
// session names the draft; all setup data comes from the draft store.
func (h *Handler) createProject(c *gin.Context) {
	if !h.requireEditor(c) {
		return
	}

	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.projects.FinalizeDraft(c.Request.Context(), req.Session)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *Handler) saveDraft(c *gin.Context) {
	if !h.requireEditor(c) {
		return
	}
	var d draft.Draft
	if err := c.ShouldBindJSON(&d); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.drafts.Save(c.Request.Context(), c.Param("session"), d); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": true})
}

func (h *Handler) getDraft(c *gin.Context) {
	d, err := h.drafts.Load(c.Request.Context(), c.Param("session"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	if d == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no draft"})
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) clearDraft(c *gin.Context) {
	if !h.requireEditor(c) {
		return
	}
	if err := h.drafts.Clear(c.Request.Context(), c.Param("session")); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) finalizeDraft(c *gin.Context) {
	if !h.requireEditor(c) {
		return
	}
	result, err := h.projects.FinalizeDraft(c.Request.Context(), c.Param("session"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *Handler) getSitePlan(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	plan, err := h.projects.GetSitePlan(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *Handler) saveSitePlan(c *gin.Context) {
	if !h.requireEditor(c) {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	var plan model.SitePlan
	form, err := bindPayload(c, &plan)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if form != nil {
		if err := h.resolveRef(&plan.Attachment, form, "attachment", "site plan", 0, true, id); err != nil {
			h.handleError(c, err)
			return
		}
		for i := range plan.Owners {
			key := fmt.Sprintf("owner_%d", i)
			if err := h.resolveRef(&plan.Owners[i].IDAttachment, form, key, "owner identity document", i, false, id); err != nil {
				h.handleError(c, err)
				return
			}
		}
	}

	saved, err := h.projects.SaveSitePlan(c.Request.Context(), id, &plan)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

func (h *Handler) getLicense(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	license, err := h.projects.GetLicense(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, license)
}

func (h *Handler) saveLicense(c *gin.Context) {
	if !h.requireEditor(c) {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	var license model.License
	form, err := bindPayload(c, &license)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if form != nil {
		if err := h.resolveRef(&license.Attachment, form, "attachment", "building license", 0, true, id); err != nil {
			h.handleError(c, err)
			return
		}
	}

	saved, err := h.projects.SaveLicense(c.Request.Context(), id, &license)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

func (h *Handler) getContract(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	contract, err := h.projects.GetContract(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract)
}

// saveContract accepts a multipart submission: the contract payload with
// its nested owners and attachments arrays as one JSON part, each new
// binary as its own part keyed by slot.
func (h *Handler) saveContract(c *gin.Context) {
	if !h.requireEditor(c) {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	var contract model.Contract
	form, err := bindPayload(c, &contract)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if form != nil {
		if err := h.resolveRef(&contract.MainContract, form, "main_contract", "main contract", 0, true, id); err != nil {
			h.handleError(c, err)
			return
		}
		for slotType, ref := range contract.Statics {
			resolved := ref
			key := "static_" + string(slotType)
			if err := h.resolveRef(&resolved, form, key, labelFor(slotType), 0, true, id); err != nil {
				h.handleError(c, err)
				return
			}
			contract.Statics[slotType] = resolved
		}
		for i := range contract.Attachments {
			key := fmt.Sprintf("attachment_%d", i)
			label := labelFor(contract.Attachments[i].Type)
			if err := h.resolveRef(&contract.Attachments[i].File, form, key, label, i, false, id); err != nil {
				h.handleError(c, err)
				return
			}
		}
	}

	saved, err := h.projects.SaveContract(c.Request.Context(), id, &contract)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

func (h *Handler) getAwarding(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	awarding, err := h.projects.GetAwarding(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, awarding)
}

func (h *Handler) saveAwarding(c *gin.Context) {
	if !h.requireEditor(c) {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	var awarding model.Awarding
	form, err := bindPayload(c, &awarding)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if form != nil {
		if err := h.resolveRef(&awarding.Attachment, form, "attachment", "awarding letter", 0, true, id); err != nil {
			h.handleError(c, err)
			return
		}
	}

	saved, err := h.projects.SaveAwarding(c.Request.Context(), id, &awarding)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

func (h *Handler) exportProject(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	project, err := h.projects.GetProject(ctx, id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	wb := excel.ProjectWorkbook{Project: *project}
	if plan, err := h.projects.GetSitePlan(ctx, id); err == nil {
		wb.SitePlan = plan
	}
	if contract, err := h.projects.GetContract(ctx, id); err == nil {
		wb.Contract = contract
	}
	if awarding, err := h.projects.GetAwarding(ctx, id); err == nil {
		wb.Awarding = awarding
	}

	content, err := h.exporter.Generate(wb)
	if err != nil {
		h.handleError(c, err)
		return
	}

	fileName := fmt.Sprintf("project-%s.xlsx", project.InternalCode)
	c.Header("Content-Disposition", "attachment; filename=\""+fileName+"\"")
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", content)
}

func (h *Handler) printContract(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	project, err := h.projects.GetProject(ctx, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	contract, err := h.projects.GetContract(ctx, id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	content, err := h.printer.Generate(pdf.ContractDocument{
		Project:  *project,
		Contract: *contract,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	fileName := fmt.Sprintf("contract-%s.pdf", project.InternalCode)
	c.Header("Content-Disposition", "attachment; filename=\""+fileName+"\"")
	c.Data(http.StatusOK, "application/pdf", content)
}

// getFile serves stored documents. With a remote base configured it acts
// as the authenticated indirection proxy; otherwise it reads local storage.
func (h *Handler) getFile(c *gin.Context) {
	path := strings.TrimPrefix(c.Param("path"), "/")

	if h.remote != nil {
		result, err := h.remote.Fetch(c.Request.Context(), path)
		if err != nil {
			h.handleError(c, err)
			return
		}
		if result.FileName != "" {
			c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
		}
		contentType := result.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		c.Data(http.StatusOK, contentType, result.Content)
		return
	}

	content, err := h.store.Open(path)
	if err != nil {
		h.handleError(c, err)
		return
	}
	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Disposition", "attachment; filename=\""+filepath.Base(path)+"\"")
	c.Data(http.StatusOK, contentType, content)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "validation failed",
			"fields": validationErr.Fields,
		})
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrDuplicateCode):
		c.JSON(http.StatusConflict, gin.H{
			"error":  "validation failed",
			"fields": gin.H{"internal_code": "internal code already in use"},
		})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, files.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "file access unauthorized"})
	case errors.Is(err, files.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
	case errors.Is(err, files.ErrUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": "file service unavailable"})
	default:
		h.log.Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// bindPayload decodes either a plain JSON body or a multipart form whose
// "payload" part carries the JSON. The returned form is nil for plain JSON.
func bindPayload(c *gin.Context, target interface{}) (*multipart.Form, error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		if err := c.ShouldBindJSON(target); err != nil {
			return nil, err
		}
		return nil, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, err
	}
	payloads := form.Value["payload"]
	if len(payloads) == 0 {
		return nil, fmt.Errorf("missing payload part")
	}
	if err := json.Unmarshal([]byte(payloads[0]), target); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return form, nil
}

// resolveRef finalizes one slot: a NEW ref consumes its binary part, gets
// the deterministic name and becomes persisted; REMOVED collapses to an
// empty ref so the stored file reference is dropped.
func (h *Handler) resolveRef(ref *model.FileRef, form *multipart.Form, key, label string, index int, singular bool, projectID uuid.UUID) error {
	switch ref.State {
	case model.FileNew:
		headers := form.File[key]
		if len(headers) == 0 {
			return fmt.Errorf("%w: missing file part %q", service.ErrInvalidInput, key)
		}
		originalName, content, err := readPart(headers[0])
		if err != nil {
			return err
		}
		name := attachment.StableName(label, index, singular, originalName)
		url, err := h.store.Save(projectID, name, content)
		if err != nil {
			return err
		}
		*ref = model.FileRef{State: model.FilePersisted, URL: url, FileName: name}
	case model.FileRemoved:
		*ref = model.FileRef{State: model.FileEmpty}
	}
	return nil
}

func readPart(header *multipart.FileHeader) (string, []byte, error) {
	file, err := header.Open()
	if err != nil {
		return "", nil, err
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return "", nil, err
	}
	return header.Filename, content, nil
}

func labelFor(t model.AttachmentType) string {
	return strings.ReplaceAll(string(t), "_", " ")
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return uuid.Nil, false
	}
	return id, true
}

// requireEditor rejects viewer tokens on mutating endpoints.
func (h *Handler) requireEditor(c *gin.Context) bool {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		h.handleError(c, service.ErrPermissionDenied)
		return false
	}
	if principal.IsViewer() {
		h.handleError(c, service.ErrPermissionDenied)
		return false
	}
	return true
}
