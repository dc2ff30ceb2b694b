package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/construction-projects/internal/draft"
	"github.com/nurpe/construction-projects/internal/files"
	"github.com/nurpe/construction-projects/internal/http/middleware"
	"github.com/nurpe/construction-projects/internal/model"
	"github.com/nurpe/construction-projects/internal/service"
)

type fakeDrafts struct {
	saved   map[string]draft.Draft
	cleared []string
}

func newFakeDrafts() *fakeDrafts {
	return &fakeDrafts{saved: map[string]draft.Draft{}}
}

func (f *fakeDrafts) Save(_ context.Context, sessionID string, d draft.Draft) error {
	f.saved[sessionID] = d
	return nil
}

func (f *fakeDrafts) Load(_ context.Context, sessionID string) (*draft.Draft, error) {
	d, ok := f.saved[sessionID]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (f *fakeDrafts) Clear(_ context.Context, sessionID string) error {
	delete(f.saved, sessionID)
	f.cleared = append(f.cleared, sessionID)
	return nil
}

func newTestRouter(t *testing.T, drafts service.DraftStore, principal model.Principal) (*gin.Engine, *files.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := files.NewStore(t.TempDir())
	require.NoError(t, err)

	handler := NewHandler(nil, drafts, nil, nil, store, nil, zerolog.Nop())
	router := gin.New()
	handler.Register(router, middleware.WithPrincipal(principal))
	return router, store
}

func editor() model.Principal {
	return model.Principal{UserID: uuid.New(), Role: "EDITOR", SessionID: "s1"}
}

func TestViewerCannotMutate(t *testing.T) {
	router, _ := newTestRouter(t, newFakeDrafts(), model.Principal{UserID: uuid.New(), Role: "VIEWER"})

	body := strings.NewReader(`{"setup":{"project_type":"villa"}}`)
	req := httptest.NewRequest(http.MethodPut, "/drafts/s1", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDraftRoundTrip(t *testing.T) {
	drafts := newFakeDrafts()
	router, _ := newTestRouter(t, drafts, editor())

	body := strings.NewReader(`{"setup":{"project_type":"villa","contract_type":"new","internal_code":"PRJ-5"},"step_index":1}`)
	req := httptest.NewRequest(http.MethodPut, "/drafts/s1", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, drafts.saved, "s1")
	assert.Equal(t, model.ProjectTypeVilla, drafts.saved["s1"].Setup.ProjectType)

	req = httptest.NewRequest(http.MethodGet, "/drafts/s1", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"internal_code":"PRJ-5"`)

	req = httptest.NewRequest(http.MethodDelete, "/drafts/s1", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"s1"}, drafts.cleared)
}

func TestGetDraftMissing(t *testing.T) {
	router, _ := newTestRouter(t, newFakeDrafts(), editor())

	req := httptest.NewRequest(http.MethodGet, "/drafts/absent", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetFileFromLocalStore(t *testing.T) {
	router, store := newTestRouter(t, newFakeDrafts(), editor())

	projectID := uuid.New()
	url, err := store.Save(projectID, "site_plan_1.pdf", []byte("content"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "content", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "site_plan_1.pdf")
}

func TestGetFileMissing(t *testing.T) {
	router, _ := newTestRouter(t, newFakeDrafts(), editor())

	req := httptest.NewRequest(http.MethodGet, "/files/"+uuid.NewString()+"/nope.pdf", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestResolveStepsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, newFakeDrafts(), editor())

	req := httptest.NewRequest(http.MethodGet, "/wizard/steps?project_type=villa&villa_category=residential&contract_type=new", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"siteplan"`)
	assert.NotContains(t, rec.Body.String(), `"award"`)
	assert.Contains(t, rec.Body.String(), `"index":0`)
}

func TestResolveStepsClampsCursor(t *testing.T) {
	router, _ := newTestRouter(t, newFakeDrafts(), editor())

	// the award step dropped out of this setup, so a cursor that was on it
	// comes back clamped to the last remaining step
	req := httptest.NewRequest(http.MethodGet, "/wizard/steps?project_type=villa&villa_category=residential&contract_type=new&index=4", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"index":3`)
}

func TestHandleErrorMapping(t *testing.T) {
	h := &Handler{log: zerolog.Nop()}

	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", &service.ValidationError{Fields: service.FieldErrors{"internal_code": "required"}}, http.StatusUnprocessableEntity},
		{"duplicate code", service.ErrDuplicateCode, http.StatusConflict},
		{"not found", service.ErrNotFound, http.StatusNotFound},
		{"permission denied", service.ErrPermissionDenied, http.StatusForbidden},
		{"invalid input", service.ErrInvalidInput, http.StatusBadRequest},
		{"file unavailable", files.ErrUnavailable, http.StatusBadGateway},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			h.handleError(c, tc.err)
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}
