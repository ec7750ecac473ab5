package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/secondchance-api/internal/application/item"
	"github.com/secondchance-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mock ---

type mockItemSvc struct{ mock.Mock }

func (m *mockItemSvc) List(ctx context.Context) ([]domain.Item, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Item), args.Error(1)
}
func (m *mockItemSvc) Get(ctx context.Context, itemID string) (*domain.Item, error) {
	args := m.Called(ctx, itemID)
	if it, _ := args.Get(0).(*domain.Item); it != nil {
		return it, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockItemSvc) Create(ctx context.Context, req domain.CreateItemRequest, image *item.ImageUpload) (*domain.Item, error) {
	args := m.Called(ctx, req, image)
	if it, _ := args.Get(0).(*domain.Item); it != nil {
		return it, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockItemSvc) Update(ctx context.Context, itemID string, req domain.UpdateItemRequest) (bool, error) {
	args := m.Called(ctx, itemID, req)
	return args.Bool(0), args.Error(1)
}
func (m *mockItemSvc) Delete(ctx context.Context, itemID string) error {
	return m.Called(ctx, itemID).Error(0)
}
func (m *mockItemSvc) Search(ctx context.Context, c domain.SearchCriteria) ([]domain.Item, error) {
	args := m.Called(ctx, c)
	return args.Get(0).([]domain.Item), args.Error(1)
}

// newItemRouter mounts the handler the way the real router does, so {id}
// URL params resolve.
func newItemRouter(svc item.Service) http.Handler {
	h := NewItemHandler(svc)
	r := chi.NewRouter()
	r.Get("/search", h.Search)
	r.Route("/secondChanceItems", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
	return r
}

// --- List / Get ---

func TestList_ReturnsAllItems(t *testing.T) {
	svc := &mockItemSvc{}
	svc.On("List", mock.Anything).Return([]domain.Item{{ItemID: "1"}, {ItemID: "2"}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/secondChanceItems/", nil)
	rr := httptest.NewRecorder()
	newItemRouter(svc).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var items []domain.Item
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &items))
	assert.Len(t, items, 2)
}

func TestGet_UnknownID_404(t *testing.T) {
	svc := &mockItemSvc{}
	svc.On("Get", mock.Anything, "99").Return(nil, domain.ErrNotFound)

	req := httptest.NewRequest(http.MethodGet, "/secondChanceItems/99", nil)
	rr := httptest.NewRecorder()
	newItemRouter(svc).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

// --- Create ---

func multipartItem(t *testing.T, fields map[string]string, filename string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if filename != "" {
		fw, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = io.WriteString(fw, "image-bytes")
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestCreate_Returns201WithInsertedDoc(t *testing.T) {
	svc := &mockItemSvc{}
	svc.On("Create", mock.Anything, domain.CreateItemRequest{
		Name: "Lamp", Category: "lighting", Condition: "used", Description: "desk lamp", AgeDays: 400,
	}, mock.Anything).Return(&domain.Item{ItemID: "8", Name: "Lamp"}, nil)

	body, contentType := multipartItem(t, map[string]string{
		"name": "Lamp", "category": "lighting", "condition": "used",
		"description": "desk lamp", "age_days": "400",
	}, "lamp.png")
	req := httptest.NewRequest(http.MethodPost, "/secondChanceItems/", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	newItemRouter(svc).ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	var resp domain.Item
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "8", resp.ItemID)
	svc.AssertExpectations(t)
}

func TestCreate_FileIsOptional(t *testing.T) {
	svc := &mockItemSvc{}
	svc.On("Create", mock.Anything, mock.Anything, (*item.ImageUpload)(nil)).
		Return(&domain.Item{ItemID: "1"}, nil)

	body, contentType := multipartItem(t, map[string]string{"name": "Chair"}, "")
	req := httptest.NewRequest(http.MethodPost, "/secondChanceItems/", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	newItemRouter(svc).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	svc.AssertExpectations(t)
}

func TestCreate_MissingName_400BeforeService(t *testing.T) {
	svc := &mockItemSvc{}

	body, contentType := multipartItem(t, map[string]string{"category": "misc"}, "")
	req := httptest.NewRequest(http.MethodPost, "/secondChanceItems/", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	newItemRouter(svc).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreate_NonNumericAgeDays_400(t *testing.T) {
	svc := &mockItemSvc{}

	body, contentType := multipartItem(t, map[string]string{"name": "Lamp", "age_days": "old"}, "")
	req := httptest.NewRequest(http.MethodPost, "/secondChanceItems/", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	newItemRouter(svc).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

// --- Update ---

func TestUpdate_Confirmed_ReportsSuccess(t *testing.T) {
	svc := &mockItemSvc{}
	svc.On("Update", mock.Anything, "3", mock.Anything).Return(true, nil)

	req := httptest.NewRequest(http.MethodPut, "/secondChanceItems/3",
		bytes.NewReader([]byte(`{"category":"furniture","condition":"used","age_days":400,"description":"sturdy"}`)))
	rr := httptest.NewRecorder()
	newItemRouter(svc).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp["uploaded"])
}

func TestUpdate_Unconfirmed_ReportsFailedWith200(t *testing.T) {
	svc := &mockItemSvc{}
	svc.On("Update", mock.Anything, "3", mock.Anything).Return(false, nil)

	req := httptest.NewRequest(http.MethodPut, "/secondChanceItems/3", bytes.NewReader([]byte(`{}`)))
	rr := httptest.NewRecorder()
	newItemRouter(svc).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "failed", resp["uploaded"])
}

func TestUpdate_UnknownID_404(t *testing.T) {
	svc := &mockItemSvc{}
	svc.On("Update", mock.Anything, "99", mock.Anything).Return(false, domain.ErrNotFound)

	req := httptest.NewRequest(http.MethodPut, "/secondChanceItems/99", bytes.NewReader([]byte(`{}`)))
	rr := httptest.NewRecorder()
	newItemRouter(svc).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

// --- Delete ---

func TestDelete_ReportsSuccess(t *testing.T) {
	svc := &mockItemSvc{}
	svc.On("Delete", mock.Anything, "3").Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/secondChanceItems/3", nil)
	rr := httptest.NewRecorder()
	newItemRouter(svc).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp["deleted"])
}

func TestDelete_UnknownID_404(t *testing.T) {
	svc := &mockItemSvc{}
	svc.On("Delete", mock.Anything, "99").Return(domain.ErrNotFound)

	req := httptest.NewRequest(http.MethodDelete, "/secondChanceItems/99", nil)
	rr := httptest.NewRecorder()
	newItemRouter(svc).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

// --- Search ---

func TestSearch_BuildsCriteriaFromPresentParamsOnly(t *testing.T) {
	svc := &mockItemSvc{}
	maxAge := 2
	svc.On("Search", mock.Anything, domain.SearchCriteria{Name: "lamp", MaxAgeYears: &maxAge}).
		Return([]domain.Item{{ItemID: "1", Name: "Desk Lamp"}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/search?name=lamp&age_years=2", nil)
	rr := httptest.NewRecorder()
	newItemRouter(svc).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var items []domain.Item
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &items))
	assert.Len(t, items, 1)
	svc.AssertExpectations(t)
}

func TestSearch_NoParams_UnconstrainedCriteria(t *testing.T) {
	svc := &mockItemSvc{}
	svc.On("Search", mock.Anything, domain.SearchCriteria{}).
		Return([]domain.Item{{ItemID: "1"}, {ItemID: "2"}, {ItemID: "3"}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/search", nil)
	rr := httptest.NewRecorder()
	newItemRouter(svc).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var items []domain.Item
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &items))
	assert.Len(t, items, 3)
}

func TestSearch_NonNumericAgeYears_400BeforeService(t *testing.T) {
	svc := &mockItemSvc{}

	req := httptest.NewRequest(http.MethodGet, "/search?age_years=two", nil)
	rr := httptest.NewRecorder()
	newItemRouter(svc).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
}
