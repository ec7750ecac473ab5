package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/secondchance-api/internal/application/item"
	"github.com/secondchance-api/internal/domain"
	"github.com/secondchance-api/internal/pkg/validate"
)

// ItemHandler handles the secondChanceItems CRUD endpoints and search.
type ItemHandler struct {
	svc item.Service
}

func NewItemHandler(svc item.Service) *ItemHandler { return &ItemHandler{svc: svc} }

func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	it, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

// Create accepts a multipart body: the item fields plus an optional `file`
// part holding the listing image.
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	req := domain.CreateItemRequest{
		Name:        r.FormValue("name"),
		Category:    r.FormValue("category"),
		Condition:   r.FormValue("condition"),
		Description: r.FormValue("description"),
	}
	if v := r.FormValue("age_days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "age_days must be an integer")
			return
		}
		req.AgeDays = n
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var image *item.ImageUpload
	if f, header, err := r.FormFile("file"); err == nil {
		defer f.Close()
		image = &item.ImageUpload{
			Reader:      f,
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
		}
	} else if err != http.ErrMissingFile {
		writeError(w, http.StatusBadRequest, "invalid file field")
		return
	}

	it, err := h.svc.Create(r.Context(), req, image)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, it)
}

func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	confirmed, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		respondError(w, err)
		return
	}
	// A no-op update is a normal-path signal, not a fault.
	status := "success"
	if !confirmed {
		status = "failed"
	}
	writeJSON(w, http.StatusOK, map[string]string{"uploaded": status})
}

func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": "success"})
}

// Search builds a conjunctive filter from the present query parameters only.
// A non-numeric age_years is rejected outright rather than silently matching
// nothing.
func (h *ItemHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	c := domain.SearchCriteria{
		Name:      strings.TrimSpace(q.Get("name")),
		Category:  q.Get("category"),
		Condition: q.Get("condition"),
	}
	if v := q.Get("age_years"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "age_years must be an integer")
			return
		}
		c.MaxAgeYears = &n
	}

	items, err := h.svc.Search(r.Context(), c)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}
