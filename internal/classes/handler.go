// Package classes implements the CRUD endpoints for subjects and their
// grading weights.
package classes

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"github.com/schoolplanner/backend/internal/api"
	"github.com/schoolplanner/backend/internal/merge"
	"github.com/schoolplanner/backend/internal/middleware"
	"github.com/schoolplanner/backend/internal/models"
	"github.com/schoolplanner/backend/internal/store"
)

var colorRe = regexp.MustCompile(`^[0-9A-Fa-f]{6}$`)

// Store defines the persistence the class handlers need.
type Store interface {
	ListClasses(ctx context.Context, userID string) ([]models.Class, error)
	CreateClass(ctx context.Context, c *models.Class) (int64, error)
	ClassByID(ctx context.Context, id int64) (*models.Class, error)
	UpdateClass(ctx context.Context, c *models.Class) error
	DeleteClass(ctx context.Context, id int64) error
}

// Handler holds the class HTTP handlers.
type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// List returns all classes of the current user.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	cs, err := h.store.ListClasses(r.Context(), userID)
	if err != nil {
		api.StorageError(w, err)
		return
	}
	if cs == nil {
		cs = []models.Class{}
	}
	api.JSON(w, http.StatusOK, cs)
}

// Create inserts a new class. Every field is required here; only PATCH is
// sparse.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	var req models.ClassCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			api.Error(w, http.StatusBadRequest, "invalid_request", "Missing request body")
		} else {
			api.Error(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		}
		return
	}

	if req.Name == "" {
		api.Error(w, http.StatusBadRequest, "invalid_request", "Missing name")
		return
	}
	if utf8.RuneCountInString(req.Name) > 20 {
		api.Error(w, http.StatusBadRequest, "invalid_request", "Name is too long")
		return
	}
	if req.Color == "" {
		api.Error(w, http.StatusBadRequest, "invalid_request", "Missing color")
		return
	}
	if !colorRe.MatchString(req.Color) {
		api.Error(w, http.StatusBadRequest, "invalid_request", "Invalid color")
		return
	}

	gradeK, ok := requireWeight(w, req.GradeK, "grade_k")
	if !ok {
		return
	}
	gradeM, ok := requireWeight(w, req.GradeM, "grade_m")
	if !ok {
		return
	}
	if req.GradeT == nil {
		api.Error(w, http.StatusBadRequest, "invalid_request", "Missing grade_t")
		return
	}
	if !req.GradeT.IsNumber() && req.GradeT.String() != "1exam" {
		api.Error(w, http.StatusBadRequest, "invalid_request", "Invalid grade_t")
		return
	}
	gradeS, ok := requireWeight(w, req.GradeS, "grade_s")
	if !ok {
		return
	}

	c := &models.Class{
		UserID: userID,
		Name:   req.Name,
		Color:  req.Color,
		GradeK: gradeK,
		GradeM: gradeM,
		GradeT: req.GradeT.String(),
		GradeS: gradeS,
	}
	id, err := h.store.CreateClass(r.Context(), c)
	if err != nil {
		api.StorageError(w, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]interface{}{"success": true, "id": id})
}

// Patch applies a sparse update. All supplied fields must validate or the
// stored record stays untouched.
func (h *Handler) Patch(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var p models.ClassPatch
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			api.Error(w, http.StatusBadRequest, "invalid_request", "Missing request body")
		} else {
			api.Error(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		}
		return
	}

	c, err := h.store.ClassByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			api.Error(w, http.StatusBadRequest, "invalid_request", "Class does not exist or you are not the owner")
			return
		}
		api.StorageError(w, err)
		return
	}

	if err := merge.Apply(userID, c.UserID, patchFields(c, &p)); err != nil {
		var fieldErr *merge.InvalidFieldError
		switch {
		case errors.Is(err, merge.ErrNotOwner):
			api.Error(w, http.StatusBadRequest, "invalid_request", "You are not the owner of this class")
		case errors.As(err, &fieldErr):
			api.Error(w, http.StatusBadRequest, "invalid_request", fieldErr.Reason)
		default:
			api.StorageError(w, err)
		}
		return
	}

	if err := h.store.UpdateClass(r.Context(), c); err != nil {
		api.StorageError(w, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Delete removes a class owned by the current user.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	c, err := h.store.ClassByID(r.Context(), id)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		api.StorageError(w, err)
		return
	}
	if err != nil || c.UserID != userID {
		api.Error(w, http.StatusBadRequest, "invalid_request", "Class does not exist or you are not the owner")
		return
	}

	if err := h.store.DeleteClass(r.Context(), id); err != nil {
		api.StorageError(w, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func requireWeight(w http.ResponseWriter, n *models.Numeric, name string) (float64, bool) {
	if n == nil {
		api.Error(w, http.StatusBadRequest, "invalid_request", "Missing "+name)
		return 0, false
	}
	v, err := n.Float()
	if err != nil {
		api.Error(w, http.StatusBadRequest, "invalid_request", "Invalid "+name)
		return 0, false
	}
	return v, true
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		api.Error(w, http.StatusBadRequest, "invalid_request", "Invalid id")
		return 0, false
	}
	return id, true
}
