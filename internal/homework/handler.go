// Package homework implements the CRUD endpoints for homework entries.
package homework

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"github.com/schoolplanner/backend/internal/api"
	"github.com/schoolplanner/backend/internal/merge"
	"github.com/schoolplanner/backend/internal/middleware"
	"github.com/schoolplanner/backend/internal/models"
	"github.com/schoolplanner/backend/internal/store"
)

var deadlineRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Store defines the persistence the homework handlers need. ClassByID is
// used to check that a referenced class belongs to the same user.
type Store interface {
	ListHomework(ctx context.Context, userID string) ([]models.Homework, error)
	CreateHomework(ctx context.Context, h *models.Homework) (int64, error)
	HomeworkByID(ctx context.Context, entryID int64) (*models.Homework, error)
	UpdateHomework(ctx context.Context, h *models.Homework) error
	DeleteHomework(ctx context.Context, entryID int64) error
	ClassByID(ctx context.Context, id int64) (*models.Class, error)
}

// Handler holds the homework HTTP handlers.
type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// List returns all homework of the current user.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	hws, err := h.store.ListHomework(r.Context(), userID)
	if err != nil {
		api.StorageError(w, err)
		return
	}
	if hws == nil {
		hws = []models.Homework{}
	}
	api.JSON(w, http.StatusOK, hws)
}

// Create inserts a new homework entry. The given timestamp is set
// server-side; status starts unset unless supplied.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	var req models.HomeworkCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			api.Error(w, http.StatusBadRequest, "invalid_request", "Missing request body")
		} else {
			api.Error(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		}
		return
	}

	if req.ClassID == nil {
		api.Error(w, http.StatusBadRequest, "invalid_request", "Missing class")
		return
	}
	owned, err := h.classOwned(r.Context(), *req.ClassID, userID)
	if err != nil {
		api.StorageError(w, err)
		return
	}
	if !owned {
		api.Error(w, http.StatusBadRequest, "invalid_request", "Class does not exist or you are not the owner")
		return
	}
	if req.Deadline == "" {
		api.Error(w, http.StatusBadRequest, "invalid_request", "Missing deadline")
		return
	}
	if !validDeadline(req.Deadline) {
		api.Error(w, http.StatusBadRequest, "invalid_request", "Invalid deadline")
		return
	}
	if req.Text == "" {
		api.Error(w, http.StatusBadRequest, "invalid_request", "Missing text")
		return
	}
	if utf8.RuneCountInString(req.Text) > 75 {
		api.Error(w, http.StatusBadRequest, "invalid_request", "Text is too long")
		return
	}
	if req.Type == "" {
		api.Error(w, http.StatusBadRequest, "invalid_request", "Missing type")
		return
	}
	if !validType(req.Type) {
		api.Error(w, http.StatusBadRequest, "invalid_request", "Invalid type")
		return
	}

	hw := &models.Homework{
		UserID:   userID,
		ClassID:  *req.ClassID,
		Deadline: req.Deadline,
		Text:     req.Text,
		Type:     req.Type,
	}
	if req.Status != nil {
		if !validStatus(req.Status.String()) {
			api.Error(w, http.StatusBadRequest, "invalid_request", "Invalid status")
			return
		}
		s := req.Status.String()
		hw.Status = &s
	}

	id, err := h.store.CreateHomework(r.Context(), hw)
	if err != nil {
		api.StorageError(w, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]interface{}{"success": true, "id": id})
}

// Patch applies a sparse update with the same all-or-nothing contract as
// class updates.
func (h *Handler) Patch(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var p models.HomeworkPatch
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			api.Error(w, http.StatusBadRequest, "invalid_request", "Missing request body")
		} else {
			api.Error(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		}
		return
	}

	hw, err := h.store.HomeworkByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			api.Error(w, http.StatusBadRequest, "invalid_request", "Homework does not exist or you are not the owner")
			return
		}
		api.StorageError(w, err)
		return
	}

	// The class reference needs a lookup; resolve it before the merge so
	// the validation pass itself stays free of I/O.
	classOK := false
	if p.ClassID != nil {
		classOK, err = h.classOwned(r.Context(), *p.ClassID, userID)
		if err != nil {
			api.StorageError(w, err)
			return
		}
	}

	if err := merge.Apply(userID, hw.UserID, patchFields(hw, &p, classOK)); err != nil {
		var fieldErr *merge.InvalidFieldError
		switch {
		case errors.Is(err, merge.ErrNotOwner):
			api.Error(w, http.StatusBadRequest, "invalid_request", "You are not the owner of this homework")
		case errors.As(err, &fieldErr):
			api.Error(w, http.StatusBadRequest, "invalid_request", fieldErr.Reason)
		default:
			api.StorageError(w, err)
		}
		return
	}

	if err := h.store.UpdateHomework(r.Context(), hw); err != nil {
		api.StorageError(w, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Delete removes a homework entry owned by the current user.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	hw, err := h.store.HomeworkByID(r.Context(), id)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		api.StorageError(w, err)
		return
	}
	if err != nil || hw.UserID != userID {
		api.Error(w, http.StatusBadRequest, "invalid_request", "Homework does not exist or you are not the owner")
		return
	}

	if err := h.store.DeleteHomework(r.Context(), id); err != nil {
		api.StorageError(w, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) classOwned(ctx context.Context, classID int64, userID string) (bool, error) {
	c, err := h.store.ClassByID(ctx, classID)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return c.UserID == userID, nil
}

func validDeadline(s string) bool {
	if !deadlineRe.MatchString(s) {
		return false
	}
	// Catches impossible dates like 2024-13-01.
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

func validType(s string) bool {
	switch s {
	case "b", "v", "w", "o":
		return true
	}
	return false
}

func validStatus(s string) bool {
	switch s {
	case "0", "1", "2":
		return true
	}
	return false
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		api.Error(w, http.StatusBadRequest, "invalid_request", "Invalid id")
		return 0, false
	}
	return id, true
}
