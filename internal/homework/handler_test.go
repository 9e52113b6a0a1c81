package homework

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/schoolplanner/backend/internal/middleware"
	"github.com/schoolplanner/backend/internal/models"
	"github.com/schoolplanner/backend/internal/store"
)

// --- fake store ---

type fakeStore struct {
	classes  map[int64]*models.Class
	homework map[int64]*models.Homework
	nextID   int64
	updates  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		classes:  make(map[int64]*models.Class),
		homework: make(map[int64]*models.Homework),
		nextID:   1,
	}
}

func (f *fakeStore) addClass(userID string) *models.Class {
	c := &models.Class{ID: f.nextID, UserID: userID, Name: "Math", Color: "FF0000"}
	f.classes[c.ID] = c
	f.nextID++
	return c
}

func (f *fakeStore) addHomework(userID string, classID int64) *models.Homework {
	h := &models.Homework{
		EntryID: f.nextID, UserID: userID, ClassID: classID,
		Deadline: "2024-06-01", Given: time.Now().UTC(),
		Text: "Exercises 1-10", Type: "b",
	}
	f.homework[h.EntryID] = h
	f.nextID++
	return h
}

func (f *fakeStore) ListHomework(_ context.Context, userID string) ([]models.Homework, error) {
	var out []models.Homework
	for _, h := range f.homework {
		if h.UserID == userID {
			out = append(out, *h)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateHomework(_ context.Context, h *models.Homework) (int64, error) {
	h.EntryID = f.nextID
	h.Given = time.Now().UTC()
	f.nextID++
	cp := *h
	f.homework[h.EntryID] = &cp
	return h.EntryID, nil
}

func (f *fakeStore) HomeworkByID(_ context.Context, entryID int64) (*models.Homework, error) {
	h, ok := f.homework[entryID]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *h
	return &cp, nil
}

func (f *fakeStore) UpdateHomework(_ context.Context, h *models.Homework) error {
	f.updates++
	cp := *h
	f.homework[h.EntryID] = &cp
	return nil
}

func (f *fakeStore) DeleteHomework(_ context.Context, entryID int64) error {
	delete(f.homework, entryID)
	return nil
}

func (f *fakeStore) ClassByID(_ context.Context, id int64) (*models.Class, error) {
	c, ok := f.classes[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

// --- helpers ---

func newRouter(h *Handler, userID string) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithUserID(req.Context(), userID)))
		})
	})
	r.Get("/homework", h.List)
	r.Post("/homework", h.Create)
	r.Patch("/homework/{id}", h.Patch)
	r.Delete("/homework/{id}", h.Delete)
	return r
}

func doJSON(t *testing.T, router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func errDescription(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error_description"]
}

// --- tests ---

func TestCreate(t *testing.T) {
	fs := newFakeStore()
	c := fs.addClass("u1")
	router := newRouter(NewHandler(fs), "u1")

	body := fmt.Sprintf(`{"class":%d,"deadline":"2024-06-15","text":"Read chapter 4","type":"v"}`, c.ID)
	rec := doJSON(t, router, http.MethodPost, "/homework", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool  `json:"success"`
		ID      int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)

	created := fs.homework[resp.ID]
	require.Equal(t, "u1", created.UserID)
	require.Equal(t, "2024-06-15", created.Deadline)
	require.Nil(t, created.Status, "status stays unset unless supplied")
	require.False(t, created.Given.IsZero())
}

func TestCreateWithStatus(t *testing.T) {
	fs := newFakeStore()
	c := fs.addClass("u1")
	router := newRouter(NewHandler(fs), "u1")

	body := fmt.Sprintf(`{"class":%d,"deadline":"2024-06-15","text":"Vocab","type":"w","status":1}`, c.ID)
	rec := doJSON(t, router, http.MethodPost, "/homework", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, fs.homework[resp.ID].Status)
	require.Equal(t, "1", *fs.homework[resp.ID].Status)
}

func TestCreateValidations(t *testing.T) {
	fs := newFakeStore()
	own := fs.addClass("u1")
	other := fs.addClass("u2")
	router := newRouter(NewHandler(fs), "u1")

	tests := []struct {
		name string
		body string
		desc string
	}{
		{"missing class", `{"deadline":"2024-06-15","text":"x","type":"b"}`, "Missing class"},
		{"foreign class", fmt.Sprintf(`{"class":%d,"deadline":"2024-06-15","text":"x","type":"b"}`, other.ID), "Class does not exist or you are not the owner"},
		{"bad deadline format", fmt.Sprintf(`{"class":%d,"deadline":"15.06.2024","text":"x","type":"b"}`, own.ID), "Invalid deadline"},
		{"impossible date", fmt.Sprintf(`{"class":%d,"deadline":"2024-13-01","text":"x","type":"b"}`, own.ID), "Invalid deadline"},
		{"long text", fmt.Sprintf(`{"class":%d,"deadline":"2024-06-15","text":"%s","type":"b"}`, own.ID, strings.Repeat("x", 76)), "Text is too long"},
		{"bad type", fmt.Sprintf(`{"class":%d,"deadline":"2024-06-15","text":"x","type":"z"}`, own.ID), "Invalid type"},
		{"bad status", fmt.Sprintf(`{"class":%d,"deadline":"2024-06-15","text":"x","type":"b","status":3}`, own.ID), "Invalid status"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodPost, "/homework", tc.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.Equal(t, tc.desc, errDescription(t, rec))
			require.Empty(t, fs.homework)
		})
	}
}

func TestPatchRejectsImpossibleDate(t *testing.T) {
	fs := newFakeStore()
	c := fs.addClass("u1")
	hw := fs.addHomework("u1", c.ID)
	before := *fs.homework[hw.EntryID]
	router := newRouter(NewHandler(fs), "u1")

	rec := doJSON(t, router, http.MethodPatch, fmt.Sprintf("/homework/%d", hw.EntryID), `{"deadline":"2024-13-01"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Invalid deadline", errDescription(t, rec))
	require.Equal(t, before, *fs.homework[hw.EntryID])
	require.Zero(t, fs.updates)
}

func TestPatchDeadline(t *testing.T) {
	fs := newFakeStore()
	c := fs.addClass("u1")
	hw := fs.addHomework("u1", c.ID)
	router := newRouter(NewHandler(fs), "u1")

	rec := doJSON(t, router, http.MethodPatch, fmt.Sprintf("/homework/%d", hw.EntryID), `{"deadline":"2024-07-01"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	got := fs.homework[hw.EntryID]
	require.Equal(t, "2024-07-01", got.Deadline)
	require.Equal(t, "Exercises 1-10", got.Text, "unspecified fields keep their values")
}

func TestPatchClassReference(t *testing.T) {
	fs := newFakeStore()
	own := fs.addClass("u1")
	second := fs.addClass("u1")
	foreign := fs.addClass("u2")
	hw := fs.addHomework("u1", own.ID)
	router := newRouter(NewHandler(fs), "u1")

	rec := doJSON(t, router, http.MethodPatch, fmt.Sprintf("/homework/%d", hw.EntryID),
		fmt.Sprintf(`{"class":%d}`, foreign.ID))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Class does not exist or you are not the owner", errDescription(t, rec))
	require.Equal(t, own.ID, fs.homework[hw.EntryID].ClassID)

	rec = doJSON(t, router, http.MethodPatch, fmt.Sprintf("/homework/%d", hw.EntryID),
		fmt.Sprintf(`{"class":%d}`, second.ID))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, second.ID, fs.homework[hw.EntryID].ClassID)
}

func TestPatchStatus(t *testing.T) {
	fs := newFakeStore()
	c := fs.addClass("u1")
	hw := fs.addHomework("u1", c.ID)
	router := newRouter(NewHandler(fs), "u1")

	rec := doJSON(t, router, http.MethodPatch, fmt.Sprintf("/homework/%d", hw.EntryID), `{"status":"3"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Invalid status", errDescription(t, rec))

	rec = doJSON(t, router, http.MethodPatch, fmt.Sprintf("/homework/%d", hw.EntryID), `{"status":2}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, fs.homework[hw.EntryID].Status)
	require.Equal(t, "2", *fs.homework[hw.EntryID].Status)
}

func TestTextLengthCountsRunes(t *testing.T) {
	fs := newFakeStore()
	c := fs.addClass("u1")
	hw := fs.addHomework("u1", c.ID)
	router := newRouter(NewHandler(fs), "u1")

	// 75 multibyte characters fit the limit even though they are 150 bytes.
	text := strings.Repeat("ü", 75)
	rec := doJSON(t, router, http.MethodPatch, fmt.Sprintf("/homework/%d", hw.EntryID), `{"text":"`+text+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, text, fs.homework[hw.EntryID].Text)

	rec = doJSON(t, router, http.MethodPatch, fmt.Sprintf("/homework/%d", hw.EntryID), `{"text":"`+strings.Repeat("ü", 76)+`"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Text is too long", errDescription(t, rec))

	rec = doJSON(t, router, http.MethodPost, "/homework",
		fmt.Sprintf(`{"class":%d,"deadline":"2024-06-15","text":"%s","type":"b"}`, c.ID, text))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestPatchNotOwner(t *testing.T) {
	fs := newFakeStore()
	c := fs.addClass("u1")
	hw := fs.addHomework("u1", c.ID)
	router := newRouter(NewHandler(fs), "u2")

	rec := doJSON(t, router, http.MethodPatch, fmt.Sprintf("/homework/%d", hw.EntryID), `{"text":"hijack"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "You are not the owner of this homework", errDescription(t, rec))
	require.Equal(t, "Exercises 1-10", fs.homework[hw.EntryID].Text)
}

func TestDelete(t *testing.T) {
	fs := newFakeStore()
	c := fs.addClass("u1")
	hw := fs.addHomework("u1", c.ID)
	router := newRouter(NewHandler(fs), "u1")

	rec := doJSON(t, router, http.MethodDelete, fmt.Sprintf("/homework/%d", hw.EntryID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, fs.homework)
}

func TestDeleteNotOwner(t *testing.T) {
	fs := newFakeStore()
	c := fs.addClass("u1")
	hw := fs.addHomework("u1", c.ID)
	router := newRouter(NewHandler(fs), "u2")

	rec := doJSON(t, router, http.MethodDelete, fmt.Sprintf("/homework/%d", hw.EntryID), "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Len(t, fs.homework, 1)
}

func TestListScopedToUser(t *testing.T) {
	fs := newFakeStore()
	c1 := fs.addClass("u1")
	c2 := fs.addClass("u2")
	fs.addHomework("u1", c1.ID)
	fs.addHomework("u2", c2.ID)
	router := newRouter(NewHandler(fs), "u1")

	rec := doJSON(t, router, http.MethodGet, "/homework", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var list []models.Homework
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	require.Equal(t, "u1", list[0].UserID)
}
