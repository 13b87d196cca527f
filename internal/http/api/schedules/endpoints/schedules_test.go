package endpoints

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/sushant-kumar17/yt-streamer/internal/auth"
	"github.com/sushant-kumar17/yt-streamer/internal/db"
	"github.com/sushant-kumar17/yt-streamer/internal/http/api"
	"github.com/sushant-kumar17/yt-streamer/internal/model"
	"github.com/sushant-kumar17/yt-streamer/internal/stream"
)

const testSecret = "supersecret"

func setupRouter(t *testing.T, rebookCancelled bool) (*gin.Engine, db.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	testDB, err := db.InitTestDB("../../../../../migrations")
	if err != nil {
		t.Fatalf("test db setup failed: %v", err)
	}
	t.Cleanup(func() { testDB.Close() })
	store := db.NewStore(testDB, rebookCancelled)

	r := gin.New()
	api.MountGroup(r, api.GroupConfig{}, QueryModule(store, nil))
	api.MountGroup(r, api.GroupConfig{
		Auth:     true,
		Verifier: auth.NewJWTVerifier(testSecret),
	}, ControlModule(store, nil, nil))

	return r, store
}

func bearerToken(t *testing.T) string {
	t.Helper()
	token, err := auth.GenerateToken("user-1", "scheduler@example.com", testSecret)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	return token
}

func doJSON(r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createBody(date string, slot model.Slot) map[string]any {
	return map[string]any{
		"date":      date,
		"slot":      slot,
		"video_url": "https://x/a.mp4",
		"title":     "Yoga",
	}
}

func TestListSchedulesIsPublic(t *testing.T) {
	r, _ := setupRouter(t, false)

	w := doJSON(r, http.MethodGet, "/schedules", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []model.Schedule `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Data)
}

func TestMutationsRequireToken(t *testing.T) {
	r, _ := setupRouter(t, false)

	w := doJSON(r, http.MethodPost, "/schedule", "", createBody("2025-10-21", model.SlotMorning))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, http.MethodPost, "/schedule", "garbage-token", createBody("2025-10-21", model.SlotMorning))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, http.MethodDelete, "/schedule/some-id", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateScheduleValidation(t *testing.T) {
	r, _ := setupRouter(t, false)
	token := bearerToken(t)

	// missing required fields
	w := doJSON(r, http.MethodPost, "/schedule", token, map[string]any{"date": "2025-10-21"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// slot outside the enumeration
	body := createBody("2025-10-21", "noon")
	w = doJSON(r, http.MethodPost, "/schedule", token, body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// date that is not a calendar date
	body = createBody("2025-13-40", model.SlotMorning)
	w = doJSON(r, http.MethodPost, "/schedule", token, body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScheduleLifecycleEndToEnd(t *testing.T) {
	r, store := setupRouter(t, false)
	token := bearerToken(t)

	// create
	w := doJSON(r, http.MethodPost, "/schedule", token, createBody("2025-10-21", model.SlotMorning))
	assert.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Message string         `json:"message"`
		Data    model.Schedule `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, model.StatusScheduled, created.Data.Status)
	assert.NotNil(t, created.Data.CreatedBy)
	assert.Equal(t, "scheduler@example.com", *created.Data.CreatedBy)

	// identical create collides
	w = doJSON(r, http.MethodPost, "/schedule", token, createBody("2025-10-21", model.SlotMorning))
	assert.Equal(t, http.StatusConflict, w.Code)

	// cancel via PUT status, equivalent to DELETE
	w = doJSON(r, http.MethodPut, "/schedule/"+created.Data.ID, token, map[string]any{"status": "cancelled"})
	assert.Equal(t, http.StatusOK, w.Code)

	var updated struct {
		Data model.Schedule `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, model.StatusCancelled, updated.Data.Status)

	// the due-item lookup still resolves the cancelled record
	rec, err := stream.FindDue(store, model.SlotMorning, "2025-10-21")
	assert.NoError(t, err)
	assert.NotNil(t, rec)
	assert.Equal(t, created.Data.ID, rec.ID)
	assert.Equal(t, model.StatusCancelled, rec.Status)
}

func TestUpdateSchedule(t *testing.T) {
	r, _ := setupRouter(t, false)
	token := bearerToken(t)

	w := doJSON(r, http.MethodPost, "/schedule", token, createBody("2025-10-21", model.SlotMorning))
	assert.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Data model.Schedule `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	// partial update touches only the supplied fields
	w = doJSON(r, http.MethodPut, "/schedule/"+created.Data.ID, token, map[string]any{
		"title":   "Evening Yoga",
		"privacy": "unlisted",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var updated struct {
		Data model.Schedule `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "Evening Yoga", updated.Data.Title)
	assert.Equal(t, model.PrivacyUnlisted, updated.Data.Privacy)
	assert.Equal(t, "https://x/a.mp4", updated.Data.VideoURL)

	// unknown id
	w = doJSON(r, http.MethodPut, "/schedule/no-such-id", token, map[string]any{"title": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateScheduleIllegalTransition(t *testing.T) {
	r, _ := setupRouter(t, false)
	token := bearerToken(t)

	w := doJSON(r, http.MethodPost, "/schedule", token, createBody("2025-10-21", model.SlotMorning))
	assert.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Data model.Schedule `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	// scheduled cannot jump straight to streamed
	w = doJSON(r, http.MethodPut, "/schedule/"+created.Data.ID, token, map[string]any{"status": "streamed"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// and an invented status never parses
	w = doJSON(r, http.MethodPut, "/schedule/"+created.Data.ID, token, map[string]any{"status": "paused"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCancelScheduleIdempotent(t *testing.T) {
	r, _ := setupRouter(t, false)
	token := bearerToken(t)

	w := doJSON(r, http.MethodPost, "/schedule", token, createBody("2025-10-21", model.SlotMorning))
	assert.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Data model.Schedule `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(r, http.MethodDelete, "/schedule/"+created.Data.ID, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// cancelling again succeeds, id unchanged
	w = doJSON(r, http.MethodDelete, "/schedule/"+created.Data.ID, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var again struct {
		Data model.Schedule `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &again))
	assert.Equal(t, created.Data.ID, again.Data.ID)
	assert.Equal(t, model.StatusCancelled, again.Data.Status)

	// unknown id is the only 404
	w = doJSON(r, http.MethodDelete, "/schedule/no-such-id", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListSchedulesOrderingAndRange(t *testing.T) {
	r, _ := setupRouter(t, false)
	token := bearerToken(t)

	for _, b := range []map[string]any{
		createBody("2025-10-22", model.SlotMorning),
		createBody("2025-10-21", model.SlotEvening),
		createBody("2025-10-21", model.SlotMorning),
	} {
		w := doJSON(r, http.MethodPost, "/schedule", token, b)
		assert.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(r, http.MethodGet, "/schedules", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data []model.Schedule `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 3)
	assert.Equal(t, model.SlotMorning, resp.Data[0].Slot)
	assert.Equal(t, model.SlotEvening, resp.Data[1].Slot)
	assert.Equal(t, "2025-10-22", resp.Data[2].Date)

	// inclusive range filter
	w = doJSON(r, http.MethodGet, "/schedules?from_date=2025-10-22&to_date=2025-10-22", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	resp.Data = nil
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 1)

	// malformed bound
	w = doJSON(r, http.MethodGet, "/schedules?from_date=yesterday", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBulkCreate(t *testing.T) {
	r, _ := setupRouter(t, false)
	token := bearerToken(t)

	w := doJSON(r, http.MethodPost, "/schedule/bulk", token, map[string]any{
		"schedules": []map[string]any{
			createBody("2025-10-20", model.SlotMorning),
			createBody("2025-10-20", model.SlotEvening),
		},
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Message string           `json:"message"`
		Data    []model.Schedule `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "2 schedules created successfully", resp.Message)
	assert.Len(t, resp.Data, 2)
}

func TestBulkCreateEmptyArray(t *testing.T) {
	r, _ := setupRouter(t, false)
	token := bearerToken(t)

	w := doJSON(r, http.MethodPost, "/schedule/bulk", token, map[string]any{"schedules": []map[string]any{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/schedule/bulk", token, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBulkCreateConflictIsAtomic(t *testing.T) {
	r, _ := setupRouter(t, false)
	token := bearerToken(t)

	w := doJSON(r, http.MethodPost, "/schedule", token, createBody("2025-10-21", model.SlotMorning))
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodPost, "/schedule/bulk", token, map[string]any{
		"schedules": []map[string]any{
			createBody("2025-10-22", model.SlotMorning),
			createBody("2025-10-21", model.SlotMorning),
		},
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// nothing from the failed batch may be visible
	w = doJSON(r, http.MethodGet, "/schedules", "", nil)
	var resp struct {
		Data []model.Schedule `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 1)
}
