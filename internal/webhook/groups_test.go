package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nickustinov/homebar/internal/action"
	"github.com/nickustinov/homebar/internal/group"
	"github.com/nickustinov/homebar/internal/home"
	"github.com/nickustinov/homebar/internal/infrastructure/config"
	"github.com/nickustinov/homebar/internal/infrastructure/database"
	_ "github.com/nickustinov/homebar/migrations"
)

type recordingExecutor struct {
	mu       sync.Mutex
	services []string
}

func (e *recordingExecutor) Execute(_ context.Context, svc home.Service, _ action.Request) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.services = append(e.services, svc.ID)
	return nil
}

func (e *recordingExecutor) ActivateScene(context.Context, home.Scene) error { return nil }

func newGroupRegistry(t *testing.T) *group.Registry {
	t.Helper()
	ctx := context.Background()
	db, err := database.Open(ctx, database.Config{
		Path:        filepath.Join(t.TempDir(), "groups.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate(ctx))

	reg := group.NewRegistry(group.NewSQLiteRepository(db.DB))
	require.NoError(t, reg.Refresh(ctx))
	return reg
}

func newGroupServer(t *testing.T, groups GroupStore, engine CommandExecutor, pro bool) *Server {
	t.Helper()
	cfg := config.Default().Webhook
	cfg.RateLimit.Enabled = false
	s, err := New(Deps{Config: cfg, Pro: pro, Logger: testLogger(), Engine: engine, Groups: groups})
	require.NoError(t, err)
	return s
}

func send(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(method, path, &buf))
	return rec
}

func decodeGroup(t *testing.T, rec *httptest.ResponseRecorder) group.Group {
	t.Helper()
	var g group.Group
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &g))
	return g
}

func TestGroups_CreatedGroupIsResolvable(t *testing.T) {
	store := home.NewStore()
	store.Publish(home.NewSnapshot(
		[]home.Room{{ID: "r-liv", Name: "Living Room"}},
		[]home.Service{
			{ID: "AAAA-0001", Name: "Floor Lamp", Type: home.ServiceTypeLightbulb},
			{ID: "AAAA-0002", Name: "Ceiling Light", Type: home.ServiceTypeLightbulb},
			{ID: "AAAA-0003", Name: "Hall Light", Type: home.ServiceTypeLightbulb},
		},
		nil,
	))
	groups := newGroupRegistry(t)
	exec := &recordingExecutor{}
	s := newGroupServer(t, groups, action.NewEngine(store, groups, exec), true)

	rec, body := do(t, s, "/on/group.Downstairs")
	require.Equal(t, http.StatusNotFound, rec.Code, body.Message)

	rec = send(t, s, http.MethodPost, "/groups", map[string]any{
		"name":       " Downstairs ",
		"device_ids": []string{"AAAA-0001", "AAAA-0002", "AAAA-0001"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeGroup(t, rec)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Downstairs", created.Name)

	rec, body = do(t, s, "/on/group.Downstairs")
	require.Equal(t, http.StatusOK, rec.Code, body.Message)
	assert.Equal(t, action.StatusSuccess, body.Status)
	assert.ElementsMatch(t, []string{"AAAA-0001", "AAAA-0002"}, exec.services)
}

func TestGroups_CRUD(t *testing.T) {
	groups := newGroupRegistry(t)
	s := newGroupServer(t, groups, &fakeEngine{}, true)

	rec := send(t, s, http.MethodPost, "/groups", map[string]any{"name": "Upstairs", "device_ids": []string{"a"}})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decodeGroup(t, rec).ID

	rec = send(t, s, http.MethodGet, "/groups", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Groups []group.Group `json:"groups"`
		Count  int           `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Count)
	assert.Equal(t, "Upstairs", list.Groups[0].Name)

	rec = send(t, s, http.MethodPatch, "/groups/"+id, map[string]any{"name": "First Floor", "room_id": "r-1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeGroup(t, rec)
	assert.Equal(t, "First Floor", updated.Name)
	require.NotNil(t, updated.RoomID)
	assert.Equal(t, "r-1", *updated.RoomID)
	assert.Equal(t, []string{"a"}, updated.DeviceIDs)

	rec = send(t, s, http.MethodPut, "/groups/"+id+"/members", map[string]any{"device_ids": []string{"b", "c"}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"b", "c"}, decodeGroup(t, rec).DeviceIDs)

	rec = send(t, s, http.MethodPatch, "/groups/"+id, map[string]any{"room_id": nil})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decodeGroup(t, rec).RoomID)

	rec = send(t, s, http.MethodGet, "/groups/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "First Floor", decodeGroup(t, rec).Name)

	rec = send(t, s, http.MethodDelete, "/groups/"+id, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = send(t, s, http.MethodGet, "/groups/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, groups.Groups())
}

func TestGroups_Errors(t *testing.T) {
	groups := newGroupRegistry(t)
	s := newGroupServer(t, groups, &fakeEngine{}, true)

	rec := send(t, s, http.MethodPost, "/groups", map[string]any{"id": "fixed", "name": "Porch"})
	require.Equal(t, http.StatusCreated, rec.Code)

	tests := []struct {
		name       string
		method     string
		path       string
		body       any
		wantStatus int
		wantMsg    string
	}{
		{"blank name", http.MethodPost, "/groups", map[string]any{"name": "  "}, http.StatusBadRequest, "Invalid: name is required"},
		{"duplicate id", http.MethodPost, "/groups", map[string]any{"id": "fixed", "name": "Other"}, http.StatusConflict, "Group already exists"},
		{"bad json", http.MethodPost, "/groups", "not an object", http.StatusBadRequest, "Invalid JSON"},
		{"get missing", http.MethodGet, "/groups/missing", nil, http.StatusNotFound, "Group not found"},
		{"patch missing", http.MethodPatch, "/groups/missing", map[string]any{"name": "X"}, http.StatusNotFound, "Group not found"},
		{"patch bad field", http.MethodPatch, "/groups/fixed", map[string]any{"device_ids": "a"}, http.StatusBadRequest, "Invalid device_ids"},
		{"delete missing", http.MethodDelete, "/groups/missing", nil, http.StatusNotFound, "Group not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := send(t, s, tt.method, tt.path, tt.body)
			require.Equal(t, tt.wantStatus, rec.Code)

			var body Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, action.StatusError, body.Status)
			assert.Equal(t, tt.wantMsg, body.Message)
		})
	}
}

func TestGroups_Gate(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		s := newGroupServer(t, nil, &fakeEngine{}, true)
		rec := send(t, s, http.MethodGet, "/groups", nil)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("not pro", func(t *testing.T) {
		groups := newGroupRegistry(t)
		s := newGroupServer(t, groups, &fakeEngine{}, false)
		rec := send(t, s, http.MethodPost, "/groups", map[string]any{"name": "Sneaky"})
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Empty(t, groups.Groups())
	})
}
