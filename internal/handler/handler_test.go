package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/buildledger/construct-api/internal/handler"
	"github.com/buildledger/construct-api/internal/middleware"
	"github.com/buildledger/construct-api/internal/model"
	"github.com/buildledger/construct-api/pkg/config"
	"github.com/buildledger/construct-api/pkg/database"
	"github.com/buildledger/construct-api/pkg/jwtutil"
	"github.com/buildledger/construct-api/prometheus"
	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	prometheus.InitMetrics("construct_api_test")
	os.Exit(m.Run())
}

type testServer struct {
	echo *echo.Echo
	db   *database.Handle
	jwt  *jwtutil.JWTUtil
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, gormDB.AutoMigrate(model.AllModels()...))

	db := database.FromGorm(gormDB)
	jwt := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{SigningKey: "test-signing-key", ExpirationHours: 1})

	e := echo.New()
	e.Use(middleware.RequestIDMiddleware())
	auth := middleware.AuthMiddleware(jwt, &config.AuthConfig{})
	handler.RegisterRoutes(e, db, true, auth)

	return &testServer{echo: e, db: db, jwt: jwt}
}

func (s *testServer) token(t *testing.T, tenantID uint) string {
	t.Helper()
	token, err := s.jwt.GenerateToken(fmt.Sprintf("user-%d@example.com", tenantID), tenantID)
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Errors     json.RawMessage `json:"errors"`
	Pagination *struct {
		Page        int   `json:"page"`
		Limit       int   `json:"limit"`
		Total       int64 `json:"total"`
		TotalPages  int   `json:"totalPages"`
		HasNextPage bool  `json:"hasNextPage"`
		HasPrevPage bool  `json:"hasPrevPage"`
	} `json:"pagination"`
	Timestamp string `json:"timestamp"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func dataMap(t *testing.T, env envelope) map[string]interface{} {
	t.Helper()
	doc := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(env.Data, &doc))
	return doc
}

func dataSlice(t *testing.T, env envelope) []map[string]interface{} {
	t.Helper()
	rows := []map[string]interface{}{}
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	return rows
}

func TestMissingCredentialIsRejected(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/clients", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestClientLifecycleAcrossTenants(t *testing.T) {
	s := newTestServer(t)
	tenant7 := s.token(t, 7)
	tenant9 := s.token(t, 9)

	rec := s.do(t, http.MethodPost, "/clients", tenant7, map[string]interface{}{
		"name":          "Acme",
		"email_address": "a@acme.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := dataMap(t, decodeEnvelope(t, rec))
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)
	assert.Len(t, id, 36)

	// Owner tenant reads it back
	rec = s.do(t, http.MethodGet, "/clients/"+id, tenant7, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	fetched := dataMap(t, decodeEnvelope(t, rec))
	assert.Equal(t, "Acme", fetched["name"])
	assert.Equal(t, "a@acme.com", fetched["email_address"])

	// Another tenant sees nothing, on every verb
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/clients/"+id, tenant9, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPut, "/clients/"+id, tenant9, map[string]interface{}{"name": "Hijack"}).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, "/clients/"+id, tenant9, nil).Code)

	rec = s.do(t, http.MethodGet, "/clients", tenant9, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Empty(t, dataSlice(t, env))
	assert.Equal(t, int64(0), env.Pagination.Total)
}

func TestPartialUpdateIsPresenceBasedAndIdempotent(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, 7)

	rec := s.do(t, http.MethodPost, "/clients", token, map[string]interface{}{
		"name":  "Acme",
		"notes": "original notes",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := dataMap(t, decodeEnvelope(t, rec))["id"].(string)

	body := map[string]interface{}{"name": "Acme Renamed"}

	rec = s.do(t, http.MethodPut, "/clients/"+id, token, body)
	require.Equal(t, http.StatusOK, rec.Code)
	first := dataMap(t, decodeEnvelope(t, rec))
	assert.Equal(t, "Acme Renamed", first["name"])
	// Fields absent from the payload stay untouched
	assert.Equal(t, "original notes", first["notes"])

	rec = s.do(t, http.MethodPut, "/clients/"+id, token, body)
	require.Equal(t, http.StatusOK, rec.Code)
	second := dataMap(t, decodeEnvelope(t, rec))
	assert.Equal(t, first["name"], second["name"])
	assert.Equal(t, first["notes"], second["notes"])

	// Explicit null clears the field
	rec = s.do(t, http.MethodPut, "/clients/"+id, token, map[string]interface{}{"notes": nil})
	require.Equal(t, http.StatusOK, rec.Code)
	cleared := dataMap(t, decodeEnvelope(t, rec))
	assert.Empty(t, cleared["notes"])

	// Immutable-only payload has nothing to update
	rec = s.do(t, http.MethodPut, "/clients/"+id, token, map[string]interface{}{"created_by": "attacker"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// Single reads must render the same value types as listings; a sqlite
// boolean must come back as a JSON bool, not 0/1.
func TestSingleReadMatchesListRepresentation(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, 7)

	rec := s.do(t, http.MethodPost, "/clients", token, map[string]interface{}{"name": "Acme"})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := dataMap(t, decodeEnvelope(t, rec))["id"].(string)

	rec = s.do(t, http.MethodGet, "/clients/"+id, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	single := dataMap(t, decodeEnvelope(t, rec))

	rec = s.do(t, http.MethodGet, "/clients", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	listed := dataSlice(t, decodeEnvelope(t, rec))
	require.Len(t, listed, 1)

	assert.Equal(t, listed[0], single)
	assert.Equal(t, false, single["is_deleted"])
	assert.Equal(t, uint(7), uint(single["tenant_id"].(float64)))

	// The update response keeps the typed representation too
	rec = s.do(t, http.MethodPut, "/clients/"+id, token, map[string]interface{}{"phone": "555-0100"})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := dataMap(t, decodeEnvelope(t, rec))
	assert.Equal(t, false, updated["is_deleted"])
}

func TestValidationFailuresNameFields(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, 7)

	rec := s.do(t, http.MethodPost, "/clients", token, map[string]interface{}{"notes": "no name"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.False(t, env.Success)
	assert.Contains(t, string(env.Errors), "name")
}

func TestSoftDeleteKeepsRow(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, 7)

	rec := s.do(t, http.MethodPost, "/clients", token, map[string]interface{}{"name": "Acme"})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := dataMap(t, decodeEnvelope(t, rec))["id"].(string)

	require.Equal(t, http.StatusOK, s.do(t, http.MethodDelete, "/clients/"+id, token, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/clients/"+id, token, nil).Code)

	// The row survives with its flag flipped
	var stored model.Client
	require.NoError(t, s.db.DB().Where("id = ?", id).Take(&stored).Error)
	assert.True(t, stored.IsDeleted)
}

func TestHardDeleteRemovesProposalRow(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, 7)

	rec := s.do(t, http.MethodPost, "/clients", token, map[string]interface{}{"name": "Acme"})
	clientID := dataMap(t, decodeEnvelope(t, rec))["id"].(string)

	rec = s.do(t, http.MethodPost, "/proposals", token, map[string]interface{}{
		"client_id": clientID,
		"title":     "Deck build",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	proposalID := dataMap(t, decodeEnvelope(t, rec))["id"].(string)

	require.Equal(t, http.StatusOK, s.do(t, http.MethodDelete, "/proposals/"+proposalID, token, nil).Code)

	var count int64
	require.NoError(t, s.db.DB().Model(&model.Proposal{}).Where("id = ?", proposalID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestInvalidReferencePerformsNoInsert(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, 7)

	rec := s.do(t, http.MethodPost, "/proposals", token, map[string]interface{}{
		"client_id": "00000000-0000-0000-0000-000000000000",
		"title":     "Orphan proposal",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Contains(t, string(env.Errors), "client_id")

	rec = s.do(t, http.MethodGet, "/proposals", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(0), decodeEnvelope(t, rec).Pagination.Total)
}

func TestPaginationEnvelope(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, 7)

	for i := 0; i < 5; i++ {
		rec := s.do(t, http.MethodPost, "/clients", token, map[string]interface{}{
			"name": fmt.Sprintf("Client %d", i),
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := s.do(t, http.MethodGet, "/clients?page=1&limit=2", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, 1, env.Pagination.Page)
	assert.Equal(t, 2, env.Pagination.Limit)
	assert.Equal(t, int64(5), env.Pagination.Total)
	assert.Equal(t, 3, env.Pagination.TotalPages)
	assert.True(t, env.Pagination.HasNextPage)
	assert.False(t, env.Pagination.HasPrevPage)
	assert.Len(t, dataSlice(t, env), 2)

	// Past the last page: empty data, no error
	rec = s.do(t, http.MethodGet, "/clients?page=9&limit=2", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	env = decodeEnvelope(t, rec)
	assert.Empty(t, dataSlice(t, env))
	assert.Equal(t, int64(5), env.Pagination.Total)
	assert.False(t, env.Pagination.HasNextPage)
}

// setupSchedule creates the client + project schedule fixtures action
// items hang off of.
func setupSchedule(t *testing.T, s *testServer, token string) string {
	t.Helper()

	rec := s.do(t, http.MethodPost, "/clients", token, map[string]interface{}{"name": "Acme"})
	require.Equal(t, http.StatusCreated, rec.Code)
	clientID := dataMap(t, decodeEnvelope(t, rec))["id"].(string)

	rec = s.do(t, http.MethodPost, "/schedules", token, map[string]interface{}{
		"client_id":    clientID,
		"project_name": "Main St build",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	return dataMap(t, decodeEnvelope(t, rec))["id"].(string)
}

func TestActionItemCompositeCreateCostChange(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, 7)
	scheduleID := setupSchedule(t, s, token)

	rec := s.do(t, http.MethodPost, "/contacts", token, map[string]interface{}{
		"first_name": "Pat",
		"last_name":  "Mason",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	contactID := dataMap(t, decodeEnvelope(t, rec))["id"].(string)

	rec = s.do(t, http.MethodPost, "/action-items", token, map[string]interface{}{
		"project_schedule_id": scheduleID,
		"action_type_id":      1,
		"title":               "Concrete overage",
		"cost_change": map[string]interface{}{
			"original_amount": 1000,
			"revised_amount":  1500,
			"reason":          "price increase",
		},
		"supervisor_contact_ids": []string{contactID},
		"comment":                "raised on site walk",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	doc := dataMap(t, decodeEnvelope(t, rec))

	require.NotNil(t, doc["cost_change"])
	assert.Nil(t, doc["schedule_change"])

	comments := doc["comments"].([]interface{})
	require.Len(t, comments, 1)
	supervisors := doc["supervisors"].([]interface{})
	require.Len(t, supervisors, 1)

	// The response matches a subsequent read
	id := doc["id"].(string)
	rec = s.do(t, http.MethodGet, "/action-items/"+id, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	reread := dataMap(t, decodeEnvelope(t, rec))
	assert.NotNil(t, reread["cost_change"])
	assert.Nil(t, reread["schedule_change"])
}

func TestActionItemCompositeCreateScheduleChange(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, 7)
	scheduleID := setupSchedule(t, s, token)

	rec := s.do(t, http.MethodPost, "/action-items", token, map[string]interface{}{
		"project_schedule_id": scheduleID,
		"action_type_id":      2,
		"title":               "Framing delayed",
		"schedule_change": map[string]interface{}{
			"days_delta": 10,
			"reason":     "weather",
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	doc := dataMap(t, decodeEnvelope(t, rec))

	require.NotNil(t, doc["schedule_change"])
	assert.Nil(t, doc["cost_change"])
	assert.Equal(t, []interface{}{}, doc["comments"])
}

func TestUpdateCommentScopedToParent(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, 7)
	scheduleID := setupSchedule(t, s, token)

	rec := s.do(t, http.MethodPost, "/action-items", token, map[string]interface{}{
		"project_schedule_id": scheduleID,
		"action_type_id":      1,
		"title":               "Change order",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	itemID := dataMap(t, decodeEnvelope(t, rec))["id"].(string)

	rec = s.do(t, http.MethodPost, "/action-items/"+itemID+"/comments", token, map[string]interface{}{
		"body": "first draft",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	commentID := dataMap(t, decodeEnvelope(t, rec))["id"].(string)

	rec = s.do(t, http.MethodPut, "/action-items/"+itemID+"/comments/"+commentID, token, map[string]interface{}{
		"body": "revised wording",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := dataMap(t, decodeEnvelope(t, rec))
	assert.Equal(t, "revised wording", updated["body"])

	// A comment id under a different action item reads as not found
	rec = s.do(t, http.MethodPost, "/action-items", token, map[string]interface{}{
		"project_schedule_id": scheduleID,
		"action_type_id":      2,
		"title":               "Other item",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	otherID := dataMap(t, decodeEnvelope(t, rec))["id"].(string)

	rec = s.do(t, http.MethodPut, "/action-items/"+otherID+"/comments/"+commentID, token, map[string]interface{}{
		"body": "hijack",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDuplicateSupervisorAssignmentConflicts(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, 7)
	scheduleID := setupSchedule(t, s, token)

	rec := s.do(t, http.MethodPost, "/contacts", token, map[string]interface{}{
		"first_name": "Pat",
		"last_name":  "Mason",
	})
	contactID := dataMap(t, decodeEnvelope(t, rec))["id"].(string)

	rec = s.do(t, http.MethodPost, "/action-items", token, map[string]interface{}{
		"project_schedule_id": scheduleID,
		"action_type_id":      1,
		"title":               "Change order",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	itemID := dataMap(t, decodeEnvelope(t, rec))["id"].(string)

	body := map[string]interface{}{"contact_id": contactID}
	assert.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/action-items/"+itemID+"/supervisors", token, body).Code)
	assert.Equal(t, http.StatusConflict, s.do(t, http.MethodPost, "/action-items/"+itemID+"/supervisors", token, body).Code)
}

func TestScheduleTasksOrderedBySequence(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, 7)
	scheduleID := setupSchedule(t, s, token)

	for _, task := range []struct {
		name  string
		order int
	}{
		{"Roofing", 3},
		{"Foundation", 1},
		{"Framing", 2},
	} {
		rec := s.do(t, http.MethodPost, "/schedules/"+scheduleID+"/tasks", token, map[string]interface{}{
			"task_name":  task.name,
			"sort_order": task.order,
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := s.do(t, http.MethodGet, "/schedules/"+scheduleID+"/tasks", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rows := dataSlice(t, decodeEnvelope(t, rec))
	require.Len(t, rows, 3)
	assert.Equal(t, "Foundation", rows[0]["task_name"])
	assert.Equal(t, "Framing", rows[1]["task_name"])
	assert.Equal(t, "Roofing", rows[2]["task_name"])
}

func TestFinancialVarianceReport(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, 7)

	rec := s.do(t, http.MethodPost, "/clients", token, map[string]interface{}{"name": "Acme"})
	clientID := dataMap(t, decodeEnvelope(t, rec))["id"].(string)

	rec = s.do(t, http.MethodPost, "/schedules", token, map[string]interface{}{
		"client_id":    clientID,
		"project_name": "Main St build",
		"budget":       50000,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	scheduleID := dataMap(t, decodeEnvelope(t, rec))["id"].(string)

	// Ledger rows come from the external accounting source; seed directly
	require.NoError(t, s.db.DB().Create(&model.LedgerEntry{
		ID:                "ledger-1",
		TenantID:          7,
		ProjectScheduleID: &scheduleID,
		Memo:              "concrete pour",
		Amount:            12000,
	}).Error)

	rec = s.do(t, http.MethodGet, "/reports/financial-variance", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rows := dataSlice(t, decodeEnvelope(t, rec))
	require.Len(t, rows, 1)
	assert.Equal(t, float64(50000), rows[0]["budget"])
	assert.Equal(t, float64(12000), rows[0]["actual_total"])
	assert.Equal(t, float64(38000), rows[0]["variance"])
}
