package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/listkeep-dev/listkeep/db"
	"github.com/listkeep-dev/listkeep/internal/auth"
	"github.com/listkeep-dev/listkeep/internal/router"
)

func setupServer(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)

	t.Setenv("JWT_SECRET", "handlers-test-secret")
	require.NoError(t, auth.InitJWTSecret())

	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := database.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(database))

	return router.NewRouter(database)
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()

	var body []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func register(t *testing.T, r *gin.Engine, name, email string) string {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     name,
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	body := decode(t, w)
	token, ok := body["token"].(string)
	require.True(t, ok)
	require.NotEmpty(t, token)
	return token
}

func createList(t *testing.T, r *gin.Engine, token, name string) uint {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/tasklists", token, gin.H{"name": name})
	require.Equal(t, http.StatusCreated, w.Code)

	body := decode(t, w)
	return uint(body["id"].(float64))
}

func TestRegister(t *testing.T) {
	r := setupServer(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "password123",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.NotEmpty(t, body["token"])

	user := body["user"].(map[string]interface{})
	assert.Equal(t, "Alice", user["name"])
	assert.Equal(t, "alice@example.com", user["email"])
}

func TestRegister_Validation(t *testing.T) {
	r := setupServer(t)

	tests := []struct {
		name    string
		payload gin.H
	}{
		{"missing name", gin.H{"email": "a@example.com", "password": "password123"}},
		{"missing email", gin.H{"name": "A", "password": "password123"}},
		{"malformed email", gin.H{"name": "A", "email": "not-an-email", "password": "password123"}},
		{"short password", gin.H{"name": "A", "email": "a@example.com", "password": "short"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", tt.payload)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	r := setupServer(t)

	register(t, r, "Alice", "alice@example.com")

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     "Imposter",
		"email":    "Alice@Example.com",
		"password": "password123",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLogin(t *testing.T) {
	r := setupServer(t)

	register(t, r, "Alice", "alice@example.com")

	w := doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "alice@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decode(t, w)["token"])

	// wrong password and unknown email answer identically
	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "alice@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	wrongPass := decode(t, w)["error"]

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "nobody@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, wrongPass, decode(t, w)["error"])
}

func TestAuthCheck(t *testing.T) {
	r := setupServer(t)

	token := register(t, r, "Alice", "alice@example.com")

	w := doJSON(t, r, http.MethodGet, "/api/auth/check", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	user := decode(t, w)["user"].(map[string]interface{})
	assert.Equal(t, "alice@example.com", user["email"])
}

func TestAuth_MissingAndInvalidToken(t *testing.T) {
	r := setupServer(t)

	w := doJSON(t, r, http.MethodGet, "/api/tasklists", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/tasklists", "not.a.token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateTaskList_CreatorIsOwnerAndAdmin(t *testing.T) {
	r := setupServer(t)

	token := register(t, r, "Alice", "alice@example.com")

	w := doJSON(t, r, http.MethodPost, "/api/tasklists", token, gin.H{"name": "Groceries"})
	require.Equal(t, http.StatusCreated, w.Code)

	body := decode(t, w)
	owner := body["owner"].(map[string]interface{})
	assert.Equal(t, "alice@example.com", owner["email"])

	participants := body["participants"].([]interface{})
	require.Len(t, participants, 1)

	first := participants[0].(map[string]interface{})
	assert.Equal(t, "Admin", first["role"])
	assert.Equal(t, "alice@example.com", first["user"].(map[string]interface{})["email"])
}

func TestListTaskLists_OnlyParticipating(t *testing.T) {
	r := setupServer(t)

	aliceToken := register(t, r, "Alice", "alice@example.com")
	bobToken := register(t, r, "Bob", "bob@example.com")

	listID := createList(t, r, aliceToken, "Groceries")
	createList(t, r, aliceToken, "Chores")

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/tasklists/%d/participants", listID), aliceToken, gin.H{
		"email": "bob@example.com",
		"role":  "Viewer",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/tasklists", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeList(t, w), 2)

	w = doJSON(t, r, http.MethodGet, "/api/tasklists", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	bobLists := decodeList(t, w)
	require.Len(t, bobLists, 1)
	assert.Equal(t, "Groceries", bobLists[0]["name"])
}

func TestAddParticipant_Errors(t *testing.T) {
	r := setupServer(t)

	aliceToken := register(t, r, "Alice", "alice@example.com")
	register(t, r, "Bob", "bob@example.com")

	listID := createList(t, r, aliceToken, "Groceries")

	t.Run("unknown email", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/tasklists/%d/participants", listID), aliceToken, gin.H{
			"email": "nobody@example.com",
			"role":  "Viewer",
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("invalid role", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/tasklists/%d/participants", listID), aliceToken, gin.H{
			"email": "bob@example.com",
			"role":  "Owner",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown list", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/tasklists/999/participants", aliceToken, gin.H{
			"email": "bob@example.com",
			"role":  "Viewer",
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("duplicate participant", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/tasklists/%d/participants", listID), aliceToken, gin.H{
			"email": "bob@example.com",
			"role":  "Viewer",
		})
		require.Equal(t, http.StatusOK, w.Code)

		w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/tasklists/%d/participants", listID), aliceToken, gin.H{
			"email": "bob@example.com",
			"role":  "Admin",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

// Ownership is narrower than the Admin role: an Admin participant who is
// not the owner can author tasks but cannot delete the list or grant
// access.
func TestOwnerOnlyOperations_AdminParticipantRejected(t *testing.T) {
	r := setupServer(t)

	aliceToken := register(t, r, "Alice", "alice@example.com")
	carolToken := register(t, r, "Carol", "carol@example.com")
	register(t, r, "Dave", "dave@example.com")

	listID := createList(t, r, aliceToken, "Groceries")

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/tasklists/%d/participants", listID), aliceToken, gin.H{
		"email": "carol@example.com",
		"role":  "Admin",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/tasklists/%d", listID), carolToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/tasklists/%d/participants", listID), carolToken, gin.H{
		"email": "dave@example.com",
		"role":  "Viewer",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Carol's Admin role still authors tasks
	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/tasks/%d", listID), carolToken, gin.H{"title": "Eggs"})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestTaskOperations_NonLeakingAuthorization(t *testing.T) {
	r := setupServer(t)

	aliceToken := register(t, r, "Alice", "alice@example.com")
	malloryToken := register(t, r, "Mallory", "mallory@example.com")

	listID := createList(t, r, aliceToken, "Groceries")

	// a non-participant gets the same 403 for a real list and a missing one
	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/tasks/%d", listID), malloryToken, gin.H{"title": "Spy"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/tasks/999", malloryToken, gin.H{"title": "Spy"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/tasks/%d", listID), malloryToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/tasks/999", malloryToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestTaskUpdate_UnknownTask404(t *testing.T) {
	r := setupServer(t)

	token := register(t, r, "Alice", "alice@example.com")

	w := doJSON(t, r, http.MethodPut, "/api/tasks/999", token, gin.H{"title": "New"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodPatch, "/api/tasks/999/toggle", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/api/tasks/999", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// The full collaboration walkthrough: registration, sharing, the Viewer
// tier acting on existing items without authoring, and owner cleanup.
func TestCollaborationScenario(t *testing.T) {
	r := setupServer(t)

	aliceToken := register(t, r, "Alice", "alice@example.com")
	bobToken := register(t, r, "Bob", "bob@example.com")

	listID := createList(t, r, aliceToken, "Groceries")

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/tasklists/%d/participants", listID), aliceToken, gin.H{
		"email": "bob@example.com",
		"role":  "Viewer",
	})
	require.Equal(t, http.StatusOK, w.Code)

	// Bob sees the empty list
	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/tasks/%d", listID), bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeList(t, w))

	// but cannot author tasks
	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/tasks/%d", listID), bobToken, gin.H{"title": "Beer"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Alice creates Milk
	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/tasks/%d", listID), aliceToken, gin.H{"title": "Milk"})
	require.Equal(t, http.StatusCreated, w.Code)
	taskID := uint(decode(t, w)["id"].(float64))

	// Bob toggles Milk to completed
	w = doJSON(t, r, http.MethodPatch, fmt.Sprintf("/api/tasks/%d/toggle", taskID), bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["completed"])

	// Bob cannot edit the title
	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/tasks/%d", taskID), bobToken, gin.H{"title": "Oat milk"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// and cannot delete it
	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/tasks/%d", taskID), bobToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// the failed attempts changed nothing
	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/tasks/%d", listID), bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	tasks := decodeList(t, w)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Milk", tasks[0]["title"])
	assert.Equal(t, true, tasks[0]["completed"])

	// toggling back restores the original completed value
	w = doJSON(t, r, http.MethodPatch, fmt.Sprintf("/api/tasks/%d/toggle", taskID), bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["completed"])

	// Alice deletes Milk
	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/tasks/%d", taskID), aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/tasks/%d", listID), aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeList(t, w))
}

func TestDeleteTaskList_OwnerOnly_AndCascade(t *testing.T) {
	r := setupServer(t)

	aliceToken := register(t, r, "Alice", "alice@example.com")
	bobToken := register(t, r, "Bob", "bob@example.com")

	listID := createList(t, r, aliceToken, "Groceries")

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/tasks/%d", listID), aliceToken, gin.H{"title": "Milk"})
	require.Equal(t, http.StatusCreated, w.Code)
	taskID := uint(decode(t, w)["id"].(float64))

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/tasklists/%d", listID), bobToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/tasklists/%d", listID), aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// the list's tasks went with it
	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/tasks/%d", taskID), aliceToken, gin.H{"title": "Ghost"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/api/tasklists/999", aliceToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateTask_PartialFields(t *testing.T) {
	r := setupServer(t)

	token := register(t, r, "Alice", "alice@example.com")
	listID := createList(t, r, token, "Groceries")

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/tasks/%d", listID), token, gin.H{
		"title":       "Milk",
		"description": "two liters",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	taskID := uint(decode(t, w)["id"].(float64))

	// only the title changes; description and completed stay put
	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/tasks/%d", taskID), token, gin.H{"title": "Oat milk"})
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, "Oat milk", body["title"])
	assert.Equal(t, "two liters", body["description"])
	assert.Equal(t, false, body["completed"])

	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/tasks/%d", taskID), token, gin.H{"completed": true})
	require.Equal(t, http.StatusOK, w.Code)

	body = decode(t, w)
	assert.Equal(t, "Oat milk", body["title"])
	assert.Equal(t, true, body["completed"])
}

func TestHealthCheck(t *testing.T) {
	r := setupServer(t)

	w := doJSON(t, r, http.MethodGet, "/api/health", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])
}
