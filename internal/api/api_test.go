package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fitnesshub/fitness-api/internal/config"
	"fitnesshub/fitness-api/internal/domain"
	"fitnesshub/fitness-api/internal/repository"
	"fitnesshub/fitness-api/internal/repository/memory"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	router *gin.Engine
	store  repository.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.New().Repositories()
	svc := NewServices(store, config.JWTConfig{Secret: "test-secret", Expiration: time.Hour})
	log := logrus.New()
	log.SetOutput(io.Discard)

	return &testEnv{
		router: NewRouter(config.ServerConfig{AllowedOrigins: []string{"*"}}, log, svc),
		store:  store,
	}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	out := map[string]any{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w.Code, out
}

// signup registers an account and returns its hex ID.
func (e *testEnv) signup(t *testing.T, name, email string, role domain.Role) string {
	t.Helper()
	code, body := e.do(t, http.MethodPost, "/api/auth/signup", "", gin.H{
		"name": name, "email": email, "password": "secret", "role": role,
	})
	require.Equal(t, http.StatusCreated, code, body)
	return body["user"].(map[string]any)["id"].(string)
}

func (e *testEnv) login(t *testing.T, role domain.Role, email string) string {
	t.Helper()
	code, body := e.do(t, http.MethodPost, "/api/auth/login/"+string(role), "", gin.H{
		"email": email, "password": "secret",
	})
	require.Equal(t, http.StatusOK, code, body)
	return body["token"].(string)
}

func (e *testEnv) account(t *testing.T, name, email string, role domain.Role) (string, string) {
	t.Helper()
	id := e.signup(t, name, email, role)
	return id, e.login(t, role, email)
}

func TestPing(t *testing.T) {
	env := newTestEnv(t)
	code, body := env.do(t, http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "pong", body["message"])
}

func TestRequestIDHeader(t *testing.T) {
	env := newTestEnv(t)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

// --- Auth ---

func TestSignup_RejectsUnknownRole(t *testing.T) {
	env := newTestEnv(t)

	code, body := env.do(t, http.MethodPost, "/api/auth/signup", "", gin.H{
		"name": "Ann", "email": "ann@example.com", "password": "secret", "role": "Coach",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid role", body["message"])

	n, err := env.store.Users.Count(context.Background(), domain.UserFilter{})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSignup_MissingFields(t *testing.T) {
	env := newTestEnv(t)
	code, _ := env.do(t, http.MethodPost, "/api/auth/signup", "", gin.H{"email": "ann@example.com", "role": "User"})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "Ann", "ann@example.com", domain.RoleUser)

	code, body := env.do(t, http.MethodPost, "/api/auth/signup", "", gin.H{
		"name": "Other", "email": "ann@example.com", "password": "x", "role": "Trainer",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "User already exists", body["message"])
}

func TestSignup_DoesNotExposePassword(t *testing.T) {
	env := newTestEnv(t)
	_, body := env.do(t, http.MethodPost, "/api/auth/signup", "", gin.H{
		"name": "Ann", "email": "ann@example.com", "password": "secret", "role": "User",
	})
	user := body["user"].(map[string]any)
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "passwordHash")
	assert.Equal(t, "User", user["role"])
}

func TestLogin_Errors(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "Ann", "ann@example.com", domain.RoleUser)

	tests := []struct {
		name     string
		role     string
		email    string
		password string
		code     int
	}{
		{"unknown email", "User", "nobody@example.com", "secret", http.StatusNotFound},
		{"wrong password", "User", "ann@example.com", "nope", http.StatusUnauthorized},
		{"wrong surface", "Trainer", "ann@example.com", "secret", http.StatusForbidden},
		{"unknown surface", "Coach", "ann@example.com", "secret", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := env.do(t, http.MethodPost, "/api/auth/login/"+tt.role, "", gin.H{
				"email": tt.email, "password": tt.password,
			})
			assert.Equal(t, tt.code, code, body)
			assert.NotEmpty(t, body["message"])
			assert.NotContains(t, body, "token")
		})
	}
}

func TestLogin_SurfaceIsCaseInsensitive(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "Ann", "ann@example.com", domain.RoleUser)

	code, body := env.do(t, http.MethodPost, "/api/auth/login/user", "", gin.H{
		"email": "ann@example.com", "password": "secret",
	})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Login successful", body["message"])
}

// --- Gates ---

func TestGates(t *testing.T) {
	env := newTestEnv(t)
	_, userToken := env.account(t, "Ann", "ann@example.com", domain.RoleUser)
	_, trainerToken := env.account(t, "Tom", "tom@example.com", domain.RoleTrainer)

	code, body := env.do(t, http.MethodGet, "/api/user/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "No token provided", body["message"])

	code, _ = env.do(t, http.MethodGet, "/api/user/profile", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, body = env.do(t, http.MethodGet, "/api/admin/admin/users", userToken, nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "Access denied. Admins only.", body["message"])

	code, _ = env.do(t, http.MethodGet, "/api/user/profile", trainerToken, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = env.do(t, http.MethodGet, "/api/trainer/clients", userToken, nil)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestGates_DeletedAccount(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.account(t, "Root", "root@example.com", domain.RoleAdmin)
	userID, userToken := env.account(t, "Ann", "ann@example.com", domain.RoleUser)

	code, _ := env.do(t, http.MethodDelete, "/api/admin/users/"+userID, adminToken, nil)
	require.Equal(t, http.StatusOK, code)

	code, body := env.do(t, http.MethodGet, "/api/user/profile", userToken, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "User not found", body["message"])
}

func TestInvalidPathID(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.account(t, "Root", "root@example.com", domain.RoleAdmin)

	code, _ := env.do(t, http.MethodDelete, "/api/admin/users/not-an-id", adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

// --- Admin ---

func TestAdmin_ListUsersPagination(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.account(t, "Root", "root@example.com", domain.RoleAdmin)
	env.signup(t, "Ann", "ann@example.com", domain.RoleUser)
	env.signup(t, "Bob", "bob@example.com", domain.RoleUser)
	env.signup(t, "Tom", "tom@example.com", domain.RoleTrainer)

	code, body := env.do(t, http.MethodGet, "/api/admin/admin/users?page=1&limit=3", adminToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["success"])
	assert.Len(t, body["data"], 3)
	pagination := body["pagination"].(map[string]any)
	assert.EqualValues(t, 1, pagination["currentPage"])
	assert.EqualValues(t, 2, pagination["totalPages"])
	assert.EqualValues(t, 4, pagination["totalUsers"])

	// Newest first.
	first := body["data"].([]any)[0].(map[string]any)
	assert.Equal(t, "Tom", first["name"])

	code, body = env.do(t, http.MethodGet, "/api/admin/admin/users?page=2&limit=3", adminToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["data"], 1)

	code, body = env.do(t, http.MethodGet, "/api/admin/admin/users?role=user&search=ANN", adminToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["data"], 1)
	assert.EqualValues(t, 1, body["pagination"].(map[string]any)["totalUsers"])

	code, body = env.do(t, http.MethodGet, "/api/admin/admin/users?page=1000000000000000000&limit=10", adminToken, nil)
	require.Equal(t, http.StatusOK, code, body)
	assert.Empty(t, body["data"])
	assert.EqualValues(t, 1, body["pagination"].(map[string]any)["totalPages"])

	code, body = env.do(t, http.MethodGet, "/api/admin/admin/users?page=3&limit=9223372036854775807", adminToken, nil)
	require.Equal(t, http.StatusOK, code, body)
	assert.Empty(t, body["data"])

	code, _ = env.do(t, http.MethodGet, "/api/admin/admin/users?page=0", adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = env.do(t, http.MethodGet, "/api/admin/admin/users?limit=abc", adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestAdmin_UpdateAndChangeRole(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.account(t, "Root", "root@example.com", domain.RoleAdmin)
	userID := env.signup(t, "Ann", "ann@example.com", domain.RoleUser)
	env.signup(t, "Bob", "bob@example.com", domain.RoleUser)

	code, body := env.do(t, http.MethodPut, "/api/admin/users/"+userID, adminToken, gin.H{"name": "Annie"})
	require.Equal(t, http.StatusOK, code, body)
	user := body["user"].(map[string]any)
	assert.Equal(t, "Annie", user["name"])
	assert.Equal(t, "ann@example.com", user["email"])

	code, body = env.do(t, http.MethodPut, "/api/admin/users/"+userID, adminToken, gin.H{"email": "bob@example.com"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Email already in use", body["message"])

	code, body = env.do(t, http.MethodPatch, "/api/admin/users/"+userID+"/role", adminToken, gin.H{"role": "Trainer"})
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "User role updated to 'Trainer' successfully.", body["message"])

	code, body = env.do(t, http.MethodPatch, "/api/admin/users/"+userID+"/role", adminToken, gin.H{"role": "Coach"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid role provided.", body["message"])
}

func TestAdmin_AssignAndRemoveTrainer(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.account(t, "Root", "root@example.com", domain.RoleAdmin)
	userID := env.signup(t, "Ann", "ann@example.com", domain.RoleUser)
	trainerID, trainerToken := env.account(t, "Tom", "tom@example.com", domain.RoleTrainer)

	code, body := env.do(t, http.MethodPut, "/api/admin/assign-trainer", adminToken, gin.H{
		"userId": userID, "trainerId": trainerID,
	})
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, trainerID, body["user"].(map[string]any)["assignedTrainer"])
	assert.Contains(t, body["trainer"].(map[string]any)["clients"], userID)

	code, body = env.do(t, http.MethodGet, "/api/trainer/clients", trainerToken, nil)
	require.Equal(t, http.StatusOK, code)
	clients := body["clients"].([]any)
	require.Len(t, clients, 1)
	assert.Equal(t, userID, clients[0].(map[string]any)["id"])

	code, body = env.do(t, http.MethodGet, "/api/admin/users-with-trainers", adminToken, nil)
	require.Equal(t, http.StatusOK, code)
	data := body["data"].([]any)
	require.Len(t, data, 1)
	assert.Equal(t, "Tom", data[0].(map[string]any)["trainer"].(map[string]any)["name"])

	code, body = env.do(t, http.MethodPut, "/api/admin/remove-trainer/"+userID, adminToken, nil)
	require.Equal(t, http.StatusOK, code, body)
	assert.NotContains(t, body["user"].(map[string]any), "assignedTrainer")

	code, body = env.do(t, http.MethodPut, "/api/admin/remove-trainer/"+userID, adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "No trainer assigned to this user", body["message"])

	code, body = env.do(t, http.MethodGet, "/api/trainer/clients", trainerToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, body["clients"])
}

func TestAdmin_AssignTrainerRequiresTrainerRole(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.account(t, "Root", "root@example.com", domain.RoleAdmin)
	userID := env.signup(t, "Ann", "ann@example.com", domain.RoleUser)
	otherID := env.signup(t, "Bob", "bob@example.com", domain.RoleUser)

	code, body := env.do(t, http.MethodPut, "/api/admin/assign-trainer", adminToken, gin.H{
		"userId": userID, "trainerId": otherID,
	})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Trainer not found", body["message"])
}

// --- Trainer ---

func TestTrainer_WorkoutPlans(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.account(t, "Root", "root@example.com", domain.RoleAdmin)
	userID, userToken := env.account(t, "Ann", "ann@example.com", domain.RoleUser)
	trainerID, trainerToken := env.account(t, "Tom", "tom@example.com", domain.RoleTrainer)
	_, otherToken := env.account(t, "Tia", "tia@example.com", domain.RoleTrainer)

	plan := gin.H{
		"clientId":   userID,
		"exercises":  []gin.H{{"name": "Squat", "sets": 3, "reps": 10}},
		"suggestion": "Warm up first",
	}

	code, _ := env.do(t, http.MethodPost, "/api/trainer/workout", trainerToken, plan)
	assert.Equal(t, http.StatusForbidden, code, "not yet assigned")

	code, _ = env.do(t, http.MethodPut, "/api/admin/assign-trainer", adminToken, gin.H{"userId": userID, "trainerId": trainerID})
	require.Equal(t, http.StatusOK, code)

	code, _ = env.do(t, http.MethodPost, "/api/trainer/workout", trainerToken, gin.H{
		"clientId":  userID,
		"exercises": []gin.H{{"name": "Squat", "sets": 0, "reps": 10}},
	})
	assert.Equal(t, http.StatusBadRequest, code)

	code, body := env.do(t, http.MethodPost, "/api/trainer/workout", trainerToken, plan)
	require.Equal(t, http.StatusCreated, code, body)
	planID := body["workoutPlan"].(map[string]any)["id"].(string)

	code, body = env.do(t, http.MethodGet, "/api/trainer/"+userID, trainerToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["workoutPlans"], 1)

	code, _ = env.do(t, http.MethodGet, "/api/trainer/"+userID, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, body = env.do(t, http.MethodPut, "/api/trainer/"+planID, trainerToken, gin.H{
		"exercises":          []gin.H{{"name": "Deadlift", "sets": 5, "reps": 5, "weight": 100}},
		"suggestedExercises": "Keep the back straight",
	})
	require.Equal(t, http.StatusOK, code, body)
	updated := body["workoutPlan"].(map[string]any)
	assert.Equal(t, "Keep the back straight", updated["suggestion"])

	code, _ = env.do(t, http.MethodPut, "/api/trainer/"+planID, otherToken, gin.H{"suggestion": "mine now"})
	assert.Equal(t, http.StatusForbidden, code)

	code, body = env.do(t, http.MethodGet, "/api/user/workout-plan", userToken, nil)
	require.Equal(t, http.StatusOK, code)
	plans := body["workoutPlan"].([]any)
	require.Len(t, plans, 1)
	assert.Equal(t, "Deadlift", plans[0].(map[string]any)["exercises"].([]any)[0].(map[string]any)["name"])

	code, _ = env.do(t, http.MethodDelete, "/api/trainer/"+planID, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = env.do(t, http.MethodDelete, "/api/trainer/"+planID, trainerToken, nil)
	assert.Equal(t, http.StatusOK, code)
	code, body = env.do(t, http.MethodDelete, "/api/trainer/"+planID, trainerToken, nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "Access denied. You cannot delete this workout plan.", body["message"])
}

func TestUser_WorkoutPlanEmpty(t *testing.T) {
	env := newTestEnv(t)
	_, userToken := env.account(t, "Ann", "ann@example.com", domain.RoleUser)

	code, body := env.do(t, http.MethodGet, "/api/user/workout-plan", userToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []any{}, body["workoutPlan"])
}

// --- User ---

func TestUser_Profile(t *testing.T) {
	env := newTestEnv(t)
	_, userToken := env.account(t, "Ann", "ann@example.com", domain.RoleUser)

	code, body := env.do(t, http.MethodPut, "/api/user/update-profile", userToken, gin.H{"age": 30, "gender": "Female"})
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "Profile updated successfully.", body["message"])

	code, body = env.do(t, http.MethodPut, "/api/user/update-profile", userToken, gin.H{"weight": 61.5})
	require.Equal(t, http.StatusOK, code, body)

	code, body = env.do(t, http.MethodGet, "/api/user/profile", userToken, nil)
	require.Equal(t, http.StatusOK, code)
	details := body["profile"].(map[string]any)["profileDetails"].(map[string]any)
	assert.EqualValues(t, 30, details["age"])
	assert.Equal(t, "Female", details["gender"])
	assert.EqualValues(t, 61.5, details["weight"])

	code, body = env.do(t, http.MethodPut, "/api/user/update-profile", userToken, gin.H{"gender": "Robot"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid gender value.", body["message"])
}

func TestUser_BookAndCancel(t *testing.T) {
	env := newTestEnv(t)
	_, userToken := env.account(t, "Ann", "ann@example.com", domain.RoleUser)
	_, otherToken := env.account(t, "Bob", "bob@example.com", domain.RoleUser)
	trainerID, trainerToken := env.account(t, "Tom", "tom@example.com", domain.RoleTrainer)

	code, body := env.do(t, http.MethodPost, "/api/user/book", userToken, gin.H{"date": "2026-11-01"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Trainer ID and date are required.", body["message"])

	code, body = env.do(t, http.MethodPost, "/api/user/book", userToken, gin.H{"trainerId": trainerID, "date": "2026-11-01T10:00:00Z"})
	require.Equal(t, http.StatusCreated, code, body)
	appt := body["appointment"].(map[string]any)
	assert.Equal(t, "Pending", appt["status"])
	apptID := appt["id"].(string)

	code, body = env.do(t, http.MethodGet, "/api/trainer/appointments", trainerToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["appointments"], 1)

	code, _ = env.do(t, http.MethodDelete, "/api/user/cancel/"+apptID, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, body = env.do(t, http.MethodDelete, "/api/user/cancel/"+apptID, userToken, nil)
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "Appointment canceled successfully.", body["message"])

	code, _ = env.do(t, http.MethodDelete, "/api/user/cancel/"+apptID, userToken, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestUser_CancelOnlyPending(t *testing.T) {
	env := newTestEnv(t)
	_, userToken := env.account(t, "Ann", "ann@example.com", domain.RoleUser)
	trainerID, trainerToken := env.account(t, "Tom", "tom@example.com", domain.RoleTrainer)

	code, body := env.do(t, http.MethodPost, "/api/user/book", userToken, gin.H{"trainerId": trainerID, "date": "2026-11-01"})
	require.Equal(t, http.StatusCreated, code, body)
	apptID := body["appointment"].(map[string]any)["id"].(string)

	code, body = env.do(t, http.MethodPut, "/api/trainer/appointments/"+apptID, trainerToken, gin.H{"status": "Approved"})
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "Approved", body["appointment"].(map[string]any)["status"])

	code, body = env.do(t, http.MethodDelete, "/api/user/cancel/"+apptID, userToken, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Only pending appointments can be canceled.", body["message"])

	code, body = env.do(t, http.MethodGet, "/api/user/my-appointments", userToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["appointments"], 1)
}

func TestUser_Meals(t *testing.T) {
	env := newTestEnv(t)
	_, userToken := env.account(t, "Ann", "ann@example.com", domain.RoleUser)
	_, otherToken := env.account(t, "Bob", "bob@example.com", domain.RoleUser)

	code, body := env.do(t, http.MethodPost, "/api/user/add-meal", userToken, gin.H{
		"mealType":  "Breakfast",
		"foodItems": []gin.H{{"name": "Oats", "calories": 150}, {"name": "Milk", "calories": 100}},
	})
	require.Equal(t, http.StatusOK, code, body)
	entry := body["mealEntry"].(map[string]any)
	meals := entry["meals"].([]any)
	require.Len(t, meals, 1)
	assert.EqualValues(t, 250, meals[0].(map[string]any)["totalCalories"])

	code, body = env.do(t, http.MethodPost, "/api/user/add-meal", userToken, gin.H{
		"mealType":  "Lunch",
		"foodItems": []gin.H{{"name": "Rice", "calories": 300}},
	})
	require.Equal(t, http.StatusOK, code, body)
	entry = body["mealEntry"].(map[string]any)
	assert.Len(t, entry["meals"], 2, "same day appends to one plan")
	planID := entry["id"].(string)

	code, body = env.do(t, http.MethodPost, "/api/user/add-meal", userToken, gin.H{
		"mealType":  "Brunch",
		"foodItems": []gin.H{{"name": "Eggs", "calories": 90}},
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid meal type", body["message"])

	code, body = env.do(t, http.MethodGet, "/api/user/my-meals", userToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["meals"], 1)

	code, body = env.do(t, http.MethodDelete, "/api/user/delete-meal/"+planID, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "Unauthorized to delete this meal", body["message"])

	code, _ = env.do(t, http.MethodDelete, "/api/user/delete-meal/"+planID, userToken, nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = env.do(t, http.MethodDelete, "/api/user/delete-meal/"+planID, userToken, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestTrainer_ClientNutrition(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.account(t, "Root", "root@example.com", domain.RoleAdmin)
	userID, userToken := env.account(t, "Ann", "ann@example.com", domain.RoleUser)
	trainerID, trainerToken := env.account(t, "Tom", "tom@example.com", domain.RoleTrainer)

	code, _ := env.do(t, http.MethodGet, "/api/trainer/user-diet/"+userID, trainerToken, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = env.do(t, http.MethodPut, "/api/admin/assign-trainer", adminToken, gin.H{"userId": userID, "trainerId": trainerID})
	require.Equal(t, http.StatusOK, code)

	// The role gate reloads the account, so the new trainer is picked up
	// without logging in again.
	code, body := env.do(t, http.MethodPost, "/api/user/add-meal", userToken, gin.H{
		"mealType":  "Dinner",
		"foodItems": []gin.H{{"name": "Soup", "calories": 200}},
	})
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, trainerID, body["mealEntry"].(map[string]any)["trainerId"])

	code, body = env.do(t, http.MethodGet, "/api/trainer/user-diet/"+userID, trainerToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["nutritionPlans"], 1)
}

func TestUser_ListUsers(t *testing.T) {
	env := newTestEnv(t)
	_, userToken := env.account(t, "Ann", "ann@example.com", domain.RoleUser)
	env.signup(t, "Tom", "tom@example.com", domain.RoleTrainer)

	code, body := env.do(t, http.MethodGet, "/api/user/user/users?role=Trainer", userToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["data"], 1)
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodGet, "/ping", "", nil)

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "fitness_api_http_requests_total")
}
