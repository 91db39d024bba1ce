package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/vastsea/vastsea-api/internal/constants"
	"github.com/vastsea/vastsea-api/internal/database"
	"github.com/vastsea/vastsea-api/internal/dto"
	"github.com/vastsea/vastsea-api/internal/models"
	"github.com/vastsea/vastsea-api/internal/repository"
	"github.com/vastsea/vastsea-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type problemTestEnv struct {
	db             *gorm.DB
	handler        *ProblemHandler
	authService    *services.AuthService
	problemService *services.ProblemService
}

func setupProblemTestEnv(t *testing.T) problemTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Problem{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	userRepo := repository.NewUserRepository(db)
	problemRepo := repository.NewProblemRepository(db)
	authService := services.NewAuthService(userRepo)
	problemService := services.NewProblemService(problemRepo, nil)
	handler := NewProblemHandler(problemService)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return problemTestEnv{
		db:             db,
		handler:        handler,
		authService:    authService,
		problemService: problemService,
	}
}

// forceUser injects an authenticated user id the way RequireAuth would
func forceUser(userID uint64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	}
}

func newProblemRouter(env problemTestEnv, userID uint64) *gin.Engine {
	r := gin.New()
	r.GET("/api/problems", env.handler.ListProblems)
	r.GET("/api/problems/:id", env.handler.GetProblem)
	r.POST("/api/problems", forceUser(userID), env.handler.CreateProblem)
	r.PUT("/api/problems/:id", forceUser(userID), env.handler.UpdateProblem)
	r.DELETE("/api/problems/:id", forceUser(userID), env.handler.DeleteProblem)
	return r
}

func (env problemTestEnv) signup(t *testing.T, name, email string) *models.User {
	t.Helper()
	user, err := env.authService.Signup(services.SignupInput{
		Name:     name,
		Email:    email,
		Password: "supersecret",
	})
	require.NoError(t, err)
	return user
}

func getJSON(t *testing.T, r *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestProblemHandler_CreateProblem(t *testing.T) {
	env := setupProblemTestEnv(t)
	user := env.signup(t, "Author", "author@example.com")
	r := newProblemRouter(env, user.ID)

	w := postJSON(t, r, "/api/problems", map[string]interface{}{
		"title":       "Two Sum",
		"description": "Given an array of integers, return indices of two numbers adding to target.",
		"codes":       map[string]string{"js": "function twoSum(){}"},
		"tags":        []string{"array", "hash-table"},
	})

	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.ProblemDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "Two Sum", response.Title)
	require.Equal(t, "function twoSum(){}", response.Codes.JS)
	require.Equal(t, []string{"array", "hash-table"}, response.Tags)
	require.NotNil(t, response.Author)
	require.Equal(t, "Author", response.Author.Name)
	require.True(t, response.CreatedAt.Equal(response.UpdatedAt))
}

func TestProblemHandler_CreateProblem_Validation(t *testing.T) {
	env := setupProblemTestEnv(t)
	user := env.signup(t, "Author", "author@example.com")
	r := newProblemRouter(env, user.ID)

	cases := []struct {
		name        string
		title       string
		description string
	}{
		{"title too short", "ab", "a perfectly fine description"},
		{"title too long", strings.Repeat("x", 101), "a perfectly fine description"},
		{"description too short", "Two Sum", "too short"},
		{"missing title", "", "a perfectly fine description"},
		{"missing description", "Two Sum", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := postJSON(t, r, "/api/problems", map[string]interface{}{
				"title":       tc.title,
				"description": tc.description,
			})
			require.Equal(t, http.StatusBadRequest, w.Code)
		})
	}

	// No record may be persisted by rejected writes
	var count int64
	require.NoError(t, env.db.Model(&models.Problem{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestProblemHandler_TitleBoundaries(t *testing.T) {
	env := setupProblemTestEnv(t)
	user := env.signup(t, "Author", "author@example.com")
	r := newProblemRouter(env, user.ID)

	for _, title := range []string{strings.Repeat("x", 3), strings.Repeat("x", 100)} {
		w := postJSON(t, r, "/api/problems", map[string]interface{}{
			"title":       title,
			"description": "a perfectly fine description",
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}
}

func TestProblemHandler_GetProblem(t *testing.T) {
	env := setupProblemTestEnv(t)
	user := env.signup(t, "Author", "author@example.com")

	problem, err := env.problemService.CreateProblem(user.ID, services.CreateProblemInput{
		Title:       "Two Sum",
		Description: "Given an array of integers, return indices.",
	})
	require.NoError(t, err)

	r := newProblemRouter(env, user.ID)

	w := getJSON(t, r, fmt.Sprintf("/api/problems/%d", problem.ID))
	require.Equal(t, http.StatusOK, w.Code)

	var response dto.ProblemDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, problem.ID, response.ID)
	require.NotNil(t, response.Author)
	require.Equal(t, "author@example.com", response.Author.Email)
}

func TestProblemHandler_GetProblem_InvalidID(t *testing.T) {
	env := setupProblemTestEnv(t)
	user := env.signup(t, "Author", "author@example.com")
	r := newProblemRouter(env, user.ID)

	w := getJSON(t, r, "/api/problems/not-a-number")
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = getJSON(t, r, "/api/problems/999999")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestProblemHandler_ListProblems_Filters(t *testing.T) {
	env := setupProblemTestEnv(t)
	user := env.signup(t, "Author", "author@example.com")

	_, err := env.problemService.CreateProblem(user.ID, services.CreateProblemInput{
		Title:       "Two Sum",
		Description: "Classic array and hash table exercise.",
		Codes:       models.CodeSet{JS: "function twoSum(){}"},
		Tags:        []string{"array"},
	})
	require.NoError(t, err)

	_, err = env.problemService.CreateProblem(user.ID, services.CreateProblemInput{
		Title:       "Reverse Linked List",
		Description: "Iterative and recursive pointer reversal.",
		Codes:       models.CodeSet{CPP: "ListNode* reverse(ListNode*);"},
		Tags:        []string{"linked-list"},
	})
	require.NoError(t, err)

	r := newProblemRouter(env, user.ID)

	listTitles := func(path string) []string {
		w := getJSON(t, r, path)
		require.Equal(t, http.StatusOK, w.Code)
		var response dto.ProblemListResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		titles := make([]string, len(response.Problems))
		for i, p := range response.Problems {
			titles[i] = p.Title
		}
		return titles
	}

	// No filter: everything, newest first
	require.Equal(t, []string{"Reverse Linked List", "Two Sum"}, listTitles("/api/problems"))

	// Case-insensitive substring over title or description
	require.Equal(t, []string{"Two Sum"}, listTitles("/api/problems?query=two+sum"))
	require.Equal(t, []string{"Reverse Linked List"}, listTitles("/api/problems?query=POINTER"))

	// Language keeps only problems with a non-empty snippet for that key
	require.Equal(t, []string{"Two Sum"}, listTitles("/api/problems?language=js"))
	require.Equal(t, []string{"Reverse Linked List"}, listTitles("/api/problems?language=cpp"))
	require.Empty(t, listTitles("/api/problems?language=java"))

	// Tag is an exact match
	require.Equal(t, []string{"Two Sum"}, listTitles("/api/problems?tag=array"))
	require.Empty(t, listTitles("/api/problems?tag=arr"))

	// Filters are conjunctive
	require.Empty(t, listTitles("/api/problems?tag=array&language=cpp"))

	// Unknown language key fails fast
	w := getJSON(t, r, "/api/problems?language=python")
	require.Equal(t, http.StatusBadRequest, w.Code)

	// No match is an empty 200, not an error
	require.Empty(t, listTitles("/api/problems?query=no+such+problem"))
}

func TestProblemHandler_UpdateProblem(t *testing.T) {
	env := setupProblemTestEnv(t)
	author := env.signup(t, "Author", "author@example.com")
	other := env.signup(t, "Other", "other@example.com")

	problem, err := env.problemService.CreateProblem(author.ID, services.CreateProblemInput{
		Title:       "Two Sum",
		Description: "Given an array of integers, return indices.",
		Tags:        []string{"array"},
	})
	require.NoError(t, err)

	// Non-author update is rejected and leaves the record unchanged
	otherRouter := newProblemRouter(env, other.ID)
	w := postPut(t, otherRouter, fmt.Sprintf("/api/problems/%d", problem.ID), map[string]interface{}{
		"title": "Hijacked",
	})
	require.Equal(t, http.StatusForbidden, w.Code)

	var stored models.Problem
	require.NoError(t, env.db.First(&stored, problem.ID).Error)
	require.Equal(t, "Two Sum", stored.Title)

	// Author patch applies only the present fields
	authorRouter := newProblemRouter(env, author.ID)
	w = postPut(t, authorRouter, fmt.Sprintf("/api/problems/%d", problem.ID), map[string]interface{}{
		"title": "Two Sum II",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var response dto.ProblemDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "Two Sum II", response.Title)
	require.Equal(t, "Given an array of integers, return indices.", response.Description)
	require.Equal(t, []string{"array"}, response.Tags)
	require.True(t, response.UpdatedAt.After(response.CreatedAt) || response.UpdatedAt.Equal(response.CreatedAt))

	// Changed fields are re-validated with creation constraints
	w = postPut(t, authorRouter, fmt.Sprintf("/api/problems/%d", problem.ID), map[string]interface{}{
		"description": "too short",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProblemHandler_DeleteProblem(t *testing.T) {
	env := setupProblemTestEnv(t)
	author := env.signup(t, "Author", "author@example.com")
	other := env.signup(t, "Other", "other@example.com")

	problem, err := env.problemService.CreateProblem(author.ID, services.CreateProblemInput{
		Title:       "Two Sum",
		Description: "Given an array of integers, return indices.",
	})
	require.NoError(t, err)

	path := fmt.Sprintf("/api/problems/%d", problem.ID)

	// Delete by a different user fails Forbidden
	w := doDelete(t, newProblemRouter(env, other.ID), path)
	require.Equal(t, http.StatusForbidden, w.Code)

	// Delete by the author succeeds
	authorRouter := newProblemRouter(env, author.ID)
	w = doDelete(t, authorRouter, path)
	require.Equal(t, http.StatusOK, w.Code)

	// Subsequent reads and deletes fail NotFound
	require.Equal(t, http.StatusNotFound, getJSON(t, authorRouter, path).Code)
	require.Equal(t, http.StatusNotFound, doDelete(t, authorRouter, path).Code)
}

func postPut(t *testing.T, r *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, path, strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doDelete(t *testing.T, r *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodDelete, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
