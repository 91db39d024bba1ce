package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vastsea/vastsea-api/internal/models"
	"github.com/vastsea/vastsea-api/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Problem{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{Name: "Tester", Email: email, PasswordHash: "x"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestProblemService_CreateProblem_SetsAuthorAndTimestamps(t *testing.T) {
	db := setupServiceDB(t)
	user := createTestUser(t, db, "tester@example.com")
	svc := NewProblemService(repository.NewProblemRepository(db), nil)

	problem, err := svc.CreateProblem(user.ID, CreateProblemInput{
		Title:       "Two Sum",
		Description: "Given an array of integers, return indices.",
	})
	require.NoError(t, err)
	require.Equal(t, user.ID, problem.AuthorID)
	require.True(t, problem.CreatedAt.Equal(problem.UpdatedAt))
}

func TestProblemService_UpdateProblem_AuthorImmutable(t *testing.T) {
	db := setupServiceDB(t)
	author := createTestUser(t, db, "author@example.com")
	other := createTestUser(t, db, "other@example.com")
	svc := NewProblemService(repository.NewProblemRepository(db), nil)

	problem, err := svc.CreateProblem(author.ID, CreateProblemInput{
		Title:       "Two Sum",
		Description: "Given an array of integers, return indices.",
	})
	require.NoError(t, err)

	_, err = svc.UpdateProblem(other.ID, problem.ID, UpdateProblemInput{})
	require.ErrorIs(t, err, ErrNotProblemAuthor)

	title := "Two Sum II"
	updated, err := svc.UpdateProblem(author.ID, problem.ID, UpdateProblemInput{
		Title: &title,
	})
	require.NoError(t, err)
	require.Equal(t, author.ID, updated.AuthorID)
}

func TestProblemService_DeleteProblem_NeverSucceedsTwice(t *testing.T) {
	db := setupServiceDB(t)
	author := createTestUser(t, db, "author@example.com")
	svc := NewProblemService(repository.NewProblemRepository(db), nil)

	problem, err := svc.CreateProblem(author.ID, CreateProblemInput{
		Title:       "Two Sum",
		Description: "Given an array of integers, return indices.",
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProblem(author.ID, problem.ID))
	require.ErrorIs(t, svc.DeleteProblem(author.ID, problem.ID), ErrProblemNotFound)

	_, err = svc.GetProblem(problem.ID)
	require.ErrorIs(t, err, ErrProblemNotFound)
}

func TestProblemService_GetProblem_RoundTrip(t *testing.T) {
	db := setupServiceDB(t)
	author := createTestUser(t, db, "author@example.com")
	svc := NewProblemService(repository.NewProblemRepository(db), nil)

	created, err := svc.CreateProblem(author.ID, CreateProblemInput{
		Title:       "Two Sum",
		Description: "Given an array of integers, return indices.",
		Codes:       models.CodeSet{JS: "function twoSum(){}"},
		Tags:        []string{"array"},
	})
	require.NoError(t, err)

	listed, _, err := svc.ListProblems(ListProblemsInput{Tag: "array"})
	require.NoError(t, err)
	require.Len(t, listed, 1)

	fetched, err := svc.GetProblem(listed[0].ID)
	require.NoError(t, err)
	require.Equal(t, created.ID, fetched.ID)
	require.Equal(t, listed[0].Title, fetched.Title)
	require.Equal(t, listed[0].Codes, fetched.Codes)
	require.Equal(t, listed[0].Tags, fetched.Tags)
	require.True(t, listed[0].CreatedAt.Equal(fetched.CreatedAt))
}

func TestProblemService_ListProblems_DeterministicForEqualTimestamps(t *testing.T) {
	db := setupServiceDB(t)
	author := createTestUser(t, db, "author@example.com")
	svc := NewProblemService(repository.NewProblemRepository(db), nil)

	// Insert directly to force identical creation times
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for _, title := range []string{"First", "Second", "Third"} {
		require.NoError(t, db.Create(&models.Problem{
			Title:       title,
			Description: "A description long enough to pass validation.",
			AuthorID:    author.ID,
			CreatedAt:   at,
			UpdatedAt:   at,
		}).Error)
	}

	var first []uint64
	for i := 0; i < 3; i++ {
		problems, _, err := svc.ListProblems(ListProblemsInput{})
		require.NoError(t, err)

		ids := make([]uint64, len(problems))
		for j, p := range problems {
			ids[j] = p.ID
		}
		if first == nil {
			first = ids
			// Equal timestamps fall back to ascending id
			require.Len(t, ids, 3)
			require.Less(t, ids[0], ids[1])
			require.Less(t, ids[1], ids[2])
		} else {
			require.Equal(t, first, ids)
		}
	}
}

func TestProblemService_ListProblems_RejectsUnknownLanguage(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewProblemService(repository.NewProblemRepository(db), nil)

	_, _, err := svc.ListProblems(ListProblemsInput{Language: "python"})
	require.ErrorIs(t, err, ErrInvalidLanguage)
}
