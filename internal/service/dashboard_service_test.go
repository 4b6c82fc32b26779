package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizmaster_backend/internal/model"
)

func TestDashboardService(t *testing.T) {
	quizzes := &memQuizRepo{}
	students := newMemStudentRepo()
	svc := NewDashboardService(quizzes, students)
	ctx := context.Background()

	require.NoError(t, quizzes.Create(ctx, &model.Quiz{Title: "Math 1", Active: true}))
	require.NoError(t, quizzes.Create(ctx, &model.Quiz{Title: "Old", Active: false}))
	require.NoError(t, students.Create(ctx, &model.Student{Username: "alice", Email: "alice@example.com"}))

	admin, err := svc.AdminDashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), admin.TotalQuizzes)
	assert.Equal(t, int64(1), admin.TotalStudents)
	assert.Zero(t, admin.AverageScore)
	assert.Zero(t, admin.TotalAttempts)
	assert.NotEmpty(t, admin.QuickActions)

	analytics, err := svc.Analytics(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), analytics.Metrics.ActiveStudents)
	assert.Zero(t, analytics.Metrics.TotalAttempts)
	assert.NotNil(t, analytics.TopStudents)
	assert.Empty(t, analytics.RecentActivity)

	student, err := svc.StudentDashboard(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", student.Username)
	assert.Equal(t, int64(1), student.AvailableQuizzes)
	assert.Zero(t, student.QuizzesTaken)
}

func TestSettingsService(t *testing.T) {
	svc := NewSettingsService(&memSettingsRepo{})
	ctx := context.Background()

	current, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultTimeLimit, current.DefaultTimeLimit)
	assert.True(t, current.ShuffleQuestions)

	current.DefaultTimeLimit = 0
	_, err = svc.Update(ctx, *current)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, []string{"defaultTimeLimit"}, vErr.Fields)

	current.DefaultTimeLimit = 45
	current.ShowLeaderboard = false
	saved, err := svc.Update(ctx, *current)
	require.NoError(t, err)
	assert.Equal(t, 45, saved.DefaultTimeLimit)
	assert.Equal(t, 45, svc.DefaultTimeLimit(ctx))

	reloaded, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.False(t, reloaded.ShowLeaderboard)
}
