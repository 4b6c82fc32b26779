package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizmaster_backend/internal/model"
	"quizmaster_backend/internal/session"
	"quizmaster_backend/internal/util"
)

func setupQuizService(t *testing.T) (*QuizService, *memQuizRepo, *session.Manager, *memUploader) {
	t.Helper()
	repo := &memQuizRepo{}
	settings := NewSettingsService(&memSettingsRepo{})
	uploader := &memUploader{}
	store := session.NewMemoryStore()
	manager := session.NewManager(store, time.Hour)
	return NewQuizService(repo, store, settings, uploader), repo, manager, uploader
}

func signIn(t *testing.T, m *session.Manager, role model.UserRole) *session.Session {
	t.Helper()
	s, err := m.SignIn(context.Background(), role, "identity-1", "admin", "admin@quizmaster.com")
	require.NoError(t, err)
	return s
}

func TestQuizService_CreateQuiz(t *testing.T) {
	svc, repo, _, _ := setupQuizService(t)
	ctx := context.Background()

	quiz, err := svc.CreateQuiz(ctx, CreateQuizRequest{
		QuizDetails: QuizDetails{Title: "Math 1", Subject: "Math", TimeLimit: 15},
		Questions: []QuestionInput{
			question("1+1?", 2, "0", "1", "2", "3"),
			question("0*5?", 0, "0", "5", "10", "50"),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.writes)
	assert.Len(t, quiz.Questions, 2)
	assert.Equal(t, 15, quiz.TimeLimit)

	found, err := svc.GetQuiz(ctx, quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, "Math 1", found.Title)
}

func TestQuizService_CreateQuizUsesDefaultTimeLimit(t *testing.T) {
	svc, _, _, _ := setupQuizService(t)
	settings := svc.Settings.(*SettingsService)
	custom := model.DefaultPlatformSettings()
	custom.DefaultTimeLimit = 20
	_, err := settings.Update(context.Background(), custom)
	require.NoError(t, err)

	quiz, err := svc.CreateQuiz(context.Background(), CreateQuizRequest{
		QuizDetails: QuizDetails{Title: "History", Subject: "History"},
		Questions:   []QuestionInput{question("When?", 3)},
	})
	require.NoError(t, err)
	assert.Equal(t, 20, quiz.TimeLimit)
}

func TestQuizService_CreateQuizReportsQuestionIndex(t *testing.T) {
	svc, repo, _, _ := setupQuizService(t)

	_, err := svc.CreateQuiz(context.Background(), CreateQuizRequest{
		QuizDetails: QuizDetails{Title: "Math 1", Subject: "Math", TimeLimit: 15},
		Questions: []QuestionInput{
			question("ok", 0),
			question("", 0),
		},
	})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, []string{"questions[1].question"}, vErr.Fields)
	assert.Zero(t, repo.writes)
}

func TestQuizService_DraftLifecycle(t *testing.T) {
	svc, repo, manager, _ := setupQuizService(t)
	ctx := context.Background()
	sess := signIn(t, manager, model.RoleAdmin)

	draft, err := svc.CreateDraft(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultTimeLimit, draft.Builder.Details.TimeLimit)

	draft, err = svc.UpdateDraftDetails(ctx, sess, draft.ID, QuizDetails{Title: "Math 1", Subject: "Math", TimeLimit: 15})
	require.NoError(t, err)

	draft, err = svc.AddDraftQuestion(ctx, sess, draft.ID, question("1+1?", 2))
	require.NoError(t, err)
	draft, err = svc.AddDraftQuestion(ctx, sess, draft.ID, question("2+2?", 1))
	require.NoError(t, err)
	draft, err = svc.AddDraftQuestion(ctx, sess, draft.ID, question("0*5?", 0))
	require.NoError(t, err)
	require.Len(t, draft.Builder.Questions, 3)

	// 校验失败不改变草稿
	_, err = svc.AddDraftQuestion(ctx, sess, draft.ID, question("", 0))
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)

	draft, err = svc.RemoveDraftQuestion(ctx, sess, draft.ID, draft.Builder.Questions[1].ID)
	require.NoError(t, err)

	reloaded, err := svc.GetDraft(ctx, sess, draft.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Builder.Questions, 2)
	assert.Equal(t, "1+1?", reloaded.Builder.Questions[0].Question)
	assert.Equal(t, "0*5?", reloaded.Builder.Questions[1].Question)

	quiz, err := svc.SubmitDraft(ctx, sess, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.writes)
	assert.Equal(t, "Math 1", quiz.Title)
	require.Len(t, quiz.Questions, 2)
	assert.Equal(t, 2, quiz.Questions[0].CorrectAnswer)
	assert.Equal(t, 0, quiz.Questions[1].CorrectAnswer)

	_, err = svc.GetDraft(ctx, sess, draft.ID)
	assert.ErrorIs(t, err, util.ErrDraftNotFound)
}

func TestQuizService_SubmitEmptyDraftKeepsDraft(t *testing.T) {
	svc, repo, manager, _ := setupQuizService(t)
	ctx := context.Background()
	sess := signIn(t, manager, model.RoleAdmin)

	draft, err := svc.CreateDraft(ctx, sess)
	require.NoError(t, err)

	_, err = svc.SubmitDraft(ctx, sess, draft.ID)
	assert.ErrorIs(t, err, util.ErrNoQuestions)
	assert.Zero(t, repo.writes)

	_, err = svc.GetDraft(ctx, sess, draft.ID)
	assert.NoError(t, err)
}

func TestQuizService_DraftsAreLostAtSignOut(t *testing.T) {
	svc, _, manager, _ := setupQuizService(t)
	ctx := context.Background()
	sess := signIn(t, manager, model.RoleAdmin)

	draft, err := svc.CreateDraft(ctx, sess)
	require.NoError(t, err)

	other := signIn(t, manager, model.RoleAdmin)
	_, err = svc.GetDraft(ctx, other, draft.ID)
	assert.ErrorIs(t, err, util.ErrDraftNotFound)

	require.NoError(t, manager.SignOut(ctx, sess.ID))
	_, err = svc.GetDraft(ctx, sess, draft.ID)
	assert.ErrorIs(t, err, util.ErrDraftNotFound)
}

func TestQuizService_ExportQuiz(t *testing.T) {
	svc, _, _, uploader := setupQuizService(t)
	ctx := context.Background()

	quiz, err := svc.CreateQuiz(ctx, CreateQuizRequest{
		QuizDetails: QuizDetails{Title: "Math 1", Subject: "Math", TimeLimit: 15},
		Questions:   []QuestionInput{question("1+1?", 2)},
	})
	require.NoError(t, err)

	url, err := svc.ExportQuiz(ctx, quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, util.LocalFilesURLPrefix+"/exports/quizzes/"+quiz.ID+".json", url)

	var exported model.Quiz
	require.NoError(t, json.Unmarshal(uploader.files["exports/quizzes/"+quiz.ID+".json"], &exported))
	assert.Equal(t, quiz.ID, exported.ID)
	assert.Len(t, exported.Questions, 1)

	_, err = svc.ExportQuiz(ctx, "missing")
	assert.ErrorIs(t, err, util.ErrQuizNotFound)

	require.NoError(t, svc.DeleteExport(ctx, quiz.ID))
	assert.Empty(t, uploader.files)
	assert.ErrorIs(t, svc.DeleteExport(ctx, quiz.ID), util.ErrFileNotFound)
	assert.ErrorIs(t, svc.DeleteExport(ctx, "missing"), util.ErrQuizNotFound)
}

func TestQuizService_UpdateDraftWithoutTimeLimitKeepsCurrent(t *testing.T) {
	svc, repo, manager, _ := setupQuizService(t)
	ctx := context.Background()
	sess := signIn(t, manager, model.RoleAdmin)

	draft, err := svc.CreateDraft(ctx, sess)
	require.NoError(t, err)

	draft, err = svc.UpdateDraftDetails(ctx, sess, draft.ID, QuizDetails{Title: "Math 1", Subject: "Math"})
	require.NoError(t, err)
	assert.Equal(t, model.DefaultTimeLimit, draft.Builder.Details.TimeLimit)

	draft, err = svc.UpdateDraftDetails(ctx, sess, draft.ID, QuizDetails{Title: "Math 1", Subject: "Math", TimeLimit: 15})
	require.NoError(t, err)
	draft, err = svc.UpdateDraftDetails(ctx, sess, draft.ID, QuizDetails{Title: "Math 1b", Subject: "Math"})
	require.NoError(t, err)
	assert.Equal(t, 15, draft.Builder.Details.TimeLimit)

	_, err = svc.AddDraftQuestion(ctx, sess, draft.ID, question("1+1?", 2))
	require.NoError(t, err)
	quiz, err := svc.SubmitDraft(ctx, sess, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, 15, quiz.TimeLimit)
	assert.Equal(t, 1, repo.writes)
}
