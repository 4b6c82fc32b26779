package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"quizmaster_backend/internal/model"
	"quizmaster_backend/internal/session"
	"quizmaster_backend/internal/util"
	"quizmaster_backend/pkg/monitoring"
	"time"

	"github.com/google/uuid"
)

const draftFieldPrefix = "quiz_draft:"

type QuizStore interface {
	QuizWriter
	FindByID(ctx context.Context, id string) (*model.Quiz, error)
	List(ctx context.Context, activeOnly bool) ([]model.Quiz, error)
	Count(ctx context.Context, activeOnly bool) (int64, error)
}

// TimeLimitSource 提供新测验的默认时长
type TimeLimitSource interface {
	DefaultTimeLimit(ctx context.Context) int
}

// ObjectStore 测验导出文件所在的对象存储
type ObjectStore interface {
	Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, filename string) error
}

// CreateQuizRequest 一次性创建测验：基本信息加按顺序排列的题目
// swagger:model CreateQuizRequest
type CreateQuizRequest struct {
	QuizDetails
	Questions []QuestionInput `json:"questions"`
}

// QuizDraft 保存在会话中的未提交测验，随会话结束而丢失
// swagger:model QuizDraft
type QuizDraft struct {
	ID        string      `json:"id"`
	Builder   QuizBuilder `json:"builder"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

type QuizService struct {
	Repo     QuizStore
	Sessions session.Store
	Settings TimeLimitSource
	Storage  ObjectStore
}

func NewQuizService(repo QuizStore, sessions session.Store, settings TimeLimitSource, storage ObjectStore) *QuizService {
	return &QuizService{
		Repo:     repo,
		Sessions: sessions,
		Settings: settings,
		Storage:  storage,
	}
}

func (s *QuizService) defaultTimeLimit(ctx context.Context) int {
	if s.Settings == nil {
		return model.DefaultTimeLimit
	}
	return s.Settings.DefaultTimeLimit(ctx)
}

func (s *QuizService) NewBuilder(ctx context.Context) *QuizBuilder {
	return NewQuizBuilder(s.defaultTimeLimit(ctx))
}

// CreateQuiz 按顺序逐题校验后一次写入
func (s *QuizService) CreateQuiz(ctx context.Context, req CreateQuizRequest) (*model.Quiz, error) {
	b := s.NewBuilder(ctx)
	details := req.QuizDetails
	if details.TimeLimit == 0 {
		details.TimeLimit = b.Details.TimeLimit
	}
	b.SetDetails(details)

	for i, in := range req.Questions {
		if _, err := b.Add(in); err != nil {
			return nil, prefixFields(err, fmt.Sprintf("questions[%d].", i))
		}
	}

	return s.submit(ctx, b)
}

func (s *QuizService) submit(ctx context.Context, b *QuizBuilder) (*model.Quiz, error) {
	quiz, err := b.Submit(ctx, s.Repo)
	if err != nil {
		return nil, err
	}
	monitoring.QuizzesCreated.Inc()
	return quiz, nil
}

func prefixFields(err error, prefix string) error {
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		return err
	}
	fields := make([]string, len(vErr.Fields))
	for i, f := range vErr.Fields {
		fields[i] = prefix + f
	}
	return &ValidationError{Message: vErr.Message, Fields: fields}
}

func (s *QuizService) GetQuiz(ctx context.Context, id string) (*model.Quiz, error) {
	return s.Repo.FindByID(ctx, id)
}

func (s *QuizService) ListQuizzes(ctx context.Context, activeOnly bool) ([]model.Quiz, error) {
	return s.Repo.List(ctx, activeOnly)
}

// ExportQuiz 把测验文档以 JSON 写入对象存储并返回访问地址
func (s *QuizService) ExportQuiz(ctx context.Context, id string) (string, error) {
	quiz, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(quiz, "", "  ")
	if err != nil {
		return "", err
	}

	url, err := s.Storage.Upload(ctx, exportPath(quiz.ID), bytes.NewReader(data), int64(len(data)), util.MimeJSON)
	if err != nil {
		return "", fmt.Errorf("upload quiz export: %w", err)
	}
	return url, nil
}

// DeleteExport 删除测验的导出文件（其中包含正确答案）
func (s *QuizService) DeleteExport(ctx context.Context, id string) error {
	quiz, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	return s.Storage.Delete(ctx, exportPath(quiz.ID))
}

func exportPath(quizID string) string {
	return fmt.Sprintf("exports/quizzes/%s.json", quizID)
}

// 草稿

func (s *QuizService) CreateDraft(ctx context.Context, sess *session.Session) (*QuizDraft, error) {
	if sess == nil {
		return nil, util.ErrSessionNotFound
	}
	now := time.Now()
	draft := &QuizDraft{
		ID:        uuid.New().String(),
		Builder:   *s.NewBuilder(ctx),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.saveDraft(ctx, sess, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

func (s *QuizService) GetDraft(ctx context.Context, sess *session.Session, id string) (*QuizDraft, error) {
	if sess == nil {
		return nil, util.ErrSessionNotFound
	}
	raw, err := s.Sessions.GetData(ctx, sess, draftFieldPrefix+id)
	if errors.Is(err, session.ErrDataNotFound) {
		return nil, util.ErrDraftNotFound
	}
	if err != nil {
		return nil, err
	}

	var draft QuizDraft
	if err := json.Unmarshal(raw, &draft); err != nil {
		return nil, fmt.Errorf("decode quiz draft: %w", err)
	}
	draft.Builder.init()
	return &draft, nil
}

// UpdateDraftDetails 未提供时长时保留草稿当前的时长
func (s *QuizService) UpdateDraftDetails(ctx context.Context, sess *session.Session, id string, details QuizDetails) (*QuizDraft, error) {
	draft, err := s.GetDraft(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	if details.TimeLimit == 0 {
		details.TimeLimit = draft.Builder.Details.TimeLimit
		if details.TimeLimit < 1 {
			details.TimeLimit = s.defaultTimeLimit(ctx)
		}
	}
	draft.Builder.SetDetails(details)
	if err := s.saveDraft(ctx, sess, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// AddDraftQuestion 校验失败时草稿保持不变
func (s *QuizService) AddDraftQuestion(ctx context.Context, sess *session.Session, id string, in QuestionInput) (*QuizDraft, error) {
	draft, err := s.GetDraft(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	if _, err := draft.Builder.Add(in); err != nil {
		return nil, err
	}
	if err := s.saveDraft(ctx, sess, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

func (s *QuizService) RemoveDraftQuestion(ctx context.Context, sess *session.Session, id, questionID string) (*QuizDraft, error) {
	draft, err := s.GetDraft(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	if err := draft.Builder.RemoveQuestion(questionID); err != nil {
		return nil, err
	}
	if err := s.saveDraft(ctx, sess, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// SubmitDraft 写入测验并删除草稿；失败时草稿保留以便修改后重试
func (s *QuizService) SubmitDraft(ctx context.Context, sess *session.Session, id string) (*model.Quiz, error) {
	draft, err := s.GetDraft(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	quiz, err := s.submit(ctx, &draft.Builder)
	if err != nil {
		return nil, err
	}
	_ = s.Sessions.DeleteData(ctx, sess, draftFieldPrefix+id)
	return quiz, nil
}

func (s *QuizService) saveDraft(ctx context.Context, sess *session.Session, draft *QuizDraft) error {
	draft.UpdatedAt = time.Now()
	raw, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	return s.Sessions.PutData(ctx, sess, draftFieldPrefix+draft.ID, raw)
}
