package service

import (
	"context"
	"fmt"
	"quizmaster_backend/internal/model"
	"quizmaster_backend/internal/util"
	"time"

	"github.com/google/uuid"
)

// QuizDetails 测验的基本信息
type QuizDetails struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Subject     string `json:"subject"`
	TimeLimit   int    `json:"timeLimit"`
}

// QuestionInput 正在编辑、尚未加入测验的题目
type QuestionInput struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
}

func emptyQuestionInput() QuestionInput {
	return QuestionInput{Options: make([]string, model.OptionsPerQuestion)}
}

// QuizWriter persists a finished quiz document in one write.
type QuizWriter interface {
	Create(ctx context.Context, quiz *model.Quiz) error
}

// QuizBuilder accumulates finalized questions in memory; nothing is written
// until Submit.
type QuizBuilder struct {
	Details   QuizDetails      `json:"details"`
	Questions []model.Question `json:"questions"`
	Current   QuestionInput    `json:"current"`

	newID func() string
	now   func() time.Time
}

func NewQuizBuilder(defaultTimeLimit int) *QuizBuilder {
	if defaultTimeLimit <= 0 {
		defaultTimeLimit = model.DefaultTimeLimit
	}
	b := &QuizBuilder{
		Details:   QuizDetails{TimeLimit: defaultTimeLimit},
		Questions: []model.Question{},
		Current:   emptyQuestionInput(),
	}
	b.init()
	return b
}

func (b *QuizBuilder) init() {
	if b.newID == nil {
		b.newID = func() string { return uuid.New().String() }
	}
	if b.now == nil {
		b.now = time.Now
	}
	if b.Questions == nil {
		b.Questions = []model.Question{}
	}
	if len(b.Current.Options) != model.OptionsPerQuestion {
		opts := make([]string, model.OptionsPerQuestion)
		copy(opts, b.Current.Options)
		b.Current.Options = opts
	}
}

func (b *QuizBuilder) SetDetails(d QuizDetails) {
	b.Details = d
}

// SetCurrent replaces the in-progress question.
func (b *QuizBuilder) SetCurrent(in QuestionInput) {
	b.Current = in
	b.init()
}

// AddQuestion validates the in-progress question and, if complete, appends it
// to the list and resets the in-progress fields. On failure the list is left
// untouched and the error names the missing fields.
func (b *QuizBuilder) AddQuestion() (*model.Question, error) {
	b.init()
	in := b.Current

	var fields []string
	if blank(in.Question) {
		fields = append(fields, "question")
	}
	for i, opt := range in.Options {
		if blank(opt) {
			fields = append(fields, fmt.Sprintf("options[%d]", i))
		}
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Message: "please fill in all question fields and options", Fields: fields}
	}
	if in.CorrectAnswer < 0 || in.CorrectAnswer >= model.OptionsPerQuestion {
		return nil, &ValidationError{Message: "correct answer must point at one of the options", Fields: []string{"correctAnswer"}}
	}

	q := model.Question{
		ID:            b.newID(),
		Question:      in.Question,
		Options:       append([]string(nil), in.Options...),
		CorrectAnswer: in.CorrectAnswer,
		Type:          model.QuestionTypeMultipleChoice,
	}
	b.Questions = append(b.Questions, q)
	b.Current = emptyQuestionInput()
	return &q, nil
}

// Add is SetCurrent followed by AddQuestion.
func (b *QuizBuilder) Add(in QuestionInput) (*model.Question, error) {
	if len(in.Options) > model.OptionsPerQuestion {
		return nil, &ValidationError{Message: "a question has exactly four options", Fields: []string{"options"}}
	}
	b.SetCurrent(in)
	return b.AddQuestion()
}

func (b *QuizBuilder) RemoveQuestion(id string) error {
	for i, q := range b.Questions {
		if q.ID == id {
			b.Questions = append(b.Questions[:i:i], b.Questions[i+1:]...)
			return nil
		}
	}
	return util.ErrQuestionNotFound
}

// Build turns the accumulated state into a quiz document without writing it.
func (b *QuizBuilder) Build() (*model.Quiz, error) {
	b.init()
	if len(b.Questions) == 0 {
		return nil, util.ErrNoQuestions
	}

	var fields []string
	if blank(b.Details.Title) {
		fields = append(fields, "title")
	}
	if blank(b.Details.Subject) {
		fields = append(fields, "subject")
	}
	if b.Details.TimeLimit < 1 {
		fields = append(fields, "timeLimit")
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Message: "quiz details are incomplete", Fields: fields}
	}

	questions := make([]model.Question, len(b.Questions))
	copy(questions, b.Questions)

	quiz := &model.Quiz{
		Title:       b.Details.Title,
		Description: b.Details.Description,
		Subject:     b.Details.Subject,
		TimeLimit:   b.Details.TimeLimit,
		Questions:   questions,
		Active:      true,
	}
	quiz.CreatedAt = b.now()
	return quiz, nil
}

// Submit writes the quiz as a single document.
func (b *QuizBuilder) Submit(ctx context.Context, w QuizWriter) (*model.Quiz, error) {
	quiz, err := b.Build()
	if err != nil {
		return nil, err
	}
	if err := w.Create(ctx, quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}
