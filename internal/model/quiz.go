package model

import "gorm.io/datatypes"

// QuestionTypeMultipleChoice is the only question type quizzes support.
const QuestionTypeMultipleChoice = "multiple-choice"

// OptionsPerQuestion is the fixed number of answer options of a question.
const OptionsPerQuestion = 4

// Question is embedded in a Quiz and never stored on its own.
// swagger:model Question
type Question struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Type          string   `json:"type"`
}

// swagger:model Quiz
type Quiz struct {
	UUIDBase
	Title       string                        `gorm:"size:255;not null" json:"title"`
	Description string                        `gorm:"type:text" json:"description"`
	Subject     string                        `gorm:"size:100;not null;index" json:"subject"`
	TimeLimit   int                           `gorm:"not null" json:"timeLimit"` // Minutes
	Questions   datatypes.JSONSlice[Question] `gorm:"type:json" json:"questions"`
	Active      bool                          `gorm:"default:true;index" json:"active"`
}

func (Quiz) TableName() string {
	return "quizzes"
}
