package model

import "time"

const DefaultTimeLimit = 30

// PlatformSettings 平台设置，表中只有一行
// swagger:model PlatformSettings
type PlatformSettings struct {
	ID                  uint      `gorm:"primaryKey" json:"-"`
	ShuffleQuestions    bool      `json:"shuffleQuestions"`
	ShuffleAnswers      bool      `json:"shuffleAnswers"`
	ShowCorrectAnswers  bool      `json:"showCorrectAnswers"`
	DefaultTimeLimit    int       `gorm:"default:30" json:"defaultTimeLimit"`
	AllowProfileEditing bool      `json:"allowProfileEditing"`
	ShowLeaderboard     bool      `json:"showLeaderboard"`
	EmailNotifications  bool      `json:"emailNotifications"`
	QuizReminders       bool      `json:"quizReminders"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

func (PlatformSettings) TableName() string {
	return "platform_settings"
}

func DefaultPlatformSettings() PlatformSettings {
	return PlatformSettings{
		ID:                 1,
		ShuffleQuestions:   true,
		ShuffleAnswers:     true,
		ShowCorrectAnswers: true,
		DefaultTimeLimit:   DefaultTimeLimit,
		ShowLeaderboard:    true,
	}
}
