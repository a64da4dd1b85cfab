package model

import "time"

// swagger:model QuizAttempt
type QuizAttempt struct {
	ID          uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint           `gorm:"not null;index" json:"userId"`
	User        *User          `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	SkillID     uint           `gorm:"not null;index" json:"skillId"`
	Skill       *SkillCategory `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Score       int            `gorm:"not null" json:"score"`
	Total       int            `gorm:"not null" json:"total"`
	StartedAt   time.Time      `gorm:"not null;index" json:"startedAt"`
	SubmittedAt time.Time      `gorm:"not null" json:"submittedAt"`
	Answers     []QuizAnswer   `gorm:"foreignKey:AttemptID;constraint:OnDelete:CASCADE" json:"answers,omitempty"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}

// swagger:model QuizAnswer
type QuizAnswer struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"-"`
	AttemptID  uint   `gorm:"not null;index" json:"attemptId"`
	QuestionID uint   `gorm:"not null;index" json:"questionId"`
	Selected   string `gorm:"size:32;not null;default:''" json:"selected"`
	IsCorrect  bool   `gorm:"not null" json:"isCorrect"`
}

func (QuizAnswer) TableName() string {
	return "quiz_answers"
}
