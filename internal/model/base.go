package model

import (
	"time"
)

// swagger:model
type BaseModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AllModels AutoMigrate 使用的模型列表，顺序满足外键依赖
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&SkillCategory{},
		&Question{},
		&QuizAttempt{},
		&QuizAnswer{},
	}
}
