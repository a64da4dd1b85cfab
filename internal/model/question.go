package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// Options 选项标签 -> 选项文本，以 JSON 存储
type Options map[string]string

func (o Options) Value() (driver.Value, error) {
	if o == nil {
		return "{}", nil
	}
	b, err := json.Marshal(o)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (o *Options) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		*o = Options{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported options column type %T", value)
	}
	out := Options{}
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*o = out
	return nil
}

func (o Options) Has(label string) bool {
	_, ok := o[label]
	return ok
}

var (
	ErrTooFewOptions      = errors.New("options must contain at least 2 entries")
	ErrEmptyOptionLabel   = errors.New("option labels must be non-empty")
	ErrCorrectNotInOption = errors.New("correctOption must exist in options")
)

// swagger:model Question
type Question struct {
	BaseModel
	SkillID       uint           `gorm:"not null;index" json:"skillId"`
	Skill         *SkillCategory `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Text          string         `gorm:"type:text;not null" json:"text"`
	Options       Options        `gorm:"type:text;not null" json:"options"`
	CorrectOption string         `gorm:"size:32;not null" json:"correctOption"`
}

func (Question) TableName() string {
	return "questions"
}

// Validate 检查 correct_option ∈ keys(options)
func (q *Question) Validate() error {
	if len(q.Options) < 2 {
		return ErrTooFewOptions
	}
	for label := range q.Options {
		if label == "" {
			return ErrEmptyOptionLabel
		}
	}
	if !q.Options.Has(q.CorrectOption) {
		return ErrCorrectNotInOption
	}
	return nil
}

// PublicQuestion 答题时下发给客户端的题目，不含正确答案
type PublicQuestion struct {
	ID      uint    `json:"id"`
	SkillID uint    `json:"skillId"`
	Text    string  `json:"text"`
	Options Options `json:"options"`
}

func (q *Question) Public() PublicQuestion {
	return PublicQuestion{ID: q.ID, SkillID: q.SkillID, Text: q.Text, Options: q.Options}
}
