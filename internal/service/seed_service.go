package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"skill_portal_backend/internal/model"
	"skill_portal_backend/internal/repository"
	"skill_portal_backend/internal/util"

	"gorm.io/gorm"
)

// SkillBundle 种子文件中的一个技能及其题目
type SkillBundle struct {
	Name        string         `json:"name"`
	Description *string        `json:"description"`
	Questions   []QuestionSeed `json:"questions"`
}

type QuestionSeed struct {
	Text          string            `json:"text"`
	Options       map[string]string `json:"options"`
	CorrectOption string            `json:"correctOption"`
}

func DecodeSkillBundles(r io.Reader) ([]SkillBundle, error) {
	var bundles []SkillBundle
	if err := json.NewDecoder(r).Decode(&bundles); err != nil {
		return nil, fmt.Errorf("decode skills file: %w", err)
	}
	return bundles, nil
}

// ImportSkills 在一个事务中导入；已存在的同名技能复用，题目追加
func ImportSkills(ctx context.Context, db *gorm.DB, bundles []SkillBundle) (skills int, questions int, err error) {
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		skillRepo := repository.NewSkillRepository(tx)
		questionRepo := repository.NewQuestionRepository(tx)

		for _, b := range bundles {
			if b.Name == "" {
				return util.NewValidationError("skill name is required")
			}
			skill, err := skillRepo.FindByName(ctx, b.Name)
			if errors.Is(err, util.ErrNotFound) {
				skill = &model.SkillCategory{Name: b.Name, Description: b.Description}
				if err := skillRepo.Create(ctx, skill); err != nil {
					return err
				}
				skills++
			} else if err != nil {
				return err
			}

			for i, qs := range b.Questions {
				q := &model.Question{
					SkillID:       skill.ID,
					Text:          qs.Text,
					Options:       model.Options(qs.Options),
					CorrectOption: qs.CorrectOption,
				}
				if err := q.Validate(); err != nil {
					return fmt.Errorf("skill %q question %d: %w", b.Name, i+1, err)
				}
				if err := questionRepo.Create(ctx, q); err != nil {
					return err
				}
				questions++
			}
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return skills, questions, nil
}
