package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"skill_portal_backend/internal/model"
	"skill_portal_backend/internal/repository"
	"skill_portal_backend/pkg/logger"
	"skill_portal_backend/pkg/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ExportService 将题库导出为 JSON 写入对象存储
type ExportService struct {
	QuestionRepo *repository.QuestionRepository
	SkillRepo    *repository.SkillRepository
	Storage      storage.Provider
}

func NewExportService(questionRepo *repository.QuestionRepository, skillRepo *repository.SkillRepository, provider storage.Provider) *ExportService {
	return &ExportService{QuestionRepo: questionRepo, SkillRepo: skillRepo, Storage: provider}
}

// QuestionBank 导出文件内容
type QuestionBank struct {
	Skill      model.SkillCategory `json:"skill"`
	ExportedAt time.Time           `json:"exportedAt"`
	Questions  []model.Question    `json:"questions"`
}

type ExportResult struct {
	Key   string `json:"key"`
	URL   string `json:"url"`
	Count int    `json:"count"`
}

func (s *ExportService) ExportSkill(ctx context.Context, skillID uint) (*ExportResult, error) {
	skill, err := s.SkillRepo.FindByID(ctx, skillID)
	if err != nil {
		return nil, err
	}
	questions, err := s.QuestionRepo.ListBySkill(ctx, skillID)
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(QuestionBank{
		Skill:      *skill,
		ExportedAt: time.Now().UTC(),
		Questions:  questions,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode question bank: %w", err)
	}

	key := fmt.Sprintf("questions/skill-%d-%s.json", skillID, uuid.NewString())
	url, err := storage.PutBytes(ctx, s.Storage, key, data, "application/json")
	if err != nil {
		return nil, fmt.Errorf("upload question bank: %w", err)
	}

	logger.Log.Info("Question bank exported",
		zap.Uint("skillId", skillID),
		zap.String("key", key),
		zap.Int("count", len(questions)),
	)
	return &ExportResult{Key: key, URL: url, Count: len(questions)}, nil
}
