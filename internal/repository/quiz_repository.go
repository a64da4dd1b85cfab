package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"skill_portal_backend/internal/model"
	"skill_portal_backend/internal/util"

	"gorm.io/gorm"
)

const answerBatchSize = 200

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

// CreateAttemptWithAnswers 在同一事务中写入答题记录及其全部答案，任一步失败整体回滚
func (r *QuizRepository) CreateAttemptWithAnswers(ctx context.Context, attempt *model.QuizAttempt, answers []model.QuizAnswer) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		attempt.Answers = nil
		if err := tx.Create(attempt).Error; err != nil {
			return fmt.Errorf("insert attempt: %w", err)
		}

		if len(answers) == 0 {
			return nil
		}
		for i := range answers {
			answers[i].AttemptID = attempt.ID
		}
		if err := tx.CreateInBatches(answers, answerBatchSize).Error; err != nil {
			return fmt.Errorf("insert answers: %w", err)
		}
		attempt.Answers = answers
		return nil
	})
}

// AttemptRow 列表行，附带技能名称
type AttemptRow struct {
	ID          uint      `json:"id"`
	UserID      uint      `json:"userId"`
	SkillID     uint      `json:"skillId"`
	Skill       string    `json:"skill"`
	Score       int       `json:"score"`
	Total       int       `json:"total"`
	StartedAt   time.Time `json:"startedAt"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// ListAttempts userID 为 0 时返回所有用户
func (r *QuizRepository) ListAttempts(ctx context.Context, userID uint, pg util.Pagination) ([]AttemptRow, int64, error) {
	base := r.DB.WithContext(ctx).Table("quiz_attempts qa")
	if userID > 0 {
		base = base.Where("qa.user_id = ?", userID)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	rows := []AttemptRow{}
	err := base.Session(&gorm.Session{}).
		Select("qa.id, qa.user_id, qa.skill_id, sc.name AS skill, qa.score, qa.total, qa.started_at, qa.submitted_at").
		Joins("JOIN skill_categories sc ON sc.id = qa.skill_id").
		Order("qa.started_at DESC").Order("qa.id DESC").
		Offset(pg.Offset()).Limit(pg.Limit()).
		Scan(&rows).Error
	return rows, total, err
}

func (r *QuizRepository) FindAttempt(ctx context.Context, id uint) (*model.QuizAttempt, error) {
	var attempt model.QuizAttempt
	err := r.DB.WithContext(ctx).
		Preload("Answers", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&attempt, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *QuizRepository) CountAttempts(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.QuizAttempt{}).Count(&n).Error
	return n, err
}

func (r *QuizRepository) CountAnswers(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.QuizAnswer{}).Count(&n).Error
	return n, err
}
