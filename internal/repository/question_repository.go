package repository

import (
	"context"
	"errors"

	"skill_portal_backend/internal/model"
	"skill_portal_backend/internal/util"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) Create(ctx context.Context, q *model.Question) error {
	return r.DB.WithContext(ctx).Create(q).Error
}

func (r *QuestionRepository) FindByID(ctx context.Context, id uint) (*model.Question, error) {
	var q model.Question
	err := r.DB.WithContext(ctx).First(&q, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// List skillID 为 0 时不过滤
func (r *QuestionRepository) List(ctx context.Context, skillID uint, pg util.Pagination) ([]model.Question, int64, error) {
	query := r.DB.WithContext(ctx).Model(&model.Question{})
	if skillID > 0 {
		query = query.Where("skill_id = ?", skillID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	qs := []model.Question{}
	err := query.Order("created_at DESC").Order("id DESC").
		Offset(pg.Offset()).Limit(pg.Limit()).
		Find(&qs).Error
	return qs, total, err
}

func (r *QuestionRepository) ListBySkill(ctx context.Context, skillID uint) ([]model.Question, error) {
	qs := []model.Question{}
	err := r.DB.WithContext(ctx).Where("skill_id = ?", skillID).Order("id ASC").Find(&qs).Error
	return qs, err
}

// FindBySkillAndIDs 只返回属于该技能的题目
func (r *QuestionRepository) FindBySkillAndIDs(ctx context.Context, skillID uint, ids []uint) ([]model.Question, error) {
	qs := []model.Question{}
	if len(ids) == 0 {
		return qs, nil
	}
	err := r.DB.WithContext(ctx).
		Where("id IN ? AND skill_id = ?", ids, skillID).
		Find(&qs).Error
	return qs, err
}

func (r *QuestionRepository) Update(ctx context.Context, q *model.Question) error {
	return r.DB.WithContext(ctx).Save(q).Error
}

func (r *QuestionRepository) Delete(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&model.Question{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return util.ErrNotFound
	}
	return nil
}
