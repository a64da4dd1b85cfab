package repository

import (
	"context"
	"errors"

	"skill_portal_backend/internal/model"
	"skill_portal_backend/internal/util"

	"gorm.io/gorm"
)

type SkillRepository struct {
	DB *gorm.DB
}

func NewSkillRepository(db *gorm.DB) *SkillRepository {
	return &SkillRepository{DB: db}
}

func (r *SkillRepository) Create(ctx context.Context, skill *model.SkillCategory) error {
	err := r.DB.WithContext(ctx).Create(skill).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return util.ErrDuplicateName
	}
	return err
}

func (r *SkillRepository) FindByID(ctx context.Context, id uint) (*model.SkillCategory, error) {
	var skill model.SkillCategory
	err := r.DB.WithContext(ctx).First(&skill, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &skill, nil
}

func (r *SkillRepository) FindByName(ctx context.Context, name string) (*model.SkillCategory, error) {
	var skill model.SkillCategory
	err := r.DB.WithContext(ctx).Where("name = ?", name).First(&skill).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &skill, nil
}

func (r *SkillRepository) List(ctx context.Context, q string, pg util.Pagination) ([]model.SkillCategory, int64, error) {
	query := r.DB.WithContext(ctx).Model(&model.SkillCategory{})
	if q != "" {
		query = query.Where("name LIKE ?", "%"+q+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	skills := []model.SkillCategory{}
	err := query.Order("created_at DESC").Order("id DESC").
		Offset(pg.Offset()).Limit(pg.Limit()).
		Find(&skills).Error
	return skills, total, err
}

func (r *SkillRepository) Update(ctx context.Context, skill *model.SkillCategory) error {
	err := r.DB.WithContext(ctx).Save(skill).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return util.ErrDuplicateName
	}
	return err
}

// Delete 题目与答题记录通过外键级联删除
func (r *SkillRepository) Delete(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&model.SkillCategory{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return util.ErrNotFound
	}
	return nil
}
