package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// TimeRange 闭区间，零值表示不限
type TimeRange struct {
	From time.Time
	To   time.Time
}

// SkillSums 某技能的得分与题数合计
type SkillSums struct {
	SkillID  uint   `json:"skillId"`
	Skill    string `json:"skill"`
	SumScore int64  `json:"sumScore"`
	SumTotal int64  `json:"sumTotal"`
}

type ReportRepository struct {
	DB *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{DB: db}
}

func (r *ReportRepository) sums(ctx context.Context, userID uint, rng TimeRange) ([]SkillSums, error) {
	query := r.DB.WithContext(ctx).Table("quiz_attempts qa").
		Select("qa.skill_id AS skill_id, sc.name AS skill, COALESCE(SUM(qa.score), 0) AS sum_score, COALESCE(SUM(qa.total), 0) AS sum_total").
		Joins("JOIN skill_categories sc ON sc.id = qa.skill_id")

	if userID > 0 {
		query = query.Where("qa.user_id = ?", userID)
	}
	if !rng.From.IsZero() {
		query = query.Where("qa.started_at >= ?", rng.From)
	}
	if !rng.To.IsZero() {
		query = query.Where("qa.started_at <= ?", rng.To)
	}

	rows := []SkillSums{}
	err := query.Group("qa.skill_id, sc.name").Order("sc.name ASC").Scan(&rows).Error
	return rows, err
}

// UserSums 某用户按技能汇总
func (r *ReportRepository) UserSums(ctx context.Context, userID uint, rng TimeRange) ([]SkillSums, error) {
	return r.sums(ctx, userID, rng)
}

// GlobalSums 全体用户按技能汇总
func (r *ReportRepository) GlobalSums(ctx context.Context, rng TimeRange) ([]SkillSums, error) {
	return r.sums(ctx, 0, rng)
}
