package service

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"skill_portal_backend/internal/repository"
	"skill_portal_backend/internal/util"
)

type ReportService struct {
	Repo *repository.ReportRepository

	now func() time.Time
}

func NewReportService(repo *repository.ReportRepository) *ReportService {
	return &ReportService{Repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// ReportQuery 报表时间范围参数
type ReportQuery struct {
	From   string `form:"from"`
	To     string `form:"to"`
	Period string `form:"period"` // week | month，其他值视为不限时间
}

type PerformanceItem struct {
	SkillID       uint   `json:"skillId"`
	Skill         string `json:"skill"`
	AvgPercent    int    `json:"avgPercent"`
	AttemptsTotal int64  `json:"attemptsTotal"`
}

type SkillGap struct {
	SkillID   uint   `json:"skillId"`
	Skill     string `json:"skill"`
	UserAvg   int    `json:"userAvg"`
	GlobalAvg int    `json:"globalAvg"`
	Gap       int    `json:"gap"`
}

// Percent round(100*score/total)，total 为 0 时返回 0
func Percent(score, total int64) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(score) / float64(total)))
}

func parseReportTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(util.DateFormat, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// ResolveRange from/to 优先，其次 period；均未给出时不限时间
func ResolveRange(q ReportQuery, now time.Time) (repository.TimeRange, error) {
	var rng repository.TimeRange
	if q.From != "" || q.To != "" {
		if q.From != "" {
			t, err := parseReportTime(q.From)
			if err != nil {
				return rng, util.NewValidationError("invalid from date", util.FieldError{Field: "from", Rule: "datetime"})
			}
			rng.From = t
		}
		if q.To != "" {
			t, err := parseReportTime(q.To)
			if err != nil {
				return rng, util.NewValidationError("invalid to date", util.FieldError{Field: "to", Rule: "datetime"})
			}
			rng.To = t
		}
		if !rng.From.IsZero() && !rng.To.IsZero() && rng.To.Before(rng.From) {
			return rng, util.NewValidationError("to must not be before from", util.FieldError{Field: "to", Rule: "gtefield", Param: "from"})
		}
		return rng, nil
	}

	switch strings.ToLower(strings.TrimSpace(q.Period)) {
	case "week":
		rng.From = now.AddDate(0, 0, -7)
	case "month":
		rng.From = now.AddDate(0, -1, 0)
	}
	return rng, nil
}

func BuildPerformance(sums []repository.SkillSums) []PerformanceItem {
	items := make([]PerformanceItem, 0, len(sums))
	for _, s := range sums {
		items = append(items, PerformanceItem{
			SkillID:       s.SkillID,
			Skill:         s.Skill,
			AvgPercent:    Percent(s.SumScore, s.SumTotal),
			AttemptsTotal: s.SumTotal,
		})
	}
	return items
}

// BuildGaps 只包含用户做过的技能，按 gap 升序，相同时按技能名
func BuildGaps(user, global []repository.SkillSums) []SkillGap {
	globalBySkill := make(map[uint]repository.SkillSums, len(global))
	for _, g := range global {
		globalBySkill[g.SkillID] = g
	}

	gaps := make([]SkillGap, 0, len(user))
	for _, u := range user {
		g := globalBySkill[u.SkillID]
		userAvg := Percent(u.SumScore, u.SumTotal)
		globalAvg := Percent(g.SumScore, g.SumTotal)
		gaps = append(gaps, SkillGap{
			SkillID:   u.SkillID,
			Skill:     u.Skill,
			UserAvg:   userAvg,
			GlobalAvg: globalAvg,
			Gap:       userAvg - globalAvg,
		})
	}

	sort.SliceStable(gaps, func(i, j int) bool {
		if gaps[i].Gap != gaps[j].Gap {
			return gaps[i].Gap < gaps[j].Gap
		}
		return gaps[i].Skill < gaps[j].Skill
	})
	return gaps
}

func authorizeReport(p util.Principal, userID uint) error {
	if p.Sub != userID && !p.IsAdmin() {
		return util.ErrPermissionDenied
	}
	return nil
}

func (s *ReportService) Performance(ctx context.Context, p util.Principal, userID uint, q ReportQuery) ([]PerformanceItem, error) {
	if err := authorizeReport(p, userID); err != nil {
		return nil, err
	}
	rng, err := ResolveRange(q, s.now())
	if err != nil {
		return nil, err
	}
	sums, err := s.Repo.UserSums(ctx, userID, rng)
	if err != nil {
		return nil, err
	}
	return BuildPerformance(sums), nil
}

func (s *ReportService) SkillGaps(ctx context.Context, p util.Principal, userID uint, q ReportQuery) ([]SkillGap, error) {
	if err := authorizeReport(p, userID); err != nil {
		return nil, err
	}
	rng, err := ResolveRange(q, s.now())
	if err != nil {
		return nil, err
	}
	user, err := s.Repo.UserSums(ctx, userID, rng)
	if err != nil {
		return nil, err
	}
	global, err := s.Repo.GlobalSums(ctx, rng)
	if err != nil {
		return nil, err
	}
	return BuildGaps(user, global), nil
}
