package service

import (
	"context"
	"time"

	"skill_portal_backend/internal/model"
	"skill_portal_backend/internal/repository"
	"skill_portal_backend/internal/util"
	"skill_portal_backend/pkg/monitoring"
	"skill_portal_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
)

type QuizService struct {
	QuizRepo     *repository.QuizRepository
	QuestionRepo *repository.QuestionRepository
	SkillRepo    *repository.SkillRepository

	now func() time.Time
}

func NewQuizService(quizRepo *repository.QuizRepository, questionRepo *repository.QuestionRepository, skillRepo *repository.SkillRepository) *QuizService {
	return &QuizService{
		QuizRepo:     quizRepo,
		QuestionRepo: questionRepo,
		SkillRepo:    skillRepo,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

type SubmitAnswer struct {
	QuestionID uint   `json:"questionId" binding:"required,gt=0"`
	Selected   string `json:"selected" binding:"max=32"`
}

type SubmitQuizRequest struct {
	SkillID uint           `json:"skillId" binding:"required,gt=0"`
	Answers []SubmitAnswer `json:"answers" binding:"required,min=1,dive"`
}

// ScoreAnswers 逐题比对，返回得分和待写入的答案行。
// selected 为空时永远不算对。
func ScoreAnswers(answers []SubmitAnswer, correct map[uint]string) (int, []model.QuizAnswer) {
	score := 0
	rows := make([]model.QuizAnswer, 0, len(answers))
	for _, a := range answers {
		ok := a.Selected != "" && a.Selected == correct[a.QuestionID]
		if ok {
			score++
		}
		rows = append(rows, model.QuizAnswer{
			QuestionID: a.QuestionID,
			Selected:   a.Selected,
			IsCorrect:  ok,
		})
	}
	return score, rows
}

func distinctQuestionIDs(answers []SubmitAnswer) ([]uint, bool) {
	seen := make(map[uint]struct{}, len(answers))
	ids := make([]uint, 0, len(answers))
	for _, a := range answers {
		if _, dup := seen[a.QuestionID]; dup {
			return nil, false
		}
		seen[a.QuestionID] = struct{}{}
		ids = append(ids, a.QuestionID)
	}
	return ids, true
}

// Submit 校验题目集合、评分并在一个事务中落库
func (s *QuizService) Submit(ctx context.Context, userID uint, req SubmitQuizRequest) (attempt *model.QuizAttempt, err error) {
	ctx, span := tracing.StartSpan(ctx, "quiz.submit",
		attribute.Int("quiz.user_id", int(userID)),
		attribute.Int("quiz.skill_id", int(req.SkillID)),
		attribute.Int("quiz.answers", len(req.Answers)),
	)
	defer func() {
		tracing.EndSpan(span, err)
		if attempt != nil {
			monitoring.ObserveQuiz(attempt.Score, attempt.Total, err)
		} else {
			monitoring.ObserveQuiz(0, 0, err)
		}
	}()

	startedAt := s.now()

	ids, ok := distinctQuestionIDs(req.Answers)
	if !ok || len(ids) == 0 {
		return nil, util.ErrInvalidQuestionSet
	}

	questions, err := s.QuestionRepo.FindBySkillAndIDs(ctx, req.SkillID, ids)
	if err != nil {
		return nil, err
	}
	if len(questions) != len(ids) {
		return nil, util.ErrInvalidQuestionSet
	}

	correct := make(map[uint]string, len(questions))
	for _, q := range questions {
		correct[q.ID] = q.CorrectOption
	}
	score, rows := ScoreAnswers(req.Answers, correct)

	attempt = &model.QuizAttempt{
		UserID:      userID,
		SkillID:     req.SkillID,
		Score:       score,
		Total:       len(req.Answers),
		StartedAt:   startedAt,
		SubmittedAt: s.now(),
	}
	if err = s.QuizRepo.CreateAttemptWithAnswers(ctx, attempt, rows); err != nil {
		attempt = nil
		return nil, err
	}
	return attempt, nil
}

// ListAttempts 普通用户只能看自己的记录；管理员可指定 userID，0 表示全部
func (s *QuizService) ListAttempts(ctx context.Context, p util.Principal, userID uint, pg util.Pagination) ([]repository.AttemptRow, int64, error) {
	target := p.Sub
	if p.IsAdmin() {
		target = userID
	} else if userID != 0 && userID != p.Sub {
		return nil, 0, util.ErrPermissionDenied
	}
	return s.QuizRepo.ListAttempts(ctx, target, pg)
}

func (s *QuizService) GetAttempt(ctx context.Context, p util.Principal, id uint) (*model.QuizAttempt, error) {
	attempt, err := s.QuizRepo.FindAttempt(ctx, id)
	if err != nil {
		return nil, err
	}
	if attempt.UserID != p.Sub && !p.IsAdmin() {
		return nil, util.ErrPermissionDenied
	}
	return attempt, nil
}
