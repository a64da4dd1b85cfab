package service

import (
	"context"

	"skill_portal_backend/internal/model"
	"skill_portal_backend/internal/repository"
	"skill_portal_backend/internal/util"
)

type QuestionService struct {
	Repo      *repository.QuestionRepository
	SkillRepo *repository.SkillRepository
}

func NewQuestionService(repo *repository.QuestionRepository, skillRepo *repository.SkillRepository) *QuestionService {
	return &QuestionService{Repo: repo, SkillRepo: skillRepo}
}

type CreateQuestionReq struct {
	SkillID       uint              `json:"skillId" binding:"required,gt=0"`
	Text          string            `json:"text" binding:"required"`
	Options       map[string]string `json:"options" binding:"required,min=2"`
	CorrectOption string            `json:"correctOption" binding:"required,max=32"`
}

type UpdateQuestionReq struct {
	Text          *string           `json:"text" binding:"omitempty,min=1"`
	Options       map[string]string `json:"options" binding:"omitempty,min=2"`
	CorrectOption *string           `json:"correctOption" binding:"omitempty,min=1,max=32"`
}

func invalidQuestion(err error) error {
	return util.NewValidationError(err.Error())
}

func (s *QuestionService) List(ctx context.Context, skillID uint, pg util.Pagination) ([]model.Question, int64, error) {
	return s.Repo.List(ctx, skillID, pg)
}

func (s *QuestionService) Get(ctx context.Context, id uint) (*model.Question, error) {
	return s.Repo.FindByID(ctx, id)
}

func (s *QuestionService) Create(ctx context.Context, req CreateQuestionReq) (*model.Question, error) {
	if _, err := s.SkillRepo.FindByID(ctx, req.SkillID); err != nil {
		return nil, err
	}

	q := &model.Question{
		SkillID:       req.SkillID,
		Text:          req.Text,
		Options:       model.Options(req.Options),
		CorrectOption: req.CorrectOption,
	}
	if err := q.Validate(); err != nil {
		return nil, invalidQuestion(err)
	}
	if err := s.Repo.Create(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

// Update 合并后再校验，保证 correctOption 始终在 options 中
func (s *QuestionService) Update(ctx context.Context, id uint, req UpdateQuestionReq) (*model.Question, error) {
	q, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Text != nil {
		q.Text = *req.Text
	}
	if req.Options != nil {
		q.Options = model.Options(req.Options)
	}
	if req.CorrectOption != nil {
		q.CorrectOption = *req.CorrectOption
	}
	if err := q.Validate(); err != nil {
		return nil, invalidQuestion(err)
	}
	if err := s.Repo.Update(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *QuestionService) Delete(ctx context.Context, id uint) error {
	return s.Repo.Delete(ctx, id)
}

// ListForQuiz 答题用题目列表，不下发正确答案
func (s *QuestionService) ListForQuiz(ctx context.Context, skillID uint) ([]model.PublicQuestion, error) {
	if _, err := s.SkillRepo.FindByID(ctx, skillID); err != nil {
		return nil, err
	}
	qs, err := s.Repo.ListBySkill(ctx, skillID)
	if err != nil {
		return nil, err
	}
	out := make([]model.PublicQuestion, 0, len(qs))
	for i := range qs {
		out = append(out, qs[i].Public())
	}
	return out, nil
}
