package service

import (
	"context"

	"skill_portal_backend/internal/model"
	"skill_portal_backend/internal/repository"
	"skill_portal_backend/internal/util"
)

type SkillService struct {
	Repo *repository.SkillRepository
}

func NewSkillService(repo *repository.SkillRepository) *SkillService {
	return &SkillService{Repo: repo}
}

type CreateSkillReq struct {
	Name        string  `json:"name" binding:"required,max=100"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
}

type UpdateSkillReq struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
}

func (s *SkillService) List(ctx context.Context, q string, pg util.Pagination) ([]model.SkillCategory, int64, error) {
	return s.Repo.List(ctx, q, pg)
}

func (s *SkillService) Get(ctx context.Context, id uint) (*model.SkillCategory, error) {
	return s.Repo.FindByID(ctx, id)
}

func (s *SkillService) Create(ctx context.Context, req CreateSkillReq) (*model.SkillCategory, error) {
	skill := &model.SkillCategory{Name: req.Name, Description: req.Description}
	if err := s.Repo.Create(ctx, skill); err != nil {
		return nil, err
	}
	return skill, nil
}

func (s *SkillService) Update(ctx context.Context, id uint, req UpdateSkillReq) (*model.SkillCategory, error) {
	skill, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		skill.Name = *req.Name
	}
	if req.Description != nil {
		skill.Description = req.Description
	}
	if err := s.Repo.Update(ctx, skill); err != nil {
		return nil, err
	}
	return skill, nil
}

func (s *SkillService) Delete(ctx context.Context, id uint) error {
	return s.Repo.Delete(ctx, id)
}
