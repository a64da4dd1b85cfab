package controller

import (
	"skill_portal_backend/internal/model"
	"skill_portal_backend/internal/service"
	"skill_portal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService     *service.QuizService
	QuestionService *service.QuestionService
}

func NewQuizController(quizService *service.QuizService, questionService *service.QuestionService) *QuizController {
	return &QuizController{
		QuizService:     quizService,
		QuestionService: questionService,
	}
}

type SubmitResponse struct {
	Attempt *model.QuizAttempt `json:"attempt"`
}

// Submit godoc
// @Summary 提交答题
// @Description 校验题目集合后评分，答题记录与答案在同一事务中写入
// @Tags 测验
// @Accept  json
// @Produce  json
// @Param body body service.SubmitQuizRequest true "答案"
// @Success 200 {object} SubmitResponse
// @Failure 400 {object} util.ErrorResponse "invalid question set"
// @Router /quiz/attempts [post]
func (c *QuizController) Submit(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	var req service.SubmitQuizRequest
	if err := util.BindJSON(ctx, &req); err != nil {
		util.RespondError(ctx, err)
		return
	}

	attempt, err := c.QuizService.Submit(ctx.Request.Context(), p.Sub, req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	// 提交接口只返回汇总
	attempt.Answers = nil
	util.Success(ctx, SubmitResponse{Attempt: attempt})
}

// ListAttempts godoc
// @Summary 答题记录
// @Description 普通用户只能查看自己的记录，管理员可通过 userId 查看指定用户
// @Tags 测验
// @Produce  json
// @Param userId query int false "用户ID（管理员）"
// @Param page query int false "页码"
// @Param pageSize query int false "每页数量"
// @Success 200 {object} util.ListResponse{items=[]repository.AttemptRow}
// @Router /quiz/attempts [get]
func (c *QuizController) ListAttempts(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	userID, ok := uintQuery(ctx, "userId")
	if !ok {
		return
	}
	rows, total, err := c.QuizService.ListAttempts(ctx.Request.Context(), p, userID, util.GetPagination(ctx))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.List(ctx, rows, total)
}

// GetAttempt godoc
// @Summary 答题详情
// @Tags 测验
// @Produce  json
// @Param id path int true "答题记录ID"
// @Success 200 {object} model.QuizAttempt
// @Failure 403 {object} util.ErrorResponse
// @Failure 404 {object} util.ErrorResponse
// @Router /quiz/attempts/{id} [get]
func (c *QuizController) GetAttempt(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	attempt, err := c.QuizService.GetAttempt(ctx.Request.Context(), p, id)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, attempt)
}

// SkillQuestions godoc
// @Summary 答题用题目
// @Description 不包含正确答案
// @Tags 测验
// @Produce  json
// @Param skillId path int true "技能ID"
// @Success 200 {object} util.ListResponse{items=[]model.PublicQuestion}
// @Router /quiz/skills/{skillId}/questions [get]
func (c *QuizController) SkillQuestions(ctx *gin.Context) {
	skillID, ok := uintParam(ctx, "skillId")
	if !ok {
		return
	}
	qs, err := c.QuestionService.ListForQuiz(ctx.Request.Context(), skillID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.List(ctx, qs, int64(len(qs)))
}
