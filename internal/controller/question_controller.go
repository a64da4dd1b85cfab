package controller

import (
	"skill_portal_backend/internal/service"
	"skill_portal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuestionController struct {
	QuestionService *service.QuestionService
	ExportService   *service.ExportService
}

func NewQuestionController(questionService *service.QuestionService, exportService *service.ExportService) *QuestionController {
	return &QuestionController{
		QuestionService: questionService,
		ExportService:   exportService,
	}
}

// List godoc
// @Summary 题目列表
// @Tags 题库
// @Produce  json
// @Param skillId query int false "技能ID"
// @Param page query int false "页码"
// @Param pageSize query int false "每页数量"
// @Success 200 {object} util.ListResponse{items=[]model.Question}
// @Router /questions [get]
func (c *QuestionController) List(ctx *gin.Context) {
	skillID, ok := uintQuery(ctx, "skillId")
	if !ok {
		return
	}
	qs, total, err := c.QuestionService.List(ctx.Request.Context(), skillID, util.GetPagination(ctx))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.List(ctx, qs, total)
}

// Get godoc
// @Summary 题目详情
// @Tags 题库
// @Produce  json
// @Param id path int true "题目ID"
// @Success 200 {object} model.Question
// @Failure 404 {object} util.ErrorResponse
// @Router /questions/{id} [get]
func (c *QuestionController) Get(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	q, err := c.QuestionService.Get(ctx.Request.Context(), id)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, q)
}

// Create godoc
// @Summary 创建题目
// @Tags 题库
// @Accept  json
// @Produce  json
// @Param body body service.CreateQuestionReq true "题目"
// @Success 200 {object} model.Question
// @Failure 400 {object} util.ErrorResponse "correctOption 不在 options 中"
// @Router /questions [post]
func (c *QuestionController) Create(ctx *gin.Context) {
	var req service.CreateQuestionReq
	if err := util.BindJSON(ctx, &req); err != nil {
		util.RespondError(ctx, err)
		return
	}
	q, err := c.QuestionService.Create(ctx.Request.Context(), req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, q)
}

// Update godoc
// @Summary 修改题目
// @Tags 题库
// @Accept  json
// @Produce  json
// @Param id path int true "题目ID"
// @Param body body service.UpdateQuestionReq true "修改内容"
// @Success 200 {object} model.Question
// @Router /questions/{id} [patch]
func (c *QuestionController) Update(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	var req service.UpdateQuestionReq
	if err := util.BindJSON(ctx, &req); err != nil {
		util.RespondError(ctx, err)
		return
	}
	q, err := c.QuestionService.Update(ctx.Request.Context(), id, req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, q)
}

// Delete godoc
// @Summary 删除题目
// @Tags 题库
// @Param id path int true "题目ID"
// @Success 200 {object} util.MessageResponse
// @Router /questions/{id} [delete]
func (c *QuestionController) Delete(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.QuestionService.Delete(ctx.Request.Context(), id); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Message(ctx, "deleted")
}

// Export godoc
// @Summary 导出技能题库
// @Description 将题库写成 JSON 存入对象存储
// @Tags 题库
// @Produce  json
// @Param skillId query int true "技能ID"
// @Success 200 {object} service.ExportResult
// @Router /questions/export [post]
func (c *QuestionController) Export(ctx *gin.Context) {
	skillID, ok := uintQuery(ctx, "skillId")
	if !ok {
		return
	}
	if skillID == 0 {
		util.RespondError(ctx, util.NewValidationError("skillId is required", util.FieldError{Field: "skillId", Rule: "required"}))
		return
	}
	res, err := c.ExportService.ExportSkill(ctx.Request.Context(), skillID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, res)
}
