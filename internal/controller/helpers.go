package controller

import (
	"strconv"

	"skill_portal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// uintParam 解析路径参数，失败时直接写 400
func uintParam(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil || id == 0 {
		util.RespondError(ctx, util.NewValidationError("invalid "+name, util.FieldError{Field: name, Rule: "gt", Param: "0"}))
		return 0, false
	}
	return uint(id), true
}

// uintQuery 可选的查询参数，缺省返回 0
func uintQuery(ctx *gin.Context, name string) (uint, bool) {
	raw := ctx.Query(name)
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		util.RespondError(ctx, util.NewValidationError("invalid "+name, util.FieldError{Field: name, Rule: "numeric"}))
		return 0, false
	}
	return uint(id), true
}

func principal(ctx *gin.Context) (util.Principal, bool) {
	p, ok := util.PrincipalFrom(ctx)
	if !ok {
		util.Unauthorized(ctx, "Unauthenticated")
	}
	return p, ok
}
