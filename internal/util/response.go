package util

import (
	"net/http"

	"skill_portal_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse 统一错误响应结构
type ErrorResponse struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// ListResponse 分页列表响应
type ListResponse struct {
	Items interface{} `json:"items"`
	Total int64       `json:"total"`
}

// MessageResponse 仅包含提示信息的响应
type MessageResponse struct {
	Message string `json:"message"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, MessageResponse{Message: message})
}

func List(c *gin.Context, items interface{}, total int64) {
	c.JSON(http.StatusOK, ListResponse{Items: items, Total: total})
}

func Error(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

func Forbidden(c *gin.Context) {
	Error(c, http.StatusForbidden, "Forbidden")
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context) {
	Error(c, http.StatusNotFound, "Not found")
}

func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Internal server error")
}

func LogInternalError(c *gin.Context, err error) {
	logger.Log.Error("Internal server error",
		zap.Error(err),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
	)
	InternalServerError(c)
}

// RespondError 终端错误处理：可分类的错误返回对应状态码，其余记录日志后返回 500
func RespondError(c *gin.Context, err error) {
	if appErr := classify(err); appErr != nil {
		c.AbortWithStatusJSON(appErr.Status, ErrorResponse{
			Code:    appErr.Status,
			Message: appErr.Message,
			Errors:  appErr.Details,
		})
		return
	}
	LogInternalError(c, err)
}
