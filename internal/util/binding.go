package util

import (
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func init() {
	// 校验错误使用 json 字段名而非 Go 字段名
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
	}
}

// BindJSON 解析并校验请求体，所有违规字段汇总到同一个 ValidationError
func BindJSON(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return toValidationError(err)
	}
	return nil
}

// BindQuery 解析并校验查询参数
func BindQuery(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindQuery(req); err != nil {
		return toValidationError(err)
	}
	return nil
}

func toValidationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, FieldError{
				Field: fieldPath(fe),
				Rule:  fe.Tag(),
				Param: fe.Param(),
			})
		}
		return NewValidationError("validation failed", details...)
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return &AppError{Status: http.StatusRequestEntityTooLarge, Message: "request body too large"}
	}
	if errors.Is(err, io.EOF) {
		return NewValidationError("request body is required")
	}
	return NewValidationError("malformed request: " + err.Error())
}

// fieldPath 去掉顶层结构体名，如 "SubmitQuizRequest.answers[0].questionId" -> "answers[0].questionId"
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}
