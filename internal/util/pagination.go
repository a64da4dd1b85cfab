package util

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

type Pagination struct {
	Page     int
	PageSize int
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func (p Pagination) Limit() int {
	return p.PageSize
}

// GetPagination page 至少为 1；pageSize 取值 1..100，默认 10
func GetPagination(c *gin.Context) Pagination {
	return NewPagination(c.Query("page"), c.Query("pageSize"))
}

func NewPagination(pageStr, pageSizeStr string) Pagination {
	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(pageSizeStr)
	if err != nil || pageSize < 1 {
		if err == nil && pageSizeStr != "" {
			pageSize = 1
		} else {
			pageSize = DefaultPageSize
		}
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return Pagination{Page: page, PageSize: pageSize}
}
