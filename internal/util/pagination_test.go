package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name         string
		page, size   string
		wantPage     int
		wantPageSize int
		wantOffset   int
	}{
		{"defaults", "", "", 1, 10, 0},
		{"first page", "1", "10", 1, 10, 0},
		{"third page", "3", "10", 3, 10, 20},
		{"cap size", "1", "500", 1, 100, 0},
		{"zero size", "1", "0", 1, 1, 0},
		{"negative page", "-2", "5", 1, 5, 0},
		{"garbage", "abc", "xyz", 1, 10, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.page, tt.size)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantPageSize, p.PageSize)
			assert.Equal(t, tt.wantOffset, p.Offset())
			assert.Equal(t, tt.wantPageSize, p.Limit())
		})
	}
}
