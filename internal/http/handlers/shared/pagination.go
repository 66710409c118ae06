package shared

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// 分页默认值
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// NormalizePagination 归一化分页参数。
func NormalizePagination(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

// ParsePagination 从查询参数读取分页，非数字时返回 false
func ParsePagination(c *gin.Context) (int, int, bool) {
	page, ok := parseOptionalInt(c.Query("page"))
	if !ok {
		return 0, 0, false
	}
	pageSize, ok := parseOptionalInt(c.Query("page_size"))
	if !ok {
		return 0, 0, false
	}
	page, pageSize = NormalizePagination(page, pageSize)
	return page, pageSize, true
}

// ParseOptionalBool 读取可选布尔查询参数
func ParseOptionalBool(c *gin.Context, key string) (*bool, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, true
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, false
	}
	return &value, true
}

// ParseUintParam 读取路径中的正整数 ID
func ParseUintParam(c *gin.Context, key string) (uint, bool) {
	value, err := strconv.ParseUint(strings.TrimSpace(c.Param(key)), 10, 64)
	if err != nil || value == 0 {
		return 0, false
	}
	return uint(value), true
}

func parseOptionalInt(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return value, true
}
