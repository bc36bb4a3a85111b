package util

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// ParseUUIDParam 读取路径参数并校验为 UUID
func ParseUUIDParam(c *gin.Context, name string) (string, error) {
	raw := c.Param(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", ValidationError("Invalid " + name)
	}
	return id.String(), nil
}

// NormalizeUUID 空串或非法 UUID 返回 nil
func NormalizeUUID(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil
	}
	v := id.String()
	return &v
}

// Pagination 解析 skip/limit 查询参数
func Pagination(c *gin.Context) (skip, limit int, err error) {
	skip, err = strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		return 0, 0, ValidationError("skip must be a non-negative integer")
	}
	limit, err = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultLimit)))
	if err != nil || limit <= 0 {
		return 0, 0, ValidationError("limit must be a positive integer")
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return skip, limit, nil
}
