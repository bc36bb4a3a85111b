package middleware

import (
	"context"
	"strings"

	"learngenix_backend/internal/model"
	"learngenix_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// TokenResolver 根据 Bearer token 解析出当前用户
type TokenResolver interface {
	UserForToken(ctx context.Context, token string) (*model.User, error)
}

func AuthMiddleware(resolver TokenResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		scheme, tokenString, found := strings.Cut(authHeader, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(tokenString) == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		user, err := resolver.UserForToken(c.Request.Context(), strings.TrimSpace(tokenString))
		if err != nil {
			util.HandleError(c, err)
			c.Abort()
			return
		}

		util.SetCurrentUser(c, user)
		c.Next()
	}
}

// RoleMiddleware 管理员拥有所有角色的权限
func RoleMiddleware(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := util.GetUserFromContext(c)
		if user == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		hasRole := user.Role == model.Admin
		for _, role := range roles {
			if user.Role == role {
				hasRole = true
				break
			}
		}

		if !hasRole {
			util.Forbidden(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
