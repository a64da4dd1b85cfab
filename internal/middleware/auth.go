package middleware

import (
	"skill_portal_backend/internal/model"
	"skill_portal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// RequireAuth 从 auth cookie 中解析访问令牌
func RequireAuth(tokens *util.TokenCodec) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(util.AccessCookieName)
		if err != nil || token == "" {
			util.Unauthorized(c, "Unauthenticated")
			return
		}

		p, err := tokens.Verify(token, util.AccessToken)
		if err != nil {
			util.Unauthorized(c, "Invalid or expired token")
			return
		}

		util.SetPrincipal(c, p)
		c.Next()
	}
}

// RequireRole 按角色等级判断，ADMIN 可访问 USER 接口
func RequireRole(role model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := util.PrincipalFrom(c)
		if !ok {
			util.Unauthorized(c, "Unauthenticated")
			return
		}
		if p.Role.Rank() < role.Rank() {
			util.Forbidden(c)
			return
		}
		c.Next()
	}
}
