package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"

	"skill_portal_backend/internal/config"
	"skill_portal_backend/internal/util"
	"skill_portal_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	csrfTokenBytes = 20
	csrfMaxAge     = 3600
)

func newCSRFToken() (string, error) {
	b := make([]byte, csrfTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// AttachCSRFToken 没有 XSRF-TOKEN cookie 时下发一个，前端需要读取它，所以不能 http-only
func AttachCSRFToken(cfg config.CookieConfig) gin.HandlerFunc {
	sameSite := http.SameSiteLaxMode
	if cfg.Secure {
		sameSite = http.SameSiteNoneMode
	}

	return func(c *gin.Context) {
		if v, err := c.Cookie(util.CSRFCookieName); err == nil && v != "" {
			c.Next()
			return
		}

		token, err := newCSRFToken()
		if err != nil {
			logger.Log.Error("Failed to generate csrf token", zap.Error(err))
			c.Next()
			return
		}

		http.SetCookie(c.Writer, &http.Cookie{
			Name:     util.CSRFCookieName,
			Value:    token,
			Path:     "/",
			Domain:   cfg.Domain,
			MaxAge:   csrfMaxAge,
			Secure:   cfg.Secure,
			HttpOnly: false,
			SameSite: sameSite,
		})
		c.Next()
	}
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// RequireCSRF 双重提交校验：请求头与 cookie 必须一致
func RequireCSRF() gin.HandlerFunc {
	return func(c *gin.Context) {
		if isSafeMethod(c.Request.Method) {
			c.Next()
			return
		}

		header := c.GetHeader(util.CSRFHeaderName)
		cookie, err := c.Cookie(util.CSRFCookieName)
		if header == "" || err != nil || cookie == "" ||
			subtle.ConstantTimeCompare([]byte(header), []byte(cookie)) != 1 {
			util.Error(c, http.StatusForbidden, "CSRF token invalid")
			return
		}
		c.Next()
	}
}
