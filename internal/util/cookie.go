package util

import (
	"net/http"
	"strings"

	"skill_portal_backend/internal/config"

	"github.com/gin-gonic/gin"
)

// CookieWriter 按配置写入认证 cookie
type CookieWriter struct {
	cfg        config.CookieConfig
	accessTTL  string
	refreshTTL string
}

func NewCookieWriter(cookieCfg config.CookieConfig, jwtCfg config.JWTConfig) *CookieWriter {
	return &CookieWriter{cfg: cookieCfg, accessTTL: jwtCfg.AccessTTL, refreshTTL: jwtCfg.RefreshTTL}
}

func ParseSameSite(s string) http.SameSite {
	switch strings.ToLower(s) {
	case "lax":
		return http.SameSiteLaxMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteStrictMode
	}
}

func (w *CookieWriter) base(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   w.cfg.Domain,
		MaxAge:   maxAge,
		Secure:   w.cfg.Secure,
		HttpOnly: true,
		SameSite: ParseSameSite(w.cfg.SameSite),
	}
}

func (w *CookieWriter) SetAccess(c *gin.Context, token string) {
	http.SetCookie(c.Writer, w.base(AccessCookieName, token, SecondsFromTTL(w.accessTTL)))
}

func (w *CookieWriter) SetRefresh(c *gin.Context, token string) {
	http.SetCookie(c.Writer, w.base(RefreshCookieName, token, SecondsFromTTL(w.refreshTTL)))
}

// SetPair 同时写入 access 与 refresh cookie
func (w *CookieWriter) SetPair(c *gin.Context, access, refresh string) {
	w.SetAccess(c, access)
	w.SetRefresh(c, refresh)
}

func (w *CookieWriter) Clear(c *gin.Context) {
	http.SetCookie(c.Writer, w.base(AccessCookieName, "", -1))
	http.SetCookie(c.Writer, w.base(RefreshCookieName, "", -1))
}
