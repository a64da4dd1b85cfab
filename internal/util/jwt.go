package util

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"

	"skill_portal_backend/internal/config"
	"skill_portal_backend/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenKind 区分访问令牌和刷新令牌
type TokenKind int

const (
	AccessToken TokenKind = iota
	RefreshToken
)

func (k TokenKind) String() string {
	if k == RefreshToken {
		return "refresh"
	}
	return "access"
}

// Principal 请求的认证身份
type Principal struct {
	Sub      uint           `json:"sub"`
	Username string         `json:"username"`
	Role     model.UserRole `json:"role"`
	JTI      string         `json:"jti,omitempty"`
}

func PrincipalOf(user *model.User) Principal {
	return Principal{Sub: user.ID, Username: user.Username, Role: user.Role}
}

func (p Principal) IsAdmin() bool {
	return p.Role == model.RoleAdmin
}

// Claims sub 为数字，覆盖 RegisteredClaims 中的字符串 sub
type Claims struct {
	Sub      uint           `json:"sub"`
	Username string         `json:"username"`
	Role     model.UserRole `json:"role"`
	jwt.RegisteredClaims
}

const defaultTTL = time.Hour

var ttlPattern = regexp.MustCompile(`^(\d+)(ms|s|m|h|d)$`)

// ParseTTL 解析 "900s" / "15m" / "14d" 形式的时长；无法解析时回退为 1 小时
func ParseTTL(ttl string) time.Duration {
	m := ttlPattern.FindStringSubmatch(ttl)
	if m == nil {
		return defaultTTL
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return defaultTTL
	}
	unit := map[string]time.Duration{
		"ms": time.Millisecond,
		"s":  time.Second,
		"m":  time.Minute,
		"h":  time.Hour,
		"d":  24 * time.Hour,
	}[m[2]]
	// 超出 time.Duration 范围时按无法解析处理
	if n > math.MaxInt64/int64(unit) {
		return defaultTTL
	}
	return time.Duration(n) * unit
}

// SecondsFromTTL 毫秒单位向下取整，最少 1 秒
func SecondsFromTTL(ttl string) int {
	secs := int(ParseTTL(ttl) / time.Second)
	if secs < 1 {
		return 1
	}
	return secs
}

func MillisFromTTL(ttl string) int64 {
	return ParseTTL(ttl).Milliseconds()
}

// TokenCodec 签发和校验两类令牌
type TokenCodec struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewTokenCodec(cfg config.JWTConfig) *TokenCodec {
	return &TokenCodec{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     time.Duration(SecondsFromTTL(cfg.AccessTTL)) * time.Second,
		refreshTTL:    time.Duration(SecondsFromTTL(cfg.RefreshTTL)) * time.Second,
		now:           time.Now,
	}
}

// WithClock 替换时钟，测试使用
func (tc *TokenCodec) WithClock(now func() time.Time) *TokenCodec {
	cp := *tc
	cp.now = now
	return &cp
}

func (tc *TokenCodec) AccessTTL() time.Duration  { return tc.accessTTL }
func (tc *TokenCodec) RefreshTTL() time.Duration { return tc.refreshTTL }

func (tc *TokenCodec) secret(kind TokenKind) []byte {
	if kind == RefreshToken {
		return tc.refreshSecret
	}
	return tc.accessSecret
}

func (tc *TokenCodec) IssueAccess(p Principal) (string, error) {
	return tc.sign(p, AccessToken, "", tc.accessTTL)
}

// IssueRefresh 每次签发生成新的 jti
func (tc *TokenCodec) IssueRefresh(p Principal) (string, error) {
	return tc.sign(p, RefreshToken, uuid.NewString(), tc.refreshTTL)
}

func (tc *TokenCodec) sign(p Principal, kind TokenKind, jti string, ttl time.Duration) (string, error) {
	now := tc.now()
	claims := &Claims{
		Sub:      p.Sub,
		Username: p.Username,
		Role:     p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(tc.secret(kind))
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", kind, err)
	}
	return signed, nil
}

// Verify 签名、过期和载荷结构任一不满足都返回 ErrInvalidToken
func (tc *TokenCodec) Verify(tokenString string, kind TokenKind) (Principal, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(tc.now),
	)

	claims := &Claims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return tc.secret(kind), nil
	})
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return Principal{}, ErrInvalidToken
	}
	if err := claims.validShape(); err != nil {
		return Principal{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	return Principal{
		Sub:      claims.Sub,
		Username: claims.Username,
		Role:     claims.Role,
		JTI:      claims.ID,
	}, nil
}

func (c *Claims) validShape() error {
	if c.Sub == 0 {
		return errors.New("missing subject")
	}
	if c.Username == "" {
		return errors.New("missing username")
	}
	if !c.Role.Valid() {
		return fmt.Errorf("unknown role %q", c.Role)
	}
	return nil
}

const principalKey = "principal"

// SetPrincipal 保存认证身份到请求上下文
func SetPrincipal(c *gin.Context, p Principal) {
	c.Set(principalKey, p)
}

// PrincipalFrom 取出认证身份；未认证时 ok 为 false
func PrincipalFrom(c *gin.Context) (Principal, bool) {
	v, exists := c.Get(principalKey)
	if !exists {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok
}
