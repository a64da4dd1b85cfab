package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"skill_portal_backend/internal/util"
	"skill_portal_backend/pkg/logger"
	"skill_portal_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RateLimitStore 固定窗口计数。Hit 计入一次请求，返回窗口内的累计次数和窗口重置时间
type RateLimitStore interface {
	Hit(ctx context.Context, key string, window time.Duration) (count int, reset time.Time, err error)
}

type window struct {
	count int
	reset time.Time
}

// MemoryRateStore 进程内计数，重启后清零，多实例之间不共享
type MemoryRateStore struct {
	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// NewMemoryRateStore 启动后台清理协程，使用完需调用 Close
func NewMemoryRateStore(cleanupInterval time.Duration) *MemoryRateStore {
	s := &MemoryRateStore{
		windows: make(map[string]*window),
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	if cleanupInterval <= 0 {
		cleanupInterval = time.Minute
	}
	go s.janitor(cleanupInterval)
	return s
}

func (s *MemoryRateStore) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.evictExpired()
		case <-s.stop:
			return
		}
	}
}

func (s *MemoryRateStore) evictExpired() {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, w := range s.windows {
		if !now.Before(w.reset) {
			delete(s.windows, key)
		}
	}
}

func (s *MemoryRateStore) Hit(_ context.Context, key string, win time.Duration) (int, time.Time, error) {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[key]
	if !ok || !now.Before(w.reset) {
		w = &window{reset: now.Add(win)}
		s.windows[key] = w
	}
	w.count++
	return w.count, w.reset, nil
}

// Len 当前跟踪的 key 数量
func (s *MemoryRateStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}

func (s *MemoryRateStore) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// RedisRateStore 基于 INCR + PEXPIRE，多实例共享计数
type RedisRateStore struct {
	Client *redis.Client
	Prefix string
}

func NewRedisRateStore(client *redis.Client) *RedisRateStore {
	return &RedisRateStore{Client: client, Prefix: "ratelimit:"}
}

func (s *RedisRateStore) Key(key string) string {
	return s.Prefix + key
}

func (s *RedisRateStore) Hit(ctx context.Context, key string, win time.Duration) (int, time.Time, error) {
	k := s.Key(key)

	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := s.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		ttl = pipe.PTTL(ctx, k)
		return nil
	})
	if err != nil {
		return 0, time.Time{}, err
	}

	remaining := ttl.Val()
	// 新 key 或者没有过期时间的 key 都需要设置窗口
	if remaining < 0 {
		if err := s.Client.PExpire(ctx, k, win).Err(); err != nil {
			return 0, time.Time{}, err
		}
		remaining = win
	}
	return int(incr.Val()), time.Now().Add(remaining), nil
}

// ClientKey 优先取 X-Forwarded-For 的第一个地址
func ClientKey(c *gin.Context) string {
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.SplitN(xff, ",", 2)[0])
		if first != "" {
			return first
		}
	}
	return c.ClientIP()
}

// RateLimiter 限额和窗口可在配置热更新时调整
type RateLimiter struct {
	store RateLimitStore

	mu     sync.RWMutex
	limit  int
	window time.Duration

	warn rate.Sometimes
}

func NewRateLimiter(store RateLimitStore, limit int, win time.Duration) *RateLimiter {
	return &RateLimiter{
		store:  store,
		limit:  limit,
		window: win,
		warn:   rate.Sometimes{Interval: 10 * time.Second},
	}
}

func (l *RateLimiter) Update(limit int, win time.Duration) {
	if limit <= 0 || win <= 0 {
		return
	}
	l.mu.Lock()
	l.limit, l.window = limit, win
	l.mu.Unlock()
	logger.Log.Info("Rate limit updated", zap.Int("limit", limit), zap.Duration("window", win))
}

func (l *RateLimiter) settings() (int, time.Duration) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.limit, l.window
}

func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, win := l.settings()
		key := ClientKey(c)

		count, reset, err := l.store.Hit(c.Request.Context(), key, win)
		if err != nil {
			// 存储不可用时放行
			logger.Log.Warn("Rate limit store unavailable", zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(max(limit-count, 0)))

		if count > limit {
			retry := int(math.Ceil(time.Until(reset).Seconds()))
			if retry < 1 {
				retry = 1
			}
			c.Header("Retry-After", strconv.Itoa(retry))
			monitoring.RateLimited.Inc()
			l.warn.Do(func() {
				logger.Log.Warn("Rate limit exceeded", zap.String("client", key), zap.Int("count", count))
			})
			util.Error(c, http.StatusTooManyRequests, "Too many requests")
			return
		}
		c.Next()
	}
}

func RateLimit(store RateLimitStore, limit int, win time.Duration) gin.HandlerFunc {
	return NewRateLimiter(store, limit, win).Middleware()
}
