package middleware

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiterConfig はレート制限の設定。
// 一般APIと書き込み系APIで別々の制限を適用する。
type RateLimiterConfig struct {
	// GeneralRate は一般APIの秒間リクエスト数。
	GeneralRate rate.Limit
	// GeneralBurst は一般APIのバースト許容量。
	GeneralBurst int
	// WriteRate は書き込み系APIの秒間リクエスト数。
	WriteRate rate.Limit
	// WriteBurst は書き込み系APIのバースト許容量。
	WriteBurst int
	// CleanupInterval は非アクティブユーザーのリミッター削除間隔。
	CleanupInterval time.Duration
}

// DefaultRateLimiterConfig は標準のレート制限設定を返す。
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		GeneralRate:     10,
		GeneralBurst:    20,
		WriteRate:       2,
		WriteBurst:      5,
		CleanupInterval: 10 * time.Minute,
	}
}

// userLimiter はユーザーごとのリミッターと最終アクセス時刻。
type userLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter はユーザーIDごとにトークンバケット方式のレート制限を行う。
type RateLimiter struct {
	config   RateLimiterConfig
	mu       sync.Mutex
	general  map[int64]*userLimiter
	write    map[int64]*userLimiter
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter はレートリミッターを生成し、
// 非アクティブユーザーを掃除するバックグラウンドループを開始する。
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	rl := &RateLimiter{
		config:  config,
		general: make(map[int64]*userLimiter),
		write:   make(map[int64]*userLimiter),
		stopCh:  make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

// Stop はクリーンアップループを停止する。
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() {
		close(rl.stopCh)
	})
}

// GeneralMiddleware は一般APIに対するレート制限ミドルウェアを返す。
func (rl *RateLimiter) GeneralMiddleware() func(next http.Handler) http.Handler {
	return rl.middleware(rl.general, rl.config.GeneralRate, rl.config.GeneralBurst)
}

// WriteMiddleware は書き込み系APIに対する厳しいレート制限ミドルウェアを返す。
func (rl *RateLimiter) WriteMiddleware() func(next http.Handler) http.Handler {
	return rl.middleware(rl.write, rl.config.WriteRate, rl.config.WriteBurst)
}

func (rl *RateLimiter) middleware(limiters map[int64]*userLimiter, r rate.Limit, burst int) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			userID, err := UserIDFromContext(req.Context())
			if err != nil {
				// 認証ミドルウェアより前段に置かれた場合は制限しない
				next.ServeHTTP(w, req)
				return
			}

			if !rl.allow(limiters, userID, r, burst) {
				writeRateLimitResponse(w, r)
				return
			}

			next.ServeHTTP(w, req)
		})
	}
}

func (rl *RateLimiter) allow(limiters map[int64]*userLimiter, userID int64, r rate.Limit, burst int) bool {
	rl.mu.Lock()
	ul, ok := limiters[userID]
	if !ok {
		ul = &userLimiter{limiter: rate.NewLimiter(r, burst)}
		limiters[userID] = ul
	}
	ul.lastAccess = time.Now()
	rl.mu.Unlock()

	return ul.limiter.Allow()
}

// cleanupLoop は一定間隔で非アクティブユーザーのリミッターを削除する。
func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *RateLimiter) cleanup() {
	// 掃除間隔の2倍アクセスがないエントリを破棄する
	ttl := 2 * rl.config.CleanupInterval
	cutoff := time.Now().Add(-ttl)

	rl.mu.Lock()
	defer rl.mu.Unlock()
	for _, limiters := range []map[int64]*userLimiter{rl.general, rl.write} {
		for userID, ul := range limiters {
			if ul.lastAccess.Before(cutoff) {
				delete(limiters, userID)
			}
		}
	}
}

// writeRateLimitResponse はRetry-Afterヘッダー付きの429レスポンスを書き込む。
func writeRateLimitResponse(w http.ResponseWriter, r rate.Limit) {
	retryAfter := 1
	if r > 0 {
		retryAfter = int(math.Ceil(1 / float64(r)))
	}
	w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	json.NewEncoder(w).Encode(map[string]string{
		"code":    "rate_limit_exceeded",
		"message": "リクエスト数が制限を超えました。しばらく待ってから再度お試しください。",
	})
}
