package middleware

import (
	"context"
	"fmt"
	"regexp"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/google/uuid"
	"github.com/hertz-contrib/cors"

	"home-assist/pkg/common/config"
	"home-assist/pkg/common/reqctx"
	"home-assist/pkg/core/action"
)

const (
	HeaderRequestID = "X-Request-ID"
	KeyRequestID    = "request_id"
)

// RequestIDMiddleware 沿用客户端传入的请求ID，没有则生成
func RequestIDMiddleware() app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		id := strings.TrimSpace(string(ctx.GetHeader(HeaderRequestID)))
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		ctx.Set(KeyRequestID, id)
		ctx.Header(HeaderRequestID, id)
		ctx.Next(reqctx.WithRequestID(c, id))
	}
}

// LoggerMiddleware 结构化的请求日志记录
func LoggerMiddleware() app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		start := time.Now()
		ctx.Next(c) // 放行到后续处理器
		latency := time.Since(start)

		hlog.CtxInfof(c, "| %3d | %13v | %15s | %-7s | %s | rid=%s UA=%s",
			ctx.Response.StatusCode(),
			latency,
			ctx.ClientIP(),
			ctx.Method(),
			ctx.Path(),
			ctx.GetString(KeyRequestID),
			ctx.GetHeader("User-Agent"),
		)
	}
}

/*
	启动时指定环境变量
	export APP_ENV=production
	go run ./cmd/web
*/

// RecoveryMiddleware 异常捕获，响应体仍保持 {success,message,data} 结构
func RecoveryMiddleware(cfg *config.Config) app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		defer func() {
			if err := recover(); err != nil {
				stack := string(debug.Stack())
				hlog.CtxErrorf(c, "[PANIC RECOVERED] %v\n%s", err, stack)

				if cfg.IsProd() {
					ctx.AbortWithStatusJSON(500, action.Failed[any](action.UnknownErrorMessage))
					return
				}
				// 开发环境附带错误和堆栈
				ctx.AbortWithStatusJSON(500, utils.H{
					"success": false,
					"message": action.UnknownErrorMessage,
					"data":    nil,
					"error":   fmt.Sprintf("%v", err),
					"stack":   strings.Split(stack, "\n"),
				})
			}
		}()
		ctx.Next(c)
	}
}

// CORSMiddleware 安全的跨域配置
func CORSMiddleware(corsConfig config.CORSConfig) app.HandlerFunc {
	return cors.New(
		cors.Config{
			AllowOrigins:     corsConfig.AllowOrigins,
			AllowMethods:     corsConfig.AllowMethods,
			AllowHeaders:     corsConfig.AllowHeaders,
			ExposeHeaders:    corsConfig.ExposeHeaders,
			AllowCredentials: corsConfig.AllowCredentials,
			MaxAge:           corsConfig.MaxAge,
			// 动态校验来源
			AllowOriginFunc: func(origin string) bool {
				return trustedOrigin(origin, corsConfig.TrustedDomains)
			},
		},
	)
}

// trustedOrigin 只按主机名后缀匹配
func trustedOrigin(origin string, domains []string) bool {
	host := origin
	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+3:]
	}
	if i := strings.IndexAny(host, ":/"); i >= 0 {
		host = host[:i]
	}
	for _, domain := range domains {
		d := strings.TrimPrefix(domain, ".")
		if d != "" && (host == d || strings.HasSuffix(host, "."+d)) {
			return true
		}
	}
	return false
}

// RateLimitMiddleware 令牌桶算法限流
func RateLimitMiddleware(rate int, interval time.Duration) app.HandlerFunc {
	limiter := NewTokenBucket(rate, interval)

	return func(c context.Context, ctx *app.RequestContext) {
		if !limiter.Allow() {
			hlog.CtxInfof(c, "[RATE LIMIT] path=%s", ctx.Path())
			ctx.AbortWithStatusJSON(429, action.Rejected[any]("Too many requests. Please try again later."))
			return
		}
		ctx.Next(c)
	}
}

// TokenBucket 按时间懒补充令牌，不需要后台协程
type TokenBucket struct {
	mu       sync.Mutex
	capacity int
	tokens   int
	interval time.Duration
	last     time.Time
	now      func() time.Time
}

// NewTokenBucket 每个 interval 补充一个令牌，初始为满
func NewTokenBucket(rate int, interval time.Duration) *TokenBucket {
	if rate <= 0 {
		rate = 1
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &TokenBucket{
		capacity: rate,
		tokens:   rate,
		interval: interval,
		last:     time.Now(),
		now:      time.Now,
	}
}

func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := tb.now()
	if refill := int(now.Sub(tb.last) / tb.interval); refill > 0 {
		tb.tokens = min(tb.capacity, tb.tokens+refill)
		tb.last = tb.last.Add(time.Duration(refill) * tb.interval)
	}
	if tb.tokens == 0 {
		return false
	}
	tb.tokens--
	return true
}

// SecurityCheckMiddleware 全局安全校验中间件
func SecurityCheckMiddleware(sec config.SecurityConfig) app.HandlerFunc {
	// 预编译恶意字符正则
	xssRegex := regexp.MustCompile(`(?i)<script.*?>|</script>|alert\(|onerror=`)
	sqlInjectRegex := regexp.MustCompile(`(?i)\bunion\s+select\b|\bdrop\s+table\b|;\s*delete\s+from\b`)

	allowed := make(map[string]bool, len(sec.AllowedMethods))
	for _, m := range sec.AllowedMethods {
		allowed[strings.ToUpper(m)] = true
	}

	return func(c context.Context, ctx *app.RequestContext) {
		// 防护机制1：检查User-Agent
		if len(ctx.GetHeader("User-Agent")) == 0 {
			securityResponse(c, ctx, 400001, "missing required header: User-Agent", 400)
			return
		}

		// 防护机制2：请求体大小限制
		if sec.MaxBodySize > 0 && int64(ctx.Request.Header.ContentLength()) > sec.MaxBodySize {
			securityResponse(c, ctx, 413001, "request body exceeds max size", 413)
			return
		}

		// 防护机制3：查询参数恶意字符检查（正文由各功能自行清洗）
		if hasMaliciousQuery(ctx, xssRegex, sqlInjectRegex) {
			securityResponse(c, ctx, 422001, "request contains invalid characters", 422)
			return
		}

		// 防护机制4：检查HTTP方法
		if len(allowed) > 0 && !allowed[string(ctx.Method())] {
			securityResponse(c, ctx, 405001, "method not allowed", 405)
			return
		}

		ctx.Next(c)
	}
}

func hasMaliciousQuery(ctx *app.RequestContext, xss, sql *regexp.Regexp) bool {
	found := false
	ctx.QueryArgs().VisitAll(func(key, value []byte) {
		if found {
			return
		}
		found = xss.Match(key) || xss.Match(value) || sql.Match(key) || sql.Match(value)
	})
	return found
}

// 安全响应统一处理
func securityResponse(c context.Context, ctx *app.RequestContext, code int, msg string, status int) {
	hlog.CtxWarnf(c, "SecurityAlert[code=%d]: %s", code, msg)
	ctx.AbortWithStatusJSON(status, map[string]interface{}{
		"code":    code,
		"message": msg,
	})
}
