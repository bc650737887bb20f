package router

import (
	"github.com/cloudwego/hertz/pkg/app/server"

	"home-assist/pkg/common/config"
	"home-assist/pkg/core/assist"
	"home-assist/pkg/core/invocation/service"
	"home-assist/pkg/web/handler"
	"home-assist/pkg/web/middleware"
)

// Deps 路由依赖；Invocations 为 nil 表示未启用审计
type Deps struct {
	Config      *config.Config
	Catalog     *assist.Catalog
	Invocations service.InvocationService
	Health      []handler.ComponentCheck
}

// RegisterAPIs 注册所有API路由
func RegisterAPIs(h *server.Hertz, deps Deps) error {
	cfg := deps.Config

	// 初始化Handler实例
	healthHandler := handler.NewHealthCheckHandler(deps.Health...)
	actionHandler := handler.NewActionHandler(deps.Catalog, cfg.Middleware.Security.MaxBodySize)
	invocationHandler := handler.NewInvocationHandler(deps.Invocations)

	// 注册全局中间件（按执行顺序）
	h.Use(
		middleware.RecoveryMiddleware(cfg),
		middleware.RequestIDMiddleware(),
		middleware.LoggerMiddleware(),
		middleware.SecurityCheckMiddleware(cfg.Middleware.Security),
		middleware.CORSMiddleware(cfg.Middleware.CORS),
		middleware.RateLimitMiddleware(
			cfg.Middleware.RateLimit.Rate,
			cfg.Middleware.RateLimit.Interval,
		),
	)

	// 基础接口组
	h.GET("/health", healthHandler.AdvancedHealthCheck)

	// 业务接口组
	apiGroup := h.Group("/api/v1")
	{
		actionGroup := apiGroup.Group("/actions")
		if cfg.Middleware.JWT.Enabled {
			auth, err := middleware.BearerAuthMiddleware(cfg.Middleware.JWT)
			if err != nil {
				return err
			}
			actionGroup.Use(auth)
		}
		actionGroup.GET("", actionHandler.List)
		actionGroup.POST("/:feature", actionHandler.Dispatch)
	}

	// 运维接口组
	adminGroup := h.Group("/admin", middleware.BasicAuthMiddleware(cfg.Admin))
	{
		adminGroup.GET("/invocations", invocationHandler.Recent)
		adminGroup.GET("/invocations/summary", invocationHandler.Summary)
	}
	return nil
}
