package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"

	"home-assist/pkg/common/config"
	"home-assist/pkg/common/logging"
	"home-assist/pkg/core/action"
	"home-assist/pkg/core/assist"
	"home-assist/pkg/core/invocation/model"
	dao "home-assist/pkg/core/invocation/repository/dao/impl"
	"home-assist/pkg/core/invocation/service"
	"home-assist/pkg/provider"
	"home-assist/pkg/web/handler"
	"home-assist/pkg/web/router"
)

func main() {
	// 初始化配置
	cfg := config.Load()
	if logFile := logging.Setup(cfg.Log); logFile != nil {
		defer logFile.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 外部 AI 流程
	flows, err := provider.New(ctx, cfg.AI)
	if err != nil {
		hlog.Fatalf("Failed to initialize AI provider: %v", err)
	}
	hlog.Infof("AI provider: %s (text=%s image=%s)", flows.Name(), cfg.AI.TextModel, cfg.AI.ImageModel)

	observers := []action.Observer{action.LogObserver{}}
	health := []handler.ComponentCheck{{
		Name:   "ai:" + flows.Name(),
		IsCore: true,
		Check:  func(context.Context) error { return nil },
	}}

	// 审计记录（可选）
	var invocations service.InvocationService
	if cfg.Database.Enabled {
		db, err := cfg.InitDB()
		if err != nil {
			hlog.Fatalf("Failed to initialize database: %v", err)
		}
		if err := model.AutoMigrate(db); err != nil {
			hlog.Fatalf("Failed to migrate invocation table: %v", err)
		}

		repo := dao.NewGormInvocationRepository(db)
		recorder := service.NewRecorder(repo, cfg.Audit.QueueSize)
		recorder.Start(ctx)
		defer recorder.Close()

		observers = append(observers, recorder)
		invocations = service.NewInvocationService(repo)
		health = append(health, handler.ComponentCheck{Name: "database", Check: repo.Ping})
	}

	// 创建Hertz实例
	h := server.Default(
		server.WithHostPorts(cfg.Server.Address),
		server.WithHandleMethodNotAllowed(true),
		server.WithMaxRequestBodySize(int(cfg.Middleware.Security.MaxBodySize)),
	)

	// 注册路由
	if err := router.RegisterAPIs(h, router.Deps{
		Config:      cfg,
		Catalog:     assist.NewCatalog(flows, observers...),
		Invocations: invocations,
		Health:      health,
	}); err != nil {
		hlog.Fatalf("Failed to register routes: %v", err)
	}

	// 启动服务
	h.Spin()
}
