package handler

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
)

// ComponentCheck 单个依赖组件的探测
type ComponentCheck struct {
	Name   string
	IsCore bool
	Check  func(ctx context.Context) error
}

type HealthCheckHandler struct {
	checks  []ComponentCheck
	timeout time.Duration
}

func NewHealthCheckHandler(checks ...ComponentCheck) *HealthCheckHandler {
	return &HealthCheckHandler{checks: checks, timeout: 2 * time.Second}
}

type HealthStatus struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Uptime     string            `json:"uptime"`
	Components []ComponentStatus `json:"components,omitempty"`
}

// 启用关键组件标签判断
type ComponentStatus struct {
	Name    string        `json:"name"`
	Status  string        `json:"status"`
	IsCore  bool          `json:"is_core"`
	Latency time.Duration `json:"latency,omitempty"`
	Error   string        `json:"error,omitempty"`
}

var startupTime = time.Now()

// AdvancedHealthCheck 增强的健康检查接口
func (h *HealthCheckHandler) AdvancedHealthCheck(ctx context.Context, c *app.RequestContext) {
	status := HealthStatus{
		Status:     "healthy",
		Timestamp:  time.Now().UTC(),
		Uptime:     time.Since(startupTime).Round(time.Second).String(),
		Components: h.probe(ctx),
	}

	if hasCriticalErrors(status.Components) {
		status.Status = "degraded"
		c.JSON(503, status)
		return
	}

	c.JSON(200, status)
}

func (h *HealthCheckHandler) probe(ctx context.Context) []ComponentStatus {
	out := make([]ComponentStatus, 0, len(h.checks))
	for _, check := range h.checks {
		cctx, cancel := context.WithTimeout(ctx, h.timeout)
		start := time.Now()
		err := check.Check(cctx)
		cancel()

		comp := ComponentStatus{
			Name:    check.Name,
			Status:  "ok",
			IsCore:  check.IsCore,
			Latency: time.Since(start),
		}
		if err != nil {
			comp.Status = "error"
			comp.Error = err.Error()
		}
		out = append(out, comp)
	}
	return out
}

func hasCriticalErrors(components []ComponentStatus) bool {
	for _, comp := range components {
		// 核心组件状态异常或任意组件发生严重错误
		if (comp.IsCore && comp.Status != "ok") || comp.Status == "critical" {
			return true
		}
	}
	return false
}
