package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/common/utils"

	"home-assist/pkg/common/errors"
	"home-assist/pkg/core/assist"
	imodel "home-assist/pkg/core/invocation/model"
	"home-assist/pkg/core/invocation/repository/dao"
	"home-assist/pkg/core/invocation/service"
	"home-assist/pkg/web/model"
)

// InvocationHandler 运维查询；svc 为 nil 表示未启用审计
type InvocationHandler struct {
	svc service.InvocationService
}

func NewInvocationHandler(svc service.InvocationService) *InvocationHandler {
	return &InvocationHandler{svc: svc}
}

// Recent GET /admin/invocations?feature=&outcome=&limit=
func (h *InvocationHandler) Recent(ctx context.Context, c *app.RequestContext) {
	if h.svc == nil {
		respondError(c, http.StatusServiceUnavailable, errors.ErrAuditDisabled)
		return
	}

	filter := dao.Filter{
		Feature: c.Query("feature"),
		Outcome: c.Query("outcome"),
	}
	if filter.Feature != "" && !knownFeature(filter.Feature) {
		respondError(c, http.StatusBadRequest, errors.NewInvalidQuery("feature"))
		return
	}
	switch filter.Outcome {
	case "", imodel.OutcomeSucceeded, imodel.OutcomeRejected, imodel.OutcomeFailed:
	default:
		respondError(c, http.StatusBadRequest, errors.NewInvalidQuery("outcome"))
		return
	}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respondError(c, http.StatusBadRequest, errors.NewInvalidQuery("limit"))
			return
		}
		filter.Limit = n
	}

	records, err := h.svc.Recent(ctx, filter)
	if err != nil {
		hlog.CtxErrorf(ctx, "list invocations: %v", err)
		respondError(c, http.StatusInternalServerError, err)
		return
	}

	items := make([]model.InvocationRes, 0, len(records))
	for _, r := range records {
		items = append(items, model.InvocationRes{
			ID:        r.ID,
			RequestID: r.RequestID,
			Feature:   r.Feature,
			Outcome:   r.Outcome,
			Message:   r.Message,
			LatencyMs: r.LatencyMs,
			CreatedAt: r.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, utils.H{"items": items, "count": len(items)})
}

// Summary GET /admin/invocations/summary?window=1h
func (h *InvocationHandler) Summary(ctx context.Context, c *app.RequestContext) {
	if h.svc == nil {
		respondError(c, http.StatusServiceUnavailable, errors.ErrAuditDisabled)
		return
	}

	window := 24 * time.Hour
	if v := c.Query("window"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			respondError(c, http.StatusBadRequest, errors.NewInvalidQuery("window"))
			return
		}
		window = d
	}

	sum, err := h.svc.Summary(ctx, window)
	if err != nil {
		hlog.CtxErrorf(ctx, "summarize invocations: %v", err)
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

func knownFeature(name string) bool {
	for _, f := range assist.Features() {
		if string(f) == name {
			return true
		}
	}
	return false
}

// respondError 统一错误响应，内部错误不暴露细节
func respondError(c *app.RequestContext, status int, err error) {
	c.JSON(status, utils.H{
		"code":    status,
		"message": errors.PublicMessage(err),
	})
}
