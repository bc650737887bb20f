package handler

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"

	"home-assist/pkg/common/datauri"
	"home-assist/pkg/common/errors"
	"home-assist/pkg/core/action"
	"home-assist/pkg/core/assist"
	"home-assist/pkg/web/model"
)

const invalidBodyMessage = "Invalid request body."

// ActionHandler 按路径参数分发到对应功能
type ActionHandler struct {
	routes map[assist.Feature]app.HandlerFunc
}

// NewActionHandler maxFileSize 为单个上传文件的大小上限（字节）
func NewActionHandler(catalog *assist.Catalog, maxFileSize int64) *ActionHandler {
	return &ActionHandler{
		routes: map[assist.Feature]app.HandlerFunc{
			assist.FeatureDefectAnalysis:   serve[model.DefectForm](catalog.DefectAnalysis, maxFileSize),
			assist.FeatureInteriorAnalysis: serve[model.InteriorForm](catalog.InteriorAnalysis, maxFileSize),
			assist.FeatureMedicalAdvice:    serve[model.MedicalForm](catalog.MedicalAdvice, maxFileSize),
			assist.FeatureVideoAd:          serve[model.VideoAdForm](catalog.VideoAd, maxFileSize),
			assist.FeaturePromoPoster:      serve[model.PromoPosterForm](catalog.PromoPoster, maxFileSize),
			assist.FeatureSalePoster:       serve[model.SalePosterForm](catalog.SalePoster, maxFileSize),
			assist.FeatureLegalDocument:    serve[model.LegalForm](catalog.LegalDocument, maxFileSize),
		},
	}
}

// Dispatch POST /api/v1/actions/:feature
func (h *ActionHandler) Dispatch(ctx context.Context, c *app.RequestContext) {
	feature := c.Param("feature")
	handle, ok := h.routes[assist.Feature(feature)]
	if !ok {
		msg := errors.PublicMessage(errors.NewUnknownFeature(feature))
		c.JSON(http.StatusNotFound, action.Rejected[any](fmt.Sprintf("%s: %s", msg, feature)))
		return
	}
	handle(ctx, c)
}

// List GET /api/v1/actions
func (h *ActionHandler) List(ctx context.Context, c *app.RequestContext) {
	features := assist.Features()
	items := make([]model.FeatureInfo, 0, len(features))
	for _, f := range features {
		items = append(items, model.FeatureInfo{
			Feature: string(f),
			Path:    "/api/v1/actions/" + string(f),
		})
	}
	c.JSON(http.StatusOK, action.Succeeded("Available features.", items))
}

func serve[F any, PF interface {
	*F
	model.Form[Req]
}, Req, Res any](act *action.Action[Req, Res], maxFileSize int64) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		form := PF(new(F))
		if err := c.Bind(form); err != nil {
			hlog.CtxInfof(ctx, "bind failed action=%s: %v", act.Name(), err)
			writeEnvelope(c, action.Rejected[Res](invalidBodyMessage))
			return
		}
		attachFiles(ctx, c, form.Files(), maxFileSize)

		writeEnvelope(c, act.Run(ctx, form.Request()))
	}
}

// statusOf 成功 200，校验失败 400，外部流程失败 502
func statusOf(s action.State) int {
	switch s {
	case action.StateSucceeded:
		return http.StatusOK
	case action.StateRejected:
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

func writeEnvelope[T any](c *app.RequestContext, env action.Envelope[T]) {
	c.JSON(statusOf(env.State()), env)
}

// attachFiles 把上传的文件转换成 data URI；读取失败时保持为空，交给校验处理
func attachFiles(ctx context.Context, c *app.RequestContext, fields []model.FileField, maxSize int64) {
	if len(fields) == 0 || !strings.HasPrefix(string(c.ContentType()), "multipart/form-data") {
		return
	}
	for _, field := range fields {
		if *field.Target != "" {
			continue
		}
		fh, err := c.FormFile(field.Name)
		if err != nil {
			continue
		}
		if maxSize > 0 && fh.Size > maxSize {
			hlog.CtxInfof(ctx, "upload %s too large: %d bytes", field.Name, fh.Size)
			continue
		}

		f, err := fh.Open()
		if err != nil {
			hlog.CtxWarnf(ctx, "open upload %s: %v", field.Name, err)
			continue
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil || len(data) == 0 {
			continue
		}
		*field.Target = datauri.Encode(mediaType(fh.Header.Get("Content-Type"), data), data)
	}
}

func mediaType(declared string, data []byte) string {
	if mt, _, err := mime.ParseMediaType(declared); err == nil && mt != "application/octet-stream" {
		return mt
	}
	mt, _, _ := mime.ParseMediaType(http.DetectContentType(data))
	return mt
}
