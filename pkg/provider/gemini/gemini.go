// Package gemini 基于 google.golang.org/genai 实现全部 AI 流程
package gemini

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"google.golang.org/genai"

	"home-assist/pkg/common/datauri"
	"home-assist/pkg/core/action"
	"home-assist/pkg/core/assist"
	"home-assist/pkg/provider/prompt"
)

var (
	ErrMissingAPIKey = errors.New("gemini: API key is required")
	ErrNoImage       = errors.New("the model did not return an image")
	ErrNoVideo       = errors.New("the model did not return a video")
)

const maxVideoBytes = 64 << 20

// Config provider 配置
type Config struct {
	APIKey     string
	BaseURL    string
	TextModel  string
	ImageModel string
	VideoModel string
	Timeout    time.Duration // 单次 HTTP 请求超时
	PollEvery  time.Duration // 视频任务轮询间隔
}

// Provider 实现 assist.Flows
type Provider struct {
	client *genai.Client
	http   *http.Client
	cfg    Config
}

var _ assist.Flows = (*Provider)(nil)

func New(ctx context.Context, cfg Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.PollEvery <= 0 {
		cfg.PollEvery = 10 * time.Second
	}

	hc := &http.Client{Timeout: cfg.Timeout}
	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: hc,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &Provider{client: client, http: hc, cfg: cfg}, nil
}

// Name 用于健康检查
func (p *Provider) Name() string {
	return "gemini"
}

func (p *Provider) AnalyzeDefects(ctx context.Context, req assist.DefectRequest) action.Result[assist.DefectReport] {
	return generateJSON[assist.DefectReport](ctx, p, prompt.Defect(req), defectSchema, req.PhotoDataURI)
}

func (p *Provider) SuggestInterior(ctx context.Context, req assist.InteriorRequest) action.Result[assist.InteriorSuggestions] {
	return generateJSON[assist.InteriorSuggestions](ctx, p, prompt.Interior(req), interiorSchema, req.RoomPhotoURI)
}

func (p *Provider) AdviseMedical(ctx context.Context, req assist.MedicalRequest) action.Result[assist.MedicalAdvice] {
	return generateJSON[assist.MedicalAdvice](ctx, p, prompt.Medical(req), medicalSchema)
}

func (p *Provider) AnalyzeLegalDocument(ctx context.Context, req assist.LegalRequest) action.Result[assist.LegalAnalysis] {
	return generateJSON[assist.LegalAnalysis](ctx, p, prompt.Legal(req), legalSchema, req.DocumentDataURI)
}

func (p *Provider) CreatePromoPoster(ctx context.Context, req assist.PromoPosterRequest) action.Result[assist.Poster] {
	return p.generatePoster(ctx, prompt.PromoPoster(req), req.WorkerPhotoURI)
}

func (p *Provider) CreateSalePoster(ctx context.Context, req assist.SalePosterRequest) action.Result[assist.Poster] {
	if req.ItemPhotoURI == "" {
		return p.generatePoster(ctx, prompt.SalePoster(req))
	}
	return p.generatePoster(ctx, prompt.SalePoster(req), req.ItemPhotoURI)
}

func (p *Provider) CreateVideoAd(ctx context.Context, req assist.VideoAdRequest) action.Result[assist.VideoAd] {
	var image *genai.Image
	if req.PhotoDataURI != "" {
		blob, err := datauri.Parse(req.PhotoDataURI)
		if err != nil {
			return action.Fail[assist.VideoAd](err)
		}
		image = &genai.Image{ImageBytes: blob.Data, MIMEType: blob.MIMEType}
	}

	op, err := p.client.Models.GenerateVideos(ctx, p.cfg.VideoModel, prompt.VideoAd(req), image, &genai.GenerateVideosConfig{
		AspectRatio: "16:9",
	})
	if err != nil {
		return action.Fail[assist.VideoAd](err)
	}

	// 视频生成是长任务，轮询属于流程本身
	for !op.Done {
		select {
		case <-ctx.Done():
			return action.Fail[assist.VideoAd](ctx.Err())
		case <-time.After(p.cfg.PollEvery):
		}
		hlog.CtxDebugf(ctx, "polling video operation %s", op.Name)
		if op, err = p.client.Operations.GetVideosOperation(ctx, op, nil); err != nil {
			return action.Fail[assist.VideoAd](err)
		}
	}
	if len(op.Error) > 0 {
		return action.Failf[assist.VideoAd]("video generation failed: %v", op.Error["message"])
	}
	if op.Response == nil || len(op.Response.GeneratedVideos) == 0 || op.Response.GeneratedVideos[0].Video == nil {
		return action.Fail[assist.VideoAd](ErrNoVideo)
	}

	video := op.Response.GeneratedVideos[0].Video
	data := video.VideoBytes
	if len(data) == 0 {
		if data, err = p.download(ctx, video.URI); err != nil {
			return action.Fail[assist.VideoAd](err)
		}
	}
	mime := video.MIMEType
	if mime == "" {
		mime = "video/mp4"
	}
	return action.Ok(assist.VideoAd{VideoDataURI: datauri.Encode(mime, data)})
}

// download 拉取生成的视频文件（文件接口要求携带 API key）
func (p *Provider) download(ctx context.Context, uri string) ([]byte, error) {
	if uri == "" {
		return nil, ErrNoVideo
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-goog-api-key", p.cfg.APIKey)

	resp, err := p.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("video download failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("video download failed: status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxVideoBytes))
}

// generateJSON 多模态输入 + JSON schema 输出
func generateJSON[T any](ctx context.Context, p *Provider, instruction string, schema *genai.Schema, attachments ...string) action.Result[T] {
	contents, err := buildContents(instruction, attachments...)
	if err != nil {
		return action.Fail[T](err)
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.cfg.TextModel, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
		Temperature:      genai.Ptr[float32](0.4),
	})
	if err != nil {
		return action.Fail[T](err)
	}
	if err := blocked(resp); err != nil {
		return action.Fail[T](err)
	}

	out, err := prompt.DecodeJSON[T](resp.Text())
	if err != nil {
		return action.Fail[T](err)
	}
	return action.Ok(out)
}

func (p *Provider) generatePoster(ctx context.Context, instruction string, attachments ...string) action.Result[assist.Poster] {
	contents, err := buildContents(instruction, attachments...)
	if err != nil {
		return action.Fail[assist.Poster](err)
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.cfg.ImageModel, contents, &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
	})
	if err != nil {
		return action.Fail[assist.Poster](err)
	}
	if err := blocked(resp); err != nil {
		return action.Fail[assist.Poster](err)
	}

	img := firstInlineImage(resp)
	if img == nil {
		return action.Fail[assist.Poster](ErrNoImage)
	}
	return action.Ok(assist.Poster{PosterDataURI: datauri.Encode(img.MIMEType, img.Data)})
}

func buildContents(instruction string, attachments ...string) ([]*genai.Content, error) {
	parts := make([]*genai.Part, 0, len(attachments)+1)
	parts = append(parts, genai.NewPartFromText(instruction))
	for _, uri := range attachments {
		blob, err := datauri.Parse(uri)
		if err != nil {
			return nil, err
		}
		parts = append(parts, genai.NewPartFromBytes(blob.Data, blob.MIMEType))
	}
	return []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}, nil
}

// blocked 安全策略拦截时返回错误
func blocked(resp *genai.GenerateContentResponse) error {
	if resp == nil {
		return prompt.ErrEmptyResponse
	}
	if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" {
		return fmt.Errorf("request blocked by safety filters: %s", fb.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return prompt.ErrEmptyResponse
	}
	return nil
}

func firstInlineImage(resp *genai.GenerateContentResponse) *genai.Blob {
	for _, c := range resp.Candidates {
		if c == nil || c.Content == nil {
			continue
		}
		for _, part := range c.Content.Parts {
			if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData
			}
		}
	}
	return nil
}
