// Package openai 基于 OpenAI 兼容接口实现 AI 流程（视频广告不支持）
package openai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"home-assist/pkg/common/datauri"
	"home-assist/pkg/core/action"
	"home-assist/pkg/core/assist"
	"home-assist/pkg/provider/prompt"
)

var (
	ErrMissingAPIKey       = errors.New("openai: API key is required")
	ErrVideoUnsupported    = errors.New("video generation is not supported by the openai provider")
	ErrUnsupportedDocument = errors.New("document type is not supported by the openai provider")
	ErrNoImage             = errors.New("the model did not return an image")
)

type Config struct {
	APIKey     string
	BaseURL    string
	TextModel  string
	ImageModel string
	Timeout    time.Duration
}

// Provider 实现 assist.Flows
type Provider struct {
	client *openai.Client
	cfg    Config
}

var _ assist.Flows = (*Provider)(nil)

func New(cfg Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	clientConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &Provider{
		client: openai.NewClientWithConfig(clientConfig),
		cfg:    cfg,
	}, nil
}

// Name 用于健康检查
func (p *Provider) Name() string {
	return "openai"
}

func (p *Provider) AnalyzeDefects(ctx context.Context, req assist.DefectRequest) action.Result[assist.DefectReport] {
	return chatJSON[assist.DefectReport](ctx, p, prompt.Defect(req), req.PhotoDataURI)
}

func (p *Provider) SuggestInterior(ctx context.Context, req assist.InteriorRequest) action.Result[assist.InteriorSuggestions] {
	return chatJSON[assist.InteriorSuggestions](ctx, p, prompt.Interior(req), req.RoomPhotoURI)
}

func (p *Provider) AdviseMedical(ctx context.Context, req assist.MedicalRequest) action.Result[assist.MedicalAdvice] {
	return chatJSON[assist.MedicalAdvice](ctx, p, prompt.Medical(req))
}

func (p *Provider) AnalyzeLegalDocument(ctx context.Context, req assist.LegalRequest) action.Result[assist.LegalAnalysis] {
	return chatJSON[assist.LegalAnalysis](ctx, p, prompt.Legal(req), req.DocumentDataURI)
}

func (p *Provider) CreateVideoAd(context.Context, assist.VideoAdRequest) action.Result[assist.VideoAd] {
	return action.Fail[assist.VideoAd](ErrVideoUnsupported)
}

// CreatePromoPoster 图片接口不接受参考照片，只根据文字生成
func (p *Provider) CreatePromoPoster(ctx context.Context, req assist.PromoPosterRequest) action.Result[assist.Poster] {
	return p.createImage(ctx, prompt.PromoPoster(req))
}

func (p *Provider) CreateSalePoster(ctx context.Context, req assist.SalePosterRequest) action.Result[assist.Poster] {
	return p.createImage(ctx, prompt.SalePoster(req))
}

func chatJSON[T any](ctx context.Context, p *Provider, instruction string, attachments ...string) action.Result[T] {
	parts, err := buildParts(instruction, attachments...)
	if err != nil {
		return action.Fail[T](err)
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.cfg.TextModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, MultiContent: parts},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.4,
	})
	if err != nil {
		return action.Fail[T](fmt.Errorf("error generating AI response: %w", err))
	}
	if len(resp.Choices) == 0 {
		return action.Fail[T](prompt.ErrEmptyResponse)
	}

	out, err := prompt.DecodeJSON[T](resp.Choices[0].Message.Content)
	if err != nil {
		return action.Fail[T](err)
	}
	return action.Ok(out)
}

func (p *Provider) createImage(ctx context.Context, text string) action.Result[assist.Poster] {
	resp, err := p.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         text,
		Model:          p.cfg.ImageModel,
		N:              1,
		Size:           openai.CreateImageSize1024x1024,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		return action.Fail[assist.Poster](fmt.Errorf("image generation failed: %w", err))
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return action.Fail[assist.Poster](ErrNoImage)
	}

	data, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return action.Fail[assist.Poster](fmt.Errorf("malformed image payload: %w", err))
	}
	return action.Ok(assist.Poster{PosterDataURI: datauri.Encode("image/png", data)})
}

// buildParts 图片走 image_url，文本类文档直接内联，其它类型不支持
func buildParts(instruction string, attachments ...string) ([]openai.ChatMessagePart, error) {
	parts := []openai.ChatMessagePart{{Type: openai.ChatMessagePartTypeText, Text: instruction}}
	for _, uri := range attachments {
		blob, err := datauri.Parse(uri)
		if err != nil {
			return nil, err
		}
		switch {
		case blob.IsImage():
			parts = append(parts, openai.ChatMessagePart{
				Type:     openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{URL: uri, Detail: openai.ImageURLDetailAuto},
			})
		case strings.HasPrefix(blob.MIMEType, "text/"):
			parts = append(parts, openai.ChatMessagePart{
				Type: openai.ChatMessagePartTypeText,
				Text: "Document:\n" + string(blob.Data),
			})
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedDocument, blob.MIMEType)
		}
	}
	return parts, nil
}
