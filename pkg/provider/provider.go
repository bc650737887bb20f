// Package provider 按配置选择外部 AI 流程的实现
package provider

import (
	"context"
	"fmt"

	"home-assist/pkg/common/config"
	"home-assist/pkg/core/assist"
	"home-assist/pkg/provider/gemini"
	"home-assist/pkg/provider/openai"
)

// Provider 带名称的流程实现
type Provider interface {
	assist.Flows
	Name() string
}

func New(ctx context.Context, cfg config.AIConfig) (Provider, error) {
	switch cfg.Provider {
	case "", "gemini":
		p, err := gemini.New(ctx, gemini.Config{
			APIKey:     cfg.APIKey,
			BaseURL:    cfg.BaseURL,
			TextModel:  cfg.TextModel,
			ImageModel: cfg.ImageModel,
			VideoModel: cfg.VideoModel,
			Timeout:    cfg.RequestTimeout,
			PollEvery:  cfg.VideoPollEvery,
		})
		if err != nil {
			return nil, err
		}
		return p, nil
	case "openai":
		p, err := openai.New(openai.Config{
			APIKey:     cfg.APIKey,
			BaseURL:    cfg.BaseURL,
			TextModel:  cfg.TextModel,
			ImageModel: cfg.ImageModel,
			Timeout:    cfg.RequestTimeout,
		})
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.Provider)
	}
}
