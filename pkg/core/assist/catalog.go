// Package assist 定义七个 AI 辅助功能：输入契约、提示策略、成功/失败文案，
// 以及与外部 AI 流程的对接接口。
package assist

import (
	"context"

	"home-assist/pkg/core/action"
	"home-assist/pkg/core/validate"
)

// Feature 功能标识，同时用作路由路径
type Feature string

const (
	FeatureDefectAnalysis   Feature = "defect-analysis"
	FeatureInteriorAnalysis Feature = "interior-analysis"
	FeatureMedicalAdvice    Feature = "medical-advice"
	FeatureVideoAd          Feature = "video-ad"
	FeaturePromoPoster      Feature = "promo-poster"
	FeatureSalePoster       Feature = "sale-poster"
	FeatureLegalDocument    Feature = "legal-document"
)

// Features 全部功能，顺序固定
func Features() []Feature {
	return []Feature{
		FeatureDefectAnalysis,
		FeatureInteriorAnalysis,
		FeatureMedicalAdvice,
		FeatureVideoAd,
		FeaturePromoPoster,
		FeatureSalePoster,
		FeatureLegalDocument,
	}
}

// Flows 外部 AI 流程（由 provider 实现）
type Flows interface {
	AnalyzeDefects(ctx context.Context, req DefectRequest) action.Result[DefectReport]
	SuggestInterior(ctx context.Context, req InteriorRequest) action.Result[InteriorSuggestions]
	AdviseMedical(ctx context.Context, req MedicalRequest) action.Result[MedicalAdvice]
	CreateVideoAd(ctx context.Context, req VideoAdRequest) action.Result[VideoAd]
	CreatePromoPoster(ctx context.Context, req PromoPosterRequest) action.Result[Poster]
	CreateSalePoster(ctx context.Context, req SalePosterRequest) action.Result[Poster]
	AnalyzeLegalDocument(ctx context.Context, req LegalRequest) action.Result[LegalAnalysis]
}

// 校验提示：固定文案与逗号拼接两种策略按功能分别保留
var (
	defectPolicy = validate.Fixed("Invalid input. Please provide a valid image.")

	interiorPolicy = validate.Joined{
		"roomPhotoUri":            "Please upload a photo of the room",
		"roomPhotoUri.imageuri": "The room photo must be an image",
		"stylePreference":         "Style preference must be at most 200 characters",
	}

	medicalPolicy = validate.Fixed("Please describe your concern in at least 10 characters.")

	videoAdPolicy = validate.Joined{
		"prompt":       "Please describe the ad in at least 10 characters",
		"prompt.max":   "The ad description must be at most 1000 characters",
		"photoDataUri": "The reference photo must be an image",
	}

	promoPosterPolicy = validate.Joined{
		"workerPhotoUri":            "Please upload a photo of the worker",
		"workerPhotoUri.imageuri": "The worker photo must be an image",
		"workerName":                "Worker name must be at least 2 characters",
		"workerName.max":            "Worker name must be at most 80 characters",
		"trade":                     "Trade must be at most 60 characters",
	}

	salePosterPolicy = validate.Joined{
		"itemName":       "Item name must be at least 2 characters",
		"itemName.max":   "Item name must be at most 120 characters",
		"sellerName":     "Seller name must be at least 2 characters",
		"sellerName.max": "Seller name must be at most 80 characters",
		"price":          "Price must be at most 40 characters",
		"itemPhotoUri":   "The item photo must be an image",
	}

	legalPolicy = validate.Fixed("Invalid input. Please provide a valid document.")
)

// Catalog 每个功能一个动作实例
type Catalog struct {
	DefectAnalysis   *action.Action[DefectRequest, DefectReport]
	InteriorAnalysis *action.Action[InteriorRequest, InteriorSuggestions]
	MedicalAdvice    *action.Action[MedicalRequest, MedicalAdvice]
	VideoAd          *action.Action[VideoAdRequest, VideoAd]
	PromoPoster      *action.Action[PromoPosterRequest, Poster]
	SalePoster       *action.Action[SalePosterRequest, Poster]
	LegalDocument    *action.Action[LegalRequest, LegalAnalysis]
}

// NewCatalog 用给定的流程实现装配全部功能
func NewCatalog(flows Flows, observers ...action.Observer) *Catalog {
	return &Catalog{
		DefectAnalysis: action.New(action.Definition[DefectRequest, DefectReport]{
			Name:           string(FeatureDefectAnalysis),
			Validator:      validate.Struct[DefectRequest](defectPolicy),
			Flow:           sanitizing(flows.AnalyzeDefects),
			SuccessMessage: "Analysis complete.",
			FailurePrefix:  "Failed to analyze the photo",
		}, observers...),
		InteriorAnalysis: action.New(action.Definition[InteriorRequest, InteriorSuggestions]{
			Name:           string(FeatureInteriorAnalysis),
			Validator:      validate.Struct[InteriorRequest](interiorPolicy),
			Flow:           sanitizing(flows.SuggestInterior),
			SuccessMessage: "Design suggestions are ready.",
			FailurePrefix:  "Failed to generate interior design suggestions",
		}, observers...),
		MedicalAdvice: action.New(action.Definition[MedicalRequest, MedicalAdvice]{
			Name:           string(FeatureMedicalAdvice),
			Validator:      validate.Struct[MedicalRequest](medicalPolicy),
			Flow:           sanitizing(flows.AdviseMedical),
			SuccessMessage: "Advice generated.",
			FailurePrefix:  "Failed to get advice",
		}, observers...),
		VideoAd: action.New(action.Definition[VideoAdRequest, VideoAd]{
			Name:           string(FeatureVideoAd),
			Validator:      validate.Struct[VideoAdRequest](videoAdPolicy),
			Flow:           sanitizing(flows.CreateVideoAd),
			SuccessMessage: "Video ad created.",
			FailurePrefix:  "Failed to create the video ad",
		}, observers...),
		PromoPoster: action.New(action.Definition[PromoPosterRequest, Poster]{
			Name:           string(FeaturePromoPoster),
			Validator:      validate.Struct[PromoPosterRequest](promoPosterPolicy),
			Flow:           sanitizing(flows.CreatePromoPoster),
			SuccessMessage: "Poster generated.",
			FailurePrefix:  "Failed to generate the promotional poster",
		}, observers...),
		SalePoster: action.New(action.Definition[SalePosterRequest, Poster]{
			Name:           string(FeatureSalePoster),
			Validator:      validate.Struct[SalePosterRequest](salePosterPolicy),
			Flow:           sanitizing(flows.CreateSalePoster),
			SuccessMessage: "Sale poster generated.",
			FailurePrefix:  "Failed to generate the sale poster",
		}, observers...),
		LegalDocument: action.New(action.Definition[LegalRequest, LegalAnalysis]{
			Name:           string(FeatureLegalDocument),
			Validator:      validate.Struct[LegalRequest](legalPolicy),
			Flow:           sanitizing(flows.AnalyzeLegalDocument),
			SuccessMessage: "Document analyzed.",
			FailurePrefix:  "Failed to analyze the document",
		}, observers...),
	}
}

type sanitizer[Req any] interface {
	sanitized() Req
}

func sanitizing[Req sanitizer[Req], Res any](flow func(context.Context, Req) action.Result[Res]) action.Flow[Req, Res] {
	return func(ctx context.Context, req Req) action.Result[Res] {
		return flow(ctx, req.sanitized())
	}
}
