package model

import "home-assist/pkg/core/assist"

// FileField multipart 文件字段，目标字符串为空时用文件内容填充
type FileField struct {
	Name   string
	Target *string
}

// Form 各功能的表单需要提供的能力
type Form[Req any] interface {
	Files() []FileField
	Request() Req
}

// 请求数据结构：同时支持 JSON、urlencoded 和 multipart
type (
	DefectForm struct {
		PhotoDataURI string `json:"photoDataUri" form:"photoDataUri"`
		Description  string `json:"description" form:"description"`
	}

	InteriorForm struct {
		RoomPhotoURI    string `json:"roomPhotoUri" form:"roomPhotoUri"`
		StylePreference string `json:"stylePreference" form:"stylePreference"`
	}

	MedicalForm struct {
		Concern string `json:"concern" form:"concern"`
	}

	VideoAdForm struct {
		Prompt       string `json:"prompt" form:"prompt"`
		PhotoDataURI string `json:"photoDataUri" form:"photoDataUri"`
	}

	PromoPosterForm struct {
		WorkerPhotoURI string `json:"workerPhotoUri" form:"workerPhotoUri"`
		WorkerName     string `json:"workerName" form:"workerName"`
		Trade          string `json:"trade" form:"trade"`
	}

	SalePosterForm struct {
		ItemName     string `json:"itemName" form:"itemName"`
		SellerName   string `json:"sellerName" form:"sellerName"`
		Price        string `json:"price" form:"price"`
		ItemPhotoURI string `json:"itemPhotoUri" form:"itemPhotoUri"`
	}

	LegalForm struct {
		DocumentDataURI string `json:"documentDataUri" form:"documentDataUri"`
		Question        string `json:"question" form:"question"`
	}
)

func (f *DefectForm) Files() []FileField {
	return []FileField{{Name: "photo", Target: &f.PhotoDataURI}}
}

func (f *DefectForm) Request() assist.DefectRequest {
	return assist.DefectRequest{PhotoDataURI: f.PhotoDataURI, Description: f.Description}
}

func (f *InteriorForm) Files() []FileField {
	return []FileField{{Name: "roomPhoto", Target: &f.RoomPhotoURI}}
}

func (f *InteriorForm) Request() assist.InteriorRequest {
	return assist.InteriorRequest{RoomPhotoURI: f.RoomPhotoURI, StylePreference: f.StylePreference}
}

func (f *MedicalForm) Files() []FileField { return nil }

func (f *MedicalForm) Request() assist.MedicalRequest {
	return assist.MedicalRequest{Concern: f.Concern}
}

func (f *VideoAdForm) Files() []FileField {
	return []FileField{{Name: "photo", Target: &f.PhotoDataURI}}
}

func (f *VideoAdForm) Request() assist.VideoAdRequest {
	return assist.VideoAdRequest{Prompt: f.Prompt, PhotoDataURI: f.PhotoDataURI}
}

func (f *PromoPosterForm) Files() []FileField {
	return []FileField{{Name: "workerPhoto", Target: &f.WorkerPhotoURI}}
}

func (f *PromoPosterForm) Request() assist.PromoPosterRequest {
	return assist.PromoPosterRequest{WorkerPhotoURI: f.WorkerPhotoURI, WorkerName: f.WorkerName, Trade: f.Trade}
}

func (f *SalePosterForm) Files() []FileField {
	return []FileField{{Name: "itemPhoto", Target: &f.ItemPhotoURI}}
}

func (f *SalePosterForm) Request() assist.SalePosterRequest {
	return assist.SalePosterRequest{
		ItemName:     f.ItemName,
		SellerName:   f.SellerName,
		Price:        f.Price,
		ItemPhotoURI: f.ItemPhotoURI,
	}
}

func (f *LegalForm) Files() []FileField {
	return []FileField{{Name: "document", Target: &f.DocumentDataURI}}
}

func (f *LegalForm) Request() assist.LegalRequest {
	return assist.LegalRequest{DocumentDataURI: f.DocumentDataURI, Question: f.Question}
}

// FeatureInfo 功能列表项
type FeatureInfo struct {
	Feature string `json:"feature"`
	Path    string `json:"path"`
}

// InvocationRes 审计记录的对外视图
type InvocationRes struct {
	ID        string `json:"id"`
	RequestID string `json:"request_id,omitempty"`
	Feature   string `json:"feature"`
	Outcome   string `json:"outcome"`
	Message   string `json:"message"`
	LatencyMs int64  `json:"latency_ms"`
	CreatedAt string `json:"created_at"`
}
