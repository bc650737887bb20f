package assist

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

func strictPolicy() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}

// cleanText 去掉用户输入中的标记，只保留纯文本再交给模型
func cleanText(s string) string {
	if s == "" {
		return s
	}
	return strings.TrimSpace(html.UnescapeString(strictPolicy().Sanitize(s)))
}

func (r DefectRequest) sanitized() DefectRequest {
	r.Description = cleanText(r.Description)
	return r
}

func (r InteriorRequest) sanitized() InteriorRequest {
	r.StylePreference = cleanText(r.StylePreference)
	return r
}

func (r MedicalRequest) sanitized() MedicalRequest {
	r.Concern = cleanText(r.Concern)
	return r
}

func (r VideoAdRequest) sanitized() VideoAdRequest {
	r.Prompt = cleanText(r.Prompt)
	return r
}

func (r PromoPosterRequest) sanitized() PromoPosterRequest {
	r.WorkerName = cleanText(r.WorkerName)
	r.Trade = cleanText(r.Trade)
	return r
}

func (r SalePosterRequest) sanitized() SalePosterRequest {
	r.ItemName = cleanText(r.ItemName)
	r.SellerName = cleanText(r.SellerName)
	r.Price = cleanText(r.Price)
	return r
}

func (r LegalRequest) sanitized() LegalRequest {
	r.Question = cleanText(r.Question)
	return r
}
