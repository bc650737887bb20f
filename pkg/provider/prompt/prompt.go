// Package prompt 各功能发送给模型的指令文本，两个 provider 共用
package prompt

import (
	"fmt"
	"strings"

	"home-assist/pkg/core/assist"
)

const jsonOnly = "Respond with a single JSON object and nothing else."

// Defect 房屋缺陷分析
func Defect(req assist.DefectRequest) string {
	var b strings.Builder
	b.WriteString("You are an experienced home inspector. Look at the photo and list every visible defect ")
	b.WriteString("(cracks, leaks, mould, damaged wiring, peeling paint and similar). ")
	b.WriteString("Rate the overall severity as low, medium or high and name the trade best suited to fix it ")
	b.WriteString("(plumber, electrician, painter, carpenter, roofer or general handyman). ")
	if req.Description != "" {
		fmt.Fprintf(&b, "The homeowner adds: %q. ", req.Description)
	}
	b.WriteString(`Fields: "defects" (array of short strings), "severity", "recommendedTrade", "summary". `)
	b.WriteString(jsonOnly)
	return b.String()
}

// Interior 室内设计建议
func Interior(req assist.InteriorRequest) string {
	var b strings.Builder
	b.WriteString("You are an interior designer. Study the room in the photo and suggest practical improvements ")
	b.WriteString("a local painter or carpenter could carry out. ")
	if req.StylePreference != "" {
		fmt.Fprintf(&b, "The customer prefers this style: %q. ", req.StylePreference)
	}
	b.WriteString(`Fields: "styleSummary" (one sentence), "suggestions" (array), "colorPalette" (array of hex colours). `)
	b.WriteString(jsonOnly)
	return b.String()
}

// Medical 健康/居家问题建议
func Medical(req assist.MedicalRequest) string {
	var b strings.Builder
	b.WriteString("You give cautious, general first-line guidance for everyday health and home-safety concerns. ")
	b.WriteString("Never diagnose. Recommend seeing a professional whenever symptoms could be serious. ")
	fmt.Fprintf(&b, "Concern: %q. ", req.Concern)
	b.WriteString(`Fields: "advice", "urgency" (one of: self-care, see-a-professional, emergency), "disclaimer". `)
	b.WriteString(jsonOnly)
	return b.String()
}

// VideoAd 视频广告
func VideoAd(req assist.VideoAdRequest) string {
	return "A short, upbeat promotional video for a local home-services business. " +
		"Bright daylight, friendly tradespeople, clean finished work. " + req.Prompt
}

// PromoPoster 师傅宣传海报
func PromoPoster(req assist.PromoPosterRequest) string {
	trade := req.Trade
	if trade == "" {
		trade = "home services professional"
	}
	return fmt.Sprintf("Design a clean promotional poster featuring the person in the photo. "+
		"Headline: %q. Subtitle: %q. Trustworthy, modern, high contrast, no additional text.",
		req.WorkerName, "Your local "+trade)
}

// SalePoster 二手物品出售海报
func SalePoster(req assist.SalePosterRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Design an eye-catching 'For Sale' poster for %q sold by %s. ", req.ItemName, req.SellerName)
	if req.Price != "" {
		fmt.Fprintf(&b, "Show the price %s prominently. ", req.Price)
	}
	if req.ItemPhotoURI != "" {
		b.WriteString("Use the supplied photo of the item as the centrepiece. ")
	}
	b.WriteString("Bold typography, simple layout, no extra text.")
	return b.String()
}

// Legal 法律文件解读
func Legal(req assist.LegalRequest) string {
	var b strings.Builder
	b.WriteString("You help homeowners understand contracts, leases and service agreements in plain language. ")
	b.WriteString("You are not a lawyer and must not give legal advice. ")
	if req.Question != "" {
		fmt.Fprintf(&b, "The user asks: %q. ", req.Question)
	}
	b.WriteString(`Fields: "summary", "keyClauses" (array), "risks" (array). `)
	b.WriteString(jsonOnly)
	return b.String()
}
