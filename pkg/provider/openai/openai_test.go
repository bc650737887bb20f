package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"home-assist/pkg/core/assist"
)

func newFakeServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		var req openai.ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		content := `{"advice":"Cool the burn under running water","urgency":"self-care"}`
		if len(req.Messages) > 0 && len(req.Messages[0].MultiContent) > 1 {
			content = `{"defects":["water stain"],"recommendedTrade":"plumber"}`
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]string{"role": "assistant", "content": content},
				"finish_reason": "stop",
			}},
		})
	})
	mux.HandleFunc("/v1/images/generations", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"created":1,"data":[{"b64_json":"iVBORw=="}]}`)
	})
	mux.HandleFunc("/v1/quota/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, `{"error":{"message":"quota exceeded","type":"insufficient_quota"}}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestProvider(t *testing.T, baseURL string) *Provider {
	t.Helper()
	p, err := New(Config{APIKey: "sk-test", BaseURL: baseURL, TextModel: "gpt-test", ImageModel: "dall-e-3", Timeout: 5 * time.Second})
	require.NoError(t, err)
	return p
}

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New(Config{})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestAdviseMedical(t *testing.T) {
	srv := newFakeServer(t)
	p := newTestProvider(t, srv.URL+"/v1")

	res := p.AdviseMedical(context.Background(), assist.MedicalRequest{Concern: "I burned my hand on the stove"})
	require.True(t, res.IsOk(), "unexpected error: %v", res.Err)
	assert.Equal(t, "self-care", res.Value.Urgency)
}

func TestAnalyzeDefectsSendsImage(t *testing.T) {
	srv := newFakeServer(t)
	p := newTestProvider(t, srv.URL+"/v1")

	res := p.AnalyzeDefects(context.Background(), assist.DefectRequest{PhotoDataURI: "data:image/png;base64,AAA="})
	require.True(t, res.IsOk(), "unexpected error: %v", res.Err)
	assert.Equal(t, []string{"water stain"}, res.Value.Defects)
	assert.Equal(t, "plumber", res.Value.RecommendedTrade)
}

func TestAPIErrorIsReturnedAsFailure(t *testing.T) {
	srv := newFakeServer(t)
	p := newTestProvider(t, srv.URL+"/v1/quota")

	res := p.AdviseMedical(context.Background(), assist.MedicalRequest{Concern: "leaking radiator valve"})
	require.False(t, res.IsOk())
	assert.ErrorContains(t, res.Err, "quota exceeded")
}

func TestCreateSalePoster(t *testing.T) {
	srv := newFakeServer(t)
	p := newTestProvider(t, srv.URL+"/v1")

	res := p.CreateSalePoster(context.Background(), assist.SalePosterRequest{ItemName: "Ladder", SellerName: "Bo"})
	require.True(t, res.IsOk(), "unexpected error: %v", res.Err)
	assert.Equal(t, "data:image/png;base64,iVBORw==", res.Value.PosterDataURI)
}

func TestVideoAdUnsupported(t *testing.T) {
	p := newTestProvider(t, "http://127.0.0.1:1/v1")
	res := p.CreateVideoAd(context.Background(), assist.VideoAdRequest{Prompt: "a painter at work"})
	assert.ErrorIs(t, res.Err, ErrVideoUnsupported)
}

func TestBuildParts(t *testing.T) {
	parts, err := buildParts("read this", "data:text/plain;base64,aGVsbG8=", "data:image/png;base64,AAA=")
	require.NoError(t, err)
	require.Len(t, parts, 3)
	assert.Equal(t, "Document:\nhello", parts[1].Text)
	assert.Equal(t, openai.ChatMessagePartTypeImageURL, parts[2].Type)

	_, err = buildParts("read this", "data:application/pdf;base64,JVBERi0=")
	assert.ErrorIs(t, err, ErrUnsupportedDocument)
}
