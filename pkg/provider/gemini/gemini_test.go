package gemini

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"home-assist/pkg/core/assist"
)

// fakeGemini 返回固定的 generateContent 响应
func fakeGemini(t *testing.T, body string) (*httptest.Server, *atomic.Value) {
	t.Helper()
	var lastPath atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lastPath.Store(r.URL.Path)
		_, _ = io.Copy(io.Discard, r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &lastPath
}

func newTestProvider(t *testing.T, baseURL string) *Provider {
	t.Helper()
	p, err := New(context.Background(), Config{
		APIKey:     "test-key",
		BaseURL:    baseURL,
		TextModel:  "gemini-test",
		ImageModel: "gemini-image-test",
		Timeout:    5 * time.Second,
	})
	require.NoError(t, err)
	return p
}

func textResponse(text string) string {
	raw, _ := json.Marshal(text)
	return `{"candidates":[{"content":{"role":"model","parts":[{"text":` + string(raw) + `}]}}]}`
}

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New(context.Background(), Config{})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestAnalyzeDefects(t *testing.T) {
	srv, path := fakeGemini(t, textResponse(`{"defects":["crack"],"severity":"low"}`))
	p := newTestProvider(t, srv.URL)

	res := p.AnalyzeDefects(context.Background(), assist.DefectRequest{PhotoDataURI: "data:image/png;base64,AAA="})

	require.True(t, res.IsOk(), "unexpected error: %v", res.Err)
	assert.Equal(t, []string{"crack"}, res.Value.Defects)
	assert.Equal(t, "low", res.Value.Severity)
	assert.Contains(t, path.Load().(string), "gemini-test:generateContent")
}

func TestAnalyzeDefectsMalformedOutput(t *testing.T) {
	srv, _ := fakeGemini(t, textResponse("there is a crack"))
	p := newTestProvider(t, srv.URL)

	res := p.AnalyzeDefects(context.Background(), assist.DefectRequest{PhotoDataURI: "data:image/png;base64,AAA="})
	require.False(t, res.IsOk())
	assert.ErrorContains(t, res.Err, "malformed model output")
}

func TestAnalyzeDefectsBadAttachment(t *testing.T) {
	p := newTestProvider(t, "http://127.0.0.1:1")
	res := p.AnalyzeDefects(context.Background(), assist.DefectRequest{PhotoDataURI: "data:image/png;base64"})
	require.False(t, res.IsOk())
}

func TestCreatePromoPosterReturnsInlineImage(t *testing.T) {
	body := `{"candidates":[{"content":{"role":"model","parts":[
		{"text":"Here is your poster"},
		{"inlineData":{"mimeType":"image/png","data":"iVBORw=="}}
	]}}]}`
	srv, path := fakeGemini(t, body)
	p := newTestProvider(t, srv.URL)

	res := p.CreatePromoPoster(context.Background(), assist.PromoPosterRequest{
		WorkerPhotoURI: "data:image/jpeg;base64,/9j/",
		WorkerName:     "Ana",
	})

	require.True(t, res.IsOk(), "unexpected error: %v", res.Err)
	assert.Equal(t, "data:image/png;base64,iVBORw==", res.Value.PosterDataURI)
	assert.Contains(t, path.Load().(string), "gemini-image-test")
}

func TestCreateSalePosterWithoutImage(t *testing.T) {
	srv, _ := fakeGemini(t, textResponse("sorry, text only"))
	p := newTestProvider(t, srv.URL)

	res := p.CreateSalePoster(context.Background(), assist.SalePosterRequest{ItemName: "Drill", SellerName: "Bo"})
	require.False(t, res.IsOk())
	assert.ErrorIs(t, res.Err, ErrNoImage)
}

func TestBlocked(t *testing.T) {
	assert.Error(t, blocked(nil))
	assert.Error(t, blocked(&genai.GenerateContentResponse{}))
	assert.ErrorContains(t, blocked(&genai.GenerateContentResponse{
		PromptFeedback: &genai.GenerateContentResponsePromptFeedback{BlockReason: "SAFETY"},
	}), "SAFETY")
	assert.NoError(t, blocked(&genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}}))
}

func TestBuildContents(t *testing.T) {
	contents, err := buildContents("describe", "data:image/png;base64,AAA=", "data:application/pdf;base64,JVBERi0=")
	require.NoError(t, err)
	require.Len(t, contents, 1)
	parts := contents[0].Parts
	require.Len(t, parts, 3)
	assert.Equal(t, "describe", parts[0].Text)
	assert.Equal(t, "image/png", parts[1].InlineData.MIMEType)
	assert.Equal(t, "application/pdf", parts[2].InlineData.MIMEType)
}

func TestDownloadSendsAPIKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-goog-api-key") != "test-key" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		_, _ = io.WriteString(w, "mp4-bytes")
	}))
	defer srv.Close()
	p := newTestProvider(t, srv.URL)

	data, err := p.download(context.Background(), srv.URL+"/files/abc:download")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "mp4"))

	_, err = p.download(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoVideo)
}
