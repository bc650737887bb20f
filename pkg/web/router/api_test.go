package router_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/textproto"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/ut"
	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"home-assist/pkg/common/config"
	"home-assist/pkg/core/action"
	"home-assist/pkg/core/assist"
	"home-assist/pkg/core/invocation/model"
	"home-assist/pkg/core/invocation/repository/dao"
	"home-assist/pkg/core/invocation/service"
	"home-assist/pkg/web/handler"
	"home-assist/pkg/web/router"
)

// stubFlows 记录收到的请求，按需返回失败
type stubFlows struct {
	mu      sync.Mutex
	calls   int
	lastURI string
	fail    error
}

func (s *stubFlows) record(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.lastURI = uri
}

func (s *stubFlows) AnalyzeDefects(_ context.Context, req assist.DefectRequest) action.Result[assist.DefectReport] {
	s.record(req.PhotoDataURI)
	if s.fail != nil {
		return action.Fail[assist.DefectReport](s.fail)
	}
	return action.Ok(assist.DefectReport{Defects: []string{"cracked tile"}})
}

func (s *stubFlows) SuggestInterior(_ context.Context, req assist.InteriorRequest) action.Result[assist.InteriorSuggestions] {
	s.record(req.RoomPhotoURI)
	return action.Ok(assist.InteriorSuggestions{StyleSummary: "warm minimal"})
}

func (s *stubFlows) AdviseMedical(_ context.Context, req assist.MedicalRequest) action.Result[assist.MedicalAdvice] {
	s.record("")
	if s.fail != nil {
		return action.Fail[assist.MedicalAdvice](s.fail)
	}
	return action.Ok(assist.MedicalAdvice{Advice: "rest and hydrate"})
}

func (s *stubFlows) CreateVideoAd(context.Context, assist.VideoAdRequest) action.Result[assist.VideoAd] {
	s.record("")
	return action.Ok(assist.VideoAd{VideoDataURI: "data:video/mp4;base64,AAAA"})
}

func (s *stubFlows) CreatePromoPoster(_ context.Context, req assist.PromoPosterRequest) action.Result[assist.Poster] {
	s.record(req.WorkerPhotoURI)
	return action.Ok(assist.Poster{PosterDataURI: "data:image/png;base64,AAAA"})
}

func (s *stubFlows) CreateSalePoster(_ context.Context, req assist.SalePosterRequest) action.Result[assist.Poster] {
	s.record(req.ItemPhotoURI)
	return action.Ok(assist.Poster{PosterDataURI: "data:image/png;base64,AAAA"})
}

func (s *stubFlows) AnalyzeLegalDocument(_ context.Context, req assist.LegalRequest) action.Result[assist.LegalAnalysis] {
	s.record(req.DocumentDataURI)
	return action.Ok(assist.LegalAnalysis{Summary: "standard lease"})
}

type stubInvocations struct{}

func (stubInvocations) Recent(context.Context, dao.Filter) ([]model.Invocation, error) {
	return []model.Invocation{{ID: "a", Feature: "medical-advice", Outcome: model.OutcomeFailed, CreatedAt: time.Unix(0, 0)}}, nil
}

func (stubInvocations) Summary(context.Context, time.Duration) (service.Summary, error) {
	return service.Summary{Total: 1}, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newEngine(t *testing.T, flows assist.Flows, mutate func(*config.Config), deps ...func(*router.Deps)) *server.Hertz {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(&cfg)
	}
	d := router.Deps{
		Config:  &cfg,
		Catalog: assist.NewCatalog(flows),
		Health: []handler.ComponentCheck{{
			Name:   "ai",
			IsCore: true,
			Check:  func(context.Context) error { return nil },
		}},
	}
	for _, fn := range deps {
		fn(&d)
	}
	h := server.New()
	require.NoError(t, router.RegisterAPIs(h, d))
	return h
}

func jsonBody(s string) *ut.Body {
	return &ut.Body{Body: strings.NewReader(s), Len: len(s)}
}

var (
	uaHeader   = ut.Header{Key: "User-Agent", Value: "router-test"}
	jsonHeader = ut.Header{Key: "Content-Type", Value: "application/json"}
)

func decode(t *testing.T, body []byte) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(body, &env), string(body))
	return env
}

func TestHealthCheckRoute(t *testing.T) {
	h := newEngine(t, &stubFlows{}, nil)

	w := ut.PerformRequest(h.Engine, "GET", "/health", nil, uaHeader)
	resp := w.Result()

	assert.Equal(t, 200, resp.StatusCode())
	assert.Contains(t, string(resp.Body()), `"status":"healthy"`)
}

func TestHealthCheckDegraded(t *testing.T) {
	h := newEngine(t, &stubFlows{}, nil, func(d *router.Deps) {
		d.Health = append(d.Health, handler.ComponentCheck{
			Name:   "database",
			IsCore: true,
			Check:  func(context.Context) error { return errors.New("connection refused") },
		})
	})

	w := ut.PerformRequest(h.Engine, "GET", "/health", nil, uaHeader)
	assert.Equal(t, 503, w.Result().StatusCode())
	assert.Contains(t, string(w.Result().Body()), "connection refused")
}

func TestListFeatures(t *testing.T) {
	h := newEngine(t, &stubFlows{}, nil)

	w := ut.PerformRequest(h.Engine, "GET", "/api/v1/actions", nil, uaHeader)
	env := decode(t, w.Result().Body())

	assert.True(t, env.Success)
	for _, f := range assist.Features() {
		assert.Contains(t, string(env.Data), string(f))
	}
}

func TestActionSucceeded(t *testing.T) {
	flows := &stubFlows{}
	h := newEngine(t, flows, nil)

	w := ut.PerformRequest(h.Engine, "POST", "/api/v1/actions/medical-advice",
		jsonBody(`{"concern":"persistent cough for two weeks"}`), uaHeader, jsonHeader)
	resp := w.Result()
	env := decode(t, resp.Body())

	assert.Equal(t, 200, resp.StatusCode())
	assert.True(t, env.Success)
	assert.Equal(t, "Advice generated.", env.Message)
	assert.JSONEq(t, `{"advice":"rest and hydrate"}`, string(env.Data))
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestActionRejectedSkipsFlow(t *testing.T) {
	flows := &stubFlows{}
	h := newEngine(t, flows, nil)

	w := ut.PerformRequest(h.Engine, "POST", "/api/v1/actions/medical-advice",
		jsonBody(`{"concern":"ouch"}`), uaHeader, jsonHeader)
	resp := w.Result()
	env := decode(t, resp.Body())

	assert.Equal(t, 400, resp.StatusCode())
	assert.False(t, env.Success)
	assert.Equal(t, "Please describe your concern in at least 10 characters.", env.Message)
	assert.Equal(t, "null", string(env.Data))
	assert.Zero(t, flows.calls)
}

func TestActionFailed(t *testing.T) {
	flows := &stubFlows{fail: errors.New("quota exceeded")}
	h := newEngine(t, flows, nil)

	w := ut.PerformRequest(h.Engine, "POST", "/api/v1/actions/medical-advice",
		jsonBody(`{"concern":"persistent cough for two weeks"}`), uaHeader, jsonHeader)
	resp := w.Result()
	env := decode(t, resp.Body())

	assert.Equal(t, 502, resp.StatusCode())
	assert.False(t, env.Success)
	assert.Equal(t, "Failed to get advice. Details: quota exceeded", env.Message)
	assert.Equal(t, "null", string(env.Data))
}

func TestMalformedBodyIsRejected(t *testing.T) {
	flows := &stubFlows{}
	h := newEngine(t, flows, nil)

	w := ut.PerformRequest(h.Engine, "POST", "/api/v1/actions/medical-advice",
		jsonBody(`{"concern":`), uaHeader, jsonHeader)
	env := decode(t, w.Result().Body())

	assert.Equal(t, 400, w.Result().StatusCode())
	assert.False(t, env.Success)
	assert.Zero(t, flows.calls)
}

func TestUnknownFeature(t *testing.T) {
	h := newEngine(t, &stubFlows{}, nil)

	w := ut.PerformRequest(h.Engine, "POST", "/api/v1/actions/roof-repair",
		jsonBody(`{}`), uaHeader, jsonHeader)
	env := decode(t, w.Result().Body())

	assert.Equal(t, 404, w.Result().StatusCode())
	assert.False(t, env.Success)
	assert.Contains(t, env.Message, "roof-repair")
}

func TestMultipartUploadBecomesDataURI(t *testing.T) {
	flows := &stubFlows{}
	h := newEngine(t, flows, nil)

	png := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("description", "bathroom wall"))
	part, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Disposition": {`form-data; name="photo"; filename="wall.png"`},
		"Content-Type":        {"image/png"},
	})
	require.NoError(t, err)
	_, _ = part.Write(png)
	require.NoError(t, mw.Close())

	w := ut.PerformRequest(h.Engine, "POST", "/api/v1/actions/defect-analysis",
		&ut.Body{Body: &buf, Len: buf.Len()},
		uaHeader, ut.Header{Key: "Content-Type", Value: mw.FormDataContentType()})
	env := decode(t, w.Result().Body())

	require.True(t, env.Success, env.Message)
	assert.Equal(t, "data:image/png;base64,"+base64.StdEncoding.EncodeToString(png), flows.lastURI)
}

func TestBearerTokenRequiredWhenEnabled(t *testing.T) {
	const secret = "test-secret"
	h := newEngine(t, &stubFlows{}, func(cfg *config.Config) {
		cfg.Middleware.JWT.Enabled = true
		cfg.Middleware.JWT.Secret = secret
	})

	w := ut.PerformRequest(h.Engine, "GET", "/api/v1/actions", nil, uaHeader)
	assert.Equal(t, 401, w.Result().StatusCode())

	token, err := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, jwtv5.MapClaims{
		"sub": "customer-42",
		"iss": "home-assist",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(secret))
	require.NoError(t, err)

	w = ut.PerformRequest(h.Engine, "GET", "/api/v1/actions", nil, uaHeader,
		ut.Header{Key: "Authorization", Value: "Bearer " + token})
	assert.Equal(t, 200, w.Result().StatusCode())
}

func TestAdminInvocations(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	withAdmin := func(cfg *config.Config) {
		cfg.Admin.Username = "ops"
		cfg.Admin.PasswordHash = string(hash)
	}
	basic := func(user, pass string) ut.Header {
		return ut.Header{Key: "Authorization", Value: "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+pass))}
	}

	t.Run("audit disabled", func(t *testing.T) {
		h := newEngine(t, &stubFlows{}, withAdmin)
		w := ut.PerformRequest(h.Engine, "GET", "/admin/invocations", nil, uaHeader, basic("ops", "s3cret"))
		assert.Equal(t, 503, w.Result().StatusCode())
	})

	h := newEngine(t, &stubFlows{}, withAdmin, func(d *router.Deps) {
		d.Invocations = stubInvocations{}
	})

	t.Run("wrong password", func(t *testing.T) {
		w := ut.PerformRequest(h.Engine, "GET", "/admin/invocations", nil, uaHeader, basic("ops", "nope"))
		assert.Equal(t, 401, w.Result().StatusCode())
	})

	t.Run("bad query", func(t *testing.T) {
		w := ut.PerformRequest(h.Engine, "GET", "/admin/invocations?outcome=maybe", nil, uaHeader, basic("ops", "s3cret"))
		assert.Equal(t, 400, w.Result().StatusCode())
	})

	t.Run("ok", func(t *testing.T) {
		w := ut.PerformRequest(h.Engine, "GET", "/admin/invocations?feature=medical-advice&limit=10", nil, uaHeader, basic("ops", "s3cret"))
		require.Equal(t, 200, w.Result().StatusCode())
		assert.Contains(t, string(w.Result().Body()), `"count":1`)
	})
}
