package middleware

import (
	"context"
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/hertz-contrib/jwt"
	"golang.org/x/crypto/bcrypt"

	"home-assist/pkg/common/config"
	"home-assist/pkg/core/action"
)

// IdentityKey 通过校验后令牌中的 sub
const IdentityKey = "subject"

// BearerAuthMiddleware 校验平台签发的 Bearer 令牌（本服务不签发）
func BearerAuthMiddleware(cfg config.JWTAuthConfig) (app.HandlerFunc, error) {
	authMiddleware, err := jwt.New(&jwt.HertzJWTMiddleware{
		Realm:            cfg.Realm,
		SigningAlgorithm: cfg.SigningMethod,
		Key:              []byte(cfg.Secret),
		TimeFunc:         time.Now,
		TokenLookup:      "header: Authorization",
		TokenHeadName:    "Bearer",
		IdentityKey:      IdentityKey,
		IdentityHandler: func(ctx context.Context, c *app.RequestContext) interface{} {
			return jwt.ExtractClaims(ctx, c)["sub"]
		},
		Authorizator: func(data interface{}, ctx context.Context, c *app.RequestContext) bool {
			if cfg.Issuer == "" {
				return true
			}
			iss, _ := jwt.ExtractClaims(ctx, c)["iss"].(string)
			return iss == cfg.Issuer
		},
		Unauthorized: handleJWTError,
	})
	if err != nil {
		return nil, err
	}
	return authMiddleware.MiddlewareFunc(), nil
}

func handleJWTError(ctx context.Context, c *app.RequestContext, code int, message string) {
	hlog.CtxWarnf(ctx, "JWT Error (code=%d) path=%s: %s", code, c.Path(), message)
	c.JSON(code, action.Rejected[any](message))
}

// BasicAuthMiddleware 运维接口认证，密码与 bcrypt 哈希比对
func BasicAuthMiddleware(admin config.AdminConfig) app.HandlerFunc {
	realm := `Basic realm="home-assist admin"`
	return func(c context.Context, ctx *app.RequestContext) {
		user, pass, ok := parseBasicAuth(string(ctx.GetHeader("Authorization")))
		if !ok || !checkAdmin(admin, user, pass) {
			hlog.CtxWarnf(c, "admin auth failed path=%s ip=%s", ctx.Path(), ctx.ClientIP())
			ctx.Header("WWW-Authenticate", realm)
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, utils.H{
				"code":    http.StatusUnauthorized,
				"message": "unauthorized",
			})
			return
		}
		ctx.Next(c)
	}
}

// checkAdmin 未配置密码哈希时一律拒绝
func checkAdmin(admin config.AdminConfig, user, pass string) bool {
	if admin.PasswordHash == "" {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(admin.Username)) == 1
	passOK := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(pass)) == nil
	return userOK && passOK
}

func parseBasicAuth(header string) (user, pass string, ok bool) {
	const prefix = "Basic "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", "", false
	}
	raw, err := base64.StdEncoding.DecodeString(header[len(prefix):])
	if err != nil {
		return "", "", false
	}
	user, pass, ok = strings.Cut(string(raw), ":")
	return user, pass, ok
}
