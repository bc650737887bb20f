package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"home-assist/pkg/common/config"
)

var (
	hashCost int

	tokenSubject string
	tokenTTL     time.Duration
)

// hashPasswordCmd 输出 ADMIN_PASSWORD_HASH 用的 bcrypt 哈希
var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password <password>",
	Short: "Print a bcrypt hash for ADMIN_PASSWORD_HASH",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := hashPassword(args[0], hashCost)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}

// devTokenCmd 用本地 JWT 配置签发测试令牌，生产环境拒绝执行
var devTokenCmd = &cobra.Command{
	Use:   "dev-token",
	Short: "Sign a bearer token with the configured JWT secret (non-production only)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if cfg.IsProd() {
			return errors.New("dev-token is disabled when APP_ENV=production")
		}
		token, err := signToken(cfg.Middleware.JWT, tokenSubject, tokenTTL, time.Now())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	hashPasswordCmd.Flags().IntVar(&hashCost, "cost", bcrypt.DefaultCost, "bcrypt cost")

	devTokenCmd.Flags().StringVar(&tokenSubject, "sub", "dev-user", "token subject")
	devTokenCmd.Flags().DurationVar(&tokenTTL, "ttl", time.Hour, "token lifetime")
}

func hashPassword(password string, cost int) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.New("password must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func signToken(cfg config.JWTAuthConfig, subject string, ttl time.Duration, now time.Time) (string, error) {
	method := jwt.GetSigningMethod(cfg.SigningMethod)
	if method == nil {
		return "", fmt.Errorf("unsupported signing method %q", cfg.SigningMethod)
	}
	if ttl <= 0 {
		return "", errors.New("ttl must be positive")
	}

	claims := jwt.MapClaims{
		"sub": subject,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	if cfg.Issuer != "" {
		claims["iss"] = cfg.Issuer
	}
	return jwt.NewWithClaims(method, claims).SignedString([]byte(cfg.Secret))
}
