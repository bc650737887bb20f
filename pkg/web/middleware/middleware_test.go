package middleware

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"home-assist/pkg/common/config"
)

func TestTokenBucket(t *testing.T) {
	now := time.Unix(1000, 0)
	tb := NewTokenBucket(2, time.Second)
	tb.last = now
	tb.now = func() time.Time { return now }

	assert.True(t, tb.Allow())
	assert.True(t, tb.Allow())
	assert.False(t, tb.Allow(), "bucket should be empty")

	now = now.Add(1500 * time.Millisecond)
	assert.True(t, tb.Allow())
	assert.False(t, tb.Allow())

	// 长时间空闲也不会超过容量
	now = now.Add(time.Hour)
	assert.True(t, tb.Allow())
	assert.True(t, tb.Allow())
	assert.False(t, tb.Allow())
}

func TestTrustedOrigin(t *testing.T) {
	domains := []string{".dev.example.com"}

	assert.True(t, trustedOrigin("https://app.dev.example.com", domains))
	assert.True(t, trustedOrigin("https://dev.example.com:8443", domains))
	assert.False(t, trustedOrigin("https://dev.example.com.evil.io", domains))
	assert.False(t, trustedOrigin("https://notdev.example.com", domains))
	assert.False(t, trustedOrigin("https://app.dev.example.com", nil))
}

func TestParseBasicAuth(t *testing.T) {
	header := "Basic " + base64.StdEncoding.EncodeToString([]byte("ops:pa:ss"))
	user, pass, ok := parseBasicAuth(header)
	assert.True(t, ok)
	assert.Equal(t, "ops", user)
	assert.Equal(t, "pa:ss", pass)

	_, _, ok = parseBasicAuth("Bearer abc")
	assert.False(t, ok)
	_, _, ok = parseBasicAuth("Basic !!!")
	assert.False(t, ok)
}

func TestCheckAdmin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	assert.NoError(t, err)
	admin := config.AdminConfig{Username: "ops", PasswordHash: string(hash)}

	assert.True(t, checkAdmin(admin, "ops", "s3cret"))
	assert.False(t, checkAdmin(admin, "ops", "wrong"))
	assert.False(t, checkAdmin(admin, "root", "s3cret"))
	assert.False(t, checkAdmin(config.AdminConfig{Username: "ops"}, "ops", ""), "no hash configured")
}
