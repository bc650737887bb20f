// Package datauri 解析和生成 RFC 2397 data URI
package datauri

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var (
	ErrNotDataURI = errors.New("not a data URI")
	ErrMalformed  = errors.New("malformed data URI")
)

// Blob data URI 解码后的内容
type Blob struct {
	MIMEType string
	Data     []byte
}

// Parse 解析 data:[<mediatype>][;base64],<data>
func Parse(uri string) (Blob, error) {
	if !strings.HasPrefix(uri, "data:") {
		return Blob{}, ErrNotDataURI
	}
	header, payload, found := strings.Cut(uri[len("data:"):], ",")
	if !found {
		return Blob{}, fmt.Errorf("%w: missing comma", ErrMalformed)
	}

	params := strings.Split(header, ";")
	mime := strings.TrimSpace(params[0])
	if mime == "" {
		mime = "text/plain"
	}
	isBase64 := false
	for _, p := range params[1:] {
		if strings.EqualFold(strings.TrimSpace(p), "base64") {
			isBase64 = true
		}
	}

	if isBase64 {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			// 浏览器偶尔会省略填充
			data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
			if err != nil {
				return Blob{}, fmt.Errorf("%w: %v", ErrMalformed, err)
			}
		}
		return Blob{MIMEType: mime, Data: data}, nil
	}

	text, err := url.PathUnescape(payload)
	if err != nil {
		return Blob{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return Blob{MIMEType: mime, Data: []byte(text)}, nil
}

// Encode 生成 base64 编码的 data URI
func Encode(mime string, data []byte) string {
	if mime == "" {
		mime = "application/octet-stream"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// IsImage 是否为图片 MIME
func (b Blob) IsImage() bool {
	return strings.HasPrefix(b.MIMEType, "image/")
}
