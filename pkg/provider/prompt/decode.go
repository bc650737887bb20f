package prompt

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyResponse 模型没有返回内容
var ErrEmptyResponse = errors.New("the model returned an empty response")

// DecodeJSON 解析模型返回的 JSON，容忍 ```json 代码块包裹
func DecodeJSON[T any](text string) (T, error) {
	var out T
	body := stripFence(strings.TrimSpace(text))
	if body == "" {
		return out, ErrEmptyResponse
	}
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		return out, fmt.Errorf("malformed model output: %w", err)
	}
	return out, nil
}

func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}
