// Package reqctx 在 context 中传递请求级别的信息
package reqctx

import "context"

type requestIDKey struct{}

// WithRequestID 绑定请求ID
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID 取出请求ID，不存在时返回空串
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
