package action

import "fmt"

// Result 外部流程的返回值：成功携带 Value，失败携带 Err
type Result[T any] struct {
	Value T
	Err   error
	ok    bool
}

// Ok 成功结果
func Ok[T any](v T) Result[T] {
	return Result[T]{Value: v, ok: true}
}

// Fail 失败结果，err 可以为 nil（消息回退为通用提示）
func Fail[T any](err error) Result[T] {
	return Result[T]{Err: err}
}

// Failf 以格式化错误构造失败结果
func Failf[T any](format string, args ...any) Result[T] {
	return Fail[T](fmt.Errorf(format, args...))
}

// IsOk 是否成功
func (r Result[T]) IsOk() bool {
	return r.ok
}
