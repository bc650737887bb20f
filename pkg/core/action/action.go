// Package action 实现带校验的 AI 动作包装器：校验 → 调用外部流程 → 统一响应。
package action

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// UnknownErrorMessage 错误没有可用文本时的兜底提示
const UnknownErrorMessage = "An unknown error occurred."

// Validator 请求校验器；失败时返回面向用户的提示
type Validator[Req any] interface {
	Validate(req Req) (message string, ok bool)
}

// ValidatorFunc 函数适配器
type ValidatorFunc[Req any] func(req Req) (string, bool)

func (f ValidatorFunc[Req]) Validate(req Req) (string, bool) {
	return f(req)
}

// Flow 外部 AI 流程，一次调用，不重试
type Flow[Req, Res any] func(ctx context.Context, req Req) Result[Res]

// Definition 单个功能的动作定义
type Definition[Req, Res any] struct {
	Name           string
	Validator      Validator[Req]
	Flow           Flow[Req, Res]
	SuccessMessage string
	FailurePrefix  string
}

// Action 通用包装器，每个功能实例化一次，调用之间不共享可变状态
type Action[Req, Res any] struct {
	def       Definition[Req, Res]
	observers []Observer
}

// New 构造动作；定义不完整属于装配期编程错误，直接 panic
func New[Req, Res any](def Definition[Req, Res], observers ...Observer) *Action[Req, Res] {
	switch {
	case def.Name == "":
		panic("action: name is required")
	case def.Validator == nil:
		panic(fmt.Sprintf("action %s: validator is required", def.Name))
	case def.Flow == nil:
		panic(fmt.Sprintf("action %s: flow is required", def.Name))
	case def.SuccessMessage == "" || def.FailurePrefix == "":
		panic(fmt.Sprintf("action %s: success message and failure prefix are required", def.Name))
	}
	return &Action[Req, Res]{def: def, observers: observers}
}

// Name 功能名
func (a *Action[Req, Res]) Name() string {
	return a.def.Name
}

// Run 执行一次动作。任何流程错误（包括 panic）都会被转换为失败响应，不会向上传播。
func (a *Action[Req, Res]) Run(ctx context.Context, req Req) Envelope[Res] {
	start := time.Now()

	if msg, ok := a.def.Validator.Validate(req); !ok {
		env := Rejected[Res](msg)
		a.notify(ctx, Event{Action: a.def.Name, State: env.State(), Message: env.Message, Latency: time.Since(start)})
		return env
	}

	res := a.invoke(ctx, req)
	if res.IsOk() {
		env := Succeeded(a.def.SuccessMessage, res.Value)
		a.notify(ctx, Event{Action: a.def.Name, State: env.State(), Message: env.Message, Latency: time.Since(start)})
		return env
	}

	env := Failed[Res](a.FailureMessage(res.Err))
	a.notify(ctx, Event{Action: a.def.Name, State: env.State(), Message: env.Message, Err: res.Err, Latency: time.Since(start)})
	return env
}

// FailureMessage 组合 "<前缀>. Details: <错误文本>"
func (a *Action[Req, Res]) FailureMessage(err error) string {
	detail := UnknownErrorMessage
	if err != nil {
		if text := strings.TrimSpace(err.Error()); text != "" {
			detail = text
		}
	}
	return fmt.Sprintf("%s. Details: %s", strings.TrimSuffix(a.def.FailurePrefix, "."), detail)
}

func (a *Action[Req, Res]) invoke(ctx context.Context, req Req) (res Result[Res]) {
	defer func() {
		if r := recover(); r != nil {
			res = Fail[Res](panicError(r))
		}
	}()
	return a.def.Flow(ctx, req)
}

func (a *Action[Req, Res]) notify(ctx context.Context, ev Event) {
	for _, o := range a.observers {
		safeObserve(ctx, o, ev)
	}
}

func panicError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("%v", r)
}
