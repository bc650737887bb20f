package action

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
)

// Event 一次调用到达终态后的通知
type Event struct {
	Action  string
	State   State
	Message string
	Err     error
	Latency time.Duration
}

// Observer 终态观察者，必须快速返回，不能阻塞响应
type Observer interface {
	Observe(ctx context.Context, ev Event)
}

// ObserverFunc 函数适配器
type ObserverFunc func(ctx context.Context, ev Event)

func (f ObserverFunc) Observe(ctx context.Context, ev Event) {
	f(ctx, ev)
}

// LogObserver 将失败写入 hlog；校验失败属于正常的用户输入，只记 debug
type LogObserver struct{}

func (LogObserver) Observe(ctx context.Context, ev Event) {
	switch ev.State {
	case StateFailed:
		hlog.CtxErrorf(ctx, "[ACTION FAILED] action=%s latency=%v err=%v", ev.Action, ev.Latency, ev.Err)
	case StateRejected:
		hlog.CtxDebugf(ctx, "[ACTION REJECTED] action=%s message=%q", ev.Action, ev.Message)
	default:
		hlog.CtxDebugf(ctx, "[ACTION OK] action=%s latency=%v", ev.Action, ev.Latency)
	}
}

// safeObserve 观察者自身的 panic 不能影响响应
func safeObserve(ctx context.Context, o Observer, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			hlog.CtxWarnf(ctx, "observer panic action=%s: %v", ev.Action, r)
		}
	}()
	o.Observe(ctx, ev)
}
