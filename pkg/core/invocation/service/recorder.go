package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/google/uuid"

	"home-assist/pkg/common/reqctx"
	"home-assist/pkg/core/action"
	"home-assist/pkg/core/invocation/model"
	"home-assist/pkg/core/invocation/repository/dao"
)

const (
	defaultQueueSize = 256
	writeTimeout     = 3 * time.Second
	maxMessageLen    = 1024
)

// Recorder 异步写入审计记录。
// Observe 从不阻塞：队列满时直接丢弃并计数。
type Recorder struct {
	repo  dao.InvocationRepository
	queue chan model.Invocation

	dropped atomic.Int64
	written atomic.Int64

	started   atomic.Bool
	closeOnce sync.Once
	stop      chan struct{}
	done      chan struct{}
	now       func() time.Time
}

func NewRecorder(repo dao.InvocationRepository, queueSize int) *Recorder {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	return &Recorder{
		repo:  repo,
		queue: make(chan model.Invocation, queueSize),
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
		now:   time.Now,
	}
}

var _ action.Observer = (*Recorder)(nil)

// Observe 实现 action.Observer
func (r *Recorder) Observe(ctx context.Context, ev action.Event) {
	inv := model.Invocation{
		ID:        uuid.NewString(),
		RequestID: reqctx.RequestID(ctx),
		Feature:   ev.Action,
		Outcome:   outcomeOf(ev.State),
		Message:   truncate(ev.Message, maxMessageLen),
		LatencyMs: ev.Latency.Milliseconds(),
		CreatedAt: r.now(),
	}

	select {
	case r.queue <- inv:
	default:
		if n := r.dropped.Add(1); n == 1 || n%100 == 0 {
			hlog.CtxWarnf(ctx, "invocation audit queue full, dropped=%d", n)
		}
	}
}

// Start 启动后台写入协程，重复调用无效
func (r *Recorder) Start(ctx context.Context) {
	if !r.started.CompareAndSwap(false, true) {
		return
	}
	go r.run(ctx)
}

// run 消费队列直到 ctx 取消或 Close；退出前尽量写完剩余记录
func (r *Recorder) run(ctx context.Context) {
	defer close(r.done)
	for {
		select {
		case inv := <-r.queue:
			r.write(inv)
		case <-r.stop:
			r.drain()
			return
		case <-ctx.Done():
			r.drain()
			return
		}
	}
}

// Close 通知写入协程退出并等待剩余记录写完
func (r *Recorder) Close() {
	r.closeOnce.Do(func() {
		close(r.stop)
	})
	if r.started.Load() {
		<-r.done
	}
}

// Stats 已写入和已丢弃的数量
func (r *Recorder) Stats() (written, dropped int64) {
	return r.written.Load(), r.dropped.Load()
}

func (r *Recorder) drain() {
	for {
		select {
		case inv := <-r.queue:
			r.write(inv)
		default:
			return
		}
	}
}

func (r *Recorder) write(inv model.Invocation) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := r.repo.Create(ctx, &inv); err != nil {
		hlog.Warnf("invocation audit write failed feature=%s: %v", inv.Feature, err)
		return
	}
	r.written.Add(1)
}

func outcomeOf(s action.State) string {
	switch s {
	case action.StateSucceeded:
		return model.OutcomeSucceeded
	case action.StateRejected:
		return model.OutcomeRejected
	default:
		return model.OutcomeFailed
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
