package dao

import (
	"context"
	"time"

	"home-assist/pkg/core/invocation/model"
)

// Filter 查询条件，零值表示不过滤
type Filter struct {
	Feature string
	Outcome string
	Limit   int
}

type InvocationRepository interface {
	Create(ctx context.Context, inv *model.Invocation) error
	ListRecent(ctx context.Context, f Filter) ([]model.Invocation, error)
	CountByOutcome(ctx context.Context, since time.Time) (map[string]int64, error)
	Ping(ctx context.Context) error
}
