package service

import (
	"context"
	"time"

	"home-assist/pkg/core/invocation/model"
	"home-assist/pkg/core/invocation/repository/dao"
)

// InvocationService 运维查询接口
type InvocationService interface {
	Recent(ctx context.Context, f dao.Filter) ([]model.Invocation, error)
	Summary(ctx context.Context, window time.Duration) (Summary, error)
}

// Summary 时间窗口内的调用统计
type Summary struct {
	Since     time.Time        `json:"since"`
	Outcomes  map[string]int64 `json:"outcomes"`
	Total     int64            `json:"total"`
	FailRatio float64          `json:"fail_ratio"`
}

type invocationService struct {
	repo dao.InvocationRepository
	now  func() time.Time
}

func NewInvocationService(repo dao.InvocationRepository) InvocationService {
	return &invocationService{repo: repo, now: time.Now}
}

func (s *invocationService) Recent(ctx context.Context, f dao.Filter) ([]model.Invocation, error) {
	return s.repo.ListRecent(ctx, f)
}

func (s *invocationService) Summary(ctx context.Context, window time.Duration) (Summary, error) {
	since := s.now().Add(-window)
	counts, err := s.repo.CountByOutcome(ctx, since)
	if err != nil {
		return Summary{}, err
	}

	sum := Summary{Since: since, Outcomes: counts}
	for _, n := range counts {
		sum.Total += n
	}
	if sum.Total > 0 {
		sum.FailRatio = float64(counts[model.OutcomeFailed]) / float64(sum.Total)
	}
	return sum, nil
}
