package dao

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	apperrors "home-assist/pkg/common/errors"
	"home-assist/pkg/core/invocation/model"
	"home-assist/pkg/core/invocation/repository/dao"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

type GormInvocationRepository struct {
	db *gorm.DB
}

func NewGormInvocationRepository(db *gorm.DB) *GormInvocationRepository {
	return &GormInvocationRepository{db: db}
}

var _ dao.InvocationRepository = (*GormInvocationRepository)(nil)

// Create 写入一条审计记录
func (r *GormInvocationRepository) Create(ctx context.Context, inv *model.Invocation) error {
	if err := r.db.WithContext(ctx).Create(inv).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return apperrors.ErrDuplicateRecord
		}
		return fmt.Errorf("%w: invocation insert failed", apperrors.WrapGormError(err))
	}
	return nil
}

// ListRecent 按时间倒序查询
func (r *GormInvocationRepository) ListRecent(ctx context.Context, f dao.Filter) ([]model.Invocation, error) {
	q := r.db.WithContext(ctx).Model(&model.Invocation{})
	if f.Feature != "" {
		q = q.Where("feature = ?", f.Feature)
	}
	if f.Outcome != "" {
		q = q.Where("outcome = ?", f.Outcome)
	}

	var out []model.Invocation
	err := q.Order("created_at DESC").Limit(clampLimit(f.Limit)).Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("%w: invocation query failed", apperrors.WrapGormError(err))
	}
	return out, nil
}

// CountByOutcome 统计 since 之后各结果的数量
func (r *GormInvocationRepository) CountByOutcome(ctx context.Context, since time.Time) (map[string]int64, error) {
	var rows []struct {
		Outcome string
		Total   int64
	}
	err := r.db.WithContext(ctx).Model(&model.Invocation{}).
		Select("outcome, COUNT(*) AS total").
		Where("created_at >= ?", since).
		Group("outcome").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%w: invocation count failed", apperrors.WrapGormError(err))
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Outcome] = row.Total
	}
	return counts, nil
}

// Ping 健康检查
func (r *GormInvocationRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return apperrors.WrapGormError(err)
	}
	return sqlDB.PingContext(ctx)
}

func clampLimit(n int) int {
	switch {
	case n <= 0:
		return defaultListLimit
	case n > maxListLimit:
		return maxListLimit
	default:
		return n
	}
}
