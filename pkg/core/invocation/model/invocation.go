package model

import (
	"time"

	"gorm.io/gorm"
)

// 调用结果
const (
	OutcomeSucceeded = "succeeded"
	OutcomeRejected  = "rejected"
	OutcomeFailed    = "failed"
)

// Invocation 动作调用审计记录，不保存请求内容和返回数据
type Invocation struct {
	ID        string    `gorm:"type:char(36);primaryKey"`
	RequestID string    `gorm:"type:varchar(64);index"`
	Feature   string    `gorm:"type:varchar(64);not null;index:idx_feature_outcome"`
	Outcome   string    `gorm:"type:varchar(16);not null;index:idx_feature_outcome"`
	Message   string    `gorm:"type:varchar(1024)"`
	LatencyMs int64     `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"index;autoCreateTime"`
}

// TableName 定义映射表名
func (Invocation) TableName() string {
	return "action_invocations"
}

func AutoMigrate(db *gorm.DB) error {
	return db.Set("gorm:table_options", "COMMENT='AI动作调用审计表'").
		AutoMigrate(&Invocation{})
}
