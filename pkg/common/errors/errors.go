// pkg/common/errors/errors.go

/*
  - 使用实例
    if hzteErr, ok := err.(*hzte.Error); ok && hzteErr.IsType(hzte.ErrorTypePublic) {
    // 可以直接返回给调用方
    }
*/
package errors

import (
	"errors"

	hzte "github.com/cloudwego/hertz/pkg/common/errors"
)

// 定义原始错误
var (
	rawErrUnknownFeature  = errors.New("unknown feature")
	rawErrAuditDisabled   = errors.New("invocation audit is disabled")
	rawErrInvalidQuery    = errors.New("invalid query parameter")
	rawErrRecordNotFound  = errors.New("record not found")
	rawErrDuplicateRecord = errors.New("duplicate record")
)

// ErrDatabaseInternal 数据库内部错误（不对外暴露细节）
var ErrDatabaseInternal = errors.New("database internal error")

// 包装成 Hertz 错误类型
var (
	ErrUnknownFeature  = hzte.New(rawErrUnknownFeature, hzte.ErrorTypePublic, nil)
	ErrAuditDisabled   = hzte.New(rawErrAuditDisabled, hzte.ErrorTypePublic, nil)
	ErrRecordNotFound  = hzte.New(rawErrRecordNotFound, hzte.ErrorTypePublic, nil)
	ErrDuplicateRecord = hzte.New(rawErrDuplicateRecord, hzte.ErrorTypePublic, nil)
)

// NewInvalidQuery 附带出错参数名
func NewInvalidQuery(meta interface{}) *hzte.Error {
	return hzte.New(rawErrInvalidQuery, hzte.ErrorTypePublic, meta)
}

// NewUnknownFeature 附带请求的功能名
func NewUnknownFeature(meta interface{}) *hzte.Error {
	return hzte.New(rawErrUnknownFeature, hzte.ErrorTypePublic, meta)
}
