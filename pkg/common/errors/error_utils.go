package errors

import (
	"errors"
	"fmt"

	hzte "github.com/cloudwego/hertz/pkg/common/errors"
	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// region 错误处理工具函数

// WrapGormError 将底层数据库错误转变为业务可识别错误
// 参数说明：
//   - rawErr: 原始GORM错误
//
// 返回值：
//   - error: 标准化错误类型
func WrapGormError(rawErr error) error {
	if rawErr == nil {
		return nil
	}

	// 处理预定义的GORM错误
	switch {
	case errors.Is(rawErr, gorm.ErrRecordNotFound):
		return ErrRecordNotFound
	case errors.Is(rawErr, gorm.ErrDuplicatedKey):
		return ErrDuplicateRecord
	case errors.Is(rawErr, gorm.ErrInvalidDB),
		errors.Is(rawErr, gorm.ErrInvalidTransaction):
		return fmt.Errorf("%w: %v", ErrDatabaseInternal, rawErr)
	}

	// 处理MySQL驱动错误
	var mysqlErr *mysql.MySQLError
	if errors.As(rawErr, &mysqlErr) {
		switch mysqlErr.Number {
		case 1062: // 唯一性约束冲突
			return ErrDuplicateRecord
		case 1044, 1045, 1049, 1146: // 权限、连接、表不存在等错误
			return fmt.Errorf("%w: %s", ErrDatabaseInternal, mysqlErr.Message)
		}
	}

	// 兜底处理：附加原始错误信息
	return fmt.Errorf("%w: %v", ErrDatabaseInternal, rawErr)
}

// IsDuplicateError 判断是否为重复记录错误
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicateRecord) || errors.Is(err, gorm.ErrDuplicatedKey)
}

// PublicMessage 可对外展示的错误文本，内部错误统一隐藏
func PublicMessage(err error) string {
	var hErr *hzte.Error
	if errors.As(err, &hErr) && hErr.IsType(hzte.ErrorTypePublic) {
		return hErr.Error()
	}
	return "internal server error"
}
