// Package validate 基于 struct tag 的请求校验，以及每个功能各自的错误提示策略。
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"home-assist/pkg/common/datauri"
	"home-assist/pkg/core/action"
)

var (
	once     sync.Once
	instance *validator.Validate
)

// Engine 返回共享的校验器实例（并发安全）
func Engine() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		// 字段名使用 json 名，和表单字段保持一致
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("imageuri", func(fl validator.FieldLevel) bool {
			blob, err := datauri.Parse(fl.Field().String())
			return err == nil && blob.IsImage() && len(blob.Data) > 0
		})
		_ = v.RegisterValidation("docuri", func(fl validator.FieldLevel) bool {
			blob, err := datauri.Parse(fl.Field().String())
			return err == nil && len(blob.Data) > 0
		})
		instance = v
	})
	return instance
}

// Policy 将字段错误转换为面向用户的提示
type Policy interface {
	Message(errs validator.ValidationErrors) string
}

// Fixed 任意校验失败都返回同一条提示
type Fixed string

func (f Fixed) Message(validator.ValidationErrors) string {
	return string(f)
}

// Joined 每个失败字段对应一条提示，按字段顺序用逗号拼接。
// key 可以是 "field" 或 "field.tag"，后者优先。
type Joined map[string]string

func (j Joined) Message(errs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(errs))
	for _, fe := range errs {
		msgs = append(msgs, j.fieldMessage(fe))
	}
	return strings.Join(msgs, ", ")
}

func (j Joined) fieldMessage(fe validator.FieldError) string {
	if m, ok := j[fe.Field()+"."+fe.Tag()]; ok {
		return m
	}
	if m, ok := j[fe.Field()]; ok {
		return m
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}

// Struct 为请求类型 T 构造校验器
func Struct[T any](policy Policy) action.Validator[T] {
	return action.ValidatorFunc[T](func(req T) (string, bool) {
		err := Engine().Struct(req)
		if err == nil {
			return "", true
		}
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return policy.Message(verrs), false
		}
		// InvalidValidationError 属于编程错误，仍按策略给出提示
		return policy.Message(nil), false
	})
}
