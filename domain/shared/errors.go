/*
Package shared - 领域层共享内核

错误设计:
1. 领域层定义哨兵错误，供 errors.Is() 判断
2. DomainError 在创建时捕获堆栈，打印日志时才格式化
3. 领域错误不包含 HTTP 状态码等传输层概念
*/
package shared

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
)

// DomainError 领域错误 - 携带业务上下文和堆栈的结构化错误
type DomainError struct {
	// Err 底层哨兵错误，用于 errors.Is() 判断
	Err     error
	Entity  string
	Message string
	// Field 校验错误对应的字段名，可为空
	Field string

	stack []uintptr
}

func (e *DomainError) Error() string { return e.Message }

func (e *DomainError) Unwrap() error { return e.Err }

// Stack 按需格式化堆栈
func (e *DomainError) Stack() []string { return FormatStack(e.stack) }

// CaptureStack 捕获当前调用栈（导出供子领域包使用）
// skip: 通常为 3，跳过 Callers、CaptureStack 和错误构造函数
func CaptureStack(skip int) []uintptr {
	var pcs [32]uintptr
	n := runtime.Callers(skip, pcs[:])
	return pcs[:n]
}

// FormatStack 格式化堆栈帧，过滤 runtime 内部帧，最多 10 帧
func FormatStack(stack []uintptr) []string {
	if len(stack) == 0 {
		return nil
	}

	frames := runtime.CallersFrames(stack)
	var result []string
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			result = append(result, fmt.Sprintf("%s:%d %s", frame.File, frame.Line, frame.Function))
		}
		if !more || len(result) >= 10 {
			break
		}
	}
	return result
}

// NewValidationError 创建"校验失败"领域错误
func NewValidationError(entity, field, reason string) error {
	return &DomainError{
		Err:     ErrInvalidInput,
		Entity:  entity,
		Field:   field,
		Message: reason,
		stack:   CaptureStack(3),
	}
}

// Stacker 可提供堆栈的错误接口，API 层用它提取错误发生点
type Stacker interface {
	Stack() []string
}
