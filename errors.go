package dlt

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCode 错误代码类型
type ErrorCode string

// 错误代码常量
const (
	// 系统级错误 (1000-1999)
	ErrCodeSystem           ErrorCode = "DLT_1000"
	ErrCodeConfigInvalid    ErrorCode = "DLT_1001"
	ErrCodeCacheUnavailable ErrorCode = "DLT_1002"
	ErrCodeCacheCorrupted   ErrorCode = "DLT_1003"

	// 数据获取错误 (2000-2999)
	ErrCodeFetch              ErrorCode = "DLT_2000"
	ErrCodeFetchTimeout       ErrorCode = "DLT_2001"
	ErrCodeFetchStatus        ErrorCode = "DLT_2002"
	ErrCodeCircuitBreakerOpen ErrorCode = "DLT_2003"
	ErrCodeParse              ErrorCode = "DLT_2100"
	ErrCodeRecordFormat       ErrorCode = "DLT_2200"
)

// ErrorSeverity 错误严重程度
type ErrorSeverity string

const (
	SeverityCritical ErrorSeverity = "critical"
	SeverityHigh     ErrorSeverity = "high"
	SeverityMedium   ErrorSeverity = "medium"
	SeverityLow      ErrorSeverity = "low"
)

// DLTError 带错误代码的错误类型
type DLTError struct {
	Code      ErrorCode      `json:"code"`
	Message   string         `json:"message"`
	Details   string         `json:"details,omitempty"`
	Severity  ErrorSeverity  `json:"severity"`
	Timestamp time.Time      `json:"timestamp"`
	Operation string         `json:"operation,omitempty"`
	Cause     error          `json:"-"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Error 实现 error 接口
func (e *DLTError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Details != "" {
		msg += ": " + e.Details
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap 实现 errors.Unwrap 接口
func (e *DLTError) Unwrap() error {
	return e.Cause
}

// Is 实现 errors.Is 接口
//
// A *DLTError matches another *DLTError with the same code, and matches the
// sentinel error of its family (ErrFetchFailed, ErrParseFailed, ErrRecordFormat).
func (e *DLTError) Is(target error) bool {
	if t, ok := target.(*DLTError); ok {
		return e.Code == t.Code
	}
	return target != nil && target == e.sentinel()
}

func (e *DLTError) sentinel() error {
	switch e.Code {
	case ErrCodeFetch, ErrCodeFetchTimeout, ErrCodeFetchStatus, ErrCodeCircuitBreakerOpen:
		return ErrFetchFailed
	case ErrCodeParse:
		return ErrParseFailed
	case ErrCodeRecordFormat:
		return ErrRecordFormat
	default:
		return nil
	}
}

// WithCause 添加原因错误
func (e *DLTError) WithCause(cause error) *DLTError {
	e.Cause = cause
	return e
}

// WithDetails 添加详细信息
func (e *DLTError) WithDetails(details string) *DLTError {
	e.Details = details
	return e
}

// WithOperation 添加操作信息
func (e *DLTError) WithOperation(operation string) *DLTError {
	e.Operation = operation
	return e
}

// WithMetadata 添加元数据
func (e *DLTError) WithMetadata(key string, value any) *DLTError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]any)
	}
	e.Metadata[key] = value
	return e
}

// NewError 创建新的错误
func NewError(code ErrorCode, message string) *DLTError {
	return &DLTError{
		Code:      code,
		Message:   message,
		Severity:  SeverityMedium,
		Timestamp: time.Now(),
	}
}

// NewFetchError 创建数据获取错误
func NewFetchError(code ErrorCode, message string) *DLTError {
	err := NewError(code, message)
	err.Severity = SeverityHigh
	err.Operation = "fetch"
	return err
}

// NewParseError 创建响应解析错误
func NewParseError(message string) *DLTError {
	err := NewError(ErrCodeParse, message)
	err.Severity = SeverityHigh
	err.Operation = "parse"
	return err
}

// NewRecordFormatError 创建单条记录格式错误
func NewRecordFormatError(result, reason string) *DLTError {
	err := NewError(ErrCodeRecordFormat, "malformed draw result")
	err.Severity = SeverityLow
	err.Operation = "split"
	err.Details = reason
	return err.WithMetadata("result", result)
}

// IsFetchError reports whether err aborted a fetch at the network level
func IsFetchError(err error) bool { return errors.Is(err, ErrFetchFailed) }

// IsParseError reports whether err is a response shape mismatch
func IsParseError(err error) bool { return errors.Is(err, ErrParseFailed) }

// IsRecordFormatError reports whether err is a per-record split failure
func IsRecordFormatError(err error) bool { return errors.Is(err, ErrRecordFormat) }

// ErrorCodeOf returns the code of the first *DLTError in err's chain, or ErrCodeSystem
func ErrorCodeOf(err error) ErrorCode {
	var dltErr *DLTError
	if errors.As(err, &dltErr) {
		return dltErr.Code
	}
	return ErrCodeSystem
}
