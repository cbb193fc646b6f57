package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"runtime"
	"strings"
	"time"
)

// ErrorCode 错误码类型
type ErrorCode int

// 错误码定义（按模块分组）
const (
	// 通用错误 (1000-1999)
	ErrUnknown          ErrorCode = 1000
	ErrInvalidParam     ErrorCode = 1001
	ErrNotFound         ErrorCode = 1002
	ErrAlreadyExists    ErrorCode = 1003
	ErrPermissionDenied ErrorCode = 1004
	ErrTimeout          ErrorCode = 1005
	ErrCanceled         ErrorCode = 1006
	ErrNotImplemented   ErrorCode = 1007

	// 游戏错误 (2000-2999)
	ErrInvalidBet          ErrorCode = 2000
	ErrIllegalLines        ErrorCode = 2001
	ErrInvalidBoost        ErrorCode = 2002
	ErrInsufficientTronium ErrorCode = 2003
	ErrInvalidAmount       ErrorCode = 2004
	ErrBattleFinished      ErrorCode = 2005
	ErrReplayFailed        ErrorCode = 2006
	ErrEngineInvariant     ErrorCode = 2007

	// 通信错误 (4000-4999)
	ErrWebSocketConnect ErrorCode = 4000
	ErrWebSocketSend    ErrorCode = 4001
	ErrWebSocketClosed  ErrorCode = 4002
	ErrMessageFormat    ErrorCode = 4003

	// 数据库错误 (5000-5999)
	ErrDatabaseConnect ErrorCode = 5000
	ErrDatabaseQuery   ErrorCode = 5001
	ErrDatabaseInsert  ErrorCode = 5002
	ErrDatabaseUpdate  ErrorCode = 5003
	ErrTransaction     ErrorCode = 5004

	// 配置错误 (6000-6999)
	ErrConfigLoad     ErrorCode = 6000
	ErrConfigValidate ErrorCode = 6001

	// 安全错误 (7000-7999)
	ErrAuthentication ErrorCode = 7000
	ErrAuthorization  ErrorCode = 7001
	ErrTokenExpired   ErrorCode = 7002
	ErrTokenInvalid   ErrorCode = 7003
)

// 错误码消息映射
var errorMessages = map[ErrorCode]string{
	// 通用错误
	ErrUnknown:          "未知错误",
	ErrInvalidParam:     "无效的参数",
	ErrNotFound:         "资源未找到",
	ErrAlreadyExists:    "资源已存在",
	ErrPermissionDenied: "权限不足",
	ErrTimeout:          "操作超时",
	ErrCanceled:         "操作已取消",
	ErrNotImplemented:   "功能未实现",

	// 游戏错误
	ErrInvalidBet:          "无效的下注",
	ErrIllegalLines:        "非法的下注线数",
	ErrInvalidBoost:        "无效的加成档位",
	ErrInsufficientTronium: "Tronium余额不足",
	ErrInvalidAmount:       "无效的金额",
	ErrBattleFinished:      "战斗已结束",
	ErrReplayFailed:        "回放失败",
	ErrEngineInvariant:     "结算引擎内部错误",

	// 通信错误
	ErrWebSocketConnect: "WebSocket连接失败",
	ErrWebSocketSend:    "WebSocket发送失败",
	ErrWebSocketClosed:  "WebSocket连接已关闭",
	ErrMessageFormat:    "消息格式错误",

	// 数据库错误
	ErrDatabaseConnect: "数据库连接失败",
	ErrDatabaseQuery:   "数据库查询失败",
	ErrDatabaseInsert:  "数据库插入失败",
	ErrDatabaseUpdate:  "数据库更新失败",
	ErrTransaction:     "事务处理失败",

	// 配置错误
	ErrConfigLoad:     "配置加载失败",
	ErrConfigValidate: "配置验证失败",

	// 安全错误
	ErrAuthentication: "认证失败",
	ErrAuthorization:  "授权失败",
	ErrTokenExpired:   "令牌已过期",
	ErrTokenInvalid:   "无效的令牌",
}

// AppError 应用错误结构
type AppError struct {
	Code    ErrorCode    `json:"code"`            // 错误码
	Message string       `json:"message"`         // 错误消息
	Details string       `json:"details"`         // 详细信息
	Cause   error        `json:"-"`               // 原始错误
	Stack   []StackFrame `json:"stack,omitempty"` // 调用栈
}

// StackFrame 调用栈帧
type StackFrame struct {
	Function string `json:"function"`
	File     string `json:"file"`
	Line     int    `json:"line"`
}

// Error 实现error接口
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%d] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 返回原始错误
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetails 添加详细信息
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// WithCause 添加原因错误
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	if cause != nil && e.Details == "" {
		e.Details = cause.Error()
	}
	return e
}

// New 创建新的应用错误
func New(code ErrorCode, details ...string) *AppError {
	message, ok := errorMessages[code]
	if !ok {
		message = errorMessages[ErrUnknown]
	}

	err := &AppError{
		Code:    code,
		Message: message,
	}

	if len(details) > 0 {
		err.Details = strings.Join(details, "; ")
	}

	// 捕获调用栈
	err.captureStack(2)

	return err
}

// Newf 创建格式化的应用错误
func Newf(code ErrorCode, format string, args ...interface{}) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap 包装错误
func Wrap(err error, code ErrorCode, details ...string) *AppError {
	if err == nil {
		return nil
	}

	// 已经是AppError时保留原始错误码
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		if len(details) > 0 {
			appErr.Details = strings.Join(details, "; ") + "; " + appErr.Details
		}
		return appErr
	}

	appErr = New(code, details...)
	appErr.Cause = err
	if appErr.Details == "" {
		appErr.Details = err.Error()
	}

	return appErr
}

// Wrapf 包装格式化错误
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *AppError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// Is 判断错误是否为指定错误码
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr) && appErr.Code == code
}

// GetCode 获取错误码
func GetCode(err error) ErrorCode {
	if err == nil {
		return 0
	}

	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}

	return ErrUnknown
}

// As 提取AppError，非AppError时包装为未知错误
func As(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, ErrUnknown)
}

// captureStack 捕获调用栈
func (e *AppError) captureStack(skip int) {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(skip+1, pcs)
	if n == 0 {
		return
	}

	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()

		// 跳过runtime和本包的调用
		if strings.Contains(frame.Function, "runtime.") ||
			strings.Contains(frame.Function, "battle-slot/internal/errors.") {
			if !more {
				break
			}
			continue
		}

		e.Stack = append(e.Stack, StackFrame{
			Function: frame.Function,
			File:     frame.File,
			Line:     frame.Line,
		})

		// 只保留前10个栈帧
		if !more || len(e.Stack) >= 10 {
			break
		}
	}
}

// GetStack 获取格式化的调用栈
func (e *AppError) GetStack() string {
	if len(e.Stack) == 0 {
		return ""
	}

	var builder strings.Builder
	for i, frame := range e.Stack {
		builder.WriteString(fmt.Sprintf("%d. %s\n   %s:%d\n",
			i+1, frame.Function, frame.File, frame.Line))
	}

	return builder.String()
}

// HTTPStatus 返回对应的HTTP状态码
func (e *AppError) HTTPStatus() int {
	switch {
	case e.Code == ErrInvalidParam:
		return http.StatusBadRequest
	case e.Code == ErrNotFound:
		return http.StatusNotFound
	case e.Code == ErrAlreadyExists:
		return http.StatusConflict
	case e.Code == ErrPermissionDenied:
		return http.StatusForbidden
	case e.Code == ErrTimeout:
		return http.StatusRequestTimeout
	case e.Code == ErrInsufficientTronium:
		return http.StatusPaymentRequired
	case e.Code == ErrBattleFinished:
		return http.StatusConflict
	case e.Code >= ErrInvalidBet && e.Code <= ErrReplayFailed:
		return http.StatusBadRequest
	case e.Code >= ErrAuthentication && e.Code <= ErrTokenInvalid:
		return http.StatusUnauthorized
	case e.Code >= 5000 && e.Code <= 5999:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// IsRetryable 判断错误是否可重试
func IsRetryable(err error) bool {
	switch GetCode(err) {
	case ErrTimeout,
		ErrWebSocketConnect,
		ErrDatabaseConnect,
		ErrTransaction:
		return true
	default:
		return false
	}
}

// IsCritical 判断是否为严重错误
func IsCritical(err error) bool {
	switch GetCode(err) {
	case ErrDatabaseConnect,
		ErrConfigLoad,
		ErrConfigValidate,
		ErrEngineInvariant:
		return true
	default:
		return false
	}
}

// ErrorResponse API错误响应结构
type ErrorResponse struct {
	Success   bool      `json:"success"`
	Error     *AppError `json:"error,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
	Timestamp int64     `json:"timestamp"`
}

// NewErrorResponse 创建错误响应
func NewErrorResponse(err *AppError, requestID string) *ErrorResponse {
	return &ErrorResponse{
		Success:   false,
		Error:     err,
		RequestID: requestID,
		Timestamp: time.Now().Unix(),
	}
}
