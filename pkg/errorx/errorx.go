package errorx

import (
	"errors"
	"fmt"
	"net/http"
)

// CodeError 带业务错误码的自定义错误
// 实现了 error 接口，支持 %w 包装底层错误，且能被 errors.Is/errors.As 识别
type CodeError struct {
	Code  int    // 业务错误码
	Msg   string // 错误消息（直接返回给前端）
	cause error  // 被包装的底层错误
}

// Error 实现 error 接口
// 当存在底层错误时，返回格式为 "消息: 底层错误"；否则仅返回消息
func (e *CodeError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.cause)
	}
	return e.Msg
}

// Unwrap 支持 errors.Is/errors.As 向下追溯
func (e *CodeError) Unwrap() error {
	return e.cause
}

// New 创建一个新的 CodeError
func New(code int, msg string) *CodeError {
	return &CodeError{
		Code: code,
		Msg:  msg,
	}
}

// Newf 创建一个带格式化消息的 CodeError
func Newf(code int, format string, args ...any) *CodeError {
	return &CodeError{
		Code: code,
		Msg:  fmt.Sprintf(format, args...),
	}
}

// Wrap 包装底层错误，添加业务错误码和消息
// 用法: errorx.Wrap(err, CodeNotFound, "Request not found.")
func Wrap(err error, code int, msg string) *CodeError {
	return &CodeError{
		Code:  code,
		Msg:   msg,
		cause: err,
	}
}

// Wrapf 包装底层错误，支持格式化消息
func Wrapf(err error, code int, format string, args ...any) *CodeError {
	return &CodeError{
		Code:  code,
		Msg:   fmt.Sprintf(format, args...),
		cause: err,
	}
}

// GetCode 从错误中提取业务错误码，如果不是 CodeError 则返回 CodeServerBusy
func GetCode(err error) int {
	var codeErr *CodeError
	if errors.As(err, &codeErr) {
		return codeErr.Code
	}
	return CodeServerBusy
}

// 业务状态码常量定义
const (
	CodeSuccess            = 1000 // 成功
	CodeInvalidParam       = 1001 // 请求参数错误
	CodeUserExist          = 1002 // 用户已存在
	CodeUserNotExist       = 1003 // 用户不存在
	CodeInvalidPassword    = 1004 // 账号或密码错误
	CodeServerBusy         = 1005 // 服务繁忙
	CodeUnauthorized       = 1006 // 未授权/认证失败
	CodeForbidden          = 1007 // 无权限
	CodeNotFound           = 1008 // 资源不存在
	CodeConflict           = 1009 // 并发冲突（抢占失败）
	CodeDBError            = 1010 // 数据库错误
	CodeCacheError         = 1011 // 缓存错误
	CodeInvalidState       = 1012 // 状态不允许该操作
	CodeTooManyRequests    = 1013 // 请求过于频繁
	CodeEmailNotVerified   = 1014 // 邮箱未验证
	CodeNotificationFailed = 1015 // 通知发送失败
)

// 预定义常用错误实例
var (
	ErrInvalidParam = New(CodeInvalidParam, "Invalid input.")
	ErrServerBusy   = New(CodeServerBusy, "Something went wrong.")
	ErrUnauthorized = New(CodeUnauthorized, "Not authenticated.")
	ErrForbidden    = New(CodeForbidden, "Not allowed.")
)

// httpStatusByCode 业务码到 HTTP 状态码的映射，未列出的按 500 处理
var httpStatusByCode = map[int]int{
	CodeSuccess:            http.StatusOK,
	CodeInvalidParam:       http.StatusBadRequest,
	CodeUserExist:          http.StatusBadRequest,
	CodeUserNotExist:       http.StatusNotFound,
	CodeInvalidPassword:    http.StatusUnauthorized,
	CodeUnauthorized:       http.StatusUnauthorized,
	CodeForbidden:          http.StatusForbidden,
	CodeNotFound:           http.StatusNotFound,
	CodeConflict:           http.StatusConflict,
	CodeInvalidState:       http.StatusBadRequest,
	CodeTooManyRequests:    http.StatusTooManyRequests,
	CodeEmailNotVerified:   http.StatusForbidden,
	CodeNotificationFailed: http.StatusInternalServerError,
}

// HTTPStatus 返回业务码对应的 HTTP 状态码
func HTTPStatus(code int) int {
	if status, ok := httpStatusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// IsNotFound 检查错误是否为"未找到"类型
func IsNotFound(err error) bool {
	var codeErr *CodeError
	if errors.As(err, &codeErr) && codeErr.Code == CodeNotFound {
		return true
	}
	return err != nil && err.Error() == "record not found"
}

// IsCode 检查错误链中是否带有指定业务码
func IsCode(err error, code int) bool {
	var codeErr *CodeError
	return errors.As(err, &codeErr) && codeErr.Code == code
}
