package util

import (
	"errors"
	"fmt"
)

// 四类基础错误，controller 层通过 errors.Is 映射为 HTTP 状态码
var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
)

var (
	ErrEmailRegistered    = fmt.Errorf("%w: email already registered", ErrValidation)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	ErrUserNotFound       = fmt.Errorf("%w: user not found", ErrNotFound)
	ErrEventNotFound      = fmt.Errorf("%w: event not found", ErrNotFound)
	ErrPostNotFound       = fmt.Errorf("%w: post not found", ErrNotFound)
	ErrPaymentNotFound    = fmt.Errorf("%w: payment not found", ErrNotFound)
	ErrRequestNotFound    = fmt.Errorf("%w: friend request not found", ErrNotFound)
	ErrFriendNotFound     = fmt.Errorf("%w: friendship not found", ErrNotFound)
	ErrInteractionMissing = fmt.Errorf("%w: interaction not found", ErrNotFound)
)

// Validationf 构造带说明的校验错误
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrValidation}, args...)...)
}

// Vendorf 供应商调用失败统一按校验类错误返回给调用方，带供应商前缀
func Vendorf(vendor string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrValidation, vendor, err)
}
