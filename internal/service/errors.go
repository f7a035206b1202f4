package service

import "errors"

// 业务错误哨兵，由 HTTP 层映射为响应码
var (
	// ErrNotFound 目标不存在
	ErrNotFound = errors.New("record not found")
	// ErrDenied 权限检查未通过
	ErrDenied = errors.New("permission denied")
	// ErrConflict 并发提交竞争失败，调用方已重试仍未成功
	ErrConflict = errors.New("concurrent update conflict")
	// ErrValidation 输入参数非法
	ErrValidation = errors.New("validation failed")
	// ErrEncryption 加解密失败，属内部错误，严禁把密文当明文返回
	ErrEncryption = errors.New("content encryption failed")
)
