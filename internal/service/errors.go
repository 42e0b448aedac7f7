package service

import "errors"

// 业务层通用错误，handler 根据错误类型映射 HTTP 状态码。
// 未知用户和密码错误统一归到 ErrInvalidCredentials，
// 避免通过错误形态探测用户名是否存在。
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username taken")
	ErrUserNotFound       = errors.New("user not found")
	ErrMessageNotFound    = errors.New("message not found")
	ErrBookNotFound       = errors.New("book not found")
	ErrISBNTaken          = errors.New("isbn taken")
)
