package mailtm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized 令牌无效或已过期
	ErrUnauthorized = errors.New("mail.tm: unauthorized")
	// ErrMalformed 响应无法解析
	ErrMalformed = errors.New("mail.tm: malformed response")
	// ErrNoDomains 没有可用域名
	ErrNoDomains = errors.New("mail.tm: no active domains")
)

// APIError 非 2xx 响应
type APIError struct {
	Endpoint string
	Status   int
	Detail   string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("mail.tm %s: status %d: %s", e.Endpoint, e.Status, e.Detail)
	}
	return fmt.Sprintf("mail.tm %s: status %d", e.Endpoint, e.Status)
}

// Unwrap 让 401 可以用 errors.Is(err, ErrUnauthorized) 判断
func (e *APIError) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

// Temporary 服务端错误和限流可以重试
func (e *APIError) Temporary() bool {
	return e.Status >= 500 || e.Status == http.StatusTooManyRequests
}

// isBreakerFailure 判断错误是否计入熔断：客户端错误不算
func isBreakerFailure(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Temporary()
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	return !errors.Is(err, ErrMalformed)
}
