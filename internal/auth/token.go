package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenService 签发并校验无状态的 HS256 会话 token。
// 密钥在构造时注入且进程内只读；轮换密钥会立刻使所有在途 token 失效，
// 这是有意接受的限制，没有单 token 撤销机制。
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService 构造 token 服务。ttlMinutes 为 0 时签发不过期的 token。
func NewTokenService(secret string, ttlMinutes int) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		ttl:    time.Duration(ttlMinutes) * time.Minute,
	}
}

// Issue 为指定用户名签发 token，签名覆盖全部声明。
func (ts *TokenService) Issue(username string) (string, error) {
	now := time.Now()
	claims := Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  username,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if ts.ttl != 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ts.ttl))
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(ts.secret)
}

// Parse 校验 token 并返回其中的用户名。签名不符、载荷被改动、
// 密钥不一致或已过期都返回错误。
func (ts *TokenService) Parse(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return ts.secret, nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Username == "" {
		return "", errors.New("invalid token")
	}
	return claims.Username, nil
}
