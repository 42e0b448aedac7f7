package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// Authenticate 从 Authorization 头提取 Bearer token 并解析身份。
// 没带 token 的请求按匿名放行，由需要身份的路由自行用 RequireAuth 拒绝；
// 带了无效 token 的请求在进入任何 handler 之前就被 401 拦下。
// 解析出的用户名只写入本次请求的 context，随请求结束丢弃。
func Authenticate(ts *TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if authz == "" {
			c.Next()
			return
		}
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			return
		}
		username, err := ts.Parse(strings.TrimSpace(authz[len("Bearer "):]))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(identityKey, username)
		c.Next()
	}
}

// RequireAuth 拒绝没有解析出身份的请求。只判断有没有登录，
// 资源级权限由各 handler 自己检查。
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUsername(c) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}
		c.Next()
	}
}

// CurrentUsername 返回本次请求已认证的用户名，匿名请求返回空串。
func CurrentUsername(c *gin.Context) string {
	if v, ok := c.Get(identityKey); ok {
		if name, ok2 := v.(string); ok2 {
			return name
		}
	}
	return ""
}
