package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/d60-Lab/food-ordering/internal/service"
	"github.com/d60-Lab/food-ordering/pkg/response"
)

const identityKey = "identity"

// Claims 外部认证服务签发的 token 声明；本服务只校验和提取
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Auth 解析 Bearer token 并把调用方身份放入请求上下文
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			response.Unauthorized(c, "missing bearer token")
			return
		}
		tokenStr := strings.TrimPrefix(header, "Bearer ")

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			response.Unauthorized(c, "invalid token")
			return
		}

		c.Set(identityKey, service.Identity{
			UserID: claims.Subject,
			Email:  claims.Email,
			Role:   claims.Role,
		})
		c.Next()
	}
}

// IdentityFrom 取出 Auth 中间件解析的身份
func IdentityFrom(c *gin.Context) service.Identity {
	v, _ := c.Get(identityKey)
	id, _ := v.(service.Identity)
	return id
}
