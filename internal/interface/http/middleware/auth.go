package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/jwt"
	"github.com/xiebiao/library/pkg/response"
)

const claimsKey = "claims"

// RevocationChecker 撤销列表查询（redis.SessionStore实现）
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// AuthMiddleware JWT认证中间件
// 设计说明：
// 1. 从Header提取Bearer Token
// 2. 验证签名、有效期和Token类型（只接受Access Token）
// 3. 检查撤销列表（已登出的Token）；查询失败时拒绝请求
// 4. 将Claims注入Context
type AuthMiddleware struct {
	jwtManager *jwt.Manager
	revocation RevocationChecker
}

// NewAuthMiddleware 创建认证中间件
func NewAuthMiddleware(jwtManager *jwt.Manager, revocation RevocationChecker) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		revocation: revocation,
	}
}

// RequireAuth 要求登录
// 使用方式：
//
//	authorized := api.Group("")
//	authorized.Use(authMiddleware.RequireAuth())
//	authorized.GET("/users/profile", userHandler.GetProfile)
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := BearerToken(c)
		if err != nil {
			response.Abort(c, err)
			return
		}

		claims, err := m.jwtManager.ParseToken(tokenString, jwt.TokenTypeAccess)
		if err != nil {
			response.Abort(c, err) // ErrTokenExpired、ErrInvalidToken
			return
		}

		revoked, err := m.revocation.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			response.Abort(c, err)
			return
		}
		if revoked {
			response.Abort(c, apperrors.ErrTokenRevoked)
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireAdmin 要求管理员，必须放在RequireAuth之后
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.Abort(c, apperrors.ErrUnauthorized)
			return
		}
		if !claims.IsAdmin {
			response.Abort(c, apperrors.ErrForbidden)
			return
		}
		c.Next()
	}
}

// BearerToken 提取 Authorization: Bearer <token>
func BearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", apperrors.ErrUnauthorized
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", apperrors.ErrInvalidToken
	}
	return strings.TrimSpace(parts[1]), nil
}

// =========================================
// Context辅助函数（供Handler使用）
// =========================================

// GetClaims 当前请求的Claims，未登录返回nil
func GetClaims(c *gin.Context) *jwt.Claims {
	if v, ok := c.Get(claimsKey); ok {
		if claims, ok := v.(*jwt.Claims); ok {
			return claims
		}
	}
	return nil
}

// GetUserID 当前登录用户ID，未登录返回0
func GetUserID(c *gin.Context) uint {
	if claims := GetClaims(c); claims != nil {
		return claims.UserID
	}
	return 0
}

// GetUsername 当前登录用户名
func GetUsername(c *gin.Context) string {
	if claims := GetClaims(c); claims != nil {
		return claims.Username
	}
	return ""
}

// MustGetClaims 用于已经通过RequireAuth中间件的Handler
func MustGetClaims(c *gin.Context) *jwt.Claims {
	claims := GetClaims(c)
	if claims == nil {
		panic("claims not found in context")
	}
	return claims
}
