package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/readify/pkg/errors"
	"github.com/xiebiao/readify/pkg/jwt"
	"github.com/xiebiao/readify/pkg/response"
)

// Context key
const (
	ctxKeyClaims = "claims"
	ctxKeyToken  = "access_token"
	ctxKeyUserID = "user_id"
	ctxKeyEmail  = "email"
)

// TokenBlacklist 已注销Token查询(redis.SessionStore实现)
type TokenBlacklist interface {
	IsInBlacklist(ctx context.Context, token string) (bool, error)
}

// AuthMiddleware JWT认证中间件
// 1. 从Authorization: Bearer <token>提取Token
// 2. 检查黑名单(未启用Redis时跳过)
// 3. 校验Token并把用户信息写入Context
type AuthMiddleware struct {
	jwtManager *jwt.Manager
	blacklist  TokenBlacklist
}

// NewAuthMiddleware 创建认证中间件,blacklist可为nil
func NewAuthMiddleware(jwtManager *jwt.Manager, blacklist TokenBlacklist) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		blacklist:  blacklist,
	}
}

// RequireAuth 要求登录
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			response.Error(c, apperrors.ErrUnauthorized)
			c.Abort()
			return
		}

		if m.blacklist != nil {
			revoked, err := m.blacklist.IsInBlacklist(c.Request.Context(), tokenString)
			if err != nil {
				response.Error(c, err)
				c.Abort()
				return
			}
			if revoked {
				response.Error(c, apperrors.ErrInvalidToken)
				c.Abort()
				return
			}
		}

		claims, err := m.jwtManager.ParseAccessToken(tokenString)
		if err != nil {
			response.Error(c, err) // ErrTokenExpired / ErrInvalidToken
			c.Abort()
			return
		}

		c.Set(ctxKeyClaims, claims)
		c.Set(ctxKeyToken, tokenString)
		c.Set(ctxKeyUserID, claims.UserID)
		c.Set(ctxKeyEmail, claims.Email)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// GetUserID 当前登录用户ID,未登录返回0
func GetUserID(c *gin.Context) uint {
	if v, ok := c.Get(ctxKeyUserID); ok {
		if uid, ok := v.(uint); ok {
			return uid
		}
	}
	return 0
}

// GetEmail 当前登录用户邮箱
func GetEmail(c *gin.Context) string {
	return c.GetString(ctxKeyEmail)
}

// GetClaims 当前请求的Token载荷(仅RequireAuth之后可用)
func GetClaims(c *gin.Context) *jwt.Claims {
	if v, ok := c.Get(ctxKeyClaims); ok {
		if claims, ok := v.(*jwt.Claims); ok {
			return claims
		}
	}
	return nil
}

// GetAccessToken 当前请求的原始Access Token
func GetAccessToken(c *gin.Context) string {
	return c.GetString(ctxKeyToken)
}
