package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/xiebiao/readify/pkg/errors"
)

const issuer = "readify"

// Token类型，防止Refresh Token被当作Access Token使用
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Manager JWT签发与校验
type Manager struct {
	secret             []byte
	accessTokenExpire  time.Duration
	refreshTokenExpire time.Duration
}

// NewManager 创建JWT管理器
func NewManager(secret string, accessTokenExpire, refreshTokenExpire time.Duration) *Manager {
	return &Manager{
		secret:             []byte(secret),
		accessTokenExpire:  accessTokenExpire,
		refreshTokenExpire: refreshTokenExpire,
	}
}

// Claims 自定义载荷
// 评论接口从Claims.UserID获取评论人，不信任请求体中的user字段
type Claims struct {
	UserID    uint   `json:"user_id"`
	Email     string `json:"email,omitempty"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenPair 登录返回的令牌对
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"` // Access Token过期时间（秒）
}

// GenerateToken 签发Access Token与Refresh Token
func (m *Manager) GenerateToken(userID uint, email string) (*TokenPair, error) {
	now := time.Now()

	access, err := m.sign(m.claims(userID, email, TokenTypeAccess, now, m.accessTokenExpire))
	if err != nil {
		return nil, apperrors.Wrap(err, "生成Access Token失败")
	}

	refresh, err := m.sign(m.claims(userID, "", TokenTypeRefresh, now, m.refreshTokenExpire))
	if err != nil {
		return nil, apperrors.Wrap(err, "生成Refresh Token失败")
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(m.accessTokenExpire.Seconds()),
	}, nil
}

// ParseToken 校验签名与有效期，返回Claims
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("非法的签名算法: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithIssuer(issuer))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrInvalidToken
	}
	if !token.Valid {
		return nil, apperrors.ErrInvalidToken
	}

	return claims, nil
}

// ParseAccessToken 校验并要求Token类型为access
func (m *Manager) ParseAccessToken(tokenString string) (*Claims, error) {
	claims, err := m.ParseToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != TokenTypeAccess {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}

// RefreshAccessToken 用Refresh Token换取新的Access Token
func (m *Manager) RefreshAccessToken(refreshToken string) (string, error) {
	claims, err := m.ParseToken(refreshToken)
	if err != nil {
		return "", err
	}
	if claims.TokenType != TokenTypeRefresh {
		return "", apperrors.ErrInvalidToken
	}

	token, err := m.sign(m.claims(claims.UserID, "", TokenTypeAccess, time.Now(), m.accessTokenExpire))
	if err != nil {
		return "", apperrors.Wrap(err, "刷新Token失败")
	}
	return token, nil
}

// RemainingTTL Token剩余有效期（用于加入黑名单时设置过期时间）
func RemainingTTL(claims *Claims) time.Duration {
	if claims.ExpiresAt == nil {
		return 0
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl < 0 {
		return 0
	}
	return ttl
}

func (m *Manager) claims(userID uint, email, tokenType string, now time.Time, ttl time.Duration) Claims {
	return Claims{
		UserID:    userID,
		Email:     email,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   strconv.FormatUint(uint64(userID), 10),
		},
	}
}

func (m *Manager) sign(claims Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}
