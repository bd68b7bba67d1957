package user

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/readify/internal/domain/user"
	"github.com/xiebiao/readify/pkg/jwt"
)

// SessionStore 会话与Token黑名单存储
// 由infrastructure/persistence/redis实现;未启用Redis时为nil,登录不保存会话,登出只做无状态处理
type SessionStore interface {
	SaveSession(ctx context.Context, userID uint, data map[string]interface{}, ttl time.Duration) error
	DeleteSession(ctx context.Context, userID uint) error
	AddToBlacklist(ctx context.Context, token string, ttl time.Duration) error
}

// LoginUseCase 用户登录用例
// 1. 验证邮箱密码
// 2. 生成JWT Token对
// 3. 保存会话(失败只记录日志)
type LoginUseCase struct {
	userService  user.Service
	jwtManager   *jwt.Manager
	sessionStore SessionStore
	sessionTTL   time.Duration
	log          *zap.Logger
}

// NewLoginUseCase 创建登录用例,sessionTTL通常等于Refresh Token有效期
func NewLoginUseCase(
	userService user.Service,
	jwtManager *jwt.Manager,
	sessionStore SessionStore,
	sessionTTL time.Duration,
	log *zap.Logger,
) *LoginUseCase {
	return &LoginUseCase{
		userService:  userService,
		jwtManager:   jwtManager,
		sessionStore: sessionStore,
		sessionTTL:   sessionTTL,
		log:          log,
	}
}

// Execute 执行登录
func (uc *LoginUseCase) Execute(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	u, err := uc.userService.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	tokenPair, err := uc.jwtManager.GenerateToken(u.ID, u.Email)
	if err != nil {
		return nil, err
	}

	if uc.sessionStore != nil {
		session := map[string]interface{}{
			"user_id":  u.ID,
			"email":    u.Email,
			"login_at": time.Now().Unix(),
			"ip":       req.ClientIP,
		}
		if err := uc.sessionStore.SaveSession(ctx, u.ID, session, uc.sessionTTL); err != nil {
			uc.log.Warn("保存会话失败", zap.Uint("user_id", u.ID), zap.Error(err))
		}
	}

	return &LoginResponse{
		User:         *toUserInfo(u),
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresIn:    tokenPair.ExpiresIn,
	}, nil
}

// LogoutUseCase 用户登出用例
type LogoutUseCase struct {
	sessionStore SessionStore
}

// NewLogoutUseCase 创建登出用例
func NewLogoutUseCase(sessionStore SessionStore) *LogoutUseCase {
	return &LogoutUseCase{sessionStore: sessionStore}
}

// Execute 删除会话并把Access Token加入黑名单直到其自然过期
func (uc *LogoutUseCase) Execute(ctx context.Context, claims *jwt.Claims, accessToken string) error {
	if uc.sessionStore == nil {
		return nil
	}

	if err := uc.sessionStore.DeleteSession(ctx, claims.UserID); err != nil {
		return err
	}
	return uc.sessionStore.AddToBlacklist(ctx, accessToken, jwt.RemainingTTL(claims))
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string
	Password string
	ClientIP string
}

// LoginResponse 登录响应
type LoginResponse struct {
	User         UserInfo `json:"user"`
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresIn    int64    `json:"expires_in"` // Access Token过期时间（秒）
}
