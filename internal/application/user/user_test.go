package user_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	userapp "github.com/xiebiao/readify/internal/application/user"
	"github.com/xiebiao/readify/internal/domain/user"
	"github.com/xiebiao/readify/internal/infrastructure/persistence/rdbms"
	"github.com/xiebiao/readify/internal/infrastructure/persistence/rdbms/rdbmstest"
	"github.com/xiebiao/readify/internal/infrastructure/persistence/redis"
	apperrors "github.com/xiebiao/readify/pkg/errors"
	"github.com/xiebiao/readify/pkg/jwt"
)

func TestRegisterLoginLogout(t *testing.T) {
	db := rdbmstest.Open(t)
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	svc := user.NewServiceWithCost(rdbms.NewUserRepository(db), bcrypt.MinCost)
	sessions := redis.NewSessionStore(client)
	jwtManager := jwt.NewManager("test-secret", time.Hour, 24*time.Hour)
	ctx := context.Background()

	info, err := userapp.NewRegisterUseCase(svc).Execute(ctx, userapp.RegisterRequest{
		Email:       "reader@example.com",
		Password:    "secret123",
		FirstName:   "Ivan",
		LastName:    "Franko",
		PhoneNumber: "0501234567",
	})
	require.NoError(t, err)
	assert.NotZero(t, info.ID)
	assert.Equal(t, "Ivan", info.FirstName)

	login := userapp.NewLoginUseCase(svc, jwtManager, sessions, 24*time.Hour, zap.NewNop())
	resp, err := login.Execute(ctx, userapp.LoginRequest{Email: "reader@example.com", Password: "secret123", ClientIP: "10.0.0.1"})
	require.NoError(t, err)
	assert.Equal(t, info.ID, resp.User.ID)
	assert.Equal(t, int64(3600), resp.ExpiresIn)

	session, err := sessions.GetSession(ctx, info.ID)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1", session["ip"])

	claims, err := jwtManager.ParseAccessToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, info.ID, claims.UserID)

	require.NoError(t, userapp.NewLogoutUseCase(sessions).Execute(ctx, claims, resp.AccessToken))
	_, err = sessions.GetSession(ctx, info.ID)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	revoked, err := sessions.IsInBlacklist(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.True(t, revoked)

	_, err = login.Execute(ctx, userapp.LoginRequest{Email: "reader@example.com", Password: "wrong1234"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)
}

// TestLogin_WithoutSessionStore 未启用Redis时登录登出仍可用
func TestLogin_WithoutSessionStore(t *testing.T) {
	db := rdbmstest.Open(t)
	seeded := rdbmstest.Seed(t, db, rdbmstest.Catalog)
	svc := user.NewServiceWithCost(rdbms.NewUserRepository(db), bcrypt.MinCost)
	jwtManager := jwt.NewManager("test-secret", time.Hour, 24*time.Hour)

	resp, err := userapp.NewLoginUseCase(svc, jwtManager, nil, time.Hour, zap.NewNop()).
		Execute(context.Background(), userapp.LoginRequest{Email: "alice@example.com", Password: "Passw0rd1"})
	require.NoError(t, err)
	assert.Equal(t, seeded.Users["alice"], resp.User.ID)

	claims, err := jwtManager.ParseAccessToken(resp.AccessToken)
	require.NoError(t, err)
	assert.NoError(t, userapp.NewLogoutUseCase(nil).Execute(context.Background(), claims, resp.AccessToken))
}
