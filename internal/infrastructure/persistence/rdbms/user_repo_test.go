package rdbms_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/readify/internal/domain/review"
	"github.com/xiebiao/readify/internal/domain/user"
	"github.com/xiebiao/readify/internal/infrastructure/persistence/rdbms"
	"github.com/xiebiao/readify/internal/infrastructure/persistence/rdbms/rdbmstest"
	apperrors "github.com/xiebiao/readify/pkg/errors"
)

func TestUserRepository(t *testing.T) {
	db := rdbmstest.Open(t)
	repo := rdbms.NewUserRepository(db)
	ctx := context.Background()

	u := user.NewUser("Carol@Example.com", "hash", "Carol", "White", "0123456789")
	require.NoError(t, repo.Create(ctx, u))
	assert.NotZero(t, u.ID)

	found, err := repo.FindByEmail(ctx, "carol@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)
	assert.Equal(t, "Carol", found.FirstName)
	assert.Equal(t, "0123456789", found.PhoneNumber)

	byID, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "White", byID.LastName)

	dup := user.NewUser("carol@example.com", "hash", "Other", "", "")
	assert.ErrorIs(t, repo.Create(ctx, dup), apperrors.ErrEmailDuplicate)

	_, err = repo.FindByID(ctx, 9999)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	_, err = repo.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestReviewRepository_Create(t *testing.T) {
	db := rdbmstest.Open(t)
	seeded := rdbmstest.Seed(t, db, rdbmstest.Catalog)
	ctx := context.Background()

	rv, err := review.NewReview(seeded.Books["mistborn"], seeded.Users["bob"], "Twisty", "Great magic system", 5,
		time.Date(2026, 3, 1, 15, 4, 5, 0, time.Local))
	require.NoError(t, err)
	require.NoError(t, rdbms.NewReviewRepository(db).Create(ctx, rv))
	assert.NotZero(t, rv.ID)

	b, err := rdbms.NewBookRepository(db).FindDetail(ctx, seeded.Books["mistborn"])
	require.NoError(t, err)
	require.Len(t, b.Reviews, 1)
	assert.Equal(t, "Bob", b.Reviews[0].UserFirstName)
	assert.Equal(t, "2026-03-01", b.Reviews[0].CreatedDate())
	require.True(t, b.AverageRating.Valid)
	assert.InDelta(t, 5.0, b.AverageRating.Value, 1e-9)
}

func TestSeeder_Rollback(t *testing.T) {
	db := rdbmstest.Open(t)

	fx, err := rdbms.ParseFixture([]byte(`
categories:
  - {key: a, title: A}
  - {key: b, title: B, parent: missing}
`))
	require.NoError(t, err)

	_, err = rdbms.NewSeeder(db, 4).Seed(context.Background(), fx)
	require.Error(t, err)

	var n int64
	require.NoError(t, db.Model(&rdbms.CategoryModel{}).Count(&n).Error)
	assert.Zero(t, n, "任一步失败应整体回滚")
}

func TestTxManager_Rollback(t *testing.T) {
	db := rdbmstest.Open(t)
	repo := rdbms.NewUserRepository(db)
	txm := rdbms.NewTxManager(db)

	err := txm.Transaction(context.Background(), func(ctx context.Context) error {
		if err := repo.Create(ctx, user.NewUser("dave@example.com", "hash", "Dave", "", "")); err != nil {
			return err
		}
		return apperrors.ErrInternal
	})
	assert.ErrorIs(t, err, apperrors.ErrInternal)

	_, err = repo.FindByEmail(context.Background(), "dave@example.com")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
