// Package rdbmstest 提供基于SQLite内存库的测试数据库
package rdbmstest

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/xiebiao/readify/internal/infrastructure/config"
	"github.com/xiebiao/readify/internal/infrastructure/persistence/rdbms"
)

// Open 打开已迁移的SQLite内存库,每个测试独立一个库,测试结束时关闭
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "test"},
		Database: config.DatabaseConfig{
			Driver:      config.DriverSQLite,
			DSN:         "file:" + name + "?mode=memory&cache=shared",
			AutoMigrate: true,
		},
	}

	db, err := rdbms.NewDB(cfg, zap.NewNop())
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// Seed 解析YAML并写入
func Seed(t testing.TB, db *gorm.DB, data string) *rdbms.SeedResult {
	t.Helper()

	fx, err := rdbms.ParseFixture([]byte(data))
	require.NoError(t, err)

	res, err := rdbms.NewSeeder(db, bcrypt.MinCost).Seed(context.Background(), fx)
	require.NoError(t, err)
	return res
}

// Counter 返回db上的查询计数插件并清零
func Counter(t testing.TB, db *gorm.DB) *rdbms.QueryCounter {
	t.Helper()

	c := rdbms.QueryCounterOf(db)
	require.NotNil(t, c)
	c.Reset()
	return c
}

// Catalog 标准测试目录
//
//	Fiction ─ Fantasy ─ Epic Fantasy
//	Science
//
// The Hobbit 有3条评论(3/4/5分,平均4.0),Mistborn没有评论,
// Fantasy Anthology没有分类且有两位作者
const Catalog = `
categories:
  - {key: fiction, title: Fiction}
  - {key: fantasy, title: Fantasy, parent: fiction}
  - {key: epic, title: Epic Fantasy, parent: fantasy}
  - {key: science, title: Science}
publishers:
  - {key: penguin, title: Penguin Books, image: publishers/penguin.png, description: London publisher}
  - {key: orbit, title: Orbit}
authors:
  - {key: tolkien, title: J. R. R. Tolkien, image: authors/tolkien.jpg, biography: Philologist}
  - {key: sanderson, title: Brandon Sanderson}
  - {key: hawking, title: Stephen Hawking}
papers: [Offset, Coated]
languages: [English, Russian]
users:
  - {key: alice, email: alice@example.com, password: Passw0rd1, first_name: Alice, last_name: Smith}
  - {key: bob, email: bob@example.com, password: Passw0rd1, first_name: Bob, last_name: Jones}
books:
  - key: hobbit
    title: The Hobbit
    price: "12.50"
    category: epic
    cover_image: covers/hobbit.jpg
    weight: 300
    edition: 2
    amount_pages: 310
    isbn: "9780547928227"
    publishers: [penguin]
    authors: [tolkien]
    papers: [Offset]
    languages: [English, Russian]
  - key: mistborn
    title: Mistborn
    price: "9.99"
    category: fantasy
    publishers: [orbit]
    authors: [sanderson]
  - key: brief
    title: A Brief History of Time
    price: "15.00"
    category: science
    publishers: [penguin]
    authors: [hawking]
  - key: anthology
    title: Fantasy Anthology
    price: "20.00"
    authors: [tolkien, sanderson]
reviews:
  - {book: hobbit, user: alice, title: Fine, content: Slow start, rating: 3, created: "2026-01-02"}
  - {book: hobbit, user: bob, title: Good, content: Worth it, rating: 4, created: "2026-01-03"}
  - {book: hobbit, user: alice, title: Classic, content: Reread it, rating: 5, created: "2026-01-04"}
`
