package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/cppla/postboard/config"
	"github.com/cppla/postboard/models"
	"github.com/cppla/postboard/utils"
)

type fixture struct {
	db       *gorm.DB
	audit    *AuditLogger
	tokens   *utils.TokenService
	users    *UserService
	posts    *PostService
	comments *CommentService
	likes    *LikeService
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name)
	db, err := gorm.Open(sqlite.Open(dsn), config.GormConfig("silent"))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, config.Migrate(db, models.All()...))
	return db
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	audit := NewAuditLogger(db)
	tokens := utils.NewTokenService("test-secret", time.Hour)
	limits := Limits{PostTextMaxLength: 100, CommentTextMaxLength: 50}
	return &fixture{
		db:       db,
		audit:    audit,
		tokens:   tokens,
		users:    NewUserService(db, audit, tokens),
		posts:    NewPostService(db, audit, limits),
		comments: NewCommentService(db, audit, limits),
		likes:    NewLikeService(audit),
	}
}

func (f *fixture) register(t *testing.T, username string) Actor {
	t.Helper()
	user, err := f.users.Register(context.Background(), username, "pw-"+username)
	require.NoError(t, err)
	return Actor{ID: user.ID, Username: user.Username}
}

func (f *fixture) post(t *testing.T, author Actor, title string) *models.Post {
	t.Helper()
	p, err := f.posts.Create(context.Background(), title, "body of "+title, author)
	require.NoError(t, err)
	return p
}

func (f *fixture) logCount(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&models.LogEntry{}).Count(&n).Error)
	return n
}

func (f *fixture) lastLog(t *testing.T) models.LogEntry {
	t.Helper()
	var e models.LogEntry
	require.NoError(t, f.db.Order("id DESC").First(&e).Error)
	return e
}
