package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/cppla/postboard/models"
)

func TestToggleLike_TwiceRestoresStateWithTwoLogs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	bob := f.register(t, "bob")
	alice := f.register(t, "alice")
	p := f.post(t, bob, "likeable")
	before := f.logCount(t)

	liked, err := f.likes.Toggle(ctx, p.ID, alice)
	require.NoError(t, err)
	assert.True(t, liked)
	entry := f.lastLog(t)
	assert.Equal(t, models.ActionInsert, entry.ActionType)
	assert.Equal(t, models.ModelLikes, entry.ModelName)

	liked, err = f.likes.Toggle(ctx, p.ID, alice)
	require.NoError(t, err)
	assert.False(t, liked)
	entry = f.lastLog(t)
	assert.Equal(t, models.ActionDelete, entry.ActionType)

	var likes int64
	require.NoError(t, f.db.Model(&models.Like{}).Count(&likes).Error)
	assert.Zero(t, likes)
	assert.Equal(t, before+2, f.logCount(t))
}

func TestToggleLike_MissingPost(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	before := f.logCount(t)

	_, err := f.likes.Toggle(context.Background(), 9999, alice)
	assert.ErrorIs(t, err, ErrPostNotFound)
	assert.Equal(t, before, f.logCount(t))
}

func TestToggleLike_ConcurrentKeepsPairUnique(t *testing.T) {
	f := newFixture(t)
	bob := f.register(t, "bob")
	alice := f.register(t, "alice")
	p := f.post(t, bob, "busy")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.likes.Toggle(context.Background(), p.ID, alice)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	var likes int64
	require.NoError(t, f.db.Model(&models.Like{}).Where("post_id = ? AND user_id = ?", p.ID, alice.ID).Count(&likes).Error)
	assert.LessOrEqual(t, likes, int64(1))
}

func TestToggleLike_LostInsertRaceWritesNoLog(t *testing.T) {
	f := newFixture(t)
	bob := f.register(t, "bob")
	alice := f.register(t, "alice")
	p := f.post(t, bob, "contested")
	before := f.logCount(t)

	// A concurrent toggle commits the same like between our delete and insert.
	inserted := false
	require.NoError(t, f.db.Callback().Create().Before("gorm:create").Register("test:concurrent_like", func(tx *gorm.DB) {
		if inserted || tx.Statement.Table != "likes" {
			return
		}
		inserted = true
		now := time.Now()
		_ = tx.Session(&gorm.Session{NewDB: true}).Exec(
			"INSERT INTO likes (post_id, user_id, created_at, updated_at) VALUES (?, ?, ?, ?)",
			p.ID, alice.ID, now, now,
		).Error
	}))
	t.Cleanup(func() { _ = f.db.Callback().Create().Remove("test:concurrent_like") })

	liked, err := f.likes.Toggle(context.Background(), p.ID, alice)
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.True(t, liked)

	var likes int64
	require.NoError(t, f.db.Model(&models.Like{}).Where("post_id = ? AND user_id = ?", p.ID, alice.ID).Count(&likes).Error)
	assert.EqualValues(t, 1, likes)
	assert.Equal(t, before, f.logCount(t))
}
