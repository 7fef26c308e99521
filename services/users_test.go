package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/postboard/models"
)

func TestRegister_WritesUserAndLog(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.users.Register(ctx, "alice", "secret")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.NotEqual(t, "secret", user.Password)

	require.EqualValues(t, 1, f.logCount(t))
	entry := f.lastLog(t)
	assert.Equal(t, models.ActionInsert, entry.ActionType)
	assert.Equal(t, models.ModelUsers, entry.ModelName)
	assert.Nil(t, entry.InvokerID)
	assert.Contains(t, entry.Description, "alice")
	assert.NotContains(t, entry.Description, "secret")
}

func TestRegister_DuplicateWritesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.users.Register(ctx, "alice", "secret")
	require.NoError(t, err)

	_, err = f.users.Register(ctx, "alice", "other")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
	assert.ErrorIs(t, err, ErrAlreadyExists)
	assert.EqualValues(t, 1, f.logCount(t))
}

func TestRegister_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := map[string][2]string{
		"empty username": {"", "pw"},
		"blank username": {"   ", "pw"},
		"empty password": {"bob", ""},
		"long password":  {"bob", string(make([]byte, 73))},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.users.Register(ctx, c[0], c[1])
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
	assert.EqualValues(t, 0, f.logCount(t))
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")

	res, err := f.users.Login(ctx, "alice", "pw-alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, res.ID)
	assert.Equal(t, "alice", res.Username)

	claims, err := f.tokens.Verify(res.Token)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, claims.ID)
	assert.Equal(t, "alice", claims.Username)

	_, err = f.users.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, ErrWrongPassword)
	assert.ErrorIs(t, err, ErrCredential)

	_, err = f.users.Login(ctx, "nobody", "pw")
	assert.ErrorIs(t, err, ErrUserNotFound)

	// logins are not audited
	assert.EqualValues(t, 1, f.logCount(t))
}

func TestAssociatedPosts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	first := f.post(t, alice, "first")
	second := f.post(t, alice, "second")
	f.post(t, bob, "not alice's")

	_, err := f.likes.Toggle(ctx, first.ID, alice)
	require.NoError(t, err)

	profile, err := f.users.AssociatedPosts(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.Username)
	require.Len(t, profile.Posts, 2)
	assert.Equal(t, second.ID, profile.Posts[0].ID)
	assert.Equal(t, first.ID, profile.Posts[1].ID)
	require.Len(t, profile.LikedPosts, 1)
	assert.Equal(t, first.ID, profile.LikedPosts[0].PostID)

	_, err = f.users.AssociatedPosts(ctx, 9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestDeleteUser_RemovesLikesKeepsPosts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	p := f.post(t, bob, "bob's post")

	_, err := f.likes.Toggle(ctx, p.ID, alice)
	require.NoError(t, err)

	admin := Actor{ID: bob.ID, Username: bob.Username, Admin: true}
	deleted, err := f.users.Delete(ctx, alice.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, "alice", deleted.Username)

	var likes int64
	require.NoError(t, f.db.Model(&models.Like{}).Where("user_id = ?", alice.ID).Count(&likes).Error)
	assert.Zero(t, likes)

	var aliceLogs int64
	require.NoError(t, f.db.Model(&models.LogEntry{}).Where("invoker_id = ?", alice.ID).Count(&aliceLogs).Error)
	assert.Zero(t, aliceLogs)

	_, err = f.posts.Get(ctx, p.ID)
	assert.NoError(t, err)

	entry := f.lastLog(t)
	assert.Equal(t, models.ActionDelete, entry.ActionType)
	assert.Equal(t, models.ModelUsers, entry.ModelName)
	require.NotNil(t, entry.InvokerID)
	assert.Equal(t, bob.ID, *entry.InvokerID)
}

func TestDeleteUser_Forbidden(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")

	_, err := f.users.Delete(ctx, alice.ID, bob)
	assert.ErrorIs(t, err, ErrForbidden)

	admin := Actor{ID: bob.ID, Username: bob.Username, Admin: true}
	_, err = f.users.Delete(ctx, 9999, admin)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
