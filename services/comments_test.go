package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/postboard/models"
)

func TestComments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	bob := f.register(t, "bob")
	alice := f.register(t, "alice")
	p := f.post(t, bob, "topic")

	first, err := f.comments.Create(ctx, p.ID, "first!", alice)
	require.NoError(t, err)
	assert.Equal(t, "alice", first.Username)
	entry := f.lastLog(t)
	assert.Equal(t, models.ModelComments, entry.ModelName)
	assert.Equal(t, models.ActionInsert, entry.ActionType)

	_, err = f.comments.Create(ctx, p.ID, "second", bob)
	require.NoError(t, err)

	list, err := f.comments.ListByPost(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "first!", list[0].CommentText)

	before := f.logCount(t)
	_, err = f.comments.Create(ctx, 9999, "lost", alice)
	assert.ErrorIs(t, err, ErrPostNotFound)
	_, err = f.comments.Create(ctx, p.ID, "", alice)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.comments.Create(ctx, p.ID, strings.Repeat("c", 51), alice)
	assert.ErrorIs(t, err, ErrValidation)
	// within the limit as typed, over it once escaped
	_, err = f.comments.Create(ctx, p.ID, strings.Repeat("<", 20), alice)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.comments.Delete(ctx, first.ID, bob)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.comments.Delete(ctx, 9999, bob)
	assert.ErrorIs(t, err, ErrCommentNotFound)
	assert.Equal(t, before, f.logCount(t))

	deleted, err := f.comments.Delete(ctx, first.ID, alice)
	require.NoError(t, err)
	assert.Equal(t, p.ID, deleted.PostID)
	entry = f.lastLog(t)
	assert.Equal(t, models.ActionDelete, entry.ActionType)
	assert.Contains(t, entry.Description, "first!")

	list, err = f.comments.ListByPost(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
