package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cppla/postboard/models"
)

// LikeService toggles likes.
type LikeService struct {
	audit *AuditLogger
}

// NewLikeService creates a LikeService.
func NewLikeService(audit *AuditLogger) *LikeService {
	return &LikeService{audit: audit}
}

// Toggle likes the post when actor has not liked it yet and unlikes it otherwise.
// It reports whether the post is liked afterwards.
//
// The delete runs first so that an existing like is removed atomically; otherwise
// the insert relies on the unique (post_id, user_id) index, and losing a race to a
// concurrent like of the same pair changes nothing and writes no audit entry.
func (s *LikeService) Toggle(ctx context.Context, postID uint, actor Actor) (bool, error) {
	var liked bool
	err := s.audit.WithAudit(ctx, func(tx *gorm.DB) (*Entry, error) {
		if err := actor.ensureExists(tx); err != nil {
			return nil, err
		}
		if err := postExists(tx, postID); err != nil {
			return nil, err
		}

		res := tx.Where("post_id = ? AND user_id = ?", postID, actor.ID).Delete(&models.Like{})
		if res.Error != nil {
			return nil, fmt.Errorf("delete like: %w", res.Error)
		}
		if res.RowsAffected > 0 {
			liked = false
			return &Entry{
				Action:      models.ActionDelete,
				Model:       models.ModelLikes,
				InvokerID:   uintPtr(actor.ID),
				Description: fmt.Sprintf("Post with id %d unliked by User with id %d", postID, actor.ID),
			}, nil
		}

		like := models.Like{PostID: postID, UserID: actor.ID}
		res = tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&like)
		if res.Error != nil {
			return nil, fmt.Errorf("create like: %w", res.Error)
		}
		liked = true
		if res.RowsAffected == 0 {
			return nil, nil
		}
		return &Entry{
			Action:      models.ActionInsert,
			Model:       models.ModelLikes,
			InvokerID:   uintPtr(actor.ID),
			Description: fmt.Sprintf("Post with id %d liked by User with id %d", postID, actor.ID),
		}, nil
	})
	if err != nil {
		return false, err
	}
	return liked, nil
}
