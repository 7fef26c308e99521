package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/cppla/postboard/models"
)

// CommentService manages comments on posts.
type CommentService struct {
	db     *gorm.DB
	audit  *AuditLogger
	limits Limits
}

// NewCommentService creates a CommentService.
func NewCommentService(db *gorm.DB, audit *AuditLogger, limits Limits) *CommentService {
	return &CommentService{db: db, audit: audit, limits: limits}
}

// ListByPost returns the comments of a post, oldest first.
func (s *CommentService) ListByPost(ctx context.Context, postID uint) ([]models.Comment, error) {
	comments := []models.Comment{}
	if err := s.db.WithContext(ctx).Where("post_id = ?", postID).
		Order("created_at ASC").Order("id ASC").
		Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

// Create adds a comment by actor to a post.
func (s *CommentService) Create(ctx context.Context, postID uint, commentText string, actor Actor) (*models.Comment, error) {
	text, err := cleanText("commentText", commentText, s.limits.CommentTextMaxLength)
	if err != nil {
		return nil, err
	}

	comment := models.Comment{
		CommentText: text,
		Username:    actor.Username,
		PostID:      postID,
	}
	err = s.audit.WithAudit(ctx, func(tx *gorm.DB) (*Entry, error) {
		if err := actor.ensureExists(tx); err != nil {
			return nil, err
		}
		if err := postExists(tx, postID); err != nil {
			return nil, err
		}
		if err := tx.Create(&comment).Error; err != nil {
			return nil, fmt.Errorf("create comment: %w", err)
		}
		return &Entry{
			Action:      models.ActionInsert,
			Model:       models.ModelComments,
			InvokerID:   uintPtr(actor.ID),
			Description: fmt.Sprintf("User with id %d added a comment to post with id %d: %q", actor.ID, postID, comment.CommentText),
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// Delete removes a comment. The owning post id comes from the stored row.
func (s *CommentService) Delete(ctx context.Context, commentID uint, actor Actor) (*models.Comment, error) {
	var comment models.Comment
	err := s.audit.WithAudit(ctx, func(tx *gorm.DB) (*Entry, error) {
		if err := actor.ensureExists(tx); err != nil {
			return nil, err
		}
		if err := tx.First(&comment, commentID).Error; err != nil {
			if isNotFound(err) {
				return nil, ErrCommentNotFound
			}
			return nil, fmt.Errorf("load comment: %w", err)
		}
		if !actor.owns(comment.Username) {
			return nil, ErrForbidden
		}
		if err := tx.Delete(&comment).Error; err != nil {
			return nil, fmt.Errorf("delete comment: %w", err)
		}
		return &Entry{
			Action:    models.ActionDelete,
			Model:     models.ModelComments,
			InvokerID: uintPtr(actor.ID),
			Description: fmt.Sprintf("User with id %d deleted comment %q with id: %d from post with id %d",
				actor.ID, comment.CommentText, comment.ID, comment.PostID),
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func postExists(tx *gorm.DB, postID uint) error {
	var count int64
	if err := tx.Model(&models.Post{}).Where("id = ?", postID).Count(&count).Error; err != nil {
		return fmt.Errorf("load post: %w", err)
	}
	if count == 0 {
		return ErrPostNotFound
	}
	return nil
}
