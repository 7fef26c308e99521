package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/cppla/postboard/models"
	"github.com/cppla/postboard/utils"
)

const titleMaxLength = 255

// Sort orders accepted by PostService.List.
const (
	SortByDate       = "date"
	SortByPopularity = "popularity"
)

// Limits bounds user supplied text.
type Limits struct {
	PostTextMaxLength    int
	CommentTextMaxLength int
}

// PostList is the feed together with the viewer's own likes.
type PostList struct {
	ListOfPosts []models.Post `json:"listOfPosts"`
	LikedPosts  []models.Like `json:"likedPosts"`
}

// PostService manages posts.
type PostService struct {
	db     *gorm.DB
	audit  *AuditLogger
	limits Limits
}

// NewPostService creates a PostService.
func NewPostService(db *gorm.DB, audit *AuditLogger, limits Limits) *PostService {
	return &PostService{db: db, audit: audit, limits: limits}
}

// List returns every post with its likes.
//
// "date" sorts newest first. "popularity" sorts by the most recent like, which
// favours recently liked posts rather than most liked ones; posts without likes
// come last. Any other value sorts oldest first.
func (s *PostService) List(ctx context.Context, sortBy string, viewerID uint) (*PostList, error) {
	db := s.db.WithContext(ctx)

	q := db.Model(&models.Post{}).Preload("Likes")
	switch sortBy {
	case SortByDate:
		q = q.Order("posts.created_at DESC").Order("posts.id DESC")
	case SortByPopularity:
		q = q.Select("posts.*").
			Joins("LEFT JOIN likes ON likes.post_id = posts.id").
			Group("posts.id").
			Order("MAX(likes.created_at) IS NULL").
			Order("MAX(likes.created_at) DESC").
			Order("posts.id DESC")
	default:
		q = q.Order("posts.created_at ASC").Order("posts.id ASC")
	}

	posts := []models.Post{}
	if err := q.Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	likes := []models.Like{}
	if err := db.Where("user_id = ?", viewerID).Find(&likes).Error; err != nil {
		return nil, fmt.Errorf("list likes: %w", err)
	}
	return &PostList{ListOfPosts: posts, LikedPosts: likes}, nil
}

// Get returns a single post.
func (s *PostService) Get(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).First(&post, id).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("load post: %w", err)
	}
	return &post, nil
}

// Create stores a post authored by actor.
func (s *PostService) Create(ctx context.Context, title, postText string, actor Actor) (*models.Post, error) {
	safeTitle, err := s.cleanTitle(title)
	if err != nil {
		return nil, err
	}
	safeText, err := cleanText("postText", postText, s.limits.PostTextMaxLength)
	if err != nil {
		return nil, err
	}

	post := models.Post{
		Title:    safeTitle,
		PostText: safeText,
		Username: actor.Username,
	}
	err = s.audit.WithAudit(ctx, func(tx *gorm.DB) (*Entry, error) {
		if err := actor.ensureExists(tx); err != nil {
			return nil, err
		}
		var author models.User
		if err := tx.Where("username = ?", actor.Username).First(&author).Error; err != nil {
			if isNotFound(err) {
				return nil, ErrAccountGone
			}
			return nil, fmt.Errorf("load author: %w", err)
		}
		if err := tx.Create(&post).Error; err != nil {
			return nil, fmt.Errorf("create post: %w", err)
		}
		return &Entry{
			Action:      models.ActionInsert,
			Model:       models.ModelPosts,
			InvokerID:   uintPtr(author.ID),
			Description: fmt.Sprintf("User with id %d created post titled %q with id: %d", author.ID, post.Title, post.ID),
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// UpdateTitle replaces a post's title and logs the old and new value.
func (s *PostService) UpdateTitle(ctx context.Context, id uint, newTitle string, actor Actor) (*models.Post, error) {
	clean, err := s.cleanTitle(newTitle)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, id, "title", clean, actor)
}

// UpdateText replaces a post's body and logs the old and new value.
func (s *PostService) UpdateText(ctx context.Context, id uint, newText string, actor Actor) (*models.Post, error) {
	clean, err := cleanText("postText", newText, s.limits.PostTextMaxLength)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, id, "postText", clean, actor)
}

func (s *PostService) update(ctx context.Context, id uint, field, value string, actor Actor) (*models.Post, error) {
	var post models.Post
	err := s.audit.WithAudit(ctx, func(tx *gorm.DB) (*Entry, error) {
		if err := actor.ensureExists(tx); err != nil {
			return nil, err
		}
		if err := tx.First(&post, id).Error; err != nil {
			if isNotFound(err) {
				return nil, ErrPostNotFound
			}
			return nil, fmt.Errorf("load post: %w", err)
		}
		if !actor.owns(post.Username) {
			return nil, ErrForbidden
		}

		var old, column string
		switch field {
		case "title":
			old, column = post.Title, "title"
			post.Title = value
		default:
			old, column = post.PostText, "post_text"
			post.PostText = value
		}
		if err := tx.Model(&post).Update(column, value).Error; err != nil {
			return nil, fmt.Errorf("update post: %w", err)
		}
		return &Entry{
			Action:    models.ActionUpdate,
			Model:     models.ModelPosts,
			InvokerID: uintPtr(actor.ID),
			Description: fmt.Sprintf("User with id %d changed %s of post with id %d from %q -> %q",
				actor.ID, field, post.ID, old, value),
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Delete removes a post with its comments and likes.
func (s *PostService) Delete(ctx context.Context, id uint, actor Actor) (*models.Post, error) {
	var post models.Post
	err := s.audit.WithAudit(ctx, func(tx *gorm.DB) (*Entry, error) {
		if err := actor.ensureExists(tx); err != nil {
			return nil, err
		}
		if err := tx.First(&post, id).Error; err != nil {
			if isNotFound(err) {
				return nil, ErrPostNotFound
			}
			return nil, fmt.Errorf("load post: %w", err)
		}
		if !actor.owns(post.Username) {
			return nil, ErrForbidden
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
			return nil, fmt.Errorf("delete comments: %w", err)
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Like{}).Error; err != nil {
			return nil, fmt.Errorf("delete likes: %w", err)
		}
		if err := tx.Delete(&post).Error; err != nil {
			return nil, fmt.Errorf("delete post: %w", err)
		}
		return &Entry{
			Action:      models.ActionDelete,
			Model:       models.ModelPosts,
			InvokerID:   uintPtr(actor.ID),
			Description: fmt.Sprintf("User with id %d deleted post titled %q with id: %d", actor.ID, post.Title, post.ID),
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// cleanTitle sanitises a title and bounds the stored form.
func (s *PostService) cleanTitle(title string) (string, error) {
	clean := utils.Sanitize(strings.TrimSpace(title))
	if utf8.RuneCountInString(clean) > titleMaxLength {
		return "", validationError("title exceeds %d characters", titleMaxLength)
	}
	return clean, nil
}

// cleanText sanitises user text. Limits apply to the escaped form that is stored.
func cleanText(field, text string, limit int) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", validationError("%s is required", field)
	}
	clean := utils.Sanitize(text)
	if strings.TrimSpace(clean) == "" {
		return "", validationError("%s is required", field)
	}
	if limit > 0 && utf8.RuneCountInString(clean) > limit {
		return "", validationError("%s exceeds %d characters", field, limit)
	}
	return clean, nil
}
