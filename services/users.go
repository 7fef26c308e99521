package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/cppla/postboard/models"
	"github.com/cppla/postboard/utils"
)

const (
	usernameMaxLength = 64
	// bcrypt ignores input past 72 bytes.
	passwordMaxBytes = 72
)

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	ID       uint   `json:"id"`
}

// Profile is a user with the posts they wrote and the likes they gave.
type Profile struct {
	ID         uint          `json:"id"`
	Username   string        `json:"username"`
	CreatedAt  time.Time     `json:"createdAt"`
	Posts      []models.Post `json:"posts"`
	LikedPosts []models.Like `json:"likedPosts"`
}

// UserService registers, authenticates and looks up accounts.
type UserService struct {
	db     *gorm.DB
	audit  *AuditLogger
	tokens *utils.TokenService
}

// NewUserService creates a UserService.
func NewUserService(db *gorm.DB, audit *AuditLogger, tokens *utils.TokenService) *UserService {
	return &UserService{db: db, audit: audit, tokens: tokens}
}

// Register creates an account. The audit entry has no invoker since nobody is
// authenticated yet, and never contains the password.
func (s *UserService) Register(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, validationError("username is required")
	}
	if utf8.RuneCountInString(username) > usernameMaxLength {
		return nil, validationError("username exceeds %d characters", usernameMaxLength)
	}
	if password == "" {
		return nil, validationError("password is required")
	}
	if len(password) > passwordMaxBytes {
		return nil, validationError("password exceeds %d bytes", passwordMaxBytes)
	}

	exists, err := s.usernameTaken(s.db.WithContext(ctx), username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserAlreadyExists
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{Username: username, Password: hash}
	err = s.audit.WithAudit(ctx, func(tx *gorm.DB) (*Entry, error) {
		if err := tx.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, ErrUserAlreadyExists
			}
			return nil, fmt.Errorf("create user: %w", err)
		}
		return &Entry{
			Action:      models.ActionInsert,
			Model:       models.ModelUsers,
			Description: fmt.Sprintf("Registered user: %q", user.Username),
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Login checks credentials and issues a token.
func (s *UserService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", strings.TrimSpace(username)).First(&user).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	if !utils.CheckPassword(user.Password, password) {
		return nil, ErrWrongPassword
	}

	token, err := s.tokens.Issue(utils.Identity{ID: user.ID, Username: user.Username})
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &LoginResult{Token: token, Username: user.Username, ID: user.ID}, nil
}

// AssociatedPosts returns a user's profile with their posts (newest first) and likes.
func (s *UserService) AssociatedPosts(ctx context.Context, id uint) (*Profile, error) {
	db := s.db.WithContext(ctx)

	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	posts := []models.Post{}
	if err := db.Preload("Likes").Where("username = ?", user.Username).
		Order("created_at DESC").Order("id DESC").
		Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	likes := []models.Like{}
	if err := db.Where("user_id = ?", user.ID).Find(&likes).Error; err != nil {
		return nil, fmt.Errorf("list likes: %w", err)
	}

	return &Profile{
		ID:         user.ID,
		Username:   user.Username,
		CreatedAt:  user.CreatedAt,
		Posts:      posts,
		LikedPosts: likes,
	}, nil
}

// Delete removes an account with its likes and the audit entries it invoked.
// Posts stay because they only carry the author's name.
func (s *UserService) Delete(ctx context.Context, id uint, actor Actor) (*models.User, error) {
	if !actor.Admin && actor.ID != id {
		return nil, ErrForbidden
	}

	var user models.User
	err := s.audit.WithAudit(ctx, func(tx *gorm.DB) (*Entry, error) {
		if err := actor.ensureExists(tx); err != nil {
			return nil, err
		}
		if err := tx.First(&user, id).Error; err != nil {
			if isNotFound(err) {
				return nil, ErrUserNotFound
			}
			return nil, fmt.Errorf("load user: %w", err)
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Like{}).Error; err != nil {
			return nil, fmt.Errorf("delete likes: %w", err)
		}
		if err := tx.Where("invoker_id = ?", user.ID).Delete(&models.LogEntry{}).Error; err != nil {
			return nil, fmt.Errorf("delete logs: %w", err)
		}
		if err := tx.Delete(&user).Error; err != nil {
			return nil, fmt.Errorf("delete user: %w", err)
		}

		var invoker *uint
		if actor.ID != user.ID {
			invoker = uintPtr(actor.ID)
		}
		return &Entry{
			Action:      models.ActionDelete,
			Model:       models.ModelUsers,
			InvokerID:   invoker,
			Description: fmt.Sprintf("User with id %d deleted user %q with id: %d", actor.ID, user.Username, user.ID),
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) usernameTaken(db *gorm.DB, username string) (bool, error) {
	var count int64
	if err := db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check username: %w", err)
	}
	return count > 0, nil
}
