package services

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/cppla/postboard/models"
)

// Actor is the authenticated caller a mutation is attributed to.
type Actor struct {
	ID       uint
	Username string
	Admin    bool
}

// owns reports whether the actor may change a resource authored by username.
func (a Actor) owns(username string) bool {
	return a.Admin || (a.Username != "" && a.Username == username)
}

// ensureExists fails with ErrAccountGone when the account behind a still valid
// token was deleted. It must run inside the mutation's transaction.
func (a Actor) ensureExists(tx *gorm.DB) error {
	var count int64
	if err := tx.Model(&models.User{}).Where("id = ? AND username = ?", a.ID, a.Username).Count(&count).Error; err != nil {
		return fmt.Errorf("load actor: %w", err)
	}
	if count == 0 {
		return ErrAccountGone
	}
	return nil
}

func uintPtr(v uint) *uint {
	return &v
}
