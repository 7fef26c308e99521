package services

import (
	"errors"
	"fmt"
)

// Error classes. Controllers map them to status codes with errors.Is.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation failed")
	ErrCredential    = errors.New("invalid credentials")
	ErrForbidden     = errors.New("forbidden")
	// ErrAuditWrite means the audit append failed and the paired mutation was rolled back.
	ErrAuditWrite = errors.New("audit write failed")
)

var (
	ErrUserNotFound      = fmt.Errorf("user %w", ErrNotFound)
	ErrPostNotFound      = fmt.Errorf("post %w", ErrNotFound)
	ErrCommentNotFound   = fmt.Errorf("comment %w", ErrNotFound)
	ErrUserAlreadyExists = fmt.Errorf("user %w", ErrAlreadyExists)
	ErrWrongPassword     = fmt.Errorf("wrong password: %w", ErrCredential)
	// ErrAccountGone means a valid token names a user that no longer exists.
	ErrAccountGone = fmt.Errorf("account no longer exists: %w", ErrCredential)
)

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
