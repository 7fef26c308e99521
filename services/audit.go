package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/cppla/postboard/metrics"
	"github.com/cppla/postboard/models"
	"github.com/cppla/postboard/utils"
)

// Entry describes one state change to append to the audit log.
type Entry struct {
	Action      models.ActionType
	Model       string
	InvokerID   *uint
	Description string
}

// LogFilter narrows an audit log listing.
type LogFilter struct {
	ModelName string
	InvokerID *uint
	Page      int
	PageSize  int
}

// AuditLogger appends immutable records of state-changing actions. Records are
// written in the transaction of the mutation they describe.
type AuditLogger struct {
	db *gorm.DB
}

// NewAuditLogger creates an AuditLogger.
func NewAuditLogger(db *gorm.DB) *AuditLogger {
	return &AuditLogger{db: db}
}

// Record appends e using tx.
func (a *AuditLogger) Record(tx *gorm.DB, e Entry) (*models.LogEntry, error) {
	entry := models.LogEntry{
		ActionType:  e.Action,
		ModelName:   e.Model,
		InvokerID:   e.InvokerID,
		Description: e.Description,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// WithAudit runs mutate in a transaction and appends the entry it returns after the
// mutation succeeds. A nil entry means nothing changed and nothing is logged. When
// the append fails the whole transaction rolls back and ErrAuditWrite is returned.
func (a *AuditLogger) WithAudit(ctx context.Context, mutate func(tx *gorm.DB) (*Entry, error)) error {
	var written *Entry
	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		e, err := mutate(tx)
		if err != nil {
			return err
		}
		if e == nil {
			return nil
		}
		if _, err := a.Record(tx, *e); err != nil {
			utils.Logger.Error("audit write failed",
				zap.String("action", string(e.Action)),
				zap.String("model", e.Model),
				zap.String("description", e.Description),
				zap.Error(err),
			)
			metrics.IncAuditFailure(e.Model)
			return fmt.Errorf("%w: %v", ErrAuditWrite, err)
		}
		written = e
		return nil
	})
	if err != nil {
		return err
	}
	if written != nil {
		metrics.IncAuditEntry(string(written.Action), written.Model)
	}
	return nil
}

// List returns audit entries newest first.
func (a *AuditLogger) List(ctx context.Context, f LogFilter) ([]models.LogEntry, int64, error) {
	page, pageSize := f.Page, f.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	q := a.db.WithContext(ctx).Model(&models.LogEntry{})
	if f.ModelName != "" {
		q = q.Where("model_name = ?", f.ModelName)
	}
	if f.InvokerID != nil {
		q = q.Where("invoker_id = ?", *f.InvokerID)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count logs: %w", err)
	}
	entries := []models.LogEntry{}
	if err := q.Order("created_at DESC").Order("id DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&entries).Error; err != nil {
		return nil, 0, fmt.Errorf("list logs: %w", err)
	}
	return entries, total, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
