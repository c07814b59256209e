package repository

import (
	"context"

	"procuretrack/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActionLogRepository interface {
	CreateTx(tx *gorm.DB, entry *model.ActionLog) error
	Create(ctx context.Context, entry *model.ActionLog) error
	ListByTarget(ctx context.Context, targetType string, targetID uuid.UUID) ([]model.ActionLog, error)
}

type actionLogRepo struct{ db *gorm.DB }

func NewActionLogRepository(db *gorm.DB) ActionLogRepository { return &actionLogRepo{db: db} }

func (r *actionLogRepo) CreateTx(tx *gorm.DB, entry *model.ActionLog) error {
	return tx.Create(entry).Error
}

func (r *actionLogRepo) Create(ctx context.Context, entry *model.ActionLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *actionLogRepo) ListByTarget(ctx context.Context, targetType string, targetID uuid.UUID) ([]model.ActionLog, error) {
	var entries []model.ActionLog
	err := r.db.WithContext(ctx).
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Order("created_at DESC").
		Find(&entries).Error
	return entries, err
}
