package repository

import (
	"context"
	"time"

	"procuretrack/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AOQRepository interface {
	Create(ctx context.Context, tx *gorm.DB, aoq *model.AbstractOfQuotation) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.AbstractOfQuotation, error)
	FindByRFQ(ctx context.Context, rfqID uuid.UUID) (*model.AbstractOfQuotation, error)
	Update(ctx context.Context, aoq *model.AbstractOfQuotation) error
	FindLine(ctx context.Context, id uuid.UUID) (*model.AOQLine, error)
	UpdateLine(ctx context.Context, line *model.AOQLine) error
	// MarkAwardedTx sets the award fields guarded by the version counter.
	// Returns the number of rows updated: 0 means a concurrent award won.
	MarkAwardedTx(tx *gorm.DB, aoqID uuid.UUID, version int, supplierID uuid.UUID, byID *uuid.UUID, at time.Time) (int64, error)
	Count(ctx context.Context) (int64, error)
	DB() *gorm.DB
}

type aoqRepo struct{ db *gorm.DB }

func NewAOQRepository(db *gorm.DB) AOQRepository { return &aoqRepo{db: db} }

func (r *aoqRepo) DB() *gorm.DB { return r.db }

func (r *aoqRepo) Create(ctx context.Context, tx *gorm.DB, aoq *model.AbstractOfQuotation) error {
	return tx.WithContext(ctx).Create(aoq).Error
}

func (r *aoqRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.AbstractOfQuotation, error) {
	var aoq model.AbstractOfQuotation
	err := r.db.WithContext(ctx).
		Preload("RFQ.PurchaseRequest.Items").
		Preload("RFQ.ConsolidatedPRs.Items").
		Preload("AwardedTo").
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("aoq_lines.created_at") }).
		Preload("Lines.PRItem").
		Preload("Lines.Supplier").
		First(&aoq, "id = ?", id).Error
	return &aoq, err
}

func (r *aoqRepo) FindByRFQ(ctx context.Context, rfqID uuid.UUID) (*model.AbstractOfQuotation, error) {
	var aoq model.AbstractOfQuotation
	err := r.db.WithContext(ctx).Where("rfq_id = ?", rfqID).First(&aoq).Error
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, aoq.ID)
}

func (r *aoqRepo) Update(ctx context.Context, aoq *model.AbstractOfQuotation) error {
	return r.db.WithContext(ctx).Save(aoq).Error
}

func (r *aoqRepo) FindLine(ctx context.Context, id uuid.UUID) (*model.AOQLine, error) {
	var line model.AOQLine
	err := r.db.WithContext(ctx).
		Preload("PRItem").
		Preload("Supplier").
		First(&line, "id = ?", id).Error
	return &line, err
}

func (r *aoqRepo) UpdateLine(ctx context.Context, line *model.AOQLine) error {
	return r.db.WithContext(ctx).Save(line).Error
}

func (r *aoqRepo) MarkAwardedTx(tx *gorm.DB, aoqID uuid.UUID, version int, supplierID uuid.UUID, byID *uuid.UUID, at time.Time) (int64, error) {
	res := tx.Model(&model.AbstractOfQuotation{}).
		Where("id = ? AND version = ? AND awarded_to_id IS NULL", aoqID, version).
		Updates(map[string]interface{}{
			"awarded_to_id": supplierID,
			"awarded_at":    at,
			"awarded_by_id": byID,
			"version":       version + 1,
		})
	return res.RowsAffected, res.Error
}

func (r *aoqRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.AbstractOfQuotation{}).Count(&n).Error
	return n, err
}
