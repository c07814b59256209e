package repository

import (
	"context"

	"procuretrack/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RFQRepository interface {
	Create(ctx context.Context, tx *gorm.DB, rfq *model.RequestForQuotation) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.RequestForQuotation, error)
	FindByNumber(ctx context.Context, number string) (*model.RequestForQuotation, error)
	List(ctx context.Context) ([]model.RequestForQuotation, error)
	CreateConsolidationLogTx(tx *gorm.DB, log *model.ConsolidationLog) error
	Count(ctx context.Context) (int64, error)
	DB() *gorm.DB
}

type rfqRepo struct{ db *gorm.DB }

func NewRFQRepository(db *gorm.DB) RFQRepository { return &rfqRepo{db: db} }

func (r *rfqRepo) DB() *gorm.DB { return r.db }

func (r *rfqRepo) Create(ctx context.Context, tx *gorm.DB, rfq *model.RequestForQuotation) error {
	return tx.WithContext(ctx).Create(rfq).Error
}

func (r *rfqRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.RequestForQuotation, error) {
	var rfq model.RequestForQuotation
	err := r.db.WithContext(ctx).
		Preload("PurchaseRequest.Items").
		Preload("ConsolidatedPRs.Items").
		Preload("Bids.Supplier").
		Preload("Bids.Lines.PRItem").
		Preload("AOQ").
		First(&rfq, "id = ?", id).Error
	return &rfq, err
}

func (r *rfqRepo) FindByNumber(ctx context.Context, number string) (*model.RequestForQuotation, error) {
	var rfq model.RequestForQuotation
	err := r.db.WithContext(ctx).Where("rfq_number = ?", number).First(&rfq).Error
	return &rfq, err
}

func (r *rfqRepo) List(ctx context.Context) ([]model.RequestForQuotation, error) {
	var rfqs []model.RequestForQuotation
	err := r.db.WithContext(ctx).
		Preload("PurchaseRequest").
		Preload("ConsolidatedPRs").
		Preload("Bids").
		Preload("AOQ").
		Order("created_at DESC").
		Find(&rfqs).Error
	return rfqs, err
}

func (r *rfqRepo) CreateConsolidationLogTx(tx *gorm.DB, log *model.ConsolidationLog) error {
	return tx.Create(log).Error
}

func (r *rfqRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.RequestForQuotation{}).Count(&n).Error
	return n, err
}
