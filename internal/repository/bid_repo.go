package repository

import (
	"context"

	"procuretrack/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BidRepository interface {
	Create(ctx context.Context, tx *gorm.DB, bid *model.Bid) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Bid, error)
	FindByRFQAndSupplier(ctx context.Context, rfqID, supplierID uuid.UUID) (*model.Bid, error)
	ListByRFQ(ctx context.Context, rfqID uuid.UUID) ([]model.Bid, error)
	SaveLinesTx(tx *gorm.DB, lines []model.BidLine) error
	DeleteLinesTx(tx *gorm.DB, bidID uuid.UUID) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string) error
	DB() *gorm.DB
}

type bidRepo struct{ db *gorm.DB }

func NewBidRepository(db *gorm.DB) BidRepository { return &bidRepo{db: db} }

func (r *bidRepo) DB() *gorm.DB { return r.db }

func (r *bidRepo) Create(ctx context.Context, tx *gorm.DB, bid *model.Bid) error {
	return tx.WithContext(ctx).Create(bid).Error
}

func (r *bidRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Bid, error) {
	var bid model.Bid
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Preload("Lines.PRItem").
		First(&bid, "id = ?", id).Error
	return &bid, err
}

func (r *bidRepo) FindByRFQAndSupplier(ctx context.Context, rfqID, supplierID uuid.UUID) (*model.Bid, error) {
	var bid model.Bid
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Preload("Lines.PRItem").
		Where("rfq_id = ? AND supplier_id = ?", rfqID, supplierID).
		First(&bid).Error
	return &bid, err
}

func (r *bidRepo) ListByRFQ(ctx context.Context, rfqID uuid.UUID) ([]model.Bid, error) {
	var bids []model.Bid
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Preload("Lines.PRItem").
		Where("rfq_id = ?", rfqID).
		Order("created_at DESC").
		Find(&bids).Error
	return bids, err
}

func (r *bidRepo) SaveLinesTx(tx *gorm.DB, lines []model.BidLine) error {
	if len(lines) == 0 {
		return nil
	}
	return tx.Save(&lines).Error
}

func (r *bidRepo) DeleteLinesTx(tx *gorm.DB, bidID uuid.UUID) error {
	return tx.Where("bid_id = ?", bidID).Delete(&model.BidLine{}).Error
}

func (r *bidRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return r.db.WithContext(ctx).Model(&model.Bid{}).Where("id = ?", id).Update("status", status).Error
}

func (r *bidRepo) UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string) error {
	return tx.Model(&model.Bid{}).Where("id = ?", id).Update("status", status).Error
}
