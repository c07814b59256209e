package repository

import (
	"context"
	"time"

	"procuretrack/internal/dto"
	"procuretrack/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PRRepository interface {
	Create(ctx context.Context, tx *gorm.DB, pr *model.PurchaseRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.PurchaseRequest, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.PurchaseRequest, error)
	Save(ctx context.Context, tx *gorm.DB, pr *model.PurchaseRequest) error
	ReplaceItems(ctx context.Context, tx *gorm.DB, prID uuid.UUID, items []model.PRItem) error
	UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string, lastUpdate time.Time) error
	AttachToRFQTx(tx *gorm.DB, prIDs []uuid.UUID, rfqID uuid.UUID) error
	List(ctx context.Context, filter dto.PRFilter) ([]model.PurchaseRequest, int64, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
	DB() *gorm.DB
}

type prRepo struct{ db *gorm.DB }

func NewPRRepository(db *gorm.DB) PRRepository { return &prRepo{db: db} }

func (r *prRepo) DB() *gorm.DB { return r.db }

func (r *prRepo) Create(ctx context.Context, tx *gorm.DB, pr *model.PurchaseRequest) error {
	return tx.WithContext(ctx).Create(pr).Error
}

func (r *prRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.PurchaseRequest, error) {
	var pr model.PurchaseRequest
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("RFQ").
		Preload("ConsolidatedIn").
		First(&pr, "id = ?", id).Error
	return &pr, err
}

func (r *prRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.PurchaseRequest, error) {
	var prs []model.PurchaseRequest
	err := r.db.WithContext(ctx).Preload("Items").Where("id IN ?", ids).Find(&prs).Error
	return prs, err
}

func (r *prRepo) Save(ctx context.Context, tx *gorm.DB, pr *model.PurchaseRequest) error {
	db := r.db
	if tx != nil {
		db = tx
	}
	return db.WithContext(ctx).Save(pr).Error
}

// ReplaceItems swaps the PR's item set wholesale, matching the edit form
// semantics of the PR update screen.
func (r *prRepo) ReplaceItems(ctx context.Context, tx *gorm.DB, prID uuid.UUID, items []model.PRItem) error {
	db := r.db
	if tx != nil {
		db = tx
	}
	if err := db.WithContext(ctx).Where("purchase_request_id = ?", prID).Delete(&model.PRItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].PurchaseRequestID = prID
	}
	return db.WithContext(ctx).Create(&items).Error
}

func (r *prRepo) UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string, lastUpdate time.Time) error {
	return tx.Model(&model.PurchaseRequest{}).Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "last_update": lastUpdate}).Error
}

func (r *prRepo) AttachToRFQTx(tx *gorm.DB, prIDs []uuid.UUID, rfqID uuid.UUID) error {
	return tx.Model(&model.PurchaseRequest{}).Where("id IN ?", prIDs).
		Update("consolidated_in_id", rfqID).Error
}

func (r *prRepo) List(ctx context.Context, filter dto.PRFilter) ([]model.PurchaseRequest, int64, error) {
	var prs []model.PurchaseRequest
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.PurchaseRequest{})
	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Items").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&prs).Error
	return prs, total, err
}

func (r *prRepo) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Status string
		N      int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&model.PurchaseRequest{}).
		Select("status, count(*) as n").Group("status").Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, rw := range rows {
		out[rw.Status] = rw.N
	}
	return out, nil
}
