package repository

import (
	"context"

	"procuretrack/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PORepository interface {
	CreateTx(ctx context.Context, tx *gorm.DB, po *model.PurchaseOrder) error
	NextPOSeq(ctx context.Context, tx *gorm.DB) (int, error)
	SetNumberTx(tx *gorm.DB, id uuid.UUID, number string) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error)
	FindByAOQ(ctx context.Context, aoqID uuid.UUID) ([]model.PurchaseOrder, error)
	Save(ctx context.Context, po *model.PurchaseOrder) error
	List(ctx context.Context) ([]model.PurchaseOrder, error)
	Count(ctx context.Context) (int64, error)
	DB() *gorm.DB
}

type poRepo struct{ db *gorm.DB }

func NewPORepository(db *gorm.DB) PORepository { return &poRepo{db: db} }

func (r *poRepo) DB() *gorm.DB { return r.db }

func (r *poRepo) CreateTx(ctx context.Context, tx *gorm.DB, po *model.PurchaseOrder) error {
	return tx.WithContext(ctx).Create(po).Error
}

// NextPOSeq pulls the next value of the PO numbering sequence. The sequence
// is created by a schema patch at startup (see infra.NewDatabase).
func (r *poRepo) NextPOSeq(ctx context.Context, tx *gorm.DB) (int, error) {
	var n int
	err := tx.WithContext(ctx).Raw("SELECT nextval('purchase_orders_seq')").Scan(&n).Error
	return n, err
}

func (r *poRepo) SetNumberTx(tx *gorm.DB, id uuid.UUID, number string) error {
	return tx.Model(&model.PurchaseOrder{}).Where("id = ?", id).Update("po_number", number).Error
}

func (r *poRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
	var po model.PurchaseOrder
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Preload("AOQ.RFQ.PurchaseRequest.Items").
		Preload("AOQ.Lines.PRItem").
		First(&po, "id = ?", id).Error
	return &po, err
}

func (r *poRepo) FindByAOQ(ctx context.Context, aoqID uuid.UUID) ([]model.PurchaseOrder, error) {
	var pos []model.PurchaseOrder
	err := r.db.WithContext(ctx).Where("aoq_id = ?", aoqID).Find(&pos).Error
	return pos, err
}

func (r *poRepo) Save(ctx context.Context, po *model.PurchaseOrder) error {
	return r.db.WithContext(ctx).Save(po).Error
}

func (r *poRepo) List(ctx context.Context) ([]model.PurchaseOrder, error) {
	var pos []model.PurchaseOrder
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Order("created_at DESC").
		Find(&pos).Error
	return pos, err
}

func (r *poRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.PurchaseOrder{}).Count(&n).Error
	return n, err
}
