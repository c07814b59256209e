package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	BidStatusSubmitted = "submitted"
	BidStatusWithdrawn = "withdrawn"
	BidStatusAwarded   = "awarded"
)

// Bid is one supplier's quotation against an RFQ. Unique per (RFQ, supplier).
type Bid struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RFQID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_bids_rfq_supplier"`
	SupplierID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_bids_rfq_supplier"`
	Status     string    `gorm:"not null;default:'submitted'"`
	Remarks    string    `gorm:"type:text"`

	CreatedByID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Supplier *Supplier `gorm:"foreignKey:SupplierID"`
	Lines    []BidLine `gorm:"foreignKey:BidID;constraint:OnDelete:CASCADE"`
}

// TotalAmount sums line totals over loaded lines.
func (b *Bid) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for i := range b.Lines {
		total = total.Add(b.Lines[i].TotalCost())
	}
	return total
}

// BidLine is a supplier's offered price for one PR item.
type BidLine struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BidID     uuid.UUID `gorm:"type:uuid;not null;index"`
	PRItemID  uuid.UUID `gorm:"type:uuid;not null;index"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Compliant bool            `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	PRItem *PRItem `gorm:"foreignKey:PRItemID"`
}

// ValidPrice reports whether the offered price is usable: strictly positive.
func (l *BidLine) ValidPrice() bool {
	return l.UnitPrice.IsPositive()
}

// TotalCost is unit price × the requested quantity of the underlying PR item.
// Returns zero when the PR item association is not loaded.
func (l *BidLine) TotalCost() decimal.Decimal {
	if l.PRItem == nil || l.PRItem.Quantity <= 0 {
		return decimal.Zero
	}
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.PRItem.Quantity)))
}
