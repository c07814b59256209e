package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AbstractOfQuotation tabulates all bid lines of an RFQ side by side so the
// BAC can pick the lowest calculated responsive bid. One per RFQ.
//
// Version is an optimistic concurrency token: the award transaction updates
// the row with a WHERE version = ? guard so two concurrent award attempts
// cannot both succeed.
type AbstractOfQuotation struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AOQNumber *string   `gorm:"uniqueIndex"`
	RFQID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Verified  bool      `gorm:"not null;default:false"`

	AwardedToID *uuid.UUID `gorm:"type:uuid"`
	AwardedAt   *time.Time
	AwardedByID *uuid.UUID `gorm:"type:uuid"`
	Version     int        `gorm:"not null;default:0"`

	CreatedByID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	RFQ       *RequestForQuotation `gorm:"foreignKey:RFQID"`
	AwardedTo *Supplier            `gorm:"foreignKey:AwardedToID"`
	Lines     []AOQLine            `gorm:"foreignKey:AOQID;constraint:OnDelete:CASCADE"`
}

// Awarded reports whether this abstract has already been awarded.
func (a *AbstractOfQuotation) Awarded() bool {
	return a.AwardedToID != nil
}

// AOQLine is one supplier's price for one PR item as carried into the
// abstract. Responsive is derived from the originating bid line when the
// abstract is built (compliant AND price > 0) and may be overridden by
// procurement staff during evaluation; tabulation reads only this flag.
type AOQLine struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AOQID      uuid.UUID `gorm:"type:uuid;not null;index"`
	PRItemID   uuid.UUID `gorm:"type:uuid;not null;index"`
	SupplierID uuid.UUID `gorm:"type:uuid;not null;index"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Responsive bool            `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	PRItem   *PRItem   `gorm:"foreignKey:PRItemID"`
	Supplier *Supplier `gorm:"foreignKey:SupplierID"`
}

// LineTotal is unit price × the requested quantity of the underlying PR item.
// Returns zero when the PR item association is not loaded.
func (l *AOQLine) LineTotal() decimal.Decimal {
	if l.PRItem == nil || l.PRItem.Quantity <= 0 {
		return decimal.Zero
	}
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.PRItem.Quantity)))
}
