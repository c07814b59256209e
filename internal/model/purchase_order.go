package model

import (
	"time"

	"github.com/google/uuid"
)

// PurchaseOrder is issued to the winning supplier of an awarded AOQ.
// Seq comes from a Postgres sequence inside the award transaction; the
// PO number is derived from it as PO-YYYYMMDD-<seq> once the row exists.
type PurchaseOrder struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Seq        int       `gorm:"not null;uniqueIndex"`
	PONumber   *string   `gorm:"uniqueIndex"`
	AOQID      uuid.UUID `gorm:"type:uuid;not null;index"`
	SupplierID uuid.UUID `gorm:"type:uuid;not null;index"`

	PlaceOfDelivery string
	DateOfDelivery  *time.Time
	SubmissionDate  *time.Time
	ReceivingOffice string

	CreatedByID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	AOQ      *AbstractOfQuotation `gorm:"foreignKey:AOQID"`
	Supplier *Supplier            `gorm:"foreignKey:SupplierID"`
}
