package model

import (
	"time"

	"github.com/google/uuid"
)

// RequestForQuotation belongs either to a single purchase request
// (PurchaseRequestID set) or to a consolidated set of PRs that reference it
// via PurchaseRequest.ConsolidatedInID. Never both.
type RequestForQuotation struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RFQNumber         *string    `gorm:"uniqueIndex"`
	PurchaseRequestID *uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	Date              time.Time  `gorm:"not null"`
	Resolution        string     `gorm:"type:text"`
	ResolutionByID    *uuid.UUID `gorm:"type:uuid"`
	ResolutionAt      *time.Time

	CreatedByID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	PurchaseRequest *PurchaseRequest      `gorm:"foreignKey:PurchaseRequestID"`
	ConsolidatedPRs []PurchaseRequest     `gorm:"foreignKey:ConsolidatedInID"`
	Bids            []Bid                 `gorm:"foreignKey:RFQID;constraint:OnDelete:CASCADE"`
	AOQ             *AbstractOfQuotation  `gorm:"foreignKey:RFQID"`
}

// IsConsolidated reports whether this RFQ was produced by merging PRs.
func (rfq *RequestForQuotation) IsConsolidated() bool {
	return rfq.PurchaseRequestID == nil
}

// PRs returns the purchase requests covered by this RFQ, whether it is a
// single-PR or a consolidated one. Associations must be preloaded.
func (rfq *RequestForQuotation) PRs() []PurchaseRequest {
	if rfq.PurchaseRequest != nil {
		return []PurchaseRequest{*rfq.PurchaseRequest}
	}
	return rfq.ConsolidatedPRs
}

// RequiredItemIDs returns the union of PR item ids across all covered PRs, in
// PR-then-item order. Bids must carry one line per returned id to be complete.
func (rfq *RequestForQuotation) RequiredItemIDs() []uuid.UUID {
	var ids []uuid.UUID
	for _, pr := range rfq.PRs() {
		for i := range pr.Items {
			ids = append(ids, pr.Items[i].ID)
		}
	}
	return ids
}

// ConsolidationLog records which PRs were merged into which RFQ, by whom,
// and why.
type ConsolidationLog struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RFQID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	PRNumbers string     `gorm:"type:text;not null"` // comma-separated, for audit display
	Remarks   string     `gorm:"type:text"`
	ActorID   *uuid.UUID `gorm:"type:uuid"`
	CreatedAt time.Time
}
