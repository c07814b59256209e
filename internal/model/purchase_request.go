package model

import (
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Purchase request lifecycle statuses. The lifecycle forks after "approved"
// into the small-value branch (RFQ → award → PO) and the public-bidding
// branch; see workflow.go for the ordered branch lists and guards.
const (
	// Stage 1: requisition
	StatusDraft     = "draft"
	StatusSubmitted = "submitted"

	// Stage 2: verification / approval
	StatusVerified = "verified"
	StatusEndorsed = "endorsed"
	StatusApproved = "approved"

	// Stage 3A: small value procurement
	StatusForMOP    = "for_mop"
	StatusForRFQ    = "for_rfq"
	StatusForAward  = "for_award"
	StatusForPO     = "for_po"
	StatusPOIssued  = "po_issued"
	StatusDelivered = "delivered"
	StatusInspected = "inspected"
	StatusClosed    = "closed"

	// Stage 3B: competitive bidding
	StatusForPB                = "for_pb"
	StatusPreBid               = "pre_bid"
	StatusBiddingOpen          = "bidding_open"
	StatusBidEvaluation        = "bid_evaluation"
	StatusPostQualification    = "post_qualification"
	StatusBACResolution        = "bac_resolution"
	StatusNoticeOfAward        = "notice_of_award"
	StatusContractPreparation  = "contract_preparation"
	StatusContractSigned       = "contract_signed"
	StatusNoticeToProceed      = "notice_to_proceed"
	StatusDeliveryCompleted    = "delivery_completed"
	StatusPaymentProcessing    = "payment_processing"

	// Exception states (reachable from the bidding branch)
	StatusCancelled     = "cancelled"
	StatusFailedBidding = "failed_bidding"
	StatusDisqualified  = "disqualified"
)

// Modes of procurement recognized by the agency.
const (
	ModeCompetitiveBidding   = "Competitive Bidding"
	ModeLimitedSourceBidding = "Limited Source Bidding"
	ModeCompetitiveDialogue  = "Competitive Dialogue"
	ModeUnsolicitedOffer     = "Unsolicited Offer with Bid Matching"
	ModeDirectContracting    = "Direct Contracting"
	ModeDirectAcquisition    = "Direct Acquisition"
	ModeRepeatOrder          = "Repeat Order"
	ModeSmallValue           = "Small Value Procurement"
	ModeNegotiated           = "Negotiated Procurement"
	ModeDirectSales          = "Direct Sales"
	ModeDirectSTI            = "Direct Procurement for Science, Technology and Innovation"
)

// Fund sources.
const (
	FundingIGF = "IGF" // Internally Generated Fund
	FundingRAF = "RAF" // Regular Agency Fund
	FundingTRF = "TRF" // Trust Receipt Fund
	FundingBRF = "BRF" // Business Related Fund
)

// Budget categories for PR items.
const (
	BudgetPS    = "PS"    // Personal Services
	BudgetMOOE  = "MOOE"  // Maintenance & Other Operating Expenses
	BudgetCO    = "CO"    // Capital Outlay
	BudgetOther = "OTHER"
)

// PRNumberPattern validates manually assigned PR numbers,
// e.g. "10-0042-25 Requesting Office".
var PRNumberPattern = regexp.MustCompile(`^\d{2}-\d{4}-\d{2}\s.+$`)

type PurchaseRequest struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Status string    `gorm:"not null;default:'draft';index"`

	ModeOfProcurement *string
	NegotiatedType    *string

	// Requestor info
	Requisitioner *string
	Designation   *string
	OfficeSection *string
	Purpose       *string
	Funding       *string

	// PR metadata. PRNumber stays nil until procurement assigns it.
	PRNumber *string `gorm:"uniqueIndex"`
	PRDate   *time.Time
	Notes    string `gorm:"type:text"`

	// ConsolidatedInID is set when this PR was merged into a consolidated RFQ.
	ConsolidatedInID *uuid.UUID `gorm:"type:uuid;index"`

	CreatedByID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	LastUpdate  time.Time

	Items          []PRItem             `gorm:"foreignKey:PurchaseRequestID;constraint:OnDelete:CASCADE"`
	RFQ            *RequestForQuotation `gorm:"foreignKey:PurchaseRequestID"`
	ConsolidatedIn *RequestForQuotation `gorm:"foreignKey:ConsolidatedInID"`
}

// TotalAmount sums quantity × unit cost over all items. Zero-value quantities
// and costs contribute nothing, so partially filled drafts never error.
func (pr *PurchaseRequest) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for i := range pr.Items {
		total = total.Add(pr.Items[i].TotalCost())
	}
	return total
}

// BreakdownByBudget returns per-category subtotals, e.g. {"MOOE": 1200.00}.
func (pr *PurchaseRequest) BreakdownByBudget() map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)
	for i := range pr.Items {
		item := &pr.Items[i]
		cat := item.BudgetCategory
		if cat == "" {
			cat = BudgetOther
		}
		totals[cat] = totals[cat].Add(item.TotalCost())
	}
	return totals
}

type PRItem struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PurchaseRequestID uuid.UUID `gorm:"type:uuid;not null;index"`
	StockNo           string
	Description       string `gorm:"type:text;not null"`
	Quantity          int    `gorm:"not null"`
	Unit              string `gorm:"not null"`
	UnitCost          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	BudgetCategory    string          `gorm:"not null;default:'MOOE'"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TotalCost is quantity × unit cost.
func (it *PRItem) TotalCost() decimal.Decimal {
	if it.Quantity <= 0 {
		return decimal.Zero
	}
	return it.UnitCost.Mul(decimal.NewFromInt(int64(it.Quantity)))
}
