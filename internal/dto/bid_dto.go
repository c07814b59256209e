package dto

import "github.com/shopspring/decimal"

type BidLineRequest struct {
	PRItemID  string          `json:"pr_item_id" validate:"required,uuid"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"min=0"`
	Compliant *bool           `json:"compliant"`
}

type SubmitBidRequest struct {
	SupplierID string           `json:"supplier_id" validate:"required,uuid"`
	Remarks    string           `json:"remarks"`
	Lines      []BidLineRequest `json:"lines" validate:"omitempty,dive"`
}

// SaveBidLinesRequest carries the per-item price entry form. Every required
// PR item of the RFQ must be represented or the save is rejected whole.
type SaveBidLinesRequest struct {
	Lines []BidLineRequest `json:"lines" validate:"required,min=1,dive"`
}

type BidLineResponse struct {
	ID          string          `json:"id"`
	PRItemID    string          `json:"pr_item_id"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Compliant   bool            `json:"compliant"`
	TotalCost   decimal.Decimal `json:"total_cost"`
}

type BidResponse struct {
	ID          string            `json:"id"`
	RFQID       string            `json:"rfq_id"`
	SupplierID  string            `json:"supplier_id"`
	Supplier    string            `json:"supplier"`
	Status      string            `json:"status"`
	Remarks     string            `json:"remarks"`
	Lines       []BidLineResponse `json:"lines"`
	TotalAmount decimal.Decimal   `json:"total_amount"`
	Complete    bool              `json:"complete"`
	Responsive  bool              `json:"responsive"`
	CreatedAt   string            `json:"created_at"`
}
