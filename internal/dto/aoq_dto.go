package dto

import "github.com/shopspring/decimal"

type AwardRequest struct {
	SupplierID string `json:"supplier_id" validate:"required,uuid"`
}

type AOQLineUpdateRequest struct {
	Responsive *bool            `json:"responsive"`
	UnitPrice  *decimal.Decimal `json:"unit_price"`
}

type AOQLineResponse struct {
	ID          string          `json:"id"`
	PRItemID    string          `json:"pr_item_id"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	SupplierID  string          `json:"supplier_id"`
	Supplier    string          `json:"supplier"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Responsive  bool            `json:"responsive"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

type AOQResponse struct {
	ID        string            `json:"id"`
	AOQNumber *string           `json:"aoq_number"`
	RFQID     string            `json:"rfq_id"`
	Verified  bool              `json:"verified"`
	AwardedTo *string           `json:"awarded_to"`
	AwardedAt *string           `json:"awarded_at"`
	Lines     []AOQLineResponse `json:"lines"`
	CreatedAt string            `json:"created_at"`
}

// SupplierSummaryResponse is one row of the per-supplier aggregation, sorted
// ascending by total (lowest bid first).
type SupplierSummaryResponse struct {
	SupplierID      string            `json:"supplier_id"`
	Supplier        string            `json:"supplier"`
	Total           decimal.Decimal   `json:"total"`
	ResponsiveCount int               `json:"responsive_count"`
	Complete        bool              `json:"complete"`
	Lines           []AOQLineResponse `json:"lines"`
}

// LCRBResponse is the per-item lowest calculated responsive bid.
type LCRBResponse struct {
	PRItemID    string          `json:"pr_item_id"`
	Description string          `json:"description"`
	SupplierID  string          `json:"supplier_id"`
	Supplier    string          `json:"supplier"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

type TabulationResponse struct {
	AOQID          string                    `json:"aoq_id"`
	Suppliers      []SupplierSummaryResponse `json:"suppliers"`
	LCRB           []LCRBResponse            `json:"lcrb"`
	Winner         *SupplierSummaryResponse  `json:"winner"`
	PRTotal        decimal.Decimal           `json:"pr_total"`
	Savings        *decimal.Decimal          `json:"savings"`
	PercentSavings *decimal.Decimal          `json:"percent_savings"`
}
