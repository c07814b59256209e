package dto

import "github.com/shopspring/decimal"

// ─── Filter / list ───────────────────────────────────────────────────────────

type PRFilter struct {
	Status string `form:"status"`
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type PRListResponse struct {
	Data  []PRResponse `json:"data"`
	Total int64        `json:"total"`
	Page  int          `json:"page"`
	Limit int          `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type PRItemRequest struct {
	StockNo        string          `json:"stock_no"`
	Description    string          `json:"description" validate:"required"`
	Quantity       int             `json:"quantity"    validate:"required,min=1"`
	Unit           string          `json:"unit"        validate:"required"`
	UnitCost       decimal.Decimal `json:"unit_cost"   validate:"min=0"`
	BudgetCategory string          `json:"budget_category" validate:"omitempty,oneof=PS MOOE CO OTHER"`
}

type SavePRRequest struct {
	Requisitioner     *string         `json:"requisitioner"`
	Designation       *string         `json:"designation"`
	OfficeSection     *string         `json:"office_section"`
	Purpose           *string         `json:"purpose"`
	Funding           *string         `json:"funding" validate:"omitempty,oneof=IGF RAF TRF BRF"`
	ModeOfProcurement *string         `json:"mode_of_procurement"`
	NegotiatedType    *string         `json:"negotiated_type"`
	PRDate            *string         `json:"pr_date" validate:"omitempty,datetime=2006-01-02"`
	Notes             string          `json:"notes"`
	Items             []PRItemRequest `json:"items" validate:"omitempty,dive"`
}

type AssignPRNumberRequest struct {
	PRNumber string `json:"pr_number" validate:"required"`
	PRDate   string `json:"pr_date"   validate:"omitempty,datetime=2006-01-02"`
}

// UpdateStatusRequest is the structured status-change command: an explicit
// target status plus an enumerated reason code. The free-text note is stored
// as an audit annotation only and never influences the resulting status.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Reason string `json:"reason" validate:"required"`
	Note   string `json:"note"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PRItemResponse struct {
	ID             string          `json:"id"`
	StockNo        string          `json:"stock_no"`
	Description    string          `json:"description"`
	Quantity       int             `json:"quantity"`
	Unit           string          `json:"unit"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	BudgetCategory string          `json:"budget_category"`
	TotalCost      decimal.Decimal `json:"total_cost"`
}

type PRResponse struct {
	ID                string                     `json:"id"`
	PRNumber          *string                    `json:"pr_number"`
	PRDate            *string                    `json:"pr_date"`
	Status            string                     `json:"status"`
	StatusLabel       string                     `json:"status_label"`
	ModeOfProcurement *string                    `json:"mode_of_procurement"`
	NegotiatedType    *string                    `json:"negotiated_type"`
	Requisitioner     *string                    `json:"requisitioner"`
	Designation       *string                    `json:"designation"`
	OfficeSection     *string                    `json:"office_section"`
	Purpose           *string                    `json:"purpose"`
	Funding           *string                    `json:"funding"`
	Notes             string                     `json:"notes"`
	Items             []PRItemResponse           `json:"items"`
	TotalAmount       decimal.Decimal            `json:"total_amount"`
	Breakdown         map[string]decimal.Decimal `json:"breakdown_by_budget"`
	AllowedStatuses   []string                   `json:"allowed_statuses"`
	ConsolidatedIn    *string                    `json:"consolidated_in"`
	LastUpdate        string                     `json:"last_update"`
	CreatedAt         string                     `json:"created_at"`
}
