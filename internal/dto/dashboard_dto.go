package dto

// DashboardResponse is the cached landing-page summary.
type DashboardResponse struct {
	PRsByStatus    map[string]int64 `json:"prs_by_status"`
	PRsByStage     map[string]int64 `json:"prs_by_stage"`
	Suppliers      int64            `json:"suppliers"`
	RFQs           int64            `json:"rfqs"`
	Abstracts      int64            `json:"abstracts"`
	PurchaseOrders int64            `json:"purchase_orders"`
}
