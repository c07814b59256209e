package dto

type CreateRFQRequest struct {
	RFQNumber  *string `json:"rfq_number"`
	Date       *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Resolution string  `json:"resolution"`
}

type ConsolidateRequest struct {
	PRIDs   []string `json:"pr_ids" validate:"required,min=1,dive,uuid"`
	Remarks string   `json:"remarks"`
}

type RFQResponse struct {
	ID              string   `json:"id"`
	RFQNumber       *string  `json:"rfq_number"`
	Date            string   `json:"date"`
	Resolution      string   `json:"resolution"`
	Consolidated    bool     `json:"consolidated"`
	PurchaseRequest *string  `json:"purchase_request,omitempty"`
	PRNumbers       []string `json:"pr_numbers"`
	BidCount        int      `json:"bid_count"`
	HasAOQ          bool     `json:"has_aoq"`
	CreatedAt       string   `json:"created_at"`
}
