package dto

type UpdatePORequest struct {
	PlaceOfDelivery *string `json:"place_of_delivery"`
	DateOfDelivery  *string `json:"date_of_delivery" validate:"omitempty,datetime=2006-01-02"`
	ReceivingOffice *string `json:"receiving_office"`
}

type POResponse struct {
	ID              string  `json:"id"`
	PONumber        *string `json:"po_number"`
	AOQID           string  `json:"aoq_id"`
	SupplierID      string  `json:"supplier_id"`
	Supplier        string  `json:"supplier"`
	PlaceOfDelivery string  `json:"place_of_delivery"`
	DateOfDelivery  *string `json:"date_of_delivery"`
	SubmissionDate  *string `json:"submission_date"`
	ReceivingOffice string  `json:"receiving_office"`
	CreatedAt       string  `json:"created_at"`
}
