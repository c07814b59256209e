package dto

type SupplierRequest struct {
	Name          string `json:"name" validate:"required"`
	Address       string `json:"address"`
	ContactPerson string `json:"contact_person"`
	ContactNo     string `json:"contact_no"`
	ContactEmail  string `json:"contact_email" validate:"omitempty,email"`
	TIN           string `json:"tin"`
	Accredited    bool   `json:"accredited"`
}

type SupplierResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Address       string `json:"address"`
	ContactPerson string `json:"contact_person"`
	ContactNo     string `json:"contact_no"`
	ContactEmail  string `json:"contact_email"`
	TIN           string `json:"tin"`
	Accredited    bool   `json:"accredited"`
	CreatedAt     string `json:"created_at"`
}
