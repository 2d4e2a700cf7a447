package checkout

import "strings"

// OrderForm carries the checkout fields as the customer typed them. Every
// field is trimmed before validation; postal code, reference and notes are
// optional.
type OrderForm struct {
	Name          string `json:"name" validate:"required"`
	Surname       string `json:"surname" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	Phone         string `json:"phone" validate:"required"`
	Region        string `json:"region" validate:"required"`
	District      string `json:"district" validate:"required"`
	Street        string `json:"street" validate:"required"`
	StreetNumber  string `json:"street_number" validate:"required"`
	PostalCode    string `json:"postal_code"`
	Reference     string `json:"reference"`
	PaymentMethod string `json:"payment_method" validate:"required"`
	Notes         string `json:"notes"`
}

// Trim strips surrounding whitespace from every field.
func (f *OrderForm) Trim() {
	f.Name = strings.TrimSpace(f.Name)
	f.Surname = strings.TrimSpace(f.Surname)
	f.Email = strings.TrimSpace(f.Email)
	f.Phone = strings.TrimSpace(f.Phone)
	f.Region = strings.TrimSpace(f.Region)
	f.District = strings.TrimSpace(f.District)
	f.Street = strings.TrimSpace(f.Street)
	f.StreetNumber = strings.TrimSpace(f.StreetNumber)
	f.PostalCode = strings.TrimSpace(f.PostalCode)
	f.Reference = strings.TrimSpace(f.Reference)
	f.PaymentMethod = strings.TrimSpace(f.PaymentMethod)
	f.Notes = strings.TrimSpace(f.Notes)
}

// FullName joins the first name and surname.
func (f OrderForm) FullName() string {
	return f.Name + " " + f.Surname
}

// FullAddress joins street, number, district and region, appending the
// postal code only when present.
func (f OrderForm) FullAddress() string {
	addr := f.Street + ", " + f.StreetNumber + ", " + f.District + ", " + f.Region
	if f.PostalCode != "" {
		addr += ", " + f.PostalCode
	}
	return addr
}
