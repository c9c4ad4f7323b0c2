package domain

// Delivery methods accepted by the order endpoint.
const (
	DeliveryRussianPost = "Почта России"
	DeliveryCDEK        = "СДЭК"
)

// OrderRequest is the order creation payload: customer, address and
// delivery fields plus the selected cart lines. Address fields are
// per-method: post_* for Russian Post, cdek_* for CDEK pickup points.
type OrderRequest struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Patronymic     string `json:"patronymic,omitempty"`
	Phone          string `json:"phone"`
	DeliveryMethod string `json:"delivery_method"`

	PostPostcode  string `json:"post_postcode,omitempty"`
	PostDistrict  string `json:"post_district,omitempty"`
	PostCity      string `json:"post_city,omitempty"`
	PostStreet    string `json:"post_street,omitempty"`
	PostHouse     string `json:"post_house,omitempty"`
	PostApartment string `json:"post_apartment,omitempty"`

	CdekCity          string `json:"cdek_city,omitempty"`
	CdekOfficeAddress string `json:"cdek_office_address,omitempty"`

	Items []SelectionLine `json:"items"`
}

// OrderConfirmation is the success body of order creation.
type OrderConfirmation struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}
