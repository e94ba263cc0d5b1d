package models

// CheckoutSubmission is the checkout form as the storefront submits it.
// Payment fields stay strings because the form posts them verbatim.
type CheckoutSubmission struct {
	Email          string          `json:"email" validate:"required,email"`
	Shipping       ShippingAddress `json:"shipping"`
	BillingAddress BillingDetails  `json:"billingAddress"`
	Payment        PaymentDetails  `json:"payment"`
	Newsletter     bool            `json:"newsletter,omitempty"`
	Terms          bool            `json:"terms" validate:"accepted"`
	Items          []CheckoutItem  `json:"items" validate:"min=1,dive"`
}

// BillingDetails holds the billing form. Fields are only required when
// SameAsShipping is false.
type BillingDetails struct {
	SameAsShipping bool   `json:"sameAsShipping"`
	FirstName      string `json:"firstName,omitempty" validate:"omitempty,max=50"`
	LastName       string `json:"lastName,omitempty" validate:"omitempty,max=50"`
	Address        string `json:"address,omitempty" validate:"omitempty,max=200"`
	City           string `json:"city,omitempty" validate:"omitempty,max=100"`
	State          string `json:"state,omitempty" validate:"omitempty,max=50"`
	ZipCode        string `json:"zipCode,omitempty"`
	Country        string `json:"country,omitempty" validate:"omitempty,max=100"`
}

// Explicit returns the billing fields as entered
func (b BillingDetails) Explicit() BillingAddress {
	return BillingAddress{
		FirstName: b.FirstName,
		LastName:  b.LastName,
		Address:   b.Address,
		City:      b.City,
		State:     b.State,
		ZipCode:   b.ZipCode,
		Country:   b.Country,
	}
}

type PaymentDetails struct {
	CardNumber     string `json:"cardNumber" validate:"required,cardnumber"`
	ExpiryMonth    string `json:"expiryMonth" validate:"required,expirymonth"`
	ExpiryYear     string `json:"expiryYear" validate:"required,expiryyear"`
	CVV            string `json:"cvv" validate:"required,cvv"`
	CardholderName string `json:"cardholderName" validate:"required,min=2,max=100"`
}

// QuoteAddress is the optional destination used for tax quotes
type QuoteAddress struct {
	State   string `json:"state"`
	Country string `json:"country"`
}
