package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"storefront-service/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// CheckoutValidator checks a checkout submission and returns it normalized
type CheckoutValidator struct {
	validate *validator.Validate
	now      func() time.Time
}

// NewCheckoutValidator builds a validator. now is used for card expiry checks; nil means time.Now.
func NewCheckoutValidator(now func() time.Time) (*CheckoutValidator, error) {
	if now == nil {
		now = time.Now
	}

	v := validator.New()
	v.RegisterTagNameFunc(jsonName)
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	if err := registerRules(v, now); err != nil {
		return nil, fmt.Errorf("failed to build checkout validator: %w", err)
	}

	return &CheckoutValidator{validate: v, now: now}, nil
}

// Validate reports every field and cross-field violation. On success it returns
// the submission with strings trimmed and card number and CVV reduced to digits.
func (cv *CheckoutValidator) Validate(sub models.CheckoutSubmission) (models.CheckoutSubmission, error) {
	sub = trim(sub)

	violations, err := cv.fieldViolations(sub)
	if err != nil {
		return models.CheckoutSubmission{}, fmt.Errorf("failed to validate submission: %w", err)
	}
	violations = append(violations, billingViolations(sub.BillingAddress)...)
	violations = append(violations, cv.expiryViolations(sub.Payment)...)

	if len(violations) > 0 {
		return models.CheckoutSubmission{}, &ValidationError{Violations: violations}
	}

	sub.Payment.CardNumber = digitsOnly(sub.Payment.CardNumber)
	sub.Payment.CVV = digitsOnly(sub.Payment.CVV)
	return sub, nil
}

type itemList struct {
	Items []models.CheckoutItem `json:"items" validate:"dive"`
}

// ValidateItems checks cart lines on their own. An empty cart is allowed.
func (cv *CheckoutValidator) ValidateItems(items []models.CheckoutItem) error {
	violations, err := cv.fieldViolations(itemList{Items: items})
	if err != nil {
		return fmt.Errorf("failed to validate items: %w", err)
	}
	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}

func (cv *CheckoutValidator) fieldViolations(s interface{}) ([]Violation, error) {
	err := cv.validate.Struct(s)
	if err == nil {
		return nil, nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil, err
	}

	violations := make([]Violation, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		path := splitNamespace(fe.Namespace())
		violations = append(violations, Violation{
			Path:    path,
			Message: message(messageKey(path), fe.Tag(), fe.Param()),
		})
	}
	return violations, nil
}

var billingRequired = []struct {
	field string
	label string
	value func(models.BillingDetails) string
}{
	{"firstName", "First name", func(b models.BillingDetails) string { return b.FirstName }},
	{"lastName", "Last name", func(b models.BillingDetails) string { return b.LastName }},
	{"address", "Address", func(b models.BillingDetails) string { return b.Address }},
	{"city", "City", func(b models.BillingDetails) string { return b.City }},
	{"state", "State", func(b models.BillingDetails) string { return b.State }},
	{"zipCode", "ZIP code", func(b models.BillingDetails) string { return b.ZipCode }},
	{"country", "Country", func(b models.BillingDetails) string { return b.Country }},
}

func billingViolations(b models.BillingDetails) []Violation {
	if b.SameAsShipping {
		return nil
	}

	var out []Violation
	for _, f := range billingRequired {
		if f.value(b) == "" {
			out = append(out, Violation{
				Path:    []string{"billingAddress", f.field},
				Message: f.label + " is required for billing address",
			})
		}
	}
	if b.ZipCode != "" && !validZip(b.ZipCode) {
		out = append(out, Violation{
			Path:    []string{"billingAddress", "zipCode"},
			Message: "Invalid billing ZIP code format",
		})
	}
	return out
}

func (cv *CheckoutValidator) expiryViolations(p models.PaymentDetails) []Violation {
	month, ok := parseMonth(p.ExpiryMonth)
	if !ok {
		return nil
	}
	year, err := strconv.Atoi(p.ExpiryYear)
	if err != nil {
		return nil
	}

	now := cv.now()
	expiry := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, now.Location())
	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	if expiry.Before(current) {
		return []Violation{{
			Path:    []string{"payment", "expiryMonth"},
			Message: "Card has expired",
		}}
	}
	return nil
}

func trim(sub models.CheckoutSubmission) models.CheckoutSubmission {
	sub.Email = strings.TrimSpace(sub.Email)

	s := &sub.Shipping
	for _, f := range []*string{&s.FirstName, &s.LastName, &s.Address, &s.City, &s.State, &s.ZipCode, &s.Country, &s.Phone} {
		*f = strings.TrimSpace(*f)
	}

	b := &sub.BillingAddress
	for _, f := range []*string{&b.FirstName, &b.LastName, &b.Address, &b.City, &b.State, &b.ZipCode, &b.Country} {
		*f = strings.TrimSpace(*f)
	}

	p := &sub.Payment
	for _, f := range []*string{&p.CardNumber, &p.ExpiryMonth, &p.ExpiryYear, &p.CVV, &p.CardholderName} {
		*f = strings.TrimSpace(*f)
	}

	// items is a caller-owned slice
	if sub.Items != nil {
		sub.Items = append([]models.CheckoutItem(nil), sub.Items...)
	}
	return sub
}

func jsonName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return field.Name
	}
	return name
}

func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f
	}
	return nil
}

// splitNamespace turns "CheckoutSubmission.items[0].price" into ["items","0","price"]
func splitNamespace(ns string) []string {
	parts := strings.Split(ns, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}

	path := make([]string, 0, len(parts))
	for _, part := range parts {
		if i := strings.IndexByte(part, '['); i >= 0 && strings.HasSuffix(part, "]") {
			path = append(path, part[:i], part[i+1:len(part)-1])
			continue
		}
		path = append(path, part)
	}
	return path
}

func messageKey(path []string) string {
	keep := make([]string, 0, len(path))
	for _, p := range path {
		if _, err := strconv.Atoi(p); err == nil {
			continue
		}
		keep = append(keep, p)
	}
	return strings.Join(keep, ".")
}
