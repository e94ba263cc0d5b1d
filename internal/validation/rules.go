package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var zipPattern = regexp.MustCompile(`^\d{5}(-\d{4})?$`)

// MaxExpiryYears is how far ahead a card expiry year may be
const MaxExpiryYears = 20

func validZip(s string) bool {
	return zipPattern.MatchString(s)
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

func digitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

func parseMonth(s string) (int, bool) {
	m, err := strconv.Atoi(s)
	if err != nil || m < 1 || m > 12 {
		return 0, false
	}
	return m, true
}

func registerRules(v *validator.Validate, now func() time.Time) error {
	rules := map[string]validator.Func{
		"zipcode": func(fl validator.FieldLevel) bool {
			return validZip(fl.Field().String())
		},
		"phone": func(fl validator.FieldLevel) bool {
			n := countDigits(fl.Field().String())
			return n >= 10 && n <= 15
		},
		"cardnumber": func(fl validator.FieldLevel) bool {
			return countDigits(fl.Field().String()) == 16
		},
		"cvv": func(fl validator.FieldLevel) bool {
			n := countDigits(fl.Field().String())
			return n >= 3 && n <= 4
		},
		"expirymonth": func(fl validator.FieldLevel) bool {
			_, ok := parseMonth(fl.Field().String())
			return ok
		},
		"expiryyear": func(fl validator.FieldLevel) bool {
			year, err := strconv.Atoi(fl.Field().String())
			if err != nil {
				return false
			}
			current := now().Year()
			return year >= current && year <= current+MaxExpiryYears
		},
		"accepted": func(fl validator.FieldLevel) bool {
			return fl.Field().Bool()
		},
	}

	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s: %w", tag, err)
		}
	}
	return nil
}

var labels = map[string]string{
	"email":                    "Email",
	"shipping.firstName":       "First name",
	"shipping.lastName":        "Last name",
	"shipping.address":         "Address",
	"shipping.city":            "City",
	"shipping.state":           "State",
	"shipping.zipCode":         "ZIP code",
	"shipping.country":         "Country",
	"shipping.phone":           "Phone number",
	"billingAddress.firstName": "First name",
	"billingAddress.lastName":  "Last name",
	"billingAddress.address":   "Address",
	"billingAddress.city":      "City",
	"billingAddress.state":     "State",
	"billingAddress.zipCode":   "ZIP code",
	"billingAddress.country":   "Country",
	"payment.cardNumber":       "Card number",
	"payment.expiryMonth":      "Expiry month",
	"payment.expiryYear":       "Expiry year",
	"payment.cvv":              "CVV",
	"payment.cardholderName":   "Cardholder name",
	"items.productId":          "Product",
	"items.quantity":           "Quantity",
	"items.price":              "Price",
}

var tagMessages = map[string]string{
	"email":       "Invalid email address",
	"zipcode":     "Invalid ZIP code format (e.g., 12345 or 12345-6789)",
	"phone":       "Invalid phone number (10-15 digits)",
	"cardnumber":  "Card number must be 16 digits",
	"expirymonth": "Invalid month (01-12)",
	"expiryyear":  "Invalid year or card expired",
	"cvv":         "CVV must be 3 or 4 digits",
	"accepted":    "You must accept the terms and conditions",
}

// message renders the text for a failed tag. key is the dotted path without slice indices.
func message(key, tag, param string) string {
	if key == "items" {
		return "Your cart is empty"
	}
	if msg, ok := tagMessages[tag]; ok {
		return msg
	}

	label, ok := labels[key]
	if !ok {
		label = upperFirst(key[strings.LastIndex(key, ".")+1:])
	}

	switch tag {
	case "required":
		return label + " is required"
	case "min":
		if strings.HasPrefix(key, "items.") {
			return fmt.Sprintf("%s must be at least %s", label, param)
		}
		return fmt.Sprintf("%s must be at least %s characters", label, param)
	case "max":
		return fmt.Sprintf("%s must be less than %s characters", label, param)
	case "gt":
		return label + " must be positive"
	default:
		return label + " is invalid"
	}
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
