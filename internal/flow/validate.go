package flow

import (
	"errors"
	"regexp"
	"strings"

	"github.com/tablepulse/tablepulse/internal/i18n"
)

const errorMessageInvalidRestaurantID = "flow: restaurant id must be a positive integer"

// ErrInvalidRestaurantID blocks submission when the draft carries no usable
// tenant, regardless of how the rest of validation went.
var ErrInvalidRestaurantID = errors.New(errorMessageInvalidRestaurantID)

// emailPattern accepts local@domain.tld; "a@b" fails, "a@b.com" passes.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ComplaintDraft is the complaint form state before submission. Rating fields
// are pointers so "never selected" is distinguishable from a selected value.
type ComplaintDraft struct {
	Name             string
	Phone            string
	CountryCode      string
	Email            string
	Review           string
	ConsentChecked   bool
	FoodRating       *int
	ServiceRating    *int
	AtmosphereRating *int
	RestaurantID     uint
}

// FieldError names a blocked field with its localized label.
type FieldError struct {
	Field string
	Label string
}

// Validate runs the client-side checks and returns every missing or invalid
// field, localized to the given language. An empty slice with a nil error
// means the draft may be submitted. Issues no network calls.
func (draft ComplaintDraft) Validate(language i18n.Language) ([]FieldError, error) {
	if draft.RestaurantID == 0 {
		return nil, ErrInvalidRestaurantID
	}

	var fieldErrors []FieldError
	appendFieldError := func(field string, labelKey string) {
		fieldErrors = append(fieldErrors, FieldError{Field: field, Label: i18n.Lookup(language, labelKey)})
	}

	if strings.TrimSpace(draft.Name) == "" {
		appendFieldError("name", "complaint.name")
	}
	if strings.TrimSpace(draft.Phone) == "" {
		appendFieldError("phone", "complaint.phone")
	}
	trimmedEmail := strings.TrimSpace(draft.Email)
	if trimmedEmail == "" {
		appendFieldError("email", "complaint.email")
	} else if !EmailValid(trimmedEmail) {
		appendFieldError("email", "complaint.email_invalid")
	}
	if strings.TrimSpace(draft.Review) == "" {
		appendFieldError("review", "complaint.review")
	}
	if !draft.ConsentChecked {
		appendFieldError("consent", "complaint.consent")
	}
	if !ratingSelected(draft.FoodRating) {
		appendFieldError("food_rating", "complaint.food")
	}
	if !ratingSelected(draft.ServiceRating) {
		appendFieldError("service_rating", "complaint.service")
	}
	if !ratingSelected(draft.AtmosphereRating) {
		appendFieldError("atmosphere_rating", "complaint.atmosphere")
	}

	return fieldErrors, nil
}

// FullPhone joins the country-code selector value with the entered number.
func (draft ComplaintDraft) FullPhone() string {
	return strings.TrimSpace(draft.CountryCode) + strings.TrimSpace(draft.Phone)
}

// EmailValid reports whether the address matches the local@domain.tld shape.
func EmailValid(email string) bool {
	return emailPattern.MatchString(email)
}

func ratingSelected(rating *int) bool {
	return rating != nil && StarValueValid(*rating)
}
