// Package validate enforces the form-boundary rules for every entity
// with one reusable engine instead of ad hoc per-field checks. Tag
// rules (required, email, min) run through go-playground/validator;
// cross-field rules that need resolved context (cabin capacity, date
// ordering, availability) run as explicit checks on top.
//
// Validation errors are client-local: they are returned as a
// field->message map for inline display and are never sent to the
// remote store. The message strings are part of the observable
// contract.
package validate

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Errors maps a form field (json name) to its human-readable message.
// An empty map means the form passed.
type Errors map[string]string

// Ok reports whether validation passed.
func (e Errors) Ok() bool { return len(e) == 0 }

// Messages that the forms surface verbatim.
const (
	MsgRequired         = "This field is required"
	MsgEmail            = "Please provide a valid email address"
	MsgMinGuests        = "Cannot register a booking without any guests"
	MsgOverCapacity     = "Number of guests is greater than cabin capacity"
	MsgStartRequired    = "Please select a starting date"
	MsgStartNeedsCabin  = "Please first select a cabin to ensure your chosen date is available"
	MsgEndRequired      = "Please select an end date"
	MsgEndNeedsCabin    = "Please select a cabin first to ensure your chosen date is available"
	MsgEndNeedsStart    = "Please first choose a start date"
	MsgEndBeforeStart   = "Your end date can't be earlier than your start date"
	MsgDateUnavailable  = "This date is not available for the selected cabin"
	MsgDiscountTooLarge = "Discount should be less than regular price"
)

// Engine wraps a shared validator instance configured to report fields
// by their json names.
type Engine struct {
	v *validator.Validate
}

// NewEngine builds the shared validation engine.
func NewEngine() *Engine {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Engine{v: v}
}

// tagErrors runs the struct tag rules and translates each violation
// into its contract message.
func (e *Engine) tagErrors(form any) Errors {
	errs := Errors{}
	err := e.v.Struct(form)
	if err == nil {
		return errs
	}
	vErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		errs["form"] = err.Error()
		return errs
	}
	for _, fe := range vErrs {
		field := fe.Field()
		if _, seen := errs[field]; seen {
			continue // keep the first message per field
		}
		errs[field] = messageFor(field, fe.Tag())
	}
	return errs
}

func messageFor(field, tag string) string {
	switch {
	case field == "startDate" && tag == "required":
		return MsgStartRequired
	case field == "endDate" && tag == "required":
		return MsgEndRequired
	case field == "numGuests" && (tag == "min" || tag == "gte"):
		return MsgMinGuests
	case tag == "email":
		return MsgEmail
	case tag == "required":
		return MsgRequired
	default:
		return "Invalid value"
	}
}

// dateIn reports whether day (compared at UTC midnight) is in the set.
func dateIn(day time.Time, set []time.Time) bool {
	day = day.UTC().Truncate(24 * time.Hour)
	for _, d := range set {
		if d.Equal(day) {
			return true
		}
	}
	return false
}
