package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	dErrors "personnummer/pkg/domain-errors"
)

// MaxInputLength bounds a single identifier before it reaches the validator.
const MaxInputLength = 32

// ReferenceDateLayout is the accepted format of reference_date.
const ReferenceDateLayout = "2006-01-02"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateRequest is the HTTP request body for POST /personnummer/validate.
// A missing personnummer is a request error; a blank one is validated like
// any other input and comes back as malformed_format, as in a batch.
type ValidateRequest struct {
	Personnummer  *string `json:"personnummer" validate:"omitempty,max=32"`
	ReferenceDate string `json:"reference_date,omitempty" validate:"omitempty,datetime=2006-01-02"`

	referenceDate time.Time
}

// Validate trims and checks the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *ValidateRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.Personnummer == nil {
		return dErrors.New(dErrors.CodeValidation, "personnummer is required")
	}
	trimmed := strings.TrimSpace(*r.Personnummer)
	r.Personnummer = &trimmed
	r.ReferenceDate = strings.TrimSpace(r.ReferenceDate)

	if err := validate.Struct(r); err != nil {
		return translate(err)
	}
	ref, err := parseReferenceDate(r.ReferenceDate)
	if err != nil {
		return err
	}
	r.referenceDate = ref
	return nil
}

// Input returns the trimmed identifier.
func (r *ValidateRequest) Input() string {
	if r.Personnummer == nil {
		return ""
	}
	return *r.Personnummer
}

// ParsedReferenceDate returns the reference date, or the zero time when the
// caller did not supply one.
func (r *ValidateRequest) ParsedReferenceDate() time.Time {
	return r.referenceDate
}

// BatchValidateRequest is the HTTP request body for
// POST /personnummer/validate/batch.
type BatchValidateRequest struct {
	Items         []string `json:"items" validate:"required,min=1,dive,max=32"`
	ReferenceDate string   `json:"reference_date,omitempty" validate:"omitempty,datetime=2006-01-02"`

	referenceDate time.Time
}

func (r *BatchValidateRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	for i := range r.Items {
		r.Items[i] = strings.TrimSpace(r.Items[i])
	}
	r.ReferenceDate = strings.TrimSpace(r.ReferenceDate)

	if err := validate.Struct(r); err != nil {
		return translate(err)
	}
	ref, err := parseReferenceDate(r.ReferenceDate)
	if err != nil {
		return err
	}
	r.referenceDate = ref
	return nil
}

func (r *BatchValidateRequest) ParsedReferenceDate() time.Time {
	return r.referenceDate
}

func parseReferenceDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(ReferenceDateLayout, s)
	if err != nil {
		return time.Time{}, dErrors.New(dErrors.CodeValidation, "reference_date must be YYYY-MM-DD")
	}
	return t, nil
}

// translate turns the first validator failure into a validation error with
// a message naming the JSON field.
func translate(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return dErrors.Wrap(err, dErrors.CodeValidation, "invalid request")
	}
	fe := verrs[0]
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}

	var msg string
	switch fe.Tag() {
	case "required":
		msg = fmt.Sprintf("%s is required", field)
	case "min":
		msg = fmt.Sprintf("%s must contain at least %s entries", field, fe.Param())
	case "max":
		msg = fmt.Sprintf("%s must be at most %d characters", field, MaxInputLength)
	case "datetime":
		msg = fmt.Sprintf("%s must be YYYY-MM-DD", field)
	default:
		msg = fmt.Sprintf("%s is invalid", field)
	}
	return dErrors.New(dErrors.CodeValidation, msg)
}
