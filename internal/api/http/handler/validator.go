package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dtroode/vidtube-server/internal/model"
)

// Validator checks decoded request bodies against their struct tags.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a Validator that reports fields by their JSON names.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: v}
}

// ValidateStruct validates s and converts failures into a field ValidationError.
func (v *Validator) ValidateStruct(s any) error {
	if err := v.validate.Struct(s); err != nil {
		return model.NewErrFieldValidation(FormatValidationError(err))
	}
	return nil
}

// FormatValidationError turns validator output into a field -> message map.
func FormatValidationError(err error) map[string]string {
	if err == nil {
		return nil
	}

	errs := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		errs["error"] = "Invalid request format"
		return errs
	}

	for _, e := range validationErrors {
		field := e.Field()
		switch e.Tag() {
		case "required", "required_without":
			errs[field] = "This field is required"
		case "email":
			errs[field] = "Invalid email format"
		case "max":
			errs[field] = fmt.Sprintf("Must be at most %s characters", e.Param())
		case "min":
			errs[field] = fmt.Sprintf("Must be at least %s characters", e.Param())
		default:
			errs[field] = "Invalid value"
		}
	}

	return errs
}

// decodeJSON reads a single JSON object from the body into dst and validates it.
// trimmer is implemented by request bodies whose text fields are trimmed
// before validation.
type trimmer interface {
	trim()
}

func decodeJSON(r *http.Request, v *Validator, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var maxBytes *http.MaxBytesError
		switch {
		case errors.As(err, &maxBytes):
			return err
		case errors.Is(err, io.EOF):
			return model.NewErrValidation("Request body is empty")
		default:
			return model.NewErrValidation("Invalid request body")
		}
	}
	if t, ok := dst.(trimmer); ok {
		t.trim()
	}
	return v.ValidateStruct(dst)
}
