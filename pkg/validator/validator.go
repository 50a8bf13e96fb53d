package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	FailedField string `json:"field"`
	Tag         string `json:"tag"`
	Value       string `json:"value,omitempty"`
}

// Message renders the failure for API clients, e.g. "sell_price must be 0 or more".
func (e *ErrorResponse) Message() string {
	switch e.Tag {
	case "required", "uuid_required":
		return e.FailedField + " is required"
	case "email":
		return e.FailedField + " must be a valid email address"
	case "gte":
		return fmt.Sprintf("%s must be %s or more", e.FailedField, e.Value)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", e.FailedField, e.Value)
	case "min":
		return fmt.Sprintf("%s must be at least %s", e.FailedField, e.Value)
	case "max":
		return fmt.Sprintf("%s must be at most %s", e.FailedField, e.Value)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", e.FailedField, e.Value)
	}
	return e.FailedField + " is invalid"
}

var validate = validator.New()

func init() {
	// Field names in errors follow the JSON payload, not the Go struct
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	validate.RegisterValidation("uuid_required", func(fl validator.FieldLevel) bool {
		if id, ok := fl.Field().Interface().(uuid.UUID); ok {
			return id != uuid.Nil
		}
		return false
	})

	// Money fields are decimals; gte/lte compare them as floats
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		switch v := field.Interface().(type) {
		case decimal.Decimal:
			f, _ := v.Float64()
			return f
		case *decimal.Decimal:
			if v == nil {
				return nil
			}
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{}, &decimal.Decimal{})
}

func ValidateStruct(data interface{}) []*ErrorResponse {
	var out []*ErrorResponse
	err := validate.Struct(data)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []*ErrorResponse{{FailedField: "body", Tag: "invalid"}}
	}
	for _, e := range verrs {
		out = append(out, &ErrorResponse{
			FailedField: trimRoot(e.Namespace()),
			Tag:         e.Tag(),
			Value:       e.Param(),
		})
	}
	return out
}

// trimRoot drops the struct name validator prefixes namespaces with.
func trimRoot(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
