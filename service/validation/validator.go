package validation

import (
	"encoding/json"
	"math"
	"reflect"

	"github.com/shopspring/decimal"
)

type Validator interface {
	Validate(data map[string]any, schema Schema) error
}

type Option func(*schemaValidator)

// WithCollectAll makes the validator report every violation instead of stopping at the first.
func WithCollectAll() Option {
	return func(v *schemaValidator) {
		v.collectAll = true
	}
}

type schemaValidator struct {
	collectAll bool
}

func New(opts ...Option) Validator {
	v := &schemaValidator{}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

func (v *schemaValidator) Validate(data map[string]any, schema Schema) error {
	var violations Errors
	for _, field := range schema {
		if err := checkField(data, field); err != nil {
			if !v.collectAll {
				return err
			}
			violations = append(violations, err)
		}
	}
	if len(violations) > 0 {
		return violations
	}
	return nil
}

// checkField applies presence first, then type rules.
func checkField(data map[string]any, field Field) *ValidationError {
	value, present := data[field.Name]
	present = present && value != nil

	for _, rule := range field.Rules {
		if rule == Required && !present {
			return &ValidationError{Field: field.Name, Rule: Required}
		}
	}
	if !present {
		return nil
	}

	for _, rule := range field.Rules {
		switch rule {
		case StringType:
			if _, ok := value.(string); !ok {
				return &ValidationError{Field: field.Name, Rule: StringType}
			}
		case NumericType:
			if !IsNumeric(value) {
				return &ValidationError{Field: field.Name, Rule: NumericType}
			}
		}
	}
	return nil
}

// IsNumeric accepts Go number kinds, json.Number and strings holding a decimal number.
// NaN and infinities are not numbers here since they cannot be sent as JSON.
func IsNumeric(value any) bool {
	switch v := value.(type) {
	case string:
		_, err := decimal.NewFromString(v)
		return err == nil
	case json.Number:
		_, err := decimal.NewFromString(v.String())
		return err == nil
	case nil:
		return false
	}

	switch reflect.TypeOf(value).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	case reflect.Float32, reflect.Float64:
		f := reflect.ValueOf(value).Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	default:
		return false
	}
}
