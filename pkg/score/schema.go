package score

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Request types declare their constraints with struct tags:
//
//	type horowitzRequest struct {
//		PaO2 float64 `json:"pao2" validate:"gte=20,lte=700" unit:"mmHg"`
//		FiO2 float64 `json:"fio2" validate:"gte=0.21,lte=1"`
//	}
//
// A field is required unless its json tag carries omitempty; optional
// fields are pointers so that "absent" is distinguishable from zero.

// Checker is implemented by request types with cross-field rules.
type Checker interface {
	Check() error
}

// Parameter describes one request field for catalog consumers.
type Parameter struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Required    bool     `json:"required"`
	Min         *float64 `json:"min,omitempty"`
	Max         *float64 `json:"max,omitempty"`
	Options     []string `json:"options,omitempty"`
	Unit        string   `json:"unit,omitempty"`
	Description string   `json:"description,omitempty"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := jsonName(f)
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type field struct {
	name     string
	required bool
	sf       reflect.StructField
}

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" {
		return f.Name
	}
	return name
}

func fieldsOf(t reflect.Type) []field {
	out := make([]field, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := jsonName(sf)
		if name == "-" {
			continue
		}
		_, opts, _ := strings.Cut(sf.Tag.Get("json"), ",")
		out = append(out, field{
			name:     name,
			required: !strings.Contains(opts, "omitempty"),
			sf:       sf,
		})
	}
	return out
}

// Decode parses params into dst (a pointer to a request struct) and runs
// every declared constraint. Values are never coerced: a string where a
// number is declared, or a fraction where an integer is declared, is a
// ValidationError.
func Decode(params json.RawMessage, dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("score: Decode target must be a pointer to struct, got %T", dst)
	}

	var present map[string]json.RawMessage
	if err := json.Unmarshal(params, &present); err != nil || present == nil {
		return &ValidationError{
			Field:      "body",
			Constraint: "type",
			Message:    "request body must be a JSON object",
		}
	}

	fields := fieldsOf(rv.Elem().Type())

	// encoding/json matches keys case-insensitively, so a key that differs
	// from a declared name only in case would silently overwrite it.
	for _, key := range slices.Sorted(maps.Keys(present)) {
		for _, f := range fields {
			if key != f.name && strings.EqualFold(key, f.name) {
				return &ValidationError{
					Field:      key,
					Constraint: "unknown",
					Message:    fmt.Sprintf("unknown field; parameter names are case-sensitive (did you mean %q?)", f.name),
				}
			}
		}
	}

	for _, f := range fields {
		if !f.required {
			continue
		}
		raw, ok := present[f.name]
		if !ok || string(raw) == "null" {
			return &ValidationError{
				Field:      f.name,
				Constraint: "required",
				Message:    "field is required",
			}
		}
	}

	if err := json.Unmarshal(params, dst); err != nil {
		var te *json.UnmarshalTypeError
		if errors.As(err, &te) {
			return &ValidationError{
				Field:      te.Field,
				Constraint: "type",
				Message:    "must be " + typeName(te.Type),
			}
		}
		return &ValidationError{Field: "body", Constraint: "type", Message: err.Error()}
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return &ValidationError{
				Field:      fe.Field(),
				Constraint: fe.Tag(),
				Value:      fe.Value(),
				Message:    constraintMessage(fe.Tag(), fe.Param()),
			}
		}
		return err
	}

	if c, ok := dst.(Checker); ok {
		if err := c.Check(); err != nil {
			var ve *ValidationError
			if errors.As(err, &ve) {
				return ve
			}
			return &ValidationError{Constraint: "consistency", Message: err.Error()}
		}
	}
	return nil
}

func constraintMessage(tag, param string) string {
	switch tag {
	case "gte", "min":
		return "must be greater than or equal to " + param
	case "lte", "max":
		return "must be less than or equal to " + param
	case "gt":
		return "must be greater than " + param
	case "lt":
		return "must be less than " + param
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(param), ", ")
	}
	if param != "" {
		return fmt.Sprintf("failed %s=%s constraint", tag, param)
	}
	return fmt.Sprintf("failed %s constraint", tag)
}

func typeName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Bool:
		return "a boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "an integer"
	case reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.String:
		return "a string"
	}
	return "a " + t.Kind().String()
}

func kindName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.String:
		return "string"
	}
	return t.Kind().String()
}

// Describe derives the parameter list of a request struct type from its tags.
func Describe(t reflect.Type) []Parameter {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	fields := fieldsOf(t)
	out := make([]Parameter, 0, len(fields))
	for _, f := range fields {
		p := Parameter{
			Name:     f.name,
			Type:     kindName(f.sf.Type),
			Required: f.required,
			Unit:     f.sf.Tag.Get("unit"),
		}
		for _, rule := range strings.Split(f.sf.Tag.Get("validate"), ",") {
			key, param, _ := strings.Cut(rule, "=")
			switch key {
			case "gte", "min", "gt":
				if v, err := strconv.ParseFloat(param, 64); err == nil {
					p.Min = &v
				}
			case "lte", "max", "lt":
				if v, err := strconv.ParseFloat(param, 64); err == nil {
					p.Max = &v
				}
			case "oneof":
				p.Options = strings.Fields(param)
			}
		}
		out = append(out, p)
	}
	return out
}
