// Package schema declares the wire/persisted entity types of the curio
// backend contract and validates untyped JSON against them.
//
// Every decoded backend response and every locally constructed default goes
// through the same parse functions, so contract drift between client and
// server fails fast instead of silently corrupting the state tree.
package schema

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report violations under JSON field names, not Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("json")
		if name == "" {
			return fld.Name
		}
		if i := strings.IndexByte(name, ','); i >= 0 {
			return name[:i]
		}
		return name
	})

	return v
}

// FieldViolation describes one violated constraint.
type FieldViolation struct {
	// Path is the JSON path of the field ("tag_name", "items[2].item_state").
	Path string
	// Constraint is the violated rule ("required", "max=255", "oneof=...").
	Constraint string
	// Value is the offending value.
	Value any
}

func (f FieldViolation) String() string {
	return fmt.Sprintf("%s: %s (got %v)", f.Path, f.Constraint, f.Value)
}

// ValidationError aggregates every violation found in one entity (or one
// entity list). Callers that only want a headline can use the first entry.
type ValidationError struct {
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.String())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// First returns the first violation ("" when none).
func (e *ValidationError) First() string {
	if len(e.Violations) == 0 {
		return ""
	}
	return e.Violations[0].String()
}

func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	return asValidationError(err, "")
}

func asValidationError(err error, pathPrefix string) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		// Non-field error (e.g. passing a non-struct). Programming error.
		return err
	}
	out := &ValidationError{}
	for _, fe := range verrs {
		constraint := fe.Tag()
		if p := fe.Param(); p != "" {
			constraint += "=" + p
		}
		out.Violations = append(out.Violations, FieldViolation{
			Path:       pathPrefix + trimNamespace(fe.Namespace()),
			Constraint: constraint,
			Value:      fe.Value(),
		})
	}
	return out
}

// trimNamespace drops the leading struct type name from a validator
// namespace ("Tag.tag_name" -> "tag_name").
func trimNamespace(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

// mergeValidationErrors combines per-element errors of a list into one,
// prefixing each violation path with the element index.
func mergeValidationErrors(errs map[int]error) error {
	if len(errs) == 0 {
		return nil
	}
	out := &ValidationError{}
	// Deterministic order for diagnostics.
	max := -1
	for i := range errs {
		if i > max {
			max = i
		}
	}
	for i := 0; i <= max; i++ {
		err, ok := errs[i]
		if !ok {
			continue
		}
		var ve *ValidationError
		if !errors.As(err, &ve) {
			return err
		}
		for _, v := range ve.Violations {
			v.Path = fmt.Sprintf("[%d].%s", i, v.Path)
			out.Violations = append(out.Violations, v)
		}
	}
	return out
}
