// Package validation wraps go-playground/validator v10 with a shared,
// lazily built validator instance.  Request structs declare their rules
// with `validate` tags.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError is a single failed rule.
type FieldError struct {
	Field string
	Tag   string
	Param string
}

func (e FieldError) Error() string {
	switch e.Tag {
	case "required":
		return e.Field + " is required"
	case "email":
		return e.Field + " must be a valid email"
	}
	if e.Param != "" {
		return fmt.Sprintf("%s failed %s=%s", e.Field, e.Tag, e.Param)
	}
	return fmt.Sprintf("%s failed %s", e.Field, e.Tag)
}

// Errors collects every failed rule of one struct.
type Errors []FieldError

func (ve Errors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(ve))
	for i, e := range ve {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// instance returns the shared validator.  Field names in errors come from
// the json tag so they match what the client sent.
func instance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	})
	return validate
}

// ValidateStruct checks s against its `validate` tags.  It returns nil or
// an Errors value.
func ValidateStruct(s any) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Tag: fe.Tag(), Param: fe.Param()})
	}
	return out
}

// Echo adapts the shared validator to echo.Validator.  The server installs
// it as e.Validator and handlers call c.Validate after binding.
type Echo struct{}

func (Echo) Validate(i any) error { return ValidateStruct(i) }
