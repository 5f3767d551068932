// Package validation checks and normalizes request input with
// go-playground/validator and reports failures as per-field messages.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Errors maps a field name (its json name) to its messages.
type Errors map[string][]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+strings.Join(e[f], "; "))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func (e Errors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

// First returns the first message in field order, for single-line display.
func (e Errors) First() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		if len(e[f]) > 0 {
			return e[f][0]
		}
	}
	return ""
}

// Field builds a single-field Errors value.
func Field(field, msg string) Errors {
	return Errors{field: {msg}}
}

// Normalizer is implemented by inputs that trim or rewrite fields before
// validation.
type Normalizer interface {
	Normalize()
}

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
		mustRegister(v, "strongpw", func(fl validator.FieldLevel) bool {
			return len(StrongPasswordProblems(fl.Field().String())) == 0
		})
		mustRegister(v, "resetpw", func(fl validator.FieldLevel) bool {
			return len(ResetPasswordProblems(fl.Field().String())) == 0
		})
		validate = v
	})
	return validate
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %s: %v", tag, err))
	}
}

// Struct normalizes s (when it implements Normalizer) and validates it. The
// returned error is nil or an Errors value.
func Struct(s any) error {
	if n, ok := s.(Normalizer); ok {
		n.Normalize()
	}

	err := instance().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validation: %w", err)
	}

	t := reflect.TypeOf(s)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	out := Errors{}
	for _, fe := range fieldErrs {
		name := baseName(fe.Field())
		sf, _ := t.FieldByName(baseName(fe.StructField()))
		for _, msg := range messages(fe, sf) {
			out.Add(name, msg)
		}
	}
	return out
}

// baseName strips a dive index: "ids[2]" becomes "ids".
func baseName(field string) string {
	if i := strings.IndexByte(field, '['); i >= 0 {
		return field[:i]
	}
	return field
}

func messages(fe validator.FieldError, sf reflect.StructField) []string {
	if custom := sf.Tag.Get("msg_" + fe.Tag()); custom != "" {
		return []string{custom}
	}

	label := sf.Tag.Get("label")
	if label == "" {
		label = humanize(baseName(fe.StructField()))
	}

	switch fe.Tag() {
	case "required":
		return []string{label + " is required"}
	case "email":
		return []string{"Invalid email address"}
	case "max":
		return []string{fmt.Sprintf("%s cannot exceed %s characters", label, fe.Param())}
	case "min":
		if fe.Kind() == reflect.Slice {
			return []string{fmt.Sprintf("%s must contain at least %s item(s)", label, fe.Param())}
		}
		return []string{fmt.Sprintf("%s must be at least %s characters", label, fe.Param())}
	case "len":
		return []string{fmt.Sprintf("%s must be exactly %s characters", label, fe.Param())}
	case "oneof":
		return []string{fmt.Sprintf("%s must be one of: %s", label, strings.ReplaceAll(fe.Param(), " ", ", "))}
	case "url", "http_url":
		return []string{label + " must be a valid URL"}
	case "gt":
		return []string{label + " must be a positive number"}
	case "alpha":
		return []string{label + " must contain only letters"}
	case "eqfield":
		return []string{label + " does not match"}
	case "strongpw":
		return StrongPasswordProblems(fe.Value().(string))
	case "resetpw":
		return ResetPasswordProblems(fe.Value().(string))
	}
	return []string{label + " is invalid"}
}

// humanize turns "FirstName" into "First name".
func humanize(name string) string {
	var b strings.Builder
	for i, r := range name {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte(' ')
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
