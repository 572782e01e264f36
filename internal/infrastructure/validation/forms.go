package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"sitesafety/internal/domain/safety"

	"github.com/go-playground/validator/v10"
)

var oneofParam = regexp.MustCompile(`'[^']*'|\S+`)

// Forms validates tagged form structs and reports failures as
// *safety.ValidationError keyed by form field name
type Forms struct {
	v *validator.Validate
}

// NewForms creates a form validator
func NewForms() *Forms {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return &Forms{v: v}
}

// Validate checks form and returns nil or a *safety.ValidationError
func (f *Forms) Validate(form any) error {
	err := f.v.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate form: %w", err)
	}
	out := &safety.ValidationError{Fields: make([]safety.FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, safety.FieldError{
			Field:   fe.Field(),
			Message: message(fe, label(form, fe)),
		})
	}
	return out
}

func label(form any, fe validator.FieldError) string {
	t := reflect.TypeOf(form)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if sf, ok := t.FieldByName(fe.StructField()); ok {
		if l := sf.Tag.Get("label"); l != "" {
			return l
		}
	}
	return fe.Field()
}

func message(fe validator.FieldError, label string) string {
	switch fe.Tag() {
	case "required":
		return label + " is required."
	case "email":
		return "Please enter a valid email address."
	case "min":
		return fmt.Sprintf("%s must be at least %s characters.", label, fe.Param())
	case "eqfield":
		return label + " do not match."
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s.", label, strings.Join(oneofValues(fe.Param()), ", "))
	case "datetime":
		return label + " must be a valid date."
	default:
		return label + " is invalid."
	}
}

func oneofValues(param string) []string {
	values := oneofParam.FindAllString(param, -1)
	for i, v := range values {
		values[i] = strings.Trim(v, "'")
	}
	return values
}
