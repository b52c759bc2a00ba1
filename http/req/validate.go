package req

import (
	"errors"
	"reflect"
	"strings"

	v10 "github.com/go-playground/validator/v10"
)

// An Enumerable is a value restricted to a fixed set, checked by the "enum" rule.
type Enumerable interface {
	Valid() error
}

type structValidator struct {
	valid *v10.Validate
}

// newValidator constructs a structValidator naming fields after their "schema" tags.
func newValidator() structValidator {
	v := v10.New()
	v.RegisterValidation("enum", validateEnumerable)
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		for _, tag := range []string{"schema", "json"} {
			name, _, _ := strings.Cut(field.Tag.Get(tag), ",")
			if name != "" && name != "-" {
				return name
			}
		}

		return ""
	})

	return structValidator{v}
}

// validate checks the fields on structPtr match the rules set by "validate" struct tags.
// On success, validate returns no error.
// On failure, validate translates each issue to a ValidationError,
// returning them all as ValidationErrors.
func (v structValidator) validate(structPtr any) error {
	err := v.valid.Struct(structPtr)
	if err == nil {
		return nil
	}

	var errs v10.ValidationErrors
	if !errors.As(err, &errs) {
		return err
	}

	var validateErrs ValidationErrors
	for _, ve := range errs {
		field := ve.Namespace()

		ns := strings.SplitN(field, ".", 2)
		if len(ns) == 2 {
			field = ns[1]
		}

		rule := ve.Tag()
		if ve.Param() != "" {
			rule += "=" + ve.Param()
		}
		rule += "; " + ve.Type().String()

		validateErrs = append(validateErrs, ValidationError{
			Field: field,
			Got:   ve.Value(),
			Rule:  rule,
		})
	}

	return validateErrs
}

// validateEnumerable passes an Enumerable, or a non-empty slice of them, that is Valid.
func validateEnumerable(fl v10.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.Slice {
		return validEnum(field)
	}

	if field.Len() == 0 {
		return false
	}

	for i := 0; i < field.Len(); i++ {
		if !validEnum(field.Index(i)) {
			return false
		}
	}

	return true
}

func validEnum(v reflect.Value) bool {
	if !v.CanInterface() {
		return false
	}

	enum, ok := v.Interface().(Enumerable)
	return ok && enum.Valid() == nil
}
