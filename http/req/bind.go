package req

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gorilla/schema"
	"github.com/xy-planning-network/trailhead"
)

var (
	decoder   = newDecoder()
	validator = newValidator()
)

// Bind decodes c.Input into the struct structPtr points to, matching keys by "schema" struct tags.
// If successful, Bind runs validation against the contents,
// returning ValidationErrors if the data fails the rules set by "validate" struct tags.
func (c *Context) Bind(structPtr any) error {
	if err := decoder.Decode(structPtr, c.Input); err != nil {
		return fmt.Errorf("trailhead/http/req: failed decoding %s input: %w", c.Method, translateDecoderError(err))
	}

	if err := validator.validate(structPtr); err != nil {
		return fmt.Errorf("trailhead/http/req: %T failed validation: %w", structPtr, err)
	}

	return nil
}

func newDecoder() *schema.Decoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)

	return dec
}

// translateDecoderError converts an error returned by *schema.Decoder into standardized errors.
// Some are issues with calling code,
// others mismatches between the input and the expected shape.
func translateDecoderError(err error) error {
	if strings.HasPrefix(err.Error(), "schema: interface must be a pointer to struct") {
		return fmt.Errorf("%w: %s", trailhead.ErrBadAny, err)
	}

	var pkgErrs schema.MultiError
	if !errors.As(err, &pkgErrs) {
		return fmt.Errorf("%w: %s", trailhead.ErrBadFormat, err)
	}

	var validErrs ValidationErrors
	for _, pkgErr := range pkgErrs {
		switch err := pkgErr.(type) {
		case schema.ConversionError:
			idx := err.Index
			if idx < 0 {
				idx = 0
			}

			validErrs = append(validErrs, ValidationError{
				Field: err.Key,
				Got:   fmt.Sprintf("bad value at index %d", idx),
				Rule:  "must be " + err.Type.String(),
			})

		case schema.EmptyFieldError:
			return fmt.Errorf(`%w: use "validate" tags to require fields, not schema`, trailhead.ErrNotImplemented)

		case schema.UnknownKeyError:
			validErrs = append(validErrs, ValidationError{
				Field: err.Key,
				Got:   "value is set",
				Rule:  "unexpected key should not be set",
			})

		default:
			// A field whose type has no registered converter only errors
			// once the input carries a value for it.
			if strings.Contains(err.Error(), "schema: converter not found for") {
				return fmt.Errorf("%w: cannot convert values into unsupported type", trailhead.ErrNotImplemented)
			}

			return fmt.Errorf("%w: %s", trailhead.ErrUnexpected, err)
		}
	}

	return validErrs
}
