package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/jsamuelsen/go-blog-service/internal/domain"
)

var (
	// ErrValidation wraps tag and domain rule failures.
	ErrValidation = errors.New("validation failed")

	// ErrBinding wraps form, JSON and query decoding failures.
	ErrBinding = errors.New("binding failed")
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator. Fields are reported under their
// form name, so errors line up with the inputs of the rendered form.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(fieldName)
	})

	return validate
}

// Validatable is implemented by forms that apply domain rules on top of
// their struct tags.
type Validatable interface {
	Validate() error
}

// ValidateAll checks struct tags, then the form's own rules when v is
// Validatable. Either failure wraps ErrValidation.
func ValidateAll(v any) error {
	if err := Validator().Struct(v); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	if rules, ok := v.(Validatable); ok {
		if err := rules.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrValidation, err)
		}
	}

	return nil
}

// BindForm decodes the request body into v without validating it. The
// binding follows the Content-Type, so urlencoded forms and JSON bodies
// are both accepted.
func BindForm(c *gin.Context, v any) error {
	if err := c.ShouldBind(v); err != nil {
		return fmt.Errorf("%w: %w", ErrBinding, err)
	}

	return nil
}

// BindQueryAndValidate decodes the query string into v and checks its tags.
func BindQueryAndValidate(c *gin.Context, v any) error {
	if err := c.ShouldBindQuery(v); err != nil {
		return fmt.Errorf("%w: %w", ErrBinding, err)
	}

	if err := Validator().Struct(v); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	return nil
}

// ValidationErrors maps each failing field to one message, for the JSON
// details and for redisplaying the form. Tag failures take precedence over
// domain rule failures for the same field.
func ValidationErrors(err error) map[string]string {
	out := make(map[string]string)

	for field, msg := range domain.FieldErrors(err) {
		out[field] = msg
	}

	var tagErrs validator.ValidationErrors
	if errors.As(err, &tagErrs) {
		for _, fe := range tagErrs {
			out[fe.Field()] = validationMessage(fe)
		}
	}

	return out
}

// validationMessage words a tag failure the way the domain rules word
// theirs, so both read the same on the form.
func validationMessage(fe validator.FieldError) string {
	unit := ""
	if fe.Kind() == reflect.String {
		unit = " characters"
	}

	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "max":
		return "must be at most " + fe.Param() + unit
	case "min":
		return "must be at least " + fe.Param() + unit
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "failed validation: " + fe.Tag()
	}
}

// fieldName reports a struct field under its form tag, then its json tag.
func fieldName(fld reflect.StructField) string {
	for _, key := range []string{"form", "json"} {
		name, _, _ := strings.Cut(fld.Tag.Get(key), ",")

		switch name {
		case "-":
			return ""
		case "":
			continue
		default:
			return name
		}
	}

	return ""
}
