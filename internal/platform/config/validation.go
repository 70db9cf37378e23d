package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is the package-level validator instance. Field names in its
// errors are the koanf keys, so messages name the setting as it is written
// in YAML ("server.request_timeout") rather than the Go field.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("koanf"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	return v
}

// Validate validates the configuration and returns an error if invalid.
// Validation fails fast - the service should not start with invalid config.
// Tag rules run first; relations between settings are checked only once
// every setting is individually valid.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationErrors(err)
	}

	if problems := c.relations(); len(problems) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(problems, "\n  "))
	}

	return nil
}

// relations checks constraints spanning more than one setting.
func (c *Config) relations() []string {
	var problems []string

	if c.Server.RequestTimeout >= c.Server.WriteTimeout {
		problems = append(problems, "server.request_timeout must be shorter than server.write_timeout")
	}

	if db := c.Database; db.MaxOpenConns > 0 && db.MaxIdleConns > db.MaxOpenConns {
		problems = append(problems, "database.max_idle_conns must not exceed database.max_open_conns")
	}

	return problems
}

// formatValidationErrors converts validator errors to a readable format.
func formatValidationErrors(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	errs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		errs = append(errs, formatFieldError(e))
	}

	return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
}

// formatFieldError formats a single field validation error.
func formatFieldError(e validator.FieldError) string {
	field := formatFieldPath(e.Namespace())

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "required_if":
		return fmt.Sprintf("%s is required when %s", field, requiredIfCondition(e))
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "unique":
		return fmt.Sprintf("%s must not contain duplicates", field)
	default:
		return fmt.Sprintf("%s failed validation: %s", field, e.Tag())
	}
}

// requiredIfCondition renders a required_if parameter ("Driver postgres")
// with the sibling's koanf key ("driver is postgres").
func requiredIfCondition(e validator.FieldError) string {
	field, value, ok := strings.Cut(e.Param(), " ")
	if !ok {
		return e.Param()
	}

	return fmt.Sprintf("%s is %s", toSnake(field), value)
}

// formatFieldPath drops the root struct name: "Config.server.port" becomes
// "server.port".
func formatFieldPath(namespace string) string {
	_, path, ok := strings.Cut(namespace, ".")
	if !ok {
		return namespace
	}

	return path
}

// toSnake converts a Go field name to its koanf key ("SubjectHeader" to
// "subject_header").
func toSnake(name string) string {
	var b strings.Builder

	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}

			r += 'a' - 'A'
		}

		b.WriteRune(r)
	}

	return b.String()
}
