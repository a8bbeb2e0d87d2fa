package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports fields by their koanf keys so messages name the same
// path an operator writes in YAML or APP_ variables.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("koanf"), ",")
		if name == "" || name == "-" {
			return strings.ToLower(f.Name)
		}

		return name
	})

	v.RegisterStructValidation(validateRetry, RetryConfig{})

	return v
}

// validateRetry rejects a backoff ceiling below its starting interval.
func validateRetry(sl validator.StructLevel) {
	r, ok := sl.Current().Interface().(RetryConfig)
	if !ok || r.MaxInterval == 0 || r.InitialInterval == 0 {
		return
	}

	if r.MaxInterval < r.InitialInterval {
		sl.ReportError(r.MaxInterval, "max_interval", "MaxInterval", "gtefield", "initial_interval")
	}
}

// Validate checks the loaded configuration. The service refuses to start
// on any violation, so every problem is reported at once.
func (c *Config) Validate() error {
	err := validate.Struct(c)

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	lines := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		lines[i] = describe(fe)
	}

	return fmt.Errorf("config validation failed:\n  %s", strings.Join(lines, "\n  "))
}

func describe(fe validator.FieldError) string {
	key := keyPath(fe.Namespace())

	switch fe.Tag() {
	case "required":
		return key + " is required"
	case "required_if":
		return fmt.Sprintf("%s is required when %s", key, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", key, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", key, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", key, fe.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL, got %q", key, fe.Value())
	case "cidr|ip":
		return fmt.Sprintf("%s must be an IP address or CIDR, got %q", key, fe.Value())
	case "gtefield":
		return fmt.Sprintf("%s must not be shorter than %s", key, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation: %s", key, fe.Tag())
	}
}

// keyPath drops the root type from a validator namespace:
// "Config.dataset.load_timeout" becomes "dataset.load_timeout".
func keyPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}

	return namespace
}
