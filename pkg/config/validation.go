package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks cfg for structurally valid values: struct tags cover
// range and enum checks, and a few cross-field rules that validator
// tags can't express cleanly are checked by hand afterward.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			return formatValidationErrors(verrs)
		}
		return err
	}

	if cfg.Telemetry.Enabled && cfg.Telemetry.Endpoint == "" {
		return fmt.Errorf("telemetry.endpoint is required when telemetry is enabled")
	}

	if _, err := cfg.Codec.Options(); err != nil {
		return fmt.Errorf("codec: %w", err)
	}

	return nil
}

// formatValidationErrors renders validator.ValidationErrors into a
// message that names the failing field and the tag that rejected it,
// e.g. "Logging.Level: failed on 'oneof'".
func formatValidationErrors(verrs validator.ValidationErrors) error {
	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "Config.")
		messages = append(messages, fmt.Sprintf("%s: failed on '%s'", field, fe.Tag()))
	}
	return fmt.Errorf("%s", strings.Join(messages, "; "))
}
