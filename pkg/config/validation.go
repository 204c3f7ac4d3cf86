package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Validate checks the configuration using the struct validate tags plus the
// cross-field rules the tags cannot express.
func Validate(cfg *Config) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok {
			for _, fieldErr := range errs {
				return fmt.Errorf("invalid config field %s: failed %q validation",
					fieldErr.Namespace(), fieldErr.Tag())
			}
		}
		return err
	}

	if err := cfg.Database.Validate(); err != nil {
		return fmt.Errorf("invalid database config: %w", err)
	}

	return nil
}
