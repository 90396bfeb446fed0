// Package config provides configuration management for the tennis statistics engine.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// Custom validation functions by tag
var customRules = map[string]validator.Func{
	"environment": validateEnvironment,
	"loglevel":    validateLogLevel,
	"cronspec":    validateCronSpec,
}

// NewValidator creates a new validator with custom validation functions.
// It panics if a custom rule cannot be registered.
func NewValidator() *CustomValidator {
	v := validator.New()
	if err := registerRules(v, customRules); err != nil {
		panic(err)
	}
	return &CustomValidator{validator: v}
}

func registerRules(v *validator.Validate, rules map[string]validator.Func) error {
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("failed to register validation %q: %w", tag, err)
		}
	}
	return nil
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	return NewValidator().Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	if err := cv.validator.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	return validateCrossField(cfg)
}

// validateEnvironment validates the environment field
func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

// validateLogLevel validates the log level field
func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// validateCronSpec validates a standard five-field cron expression or descriptor
func validateCronSpec(fl validator.FieldLevel) bool {
	_, err := cron.ParseStandard(fl.Field().String())
	return err == nil
}

// validateCrossField performs cross-field validations
func validateCrossField(cfg *Config) error {
	if cfg.IsProduction() && cfg.Database.SSLMode == "disable" {
		return fmt.Errorf("production environment requires SSL mode to be 'require' or 'verify-full'")
	}

	if cfg.Database.MinConnections > cfg.Database.MaxConnections {
		return fmt.Errorf("min_connections cannot exceed max_connections")
	}

	if cfg.Paging.DefaultPageSize > cfg.Paging.MaxPageSize {
		return fmt.Errorf("default_page_size cannot exceed max_page_size")
	}

	if cfg.Jobs.Enabled && len(cfg.Jobs.Refresh) == 0 {
		return fmt.Errorf("jobs are enabled but no refresh job is configured")
	}

	names := make(map[string]bool, len(cfg.Jobs.Refresh))
	for _, job := range cfg.Jobs.Refresh {
		if names[job.Name] {
			return fmt.Errorf("duplicate refresh job name %q", job.Name)
		}
		names[job.Name] = true
		if len(job.GlobalKeys) == 0 && len(job.Caches) == 0 {
			return fmt.Errorf("refresh job %q evicts nothing", job.Name)
		}
	}

	return nil
}

// formatValidationErrors formats validation errors into a readable string
func formatValidationErrors(validationErrors validator.ValidationErrors) error {
	var errMsg strings.Builder
	for _, fieldError := range validationErrors {
		field := fieldError.StructField()
		tag := fieldError.Tag()
		value := fieldError.Value()

		switch tag {
		case "required", "required_if":
			fmt.Fprintf(&errMsg, "- Field '%s' is required\n", field)
		case "min", "max":
			fmt.Fprintf(&errMsg, "- Field '%s' validation failed: %s constraint violated\n", field, tag)
		case "gt", "gte", "lt", "lte":
			fmt.Fprintf(&errMsg, "- Field '%s' validation failed: numeric constraint %s violated\n", field, tag)
		case "environment":
			fmt.Fprintf(&errMsg, "- Field '%s' must be one of: development, staging, production\n", field)
		case "loglevel":
			fmt.Fprintf(&errMsg, "- Field '%s' must be one of: debug, info, warn, error\n", field)
		case "cronspec":
			fmt.Fprintf(&errMsg, "- Field '%s' must be a valid cron expression, got '%v'\n", field, value)
		case "unique":
			fmt.Fprintf(&errMsg, "- Field '%s' must not contain duplicates\n", field)
		case "oneof":
			fmt.Fprintf(&errMsg, "- Field '%s' has invalid value '%v'\n", field, value)
		default:
			fmt.Fprintf(&errMsg, "- Field '%s' failed validation: %s\n", field, tag)
		}
	}
	return fmt.Errorf("configuration validation failed:\n%s", errMsg.String())
}
