package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// requiredField pairs a setting name with an accessor for its loaded value
type requiredField struct {
	name  string
	value func(*Config) string
}

var (
	baseRequirements = []requiredField{
		{"SERVER_PORT", func(c *Config) string { return c.ServerPort }},
		{"DB_HOST", func(c *Config) string { return c.DBHost }},
		{"DB_PORT", func(c *Config) string { return c.DBPort }},
		{"DB_USER", func(c *Config) string { return c.DBUser }},
		{"DB_NAME", func(c *Config) string { return c.DBName }},
		{"DB_PASSWORD", func(c *Config) string { return c.DBPassword }},
		{"JWT_SECRET", func(c *Config) string { return c.JWTSecret }},
	}

	// Environment-specific requirements on top of the base set
	requirements = map[Environment][]requiredField{
		Development: {},
		Test:        {},
		CI:          {},
		Production: {
			{"REDIS_URL", func(c *Config) string { return c.RedisURL }},
			{"DEEPSEEK_API_KEY", func(c *Config) string { return c.LLMAPIKey }},
		},
	}
)

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	env := GetEnvironment()

	var errs []string
	for _, req := range append(append([]requiredField{}, baseRequirements...), requirements[env]...) {
		if strings.TrimSpace(req.value(cfg)) == "" {
			errs = append(errs, ValidationError{Field: req.name, Message: "is required"}.Error())
		}
	}

	if env == Production && len(cfg.JWTSecret) < 32 {
		errs = append(errs, ValidationError{Field: "JWT_SECRET", Message: "must be at least 32 characters in production"}.Error())
	}
	if cfg.GenerateRateLimit < 0 {
		errs = append(errs, ValidationError{Field: "GENERATE_RATE_LIMIT", Message: "must not be negative"}.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "\n"))
	}

	return nil
}
