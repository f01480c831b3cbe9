package di

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Config controls how raw definitions are normalized.
type Config struct {
	// PropertyTag is the struct tag consulted when matching property names.
	PropertyTag string `mapstructure:"property_tag" yaml:"property_tag" validate:"omitempty,alphanum"`
	// StrictProperties rejects properties that match no field.
	StrictProperties bool `mapstructure:"strict_properties" yaml:"strict_properties"`
}

const defaultPropertyTag = "di"

func DefaultConfig() Config {
	return Config{PropertyTag: defaultPropertyTag}
}

func (c Config) withDefaults() Config {
	if c.PropertyTag == "" {
		c.PropertyTag = defaultPropertyTag
	}
	return c
}

var configValidator = validator.New()

// validateConfig runs the validate tags of a struct config.
func validateConfig(cfg any) error {
	if err := configValidator.Struct(cfg); err != nil {
		return newInvalidConfigError(fmt.Sprintf("config %T", cfg), err)
	}
	return nil
}
