package log

// Config selects the logger flavor and level.
type Config struct {
	Level       string   `mapstructure:"level" yaml:"level" validate:"omitempty,oneof=debug info warn error fatal"`
	Development bool     `mapstructure:"development" yaml:"development"`
	RedactKeys  []string `mapstructure:"redact_keys" yaml:"redact_keys"`
}
