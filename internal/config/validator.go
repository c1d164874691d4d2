package config

import (
	"fmt"

	"github.com/standardbeagle/kconfig-lsp/internal/kerrors"
)

// Validator validates configuration and applies defaults for fields left
// unset by the KDL document.
type Validator struct{}

// NewValidator creates a new configuration validator.
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateAndSetDefaults validates configuration and fills in any
// still-zero fields with defaults. Returns an error if validation fails.
func (v *Validator) ValidateAndSetDefaults(cfg *Config) error {
	if err := v.validateDebug(&cfg.Debug); err != nil {
		return kerrors.NewConfigError("debug", err)
	}
	if err := v.validateWatch(&cfg.Watch); err != nil {
		return kerrors.NewConfigError("watch", err)
	}

	v.setDefaults(cfg)
	return nil
}

func (v *Validator) validateDebug(dbg *Debug) error {
	if dbg.Port < 0 || dbg.Port > 65535 {
		return fmt.Errorf("debug port must be between 0 and 65535, got %d", dbg.Port)
	}
	return nil
}

func (v *Validator) validateWatch(w *Watch) error {
	if w.DebounceMs < 0 {
		return fmt.Errorf("watch debounce_ms cannot be negative, got %d", w.DebounceMs)
	}
	return nil
}

func (v *Validator) setDefaults(cfg *Config) {
	if cfg.Debug.Port == 0 {
		cfg.Debug.Port = 5678
	}
	if cfg.Watch.DebounceMs == 0 {
		cfg.Watch.DebounceMs = 300
	}
	if len(cfg.Watch.Patterns) == 0 {
		cfg.Watch.Patterns = []string{"**/Kconfig*", "**/*.conf"}
	}
}

// ValidateConfig is a convenience function for quick validation.
func ValidateConfig(cfg *Config) error {
	return NewValidator().ValidateAndSetDefaults(cfg)
}
