package config

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)

func wrapInvalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, msg)
}

func wrapLoad(source string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrLoadConfig, source, err)
}
