package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidImage пустое, нулевого размера или нечитаемое изображение.
	ErrInvalidImage = errors.New("invalid image")

	// ErrConfiguration несогласованные параметры детектора.
	ErrConfiguration = errors.New("invalid configuration")
)

// ConfigurationError указывает, какое поле конфигурации неверно
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// Unwrap позволяет сравнивать через errors.Is(err, ErrConfiguration)
func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}
