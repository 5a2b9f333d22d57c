package common

import (
	"fmt"
	"slices"
)

// MaxWorkers caps batch concurrency.
const MaxWorkers = 64

// ValidateOutputFormat validates format against configured supported formats
func ValidateOutputFormat(format string, supportedFormats []string) error {
	if len(supportedFormats) == 0 {
		return nil // No restrictions configured
	}

	if slices.Contains(supportedFormats, format) {
		return nil
	}

	return fmt.Errorf("unsupported output format '%s'. Supported formats: %v",
		format, supportedFormats)
}

// ValidateWorkers checks a batch concurrency setting.
func ValidateWorkers(workers int) error {
	if workers < 1 || workers > MaxWorkers {
		return fmt.Errorf("workers must be between 1 and %d, got %d", MaxWorkers, workers)
	}
	return nil
}
