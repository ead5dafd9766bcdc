package common

import (
	"fmt"
	"slices"
)

// DefaultOutputFormats are the formats every command accepts unless the config narrows them
var DefaultOutputFormats = []string{"json", "text", "markdown", "yaml"}

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
