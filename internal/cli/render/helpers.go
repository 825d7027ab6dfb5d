package render

import (
	"github.com/fatih/color"
)

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return color.New(color.FgYellow).Sprintf("⚠️  %s", message)
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return color.New(color.FgGreen).Sprintf("✅ %s", message)
}

// orNotSet renders empty values as a faint placeholder
func orNotSet(value string) string {
	if value == "" {
		return color.New(color.Faint).Sprint("(not set)")
	}
	return value
}
