package contract

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/ahp/schema"
)

// Consistency label constants.
const (
	ConsistentValue   = "Consistent"   // CR within threshold
	InconsistentValue = "Inconsistent" // CR above threshold
	UndefinedValue    = "Undefined"    // consistency could not be computed
)

// DateTimeFormat is the timestamp layout used in human-readable output.
const DateTimeFormat = "2006-01-02 15:04:05"

// Color variables for console output.
var (
	ConsistentColor   = color.New(color.FgGreen)
	InconsistentColor = color.New(color.FgRed, color.Bold)
	UndefinedColor    = color.New(color.FgMagenta)
	HeaderColor       = color.New(color.FgCyan, color.Bold)
)

// GetPlainLabel returns a plain text label for a consistency result. This is
// the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(c schema.Consistency, threshold float64) string {
	switch {
	case !c.Defined():
		return UndefinedValue
	case c.CR > threshold:
		return InconsistentValue
	default:
		return ConsistentValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
func GetColorLabel(c schema.Consistency, threshold float64) string {
	text := GetPlainLabel(c, threshold)

	switch text {
	case InconsistentValue:
		return InconsistentColor.Sprint(text)
	case UndefinedValue:
		return UndefinedColor.Sprint(text)
	default:
		return ConsistentColor.Sprint(text)
	}
}

// FormatMetric renders a consistency metric with the given precision, or "n/a"
// when it is undefined.
func FormatMetric(v float64, precision int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	return fmt.Sprintf("%.*f", precision, v)
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetStoreDBFilePath returns the path to the SQLite DB file for submissions and consensus runs.
func GetStoreDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".ahp.db"
	}
	return filepath.Join(homeDir, ".ahp.db")
}

// TruncateLabel truncates an item label to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so there is room for the ellipsis and at least one character.
func TruncateLabel(label string, maxWidth int) string {
	runes := []rune(label)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return label
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
