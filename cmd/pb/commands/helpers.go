// Package commands implements the pb CLI commands.
package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/copyhacker/productboard-mcp/internal/constants"
	"github.com/copyhacker/productboard-mcp/pkg/productboard"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// StandardJSONRenderer renders any data structure as indented JSON.
func StandardJSONRenderer[T any](data T) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding data to JSON: %w", err)
	}

	return nil
}

// StandardYAMLRenderer renders any data structure as YAML.
func StandardYAMLRenderer[T any](data T) error {
	encoder := yaml.NewEncoder(os.Stdout)
	encoder.SetIndent(2)

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding data to YAML: %w", err)
	}

	return encoder.Close()
}

// renderOutput dispatches on the effective --output format, falling back to
// the supplied table renderer.
func renderOutput[T any](data T, tableRenderer func(T) error) error {
	switch viper.GetString("output") {
	case constants.FormatJSON:
		return StandardJSONRenderer(data)
	case constants.FormatYAML:
		return StandardYAMLRenderer(data)
	case constants.FormatTable, "":
		return tableRenderer(data)
	default:
		return constants.ErrInvalidOutputFormat
	}
}

func validOutputFormat(format string) bool {
	switch format {
	case constants.FormatJSON, constants.FormatYAML, constants.FormatTable:
		return true
	default:
		return false
	}
}

// listParams builds query parameters from the common list flags.
func listParams(limit int, filters map[string]string) *productboard.QueryParams {
	params := productboard.NewQueryParams()

	if limit > 0 {
		params.PageLimit = limit
	}

	for field, value := range filters {
		if value != "" {
			params.WithFilter(field, value)
		}
	}

	return params
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return constants.None
	}

	return t.Format("2006-01-02")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}

	return s[:max-3] + "..."
}

// stderrLogger is the structured logger used by the client in verbose mode.
type stderrLogger struct{}

func newStderrLogger() productboard.Logger {
	return stderrLogger{}
}

func (stderrLogger) Debug(msg string, fields map[string]interface{}) { logLine("DEBUG", msg, fields) }
func (stderrLogger) Info(msg string, fields map[string]interface{})  { logLine("INFO", msg, fields) }
func (stderrLogger) Warn(msg string, fields map[string]interface{})  { logLine("WARN", msg, fields) }
func (stderrLogger) Error(msg string, fields map[string]interface{}) { logLine("ERROR", msg, fields) }

func logLine(level, msg string, fields map[string]interface{}) {
	var builder strings.Builder

	builder.WriteString(level)
	builder.WriteString(" ")
	builder.WriteString(msg)

	for key, value := range fields {
		fmt.Fprintf(&builder, " %s=%v", key, value)
	}

	_, _ = fmt.Fprintln(os.Stderr, builder.String())
}
