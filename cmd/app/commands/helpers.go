// Package commands contains CLI command implementations for the application.
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	validation "github.com/jellydator/validation"
	"gopkg.in/yaml.v3"

	"github.com/allisson/envelope/internal/engine"
	appValidation "github.com/allisson/envelope/internal/validation"
)

// Output formats accepted by every command.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// stdinPath selects standard input instead of an input file.
const stdinPath = "-"

// IOTuple holds reader and writer for commands, allowing for testing.
type IOTuple struct {
	Reader io.Reader
	Writer io.Writer
}

// DefaultIO returns an IOTuple with os.Stdin and os.Stdout.
func DefaultIO() IOTuple {
	return IOTuple{
		Reader: os.Stdin,
		Writer: os.Stdout,
	}
}

// envLine is one KEY="value" line of text output.
type envLine struct {
	key   string
	value string
}

// writeResult renders v as JSON or YAML, or as KEY="value" lines for text output.
func writeResult(w io.Writer, format string, v any, lines []envLine) error {
	switch format {
	case FormatJSON:
		jsonBytes, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(jsonBytes))
		return err
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		return enc.Close()
	default:
		for _, line := range lines {
			if _, err := fmt.Fprintf(w, "%s=%q\n", line.key, line.value); err != nil {
				return err
			}
		}
		return nil
	}
}

// validateFormat checks the output format flag.
func validateFormat(format string) error {
	err := validation.Validate(format,
		validation.Required,
		validation.In(FormatText, FormatJSON, FormatYAML).Error("must be text, json or yaml"),
	)
	if err != nil {
		return appValidation.WrapValidationError(fmt.Errorf("format: %w", err))
	}
	return nil
}

// readInput reads the whole file at path, or r when path is "-".
func readInput(path string, r io.Reader) ([]byte, error) {
	if path == stdinPath {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read standard input: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	return data, nil
}

// writePayload writes data to path with owner-only permissions.
func writePayload(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// failed turns a failed engine result into a command error.
func failed(action string, f *engine.Failure) error {
	return fmt.Errorf("failed to %s: %w", action, f)
}
