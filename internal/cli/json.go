// Package cli implements the command-line interface.
package cli

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

// Global JSON output flag
var jsonOutput bool

// errReported is returned once an error has been written as a JSON envelope,
// so the process still exits non-zero without printing it twice.
var errReported = errors.New("error already reported")

// Response is the standard JSON envelope for all CLI output.
type Response struct {
	OK       bool        `json:"ok"`
	Data     interface{} `json:"data,omitempty"`
	Error    *ErrorInfo  `json:"error,omitempty"`
	Warnings []Warning   `json:"warnings,omitempty"`
	Meta     *Meta       `json:"meta,omitempty"`
}

// ErrorInfo contains structured error information.
type ErrorInfo struct {
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	Suggestion string      `json:"suggestion,omitempty"`
}

// Warning represents a non-fatal warning.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Meta contains metadata about the response.
type Meta struct {
	Count int `json:"count,omitempty"`
}

// outputJSON writes the response as indented JSON.
func outputJSON(w io.Writer, resp Response) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(resp)
}

// outputSuccess outputs a successful JSON response.
func outputSuccess(w io.Writer, data interface{}, meta *Meta) {
	outputJSON(w, Response{
		OK:   true,
		Data: data,
		Meta: meta,
	})
}

// outputSuccessWithWarnings outputs a successful JSON response with warnings.
func outputSuccessWithWarnings(w io.Writer, data interface{}, warnings []Warning, meta *Meta) {
	outputJSON(w, Response{
		OK:       true,
		Data:     data,
		Warnings: warnings,
		Meta:     meta,
	})
}

// outputError outputs an error JSON response.
func outputError(w io.Writer, code, message string, details interface{}, suggestion string) {
	outputJSON(w, Response{
		OK: false,
		Error: &ErrorInfo{
			Code:       code,
			Message:    message,
			Details:    details,
			Suggestion: suggestion,
		},
	})
}

// isJSONOutput returns true if JSON output is enabled.
func isJSONOutput() bool {
	return jsonOutput
}

// handleError handles an error appropriately based on output mode.
// In JSON mode, outputs a JSON error. In text mode, returns the error for Cobra.
func handleError(w io.Writer, code string, err error, suggestion string) error {
	if jsonOutput {
		outputError(w, code, err.Error(), nil, suggestion)
		return errReported
	}
	if suggestion != "" {
		return errors.Errorf("%v\n\n%s", err, suggestion)
	}
	return err
}

// handleErrorMsg handles an error message appropriately based on output mode.
func handleErrorMsg(w io.Writer, code, message, suggestion string) error {
	return handleError(w, code, errors.New(message), suggestion)
}

// handleErrorWithDetails handles an error with structured details.
func handleErrorWithDetails(w io.Writer, code, message, suggestion string, details interface{}) error {
	if jsonOutput {
		outputError(w, code, message, details, suggestion)
		return errReported
	}
	return handleErrorMsg(w, code, message, suggestion)
}
