// Package redact provides utilities for redacting sensitive information from
// strings before they are logged or returned in error responses. This package
// helps prevent the accidental leakage of API credentials and local file
// paths that might be included in error messages.
package redact

import "regexp"

// Constants for redaction placeholders
const (
	RedactedPathPlaceholder = "[REDACTED_PATH]"
	RedactedKeyPlaceholder  = "[REDACTED_KEY]"
)

// Precompiled regex patterns
var (
	// Google API keys as issued for the Gemini API
	googleKeyRegex = regexp.MustCompile(`AIza[0-9A-Za-z_\-]{35}`)

	// Generic credential assignments (api_key=..., token: ..., auth "...")
	apiKeyRegex = regexp.MustCompile(
		`(?i)(api[_-]?key|token|secret|key|access|auth)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`,
	)

	// File paths (staged artifacts, scratch directories, the history ledger)
	unixPathRegex = regexp.MustCompile(`(/[\w.-]+){2,}`)
	winPathRegex  = regexp.MustCompile(`[A-Za-z]:\\[^\\]+(\\[^\\]+)+`)

	// All patterns and their placeholders
	patterns = []*regexp.Regexp{
		googleKeyRegex, apiKeyRegex, unixPathRegex, winPathRegex,
	}

	patternPlaceholders = map[*regexp.Regexp]string{
		googleKeyRegex: RedactedKeyPlaceholder,
		apiKeyRegex:    RedactedKeyPlaceholder,
		unixPathRegex:  RedactedPathPlaceholder,
		winPathRegex:   RedactedPathPlaceholder,
	}
)

// String redacts sensitive information from the input string
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, pattern := range patterns {
		result = pattern.ReplaceAllString(result, patternPlaceholders[pattern])
	}

	return result
}

// Error redacts sensitive information from an error's Error() output
func Error(err error) string {
	if err == nil {
		return ""
	}

	return String(err.Error())
}
