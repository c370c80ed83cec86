// Package redact scrubs credentials and other sensitive fragments from
// strings before they reach logs or error responses.
package redact

import "regexp"

// Placeholders substituted for matched sensitive content.
const (
	RedactionPlaceholder          = "[REDACTED]"
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
)

var (
	// Connection strings with inline credentials.
	connStringRegex = regexp.MustCompile(`(?i)(postgres|postgresql|mysql)://[^@\s]+@`)

	// Password-ish key/value fragments.
	passwordRegex = regexp.MustCompile(`(?i)(password|passwd|pwd|secret)([=:\s]['"]?)[^'"&\s]{3,}`)

	// Three-part base64url JWT tokens.
	jwtTokenRegex = regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`)

	// Bearer header values.
	bearerRegex = regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9_\-.~+/]+=*`)

	// Email addresses.
	emailRegex = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
)

// String returns s with sensitive fragments replaced by placeholders.
func String(s string) string {
	if s == "" {
		return s
	}
	s = connStringRegex.ReplaceAllString(s, "$1://"+RedactedCredentialPlaceholder+"@")
	s = passwordRegex.ReplaceAllString(s, "$1$2"+RedactedCredentialPlaceholder)
	s = jwtTokenRegex.ReplaceAllString(s, RedactedCredentialPlaceholder)
	s = bearerRegex.ReplaceAllString(s, RedactedCredentialPlaceholder)
	s = emailRegex.ReplaceAllString(s, RedactionPlaceholder)
	return s
}

// Error redacts an error's message. Nil errors yield the empty string.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
