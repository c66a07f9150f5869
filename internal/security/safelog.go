// Package security provides secret masking and input validation.
package security

import (
	"fmt"
	"regexp"
	"strings"

	"investment-digest/pkg/utils"
)

// sensitiveFields contains setting names whose values must never be logged in full.
var sensitiveFields = map[string]bool{
	"api_key":        true,
	"apikey":         true,
	"secret":         true,
	"password":       true,
	"token":          true,
	"notion_api_key": true,
	"resend_api_key": true,
	"smtp_password":  true,
	"postgres_url":   true,
}

// sensitivePatterns match credentials that show up inside free text such as
// error bodies returned by remote APIs.
var sensitivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9_\-\.]+`),
	regexp.MustCompile(`\b(secret_[A-Za-z0-9]{16,})`), // Notion internal integration tokens
	regexp.MustCompile(`\b(ntn_[A-Za-z0-9]{16,})`),    // Notion tokens, newer prefix
	regexp.MustCompile(`\b(re_[A-Za-z0-9_]{16,})`),    // Resend keys
	regexp.MustCompile(`(postgres(?:ql)?://[^:\s]+):[^@\s]+@`),
}

// IsSensitiveField reports whether a setting name holds a secret.
func IsSensitiveField(field string) bool {
	return sensitiveFields[strings.ToLower(field)]
}

// MaskCredential masks a credential value, keeping a short prefix and suffix.
func MaskCredential(value string) string {
	return utils.MaskSecret(value)
}

// MaskString replaces credentials embedded in free text.
func MaskString(input string) string {
	result := input
	for _, pattern := range sensitivePatterns {
		result = pattern.ReplaceAllStringFunc(result, func(match string) string {
			if strings.Contains(match, "://") {
				// keep scheme and user, hide the password
				at := strings.LastIndex(match, ":")
				return match[:at] + ":****@"
			}
			if strings.HasPrefix(strings.ToLower(match), "bearer") {
				return "Bearer " + MaskCredential(strings.TrimSpace(match[len("bearer"):]))
			}
			return MaskCredential(match)
		})
	}
	return result
}

// MaskError returns an error whose message has credentials masked.
func MaskError(err error) error {
	if err == nil {
		return nil
	}
	masked := MaskString(err.Error())
	if masked == err.Error() {
		return err
	}
	return fmt.Errorf("%s", masked)
}
