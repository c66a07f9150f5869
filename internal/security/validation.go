package security

import (
	"net/mail"
	"regexp"
	"strings"

	apperrors "investment-digest/internal/errors"
)

var (
	// identifierPattern matches a plain SQL identifier, optionally schema-qualified.
	identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

	// collectionIDPattern matches a 32 hex digit id, with or without dashes.
	collectionIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-?[0-9a-fA-F]{4}-?[0-9a-fA-F]{4}-?[0-9a-fA-F]{4}-?[0-9a-fA-F]{12}$`)
)

// ValidateIdentifier checks that a table name can be interpolated into SQL.
func ValidateIdentifier(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperrors.NewValidationError("table", name, "identifier is required")
	}
	if !identifierPattern.MatchString(name) {
		return apperrors.Wrapf(apperrors.ErrInvalidIdentifier, "invalid table name %q", name)
	}
	return nil
}

// ValidateCollectionID checks the shape of a hosted database id.
func ValidateCollectionID(id string) error {
	if !collectionIDPattern.MatchString(strings.TrimSpace(id)) {
		return apperrors.NewValidationError("database_id", id, "expected 32 hex digits")
	}
	return nil
}

// ValidateAddress checks an email address, accepting the "Name <addr>" form.
func ValidateAddress(field, value string) error {
	if _, err := mail.ParseAddress(value); err != nil {
		return apperrors.NewValidationError(field, value, "not a valid email address")
	}
	return nil
}

// CompactCollectionID strips dashes from a hosted database id.
func CompactCollectionID(id string) string {
	return strings.ReplaceAll(strings.TrimSpace(id), "-", "")
}
