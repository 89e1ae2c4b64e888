package errors

import (
	"strings"
	"unicode"
)

// maxIDLength bounds document and node identifiers.
const maxIDLength = 128

// ValidateDocumentID validates a document identifier before it is used as a
// file name, a Redis key suffix or a database key.
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - No control characters or whitespace
//   - No path separators or traversal sequences
//   - Maximum length of 128 characters
func ValidateDocumentID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "document id cannot be empty")
	}
	if len(id) > maxIDLength {
		return New(ErrCodeInvalidInput, "document id too long (max %d characters)", maxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "document id contains invalid characters")
		}
	}
	if strings.ContainsAny(id, `/\:`) {
		return New(ErrCodeInvalidInput, "document id cannot contain path separators or colons")
	}
	if strings.Contains(id, "..") || strings.HasPrefix(id, ".") {
		return New(ErrCodeInvalidInput, "document id cannot start with a dot or contain \"..\"")
	}
	return nil
}

// ValidateNodeID validates a graph node identifier received from a client.
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "node id cannot be empty")
	}
	if len(id) > maxIDLength {
		return New(ErrCodeInvalidInput, "node id too long (max %d characters)", maxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "node id contains invalid control characters")
		}
	}
	return nil
}
