package utils

import "github.com/google/uuid"

// ValidateID rejects identifiers that are not UUIDs before they reach a store.
func ValidateID(id, entity string) error {
	if err := uuid.Validate(id); err != nil {
		return ValidationError("invalid %s id", entity)
	}
	return nil
}
