package domain

import (
	"fmt"

	"github.com/oklog/ulid/v2"
)

// ParseULID parses a record ID taken from a request path
func ParseULID(id string) (ulid.ULID, error) {
	parsedID, err := ulid.ParseStrict(id)
	if err != nil {
		return ulid.ULID{}, fmt.Errorf("invalid ULID %q: %w", id, err)
	}
	return parsedID, nil
}
