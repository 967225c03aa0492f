package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/roach88/ltlcheck/internal/ltl"
)

// marshalTags stores blame tags as a JSON array. A nil slice is stored as
// "[]" so the column is never NULL.
func marshalTags(tags []string) (string, error) {
	if len(tags) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("marshal tags: %w", err)
	}
	return string(data), nil
}

// unmarshalTags returns nil for an empty array, matching the monitor's
// representation of "no blame".
func unmarshalTags(data string) ([]string, error) {
	if data == "" || data == "[]" {
		return nil, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(data), &tags); err != nil {
		return nil, fmt.Errorf("unmarshal tags: %w", err)
	}
	return tags, nil
}

func marshalValidity(v ltl.Validity) (string, error) {
	text, err := v.MarshalText()
	if err != nil {
		return "", fmt.Errorf("marshal validity: %w", err)
	}
	return string(text), nil
}

func unmarshalValidity(data string) (ltl.Validity, error) {
	var v ltl.Validity
	if err := v.UnmarshalText([]byte(data)); err != nil {
		return 0, fmt.Errorf("unmarshal validity: %w", err)
	}
	return v, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
