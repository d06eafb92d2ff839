package ref

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Key is the primary key of a related Directus record.
// The API returns a bare key for unexpanded relations and an object carrying
// an "id" field when the relation is expanded through the fields parameter.
// Both shapes decode to the same Key.
type Key int

// UnmarshalJSON accepts a number, a numeric string, an object with an "id"
// field, or null.
// PRE: b is a complete JSON value
// POST: k holds the related key; 0 for null
func (k *Key) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*k = 0
		return nil
	}

	switch b[0] {
	case '{':
		var obj struct {
			ID Key `json:"id"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return fmt.Errorf("decode related object: %w", err)
		}
		*k = obj.ID
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("related key %q is not numeric", s)
		}
		*k = Key(n)
	default:
		var n int
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("decode related key: %w", err)
		}
		*k = Key(n)
	}
	return nil
}

// IsObject reports whether b holds a JSON object rather than a bare key.
func IsObject(b []byte) bool {
	b = bytes.TrimSpace(b)
	return len(b) > 0 && b[0] == '{'
}
