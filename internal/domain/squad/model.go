package squad

import (
	"bytes"
	"encoding/json"

	"squadpage/internal/domain/ref"
)

// Squad is a group of students within a tribe and cohort.
type Squad struct {
	ID     int     `json:"id"`
	Name   string  `json:"name"`
	Cohort Cohort  `json:"cohort"`
	Tribe  ref.Key `json:"tribe"`
}

// Cohort is a school-year tag such as "2526".
type Cohort string

// UnmarshalJSON accepts the cohort as a string or as a bare number.
func (c *Cohort) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*c = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*c = Cohort(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*c = Cohort(n.String())
	return nil
}
