package validation

import (
	"errors"
	"sort"
	"strings"
)

// FieldErrors maps a payload field (by its json name) to its failure messages.
type FieldErrors map[string][]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e[k], ", "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e FieldErrors) add(field, msg string) {
	for _, existing := range e[field] {
		if existing == msg {
			return
		}
	}
	e[field] = append(e[field], msg)
}

// AsFieldErrors extracts field errors from err, if any.
func AsFieldErrors(err error) (FieldErrors, bool) {
	var fields FieldErrors
	if errors.As(err, &fields) {
		return fields, true
	}
	return nil, false
}
