package enrich

import (
	"errors"
	"fmt"
	"maps"
	"strings"

	"codeberg.org/snonux/youdaocard/internal/note"
)

var (
	// ErrMissingWordField means the note has no field with the configured
	// word field name.
	ErrMissingWordField = errors.New("missing word field")

	// ErrInvalidWord means the word field normalizes to nothing.
	ErrInvalidWord = errors.New("invalid word")

	// ErrLookupFailed means the dictionary page could not be fetched or
	// parsed.
	ErrLookupFailed = errors.New("lookup failed")
)

// Result holds the values written to the note, keyed by role.
type Result map[note.Role]string

// Status is the outcome of one enrichment.
type Status struct {
	// Word is the normalized lookup key, empty when normalization did not
	// happen or failed.
	Word string

	// Err is the abort reason. It wraps one of ErrMissingWordField,
	// ErrInvalidWord or ErrLookupFailed.
	Err error

	Result Result

	// Missing lists field names that were written to but do not exist on
	// the note.
	Missing []string
}

// OK reports whether the enrichment ran to completion.
func (s Status) OK() bool {
	return s.Err == nil
}

// Value returns the value written for role.
func (s Status) Value(role note.Role) (string, bool) {
	v, ok := s.Result[role]
	return v, ok
}

// Message is the one-line summary shown to the user.
func (s Status) Message() string {
	switch {
	case s.OK() && len(s.Missing) > 0:
		return fmt.Sprintf("%s: done, missing fields: %s", s.Word, strings.Join(s.Missing, ", "))
	case s.OK():
		return fmt.Sprintf("%s: done", s.Word)
	case errors.Is(s.Err, ErrLookupFailed):
		return fmt.Sprintf("%s: dictionary lookup failed", s.Word)
	default:
		return s.Err.Error()
	}
}

func (s Status) clone() Status {
	s.Result = maps.Clone(s.Result)
	s.Missing = append([]string(nil), s.Missing...)
	return s
}
