package validation

import (
	"fmt"
	"strings"
)

// ValidationError reports the first rule a field failed.
//
//nolint:revive // ValidationError is the name callers match on
type ValidationError struct {
	Field string
	Rule  Rule
}

func (e *ValidationError) Error() string {
	if e.Rule == Required {
		return fmt.Sprintf("validation failed: %s is required", e.Field)
	}
	return fmt.Sprintf("validation failed: %s must be %s", e.Field, e.Rule)
}

// Errors aggregates every violation found when collecting all of them.
type Errors []*ValidationError

func (e Errors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, v := range e {
		msgs = append(msgs, v.Error())
	}
	return strings.Join(msgs, "; ")
}

// As lets errors.As reach the first violation in the aggregate.
func (e Errors) As(target any) bool {
	t, ok := target.(**ValidationError)
	if !ok || len(e) == 0 {
		return false
	}
	*t = e[0]
	return true
}
