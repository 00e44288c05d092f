package validation

import (
	"fmt"
	"strings"
)

// Error collects per-field validation failures for one request, so a bad
// trigger payload reports every rejected field in a single response.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, msg))
	}
	return strings.Join(msgs, "; ")
}
