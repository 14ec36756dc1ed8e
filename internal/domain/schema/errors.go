package schema

import (
	"fmt"
	"strings"
)

// Error reports required columns missing from the input header. It is
// fatal for normalization; callers surface the required and found column
// lists to the user.
type Error struct {
	Required []string
	Found    []string
	Missing  []string
}

func (e *Error) Error() string {
	return fmt.Sprintf("schema: missing required columns [%s] (required [%s], found [%s])",
		strings.Join(e.Missing, ", "),
		strings.Join(e.Required, ", "),
		strings.Join(e.Found, ", "))
}
