package req

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xy-planning-network/trailhead"
)

// A ValidationError describes one input value breaking the rule on its field.
type ValidationError struct {
	Field string `json:"field"`
	Got   any    `json:"got"`
	Rule  string `json:"rule,omitempty"`
}

func (e ValidationError) String() string {
	return fmt.Sprintf("%s: fails %q, got %v", e.Field, e.Rule, e.Got)
}

// ValidationErrors collects every ValidationError found binding one struct.
// It unwraps to trailhead.ErrNotValid.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	lines := make([]string, len(v))
	for i, e := range v {
		lines[i] = e.String()
	}

	return strings.Join(lines, "; ")
}

// Fields lists the rule each invalid field broke, keyed by field name.
// Only the first rule broken is kept per field.
func (v ValidationErrors) Fields() map[string]string {
	out := make(map[string]string, len(v))
	for _, e := range v {
		if _, ok := out[e.Field]; !ok {
			out[e.Field] = e.Rule
		}
	}

	return out
}

// MarshalJSON nests the errors under "validationErrors", omitted when there are none.
func (v ValidationErrors) MarshalJSON() ([]byte, error) {
	body := make(map[string][]ValidationError, 1)
	if len(v) > 0 {
		body["validationErrors"] = []ValidationError(v)
	}

	return json.Marshal(body)
}

func (ValidationErrors) Unwrap() error { return trailhead.ErrNotValid }
