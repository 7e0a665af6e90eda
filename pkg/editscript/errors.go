package editscript

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// ValidationError is one problem in an edit script, located by its 1-based
// YAML line. Line 0 refers to the script as a whole.
type ValidationError struct {
	Line    int
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	var b strings.Builder
	if e.Line > 0 {
		fmt.Fprintf(&b, "line %d: ", e.Line)
	} else {
		b.WriteString("script: ")
	}
	if e.Field != "" {
		b.WriteString(e.Field + " ")
	}
	b.WriteString(e.Message)
	return b.String()
}

// ValidationErrors is every problem Parse found. Parsing keeps going after
// the first one.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	if len(errs) == 0 {
		return "invalid edit script"
	}
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}

// Issues returns a copy ordered by line.
func (errs ValidationErrors) Issues() []ValidationError {
	out := slices.Clone([]ValidationError(errs))
	slices.SortStableFunc(out, func(a, b ValidationError) int { return cmp.Compare(a.Line, b.Line) })
	return out
}
