package expr

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/vk/axisflow/internal/axis"
)

var (
	// ErrDivisionByZero is returned when the right operand of '/' evaluates to 0.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrOverflow is returned when an intermediate or final value leaves the
	// signed 32-bit range used for axis values.
	ErrOverflow = errors.New("integer overflow")
)

// ParseError reports malformed expression syntax.
type ParseError struct {
	Input    string
	Offset   int
	Fragment string
	Msg      string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %s at offset %d (near %q) in expression %q", e.Msg, e.Offset, e.Fragment, e.Input)
}

// UnknownAxisNameError reports an axis_name that is not a canonical axis.
type UnknownAxisNameError struct {
	Input  string
	Offset int
	Name   string
}

func (e *UnknownAxisNameError) Error() string {
	return fmt.Sprintf("unknown axis name %q at offset %d (near %q) in expression %q", e.Name, e.Offset, nearby(e.Input, e.Offset), e.Input)
}

// MissingBindingError is returned by Evaluate when a referenced axis has no value.
type MissingBindingError struct {
	Key axis.Key
}

func (e *MissingBindingError) Error() string {
	return fmt.Sprintf("no value is known for axis %s", e.Key)
}

// nearby returns a short window of src around offset, cut on rune
// boundaries.
func nearby(src string, offset int) string {
	const radius = 8
	start := max(offset-radius, 0)
	end := min(offset+radius, len(src))
	if start >= end {
		return ""
	}
	for start < end && !utf8.RuneStart(src[start]) {
		start++
	}
	for end < len(src) && !utf8.RuneStart(src[end]) {
		end++
	}
	return src[start:end]
}
