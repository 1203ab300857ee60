// Package template renders the {{field}} patterns used to name generated
// model files.
package template

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aalvaropc/cpstool/internal/domain"
)

// RenderString replaces {{field}} placeholders with values from fields.
// An unknown field or a malformed placeholder is an invalid argument.
func RenderString(input string, fields map[string]string) (string, error) {
	if input == "" {
		return "", nil
	}

	var out strings.Builder
	rest := input
	for {
		start := strings.Index(rest, "{{")
		if start == -1 {
			out.WriteString(rest)
			return out.String(), nil
		}

		out.WriteString(rest[:start])
		rest = rest[start+2:]

		end := strings.Index(rest, "}}")
		if end == -1 {
			return "", invalid(input, errors.New("unclosed placeholder"))
		}

		key := strings.TrimSpace(rest[:end])
		if key == "" {
			return "", invalid(input, errors.New("empty placeholder"))
		}

		value, ok := fields[key]
		if !ok {
			return "", invalid(input, fmt.Errorf("unknown field %q", key))
		}

		out.WriteString(value)
		rest = rest[end+2:]
	}
}

// Fields lists the placeholders of a pattern in order of appearance.
func Fields(input string) []string {
	var out []string
	rest := input
	for {
		start := strings.Index(rest, "{{")
		if start == -1 {
			return out
		}
		rest = rest[start+2:]
		end := strings.Index(rest, "}}")
		if end == -1 {
			return out
		}
		out = append(out, strings.TrimSpace(rest[:end]))
		rest = rest[end+2:]
	}
}

func invalid(pattern string, err error) error {
	return &domain.OpError{
		Op:      "template.render",
		Kind:    domain.KindInvalidArgument,
		Subject: pattern,
		Err:     err,
	}
}
