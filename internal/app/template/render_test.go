package template

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/aalvaropc/cpstool/internal/domain"
)

func TestRenderStringSingleField(t *testing.T) {
	out, err := RenderString("{{base}}_1", map[string]string{"base": "run"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "run_1" {
		t.Fatalf("expected replaced string, got %q", out)
	}
}

func TestRenderStringMultipleFields(t *testing.T) {
	out, err := RenderString("{{ base }}_{{row}}_{{col}}", map[string]string{
		"base": "scan",
		"row":  "R1",
		"col":  "PFK",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "scan_R1_PFK" {
		t.Fatalf("expected replaced string, got %q", out)
	}
}

func TestRenderStringErrors(t *testing.T) {
	cases := map[string]string{
		"unknown":  "{{base}}_{{seed}}",
		"unclosed": "{{base",
		"empty":    "{{ }}",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := RenderString(in, map[string]string{"base": "run"})
			if !errors.Is(err, domain.ErrInvalidArgument) {
				t.Fatalf("expected invalid argument, got %v", err)
			}
		})
	}
}

func TestFields(t *testing.T) {
	got := Fields("{{base}}/{{ row }}_{{col}}_{{index")
	if diff := cmp.Diff([]string{"base", "row", "col"}, got); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
}
