package extract

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/aalvaropc/cpstool/internal/domain"
)

func rows() []domain.RecordRow {
	return []domain.RecordRow{
		{Source: "ss", Type: domain.RecordConcentration, Name: "ATP", Value: 2.5, Unit: "mmol/ml"},
		{Source: "ss", Type: domain.RecordConcentration, Name: "ADP", Value: 0.5, Unit: "mmol/ml"},
		{Source: "ss", Type: domain.RecordFlux, Name: "R1", Value: 1.25, Unit: "mmol/s"},
	}
}

func TestQuery_FilterByType(t *testing.T) {
	got, err := Query(rows(), `$[?(@.type=="flux")].name`)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if diff := cmp.Diff([]any{"R1"}, got); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestQuery_FilterByValue(t *testing.T) {
	got, err := Query(rows(), `$[?(@.value > 1)].name`)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if diff := cmp.Diff([]any{"ATP", "R1"}, got); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestQuery_CombinedFilter(t *testing.T) {
	got, err := Query(rows(), `$[?(@.type=="concentration" && @.value < 1)].name`)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if diff := cmp.Diff([]any{"ADP"}, got); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestPick_NumericFilter(t *testing.T) {
	vals, results := Pick(rows(), map[string]string{"big": `$[?(@.value >= 2)].name`})
	if !results[0].Success {
		t.Fatalf("pick failed: %+v", results[0])
	}
	if vals["big"] != "ATP" {
		t.Fatalf("expected big=ATP, got %q", vals["big"])
	}
}

func TestQuery_InvalidExpression(t *testing.T) {
	_, err := Query(rows(), "")
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument for empty expression, got %v", err)
	}

	_, err = Query(rows(), "$[?(@.value >")
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument for bad expression, got %v", err)
	}
}

func TestPick_EmptyRules(t *testing.T) {
	vals, results := Pick(rows(), nil)
	if len(vals) != 0 || len(results) != 0 {
		t.Fatalf("expected nothing, got %v %v", vals, results)
	}
}

func TestPick_SuccessAndFailure(t *testing.T) {
	rules := map[string]string{
		"atp":     `$[?(@.name=="ATP")].value`,
		"missing": `$[?(@.name=="GTP")].value`,
		"blank":   "  ",
	}

	vals, results := Pick(rows(), rules)

	if vals["atp"] != "2.5" {
		t.Fatalf("expected atp=2.5, got %q", vals["atp"])
	}
	if _, ok := vals["missing"]; ok {
		t.Fatalf("missing should not be picked")
	}

	// sorted by name
	want := []string{"atp", "blank", "missing"}
	var got []string
	for _, r := range results {
		got = append(got, r.Name)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("result order mismatch (-want +got):\n%s", diff)
	}
	if !results[0].Success || results[1].Success || results[2].Success {
		t.Fatalf("unexpected outcomes: %+v", results)
	}
}

func TestParseRules(t *testing.T) {
	got, err := ParseRules([]string{"atp=$[0].value", "expr=$[?(@.x==1)]"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := map[string]string{"atp": "$[0].value", "expr": "$[?(@.x==1)]"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("rules mismatch (-want +got):\n%s", diff)
	}

	if _, err := ParseRules([]string{"novalue"}); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}
