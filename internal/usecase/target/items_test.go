package target

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/aalvaropc/cpstool/internal/domain"
	"github.com/aalvaropc/cpstool/internal/testutil"
)

func TestParseItemRef(t *testing.T) {
	cases := []struct {
		in, name, param string
	}{
		{"Vmax", "Vmax", ""},
		{"R1:k1", "R1", "k1"},
		{" R2:Km ", "R2", "Km"},
	}
	for _, c := range cases {
		name, param, err := ParseItemRef(c.in)
		if err != nil {
			t.Fatalf("%q: %v", c.in, err)
		}
		if name != c.name || param != c.param {
			t.Fatalf("%q: expected (%q, %q), got (%q, %q)", c.in, c.name, c.param, name, param)
		}
	}

	if _, _, err := ParseItemRef(":k1"); !domain.IsKind(err, domain.KindInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}

func TestSetOptimizationItem_ChangesOnlyGivenBounds(t *testing.T) {
	doc := parse(t, testutil.ItemsCPS)

	err := SetOptimizationItem(doc, Item{Name: "R1", Parameter: "k1", Lower: "0.01", Start: "0.5"})
	if err != nil {
		t.Fatalf("set item: %v", err)
	}

	want := []string{
		`<Parameter name="LowerBound" type="cn" value="0.01"/>`,
		`<Parameter name="StartValue" type="float" value="0.5"/>`,
	}
	if diff := cmp.Diff(want, lineDiff(testutil.ItemsCPS, string(doc.Bytes()))); diff != "" {
		t.Fatalf("unexpected changed lines (-want +got):\n%s", diff)
	}
}

func TestSetOptimizationItem_GlobalQuantity(t *testing.T) {
	doc := parse(t, testutil.ItemsCPS)

	if err := SetOptimizationItem(doc, Item{Name: "Vmax", Upper: "inf"}); err != nil {
		t.Fatalf("set item: %v", err)
	}

	want := []string{`<Parameter name="UpperBound" type="cn" value="inf"/>`}
	if diff := cmp.Diff(want, lineDiff(testutil.ItemsCPS, string(doc.Bytes()))); diff != "" {
		t.Fatalf("unexpected changed lines (-want +got):\n%s", diff)
	}
}

func TestSetOptimizationItem_Errors(t *testing.T) {
	doc := parse(t, testutil.ItemsCPS)

	if err := SetOptimizationItem(doc, Item{Name: "R1", Parameter: "k1", Start: "fast"}); !domain.IsKind(err, domain.KindInvalidArgument) {
		t.Fatalf("expected invalid argument for a non-numeric start, got %v", err)
	}
	// R1 is only fitted through its parameters.
	if err := SetOptimizationItem(doc, Item{Name: "R1", Start: "1"}); !domain.IsKind(err, domain.KindAmbiguousTarget) {
		t.Fatalf("expected no match for R1 without a parameter, got %v", err)
	}
	if err := SetOptimizationItem(doc, Item{Name: "R3", Parameter: "k1", Start: "1"}); !domain.IsKind(err, domain.KindAmbiguousTarget) {
		t.Fatalf("expected no match for R3, got %v", err)
	}
	if string(doc.Bytes()) != testutil.ItemsCPS {
		t.Fatalf("expected document untouched after failed edits")
	}
}

func TestDeleteOptimizationItem_LeavesNoBlankLine(t *testing.T) {
	doc := parse(t, testutil.ItemsCPS)

	if err := DeleteOptimizationItem(doc, "R2", "k1"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	item := `
          <ParameterGroup name="OptimizationItem">
            <Parameter name="LowerBound" type="cn" value="1e-06"/>
            <Parameter name="ObjectCN" type="cn" value="CN=Root,Model=Toy,Vector=Reactions[R2],ParameterGroup=Parameters,Parameter=k1,Reference=Value"/>
            <Parameter name="StartValue" type="float" value="0.2"/>
            <Parameter name="UpperBound" type="cn" value="1e+06"/>
          </ParameterGroup>`
	if !strings.Contains(testutil.ItemsCPS, item) {
		t.Fatalf("fixture does not contain the R2 item")
	}
	want := strings.Replace(testutil.ItemsCPS, item, "", 1)

	if diff := cmp.Diff(want, string(doc.Bytes())); diff != "" {
		t.Fatalf("unexpected document (-want +got):\n%s", diff)
	}
	if err := DeleteOptimizationItem(doc, "R2", "k1"); !domain.IsKind(err, domain.KindAmbiguousTarget) {
		t.Fatalf("expected second delete to find nothing, got %v", err)
	}
}

func TestSetReactionParameter_EveryParameterSet(t *testing.T) {
	doc := parse(t, testutil.ItemsCPS)

	n, err := SetReactionParameter(doc, "R1", "k1", 0.5)
	if err != nil {
		t.Fatalf("set parameter: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 values written, got %d", n)
	}

	want := []string{
		`<ModelParameter cn="CN=Root,Model=Toy,Vector=Reactions[R1],ParameterGroup=Parameters,Parameter=k1" value="0.5" type="ReactionParameter" simulationType="fixed"/>`,
		`<ModelParameter cn="CN=Root,Model=Toy,Vector=Reactions[R1],ParameterGroup=Parameters,Parameter=k1" value="0.5" type="ReactionParameter" simulationType="fixed"/>`,
	}
	if diff := cmp.Diff(want, lineDiff(testutil.ItemsCPS, string(doc.Bytes()))); diff != "" {
		t.Fatalf("unexpected changed lines (-want +got):\n%s", diff)
	}
}

func TestSetReactionParameter_UnknownIsNotFound(t *testing.T) {
	doc := parse(t, testutil.ItemsCPS)

	if _, err := SetReactionParameter(doc, "R3", "k1", 1); !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	// k1 must not match k10 or a prefix of another name.
	if _, err := SetReactionParameter(doc, "R1", "k", 1); !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected not found for a parameter prefix, got %v", err)
	}
}
