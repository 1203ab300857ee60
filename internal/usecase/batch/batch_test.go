package batch

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/aalvaropc/cpstool/internal/domain"
	"github.com/aalvaropc/cpstool/internal/modeldoc"
	"github.com/aalvaropc/cpstool/internal/testutil"
	"github.com/aalvaropc/cpstool/internal/usecase/target"
)

func parse(t *testing.T, content string) *modeldoc.Document {
	t.Helper()
	doc, err := modeldoc.Parse("models/toy.cps", []byte(content))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func reportTarget(t *testing.T, doc *modeldoc.Document) string {
	t.Helper()
	n, err := doc.Find(modeldoc.TaskReport(modeldoc.ScheduledTask()))
	if err != nil {
		t.Fatalf("find report: %v", err)
	}
	v, _ := n.Attr("target")
	return v
}

func TestGenerate_NamesAndReports(t *testing.T) {
	doc := parse(t, testutil.ModelCPS)

	vs, err := Generate(doc, 3, WithBase("run"))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	var got []domain.Variant
	for _, v := range vs {
		got = append(got, v.Variant)
	}
	want := []domain.Variant{
		{Index: 1, Name: "run_1", ModelPath: "run_1.cps", ReportPath: "run_1.txt"},
		{Index: 2, Name: "run_2", ModelPath: "run_2.cps", ReportPath: "run_2.txt"},
		{Index: 3, Name: "run_3", ModelPath: "run_3.cps", ReportPath: "run_3.txt"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("variants mismatch (-want +got):\n%s", diff)
	}

	for _, v := range vs {
		if got := reportTarget(t, v.Doc); got != v.ReportPath {
			t.Fatalf("%s: report target = %q, want %q", v.Name, got, v.ReportPath)
		}
	}
	if got := reportTarget(t, doc); got != "result.txt" {
		t.Fatalf("source document changed: report target = %q", got)
	}
}

func TestGenerate_DefaultBaseFromPath(t *testing.T) {
	doc := parse(t, testutil.ModelCPS)

	vs, err := Generate(doc, 1)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if vs[0].ModelPath != "models/toy_1.cps" {
		t.Fatalf("model path = %q", vs[0].ModelPath)
	}
	// The report target is relative to the model file.
	if got := reportTarget(t, vs[0].Doc); got != "toy_1.txt" {
		t.Fatalf("report target = %q", got)
	}
}

func TestGenerate_RejectsNonPositiveCount(t *testing.T) {
	doc := parse(t, testutil.ModelCPS)

	for _, n := range []int{0, -2} {
		_, err := Generate(doc, n)
		if !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("count %d: expected invalid argument, got %v", n, err)
		}
	}
}

func TestGenerate_VariantsAreIndependent(t *testing.T) {
	doc := parse(t, testutil.ModelCPS)

	vs, err := Generate(doc, 2, WithBase("run"))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if err := target.SetOptimizationTarget(vs[0].Doc, "<X>"); err != nil {
		t.Fatalf("edit: %v", err)
	}

	got, err := target.OptimizationTarget(vs[1].Doc)
	if err != nil {
		t.Fatalf("target: %v", err)
	}
	if got != testutil.ObjectiveCPS {
		t.Fatalf("edit leaked into sibling variant: %q", got)
	}
}

func TestGenerate_NamedTask(t *testing.T) {
	doc := parse(t, testutil.TwoOptimizationsCPS)

	vs, err := Generate(doc, 1, WithBase("fine"), WithTask("Optimization fine"))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	n, err := vs[0].Doc.Find(modeldoc.TaskReport(modeldoc.Task("Optimization fine")))
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if v, _ := n.Attr("target"); v != "fine_1.txt" {
		t.Fatalf("report target = %q", v)
	}
	first, _ := vs[0].Doc.Find(modeldoc.TaskReport(modeldoc.Task("Optimization")))
	if v, _ := first.Attr("target"); v != "first.txt" {
		t.Fatalf("other task touched: %q", v)
	}
}

func TestGenerate_SanitizesNames(t *testing.T) {
	doc := parse(t, testutil.ModelCPS)

	vs, err := Generate(doc, 1, WithBase("my run (v2)"))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if vs[0].Name != "myrunv2_1" {
		t.Fatalf("name = %q", vs[0].Name)
	}
}

func TestGeneratePairs(t *testing.T) {
	doc := parse(t, testutil.ModelCPS)
	pairs := []Pair{
		{Row: 0, Col: 0, RowName: "R1", ColName: "R2"},
		{Row: 2, Col: 1, RowName: "R3", ColName: "R2"},
	}

	vs, err := GeneratePairs(doc, pairs, WithBase("scan"), WithJobArray(true))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(vs) != 2 {
		t.Fatalf("expected 2 variants, got %d", len(vs))
	}
	if vs[1].Name != "scan_R3_R2_2" {
		t.Fatalf("name = %q", vs[1].Name)
	}

	expr, err := target.OptimizationTarget(vs[1].Doc)
	if err != nil {
		t.Fatalf("target: %v", err)
	}
	if !strings.Contains(expr, "coefficients[2][1]>") {
		t.Fatalf("objective not updated: %q", expr)
	}
	out := string(vs[1].Doc.Bytes())
	if !strings.Contains(out, `value="CN=Root,Vector=TaskList[Metabolic Control Analysis]"`) {
		t.Fatalf("subtask not switched to MCA:\n%s", out)
	}
	if got := reportTarget(t, vs[1].Doc); got != "scan_R3_R2_2.txt" {
		t.Fatalf("report target = %q", got)
	}
}

func TestGeneratePairs_Empty(t *testing.T) {
	doc := parse(t, testutil.ModelCPS)
	if _, err := GeneratePairs(doc, nil); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}

func TestGenerate_Pattern(t *testing.T) {
	doc := parse(t, testutil.ModelCPS)

	vs, err := Generate(doc, 2, WithBase("out/run"), WithPattern("{{base}}-seed{{index}}"))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if vs[1].ModelPath != "out/runseed2.cps" {
		t.Fatalf("model path = %q", vs[1].ModelPath)
	}

	_, err = Generate(doc, 2, WithPattern("{{base}}_copy"))
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument for a pattern without index, got %v", err)
	}
}

func TestGeneratePairs_Pattern(t *testing.T) {
	doc := parse(t, testutil.ModelCPS)
	pairs := []Pair{{Row: 0, Col: 2, RowName: "R1", ColName: "R3"}}

	vs, err := GeneratePairs(doc, pairs, WithBase("scan"), WithPattern("{{base}}_{{row_index}}x{{col_index}}"))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if vs[0].Name != "scan_0x2" {
		t.Fatalf("name = %q", vs[0].Name)
	}

	_, err = GeneratePairs(doc, pairs, WithPattern("{{base}}_{{row}}"))
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument for a pattern without column, got %v", err)
	}
}

func TestGeneratePairs_RejectsCollidingNames(t *testing.T) {
	doc := parse(t, testutil.ModelCPS)
	pairs := []Pair{
		{Row: 0, Col: 1, RowName: "a_b", ColName: "c"},
		{Row: 1, Col: 0, RowName: "a", ColName: "b_c"},
	}

	_, err := GeneratePairs(doc, pairs, WithBase("scan"))
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
	for _, want := range []string{"scan_a_b_c", "(a_b, c)", "(a, b_c)"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %q in error, got %v", want, err)
		}
	}

	vs, err := GeneratePairs(doc, pairs, WithBase("scan"), WithJobArray(true))
	if err != nil {
		t.Fatalf("job array names should be distinct: %v", err)
	}
	if vs[0].ModelPath == vs[1].ModelPath {
		t.Fatalf("model paths collide: %q", vs[0].ModelPath)
	}
}

func TestGeneratePairs_SanitizedNamesCollide(t *testing.T) {
	doc := parse(t, testutil.ModelCPS)
	pairs := []Pair{
		{Row: 0, Col: 1, RowName: "A(c)", ColName: "R1"},
		{Row: 1, Col: 1, RowName: "Ac", ColName: "R1"},
	}

	_, err := GeneratePairs(doc, pairs, WithBase("scan"))
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}
