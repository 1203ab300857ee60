package modeldoc

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/aalvaropc/cpstool/internal/domain"
	"github.com/aalvaropc/cpstool/internal/testutil"
)

func mustParse(t *testing.T, content string) *Document {
	t.Helper()
	doc, err := Parse("model.cps", []byte(content))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func TestLoad_MissingFileIsNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.cps"))
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestLoad_TruncatedFileIsFormatError(t *testing.T) {
	path := filepath.Join("testdata", "truncated.cps")
	_, err := Load(path)
	if !errors.Is(err, domain.ErrFormat) {
		t.Fatalf("expected format error, got %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("expected path in error, got %v", err)
	}
}

func TestParse_RejectsNonMarkup(t *testing.T) {
	for name, content := range map[string]string{
		"empty":      "",
		"plain text": "A steady state with given resolution was found.\n",
		"two roots":  "<a/><b/>",
		"mismatched": "<a><b></a></b>",
	} {
		if _, err := Parse(name, []byte(content)); !domain.IsKind(err, domain.KindFormat) {
			t.Fatalf("%s: expected format error, got %v", name, err)
		}
	}
}

func TestBytes_UnmodifiedRoundTripIsIdentical(t *testing.T) {
	doc := mustParse(t, testutil.ModelCPS)
	if diff := cmp.Diff(testutil.ModelCPS, string(doc.Bytes())); diff != "" {
		t.Fatalf("round trip changed bytes (-want +got):\n%s", diff)
	}
}

func TestReplaceText_ChangesOnlyTheValue(t *testing.T) {
	doc := mustParse(t, testutil.ModelCPS)

	obj, err := doc.Find(ObjectiveExpression(""))
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if obj.TextContent() != testutil.ObjectiveCPS {
		t.Fatalf("unexpected objective %q", obj.TextContent())
	}

	if err := doc.ReplaceText(obj, "<CN=Root,Model=Toy,Vector=Values[J & K],Reference=Value>"); err != nil {
		t.Fatalf("replace: %v", err)
	}

	oldEscaped := "&lt;" + strings.Trim(testutil.ObjectiveCPS, "<>") + "&gt;"
	want := strings.Replace(testutil.ModelCPS, oldEscaped, "&lt;CN=Root,Model=Toy,Vector=Values[J &amp; K],Reference=Value&gt;", 1)
	if diff := cmp.Diff(want, string(doc.Bytes())); diff != "" {
		t.Fatalf("unexpected output (-want +got):\n%s", diff)
	}

	again, err := Parse("again.cps", doc.Bytes())
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	obj2, err := again.Find(ObjectiveExpression(""))
	if err != nil {
		t.Fatalf("find after reparse: %v", err)
	}
	if got := obj2.TextContent(); got != "<CN=Root,Model=Toy,Vector=Values[J & K],Reference=Value>" {
		t.Fatalf("unexpected text after reparse: %q", got)
	}
}

func TestReplaceText_SelfClosingElement(t *testing.T) {
	doc := mustParse(t, `<root><v name="x"/></root>`)
	n, err := doc.Find(Element("v", "name", "x"))
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if err := doc.ReplaceText(n, "42"); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if got := string(doc.Bytes()); got != `<root><v name="x">42</v></root>` {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestReplaceText_RefusesMixedContent(t *testing.T) {
	doc := mustParse(t, testutil.ModelCPS)
	task, err := doc.Find(OptimizationTask(""))
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if err := doc.ReplaceText(task, "x"); !domain.IsKind(err, domain.KindFormat) {
		t.Fatalf("expected format error, got %v", err)
	}
}

func TestSetAttr_SplicesOnlyTheValue(t *testing.T) {
	doc := mustParse(t, testutil.ModelCPS)
	rep, err := doc.Find(TaskReport(ScheduledTask()))
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if err := doc.SetAttr(rep, "target", "run_1.txt"); err != nil {
		t.Fatalf("set attr: %v", err)
	}

	want := strings.Replace(testutil.ModelCPS, `target="result.txt"`, `target="run_1.txt"`, 1)
	if diff := cmp.Diff(want, string(doc.Bytes())); diff != "" {
		t.Fatalf("unexpected output (-want +got):\n%s", diff)
	}
	if v, _ := rep.Attr("target"); v != "run_1.txt" {
		t.Fatalf("expected attr value updated, got %q", v)
	}

	if err := doc.SetAttr(rep, "nonexistent", "x"); !domain.IsKind(err, domain.KindFormat) {
		t.Fatalf("expected format error for missing attribute, got %v", err)
	}
}

func TestEdits_RejectForeignNodes(t *testing.T) {
	doc := mustParse(t, testutil.ModelCPS)
	other := doc.Clone()

	obj, err := doc.Find(ObjectiveExpression(""))
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if err := other.ReplaceText(obj, "x"); !domain.IsKind(err, domain.KindInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}

func TestClone_IsIndependent(t *testing.T) {
	doc := mustParse(t, testutil.ModelCPS)
	c := doc.Clone()

	rep, err := c.Find(TaskReport(ScheduledTask()))
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if err := c.SetAttr(rep, "target", "clone.txt"); err != nil {
		t.Fatalf("set attr: %v", err)
	}

	if string(doc.Bytes()) != testutil.ModelCPS {
		t.Fatalf("expected original untouched")
	}
	if !strings.Contains(string(c.Bytes()), `target="clone.txt"`) {
		t.Fatalf("expected clone edited")
	}
}

func TestFind_ZeroAndManyAreAmbiguous(t *testing.T) {
	doc := mustParse(t, testutil.TwoOptimizationsCPS)

	if _, err := doc.Find(ObjectiveExpression("")); !errors.Is(err, domain.ErrAmbiguousTarget) {
		t.Fatalf("expected ambiguous target for two matches, got %v", err)
	}
	if _, err := doc.Find(ObjectiveExpression("Missing")); !errors.Is(err, domain.ErrAmbiguousTarget) {
		t.Fatalf("expected ambiguous target for zero matches, got %v", err)
	}
	n, err := doc.Find(ObjectiveExpression("Optimization fine"))
	if err != nil {
		t.Fatalf("find with task name: %v", err)
	}
	if !strings.Contains(n.TextContent(), "Values[K]") {
		t.Fatalf("unexpected element %q", n.TextContent())
	}
}

func TestFind_IgnoresMethodParameters(t *testing.T) {
	doc := mustParse(t, testutil.ModelCPS)
	all := doc.FindAll(Element("Parameter"))
	if len(all) < 5 {
		t.Fatalf("expected several parameters, got %d", len(all))
	}
	if _, err := doc.Find(ProblemParameter(OptimizationTask(""), "Iteration Limit")); err == nil {
		t.Fatalf("expected method parameter not to match a problem parameter")
	}
}

func TestSerialize_WritesFile(t *testing.T) {
	doc := mustParse(t, testutil.ModelCPS)
	out := filepath.Join(t.TempDir(), "nested", "out.cps")

	if err := doc.Serialize(out); err != nil {
		t.Fatalf("serialize: %v", err)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(b) != testutil.ModelCPS {
		t.Fatalf("serialized content differs")
	}
	if _, err := os.Stat(out + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("expected tmp file removed, stat err=%v", err)
	}
}

func TestSerialize_FailureIsIOError(t *testing.T) {
	doc := mustParse(t, testutil.ModelCPS)
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	err := doc.Serialize(filepath.Join(blocker, "out.cps"))
	if !domain.IsKind(err, domain.KindIO) {
		t.Fatalf("expected io error, got %v", err)
	}
}
