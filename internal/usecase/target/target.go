// Package target edits the optimization settings of a COPASI model.
//
// Every edit locates its element through a role selector scoped to one
// optimization task. When a model has several optimization tasks the caller
// must name one with WithTask.
package target

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/aalvaropc/cpstool/internal/domain"
	"github.com/aalvaropc/cpstool/internal/modeldoc"
)

const mcaSubtask = "CN=Root,Vector=TaskList[Metabolic Control Analysis]"

var (
	indicesRe = regexp.MustCompile(`\[\d*\]\[\d*\]`)
	arrayRe   = regexp.MustCompile(`Array=[^\[]+(\[\d*\]\[\d*\])`)
)

type options struct {
	task string
}

type Option func(*options)

// WithTask restricts edits to the optimization task with this name.
func WithTask(name string) Option {
	return func(o *options) { o.task = name }
}

func collect(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// SetOptimizationTarget replaces the objective expression of the
// optimization task. Nothing else in the document changes, and applying the
// same expression twice yields the same document. expr must be non-empty
// and carry no surrounding whitespace, so that it reads back unchanged.
func SetOptimizationTarget(doc *modeldoc.Document, expr string, opts ...Option) error {
	if expr == "" || strings.TrimSpace(expr) != expr {
		return &domain.OpError{
			Op:      "target.set_optimization_target",
			Kind:    domain.KindInvalidArgument,
			Subject: fmt.Sprintf("%q", expr),
			Err:     fmt.Errorf("expression is empty or has surrounding whitespace"),
		}
	}

	o := collect(opts)

	n, err := doc.Find(modeldoc.ObjectiveExpression(o.task))
	if err != nil {
		return err
	}
	if n.TextContent() == expr {
		return nil
	}
	return doc.ReplaceText(n, expr)
}

// OptimizationTarget returns the current objective expression.
func OptimizationTarget(doc *modeldoc.Document, opts ...Option) (string, error) {
	o := collect(opts)

	n, err := doc.Find(modeldoc.ObjectiveExpression(o.task))
	if err != nil {
		return "", err
	}
	return n.TextContent(), nil
}

// SetMCAObjective points the objective at element [row][col] of its MCA array.
func SetMCAObjective(doc *modeldoc.Document, row, col int, opts ...Option) error {
	if row < 0 || col < 0 {
		return domain.Errorf("target.set_mca_objective", domain.KindInvalidArgument,
			"indices must be >= 0, got [%d][%d]", row, col)
	}

	expr, err := OptimizationTarget(doc, opts...)
	if err != nil {
		return err
	}

	matches := indicesRe.FindAllStringIndex(expr, -1)
	switch len(matches) {
	case 0:
		return &domain.OpError{
			Op:      "target.set_mca_objective",
			Kind:    domain.KindFormat,
			Path:    doc.Path(),
			Subject: "ObjectiveExpression",
			Err:     fmt.Errorf("objective %q has no [row][col] reference; is the model configured for MCA optimization?", expr),
		}
	case 1:
	default:
		return &domain.OpError{
			Op:      "target.set_mca_objective",
			Kind:    domain.KindAmbiguousTarget,
			Path:    doc.Path(),
			Subject: "ObjectiveExpression",
			Err:     fmt.Errorf("objective %q has %d [row][col] references", expr, len(matches)),
		}
	}

	m := matches[0]
	next := expr[:m[0]] + "[" + strconv.Itoa(row) + "][" + strconv.Itoa(col) + "]" + expr[m[1]:]
	return SetOptimizationTarget(doc, next, opts...)
}

// SetTargetType switches the MCA array the objective reads from, keeping
// its indices.
func SetTargetType(doc *modeldoc.Document, tt domain.TargetType, opts ...Option) error {
	array, err := tt.ArrayName()
	if err != nil {
		return err
	}

	expr, err := OptimizationTarget(doc, opts...)
	if err != nil {
		return err
	}

	m := arrayRe.FindStringSubmatchIndex(expr)
	if m == nil {
		return &domain.OpError{
			Op:      "target.set_target_type",
			Kind:    domain.KindFormat,
			Path:    doc.Path(),
			Subject: "ObjectiveExpression",
			Err:     fmt.Errorf("objective %q does not reference an MCA array", expr),
		}
	}

	next := expr[:m[0]] + "Array=" + array + expr[m[2]:]
	return SetOptimizationTarget(doc, next, opts...)
}

// SetMaximize sets whether the task maximizes (true) or minimizes the target.
func SetMaximize(doc *modeldoc.Document, maximize bool, opts ...Option) error {
	v := "0"
	if maximize {
		v = "1"
	}
	return setProblemParameter(doc, "Maximize", v, opts)
}

// SetSubtaskToMCA makes the optimization evaluate the MCA task.
func SetSubtaskToMCA(doc *modeldoc.Document, opts ...Option) error {
	return setProblemParameter(doc, "Subtask", mcaSubtask, opts)
}

// SetReportTarget changes the output file of the task's report.
func SetReportTarget(doc *modeldoc.Document, path string, opts ...Option) error {
	o := collect(opts)

	n, err := doc.Find(modeldoc.TaskReport(modeldoc.OptimizationTask(o.task)))
	if err != nil {
		return err
	}
	return doc.SetAttr(n, "target", path)
}

func setProblemParameter(doc *modeldoc.Document, name, value string, opts []Option) error {
	o := collect(opts)

	n, err := doc.Find(modeldoc.ProblemParameter(modeldoc.OptimizationTask(o.task), name))
	if err != nil {
		return err
	}
	if cur, _ := n.Attr("value"); cur == value {
		return nil
	}
	return doc.SetAttr(n, "value", value)
}
