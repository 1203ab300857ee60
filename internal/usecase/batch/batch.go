// Package batch fans a model out into independent variants, each with its
// own output file, ready to be written and handed to a parallel runner.
package batch

import (
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/aalvaropc/cpstool/internal/app/template"
	"github.com/aalvaropc/cpstool/internal/domain"
	"github.com/aalvaropc/cpstool/internal/modeldoc"
	"github.com/aalvaropc/cpstool/internal/usecase/target"
)

const (
	modelExt  = ".cps"
	reportExt = ".txt"

	// DefaultPattern names the copies made by Generate.
	DefaultPattern = "{{base}}_{{index}}"
	// DefaultPairPattern names the variants made by GeneratePairs.
	DefaultPairPattern = "{{base}}_{{row}}_{{col}}"
)

// Variant is a generated model: its naming plus a private document copy.
type Variant struct {
	domain.Variant
	Doc *modeldoc.Document
}

type options struct {
	base     string
	task     string
	pattern  string
	jobArray bool
}

type Option func(*options)

// WithBase sets the name every variant is derived from. Defaults to the
// source path without ".cps".
func WithBase(base string) Option {
	return func(o *options) { o.base = base }
}

// WithTask selects the task whose report is redirected. By default the
// scheduled task is used.
func WithTask(name string) Option {
	return func(o *options) { o.task = name }
}

// WithPattern names variants from a {{field}} pattern. Generate provides
// base and index; GeneratePairs adds row, col, row_index and col_index.
func WithPattern(p string) Option {
	return func(o *options) { o.pattern = p }
}

// WithJobArray appends the running index to pair names so cluster job
// arrays can address files by number.
func WithJobArray(enabled bool) Option {
	return func(o *options) { o.jobArray = enabled }
}

func collect(doc *modeldoc.Document, opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if strings.TrimSpace(o.base) == "" {
		o.base = strings.TrimSuffix(doc.Path(), modelExt)
	}
	return o
}

// Generate returns count deep copies of doc named <base>_1 … <base>_count,
// each reporting to its own <name>.txt.
func Generate(doc *modeldoc.Document, count int, opts ...Option) ([]Variant, error) {
	if count < 1 {
		return nil, domain.Errorf("batch.generate", domain.KindInvalidArgument,
			"count must be >= 1, got %d", count)
	}
	if doc == nil {
		return nil, domain.Errorf("batch.generate", domain.KindInvalidArgument, "no document")
	}

	o := collect(doc, opts)
	pattern := o.pattern
	if pattern == "" {
		pattern = DefaultPattern
	}
	if !hasField(pattern, "index") {
		return nil, domain.Errorf("batch.generate", domain.KindInvalidArgument,
			"name pattern %q must contain {{index}}", pattern)
	}

	sel := modeldoc.TaskReport(modeldoc.ScheduledTask())
	if o.task != "" {
		sel = modeldoc.TaskReport(modeldoc.Task(o.task))
	}

	// Fail on the source document before copying anything.
	if _, err := doc.Find(sel); err != nil {
		return nil, err
	}

	taken := map[string]int{}
	out := make([]Variant, 0, count)
	for i := 1; i <= count; i++ {
		name, err := template.RenderString(pattern, map[string]string{
			"base":  o.base,
			"index": strconv.Itoa(i),
		})
		if err != nil {
			return nil, err
		}
		name = fileName(name)
		if prev, ok := taken[name]; ok {
			return nil, &domain.OpError{
				Op:      "batch.generate",
				Kind:    domain.KindInvalidArgument,
				Subject: name,
				Err:     fmt.Errorf("variants %d and %d share the name", prev, i),
			}
		}
		taken[name] = i
		v := newVariant(doc, i, name)

		rep, err := v.Doc.Find(sel)
		if err != nil {
			return nil, err
		}
		if err := v.Doc.SetAttr(rep, "target", filepath.Base(v.ReportPath)); err != nil {
			return nil, fmt.Errorf("variant %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// Pair is one MCA objective: row and column index plus the names used for
// the output file.
type Pair struct {
	Row, Col         int
	RowName, ColName string
}

// GeneratePairs returns one variant per pair, with the objective pointed at
// [Row][Col], the optimization evaluating the MCA task and the report
// redirected to <base>_<RowName>_<ColName>.txt.
func GeneratePairs(doc *modeldoc.Document, pairs []Pair, opts ...Option) ([]Variant, error) {
	if len(pairs) == 0 {
		return nil, domain.Errorf("batch.generate_pairs", domain.KindInvalidArgument, "no objective pairs")
	}
	if doc == nil {
		return nil, domain.Errorf("batch.generate_pairs", domain.KindInvalidArgument, "no document")
	}

	o := collect(doc, opts)
	pattern := o.pattern
	if pattern == "" {
		pattern = DefaultPairPattern
	}
	if o.jobArray {
		pattern += "_{{index}}"
	}
	unique := hasField(pattern, "index") ||
		(hasField(pattern, "row", "row_index") && hasField(pattern, "col", "col_index"))
	if !unique {
		return nil, domain.Errorf("batch.generate_pairs", domain.KindInvalidArgument,
			"name pattern %q must contain {{index}} or both a row and a column field", pattern)
	}

	topts := []target.Option{target.WithTask(o.task)}

	taken := map[string]int{}
	out := make([]Variant, 0, len(pairs))
	for i, p := range pairs {
		idx := i + 1
		name, err := template.RenderString(pattern, map[string]string{
			"base":      o.base,
			"index":     strconv.Itoa(idx),
			"row":       p.RowName,
			"col":       p.ColName,
			"row_index": strconv.Itoa(p.Row),
			"col_index": strconv.Itoa(p.Col),
		})
		if err != nil {
			return nil, err
		}
		name = fileName(name)
		// Names containing underscores or stripped characters can collide.
		if prev, ok := taken[name]; ok {
			q := pairs[prev-1]
			return nil, &domain.OpError{
				Op:      "batch.generate_pairs",
				Kind:    domain.KindInvalidArgument,
				Subject: name,
				Err: fmt.Errorf("pairs (%s, %s) and (%s, %s) share the name; use {{row_index}}/{{col_index}} or the job array suffix",
					q.RowName, q.ColName, p.RowName, p.ColName),
			}
		}
		taken[name] = idx
		v := newVariant(doc, idx, name)

		if err := target.SetMCAObjective(v.Doc, p.Row, p.Col, topts...); err != nil {
			return nil, fmt.Errorf("variant %d (%s): %w", idx, v.Name, err)
		}
		if err := target.SetSubtaskToMCA(v.Doc, topts...); err != nil {
			return nil, fmt.Errorf("variant %d (%s): %w", idx, v.Name, err)
		}
		if err := target.SetReportTarget(v.Doc, filepath.Base(v.ReportPath), topts...); err != nil {
			return nil, fmt.Errorf("variant %d (%s): %w", idx, v.Name, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// hasField reports whether the pattern uses any of the fields.
func hasField(pattern string, fields ...string) bool {
	for _, f := range template.Fields(pattern) {
		if slices.Contains(fields, f) {
			return true
		}
	}
	return false
}

// fileName sanitizes the last path element of a rendered name.
func fileName(name string) string {
	dir, file := filepath.Split(name)
	return dir + sanitize(file)
}

func newVariant(doc *modeldoc.Document, idx int, name string) Variant {
	return Variant{
		Variant: domain.Variant{
			Index:      idx,
			Name:       name,
			ModelPath:  name + modelExt,
			ReportPath: name + reportExt,
		},
		Doc: doc.Clone(),
	}
}

// sanitize keeps a conservative file name: letters, digits and ._
func sanitize(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '_':
			b.WriteRune(r)
		}
	}
	return b.String()
}
