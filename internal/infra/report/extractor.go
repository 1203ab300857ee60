package report

import (
	"bufio"
	"errors"
	"fmt"
	"iter"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/aalvaropc/cpstool/internal/domain"
	"github.com/aalvaropc/cpstool/internal/ports"
)

const maxLine = 4 * 1024 * 1024

// Extractor reads COPASI report files line by line.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

var _ ports.ResultExtractor = (*Extractor)(nil)

// Extract yields the records of a report. The sequence reopens the file each
// time it is ranged over. The first error ends the sequence.
func (e *Extractor) Extract(path string, kind domain.ResultKind) iter.Seq2[domain.Record, error] {
	return func(yield func(domain.Record, error) bool) {
		p, err := newParser(path, kind)
		if err != nil {
			yield(nil, err)
			return
		}

		f, err := os.Open(path)
		if err != nil {
			yield(nil, &domain.OpError{
				Op:   "report.extract",
				Kind: domain.KindNotFound,
				Path: path,
				Err:  err,
			})
			return
		}
		defer f.Close()

		sc := bufio.NewScanner(f)
		sc.Buffer(make([]byte, 0, 64*1024), maxLine)
		for sc.Scan() {
			rec, err := p.line(sc.Text())
			if err != nil {
				yield(nil, err)
				return
			}
			if rec != nil && !yield(rec, nil) {
				return
			}
		}
		if err := sc.Err(); err != nil {
			yield(nil, &domain.OpError{
				Op:   "report.extract",
				Kind: domain.KindIO,
				Path: path,
				Err:  err,
			})
			return
		}

		if err := p.finish(); err != nil {
			yield(nil, err)
		}
	}
}

// ExtractAll collects every record, or returns the first error.
func (e *Extractor) ExtractAll(path string, kind domain.ResultKind) ([]domain.Record, error) {
	var out []domain.Record
	for rec, err := range e.Extract(path, kind) {
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

type section struct {
	id     string
	header string
	row    func(name, raw string, value float64, unit string, extra []string) (domain.Record, error)
}

var (
	concentrations = section{
		id:     "concentrations",
		header: "Species\tConcentration",
		row: func(name, raw string, v float64, unit string, _ []string) (domain.Record, error) {
			return domain.ConcentrationRecord{Species: name, Value: v, Unit: unit, Raw: raw}, nil
		},
	}
	fluxes = section{
		id:     "fluxes",
		header: "Reaction\tFlux",
		row: func(name, raw string, v float64, unit string, _ []string) (domain.Record, error) {
			return domain.FluxRecord{Reaction: name, Value: v, Unit: unit, Raw: raw}, nil
		},
	}
	parameters = section{
		id:     "parameters",
		header: "Parameter\tValue",
		row: func(name, raw string, v float64, _ string, extra []string) (domain.Record, error) {
			rec := domain.MCAOptimizationRecord{Parameter: name, Value: v, Raw: raw}
			if len(extra) > 0 && strings.TrimSpace(extra[0]) != "" {
				c, err := parseNumber(extra[0])
				if err != nil {
					return nil, fmt.Errorf("contribution %q: %w", extra[0], err)
				}
				rec.Contribution = domain.Some(c)
			}
			return rec, nil
		},
	}
)

// SteadyStateFound opens every steady-state report that converged.
const SteadyStateFound = "A steady state with given resolution was found."

const objectivePrefix = domain.ObjectiveRecordName + ":"

type parser struct {
	path     string
	kind     domain.ResultKind
	sections []section
	seen     map[string]bool

	active *section
	unit   string
	lineNo int

	// statusSeen is set once the first non-blank line has been checked.
	statusSeen bool
}

func newParser(path string, kind domain.ResultKind) (*parser, error) {
	p := &parser{path: path, kind: kind, seen: map[string]bool{}}
	switch kind {
	case domain.KindSteadyState:
		p.sections = []section{concentrations, fluxes}
	case domain.KindMCAOptimization:
		p.sections = []section{parameters}
	default:
		return nil, &domain.OpError{
			Op:   "report.extract",
			Kind: domain.KindInvalidArgument,
			Path: path,
			Err:  fmt.Errorf("unknown result kind %q", kind),
		}
	}
	return p, nil
}

func (p *parser) line(raw string) (domain.Record, error) {
	p.lineNo++
	line := strings.TrimSpace(raw)

	if p.kind == domain.KindSteadyState && !p.statusSeen {
		if line == "" {
			return nil, nil
		}
		p.statusSeen = true
		if !strings.HasPrefix(line, SteadyStateFound) {
			return nil, &domain.OpError{
				Op:      "report.extract",
				Kind:    domain.KindFormat,
				Path:    p.path,
				Subject: fmt.Sprintf("status line %q", line),
				Err:     domain.ErrNoSteadyState,
			}
		}
		return nil, nil
	}

	if p.active != nil {
		if line == "" {
			p.active = nil
			return nil, nil
		}
		return p.row(line)
	}

	if p.kind == domain.KindMCAOptimization && strings.HasPrefix(line, objectivePrefix) {
		raw := strings.TrimSpace(strings.TrimPrefix(line, objectivePrefix))
		v, err := parseNumber(raw)
		if err != nil {
			return nil, p.rowError(domain.ObjectiveRecordName, err)
		}
		return domain.MCAOptimizationRecord{Parameter: domain.ObjectiveRecordName, Value: v, Raw: raw}, nil
	}

	for i := range p.sections {
		s := &p.sections[i]
		if !strings.HasPrefix(line, s.header) {
			continue
		}
		if p.seen[s.id] {
			return nil, &domain.OpError{
				Op:      "report.extract",
				Kind:    domain.KindFormat,
				Path:    p.path,
				Subject: fmt.Sprintf("line %d", p.lineNo),
				Err:     fmt.Errorf("%s section appears twice (report written with append?)", s.id),
			}
		}
		p.seen[s.id] = true
		p.active = s
		p.unit = headerUnit(line)
		return nil, nil
	}
	return nil, nil
}

func (p *parser) row(line string) (domain.Record, error) {
	fields := strings.Split(line, "\t")
	name := strings.TrimSpace(fields[0])
	if len(fields) < 2 || strings.TrimSpace(fields[1]) == "" {
		return nil, p.rowError(name, errors.New("missing value"))
	}

	raw := strings.TrimSpace(fields[1])
	v, err := parseNumber(raw)
	if err != nil {
		return nil, p.rowError(name, err)
	}

	rec, err := p.active.row(name, raw, v, p.unit, fields[2:])
	if err != nil {
		return nil, p.rowError(name, err)
	}
	return rec, nil
}

func (p *parser) rowError(name string, err error) error {
	return &domain.OpError{
		Op:      "report.extract",
		Kind:    domain.KindFormat,
		Path:    p.path,
		Subject: fmt.Sprintf("row %q, line %d", name, p.lineNo),
		Err:     err,
	}
}

func (p *parser) finish() error {
	if p.kind == domain.KindSteadyState && !p.statusSeen {
		return &domain.OpError{
			Op:      "report.extract",
			Kind:    domain.KindFormat,
			Path:    p.path,
			Subject: "status line",
			Err:     fmt.Errorf("%w: report is empty", domain.ErrNoSteadyState),
		}
	}

	var missing []string
	for _, s := range p.sections {
		if !p.seen[s.id] {
			missing = append(missing, s.id)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &domain.OpError{
		Op:   "report.extract",
		Kind: domain.KindFormat,
		Path: p.path,
		Err: fmt.Errorf("missing %s section(s) for %s report",
			strings.Join(missing, ", "), p.kind),
	}
}

// headerUnit pulls "mmol/ml" out of "Species\tConcentration (mmol/ml)\t...".
func headerUnit(header string) string {
	fields := strings.Split(header, "\t")
	if len(fields) < 2 {
		return domain.UnitUnspecified
	}
	f := fields[1]
	i := strings.Index(f, "(")
	j := strings.LastIndex(f, ")")
	if i < 0 || j <= i+1 {
		return domain.UnitUnspecified
	}
	return strings.TrimSpace(f[i+1 : j])
}

// parseNumber accepts Go float syntax plus the NaN spellings COPASI emits.
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "nan", "-nan", "+nan", "nan(ind)", "-nan(ind)":
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return v, nil
}
