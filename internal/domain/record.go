package domain

import (
	"encoding/json"
	"math"
	"strconv"
)

// ResultKind selects which report layout an extraction expects.
type ResultKind string

const (
	KindSteadyState     ResultKind = "steady_state"
	KindMCAOptimization ResultKind = "mca_optimization"
)

// ParseResultKind accepts the canonical names plus the dashed CLI spelling.
func ParseResultKind(s string) (ResultKind, error) {
	switch s {
	case "steady_state", "steady-state", "ss":
		return KindSteadyState, nil
	case "mca_optimization", "mca-optimization", "mca":
		return KindMCAOptimization, nil
	default:
		return "", Errorf("domain.parse_result_kind", KindInvalidArgument,
			"unknown result kind %q (expected steady_state|mca_optimization)", s)
	}
}

// UnitUnspecified marks a record whose report carried no unit.
const UnitUnspecified = "unspecified"

// ObjectiveRecordName names the record built from the objective value line
// of an optimization report.
const ObjectiveRecordName = "Objective Function Value"

// RecordType tags the concrete type of a Record.
type RecordType string

const (
	RecordConcentration RecordType = "concentration"
	RecordFlux          RecordType = "flux"
	RecordMCA           RecordType = "mca_optimization"
)

// Record is one extracted result row. The set of implementations is closed.
type Record interface {
	Type() RecordType
	Name() string
	Number() float64
	// Text is the value exactly as the report printed it.
	Text() string
	isRecord()
}

// ConcentrationRecord is a species concentration from a steady-state report.
type ConcentrationRecord struct {
	Species string
	Value   float64
	Unit    string
	Raw     string
}

func (r ConcentrationRecord) Type() RecordType { return RecordConcentration }
func (r ConcentrationRecord) Name() string     { return r.Species }
func (r ConcentrationRecord) Number() float64  { return r.Value }
func (r ConcentrationRecord) Text() string     { return rawOr(r.Raw, r.Value) }
func (ConcentrationRecord) isRecord()          {}

// FluxRecord is a reaction flux from a steady-state report.
type FluxRecord struct {
	Reaction string
	Value    float64
	Unit     string
	Raw      string
}

func (r FluxRecord) Type() RecordType { return RecordFlux }
func (r FluxRecord) Name() string     { return r.Reaction }
func (r FluxRecord) Number() float64  { return r.Value }
func (r FluxRecord) Text() string     { return rawOr(r.Raw, r.Value) }
func (FluxRecord) isRecord()          {}

// Optional is a float that may be absent from the source report.
type Optional struct {
	Value     float64
	Specified bool
}

func Some(v float64) Optional { return Optional{Value: v, Specified: true} }

func (o Optional) String() string {
	if !o.Specified {
		return UnitUnspecified
	}
	return FormatNumber(o.Value)
}

// MCAOptimizationRecord is one optimized parameter (or the objective value).
type MCAOptimizationRecord struct {
	Parameter    string
	Value        float64
	Contribution Optional
	Raw          string
}

func (r MCAOptimizationRecord) Type() RecordType { return RecordMCA }
func (r MCAOptimizationRecord) Name() string     { return r.Parameter }
func (r MCAOptimizationRecord) Number() float64  { return r.Value }
func (r MCAOptimizationRecord) Text() string     { return rawOr(r.Raw, r.Value) }
func (MCAOptimizationRecord) isRecord()          {}

func rawOr(raw string, v float64) string {
	if raw != "" {
		return raw
	}
	return FormatNumber(v)
}

// RecordRow is the flat, serializable view of a Record.
type RecordRow struct {
	Source       string     `json:"source,omitempty"`
	Type         RecordType `json:"type"`
	Name         string     `json:"name"`
	Value        Number     `json:"value"`
	Unit         string     `json:"unit,omitempty"`
	Contribution string     `json:"contribution,omitempty"`
	// Text is the value as the report spelled it.
	Text string `json:"-"`
}

// Flatten converts a record into its row form.
func Flatten(source string, r Record) RecordRow {
	row := RecordRow{
		Source: source,
		Type:   r.Type(),
		Name:   r.Name(),
		Value:  Number(r.Number()),
		Text:   r.Text(),
	}
	switch t := r.(type) {
	case ConcentrationRecord:
		row.Unit = t.Unit
	case FluxRecord:
		row.Unit = t.Unit
	case MCAOptimizationRecord:
		row.Contribution = t.Contribution.String()
	}
	return row
}

// Number is a float that survives JSON encoding when it is NaN or infinite.
type Number float64

func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return json.Marshal(FormatNumber(f))
	}
	return []byte(strconv.FormatFloat(f, 'g', -1, 64)), nil
}

// FormatNumber renders a value the way COPASI reports do.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
