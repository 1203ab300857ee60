package target

import (
	"fmt"
	"strings"

	"github.com/aalvaropc/cpstool/internal/domain"
	"github.com/aalvaropc/cpstool/internal/modeldoc"
)

// Method is an optimization algorithm cpstool can configure.
type Method string

const (
	MethodEvolutionary  Method = "EP"
	MethodParticleSwarm Method = "PS"
)

type methodParam struct{ name, typ, value string }

type methodDef struct {
	name, typ string
	params    []methodParam
}

// Standard parameter sets, as COPASI writes them for a new method.
var methods = map[Method]methodDef{
	MethodEvolutionary: {
		name: "Evolutionary Programming",
		typ:  "EvolutionaryProgram",
		params: []methodParam{
			{"Number of Generations", "unsignedInteger", "200"},
			{"Population Size", "unsignedInteger", "40"},
			{"Random Number Generator", "unsignedInteger", "1"},
			{"Seed", "unsignedInteger", "0"},
		},
	},
	MethodParticleSwarm: {
		name: "Particle Swarm",
		typ:  "ParticleSwarm",
		params: []methodParam{
			{"Iteration Limit", "unsignedInteger", "2000"},
			{"Swarm Size", "unsignedInteger", "50"},
			{"Std. Deviation", "unsignedFloat", "1e-06"},
			{"Random Number Generator", "unsignedInteger", "1"},
			{"Seed", "unsignedInteger", "0"},
		},
	},
}

// ParseMethod accepts EP or PS (any case).
func ParseMethod(s string) (Method, error) {
	m := Method(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := methods[m]; !ok {
		return "", domain.Errorf("target.parse_method", domain.KindInvalidArgument,
			"unknown optimization method %q (expected EP|PS)", s)
	}
	return m, nil
}

// SetOptimizationMethod replaces the method block of the optimization task
// with the standard parameters of m.
func SetOptimizationMethod(doc *modeldoc.Document, m Method, opts ...Option) error {
	def, ok := methods[m]
	if !ok {
		return domain.Errorf("target.set_optimization_method", domain.KindInvalidArgument,
			"unknown optimization method %q", m)
	}

	o := collect(opts)
	n, err := doc.Find(modeldoc.TaskMethod(modeldoc.OptimizationTask(o.task)))
	if err != nil {
		return err
	}

	indent := n.Indent()
	var b strings.Builder
	fmt.Fprintf(&b, "<Method name=%q type=%q>\n", def.name, def.typ)
	for _, p := range def.params {
		fmt.Fprintf(&b, "%s  <Parameter name=%q type=%q value=%q/>\n", indent, p.name, p.typ, p.value)
	}
	b.WriteString(indent + "</Method>")

	_, err = doc.ReplaceElement(n, b.String())
	return err
}
