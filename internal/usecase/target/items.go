package target

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aalvaropc/cpstool/internal/domain"
	"github.com/aalvaropc/cpstool/internal/modeldoc"
)

// Item is one fitted quantity of an optimization: its bounds and start
// value. Name is the bracketed entry of the object ([R1], [Vmax]); Parameter
// is set for kinetic parameters of a reaction. Bounds are kept as text
// because COPASI also accepts "-inf", "inf" and object references there.
type Item struct {
	Name      string
	Parameter string
	Lower     string
	Start     string
	Upper     string
}

func (it Item) ref() string {
	if it.Parameter == "" {
		return it.Name
	}
	return it.Name + ":" + it.Parameter
}

// ParseItemRef splits "name" or "name:parameter".
func ParseItemRef(s string) (name, parameter string, err error) {
	name, parameter, _ = strings.Cut(strings.TrimSpace(s), ":")
	if name == "" {
		return "", "", domain.Errorf("target.parse_item", domain.KindInvalidArgument,
			"item %q: expected name or name:parameter", s)
	}
	return name, parameter, nil
}

// SetOptimizationItem rewrites the bounds and start value of an existing
// optimization item. Empty fields are left as they are.
func SetOptimizationItem(doc *modeldoc.Document, it Item, opts ...Option) error {
	const op = "target.set_optimization_item"

	if it.Name == "" {
		return domain.Errorf(op, domain.KindInvalidArgument, "item name is empty")
	}
	if it.Start != "" {
		if _, err := strconv.ParseFloat(it.Start, 64); err != nil {
			return &domain.OpError{Op: op, Kind: domain.KindInvalidArgument, Subject: it.ref(),
				Err: fmt.Errorf("start value %q is not a number", it.Start)}
		}
	}

	o := collect(opts)
	group, err := doc.Find(modeldoc.OptimizationItem(o.task, it.Name, it.Parameter))
	if err != nil {
		return err
	}

	for _, f := range []struct{ param, value string }{
		{"LowerBound", it.Lower},
		{"StartValue", it.Start},
		{"UpperBound", it.Upper},
	} {
		if f.value == "" {
			continue
		}
		n := childParameter(group, f.param)
		if n == nil {
			return &domain.OpError{Op: op, Kind: domain.KindFormat, Path: doc.Path(), Subject: it.ref(),
				Err: fmt.Errorf("item has no %s parameter", f.param)}
		}
		if cur, _ := n.Attr("value"); cur == f.value {
			continue
		}
		if err := doc.SetAttr(n, "value", f.value); err != nil {
			return err
		}
	}
	return nil
}

func childParameter(group *modeldoc.Node, name string) *modeldoc.Node {
	for _, c := range group.Elements() {
		if v, _ := c.Attr("name"); c.Name == "Parameter" && v == name {
			return c
		}
	}
	return nil
}

// DeleteOptimizationItem removes one optimization item. Exactly one item
// must match.
func DeleteOptimizationItem(doc *modeldoc.Document, name, parameter string, opts ...Option) error {
	o := collect(opts)

	group, err := doc.Find(modeldoc.OptimizationItem(o.task, name, parameter))
	if err != nil {
		return err
	}
	return doc.Remove(group)
}

// SetReactionParameter sets a kinetic parameter of a reaction in every
// parameter set of the model and returns how many values were written.
func SetReactionParameter(doc *modeldoc.Document, reaction, parameter string, value float64) (int, error) {
	sel := modeldoc.ReactionParameter(reaction, parameter)
	nodes := doc.FindAll(sel)
	if len(nodes) == 0 {
		return 0, &domain.OpError{
			Op:      "target.set_reaction_parameter",
			Kind:    domain.KindNotFound,
			Path:    doc.Path(),
			Subject: sel.String(),
			Err:     domain.ErrNotFound,
		}
	}

	v := strconv.FormatFloat(value, 'g', -1, 64)
	for _, n := range nodes {
		if cur, _ := n.Attr("value"); cur == v {
			continue
		}
		if err := doc.SetAttr(n, "value", v); err != nil {
			return 0, err
		}
	}
	return len(nodes), nil
}
