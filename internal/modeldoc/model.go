package modeldoc

import (
	"errors"
	"regexp"
	"strings"

	"github.com/aalvaropc/cpstool/internal/domain"
)

var (
	versionRe = regexp.MustCompile(`generated with COPASI ([0-9.]+ \(Build [0-9]+\))`)
	arrayRe   = regexp.MustCompile(`Array=([^\[]+)\[`)
)

// Compartment is a model compartment identified by its COPASI key.
type Compartment struct {
	Key  string
	Name string
}

// Version returns the COPASI version from the generator comment, e.g.
// "4.14 (Build 89)".
func (d *Document) Version() (string, error) {
	for _, n := range d.nodes {
		if n.Kind != CommentNode {
			continue
		}
		if m := versionRe.FindStringSubmatch(n.Text); m != nil {
			return m[1], nil
		}
	}
	return "", &domain.OpError{
		Op:   "modeldoc.version",
		Kind: domain.KindFormat,
		Path: d.path,
		Err:  errors.New("COPASI version comment not found"),
	}
}

// Title is the model name.
func (d *Document) Title() (string, error) {
	m, err := d.Find(ModelElement())
	if err != nil {
		return "", err
	}
	return m.MustAttr("name")
}

func (d *Document) Compartments() ([]Compartment, error) {
	nodes := d.FindAll(Element("Compartment").ChildOf(Element("ListOfCompartments")))
	out := make([]Compartment, 0, len(nodes))
	for _, n := range nodes {
		key, err := n.MustAttr("key")
		if err != nil {
			return nil, err
		}
		name, err := n.MustAttr("name")
		if err != nil {
			return nil, err
		}
		out = append(out, Compartment{Key: key, Name: name})
	}
	return out, nil
}

// Reactions lists reaction names in document order, which is the order
// COPASI numbers them in MCA arrays.
func (d *Document) Reactions() ([]string, error) {
	nodes := d.FindAll(Element("Reaction").ChildOf(Element("ListOfReactions")))
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		name, err := n.MustAttr("name")
		if err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, nil
}

// Metabolites lists the species simulated by reactions in the order of the
// state template, which is the order COPASI numbers them in MCA arrays. With
// more than one compartment the compartment name is appended ("NAD_cytosol").
func (d *Document) Metabolites() ([]string, error) {
	comps, err := d.Compartments()
	if err != nil {
		return nil, err
	}
	compNames := make(map[string]string, len(comps))
	for _, c := range comps {
		compNames[c.Key] = c.Name
	}
	qualify := len(comps) > 1

	byKey := map[string]string{}
	for _, n := range d.FindAll(Element("Metabolite", "simulationType", "reactions").ChildOf(Element("ListOfMetabolites"))) {
		key, err := n.MustAttr("key")
		if err != nil {
			return nil, err
		}
		name, err := n.MustAttr("name")
		if err != nil {
			return nil, err
		}
		if qualify {
			comp, err := n.MustAttr("compartment")
			if err != nil {
				return nil, err
			}
			name += "_" + compNames[comp]
		}
		byKey[key] = name
	}

	var out []string
	for _, n := range d.FindAll(Element("StateTemplateVariable")) {
		ref, ok := n.Attr("objectReference")
		if !ok {
			continue
		}
		if name, ok := byKey[ref]; ok {
			out = append(out, name)
		}
	}
	return out, nil
}

// MCAType classifies the MCA array the optimization objective points into.
func (d *Document) MCAType(task string) (domain.MCAType, error) {
	obj, err := d.Find(ObjectiveExpression(task))
	if err != nil {
		return "", err
	}

	expr := obj.TextContent()
	m := arrayRe.FindStringSubmatch(expr)
	if m != nil {
		if t, ok := domain.MCATypeOfArray(strings.TrimSpace(m[1])); ok {
			return t, nil
		}
	}
	return "", &domain.OpError{
		Op:      "modeldoc.mca_type",
		Kind:    domain.KindFormat,
		Path:    d.path,
		Subject: obj.describe(),
		Err:     errors.New("objective does not reference an MCA array; is the model configured for MCA optimization?"),
	}
}
