package modeldoc

import (
	"fmt"
	"strings"
)

// Role selectors for the parts of a COPASI file cpstool edits. An empty task
// name matches any task of the given type.

func Task(name string) Selector {
	if name == "" {
		return Element("Task")
	}
	return Element("Task", "name", name)
}

func OptimizationTask(name string) Selector {
	sel := Element("Task", "type", "optimization")
	if name != "" {
		sel = sel.And(Element("Task", "name", name))
	}
	return sel
}

// ScheduledTask matches the task CopasiSE executes.
func ScheduledTask() Selector {
	return Element("Task", "scheduled", "true")
}

// ObjectiveExpression is the optimization target expression of a task.
func ObjectiveExpression(task string) Selector {
	return Element("ParameterText", "name", "ObjectiveExpression").Within(OptimizationTask(task))
}

// ProblemParameter is a problem-level parameter of a task, excluding the
// method parameters that share the element name.
func ProblemParameter(task Selector, name string) Selector {
	return Element("Parameter", "name", name).ChildOf(Element("Problem").ChildOf(task))
}

// TaskReport is the report definition holding a task's output file name.
func TaskReport(task Selector) Selector {
	return Element("Report").ChildOf(task)
}

func ModelElement() Selector {
	return Element("Model").ChildOf(Element("COPASI"))
}

// TaskMethod is the method block of a task.
func TaskMethod(task Selector) Selector {
	return Element("Method").ChildOf(task)
}

// OptimizationItem is the item group of an optimization task whose ObjectCN
// addresses entry [name]. A non-empty parameter selects that parameter of
// the entry (reaction items); an empty one selects entries without a
// parameter (global quantities, species, compartments).
func OptimizationItem(task, name, parameter string) Selector {
	desc := fmt.Sprintf("OptimizationItem[%s]", name)
	if parameter != "" {
		desc = fmt.Sprintf("OptimizationItem[%s:%s]", name, parameter)
	}
	item := Where(desc, func(n *Node) bool {
		for _, c := range n.Elements() {
			if v, ok := c.Attr("name"); !ok || v != "ObjectCN" {
				continue
			}
			cn, _ := c.Attr("value")
			return cnAddresses(cn, "["+name+"]", parameter)
		}
		return false
	})
	return Element("ParameterGroup", "name", "OptimizationItem").And(item).Within(OptimizationTask(task))
}

// ReactionParameter is the model parameter holding the value of a kinetic
// parameter of a reaction, in every parameter set of the model.
func ReactionParameter(reaction, parameter string) Selector {
	ref := Where(fmt.Sprintf("[%s:%s]", reaction, parameter), func(n *Node) bool {
		cn, _ := n.Attr("cn")
		return cnAddresses(cn, "Vector=Reactions["+reaction+"]", parameter)
	})
	return Element("ModelParameter").And(ref)
}

// cnAddresses reports whether a COPASI object name contains entry and, after
// it, exactly the requested Parameter= component (or none when parameter is
// empty).
func cnAddresses(cn, entry, parameter string) bool {
	i := strings.Index(cn, entry)
	if i < 0 {
		return false
	}
	rest := cn[i+len(entry):] + ","
	if parameter == "" {
		return !strings.Contains(rest, ",Parameter=")
	}
	return strings.Contains(rest, ",Parameter="+parameter+",")
}
