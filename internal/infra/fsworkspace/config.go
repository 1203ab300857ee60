package fsworkspace

import (
	"bytes"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/aalvaropc/cpstool/internal/domain"
)

type override struct {
	path  []string
	value string
	tag   string
}

// renderConfig fills the embedded cpstool.yaml template with the spec's
// overrides. The template's comments survive because the edit happens on
// the YAML node tree.
func renderConfig(spec domain.WorkspaceSpec) ([]byte, domain.Config, error) {
	tmpl, err := templatesFS.ReadFile("templates/" + configName)
	if err != nil {
		return nil, domain.Config{}, err
	}

	cfg := domain.DefaultConfig()
	var sets []override
	if spec.Copasi != "" {
		cfg.Copasi.Path = spec.Copasi
		sets = append(sets, override{[]string{"cpstool", "copasi", "path"}, spec.Copasi, "!!str"})
	}
	if spec.Runner != "" {
		cfg.Runner.Kind = spec.Runner
		sets = append(sets, override{[]string{"cpstool", "runner", "kind"}, string(spec.Runner), "!!str"})
	}
	if spec.MaxJobs > 0 {
		cfg.Runner.MaxJobs = spec.MaxJobs
		sets = append(sets, override{[]string{"cpstool", "runner", "max_jobs"}, strconv.Itoa(spec.MaxJobs), "!!int"})
	}
	if len(sets) == 0 {
		return tmpl, cfg, nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(tmpl, &doc); err != nil {
		return nil, cfg, err
	}
	for _, s := range sets {
		n := lookup(&doc, s.path)
		if n == nil {
			return nil, cfg, fmt.Errorf("template has no %v key", s.path)
		}
		n.Value, n.Tag, n.Style = s.value, s.tag, 0
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return nil, cfg, err
	}
	if err := enc.Close(); err != nil {
		return nil, cfg, err
	}
	return buf.Bytes(), cfg, nil
}

// lookup walks mapping keys from the document node to a scalar value.
func lookup(n *yaml.Node, path []string) *yaml.Node {
	if n.Kind == yaml.DocumentNode && len(n.Content) == 1 {
		n = n.Content[0]
	}
	for _, key := range path {
		if n.Kind != yaml.MappingNode {
			return nil
		}
		var next *yaml.Node
		for i := 0; i+1 < len(n.Content); i += 2 {
			if n.Content[i].Value == key {
				next = n.Content[i+1]
				break
			}
		}
		if next == nil {
			return nil
		}
		n = next
	}
	if n.Kind != yaml.ScalarNode {
		return nil
	}
	return n
}
