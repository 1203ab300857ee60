// Package extract filters extracted record rows with JSONPath.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/PaesslerAG/gval"
	"github.com/PaesslerAG/jsonpath"

	"github.com/aalvaropc/cpstool/internal/domain"
)

// lang is JSONPath with the full gval operator set, so filters may compare
// numbers (`$[?(@.value > 1)]`) and combine conditions.
var lang = gval.Full(jsonpath.PlaceholderExtension())

// Result reports the outcome of one pick rule.
type Result struct {
	Name    string `json:"name"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Query evaluates a JSONPath expression against the rows encoded as a JSON
// array, e.g. `$[?(@.type=="flux")].value`.
func Query(rows []domain.RecordRow, expr string) (any, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, domain.Errorf("extract.query", domain.KindInvalidArgument, "empty jsonpath expression")
	}

	doc, err := toJSON(rows)
	if err != nil {
		return nil, err
	}

	val, err := get(expr, doc)
	if err != nil {
		return nil, &domain.OpError{
			Op:      "extract.query",
			Kind:    domain.KindInvalidArgument,
			Subject: expr,
			Err:     err,
		}
	}
	return val, nil
}

// Pick resolves each named rule to a single string value.
// rules: map[name]jsonPathExpr
//
// A failing rule is reported in its Result; the other rules still run.
func Pick(rows []domain.RecordRow, rules map[string]string) (map[string]string, []Result) {
	if len(rules) == 0 {
		return map[string]string{}, []Result{}
	}

	keys := make([]string, 0, len(rules))
	for k := range rules {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	doc, err := toJSON(rows)
	if err != nil {
		out := make([]Result, 0, len(keys))
		for _, name := range keys {
			out = append(out, Result{Name: name, Message: fmt.Sprintf("pick %q: %v", name, err)})
		}
		return map[string]string{}, out
	}

	picked := map[string]string{}
	results := make([]Result, 0, len(keys))

	for _, name := range keys {
		expr := strings.TrimSpace(rules[name])
		if expr == "" {
			results = append(results, Result{
				Name:    name,
				Message: fmt.Sprintf("pick %q: empty jsonpath expression", name),
			})
			continue
		}

		val, getErr := get(expr, doc)
		if getErr != nil {
			results = append(results, Result{
				Name:    name,
				Message: fmt.Sprintf("pick %q (%s): jsonpath error: %v", name, expr, getErr),
			})
			continue
		}

		if isEmptyValue(val) {
			results = append(results, Result{
				Name:    name,
				Message: fmt.Sprintf("pick %q (%s): no value found", name, expr),
			})
			continue
		}

		s, convErr := toString(val)
		if convErr != nil {
			results = append(results, Result{
				Name:    name,
				Message: fmt.Sprintf("pick %q (%s): cannot convert value to string: %v", name, expr, convErr),
			})
			continue
		}

		picked[name] = s
		results = append(results, Result{Name: name, Success: true, Message: fmt.Sprintf("picked %q", name)})
	}

	return picked, results
}

// ParseRules reads name=expr pairs as given on the command line.
func ParseRules(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		name, expr, ok := strings.Cut(p, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, domain.Errorf("extract.parse_rules", domain.KindInvalidArgument,
				"pick %q: expected name=jsonpath", p)
		}
		out[name] = expr
	}
	return out, nil
}

func get(expr string, doc any) (any, error) {
	eval, err := lang.NewEvaluable(expr)
	if err != nil {
		return nil, err
	}
	return eval(context.Background(), doc)
}

// toJSON round-trips rows through encoding/json so jsonpath sees plain
// maps and slices.
func toJSON(rows []domain.RecordRow) (any, error) {
	if rows == nil {
		rows = []domain.RecordRow{}
	}
	b, err := json.Marshal(rows)
	if err != nil {
		return nil, err
	}
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func isEmptyValue(v any) bool {
	if v == nil {
		return true
	}
	switch t := v.(type) {
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	default:
		return false
	}
}

func toString(v any) (string, error) {
	// jsonpath filters return a slice even for one match
	if arr, ok := v.([]any); ok {
		if len(arr) == 0 {
			return "", fmt.Errorf("empty array")
		}
		if len(arr) == 1 {
			return toString(arr[0])
		}
		b, err := json.Marshal(arr)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	switch t := v.(type) {
	case string:
		return t, nil
	case float64:
		return domain.FormatNumber(t), nil
	case bool:
		return fmt.Sprint(t), nil
	case map[string]any:
		b, err := json.Marshal(t)
		if err != nil {
			return "", err
		}
		return string(b), nil
	default:
		return fmt.Sprint(t), nil
	}
}
