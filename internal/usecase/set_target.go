package usecase

import (
	"strings"

	"github.com/aalvaropc/cpstool/internal/domain"
	"github.com/aalvaropc/cpstool/internal/modeldoc"
	"github.com/aalvaropc/cpstool/internal/usecase/target"
)

// ParamChange sets a kinetic parameter of a reaction.
type ParamChange struct {
	Reaction  string
	Parameter string
	Value     float64
}

type TargetRequest struct {
	ModelPath string
	// OutPath defaults to ModelPath.
	OutPath string
	Task    string

	// Zero values leave the corresponding setting untouched.
	Expression string
	Type       domain.TargetType
	Maximize   *bool
	Method     target.Method

	Items []target.Item
	// DeleteItems are item references: name or name:parameter.
	DeleteItems []string
	Params      []ParamChange
}

func (r TargetRequest) touchesOptimization() bool {
	return r.Expression != "" || r.Type != "" || r.Maximize != nil || r.Method != "" ||
		len(r.Items) > 0 || len(r.DeleteItems) > 0
}

// TargetResult reports what was written.
type TargetResult struct {
	Path string
	// Objective is the objective expression after the edits, or empty when
	// only model parameters were changed.
	Objective string
	// ParamValues counts the parameter values written across parameter sets.
	ParamValues int
}

type SetTarget struct{}

func NewSetTarget() *SetTarget { return &SetTarget{} }

// Execute applies the requested edits to one in-memory document and writes
// it once; a failing edit leaves the file untouched.
func (uc *SetTarget) Execute(req TargetRequest) (TargetResult, error) {
	req.Expression = strings.TrimSpace(req.Expression)
	if !req.touchesOptimization() && len(req.Params) == 0 {
		return TargetResult{}, domain.Errorf("usecase.set_target", domain.KindInvalidArgument,
			"nothing to change: give an expression, a target type, a direction, a method, items or parameters")
	}

	doc, err := modeldoc.Load(req.ModelPath)
	if err != nil {
		return TargetResult{}, err
	}
	opts := []target.Option{target.WithTask(req.Task)}
	var res TargetResult

	if req.Expression != "" {
		if err := target.SetOptimizationTarget(doc, req.Expression, opts...); err != nil {
			return res, err
		}
	}
	if req.Type != "" {
		if err := target.SetTargetType(doc, req.Type, opts...); err != nil {
			return res, err
		}
	}
	if req.Maximize != nil {
		if err := target.SetMaximize(doc, *req.Maximize, opts...); err != nil {
			return res, err
		}
	}
	if req.Method != "" {
		if err := target.SetOptimizationMethod(doc, req.Method, opts...); err != nil {
			return res, err
		}
	}
	for _, it := range req.Items {
		if err := target.SetOptimizationItem(doc, it, opts...); err != nil {
			return res, err
		}
	}
	for _, ref := range req.DeleteItems {
		name, param, err := target.ParseItemRef(ref)
		if err != nil {
			return res, err
		}
		if err := target.DeleteOptimizationItem(doc, name, param, opts...); err != nil {
			return res, err
		}
	}
	for _, p := range req.Params {
		n, err := target.SetReactionParameter(doc, p.Reaction, p.Parameter, p.Value)
		if err != nil {
			return res, err
		}
		res.ParamValues += n
	}

	res.Path = req.OutPath
	if res.Path == "" {
		res.Path = req.ModelPath
	}
	if err := doc.Serialize(res.Path); err != nil {
		return res, err
	}
	if req.touchesOptimization() {
		res.Objective, err = target.OptimizationTarget(doc, opts...)
	}
	return res, err
}
