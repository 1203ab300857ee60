package usecase

import (
	"errors"

	"github.com/aalvaropc/cpstool/internal/domain"
	"github.com/aalvaropc/cpstool/internal/modeldoc"
	"github.com/aalvaropc/cpstool/internal/usecase/target"
)

// ModelInfo summarizes what cpstool can see in a model file.
type ModelInfo struct {
	Path         string         `json:"path"`
	Version      string         `json:"version"`
	Tested       bool           `json:"tested"`
	Title        string         `json:"title"`
	Compartments int            `json:"compartments"`
	Metabolites  []string       `json:"metabolites"`
	Reactions    []string       `json:"reactions"`
	Objective    string         `json:"objective"`
	ReportTarget string         `json:"report_target"`
	MCAType      domain.MCAType `json:"mca_type,omitempty"`
}

type ValidateModel struct {
	cfg domain.Config
}

func NewValidateModel(cfg domain.Config) *ValidateModel {
	return &ValidateModel{cfg: cfg}
}

// Execute loads the model and checks that the optimization target can be
// located unambiguously. A non-MCA objective is not an error.
func (uc *ValidateModel) Execute(path, task string) (ModelInfo, error) {
	doc, err := modeldoc.Load(path)
	if err != nil {
		return ModelInfo{}, err
	}

	info := ModelInfo{Path: path}

	if info.Version, err = doc.Version(); err != nil {
		return info, err
	}
	info.Tested = uc.cfg.IsTestedVersion(info.Version)

	if info.Title, err = doc.Title(); err != nil {
		return info, err
	}
	comps, err := doc.Compartments()
	if err != nil {
		return info, err
	}
	info.Compartments = len(comps)
	if info.Metabolites, err = doc.Metabolites(); err != nil {
		return info, err
	}
	if info.Reactions, err = doc.Reactions(); err != nil {
		return info, err
	}

	opts := []target.Option{target.WithTask(task)}
	if info.Objective, err = target.OptimizationTarget(doc, opts...); err != nil {
		return info, err
	}

	rep, err := doc.Find(modeldoc.TaskReport(modeldoc.OptimizationTask(task)))
	if err != nil {
		return info, err
	}
	info.ReportTarget, _ = rep.Attr("target")

	typ, err := doc.MCAType(task)
	switch {
	case err == nil:
		info.MCAType = typ
	case errors.Is(err, domain.ErrFormat):
	default:
		return info, err
	}
	return info, nil
}
