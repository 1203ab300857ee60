package domain

import "strings"

// MCAType is the family of coefficients an MCA optimization targets.
type MCAType string

const (
	MCAConcentrationControl MCAType = "ccc"
	MCAElasticity           MCAType = "e"
	MCAFluxControl          MCAType = "fcc"
)

// TargetType is an MCA array name together with its scaling.
type TargetType string

const (
	TargetCCC  TargetType = "CCC"
	TargetFCC  TargetType = "FCC"
	TargetE    TargetType = "E"
	TargetUCCC TargetType = "uCCC"
	TargetUFCC TargetType = "uFCC"
	TargetUE   TargetType = "uE"
)

const arrayPrefix = "caled "

var targetArrays = map[TargetType]string{
	TargetCCC:  "Scaled concentration control coefficients",
	TargetFCC:  "Scaled flux control coefficients",
	TargetE:    "Scaled elasticities",
	TargetUCCC: "Unscaled concentration control coefficients",
	TargetUFCC: "Unscaled flux control coefficients",
	TargetUE:   "Unscaled elasticities",
}

// ArrayName returns the COPASI array name of a target type.
func (t TargetType) ArrayName() (string, error) {
	name, ok := targetArrays[t]
	if !ok {
		return "", Errorf("domain.target_type", KindInvalidArgument,
			"%q is no valid target type (expected CCC|FCC|E|uCCC|uFCC|uE)", string(t))
	}
	return name, nil
}

// MCATypeOfArray classifies a COPASI array name such as
// "Scaled flux control coefficients". Scaling is ignored.
func MCATypeOfArray(array string) (MCAType, bool) {
	i := strings.Index(array, arrayPrefix)
	if i < 0 {
		return "", false
	}
	switch strings.TrimSpace(array[i+len(arrayPrefix):]) {
	case "concentration control coefficients":
		return MCAConcentrationControl, true
	case "elasticities":
		return MCAElasticity, true
	case "flux control coefficients":
		return MCAFluxControl, true
	}
	return "", false
}
