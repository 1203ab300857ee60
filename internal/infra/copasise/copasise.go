// Package copasise locates the COPASI command-line simulator and reads its
// version.
package copasise

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"regexp"
	"strings"

	"github.com/aalvaropc/cpstool/internal/domain"
)

// Names tried on PATH when the configured binary cannot be found.
var fallbacks = []string{"CopasiSE", "copasise"}

var versionRe = regexp.MustCompile(`COPASI\s+(\d+(?:\.\d+)+\s+\(Build\s+\d+\))`)

// lookPath is replaced in tests.
var lookPath = exec.LookPath

// Resolve returns an executable path for the configured binary. A path with
// a directory component must exist; a bare name is looked up on PATH, then
// the common spellings of the COPASI binary are tried.
func Resolve(configured string) (string, error) {
	configured = strings.TrimSpace(configured)

	if strings.ContainsRune(configured, os.PathSeparator) || strings.Contains(configured, "/") {
		if _, err := os.Stat(configured); err != nil {
			return "", &domain.OpError{
				Op:   "copasise.resolve",
				Kind: domain.KindNotFound,
				Path: configured,
				Err:  err,
			}
		}
		return configured, nil
	}

	candidates := fallbacks
	if configured != "" {
		candidates = append([]string{configured}, fallbacks...)
	}
	for _, name := range candidates {
		if p, err := lookPath(name); err == nil {
			return p, nil
		}
	}
	return "", &domain.OpError{
		Op:      "copasise.resolve",
		Kind:    domain.KindNotFound,
		Subject: strings.Join(candidates, ", "),
		Err:     fmt.Errorf("no COPASI binary on PATH"),
	}
}

// Version runs `<bin> -h` and returns the version in model-file form,
// e.g. "4.14 (Build 89)".
func Version(ctx context.Context, bin string) (string, error) {
	// CopasiSE exits non-zero after printing help on some builds.
	out, runErr := exec.CommandContext(ctx, bin, "-h").CombinedOutput()

	m := versionRe.FindSubmatch(out)
	if m == nil {
		if runErr != nil {
			return "", &domain.OpError{Op: "copasise.version", Kind: domain.KindExecution, Path: bin, Err: runErr}
		}
		return "", &domain.OpError{
			Op:   "copasise.version",
			Kind: domain.KindFormat,
			Path: bin,
			Err:  fmt.Errorf("no version in output %q", firstLine(out)),
		}
	}
	return strings.Join(strings.Fields(string(m[1])), " "), nil
}

// CheckVersion warns when the binary and the model were produced by
// different COPASI versions, or the model's version was never tested.
// Problems reading the binary's version are logged, not returned.
func CheckVersion(ctx context.Context, log *slog.Logger, cfg domain.Config, bin, modelVersion string) {
	if !cfg.IsTestedVersion(modelVersion) {
		log.Warn("copasi.version.untested", "model_version", modelVersion, "tested", cfg.Copasi.TestedVersions)
	}

	v, err := Version(ctx, bin)
	if err != nil {
		log.Warn("copasi.version.unknown", "bin", bin, "error", err)
		return
	}
	if v != modelVersion {
		log.Warn("copasi.version.mismatch", "bin", bin, "bin_version", v, "model_version", modelVersion)
	}
}

func firstLine(b []byte) string {
	s, _, _ := strings.Cut(string(b), "\n")
	return strings.TrimSpace(s)
}
