package fsworkspace

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/aalvaropc/cpstool/internal/domain"
)

const gitignoreHeader = "# cpstool"

// ignoredArtifacts are the paths a workspace produces but never versions:
// run manifests, the log directory, the CopasiSE output log, finished
// notices and the temporary files of interrupted model writes.
func ignoredArtifacts(cfg domain.Config) []string {
	var out []string
	if rd := cfg.Paths.RunsDir; rd != "" && !filepath.IsAbs(rd) {
		out = append(out, filepath.ToSlash(filepath.Clean(rd))+"/")
	}
	out = append(out, ".cpstool/")
	if lf := cfg.Runner.LogFile; lf != "" && !filepath.IsAbs(lf) {
		out = append(out, filepath.ToSlash(lf))
	}
	return append(out, "AA_FINISHED_*", "*.cps.tmp")
}

// ensureGitignore adds the missing entries under a single cpstool block and
// returns what it added.
func ensureGitignore(root string, entries []string) ([]string, error) {
	path := filepath.Join(root, ".gitignore")

	b, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	existing := string(b)

	present := map[string]bool{}
	for _, line := range strings.Split(existing, "\n") {
		present[strings.TrimSpace(line)] = true
	}

	var missing []string
	for _, e := range entries {
		if !present[e] {
			missing = append(missing, e)
			present[e] = true
		}
	}
	if len(missing) == 0 {
		return nil, nil
	}

	var out strings.Builder
	out.WriteString(existing)
	if existing != "" {
		if !strings.HasSuffix(existing, "\n") {
			out.WriteByte('\n')
		}
		out.WriteByte('\n')
	}
	if !present[gitignoreHeader] {
		out.WriteString(gitignoreHeader + "\n")
	}
	out.WriteString(strings.Join(missing, "\n") + "\n")

	if err := os.WriteFile(path, []byte(out.String()), 0o644); err != nil {
		return nil, err
	}
	return missing, nil
}
