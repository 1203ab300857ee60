package localrunner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"

	"github.com/aalvaropc/cpstool/internal/domain"
)

// fakeCopasi prints the model it was given and fails for models named bad*.
func fakeCopasi(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}
	bin := filepath.Join(t.TempDir(), "CopasiSE")
	script := "#!/bin/sh\necho \"ran $1\"\ncase \"$(basename \"$1\")\" in bad*) exit 1;; esac\n"
	if err := os.WriteFile(bin, []byte(script), 0o755); err != nil {
		t.Fatalf("write fake binary: %v", err)
	}
	return bin
}

func TestRun_ExecutesEveryTask(t *testing.T) {
	bin := fakeCopasi(t)
	logFile := filepath.Join(t.TempDir(), "logs", "copasiOut.txt")
	r := NewRunner(bin, domain.RunnerConfig{MaxJobs: 3, LogFile: logFile})

	var tasks []domain.Task
	for i := 1; i <= 5; i++ {
		tasks = append(tasks, domain.Task{Index: i, ModelPath: filepath.Join("m", "run_"+string(rune('0'+i))+".cps")})
	}

	if err := r.Run(context.Background(), tasks); err != nil {
		t.Fatalf("run: %v", err)
	}

	b, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	slices.Sort(lines)
	if len(lines) != 5 || lines[0] != "ran m/run_1.cps" || lines[4] != "ran m/run_5.cps" {
		t.Fatalf("unexpected simulator output:\n%s", b)
	}
}

func TestRun_FailuresAreJoined(t *testing.T) {
	bin := fakeCopasi(t)
	r := NewRunner(bin, domain.RunnerConfig{MaxJobs: 2})

	tasks := []domain.Task{
		{Index: 1, ModelPath: "good_1.cps"},
		{Index: 2, ModelPath: "bad_2.cps"},
		{Index: 3, ModelPath: "bad_3.cps"},
	}
	err := r.Run(context.Background(), tasks)
	if !errors.Is(err, domain.ErrExecution) {
		t.Fatalf("expected execution error, got %v", err)
	}
	msg := err.Error()
	for _, want := range []string{"2 of 3 task(s) failed", "task 2 (bad_2.cps)", "task 3 (bad_3.cps)"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("error %q does not mention %q", msg, want)
		}
	}
}

func TestRun_CancelledContext(t *testing.T) {
	bin := fakeCopasi(t)
	r := NewRunner(bin, domain.RunnerConfig{MaxJobs: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.Run(ctx, []domain.Task{{Index: 1, ModelPath: "a.cps"}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
