package domain

import "time"

// Variant is one generated model file in a batch.
type Variant struct {
	Index      int    `json:"index"`
	Name       string `json:"name"`
	ModelPath  string `json:"model_path"`
	ReportPath string `json:"report_path"`
}

// Task is what a runner receives: one model file to execute.
type Task struct {
	Index     int
	ModelPath string
}

// TasksFor maps variants to runner tasks, preserving order.
func TasksFor(vs []Variant) []Task {
	out := make([]Task, 0, len(vs))
	for _, v := range vs {
		out = append(out, Task{Index: v.Index, ModelPath: v.ModelPath})
	}
	return out
}

// BatchManifest is the persisted record of a dispatched batch.
type BatchManifest struct {
	ID          string     `json:"id"`
	SourceModel string     `json:"source_model"`
	Base        string     `json:"base"`
	Runner      RunnerKind `json:"runner,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	FinishedAt  time.Time  `json:"finished_at"`
	Variants    []Variant  `json:"variants"`
	Dispatched  bool       `json:"dispatched"`
	ExitError   string     `json:"exit_error,omitempty"`
}
