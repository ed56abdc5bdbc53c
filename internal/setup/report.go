package setup

import (
	"encoding/json"
	"os"
	"time"

	"github.com/nextbase-dev/nextbase/internal/errors"
)

// Status is the outcome of one step.
type Status string

const (
	StatusOK      Status = "ok"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// StepResult records how one step went.
type StepResult struct {
	Step     string        `json:"step"`
	Status   Status        `json:"status"`
	Duration time.Duration `json:"durationNs"`
	Commands []string      `json:"commands,omitempty"`
	ExitCode int           `json:"exitCode,omitempty"`
	Error    string        `json:"error,omitempty"`
	Output   []string      `json:"output,omitempty"`

	// Err is the failure, if any.
	Err error `json:"-"`
}

// Report aggregates the results of a run.
type Report struct {
	Project    string       `json:"project"`
	Dir        string       `json:"dir"`
	Template   string       `json:"template"`
	Staging    string       `json:"staging,omitempty"`
	StartedAt  time.Time    `json:"startedAt"`
	FinishedAt time.Time    `json:"finishedAt"`
	Steps      []StepResult `json:"steps"`
}

// Record appends a result, filling the error fields from res.Err.
func (r *Report) Record(res StepResult) {
	if res.Err != nil {
		res.Error = res.Err.Error()
		if se, ok := errors.As(res.Err); ok {
			res.ExitCode = se.ExitCode
			res.Output = se.Output
		}
	}
	r.Steps = append(r.Steps, res)
}

// Skip records every step as skipped.
func (r *Report) Skip(steps ...Step) {
	for _, s := range steps {
		r.Record(StepResult{Step: s.Name, Status: StatusSkipped})
	}
}

// Failed reports whether any step failed.
func (r *Report) Failed() bool {
	return r.FailedStep() != nil
}

// FailedStep returns the failed step, or nil.
func (r *Report) FailedStep() *StepResult {
	for i := range r.Steps {
		if r.Steps[i].Status == StatusFailed {
			return &r.Steps[i]
		}
	}
	return nil
}

// Err returns the error of the failed step, or nil.
func (r *Report) Err() error {
	if s := r.FailedStep(); s != nil {
		return s.Err
	}
	return nil
}

// Ran returns the names of the steps that actually executed, in order.
func (r *Report) Ran() []string {
	var names []string
	for _, s := range r.Steps {
		if s.Status != StatusSkipped {
			names = append(names, s.Step)
		}
	}
	return names
}

// Duration is the wall-clock time of the run.
func (r *Report) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// WriteFile writes the report as indented JSON.
func (r *Report) WriteFile(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return errors.New("E150").Wrap(err)
	}

	// Add newline at end of file
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E150").Wrap(err)
	}
	return nil
}
