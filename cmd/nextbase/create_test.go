package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nextbase-dev/nextbase/internal/config"
	"github.com/nextbase-dev/nextbase/internal/errors"
	"github.com/nextbase-dev/nextbase/internal/prompt"
	"github.com/nextbase-dev/nextbase/internal/setup"
)

// scriptedDriver answers every prompt with fixed values.
type scriptedDriver struct {
	name    string
	abort   bool
	picked  []int
	answers []bool
}

func (d *scriptedDriver) Input(ctx context.Context, cfg prompt.InputConfig) (string, error) {
	if d.abort {
		return "", prompt.ErrAborted
	}
	return d.name, nil
}

func (d *scriptedDriver) MultiSelect(ctx context.Context, cfg prompt.MultiSelectConfig) ([]int, error) {
	return d.picked, nil
}

func (d *scriptedDriver) Confirm(ctx context.Context, cfg prompt.ConfirmConfig) (bool, error) {
	v := d.answers[0]
	d.answers = d.answers[1:]
	return v, nil
}

type stubRunner struct {
	calls  []string
	failOn string
}

func (r *stubRunner) Run(ctx context.Context, dir string, cmd setup.Command) error {
	r.calls = append(r.calls, cmd.String())
	if cmd.String() == r.failOn {
		return errors.New("E130").WithExitCode(2).WithOutput([]string{"fatal: not a git repository"})
	}
	return nil
}

func testEnv(t *testing.T, d prompt.Driver, r *stubRunner) (*env, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	return &env{
		stdout:  &stdout,
		stderr:  &stderr,
		lookup:  func(string) (string, bool) { return "", false },
		driver:  d,
		runner:  func(int) setup.Runner { return r },
		baseDir: t.TempDir(),
	}, &stdout, &stderr
}

func templateDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "lib"), 0755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"auth.ts", "database.ts", "storage.ts"} {
		if err := os.WriteFile(filepath.Join(dir, "lib", name), []byte("export {}\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestRunCreate_Success(t *testing.T) {
	d := &scriptedDriver{name: "demo", picked: []int{0, 1}, answers: []bool{true, false}}
	r := &stubRunner{}
	e, stdout, _ := testEnv(t, d, r)
	reportPath := filepath.Join(t.TempDir(), "report.json")
	metricsPath := filepath.Join(t.TempDir(), "nextbase.prom")

	opts := &createOptions{
		template:    templateDir(t),
		reportPath:  reportPath,
		metricsPath: metricsPath,
		noColor:     true,
	}
	if err := runCreate(context.Background(), opts, e); err != nil {
		t.Fatalf("runCreate() error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(e.baseDir, "demo", "lib", "auth.ts")); err != nil {
		t.Error("project should be created")
	}
	out := stdout.String()
	for _, want := range []string{"Create Next.js + Supabase Project", "Setup complete! Run:", "cd demo", "pnpm dev"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	data, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	var report setup.Report
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatal(err)
	}
	if report.Project != "demo" || len(report.Steps) != 5 {
		t.Errorf("report = %+v", report)
	}

	metricsData, err := os.ReadFile(metricsPath)
	if err != nil {
		t.Fatalf("metrics not written: %v", err)
	}
	if !strings.Contains(string(metricsData), "nextbase_runs_total") {
		t.Errorf("metrics file missing runs counter:\n%s", metricsData)
	}
}

func TestRunCreate_Aborted(t *testing.T) {
	r := &stubRunner{}
	e, stdout, _ := testEnv(t, &scriptedDriver{abort: true}, r)

	err := runCreate(context.Background(), &createOptions{template: templateDir(t), noColor: true}, e)
	if !prompt.IsAborted(err) {
		t.Fatalf("runCreate() = %v, want an abort error", err)
	}
	if len(r.calls) != 0 {
		t.Error("nothing may run after an abort")
	}
	entries, _ := os.ReadDir(e.baseDir)
	if len(entries) != 0 {
		t.Errorf("nothing may be created after an abort, found %d entries", len(entries))
	}
	if strings.Contains(stdout.String(), "Setup complete") {
		t.Error("must not report success")
	}
}

func TestRunCreate_StepFailureExitsCleanly(t *testing.T) {
	d := &scriptedDriver{name: "demo", picked: []int{0}, answers: []bool{false, false}}
	r := &stubRunner{failOn: "git init"}
	e, stdout, stderr := testEnv(t, d, r)

	err := runCreate(context.Background(), &createOptions{template: templateDir(t), noColor: true}, e)
	if err != nil {
		t.Fatalf("a failed run should not be a command error: %v", err)
	}

	msg := stderr.String()
	for _, want := range []string{"Error setting up project", "E130", "git", "fatal: not a git repository"} {
		if !strings.Contains(msg, want) {
			t.Errorf("stderr missing %q:\n%s", want, msg)
		}
	}
	if strings.Contains(stdout.String(), "Setup complete") {
		t.Error("must not report success")
	}
}

func TestRunCreate_InvalidTemplate(t *testing.T) {
	e, _, _ := testEnv(t, &scriptedDriver{name: "demo"}, &stubRunner{})

	err := runCreate(context.Background(), &createOptions{template: "ftp://example.com/x", noColor: true}, e)
	if errors.CodeOf(err) != "E110" {
		t.Errorf("runCreate() = %v, want E110", err)
	}
}

func TestRunCreate_InvalidSettingsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nextbase.yaml")
	if err := os.WriteFile(path, []byte("packageManager: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	e, _, _ := testEnv(t, &scriptedDriver{name: "demo"}, &stubRunner{})

	err := runCreate(context.Background(), &createOptions{configPath: path, noColor: true}, e)
	if errors.CodeOf(err) != "E140" {
		t.Errorf("runCreate() = %v, want E140", err)
	}
}

func TestRootCmd_RejectsArgs(t *testing.T) {
	e, _, _ := testEnv(t, &scriptedDriver{name: "demo"}, &stubRunner{})
	cmd := rootCmd(e)
	cmd.SetArgs([]string{"extra"})
	if err := cmd.Execute(); err == nil {
		t.Error("positional arguments should be rejected")
	}
}

func TestVersionCmd_Short(t *testing.T) {
	var out bytes.Buffer
	cmd := versionCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--short"})
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out.String()) != version {
		t.Errorf("version output = %q", out.String())
	}
}

func TestVersionCmd_ShowsDefaults(t *testing.T) {
	var out bytes.Buffer
	cmd := versionCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"nextbase " + version,
		config.DefaultTemplate,
		"Package manager:  pnpm (supported: ",
		"auth, database, storage",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("version output missing %q:\n%s", want, out.String())
		}
	}
}
