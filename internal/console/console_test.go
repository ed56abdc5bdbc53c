package console

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func newTestConsole(t *testing.T, level string) (*Console, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	prev := color.NoColor
	t.Cleanup(func() { color.NoColor = prev })

	var out, errOut bytes.Buffer
	c, err := New(Options{Out: &out, Err: &errOut, Level: level, NoColor: true})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return c, &out, &errOut
}

func TestConsole_StatusLines(t *testing.T) {
	c, out, errOut := newTestConsole(t, "")

	c.Phase("Installing dependencies...")
	c.Success("Starter project cloned successfully!")
	c.Info("cd %s", "demo")
	c.Warn("keeping %s", ".demo.nextbase-staging")
	c.Error("Error setting up project: %s", "boom")

	got := out.String()
	for _, want := range []string{
		"\nInstalling dependencies...\n\n",
		"✓ Starter project cloned successfully!\n",
		"  cd demo\n",
		"⚠ keeping .demo.nextbase-staging\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("stdout missing %q, got %q", want, got)
		}
	}
	if !strings.Contains(errOut.String(), "✗ Error setting up project: boom") {
		t.Errorf("stderr = %q", errOut.String())
	}
}

func TestConsole_DebugLevel(t *testing.T) {
	c, _, errOut := newTestConsole(t, "warn")
	c.Debug("hidden", "step", "install")
	if errOut.Len() != 0 {
		t.Errorf("debug record written at warn level: %q", errOut.String())
	}

	c, _, errOut = newTestConsole(t, "debug")
	c.Debug("running command", "step", "install")
	if !strings.Contains(errOut.String(), "running command") || !strings.Contains(errOut.String(), "step=install") {
		t.Errorf("debug output = %q", errOut.String())
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	if _, err := New(Options{Level: "chatty"}); err == nil {
		t.Error("Expected error for invalid level")
	}
}

func TestDiscard(t *testing.T) {
	c := Discard()
	c.Phase("x")
	c.Error("y")
	c.Debug("z")
}
