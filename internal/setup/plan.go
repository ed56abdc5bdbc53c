// Package setup runs the ordered external commands that turn a fetched
// template into a ready project: dependency install, optional Tailwind CSS,
// optional shadcn/ui and finally the initial git commit.
//
// Steps run one after another in the project directory with the terminal
// attached. The first failing command stops the run; later steps are reported
// as skipped. Nothing is retried and nothing times out.
package setup

import (
	"al.essio.dev/pkg/shellescape"

	"github.com/nextbase-dev/nextbase/internal/config"
	"github.com/nextbase-dev/nextbase/internal/project"
)

// Command is one external process invocation.
type Command struct {
	// Name is the executable, looked up on PATH.
	Name string

	// Args are the arguments after Name.
	Args []string
}

// Argv returns the full argument vector.
func (c Command) Argv() []string {
	return append([]string{c.Name}, c.Args...)
}

// String renders the command as a copy-pasteable shell line.
func (c Command) String() string {
	return shellescape.QuoteCommand(c.Argv())
}

// Step is a named group of commands that succeeds or fails as a unit.
type Step struct {
	// Name identifies the step ("install", "tailwind", "ui", "git").
	Name string

	// Title is the status line printed before the step runs.
	Title string

	// Commands run in order.
	Commands []Command
}

// CommandSource supplies the command lines of a step.
type CommandSource interface {
	CommandLines(step string) ([][]string, error)
}

var stepTitles = map[string]string{
	config.StepInstall:  "📦 Installing dependencies...",
	config.StepTailwind: "🎨 Setting up Tailwind CSS...",
	config.StepUI:       "✨ Installing shadcn/ui...",
	config.StepGit:      "🔗 Initializing Git...",
}

// Plan returns the steps for cfg in execution order. Dependency install
// always comes first and git always comes last, so the commit captures
// everything the other steps generated.
func Plan(cfg project.Config, src CommandSource) ([]Step, error) {
	names := []string{config.StepInstall}
	if cfg.Tailwind {
		names = append(names, config.StepTailwind)
	}
	if cfg.UILibrary {
		names = append(names, config.StepUI)
	}
	names = append(names, config.StepGit)

	steps := make([]Step, 0, len(names))
	for _, name := range names {
		lines, err := src.CommandLines(name)
		if err != nil {
			return nil, err
		}
		step := Step{Name: name, Title: stepTitles[name]}
		for _, argv := range lines {
			step.Commands = append(step.Commands, Command{Name: argv[0], Args: argv[1:]})
		}
		steps = append(steps, step)
	}
	return steps, nil
}
