package config

import (
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"
	"gopkg.in/yaml.v3"

	"github.com/nextbase-dev/nextbase/internal/errors"
	"github.com/nextbase-dev/nextbase/internal/project"
)

const (
	// DefaultTemplate is the starter the scaffolder fetches.
	DefaultTemplate = "https://github.com/Mohamed-4rarh/next-supabase-starter"

	// DefaultPackageManager is the package manager used for every install step.
	DefaultPackageManager = "pnpm"

	// DefaultCommitMessage is the message of the initial commit.
	DefaultCommitMessage = "Initial commit"

	// DefaultOutputTail is how many output lines of a failing command are kept.
	DefaultOutputTail = 20
)

// Step names, in execution order.
const (
	StepInstall  = "install"
	StepTailwind = "tailwind"
	StepUI       = "ui"
	StepGit      = "git"
)

// Steps lists the setup steps in execution order.
var Steps = []string{StepInstall, StepTailwind, StepUI, StepGit}

// Environment variables that override settings.
const (
	EnvTemplate       = "NEXTBASE_TEMPLATE"
	EnvPackageManager = "NEXTBASE_PACKAGE_MANAGER"
	EnvInstallCmd     = "NEXTBASE_INSTALL_CMD"
	EnvCommitMessage  = "NEXTBASE_COMMIT_MESSAGE"
)

// packageManager describes how to drive one Node package manager.
type packageManager struct {
	install string
	addDev  string
	add     string
	dlx     string
	dev     string
}

var packageManagers = map[string]packageManager{
	"pnpm": {install: "pnpm install", addDev: "pnpm add -D", add: "pnpm add", dlx: "pnpm dlx", dev: "pnpm dev"},
	"npm":  {install: "npm install", addDev: "npm install -D", add: "npm install", dlx: "npx", dev: "npm run dev"},
	"yarn": {install: "yarn install", addDev: "yarn add -D", add: "yarn add", dlx: "yarn dlx", dev: "yarn dev"},
	"bun":  {install: "bun install", addDev: "bun add -d", add: "bun add", dlx: "bunx", dev: "bun dev"},
}

// Settings configures a scaffolding run.
type Settings struct {
	// Template is the template source (git URL, github:owner/repo, archive
	// URL, s3://bucket/prefix or local directory).
	Template string `yaml:"template,omitempty"`

	// PackageManager is one of pnpm, npm, yarn or bun.
	PackageManager string `yaml:"packageManager,omitempty"`

	// CommitMessage is the message of the initial commit.
	CommitMessage string `yaml:"commitMessage,omitempty"`

	// OutputTail is the number of output lines captured per command for
	// error reports.
	OutputTail int `yaml:"outputTail,omitempty"`

	// Features overrides entries of the feature table.
	Features map[string][]string `yaml:"features,omitempty"`

	// Commands replaces the command lines of a step, keyed by step name.
	Commands map[string][]string `yaml:"commands,omitempty"`

	// path is the file the settings were loaded from, if any.
	path string
}

// New returns the default settings.
func New() *Settings {
	return &Settings{
		Template:       DefaultTemplate,
		PackageManager: DefaultPackageManager,
		CommitMessage:  DefaultCommitMessage,
		OutputTail:     DefaultOutputTail,
	}
}

// Load builds settings from defaults, the optional file at path and the
// environment seen through lookup. An empty path skips the file.
func Load(path string, lookup func(string) (string, bool)) (*Settings, error) {
	s := New()
	if path != "" {
		if err := s.loadFile(path); err != nil {
			return nil, err
		}
	}
	if lookup != nil {
		if err := s.ApplyEnv(lookup); err != nil {
			return nil, err
		}
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// loadFile overlays the YAML file at path onto s.
func (s *Settings) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.New("E140").
				WithDetail("Settings file " + path + " does not exist").
				WithSuggestion("Check the --config path")
		}
		return errors.New("E140").Wrap(err)
	}

	if err := yaml.Unmarshal(data, s); err != nil {
		return errors.New("E140").
			WithDetail("Failed to parse " + path + ": " + err.Error()).
			WithSuggestion("Check that the settings file is valid YAML")
	}

	s.path = path
	return nil
}

// ApplyEnv applies NEXTBASE_* overrides.
func (s *Settings) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvTemplate); ok && v != "" {
		s.Template = v
	}
	if v, ok := lookup(EnvPackageManager); ok && v != "" {
		s.PackageManager = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := lookup(EnvCommitMessage); ok && v != "" {
		s.CommitMessage = v
	}
	if v, ok := lookup(EnvInstallCmd); ok && v != "" {
		if s.Commands == nil {
			s.Commands = make(map[string][]string)
		}
		s.Commands[StepInstall] = []string{v}
	}
	return nil
}

// Path returns the file the settings were loaded from.
func (s *Settings) Path() string {
	return s.path
}

// Validate checks if the settings are usable.
func (s *Settings) Validate() error {
	if strings.TrimSpace(s.Template) == "" {
		return errors.New("E141").
			WithDetail("template must not be empty")
	}
	if _, ok := packageManagers[s.PackageManager]; !ok {
		return errors.New("E141").
			WithDetail("Unknown package manager '" + s.PackageManager + "'").
			WithSuggestion("Use one of: " + strings.Join(PackageManagers(), ", "))
	}
	if strings.TrimSpace(s.CommitMessage) == "" {
		return errors.New("E141").
			WithDetail("commitMessage must not be empty")
	}
	if s.OutputTail < 0 {
		return errors.New("E141").
			WithDetail("outputTail must not be negative, got " + strconv.Itoa(s.OutputTail))
	}

	for step := range s.Commands {
		if !knownStep(step) {
			return errors.New("E141").
				WithDetail("Unknown step '" + step + "' in commands").
				WithSuggestion("Steps: " + strings.Join(Steps, ", "))
		}
		if _, err := s.CommandLines(step); err != nil {
			return err
		}
	}

	if _, err := s.FeatureTable(); err != nil {
		return err
	}
	return nil
}

// PackageManagers returns the supported package manager names.
func PackageManagers() []string {
	names := make([]string, 0, len(packageManagers))
	for name := range packageManagers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DevCommand is the command that starts the development server.
func (s *Settings) DevCommand() string {
	if pm, ok := packageManagers[s.PackageManager]; ok {
		return pm.dev
	}
	return DefaultPackageManager + " dev"
}

// CommandLines returns the argv of every command the step runs, in order.
func (s *Settings) CommandLines(step string) ([][]string, error) {
	lines, ok := s.Commands[step]
	if !ok {
		lines = s.defaultLines(step)
	}
	if len(lines) == 0 {
		return nil, errors.New("E141").
			WithDetail("Step '" + step + "' has no commands")
	}

	argvs := make([][]string, 0, len(lines))
	for _, line := range lines {
		argv, err := shellquote.Split(line)
		if err != nil {
			return nil, errors.New("E141").
				WithDetail("Cannot parse command '" + line + "' for step '" + step + "'").
				Wrap(err)
		}
		if len(argv) == 0 {
			return nil, errors.New("E141").
				WithDetail("Empty command for step '" + step + "'")
		}
		argvs = append(argvs, argv)
	}
	return argvs, nil
}

// defaultLines returns the stock command lines for a step.
func (s *Settings) defaultLines(step string) []string {
	pm := packageManagers[s.PackageManager]
	switch step {
	case StepInstall:
		return []string{pm.install}
	case StepTailwind:
		return []string{
			pm.addDev + " tailwindcss postcss autoprefixer",
			"npx tailwindcss init -p",
		}
	case StepUI:
		return []string{
			pm.dlx + " shadcn-ui@latest init -y",
			pm.add + " @shadcn/ui",
		}
	case StepGit:
		return []string{
			"git init",
			"git add .",
			"git commit -m " + shellquote.Join(s.CommitMessage),
		}
	}
	return nil
}

// FeatureTable returns the default feature table with file overrides applied.
func (s *Settings) FeatureTable() (project.FeatureTable, error) {
	table := project.DefaultFeatureTable()
	for name, paths := range s.Features {
		id, err := project.ParseFeature(name)
		if err != nil {
			return nil, err
		}
		table[id] = paths
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

func knownStep(step string) bool {
	for _, s := range Steps {
		if s == step {
			return true
		}
	}
	return false
}
