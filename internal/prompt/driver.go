package prompt

import (
	"context"
	goerrors "errors"
	"io"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// InputConfig configures a text input prompt.
type InputConfig struct {
	Message   string
	Default   string
	Help      string
	Validator func(string) error
}

// ConfirmConfig configures a yes/no prompt.
type ConfirmConfig struct {
	Message string
	Default bool
	Help    string
}

// MultiSelectConfig configures a multi-select prompt.
type MultiSelectConfig struct {
	Message  string
	Options  []string
	Defaults []int // indices into Options
	Help     string
	MinItems int
}

// Driver abstracts the terminal so the questionnaire can be tested without a
// real terminal.
type Driver interface {
	Input(ctx context.Context, cfg InputConfig) (string, error)
	MultiSelect(ctx context.Context, cfg MultiSelectConfig) ([]int, error)
	Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error)
}

type surveyDriver struct {
	opts []survey.AskOpt
}

// NewSurveyDriver returns a Driver backed by survey/v2 on the process terminal.
func NewSurveyDriver() Driver {
	return &surveyDriver{}
}

// NewSurveyDriverWithStdio returns a survey Driver bound to explicit streams.
func NewSurveyDriverWithStdio(in terminal.FileReader, out terminal.FileWriter, errOut io.Writer) Driver {
	return &surveyDriver{opts: []survey.AskOpt{survey.WithStdio(in, out, errOut)}}
}

func (d *surveyDriver) Input(ctx context.Context, cfg InputConfig) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	prompt := &survey.Input{
		Message: cfg.Message,
		Help:    cfg.Help,
		Default: cfg.Default,
	}
	opts := append([]survey.AskOpt{}, d.opts...)
	if cfg.Validator != nil {
		validate := cfg.Validator
		opts = append(opts, survey.WithValidator(func(ans interface{}) error {
			s, _ := ans.(string)
			return validate(s)
		}))
	}
	if err := survey.AskOne(prompt, &out, opts...); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func (d *surveyDriver) MultiSelect(ctx context.Context, cfg MultiSelectConfig) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []string
	prompt := &survey.MultiSelect{
		Message: cfg.Message,
		Options: cfg.Options,
		Help:    cfg.Help,
	}
	if len(cfg.Defaults) > 0 {
		prompt.Default = defaultsFromIndices(cfg.Options, cfg.Defaults)
	}
	opts := append([]survey.AskOpt{}, d.opts...)
	if cfg.MinItems > 0 {
		opts = append(opts, survey.WithValidator(survey.MinItems(cfg.MinItems)))
	}
	if err := survey.AskOne(prompt, &out, opts...); err != nil {
		return nil, translateSurveyErr(err)
	}
	return indicesOf(cfg.Options, out), nil
}

func (d *surveyDriver) Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var out bool
	prompt := &survey.Confirm{
		Message: cfg.Message,
		Help:    cfg.Help,
		Default: cfg.Default,
	}
	if err := survey.AskOne(prompt, &out, d.opts...); err != nil {
		return false, translateSurveyErr(err)
	}
	return out, nil
}

// translateSurveyErr maps interrupts and closed input to ErrAborted.
func translateSurveyErr(err error) error {
	if goerrors.Is(err, terminal.InterruptErr) || goerrors.Is(err, io.EOF) {
		return ErrAborted
	}
	return err
}

func indicesOf(options, values []string) []int {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		seen[v] = struct{}{}
	}
	var out []int
	for i, option := range options {
		if _, ok := seen[option]; ok {
			out = append(out, i)
		}
	}
	return out
}

func defaultsFromIndices(options []string, indices []int) []string {
	var out []string
	for _, idx := range indices {
		if idx >= 0 && idx < len(options) {
			out = append(out, options[idx])
		}
	}
	return out
}
