// Package prompt asks the scaffolding questionnaire and turns the answers
// into a project.Config.
package prompt

import (
	"context"
	goerrors "errors"

	"github.com/nextbase-dev/nextbase/internal/errors"
	"github.com/nextbase-dev/nextbase/internal/project"
)

// ErrAborted is returned when the user interrupts the questionnaire.
var ErrAborted = goerrors.New("prompt aborted")

// Collector runs the four project questions.
type Collector struct {
	driver Driver
}

// NewCollector creates a Collector that asks through d.
func NewCollector(d Driver) *Collector {
	return &Collector{driver: d}
}

// Collect asks for the project name, the features, Tailwind and shadcn/ui.
// Abandoning any question returns an E100 error wrapping ErrAborted; in that
// case nothing has been created yet.
func (c *Collector) Collect(ctx context.Context) (project.Config, error) {
	name, err := c.driver.Input(ctx, InputConfig{
		Message:   "Enter your project name:",
		Validator: validateName,
	})
	if err != nil {
		return project.Config{}, aborted(err)
	}
	if name == "" {
		return project.Config{}, aborted(ErrAborted)
	}

	options := make([]string, len(project.AllFeatures))
	for i, id := range project.AllFeatures {
		options[i] = id.Title()
	}
	var defaults []int
	for i, id := range project.AllFeatures {
		for _, d := range project.DefaultFeatures {
			if id == d {
				defaults = append(defaults, i)
			}
		}
	}

	picked, err := c.driver.MultiSelect(ctx, MultiSelectConfig{
		Message:  "Select Supabase features to include:",
		Options:  options,
		Defaults: defaults,
		MinItems: 1,
	})
	if err != nil {
		return project.Config{}, aborted(err)
	}
	features := project.NewFeatureSet()
	for _, idx := range picked {
		if idx >= 0 && idx < len(project.AllFeatures) {
			features[project.AllFeatures[idx]] = struct{}{}
		}
	}

	tailwind, err := c.driver.Confirm(ctx, ConfirmConfig{
		Message: "Would you like to install Tailwind CSS?",
		Default: true,
	})
	if err != nil {
		return project.Config{}, aborted(err)
	}

	ui, err := c.driver.Confirm(ctx, ConfirmConfig{
		Message: "Would you like to install shadcn/ui?",
		Default: true,
	})
	if err != nil {
		return project.Config{}, aborted(err)
	}

	cfg := project.Config{
		Name:      name,
		Features:  features,
		Tailwind:  tailwind,
		UILibrary: ui,
	}
	if err := cfg.Validate(); err != nil {
		return project.Config{}, err
	}
	return cfg, nil
}

func validateName(name string) error {
	if name == "" {
		return goerrors.New("Project name is required!")
	}
	return nil
}

// aborted converts a driver error into the E100 error the CLI exits on.
func aborted(err error) error {
	return errors.New("E100").Wrap(err)
}

// IsAborted reports whether err means the user abandoned the questionnaire.
func IsAborted(err error) bool {
	return errors.CodeOf(err) == "E100"
}
