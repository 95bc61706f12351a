package main

import (
	"context"
	"errors"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/Skufu/OTCAdvisor/internal/form"
)

// errAborted is returned when the user interrupts a prompt.
var errAborted = errors.New("questionnaire aborted")

type inputConfig struct {
	Message string
	Help    string
}

type selectConfig struct {
	Message  string
	Options  []string
	PageSize int
}

// promptDriver asks one question at a time so collection can be tested
// without a terminal.
type promptDriver interface {
	Input(ctx context.Context, cfg inputConfig) (string, error)
	Select(ctx context.Context, cfg selectConfig) (int, error)
	MultiSelect(ctx context.Context, cfg selectConfig) ([]int, error)
}

// collect walks the catalog in display order and returns the raw answers.
// Validation is left to the recommendation service so every surface rejects
// the same way.
func collect(ctx context.Context, d promptDriver, c *form.Catalog) (form.Submission, error) {
	var sub form.Submission
	for _, f := range c.Fields() {
		switch f.Type {
		case form.FieldNumber:
			v, err := d.Input(ctx, inputConfig{Message: f.Label, Help: f.Placeholder})
			if err != nil {
				return sub, err
			}
			sub.Set(f.Key, v)
		case form.FieldSelect:
			idx, err := d.Select(ctx, selectConfig{Message: f.Label, Options: f.Options, PageSize: 10})
			if err != nil {
				return sub, err
			}
			if idx >= 0 && idx < len(f.Options) {
				sub.Set(f.Key, f.Options[idx])
			}
		case form.FieldMultiSelect:
			idxs, err := d.MultiSelect(ctx, selectConfig{Message: f.Label, Options: f.Options, PageSize: 15})
			if err != nil {
				return sub, err
			}
			for _, idx := range idxs {
				if idx >= 0 && idx < len(f.Options) {
					sub.Symptoms = append(sub.Symptoms, f.Options[idx])
				}
			}
		}
	}
	return sub, nil
}

type surveyDriver struct{}

func (surveyDriver) Input(ctx context.Context, cfg inputConfig) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	prompt := &survey.Input{Message: cfg.Message, Help: cfg.Help}
	if err := survey.AskOne(prompt, &out); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func (surveyDriver) Select(ctx context.Context, cfg selectConfig) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var out int
	prompt := &survey.Select{Message: cfg.Message, Options: cfg.Options, PageSize: cfg.PageSize}
	if err := survey.AskOne(prompt, &out); err != nil {
		return 0, translateSurveyErr(err)
	}
	return out, nil
}

func (surveyDriver) MultiSelect(ctx context.Context, cfg selectConfig) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []int
	prompt := &survey.MultiSelect{Message: cfg.Message, Options: cfg.Options, PageSize: cfg.PageSize}
	if err := survey.AskOne(prompt, &out); err != nil {
		return nil, translateSurveyErr(err)
	}
	return out, nil
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return errAborted
	}
	return err
}
