package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// ErrAborted is returned when the user interrupts a prompt.
var ErrAborted = errors.New("aborted by user")

// promptDriver abstracts the terminal prompts so the edit loop can be tested
// with a scripted implementation.
type promptDriver interface {
	Input(message, help, defaultValue string, validator func(string) error) (string, error)
	Confirm(message string, defaultValue bool) (bool, error)
	Select(message string, options []string) (int, error)
	Info(msg string)
}

type surveyDriver struct{}

func (surveyDriver) Input(message, help, defaultValue string, validator func(string) error) (string, error) {
	var out string
	prompt := &survey.Input{
		Message: message,
		Help:    help,
		Default: defaultValue,
	}
	var opts []survey.AskOpt
	if validator != nil {
		opts = append(opts, survey.WithValidator(func(ans interface{}) error {
			text, _ := ans.(string)
			return validator(text)
		}))
	}
	if err := survey.AskOne(prompt, &out, opts...); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func (surveyDriver) Confirm(message string, defaultValue bool) (bool, error) {
	var out bool
	prompt := &survey.Confirm{Message: message, Default: defaultValue}
	if err := survey.AskOne(prompt, &out); err != nil {
		return false, translateSurveyErr(err)
	}
	return out, nil
}

func (surveyDriver) Select(message string, options []string) (int, error) {
	var out string
	prompt := &survey.Select{Message: message, Options: options, PageSize: 12}
	if err := survey.AskOne(prompt, &out); err != nil {
		return 0, translateSurveyErr(err)
	}
	for i, option := range options {
		if option == out {
			return i, nil
		}
	}
	return -1, fmt.Errorf("option %q not offered", out)
}

func (surveyDriver) Info(msg string) {
	fmt.Fprintln(os.Stdout, msg)
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}
