package tui

import (
	"errors"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/mattn/go-isatty"
)

// ErrInteractiveDisabled is returned when a prompt is needed but there is no
// terminal to ask on, or HOSTPROV_NON_INTERACTIVE is set.
var ErrInteractiveDisabled = errors.New("confirmation required but no interactive terminal is available (pass --yes)")

// Confirmer asks the operator a yes/no question
type Confirmer interface {
	Confirm(prompt string) (bool, error)
}

// ConfirmFunc adapts a function to the Confirmer interface
type ConfirmFunc func(prompt string) (bool, error)

// Confirm calls f
func (f ConfirmFunc) Confirm(prompt string) (bool, error) {
	return f(prompt)
}

// SurveyConfirmer prompts on the terminal with a default of "no"
type SurveyConfirmer struct{}

// Confirm shows a y/N prompt. Ctrl+C counts as "no".
func (SurveyConfirmer) Confirm(prompt string) (bool, error) {
	if !IsInteractive() {
		return false, ErrInteractiveDisabled
	}

	answer := false
	err := survey.AskOne(&survey.Confirm{
		Message: prompt,
		Default: false,
	}, &answer)
	if errors.Is(err, terminal.InterruptErr) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("prompt failed: %w", err)
	}
	return answer, nil
}

// IsTTY returns true if both stdin and stdout are terminals
func IsTTY() bool {
	return (isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())) &&
		(isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()))
}

// IsInteractive checks if prompting is possible and allowed
func IsInteractive() bool {
	if os.Getenv("HOSTPROV_NON_INTERACTIVE") != "" {
		return false
	}
	return IsTTY()
}
