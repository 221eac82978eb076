package common

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

const maxSelectHeight = 10

// PromptSelect lets the user pick one of options on the terminal. The first
// option starts selected.
func PromptSelect(command *cobra.Command, title string, options []string) (string, error) {
	if len(options) == 0 {
		return "", ValidationError("nothing to select from", nil)
	}
	if err := requireTerminal(command); err != nil {
		return "", err
	}

	choice := options[0]
	field := huh.NewSelect[string]().
		Title(promptTitle(title, "Select")).
		Options(huh.NewOptions(options...)...).
		Value(&choice)
	if len(options) > maxSelectHeight {
		field = field.Height(maxSelectHeight)
	}

	if err := runPrompt(command, field); err != nil {
		return "", err
	}
	return choice, nil
}

// PromptConfirm asks a yes/no question. Declining is the answer when the user
// just presses enter, unless defaultYes is set.
func PromptConfirm(command *cobra.Command, title string, defaultYes bool) (bool, error) {
	if err := requireTerminal(command); err != nil {
		return false, err
	}

	answer := defaultYes
	field := huh.NewConfirm().
		Title(promptTitle(title, "Continue?")).
		Affirmative("Yes").
		Negative("No").
		Value(&answer)

	if err := runPrompt(command, field); err != nil {
		return false, err
	}
	return answer, nil
}

func requireTerminal(command *cobra.Command) error {
	if IsInteractiveTerminal(command) {
		return nil
	}
	return ValidationError("this prompt needs an interactive terminal; pass the value as a flag instead", nil)
}

func runPrompt(command *cobra.Command, field huh.Field) error {
	err := huh.NewForm(huh.NewGroup(field)).
		WithInput(command.InOrStdin()).
		WithOutput(command.ErrOrStderr()).
		WithShowHelp(false).
		Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return ValidationError("prompt aborted", nil)
	}
	return err
}

func promptTitle(title string, fallback string) string {
	title = strings.TrimSuffix(strings.TrimSpace(title), ":")
	if title == "" {
		return fallback
	}
	return title
}
