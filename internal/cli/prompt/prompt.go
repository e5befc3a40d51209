package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"golang.org/x/term"

	"github.com/lexicon-dev/lexicon/internal/cli/client"
	"github.com/lexicon-dev/lexicon/internal/cli/plans"
)

// Action is what the user chose during a review
type Action int

const (
	ActionKnown Action = iota
	ActionUnknown
	ActionNext
	ActionQuit
)

// ErrCancelled is returned when the user aborts a prompt
var ErrCancelled = errors.New("cancelled")

// Terminal prompts on an interactive terminal
type Terminal struct {
	In  *os.File
	Out io.Writer
}

// NewTerminal returns a prompter bound to the process's stdin/stdout
func NewTerminal() *Terminal {
	return &Terminal{In: os.Stdin, Out: os.Stdout}
}

// Interactive reports whether stdin is a terminal (not piped)
func (t *Terminal) Interactive() bool {
	return term.IsTerminal(int(t.In.Fd()))
}

// SelectPlan shows an interactive prompt for the user to pick a book
func (t *Terminal) SelectPlan(entries []plans.Entry) (plans.Entry, error) {
	if len(entries) == 0 {
		return plans.Entry{}, fmt.Errorf("no daily plans found")
	}

	// Create display labels for each plan
	type planOption struct {
		Label string
		Entry plans.Entry
	}

	options := make([]planOption, len(entries))
	for i, e := range entries {
		options[i] = planOption{
			Label: fmt.Sprintf("%s (%d/%d)", e.Book.Name, e.Plan.Progress, e.Book.WordsCount),
			Entry: e,
		}
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "> {{ .Label | cyan }}",
		Inactive: "  {{ .Label }}",
		Selected: "{{ .Label | green }}",
	}

	prompt := promptui.Select{
		Label:     "Please select a book",
		Items:     options,
		Templates: templates,
		Size:      10,
		Stdin:     t.In,
	}

	index, _, err := prompt.Run()
	if err != nil {
		return plans.Entry{}, cancelled(err)
	}

	return options[index].Entry, nil
}

// AskKnown asks whether the user knows an unsubmitted word
func (t *Terminal) AskKnown(word *client.Word) (Action, error) {
	prompt := promptui.Select{
		Label: fmt.Sprintf("%s  Do you know the word?", word.Spelling),
		Items: []string{"✓ I know it", "✗ I don't know it", "Quit"},
		Stdin: t.In,
	}

	index, _, err := prompt.Run()
	if err != nil {
		return ActionQuit, cancelled(err)
	}

	switch index {
	case 0:
		return ActionKnown, nil
	case 1:
		return ActionUnknown, nil
	default:
		return ActionQuit, nil
	}
}

// AskNext shows a revealed word and waits for the user to move on
func (t *Terminal) AskNext(word *client.Word) (Action, error) {
	prompt := promptui.Select{
		Label: fmt.Sprintf("%s: %s", word.Spelling, word.TranslationText()),
		Items: []string{"Next »", "Quit"},
		Stdin: t.In,
	}

	index, _, err := prompt.Run()
	if err != nil {
		return ActionQuit, cancelled(err)
	}
	if index == 0 {
		return ActionNext, nil
	}
	return ActionQuit, nil
}

// Credentials prompts for whatever part of the credentials is missing
func (t *Terminal) Credentials(username, password string) (string, string, error) {
	if !t.Interactive() {
		return "", "", fmt.Errorf("username and password are required in non-interactive mode (use --username/--password flags or LEXICON_USERNAME/LEXICON_PASSWORD env vars)")
	}

	if username == "" {
		fmt.Fprint(t.Out, "Username: ")
		line, err := bufio.NewReader(t.In).ReadString('\n')
		if err != nil && line == "" {
			return "", "", fmt.Errorf("failed to read username: %w", err)
		}
		username = strings.TrimSpace(line)
	}

	if password == "" {
		fmt.Fprint(t.Out, "Password: ")
		bytePassword, err := term.ReadPassword(int(t.In.Fd()))
		if err != nil {
			return "", "", fmt.Errorf("failed to read password: %w", err)
		}
		password = string(bytePassword)
		fmt.Fprintln(t.Out) // New line after password input
	}

	return username, password, nil
}

// ConfirmRemember asks whether the session should be kept after this run
func (t *Terminal) ConfirmRemember() (bool, error) {
	prompt := promptui.Prompt{
		Label:     "Remember me",
		IsConfirm: true,
		Stdin:     t.In,
	}

	_, err := prompt.Run()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, promptui.ErrAbort):
		// Answering "n" aborts a confirm prompt
		return false, nil
	}
	return false, cancelled(err)
}

func cancelled(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || errors.Is(err, promptui.ErrAbort) {
		return ErrCancelled
	}
	return fmt.Errorf("prompt failed: %w", err)
}
