// Package wizard collects a project configuration by asking questions on a
// terminal.
package wizard

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/leapstack-labs/rustfull/internal/cli/output"
	"github.com/leapstack-labs/rustfull/internal/project"
)

// ErrAborted is returned when the user declines the final confirmation.
var ErrAborted = errors.New("setup aborted")

// DefaultName is offered as the example project name.
const DefaultName = "my-rustfull-app"

// LineReader reads one line of input after showing a prompt.
// *readline.Instance satisfies it.
type LineReader interface {
	SetPrompt(prompt string)
	Readline() (string, error)
}

// NewReadline returns a line reader on in/out without history.
func NewReadline(in io.ReadCloser, out io.Writer) (*readline.Instance, error) {
	return readline.NewEx(&readline.Config{
		Prompt:                 "> ",
		Stdin:                  in,
		Stdout:                 out,
		HistoryLimit:           -1,
		DisableAutoSaveHistory: true,
		InterruptPrompt:        "^C",
		EOFPrompt:              "",
	})
}

// Wizard asks the setup questions in a fixed order.
type Wizard struct {
	In  LineReader
	Out *output.Renderer

	// Name, when valid, is used without asking.
	Name string
}

// Defaults returns the configuration used by non-interactive runs:
// TypeScript, React and Axum with no tools and every feature off.
func Defaults(name string) (project.Config, error) {
	return project.New(name, project.TypeScript, project.React, project.Axum, nil, project.Features{})
}

// Run asks every question, shows a summary and asks for confirmation.
// Declining returns ErrAborted. End of input or an interrupt is returned as
// an error.
func (w *Wizard) Run() (project.Config, error) {
	name, err := w.askName()
	if err != nil {
		return project.Config{}, err
	}

	lang, err := askChoice(w, "Which language will you use for your frontend?", project.Languages())
	if err != nil {
		return project.Config{}, err
	}

	frontend, err := askChoice(w, "Which frontend framework would you like to use?", lang.Frontends())
	if err != nil {
		return project.Config{}, err
	}

	backend, err := askChoice(w, "Which framework will you use for your backend?", project.Backends())
	if err != nil {
		return project.Config{}, err
	}

	var tools []string
	wantTools, err := w.askYesNo("Would you like to enable additional tools or libraries?", false)
	if err != nil {
		return project.Config{}, err
	}
	if wantTools {
		line, err := w.ask("Enter the tools or libraries (separate with commas): ")
		if err != nil {
			return project.Config{}, err
		}
		tools = project.ParseTools(line)
	}

	var f project.Features
	questions := []struct {
		text string
		dst  *bool
	}{
		{"Enable code linting and formatting?", &f.Linting},
		{"Initialize a new git repository?", &f.GitInit},
		{"Would you like to configure environment variables for your project?", &f.EnvConfig},
		{"Would you like to include Docker support for containerization?", &f.Docker},
		{"Would you like us to run cargo install or npm install for you?", &f.AutoInstall},
	}
	for _, q := range questions {
		if *q.dst, err = w.askYesNo(q.text, true); err != nil {
			return project.Config{}, err
		}
	}

	cfg, err := project.New(name, lang, frontend, backend, tools, f)
	if err != nil {
		return project.Config{}, err
	}

	w.printSummary(cfg)

	ok, err := w.askYesNo("Do you want to continue?", true)
	if err != nil {
		return project.Config{}, err
	}
	if !ok {
		return project.Config{}, ErrAborted
	}
	return cfg, nil
}

func (w *Wizard) askName() (string, error) {
	if w.Name != "" {
		if err := project.ValidateName(w.Name); err == nil {
			return w.Name, nil
		}
		w.Out.Warning(fmt.Sprintf("ignoring invalid project name %q", w.Name))
	}

	for {
		name, err := w.ask(fmt.Sprintf("What will your project be called? (%s): ", DefaultName))
		if err != nil {
			return "", err
		}
		name = strings.TrimSpace(name)
		if err := project.ValidateName(name); err != nil {
			w.Out.Warning(err.Error())
			continue
		}
		return name, nil
	}
}

// askChoice lists choices and accepts either a 1-based index or a name.
func askChoice[T ~string](w *Wizard, question string, choices []T) (T, error) {
	w.Out.Println(question)
	for i, c := range choices {
		w.Out.Printf("  %d) %s\n", i+1, c)
	}

	for {
		line, err := w.ask(fmt.Sprintf("Select [1-%d]: ", len(choices)))
		if err != nil {
			var zero T
			return zero, err
		}
		if c, ok := matchChoice(strings.TrimSpace(line), choices); ok {
			return c, nil
		}
		w.Out.Warning(fmt.Sprintf("invalid selection %q", line))
	}
}

func matchChoice[T ~string](s string, choices []T) (T, bool) {
	if n, err := strconv.Atoi(s); err == nil && n >= 1 && n <= len(choices) {
		return choices[n-1], true
	}
	for _, c := range choices {
		if strings.EqualFold(s, string(c)) {
			return c, true
		}
	}
	var zero T
	return zero, false
}

func (w *Wizard) askYesNo(question string, def bool) (bool, error) {
	hint := "(y/N)"
	if def {
		hint = "(Y/n)"
	}

	for {
		line, err := w.ask(fmt.Sprintf("%s %s: ", question, hint))
		if err != nil {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		w.Out.Warning("please answer yes or no")
	}
}

func (w *Wizard) ask(prompt string) (string, error) {
	w.In.SetPrompt(prompt)
	line, err := w.In.Readline()
	if err != nil {
		if errors.Is(err, readline.ErrInterrupt) {
			return "", fmt.Errorf("setup interrupted: %w", err)
		}
		if errors.Is(err, io.EOF) {
			return "", fmt.Errorf("setup input ended: %w", err)
		}
		return "", err
	}
	return line, nil
}

func (w *Wizard) printSummary(cfg project.Config) {
	w.Out.Header(2, "Project Setup Summary")
	rows := make([][]string, 0, 10)
	for _, row := range cfg.Summary() {
		rows = append(rows, []string{row.Label, row.Value})
	}
	w.Out.Table([]string{"Setting", "Value"}, rows)
}
