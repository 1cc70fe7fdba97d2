// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v3"

	"github.com/tfctl/a11ydiff/internal/command/inspect"
	"github.com/tfctl/a11ydiff/internal/config"
	"github.com/tfctl/a11ydiff/internal/log"
	"github.com/tfctl/a11ydiff/internal/meta"
)

const maxInspectHistory = 1000

func inspectCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	config.Config.Namespace = "inspect"

	args := cmd.Args().Slice()
	if len(args) == 0 && cmd.String("in") != "" {
		args = []string{"latest"}
	}
	if len(args) != 1 {
		return fmt.Errorf("inspect requires one RESULT, got %d argument(s)", len(args))
	}

	loader := NewLoader()
	specs, err := ResolveSpecs(ctx, cmd, loader, args)
	if err != nil {
		return err
	}
	raw, err := loader.Load(ctx, specs[0])
	if err != nil {
		return err
	}
	doc, err := inspect.NewDocument(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", specs[0], err)
	}

	// A query given with --query is answered without the console.
	if q := cmd.String("query"); q != "" {
		inspect.ProcessQuery(writer(cmd), doc, q)
		return nil
	}

	if !isTerminal(os.Stdin) {
		return fmt.Errorf("inspect needs an interactive terminal, use --query")
	}

	_, err = tea.NewProgram(initialInspectModel(doc, inspectHistoryFile())).Run()
	return err
}

// inspectModel is the Bubble Tea model of the query console.
type inspectModel struct {
	input          textinput.Model
	history        []string // Full history for navigation, including the file.
	sessionHistory []string // Only queries from this session, paired with output.
	histIndex      int
	histFile       string
	banner         []string
	output         []string
	doc            *inspect.Document
}

func initialInspectModel(doc *inspect.Document, histFile string) inspectModel {
	ti := textinput.New()
	ti.Placeholder = ""
	ti.Focus()
	ti.CharLimit = 2048
	ti.Width = 999
	ti.Prompt = ""
	ti.Cursor.SetMode(cursor.CursorBlink)

	r := doc.Result
	return inspectModel{
		input:     ti,
		history:   loadInspectHistory(histFile),
		histIndex: -1,
		histFile:  histFile,
		banner: []string{
			fmt.Sprintf("Result loaded. %d rules, %d outcomes.", r.Outcomes.Len(), r.OutcomeCount()),
			"Type 'help' for syntax, 'exit' or Ctrl+C to quit.",
		},
		doc: doc,
	}
}

func (m inspectModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			entry := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			if entry == "" {
				return m, nil
			}
			if entry == "exit" || entry == "quit" {
				return m, tea.Quit
			}

			var result string
			if entry == "help" {
				result = inspectHelp
			} else {
				result = runInspectQuery(m.doc, entry)
			}

			m.history = append(m.history, entry)
			m.sessionHistory = append(m.sessionHistory, entry)
			m.histIndex = -1
			m.output = append(m.output, result)
			saveInspectHistory(m.histFile, m.history)
			return m, nil

		case "up":
			if len(m.history) == 0 {
				return m, nil
			}
			if m.histIndex == -1 {
				m.histIndex = len(m.history) - 1
			} else if m.histIndex > 0 {
				m.histIndex--
			}
			m.input.SetValue(m.history[m.histIndex])
			m.input.CursorEnd()
			return m, nil

		case "down":
			if len(m.history) == 0 {
				return m, nil
			}
			if m.histIndex >= 0 && m.histIndex < len(m.history)-1 {
				m.histIndex++
				m.input.SetValue(m.history[m.histIndex])
				m.input.CursorEnd()
			} else {
				m.histIndex = -1
				m.input.SetValue("")
			}
			return m, nil

		case "ctrl+c", "esc":
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

var inspectPromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

func (m inspectModel) View() string {
	lines := append([]string{}, m.banner...)

	for i, q := range m.sessionHistory {
		lines = append(lines, inspectPromptStyle.Render("> ")+q)
		if i < len(m.output) {
			lines = append(lines, m.output[i])
		}
	}

	lines = append(lines, inspectPromptStyle.Render("> ")+m.input.View())
	return strings.Join(lines, "\n")
}

// runInspectQuery answers one query as a string for the console.
func runInspectQuery(doc *inspect.Document, query string) string {
	var b strings.Builder
	inspect.ProcessQuery(&b, doc, query)
	out := strings.TrimSuffix(b.String(), "\n")
	if out == "" {
		return "No results found."
	}
	return out
}

const inspectHelp = `Query syntax:
  rules                  - every rule with its failed, passed and cantTell counts
  rule SUFFIX            - outcomes of the rule whose id ends with SUFFIX, e.g. rule sia-r8
  value VALUE            - every outcome classified VALUE, e.g. value failed

  gjson paths (dots inside rule ids are escaped with \.)
  .page                  - JSON for the page
  page.url               - plain value
  outcomes.@keys         - rule ids, one per line
  outcomes.~sia-r8[0]    - first outcome of the rule whose id ends with sia-r8
  alfaVersion            - engine version

  Navigation:
     ↑/↓ arrows          - Navigate query history
     Ctrl+C              - Exit`

// inspectHistoryFile returns the path of the console history file.
func inspectHistoryFile() string {
	if f, _ := config.GetString("inspect.history", ""); f != "" {
		return f
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".a11ydiff_history"
	}
	return filepath.Join(homeDir, ".a11ydiff_history")
}

func loadInspectHistory(filename string) []string {
	var history []string

	file, err := os.Open(filename)
	if err != nil {
		return history
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			history = append(history, line)
		}
	}

	return history
}

// saveInspectHistory keeps the most recent maxInspectHistory queries.
func saveInspectHistory(filename string, history []string) {
	start := max(len(history)-maxInspectHistory, 0)

	file, err := os.Create(filename)
	if err != nil {
		log.WithError(err).Debug("history not saved")
		return
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	for _, h := range history[start:] {
		fmt.Fprintln(w, h)
	}
	w.Flush()
}

// inspectCommandBuilder constructs the cli.Command for "inspect".
func inspectCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "interactive result console",
		UsageText: "a11ydiff inspect [RESULT] [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: []cli.Flag{
			NewInFlag("inspect", meta.Config.Source),
			&cli.StringFlag{
				Name:    "query",
				Aliases: []string{"q"},
				Usage:   "answer one query and exit",
			},
		},
		Action: inspectCommandAction,
	}
}
