package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/tfctl/a11ydiff/internal/command"
)

type Config struct {
	Subcommands []Subcommand `yaml:"subcommands"`
	Common      Common       `yaml:"common"`
}

type Common struct {
	Flags []Flag `yaml:"flags"`
}

type Subcommand struct {
	ID          string    `yaml:"id"`
	Short       string    `yaml:"short"`
	Description string    `yaml:"description"`
	Usage       string    `yaml:"usage"`
	Flags       []Flag    `yaml:"flags"`
	Examples    []Example `yaml:"examples"`
	Notes       []string  `yaml:"notes,omitempty"`
}

type Flag struct {
	ID          string `yaml:"id"`
	Syntax      string `yaml:"syntax"`
	Description string `yaml:"description"`
	Default     string `yaml:"default,omitempty"`
	More        string `yaml:"more,omitempty"`
}

type Example struct {
	Command     string `yaml:"command"`
	Description string `yaml:"description"`
}

type TemplateData struct {
	Subcommand
	Date    string
	Version string
}

// docFlag is the part of a urfave flag docsgen reads.
type docFlag interface {
	cli.Flag
	GetUsage() string
	GetDefaultText() string
	TakesValue() bool
}

const markdownTemplate = `# a11ydiff {{ .ID }}

{{ .Short }}

## Usage

` + "```" + `
{{ .Usage }}
` + "```" + `
{{ if .Description }}
{{ .Description }}
{{ end }}
## Flags

| Flag | Description | Default |
|---|---|---|
{{- range .Flags }}
| ` + "`{{ .Syntax }}`" + ` | {{ .Description }} | {{ .Default }} |
{{- end }}
{{ if .Examples }}
## Examples
{{ range .Examples }}
{{ .Description }}

` + "```" + `
{{ .Command }}
` + "```" + `
{{ end }}{{ end }}{{ range .Notes }}
> {{ . }}
{{ end }}
_Generated {{ .Date }} for a11ydiff {{ .Version }}._
`

// main renders docs/commands/<command>.md from the live command tree. An
// optional docs/examples.yaml supplies descriptions, examples and notes
// keyed by command id.
func main() {
	docs := "docs"
	if len(os.Args) > 1 {
		docs = os.Args[1]
	}

	config := fromApp()

	if data, err := os.ReadFile(filepath.Join(docs, "examples.yaml")); err == nil {
		var extra Config
		if err := yaml.Unmarshal(data, &extra); err != nil {
			panic(err)
		}
		merge(&config, extra)
	}

	tmpl := template.Must(template.New("command").Parse(markdownTemplate))
	folder := filepath.Join(docs, "commands")
	if err := os.MkdirAll(folder, 0755); err != nil {
		panic(err)
	}

	for _, sub := range config.Subcommands {
		mergedFlags := sub.Flags
		if sub.ID != "list" && sub.ID != "inspect" && sub.ID != "completion" {
			mergedFlags = append(slices.Clone(config.Common.Flags), sub.Flags...)
		}

		sort.Slice(mergedFlags, func(i, j int) bool {
			return mergedFlags[i].ID < mergedFlags[j].ID
		})
		sub.Flags = mergedFlags

		metadata := TemplateData{
			Subcommand: sub,
			Date:       time.Now().Format("January 2, 2006"),
			Version:    getVersion(),
		}

		path := filepath.Join(folder, sub.ID+".md")
		file, err := os.Create(path)
		if err != nil {
			panic(err)
		}
		fmt.Println("Generating", path)

		if err := tmpl.Execute(file, metadata); err != nil {
			panic(err)
		}
		file.Close()
	}

	// Keep the merged model next to the output for review.
	out, err := yaml.Marshal(config)
	if err != nil {
		panic(err)
	}
	if err := os.WriteFile(filepath.Join(folder, "commands.yaml"), out, 0644); err != nil {
		panic(err)
	}
}

// fromApp builds the doc model from command.InitApp. Flags shared through
// NewGlobalFlags become the common section.
func fromApp() Config {
	app, err := command.InitApp(context.Background(), []string{"a11ydiff"})
	if err != nil {
		panic(err)
	}

	var config Config
	common := map[string]bool{}
	for _, f := range command.NewGlobalFlags() {
		config.Common.Flags = append(config.Common.Flags, toFlag(f))
		common[f.Names()[0]] = true
	}

	for _, cmd := range app.Commands {
		sub := Subcommand{
			ID:    cmd.Name,
			Short: cmd.Usage,
			Usage: cmd.UsageText,
		}
		for _, f := range cmd.Flags {
			if common[f.Names()[0]] && cmd.Name != "list" {
				continue
			}
			sub.Flags = append(sub.Flags, toFlag(f))
		}
		config.Subcommands = append(config.Subcommands, sub)
	}
	return config
}

func toFlag(f cli.Flag) Flag {
	names := f.Names()
	syntax := make([]string, 0, len(names))
	for _, n := range names {
		if len(n) == 1 {
			syntax = append(syntax, "-"+n)
		} else {
			syntax = append(syntax, "--"+n)
		}
	}

	flag := Flag{ID: names[0], Syntax: strings.Join(syntax, ", ")}
	if df, ok := f.(docFlag); ok {
		flag.Description = df.GetUsage()
		if df.TakesValue() {
			flag.Syntax += " value"
			flag.Default = strings.Trim(df.GetDefaultText(), `"`)
		}
	}
	return flag
}

// merge copies descriptions, examples and notes from extra onto matching
// subcommands, and more text onto matching flags.
func merge(config *Config, extra Config) {
	for _, e := range extra.Subcommands {
		for i := range config.Subcommands {
			sub := &config.Subcommands[i]
			if sub.ID != e.ID {
				continue
			}
			if e.Description != "" {
				sub.Description = e.Description
			}
			sub.Examples = append(sub.Examples, e.Examples...)
			sub.Notes = append(sub.Notes, e.Notes...)
			for _, ef := range e.Flags {
				for j := range sub.Flags {
					if sub.Flags[j].ID == ef.ID && ef.More != "" {
						sub.Flags[j].Description += " " + ef.More
					}
				}
			}
		}
	}
}

// getVersion returns the version string from git tags, stripping the leading
// "v" prefix. Falls back to "dev" if git describe fails.
func getVersion() string {
	out, err := exec.Command("git", "describe", "--tags", "--abbrev=0").Output()
	if err != nil {
		return "dev"
	}

	version := strings.TrimSpace(string(out))
	return strings.TrimPrefix(version, "v")
}
