// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/a11ydiff/internal/meta"
)

const bashCompletionScript = `# bash completion for a11ydiff
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_a11ydiff()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "baseline diff inspect list show completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local common="--attrs -a --color -c --filter -f --in -i --local -l --output -o --padding --schema --sort -s --titles -t"

    case "$cmd" in
        diff)
            local opts="$common --document --fail-on --ignore --patch --pick --summary"
            ;;
        baseline)
            local opts="$common --chain --fail-on --rows"
            ;;
        show)
            local opts="$common --summary"
            ;;
        inspect)
            local opts="--in -i --query -q"
            ;;
        list)
            local opts="--in -i --limit --output -o --titles -t"
            ;;
        completion)
            COMPREPLY=( $(compgen -W "bash zsh" -- "$cur") )
            return 0
            ;;
        *)
            local opts="$common"
            ;;
    esac

    case "$prev" in
        --output|-o)
            COMPREPLY=( $(compgen -W "text json raw yaml" -- "$cur") )
            return 0
            ;;
        --fail-on)
            COMPREPLY=( $(compgen -W "failed cantTell passed any" -- "$cur") )
            return 0
            ;;
        --in|-i|--pick)
            COMPREPLY=( $(compgen -o dirnames -- "$cur") )
            return 0
            ;;
    esac

    if [[ "$cur" == -* ]]; then
        COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
        return 0
    fi

    # Positional results are files, URLs or relative specs like ~1.
    COMPREPLY=( $(compgen -f -X '!*.json' -- "$cur") $(compgen -o dirnames -- "$cur") )
    return 0
}

complete -F _a11ydiff a11ydiff
`

const zshCompletionScript = `#compdef a11ydiff

_a11ydiff() {
  local -a cmds
  cmds=(
    'baseline:summarise BASE and diff each NEXT against it'
    'diff:show outcomes new in CURRENT since PREVIOUS'
    'inspect:interactive result console'
    'list:list stored results, newest first'
    'show:render the outcomes of one result'
    'completion:generate shell completion script'
  )

  local -a common
  common=(
  '(-a --attrs)'{-a,--attrs}'[attributes to include]:attrs'
  '(-c --color)'{-c,--color}'[enable colored text]'
  '(-f --filter)'{-f,--filter}'[filters to apply]:filters'
  '(-i --in)'{-i,--in}'[snapshot location]:location:_directories'
  '(-l --local)'{-l,--local}'[show local timestamps]'
  '(-o --output)'{-o,--output}'[output format]:format:(text json raw yaml)'
  '--padding[spaces between columns]:padding'
  '--schema[dump outcome row schema]'
  '(-s --sort)'{-s,--sort}'[sort attributes]:attrs'
  '(-t --titles)'{-t,--titles}'[show titles]'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'a11ydiff commands' cmds
    return
  fi

  local curcontext="$curcontext" state line
  case $words[2] in
    diff)
      _arguments -C \
        $common \
        '--document[structural document diff]' \
        '--fail-on[fail on new outcomes]:values:(failed cantTell passed any)' \
        '--ignore[document keys to ignore]:keys' \
        '--patch[JSON patch]' \
        '--pick[choose snapshots interactively]:location:_directories' \
        '--summary[per-rule aggregates]' \
        '*:result:_files -g "*.json"'
      ;;
    baseline)
      _arguments -C \
        $common \
        '--chain[diff against the previous result]' \
        '--fail-on[fail on new outcomes]:values:(failed cantTell passed any)' \
        '--rows[list new outcome rows]' \
        '*:result:_files -g "*.json"'
      ;;
    show)
      _arguments -C \
        $common \
        '--summary[per-rule aggregates]' \
        ':result:_files -g "*.json"'
      ;;
    inspect)
      _arguments -C \
        '(-i --in)'{-i,--in}'[snapshot location]:location:_directories' \
        '(-q --query)'{-q,--query}'[answer one query]:query' \
        ':result:_files -g "*.json"'
      ;;
    list)
      _arguments -C \
        '(-i --in)'{-i,--in}'[snapshot location]:location:_directories' \
        '--limit[limit snapshots listed]:limit' \
        '(-o --output)'{-o,--output}'[output format]:format:(text json raw yaml)' \
        '(-t --titles)'{-t,--titles}'[show titles]' \
        '::location:_directories'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
    *)
      _arguments -C $common '*:result:_files'
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys
# is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _a11ydiff a11ydiff
`

func completionCommandAction(ctx context.Context, cmd *cli.Command) error {
	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}

	w := writer(cmd)
	switch shell {
	case "bash":
		fmt.Fprint(w, bashCompletionScript)
	case "zsh":
		fmt.Fprint(w, zshCompletionScript)
	default:
		// Try to detect from SHELL or print usage.
		sh := os.Getenv("SHELL")
		switch {
		case strings.HasSuffix(sh, "zsh"):
			fmt.Fprint(w, zshCompletionScript)
		case strings.HasSuffix(sh, "bash"):
			fmt.Fprint(w, bashCompletionScript)
		default:
			fmt.Fprintln(os.Stderr, "usage: a11ydiff completion [bash|zsh]")
			return nil
		}
	}
	return nil
}

func completionCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "a11ydiff completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: completionCommandAction,
	}
}
