// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/edgestack/internal/meta"
)

const bashCompletionScript = `# bash completion for edgestack
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_edgestack()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "synth diff resources outputs publish zone completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local query="--attrs -a --color -c --filter -f --output -o --padding --sort -s --titles -t --tldr"
    local stack="--account --build-dir --certificate-arn --cname --domain --domain-names --hosted-zone-id --profile --region --runtime --stack-name"

    # Determine if an optional ProjectDir (first non-flag after subcommand)
    # has already been provided
    local have_projectdir=0
    local idx=2
    while [[ $idx -lt ${#COMP_WORDS[@]} ]]; do
        local w=${COMP_WORDS[$idx]}
        if [[ $w != -* ]]; then
            have_projectdir=1
            break
        fi
        ((idx++))
    done

    case "$cmd" in
        synth)
            local opts="$stack --keep --outdir --tldr"
            ;;
        diff)
            local opts="$stack --color -c --ignore --template --titles -t --tldr --versions"
            ;;
        resources)
            local opts="$query $stack --schema --template"
            ;;
        outputs)
            local opts="$query $stack --declared --template"
            ;;
        publish)
            local opts="--build-dir --bucket --concurrency --distribution-id --dry-run --no-invalidate --profile --region --stack-name --tldr --yes -y"
            ;;
        zone)
            local opts="$query --domain --profile --region"
            ;;
        completion)
            local opts="bash zsh"
            COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
            return 0
            ;;
        *)
            local opts="$query"
            ;;
    esac

    if [[ "$prev" == "--output" || "$prev" == "-o" ]]; then
        COMPREPLY=( $(compgen -W "text json raw yaml" -- "$cur") )
        return 0
    fi

    if [[ "$prev" == "--runtime" ]]; then
        COMPREPLY=( $(compgen -W "nodejs18.x nodejs20.x nodejs22.x" -- "$cur") )
        return 0
    fi

    # If current token starts with '-', or we've already consumed ProjectDir,
    # offer flags
    if [[ "$cur" == -* || $have_projectdir -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
        return 0
    fi

    # Otherwise, we're on the (optional) ProjectDir positional
    COMPREPLY=( $(compgen -o dirnames -- "$cur") )
    return 0
}

complete -F _edgestack edgestack
`

const zshCompletionScript = `#compdef edgestack

_edgestack() {
  local -a cmds
  cmds=(
    'synth:synthesize the website stack'
    'diff:diff synthesized templates'
    'resources:list the resources of the synthesized template'
    'outputs:query the outputs of the deployed stack'
    'publish:upload the static assets and invalidate the distribution'
    'zone:resolve the Route 53 hosted zone for a domain'
    'completion:generate shell completion script'
  )

  local -a query
  query=(
  '(-a --attrs)'{-a,--attrs}'[attributes to include]:attrs'
  '(-c --color)'{-c,--color}'[enable colored text]'
  '(-f --filter)'{-f,--filter}'[filters to apply]:filters'
  '(-o --output)'{-o,--output}'[output format]:format:(text json raw yaml)'
  '--padding[cell padding]:padding'
  '(-s --sort)'{-s,--sort}'[sort attributes]:attrs'
  '(-t --titles)'{-t,--titles}'[show titles]'
  '--tldr[show tldr page]'
  )

  local -a stack
  stack=(
  '--account[AWS account]:account'
  '--build-dir[OpenNext build directory]:dir:_directories'
  '--certificate-arn[existing certificate]:arn'
  '*--cname[CNAME record name=target]:cname'
  '--domain[apex domain]:domain'
  '--domain-names[names served by the distribution]:names'
  '--hosted-zone-id[hosted zone id]:id'
  '--profile[AWS profile]:profile'
  '--region[AWS region]:region'
  '--runtime[Lambda runtime]:runtime:(nodejs18.x nodejs20.x nodejs22.x)'
  '--stack-name[stack name]:name'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'edgestack commands' cmds
    return
  fi

  local curcontext="$curcontext" state line
  case $words[2] in
    synth)
      _arguments -C \
        $stack \
        '--keep[templates kept for diff]:keep' \
        '--outdir[cloud assembly directory]:dir:_directories' \
        '--tldr[show tldr page]' \
        '::ProjectDir:_directories'
      ;;
    diff)
      _arguments -C \
        $stack \
        '(-c --color)'{-c,--color}'[enable colored diff]' \
        '--ignore[template sections to leave out]:sections' \
        '--template[synthesized template]:file:_files' \
        '(-t --titles)'{-t,--titles}'[show compared versions]' \
        '--versions[versions to compare]:versions' \
        '::ProjectDir:_directories'
      ;;
    resources)
      _arguments -C \
        $query \
        $stack \
        '--schema[dump property paths]' \
        '--template[synthesized template]:file:_files' \
        '::ProjectDir:_directories'
      ;;
    outputs)
      _arguments -C \
        $query \
        $stack \
        '--declared[outputs declared by the template]' \
        '--template[synthesized template]:file:_files' \
        '::ProjectDir:_directories'
      ;;
    publish)
      _arguments -C \
        '--build-dir[OpenNext build directory]:dir:_directories' \
        '--bucket[target bucket]:bucket' \
        '--concurrency[parallel uploads]:n' \
        '--distribution-id[distribution to invalidate]:id' \
        '--dry-run[list without uploading]' \
        '--no-invalidate[skip invalidation]' \
        '--profile[AWS profile]:profile' \
        '--region[AWS region]:region' \
        '--stack-name[stack name]:name' \
        '(-y --yes)'{-y,--yes}'[do not ask for confirmation]' \
        '::ProjectDir:_directories'
      ;;
    zone)
      _arguments -C \
        $query \
        '--domain[domain to resolve]:domain' \
        '--profile[AWS profile]:profile' \
        '--region[AWS region]:region' \
        '::ProjectDir:_directories'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
    *)
      _arguments -C $query '*:directory:_directories'
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys
# is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _edgestack edgestack
`

func completionCommandAction(ctx context.Context, cmd *cli.Command) error {
	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}
	switch shell {
	case "bash":
		fmt.Fprint(stdout, bashCompletionScript)
	case "zsh":
		fmt.Fprint(stdout, zshCompletionScript)
	default:
		// Try to detect from SHELL or print help
		sh := os.Getenv("SHELL")
		switch {
		case strings.HasSuffix(sh, "zsh"):
			fmt.Fprint(stdout, zshCompletionScript)
		case strings.HasSuffix(sh, "bash"):
			fmt.Fprint(stdout, bashCompletionScript)
		default:
			fmt.Fprintln(os.Stderr, "usage: edgestack completion [bash|zsh]")
			return nil
		}
	}
	return nil
}

func completionCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "edgestack completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: completionCommandAction,
	}
}
