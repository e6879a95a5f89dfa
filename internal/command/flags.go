// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/tfctl/edgestack/internal/assets"
	"github.com/tfctl/edgestack/internal/stack"
)

var (
	schemaFlag *cli.BoolFlag = &cli.BoolFlag{
		Name:        "schema",
		Usage:       "dump the property paths of each resource type",
		HideDefault: true,
	}

	tldrFlag *cli.BoolFlag = &cli.BoolFlag{
		Name:        "tldr",
		Usage:       "show tldr page",
		Hidden:      !pathHas("tldr"),
		HideDefault: true,
	}
)

func NewGlobalFlags(params ...string) (flags []cli.Flag) {
	flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "attrs",
			Aliases: []string{"a"},
			Usage:   "comma-separated list of attributes to include in results",
		},
		&cli.BoolFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Value:   false,
		},
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated list of filters to apply to results",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format",
			Value:   "text",
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		},
		&cli.IntFlag{
			Name:  "padding",
			Usage: "cell padding for text output",
			Value: 1,
			Validator: func(value int) error {
				return FlagValidators(value, PaddingValidator)
			},
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of attributes to sort the results by",
		},
		&cli.BoolFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Value:   false,
		},
	}

	return
}

// NewStackFlags constructs the flags that describe the Website stack. Each
// falls back to its environment variables and then, when params[1] names a
// config file, to the params[0] namespaced and global keys of that file.
func NewStackFlags(params ...string) (flags []cli.Flag) {
	stringFlags := []*cli.StringFlag{
		{
			Name:  "domain",
			Usage: "apex domain of the hosted zone",
			Sources: cli.NewValueSourceChain(
				envVar("EDGESTACK_DOMAIN"),
				envVar("DOMAIN"),
			),
		},
		{
			Name:  "domain-names",
			Usage: "comma-separated list of names served by the distribution",
			Sources: cli.NewValueSourceChain(
				envVar("EDGESTACK_DOMAIN_NAMES"),
				envVar("DOMAINS_NAMES"),
			),
		},
		{
			Name:  "hosted-zone-id",
			Usage: "Route 53 hosted zone id. Looked up from --domain when empty",
			Sources: cli.NewValueSourceChain(
				envVar("EDGESTACK_HOSTED_ZONE_ID"),
				envVar("HOSTED_ZONE_ID"),
			),
		},
		{
			Name:  "certificate-arn",
			Usage: "existing ACM certificate to use instead of creating one",
			Sources: cli.NewValueSourceChain(
				envVar("EDGESTACK_CERTIFICATE_ARN"),
				envVar("CERTIFICATE_ARN"),
			),
		},
		{
			Name:  "runtime",
			Usage: "Lambda runtime of the server and image functions",
			Sources: cli.NewValueSourceChain(
				envVar("EDGESTACK_RUNTIME"),
			),
			Value: stack.DefaultRuntime,
		},
		{
			Name:  "account",
			Usage: "AWS account the stack is pinned to",
			Sources: cli.NewValueSourceChain(
				envVar("EDGESTACK_ACCOUNT"),
				envVar("CDK_DEFAULT_ACCOUNT"),
			),
		},
		NewBuildDirFlag(),
		NewStackNameFlag(),
		NewRegionFlag(),
		NewProfileFlag(),
	}

	for _, f := range stringFlags {
		if len(params) == 2 && params[1] != "" {
			f = NameSpacedValueChainFlagFromConfigFile(params[0], params[1], f)
		}
		flags = append(flags, f)
	}

	flags = append(flags, &cli.StringSliceFlag{
		Name:  "cname",
		Usage: "additional CNAME record as name=target. May be repeated",
	})

	return
}

// NewTemplateFlag constructs the "template" flag.
func NewTemplateFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "template",
		Usage: "read an already synthesized template instead of synthesizing",
	}
}

// NewBuildDirFlag constructs the "build-dir" flag.
func NewBuildDirFlag(params ...string) (flag *cli.StringFlag) {
	flag = &cli.StringFlag{
		Name:  "build-dir",
		Usage: "OpenNext build directory, relative to the project directory",
		Sources: cli.NewValueSourceChain(
			envVar("EDGESTACK_BUILD_DIR"),
		),
		Value: assets.DefaultBuildDir,
	}

	if len(params) == 2 && params[1] != "" {
		flag = NameSpacedValueChainFlagFromConfigFile(params[0], params[1], flag)
	}

	return
}

// NewStackNameFlag constructs the "stack-name" flag. The stage parsed from
// the project directory is appended to it.
func NewStackNameFlag(params ...string) (flag *cli.StringFlag) {
	flag = &cli.StringFlag{
		Name:  "stack-name",
		Usage: "CloudFormation stack name",
		Sources: cli.NewValueSourceChain(
			envVar("EDGESTACK_STACK_NAME"),
		),
		Value: stack.DefaultStackName,
	}

	if len(params) == 2 && params[1] != "" {
		flag = NameSpacedValueChainFlagFromConfigFile(params[0], params[1], flag)
	}

	return
}

// NewRegionFlag constructs the "region" flag.
func NewRegionFlag(params ...string) (flag *cli.StringFlag) {
	flag = &cli.StringFlag{
		Name:  "region",
		Usage: "AWS region. Defaults to the shared config",
		Sources: cli.NewValueSourceChain(
			envVar("EDGESTACK_REGION"),
			envVar("CDK_DEFAULT_REGION"),
		),
	}

	if len(params) == 2 && params[1] != "" {
		flag = NameSpacedValueChainFlagFromConfigFile(params[0], params[1], flag)
	}

	return
}

// NewProfileFlag constructs the "profile" flag.
func NewProfileFlag(params ...string) (flag *cli.StringFlag) {
	flag = &cli.StringFlag{
		Name:  "profile",
		Usage: "AWS shared config profile",
		Sources: cli.NewValueSourceChain(
			envVar("EDGESTACK_PROFILE"),
		),
	}

	if len(params) == 2 && params[1] != "" {
		flag = NameSpacedValueChainFlagFromConfigFile(params[0], params[1], flag)
	}

	return
}

// NameSpacedValueChainFlagFromConfigFile adds namespaced and global config file
// sources to the given flag's Sources chain.
func NameSpacedValueChainFlagFromConfigFile(ns string, path string, flag *cli.StringFlag) *cli.StringFlag {
	src := yaml.YAML(ns+"."+flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	src = yaml.YAML(flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	return flag
}

// envValueSource reads an environment variable. Unlike cli.EnvVar, a variable
// that is set but empty counts as absent so it does not shadow the config
// file sources later in the chain.
type envValueSource struct {
	key string
}

func envVar(key string) cli.ValueSource {
	return &envValueSource{key: key}
}

func (e *envValueSource) Lookup() (string, bool) {
	v, ok := os.LookupEnv(e.key)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return v, true
}

func (e *envValueSource) IsFromEnv() bool { return true }
func (e *envValueSource) Key() string     { return e.key }
func (e *envValueSource) String() string  { return fmt.Sprintf("environment variable %q", e.key) }
func (e *envValueSource) GoString() string {
	return fmt.Sprintf("&envValueSource{key:%q}", e.key)
}

// pathHas reports whether target is on the PATH.
func pathHas(target string) bool {
	_, err := exec.LookPath(target)
	return err == nil
}
