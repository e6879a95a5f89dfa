// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/route53"
	"github.com/urfave/cli/v3"

	"github.com/tfctl/edgestack/internal/attrs"
	awsutil "github.com/tfctl/edgestack/internal/aws"
	"github.com/tfctl/edgestack/internal/log"
	"github.com/tfctl/edgestack/internal/meta"
	"github.com/tfctl/edgestack/internal/output"
	"github.com/tfctl/edgestack/internal/stack"
	"github.com/tfctl/edgestack/internal/util"
	"github.com/tfctl/edgestack/internal/zone"
)

// stdout is where command results are written.
var stdout io.Writer = os.Stdout

// AWS client factories. Tests replace them with fakes.
var (
	newParamGetter = func(cfg awsv2.Config) awsutil.ParamGetter {
		return awsutil.NewSSM(cfg)
	}
	newZoneLister = func(cfg awsv2.Config) route53.ListHostedZonesAPIClient {
		return awsutil.NewRoute53(cfg)
	}
	newStackDescriber = func(cfg awsv2.Config) cloudformation.DescribeStacksAPIClient {
		return awsutil.NewCloudFormation(cfg)
	}
)

// BuildAttrs constructs an AttrList with defaults and optional extras from
// --attrs, then applies the global transform spec.
func BuildAttrs(cmd *cli.Command, defaults ...string) (al attrs.AttrList, err error) {
	al = attrs.Defaults(defaults...)
	if extras := cmd.String("attrs"); extras != "" {
		if err = al.Set(extras); err != nil {
			return nil, fmt.Errorf("invalid --attrs: %w", err)
		}
	}
	err = al.SetGlobalTransformSpec()
	return
}

// DumpSchemaIfRequested writes the property paths of raw's resources to
// stdout when --schema is set, and returns true if it handled the request.
func DumpSchemaIfRequested(cmd *cli.Command, raw bytes.Buffer) bool {
	if cmd.Bool("schema") {
		output.DumpSchema(raw, stdout)
		return true
	}
	return false
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// ShortCircuitTLDR checks the --tldr flag and, if present and available,
// runs `tldr edgestack <subcmd>` and returns true so the caller can exit early.
func ShortCircuitTLDR(ctx context.Context, cmd *cli.Command, subcmd string) bool {
	if cmd.Bool("tldr") {
		if _, err := exec.LookPath("tldr"); err == nil {
			c := exec.CommandContext(ctx, "tldr", "edgestack", subcmd)
			c.Stdout = os.Stdout
			c.Stderr = os.Stderr
			_ = c.Run()
		}
		return true
	}
	return false
}

// loadAWSConfig loads the shared AWS config honoring --profile and --region.
// extra options are applied last.
func loadAWSConfig(ctx context.Context, cmd *cli.Command, extra ...awsutil.Option) (awsv2.Config, error) {
	var opts []awsutil.Option
	if p := cmd.String("profile"); p != "" {
		opts = append(opts, awsutil.WithProfile(p))
	}
	if r := cmd.String("region"); r != "" {
		opts = append(opts, awsutil.WithRegion(r))
	}
	return awsutil.LoadAWSConfig(ctx, append(opts, extra...)...)
}

// stackName applies the project stage to --stack-name.
func stackName(cmd *cli.Command) string {
	return util.StackName(cmd.String("stack-name"), GetMeta(cmd).Stage)
}

// projectPath resolves p against the project directory unless it is
// absolute.
func projectPath(cmd *cli.Command, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	dir := GetMeta(cmd).ProjectDir
	if dir == "" {
		return p
	}
	return filepath.Join(dir, p)
}

// buildProps assembles the Website properties from the stack flags. SSM
// references are resolved first, then a missing hosted zone id is looked up
// from the domain.
func buildProps(ctx context.Context, cmd *cli.Command) (*stack.WebsiteProps, error) {
	props := &stack.WebsiteProps{
		StackName:      stackName(cmd),
		Account:        cmd.String("account"),
		Region:         cmd.String("region"),
		Domain:         cmd.String("domain"),
		HostedZoneID:   cmd.String("hosted-zone-id"),
		CertificateARN: cmd.String("certificate-arn"),
		BuildDir:       projectPath(cmd, cmd.String("build-dir")),
		Runtime:        cmd.String("runtime"),
	}
	domainNames := cmd.String("domain-names")

	refs := []*string{&props.Domain, &domainNames, &props.HostedZoneID, &props.CertificateARN}
	var cfg *awsv2.Config
	config := func() (awsv2.Config, error) {
		if cfg == nil {
			c, err := loadAWSConfig(ctx, cmd)
			if err != nil {
				return awsv2.Config{}, fmt.Errorf("failed to load aws config: %w", err)
			}
			cfg = &c
		}
		return *cfg, nil
	}

	if hasParamRef(refs...) {
		c, err := config()
		if err != nil {
			return nil, err
		}
		if err := awsutil.ResolveParams(ctx, newParamGetter(c), refs...); err != nil {
			return nil, err
		}
	}

	props.DomainNames = splitList(domainNames)

	cnames, err := parseCnames(cmd.StringSlice("cname"))
	if err != nil {
		return nil, err
	}
	props.CnameRecords = cnames

	if props.HostedZoneID == "" && props.Domain != "" {
		c, err := config()
		if err != nil {
			return nil, err
		}
		hz, err := zone.Find(ctx, newZoneLister(c), props.Domain)
		if err != nil {
			return nil, err
		}
		log.Infof("using hosted zone %s (%s)", hz.ID, hz.Name)
		props.HostedZoneID = hz.ID
	}

	log.Debugf("props: stack=%s domain=%s names=%v zone=%s build=%s",
		props.StackName, props.Domain, props.DomainNames, props.HostedZoneID, props.BuildDir)
	return props, nil
}

func hasParamRef(values ...*string) bool {
	for _, v := range values {
		if v != nil && awsutil.IsParamRef(*v) {
			return true
		}
	}
	return false
}

// splitList splits a comma or whitespace separated list, dropping empties.
func splitList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
}

// parseCnames parses name=target pairs.
func parseCnames(specs []string) (map[string]string, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	cnames := make(map[string]string, len(specs))
	for _, spec := range specs {
		for _, pair := range splitList(spec) {
			name, target, ok := strings.Cut(pair, "=")
			name, target = strings.TrimSpace(name), strings.TrimSpace(target)
			if !ok || name == "" || target == "" {
				return nil, fmt.Errorf("invalid --cname %q, want name=target", pair)
			}
			cnames[name] = target
		}
	}
	return cnames, nil
}

// templateSubdirs is the cache location of a stack's template history.
func templateSubdirs(stackName string) []string {
	return []string{"templates", stackName}
}

// loadTemplate returns the template named by --template, or synthesizes one
// into a scratch directory.
func loadTemplate(ctx context.Context, cmd *cli.Command) ([]byte, string, error) {
	if p := cmd.String("template"); p != "" {
		b, err := os.ReadFile(projectPath(cmd, p))
		if err != nil {
			return nil, "", fmt.Errorf("failed to read template: %w", err)
		}
		return b, stackName(cmd), nil
	}

	props, err := buildProps(ctx, cmd)
	if err != nil {
		return nil, "", err
	}

	dir, err := os.MkdirTemp("", "edgestack-")
	if err != nil {
		return nil, "", err
	}
	defer os.RemoveAll(dir)

	asm, err := stack.Synth(props, dir)
	if err != nil {
		return nil, "", err
	}
	return asm.Template, asm.StackName, nil
}
