// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/route53"
	"github.com/aws/aws-sdk-go-v2/service/route53/types"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	awsutil "github.com/tfctl/edgestack/internal/aws"
	"github.com/tfctl/edgestack/internal/meta"
	"github.com/tfctl/edgestack/internal/stack"
	"github.com/tfctl/edgestack/internal/zone"
)

// isolate points config, cache and AWS settings at scratch locations and
// returns the config file path. content seeds the config file.
func isolate(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()

	cfg := filepath.Join(dir, "edgestack.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte(content+"\n"), 0o600))
	t.Setenv("EDGESTACK_CFG_FILE", cfg)
	t.Setenv("EDGESTACK_CACHE_DIR", filepath.Join(dir, "cache"))
	t.Setenv("EDGESTACK_CACHE", "")

	t.Setenv("AWS_CONFIG_FILE", filepath.Join(dir, "aws-config"))
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", filepath.Join(dir, "aws-credentials"))
	t.Setenv("AWS_PROFILE", "")
	t.Setenv("AWS_REGION", "us-east-1")

	for _, env := range []string{"DOMAIN", "DOMAINS_NAMES", "HOSTED_ZONE_ID", "CERTIFICATE_ARN"} {
		t.Setenv(env, "")
	}
	return cfg
}

// runApp runs the edgestack app with args and returns what it wrote to
// stdout.
func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	orig := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = orig })

	full := append([]string{"edgestack"}, args...)
	app, err := InitApp(context.Background(), full)
	if err != nil {
		return "", err
	}
	err = app.Run(context.Background(), full)
	return buf.String(), err
}

// withCommand parses args against flags and runs fn with the parsed command.
func withCommand(t *testing.T, m meta.Meta, flags []cli.Flag, args []string, fn func(context.Context, *cli.Command) error) error {
	t.Helper()
	cmd := &cli.Command{
		Name:     "test",
		Metadata: map[string]any{"meta": m},
		Flags:    flags,
		Action:   fn,
	}
	return cmd.Run(context.Background(), append([]string{"test"}, args...))
}

type fakeZones struct {
	zones []types.HostedZone
	calls int
}

func (f *fakeZones) ListHostedZones(_ context.Context, _ *route53.ListHostedZonesInput, _ ...func(*route53.Options)) (*route53.ListHostedZonesOutput, error) {
	f.calls++
	return &route53.ListHostedZonesOutput{HostedZones: f.zones}, nil
}

func zones() *fakeZones {
	zone := func(id, name string) types.HostedZone {
		return types.HostedZone{
			Id:                     awsv2.String("/hostedzone/" + id),
			Name:                   awsv2.String(name),
			ResourceRecordSetCount: awsv2.Int64(4),
			Config:                 &types.HostedZoneConfig{},
		}
	}
	return &fakeZones{zones: []types.HostedZone{
		zone("Z1", "example.com."),
		zone("Z2", "shop.example.com."),
	}}
}

func useZones(t *testing.T, f *fakeZones) {
	t.Helper()
	orig := newZoneLister
	newZoneLister = func(awsv2.Config) route53.ListHostedZonesAPIClient { return f }
	t.Cleanup(func() { newZoneLister = orig })
}

type fakeParams map[string]string

func (f fakeParams) GetParameter(_ context.Context, in *ssm.GetParameterInput, _ ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	return &ssm.GetParameterOutput{Parameter: &ssmtypes.Parameter{Value: awsv2.String(f[awsv2.ToString(in.Name)])}}, nil
}

func useParams(t *testing.T, f fakeParams) {
	t.Helper()
	orig := newParamGetter
	newParamGetter = func(awsv2.Config) awsutil.ParamGetter { return f }
	t.Cleanup(func() { newParamGetter = orig })
}

func TestInitApp(t *testing.T) {
	isolate(t, "")
	dir := t.TempDir()

	app, err := InitApp(context.Background(), []string{"edgestack", "synth", dir + "::dev"})
	require.NoError(t, err)

	var names []string
	for _, c := range app.Commands {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"synth", "diff", "resources", "outputs", "publish", "zone", "completion"}, names)

	m := GetMeta(app.Commands[0])
	assert.Equal(t, dir, m.ProjectDir)
	assert.Equal(t, "dev", m.Stage)

	// Flags are sorted for --help.
	flags := app.Commands[0].Flags
	for i := 1; i < len(flags); i++ {
		assert.LessOrEqual(t, flags[i-1].Names()[0], flags[i].Names()[0])
	}
}

func TestInitAppProjectDir(t *testing.T) {
	isolate(t, "")
	cwd, _ := os.Getwd()

	app, err := InitApp(context.Background(), []string{"edgestack", "resources", "--output", "json"})
	require.NoError(t, err)
	assert.Equal(t, cwd, GetMeta(app.Commands[0]).ProjectDir)

	_, err = InitApp(context.Background(), []string{"edgestack", "synth", filepath.Join(t.TempDir(), "missing")})
	assert.Error(t, err)

	_, err = InitApp(context.Background(), []string{"edgestack", "synth", t.TempDir() + "::bad_stage"})
	assert.Error(t, err)

	// completion takes the shell name, not a directory.
	_, err = InitApp(context.Background(), []string{"edgestack", "completion", "bash"})
	assert.NoError(t, err)
}

func TestGetMeta(t *testing.T) {
	assert.Equal(t, meta.Meta{}, GetMeta(nil))
	assert.Equal(t, meta.Meta{}, GetMeta(&cli.Command{}))
	assert.Equal(t, meta.Meta{}, GetMeta(&cli.Command{Metadata: map[string]any{"meta": "nope"}}))
}

func TestValidators(t *testing.T) {
	assert.NoError(t, OutputValidator("yaml"))
	assert.Error(t, OutputValidator("xml"))
	assert.NoError(t, PaddingValidator(0))
	assert.Error(t, PaddingValidator(-1))
	assert.NoError(t, ConcurrencyValidator(4))
	assert.Error(t, ConcurrencyValidator(0))
	assert.NoError(t, VersionsValidator("1,2"))
	assert.Error(t, VersionsValidator("a"))
	assert.Error(t, FlagValidators("xml", PaddingValidator, OutputValidator))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a.com", "www.a.com"}, splitList("a.com, www.a.com"))
	assert.Equal(t, []string{"a", "b", "c"}, splitList("a b\tc,"))
	assert.Empty(t, splitList(" , "))
}

func TestParseCnames(t *testing.T) {
	tests := []struct {
		name    string
		specs   []string
		want    map[string]string
		wantErr bool
	}{
		{name: "none", specs: nil, want: nil},
		{name: "one", specs: []string{"mail.example.com=ghs.example.net"}, want: map[string]string{"mail.example.com": "ghs.example.net"}},
		{name: "comma separated", specs: []string{"a=b,c=d"}, want: map[string]string{"a": "b", "c": "d"}},
		{name: "repeated", specs: []string{"a=b", "a=c"}, want: map[string]string{"a": "c"}},
		{name: "missing target", specs: []string{"a="}, wantErr: true},
		{name: "no separator", specs: []string{"a"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseCnames(tt.specs)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProjectPath(t *testing.T) {
	m := meta.Meta{ProjectSpec: meta.ProjectSpec{ProjectDir: "/srv/site"}}
	err := withCommand(t, m, nil, nil, func(_ context.Context, cmd *cli.Command) error {
		assert.Equal(t, "/srv/site/.open-next", projectPath(cmd, ".open-next"))
		assert.Equal(t, "/tmp/build", projectPath(cmd, "/tmp/build"))
		assert.Equal(t, "", projectPath(cmd, ""))
		return nil
	})
	require.NoError(t, err)
}

func TestBuildProps(t *testing.T) {
	isolate(t, "")
	m := meta.Meta{ProjectSpec: meta.ProjectSpec{ProjectDir: "/srv/site", Stage: "dev"}}

	var props *stack.WebsiteProps
	err := withCommand(t, m, NewStackFlags(), []string{
		"--domain", "example.com",
		"--domain-names", "example.com,www.example.com",
		"--hosted-zone-id", "Z1",
		"--cname", "mail.example.com=ghs.example.net",
	}, func(ctx context.Context, cmd *cli.Command) (err error) {
		props, err = buildProps(ctx, cmd)
		return
	})
	require.NoError(t, err)

	assert.Equal(t, "Website-dev", props.StackName)
	assert.Equal(t, "example.com", props.Domain)
	assert.Equal(t, []string{"example.com", "www.example.com"}, props.DomainNames)
	assert.Equal(t, "Z1", props.HostedZoneID)
	assert.Equal(t, "/srv/site/.open-next", props.BuildDir)
	assert.Equal(t, stack.DefaultRuntime, props.Runtime)
	assert.Equal(t, map[string]string{"mail.example.com": "ghs.example.net"}, props.CnameRecords)
}

func TestBuildPropsEnv(t *testing.T) {
	isolate(t, "")
	t.Setenv("DOMAIN", "example.com")
	t.Setenv("DOMAINS_NAMES", "www.example.com")
	t.Setenv("HOSTED_ZONE_ID", "Z9")
	t.Setenv("CERTIFICATE_ARN", "arn:aws:acm:us-east-1:123456789012:certificate/abc")

	var props *stack.WebsiteProps
	err := withCommand(t, meta.Meta{}, NewStackFlags(), nil, func(ctx context.Context, cmd *cli.Command) (err error) {
		props, err = buildProps(ctx, cmd)
		return
	})
	require.NoError(t, err)

	assert.Equal(t, "example.com", props.Domain)
	assert.Equal(t, []string{"www.example.com"}, props.DomainNames)
	assert.Equal(t, "Z9", props.HostedZoneID)
	assert.Equal(t, "arn:aws:acm:us-east-1:123456789012:certificate/abc", props.CertificateARN)
	assert.Equal(t, stack.DefaultStackName, props.StackName)
}

func TestBuildPropsConfigFile(t *testing.T) {
	cfg := isolate(t, `
synth:
  stack-name: Shop
domain: example.com
domain-names:
  - example.com
  - www.example.com
hosted-zone-id: Z7`)

	var props *stack.WebsiteProps
	err := withCommand(t, meta.Meta{}, NewStackFlags("synth", cfg), nil, func(ctx context.Context, cmd *cli.Command) (err error) {
		props, err = buildProps(ctx, cmd)
		return
	})
	require.NoError(t, err)

	assert.Equal(t, "Shop", props.StackName)
	assert.Equal(t, "example.com", props.Domain)
	assert.Equal(t, []string{"example.com", "www.example.com"}, props.DomainNames)
	assert.Equal(t, "Z7", props.HostedZoneID)
}

func TestEnvValueSource(t *testing.T) {
	t.Setenv("EDGESTACK_TEST_VALUE", "")
	src := envVar("EDGESTACK_TEST_VALUE")

	_, ok := src.Lookup()
	assert.False(t, ok, "empty variable is absent")

	t.Setenv("EDGESTACK_TEST_VALUE", "  ")
	_, ok = src.Lookup()
	assert.False(t, ok, "blank variable is absent")

	t.Setenv("EDGESTACK_TEST_VALUE", "example.com")
	v, ok := src.Lookup()
	assert.True(t, ok)
	assert.Equal(t, "example.com", v)

	env, isEnv := src.(cli.EnvValueSource)
	require.True(t, isEnv)
	assert.Equal(t, "EDGESTACK_TEST_VALUE", env.Key())
}

func TestBuildPropsEmptyEnvFallsThrough(t *testing.T) {
	cfg := isolate(t, "domain: example.com\ndomain-names: www.example.com\nhosted-zone-id: Z7")
	t.Setenv("EDGESTACK_DOMAIN", "")

	var props *stack.WebsiteProps
	err := withCommand(t, meta.Meta{}, NewStackFlags("synth", cfg), nil, func(ctx context.Context, cmd *cli.Command) (err error) {
		props, err = buildProps(ctx, cmd)
		return
	})
	require.NoError(t, err)

	assert.Equal(t, "example.com", props.Domain)
	assert.Equal(t, []string{"www.example.com"}, props.DomainNames)
	assert.Equal(t, "Z7", props.HostedZoneID)
}

func TestBuildPropsResolves(t *testing.T) {
	isolate(t, "")
	useParams(t, fakeParams{"/site/domain": "shop.example.com"})
	f := zones()
	useZones(t, f)

	var props *stack.WebsiteProps
	err := withCommand(t, meta.Meta{}, NewStackFlags(), []string{
		"--domain", "ssm:/site/domain",
		"--domain-names", "shop.example.com",
	}, func(ctx context.Context, cmd *cli.Command) (err error) {
		props, err = buildProps(ctx, cmd)
		return
	})
	require.NoError(t, err)

	assert.Equal(t, "shop.example.com", props.Domain)
	assert.Equal(t, "Z2", props.HostedZoneID)
	assert.Equal(t, 1, f.calls)
}

func TestBuildPropsNoZone(t *testing.T) {
	isolate(t, "")
	useZones(t, zones())

	err := withCommand(t, meta.Meta{}, NewStackFlags(), []string{
		"--domain", "other.org",
		"--domain-names", "other.org",
	}, func(ctx context.Context, cmd *cli.Command) error {
		_, err := buildProps(ctx, cmd)
		return err
	})
	assert.ErrorIs(t, err, zone.ErrNoZone)
}
