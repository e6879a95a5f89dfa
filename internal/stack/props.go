// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package stack

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslambda"
	"github.com/aws/jsii-runtime-go"

	"github.com/tfctl/edgestack/internal/assets"
)

// DefaultStackName is used when no stack name is configured.
const DefaultStackName = "Website"

// DefaultRuntime is the Node.js runtime both functions run on.
const DefaultRuntime = "nodejs18.x"

// ErrInvalidProps is wrapped by every WebsiteProps validation failure.
var ErrInvalidProps = errors.New("invalid website properties")

var runtimes = map[string]func() awslambda.Runtime{
	"nodejs18.x": awslambda.Runtime_NODEJS_18_X,
	"nodejs20.x": awslambda.Runtime_NODEJS_20_X,
	"nodejs22.x": awslambda.Runtime_NODEJS_22_X,
}

// WebsiteProps is the declarative input of the Website stack.
type WebsiteProps struct {
	// StackName is the CloudFormation stack name and construct id.
	StackName string
	// Account and Region pin the stack environment. Both empty yields an
	// environment-agnostic stack.
	Account string
	Region  string

	// Domain is the apex of the hosted zone, e.g. "example.com".
	Domain string
	// DomainNames are served by the distribution and get an A alias record.
	DomainNames []string
	// HostedZoneID identifies the existing Route 53 zone for Domain.
	HostedZoneID string
	// CertificateARN imports an existing certificate instead of creating one.
	CertificateARN string
	// CnameRecords adds plain CNAME records (name -> target) to the zone.
	CnameRecords map[string]string

	// BuildDir is the OpenNext output directory.
	BuildDir string
	// Runtime is the Lambda runtime identifier, e.g. "nodejs20.x".
	Runtime string
}

// Validate checks the properties that CloudFormation would otherwise reject
// late in a deployment.
func (p *WebsiteProps) Validate() error {
	var problems []string

	if p.Domain == "" {
		problems = append(problems, "domain is required")
	}
	if len(p.DomainNames) == 0 {
		problems = append(problems, "at least one domain name is required")
	}
	if p.HostedZoneID == "" {
		problems = append(problems, "hosted zone id is required")
	}
	seen := map[string]bool{}
	for _, name := range p.DomainNames {
		key := normalizeName(name)
		if seen[key] {
			problems = append(problems, fmt.Sprintf("domain name %s is listed more than once", name))
		}
		seen[key] = true
	}
	if p.Domain != "" {
		for _, name := range p.DomainNames {
			if !InDomain(name, p.Domain) {
				problems = append(problems, fmt.Sprintf("domain name %s is outside %s", name, p.Domain))
			}
		}
		for _, name := range sortedKeys(p.CnameRecords) {
			if !InDomain(name, p.Domain) {
				problems = append(problems, fmt.Sprintf("cname %s is outside %s", name, p.Domain))
			}
		}
	}
	if _, ok := runtimes[p.runtime()]; !ok {
		problems = append(problems, fmt.Sprintf("unsupported runtime %s", p.Runtime))
	}
	if p.CertificateARN == "" && p.Region != "" && p.Region != "us-east-1" {
		problems = append(problems, "a new certificate for CloudFront must be created in us-east-1")
	}
	for _, dir := range assets.RequiredDirs {
		path := filepath.Join(p.buildDir(), dir)
		if info, err := os.Stat(path); err != nil || !info.IsDir() {
			problems = append(problems, fmt.Sprintf("build directory %s not found", path))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidProps, strings.Join(problems, "; "))
	}
	return nil
}

// InDomain reports whether name equals domain or is a subdomain of it.
func InDomain(name, domain string) bool {
	name = normalizeName(name)
	domain = normalizeName(domain)
	return name == domain || strings.HasSuffix(name, "."+domain)
}

// normalizeName lowercases a DNS name and drops the trailing dot.
func normalizeName(name string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(name)), ".")
}

func (p *WebsiteProps) stackName() string {
	if p.StackName == "" {
		return DefaultStackName
	}
	return p.StackName
}

func (p *WebsiteProps) buildDir() string {
	if p.BuildDir == "" {
		return assets.DefaultBuildDir
	}
	return p.BuildDir
}

func (p *WebsiteProps) runtime() string {
	if p.Runtime == "" {
		return DefaultRuntime
	}
	return p.Runtime
}

func (p *WebsiteProps) lambdaRuntime() awslambda.Runtime {
	if r, ok := runtimes[p.runtime()]; ok {
		return r()
	}
	return awslambda.Runtime_NODEJS_18_X()
}

func (p *WebsiteProps) stackProps() *awscdk.StackProps {
	sp := &awscdk.StackProps{
		StackName:   jsii.String(p.stackName()),
		Description: jsii.String(fmt.Sprintf("OpenNext hosting for %s", p.Domain)),
	}
	if p.Account != "" || p.Region != "" {
		env := &awscdk.Environment{}
		if p.Account != "" {
			env.Account = jsii.String(p.Account)
		}
		if p.Region != "" {
			env.Region = jsii.String(p.Region)
		}
		sp.Env = env
	}
	return sp
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
