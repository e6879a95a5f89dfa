// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package stack

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/jsii-runtime-go"

	"github.com/tfctl/edgestack/internal/log"
)

// DefaultOutdir is the cloud assembly directory when CDK_OUTDIR is unset.
const DefaultOutdir = "cdk.out"

// Assembly is the result of a synthesis.
type Assembly struct {
	// Dir is the cloud assembly directory.
	Dir string
	// StackName is the CloudFormation stack name.
	StackName string
	// TemplateFile is the path of the stack template inside Dir.
	TemplateFile string
	// Template is the CloudFormation template JSON.
	Template []byte
}

// Outdir resolves the cloud assembly directory. An explicit value wins over
// CDK_OUTDIR, which the cdk CLI sets when it runs the app.
func Outdir(outdir string) string {
	if outdir != "" {
		return outdir
	}
	if env := os.Getenv("CDK_OUTDIR"); env != "" {
		return env
	}
	return DefaultOutdir
}

// Synth validates props, declares the Website stack in a new app and writes
// the cloud assembly.
func Synth(props *WebsiteProps, outdir string) (asm *Assembly, err error) {
	if err := props.Validate(); err != nil {
		return nil, err
	}

	outdir = Outdir(outdir)

	// jsii reports kernel failures by panicking.
	defer func() {
		if r := recover(); r != nil {
			asm = nil
			err = fmt.Errorf("synthesizing %s: %v", props.stackName(), r)
		}
	}()

	app := awscdk.NewApp(&awscdk.AppProps{Outdir: jsii.String(outdir)})
	website := NewWebsite(app, props.stackName(), props)
	cloud := app.Synth(nil)

	templateFile := filepath.Join(*cloud.Directory(), *website.TemplateFile())
	log.Debugf("reading template %s", templateFile)

	template, err := os.ReadFile(templateFile)
	if err != nil {
		return nil, fmt.Errorf("reading synthesized template: %w", err)
	}

	return &Assembly{
		Dir:          *cloud.Directory(),
		StackName:    *website.StackName(),
		TemplateFile: templateFile,
		Template:     template,
	}, nil
}
