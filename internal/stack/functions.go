// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package stack

import (
	"path/filepath"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsiam"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslambda"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslogs"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"

	"github.com/tfctl/edgestack/internal/assets"
)

const (
	functionHandler     = "index.handler"
	functionMemoryMB    = 512
	imageTimeoutSeconds = 15
	serverTimeoutSecs   = 10

	imageDescription  = "Image optimization function for handling Next.js images."
	serverDescription = "Server function for the Next.js website"
)

// URLFunction is a Lambda function published through a function URL.
type URLFunction struct {
	constructs.Construct
	Function awslambda.Function
	url      awslambda.FunctionUrl
}

// URL is the https endpoint token of the function URL.
func (f *URLFunction) URL() *string {
	return f.url.Url()
}

// Domain is the host part of the function URL, suitable as an HTTP origin.
func (f *URLFunction) Domain() *string {
	return awscdk.Fn_ParseDomainName(f.url.Url())
}

// NewImageOptimization declares the function resizing images from the asset
// bucket. It reads objects from the bucket named in BUCKET_NAME.
func NewImageOptimization(scope constructs.Construct, id string, props *WebsiteProps, bucket *AssetBucket) *URLFunction {
	this := constructs.NewConstruct(scope, &id)

	fn := awslambda.NewFunction(this, jsii.String("Function"), &awslambda.FunctionProps{
		Description:  jsii.String(imageDescription),
		Runtime:      props.lambdaRuntime(),
		Architecture: awslambda.Architecture_ARM_64(),
		Handler:      jsii.String(functionHandler),
		Code:         awslambda.Code_FromAsset(jsii.String(filepath.Join(props.buildDir(), assets.ImageFunctionDir)), nil),
		Timeout:      awscdk.Duration_Seconds(jsii.Number(imageTimeoutSeconds)),
		MemorySize:   jsii.Number(functionMemoryMB),
		LogRetention: awslogs.RetentionDays_THREE_DAYS,
		CurrentVersionOptions: &awslambda.VersionOptions{
			RemovalPolicy: awscdk.RemovalPolicy_DESTROY,
		},
		Environment: &map[string]*string{
			"BUCKET_NAME": bucket.BucketName(),
		},
		InitialPolicy: &[]awsiam.PolicyStatement{
			awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
				Actions:   jsii.Strings("s3:GetObject"),
				Resources: &[]*string{awscdk.Fn_Join(jsii.String(""), &[]*string{bucket.BucketArn(), jsii.String("/*")})},
			}),
		},
	})

	return newURLFunction(this, fn)
}

// NewServer declares the function rendering Next.js routes.
func NewServer(scope constructs.Construct, id string, props *WebsiteProps) *URLFunction {
	this := constructs.NewConstruct(scope, &id)

	fn := awslambda.NewFunction(this, jsii.String("Function"), &awslambda.FunctionProps{
		Description:  jsii.String(serverDescription),
		Runtime:      props.lambdaRuntime(),
		Architecture: awslambda.Architecture_ARM_64(),
		Handler:      jsii.String(functionHandler),
		Code:         awslambda.Code_FromAsset(jsii.String(filepath.Join(props.buildDir(), assets.ServerFunctionDir)), nil),
		Timeout:      awscdk.Duration_Seconds(jsii.Number(serverTimeoutSecs)),
		MemorySize:   jsii.Number(functionMemoryMB),
		LogRetention: awslogs.RetentionDays_THREE_DAYS,
	})

	return newURLFunction(this, fn)
}

func newURLFunction(this constructs.Construct, fn awslambda.Function) *URLFunction {
	url := fn.AddFunctionUrl(&awslambda.FunctionUrlOptions{
		AuthType: awslambda.FunctionUrlAuthType_NONE,
	})
	return &URLFunction{Construct: this, Function: fn, url: url}
}
