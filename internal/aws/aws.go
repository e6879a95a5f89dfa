// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package aws

import (
	"context"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront"
	"github.com/aws/aws-sdk-go-v2/service/route53"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ssm"

	"github.com/tfctl/edgestack/internal/log"
	"github.com/tfctl/edgestack/internal/version"
)

// options holds optional overrides for AWS config loading.
type options struct {
	profile string
	region  string
	retryer func() awsv2.Retryer
}

// Option customizes how AWS config is loaded.
// Default behavior (no options) inherits the shell environment and shared
// config chain (AWS_PROFILE, ~/.aws/config, ~/.aws/credentials, IMDS, etc.).
type Option func(*options)

// LoadAWSConfig loads AWS SDK v2 config. By default it inherits the shell's
// AWS setup (AWS_PROFILE, shared config, env, IMDS). Options can override
// profile, region, and retryer without changing callers.
func LoadAWSConfig(ctx context.Context, opts ...Option) (awsv2.Config, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	log.Debugf("opts applied: profile=%s, region=%s", o.profile, o.region)

	loadOpts := []func(*config.LoadOptions) error{
		config.WithAppID(version.AppID()),
	}
	if o.profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(o.profile))
	}
	if o.region != "" {
		loadOpts = append(loadOpts, config.WithRegion(o.region))
	}
	if o.retryer != nil {
		loadOpts = append(loadOpts, config.WithRetryer(o.retryer))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		log.Debugf("config load err: err=%v", err)
		return awsv2.Config{}, err
	}
	log.Debugf("config loaded: region=%s", cfg.Region)
	return cfg, nil
}

// NewS3 constructs a v2 S3 client from the provided config.
func NewS3(cfg awsv2.Config, optFns ...func(*s3v2.Options)) *s3v2.Client {
	return s3v2.NewFromConfig(cfg, optFns...)
}

// NewCloudFront constructs a CloudFront client. CloudFront is a global
// service so the region is pinned to us-east-1.
func NewCloudFront(cfg awsv2.Config, optFns ...func(*cloudfront.Options)) *cloudfront.Client {
	optFns = append([]func(*cloudfront.Options){func(o *cloudfront.Options) {
		o.Region = GlobalRegion
	}}, optFns...)
	return cloudfront.NewFromConfig(cfg, optFns...)
}

// NewRoute53 constructs a Route 53 client, pinned to us-east-1 like
// CloudFront.
func NewRoute53(cfg awsv2.Config, optFns ...func(*route53.Options)) *route53.Client {
	optFns = append([]func(*route53.Options){func(o *route53.Options) {
		o.Region = GlobalRegion
	}}, optFns...)
	return route53.NewFromConfig(cfg, optFns...)
}

// NewCloudFormation constructs a CloudFormation client in the config region.
func NewCloudFormation(cfg awsv2.Config, optFns ...func(*cloudformation.Options)) *cloudformation.Client {
	return cloudformation.NewFromConfig(cfg, optFns...)
}

// NewSSM constructs an SSM client in the config region.
func NewSSM(cfg awsv2.Config, optFns ...func(*ssm.Options)) *ssm.Client {
	return ssm.NewFromConfig(cfg, optFns...)
}

// GlobalRegion is where CloudFront certificates and global APIs live.
const GlobalRegion = "us-east-1"

// WithProfile sets the shared config profile. Defaults to AWS_PROFILE/env chain.
func WithProfile(profile string) Option {
	return func(o *options) { o.profile = profile }
}

// WithRegion sets the region override. Defaults to env/profile/metadata chain.
func WithRegion(region string) Option {
	return func(o *options) { o.region = region }
}

// WithRetryer injects a custom retryer; if not set, SDK defaults are used.
func WithRetryer(newRetryer func() awsv2.Retryer) Option {
	return func(o *options) { o.retryer = newRetryer }
}
