// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package stack

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudfront"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudfrontorigins"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

const (
	cachePolicyComment = "Server response cache policy."
	cacheMaxTTLDays    = 365
)

// ServerCacheHeaders are forwarded to the functions and take part in the
// cache key.
var ServerCacheHeaders = []string{
	// image optimization
	"accept",
	// middleware and data requests
	"x-op-middleware-request-headers",
	"x-op-middleware-response-headers",
	"x-nextjs-data",
	"x-middleware-prefetch",
	// app router in-place navigation
	"rsc",
	"next-router-prefetch",
	"next-router-state-tree",
}

// Path patterns routed away from the default behavior, in evaluation order.
const (
	APIPathPattern        = "api/*"
	DataPathPattern       = "_next/data/*"
	ImagePathPattern      = "_next/image*"
	StaticFilePathPattern = "_next/*"
)

// FallbackStatusCodes make the default origin group retry on the bucket.
var FallbackStatusCodes = []float64{404}

// DistributionProps wires the distribution to the other constructs.
type DistributionProps struct {
	Bucket      *AssetBucket
	Server      *URLFunction
	Image       *URLFunction
	Certificate *Certificate
	DomainNames []string
}

// Distribution routes requests by path to the server function, the image
// function or the asset bucket.
type Distribution struct {
	constructs.Construct
	Distribution awscloudfront.Distribution
	CachePolicy  awscloudfront.CachePolicy
}

// NewDistribution declares the cache policy and the distribution.
func NewDistribution(scope constructs.Construct, id string, props *DistributionProps) *Distribution {
	this := constructs.NewConstruct(scope, &id)

	cachePolicy := awscloudfront.NewCachePolicy(this, jsii.String("ServerCache"), &awscloudfront.CachePolicyProps{
		QueryStringBehavior:        awscloudfront.CacheQueryStringBehavior_All(),
		CookieBehavior:             awscloudfront.CacheCookieBehavior_All(),
		DefaultTtl:                 awscdk.Duration_Days(jsii.Number(0)),
		MaxTtl:                     awscdk.Duration_Days(jsii.Number(cacheMaxTTLDays)),
		MinTtl:                     awscdk.Duration_Days(jsii.Number(0)),
		EnableAcceptEncodingBrotli: jsii.Bool(true),
		EnableAcceptEncodingGzip:   jsii.Bool(true),
		Comment:                    jsii.String(cachePolicyComment),
		HeaderBehavior:             awscloudfront.CacheHeaderBehavior_AllowList(*jsii.Strings(ServerCacheHeaders...)...),
	})

	bucketOrigin := awscloudfrontorigins.NewS3Origin(props.Bucket.Bucket, nil)
	serverBehavior := functionBehavior(props.Server, cachePolicy)
	imageBehavior := functionBehavior(props.Image, cachePolicy)

	staticBehavior := &awscloudfront.BehaviorOptions{
		Origin:               bucketOrigin,
		ViewerProtocolPolicy: awscloudfront.ViewerProtocolPolicy_REDIRECT_TO_HTTPS,
		AllowedMethods:       awscloudfront.AllowedMethods_ALLOW_GET_HEAD_OPTIONS(),
		CachedMethods:        awscloudfront.CachedMethods_CACHE_GET_HEAD_OPTIONS(),
		Compress:             jsii.Bool(true),
		CachePolicy:          awscloudfront.CachePolicy_CACHING_OPTIMIZED(),
	}

	fallbackCodes := make([]*float64, 0, len(FallbackStatusCodes))
	for _, code := range FallbackStatusCodes {
		fallbackCodes = append(fallbackCodes, jsii.Number(code))
	}
	originGroup := awscloudfrontorigins.NewOriginGroup(&awscloudfrontorigins.OriginGroupProps{
		PrimaryOrigin:       serverBehavior.Origin,
		FallbackOrigin:      bucketOrigin,
		FallbackStatusCodes: &fallbackCodes,
	})

	distribution := awscloudfront.NewDistribution(this, jsii.String("WebsiteDistribution"), &awscloudfront.DistributionProps{
		DefaultRootObject: jsii.String(""),
		DefaultBehavior: &awscloudfront.BehaviorOptions{
			Origin:               originGroup,
			ViewerProtocolPolicy: awscloudfront.ViewerProtocolPolicy_REDIRECT_TO_HTTPS,
			Compress:             jsii.Bool(true),
			CachePolicy:          cachePolicy,
		},
		Certificate: props.Certificate.Certificate,
		DomainNames: jsii.Strings(props.DomainNames...),
	})

	// CloudFront evaluates behaviors in order, so _next/* must come last.
	behaviors := []struct {
		pattern  string
		behavior *awscloudfront.BehaviorOptions
	}{
		{APIPathPattern, serverBehavior},
		{DataPathPattern, serverBehavior},
		{ImagePathPattern, imageBehavior},
		{StaticFilePathPattern, staticBehavior},
	}
	for _, b := range behaviors {
		distribution.AddBehavior(jsii.String(b.pattern), b.behavior.Origin, addOptions(b.behavior))
	}

	return &Distribution{Construct: this, Distribution: distribution, CachePolicy: cachePolicy}
}

func functionBehavior(fn *URLFunction, cachePolicy awscloudfront.ICachePolicy) *awscloudfront.BehaviorOptions {
	return &awscloudfront.BehaviorOptions{
		Origin:               awscloudfrontorigins.NewHttpOrigin(fn.Domain(), nil),
		ViewerProtocolPolicy: awscloudfront.ViewerProtocolPolicy_REDIRECT_TO_HTTPS,
		AllowedMethods:       awscloudfront.AllowedMethods_ALLOW_ALL(),
		CachedMethods:        awscloudfront.CachedMethods_CACHE_GET_HEAD_OPTIONS(),
		Compress:             jsii.Bool(true),
		CachePolicy:          cachePolicy,
	}
}

func addOptions(b *awscloudfront.BehaviorOptions) *awscloudfront.AddBehaviorOptions {
	return &awscloudfront.AddBehaviorOptions{
		ViewerProtocolPolicy: b.ViewerProtocolPolicy,
		AllowedMethods:       b.AllowedMethods,
		CachedMethods:        b.CachedMethods,
		Compress:             b.Compress,
		CachePolicy:          b.CachePolicy,
	}
}

// DistributionID is the distribution id token.
func (d *Distribution) DistributionID() *string {
	return d.Distribution.DistributionId()
}

// DomainName is the cloudfront.net domain name token.
func (d *Distribution) DomainName() *string {
	return d.Distribution.DistributionDomainName()
}
