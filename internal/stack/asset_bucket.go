// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package stack

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awss3"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

// AssetBucket holds the static assets served under _next/* and the fallback
// for paths the server function does not know.
type AssetBucket struct {
	constructs.Construct
	Bucket awss3.Bucket
}

// NewAssetBucket declares a bucket whose objects are removed with the stack.
func NewAssetBucket(scope constructs.Construct, id string) *AssetBucket {
	this := constructs.NewConstruct(scope, &id)

	bucket := awss3.NewBucket(this, jsii.String("Bucket"), &awss3.BucketProps{
		AutoDeleteObjects: jsii.Bool(true),
		RemovalPolicy:     awscdk.RemovalPolicy_DESTROY,
	})

	return &AssetBucket{Construct: this, Bucket: bucket}
}

// BucketName is the synthesized bucket name token.
func (b *AssetBucket) BucketName() *string {
	return b.Bucket.BucketName()
}

// BucketArn is the bucket ARN token.
func (b *AssetBucket) BucketArn() *string {
	return b.Bucket.BucketArn()
}
