// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package stack

import (
	"path/filepath"

	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudfront"
	"github.com/aws/aws-cdk-go/awscdk/v2/awss3deployment"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"

	"github.com/tfctl/edgestack/internal/assets"
)

// InvalidationPath is invalidated after the revalidate assets are deployed.
const InvalidationPath = "/*"

// DeployAssetsProps configures one deployment of the build assets.
type DeployAssetsProps struct {
	Bucket *AssetBucket
	// Source is the local directory copied into the bucket.
	Source string
	Class  assets.Class
	// Distribution, when set, is invalidated at InvalidationPath.
	Distribution awscloudfront.IDistribution
}

// DeployAssets copies the objects of one cache-control class into the bucket.
type DeployAssets struct {
	constructs.Construct
	Deployment awss3deployment.BucketDeployment
}

// NewDeployAssets declares a bucket deployment limited to the objects of
// props.Class so every object is uploaded once with a single cache-control.
// Objects of the other class are excluded and therefore never pruned.
func NewDeployAssets(scope constructs.Construct, id string, props *DeployAssetsProps) *DeployAssets {
	this := constructs.NewConstruct(scope, &id)

	dp := &awss3deployment.BucketDeploymentProps{
		Sources:           &[]awss3deployment.ISource{awss3deployment.Source_Asset(jsii.String(props.Source), nil)},
		DestinationBucket: props.Bucket.Bucket,
		CacheControl: &[]awss3deployment.CacheControl{
			awss3deployment.CacheControl_FromString(jsii.String(props.Class.CacheControl())),
		},
		RetainOnDelete: jsii.Bool(false),
	}

	if props.Class == assets.Immutable {
		dp.Exclude = jsii.Strings("*")
		dp.Include = jsii.Strings(assets.ImmutablePatterns()...)
	} else {
		dp.Exclude = jsii.Strings(assets.ImmutablePatterns()...)
	}

	if props.Distribution != nil {
		dp.Distribution = props.Distribution
		dp.DistributionPaths = jsii.Strings(InvalidationPath)
	}

	deployment := awss3deployment.NewBucketDeployment(this, jsii.String("BucketDeployment"), dp)

	return &DeployAssets{Construct: this, Deployment: deployment}
}

func assetsSource(props *WebsiteProps) string {
	return filepath.Join(props.buildDir(), assets.AssetsDir)
}
