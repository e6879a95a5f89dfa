// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package stack

import (
	"fmt"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"

	"github.com/tfctl/edgestack/internal/assets"
	"github.com/tfctl/edgestack/internal/log"
)

// Names of the stack outputs.
const (
	OutputBucketName             = "BucketName"
	OutputDistributionID         = "DistributionId"
	OutputDistributionDomainName = "DistributionDomainName"
	OutputServerFunctionURL      = "ServerFunctionUrl"
	OutputImageFunctionURL       = "ImageFunctionUrl"
	OutputCertificateArn         = "CertificateArn"
)

// Website is the complete hosting stack.
type Website struct {
	awscdk.Stack

	Bucket       *AssetBucket
	Image        *URLFunction
	Server       *URLFunction
	Zone         *HostedZone
	Certificate  *Certificate
	Distribution *Distribution
	Deployments  []*DeployAssets
}

// NewWebsite declares the Website stack in scope. props is expected to have
// passed Validate.
func NewWebsite(scope constructs.Construct, id string, props *WebsiteProps) *Website {
	stack := awscdk.NewStack(scope, &id, props.stackProps())
	w := &Website{Stack: stack}

	w.Bucket = NewAssetBucket(stack, "AssetsBucket")
	w.Image = NewImageOptimization(stack, "ImageOptimizationFunction", props, w.Bucket)
	w.Server = NewServer(stack, "ServerFunction", props)
	w.Zone = NewHostedZone(stack, "HostedZone", props)
	w.Certificate = NewCertificate(stack, "Certificate", props, w.Zone)

	w.Distribution = NewDistribution(stack, "Distribution", &DistributionProps{
		Bucket:      w.Bucket,
		Server:      w.Server,
		Image:       w.Image,
		Certificate: w.Certificate,
		DomainNames: props.DomainNames,
	})

	w.Deployments = []*DeployAssets{
		NewDeployAssets(stack, "DeployImmutableAssets", &DeployAssetsProps{
			Bucket: w.Bucket,
			Source: assetsSource(props),
			Class:  assets.Immutable,
		}),
		NewDeployAssets(stack, "DeployRevalidateAssets", &DeployAssetsProps{
			Bucket:       w.Bucket,
			Source:       assetsSource(props),
			Class:        assets.Revalidate,
			Distribution: w.Distribution.Distribution,
		}),
	}

	for i, name := range props.DomainNames {
		w.Zone.AddAliasRecord(fmt.Sprintf("%s_ARecord_%d", name, i), name, w.Distribution.Distribution)
	}
	for _, name := range sortedKeys(props.CnameRecords) {
		w.Zone.AddCnameRecord(name+"_CnameRecord", name, props.CnameRecords[name])
	}

	output(stack, OutputBucketName, w.Bucket.BucketName(), "Asset bucket name")
	output(stack, OutputDistributionID, w.Distribution.DistributionID(), "CloudFront distribution id")
	output(stack, OutputDistributionDomainName, w.Distribution.DomainName(), "CloudFront domain name")
	output(stack, OutputServerFunctionURL, w.Server.URL(), "Server function URL")
	output(stack, OutputImageFunctionURL, w.Image.URL(), "Image optimization function URL")
	output(stack, OutputCertificateArn, w.Certificate.CertificateArn(), "Distribution certificate ARN")

	log.Debugf("declared stack %s: %d domain names, %d cnames, imported certificate=%t",
		id, len(props.DomainNames), len(props.CnameRecords), w.Certificate.Imported)

	return w
}

func output(stack awscdk.Stack, id string, value *string, description string) {
	awscdk.NewCfnOutput(stack, jsii.String(id), &awscdk.CfnOutputProps{
		Value:       value,
		Description: jsii.String(description),
	})
}
