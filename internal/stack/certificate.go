// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package stack

import (
	"github.com/aws/aws-cdk-go/awscdk/v2/awscertificatemanager"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

// Certificate is the TLS certificate attached to the distribution.
type Certificate struct {
	constructs.Construct
	Certificate awscertificatemanager.ICertificate
	// Imported is true when an existing certificate ARN was configured.
	Imported bool
}

// NewCertificate imports props.CertificateARN when set. Otherwise it requests
// a wildcard certificate for the domain covering every configured name,
// validated through DNS records in zone.
func NewCertificate(scope constructs.Construct, id string, props *WebsiteProps, zone *HostedZone) *Certificate {
	this := constructs.NewConstruct(scope, &id)

	if props.CertificateARN != "" {
		cert := awscertificatemanager.Certificate_FromCertificateArn(this, jsii.String("Imported"), jsii.String(props.CertificateARN))
		return &Certificate{Construct: this, Certificate: cert, Imported: true}
	}

	cert := awscertificatemanager.NewCertificate(this, jsii.String("Certificate"), &awscertificatemanager.CertificateProps{
		DomainName:              jsii.String("*." + props.Domain),
		SubjectAlternativeNames: jsii.Strings(props.DomainNames...),
		Validation:              awscertificatemanager.CertificateValidation_FromDns(zone.Zone),
	})

	return &Certificate{Construct: this, Certificate: cert}
}

// CertificateArn is the ARN token of the certificate.
func (c *Certificate) CertificateArn() *string {
	return c.Certificate.CertificateArn()
}
