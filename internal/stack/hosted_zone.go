// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package stack

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudfront"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsroute53"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsroute53targets"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

const (
	aliasRecordTTLMinutes = 5
	cnameRecordTTLDays    = 2
	aliasRecordComment    = "Alias to the website distribution"
)

// HostedZone references an existing Route 53 zone and adds records to it.
type HostedZone struct {
	constructs.Construct
	Zone awsroute53.IHostedZone
}

// NewHostedZone imports the zone identified by props.HostedZoneID.
func NewHostedZone(scope constructs.Construct, id string, props *WebsiteProps) *HostedZone {
	this := constructs.NewConstruct(scope, &id)

	zone := awsroute53.HostedZone_FromHostedZoneAttributes(this, jsii.String("Zone"), &awsroute53.HostedZoneAttributes{
		HostedZoneId: jsii.String(props.HostedZoneID),
		ZoneName:     jsii.String(props.Domain),
	})

	return &HostedZone{Construct: this, Zone: zone}
}

// AddAliasRecord adds an A record for recordName aliasing the distribution.
func (z *HostedZone) AddAliasRecord(id, recordName string, distribution awscloudfront.IDistribution) awsroute53.ARecord {
	return awsroute53.NewARecord(z.Construct, jsii.String(id), &awsroute53.ARecordProps{
		Zone:       z.Zone,
		RecordName: jsii.String(recordName),
		Target:     awsroute53.RecordTarget_FromAlias(awsroute53targets.NewCloudFrontTarget(distribution)),
		Ttl:        awscdk.Duration_Minutes(jsii.Number(aliasRecordTTLMinutes)),
		Comment:    jsii.String(aliasRecordComment),
	})
}

// AddCnameRecord adds a CNAME record for recordName pointing at domainName,
// replacing any record of that name already in the zone.
func (z *HostedZone) AddCnameRecord(id, recordName, domainName string) awsroute53.CnameRecord {
	return awsroute53.NewCnameRecord(z.Construct, jsii.String(id), &awsroute53.CnameRecordProps{
		Zone:           z.Zone,
		RecordName:     jsii.String(recordName),
		DomainName:     jsii.String(domainName),
		DeleteExisting: jsii.Bool(true),
		Ttl:            awscdk.Duration_Days(jsii.Number(cnameRecordTTLDays)),
	})
}
