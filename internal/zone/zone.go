// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package zone resolves the Route 53 hosted zone that serves a domain.
package zone

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/route53"

	awsutil "github.com/tfctl/edgestack/internal/aws"
	"github.com/tfctl/edgestack/internal/log"
)

// ErrNoZone is returned when no public hosted zone serves the domain.
var ErrNoZone = errors.New("no hosted zone found")

// HostedZone is a Route 53 zone summary.
type HostedZone struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Private bool   `json:"private"`
	Records int64  `json:"records"`
}

// List returns every hosted zone visible to the client, with normalized ids
// (no /hostedzone/ prefix) and names (no trailing dot).
func List(ctx context.Context, client route53.ListHostedZonesAPIClient) ([]HostedZone, error) {
	var zones []HostedZone

	paginator := route53.NewListHostedZonesPaginator(client, &route53.ListHostedZonesInput{})
	for paginator.HasMorePages() {
		output, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, awsutil.Friendly(err, "listing hosted zones")
		}

		for _, z := range output.HostedZones {
			comp := strings.Split(aws.ToString(z.Id), "/")
			hz := HostedZone{
				ID:      comp[len(comp)-1],
				Name:    Normalize(aws.ToString(z.Name)),
				Records: aws.ToInt64(z.ResourceRecordSetCount),
			}
			if z.Config != nil {
				hz.Private = z.Config.PrivateZone
			}
			zones = append(zones, hz)
		}
	}

	log.Debugf("hosted zones: count=%d", len(zones))
	return zones, nil
}

// Find returns the public zone with the longest name that equals domain or
// is a parent of it.
func Find(ctx context.Context, client route53.ListHostedZonesAPIClient, domain string) (HostedZone, error) {
	zones, err := List(ctx, client)
	if err != nil {
		return HostedZone{}, err
	}
	return Match(zones, domain)
}

// Match picks the best zone for domain from zones.
func Match(zones []HostedZone, domain string) (HostedZone, error) {
	domain = Normalize(domain)

	var candidates []HostedZone
	for _, z := range zones {
		if z.Private {
			continue
		}
		if domain == z.Name || strings.HasSuffix(domain, "."+z.Name) {
			candidates = append(candidates, z)
		}
	}

	if len(candidates) == 0 {
		return HostedZone{}, fmt.Errorf("%w for %s", ErrNoZone, domain)
	}

	// Longest name first; ties resolve to the lowest id so results are stable.
	sort.SliceStable(candidates, func(i, j int) bool {
		if len(candidates[i].Name) != len(candidates[j].Name) {
			return len(candidates[i].Name) > len(candidates[j].Name)
		}
		return candidates[i].ID < candidates[j].ID
	})

	return candidates[0], nil
}

// Normalize lower-cases a domain name and strips the trailing dot.
func Normalize(name string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(name)), ".")
}
