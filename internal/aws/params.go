// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package aws

import (
	"context"
	"fmt"
	"strings"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"

	"github.com/tfctl/edgestack/internal/log"
)

// ParamPrefix marks a config value that should be read from SSM Parameter
// Store, e.g. "ssm:/sites/example/hosted-zone-id".
const ParamPrefix = "ssm:"

// ParamGetter is the subset of the SSM client used to resolve references.
type ParamGetter interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// IsParamRef reports whether value is an SSM parameter reference.
func IsParamRef(value string) bool {
	return strings.HasPrefix(value, ParamPrefix) && len(value) > len(ParamPrefix)
}

// ResolveParam returns value unchanged unless it is an SSM reference, in
// which case the (decrypted) parameter value is returned.
func ResolveParam(ctx context.Context, client ParamGetter, value string) (string, error) {
	if !IsParamRef(value) {
		return value, nil
	}

	name := strings.TrimPrefix(value, ParamPrefix)
	log.Debugf("resolving ssm parameter: name=%s", name)

	out, err := client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           awsv2.String(name),
		WithDecryption: awsv2.Bool(true),
	})
	if err != nil {
		return "", Friendly(err, fmt.Sprintf("failed to read ssm parameter %s", name))
	}
	if out.Parameter == nil || out.Parameter.Value == nil {
		return "", fmt.Errorf("ssm parameter %s has no value", name)
	}

	return awsv2.ToString(out.Parameter.Value), nil
}

// ResolveParams resolves every reference in values in place.
func ResolveParams(ctx context.Context, client ParamGetter, values ...*string) error {
	for _, v := range values {
		if v == nil || !IsParamRef(*v) {
			continue
		}
		resolved, err := ResolveParam(ctx, client, *v)
		if err != nil {
			return err
		}
		*v = resolved
	}
	return nil
}
