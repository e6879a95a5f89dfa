// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package stackinfo

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCFN struct {
	stacks []types.Stack
	err    error
	asked  string
}

func (f *fakeCFN) DescribeStacks(_ context.Context, in *cloudformation.DescribeStacksInput, _ ...func(*cloudformation.Options)) (*cloudformation.DescribeStacksOutput, error) {
	f.asked = aws.ToString(in.StackName)
	if f.err != nil {
		return nil, f.err
	}
	return &cloudformation.DescribeStacksOutput{Stacks: f.stacks}, nil
}

func deployed() *fakeCFN {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return &fakeCFN{stacks: []types.Stack{{
		StackName:    aws.String("Website"),
		StackId:      aws.String("arn:aws:cloudformation:us-east-1:123456789012:stack/Website/abc"),
		StackStatus:  types.StackStatusUpdateComplete,
		CreationTime: &created,
		Outputs: []types.Output{
			{OutputKey: aws.String("DistributionId"), OutputValue: aws.String("E123"), Description: aws.String("CloudFront distribution id")},
			{OutputKey: aws.String("BucketName"), OutputValue: aws.String("website-assets-1")},
		},
	}}}
}

func TestDescribe(t *testing.T) {
	f := deployed()
	stack, err := Describe(context.Background(), f, "Website")
	require.NoError(t, err)
	assert.Equal(t, "Website", f.asked)
	assert.Equal(t, "UPDATE_COMPLETE", stack.Status)
	assert.Equal(t, 2026, stack.LastUpdated.Year())
	require.Len(t, stack.Outputs, 2)
	assert.Equal(t, "BucketName", stack.Outputs[0].Name)

	v, err := stack.Output("DistributionId")
	require.NoError(t, err)
	assert.Equal(t, "E123", v)

	_, err = stack.Output("Nope")
	assert.ErrorIs(t, err, ErrOutputNotFound)
}

func TestDescribeNotFound(t *testing.T) {
	f := &fakeCFN{err: &smithy.GenericAPIError{Code: "ValidationError", Message: "Stack with id Website does not exist"}}
	_, err := Describe(context.Background(), f, "Website")
	assert.ErrorIs(t, err, ErrStackNotFound)

	_, err = Describe(context.Background(), &fakeCFN{}, "Website")
	assert.ErrorIs(t, err, ErrStackNotFound)
}

func TestDescribeOtherError(t *testing.T) {
	f := &fakeCFN{err: &smithy.GenericAPIError{Code: "AccessDenied", Message: "no"}}
	_, err := Describe(context.Background(), f, "Website")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrStackNotFound)
	assert.Contains(t, err.Error(), "AccessDenied")

	_, err = Describe(context.Background(), &fakeCFN{err: errors.New("offline")}, "Website")
	assert.Contains(t, err.Error(), "offline")
}

func TestRows(t *testing.T) {
	stack, err := Describe(context.Background(), deployed(), "Website")
	require.NoError(t, err)

	raw, err := stack.Rows()
	require.NoError(t, err)

	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal(raw.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "website-assets-1", rows[0]["value"])
	assert.NotContains(t, rows[0], "description")

	empty := &Stack{Name: "x"}
	raw, err = empty.Rows()
	require.NoError(t, err)
	assert.Equal(t, "[]", raw.String())
}
