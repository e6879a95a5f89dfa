// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package stackinfo reads a deployed stack's status and outputs from
// CloudFormation.
package stackinfo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"

	awsutil "github.com/tfctl/edgestack/internal/aws"
	"github.com/tfctl/edgestack/internal/log"
)

// ErrStackNotFound is returned when the stack has not been deployed.
var ErrStackNotFound = errors.New("stack not found")

// ErrOutputNotFound is returned when a deployed stack lacks an output.
var ErrOutputNotFound = errors.New("stack output not found")

// Output is one stack output.
type Output struct {
	Name        string `json:"name"`
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
	Export      string `json:"export,omitempty"`
}

// Stack is the deployed state of a stack.
type Stack struct {
	Name        string    `json:"name"`
	ID          string    `json:"id"`
	Status      string    `json:"status"`
	LastUpdated time.Time `json:"lastUpdated"`
	Outputs     []Output  `json:"outputs"`
}

// Describe fetches the stack named name.
func Describe(ctx context.Context, client cloudformation.DescribeStacksAPIClient, name string) (*Stack, error) {
	out, err := client.DescribeStacks(ctx, &cloudformation.DescribeStacksInput{StackName: aws.String(name)})
	if err != nil {
		// CloudFormation reports a missing stack as a generic validation error.
		if awsutil.ErrorCode(err) == "ValidationError" && strings.Contains(err.Error(), "does not exist") {
			return nil, fmt.Errorf("%w: %s", ErrStackNotFound, name)
		}
		return nil, awsutil.Friendly(err, "describing stack "+name)
	}
	if len(out.Stacks) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrStackNotFound, name)
	}

	s := out.Stacks[0]
	stack := &Stack{
		Name:   aws.ToString(s.StackName),
		ID:     aws.ToString(s.StackId),
		Status: string(s.StackStatus),
	}
	if s.LastUpdatedTime != nil {
		stack.LastUpdated = *s.LastUpdatedTime
	} else if s.CreationTime != nil {
		stack.LastUpdated = *s.CreationTime
	}

	for _, o := range s.Outputs {
		stack.Outputs = append(stack.Outputs, Output{
			Name:        aws.ToString(o.OutputKey),
			Value:       aws.ToString(o.OutputValue),
			Description: aws.ToString(o.Description),
			Export:      aws.ToString(o.ExportName),
		})
	}
	sort.Slice(stack.Outputs, func(i, j int) bool {
		return stack.Outputs[i].Name < stack.Outputs[j].Name
	})

	log.Debugf("stack %s: status=%s outputs=%d", stack.Name, stack.Status, len(stack.Outputs))
	return stack, nil
}

// Output returns the value of the named output.
func (s *Stack) Output(name string) (string, error) {
	for _, o := range s.Outputs {
		if o.Name == name {
			return o.Value, nil
		}
	}
	return "", fmt.Errorf("%w: %s in %s", ErrOutputNotFound, name, s.Name)
}

// Rows renders the outputs as a JSON array for the output package.
func (s *Stack) Rows() (bytes.Buffer, error) {
	outputs := s.Outputs
	if outputs == nil {
		outputs = []Output{}
	}
	b, err := json.Marshal(outputs)
	if err != nil {
		return bytes.Buffer{}, fmt.Errorf("marshalling outputs: %w", err)
	}
	return *bytes.NewBuffer(b), nil
}
