// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package aws

import (
	"errors"
	"fmt"

	"github.com/aws/smithy-go"
)

// FriendlyError keeps the AWS error code next to a short operation context
// while preserving the original error for errors.Is/As.
type FriendlyError struct {
	Context string
	Code    string
	Message string
	Err     error
}

func (e *FriendlyError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("%s: %v", e.Context, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", e.Context, e.Code, e.Message)
}

func (e *FriendlyError) Unwrap() error { return e.Err }

// Friendly wraps err with context. Smithy API errors contribute their code
// and message; any other error is wrapped as is. A nil err returns nil.
func Friendly(err error, context string) error {
	if err == nil {
		return nil
	}

	fe := &FriendlyError{Context: context, Err: err}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		fe.Code = apiErr.ErrorCode()
		fe.Message = apiErr.ErrorMessage()
	}
	return fe
}

// ErrorCode returns the smithy API error code carried by err, or "".
func ErrorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}
