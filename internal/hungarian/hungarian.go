// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package hungarian

import (
	"regexp"
	"strings"
)

var (
	camelCaseRe = regexp.MustCompile(`([a-z0-9])([A-Z])`)
	splitRe     = regexp.MustCompile(`[^a-z0-9]+`)
)

// IsHungarian returns true if the logical id of a CloudFormation resource
// repeats its type. The vendor segment ("AWS") is ignored. Every other
// segment of the type matches when it equals a part of the id, split on
// separators and camelCase boundaries, or appears anywhere in the id.
// Multi-word segments such as "BucketPolicy" also match word by word.
func IsHungarian(typ string, id string) bool {
	if typ == "" || id == "" {
		return false
	}

	segments := strings.Split(typ, "::")
	if len(segments) > 1 {
		segments = segments[1:]
	}

	var typeTokens []string
	for _, seg := range segments {
		typeTokens = append(typeTokens, strings.ToLower(seg))
		if words := split(seg); len(words) > 1 {
			typeTokens = append(typeTokens, words...)
		}
	}

	idLower := strings.ToLower(id)
	idParts := split(id)

	for _, tok := range typeTokens {
		if tok == "" {
			continue
		}

		for _, p := range idParts {
			if p == tok {
				return true
			}
		}

		// CDK ids jam words together, "sitebucket" still names a bucket. Short
		// words like "s3" or "iam" are only trusted as whole parts.
		if len(tok) > 3 && strings.Contains(idLower, tok) {
			return true
		}
	}

	return false
}

// split lowercases s and breaks it on camelCase boundaries and
// non-alphanumerics.
func split(s string) []string {
	delimited := camelCaseRe.ReplaceAllString(s, "${1}_${2}")
	var parts []string
	for _, p := range splitRe.Split(strings.ToLower(delimited), -1) {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}
