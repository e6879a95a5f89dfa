// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package assets describes the OpenNext build output layout and the two
// cache-control classes static assets are served with.
package assets

import (
	"path"
	"strings"
)

// Sub-directories of an OpenNext build (.open-next).
const (
	AssetsDir            = "assets"
	ServerFunctionDir    = "server-function"
	ImageFunctionDir     = "image-optimization-function"
	DefaultBuildDir      = ".open-next"
	ImmutableCacheHeader = "public,max-age=31536000,immutable"
	RevalidCacheHeader   = "public,max-age=0,s-maxage=31536000,must-revalidate"
)

// RequiredDirs lists the build sub-directories the stack needs.
var RequiredDirs = []string{AssetsDir, ServerFunctionDir, ImageFunctionDir}

// Class is a cache-control class for an uploaded object.
type Class int

const (
	// Revalidate objects may change between builds and are revalidated by
	// browsers on every request while CloudFront keeps them for a year.
	Revalidate Class = iota
	// Immutable objects carry a content hash in their path.
	Immutable
)

// immutablePrefixes are the object key prefixes whose contents are hashed by
// the Next.js build.
var immutablePrefixes = []string{"_next/"}

func (c Class) String() string {
	if c == Immutable {
		return "immutable"
	}
	return "revalidate"
}

// CacheControl returns the Cache-Control header value for the class.
func (c Class) CacheControl() string {
	if c == Immutable {
		return ImmutableCacheHeader
	}
	return RevalidCacheHeader
}

// Classify returns the cache-control class for an object key relative to the
// assets directory. Keys use forward slashes; a leading slash is ignored.
func Classify(key string) Class {
	key = strings.TrimPrefix(path.Clean("/"+key), "/")
	for _, p := range immutablePrefixes {
		if strings.HasPrefix(key, p) {
			return Immutable
		}
	}
	return Revalidate
}

// ImmutablePatterns returns the sync-style include patterns (as understood by
// "aws s3 sync --include") matching every immutable key.
func ImmutablePatterns() []string {
	patterns := make([]string, 0, len(immutablePrefixes))
	for _, p := range immutablePrefixes {
		patterns = append(patterns, p+"*")
	}
	return patterns
}
