// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package driller

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// segmentRegex matches one path segment: a key, optionally followed by [n]
// or [*]. Keys may contain the colons of intrinsic function names.
var segmentRegex = regexp.MustCompile(`^([a-zA-Z0-9_:\-]+)(\[(\d+|\*)?\])?$`)

// Driller walks a dot path through jsonData. A segment naming an array
// without an index yields its only element when it has exactly one, and the
// whole array otherwise. An unresolvable path yields an empty result.
func Driller(jsonData string, path string) gjson.Result {
	current := gjson.Parse(jsonData)

	for _, p := range strings.Split(path, ".") {
		matches := segmentRegex.FindStringSubmatch(p)
		if matches == nil {
			return gjson.Result{}
		}

		index := -1
		if matches[3] != "" && matches[3] != "*" {
			i, err := strconv.Atoi(matches[3])
			if err != nil {
				return gjson.Result{}
			}
			index = i
		}

		val := current.Get(gjson.Escape(matches[1]))
		if val.IsArray() {
			arr := val.Array()
			switch {
			case index == -1:
				if len(arr) == 1 {
					val = arr[0]
				}
			case index < len(arr):
				val = arr[index]
			default:
				return gjson.Result{}
			}
		}

		current = val
	}

	return current
}
