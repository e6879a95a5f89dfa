// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"sort"
	"strings"
)

// SortDataset orders rows by a comma separated list of output keys. A key
// prefixed with '-' sorts descending; '!' makes string comparison case
// sensitive. Numbers compare numerically, everything else as text.
func SortDataset(resultSet []map[string]interface{}, spec string) {
	if strings.TrimSpace(spec) == "" {
		return
	}

	fields := strings.Split(spec, ",")

	sort.SliceStable(resultSet, func(one, two int) bool {
		for _, field := range fields {
			field = strings.TrimSpace(field)

			ascending := true
			if strings.HasPrefix(field, "-") {
				field = strings.TrimPrefix(field, "-")
				ascending = false
			}

			caseSensitive := false
			if strings.HasPrefix(field, "!") {
				field = strings.TrimPrefix(field, "!")
				caseSensitive = true
			}

			oneValue := resultSet[one][field]
			twoValue := resultSet[two][field]

			oneNum, oneOk := oneValue.(float64)
			twoNum, twoOk := twoValue.(float64)
			if oneOk && twoOk {
				if oneNum != twoNum {
					return (oneNum < twoNum) == ascending
				}
				continue
			}

			oneStr := InterfaceToString(oneValue)
			twoStr := InterfaceToString(twoValue)
			if !caseSensitive {
				oneStr = strings.ToLower(oneStr)
				twoStr = strings.ToLower(twoStr)
			}

			if oneStr != twoStr {
				return (oneStr < twoStr) == ascending
			}
		}
		return false
	})
}
