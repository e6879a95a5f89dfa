// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package filters selects rows of a resource or output listing.
//
// A filter is key, operator and target. Filters are separated by commas, or
// by the value of EDGESTACK_FILTER_DELIM when targets contain commas. A row
// is kept only when every filter matches.
//
// Operators, each negated by a leading '!':
//
//   - = : equal (numeric when the value is a number)
//   - ~ : equal ignoring case
//   - ^ : prefix
//   - < : less than
//   - > : greater than
//   - @ : contains (substring, array element or map key)
//   - / : regular expression
//
// Examples:
//
//   - "type=AWS::Lambda::Function"
//   - "type^AWS::CloudFront"
//   - "path!@Custom"
//   - "MemorySize>256"
//
// Keys name an attr's output key (see the attrs package). A key that names
// no attr is resolved as a path from the row root.
package filters
