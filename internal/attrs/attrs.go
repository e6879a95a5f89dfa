// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package attrs parses --attrs specifications that select, rename and
// transform the columns of a row set.
package attrs

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/tfctl/edgestack/internal/log"
)

// PropertiesKey is the row key that unqualified attr keys resolve under.
// A key with a leading '.' resolves from the row root instead.
const PropertiesKey = "properties"

var lengthRegex = regexp.MustCompile(`-?\d+`)

// Attr is one output column.
type Attr struct {
	// Key is the gjson-style path of the value within a row.
	Key string `yaml:"key" json:"Key"`
	// Include is false for columns used only to filter or sort.
	Include bool `yaml:"include" json:"Include"`
	// OutputKey names the value in output rows and titles the column.
	OutputKey string `yaml:"outputKey" json:"OutputKey"`
	// TransformSpec is a list of transforms: t (local time), T (time ago),
	// l/u (case) and an integer length (negative elides the middle).
	TransformSpec string `yaml:"transformSpec" json:"TransformSpec"`
}

// Transform applies the attr's transform spec to a string value. Other value
// types are returned unchanged.
func (a *Attr) Transform(value interface{}) interface{} {
	result, ok := value.(string)
	if !ok {
		log.Tracef("non-string value: value=%v", value)
		return value
	}

	if strings.ContainsAny(a.TransformSpec, "tT") {
		if ts, err := time.Parse(time.RFC3339, result); err == nil {
			local := ts.In(time.Now().Location())
			if strings.Contains(a.TransformSpec, "T") {
				result = humanize.Time(local)
			} else {
				result = local.Format("2006-01-02T15:04:05MST")
			}
			log.Tracef("time: result=%s", result)
		}
	}

	// The last case transform wins so a per-attr spec overrides a global one
	// prepended by SetGlobalTransformSpec.
	lastL := strings.LastIndexAny(a.TransformSpec, "lL")
	lastU := strings.LastIndexAny(a.TransformSpec, "uU")
	if lastL > lastU {
		result = strings.ToLower(result)
	} else if lastU > lastL {
		result = strings.ToUpper(result)
	}

	if match := lengthRegex.FindAllString(a.TransformSpec, -1); len(match) != 0 {
		l, _ := strconv.Atoi(match[len(match)-1])
		abs := int(math.Abs(float64(l)))
		if len(result) > abs {
			if l < 0 {
				lr := abs/2 - 1
				if lr < 1 {
					lr = 1
				}
				result = result[:lr] + ".." + result[len(result)-lr:]
			} else {
				result = result[:l]
			}
			log.Tracef("length: result=%s", result)
		}
	}

	return result
}

// AttrList is the ordered set of output columns. It implements the
// flag.Value shape (Set, String, Type).
type AttrList []Attr

// Defaults builds a list from root-level keys, each included under its own
// name. Commands use it to seed their default columns.
func Defaults(keys ...string) AttrList {
	list := make(AttrList, 0, len(keys))
	for _, k := range keys {
		list = append(list, Attr{Key: k, OutputKey: k, Include: true})
	}
	return list
}

// Set parses a comma separated list of key[:output[:transform]] specs and
// merges them into the list. A key prefixed with '!' is kept for filtering
// and sorting but hidden. The key '*' carries a global transform only.
func (a *AttrList) Set(value string) error {
	if value == "" || value == "*" {
		return nil
	}

	const (
		keyIdx = iota
		outputIdx
		transformIdx
	)

specloop:
	for _, spec := range strings.Split(value, ",") {
		fields := strings.Split(spec, ":")

		attr := Attr{Include: true}
		attr.Key = strings.TrimSpace(fields[keyIdx])
		if strings.HasPrefix(attr.Key, "!") {
			attr.Include = false
			attr.Key = attr.Key[1:]
		}
		if attr.Key == "" {
			return fmt.Errorf("empty attr key in %q", spec)
		}
		if attr.Key == "*" {
			attr.Include = false
		}

		// Output key defaults to the last path segment.
		switch {
		case len(fields) == 1 || strings.TrimSpace(fields[outputIdx]) == "":
			segments := strings.Split(strings.TrimPrefix(attr.Key, "."), ".")
			attr.OutputKey = segments[len(segments)-1]
		default:
			attr.OutputKey = strings.TrimSpace(fields[outputIdx])
		}

		if len(fields) > transformIdx {
			attr.TransformSpec = strings.TrimSpace(fields[transformIdx])
		}

		// Respecifying an existing column updates it in place.
		for i := range *a {
			existing := &(*a)[i]
			if existing.Key == strings.TrimPrefix(attr.Key, ".") || existing.OutputKey == attr.Key {
				existing.Include = attr.Include
				existing.OutputKey = attr.OutputKey
				existing.TransformSpec = attr.TransformSpec
				continue specloop
			}
		}

		switch {
		case strings.HasPrefix(attr.Key, "."):
			attr.Key = attr.Key[1:]
		case attr.Key != "*":
			attr.Key = PropertiesKey + "." + attr.Key
		}

		log.Tracef("attr: key=%s output=%s include=%v", attr.Key, attr.OutputKey, attr.Include)
		*a = append(*a, attr)
	}

	return nil
}

// SetGlobalTransformSpec prepends the '*' attr's transform to every attr.
func (a *AttrList) SetGlobalTransformSpec() error {
	spec := ""
	for _, attr := range *a {
		if attr.Key == "*" {
			spec = attr.TransformSpec
			break
		}
	}
	if spec == "" {
		return nil
	}

	for i := range *a {
		(*a)[i].TransformSpec = spec + "," + (*a)[i].TransformSpec
	}
	log.Debugf("global transform: spec=%s", spec)
	return nil
}

// String renders the list in Set's input form.
func (a *AttrList) String() string {
	result := make([]string, 0, len(*a))
	for _, attr := range *a {
		result = append(result, fmt.Sprintf("%s:%s:%s", attr.Key, attr.OutputKey, attr.TransformSpec))
	}
	return strings.Join(result, ",")
}

// Type returns the flag type for use with the flag.Value interface.
func (a *AttrList) Type() string { return "list" }
