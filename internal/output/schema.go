// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/tfctl/edgestack/internal/attrs"
	"github.com/tfctl/edgestack/internal/log"
)

// maxSchemaDepth limits how deep property objects are walked.
const maxSchemaDepth = 3

// DumpSchema lists, per resource type, the property paths usable with
// --attrs. raw is a JSON array of rows with "type" and "properties" keys.
func DumpSchema(raw bytes.Buffer, w io.Writer) {
	if w == nil {
		w = os.Stdout
	}

	fmt.Fprintln(w,
		`Properties available to the --attrs flag, by resource type. Prefix a key
with '.' to select a row field (id, type, path, summary, dependsOn).`)

	byType := map[string]map[string]bool{}
	gjson.ParseBytes(raw.Bytes()).ForEach(func(_, row gjson.Result) bool {
		typ := row.Get("type").String()
		if byType[typ] == nil {
			byType[typ] = map[string]bool{}
		}
		for _, p := range schemaWalker("", row.Get(attrs.PropertiesKey), 0) {
			byType[typ][p] = true
		}
		return true
	})

	types := make([]string, 0, len(byType))
	for typ := range byType {
		types = append(types, typ)
	}
	sort.Strings(types)

	for _, typ := range types {
		paths := make([]string, 0, len(byType[typ]))
		for p := range byType[typ] {
			paths = append(paths, p)
		}
		sort.Strings(paths)

		fmt.Fprintln(w, "")
		fmt.Fprintln(w, typ)
		for _, p := range paths {
			fmt.Fprintln(w, "  "+p)
		}
	}
}

// schemaWalker returns the dotted paths of v's keys. Intrinsic function
// objects are leaves.
func schemaWalker(holder string, v gjson.Result, depth int) []string {
	var paths []string
	if !v.IsObject() {
		return paths
	}

	v.ForEach(func(key, value gjson.Result) bool {
		k := key.String()
		if k == "Ref" || strings.HasPrefix(k, "Fn::") {
			return true
		}

		path := k
		if holder != "" {
			path = holder + "." + k
		}
		paths = append(paths, path)

		if depth < maxSchemaDepth && value.IsObject() && !isIntrinsic(value) {
			paths = append(paths, schemaWalker(path, value, depth+1)...)
		}
		return true
	})

	log.Tracef("schema: holder=%s paths=%d", holder, len(paths))
	return paths
}

func isIntrinsic(v gjson.Result) bool {
	isFn := false
	v.ForEach(func(key, _ gjson.Result) bool {
		k := key.String()
		isFn = k == "Ref" || strings.HasPrefix(k, "Fn::")
		return false
	})
	return isFn
}
