// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package output

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v2"

	"github.com/tfctl/edgestack/internal/attrs"
)

const rows = `[
  {"id": "ServerFunction", "type": "AWS::Lambda::Function", "summary": "nodejs18.x",
   "properties": {"MemorySize": 512, "Timeout": 10}},
  {"id": "ImageFunction", "type": "AWS::Lambda::Function", "summary": "nodejs18.x",
   "properties": {"MemorySize": 512, "Timeout": 15}},
  {"id": "AssetsBucket", "type": "AWS::S3::Bucket", "summary": "",
   "properties": {}}
]`

// run executes fn inside a command parsed with args so flag values resolve
// as they do at runtime.
func run(t *testing.T, args []string, fn func(cmd *cli.Command)) {
	t.Helper()
	cmd := &cli.Command{
		Name: "test",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Value: "text"},
			&cli.StringFlag{Name: "filter"},
			&cli.StringFlag{Name: "sort"},
			&cli.BoolFlag{Name: "titles"},
			&cli.BoolFlag{Name: "color"},
			&cli.IntFlag{Name: "padding", Value: 2},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			fn(cmd)
			return nil
		},
	}
	require.NoError(t, cmd.Run(context.Background(), append([]string{"test"}, args...)))
}

func testAttrs(t *testing.T) attrs.AttrList {
	t.Helper()
	list := attrs.Defaults("id", "type")
	require.NoError(t, list.Set("Timeout,!MemorySize"))
	return list
}

func TestSortDataset(t *testing.T) {
	testData := []map[string]interface{}{
		{"name": "zebra", "count": 3.0, "type": "AWS::S3::Bucket"},
		{"name": "Alpha", "count": 1.0, "type": "AWS::Lambda::Function"},
		{"name": "beta", "count": 2.0, "type": "AWS::Lambda::Function"},
	}

	tests := []struct {
		name      string
		spec      string
		wantOrder []string
	}{
		{name: "ascending by name", spec: "name", wantOrder: []string{"Alpha", "beta", "zebra"}},
		{name: "descending by name", spec: "-name", wantOrder: []string{"zebra", "beta", "Alpha"}},
		{name: "ascending by count", spec: "count", wantOrder: []string{"Alpha", "beta", "zebra"}},
		{name: "descending by count", spec: "-count", wantOrder: []string{"zebra", "beta", "Alpha"}},
		{name: "case sensitive", spec: "!name", wantOrder: []string{"Alpha", "beta", "zebra"}},
		{name: "case sensitive descending", spec: "-!name", wantOrder: []string{"zebra", "beta", "Alpha"}},
		{name: "multiple fields", spec: "type, -count", wantOrder: []string{"beta", "Alpha", "zebra"}},
		{name: "empty spec", spec: "", wantOrder: []string{"zebra", "Alpha", "beta"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := make([]map[string]interface{}, len(testData))
			copy(data, testData)
			SortDataset(data, tt.spec)
			for i, expectedName := range tt.wantOrder {
				assert.Equal(t, expectedName, data[i]["name"], "at index %d", i)
			}
		})
	}
}

func TestInterfaceToString(t *testing.T) {
	tests := []struct {
		name     string
		value    interface{}
		emptyVal string
		want     string
	}{
		{name: "string", value: "hello", want: "hello"},
		{name: "int", value: 42, want: "42"},
		{name: "float64", value: 42.5, want: "42"},
		{name: "float64 rounds", value: 42.7, want: "43"},
		{name: "bool true", value: true, want: "true"},
		{name: "bool false is zero value", value: false, want: ""},
		{name: "nil default", value: nil, want: ""},
		{name: "nil custom", value: nil, emptyVal: "-", want: "-"},
		{name: "slice", value: []string{"a", "b"}, want: `["a","b"]`},
		{name: "map", value: map[string]int{"x": 1}, want: `{"x":1}`},
		{name: "zero int with custom empty", value: 0, emptyVal: "N/A", want: "N/A"},
		{name: "negative", value: -42.0, want: "-42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			if tt.emptyVal != "" {
				got = InterfaceToString(tt.value, tt.emptyVal)
			} else {
				got = InterfaceToString(tt.value)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSliceDiceSpitRaw(t *testing.T) {
	run(t, []string{"--output", "raw"}, func(cmd *cli.Command) {
		var buf bytes.Buffer
		require.NoError(t, SliceDiceSpit(*bytes.NewBufferString(rows), testAttrs(t), cmd, "", &buf, nil))
		assert.Equal(t, rows, buf.String())
	})
}

func TestSliceDiceSpitJSON(t *testing.T) {
	run(t, []string{"--output", "json", "--filter", "type^AWS::Lambda", "--sort", "-Timeout"}, func(cmd *cli.Command) {
		var buf bytes.Buffer
		require.NoError(t, SliceDiceSpit(*bytes.NewBufferString(rows), testAttrs(t), cmd, "", &buf, nil))

		var got []map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		require.Len(t, got, 2)
		assert.Equal(t, "ImageFunction", got[0]["id"])
		assert.Equal(t, 15.0, got[0]["Timeout"])
		assert.NotContains(t, got[0], "MemorySize")
	})
}

func TestSliceDiceSpitYAML(t *testing.T) {
	run(t, []string{"--output", "yaml", "--filter", "type=AWS::S3::Bucket"}, func(cmd *cli.Command) {
		var buf bytes.Buffer
		require.NoError(t, SliceDiceSpit(*bytes.NewBufferString(rows), testAttrs(t), cmd, "", &buf, nil))

		var got []map[string]interface{}
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
		require.Len(t, got, 1)
		assert.Equal(t, "AssetsBucket", got[0]["id"])
	})
}

func TestSliceDiceSpitParent(t *testing.T) {
	wrapped := `{"rows": ` + rows + `}`
	run(t, []string{"--output", "json"}, func(cmd *cli.Command) {
		var buf bytes.Buffer
		require.NoError(t, SliceDiceSpit(*bytes.NewBufferString(wrapped), attrs.Defaults("id"), cmd, "rows", &buf, nil))
		assert.Equal(t, `[{"id":"ServerFunction"},{"id":"ImageFunction"},{"id":"AssetsBucket"}]`, strings.TrimSpace(buf.String()))
	})
}

func TestSliceDiceSpitText(t *testing.T) {
	run(t, []string{"--titles", "--sort", "id"}, func(cmd *cli.Command) {
		cmd.Metadata = map[string]interface{}{"header": "Stack Website", "footer": "3 resources"}

		var processed int
		var buf bytes.Buffer
		require.NoError(t, SliceDiceSpit(*bytes.NewBufferString(rows), testAttrs(t), cmd, "", &buf, func(r []map[string]interface{}) error {
			processed = len(r)
			return nil
		}))
		assert.Equal(t, 3, processed)

		out := buf.String()
		lines := strings.Split(strings.TrimSpace(out), "\n")
		assert.Contains(t, lines[0], "Stack Website")
		assert.Contains(t, out, "Timeout")
		assert.NotContains(t, out, "MemorySize")
		assert.Contains(t, out, "3 resources")

		assetsAt := strings.Index(out, "AssetsBucket")
		imageAt := strings.Index(out, "ImageFunction")
		serverAt := strings.Index(out, "ServerFunction")
		assert.True(t, assetsAt < imageAt && imageAt < serverAt, "rows sorted by id")
	})
}

func TestTableWriterEmpty(t *testing.T) {
	run(t, nil, func(cmd *cli.Command) {
		var buf bytes.Buffer
		TableWriter(nil, attrs.Defaults("id"), cmd, &buf)
		assert.Empty(t, buf.String())
	})
}

func TestTableWriterMissingValue(t *testing.T) {
	run(t, nil, func(cmd *cli.Command) {
		var buf bytes.Buffer
		TableWriter([]map[string]interface{}{{"id": "X"}}, attrs.Defaults("id", "summary"), cmd, &buf)
		assert.Contains(t, buf.String(), "-")
	})
}

func TestGetColors(t *testing.T) {
	header, even, odd := getColors("colors")
	assert.NotNil(t, header)
	assert.NotNil(t, even)
	assert.NotNil(t, odd)
}

func TestDumpSchema(t *testing.T) {
	raw := `[
	  {"type": "AWS::Lambda::Function", "properties": {"Timeout": 10, "Environment": {"Variables": {"BUCKET_NAME": {"Ref": "B"}}}}},
	  {"type": "AWS::Lambda::Function", "properties": {"MemorySize": 512}},
	  {"type": "AWS::S3::Bucket", "properties": {}}
	]`

	var buf bytes.Buffer
	DumpSchema(*bytes.NewBufferString(raw), &buf)
	out := buf.String()

	assert.Contains(t, out, "AWS::Lambda::Function\n  Environment\n  Environment.Variables\n  Environment.Variables.BUCKET_NAME\n  MemorySize\n  Timeout\n")
	assert.Contains(t, out, "AWS::S3::Bucket\n")
	assert.NotContains(t, out, "Ref")
}

func BenchmarkSortDataset(b *testing.B) {
	testData := []map[string]interface{}{
		{"name": "zebra", "count": 3.0},
		{"name": "alpha", "count": 1.0},
		{"name": "beta", "count": 2.0},
	}

	for i := 0; i < b.N; i++ {
		data := make([]map[string]interface{}, len(testData))
		copy(data, testData)
		SortDataset(data, "name")
	}
}
