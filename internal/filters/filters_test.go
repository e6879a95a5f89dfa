// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/tfctl/edgestack/internal/attrs"
)

const rows = `[
  {"id": "ServerFunction", "type": "AWS::Lambda::Function", "path": "Website/ServerFunction/Function/Resource",
   "properties": {"MemorySize": 512, "Timeout": 10, "Architectures": ["arm64"]}},
  {"id": "ImageFunction", "type": "AWS::Lambda::Function", "path": "Website/ImageOptimizationFunction/Function/Resource",
   "properties": {"MemorySize": 512, "Timeout": 15, "Architectures": ["arm64"], "Environment": {"Variables": {"BUCKET_NAME": "b"}}}},
  {"id": "AssetsBucket", "type": "AWS::S3::Bucket", "path": "Website/AssetsBucket/Bucket/Resource", "properties": {}},
  {"id": "Record0", "type": "AWS::Route53::RecordSet", "path": "Website/HostedZone/www.example.com_ARecord_0/Resource",
   "properties": {"Name": "www.example.com.", "Type": "A"}}
]`

func testAttrs(t *testing.T) attrs.AttrList {
	t.Helper()
	list := attrs.Defaults("id", "type")
	require.NoError(t, list.Set("Timeout,!Environment.Variables:env"))
	return list
}

func TestBuildFilters(t *testing.T) {
	tests := []struct {
		name  string
		spec  string
		delim string
		want  []Filter
	}{
		{name: "empty", spec: "", want: nil},
		{
			name: "equal",
			spec: "type=AWS::S3::Bucket",
			want: []Filter{{Key: "type", Operand: "=", Value: "AWS::S3::Bucket"}},
		},
		{
			name: "negated prefix and numeric",
			spec: "id!^Server, Timeout>10",
			want: []Filter{
				{Key: "id", Negate: true, Operand: "^", Value: "Server"},
				{Key: "Timeout", Operand: ">", Value: "10"},
			},
		},
		{
			name: "presence",
			spec: "env",
			want: []Filter{{Key: "env"}},
		},
		{
			name:  "custom delimiter",
			spec:  "path/a,b|id=X",
			delim: "|",
			want: []Filter{
				{Key: "path", Operand: "/", Value: "a,b"},
				{Key: "id", Operand: "=", Value: "X"},
			},
		},
		{
			name: "empty key skipped",
			spec: "=x,id=y",
			want: []Filter{{Key: "id", Operand: "=", Value: "y"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(DelimEnv, tt.delim)
			assert.Equal(t, tt.want, BuildFilters(tt.spec))
		})
	}
}

func TestCheckStringOperand(t *testing.T) {
	tests := []struct {
		value  string
		filter Filter
		want   bool
	}{
		{"abc", Filter{Operand: "=", Value: "abc"}, true},
		{"abc", Filter{Operand: "=", Value: "abc", Negate: true}, false},
		{"ABC", Filter{Operand: "~", Value: "abc"}, true},
		{"abc", Filter{Operand: "^", Value: "ab"}, true},
		{"abc", Filter{Operand: "@", Value: "bc"}, true},
		{"abc", Filter{Operand: "@", Value: "x", Negate: true}, true},
		{"abc", Filter{Operand: "<", Value: "b"}, true},
		{"abc", Filter{Operand: ">", Value: "b"}, false},
		{"abc", Filter{Operand: "/", Value: "^a.c$"}, true},
		{"abc", Filter{Operand: "/", Value: "("}, false},
		{"abc", Filter{Operand: "?", Value: "a"}, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, checkStringOperand(tt.value, tt.filter), "%s %+v", tt.value, tt.filter)
	}
}

func TestCheckNumericOperand(t *testing.T) {
	assert.True(t, checkNumericOperand(10, Filter{Operand: "=", Value: "10"}))
	assert.True(t, checkNumericOperand(10, Filter{Operand: "=", Value: "11", Negate: true}))
	assert.True(t, checkNumericOperand(15, Filter{Operand: ">", Value: "10"}))
	assert.False(t, checkNumericOperand(5, Filter{Operand: ">", Value: "10"}))
	assert.True(t, checkNumericOperand(5, Filter{Operand: "<", Value: "10"}))
	assert.False(t, checkNumericOperand(5, Filter{Operand: "<", Value: "x"}))
	assert.False(t, checkNumericOperand(5, Filter{Operand: "^", Value: "5"}))
}

func TestCheckContainsOperand(t *testing.T) {
	arr := []interface{}{"arm64", "x86_64"}
	m := map[string]interface{}{"BUCKET_NAME": "b"}

	assert.True(t, checkContainsOperand(arr, Filter{Operand: "@", Value: "arm64"}))
	assert.False(t, checkContainsOperand(arr, Filter{Operand: "@", Value: "arm64", Negate: true}))
	assert.True(t, checkContainsOperand(m, Filter{Operand: "@", Value: "BUCKET_NAME"}))
	assert.True(t, checkContainsOperand(m, Filter{Operand: "@", Value: "X", Negate: true}))
	assert.False(t, checkContainsOperand(arr, Filter{Operand: "=", Value: "arm64"}))
	assert.False(t, checkContainsOperand(struct{}{}, Filter{Operand: "@", Value: "x"}))
}

func TestToFloat64(t *testing.T) {
	for _, v := range []interface{}{1.5, float32(1.5), 2, int64(2), int32(2), uint(2), uint64(2)} {
		_, ok := toFloat64(v)
		assert.True(t, ok, "%T", v)
	}
	_, ok := toFloat64("2")
	assert.False(t, ok)
}

func TestFilterDataset(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		wantIDs []string
	}{
		{name: "no filter", spec: "", wantIDs: []string{"ServerFunction", "ImageFunction", "AssetsBucket", "Record0"}},
		{name: "by type", spec: "type=AWS::Lambda::Function", wantIDs: []string{"ServerFunction", "ImageFunction"}},
		{name: "by prefix negated", spec: "type!^AWS::Lambda", wantIDs: []string{"AssetsBucket", "Record0"}},
		{name: "numeric attr", spec: "Timeout>10", wantIDs: []string{"ImageFunction"}},
		{name: "combined", spec: "type~aws::lambda::function,Timeout<15", wantIDs: []string{"ServerFunction"}},
		{name: "hidden attr presence", spec: "env", wantIDs: []string{"ImageFunction"}},
		{name: "negation keeps missing", spec: "Timeout!=10", wantIDs: []string{"ImageFunction", "AssetsBucket", "Record0"}},
		{name: "root path fallback", spec: "path@HostedZone", wantIDs: []string{"Record0"}},
		{name: "array contains", spec: "properties.Architectures@arm64", wantIDs: []string{"ServerFunction", "ImageFunction"}},
		{name: "regex", spec: "id/^(Assets|Record)", wantIDs: []string{"AssetsBucket", "Record0"}},
		{name: "hungarian", spec: "hungarian", wantIDs: []string{"ServerFunction", "ImageFunction", "AssetsBucket", "Record0"}},
		{name: "hungarian false", spec: "hungarian=false", wantIDs: nil},
		{name: "hungarian negated", spec: "hungarian!=true,type=AWS::S3::Bucket", wantIDs: nil},
		{name: "hungarian combined", spec: "hungarian,type=AWS::S3::Bucket", wantIDs: []string{"AssetsBucket"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterDataset(gjson.Parse(rows), testAttrs(t), tt.spec)
			var ids []string
			for _, r := range got {
				ids = append(ids, r["id"].(string))
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestIsHungarianFilter(t *testing.T) {
	clean := gjson.Parse(`{"id": "Assets", "type": "AWS::S3::Bucket"}`)
	redundant := gjson.Parse(`{"id": "AssetsBucket", "type": "AWS::S3::Bucket"}`)
	untyped := gjson.Parse(`{"name": "BucketName"}`)

	assert.False(t, isHungarian(clean, Filter{Key: hungarianKey}))
	assert.True(t, isHungarian(redundant, Filter{Key: hungarianKey}))
	assert.True(t, isHungarian(clean, Filter{Key: hungarianKey, Operand: "=", Value: "false"}))
	assert.True(t, isHungarian(clean, Filter{Key: hungarianKey, Negate: true, Operand: "=", Value: "true"}))
	assert.True(t, isHungarian(untyped, Filter{Key: hungarianKey}))
}

func TestFilterDatasetProjection(t *testing.T) {
	got := FilterDataset(gjson.Parse(rows), testAttrs(t), "id=ImageFunction")
	require.Len(t, got, 1)
	assert.Equal(t, "AWS::Lambda::Function", got[0]["type"])
	assert.Equal(t, 15.0, got[0]["Timeout"])
	assert.Equal(t, map[string]interface{}{"BUCKET_NAME": "b"}, got[0]["env"])
}
