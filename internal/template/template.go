// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package template reads synthesized CloudFormation templates and flattens
// their resources and outputs into rows for the output package.
package template

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/tfctl/edgestack/internal/log"
)

// ErrInvalidTemplate is returned when the input is not a JSON template.
var ErrInvalidTemplate = errors.New("invalid template")

// cdkPathKey is the metadata key CDK records each resource's construct path
// under.
const cdkPathKey = "aws:cdk:path"

// summaryPaths are the properties that best identify a resource of a given
// type. Values are joined with a space.
var summaryPaths = map[string][]string{
	"AWS::S3::Bucket":                                 {"BucketName"},
	"AWS::S3::BucketPolicy":                           {"Bucket.Ref"},
	"AWS::Lambda::Function":                           {"Runtime", "MemorySize", "Timeout", "Description"},
	"AWS::Lambda::Url":                                {"AuthType"},
	"AWS::Lambda::Permission":                         {"Action"},
	"AWS::CloudFront::Distribution":                   {"DistributionConfig.Aliases"},
	"AWS::CloudFront::CachePolicy":                    {"CachePolicyConfig.Comment"},
	"AWS::CloudFront::CloudFrontOriginAccessIdentity": {"CloudFrontOriginAccessIdentityConfig.Comment"},
	"AWS::CertificateManager::Certificate":            {"DomainName", "ValidationMethod"},
	"AWS::Route53::RecordSet":                         {"Type", "Name"},
	"AWS::IAM::Role":                                  {"AssumeRolePolicyDocument.Statement.0.Principal.Service"},
	"Custom::CDKBucketDeployment":                     {"SystemMetadata.cache-control", "DistributionPaths"},
	"Custom::LogRetention":                            {"LogGroupName", "RetentionInDays"},
}

// Parse checks that raw is a template document and returns it.
func Parse(raw []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(raw) {
		return gjson.Result{}, fmt.Errorf("%w: not JSON", ErrInvalidTemplate)
	}
	doc := gjson.ParseBytes(raw)
	if !doc.Get("Resources").IsObject() {
		return gjson.Result{}, fmt.Errorf("%w: no Resources section", ErrInvalidTemplate)
	}
	return doc, nil
}

// Resources flattens the template's resources into rows with the keys id,
// type, path, summary, dependsOn and properties. Rows are ordered by logical
// id and returned as a JSON array.
func Resources(raw []byte) (bytes.Buffer, error) {
	doc, err := Parse(raw)
	if err != nil {
		return bytes.Buffer{}, err
	}

	var rows []map[string]interface{}
	doc.Get("Resources").ForEach(func(key, value gjson.Result) bool {
		typ := value.Get("Type").String()
		row := map[string]interface{}{
			"id":         key.String(),
			"type":       typ,
			"path":       value.Get("Metadata").Get(gjson.Escape(cdkPathKey)).String(),
			"summary":    Summary(typ, value.Get("Properties")),
			"properties": value.Get("Properties").Value(),
		}
		if deps := value.Get("DependsOn"); deps.Exists() {
			row["dependsOn"] = deps.Value()
		}
		rows = append(rows, row)
		return true
	})

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i]["id"].(string) < rows[j]["id"].(string)
	})
	log.Debugf("template resources: count=%d", len(rows))

	return marshalRows(rows)
}

// Outputs flattens the template's Outputs section into rows with the keys
// name, description, value and export.
func Outputs(raw []byte) (bytes.Buffer, error) {
	doc, err := Parse(raw)
	if err != nil {
		return bytes.Buffer{}, err
	}

	var rows []map[string]interface{}
	doc.Get("Outputs").ForEach(func(key, value gjson.Result) bool {
		row := map[string]interface{}{
			"name":        key.String(),
			"description": value.Get("Description").String(),
			"value":       Intrinsic(value.Get("Value")),
		}
		if export := value.Get("Export.Name"); export.Exists() {
			row["export"] = Intrinsic(export)
		}
		rows = append(rows, row)
		return true
	})

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i]["name"].(string) < rows[j]["name"].(string)
	})

	return marshalRows(rows)
}

// CountByType returns the number of resources per type.
func CountByType(raw []byte) (map[string]int, error) {
	doc, err := Parse(raw)
	if err != nil {
		return nil, err
	}

	counts := map[string]int{}
	doc.Get("Resources").ForEach(func(_, value gjson.Result) bool {
		counts[value.Get("Type").String()]++
		return true
	})
	return counts, nil
}

// Summary renders the identifying properties of a resource type. Unknown
// types yield an empty string.
func Summary(typ string, props gjson.Result) string {
	paths, ok := summaryPaths[typ]
	if !ok {
		return ""
	}

	var parts []string
	for _, p := range paths {
		v := props.Get(p)
		if !v.Exists() {
			continue
		}
		parts = append(parts, Intrinsic(v))
	}
	return strings.Join(parts, " ")
}

// Intrinsic renders a template value as text. Literal values print as is;
// Ref and Fn::GetAtt print in their short YAML form. Anything else prints as
// compact JSON.
func Intrinsic(v gjson.Result) string {
	switch {
	case !v.Exists():
		return ""
	case v.IsArray():
		var items []string
		for _, item := range v.Array() {
			items = append(items, Intrinsic(item))
		}
		return strings.Join(items, ",")
	case v.IsObject():
		if ref := v.Get("Ref"); ref.Exists() {
			return "!Ref " + ref.String()
		}
		if att := v.Get(gjson.Escape("Fn::GetAtt")); att.IsArray() {
			var parts []string
			for _, p := range att.Array() {
				parts = append(parts, p.String())
			}
			return "!GetAtt " + strings.Join(parts, ".")
		}
		return v.Raw
	default:
		return v.String()
	}
}

func marshalRows(rows []map[string]interface{}) (bytes.Buffer, error) {
	if rows == nil {
		rows = []map[string]interface{}{}
	}
	b, err := json.Marshal(rows)
	if err != nil {
		return bytes.Buffer{}, fmt.Errorf("marshalling rows: %w", err)
	}
	return *bytes.NewBuffer(b), nil
}
