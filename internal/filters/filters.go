// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/tfctl/edgestack/internal/attrs"
	"github.com/tfctl/edgestack/internal/driller"
	"github.com/tfctl/edgestack/internal/hungarian"
	"github.com/tfctl/edgestack/internal/log"
)

// hungarianKey names the filter that tests logical ids against their types.
const hungarianKey = "hungarian"

// DelimEnv overrides the filter separator.
const DelimEnv = "EDGESTACK_FILTER_DELIM"

// filterRegex splits an expression into key, optionally negated operator and
// target. The key stops at the first operator character, so CloudFormation
// type names (which contain ':') are valid targets but not keys.
var filterRegex = regexp.MustCompile(`^([^!=^~<>@/]*)(!?[=^~<>@/])?(.*)$`)

// Filter is one parsed --filter expression.
type Filter struct {
	Key     string `yaml:"key" json:"Key"`
	Negate  bool   `yaml:"negate" json:"Negate"`
	Operand string `yaml:"operand" json:"Operand"`
	Value   string `yaml:"value" json:"Value"`
}

// BuildFilters parses a filter specification. Malformed entries are logged
// and skipped.
func BuildFilters(spec string) []Filter {
	//nolint:prealloc
	var filters []Filter

	if spec == "" {
		return filters
	}

	delim := ","
	if d, ok := os.LookupEnv(DelimEnv); ok && d != "" {
		delim = d
	}

	for _, filterSpec := range strings.Split(spec, delim) {
		filterSpec = strings.TrimSpace(filterSpec)
		if filterSpec == "" {
			continue
		}

		parts := filterRegex.FindStringSubmatch(filterSpec)
		if parts == nil {
			log.Errorf("invalid filter: %s", filterSpec)
			continue
		}

		key := strings.TrimSpace(parts[1])
		if key == "" {
			log.Errorf("invalid filter: empty key in %s", filterSpec)
			continue
		}

		operand := parts[2]
		negate := strings.HasPrefix(operand, "!")
		operand = strings.TrimPrefix(operand, "!")

		filters = append(filters, Filter{
			Key:     key,
			Negate:  negate,
			Operand: operand,
			Value:   parts[3],
		})
	}

	return filters
}

// FilterDataset keeps the candidate rows matching spec and projects each onto
// attrs, keyed by output key. Values are not transformed here.
func FilterDataset(candidates gjson.Result, attrs attrs.AttrList, spec string) []map[string]interface{} {
	//nolint:prealloc
	var filtered []map[string]interface{}

	filters := BuildFilters(spec)

	for _, candidate := range candidates.Array() {
		if !applyFilters(candidate, attrs, filters) {
			continue
		}

		result := make(map[string]interface{}, len(attrs))
		for _, attr := range attrs {
			if attr.Key == "*" {
				continue
			}
			result[attr.OutputKey] = driller.Driller(candidate.Raw, attr.Key).Value()
		}
		filtered = append(filtered, result)
	}

	return filtered
}

// applyFilters reports whether candidate matches every filter.
func applyFilters(candidate gjson.Result, attrs attrs.AttrList, filters []Filter) bool {
	for _, filter := range filters {
		// The hungarian filter checks whether the row's logical id repeats its
		// resource type rather than testing a value.
		if filter.Key == hungarianKey {
			if !isHungarian(candidate, filter) {
				return false
			}
			continue
		}

		key := filter.Key
		for _, attr := range attrs {
			if attr.OutputKey == filter.Key {
				key = attr.Key
				break
			}
		}

		value := driller.Driller(candidate.Raw, key).Value()

		// A bare key tests presence; a missing value matches only negations.
		if value == nil {
			if filter.Operand == "" || !filter.Negate {
				return false
			}
			continue
		}
		if filter.Operand == "" {
			continue
		}

		var result bool
		switch v := value.(type) {
		case string:
			result = checkStringOperand(v, filter)
		case bool:
			result = checkStringOperand(strconv.FormatBool(v), filter)
		default:
			if num, ok := toFloat64(value); ok {
				result = checkNumericOperand(num, filter)
			} else {
				result = checkContainsOperand(value, filter)
			}
		}

		if !result {
			return false
		}
	}

	return true
}

// isHungarian reports whether candidate passes a hungarian filter. A value of
// "" or "true" keeps Hungarian rows, "false" keeps the others, and negation
// flips either. Rows without an id and type always pass.
func isHungarian(candidate gjson.Result, filter Filter) bool {
	typ := candidate.Get("type")
	id := candidate.Get("id")
	if typ.Type != gjson.String || id.Type != gjson.String {
		return true
	}

	found := hungarian.IsHungarian(typ.String(), id.String())
	want := filter.Value == "" || filter.Value == "true"
	return (found == want) != filter.Negate
}

// checkContainsOperand evaluates '@' against array elements or map keys and
// '=' against the compact JSON rendering.
func checkContainsOperand(value interface{}, filter Filter) bool {
	switch val := value.(type) {
	case []interface{}:
		if filter.Operand != "@" {
			return false
		}
		for _, item := range val {
			if fmt.Sprintf("%v", item) == filter.Value {
				return !filter.Negate
			}
		}
		return filter.Negate
	case map[string]interface{}:
		if filter.Operand != "@" {
			return false
		}
		_, found := val[filter.Value]
		return found != filter.Negate
	default:
		log.Errorf("unsupported type for filtering: %T", value)
		return false
	}
}

// checkNumericOperand compares numerically. Only =, < and > apply.
func checkNumericOperand(value float64, filter Filter) bool {
	tgt, err := strconv.ParseFloat(strings.TrimSpace(filter.Value), 64)
	if err != nil {
		log.Errorf("invalid numeric value: %s", filter.Value)
		return false
	}

	switch filter.Operand {
	case "=":
		return (value == tgt) == !filter.Negate
	case ">":
		return (value > tgt) == !filter.Negate
	case "<":
		return (value < tgt) == !filter.Negate
	default:
		log.Errorf("unsupported numeric operand: %s", filter.Operand)
		return false
	}
}

// checkStringOperand evaluates a string comparison.
func checkStringOperand(value string, filter Filter) bool {
	switch filter.Operand {
	case "=":
		return (value == filter.Value) == !filter.Negate
	case "~":
		return strings.EqualFold(value, filter.Value) == !filter.Negate
	case "^":
		return strings.HasPrefix(value, filter.Value) == !filter.Negate
	case ">":
		return (value > filter.Value) == !filter.Negate
	case "<":
		return (value < filter.Value) == !filter.Negate
	case "@":
		return strings.Contains(value, filter.Value) == !filter.Negate
	case "/":
		matched, err := regexp.MatchString(filter.Value, value)
		if err != nil {
			log.Errorf("invalid regex: %s", filter.Value)
			return false
		}
		return matched == !filter.Negate
	default:
		log.Errorf("unsupported filtering operand: %s", filter.Operand)
		return false
	}
}

// toFloat64 normalizes numeric types.
func toFloat64(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
