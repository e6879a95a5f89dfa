// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"

	"github.com/tfctl/edgestack/internal/log"
)

// IdenticalMessage is printed when the compared templates do not differ.
const IdenticalMessage = "The templates are identical."

// ErrVersionSpec is returned for a malformed --versions value.
var ErrVersionSpec = errors.New("invalid version spec")

// Version is one comparable template.
type Version struct {
	// Label identifies the version in the picker, e.g. "current" or a cache
	// file name.
	Label string
	Time  time.Time
	Data  []byte
}

// String renders the version for the picker.
func (v Version) String() string {
	return fmt.Sprintf("%-24s %-16s %10s", v.Label, humanize.Time(v.Time), humanize.Bytes(uint64(len(v.Data))))
}

// Options tune Diff.
type Options struct {
	// Ignore lists top-level template sections left out of the comparison.
	Ignore []string
	// Color enables ANSI colors in the output.
	Color bool
}

// Diff writes the difference between left and right to w and reports whether
// they differ.
func Diff(w io.Writer, left, right []byte, opts Options) (bool, error) {
	log.Debugf("diff: len=%d,%d ignore=%v", len(left), len(right), opts.Ignore)

	if len(left) == 0 || len(right) == 0 {
		return false, errors.New("nothing to compare")
	}

	var ldoc, rdoc map[string]interface{}
	if err := json.Unmarshal(left, &ldoc); err != nil {
		return false, fmt.Errorf("failed to unmarshal template: %w", err)
	}
	if err := json.Unmarshal(right, &rdoc); err != nil {
		return false, fmt.Errorf("failed to unmarshal template: %w", err)
	}

	for _, key := range opts.Ignore {
		delete(ldoc, key)
		delete(rdoc, key)
	}

	delta := gojsondiff.New().CompareObjects(ldoc, rdoc)
	if !delta.Modified() {
		fmt.Fprintln(w, IdenticalMessage)
		return false, nil
	}

	f := formatter.NewAsciiFormatter(ldoc, formatter.AsciiFormatterConfig{
		ShowArrayIndex: false,
		Coloring:       opts.Color,
	})
	diffString, err := f.Format(delta)
	if err != nil {
		return true, err
	}

	fmt.Fprint(w, diffString)
	return true, nil
}

// Selection is a parsed --versions value.
type Selection struct {
	// Pick opens the interactive picker.
	Pick bool
	// Indexes into the cached history, newest first. One index compares that
	// version with the current synthesis; two compare the cached versions.
	Indexes []int
}

// ParseVersions parses "", "+", "N" or "N,M".
func ParseVersions(spec string) (Selection, error) {
	spec = strings.TrimSpace(spec)
	switch spec {
	case "":
		return Selection{Indexes: []int{0}}, nil
	case "+":
		return Selection{Pick: true}, nil
	}

	parts := strings.Split(spec, ",")
	if len(parts) > 2 {
		return Selection{}, fmt.Errorf("%w: %s", ErrVersionSpec, spec)
	}

	var sel Selection
	for _, p := range parts {
		i, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || i < 0 {
			return Selection{}, fmt.Errorf("%w: %s", ErrVersionSpec, spec)
		}
		sel.Indexes = append(sel.Indexes, i)
	}
	return sel, nil
}

// Resolve returns the two versions a non-interactive selection compares,
// older first.
func (s Selection) Resolve(current Version, history []Version) ([2]Version, error) {
	at := func(i int) (Version, error) {
		if i >= len(history) {
			return Version{}, fmt.Errorf("%w: version %d not in history of %d", ErrVersionSpec, i, len(history))
		}
		return history[i], nil
	}

	switch len(s.Indexes) {
	case 1:
		v, err := at(s.Indexes[0])
		if err != nil {
			return [2]Version{}, err
		}
		return [2]Version{v, current}, nil
	case 2:
		a, err := at(s.Indexes[0])
		if err != nil {
			return [2]Version{}, err
		}
		b, err := at(s.Indexes[1])
		if err != nil {
			return [2]Version{}, err
		}
		if a.Time.After(b.Time) {
			a, b = b, a
		}
		return [2]Version{a, b}, nil
	default:
		return [2]Version{}, fmt.Errorf("%w: nothing selected", ErrVersionSpec)
	}
}
