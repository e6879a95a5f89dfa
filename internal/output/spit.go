// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image/color"
	"io"
	"os"
	"reflect"
	"strconv"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v2"

	"github.com/tfctl/edgestack/internal/attrs"
	"github.com/tfctl/edgestack/internal/config"
	"github.com/tfctl/edgestack/internal/filters"
	"github.com/tfctl/edgestack/internal/log"
)

// InterfaceToString converts supported primitive or composite values to a
// string. A custom empty value may be provided.
func InterfaceToString(value interface{}, emptyValue ...string) string {
	if len(emptyValue) == 0 {
		emptyValue = []string{""}
	}

	if value == nil || reflect.ValueOf(value).IsZero() {
		return emptyValue[0]
	}

	switch value := value.(type) {
	case string:
		return value
	case int:
		return strconv.Itoa(value)
	case float64:
		// Template numbers are sizes, counts and seconds.
		return fmt.Sprintf("%.0f", value)
	case bool:
		return strconv.FormatBool(value)
	default:
		jsonBytes, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprintf("%v", value)
		}
		return string(jsonBytes)
	}
}

// SliceDiceSpit filters, transforms, sorts and renders the JSON array in raw
// according to the command's --output, --filter, --sort, --titles, --color
// and --padding flags. parent, when set, selects the array within raw. The
// optional postProcess callback runs on the final rows before text output.
func SliceDiceSpit(raw bytes.Buffer,
	attrs attrs.AttrList,
	cmd *cli.Command,
	parent string,
	w io.Writer,
	postProcess func([]map[string]interface{}) error) error {

	if w == nil {
		w = os.Stdout
	}

	output := cmd.String("output")
	if output == "raw" {
		_, err := w.Write(raw.Bytes())
		return err
	}

	dataset := gjson.ParseBytes(raw.Bytes())
	if parent != "" {
		dataset = dataset.Get(parent)
	}

	rows := filters.FilterDataset(dataset, attrs, cmd.String("filter"))

	for _, row := range rows {
		for _, attr := range attrs {
			if attr.TransformSpec != "" {
				row[attr.OutputKey] = attr.Transform(row[attr.OutputKey])
			}
		}
	}

	SortDataset(rows, cmd.String("sort"))

	switch output {
	case "json":
		b, err := json.Marshal(visible(rows, attrs))
		if err != nil {
			return fmt.Errorf("marshalling json: %w", err)
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case "yaml":
		b, err := yaml.Marshal(visible(rows, attrs))
		if err != nil {
			return fmt.Errorf("marshalling yaml: %w", err)
		}
		_, err = w.Write(b)
		return err
	default:
		if postProcess != nil {
			if err := postProcess(rows); err != nil {
				log.Errorf("post process: %v", err)
			}
		}
		TableWriter(rows, attrs, cmd, w)
	}

	return nil
}

// visible drops the columns that are only used to filter or sort.
func visible(rows []map[string]interface{}, attrs attrs.AttrList) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(rows))
	for _, row := range rows {
		v := make(map[string]interface{}, len(row))
		for _, attr := range attrs {
			if attr.Include {
				v[attr.OutputKey] = row[attr.OutputKey]
			}
		}
		out = append(out, v)
	}
	return out
}

// TableWriter renders rows as a borderless table honoring the --color,
// --titles and --padding flags. Metadata "header" and "footer" strings on
// cmd are printed around the table.
func TableWriter(
	resultSet []map[string]interface{},
	attrs attrs.AttrList,
	cmd *cli.Command,
	w io.Writer) {

	if w == nil {
		w = os.Stdout
	}

	if len(resultSet) == 0 {
		return
	}

	var (
		headerStyle  = lipgloss.NewStyle().Align(lipgloss.Left).Bold(true)
		cellStyle    = lipgloss.NewStyle().Padding(0, 0).Align(lipgloss.Left)
		evenRowStyle = cellStyle
		oddRowStyle  = cellStyle
	)

	if cmd.Bool("color") {
		headerColor, evenColor, oddColor := getColors("colors")

		headerStyle = headerStyle.Foreground(headerColor)
		evenRowStyle = evenRowStyle.Foreground(evenColor)
		oddRowStyle = oddRowStyle.Foreground(oddColor)
	}

	var rows [][]string
	for _, result := range resultSet {
		row := make([]string, 0, len(attrs))
		for _, attr := range attrs {
			if !attr.Include {
				continue
			}
			row = append(row, InterfaceToString(result[attr.OutputKey], "-"))
		}
		rows = append(rows, row)
	}

	if header, ok := cmd.Metadata["header"].(string); ok {
		fmt.Fprintln(w, headerStyle.Render(header))
	}

	pad := cmd.Int("padding")
	t := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			var style lipgloss.Style
			switch {
			case row == table.HeaderRow:
				style = headerStyle
			case row%2 == 0:
				style = evenRowStyle
			default:
				style = oddRowStyle
			}

			if col > 0 {
				style = style.PaddingLeft(pad)
			}

			return style
		}).
		Headers().
		Rows(rows...)

	if cmd.Bool("titles") {
		var headers []string
		for _, attr := range attrs {
			if attr.Include {
				headers = append(headers, attr.OutputKey)
			}
		}

		// https://github.com/charmbracelet/lipgloss/issues/261
		t = t.Headers(headers...).BorderHeader(false)
	}
	fmt.Fprintln(w, t)

	if footer, ok := cmd.Metadata["footer"].(string); ok {
		fmt.Fprintln(w, headerStyle.Render(footer))
	}
}

// getColors returns the title, even row and odd row colors. Configured
// colors win; otherwise defaults suit the terminal background.
func getColors(key string) (header, even, odd color.Color) {
	isDark := lipgloss.HasDarkBackground(os.Stdin, os.Stdout)

	resolveColor := func(key string, light string, dark string) color.Color {
		if colorCfg, err := config.GetString(key); err == nil {
			return lipgloss.Color(colorCfg)
		}
		if isDark {
			return lipgloss.Color(dark)
		}
		return lipgloss.Color(light)
	}

	header = resolveColor(key+".title", "#b08800", "#f6be00")
	even = resolveColor(key+".even", "#333333", "#ffffff")
	odd = resolveColor(key+".odd", "#0088a0", "#00c8f0")

	return
}
