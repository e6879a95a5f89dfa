// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// docsgen renders the per-command markdown, man and tldr pages from
// docs/templates/edgestack.yaml.
//
//	go run ./tools/docsgen docs
package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Subcommands []Subcommand `yaml:"subcommands"`
	Common      Common       `yaml:"common"`
}

type Common struct {
	Flags []Flag `yaml:"flags"`
	// Stack flags are shared by the commands that synthesize the stack.
	Stack []Flag `yaml:"stack"`
}

type Subcommand struct {
	ID          string    `yaml:"id"`
	Short       string    `yaml:"short"`
	Description string    `yaml:"description"`
	Usage       string    `yaml:"usage"`
	StackFlags  bool      `yaml:"stackFlags"`
	QueryFlags  bool      `yaml:"queryFlags"`
	Flags       []Flag    `yaml:"flags"`
	Examples    []Example `yaml:"examples"`
	Notes       []string  `yaml:"notes,omitempty"`
}

type Flag struct {
	ID          string `yaml:"id"`
	Syntax      string `yaml:"syntax"`
	Description string `yaml:"description"`
	Default     string `yaml:"default,omitempty"`
	More        string `yaml:"more,omitempty"`
}

type Example struct {
	Command     string `yaml:"command"`
	Description string `yaml:"description"`
}

type TemplateData struct {
	Subcommand
	Date    string
	Version string
	IDUpper string
}

type Outputs struct {
	Template string
	Folder   string
	Prefix   string
	Suffix   string
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: docsgen <docs dir>")
		os.Exit(1)
	}
	docs := os.Args[1]

	config, err := loadConfig(filepath.Join(docs, "templates", "edgestack.yaml"))
	if err != nil {
		panic(err)
	}

	types := []Outputs{
		{Template: docs + "/templates/edgestack.md.tmpl", Folder: docs + "/commands/", Suffix: ".md"},
		{Template: docs + "/templates/edgestack.man.tmpl", Folder: docs + "/man/share/man1/", Prefix: "edgestack-", Suffix: ".1"},
		{Template: docs + "/templates/edgestack.tldr.tmpl", Folder: docs + "/tldr/", Prefix: "edgestack-", Suffix: ".md"},
	}

	version := getVersion()
	date := time.Now().Format("January 2, 2006")

	for _, sub := range config.Subcommands {
		sub.Flags = mergeFlags(config.Common, sub)

		metadata := TemplateData{
			Subcommand: sub,
			Date:       date,
			Version:    version,
			IDUpper:    strings.ToUpper(sub.ID),
		}

		for _, t := range types {
			if err := os.MkdirAll(t.Folder, 0o755); err != nil {
				panic(err)
			}

			target := t.Folder + t.Prefix + sub.ID + t.Suffix
			fmt.Println("Generating", target)
			if err := renderFile(t.Template, target, metadata); err != nil {
				panic(err)
			}
		}
	}
}

// loadConfig reads the command reference.
func loadConfig(path string) (Config, error) {
	var config Config
	data, err := os.ReadFile(path)
	if err != nil {
		return config, err
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return config, nil
}

// mergeFlags returns the command's flags plus the shared ones it asks for,
// sorted by id.
func mergeFlags(common Common, sub Subcommand) []Flag {
	var merged []Flag
	if sub.QueryFlags {
		merged = append(merged, common.Flags...)
	}
	if sub.StackFlags {
		merged = append(merged, common.Stack...)
	}
	merged = append(merged, sub.Flags...)

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].ID < merged[j].ID
	})
	return merged
}

func renderFile(tmplPath, target string, data TemplateData) error {
	file, err := os.Create(target)
	if err != nil {
		return err
	}
	defer file.Close()

	tmpl, err := template.ParseFiles(tmplPath)
	if err != nil {
		return err
	}
	return render(tmpl, file, data)
}

func render(tmpl *template.Template, w io.Writer, data TemplateData) error {
	return tmpl.Execute(w, data)
}

// getVersion returns the version string from git tags, stripping the leading
// "v" prefix. Falls back to "dev" if git describe fails.
func getVersion() string {
	out, err := exec.Command("git", "describe", "--tags", "--abbrev=0").Output()
	if err != nil {
		return "dev"
	}

	version := strings.TrimSpace(string(out))
	return strings.TrimPrefix(version, "v")
}
