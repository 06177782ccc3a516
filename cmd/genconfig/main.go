// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// genconfig writes example configuration files derived from config.Config.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"

	"codeberg.org/tplxgettext/tplxgettext/config"
	"codeberg.org/tplxgettext/tplxgettext/core/audit"
	"codeberg.org/tplxgettext/tplxgettext/keyword"
)

const (
	envOutputFile  = "deploy/.env.example"
	yamlOutputFile = "deploy/tplxgettext.yaml.example"
	filePerm       = 0o644
	dirPerm        = 0o755

	envFileHeader = `# tplxgettext configuration (via environment variables)
#
# Copy this file to .env and customize the values below.
#
# This file was auto-generated using go run ./cmd/genconfig.

`
	yamlFileHeader = `# tplxgettext configuration (via configuration file)
#
# Copy this file to tplxgettext.yaml and customize the values below.
#
# This file was auto-generated using go run ./cmd/genconfig.
`
	keywordsYAMLComment = `  # -- Role map: argument indexes count string literals only, starting at 0`
)

func main() {
	audit.SetDefaultLogger()

	if err := os.MkdirAll(filepath.Dir(envOutputFile), dirPerm); err != nil {
		log.Fatal().Err(err).Msg("Failed to create output directory")
	}

	writeFile(envOutputFile, renderEnv())
	writeFile(yamlOutputFile, renderYAML())
}

func writeFile(path, content string) {
	if err := os.WriteFile(path, []byte(content), filePerm); err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("Failed to write example file")
	}

	log.Info().Str("path", path).Msg("Successfully generated example file")
}

// renderEnv lists every env-tagged field with its default, commented out.
func renderEnv() string {
	cfg := &config.Config{}
	cfg.SetDefaults()

	var sb strings.Builder
	sb.WriteString(envFileHeader)

	val := reflect.ValueOf(*cfg)
	typ := val.Type()

	// Iterate over the top-level struct fields.
	for i := range typ.NumField() {
		structField := typ.Field(i)
		structValue := val.Field(i)

		if structValue.Kind() != reflect.Struct || structField.Name == "Build" {
			continue
		}

		fmt.Fprintf(&sb, "## %s\n", structField.Name)

		// Iterate over the fields of the nested struct.
		innerTyp := structValue.Type()
		for j := range innerTyp.NumField() {
			field := innerTyp.Field(j)
			value := structValue.Field(j)

			tag, ok := field.Tag.Lookup("env")
			if !ok {
				continue
			}

			envVarName := strings.Split(tag, ",")[0]

			switch {
			case value.Kind() == reflect.Slice && value.Len() > 0:
				parts := make([]string, value.Len())
				for k := range value.Len() {
					parts[k] = fmt.Sprint(value.Index(k).Interface())
				}

				fmt.Fprintf(&sb, "# %s=%s\n", envVarName, strings.Join(parts, ","))
			case value.Kind() == reflect.Slice || (value.Kind() == reflect.String && value.Len() == 0):
				fmt.Fprintf(&sb, "# %s=\n", envVarName)
			default:
				fmt.Fprintf(&sb, "# %s=%v\n", envVarName, value.Interface())
			}
		}

		sb.WriteString("\n")
	}

	return sb.String()
}

// renderYAML marshals the defaults, including the built-in keywords, and
// comments out every value.
func renderYAML() string {
	cfg := &config.Config{}
	cfg.SetDefaults()

	cfg.Keywords.Spec = keyword.Default()

	var yamlContent strings.Builder
	if err := yaml.NewEncoder(&yamlContent, yaml.Indent(2)).Encode(cfg); err != nil {
		log.Fatal().Err(err).Msg("Failed to marshal config to YAML")
	}

	var sb strings.Builder
	sb.WriteString(yamlFileHeader)

	// Process the marshaled YAML line-by-line to create a clean template.
	for line := range strings.SplitSeq(yamlContent.String(), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		// Top-level keys (e.g., "input:") are treated as section headers.
		if !strings.HasPrefix(line, " ") {
			fmt.Fprintf(&sb, "\n%s\n", line)

			continue
		}

		if strings.HasPrefix(trimmed, "spec:") {
			sb.WriteString(keywordsYAMLComment + "\n")
		}

		// By default, comment out the line.
		indentSize := len(line) - len(strings.TrimLeft(line, " "))
		fmt.Fprintf(&sb, "%s# %s\n", strings.Repeat(" ", indentSize), trimmed)
	}

	return sb.String()
}
