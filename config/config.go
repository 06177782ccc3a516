// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/encoding"

	"codeberg.org/tplxgettext/tplxgettext/keyword"
)

const (
	configFileEnvVar   = "TPLXGETTEXT_CONFIGFILE"
	defaultConfigFile  = "./tplxgettext.yaml"
	fallbackConfigFile = "./tplxgettext.yml"
)

// Config holds the extractor configuration.
type Config struct {
	Build buildInfo `yaml:"-"`

	Input struct {
		// Files are the template paths, relative to each directory. A single
		// "-" reads the template from standard input.
		Files       []string          `yaml:"files"`
		Directories []string          `env:"TPLXGETTEXT_DIRECTORY" yaml:"directories"`
		FilesFrom   string            `env:"TPLXGETTEXT_FILES_FROM" yaml:"filesFrom"`
		FromCode    string            `env:"TPLXGETTEXT_FROM_CODE" yaml:"fromCode"`
		Encoding    encoding.Encoding `yaml:"-"`
	} `yaml:"input"`

	Output struct {
		Path             string `env:"TPLXGETTEXT_OUTPUT" yaml:"path"`
		ForcePO          bool   `env:"TPLXGETTEXT_FORCE_PO" yaml:"forcePo"`
		JoinExisting     bool   `env:"TPLXGETTEXT_JOIN_EXISTING" yaml:"joinExisting"`
		NoLocation       bool   `env:"TPLXGETTEXT_NO_LOCATION" yaml:"noLocation"`
		PackageName      string `env:"TPLXGETTEXT_PACKAGE_NAME" yaml:"packageName"`
		PackageVersion   string `env:"TPLXGETTEXT_PACKAGE_VERSION" yaml:"packageVersion"`
		MsgidBugsAddress string `env:"TPLXGETTEXT_MSGID_BUGS_ADDRESS" yaml:"msgidBugsAddress"`
	} `yaml:"output"`

	Keywords struct {
		// Flags are xgettext style keyword arguments, e.g. "__:1c,2".
		Flags      []string     `env:"TPLXGETTEXT_KEYWORDS" yaml:"flags"`
		SpecFile   string       `env:"TPLXGETTEXT_KEYWORD_SPEC" yaml:"specFile"`
		Spec       keyword.Spec `yaml:"spec"`
		NoDefaults bool         `env:"TPLXGETTEXT_NO_DEFAULT_KEYWORDS" yaml:"noDefaults"`
		// Resolved is the effective spec, computed during validation.
		Resolved keyword.Spec `yaml:"-"`
	} `yaml:"keywords"`

	Runtime struct {
		Jobs     int  `env:"TPLXGETTEXT_JOBS" yaml:"jobs"`
		Progress bool `env:"TPLXGETTEXT_PROGRESS" yaml:"progress"`
	} `yaml:"runtime"`

	Log struct {
		Level   string   `env:"TPLXGETTEXT_LOG_LEVEL" yaml:"logLevel"`
		Outputs []string `env:"TPLXGETTEXT_LOG_OUTPUTS" yaml:"logOutputs"`
		Format  string   `env:"TPLXGETTEXT_LOG_FORMAT" yaml:"logFormat"`
	} `yaml:"log"`

	ShowVersion bool `yaml:"-"`
}

// LoadConfig loads the configuration from defaults, the YAML config file,
// .env, environment variables and finally the command-line args.
func (cfg *Config) LoadConfig(args []string) error {
	cmd, err := parseCommandLineArgs(args)
	if err != nil {
		return err
	}

	// Determine the config file path with the correct precedence:
	// 1. Command-line flag (-config)
	// 2. Environment variable (TPLXGETTEXT_CONFIGFILE)
	// 3. Default path with fallback check
	var configFilePath string

	switch {
	case cmd.isSet("config"):
		configFilePath = cmd.configFile
	case os.Getenv(configFileEnvVar) != "":
		configFilePath = os.Getenv(configFileEnvVar)
	default:
		configFilePath = defaultConfigFile
		if _, err := os.Stat(configFilePath); os.IsNotExist(err) {
			if _, statErr := os.Stat(fallbackConfigFile); statErr == nil {
				configFilePath = fallbackConfigFile
			}
		}
	}

	cfg.SetDefaults()

	cfg.Build.load()

	if err := cfg.readYAML(configFilePath); err != nil {
		return fmt.Errorf("error loading YAML config: %w", err)
	}

	useDotEnv()

	if err := readEnv(cfg); err != nil {
		return fmt.Errorf("error loading environment variables: %w", err)
	}

	cmd.apply(cfg)

	if cfg.ShowVersion {
		return nil
	}

	if err := cfg.validateAndSet(); err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	cfg.setupAudit()

	cfg.print()

	log.Debug().
		Str("path", configFilePath).
		Int("keywords", len(cfg.Keywords.Resolved)).
		Msg("Configuration loaded")

	return nil
}

// WritesToStdout reports whether the catalog goes to standard output.
func (cfg *Config) WritesToStdout() bool {
	return cfg.Output.Path == "-" || cfg.Output.Path == "/dev/stdout"
}

// ReadsStdin reports whether the template is read from standard input.
func (cfg *Config) ReadsStdin() bool {
	return len(cfg.Input.Files) == 1 && cfg.Input.Files[0] == "-" && cfg.Input.FilesFrom == ""
}

// ProjectIDVersion returns the value for the Project-Id-Version header.
func (cfg *Config) ProjectIDVersion() string {
	if cfg.Output.PackageName == "" {
		return "PACKAGE VERSION"
	}

	if cfg.Output.PackageVersion == "" {
		return cfg.Output.PackageName
	}

	return cfg.Output.PackageName + " " + cfg.Output.PackageVersion
}
