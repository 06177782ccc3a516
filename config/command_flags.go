// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

// stringList is a repeatable string flag.
type stringList []string

func (s *stringList) String() string {
	return strings.Join(*s, ",")
}

func (s *stringList) Set(v string) error {
	*s = append(*s, v)

	return nil
}

// commandFlags holds parsed command-line values. They are applied on top of
// the other configuration sources, but only for flags the user actually set.
type commandFlags struct {
	set  map[string]bool
	args []string

	configFile       string
	output           string
	directories      stringList
	filesFrom        string
	fromCode         string
	forcePO          bool
	joinExisting     bool
	noLocation       bool
	keywords         stringList
	noDefaults       bool
	keywordSpec      string
	packageName      string
	packageVersion   string
	msgidBugsAddress string
	jobs             int
	progress         bool
	logLevel         string
	version          bool
}

// flag aliases map short names to their long form.
var flagAliases = map[string]string{
	"o": "output",
	"D": "directory",
	"f": "files-from",
	"j": "join-existing",
	"k": "keyword",
}

// parseCommandLineArgs defines and parses flags from args.
func parseCommandLineArgs(args []string) (*commandFlags, error) {
	cmd := &commandFlags{set: map[string]bool{}}

	fs := flag.NewFlagSet("tplxgettext", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: tplxgettext [options] [file ...]")
		fmt.Fprintln(fs.Output(), "Extract translatable strings from templates into a PO catalog.")
		fmt.Fprintln(fs.Output())
		fs.PrintDefaults()
	}

	fs.StringVar(&cmd.configFile, "config", defaultConfigFile, "Path to a configuration file in YAML format.")
	fs.StringVar(&cmd.output, "output", DefaultOutput, "Write the catalog to this file (- for standard output).")
	fs.StringVar(&cmd.output, "o", DefaultOutput, "Shorthand for -output.")
	fs.Var(&cmd.directories, "directory", "Look for input files in this directory (repeatable).")
	fs.Var(&cmd.directories, "D", "Shorthand for -directory.")
	fs.StringVar(&cmd.filesFrom, "files-from", "", "Read the names of the input files from this file.")
	fs.StringVar(&cmd.filesFrom, "f", "", "Shorthand for -files-from.")
	fs.StringVar(&cmd.fromCode, "from-code", DefaultFromCode, "Encoding of the input files and of the catalog.")
	fs.BoolVar(&cmd.forcePO, "force-po", false, "Write the catalog even if it is empty.")
	fs.BoolVar(&cmd.joinExisting, "join-existing", false, "Merge with the existing output catalog.")
	fs.BoolVar(&cmd.joinExisting, "j", false, "Shorthand for -join-existing.")
	fs.BoolVar(&cmd.noLocation, "no-location", false, "Do not write #: reference comments.")
	fs.Var(&cmd.keywords, "keyword", "Additional keyword, xgettext style: name[:[Nc,]M[,P]] (repeatable).")
	fs.Var(&cmd.keywords, "k", "Shorthand for -keyword.")
	fs.BoolVar(&cmd.noDefaults, "no-default-keywords", false, "Do not use the built-in keywords.")
	fs.StringVar(&cmd.keywordSpec, "keyword-spec", "", "Path to a YAML keyword role map.")
	fs.StringVar(&cmd.packageName, "package-name", "", "Package name for the catalog header.")
	fs.StringVar(&cmd.packageVersion, "package-version", "", "Package version for the catalog header.")
	fs.StringVar(&cmd.msgidBugsAddress, "msgid-bugs-address", "", "Report-Msgid-Bugs-To header value.")
	fs.IntVar(&cmd.jobs, "jobs", 0, "Number of files parsed concurrently.")
	fs.BoolVar(&cmd.progress, "progress", false, "Show a progress bar on a terminal.")
	fs.StringVar(&cmd.logLevel, "log-level", "", "Log level: debug, info, warn or error.")
	fs.BoolVar(&cmd.version, "version", false, "Print the version and exit.")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	fs.Visit(func(f *flag.Flag) {
		name := f.Name
		if long, ok := flagAliases[name]; ok {
			name = long
		}

		cmd.set[name] = true
	})

	cmd.args = fs.Args()

	return cmd, nil
}

func (cmd *commandFlags) isSet(name string) bool {
	return cmd.set[name]
}

// apply copies every explicitly set flag onto cfg.
func (cmd *commandFlags) apply(cfg *Config) {
	if len(cmd.args) > 0 {
		cfg.Input.Files = cmd.args
	}

	if cmd.isSet("output") {
		cfg.Output.Path = cmd.output
	}

	if cmd.isSet("directory") {
		cfg.Input.Directories = cmd.directories
	}

	if cmd.isSet("files-from") {
		cfg.Input.FilesFrom = cmd.filesFrom
	}

	if cmd.isSet("from-code") {
		cfg.Input.FromCode = cmd.fromCode
	}

	if cmd.isSet("force-po") {
		cfg.Output.ForcePO = cmd.forcePO
	}

	if cmd.isSet("join-existing") {
		cfg.Output.JoinExisting = cmd.joinExisting
	}

	if cmd.isSet("no-location") {
		cfg.Output.NoLocation = cmd.noLocation
	}

	if cmd.isSet("keyword") {
		cfg.Keywords.Flags = append(cfg.Keywords.Flags, cmd.keywords...)
	}

	if cmd.isSet("no-default-keywords") {
		cfg.Keywords.NoDefaults = cmd.noDefaults
	}

	if cmd.isSet("keyword-spec") {
		cfg.Keywords.SpecFile = cmd.keywordSpec
	}

	if cmd.isSet("package-name") {
		cfg.Output.PackageName = cmd.packageName
	}

	if cmd.isSet("package-version") {
		cfg.Output.PackageVersion = cmd.packageVersion
	}

	if cmd.isSet("msgid-bugs-address") {
		cfg.Output.MsgidBugsAddress = cmd.msgidBugsAddress
	}

	if cmd.isSet("jobs") {
		cfg.Runtime.Jobs = cmd.jobs
	}

	if cmd.isSet("progress") {
		cfg.Runtime.Progress = cmd.progress
	}

	if cmd.isSet("log-level") {
		cfg.Log.Level = cmd.logLevel
	}

	cfg.ShowVersion = cmd.version
}
