package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/omniscale/osmdocs/database/mongodb"
)

// Config is the content of a -config file. The file is YAML, so JSON
// config files work as well.
type Config struct {
	Input       string `yaml:"input"`
	Output      string `yaml:"output"`
	Connection  string `yaml:"connection"`
	Database    string `yaml:"database"`
	Collection  string `yaml:"collection"`
	Pretty      bool   `yaml:"pretty"`
	MetricsFile string `yaml:"metricsfile"`
	KeyCache    *int   `yaml:"keycache"`
}

const defaultKeyCache = 1024
const defaultTimeout time.Duration = 0

// Base holds the options of all commands.
type Base struct {
	Input       string
	Output      string
	Connection  string
	Database    string
	Collection  string
	Pretty      bool
	ConfigFile  string
	Httpprofile string
	MemProfile  string
	MetricsFile string
	Quiet       bool
	KeyCache    int
	Timeout     time.Duration
}

// updateFromConfig fills options from the config file. set contains the
// names of all flags given on the command line.
func (o *Base) updateFromConfig(set map[string]bool) error {
	conf := &Config{}

	if o.ConfigFile != "" {
		b, err := os.ReadFile(o.ConfigFile)
		if err != nil {
			return err
		}
		if err := yaml.Unmarshal(b, conf); err != nil {
			return err
		}
	}

	// options from the command line win
	if o.Input == "" {
		o.Input = conf.Input
	}
	if o.Output == "" {
		o.Output = conf.Output
	}
	if o.Connection == "" {
		o.Connection = conf.Connection
	}
	if o.Connection == "" {
		o.Connection = mongodb.DefaultConnection
	}
	if o.Database == "" {
		o.Database = conf.Database
	}
	if o.Database == "" {
		o.Database = mongodb.DefaultDatabase
	}
	if o.Collection == "" {
		o.Collection = conf.Collection
	}
	if o.Collection == "" {
		o.Collection = mongodb.DefaultCollection
	}
	if !set["pretty"] {
		o.Pretty = conf.Pretty
	}
	if o.MetricsFile == "" {
		o.MetricsFile = conf.MetricsFile
	}
	if !set["keycache"] && conf.KeyCache != nil {
		o.KeyCache = *conf.KeyCache
	}
	return nil
}

func (o *Base) check() []error {
	errs := []error{}
	if o.Input == "" {
		errs = append(errs, errors.New("missing -input"))
	}
	if o.KeyCache < 0 {
		errs = append(errs, errors.New("-keycache must not be negative"))
	}
	return errs
}

func addBaseFlags(opts *Base, flags *flag.FlagSet) {
	flags.StringVar(&opts.ConfigFile, "config", "", "config (yaml or json)")
	flags.StringVar(&opts.Httpprofile, "httpprofile", "", "bind address for profile and metrics server")
	flags.StringVar(&opts.MemProfile, "memprofile", "", "write heap profiles every 10s to this directory")
	flags.StringVar(&opts.MetricsFile, "metricsfile", "", "write metrics in textfile format after the run")
	flags.BoolVar(&opts.Quiet, "quiet", false, "quiet log output")
}

func addInputFlags(opts *Base, flags *flag.FlagSet) {
	flags.StringVar(&opts.Input, "input", "", "OSM XML file (.osm, .osm.gz, .osm.bz2)")
}

func addKeyCacheFlag(opts *Base, flags *flag.FlagSet) {
	flags.IntVar(&opts.KeyCache, "keycache", defaultKeyCache, "number of cached tag key classifications (0 disables)")
}

func addDatabaseFlags(opts *Base, flags *flag.FlagSet) {
	flags.StringVar(&opts.Connection, "connection", "", "connection URI (default "+mongodb.DefaultConnection+")")
	flags.StringVar(&opts.Database, "database", "", "database name (default "+mongodb.DefaultDatabase+")")
	flags.StringVar(&opts.Collection, "collection", "", "collection name (default "+mongodb.DefaultCollection+")")
	flags.DurationVar(&opts.Timeout, "timeout", defaultTimeout, "timeout for connecting and inserting (0 for none)")
}

// Command names.
const (
	CountTags  = "count-tags"
	CountKeys  = "count-keys"
	CountUsers = "count-users"
	Summary    = "summary"
	Export     = "export"
	Load       = "load"
)

// Commands lists all commands that take options.
var Commands = []string{CountTags, CountKeys, CountUsers, Summary, Export, Load}

func newFlagSet(cmd string, opts *Base) *flag.FlagSet {
	flags := flag.NewFlagSet(cmd, flag.ContinueOnError)
	addBaseFlags(opts, flags)
	switch cmd {
	case Load:
		flags.StringVar(&opts.Input, "input", "", "exported JSON file")
		addDatabaseFlags(opts, flags)
	case Export:
		addInputFlags(opts, flags)
		addKeyCacheFlag(opts, flags)
		flags.StringVar(&opts.Output, "output", "", "output file (default INPUT.json)")
		flags.BoolVar(&opts.Pretty, "pretty", false, "indent documents")
	case CountKeys, Summary:
		addInputFlags(opts, flags)
		addKeyCacheFlag(opts, flags)
	default:
		addInputFlags(opts, flags)
	}
	return flags
}

// Parse parses the arguments of cmd. The -input of the load command is
// the exported JSON file.
func Parse(cmd string, args []string) (Base, error) {
	opts := Base{}
	flags := newFlagSet(cmd, &opts)
	flags.SetOutput(io.Discard)
	if err := flags.Parse(args); err != nil {
		return opts, err
	}
	set := make(map[string]bool)
	flags.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if err := opts.updateFromConfig(set); err != nil {
		return opts, err
	}
	if errs := opts.check(); len(errs) != 0 {
		return opts, &OptionsError{Errs: errs}
	}
	return opts, nil
}

type OptionsError struct {
	Errs []error
}

func (e *OptionsError) Error() string {
	msg := "errors in config/options:"
	for _, err := range e.Errs {
		msg += fmt.Sprintf("\n\t%s", err)
	}
	return msg
}

// Usage prints the options of cmd.
func Usage(w io.Writer, cmd string) {
	fmt.Fprintf(w, "Usage: %s %s [args]\n\n", os.Args[0], cmd)
	flags := newFlagSet(cmd, &Base{})
	flags.SetOutput(w)
	flags.PrintDefaults()
}
