package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	fname := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(fname, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return fname
}

func TestParseDefaults(t *testing.T) {
	opts, err := Parse(Load, []string{"-input", "map.osm.json"})
	if err != nil {
		t.Fatal(err)
	}
	if opts.Input != "map.osm.json" {
		t.Errorf("unexpected input %q", opts.Input)
	}
	if opts.Connection != "mongodb://localhost:27017" ||
		opts.Database != "openStreetMapData" ||
		opts.Collection != "largeData" {
		t.Errorf("unexpected database defaults %+v", opts)
	}
	if opts.Timeout != 0 {
		t.Errorf("load should not have a deadline by default, got %s", opts.Timeout)
	}

	opts, err = Parse(Export, []string{"-input", "map.osm"})
	if err != nil {
		t.Fatal(err)
	}
	if opts.Pretty || opts.Output != "" || opts.KeyCache != defaultKeyCache {
		t.Errorf("unexpected export defaults %+v", opts)
	}
}

func TestParseConfigFile(t *testing.T) {
	for _, tt := range []struct {
		name    string
		content string
	}{
		{"osmdocs.yml", "input: city.osm\noutput: city.json\npretty: true\ndatabase: osm\ncollection: city\nkeycache: 64\n"},
		{"osmdocs.json", `{"input": "city.osm", "output": "city.json", "pretty": true, "database": "osm", "collection": "city", "keycache": 64}`},
	} {
		t.Run(tt.name, func(t *testing.T) {
			conf := writeConfig(t, tt.name, tt.content)

			opts, err := Parse(Export, []string{"-config", conf})
			if err != nil {
				t.Fatal(err)
			}
			if opts.Input != "city.osm" || opts.Output != "city.json" || !opts.Pretty || opts.KeyCache != 64 {
				t.Errorf("config not applied: %+v", opts)
			}

			opts, err = Parse(Load, []string{"-config", conf, "-collection", "other", "-timeout", "5s"})
			if err != nil {
				t.Fatal(err)
			}
			if opts.Database != "osm" || opts.Collection != "other" || opts.Timeout != 5*time.Second {
				t.Errorf("command line options should win: %+v", opts)
			}
		})
	}
}

func TestParseFlagPrecedence(t *testing.T) {
	for _, tt := range []struct {
		name     string
		content  string
		args     []string
		keyCache int
		pretty   bool
	}{
		{"default", "input: city.osm\n", nil, defaultKeyCache, false},
		{"config disables cache", "input: city.osm\nkeycache: 0\n", nil, 0, false},
		{"config sets cache", "input: city.osm\nkeycache: 64\n", nil, 64, false},
		{"explicit default flag wins", "input: city.osm\nkeycache: 64\n", []string{"-keycache", "1024"}, 1024, false},
		{"flag disables cache", "input: city.osm\nkeycache: 64\n", []string{"-keycache", "0"}, 0, false},
		{"config pretty", "input: city.osm\npretty: true\n", nil, defaultKeyCache, true},
		{"flag overrides pretty", "input: city.osm\npretty: true\n", []string{"-pretty=false"}, defaultKeyCache, false},
	} {
		t.Run(tt.name, func(t *testing.T) {
			conf := writeConfig(t, "osmdocs.yml", tt.content)
			opts, err := Parse(Export, append([]string{"-config", conf}, tt.args...))
			if err != nil {
				t.Fatal(err)
			}
			if opts.KeyCache != tt.keyCache {
				t.Errorf("expected keycache %d, got %d", tt.keyCache, opts.KeyCache)
			}
			if opts.Pretty != tt.pretty {
				t.Errorf("expected pretty %v, got %v", tt.pretty, opts.Pretty)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	_, err := Parse(CountTags, nil)
	var optErr *OptionsError
	if !errors.As(err, &optErr) || !strings.Contains(err.Error(), "missing -input") {
		t.Errorf("expected missing input error, got %v", err)
	}

	_, err = Parse(Summary, []string{"-input", "map.osm", "-keycache", "-1"})
	if !errors.As(err, &optErr) {
		t.Errorf("expected negative keycache error, got %v", err)
	}

	// -pretty is only known by export
	if _, err := Parse(CountUsers, []string{"-input", "map.osm", "-pretty"}); err == nil {
		t.Error("expected unknown flag error")
	}

	if _, err := Parse(CountTags, []string{"-config", filepath.Join(t.TempDir(), "missing.yml")}); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected missing config error, got %v", err)
	}

	conf := writeConfig(t, "broken.yml", "input: [unclosed\n")
	if _, err := Parse(CountTags, []string{"-config", conf}); err == nil {
		t.Error("expected yaml error")
	}
}

func TestUsage(t *testing.T) {
	buf := &bytes.Buffer{}
	Usage(buf, Load)
	for _, flag := range []string{"-connection", "-collection", "-input", "-timeout"} {
		if !strings.Contains(buf.String(), flag) {
			t.Errorf("%s missing in usage:\n%s", flag, buf.String())
		}
	}
	if strings.Contains(buf.String(), "-pretty") {
		t.Error("load usage lists -pretty")
	}
}
