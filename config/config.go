// Package config loads asls.toml, the per-workspace settings file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"

	"github.com/dhamidi/asls/angelscript/parser"
)

// FileName is looked up in the workspace root.
const FileName = "asls.toml"

type Config struct {
	Server    ServerConfig    `toml:"server"`
	Workspace WorkspaceConfig `toml:"workspace"`
	Parser    ParserConfig    `toml:"parser"`
}

type ServerConfig struct {
	// Requires is a semver constraint on the server version, e.g. ">= 0.2".
	Requires  string `toml:"requires"`
	Verbosity int    `toml:"verbosity"`
	LogFile   string `toml:"log_file"`
}

type WorkspaceConfig struct {
	Extensions []string `toml:"extensions"`
	// Predefined is the file name whose declarations every other document sees.
	Predefined string `toml:"predefined"`
	// Exclude holds glob patterns matched against slash-separated paths
	// relative to the workspace root, and against each path element.
	Exclude  []string `toml:"exclude"`
	Watch    *bool    `toml:"watch"`
	Debounce Duration `toml:"debounce"`
}

type ParserConfig struct {
	Memoize *bool `toml:"memoize"`
}

// Duration wraps time.Duration for TOML strings like "250ms".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load decodes the file at path and fills in defaults.
func Load(path string) (*Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("parse %s: unknown key %s", path, undecoded[0])
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// Find loads asls.toml from dir, falling back to the defaults when the file
// does not exist.
func Find(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return Load(path)
}

func (c *Config) applyDefaults() {
	if len(c.Workspace.Extensions) == 0 {
		c.Workspace.Extensions = []string{".as"}
	}
	for i, ext := range c.Workspace.Extensions {
		if !strings.HasPrefix(ext, ".") {
			c.Workspace.Extensions[i] = "." + ext
		}
	}
	if c.Workspace.Predefined == "" {
		c.Workspace.Predefined = "as.predefined"
	}
	if c.Workspace.Watch == nil {
		watch := true
		c.Workspace.Watch = &watch
	}
	if c.Workspace.Debounce.Duration == 0 {
		c.Workspace.Debounce.Duration = 100 * time.Millisecond
	}
	if c.Parser.Memoize == nil {
		memoize := true
		c.Parser.Memoize = &memoize
	}
}

// CheckVersion reports an error when version does not satisfy the
// server.requires constraint.
func (c *Config) CheckVersion(version string) error {
	if c.Server.Requires == "" {
		return nil
	}
	constraint, err := semver.NewConstraint(c.Server.Requires)
	if err != nil {
		return fmt.Errorf("server.requires: %w", err)
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("server version %q: %w", version, err)
	}
	if !constraint.Check(v) {
		return fmt.Errorf("asls %s does not satisfy %q", version, c.Server.Requires)
	}
	return nil
}

// Accepts reports whether path names a source document: one with a configured
// extension, or the predefined file.
func (c *Config) Accepts(path string) bool {
	base := filepath.Base(path)
	if base == c.Workspace.Predefined {
		return true
	}
	ext := filepath.Ext(base)
	for _, want := range c.Workspace.Extensions {
		if ext == want {
			return true
		}
	}
	return false
}

// Excluded reports whether rel, a path relative to the workspace root, matches
// an exclude pattern.
func (c *Config) Excluded(rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, pattern := range c.Workspace.Exclude {
		if ok, _ := filepath.Match(pattern, rel); ok {
			return true
		}
		for _, elem := range strings.Split(rel, "/") {
			if ok, _ := filepath.Match(pattern, elem); ok {
				return true
			}
		}
	}
	return false
}

func (c *Config) IsPredefined(path string) bool {
	return filepath.Base(path) == c.Workspace.Predefined
}

func (c *Config) ShouldWatch() bool {
	return c.Workspace.Watch == nil || *c.Workspace.Watch
}

// ParserOptions translates the [parser] section.
func (c *Config) ParserOptions() []parser.Option {
	if c.Parser.Memoize != nil && !*c.Parser.Memoize {
		return []parser.Option{parser.WithoutMemo()}
	}
	return nil
}
