package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestDefaults(t *testing.T) {
	cfg, err := Find(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(cfg.Workspace.Extensions, []string{".as"}) {
		t.Errorf("extensions = %v", cfg.Workspace.Extensions)
	}
	if cfg.Workspace.Predefined != "as.predefined" {
		t.Errorf("predefined = %q", cfg.Workspace.Predefined)
	}
	if !cfg.ShouldWatch() {
		t.Error("watching should be on by default")
	}
	if cfg.Workspace.Debounce.Duration != 100*time.Millisecond {
		t.Errorf("debounce = %v", cfg.Workspace.Debounce)
	}
	if len(cfg.ParserOptions()) != 0 {
		t.Error("memoization should be on by default")
	}
}

func TestLoad(t *testing.T) {
	dir := writeConfig(t, `
[server]
requires = ">= 0.1, < 1.0"
verbosity = 2
log_file = "asls.log"

[workspace]
extensions = ["as", ".angelscript"]
exclude = ["vendor", "*.gen.as"]
watch = false
debounce = "250ms"

[parser]
memoize = false
`)
	cfg, err := Find(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Verbosity != 2 || cfg.Server.LogFile != "asls.log" {
		t.Errorf("server = %+v", cfg.Server)
	}
	if !reflect.DeepEqual(cfg.Workspace.Extensions, []string{".as", ".angelscript"}) {
		t.Errorf("extensions = %v", cfg.Workspace.Extensions)
	}
	if cfg.ShouldWatch() {
		t.Error("watch = false was ignored")
	}
	if cfg.Workspace.Debounce.Duration != 250*time.Millisecond {
		t.Errorf("debounce = %v", cfg.Workspace.Debounce)
	}
	if len(cfg.ParserOptions()) != 1 {
		t.Error("memoize = false should disable memoization")
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	dir := writeConfig(t, "[workspace]\nextension = [\".as\"]\n")
	if _, err := Find(dir); err == nil {
		t.Error("expected an error for a misspelled key")
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	dir := writeConfig(t, "[workspace]\ndebounce = \"soon\"\n")
	if _, err := Find(dir); err == nil {
		t.Error("expected an error for an invalid duration")
	}
}

func TestCheckVersion(t *testing.T) {
	tests := []struct {
		requires string
		version  string
		wantErr  bool
	}{
		{"", "0.1.0", false},
		{">= 0.1", "0.1.0", false},
		{">= 0.2", "0.1.0", true},
		{"^1.2", "1.4.0", false},
		{"not a constraint", "0.1.0", true},
		{">= 0.1", "dev", true},
	}

	for _, tt := range tests {
		t.Run(tt.requires+"/"+tt.version, func(t *testing.T) {
			cfg := Default()
			cfg.Server.Requires = tt.requires
			err := cfg.CheckVersion(tt.version)
			if (err != nil) != tt.wantErr {
				t.Errorf("CheckVersion() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAcceptsAndExcluded(t *testing.T) {
	cfg := Default()
	cfg.Workspace.Exclude = []string{"vendor", "*.gen.as"}

	accepts := map[string]bool{
		"main.as":               true,
		"scripts/as.predefined": true,
		"README.md":             false,
	}
	for path, want := range accepts {
		if got := cfg.Accepts(path); got != want {
			t.Errorf("Accepts(%q) = %v, want %v", path, got, want)
		}
	}

	excluded := map[string]bool{
		"vendor/lib.as":     true,
		"src/parser.gen.as": true,
		"src/main.as":       false,
	}
	for path, want := range excluded {
		if got := cfg.Excluded(path); got != want {
			t.Errorf("Excluded(%q) = %v, want %v", path, got, want)
		}
	}
}
