package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFile_Defaults(t *testing.T) {
	cfg, err := LoadFile(writeConfig(t, "{}\n"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if diff := cmp.Diff(GetDefaults(), cfg); diff != "" {
		t.Errorf("Defaults mismatch (-want +got):\n%s", diff)
	}
	if !cfg.Editor.AllowScalarRoot {
		t.Error("Scalar roots should be allowed by default")
	}
}

func TestLoadFile_Overrides(t *testing.T) {
	cfg, err := LoadFile(writeConfig(t, `
ui:
  theme: catppuccin-mocha
editor:
  allow_scalar_root: false
  real_step: 0.5
document:
  save_format: binary
`))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.UI.Theme != "catppuccin-mocha" {
		t.Errorf("Expected theme override, got %q", cfg.UI.Theme)
	}
	if cfg.Editor.AllowScalarRoot {
		t.Error("Expected allow_scalar_root false")
	}
	if cfg.Editor.RealStep != 0.5 {
		t.Errorf("Expected real_step 0.5, got %v", cfg.Editor.RealStep)
	}
	if cfg.Document.SaveFormat != "binary" {
		t.Errorf("Expected binary, got %q", cfg.Document.SaveFormat)
	}
	// Untouched keys keep their defaults
	if !cfg.Document.Watch || !cfg.UI.MouseEnabled {
		t.Error("Expected unspecified keys to keep defaults")
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"save format", "document:\n  save_format: json\n", "save_format"},
		{"real step", "editor:\n  real_step: 0\n", "real_step"},
		{"max entries", "history:\n  max_entries: 0\n", "max_entries"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}
