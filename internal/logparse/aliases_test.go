package logparse

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseAliases(t *testing.T) {
	t.Parallel()

	data := []byte(`
aliases:
  critical: [SEV1, urgent]
  Info:
    - notice
`)
	got, err := ParseAliases(data)
	if err != nil {
		t.Fatalf("ParseAliases: %v", err)
	}
	want := map[string]Severity{"sev1": Critical, "urgent": Critical, "notice": Info}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d (%v)", len(got), len(want), got)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("aliases[%q] = %q, want %q", k, got[k], v)
		}
	}
}

func TestParseAliasesErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{"unknown target", "aliases:\n  debug: [trace]\n", "not one of"},
		{"empty alias", "aliases:\n  info: ['  ']\n", "empty alias"},
		{"conflict", "aliases:\n  info: [x]\n  error: [X]\n", "mapped to both"},
		{"bad yaml", "aliases: [", "parsing alias YAML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAliases([]byte(tt.data))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadAliases(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "aliases.yml")
	if err := os.WriteFile(path, []byte("aliases:\n  warning: [attention]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := LoadAliases(path)
	if err != nil {
		t.Fatalf("LoadAliases: %v", err)
	}
	if got["attention"] != Warning {
		t.Fatalf("attention = %q, want warning", got["attention"])
	}

	if _, err := LoadAliases(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadClassifier(t *testing.T) {
	t.Parallel()

	c, err := LoadClassifier("")
	if err != nil || c != Default {
		t.Fatalf("LoadClassifier(\"\") = %p, %v; want Default", c, err)
	}

	path := filepath.Join(t.TempDir(), "aliases.yml")
	if err := os.WriteFile(path, []byte("aliases:\n  critical: [sev1]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err = LoadClassifier(path)
	if err != nil {
		t.Fatalf("LoadClassifier: %v", err)
	}
	if got, ok := c.Classify("SEV1"); !ok || got != Critical {
		t.Fatalf("Classify(SEV1) = %q, %v", got, ok)
	}
	if got, _ := c.Classify("warn"); got != Warning {
		t.Fatalf("built-ins should remain, got %q", got)
	}
}
