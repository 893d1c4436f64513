package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/tinytelemetry/secdash/internal/session"
)

func TestBuildPreloadPlugins_RegistersPrimitives(t *testing.T) {
	t.Parallel()

	plugins := buildPreloadPlugins(PreloadConfig{
		File:       "/tmp/security.csv",
		StdinPiped: func() bool { return false },
	})

	if len(plugins) != 2 {
		t.Fatalf("expected 2 plugins, got %d", len(plugins))
	}
	if plugins[0].Name() != "file" {
		t.Fatalf("plugins[0] name = %q, want %q", plugins[0].Name(), "file")
	}
	if plugins[1].Name() != "stdin" {
		t.Fatalf("plugins[1] name = %q, want %q", plugins[1].Name(), "stdin")
	}
	if !plugins[0].Enabled() {
		t.Fatal("expected file plugin to be enabled when File is set")
	}
	if plugins[1].Enabled() {
		t.Fatal("expected stdin plugin to be disabled when stdin is a terminal")
	}
}

func TestSelectPreloadSource(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		file     string
		piped    bool
		wantName string
		wantErr  error
	}{
		{name: "file wins over stdin", file: "/tmp/a.csv", piped: true, wantName: "a.csv"},
		{name: "stdin when piped", piped: true, wantName: "stdin"},
		{name: "nothing configured", wantErr: errNoPreload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			piped := tt.piped
			src, err := selectPreloadSource(context.Background(), buildPreloadPlugins(PreloadConfig{
				File:       tt.file,
				StdinPiped: func() bool { return piped },
			}))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("selectPreloadSource: %v", err)
			}
			if src.Name() != tt.wantName {
				t.Fatalf("source = %q, want %q", src.Name(), tt.wantName)
			}
		})
	}
}

func TestPreload_LoadsFileIntoSession(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "security.csv")
	content := "Timestamp,Tipo,Origen,Mensaje,Severidad\n" +
		"2024-03-01 10:00:00,login,10.0.0.1,failed password,critical\n" +
		"2024-03-01 11:00:00,scan,10.0.0.2,port sweep,warning\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	sess := session.New(session.Config{})
	report := preload(context.Background(), sess, PreloadConfig{
		File:       path,
		StdinPiped: func() bool { return false },
	})
	if report == nil {
		t.Fatal("expected a load report")
	}
	if report.Accepted != 2 || report.FileName != "security.csv" {
		t.Fatalf("report = %+v", report)
	}
	if got := len(sess.Records()); got != 2 {
		t.Fatalf("session has %d records, want 2", got)
	}
}

func TestPreload_MissingFileLeavesSessionEmpty(t *testing.T) {
	t.Parallel()

	sess := session.New(session.Config{})
	report := preload(context.Background(), sess, PreloadConfig{
		File:       filepath.Join(t.TempDir(), "missing.csv"),
		StdinPiped: func() bool { return false },
	})
	if report != nil {
		t.Fatalf("report = %+v, want nil", report)
	}
	if got := len(sess.Records()); got != 0 {
		t.Fatalf("session has %d records, want 0", got)
	}
}
