package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tinytelemetry/secdash/internal/logparse"
	"github.com/tinytelemetry/secdash/internal/logsource"
	"github.com/tinytelemetry/secdash/internal/session"
	"github.com/tinytelemetry/secdash/internal/tui"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
	goVersion = "unknown"
)

func main() {
	var configPath string
	var filePath string
	var showVersion bool

	flag.StringVar(&configPath, "config", "", "config file (default is $HOME/.config/secdash/config.yml)")
	flag.StringVar(&filePath, "file", "", "log file to open (or pass it as the first argument, or pipe it on stdin)")
	flag.BoolVar(&showVersion, "version", false, "print version information")
	flag.Parse()

	if showVersion {
		fmt.Printf("SecDash CLI - Terminal Dashboard\n")
		fmt.Printf("  Version:    %s\n", version)
		fmt.Printf("  Commit:     %s\n", commit)
		fmt.Printf("  Built:      %s\n", buildTime)
		fmt.Printf("  Go version: %s\n", goVersion)
		return
	}

	cfg, err := loadCLIConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if filePath == "" && flag.NArg() > 0 {
		filePath = flag.Arg(0)
	}

	if err := runTUI(cfg, pickSource(filePath, cfg.MaxUploadBytes, logsource.StdinPiped())); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// pickSource prefers an explicit file over piped stdin. It returns nil when
// neither is available, leaving the dashboard empty.
func pickSource(path string, maxBytes int64, stdinPiped bool) logsource.Source {
	switch {
	case path != "":
		return logsource.NewFileSource(path, maxBytes)
	case stdinPiped:
		return logsource.NewStdinSource(maxBytes)
	default:
		return nil
	}
}

func runTUI(cfg cliConfig, src logsource.Source) error {
	// The terminal belongs to the dashboard; library logging would corrupt it.
	log.SetOutput(io.Discard)

	classifier, err := logparse.LoadClassifier(cfg.SeverityAliases)
	if err != nil {
		return fmt.Errorf("failed to load severity aliases: %w", err)
	}

	sess := session.New(session.Config{
		Location:   cfg.Location,
		Classifier: classifier,
	})

	dashboard := tui.NewDashboardModel(sess, tui.Options{
		Source:    src,
		ExportDir: cfg.ExportDir,
	})

	p := tea.NewProgram(dashboard, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		if strings.Contains(err.Error(), "TTY") || strings.Contains(err.Error(), "/dev/tty") {
			return fmt.Errorf("TUI requires a real terminal")
		}
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
