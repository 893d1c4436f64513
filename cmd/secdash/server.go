package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/tinytelemetry/secdash/internal/duckdb"
	"github.com/tinytelemetry/secdash/internal/httpserver"
	"github.com/tinytelemetry/secdash/internal/logparse"
	"github.com/tinytelemetry/secdash/internal/model"
	"github.com/tinytelemetry/secdash/internal/session"
	"golang.org/x/sync/errgroup"
)

// runServer loads an optional startup file and serves the dashboard API.
func runServer(cfg appConfig) error {
	cleanupLogger := configureRuntimeLogger()
	defer cleanupLogger()

	classifier, err := logparse.LoadClassifier(cfg.SeverityAliases)
	if err != nil {
		return fmt.Errorf("failed to load severity aliases: %w", err)
	}

	// Optional SQL mirror of the current collection
	var store *duckdb.Store
	if cfg.SQLEnabled {
		store, err = duckdb.NewStore(duckdb.Options{
			QueryTimeout: cfg.QueryTimeout,
			Location:     cfg.Location,
			Classifier:   classifier,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize DuckDB: %w", err)
		}
		defer store.Close()
	}

	sessCfg := session.Config{
		Location:   cfg.Location,
		Classifier: classifier,
	}
	if store != nil {
		sessCfg.Mirror = store
	}
	sess := session.New(sessCfg)

	// Set up context and signal handling before errgroup
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println("\nShutting down gracefully... (press Ctrl+C again to force)")
		cancel()

		deadline := time.NewTimer(10 * time.Second)
		defer deadline.Stop()

		select {
		case <-sigCh:
			fmt.Println("\nForce shutdown.")
		case <-deadline.C:
			fmt.Println("Shutdown timed out, forcing exit.")
		}
		os.Exit(1)
	}()

	preloaded := preload(ctx, sess, PreloadConfig{
		File:     cfg.PreloadFile,
		MaxBytes: cfg.MaxUploadBytes,
	})

	if !cfg.APIEnabled {
		printStartupBanner(cfg, preloaded)
		// Nothing to serve; the preload summary above is the whole output.
		signal.Stop(sigCh)
		return nil
	}

	serverCfg := httpserver.Config{MaxUploadBytes: cfg.MaxUploadBytes}
	if store != nil {
		serverCfg.Store = store
	}
	apiServer := httpserver.NewServer(cfg.APIAddr, sess, serverCfg)
	listener, err := apiServer.Listen()
	if err != nil {
		return fmt.Errorf("failed to start API server: %w", err)
	}

	printStartupBanner(cfg, preloaded)

	err = serveAPI(ctx, apiServer, listener)
	cancel()
	signal.Stop(sigCh)
	if err != nil {
		log.Printf("server: API server exited with error: %v", err)
		return fmt.Errorf("API server: %w", err)
	}
	return nil
}

// serveAPI runs srv on l until ctx is done or serving fails; either way the
// server is shut down before it returns.
func serveAPI(ctx context.Context, srv *httpserver.Server, l net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return srv.Serve(l)
	})

	// Stop on signal-driven cancellation or when Serve fails.
	g.Go(func() error {
		<-gctx.Done()
		return srv.Stop()
	})

	return g.Wait()
}

// preload loads the startup input, if any, into sess. Failures are logged
// and leave the session empty.
func preload(ctx context.Context, sess *session.Session, cfg PreloadConfig) *model.LoadReport {
	src, err := selectPreloadSource(ctx, buildPreloadPlugins(cfg))
	if err != nil {
		if !errors.Is(err, errNoPreload) {
			log.Printf("server: preload input: %v", err)
		}
		return nil
	}
	report, err := sess.LoadSource(ctx, src)
	if err != nil {
		log.Printf("server: preload %s failed: %v", src.Name(), err)
		fmt.Fprintf(os.Stderr, "Warning: could not load %s: %v\n", src.Name(), err)
		return nil
	}
	return &report
}

func configureRuntimeLogger() func() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	home, err := os.UserHomeDir()
	if err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	logDir := filepath.Join(home, ".local", "state", "secdash")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	logPath := filepath.Join(logDir, "secdash.log")
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	log.SetOutput(f)
	return func() {
		_ = f.Close()
	}
}

func printStartupBanner(cfg appConfig, report *model.LoadReport) {
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	cyan := lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	yellow := lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	bold := lipgloss.NewStyle().Bold(true)

	check := green.Render("●")
	dot := dim.Render("●")

	logo := cyan.Bold(true).Render(`
    ╔═╗╔═╗╔═╗╔╦╗╔═╗╔═╗╦ ╦
    ╚═╗║╣ ║   ║║╠═╣╚═╗╠═╣
    ╚═╝╚═╝╚═╝═╩╝╩ ╩╚═╝╩ ╩`)

	ver := dim.Render("v" + version)

	var lines []string
	lines = append(lines, "")
	lines = append(lines, logo)
	lines = append(lines, "    "+ver)
	lines = append(lines, "")

	separator := dim.Render("    ─────────────────────────────────")
	lines = append(lines, separator)
	lines = append(lines, "")

	lines = append(lines, bold.Render("    Gateway"))
	lines = append(lines, "")

	if cfg.APIEnabled {
		lines = append(lines, fmt.Sprintf("    %s  HTTP API       %s", check, cyan.Render(cfg.APIAddr)))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  HTTP API       %s", dot, dim.Render("disabled")))
	}
	if cfg.SQLEnabled {
		lines = append(lines, fmt.Sprintf("    %s  SQL Mirror     %s", check, dim.Render("in-memory")))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  SQL Mirror     %s", dot, dim.Render("disabled")))
	}
	lines = append(lines, fmt.Sprintf("    %s  Upload Limit   %s", check, dim.Render(humanize.IBytes(uint64(cfg.MaxUploadBytes)))))
	lines = append(lines, "")

	lines = append(lines, bold.Render("    Data"))
	lines = append(lines, "")
	if report != nil {
		lines = append(lines, fmt.Sprintf("    %s  Loaded         %s", check, cyan.Render(report.FileName)))
		lines = append(lines, fmt.Sprintf("    %s  Records        %s", check,
			dim.Render(fmt.Sprintf("%s accepted, %s rejected", humanize.Comma(int64(report.Accepted)), humanize.Comma(int64(report.Rejected))))))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Loaded         %s", dot, dim.Render("nothing (upload via API)")))
	}
	lines = append(lines, fmt.Sprintf("    %s  Timezone       %s", check, dim.Render(cfg.Location.String())))
	lines = append(lines, "")

	lines = append(lines, bold.Render("    Config"))
	lines = append(lines, "")
	if cfg.ConfigPath != "" {
		lines = append(lines, fmt.Sprintf("    %s  Config File    %s", check, dim.Render(shortenPath(cfg.ConfigPath))))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Config File    %s", dot, dim.Render("default (no file)")))
	}
	if cfg.SeverityAliases != "" {
		lines = append(lines, fmt.Sprintf("    %s  Aliases        %s", check, dim.Render(shortenPath(cfg.SeverityAliases))))
	}

	lines = append(lines, "")
	lines = append(lines, separator)
	lines = append(lines, "")
	if cfg.APIEnabled {
		lines = append(lines, "    "+dim.Render("Press ")+yellow.Render("Ctrl+C")+dim.Render(" to stop"))
		lines = append(lines, "")
	}

	fmt.Println(strings.Join(lines, "\n"))
}

func shortenPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if strings.HasPrefix(path, home) {
		return "~" + path[len(home):]
	}
	return path
}
