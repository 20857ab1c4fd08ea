// Package cli wires configuration, the board service, the watcher, and the
// HTTP boundary together behind the liveboard command.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/bmadlabs/liveboard/internal/infrastructure/config"
	"github.com/bmadlabs/liveboard/internal/infrastructure/sse"
	"github.com/bmadlabs/liveboard/internal/infrastructure/watch"
	"github.com/bmadlabs/liveboard/pkg/application"
	"github.com/bmadlabs/liveboard/pkg/infrastructure/dashboard"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var (
	flagHost      string
	flagPort      int
	flagWorkspace string
	flagOutput    string
	flagDashboard string
	flagConfig    string
	flagNoWatch   bool
)

// RootCmd is the liveboard command. It has no subcommands: running it
// serves the board.
var RootCmd = &cobra.Command{
	Use:     "liveboard",
	Version: Version,
	Short:   "Serve the BMAD live board from filesystem artifacts",
	Long: `Liveboard reconstructs a project board (epics, stories, progress and
status) from hand-edited BMAD planning artifacts on disk and serves it as
JSON to a browser dashboard. Every request re-reads the source files, so
the board is never stale.`,
	RunE:          runServe,
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute runs the root command. This is called by main.main().
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	flags := RootCmd.Flags()
	flags.StringVar(&flagHost, "host", "127.0.0.1", "host to bind")
	flags.IntVar(&flagPort, "port", 4173, "port to bind")
	flags.StringVar(&flagWorkspace, "workspace", "", "workspace root (default: current directory)")
	flags.StringVar(&flagOutput, "output", "", "BMAD output directory (default: <workspace>/_bmad-output)")
	flags.StringVar(&flagDashboard, "dashboard", "", "dashboard HTML file (default: <workspace>/web/dashboard.html)")
	flags.StringVar(&flagConfig, "config", "", "config file (default: <workspace>/liveboard.yaml)")
	flags.BoolVar(&flagNoWatch, "no-watch", false, "disable filesystem watching and the /api/events stream")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	service := application.NewBoardService(cfg.WorkspaceRoot, cfg.BMADRoot, application.DefaultLayout())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var events http.Handler
	if cfg.Watch {
		if handler := startWatcher(ctx, cfg); handler != nil {
			events = handler
		}
	}

	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	server := dashboard.NewServer(addr, service, dashboard.Options{
		ResolveOutput: cfg.ResolveOutput,
		DashboardFile: cfg.Dashboard,
		Events:        events,
	})

	log.Printf("BMAD live board running at http://%s", addr)
	log.Printf("Dashboard URL: http://%s/%s", addr, filepath.Base(cfg.Dashboard))
	log.Printf("Default BMAD output path: %s", cfg.BMADOutput)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// loadConfig resolves the workspace root, overlays the optional yaml file,
// and applies explicit flag overrides on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	workspace := flagWorkspace
	if workspace == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolve workspace: %w", err)
		}
		workspace = cwd
	}
	workspace, err := filepath.Abs(workspace)
	if err != nil {
		return nil, fmt.Errorf("resolve workspace: %w", err)
	}

	cfg, err := config.Load(workspace, flagConfig)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("host") {
		cfg.Host = flagHost
	}
	if flags.Changed("port") {
		cfg.Port = flagPort
	}
	if flagOutput != "" {
		cfg.BMADOutput = cfg.ResolveOutput(flagOutput)
	}
	if flagDashboard != "" {
		if !filepath.IsAbs(flagDashboard) {
			flagDashboard = filepath.Join(workspace, flagDashboard)
		}
		cfg.Dashboard = flagDashboard
	}
	if flagNoWatch {
		cfg.Watch = false
	}

	return cfg, nil
}

// startWatcher begins watching the artifact tree and returns the SSE
// handler fed by it. Watch failures disable live push but never stop the
// server.
func startWatcher(ctx context.Context, cfg *config.Config) http.Handler {
	handler := sse.NewHandler()

	watcher, err := watch.NewArtifactWatcher(
		time.Duration(cfg.DebounceMS)*time.Millisecond,
		func(ev watch.ChangeEvent) {
			handler.Broadcast("board", ev.Path)
		},
	)
	if err != nil {
		log.Printf("live push disabled: %v", err)
		return nil
	}

	if err := watcher.WatchRecursive(cfg.BMADOutput); err != nil {
		log.Printf("live push disabled: %v", err)
		return nil
	}

	go func() {
		if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("watcher stopped: %v", err)
		}
	}()

	return handler
}
