package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flowy/app"
	"github.com/pthm-cable/flowy/config"
	"github.com/pthm-cable/flowy/term"
	"github.com/pthm-cable/flowy/viewer"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	tui := flag.Bool("tui", false, "Render the scalar field in the terminal")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for snapshot files")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "Scenario seed (0 = use config)")
	maxSteps := flag.Int("max-steps", 0, "Stop after N steps (0 = unlimited)")
	loadSnapshot := flag.String("load-snapshot", "", "Start from a snapshot file")
	debug := flag.Bool("debug", false, "Log every step")

	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// The terminal viewer owns stdout, so logs go to stderr there.
	logOut := os.Stdout
	if *tui {
		logOut = os.Stderr
	}
	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	a, err := app.New(cfg, app.Options{
		Seed:        *seed,
		LogStats:    *logStats,
		SnapshotDir: *snapshotDir,
		OutputDir:   *outputDir,
		Logger:      logger,
	})
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := a.Unload(); err != nil {
			slog.Error("failed to close output", "error", err)
		}
	}()

	if *loadSnapshot != "" {
		if err := a.LoadSnapshotFile(*loadSnapshot); err != nil {
			slog.Error("failed to load snapshot", "path", *loadSnapshot, "error", err)
			return
		}
	}

	switch {
	case *headless:
		runHeadless(a, *maxSteps)
	case *tui:
		runTerminal(a, *maxSteps)
	default:
		runWindow(a, *maxSteps)
	}
}

func reachedMax(a *app.App, maxSteps int) bool {
	return maxSteps > 0 && a.StepCount() >= uint64(maxSteps)
}

func runHeadless(a *app.App, maxSteps int) {
	slog.Info("starting headless simulation",
		"seed", a.Seed(),
		"max_steps", maxSteps,
		"steps_per_update", a.Config().Simulation.StepsPerUpdate,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	for ctx.Err() == nil {
		if err := a.UpdateHeadless(); err != nil {
			slog.Error("simulation stopped", "step", a.StepCount(), "error", err)
			return
		}
		if reachedMax(a, maxSteps) {
			slog.Info("max steps reached", "step", a.StepCount())
			return
		}
	}
	slog.Info("interrupted", "step", a.StepCount())
}

// stepLimited stops the terminal viewer once maxSteps is reached.
type stepLimited struct {
	*app.App
	maxSteps int
	cancel   context.CancelFunc
}

func (s stepLimited) Step() error {
	err := s.App.Step()
	if reachedMax(s.App, s.maxSteps) {
		s.cancel()
	}
	return err
}

func runTerminal(a *app.App, maxSteps int) {
	screen, err := tcell.NewScreen()
	if err != nil {
		slog.Error("failed to open terminal", "error", err)
		return
	}
	if err := screen.Init(); err != nil {
		slog.Error("failed to init terminal", "error", err)
		return
	}
	defer screen.Fini()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	model := stepLimited{App: a, maxSteps: maxSteps, cancel: cancel}
	v := term.NewViewer(screen, model, a.Config().Derived.StepInterval)
	v.SetRunning(true)
	if err := v.Run(ctx); err != nil && ctx.Err() == nil {
		slog.Error("terminal viewer stopped", "error", err)
	}
}

func runWindow(a *app.App, maxSteps int) {
	cfg := a.Config()
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "flowy")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	w := viewer.New(a)
	defer w.Unload()

	for !rl.WindowShouldClose() {
		w.Update()
		w.Draw()

		if reachedMax(a, maxSteps) {
			slog.Info("max steps reached", "step", a.StepCount())
			break
		}
	}
}
