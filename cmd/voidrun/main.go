// voidrun - pseudo-3D heightfield runner in your terminal.
//
// Controls:
//
//	A/D, Left/Right  - Steer (switches to manual)
//	W/S, Up/Down     - Throttle
//	Space            - Toggle autopilot
//	R                - Restart the run
//	Esc, Ctrl+C      - Quit
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"go.uber.org/zap"

	"github.com/taigrr/voidrun/internal/config"
	"github.com/taigrr/voidrun/internal/logger"
	"github.com/taigrr/voidrun/internal/telemetry"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "voidrun - pseudo-3D heightfield runner\n\n")
		fmt.Fprintf(os.Stderr, "Usage: voidrun [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  A/D         - Steer\n")
		fmt.Fprintf(os.Stderr, "  W/S         - Throttle\n")
		fmt.Fprintf(os.Stderr, "  Space       - Toggle autopilot\n")
		fmt.Fprintf(os.Stderr, "  R           - Restart\n")
		fmt.Fprintf(os.Stderr, "  Esc         - Quit\n")
	}
	flags := config.RegisterFlags(flag.CommandLine)
	flag.Parse()

	if err := run(flags); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(flags *config.Flags) error {
	cfg, err := config.Load(flags)
	if err != nil {
		return err
	}
	if flags.WriteConfig != "" {
		if err := cfg.SaveTo(flags.WriteConfig); err != nil {
			return fmt.Errorf("write config: %w", err)
		}
		fmt.Printf("Config written to %s\n", flags.WriteConfig)
		return nil
	}

	headless := flags.Snapshot != ""
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile, headless); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	metrics := telemetry.New(cfg.Metrics.Namespace)
	if cfg.Metrics.Addr != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.Metrics.Addr, logger.Named("metrics")); err != nil {
				logger.Log.Error("metrics endpoint stopped", zap.Error(err))
			}
		}()
	}

	g, err := newGame(cfg, metrics)
	if err != nil {
		return err
	}

	if headless {
		return snapshot(g, flags.Snapshot, flags.Frames)
	}
	return play(ctx, g, cfg.Demo.FPS)
}

// snapshot simulates frames at the configured rate without a terminal and
// writes the last one as a PNG.
func snapshot(g *game, path string, frames int) error {
	g.rc.Resize(int(g.cfg.Render.ReferenceWidth), int(g.cfg.Render.ReferenceWidth*9/16))
	fps := max(g.cfg.Demo.FPS, 1)
	frame := time.Second / time.Duration(fps)
	for range max(frames, 1) {
		g.step(frame.Seconds())
		g.render()
		g.observe(frame)
	}
	if err := g.rc.Display().SavePNG(path); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	st := g.rc.Stats()
	logger.Log.Info("snapshot written",
		zap.String("path", path),
		zap.Int("frames", frames),
		zap.Int("faces", st.Faces),
		zap.Int("cells", st.Cells),
	)
	return nil
}

func play(ctx context.Context, g *game, fps int) error {
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)
	g.rc.Resize(width, max(height-1, 1)*2)

	cleanup := func() {
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}
	defer cleanup()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan uv.Event, 64)
	go func() {
		defer close(events)
		for ev := range term.Events() {
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	targetDuration := time.Second / time.Duration(max(fps, 1))
	lastFrame := time.Now()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				width, height = ev.Width, ev.Height
				term.Erase()
				term.Resize(width, height)
				g.rc.Resize(width, max(height-1, 1)*2)
			case uv.KeyPressEvent:
				if handleKey(g, ev) {
					return nil
				}
			}
			continue
		default:
		}

		now := time.Now()
		dt := now.Sub(lastFrame)
		lastFrame = now

		g.step(dt.Seconds())
		fb := g.render()
		status := g.status()

		term.Draw(uv.DrawableFunc(func(scr uv.Screen, area uv.Rectangle) {
			rows := area.Dy() - 1
			fb.Draw(scr, uv.Rect(area.Min.X, area.Min.Y, area.Dx(), rows))
			uv.NewStyledString(status).Draw(scr, uv.Rect(area.Min.X, area.Min.Y+rows, area.Dx(), 1))
		}))
		if err := term.Display(); err != nil {
			return fmt.Errorf("display: %w", err)
		}

		g.observe(dt)
		if elapsed := time.Since(now); elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}

// handleKey applies one key press and reports whether the user quit.
func handleKey(g *game, ev uv.KeyPressEvent) bool {
	switch {
	case ev.MatchString("escape", "ctrl+c"):
		return true
	case ev.MatchString("a", "left"):
		g.pilot.Auto = false
		g.pilot.Steer = max(g.pilot.Steer-0.5, -1)
	case ev.MatchString("d", "right"):
		g.pilot.Auto = false
		g.pilot.Steer = min(g.pilot.Steer+0.5, 1)
	case ev.MatchString("w", "up"):
		g.pilot.Throttle = min(g.pilot.Throttle+0.25, 2)
	case ev.MatchString("s", "down"):
		g.pilot.Throttle = max(g.pilot.Throttle-0.25, 0)
	case ev.MatchString("space"):
		g.pilot.Auto = !g.pilot.Auto
		g.pilot.Steer = 0
	case ev.MatchString("r"):
		g.restart()
	}
	return false
}
