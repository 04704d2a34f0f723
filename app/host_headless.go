package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/echoflaresat/orrery/render"
)

// HeadlessConfig controls the no-window runner.
type HeadlessConfig struct {
	Hz     int    // ticks per second
	Ticks  uint64 // stop after this many ticks; 0 runs until ctx ends
	Every  uint64 // write a frame every N ticks; 0 writes none
	OutDir string // directory for frame-NNNNNN.png files
}

// FramePath is where the headless runner writes the frame of a tick.
func FramePath(dir string, tick uint64) string {
	return filepath.Join(dir, fmt.Sprintf("frame-%06d.png", tick))
}

// RunHeadless ticks a at cfg.Hz without opening a window, writing PNG
// frames to cfg.OutDir.
func RunHeadless(ctx context.Context, a *Animator, cfg HeadlessConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}
	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}
	if cfg.Every > 0 {
		if cfg.OutDir == "" {
			cfg.OutDir = "."
		}
		if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
			return fmt.Errorf("create frame dir: %w", err)
		}
	}

	t := time.NewTicker(d)
	defer t.Stop()

	a.log.Info("headless run started", "hz", cfg.Hz, "ticks", cfg.Ticks, "every", cfg.Every, "out", cfg.OutDir)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			a.Tick()
			tick := a.Ticks()
			if cfg.Every > 0 && tick%cfg.Every == 0 {
				if err := writeFrame(ctx, a, FramePath(cfg.OutDir, tick)); err != nil {
					return err
				}
			}
			if cfg.Ticks > 0 && tick >= cfg.Ticks {
				a.log.Info("headless run finished", "ticks", tick, "time", a.State().Time)
				return nil
			}
		}
	}
}

func writeFrame(ctx context.Context, a *Animator, path string) error {
	img, err := a.Frame(ctx)
	if err != nil {
		return err
	}
	if err := render.WritePNG(path, img); err != nil {
		return fmt.Errorf("write frame %s: %w", path, err)
	}
	a.log.Debug("frame written", "path", path)
	return nil
}
