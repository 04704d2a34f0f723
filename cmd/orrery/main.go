package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/echoflaresat/orrery/almanac"
	"github.com/echoflaresat/orrery/app"
	"github.com/echoflaresat/orrery/colors"
	"github.com/echoflaresat/orrery/kinematics"
	"github.com/echoflaresat/orrery/render"
	"github.com/echoflaresat/orrery/scene"
	"github.com/echoflaresat/orrery/texture"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type config struct {
	width, height, supersample, workers, scale *int

	headless     *bool
	ticks, every *uint64
	hz           *int
	out          *string

	texture, date                  *string
	sunIntensity, ambientIntensity *float64
	sunColor                       *string

	metricsAddr         *string
	logLevel, logFormat *string
	showHelp            *bool
}

func defineFlags() config {
	return config{
		width:       flag.Int("width", 640, "Render width in pixels"),
		height:      flag.Int("height", 360, "Render height in pixels"),
		supersample: flag.Int("supersample", 1, "Supersampling factor (higher is slower but smoother)"),
		workers:     flag.Int("workers", 0, "Parallel render rows (0 uses all CPUs)"),
		scale:       flag.Int("scale", 2, "Window pixels per rendered pixel"),

		headless: flag.Bool("headless", false, "Run without a window and write PNG frames"),
		ticks:    flag.Uint64("ticks", 0, "Stop after N ticks in headless mode (0 = run forever)"),
		hz:       flag.Int("hz", 60, "Tick rate in headless mode"),
		every:    flag.Uint64("every", 60, "Write a frame every N ticks in headless mode (0 = none)"),
		out:      flag.String("out", "frames", "Output directory for headless frames"),

		texture:          flag.String("texture", "", "Equirectangular earth texture (TIFF, PNG, JPEG, BMP or WebP)"),
		date:             flag.String("date", "", "Start at this date in RFC3339 format (e.g., 2025-08-02T15:04:05Z)"),
		sunIntensity:     flag.Float64("sun-intensity", scene.DefaultSunIntensity, "Sun light intensity"),
		sunColor:         flag.String("sun-color", "#ffffff", "Sun light color"),
		ambientIntensity: flag.Float64("ambient-intensity", scene.DefaultAmbientIntensity, "Ambient light intensity"),

		metricsAddr: flag.String("metrics-addr", "", "Serve Prometheus metrics on this address (e.g., :9090)"),
		logLevel:    flag.String("log-level", "info", "Log level: debug, info, warn or error"),
		logFormat:   flag.String("log-format", "text", "Log format: text or json"),

		showHelp: flag.Bool("h", false, "Show this help message"),
	}
}

func printHelp() {
	fmt.Fprintf(os.Stderr, `Orrery - Sun, Earth and Moon animation

Usage:
  %[1]s [options]

Window controls: drag to orbit, scroll to zoom, Tab/arrows/Enter for the
light panel, Shift+Left/Right for colour saturation, H hides the panel,
Esc quits.

`, os.Args[0])

	printGroup("Rendering Options", []string{"width", "height", "supersample", "workers", "scale"})
	printGroup("Headless Options", []string{"headless", "ticks", "hz", "every", "out"})
	printGroup("Scene Options", []string{"texture", "date", "sun-intensity", "sun-color", "ambient-intensity"})
	printGroup("Observability", []string{"metrics-addr", "log-level", "log-format"})
	printGroup("Misc", []string{"h"})
}

func printGroup(title string, keys []string) {
	fmt.Fprintf(os.Stderr, "%s:\n", title)
	for _, name := range keys {
		if f := flag.Lookup(name); f != nil {
			fmt.Fprintf(os.Stderr, "  -%-18s %s (default %q)\n", f.Name, f.Usage, f.DefValue)
		}
	}
	fmt.Fprintln(os.Stderr)
}

func main() {
	cfg := defineFlags()
	flag.Usage = printHelp
	flag.Parse()

	if *cfg.showHelp {
		printHelp()
		return
	}

	log := app.NewLogger(os.Stderr, *cfg.logLevel, *cfg.logFormat)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("orrery failed", "err", err)
		os.Exit(1)
	}
}

func run(cfg config, log *slog.Logger) error {
	start, err := startState(*cfg.date)
	if err != nil {
		return err
	}

	sceneOpts := scene.DefaultOptions()
	sceneOpts.SunIntensity = *cfg.sunIntensity
	sceneOpts.AmbientIntensity = *cfg.ambientIntensity
	if sceneOpts.SunColor, err = colors.Parse(*cfg.sunColor); err != nil {
		return fmt.Errorf("-sun-color: %w", err)
	}
	if *cfg.texture != "" {
		tex, err := texture.Load(*cfg.texture)
		if err != nil {
			return err
		}
		defer tex.Close()
		sceneOpts.EarthMap = tex
		log.Info("earth texture loaded", "path", *cfg.texture, "width", tex.Width, "height", tex.Height)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := app.NewMetrics(reg)
	if err != nil {
		return err
	}
	if *cfg.metricsAddr != "" {
		stop := serveMetrics(*cfg.metricsAddr, metrics, log)
		defer stop()
	}

	a := app.New(app.Config{
		Render: render.Options{
			Width:          *cfg.width,
			Height:         *cfg.height,
			Supersample:    *cfg.supersample,
			Workers:        *cfg.workers,
			ShadowSamples:  render.DefaultOptions().ShadowSamples,
			ShadowSoftness: render.DefaultOptions().ShadowSoftness,
		},
		Scene:   sceneOpts,
		Start:   start,
		Metrics: metrics,
		Logger:  log,
	})

	if *cfg.headless {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		err := app.RunHeadless(ctx, a, app.HeadlessConfig{
			Hz:     *cfg.hz,
			Ticks:  *cfg.ticks,
			Every:  *cfg.every,
			OutDir: *cfg.out,
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}

	w, h := a.Size()
	return app.RunWindow(a, app.WindowConfig{Width: w * *cfg.scale, Height: h * *cfg.scale, Scale: *cfg.scale})
}

func startState(date string) (kinematics.State, error) {
	if date == "" {
		return kinematics.State{}, nil
	}
	t, err := time.Parse(time.RFC3339, date)
	if err != nil {
		return kinematics.State{}, fmt.Errorf("invalid -date: %w", err)
	}
	return almanac.StateAt(t)
}

func serveMetrics(addr string, m *app.Metrics, log *slog.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Info("serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server stopped", "err", err)
		}
	}()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
