package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/jwulff/ledstrip-go/internal/arbiter"
	"github.com/jwulff/ledstrip-go/internal/config"
	"github.com/jwulff/ledstrip-go/internal/domain"
	"github.com/jwulff/ledstrip-go/internal/driver"
	"github.com/jwulff/ledstrip-go/internal/layout"
	"github.com/jwulff/ledstrip-go/internal/pixoo"
	"github.com/jwulff/ledstrip-go/internal/preview"
	"github.com/jwulff/ledstrip-go/internal/render"
	"github.com/jwulff/ledstrip-go/internal/storage"
	"github.com/jwulff/ledstrip-go/internal/storage/sqlite"
)

const (
	backgroundPriority = 0
	alertPriority      = 1

	alertFlashes = 2
	fadeSteps    = 8
)

var alertColor = domain.NewPixel(255, 0, 0)

func runCommand(args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	store, err := sqlite.NewFileStore(cfg.Store.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	profile, err := activeProfile(ctx, store, cfg)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}
	applyProfile(cfg, profile)
	log.Info().Str("profile", profile.Name).Stringer("layout", cfg.Matrix).Str("output", cfg.Output.Kind).Msg("starting")

	out, server, err := openOutput(cfg, log)
	if err != nil {
		return err
	}
	defer out.Close()

	ctrl := arbiter.NewController(out, arbiter.WithLogger(log))

	m := hueGradient(cfg.Matrix)
	if frame, err := store.GetCachedFrame(ctx, profile.ID); err == nil &&
		frame.Rows == cfg.Matrix.Rows && frame.Columns == cfg.Matrix.Columns {
		m = frame.Matrix()
		log.Info().Time("generated_at", frame.GeneratedAt).Msg("resuming cached frame")
	}

	g, gctx := errgroup.WithContext(ctx)
	if server != nil {
		g.Go(func() error {
			log.Info().Str("addr", server.Addr).Msg("preview listening")
			if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("preview server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		})
	}
	g.Go(func() error {
		return runBackground(gctx, ctrl, m, cfg.Run.FPS, log)
	})
	g.Go(func() error {
		return runAlerts(gctx, ctrl, cfg.Matrix, cfg.Run, log)
	})

	err = g.Wait()
	log.Info().Msg("stopping")

	if serr := ctrl.Shutdown(); serr != nil {
		log.Warn().Err(serr).Msg("failed to blank output")
	}
	if cerr := store.CacheFrame(context.Background(), storage.NewCachedFrame(profile.ID, m)); cerr != nil {
		log.Warn().Err(cerr).Msg("failed to cache frame")
	}
	return err
}

// openOutput creates the configured sink. The server is non-nil for the
// preview output and must be started by the caller.
func openOutput(cfg *config.Config, log zerolog.Logger) (driver.Driver, *http.Server, error) {
	l := cfg.Matrix
	timing := cfg.Timing()
	brightness := cfg.Driver.Brightness

	switch cfg.Output.Kind {
	case config.OutputSPI:
		s, err := driver.OpenSPI(cfg.Output.SPI.Port, l, timing,
			driver.WithLogger(log), driver.WithBrightness(brightness))
		if err != nil {
			return nil, nil, err
		}
		return s, nil, nil

	case config.OutputPixoo:
		client := pixoo.NewClientWithPort(cfg.Output.Pixoo.IP, cfg.Output.Pixoo.Port)
		s, err := pixoo.NewSink(client, l, log)
		if err != nil {
			return nil, nil, err
		}
		s.SetBrightness(brightness)
		return s, nil, nil

	case config.OutputPreview:
		hub := preview.NewHub(l, log)
		hub.SetBrightness(brightness)
		server := &http.Server{
			Addr:              cfg.Output.Preview.Addr,
			Handler:           hub.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		return hub, server, nil

	case config.OutputRecord:
		r := driver.NewRecorder(l, timing.Format)
		r.Limit = 1
		r.SetBrightness(brightness)
		r.OnShow = func(wire []byte) {
			log.Trace().Hex("wire", wire).Msg("frame")
		}
		return r, nil, nil
	}
	return nil, nil, fmt.Errorf("%w %q", config.ErrUnknownOutput, cfg.Output.Kind)
}

// hueGradient spreads the hue circle over the columns of l.
func hueGradient(l layout.Layout) *domain.Matrix {
	m := l.NewMatrix(domain.Black)
	render.HueGradient(m, 255, 128)
	return m
}

// runBackground scrolls m one column per frame at the lowest priority.
func runBackground(ctx context.Context, ctrl *arbiter.Controller, m *domain.Matrix, fps int, log zerolog.Logger) error {
	guard := ctrl.Acquire(backgroundPriority)
	defer guard.Release()

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.ScrollLeft(1)
			if _, err := guard.Show(m.Buffer()); err != nil {
				log.Debug().Err(err).Msg("background frame failed")
			}
		}
	}
}

// runAlerts takes over the output every interval to flash the matrix and
// scroll the alert text across it.
func runAlerts(ctx context.Context, ctrl *arbiter.Controller, l layout.Layout, run config.Run, log zerolog.Logger) error {
	if run.AlertEvery <= 0 {
		return nil
	}

	ticker := time.NewTicker(run.AlertEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			log.Info().Str("text", run.AlertText).Msg("alert")
			alert(ctx, ctrl, l, run, log)
		}
	}
}

func alert(ctx context.Context, ctrl *arbiter.Controller, l layout.Layout, run config.Run, log zerolog.Logger) {
	guard := ctrl.Acquire(alertPriority)
	defer guard.Release()

	ticker := time.NewTicker(time.Second / time.Duration(run.FPS))
	defer ticker.Stop()

	show := func(pixels domain.Buffer) bool {
		if _, err := guard.Show(pixels); err != nil {
			log.Debug().Err(err).Msg("alert frame failed")
		}
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
			return true
		}
	}

	m := l.NewMatrix(domain.Black)
	for i := 0; i < alertFlashes; i++ {
		for step := 0; step <= 2*fadeSteps; step++ {
			t := float64(step) / fadeSteps
			if t > 1 {
				t = 2 - t
			}
			m.Fill(render.Lerp(domain.Black, alertColor, t))
			if !show(m.Buffer()) {
				return
			}
		}
	}

	if run.AlertText == "" {
		return
	}
	banner := render.NewBanner(run.AlertText, alertColor, m.Rows(), m.Columns())
	for !banner.Done() {
		banner.Step(m)
		if !show(m.Buffer()) {
			return
		}
	}
}
