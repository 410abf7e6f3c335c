// Package engine ties the platform window to the renderer and runs the frame
// loop.
package engine

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jazz-engine/jazz/internal/config"
	"github.com/jazz-engine/jazz/internal/gpu"
	"github.com/jazz-engine/jazz/internal/platform"
	"github.com/jazz-engine/jazz/internal/renderer"
	"github.com/loov/hrtime"
	"github.com/sirupsen/logrus"
)

// Platform is the window side of the engine.
type Platform interface {
	renderer.SurfaceProvider
	GraphicsAPI() (gpu.API, error)
	RunEventLoop(onIterate func() error, onDone func() error) error
	Destroy()
}

// Backend is the GPU side of the engine.
type Backend interface {
	DrawFrame() error
	DeviceWaitIdle() error
	Stats() renderer.Stats
	Destroy()
}

type backendFactory func(api gpu.API, provider renderer.SurfaceProvider) (Backend, error)

// Engine owns the platform and the renderer. It must be driven from the main
// OS thread.
type Engine struct {
	platform Platform
	backend  Backend
	log      logrus.FieldLogger

	statsInterval time.Duration
	now           func() time.Duration

	windowStart  time.Duration
	windowFrames int
	windowBusy   time.Duration
}

// New opens the window and builds the renderer on it.
func New(name string, cfg config.Configuration, log *logrus.Logger) (*Engine, error) {
	window, err := platform.New(name, cfg.Window, log)
	if err != nil {
		return nil, err
	}

	return newEngine(window, cfg, log, func(api gpu.API, provider renderer.SurfaceProvider) (Backend, error) {
		r, err := renderer.New(api, provider, name, cfg.Renderer, log)
		if err != nil {
			return nil, err
		}
		return r, nil
	})
}

func newEngine(p Platform, cfg config.Configuration, log logrus.FieldLogger, newBackend backendFactory) (*Engine, error) {
	api, err := p.GraphicsAPI()
	if err != nil {
		p.Destroy()
		return nil, errors.Wrap(err, "load graphics api")
	}

	backend, err := newBackend(api, p)
	if err != nil {
		p.Destroy()
		return nil, err
	}

	return &Engine{
		platform:      p,
		backend:       backend,
		log:           log.WithField("component", "engine"),
		statsInterval: cfg.Log.StatsInterval,
		now:           hrtime.Now,
	}, nil
}

// Run draws one frame per event loop iteration until the window closes, then
// waits for the device to go idle.
func (e *Engine) Run() error {
	e.log.Info("entering main loop")

	start := e.now()
	e.resetWindow(start)

	err := e.platform.RunEventLoop(e.onIterate, e.backend.DeviceWaitIdle)

	stats := e.backend.Stats()
	elapsed := e.now() - start
	fields := logrus.Fields{
		"frames":  stats.Frames,
		"elapsed": elapsed,
	}
	if elapsed > 0 {
		fields["fps"] = float64(stats.Frames) / elapsed.Seconds()
	}
	e.log.WithFields(fields).Info("main loop exited")

	return err
}

func (e *Engine) onIterate() error {
	begin := e.now()
	if err := e.backend.DrawFrame(); err != nil {
		return err
	}
	end := e.now()

	e.windowFrames++
	e.windowBusy += end - begin

	if e.statsInterval > 0 && end-e.windowStart >= e.statsInterval {
		e.logFrameStats(end)
		e.resetWindow(end)
	}
	return nil
}

func (e *Engine) logFrameStats(now time.Duration) {
	elapsed := now - e.windowStart
	e.log.WithFields(logrus.Fields{
		"frames":     e.windowFrames,
		"fps":        float64(e.windowFrames) / elapsed.Seconds(),
		"frame_time": e.windowBusy / time.Duration(e.windowFrames),
	}).Debug("frame stats")
}

func (e *Engine) resetWindow(now time.Duration) {
	e.windowStart = now
	e.windowFrames = 0
	e.windowBusy = 0
}

// Close destroys the renderer, then the window. The device must be idle,
// which Run guarantees.
func (e *Engine) Close() {
	if e.backend != nil {
		e.backend.Destroy()
		e.backend = nil
	}
	if e.platform != nil {
		e.platform.Destroy()
		e.platform = nil
	}
}
