// Package platform owns the SDL window the renderer presents to and pumps
// its events.
package platform

import (
	"github.com/cockroachdb/errors"
	"github.com/jazz-engine/jazz/internal/config"
	"github.com/jazz-engine/jazz/internal/gpu"
	"github.com/jazz-engine/jazz/internal/gpu/vulkan"
	"github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"
)

// Window is an SDL window created with Vulkan support. All methods must be
// called from the main OS thread.
type Window struct {
	window    *sdl.Window
	log       logrus.FieldLogger
	pollEvent func() sdl.Event
}

func New(title string, cfg config.Window, log logrus.FieldLogger) (*Window, error) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, errors.Wrap(err, "init sdl")
	}

	window, err := sdl.CreateWindow(title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(cfg.Width), int32(cfg.Height), sdl.WINDOW_SHOWN|sdl.WINDOW_VULKAN)
	if err != nil {
		sdl.Quit()
		return nil, errors.Wrap(err, "create window")
	}

	w := &Window{
		window:    window,
		log:       log.WithField("component", "platform"),
		pollEvent: sdl.PollEvent,
	}

	width, height := w.FramebufferExtent()
	w.log.WithFields(logrus.Fields{
		"title":  title,
		"width":  width,
		"height": height,
	}).Debug("window created")
	return w, nil
}

// GraphicsAPI loads Vulkan through SDL's vkGetInstanceProcAddr.
func (w *Window) GraphicsAPI() (gpu.API, error) {
	api, err := vulkan.NewAPI(sdl.VulkanGetVkGetInstanceProcAddr())
	if err != nil {
		return nil, err
	}
	return api, nil
}

func (w *Window) RequiredExtensionNames() []string {
	return w.window.VulkanGetInstanceExtensions()
}

// CreateSurface binds a surface to instance. The caller owns it.
func (w *Window) CreateSurface(instance gpu.Instance) (gpu.Surface, error) {
	return vulkan.CreateSDLSurface(instance, w.window)
}

func (w *Window) FramebufferExtent() (width, height int) {
	drawableWidth, drawableHeight := w.window.VulkanGetDrawableSize()
	return int(drawableWidth), int(drawableHeight)
}

// RunEventLoop pumps events and calls onIterate once per iteration until the
// window is closed, Escape is pressed or onIterate fails. onDone is called
// exactly once afterwards, whatever ended the loop.
func (w *Window) RunEventLoop(onIterate func() error, onDone func() error) error {
	var err error

appLoop:
	for {
		for event := w.pollEvent(); event != nil; event = w.pollEvent() {
			if quitRequested(event) {
				w.log.Debug("quit requested")
				break appLoop
			}
		}

		if err = onIterate(); err != nil {
			break
		}
	}

	return errors.CombineErrors(err, onDone())
}

func quitRequested(event sdl.Event) bool {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return true
	case *sdl.KeyboardEvent:
		return e.Type == sdl.KEYDOWN && e.Keysym.Sym == sdl.K_ESCAPE
	}
	return false
}

// Destroy closes the window and shuts SDL down. It is safe to call twice.
func (w *Window) Destroy() {
	if w.window == nil {
		return
	}

	if err := w.window.Destroy(); err != nil {
		w.log.WithError(err).Warn("destroy window")
	}
	w.window = nil
	sdl.Quit()
}
