package gputest

import (
	"github.com/cockroachdb/errors"
	"github.com/jazz-engine/jazz/internal/gpu"
)

// Provider stands in for the platform window.
type Provider struct {
	GPU           *GPU
	Extensions    []string
	Width, Height int

	// Surface is the last surface handed out.
	Surface gpu.Surface
}

func NewProvider(g *GPU) *Provider {
	return &Provider{
		GPU:        g,
		Extensions: []string{"VK_KHR_surface", "VK_KHR_xlib_surface"},
		Width:      800,
		Height:     600,
	}
}

func (p *Provider) RequiredExtensionNames() []string {
	return p.Extensions
}

func (p *Provider) CreateSurface(instance gpu.Instance) (gpu.Surface, error) {
	if _, ok := instance.(*Instance); !ok {
		return nil, errors.Newf("gputest: unexpected instance type %T", instance)
	}

	surface, err := p.GPU.NewSurface()
	if err != nil {
		return nil, err
	}
	p.Surface = surface
	return surface, nil
}

func (p *Provider) FramebufferExtent() (width, height int) {
	return p.Width, p.Height
}
