// Package renderer builds and drives the fixed Vulkan pipeline that draws the
// procedural triangle.
//
// Every GPU object is created by one of an ordered list of stages and pushed
// on a teardown stack; Destroy releases them in exactly the reverse order.
package renderer

import (
	"github.com/cockroachdb/errors"
	"github.com/jazz-engine/jazz/internal/config"
	"github.com/jazz-engine/jazz/internal/gpu"
	"github.com/loov/hrtime"
	"github.com/sirupsen/logrus"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/khr_surface"
	"github.com/vkngwrapper/extensions/khr_swapchain"
)

const engineName = "Jazz"

var validationLayers = []string{"VK_LAYER_KHRONOS_validation"}
var deviceExtensions = []string{khr_swapchain.ExtensionName}

// SurfaceProvider is the platform window the renderer presents to.
type SurfaceProvider interface {
	// RequiredExtensionNames lists the instance extensions the platform needs.
	RequiredExtensionNames() []string
	// CreateSurface binds a presentation surface to instance. The renderer owns
	// the surface afterwards.
	CreateSurface(instance gpu.Instance) (gpu.Surface, error)
	// FramebufferExtent is the current drawable size in pixels.
	FramebufferExtent() (width, height int)
}

// VulkanRenderer owns every GPU resource. It is not safe for concurrent use;
// one goroutine builds it, draws with it and destroys it.
type VulkanRenderer struct {
	api      gpu.API
	provider SurfaceProvider
	cfg      config.Renderer
	appName  string
	log      logrus.FieldLogger

	instance       gpu.Instance
	debugMessenger gpu.DebugMessenger
	surface        gpu.Surface
	physicalDevice gpu.PhysicalDevice
	queueFamilies  QueueFamilyIndices
	device         gpu.Device
	graphicsQueue  gpu.Queue
	presentQueue   gpu.Queue

	swapchain       gpu.Swapchain
	swapchainFormat khr_surface.SurfaceFormat
	presentMode     khr_surface.PresentMode
	swapchainExtent core1_0.Extent2D
	swapchainImages []gpu.Image
	imageViews      []gpu.ImageView

	depthFormat core1_0.Format
	depthImage  gpu.Image
	depthMemory gpu.Memory
	depthView   gpu.ImageView

	renderPass     gpu.RenderPass
	pipelineLayout gpu.PipelineLayout
	pipeline       gpu.Pipeline
	framebuffers   []gpu.Framebuffer
	commandPool    gpu.CommandPool
	commandBuffers []gpu.CommandBuffer

	imageAvailable gpu.Semaphore
	renderFinished gpu.Semaphore

	state     FrameState
	frames    uint64
	destroyed bool
	teardown  teardown
}

type stage struct {
	name  string
	build func() error
}

// stages is the construction order. Each stage only depends on the ones
// before it.
func (r *VulkanRenderer) stages() []stage {
	return []stage{
		{"instance", r.createInstance},
		{"debug messenger", r.setupDebugMessenger},
		{"surface", r.createSurface},
		{"physical device", r.pickPhysicalDevice},
		{"logical device", r.createLogicalDevice},
		{"swapchain", r.createSwapchain},
		{"image views", r.createImageViews},
		{"depth resources", r.createDepthResources},
		{"render pass", r.createRenderPass},
		{"graphics pipeline", r.createGraphicsPipeline},
		{"framebuffers", r.createFramebuffers},
		{"command buffers", r.createCommandBuffers},
		{"sync objects", r.createSyncObjects},
	}
}

// New builds the whole pipeline. When a stage fails, everything built before
// it is destroyed and the stage error is returned.
func New(api gpu.API, provider SurfaceProvider, appName string, cfg config.Renderer, log logrus.FieldLogger) (*VulkanRenderer, error) {
	r := &VulkanRenderer{
		api:      api,
		provider: provider,
		cfg:      cfg,
		appName:  appName,
		log:      log.WithField("component", "renderer"),
	}

	for _, s := range r.stages() {
		start := hrtime.Now()
		if err := s.build(); err != nil {
			r.Destroy()
			return nil, errors.Wrapf(err, "renderer: %s", s.name)
		}
		r.log.WithFields(logrus.Fields{
			"stage":    s.name,
			"duration": hrtime.Since(start),
		}).Debug("stage ready")
	}

	r.log.WithFields(logrus.Fields{
		"device":       r.physicalDevice.Name(),
		"extent":       r.swapchainExtent,
		"images":       len(r.swapchainImages),
		"present_mode": r.presentMode,
		"depth_format": r.depthFormat,
	}).Info("renderer ready")

	return r, nil
}

// Destroy releases every GPU object in reverse construction order. Calling it
// again is a no-op. The device must be idle, see DeviceWaitIdle.
func (r *VulkanRenderer) Destroy() {
	if r.destroyed {
		return
	}
	r.destroyed = true

	r.teardown.run(r.log)
	r.state = FrameIdle
}

// Stats describes the built pipeline and how many frames it drew.
type Stats struct {
	Device          string
	Extent          core1_0.Extent2D
	SwapchainImages int
	Framebuffers    int
	CommandBuffers  int
	Frames          uint64
}

func (r *VulkanRenderer) Stats() Stats {
	s := Stats{
		Extent:          r.swapchainExtent,
		SwapchainImages: len(r.swapchainImages),
		Framebuffers:    len(r.framebuffers),
		CommandBuffers:  len(r.commandBuffers),
		Frames:          r.frames,
	}
	if r.physicalDevice != nil {
		s.Device = r.physicalDevice.Name()
	}
	return s
}
