// Package gpu is the narrow slice of the Vulkan API the renderer consumes.
//
// Handles are interfaces so the renderer can be driven by the vkngwrapper
// implementation in package vulkan or by the in-memory fake in package gputest.
// Plain values (formats, extents, flags) are the vkngwrapper types themselves.
package gpu

import (
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/khr_surface"
)

// Destroyer releases the GPU object behind a handle. Nothing is garbage
// collected: every created handle must be destroyed exactly once, after
// everything that depends on it.
type Destroyer interface {
	Destroy()
}

// API is the loader level entry point: what the driver offers before an
// instance exists.
type API interface {
	AvailableExtensions() (map[string]bool, error)
	AvailableLayers() (map[string]bool, error)
	CreateInstance(info InstanceInfo) (Instance, error)
}

// PortabilityEnumerationExtension is VK_KHR_portability_enumeration. The
// vkngwrapper extensions release in use has no package for it.
const PortabilityEnumerationExtension = "VK_KHR_portability_enumeration"

type InstanceInfo struct {
	ApplicationName string
	EngineName      string
	ExtensionNames  []string
	LayerNames      []string

	// EnumeratePortability sets the portability enumeration flag, needed to
	// see MoltenVK style devices.
	EnumeratePortability bool

	// Debug, when set, also receives messages at or above DebugSeverity
	// emitted while the instance itself is being created or destroyed.
	Debug         DebugCallback
	DebugSeverity Severity
}

// Severity of a driver diagnostic.
type Severity int

const (
	SeverityVerbose Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityVerbose:
		return "verbose"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	}
	return "unknown"
}

type DebugCallback func(severity Severity, messageType string, message string)

type Instance interface {
	PhysicalDevices() ([]PhysicalDevice, error)
	// CreateDebugMessenger registers callback for messages at or above minSeverity.
	CreateDebugMessenger(minSeverity Severity, callback DebugCallback) (DebugMessenger, error)
	Destroy()
}

type DebugMessenger interface {
	Destroyer
}

// Surface is the presentation target. Queries are made against a physical
// device, the way VK_KHR_surface exposes them.
type Surface interface {
	SupportsPresentation(device PhysicalDevice, queueFamily int) (bool, error)
	Capabilities(device PhysicalDevice) (*khr_surface.SurfaceCapabilities, error)
	Formats(device PhysicalDevice) ([]khr_surface.SurfaceFormat, error)
	PresentModes(device PhysicalDevice) ([]khr_surface.PresentMode, error)
	Destroy()
}

type QueueFamily struct {
	Graphics bool
}

// SwapchainSupportDetails is a transient query result; it is never cached.
type SwapchainSupportDetails struct {
	Capabilities *khr_surface.SurfaceCapabilities
	Formats      []khr_surface.SurfaceFormat
	PresentModes []khr_surface.PresentMode
}

// PhysicalDevice is read-only and never destroyed.
type PhysicalDevice interface {
	Name() string
	QueueFamilies() []QueueFamily
	Extensions() (map[string]bool, error)
	SamplerAnisotropy() bool
	FormatFeatures(format core1_0.Format) (linear, optimal core1_0.FormatFeatureFlags)
	// MemoryTypes lists the property flags of each memory type slot, in slot order.
	MemoryTypes() []core1_0.MemoryPropertyFlags
	CreateDevice(info DeviceInfo) (Device, error)
}

type DeviceInfo struct {
	// QueueFamilies holds each distinct family once; one queue is created per family.
	QueueFamilies     []int
	ExtensionNames    []string
	SamplerAnisotropy bool
}

type Device interface {
	Queue(family int) Queue
	CreateSwapchain(info SwapchainInfo) (Swapchain, error)
	CreateImage(info ImageInfo) (Image, error)
	AllocateMemory(size int, memoryTypeIndex int) (Memory, error)
	CreateImageView(info ImageViewInfo) (ImageView, error)
	CreateRenderPass(info RenderPassInfo) (RenderPass, error)
	CreateShaderModule(code []uint32) (ShaderModule, error)
	CreatePipelineLayout() (PipelineLayout, error)
	CreateGraphicsPipeline(info PipelineInfo) (Pipeline, error)
	CreateFramebuffer(info FramebufferInfo) (Framebuffer, error)
	CreateCommandPool(queueFamily int) (CommandPool, error)
	CreateSemaphore() (Semaphore, error)
	WaitIdle() error
	Destroy()
}
