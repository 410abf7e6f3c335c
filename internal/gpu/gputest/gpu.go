// Package gputest provides an in-memory implementation of package gpu.
//
// The fake records every creation and destruction in order, every queue
// submission and presentation, and lets a test fail any operation by name
// through GPU.FailOn.
package gputest

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/jazz-engine/jazz/internal/gpu"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/khr_surface"
)

// GPU is the fake loader. It implements gpu.API.
type GPU struct {
	InstanceExtensions []string
	Layers             []string
	Devices            []*PhysicalDevice

	// FailOn maps an operation name such as "CreateRenderPass" or "Submit"
	// to the error it returns.
	FailOn map[string]error

	// NextImage, when set, overrides the round-robin image index returned by
	// AcquireNextImage.
	NextImage func() int

	Events         []string
	DoubleDestroys []string

	InstanceInfo   gpu.InstanceInfo
	DeviceInfo     gpu.DeviceInfo
	SwapchainInfo  gpu.SwapchainInfo
	RenderPassInfo gpu.RenderPassInfo
	PipelineInfo   gpu.PipelineInfo
	ImageInfos     []gpu.ImageInfo
	ViewInfos      []gpu.ImageViewInfo
	Allocations    []Allocation
	ShaderCode     [][]uint32
	CommandBuffers []*CommandBuffer

	Submissions   []Submission
	Presentations []Presentation

	objects    []*object
	counts     map[string]int
	messengers []*debugMessenger
}

type Allocation struct {
	Size            int
	MemoryTypeIndex int
}

type Submission struct {
	QueueFamily int
	Info        gpu.SubmitInfo
}

type Presentation struct {
	QueueFamily int
	Info        gpu.PresentInfo
}

// New returns a fake offering devices, the khronos validation layer and the
// surface extensions.
func New(devices ...*PhysicalDevice) *GPU {
	g := &GPU{
		InstanceExtensions: []string{"VK_KHR_surface", "VK_KHR_xlib_surface", "VK_EXT_debug_utils"},
		Layers:             []string{"VK_LAYER_KHRONOS_validation"},
		FailOn:             map[string]error{},
		counts:             map[string]int{},
	}
	for _, device := range devices {
		g.AddDevice(device)
	}
	return g
}

func (g *GPU) AddDevice(device *PhysicalDevice) {
	device.gpu = g
	g.Devices = append(g.Devices, device)
}

// Live lists the objects created and not yet destroyed, in creation order.
func (g *GPU) Live() []string {
	var live []string
	for _, o := range g.objects {
		if !o.destroyed {
			live = append(live, o.name)
		}
	}
	return live
}

// Emit delivers a diagnostic to every live debug callback whose threshold
// admits severity, plus the instance creation callback.
func (g *GPU) Emit(severity gpu.Severity, message string) {
	if g.InstanceInfo.Debug != nil && severity >= g.InstanceInfo.DebugSeverity {
		g.InstanceInfo.Debug(severity, "validation", message)
	}
	for _, m := range g.messengers {
		if !m.destroyed && severity >= m.minSeverity {
			m.callback(severity, "validation", message)
		}
	}
}

func (g *GPU) record(event string) {
	g.Events = append(g.Events, event)
}

func (g *GPU) fail(op string) error {
	if err, ok := g.FailOn[op]; ok {
		return errors.Wrap(err, op)
	}
	return nil
}

func (g *GPU) create(op, kind string) (*object, error) {
	if err := g.fail(op); err != nil {
		return nil, err
	}

	o := &object{gpu: g, name: fmt.Sprintf("%s#%d", kind, g.counts[kind])}
	g.counts[kind]++
	g.objects = append(g.objects, o)
	g.record("create " + o.name)
	return o, nil
}

type object struct {
	gpu       *GPU
	name      string
	destroyed bool
}

func (o *object) Destroy() {
	if o.destroyed {
		o.gpu.DoubleDestroys = append(o.gpu.DoubleDestroys, o.name)
		return
	}
	o.destroyed = true
	o.gpu.record("destroy " + o.name)
}

func (o *object) String() string {
	return o.name
}

func nameSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return set
}

func (g *GPU) AvailableExtensions() (map[string]bool, error) {
	if err := g.fail("AvailableExtensions"); err != nil {
		return nil, err
	}
	return nameSet(g.InstanceExtensions), nil
}

func (g *GPU) AvailableLayers() (map[string]bool, error) {
	if err := g.fail("AvailableLayers"); err != nil {
		return nil, err
	}
	return nameSet(g.Layers), nil
}

func (g *GPU) CreateInstance(info gpu.InstanceInfo) (gpu.Instance, error) {
	o, err := g.create("CreateInstance", "instance")
	if err != nil {
		return nil, err
	}
	g.InstanceInfo = info
	return &Instance{object: o}, nil
}

type Instance struct {
	*object
}

func (i *Instance) PhysicalDevices() ([]gpu.PhysicalDevice, error) {
	if err := i.gpu.fail("PhysicalDevices"); err != nil {
		return nil, err
	}

	devices := make([]gpu.PhysicalDevice, 0, len(i.gpu.Devices))
	for _, device := range i.gpu.Devices {
		devices = append(devices, device)
	}
	return devices, nil
}

func (i *Instance) CreateDebugMessenger(minSeverity gpu.Severity, callback gpu.DebugCallback) (gpu.DebugMessenger, error) {
	o, err := i.gpu.create("CreateDebugMessenger", "debug messenger")
	if err != nil {
		return nil, err
	}

	m := &debugMessenger{object: o, minSeverity: minSeverity, callback: callback}
	i.gpu.messengers = append(i.gpu.messengers, m)
	return m, nil
}

type debugMessenger struct {
	*object
	minSeverity gpu.Severity
	callback    gpu.DebugCallback
}

// NewSurface creates a presentation surface, as a platform layer would.
func (g *GPU) NewSurface() (gpu.Surface, error) {
	o, err := g.create("CreateSurface", "surface")
	if err != nil {
		return nil, err
	}
	return &Surface{object: o}, nil
}

// Surface answers presentation queries from the fake PhysicalDevice passed
// to it.
type Surface struct {
	*object
	// Queries counts capability queries.
	Queries int
}

func (s *Surface) SupportsPresentation(device gpu.PhysicalDevice, queueFamily int) (bool, error) {
	if err := s.gpu.fail("SupportsPresentation"); err != nil {
		return false, err
	}
	return device.(*PhysicalDevice).PresentFamilies[queueFamily], nil
}

func (s *Surface) Capabilities(device gpu.PhysicalDevice) (*khr_surface.SurfaceCapabilities, error) {
	if err := s.gpu.fail("Capabilities"); err != nil {
		return nil, err
	}
	s.Queries++
	capabilities := device.(*PhysicalDevice).Capabilities
	return &capabilities, nil
}

func (s *Surface) Formats(device gpu.PhysicalDevice) ([]khr_surface.SurfaceFormat, error) {
	if err := s.gpu.fail("Formats"); err != nil {
		return nil, err
	}
	return device.(*PhysicalDevice).SurfaceFormats, nil
}

func (s *Surface) PresentModes(device gpu.PhysicalDevice) ([]khr_surface.PresentMode, error) {
	if err := s.gpu.fail("PresentModes"); err != nil {
		return nil, err
	}
	return device.(*PhysicalDevice).PresentModes, nil
}

// Tiling holds the format features reported for each tiling mode.
type Tiling struct {
	Linear  core1_0.FormatFeatureFlags
	Optimal core1_0.FormatFeatureFlags
}

// PhysicalDevice is a configurable fake GPU.
type PhysicalDevice struct {
	DeviceName       string
	Families         []gpu.QueueFamily
	PresentFamilies  map[int]bool
	SurfaceFormats   []khr_surface.SurfaceFormat
	PresentModes     []khr_surface.PresentMode
	Capabilities     khr_surface.SurfaceCapabilities
	DeviceExtensions []string
	Anisotropy       bool
	FormatSupport    map[core1_0.Format]Tiling
	Memory           []core1_0.MemoryPropertyFlags
	ImageMemoryBits  uint32
	SwapchainImages  int

	gpu *GPU
}

// NewDevice returns a device that satisfies every renderer requirement: one
// family doing graphics and presentation, the preferred surface format, both
// present modes, a D32 depth format and a device-local memory type.
func NewDevice() *PhysicalDevice {
	return &PhysicalDevice{
		DeviceName:      "fake gpu",
		Families:        []gpu.QueueFamily{{Graphics: true}},
		PresentFamilies: map[int]bool{0: true},
		SurfaceFormats: []khr_surface.SurfaceFormat{
			{Format: core1_0.FormatB8G8R8A8SRGB, ColorSpace: khr_surface.ColorSpaceSRGBNonlinear},
		},
		PresentModes: []khr_surface.PresentMode{khr_surface.PresentModeFIFO, khr_surface.PresentModeMailbox},
		Capabilities: khr_surface.SurfaceCapabilities{
			MinImageCount:  2,
			MaxImageCount:  8,
			CurrentExtent:  core1_0.Extent2D{Width: 800, Height: 600},
			MinImageExtent: core1_0.Extent2D{Width: 1, Height: 1},
			MaxImageExtent: core1_0.Extent2D{Width: 4096, Height: 4096},
		},
		DeviceExtensions: []string{"VK_KHR_swapchain"},
		Anisotropy:       true,
		FormatSupport: map[core1_0.Format]Tiling{
			core1_0.FormatD32SignedFloat: {Optimal: core1_0.FormatFeatureDepthStencilAttachment},
		},
		Memory: []core1_0.MemoryPropertyFlags{
			core1_0.MemoryPropertyHostVisible | core1_0.MemoryPropertyHostCoherent,
			core1_0.MemoryPropertyDeviceLocal,
		},
		ImageMemoryBits: 0b11,
		SwapchainImages: 3,
	}
}

func (d *PhysicalDevice) Name() string {
	return d.DeviceName
}

func (d *PhysicalDevice) QueueFamilies() []gpu.QueueFamily {
	return d.Families
}

func (d *PhysicalDevice) Extensions() (map[string]bool, error) {
	if err := d.gpu.fail("Extensions"); err != nil {
		return nil, err
	}
	return nameSet(d.DeviceExtensions), nil
}

func (d *PhysicalDevice) SamplerAnisotropy() bool {
	return d.Anisotropy
}

func (d *PhysicalDevice) FormatFeatures(format core1_0.Format) (linear, optimal core1_0.FormatFeatureFlags) {
	tiling := d.FormatSupport[format]
	return tiling.Linear, tiling.Optimal
}

func (d *PhysicalDevice) MemoryTypes() []core1_0.MemoryPropertyFlags {
	return d.Memory
}

func (d *PhysicalDevice) CreateDevice(info gpu.DeviceInfo) (gpu.Device, error) {
	o, err := d.gpu.create("CreateDevice", "device")
	if err != nil {
		return nil, err
	}
	d.gpu.DeviceInfo = info
	return &Device{object: o, physical: d}, nil
}
