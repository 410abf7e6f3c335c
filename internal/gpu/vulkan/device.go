package vulkan

import (
	"github.com/cockroachdb/errors"
	"github.com/jazz-engine/jazz/internal/gpu"
	"github.com/vkngwrapper/core/common"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/khr_surface"
	"github.com/vkngwrapper/extensions/khr_swapchain"
)

type physicalDevice struct {
	handle core1_0.PhysicalDevice
}

func (d *physicalDevice) Name() string {
	properties, err := d.handle.Properties()
	if err != nil {
		return "unknown device"
	}
	return properties.DeviceName
}

func (d *physicalDevice) QueueFamilies() []gpu.QueueFamily {
	var families []gpu.QueueFamily
	for _, queueFamily := range d.handle.QueueFamilyProperties() {
		families = append(families, gpu.QueueFamily{
			Graphics: (queueFamily.QueueFlags & core1_0.QueueGraphics) != 0,
		})
	}
	return families
}

func (d *physicalDevice) Extensions() (map[string]bool, error) {
	extensions, _, err := d.handle.EnumerateDeviceExtensionProperties()
	if err != nil {
		return nil, errors.Wrap(err, "vkEnumerateDeviceExtensionProperties")
	}

	names := make(map[string]bool, len(extensions))
	for name := range extensions {
		names[name] = true
	}
	return names, nil
}

func (d *physicalDevice) SamplerAnisotropy() bool {
	features := d.handle.Features()
	return features.SamplerAnisotropy
}

func (d *physicalDevice) FormatFeatures(format core1_0.Format) (linear, optimal core1_0.FormatFeatureFlags) {
	props := d.handle.FormatProperties(format)
	return props.LinearTilingFeatures, props.OptimalTilingFeatures
}

func (d *physicalDevice) MemoryTypes() []core1_0.MemoryPropertyFlags {
	memProperties := d.handle.MemoryProperties()

	flags := make([]core1_0.MemoryPropertyFlags, 0, len(memProperties.MemoryTypes))
	for _, memoryType := range memProperties.MemoryTypes {
		flags = append(flags, memoryType.PropertyFlags)
	}
	return flags
}

func (d *physicalDevice) CreateDevice(info gpu.DeviceInfo) (gpu.Device, error) {
	var queueFamilyOptions []core1_0.DeviceQueueCreateInfo
	queuePriority := float32(1.0)
	for _, queueFamily := range info.QueueFamilies {
		queueFamilyOptions = append(queueFamilyOptions, core1_0.DeviceQueueCreateInfo{
			QueueFamilyIndex: queueFamily,
			QueuePriorities:  []float32{queuePriority},
		})
	}

	handle, _, err := d.handle.CreateDevice(nil, core1_0.DeviceCreateInfo{
		QueueCreateInfos: queueFamilyOptions,
		EnabledFeatures: &core1_0.PhysicalDeviceFeatures{
			SamplerAnisotropy: info.SamplerAnisotropy,
		},
		EnabledExtensionNames: info.ExtensionNames,
	})
	if err != nil {
		return nil, errors.Wrap(err, "vkCreateDevice")
	}

	return &device{
		handle:             handle,
		swapchainExtension: khr_swapchain.CreateExtensionFromDevice(handle),
	}, nil
}

type device struct {
	handle             core1_0.Device
	swapchainExtension khr_swapchain.Extension
}

func (d *device) Queue(family int) gpu.Queue {
	return &queue{
		handle:             d.handle.GetQueue(family, 0),
		swapchainExtension: d.swapchainExtension,
	}
}

func (d *device) CreateSwapchain(info gpu.SwapchainInfo) (gpu.Swapchain, error) {
	handle, _, err := d.swapchainExtension.CreateSwapchain(d.handle, nil, khr_swapchain.SwapchainCreateInfo{
		Surface: info.Surface.(*surface).handle,

		MinImageCount:    info.MinImageCount,
		ImageFormat:      info.Format.Format,
		ImageColorSpace:  info.Format.ColorSpace,
		ImageExtent:      info.Extent,
		ImageArrayLayers: 1,
		ImageUsage:       core1_0.ImageUsageColorAttachment,

		ImageSharingMode:   info.SharingMode,
		QueueFamilyIndices: info.QueueFamilyIndices,

		PreTransform:   info.Capabilities.CurrentTransform,
		CompositeAlpha: khr_surface.CompositeAlphaOpaque,
		PresentMode:    info.PresentMode,
		Clipped:        true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "vkCreateSwapchainKHR")
	}

	return &swapchain{handle: handle}, nil
}

func (d *device) CreateSemaphore() (gpu.Semaphore, error) {
	handle, _, err := d.handle.CreateSemaphore(nil, core1_0.SemaphoreCreateInfo{})
	if err != nil {
		return nil, errors.Wrap(err, "vkCreateSemaphore")
	}
	return &semaphore{handle: handle}, nil
}

func (d *device) WaitIdle() error {
	_, err := d.handle.WaitIdle()
	return errors.Wrap(err, "vkDeviceWaitIdle")
}

func (d *device) Destroy() {
	d.handle.Destroy(nil)
}

type queue struct {
	handle             core1_0.Queue
	swapchainExtension khr_swapchain.Extension
}

func (q *queue) Submit(info gpu.SubmitInfo) error {
	commandBuffers := make([]core1_0.CommandBuffer, 0, len(info.CommandBuffers))
	for _, buffer := range info.CommandBuffers {
		commandBuffers = append(commandBuffers, buffer.(*commandBuffer).handle)
	}

	_, err := q.handle.Submit(nil, []core1_0.SubmitInfo{
		{
			WaitSemaphores:   semaphoreHandles(info.WaitSemaphores),
			WaitDstStageMask: info.WaitDstStageMask,
			CommandBuffers:   commandBuffers,
			SignalSemaphores: semaphoreHandles(info.SignalSemaphores),
		},
	})
	return errors.Wrap(err, "vkQueueSubmit")
}

func (q *queue) Present(info gpu.PresentInfo) error {
	_, err := q.swapchainExtension.QueuePresent(q.handle, khr_swapchain.PresentInfo{
		WaitSemaphores: semaphoreHandles(info.WaitSemaphores),
		Swapchains:     []khr_swapchain.Swapchain{info.Swapchain.(*swapchain).handle},
		ImageIndices:   []int{info.ImageIndex},
	})
	return errors.Wrap(err, "vkQueuePresentKHR")
}

type swapchain struct {
	handle khr_swapchain.Swapchain
}

func (s *swapchain) Images() ([]gpu.Image, error) {
	handles, _, err := s.handle.SwapchainImages()
	if err != nil {
		return nil, errors.Wrap(err, "vkGetSwapchainImagesKHR")
	}

	images := make([]gpu.Image, 0, len(handles))
	for _, handle := range handles {
		images = append(images, &image{handle: handle, presentable: true})
	}
	return images, nil
}

func (s *swapchain) AcquireNextImage(signal gpu.Semaphore) (int, error) {
	imageIndex, _, err := s.handle.AcquireNextImage(common.NoTimeout, signal.(*semaphore).handle, nil)
	if err != nil {
		return 0, errors.Wrap(err, "vkAcquireNextImageKHR")
	}
	return imageIndex, nil
}

func (s *swapchain) Destroy() {
	s.handle.Destroy(nil)
}

type semaphore struct {
	handle core1_0.Semaphore
}

func (s *semaphore) Destroy() {
	s.handle.Destroy(nil)
}

func semaphoreHandles(semaphores []gpu.Semaphore) []core1_0.Semaphore {
	handles := make([]core1_0.Semaphore, 0, len(semaphores))
	for _, s := range semaphores {
		handles = append(handles, s.(*semaphore).handle)
	}
	return handles
}
