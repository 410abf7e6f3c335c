package renderer

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/jazz-engine/jazz/internal/gpu"
	"github.com/sirupsen/logrus"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/khr_surface"
)

// querySwapchainSupport asks the surface again on every call; the answer
// changes with the window.
func (r *VulkanRenderer) querySwapchainSupport(device gpu.PhysicalDevice) (gpu.SwapchainSupportDetails, error) {
	var details gpu.SwapchainSupportDetails
	var err error

	details.Capabilities, err = r.surface.Capabilities(device)
	if err != nil {
		return details, err
	}

	details.Formats, err = r.surface.Formats(device)
	if err != nil {
		return details, err
	}

	details.PresentModes, err = r.surface.PresentModes(device)
	return details, err
}

// chooseSurfaceFormat prefers 8 bit BGRA in the sRGB non-linear color space
// and otherwise settles for the first format offered. formats must not be
// empty.
func chooseSurfaceFormat(formats []khr_surface.SurfaceFormat) khr_surface.SurfaceFormat {
	for _, format := range formats {
		if format.Format == core1_0.FormatB8G8R8A8SRGB && format.ColorSpace == khr_surface.ColorSpaceSRGBNonlinear {
			return format
		}
	}

	return formats[0]
}

// choosePresentMode prefers mailbox; FIFO is always available.
func choosePresentMode(presentModes []khr_surface.PresentMode) khr_surface.PresentMode {
	for _, presentMode := range presentModes {
		if presentMode == khr_surface.PresentModeMailbox {
			return presentMode
		}
	}

	return khr_surface.PresentModeFIFO
}

// undefinedExtent reports the "extent decided by the swapchain" sentinel,
// 0xFFFFFFFF, which arrives as -1 on most platforms.
func undefinedExtent(width int) bool {
	return width == -1 || uint32(width) == math.MaxUint32
}

// chooseExtent uses the surface's current extent unless it is undefined, in
// which case the framebuffer size is clamped into the supported range.
func chooseExtent(capabilities *khr_surface.SurfaceCapabilities, framebufferWidth, framebufferHeight int) core1_0.Extent2D {
	if !undefinedExtent(capabilities.CurrentExtent.Width) {
		return capabilities.CurrentExtent
	}

	return core1_0.Extent2D{
		Width:  clamp(framebufferWidth, capabilities.MinImageExtent.Width, capabilities.MaxImageExtent.Width),
		Height: clamp(framebufferHeight, capabilities.MinImageExtent.Height, capabilities.MaxImageExtent.Height),
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		v = lo
	}
	if v > hi {
		v = hi
	}
	return v
}

// chooseImageCount asks for one image more than the minimum, capped by the
// maximum when the surface declares one.
func chooseImageCount(capabilities *khr_surface.SurfaceCapabilities) int {
	imageCount := capabilities.MinImageCount + 1
	if capabilities.MaxImageCount > 0 && capabilities.MaxImageCount < imageCount {
		imageCount = capabilities.MaxImageCount
	}
	return imageCount
}

func (r *VulkanRenderer) createSwapchain() error {
	swapchainSupport, err := r.querySwapchainSupport(r.physicalDevice)
	if err != nil {
		return err
	}
	if len(swapchainSupport.Formats) == 0 {
		return errors.New("surface reports no formats")
	}

	surfaceFormat := chooseSurfaceFormat(swapchainSupport.Formats)
	presentMode := choosePresentMode(swapchainSupport.PresentModes)
	width, height := r.provider.FramebufferExtent()
	extent := chooseExtent(swapchainSupport.Capabilities, width, height)

	sharingMode := core1_0.SharingModeExclusive
	var queueFamilyIndices []int

	if !r.queueFamilies.Shared() {
		sharingMode = core1_0.SharingModeConcurrent
		queueFamilyIndices = append(queueFamilyIndices, r.queueFamilies.Graphics, r.queueFamilies.Presentation)
	}

	r.swapchain, err = r.device.CreateSwapchain(gpu.SwapchainInfo{
		Surface:            r.surface,
		MinImageCount:      chooseImageCount(swapchainSupport.Capabilities),
		Format:             surfaceFormat,
		PresentMode:        presentMode,
		Extent:             extent,
		SharingMode:        sharingMode,
		QueueFamilyIndices: queueFamilyIndices,
		Capabilities:       swapchainSupport.Capabilities,
	})
	if err != nil {
		return err
	}
	r.teardown.push("swapchain", r.swapchain)

	r.swapchainImages, err = r.swapchain.Images()
	if err != nil {
		return err
	}
	if len(r.swapchainImages) == 0 {
		return errors.New("swapchain has no images")
	}

	r.swapchainFormat = surfaceFormat
	r.presentMode = presentMode
	r.swapchainExtent = extent

	r.log.WithFields(logrus.Fields{
		"images": len(r.swapchainImages),
		"format": surfaceFormat.Format,
		"extent": extent,
	}).Debug("swapchain created")
	return nil
}

func (r *VulkanRenderer) createImageViews() error {
	for _, image := range r.swapchainImages {
		view, err := r.device.CreateImageView(gpu.ImageViewInfo{
			Image:  image,
			Format: r.swapchainFormat.Format,
			Aspect: core1_0.ImageAspectColor,
		})
		if err != nil {
			return err
		}
		r.teardown.push("swapchain image view", view)
		r.imageViews = append(r.imageViews, view)
	}

	return nil
}
