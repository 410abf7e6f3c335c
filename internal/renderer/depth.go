package renderer

import (
	"github.com/cockroachdb/errors"
	"github.com/jazz-engine/jazz/internal/gpu"
	"github.com/vkngwrapper/core/core1_0"
)

// depthFormats in order of preference.
var depthFormats = []core1_0.Format{
	core1_0.FormatD32SignedFloat,
	core1_0.FormatD32SignedFloatS8UnsignedInt,
	core1_0.FormatD24UnsignedNormalizedS8UnsignedInt,
}

// findSupportedFormat returns the first candidate whose linear or optimal
// tiling features include features.
func findSupportedFormat(device gpu.PhysicalDevice, candidates []core1_0.Format, features core1_0.FormatFeatureFlags) (core1_0.Format, bool) {
	for _, format := range candidates {
		linear, optimal := device.FormatFeatures(format)

		if (linear&features) == features || (optimal&features) == features {
			return format, true
		}
	}

	return 0, false
}

func findDepthFormat(device gpu.PhysicalDevice) (core1_0.Format, error) {
	format, ok := findSupportedFormat(device, depthFormats, core1_0.FormatFeatureDepthStencilAttachment)
	if !ok {
		return 0, ErrNoDepthFormat
	}
	return format, nil
}

func hasStencilComponent(format core1_0.Format) bool {
	return format == core1_0.FormatD32SignedFloatS8UnsignedInt || format == core1_0.FormatD24UnsignedNormalizedS8UnsignedInt
}

func (r *VulkanRenderer) createDepthResources() error {
	depthFormat, err := findDepthFormat(r.physicalDevice)
	if err != nil {
		return err
	}

	r.depthImage, err = r.device.CreateImage(gpu.ImageInfo{
		Extent: r.swapchainExtent,
		Format: depthFormat,
		Tiling: core1_0.ImageTilingOptimal,
		Usage:  core1_0.ImageUsageDepthStencilAttachment,
	})
	if err != nil {
		return err
	}
	r.teardown.push("depth image", r.depthImage)

	memReqs := r.depthImage.MemoryRequirements()
	memoryType := SelectMemoryType(memReqs.MemoryTypeBits, r.physicalDevice.MemoryTypes(), core1_0.MemoryPropertyDeviceLocal)
	if !memoryType.Found {
		return errors.Wrapf(ErrNoMemoryType, "depth image, type bits %#b", memReqs.MemoryTypeBits)
	}

	r.depthMemory, err = r.device.AllocateMemory(memReqs.Size, memoryType.Index)
	if err != nil {
		return err
	}
	r.teardown.push("depth memory", r.depthMemory)

	err = r.depthImage.BindMemory(r.depthMemory)
	if err != nil {
		return err
	}

	aspect := core1_0.ImageAspectFlags(core1_0.ImageAspectDepth)
	if hasStencilComponent(depthFormat) {
		aspect |= core1_0.ImageAspectStencil
	}

	r.depthView, err = r.device.CreateImageView(gpu.ImageViewInfo{
		Image:  r.depthImage,
		Format: depthFormat,
		Aspect: aspect,
	})
	if err != nil {
		return err
	}
	r.teardown.push("depth image view", r.depthView)

	r.depthFormat = depthFormat
	return nil
}
