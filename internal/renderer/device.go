package renderer

import (
	"github.com/cockroachdb/errors"
	"github.com/jazz-engine/jazz/internal/gpu"
	"github.com/vkngwrapper/extensions/khr_portability_subset"
)

func (r *VulkanRenderer) createLogicalDevice() error {
	indices, err := r.detectQueueFamilyIndices(r.physicalDevice)
	if err != nil {
		return err
	}
	if !indices.Complete() {
		return errors.Wrapf(ErrQueueFamiliesUnresolved, "graphics %d, presentation %d", indices.Graphics, indices.Presentation)
	}
	r.queueFamilies = indices

	var extensionNames []string
	extensionNames = append(extensionNames, deviceExtensions...)

	// Needed on portability implementations such as MoltenVK
	extensions, err := r.physicalDevice.Extensions()
	if err != nil {
		return err
	}
	if extensions[khr_portability_subset.ExtensionName] {
		extensionNames = append(extensionNames, khr_portability_subset.ExtensionName)
	}

	r.device, err = r.physicalDevice.CreateDevice(gpu.DeviceInfo{
		QueueFamilies:     indices.Unique(),
		ExtensionNames:    extensionNames,
		SamplerAnisotropy: true,
	})
	if err != nil {
		return err
	}
	r.teardown.push("device", r.device)

	r.graphicsQueue = r.device.Queue(indices.Graphics)
	r.presentQueue = r.device.Queue(indices.Presentation)
	return nil
}
