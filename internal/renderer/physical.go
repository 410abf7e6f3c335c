package renderer

import (
	"github.com/cockroachdb/errors"
	"github.com/jazz-engine/jazz/internal/gpu"
	"github.com/sirupsen/logrus"
)

// pickPhysicalDevice takes the first enumerated device meeting the renderer
// requirements. Devices are not ranked.
func (r *VulkanRenderer) pickPhysicalDevice() error {
	physicalDevices, err := r.instance.PhysicalDevices()
	if err != nil {
		return err
	}

	if len(physicalDevices) == 0 {
		return ErrNoPhysicalDevice
	}

	for _, device := range physicalDevices {
		if r.meetsRequirements(device) {
			r.physicalDevice = device
			break
		}
	}

	if r.physicalDevice == nil {
		return errors.Wrapf(ErrNoSuitableDevice, "%d devices rejected", len(physicalDevices))
	}

	r.log.WithField("device", r.physicalDevice.Name()).Info("physical device selected")
	return nil
}

// meetsRequirements reports whether device can run the renderer: both queue
// families resolved, at least one surface format and present mode, every
// device extension exposed and sampler anisotropy supported. A failed query
// rejects the device.
func (r *VulkanRenderer) meetsRequirements(device gpu.PhysicalDevice) bool {
	log := r.log.WithField("device", device.Name())

	indices, err := r.detectQueueFamilyIndices(device)
	if err != nil {
		log.WithError(err).Warn("device rejected: queue family query failed")
		return false
	}
	if !indices.Complete() {
		log.WithFields(logrus.Fields{
			"graphics":     indices.Graphics,
			"presentation": indices.Presentation,
		}).Debug("device rejected: queue families unresolved")
		return false
	}

	swapchainSupport, err := r.querySwapchainSupport(device)
	if err != nil {
		log.WithError(err).Warn("device rejected: swapchain support query failed")
		return false
	}
	if len(swapchainSupport.Formats) == 0 || len(swapchainSupport.PresentModes) == 0 {
		log.Debug("device rejected: no surface format or present mode")
		return false
	}

	missing, err := missingDeviceExtensions(device)
	if err != nil {
		log.WithError(err).Warn("device rejected: extension query failed")
		return false
	}
	if len(missing) > 0 {
		log.WithField("missing", missing).Debug("device rejected: missing extensions")
		return false
	}

	if !device.SamplerAnisotropy() {
		log.Debug("device rejected: no sampler anisotropy")
		return false
	}

	return true
}

func missingDeviceExtensions(device gpu.PhysicalDevice) ([]string, error) {
	extensions, err := device.Extensions()
	if err != nil {
		return nil, err
	}

	var missing []string
	for _, extension := range deviceExtensions {
		if !extensions[extension] {
			missing = append(missing, extension)
		}
	}
	return missing, nil
}
