package renderer

import (
	"github.com/jazz-engine/jazz/internal/gpu"
)

// QueueFamilyIndices holds the graphics and presentation queue families of a
// device, -1 when unresolved. Both may name the same family.
type QueueFamilyIndices struct {
	Graphics     int
	Presentation int
}

func (i QueueFamilyIndices) Complete() bool {
	return i.Graphics >= 0 && i.Presentation >= 0
}

// Shared reports whether one family serves both roles.
func (i QueueFamilyIndices) Shared() bool {
	return i.Graphics == i.Presentation
}

// Unique lists each resolved family once, graphics first.
func (i QueueFamilyIndices) Unique() []int {
	var families []int
	if i.Graphics >= 0 {
		families = append(families, i.Graphics)
	}
	if i.Presentation >= 0 && !i.Shared() {
		families = append(families, i.Presentation)
	}
	return families
}

// detectQueueFamilyIndices scans every family of device. The last family
// with graphics support and the last one able to present to the active
// surface win.
func (r *VulkanRenderer) detectQueueFamilyIndices(device gpu.PhysicalDevice) (QueueFamilyIndices, error) {
	indices := QueueFamilyIndices{Graphics: -1, Presentation: -1}

	for queueFamilyIdx, queueFamily := range device.QueueFamilies() {
		if queueFamily.Graphics {
			indices.Graphics = queueFamilyIdx
		}

		supported, err := r.surface.SupportsPresentation(device, queueFamilyIdx)
		if err != nil {
			return indices, err
		}

		if supported {
			indices.Presentation = queueFamilyIdx
		}
	}

	return indices, nil
}
