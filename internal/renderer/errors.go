package renderer

import "github.com/cockroachdb/errors"

// Setup failures. Build errors wrap one of these when the cause is a missing
// capability rather than a failed API call.
var (
	ErrValidationLayerMissing  = errors.New("validation layer not available, install the LunarG Vulkan SDK")
	ErrExtensionMissing        = errors.New("instance extension not available")
	ErrNoPhysicalDevice        = errors.New("no vulkan capable device")
	ErrNoSuitableDevice        = errors.New("no device meets the renderer requirements")
	ErrQueueFamiliesUnresolved = errors.New("graphics and presentation queue families not resolved")
	ErrNoDepthFormat           = errors.New("no supported depth format")
	ErrNoMemoryType            = errors.New("no suitable memory type")
	ErrShaderUnreadable        = errors.New("shader unreadable")
)
