// Package vulkan implements package gpu on top of vkngwrapper.
package vulkan

import (
	"fmt"
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/jazz-engine/jazz/internal/gpu"
	"github.com/veandco/go-sdl2/sdl"
	"github.com/vkngwrapper/core"
	"github.com/vkngwrapper/core/common"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/ext_debug_utils"
	"github.com/vkngwrapper/extensions/khr_surface"
	vkng_sdl2 "github.com/vkngwrapper/integrations/sdl2"
)

// instanceCreateEnumeratePortability is
// VK_INSTANCE_CREATE_ENUMERATE_PORTABILITY_BIT_KHR.
const instanceCreateEnumeratePortability core1_0.InstanceCreateFlags = 0x00000001

// API is the Vulkan loader.
type API struct {
	loader core.Loader
}

// NewAPI builds a loader from a vkGetInstanceProcAddr pointer, usually the one
// SDL returns from sdl.VulkanGetVkGetInstanceProcAddr.
func NewAPI(procAddr unsafe.Pointer) (*API, error) {
	loader, err := core.CreateLoaderFromProcAddr(procAddr)
	if err != nil {
		return nil, errors.Wrap(err, "create vulkan loader")
	}

	return &API{loader: loader}, nil
}

func (a *API) AvailableExtensions() (map[string]bool, error) {
	extensions, _, err := a.loader.AvailableExtensions()
	if err != nil {
		return nil, errors.Wrap(err, "vkEnumerateInstanceExtensionProperties")
	}

	names := make(map[string]bool, len(extensions))
	for name := range extensions {
		names[name] = true
	}
	return names, nil
}

func (a *API) AvailableLayers() (map[string]bool, error) {
	layers, _, err := a.loader.AvailableLayers()
	if err != nil {
		return nil, errors.Wrap(err, "vkEnumerateInstanceLayerProperties")
	}

	names := make(map[string]bool, len(layers))
	for name := range layers {
		names[name] = true
	}
	return names, nil
}

func (a *API) CreateInstance(info gpu.InstanceInfo) (gpu.Instance, error) {
	instanceOptions := core1_0.InstanceCreateInfo{
		ApplicationName:    info.ApplicationName,
		ApplicationVersion: common.CreateVersion(1, 0, 0),
		EngineName:         info.EngineName,
		EngineVersion:      common.CreateVersion(1, 0, 0),
		APIVersion:         common.Vulkan1_2,

		EnabledExtensionNames: info.ExtensionNames,
		EnabledLayerNames:     info.LayerNames,
	}

	if info.EnumeratePortability {
		instanceOptions.Flags |= instanceCreateEnumeratePortability
	}

	if info.Debug != nil {
		instanceOptions.Next = debugMessengerOptions(info.DebugSeverity, info.Debug)
	}

	handle, _, err := a.loader.CreateInstance(nil, instanceOptions)
	if err != nil {
		return nil, errors.Wrap(err, "vkCreateInstance")
	}

	return &instance{handle: handle}, nil
}

type instance struct {
	handle core1_0.Instance
}

func (i *instance) PhysicalDevices() ([]gpu.PhysicalDevice, error) {
	handles, _, err := i.handle.EnumeratePhysicalDevices()
	if err != nil {
		return nil, errors.Wrap(err, "vkEnumeratePhysicalDevices")
	}

	devices := make([]gpu.PhysicalDevice, 0, len(handles))
	for _, handle := range handles {
		devices = append(devices, &physicalDevice{handle: handle})
	}
	return devices, nil
}

func (i *instance) CreateDebugMessenger(minSeverity gpu.Severity, callback gpu.DebugCallback) (gpu.DebugMessenger, error) {
	debugLoader := ext_debug_utils.CreateExtensionFromInstance(i.handle)
	messenger, _, err := debugLoader.CreateDebugUtilsMessenger(i.handle, nil, debugMessengerOptions(minSeverity, callback))
	if err != nil {
		return nil, errors.Wrap(err, "vkCreateDebugUtilsMessengerEXT")
	}

	return &debugMessenger{handle: messenger}, nil
}

func (i *instance) Destroy() {
	i.handle.Destroy(nil)
}

type debugMessenger struct {
	handle ext_debug_utils.DebugUtilsMessenger
}

func (m *debugMessenger) Destroy() {
	m.handle.Destroy(nil)
}

func debugMessengerOptions(minSeverity gpu.Severity, callback gpu.DebugCallback) ext_debug_utils.DebugUtilsMessengerCreateInfo {
	severities := ext_debug_utils.SeverityError
	if minSeverity <= gpu.SeverityWarning {
		severities |= ext_debug_utils.SeverityWarning
	}
	if minSeverity <= gpu.SeverityInfo {
		severities |= ext_debug_utils.SeverityInfo
	}
	if minSeverity <= gpu.SeverityVerbose {
		severities |= ext_debug_utils.SeverityVerbose
	}

	return ext_debug_utils.DebugUtilsMessengerCreateInfo{
		MessageSeverity: severities,
		MessageType:     ext_debug_utils.TypeGeneral | ext_debug_utils.TypeValidation | ext_debug_utils.TypePerformance,
		UserCallback: func(msgType ext_debug_utils.DebugUtilsMessageTypeFlags, severity ext_debug_utils.DebugUtilsMessageSeverityFlags, data *ext_debug_utils.DebugUtilsMessengerCallbackData) bool {
			callback(severityOf(severity), fmt.Sprint(msgType), data.Message)
			return false
		},
	}
}

func severityOf(flags ext_debug_utils.DebugUtilsMessageSeverityFlags) gpu.Severity {
	switch {
	case flags&ext_debug_utils.SeverityError != 0:
		return gpu.SeverityError
	case flags&ext_debug_utils.SeverityWarning != 0:
		return gpu.SeverityWarning
	case flags&ext_debug_utils.SeverityInfo != 0:
		return gpu.SeverityInfo
	default:
		return gpu.SeverityVerbose
	}
}

// CreateSDLSurface creates a presentation surface for window. instance must
// come from this package.
func CreateSDLSurface(inst gpu.Instance, window *sdl.Window) (gpu.Surface, error) {
	vkInstance, ok := inst.(*instance)
	if !ok {
		return nil, errors.Newf("vulkan: cannot create a surface for instance of type %T", inst)
	}

	surfaceLoader := khr_surface.CreateExtensionFromInstance(vkInstance.handle)
	handle, err := vkng_sdl2.CreateSurface(vkInstance.handle, surfaceLoader, window)
	if err != nil {
		return nil, errors.Wrap(err, "SDL_Vulkan_CreateSurface")
	}

	return &surface{handle: handle}, nil
}

type surface struct {
	handle khr_surface.Surface
}

func (s *surface) SupportsPresentation(device gpu.PhysicalDevice, queueFamily int) (bool, error) {
	supported, _, err := s.handle.PhysicalDeviceSurfaceSupport(device.(*physicalDevice).handle, queueFamily)
	if err != nil {
		return false, errors.Wrap(err, "vkGetPhysicalDeviceSurfaceSupportKHR")
	}
	return supported, nil
}

func (s *surface) Capabilities(device gpu.PhysicalDevice) (*khr_surface.SurfaceCapabilities, error) {
	capabilities, _, err := s.handle.PhysicalDeviceSurfaceCapabilities(device.(*physicalDevice).handle)
	if err != nil {
		return nil, errors.Wrap(err, "vkGetPhysicalDeviceSurfaceCapabilitiesKHR")
	}
	return capabilities, nil
}

func (s *surface) Formats(device gpu.PhysicalDevice) ([]khr_surface.SurfaceFormat, error) {
	formats, _, err := s.handle.PhysicalDeviceSurfaceFormats(device.(*physicalDevice).handle)
	if err != nil {
		return nil, errors.Wrap(err, "vkGetPhysicalDeviceSurfaceFormatsKHR")
	}
	return formats, nil
}

func (s *surface) PresentModes(device gpu.PhysicalDevice) ([]khr_surface.PresentMode, error) {
	modes, _, err := s.handle.PhysicalDeviceSurfacePresentModes(device.(*physicalDevice).handle)
	if err != nil {
		return nil, errors.Wrap(err, "vkGetPhysicalDeviceSurfacePresentModesKHR")
	}
	return modes, nil
}

func (s *surface) Destroy() {
	s.handle.Destroy(nil)
}
