package renderer

import (
	"github.com/cockroachdb/errors"
	"github.com/jazz-engine/jazz/internal/gpu"
	"github.com/sirupsen/logrus"
	"github.com/vkngwrapper/extensions/ext_debug_utils"
)

// debugSeverity is the lowest severity the messenger asks for; the logger
// level decides what is kept.
const debugSeverity = gpu.SeverityVerbose

func (r *VulkanRenderer) createInstance() error {
	info := gpu.InstanceInfo{
		ApplicationName: r.appName,
		EngineName:      engineName,
	}

	extensions, err := r.api.AvailableExtensions()
	if err != nil {
		return err
	}

	required := append([]string{}, r.provider.RequiredExtensionNames()...)
	if r.cfg.Validation {
		required = append(required, ext_debug_utils.ExtensionName)
	}

	for _, ext := range required {
		if !extensions[ext] {
			return errors.Wrapf(ErrExtensionMissing, "%s", ext)
		}
		info.ExtensionNames = append(info.ExtensionNames, ext)
	}

	if extensions[gpu.PortabilityEnumerationExtension] {
		info.ExtensionNames = append(info.ExtensionNames, gpu.PortabilityEnumerationExtension)
		info.EnumeratePortability = true
	}

	if r.cfg.Validation {
		layers, err := r.api.AvailableLayers()
		if err != nil {
			return err
		}

		for _, layer := range validationLayers {
			if !layers[layer] {
				return errors.Wrapf(ErrValidationLayerMissing, "%s", layer)
			}
			info.LayerNames = append(info.LayerNames, layer)
		}

		// Covers messages from instance creation and destruction, which the
		// messenger created afterwards cannot see.
		info.Debug = r.logDebug
		info.DebugSeverity = debugSeverity
	}

	r.instance, err = r.api.CreateInstance(info)
	if err != nil {
		return err
	}
	r.teardown.push("instance", r.instance)

	r.log.WithFields(logrus.Fields{
		"extensions": info.ExtensionNames,
		"layers":     info.LayerNames,
	}).Debug("instance created")
	return nil
}

func (r *VulkanRenderer) setupDebugMessenger() error {
	if !r.cfg.Validation {
		return nil
	}

	var err error
	r.debugMessenger, err = r.instance.CreateDebugMessenger(debugSeverity, r.logDebug)
	if err != nil {
		return err
	}
	r.teardown.push("debug messenger", r.debugMessenger)
	return nil
}

// logDebug routes driver diagnostics to the matching log level. It never
// stops execution.
func (r *VulkanRenderer) logDebug(severity gpu.Severity, messageType string, message string) {
	entry := r.log.WithFields(logrus.Fields{
		"source": "vulkan",
		"type":   messageType,
	})

	switch severity {
	case gpu.SeverityError:
		entry.Error(message)
	case gpu.SeverityWarning:
		entry.Warn(message)
	case gpu.SeverityInfo:
		entry.Info(message)
	default:
		entry.Trace(message)
	}
}

func (r *VulkanRenderer) createSurface() error {
	var err error
	r.surface, err = r.provider.CreateSurface(r.instance)
	if err != nil {
		return err
	}
	r.teardown.push("surface", r.surface)
	return nil
}
