package renderer

import (
	"github.com/cockroachdb/errors"
	"github.com/jazz-engine/jazz/internal/gpu"
	"github.com/vkngwrapper/core/core1_0"
)

// FrameState is where DrawFrame is in the acquire, submit, present cycle.
// After a failure it stays at the step that failed.
type FrameState int

const (
	FrameIdle FrameState = iota
	FrameAcquiring
	FrameSubmitted
	FramePresenting
)

func (s FrameState) String() string {
	switch s {
	case FrameIdle:
		return "idle"
	case FrameAcquiring:
		return "acquiring"
	case FrameSubmitted:
		return "submitted"
	case FramePresenting:
		return "presenting"
	}
	return "unknown"
}

func (r *VulkanRenderer) State() FrameState {
	return r.state
}

// DrawFrame acquires a swapchain image, submits its pre-recorded command
// buffer and presents it. Only one frame is ever outstanding: ordering comes
// from the image available and render finished semaphores, no fence is used.
func (r *VulkanRenderer) DrawFrame() error {
	if r.destroyed {
		return errors.New("renderer: draw after destroy")
	}

	r.state = FrameAcquiring
	imageIndex, err := r.swapchain.AcquireNextImage(r.imageAvailable)
	if err != nil {
		return errors.Wrap(err, "acquire swapchain image")
	}
	if imageIndex < 0 || imageIndex >= len(r.commandBuffers) {
		return errors.Newf("acquire swapchain image: index %d out of range [0, %d)", imageIndex, len(r.commandBuffers))
	}

	r.state = FrameSubmitted
	err = r.graphicsQueue.Submit(gpu.SubmitInfo{
		WaitSemaphores:   []gpu.Semaphore{r.imageAvailable},
		WaitDstStageMask: []core1_0.PipelineStageFlags{core1_0.PipelineStageColorAttachmentOutput},
		CommandBuffers:   []gpu.CommandBuffer{r.commandBuffers[imageIndex]},
		SignalSemaphores: []gpu.Semaphore{r.renderFinished},
	})
	if err != nil {
		return errors.Wrapf(err, "submit command buffer %d", imageIndex)
	}

	r.state = FramePresenting
	err = r.presentQueue.Present(gpu.PresentInfo{
		WaitSemaphores: []gpu.Semaphore{r.renderFinished},
		Swapchain:      r.swapchain,
		ImageIndex:     imageIndex,
	})
	if err != nil {
		return errors.Wrapf(err, "present image %d", imageIndex)
	}

	r.state = FrameIdle
	r.frames++
	return nil
}

// DeviceWaitIdle blocks until the device has finished all queued work.
func (r *VulkanRenderer) DeviceWaitIdle() error {
	if r.destroyed {
		return nil
	}
	return errors.Wrap(r.device.WaitIdle(), "wait for device idle")
}
