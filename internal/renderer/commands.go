package renderer

import (
	"github.com/jazz-engine/jazz/internal/gpu"
)

const (
	triangleVertices = 3
	clearDepth       = 1.0
	clearStencil     = 0
)

func (r *VulkanRenderer) createFramebuffers() error {
	for _, imageView := range r.imageViews {
		framebuffer, err := r.device.CreateFramebuffer(gpu.FramebufferInfo{
			RenderPass:  r.renderPass,
			Attachments: []gpu.ImageView{imageView, r.depthView},
			Extent:      r.swapchainExtent,
		})
		if err != nil {
			return err
		}
		r.teardown.push("framebuffer", framebuffer)
		r.framebuffers = append(r.framebuffers, framebuffer)
	}

	return nil
}

// createCommandBuffers records one command buffer per framebuffer. They are
// never re-recorded.
func (r *VulkanRenderer) createCommandBuffers() error {
	var err error
	r.commandPool, err = r.device.CreateCommandPool(r.queueFamilies.Graphics)
	if err != nil {
		return err
	}
	r.teardown.push("command pool", r.commandPool)

	r.commandBuffers, err = r.commandPool.AllocateCommandBuffers(len(r.framebuffers))
	if err != nil {
		return err
	}

	for bufferIdx, buffer := range r.commandBuffers {
		err = r.recordCommandBuffer(buffer, r.framebuffers[bufferIdx])
		if err != nil {
			return err
		}
	}

	return nil
}

func (r *VulkanRenderer) recordCommandBuffer(buffer gpu.CommandBuffer, framebuffer gpu.Framebuffer) error {
	err := buffer.Begin()
	if err != nil {
		return err
	}

	err = buffer.BeginRenderPass(gpu.RenderPassBeginInfo{
		RenderPass:   r.renderPass,
		Framebuffer:  framebuffer,
		Extent:       r.swapchainExtent,
		ClearColor:   r.cfg.ClearColor,
		ClearDepth:   clearDepth,
		ClearStencil: clearStencil,
	})
	if err != nil {
		return err
	}

	buffer.BindPipeline(r.pipeline)
	buffer.Draw(triangleVertices, 1)
	buffer.EndRenderPass()

	return buffer.End()
}

func (r *VulkanRenderer) createSyncObjects() error {
	var err error
	r.imageAvailable, err = r.device.CreateSemaphore()
	if err != nil {
		return err
	}
	r.teardown.push("image available semaphore", r.imageAvailable)

	r.renderFinished, err = r.device.CreateSemaphore()
	if err != nil {
		return err
	}
	r.teardown.push("render finished semaphore", r.renderFinished)
	return nil
}
