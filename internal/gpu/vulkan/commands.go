package vulkan

import (
	"github.com/cockroachdb/errors"
	"github.com/jazz-engine/jazz/internal/gpu"
	"github.com/vkngwrapper/core/core1_0"
)

type commandPool struct {
	handle core1_0.CommandPool
	device core1_0.Device
}

func (d *device) CreateCommandPool(queueFamily int) (gpu.CommandPool, error) {
	handle, _, err := d.handle.CreateCommandPool(nil, core1_0.CommandPoolCreateInfo{
		QueueFamilyIndex: queueFamily,
	})
	if err != nil {
		return nil, errors.Wrap(err, "vkCreateCommandPool")
	}
	return &commandPool{handle: handle, device: d.handle}, nil
}

func (p *commandPool) AllocateCommandBuffers(count int) ([]gpu.CommandBuffer, error) {
	handles, _, err := p.device.AllocateCommandBuffers(core1_0.CommandBufferAllocateInfo{
		CommandPool:        p.handle,
		Level:              core1_0.CommandBufferLevelPrimary,
		CommandBufferCount: count,
	})
	if err != nil {
		return nil, errors.Wrap(err, "vkAllocateCommandBuffers")
	}

	buffers := make([]gpu.CommandBuffer, 0, len(handles))
	for _, handle := range handles {
		buffers = append(buffers, &commandBuffer{handle: handle})
	}
	return buffers, nil
}

func (p *commandPool) Destroy() {
	p.handle.Destroy(nil)
}

type commandBuffer struct {
	handle core1_0.CommandBuffer
}

func (b *commandBuffer) Begin() error {
	_, err := b.handle.Begin(core1_0.CommandBufferBeginInfo{})
	return errors.Wrap(err, "vkBeginCommandBuffer")
}

func (b *commandBuffer) BeginRenderPass(info gpu.RenderPassBeginInfo) error {
	err := b.handle.CmdBeginRenderPass(core1_0.SubpassContentsInline,
		core1_0.RenderPassBeginInfo{
			RenderPass:  info.RenderPass.(*renderPass).handle,
			Framebuffer: info.Framebuffer.(*framebuffer).handle,
			RenderArea: core1_0.Rect2D{
				Offset: core1_0.Offset2D{X: 0, Y: 0},
				Extent: info.Extent,
			},
			ClearValues: []core1_0.ClearValue{
				core1_0.ClearValueFloat(info.ClearColor),
				core1_0.ClearValueDepthStencil{Depth: info.ClearDepth, Stencil: info.ClearStencil},
			},
		})
	return errors.Wrap(err, "vkCmdBeginRenderPass")
}

func (b *commandBuffer) BindPipeline(p gpu.Pipeline) {
	b.handle.CmdBindPipeline(core1_0.PipelineBindPointGraphics, p.(*pipeline).handle)
}

func (b *commandBuffer) Draw(vertexCount, instanceCount int) {
	b.handle.CmdDraw(vertexCount, instanceCount, 0, 0)
}

func (b *commandBuffer) EndRenderPass() {
	b.handle.CmdEndRenderPass()
}

func (b *commandBuffer) End() error {
	_, err := b.handle.End()
	return errors.Wrap(err, "vkEndCommandBuffer")
}
