package vulkan

import (
	"github.com/cockroachdb/errors"
	"github.com/jazz-engine/jazz/internal/gpu"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/khr_swapchain"
)

type image struct {
	handle core1_0.Image
	// presentable images belong to the swapchain.
	presentable bool
}

func (i *image) MemoryRequirements() gpu.MemoryRequirements {
	memReqs := i.handle.MemoryRequirements()
	return gpu.MemoryRequirements{
		Size:           memReqs.Size,
		MemoryTypeBits: memReqs.MemoryTypeBits,
	}
}

func (i *image) BindMemory(memory gpu.Memory) error {
	_, err := i.handle.BindImageMemory(memory.(*deviceMemory).handle, 0)
	return errors.Wrap(err, "vkBindImageMemory")
}

func (i *image) Destroy() {
	if i.presentable {
		return
	}
	i.handle.Destroy(nil)
}

func (d *device) CreateImage(info gpu.ImageInfo) (gpu.Image, error) {
	handle, _, err := d.handle.CreateImage(nil, core1_0.ImageCreateInfo{
		ImageType: core1_0.ImageType2D,
		Extent: core1_0.Extent3D{
			Width:  info.Extent.Width,
			Height: info.Extent.Height,
			Depth:  1,
		},
		MipLevels:     1,
		ArrayLayers:   1,
		Format:        info.Format,
		Tiling:        info.Tiling,
		InitialLayout: core1_0.ImageLayoutUndefined,
		Usage:         info.Usage,
		SharingMode:   core1_0.SharingModeExclusive,
		Samples:       core1_0.Samples1,
	})
	if err != nil {
		return nil, errors.Wrap(err, "vkCreateImage")
	}
	return &image{handle: handle}, nil
}

type deviceMemory struct {
	handle core1_0.DeviceMemory
}

func (m *deviceMemory) Destroy() {
	m.handle.Free(nil)
}

func (d *device) AllocateMemory(size int, memoryTypeIndex int) (gpu.Memory, error) {
	handle, _, err := d.handle.AllocateMemory(nil, core1_0.MemoryAllocateInfo{
		AllocationSize:  size,
		MemoryTypeIndex: memoryTypeIndex,
	})
	if err != nil {
		return nil, errors.Wrap(err, "vkAllocateMemory")
	}
	return &deviceMemory{handle: handle}, nil
}

type imageView struct {
	handle core1_0.ImageView
}

func (v *imageView) Destroy() {
	v.handle.Destroy(nil)
}

func (d *device) CreateImageView(info gpu.ImageViewInfo) (gpu.ImageView, error) {
	handle, _, err := d.handle.CreateImageView(nil, core1_0.ImageViewCreateInfo{
		Image:    info.Image.(*image).handle,
		ViewType: core1_0.ImageViewType2D,
		Format:   info.Format,
		SubresourceRange: core1_0.ImageSubresourceRange{
			AspectMask:     info.Aspect,
			BaseMipLevel:   0,
			LevelCount:     1,
			BaseArrayLayer: 0,
			LayerCount:     1,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "vkCreateImageView")
	}
	return &imageView{handle: handle}, nil
}

type renderPass struct {
	handle core1_0.RenderPass
}

func (p *renderPass) Destroy() {
	p.handle.Destroy(nil)
}

func (d *device) CreateRenderPass(info gpu.RenderPassInfo) (gpu.RenderPass, error) {
	handle, _, err := d.handle.CreateRenderPass(nil, renderPassCreateInfo(info))
	if err != nil {
		return nil, errors.Wrap(err, "vkCreateRenderPass")
	}
	return &renderPass{handle: handle}, nil
}

// renderPassCreateInfo describes one subpass writing a presentable colour
// attachment and a depth attachment that is discarded after the pass.
func renderPassCreateInfo(info gpu.RenderPassInfo) core1_0.RenderPassCreateInfo {
	return core1_0.RenderPassCreateInfo{
		Attachments: []core1_0.AttachmentDescription{
			{
				Format:         info.ColorFormat,
				Samples:        core1_0.Samples1,
				LoadOp:         core1_0.AttachmentLoadOpClear,
				StoreOp:        core1_0.AttachmentStoreOpStore,
				StencilLoadOp:  core1_0.AttachmentLoadOpDontCare,
				StencilStoreOp: core1_0.AttachmentStoreOpDontCare,
				InitialLayout:  core1_0.ImageLayoutUndefined,
				FinalLayout:    khr_swapchain.ImageLayoutPresentSrc,
			},
			{
				Format:         info.DepthFormat,
				Samples:        core1_0.Samples1,
				LoadOp:         core1_0.AttachmentLoadOpClear,
				StoreOp:        core1_0.AttachmentStoreOpDontCare,
				StencilLoadOp:  core1_0.AttachmentLoadOpDontCare,
				StencilStoreOp: core1_0.AttachmentStoreOpDontCare,
				InitialLayout:  core1_0.ImageLayoutUndefined,
				FinalLayout:    core1_0.ImageLayoutDepthStencilAttachmentOptimal,
			},
		},
		Subpasses: []core1_0.SubpassDescription{
			{
				PipelineBindPoint: core1_0.PipelineBindPointGraphics,
				ColorAttachments: []core1_0.AttachmentReference{
					{
						Attachment: 0,
						Layout:     core1_0.ImageLayoutColorAttachmentOptimal,
					},
				},
				DepthStencilAttachment: &core1_0.AttachmentReference{
					Attachment: 1,
					Layout:     core1_0.ImageLayoutDepthStencilAttachmentOptimal,
				},
			},
		},
		SubpassDependencies: []core1_0.SubpassDependency{
			{
				SrcSubpass: core1_0.SubpassExternal,
				DstSubpass: 0,

				SrcStageMask:  core1_0.PipelineStageColorAttachmentOutput,
				SrcAccessMask: 0,

				DstStageMask:  core1_0.PipelineStageColorAttachmentOutput,
				DstAccessMask: core1_0.AccessColorAttachmentRead | core1_0.AccessColorAttachmentWrite,
			},
		},
	}
}

type shaderModule struct {
	handle core1_0.ShaderModule
}

func (m *shaderModule) Destroy() {
	m.handle.Destroy(nil)
}

func (d *device) CreateShaderModule(code []uint32) (gpu.ShaderModule, error) {
	handle, _, err := d.handle.CreateShaderModule(nil, core1_0.ShaderModuleCreateInfo{
		Code: code,
	})
	if err != nil {
		return nil, errors.Wrap(err, "vkCreateShaderModule")
	}
	return &shaderModule{handle: handle}, nil
}

type pipelineLayout struct {
	handle core1_0.PipelineLayout
}

func (l *pipelineLayout) Destroy() {
	l.handle.Destroy(nil)
}

func (d *device) CreatePipelineLayout() (gpu.PipelineLayout, error) {
	handle, _, err := d.handle.CreatePipelineLayout(nil, core1_0.PipelineLayoutCreateInfo{})
	if err != nil {
		return nil, errors.Wrap(err, "vkCreatePipelineLayout")
	}
	return &pipelineLayout{handle: handle}, nil
}

type pipeline struct {
	handle core1_0.Pipeline
}

func (p *pipeline) Destroy() {
	p.handle.Destroy(nil)
}

func (d *device) CreateGraphicsPipeline(info gpu.PipelineInfo) (gpu.Pipeline, error) {
	createInfo := graphicsPipelineCreateInfo(info,
		info.VertexShader.(*shaderModule).handle,
		info.FragmentShader.(*shaderModule).handle,
		info.Layout.(*pipelineLayout).handle,
		info.RenderPass.(*renderPass).handle,
	)

	pipelines, _, err := d.handle.CreateGraphicsPipelines(nil, nil, []core1_0.GraphicsPipelineCreateInfo{createInfo})
	if err != nil {
		return nil, errors.Wrap(err, "vkCreateGraphicsPipelines")
	}
	return &pipeline{handle: pipelines[0]}, nil
}

// viewportFor covers the whole extent. Flipped, the origin moves to the
// bottom edge and the height goes negative so +Y points up.
func viewportFor(extent core1_0.Extent2D, flip bool) core1_0.Viewport {
	viewport := core1_0.Viewport{
		X:        0,
		Y:        0,
		Width:    float32(extent.Width),
		Height:   float32(extent.Height),
		MinDepth: 0,
		MaxDepth: 1,
	}
	if flip {
		viewport.Y = float32(extent.Height)
		viewport.Height = -viewport.Height
	}
	return viewport
}

// graphicsPipelineCreateInfo builds the fixed function state for the
// procedural triangle: no vertex input, back faces culled, depth tested with
// LESS. A flipped viewport mirrors the winding, so the front face flips too.
func graphicsPipelineCreateInfo(info gpu.PipelineInfo, vertex, fragment core1_0.ShaderModule, layout core1_0.PipelineLayout, pass core1_0.RenderPass) core1_0.GraphicsPipelineCreateInfo {
	createInfo := core1_0.GraphicsPipelineCreateInfo{
		Stages: []core1_0.PipelineShaderStageCreateInfo{
			{
				Stage:  core1_0.StageVertex,
				Module: vertex,
				Name:   info.EntryPoint,
			},
			{
				Stage:  core1_0.StageFragment,
				Module: fragment,
				Name:   info.EntryPoint,
			},
		},
		VertexInputState: &core1_0.PipelineVertexInputStateCreateInfo{},
		InputAssemblyState: &core1_0.PipelineInputAssemblyStateCreateInfo{
			Topology:               core1_0.PrimitiveTopologyTriangleList,
			PrimitiveRestartEnable: false,
		},
		ViewportState: &core1_0.PipelineViewportStateCreateInfo{
			Viewports: []core1_0.Viewport{viewportFor(info.Extent, info.FlipViewportY)},
			Scissors: []core1_0.Rect2D{
				{
					Offset: core1_0.Offset2D{X: 0, Y: 0},
					Extent: info.Extent,
				},
			},
		},
		RasterizationState: &core1_0.PipelineRasterizationStateCreateInfo{
			DepthClampEnable:        false,
			RasterizerDiscardEnable: false,

			PolygonMode: core1_0.PolygonModeFill,
			CullMode:    core1_0.CullModeBack,
			FrontFace:   core1_0.FrontFaceClockwise,

			DepthBiasEnable: false,

			LineWidth: 1.0,
		},
		MultisampleState: &core1_0.PipelineMultisampleStateCreateInfo{
			SampleShadingEnable:  false,
			RasterizationSamples: core1_0.Samples1,
			MinSampleShading:     1.0,
		},
		DepthStencilState: &core1_0.PipelineDepthStencilStateCreateInfo{
			DepthTestEnable:  true,
			DepthWriteEnable: true,
			DepthCompareOp:   core1_0.CompareOpLess,
		},
		ColorBlendState: &core1_0.PipelineColorBlendStateCreateInfo{
			LogicOpEnabled: false,
			LogicOp:        core1_0.LogicOpCopy,

			BlendConstants: [4]float32{0, 0, 0, 0},
			Attachments: []core1_0.PipelineColorBlendAttachmentState{
				{
					BlendEnabled:   false,
					ColorWriteMask: core1_0.ColorComponentRed | core1_0.ColorComponentGreen | core1_0.ColorComponentBlue | core1_0.ColorComponentAlpha,
				},
			},
		},
		Layout:            layout,
		RenderPass:        pass,
		Subpass:           0,
		BasePipelineIndex: -1,
	}
	if info.FlipViewportY {
		createInfo.RasterizationState.FrontFace = core1_0.FrontFaceCounterClockwise
	}
	return createInfo
}

type framebuffer struct {
	handle core1_0.Framebuffer
}

func (f *framebuffer) Destroy() {
	f.handle.Destroy(nil)
}

func (d *device) CreateFramebuffer(info gpu.FramebufferInfo) (gpu.Framebuffer, error) {
	attachments := make([]core1_0.ImageView, 0, len(info.Attachments))
	for _, view := range info.Attachments {
		attachments = append(attachments, view.(*imageView).handle)
	}

	handle, _, err := d.handle.CreateFramebuffer(nil, core1_0.FramebufferCreateInfo{
		RenderPass:  info.RenderPass.(*renderPass).handle,
		Layers:      1,
		Attachments: attachments,
		Width:       info.Extent.Width,
		Height:      info.Extent.Height,
	})
	if err != nil {
		return nil, errors.Wrap(err, "vkCreateFramebuffer")
	}
	return &framebuffer{handle: handle}, nil
}
