package vulkan

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/jazz-engine/jazz/internal/gpu"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/khr_swapchain"
)

// triangle holds the clip space positions emitted by shaders/triangle.vert.
var triangle = [3][2]float32{{0, -0.5}, {0.5, 0.5}, {-0.5, 0.5}}

func pipelineInfo(flip bool) core1_0.GraphicsPipelineCreateInfo {
	var (
		vertex, fragment core1_0.ShaderModule
		layout           core1_0.PipelineLayout
		pass             core1_0.RenderPass
	)
	return graphicsPipelineCreateInfo(gpu.PipelineInfo{
		EntryPoint:    "main",
		Extent:        core1_0.Extent2D{Width: 800, Height: 600},
		FlipViewportY: flip,
	}, vertex, fragment, layout, pass)
}

// frontFacing applies the viewport transform to positions and reports
// whether the rasterizer keeps the triangle under CullModeBack, using the
// signed area rule for the pipeline's front face.
func frontFacing(createInfo core1_0.GraphicsPipelineCreateInfo, positions [3][2]float32) bool {
	viewport := createInfo.ViewportState.Viewports[0]

	var window [3][2]float32
	for i, p := range positions {
		window[i] = [2]float32{
			viewport.X + (p[0]+1)/2*viewport.Width,
			viewport.Y + (p[1]+1)/2*viewport.Height,
		}
	}

	var sum float32
	for i := range window {
		j := (i + 1) % len(window)
		sum += window[i][0]*window[j][1] - window[j][0]*window[i][1]
	}
	area := -sum / 2

	if createInfo.RasterizationState.FrontFace == core1_0.FrontFaceCounterClockwise {
		return area > 0
	}
	return area < 0
}

func TestViewportFor(t *testing.T) {
	c := qt.New(t)
	extent := core1_0.Extent2D{Width: 800, Height: 600}

	plain := viewportFor(extent, false)
	c.Check(plain.X, qt.Equals, float32(0))
	c.Check(plain.Y, qt.Equals, float32(0))
	c.Check(plain.Width, qt.Equals, float32(800))
	c.Check(plain.Height, qt.Equals, float32(600))
	c.Check(plain.MinDepth, qt.Equals, float32(0))
	c.Check(plain.MaxDepth, qt.Equals, float32(1))

	flipped := viewportFor(extent, true)
	c.Check(flipped.X, qt.Equals, float32(0))
	c.Check(flipped.Y, qt.Equals, float32(600))
	c.Check(flipped.Width, qt.Equals, float32(800))
	c.Check(flipped.Height, qt.Equals, float32(-600))
	c.Check(flipped.MaxDepth, qt.Equals, float32(1))
}

func TestFlippedViewportKeepsTriangleFrontFacing(t *testing.T) {
	c := qt.New(t)

	plain := pipelineInfo(false)
	c.Assert(plain.RasterizationState.FrontFace == core1_0.FrontFaceClockwise, qt.IsTrue)
	c.Assert(frontFacing(plain, triangle), qt.IsTrue)

	flipped := pipelineInfo(true)
	c.Assert(flipped.RasterizationState.FrontFace == core1_0.FrontFaceCounterClockwise, qt.IsTrue)
	c.Assert(frontFacing(flipped, triangle), qt.IsTrue)

	// the flipped viewport alone would cull it
	flipped.RasterizationState.FrontFace = core1_0.FrontFaceClockwise
	c.Assert(frontFacing(flipped, triangle), qt.IsFalse)
}

func TestGraphicsPipelineFixedFunctionState(t *testing.T) {
	c := qt.New(t)
	createInfo := pipelineInfo(false)

	c.Assert(createInfo.Stages, qt.HasLen, 2)
	c.Check(createInfo.Stages[0].Stage == core1_0.StageVertex, qt.IsTrue)
	c.Check(createInfo.Stages[1].Stage == core1_0.StageFragment, qt.IsTrue)
	c.Check(createInfo.Stages[0].Name, qt.Equals, "main")
	c.Check(createInfo.Stages[1].Name, qt.Equals, "main")

	c.Check(createInfo.VertexInputState.VertexBindingDescriptions, qt.HasLen, 0)
	c.Check(createInfo.VertexInputState.VertexAttributeDescriptions, qt.HasLen, 0)
	c.Check(createInfo.InputAssemblyState.Topology == core1_0.PrimitiveTopologyTriangleList, qt.IsTrue)
	c.Check(createInfo.InputAssemblyState.PrimitiveRestartEnable, qt.IsFalse)

	c.Assert(createInfo.ViewportState.Viewports, qt.HasLen, 1)
	c.Assert(createInfo.ViewportState.Scissors, qt.HasLen, 1)
	scissor := createInfo.ViewportState.Scissors[0]
	c.Check(scissor.Offset.X == 0, qt.IsTrue)
	c.Check(scissor.Offset.Y == 0, qt.IsTrue)
	c.Check(scissor.Extent.Width == 800, qt.IsTrue)
	c.Check(scissor.Extent.Height == 600, qt.IsTrue)

	raster := createInfo.RasterizationState
	c.Check(raster.PolygonMode == core1_0.PolygonModeFill, qt.IsTrue)
	c.Check(raster.CullMode == core1_0.CullModeBack, qt.IsTrue)
	c.Check(raster.DepthClampEnable, qt.IsFalse)
	c.Check(raster.RasterizerDiscardEnable, qt.IsFalse)
	c.Check(raster.DepthBiasEnable, qt.IsFalse)
	c.Check(raster.LineWidth, qt.Equals, float32(1))

	c.Check(createInfo.MultisampleState.RasterizationSamples == core1_0.Samples1, qt.IsTrue)
	c.Check(createInfo.MultisampleState.SampleShadingEnable, qt.IsFalse)

	depth := createInfo.DepthStencilState
	c.Check(depth.DepthTestEnable, qt.IsTrue)
	c.Check(depth.DepthWriteEnable, qt.IsTrue)
	c.Check(depth.DepthCompareOp == core1_0.CompareOpLess, qt.IsTrue)

	blend := createInfo.ColorBlendState
	c.Check(blend.LogicOpEnabled, qt.IsFalse)
	c.Assert(blend.Attachments, qt.HasLen, 1)
	c.Check(blend.Attachments[0].BlendEnabled, qt.IsFalse)
	c.Check(blend.Attachments[0].ColorWriteMask == core1_0.ColorComponentRed|core1_0.ColorComponentGreen|core1_0.ColorComponentBlue|core1_0.ColorComponentAlpha, qt.IsTrue)

	c.Check(createInfo.Subpass == 0, qt.IsTrue)
	c.Check(createInfo.BasePipelineIndex == -1, qt.IsTrue)
}

func TestRenderPassCreateInfo(t *testing.T) {
	c := qt.New(t)

	createInfo := renderPassCreateInfo(gpu.RenderPassInfo{
		ColorFormat: core1_0.FormatB8G8R8A8SRGB,
		DepthFormat: core1_0.FormatD32SignedFloat,
	})

	c.Assert(createInfo.Attachments, qt.HasLen, 2)

	color := createInfo.Attachments[0]
	c.Check(color.Format == core1_0.FormatB8G8R8A8SRGB, qt.IsTrue)
	c.Check(color.Samples == core1_0.Samples1, qt.IsTrue)
	c.Check(color.LoadOp == core1_0.AttachmentLoadOpClear, qt.IsTrue)
	c.Check(color.StoreOp == core1_0.AttachmentStoreOpStore, qt.IsTrue)
	c.Check(color.StencilLoadOp == core1_0.AttachmentLoadOpDontCare, qt.IsTrue)
	c.Check(color.StencilStoreOp == core1_0.AttachmentStoreOpDontCare, qt.IsTrue)
	c.Check(color.InitialLayout == core1_0.ImageLayoutUndefined, qt.IsTrue)
	c.Check(color.FinalLayout == khr_swapchain.ImageLayoutPresentSrc, qt.IsTrue)

	depth := createInfo.Attachments[1]
	c.Check(depth.Format == core1_0.FormatD32SignedFloat, qt.IsTrue)
	c.Check(depth.LoadOp == core1_0.AttachmentLoadOpClear, qt.IsTrue)
	c.Check(depth.StoreOp == core1_0.AttachmentStoreOpDontCare, qt.IsTrue)
	c.Check(depth.InitialLayout == core1_0.ImageLayoutUndefined, qt.IsTrue)
	c.Check(depth.FinalLayout == core1_0.ImageLayoutDepthStencilAttachmentOptimal, qt.IsTrue)

	c.Assert(createInfo.Subpasses, qt.HasLen, 1)
	subpass := createInfo.Subpasses[0]
	c.Check(subpass.PipelineBindPoint == core1_0.PipelineBindPointGraphics, qt.IsTrue)
	c.Assert(subpass.ColorAttachments, qt.HasLen, 1)
	c.Check(subpass.ColorAttachments[0].Attachment == 0, qt.IsTrue)
	c.Check(subpass.ColorAttachments[0].Layout == core1_0.ImageLayoutColorAttachmentOptimal, qt.IsTrue)
	c.Assert(subpass.DepthStencilAttachment, qt.IsNotNil)
	c.Check(subpass.DepthStencilAttachment.Attachment == 1, qt.IsTrue)
	c.Check(subpass.DepthStencilAttachment.Layout == core1_0.ImageLayoutDepthStencilAttachmentOptimal, qt.IsTrue)

	c.Assert(createInfo.SubpassDependencies, qt.HasLen, 1)
	dependency := createInfo.SubpassDependencies[0]
	c.Check(dependency.SrcSubpass == core1_0.SubpassExternal, qt.IsTrue)
	c.Check(dependency.DstSubpass == 0, qt.IsTrue)
	c.Check(dependency.SrcStageMask == core1_0.PipelineStageColorAttachmentOutput, qt.IsTrue)
	c.Check(dependency.SrcAccessMask == 0, qt.IsTrue)
	c.Check(dependency.DstStageMask == core1_0.PipelineStageColorAttachmentOutput, qt.IsTrue)
	c.Check(dependency.DstAccessMask == core1_0.AccessColorAttachmentRead|core1_0.AccessColorAttachmentWrite, qt.IsTrue)
}
