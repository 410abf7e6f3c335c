package gpu

import (
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/khr_surface"
)

type SwapchainInfo struct {
	Surface       Surface
	MinImageCount int
	Format        khr_surface.SurfaceFormat
	PresentMode   khr_surface.PresentMode
	Extent        core1_0.Extent2D

	// SharingMode is concurrent across QueueFamilyIndices, or exclusive with
	// an empty list.
	SharingMode        core1_0.SharingMode
	QueueFamilyIndices []int

	// Capabilities supplies the current pre-transform.
	Capabilities *khr_surface.SurfaceCapabilities
}

// Swapchain owns its images; they must not be destroyed individually.
type Swapchain interface {
	Images() ([]Image, error)
	// AcquireNextImage blocks without timeout until an image is available and
	// arranges for signal to be signalled once it can be rendered to.
	AcquireNextImage(signal Semaphore) (int, error)
	Destroy()
}

type MemoryRequirements struct {
	Size           int
	MemoryTypeBits uint32
}

type ImageInfo struct {
	Extent core1_0.Extent2D
	Format core1_0.Format
	Tiling core1_0.ImageTiling
	Usage  core1_0.ImageUsageFlags
}

type Image interface {
	MemoryRequirements() MemoryRequirements
	BindMemory(memory Memory) error
	Destroy()
}

type Memory interface {
	Destroyer
}

type ImageViewInfo struct {
	Image  Image
	Format core1_0.Format
	Aspect core1_0.ImageAspectFlags
}

type ImageView interface {
	Destroyer
}

// RenderPassInfo describes the single colour + depth pass the renderer uses.
type RenderPassInfo struct {
	ColorFormat core1_0.Format
	DepthFormat core1_0.Format
}

type RenderPass interface {
	Destroyer
}

type ShaderModule interface {
	Destroyer
}

type PipelineLayout interface {
	Destroyer
}

type PipelineInfo struct {
	VertexShader   ShaderModule
	FragmentShader ShaderModule
	EntryPoint     string

	Layout     PipelineLayout
	RenderPass RenderPass
	Extent     core1_0.Extent2D

	// FlipViewportY negates the viewport height and moves its origin to the
	// bottom edge. The front face winding flips with it so culling keeps the
	// same triangles.
	FlipViewportY bool
}

type Pipeline interface {
	Destroyer
}

type FramebufferInfo struct {
	RenderPass  RenderPass
	Attachments []ImageView
	Extent      core1_0.Extent2D
}

type Framebuffer interface {
	Destroyer
}

// CommandPool frees the buffers allocated from it when destroyed.
type CommandPool interface {
	AllocateCommandBuffers(count int) ([]CommandBuffer, error)
	Destroy()
}

type RenderPassBeginInfo struct {
	RenderPass   RenderPass
	Framebuffer  Framebuffer
	Extent       core1_0.Extent2D
	ClearColor   [4]float32
	ClearDepth   float32
	ClearStencil uint32
}

type CommandBuffer interface {
	Begin() error
	BeginRenderPass(info RenderPassBeginInfo) error
	BindPipeline(pipeline Pipeline)
	// Draw issues a non-indexed draw starting at vertex 0, instance 0.
	Draw(vertexCount, instanceCount int)
	EndRenderPass()
	End() error
}

type Semaphore interface {
	Destroyer
}

type SubmitInfo struct {
	WaitSemaphores   []Semaphore
	WaitDstStageMask []core1_0.PipelineStageFlags
	CommandBuffers   []CommandBuffer
	SignalSemaphores []Semaphore
}

type PresentInfo struct {
	WaitSemaphores []Semaphore
	Swapchain      Swapchain
	ImageIndex     int
}

type Queue interface {
	Submit(info SubmitInfo) error
	Present(info PresentInfo) error
}
