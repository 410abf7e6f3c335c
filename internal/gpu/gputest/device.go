package gputest

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/jazz-engine/jazz/internal/gpu"
)

// Device is the fake logical device.
type Device struct {
	*object
	physical *PhysicalDevice
	// Idles counts WaitIdle calls.
	Idles int
}

func (d *Device) Queue(family int) gpu.Queue {
	return &Queue{gpu: d.gpu, Family: family}
}

func (d *Device) CreateSwapchain(info gpu.SwapchainInfo) (gpu.Swapchain, error) {
	o, err := d.gpu.create("CreateSwapchain", "swapchain")
	if err != nil {
		return nil, err
	}
	d.gpu.SwapchainInfo = info

	images := make([]gpu.Image, d.physical.SwapchainImages)
	for i := range images {
		images[i] = &Image{Name: fmt.Sprintf("swapchain image#%d", i), presentable: true}
	}
	return &Swapchain{object: o, images: images}, nil
}

func (d *Device) CreateImage(info gpu.ImageInfo) (gpu.Image, error) {
	o, err := d.gpu.create("CreateImage", "image")
	if err != nil {
		return nil, err
	}
	d.gpu.ImageInfos = append(d.gpu.ImageInfos, info)

	return &Image{
		Name:   o.name,
		object: o,
		requirements: gpu.MemoryRequirements{
			Size:           info.Extent.Width * info.Extent.Height * 4,
			MemoryTypeBits: d.physical.ImageMemoryBits,
		},
	}, nil
}

func (d *Device) AllocateMemory(size int, memoryTypeIndex int) (gpu.Memory, error) {
	o, err := d.gpu.create("AllocateMemory", "memory")
	if err != nil {
		return nil, err
	}
	d.gpu.Allocations = append(d.gpu.Allocations, Allocation{Size: size, MemoryTypeIndex: memoryTypeIndex})
	return &handle{object: o}, nil
}

func (d *Device) CreateImageView(info gpu.ImageViewInfo) (gpu.ImageView, error) {
	o, err := d.gpu.create("CreateImageView", "image view")
	if err != nil {
		return nil, err
	}
	d.gpu.ViewInfos = append(d.gpu.ViewInfos, info)
	return &handle{object: o}, nil
}

func (d *Device) CreateRenderPass(info gpu.RenderPassInfo) (gpu.RenderPass, error) {
	o, err := d.gpu.create("CreateRenderPass", "render pass")
	if err != nil {
		return nil, err
	}
	d.gpu.RenderPassInfo = info
	return &handle{object: o}, nil
}

func (d *Device) CreateShaderModule(code []uint32) (gpu.ShaderModule, error) {
	o, err := d.gpu.create("CreateShaderModule", "shader module")
	if err != nil {
		return nil, err
	}
	d.gpu.ShaderCode = append(d.gpu.ShaderCode, code)
	return &handle{object: o}, nil
}

func (d *Device) CreatePipelineLayout() (gpu.PipelineLayout, error) {
	o, err := d.gpu.create("CreatePipelineLayout", "pipeline layout")
	if err != nil {
		return nil, err
	}
	return &handle{object: o}, nil
}

func (d *Device) CreateGraphicsPipeline(info gpu.PipelineInfo) (gpu.Pipeline, error) {
	o, err := d.gpu.create("CreateGraphicsPipeline", "pipeline")
	if err != nil {
		return nil, err
	}
	d.gpu.PipelineInfo = info
	return &handle{object: o}, nil
}

func (d *Device) CreateFramebuffer(info gpu.FramebufferInfo) (gpu.Framebuffer, error) {
	o, err := d.gpu.create("CreateFramebuffer", "framebuffer")
	if err != nil {
		return nil, err
	}
	return &Framebuffer{object: o, Info: info}, nil
}

func (d *Device) CreateCommandPool(queueFamily int) (gpu.CommandPool, error) {
	o, err := d.gpu.create("CreateCommandPool", "command pool")
	if err != nil {
		return nil, err
	}
	return &CommandPool{object: o, QueueFamily: queueFamily}, nil
}

func (d *Device) CreateSemaphore() (gpu.Semaphore, error) {
	o, err := d.gpu.create("CreateSemaphore", "semaphore")
	if err != nil {
		return nil, err
	}
	return &handle{object: o}, nil
}

func (d *Device) WaitIdle() error {
	if err := d.gpu.fail("WaitIdle"); err != nil {
		return err
	}
	d.Idles++
	d.gpu.record("wait idle")
	return nil
}

// handle backs every fake object that only needs to be destroyed.
type handle struct {
	*object
}

type Image struct {
	*object
	Name         string
	requirements gpu.MemoryRequirements
	presentable  bool
	Memory       gpu.Memory
}

func (i *Image) MemoryRequirements() gpu.MemoryRequirements {
	return i.requirements
}

func (i *Image) BindMemory(memory gpu.Memory) error {
	if i.presentable {
		return errors.Newf("gputest: %s belongs to the swapchain", i.Name)
	}
	if err := i.gpu.fail("BindMemory"); err != nil {
		return err
	}
	i.Memory = memory
	return nil
}

func (i *Image) Destroy() {
	if i.presentable {
		panic(fmt.Sprintf("gputest: %s belongs to the swapchain and must not be destroyed", i.Name))
	}
	i.object.Destroy()
}

type Framebuffer struct {
	*object
	Info gpu.FramebufferInfo
}

type Swapchain struct {
	*object
	images []gpu.Image
	next   int
	// Acquires counts AcquireNextImage calls.
	Acquires int
}

func (s *Swapchain) Images() ([]gpu.Image, error) {
	if err := s.gpu.fail("SwapchainImages"); err != nil {
		return nil, err
	}
	return s.images, nil
}

func (s *Swapchain) AcquireNextImage(signal gpu.Semaphore) (int, error) {
	if err := s.gpu.fail("AcquireNextImage"); err != nil {
		return 0, err
	}
	s.Acquires++

	if s.gpu.NextImage != nil {
		return s.gpu.NextImage(), nil
	}
	index := s.next
	s.next = (s.next + 1) % len(s.images)
	return index, nil
}

type CommandPool struct {
	*object
	QueueFamily int
}

func (p *CommandPool) AllocateCommandBuffers(count int) ([]gpu.CommandBuffer, error) {
	if err := p.gpu.fail("AllocateCommandBuffers"); err != nil {
		return nil, err
	}

	buffers := make([]gpu.CommandBuffer, 0, count)
	for i := 0; i < count; i++ {
		buffer := &CommandBuffer{gpu: p.gpu}
		p.gpu.CommandBuffers = append(p.gpu.CommandBuffers, buffer)
		buffers = append(buffers, buffer)
	}
	return buffers, nil
}

// CommandBuffer records the commands issued to it as readable strings.
type CommandBuffer struct {
	gpu *GPU

	Commands  []string
	BeginInfo gpu.RenderPassBeginInfo
	Pipeline  gpu.Pipeline
}

func (b *CommandBuffer) Begin() error {
	if err := b.gpu.fail("Begin"); err != nil {
		return err
	}
	b.Commands = append(b.Commands, "begin")
	return nil
}

func (b *CommandBuffer) BeginRenderPass(info gpu.RenderPassBeginInfo) error {
	if err := b.gpu.fail("BeginRenderPass"); err != nil {
		return err
	}
	b.BeginInfo = info
	b.Commands = append(b.Commands, "begin render pass")
	return nil
}

func (b *CommandBuffer) BindPipeline(pipeline gpu.Pipeline) {
	b.Pipeline = pipeline
	b.Commands = append(b.Commands, "bind pipeline")
}

func (b *CommandBuffer) Draw(vertexCount, instanceCount int) {
	b.Commands = append(b.Commands, fmt.Sprintf("draw %d %d", vertexCount, instanceCount))
}

func (b *CommandBuffer) EndRenderPass() {
	b.Commands = append(b.Commands, "end render pass")
}

func (b *CommandBuffer) End() error {
	if err := b.gpu.fail("End"); err != nil {
		return err
	}
	b.Commands = append(b.Commands, "end")
	return nil
}

type Queue struct {
	gpu    *GPU
	Family int
}

func (q *Queue) Submit(info gpu.SubmitInfo) error {
	if err := q.gpu.fail("Submit"); err != nil {
		return err
	}
	q.gpu.Submissions = append(q.gpu.Submissions, Submission{QueueFamily: q.Family, Info: info})
	return nil
}

func (q *Queue) Present(info gpu.PresentInfo) error {
	if err := q.gpu.fail("Present"); err != nil {
		return err
	}
	q.gpu.Presentations = append(q.gpu.Presentations, Presentation{QueueFamily: q.Family, Info: info})
	return nil
}
