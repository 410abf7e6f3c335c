package renderer

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/jazz-engine/jazz/internal/gpu"
)

const shaderEntryPoint = "main"

func (r *VulkanRenderer) createRenderPass() error {
	var err error
	r.renderPass, err = r.device.CreateRenderPass(gpu.RenderPassInfo{
		ColorFormat: r.swapchainFormat.Format,
		DepthFormat: r.depthFormat,
	})
	if err != nil {
		return err
	}
	r.teardown.push("render pass", r.renderPass)
	return nil
}

func bytesToBytecode(b []byte) []uint32 {
	byteCode := make([]uint32, len(b)/4)
	for i := 0; i < len(byteCode); i++ {
		byteIndex := i * 4
		byteCode[i] = 0
		byteCode[i] |= uint32(b[byteIndex])
		byteCode[i] |= uint32(b[byteIndex+1]) << 8
		byteCode[i] |= uint32(b[byteIndex+2]) << 16
		byteCode[i] |= uint32(b[byteIndex+3]) << 24
	}

	return byteCode
}

// shaderPath is <dir>/<name>.<stage>.spv.
func shaderPath(dir, name, stage string) string {
	return filepath.Join(dir, name+"."+stage+".spv")
}

// loadShader reads a whole SPIR-V file into words.
func loadShader(path string) ([]uint32, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "read shader %s", path), ErrShaderUnreadable)
	}

	if len(b) == 0 || len(b)%4 != 0 {
		return nil, errors.Wrapf(ErrShaderUnreadable, "%s: size %d is not a whole number of words", path, len(b))
	}

	return bytesToBytecode(b), nil
}

func (r *VulkanRenderer) createShaderModule(stage string) (gpu.ShaderModule, error) {
	code, err := loadShader(shaderPath(r.cfg.ShaderDirectory, r.cfg.ShaderName, stage))
	if err != nil {
		return nil, err
	}

	return r.device.CreateShaderModule(code)
}

func (r *VulkanRenderer) createGraphicsPipeline() error {
	vertShader, err := r.createShaderModule("vert")
	if err != nil {
		return err
	}
	defer vertShader.Destroy()

	fragShader, err := r.createShaderModule("frag")
	if err != nil {
		return err
	}
	defer fragShader.Destroy()

	r.pipelineLayout, err = r.device.CreatePipelineLayout()
	if err != nil {
		return err
	}
	r.teardown.push("pipeline layout", r.pipelineLayout)

	r.pipeline, err = r.device.CreateGraphicsPipeline(gpu.PipelineInfo{
		VertexShader:   vertShader,
		FragmentShader: fragShader,
		EntryPoint:     shaderEntryPoint,
		Layout:         r.pipelineLayout,
		RenderPass:     r.renderPass,
		Extent:         r.swapchainExtent,
		FlipViewportY:  r.cfg.FlipViewportY,
	})
	if err != nil {
		return err
	}
	r.teardown.push("graphics pipeline", r.pipeline)
	return nil
}
